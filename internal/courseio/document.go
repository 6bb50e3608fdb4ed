// Package courseio reads and writes course documents.
//
// A course document is YAML:
//
//	name: Riverside
//	location: Portland
//	holes:
//	  - par: 3
//	    distance: 95
//	  - par: 4
//	    description: dogleg left
//
// Holes are listed in play order; hole numbers are assigned on import.
// Documents are decoded strictly (unknown fields are errors) and checked
// against the embedded CUE schema before anything is written.
package courseio

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/discman/internal/model"
)

//go:embed course.cue
var schemaSource string

// Document is the serialized form of a course and its holes.
// The json tags drive CUE encoding.
type Document struct {
	Name     string    `yaml:"name" json:"name"`
	Location string    `yaml:"location,omitempty" json:"location,omitempty"`
	Holes    []HoleDoc `yaml:"holes" json:"holes"`
}

// HoleDoc is one hole of a Document.
type HoleDoc struct {
	Par         int      `yaml:"par" json:"par"`
	Distance    *int     `yaml:"distance,omitempty" json:"distance,omitempty"`
	Description *string  `yaml:"description,omitempty" json:"description,omitempty"`
	Latitude    *float64 `yaml:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude   *float64 `yaml:"longitude,omitempty" json:"longitude,omitempty"`
}

// ValidationError reports a document that does not satisfy the schema.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid course document: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid course document: %d problems, first: %s", len(e.Problems), e.Problems[0])
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	schemaOnce sync.Once
	schemaMu   sync.Mutex
	schemaCtx  *cue.Context
	courseDef  cue.Value
	schemaErr  error
)

func courseSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(schemaSource, cue.Filename("course.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile course schema: %w", err)
			return
		}
		courseDef = v.LookupPath(cue.ParsePath("#Course"))
	})
	return schemaCtx, courseDef, schemaErr
}

// Decode parses a YAML course document. Unknown fields are rejected.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, &ValidationError{Problems: []string{"empty document"}}
		}
		return Document{}, fmt.Errorf("parse course document: %w", err)
	}
	return doc, nil
}

// Validate checks doc against the course schema.
func Validate(doc Document) error {
	ctx, def, err := courseSchema()
	if err != nil {
		return err
	}
	if doc.Holes == nil {
		doc.Holes = []HoleDoc{}
	}

	schemaMu.Lock()
	defer schemaMu.Unlock()

	v := def.Unify(ctx.Encode(doc))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		var problems []string
		for _, e := range cueerrors.Errors(err) {
			problems = append(problems, e.Error())
		}
		if len(problems) == 0 {
			problems = []string{err.Error()}
		}
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Encode writes doc as YAML.
func Encode(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode course document: %w", err)
	}
	return enc.Close()
}

// FromModel builds a document from a stored course and its holes.
// holes must be in hole number order.
func FromModel(c model.Course, holes []model.Hole) Document {
	doc := Document{
		Name:     c.Name,
		Location: c.Location,
		Holes:    make([]HoleDoc, len(holes)),
	}
	for i, h := range holes {
		doc.Holes[i] = HoleDoc{
			Par:         h.Par,
			Distance:    h.Distance,
			Description: h.Description,
			Latitude:    h.Latitude,
			Longitude:   h.Longitude,
		}
	}
	return doc
}

// hole converts a HoleDoc to a model hole without number or course.
func (h HoleDoc) hole() model.Hole {
	return model.Hole{
		Par:         h.Par,
		Distance:    h.Distance,
		Description: h.Description,
		Latitude:    h.Latitude,
		Longitude:   h.Longitude,
	}
}
