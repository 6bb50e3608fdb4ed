package courseio

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/discman/internal/courseedit"
)

// Store is what import and export need from the entity store.
// *store.Store satisfies it.
type Store interface {
	courseedit.Store
}

// Import decodes a course document from r, validates it and stores it as a
// new course. Returns the new course ID.
func Import(ctx context.Context, st Store, r io.Reader, logger *slog.Logger) (int64, error) {
	doc, err := Decode(r)
	if err != nil {
		return 0, err
	}
	return apply(ctx, courseedit.New(st, courseedit.WithLogger(orDefault(logger))), doc)
}

// Replace decodes a course document from r and overwrites the name,
// location and holes of an existing course.
func Replace(ctx context.Context, st Store, courseID int64, r io.Reader, logger *slog.Logger) error {
	doc, err := Decode(r)
	if err != nil {
		return err
	}

	ed, err := courseedit.Load(ctx, st, courseID, courseedit.WithLogger(orDefault(logger)))
	if err != nil {
		return err
	}
	for len(ed.Holes()) > 0 {
		if err := ed.RemoveHole(0); err != nil {
			return err
		}
	}

	_, err = apply(ctx, ed, doc)
	return err
}

// Export writes the stored course as a YAML document.
func Export(ctx context.Context, st Store, courseID int64, w io.Writer) error {
	c, ok, err := st.GetCourse(ctx, courseID)
	if err != nil {
		return fmt.Errorf("export course: %w", err)
	}
	if !ok {
		return fmt.Errorf("export course %d: %w", courseID, courseedit.ErrCourseNotFound)
	}

	holes, err := st.ListHoles(ctx, courseID)
	if err != nil {
		return fmt.Errorf("export holes: %w", err)
	}
	return Encode(w, FromModel(c, holes))
}

func apply(ctx context.Context, ed *courseedit.Editor, doc Document) (int64, error) {
	if err := Validate(doc); err != nil {
		return 0, err
	}

	ed.SetName(doc.Name)
	ed.SetLocation(doc.Location)
	for _, hd := range doc.Holes {
		ed.AddHole()
		if err := ed.UpdateHole(len(ed.Holes())-1, hd.hole()); err != nil {
			return 0, err
		}
	}
	return ed.Commit(ctx)
}

func orDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
