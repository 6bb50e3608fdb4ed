// Package courseedit stages edits to a course's hole list and commits them
// as one replace-all operation.
//
// The working list is always numbered by position: after any add, remove or
// move, hole i carries hole number i+1.
package courseedit

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/discman/internal/model"
)

// Store is the subset of the entity store the editor needs.
// *store.Store satisfies it.
type Store interface {
	GetCourse(ctx context.Context, id int64) (model.Course, bool, error)
	ListHoles(ctx context.Context, courseID int64) ([]model.Hole, error)
	InsertCourse(ctx context.Context, c model.Course) (int64, error)
	UpdateCourse(ctx context.Context, c model.Course) error
	DeleteHolesByCourse(ctx context.Context, courseID int64) error
	InsertHoles(ctx context.Context, holes []model.Hole) error
}

// Editor holds an in-memory working copy of one course and its holes.
// An Editor is not safe for concurrent use.
type Editor struct {
	store  Store
	logger *slog.Logger

	course model.Course
	holes  []model.Hole
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the editor's logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = l
	}
}

// New starts editing a new, empty course.
func New(st Store, opts ...Option) *Editor {
	e := &Editor{store: st, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load starts editing an existing course with its stored holes.
func Load(ctx context.Context, st Store, courseID int64, opts ...Option) (*Editor, error) {
	course, ok, err := st.GetCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("load course %d: %w", courseID, ErrCourseNotFound)
	}

	holes, err := st.ListHoles(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course holes: %w", err)
	}

	e := New(st, opts...)
	e.course = course
	e.holes = holes
	return e, nil
}

// Course returns the working copy of the course.
func (e *Editor) Course() model.Course {
	return e.course
}

// Holes returns a copy of the working hole list.
func (e *Editor) Holes() []model.Hole {
	return slices.Clone(e.holes)
}

// IsNew reports whether the course has never been committed.
func (e *Editor) IsNew() bool {
	return e.course.ID == 0
}

// SetName sets the course name.
func (e *Editor) SetName(name string) {
	e.course.Name = name
}

// SetLocation sets the course location.
func (e *Editor) SetLocation(location string) {
	e.course.Location = location
}

// AddHole appends a hole numbered after the current last hole with default
// par and no distance or description.
func (e *Editor) AddHole() model.Hole {
	h := model.Hole{
		CourseID:   e.course.ID,
		HoleNumber: len(e.holes) + 1,
		Par:        model.DefaultPar,
	}
	e.holes = append(e.holes, h)
	return h
}

// RemoveHole removes the hole at index and renumbers the rest.
func (e *Editor) RemoveHole(index int) error {
	if !e.inRange(index) {
		return fmt.Errorf("remove hole %d of %d: %w", index, len(e.holes), ErrIndexOutOfRange)
	}

	e.holes = slices.Delete(e.holes, index, index+1)
	renumber(e.holes)
	return nil
}

// MoveHole relocates the hole at from to position to and renumbers.
func (e *Editor) MoveHole(from, to int) error {
	if !e.inRange(from) || !e.inRange(to) {
		return fmt.Errorf("move hole %d to %d of %d: %w", from, to, len(e.holes), ErrIndexOutOfRange)
	}

	h := e.holes[from]
	e.holes = slices.Delete(e.holes, from, from+1)
	e.holes = slices.Insert(e.holes, to, h)
	renumber(e.holes)
	return nil
}

// UpdateHole replaces the hole at index. The slot keeps its hole number and
// course, so numbering is unaffected.
func (e *Editor) UpdateHole(index int, h model.Hole) error {
	if !e.inRange(index) {
		return fmt.Errorf("update hole %d of %d: %w", index, len(e.holes), ErrIndexOutOfRange)
	}

	h.HoleNumber = e.holes[index].HoleNumber
	h.CourseID = e.holes[index].CourseID
	e.holes[index] = h
	return nil
}

// Commit stores the course and replaces its holes with the working list.
// Returns the course ID.
//
// The course row is inserted when new and updated otherwise. Then every
// stored hole of the course is deleted and the working list inserted. These
// are two separate writes: when the insert fails after the delete succeeded
// the course is left without holes and a *PartialCommitError is returned.
//
// A blank name returns ErrBlankName and nothing is written. Invalid holes
// are rejected the same way.
func (e *Editor) Commit(ctx context.Context) (int64, error) {
	if model.IsBlank(e.course.Name) {
		return 0, ErrBlankName
	}
	if err := e.course.Validate(); err != nil {
		return 0, fmt.Errorf("invalid course: %w", err)
	}
	for _, h := range e.holes {
		if err := h.Validate(); err != nil {
			return 0, fmt.Errorf("invalid hole %d: %w", h.HoleNumber, err)
		}
	}

	courseID := e.course.ID
	if courseID == 0 {
		id, err := e.store.InsertCourse(ctx, e.course)
		if err != nil {
			return 0, fmt.Errorf("commit course: %w", err)
		}
		courseID = id
		e.logger.Debug("course inserted", "course_id", courseID)
	} else {
		if err := e.store.UpdateCourse(ctx, e.course); err != nil {
			return 0, fmt.Errorf("commit course: %w", err)
		}
		e.logger.Debug("course updated", "course_id", courseID)
	}
	e.course.ID = courseID

	if err := e.store.DeleteHolesByCourse(ctx, courseID); err != nil {
		return courseID, fmt.Errorf("commit holes: %w", err)
	}

	staged := make([]model.Hole, len(e.holes))
	for i, h := range e.holes {
		h.ID = 0
		h.CourseID = courseID
		staged[i] = h
	}

	if err := e.store.InsertHoles(ctx, staged); err != nil {
		e.logger.Error("course left without holes", "course_id", courseID, "staged", len(staged), "error", err)
		return courseID, &PartialCommitError{CourseID: courseID, Err: err}
	}

	e.holes = staged
	e.logger.Info("course committed", "course_id", courseID, "holes", len(staged))
	return courseID, nil
}

func (e *Editor) inRange(index int) bool {
	return index >= 0 && index < len(e.holes)
}

// renumber sets every hole's number to its position + 1.
// On an already contiguous list it changes nothing.
func renumber(holes []model.Hole) {
	for i := range holes {
		holes[i].HoleNumber = i + 1
	}
}
