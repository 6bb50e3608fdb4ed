package courseedit

import (
	"errors"
	"fmt"
)

var (
	// ErrBlankName is returned by Commit when the course name is empty or
	// whitespace. Nothing is written.
	ErrBlankName = errors.New("course name is blank")

	// ErrIndexOutOfRange is returned when a hole index does not address the
	// working list. The working list is left unchanged.
	ErrIndexOutOfRange = errors.New("hole index out of range")

	// ErrCourseNotFound is returned by Load for an unknown course ID.
	ErrCourseNotFound = errors.New("course not found")
)

// PartialCommitError reports that the old holes of a course were deleted but
// the staged holes could not be inserted. The course exists with no holes;
// retrying Commit re-inserts the staged list.
type PartialCommitError struct {
	CourseID int64
	Err      error
}

// Error implements the error interface.
func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("partial commit of course %d: holes deleted but insert failed: %v", e.CourseID, e.Err)
}

func (e *PartialCommitError) Unwrap() error {
	return e.Err
}

// IsPartialCommit returns true if err is, or wraps, a *PartialCommitError.
func IsPartialCommit(err error) bool {
	var pe *PartialCommitError
	return errors.As(err, &pe)
}
