package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/discman/internal/model"
)

const holeColumns = `id, course_id, hole_number, par, distance, description, latitude, longitude`

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// InsertHole inserts a single hole and returns its assigned ID.
// Fails with *ConstraintError if the course does not exist or the hole
// number is already taken on that course.
func (s *Store) InsertHole(ctx context.Context, h model.Hole) (int64, error) {
	id, err := insertHole(ctx, s.db, h)
	if err != nil {
		return 0, err
	}

	s.notify(Change{Table: TableHoles, CourseID: h.CourseID})
	return id, nil
}

// InsertHoles inserts a batch of holes in one transaction.
// Either every hole is stored or none is.
func (s *Store) InsertHoles(ctx context.Context, holes []model.Hole) error {
	if len(holes) == 0 {
		return nil
	}

	err := s.withTx(ctx, "insert holes", func(tx *sql.Tx) error {
		for _, h := range holes {
			if _, err := insertHole(ctx, tx, h); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notify(holeChanges(holes)...)
	return nil
}

func insertHole(ctx context.Context, ex execer, h model.Hole) (int64, error) {
	result, err := ex.ExecContext(ctx, `
		INSERT INTO holes
		(course_id, hole_number, par, distance, description, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		h.CourseID,
		h.HoleNumber,
		h.Par,
		h.Distance,
		h.Description,
		h.Latitude,
		h.Longitude,
	)
	if err != nil {
		return 0, wrapErr("insert hole", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert hole: last insert id: %w", err)
	}
	return id, nil
}

// UpdateHole replaces every column of the hole with h.ID.
// Returns ErrNotFound if the hole does not exist.
func (s *Store) UpdateHole(ctx context.Context, h model.Hole) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE holes
		SET course_id = ?, hole_number = ?, par = ?, distance = ?, description = ?, latitude = ?, longitude = ?
		WHERE id = ?
	`,
		h.CourseID,
		h.HoleNumber,
		h.Par,
		h.Distance,
		h.Description,
		h.Latitude,
		h.Longitude,
		h.ID,
	)
	if err != nil {
		return wrapErr("update hole", err)
	}

	if err := requireAffected(result, "update hole", h.ID); err != nil {
		return err
	}

	s.notify(Change{Table: TableHoles, CourseID: h.CourseID})
	return nil
}

// DeleteHole removes a single hole. Remaining holes are not renumbered;
// callers that need contiguous numbering go through the course editor.
func (s *Store) DeleteHole(ctx context.Context, id int64) error {
	var courseID int64
	err := s.db.QueryRowContext(ctx, `
		DELETE FROM holes WHERE id = ? RETURNING course_id
	`, id).Scan(&courseID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return wrapErr("delete hole", err)
	}

	s.notify(Change{Table: TableHoles, CourseID: courseID})
	return nil
}

// DeleteHolesByCourse removes every hole of a course.
func (s *Store) DeleteHolesByCourse(ctx context.Context, courseID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM holes WHERE course_id = ?`, courseID); err != nil {
		return wrapErr("delete holes by course", err)
	}

	s.notify(Change{Table: TableHoles, CourseID: courseID})
	return nil
}

// GetHole retrieves a hole by course and hole number. ok is false if absent.
func (s *Store) GetHole(ctx context.Context, courseID int64, holeNumber int) (model.Hole, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+holeColumns+` FROM holes
		WHERE course_id = ? AND hole_number = ?
	`, courseID, holeNumber)

	h, err := scanHole(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Hole{}, false, nil
	}
	if err != nil {
		return model.Hole{}, false, fmt.Errorf("get hole: %w", err)
	}
	return h, true, nil
}

// ListHoles returns the holes of a course ordered by hole number ascending.
func (s *Store) ListHoles(ctx context.Context, courseID int64) ([]model.Hole, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+holeColumns+` FROM holes
		WHERE course_id = ?
		ORDER BY hole_number ASC
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("query holes: %w", err)
	}
	defer rows.Close()

	holes := []model.Hole{}
	for rows.Next() {
		h, err := scanHole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hole: %w", err)
		}
		holes = append(holes, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holes: %w", err)
	}
	return holes, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanHole(r rowScanner) (model.Hole, error) {
	var (
		h           model.Hole
		distance    sql.NullInt64
		description sql.NullString
		latitude    sql.NullFloat64
		longitude   sql.NullFloat64
	)

	if err := r.Scan(
		&h.ID,
		&h.CourseID,
		&h.HoleNumber,
		&h.Par,
		&distance,
		&description,
		&latitude,
		&longitude,
	); err != nil {
		return model.Hole{}, err
	}

	if distance.Valid {
		h.Distance = model.IntPtr(int(distance.Int64))
	}
	if description.Valid {
		h.Description = model.StringPtr(description.String)
	}
	if latitude.Valid {
		h.Latitude = model.FloatPtr(latitude.Float64)
	}
	if longitude.Valid {
		h.Longitude = model.FloatPtr(longitude.Float64)
	}
	return h, nil
}

// holeChanges returns one change per distinct course in holes.
func holeChanges(holes []model.Hole) []Change {
	seen := make(map[int64]bool)
	var changes []Change
	for _, h := range holes {
		if seen[h.CourseID] {
			continue
		}
		seen[h.CourseID] = true
		changes = append(changes, Change{Table: TableHoles, CourseID: h.CourseID})
	}
	return changes
}
