package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/discman/internal/model"
)

// InsertCourse inserts a course and returns its assigned ID.
// The course's ID field is ignored.
func (s *Store) InsertCourse(ctx context.Context, c model.Course) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO courses (name, location) VALUES (?, ?)
	`, model.NormalizeName(c.Name), c.Location)
	if err != nil {
		return 0, wrapErr("insert course", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert course: last insert id: %w", err)
	}

	s.notify(Change{Table: TableCourses})
	return id, nil
}

// UpdateCourse replaces the name and location of an existing course.
// Returns ErrNotFound if no course has c.ID.
func (s *Store) UpdateCourse(ctx context.Context, c model.Course) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE courses SET name = ?, location = ? WHERE course_id = ?
	`, model.NormalizeName(c.Name), c.Location, c.ID)
	if err != nil {
		return wrapErr("update course", err)
	}

	if err := requireAffected(result, "update course", c.ID); err != nil {
		return err
	}

	s.notify(Change{Table: TableCourses})
	return nil
}

// DeleteCourse removes a course. Its holes and games, and the games' roster
// rows and throw cells, are removed by cascade. Deleting an absent course is a no-op.
func (s *Store) DeleteCourse(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE course_id = ?`, id)
	if err != nil {
		return wrapErr("delete course", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return nil
	}

	s.notify(
		Change{Table: TableCourses},
		Change{Table: TableHoles, CourseID: id},
		Change{Table: TableGames},
		Change{Table: TableGamePlayers},
		Change{Table: TableThrows},
	)
	return nil
}

// GetCourse retrieves a course by ID. ok is false if it does not exist.
func (s *Store) GetCourse(ctx context.Context, id int64) (c model.Course, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT course_id, name, location FROM courses WHERE course_id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Location)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Course{}, false, nil
	}
	if err != nil {
		return model.Course{}, false, fmt.Errorf("get course: %w", err)
	}
	return c, true, nil
}

// ListCourses returns all courses ordered by name ascending.
func (s *Store) ListCourses(ctx context.Context) ([]model.Course, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT course_id, name, location FROM courses
		ORDER BY name ASC, course_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Location); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	return courses, nil
}

// requireAffected returns ErrNotFound when an update matched no row.
func requireAffected(result sql.Result, op string, id any) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %v: %w", op, id, ErrNotFound)
	}
	return nil
}
