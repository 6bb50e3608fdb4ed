package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/discman/internal/model"
)

// createTestStore creates a new store backed by a temporary database file.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedCourse inserts a course with one hole per par value.
func seedCourse(t *testing.T, s *Store, name string, pars ...int) (int64, []model.Hole) {
	t.Helper()
	ctx := context.Background()

	id, err := s.InsertCourse(ctx, model.Course{Name: name, Location: "Test Park"})
	require.NoError(t, err)

	holes := make([]model.Hole, len(pars))
	for i, par := range pars {
		holes[i] = model.Hole{CourseID: id, HoleNumber: i + 1, Par: par}
	}
	require.NoError(t, s.InsertHoles(ctx, holes))

	stored, err := s.ListHoles(ctx, id)
	require.NoError(t, err)
	return id, stored
}

// seedPlayer inserts a player and returns its ID.
func seedPlayer(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	id, err := s.InsertPlayer(context.Background(), model.Player{Name: name})
	require.NoError(t, err)
	return id
}

// seedGame creates a game with every player's cells seeded to par.
func seedGame(t *testing.T, s *Store, courseID int64, holes []model.Hole, playerIDs ...int64) int64 {
	t.Helper()

	var cells []model.ThrowCell
	for _, pid := range playerIDs {
		for _, h := range holes {
			cells = append(cells, model.ThrowCell{PlayerID: pid, HoleNumber: h.HoleNumber, NumberOfThrows: h.Par})
		}
	}

	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	id, err := s.CreateGame(context.Background(), model.Game{CourseID: courseID, StartDate: start}, playerIDs, cells)
	require.NoError(t, err)
	return id
}

// recordChanges collects every change announced by s.
func recordChanges(t *testing.T, s *Store) *[]Change {
	t.Helper()
	var changes []Change
	remove := s.OnChange(func(c Change) { changes = append(changes, c) })
	t.Cleanup(remove)
	return &changes
}
