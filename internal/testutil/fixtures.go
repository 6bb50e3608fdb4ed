// Package testutil holds helpers shared by package tests: a deterministic
// clock and store fixtures.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/discman/internal/model"
	"github.com/roach88/discman/internal/store"
)

// RiversidePars are the pars of the three-hole course used across tests.
var RiversidePars = []int{3, 4, 3}

// OpenStore opens a store on a fresh database in t's temp dir.
// The store is closed when the test ends.
func OpenStore(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// SeedCourse inserts a course with one hole per par value and returns the
// course ID and the stored holes.
func SeedCourse(t testing.TB, s *store.Store, name string, pars ...int) (int64, []model.Hole) {
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

// SeedPlayers inserts one player per name.
func SeedPlayers(t testing.TB, s *store.Store, names ...string) []model.Player {
	t.Helper()

	players := make([]model.Player, len(names))
	for i, name := range names {
		id, err := s.InsertPlayer(context.Background(), model.Player{Name: name})
		require.NoError(t, err)
		players[i] = model.Player{ID: id, Name: name}
	}
	return players
}
