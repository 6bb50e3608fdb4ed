package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/discman/internal/model"
)

func TestInsertCourse_AssignsIncreasingIDs(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	id1, err := s.InsertCourse(ctx, model.Course{Name: "Riverside", Location: "North"})
	require.NoError(t, err)
	id2, err := s.InsertCourse(ctx, model.Course{Name: "Hilltop"})
	require.NoError(t, err)

	assert.Greater(t, id2, id1)

	got, ok, err := s.GetCourse(ctx, id1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.Course{ID: id1, Name: "Riverside", Location: "North"}, got)
}

func TestInsertCourse_NormalizesName(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	id, err := s.InsertCourse(ctx, model.Course{Name: "  Riverside  "})
	require.NoError(t, err)

	got, _, err := s.GetCourse(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Riverside", got.Name)
}

func TestGetCourse_Absent(t *testing.T) {
	s := createTestStore(t)

	_, ok, err := s.GetCourse(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateCourse(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	id, err := s.InsertCourse(ctx, model.Course{Name: "Old"})
	require.NoError(t, err)

	require.NoError(t, s.UpdateCourse(ctx, model.Course{ID: id, Name: "New", Location: "Park"}))

	got, _, err := s.GetCourse(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, "Park", got.Location)
}

func TestUpdateCourse_NotFound(t *testing.T) {
	s := createTestStore(t)

	err := s.UpdateCourse(context.Background(), model.Course{ID: 99, Name: "Ghost"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsNotFound(err))
}

func TestListCourses_OrderedByName(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Riverside", "Aspen Ridge", "Meadow"} {
		_, err := s.InsertCourse(ctx, model.Course{Name: name})
		require.NoError(t, err)
	}

	courses, err := s.ListCourses(ctx)
	require.NoError(t, err)

	names := make([]string, len(courses))
	for i, c := range courses {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Aspen Ridge", "Meadow", "Riverside"}, names)
}

func TestListCourses_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)

	courses, err := s.ListCourses(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, courses)
	assert.Empty(t, courses)
}

func TestDeleteCourse_Cascades(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	courseID, holes := seedCourse(t, s, "Riverside", 3, 3, 4)
	alice := seedPlayer(t, s, "Alice")
	bob := seedPlayer(t, s, "Bob")
	gameID := seedGame(t, s, courseID, holes, alice, bob)

	require.NoError(t, s.DeleteCourse(ctx, courseID))

	_, ok, err := s.GetGame(ctx, gameID)
	require.NoError(t, err)
	assert.False(t, ok, "game should be removed with its course")

	cells, err := s.ListThrows(ctx, gameID)
	require.NoError(t, err)
	assert.Empty(t, cells)

	roster, err := s.ListGamePlayers(ctx, gameID)
	require.NoError(t, err)
	assert.Empty(t, roster)

	remaining, err := s.ListHoles(ctx, courseID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// Players are not owned by the course.
	_, ok, err = s.GetPlayer(ctx, alice)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeleteCourse_AbsentIsNoop(t *testing.T) {
	s := createTestStore(t)
	changes := recordChanges(t, s)

	require.NoError(t, s.DeleteCourse(context.Background(), 7))
	assert.Empty(t, *changes, "no-op delete must not announce changes")
}

func TestCourseWrites_AnnounceChanges(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	changes := recordChanges(t, s)

	id, err := s.InsertCourse(ctx, model.Course{Name: "Riverside"})
	require.NoError(t, err)
	require.NoError(t, s.DeleteCourse(ctx, id))

	require.NotEmpty(t, *changes)
	assert.Equal(t, Change{Table: TableCourses}, (*changes)[0])
	assert.Contains(t, *changes, Change{Table: TableHoles, CourseID: id})
	assert.Contains(t, *changes, Change{Table: TableGames})
}
