package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/discman/internal/model"
)

func TestInsertHole_OptionalFieldsRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	courseID, err := s.InsertCourse(ctx, model.Course{Name: "Riverside"})
	require.NoError(t, err)

	h := model.Hole{
		CourseID:    courseID,
		HoleNumber:  1,
		Par:         4,
		Distance:    model.IntPtr(210),
		Description: model.StringPtr("Dogleg left"),
		Latitude:    model.FloatPtr(59.33),
		Longitude:   model.FloatPtr(18.06),
	}
	id, err := s.InsertHole(ctx, h)
	require.NoError(t, err)
	h.ID = id

	got, ok, err := s.GetHole(ctx, courseID, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, h, got)
}

func TestInsertHole_NullOptionalFields(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	courseID, _ := seedCourse(t, s, "Riverside", 3)

	got, ok, err := s.GetHole(ctx, courseID, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, got.Distance)
	assert.Nil(t, got.Description)
	assert.Nil(t, got.Latitude)
	assert.Nil(t, got.Longitude)
}

func TestInsertHole_MissingCourseIsConstraintViolation(t *testing.T) {
	s := createTestStore(t)

	_, err := s.InsertHole(context.Background(), model.Hole{CourseID: 404, HoleNumber: 1, Par: 3})
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err), "got %v", err)
}

func TestInsertHole_DuplicateNumberIsConstraintViolation(t *testing.T) {
	s := createTestStore(t)
	courseID, _ := seedCourse(t, s, "Riverside", 3)

	_, err := s.InsertHole(context.Background(), model.Hole{CourseID: courseID, HoleNumber: 1, Par: 4})
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err))
}

func TestInsertHoles_AllOrNothing(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	courseID, err := s.InsertCourse(ctx, model.Course{Name: "Riverside"})
	require.NoError(t, err)

	// Second hole duplicates the first hole number; the whole batch must fail.
	err = s.InsertHoles(ctx, []model.Hole{
		{CourseID: courseID, HoleNumber: 1, Par: 3},
		{CourseID: courseID, HoleNumber: 1, Par: 4},
	})
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err))

	holes, err := s.ListHoles(ctx, courseID)
	require.NoError(t, err)
	assert.Empty(t, holes)
}

func TestListHoles_OrderedByNumber(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	courseID, err := s.InsertCourse(ctx, model.Course{Name: "Riverside"})
	require.NoError(t, err)

	for _, n := range []int{3, 1, 2} {
		_, err := s.InsertHole(ctx, model.Hole{CourseID: courseID, HoleNumber: n, Par: 3})
		require.NoError(t, err)
	}

	holes, err := s.ListHoles(ctx, courseID)
	require.NoError(t, err)
	require.Len(t, holes, 3)
	for i, h := range holes {
		assert.Equal(t, i+1, h.HoleNumber)
	}
}

func TestUpdateHole(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	courseID, holes := seedCourse(t, s, "Riverside", 3, 3)

	h := holes[1]
	h.Par = 5
	h.Description = model.StringPtr("Uphill")
	require.NoError(t, s.UpdateHole(ctx, h))

	got, _, err := s.GetHole(ctx, courseID, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Par)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Uphill", *got.Description)
}

func TestUpdateHole_NotFound(t *testing.T) {
	s := createTestStore(t)

	err := s.UpdateHole(context.Background(), model.Hole{ID: 12, CourseID: 1, HoleNumber: 1, Par: 3})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteHole(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	courseID, holes := seedCourse(t, s, "Riverside", 3, 4)
	changes := recordChanges(t, s)

	require.NoError(t, s.DeleteHole(ctx, holes[0].ID))
	require.NoError(t, s.DeleteHole(ctx, holes[0].ID), "second delete is a no-op")

	remaining, err := s.ListHoles(ctx, courseID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, 4, remaining[0].Par)

	assert.Equal(t, []Change{{Table: TableHoles, CourseID: courseID}}, *changes)
}

func TestDeleteHolesByCourse_LeavesOtherCourses(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	a, _ := seedCourse(t, s, "A", 3, 3)
	b, _ := seedCourse(t, s, "B", 4)

	require.NoError(t, s.DeleteHolesByCourse(ctx, a))

	holesA, err := s.ListHoles(ctx, a)
	require.NoError(t, err)
	assert.Empty(t, holesA)

	holesB, err := s.ListHoles(ctx, b)
	require.NoError(t, err)
	assert.Len(t, holesB, 1)
}
