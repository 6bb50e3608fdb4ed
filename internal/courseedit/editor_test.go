package courseedit

import (
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/discman/internal/model"
	"github.com/roach88/discman/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "edit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func holeNumbers(holes []model.Hole) []int {
	nums := make([]int, len(holes))
	for i, h := range holes {
		nums[i] = h.HoleNumber
	}
	return nums
}

func pars(holes []model.Hole) []int {
	ps := make([]int, len(holes))
	for i, h := range holes {
		ps[i] = h.Par
	}
	return ps
}

// withPars builds an editor holding one hole per par value.
func withPars(t *testing.T, st Store, ps ...int) *Editor {
	t.Helper()
	e := New(st)
	e.SetName("Riverside")
	for i, p := range ps {
		e.AddHole()
		require.NoError(t, e.UpdateHole(i, model.Hole{Par: p}))
	}
	return e
}

func TestAddHole_NumbersSequentially(t *testing.T) {
	e := New(nil)

	h1 := e.AddHole()
	h2 := e.AddHole()

	assert.Equal(t, 1, h1.HoleNumber)
	assert.Equal(t, 2, h2.HoleNumber)
	assert.Equal(t, model.DefaultPar, h2.Par)
	assert.Nil(t, h2.Distance)
	assert.Nil(t, h2.Description)
}

func TestRemoveHole_Renumbers(t *testing.T) {
	e := withPars(t, nil, 3, 4, 5, 2)

	require.NoError(t, e.RemoveHole(1))

	assert.Equal(t, []int{1, 2, 3}, holeNumbers(e.Holes()))
	assert.Equal(t, []int{3, 5, 2}, pars(e.Holes()))
}

func TestMoveHole_Renumbers(t *testing.T) {
	e := withPars(t, nil, 3, 4, 5)

	require.NoError(t, e.MoveHole(0, 2))
	assert.Equal(t, []int{1, 2, 3}, holeNumbers(e.Holes()))
	assert.Equal(t, []int{4, 5, 3}, pars(e.Holes()))

	require.NoError(t, e.MoveHole(2, 0))
	assert.Equal(t, []int{3, 4, 5}, pars(e.Holes()))
}

func TestRemoveThenMove_ConsistentAtEveryStep(t *testing.T) {
	e := withPars(t, nil, 3, 4, 5, 2, 3)

	require.NoError(t, e.RemoveHole(0))
	assert.Equal(t, []int{1, 2, 3, 4}, holeNumbers(e.Holes()))

	require.NoError(t, e.MoveHole(3, 1))
	assert.Equal(t, []int{1, 2, 3, 4}, holeNumbers(e.Holes()))
	assert.Equal(t, []int{4, 3, 5, 2}, pars(e.Holes()))
}

func TestRenumber_Idempotent(t *testing.T) {
	holes := []model.Hole{{HoleNumber: 1, Par: 3}, {HoleNumber: 2, Par: 4}, {HoleNumber: 3, Par: 5}}
	before := append([]model.Hole(nil), holes...)

	renumber(holes)
	assert.Equal(t, before, holes)

	renumber(holes)
	assert.Equal(t, before, holes)
}

func TestUpdateHole_KeepsNumber(t *testing.T) {
	e := withPars(t, nil, 3, 3)

	require.NoError(t, e.UpdateHole(1, model.Hole{HoleNumber: 9, Par: 4, Distance: model.IntPtr(95), Description: model.StringPtr("Over water")}))

	h := e.Holes()[1]
	assert.Equal(t, 2, h.HoleNumber)
	assert.Equal(t, 4, h.Par)
	assert.Equal(t, 95, *h.Distance)
	assert.Equal(t, "Over water", *h.Description)
}

func TestIndexOutOfRange(t *testing.T) {
	e := withPars(t, nil, 3, 4)

	assert.ErrorIs(t, e.RemoveHole(2), ErrIndexOutOfRange)
	assert.ErrorIs(t, e.RemoveHole(-1), ErrIndexOutOfRange)
	assert.ErrorIs(t, e.MoveHole(0, 5), ErrIndexOutOfRange)
	assert.ErrorIs(t, e.UpdateHole(3, model.Hole{Par: 3}), ErrIndexOutOfRange)

	assert.Equal(t, []int{3, 4}, pars(e.Holes()), "failed edits leave the list unchanged")
}

func TestHoles_ReturnsCopy(t *testing.T) {
	e := withPars(t, nil, 3)

	holes := e.Holes()
	holes[0].Par = 9

	assert.Equal(t, 3, e.Holes()[0].Par)
}

func TestCommit_NewCourse(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	e := withPars(t, st, 3, 3, 4)
	e.SetLocation("North bank")
	assert.True(t, e.IsNew())

	id, err := e.Commit(ctx)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.False(t, e.IsNew())

	course, ok, err := st.GetCourse(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Riverside", course.Name)
	assert.Equal(t, "North bank", course.Location)

	holes, err := st.ListHoles(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, holeNumbers(holes))
	assert.Equal(t, []int{3, 3, 4}, pars(holes))
}

func TestCommit_ReplacesExistingHoles(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	id, err := withPars(t, st, 3, 3, 4).Commit(ctx)
	require.NoError(t, err)

	e, err := Load(ctx, st, id)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 4}, pars(e.Holes()))

	require.NoError(t, e.RemoveHole(0))
	e.AddHole()
	e.SetName("Riverside Long")

	again, err := e.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, again, "existing course is updated, not duplicated")

	holes, err := st.ListHoles(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, holeNumbers(holes))
	assert.Equal(t, []int{3, 4, 3}, pars(holes))

	courses, err := st.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Riverside Long", courses[0].Name)
}

func TestCommit_BlankNameIsNoop(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	for _, name := range []string{"", "   "} {
		e := New(st)
		e.SetName(name)
		e.AddHole()

		id, err := e.Commit(ctx)
		assert.ErrorIs(t, err, ErrBlankName)
		assert.Zero(t, id)
	}

	courses, err := st.ListCourses(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestCommit_InvalidHoleRejectedBeforeWrite(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	e := withPars(t, st, 3)
	require.NoError(t, e.UpdateHole(0, model.Hole{Par: 0}))

	_, err := e.Commit(ctx)
	require.Error(t, err)

	courses, err := st.ListCourses(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestLoad_UnknownCourse(t *testing.T) {
	st := openStore(t)

	_, err := Load(context.Background(), st, 77)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

// failingInserts deletes holes normally but refuses to insert them.
type failingInserts struct {
	*store.Store
}

var errDiskFull = errors.New("disk full")

func (f failingInserts) InsertHoles(context.Context, []model.Hole) error {
	return errDiskFull
}

func TestCommit_PartialCommit(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	id, err := withPars(t, st, 3, 3, 4).Commit(ctx)
	require.NoError(t, err)

	e, err := Load(ctx, failingInserts{st}, id)
	require.NoError(t, err)
	e.AddHole()

	got, err := e.Commit(ctx)
	require.Error(t, err)
	assert.Equal(t, id, got)
	assert.True(t, IsPartialCommit(err))
	assert.ErrorIs(t, err, errDiskFull)

	var pe *PartialCommitError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, id, pe.CourseID)

	// The course survives without holes.
	_, ok, err := st.GetCourse(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	holes, err := st.ListHoles(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, holes)

	// Retrying against a healthy store restores the staged list.
	retry, err := Load(ctx, st, id)
	require.NoError(t, err)
	for range e.Holes() {
		retry.AddHole()
	}
	_, err = retry.Commit(ctx)
	require.NoError(t, err)

	holes, err = st.ListHoles(ctx, id)
	require.NoError(t, err)
	assert.Len(t, holes, 4)
}

func TestCommit_ContiguousAfterRandomEdits(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 20; round++ {
		e := New(st)
		e.SetName("Course")

		for step := 0; step < 30; step++ {
			n := len(e.Holes())
			switch op := rng.Intn(3); {
			case op == 0 || n == 0:
				e.AddHole()
			case op == 1:
				require.NoError(t, e.RemoveHole(rng.Intn(n)))
			default:
				require.NoError(t, e.MoveHole(rng.Intn(n), rng.Intn(n)))
			}
		}

		id, err := e.Commit(ctx)
		require.NoError(t, err)

		holes, err := st.ListHoles(ctx, id)
		require.NoError(t, err)
		for i, h := range holes {
			require.Equal(t, i+1, h.HoleNumber, "round %d", round)
		}
	}
}
