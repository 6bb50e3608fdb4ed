package courseio

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/discman/internal/courseedit"
	"github.com/roach88/discman/internal/model"
	"github.com/roach88/discman/internal/testutil"
)

const riversideYAML = `name: Riverside
location: Portland
holes:
  - par: 3
    distance: 95
  - par: 4
    description: dogleg left
    latitude: 45.5
    longitude: -122.6
  - par: 3
`

func TestDecode_Strict(t *testing.T) {
	_, err := Decode(strings.NewReader("name: X\nholez: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "holez")
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	assert.True(t, IsValidationError(err))
}

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(riversideYAML))
	require.NoError(t, err)

	assert.Equal(t, "Riverside", doc.Name)
	assert.Equal(t, "Portland", doc.Location)
	require.Len(t, doc.Holes, 3)
	assert.Equal(t, 95, *doc.Holes[0].Distance)
	assert.Equal(t, "dogleg left", *doc.Holes[1].Description)
	assert.InDelta(t, 45.5, *doc.Holes[1].Latitude, 1e-9)
	assert.Nil(t, doc.Holes[2].Distance)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		doc   Document
		valid bool
	}{
		{"minimal", Document{Name: "A"}, true},
		{"with holes", Document{Name: "A", Holes: []HoleDoc{{Par: 1}, {Par: 10}}}, true},
		{"blank name", Document{Name: "   "}, false},
		{"empty name", Document{}, false},
		{"par zero", Document{Name: "A", Holes: []HoleDoc{{Par: 0}}}, false},
		{"par eleven", Document{Name: "A", Holes: []HoleDoc{{Par: 11}}}, false},
		{"negative distance", Document{Name: "A", Holes: []HoleDoc{{Par: 3, Distance: model.IntPtr(-1)}}}, false},
		{"latitude out of range", Document{Name: "A", Holes: []HoleDoc{{Par: 3, Latitude: model.FloatPtr(91)}}}, false},
		{"longitude out of range", Document{Name: "A", Holes: []HoleDoc{{Par: 3, Longitude: model.FloatPtr(-181)}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.doc)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	st := testutil.OpenStore(t)

	id, err := Import(ctx, st, strings.NewReader(riversideYAML), nil)
	require.NoError(t, err)

	c, ok, err := st.GetCourse(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Riverside", c.Name)

	holes, err := st.ListHoles(ctx, id)
	require.NoError(t, err)
	require.Len(t, holes, 3)
	for i, h := range holes {
		assert.Equal(t, i+1, h.HoleNumber)
		assert.Equal(t, id, h.CourseID)
	}
	assert.Equal(t, 10, model.TotalPar(holes))
	assert.Equal(t, "dogleg left", *holes[1].Description)
}

func TestImport_InvalidWritesNothing(t *testing.T) {
	ctx := context.Background()
	st := testutil.OpenStore(t)

	_, err := Import(ctx, st, strings.NewReader("name: Bad\nholes:\n  - par: 0\n"), nil)
	require.True(t, IsValidationError(err))

	courses, err := st.ListCourses(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestExport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	st := testutil.OpenStore(t)

	id, err := Import(ctx, st, strings.NewReader(riversideYAML), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Export(ctx, st, id, &buf))
	assert.Contains(t, buf.String(), "name: Riverside")
	assert.Contains(t, buf.String(), "description: dogleg left")

	again, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	original, err := Decode(strings.NewReader(riversideYAML))
	require.NoError(t, err)
	assert.Equal(t, original, again)
}

func TestExport_NotFound(t *testing.T) {
	st := testutil.OpenStore(t)
	err := Export(context.Background(), st, 404, &bytes.Buffer{})
	assert.ErrorIs(t, err, courseedit.ErrCourseNotFound)
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	st := testutil.OpenStore(t)
	id, _ := testutil.SeedCourse(t, st, "Old", 3, 3, 3, 3, 3)

	err := Replace(ctx, st, id, strings.NewReader("name: New\nholes:\n  - par: 5\n  - par: 2\n"), nil)
	require.NoError(t, err)

	c, _, err := st.GetCourse(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New", c.Name)
	assert.Equal(t, "", c.Location)

	holes, err := st.ListHoles(ctx, id)
	require.NoError(t, err)
	require.Len(t, holes, 2)
	assert.Equal(t, 5, holes[0].Par)
	assert.Equal(t, 2, holes[1].HoleNumber)
}
