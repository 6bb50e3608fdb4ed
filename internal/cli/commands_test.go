package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/discman/internal/model"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func TestPlayerCommands(t *testing.T) {
	db := testDB(t)

	ann := executeJSON[model.Player](t, db, "player", "add", "  Ann ")
	assert.Equal(t, "Ann", ann.Name)
	executeJSON[model.Player](t, db, "player", "add", "Ben")

	renamed := executeJSON[model.Player](t, db, "player", "rename", itoa(ann.ID), "Annie")
	assert.Equal(t, "Annie", renamed.Name)

	players := executeJSON[[]model.Player](t, db, "player", "list")
	require.Len(t, players, 2)

	executeJSON[map[string]int64](t, db, "player", "delete", itoa(ann.ID))
	players = executeJSON[[]model.Player](t, db, "player", "list")
	require.Len(t, players, 1)
	assert.Equal(t, "Ben", players[0].Name)
}

func TestPlayerAdd_Blank(t *testing.T) {
	_, stderr, err := execute(t, testDB(t), "player", "add", "   ")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "E003")
}

func TestPlayerRename_NotFound(t *testing.T) {
	_, stderr, err := execute(t, testDB(t), "player", "rename", "42", "Nobody")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "E002")
}

func TestCourseCommands(t *testing.T) {
	db := testDB(t)

	c := executeJSON[model.Course](t, db, "course", "create", "Riverside", "--location", "Portland", "--holes", "3")
	assert.Equal(t, "Riverside", c.Name)
	id := itoa(c.ID)

	d := executeJSON[courseDetail](t, db, "course", "hole", "set", id, "2", "--par", "4", "--description", "dogleg")
	assert.Equal(t, 10, d.TotalPar)
	assert.Equal(t, "dogleg", *d.Holes[1].Description)

	d = executeJSON[courseDetail](t, db, "course", "hole", "add", id, "--par", "5")
	require.Len(t, d.Holes, 4)
	assert.Equal(t, 4, d.Holes[3].HoleNumber)

	d = executeJSON[courseDetail](t, db, "course", "hole", "mv", id, "4", "1")
	assert.Equal(t, []int{5, 3, 4, 3}, pars(d.Holes))

	d = executeJSON[courseDetail](t, db, "course", "hole", "rm", id, "2")
	assert.Equal(t, []int{5, 4, 3}, pars(d.Holes))
	for i, h := range d.Holes {
		assert.Equal(t, i+1, h.HoleNumber)
	}

	shown := executeJSON[courseDetail](t, db, "course", "show", id)
	assert.Equal(t, pars(d.Holes), pars(shown.Holes))

	list := executeJSON[[]courseWithHoles](t, db, "course", "list")
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].Holes)
	assert.Equal(t, 12, list[0].TotalPar)

	executeJSON[map[string]int64](t, db, "course", "delete", id)
	list = executeJSON[[]courseWithHoles](t, db, "course", "list")
	assert.Empty(t, list)
}

func TestCourseHole_OutOfRange(t *testing.T) {
	db := testDB(t)
	c := executeJSON[model.Course](t, db, "course", "create", "Short", "--holes", "2")

	_, stderr, err := execute(t, db, "course", "hole", "rm", itoa(c.ID), "7")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "E003")

	_, _, err = execute(t, db, "course", "hole", "set", itoa(c.ID), "3", "--par", "4")
	require.Error(t, err)
}

func TestCourseCreate_BlankName(t *testing.T) {
	db := testDB(t)
	_, stderr, err := execute(t, db, "course", "create", " ")
	require.Error(t, err)
	assert.Contains(t, stderr, "E003")

	list := executeJSON[[]courseWithHoles](t, db, "course", "list")
	assert.Empty(t, list)
}

func TestCourseImportExport(t *testing.T) {
	db := testDB(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "riverside.yaml")
	require.NoError(t, os.WriteFile(src, []byte("name: Riverside\nholes:\n  - par: 3\n  - par: 4\n    distance: 120\n  - par: 3\n"), 0o600))

	res := executeJSON[map[string]int64](t, db, "course", "import", src)
	id := res["course_id"]
	require.NotZero(t, id)

	out := filepath.Join(dir, "out.yaml")
	_, _, err := execute(t, db, "course", "export", itoa(id), "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Riverside")
	assert.Contains(t, string(data), "distance: 120")

	require.NoError(t, os.WriteFile(src, []byte("name: Riverside Short\nholes:\n  - par: 2\n"), 0o600))
	executeJSON[map[string]int64](t, db, "course", "import", src, "--replace", itoa(id))

	shown := executeJSON[courseDetail](t, db, "course", "show", itoa(id))
	assert.Equal(t, "Riverside Short", shown.Course.Name)
	assert.Equal(t, []int{2}, pars(shown.Holes))
}

func TestCourseImport_Invalid(t *testing.T) {
	db := testDB(t)
	src := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(src, []byte("name: Bad\nholes:\n  - par: 12\n"), 0o600))

	_, stderr, err := execute(t, db, "course", "import", src)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "E003")
}

func TestGameCommands(t *testing.T) {
	db := testDB(t)
	c := executeJSON[model.Course](t, db, "course", "create", "Riverside", "--holes", "3")
	executeJSON[courseDetail](t, db, "course", "hole", "set", itoa(c.ID), "2", "--par", "4")
	ann := executeJSON[model.Player](t, db, "player", "add", "Ann")
	ben := executeJSON[model.Player](t, db, "player", "add", "Ben")

	started := executeJSON[gameDetail](t, db, "game", "start", "--course", itoa(c.ID), "--player", itoa(ann.ID), "--player", itoa(ben.ID))
	require.NotNil(t, started.Game)
	assert.Len(t, started.Throws, 6)
	gameID := itoa(started.Game.ID)

	for _, th := range [][]string{
		{itoa(ann.ID), "1", "2"}, {itoa(ann.ID), "2", "4"}, {itoa(ann.ID), "3", "3"},
		{itoa(ben.ID), "1", "3"}, {itoa(ben.ID), "2", "5"}, {itoa(ben.ID), "3", "4"},
	} {
		executeJSON[gameDetail](t, db, append([]string{"game", "throw", gameID}, th...)...)
	}

	shown := executeJSON[gameDetail](t, db, "game", "show", gameID)
	require.Len(t, shown.Leaderboard, 2)
	assert.Equal(t, "Ann", shown.Leaderboard[0].Player.Name)
	assert.Equal(t, -1, shown.Leaderboard[0].TotalScore)
	assert.Equal(t, 2, shown.Leaderboard[1].TotalScore)

	text, _, err := execute(t, db, "game", "show", gameID)
	require.NoError(t, err)
	assert.Contains(t, text, "1. Ann: -1")
	assert.Contains(t, text, "2. Ben: +2")

	share, _, err := execute(t, db, "game", "share", gameID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(share, "🥏 Disc Golf Scores\n"))
	assert.Contains(t, share, "Total Par: 10\n")
	assert.Contains(t, share, "1. Ann: -1 (9 throws)\n")
	assert.Contains(t, share, "2. Ben: +2 (12 throws)\n")

	games := executeJSON[[]gameSummary](t, db, "game", "list")
	require.Len(t, games, 1)
	assert.Equal(t, "Riverside", games[0].CourseName)

	executeJSON[map[string]int64](t, db, "game", "delete", gameID)
	_, stderr, err := execute(t, db, "game", "show", gameID)
	require.Error(t, err)
	assert.Contains(t, stderr, "E002")
}

func TestGameStart_Guards(t *testing.T) {
	db := testDB(t)
	c := executeJSON[model.Course](t, db, "course", "create", "Riverside", "--holes", "3")

	stdout, _, err := execute(t, db, "--format", "json", "game", "start", "--course", itoa(c.ID))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeGame, resp.Error.Code)

	_, _, err = execute(t, db, "game", "start", "--player", "1")
	require.Error(t, err)
}

func TestWatch_PrintsInitialSnapshot(t *testing.T) {
	db := testDB(t)
	executeJSON[model.Player](t, db, "player", "add", "Ann")

	stdout, _, err := execute(t, db, "watch", "players", "--count", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "--- players")
	assert.Contains(t, stdout, "Ann")
}

func TestWatch_HolesNeedsCourse(t *testing.T) {
	_, _, err := execute(t, testDB(t), "watch", "holes")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func pars(holes []model.Hole) []int {
	out := make([]int, len(holes))
	for i, h := range holes {
		out[i] = h.Par
	}
	return out
}
