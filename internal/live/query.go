package live

import (
	"context"
	"fmt"

	"github.com/roach88/discman/internal/model"
	"github.com/roach88/discman/internal/store"
)

// QueryName identifies one of the live list queries.
type QueryName string

const (
	// AllCourses lists every course by name ascending.
	AllCourses QueryName = "courses"

	// HolesForCourse lists one course's holes by hole number ascending.
	HolesForCourse QueryName = "holes"

	// AllPlayers lists every player by name ascending.
	AllPlayers QueryName = "players"

	// AllGames lists every game, most recent start date first.
	AllGames QueryName = "games"
)

// Key identifies a topic. CourseID is only meaningful for HolesForCourse.
type Key struct {
	Query    QueryName
	CourseID int64
}

// String renders the key for logs.
func (k Key) String() string {
	if k.Query == HolesForCourse {
		return fmt.Sprintf("%s/%d", k.Query, k.CourseID)
	}
	return string(k.Query)
}

// ParseQuery validates a query name supplied by a caller.
func ParseQuery(name string) (QueryName, error) {
	switch q := QueryName(name); q {
	case AllCourses, HolesForCourse, AllPlayers, AllGames:
		return q, nil
	default:
		return "", fmt.Errorf("unknown query %q: must be one of courses, holes, players, games", name)
	}
}

// Source is the read side of the store plus its change feed.
// *store.Store satisfies it.
type Source interface {
	ListCourses(ctx context.Context) ([]model.Course, error)
	ListHoles(ctx context.Context, courseID int64) ([]model.Hole, error)
	ListPlayers(ctx context.Context) ([]model.Player, error)
	ListGames(ctx context.Context) ([]model.Game, error)
	OnChange(fn func(store.Change)) (remove func())
}

// load runs the query behind key.
func load(ctx context.Context, src Source, key Key) (any, error) {
	switch key.Query {
	case AllCourses:
		return src.ListCourses(ctx)
	case HolesForCourse:
		return src.ListHoles(ctx, key.CourseID)
	case AllPlayers:
		return src.ListPlayers(ctx)
	case AllGames:
		return src.ListGames(ctx)
	default:
		return nil, fmt.Errorf("unknown query %q", key.Query)
	}
}

// affects reports whether a change can alter the result set of key.
func affects(key Key, c store.Change) bool {
	switch key.Query {
	case AllCourses:
		return c.Table == store.TableCourses
	case HolesForCourse:
		return c.Table == store.TableHoles && (c.CourseID == 0 || c.CourseID == key.CourseID)
	case AllPlayers:
		return c.Table == store.TablePlayers
	case AllGames:
		return c.Table == store.TableGames
	default:
		return false
	}
}
