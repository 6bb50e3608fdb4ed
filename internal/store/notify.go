package store

import (
	"context"
	"fmt"
	"time"
)

// Table names a table whose rows changed.
type Table string

// Tables announced through OnChange.
const (
	TableCourses     Table = "courses"
	TableHoles       Table = "holes"
	TablePlayers     Table = "players"
	TableGames       Table = "games"
	TableGamePlayers Table = "game_players"
	TableThrows      Table = "game_player_hole_throws"
)

// Change describes a committed write.
type Change struct {
	Table Table

	// CourseID is set for hole changes so per-course queries can filter.
	// Zero means the change may touch any course.
	CourseID int64

	// GameID is set for roster and throw cell changes.
	GameID int64
}

// OnChange registers fn to be called after every committed write.
// The returned function removes the listener.
func (s *Store) OnChange(fn func(Change)) (remove func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// notify delivers each change, in order, to every listener.
func (s *Store) notify(changes ...Change) {
	s.mu.Lock()
	fns := make([]func(Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, c := range changes {
		for _, fn := range fns {
			fn(c)
		}
	}
}

// allTables is announced when the database changed in an unknown way.
var allTables = []Change{
	{Table: TableCourses},
	{Table: TableHoles},
	{Table: TablePlayers},
	{Table: TableGames},
	{Table: TableGamePlayers},
	{Table: TableThrows},
}

// WatchExternal polls SQLite's data_version every interval and announces a
// change to every table when another connection or process has committed.
// Writes made through s are announced directly and do not move data_version.
// Returns nil when ctx is done.
func (s *Store) WatchExternal(ctx context.Context, interval time.Duration) error {
	last, err := s.dataVersion(ctx)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		v, err := s.dataVersion(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if v != last {
			last = v
			s.notify(allTables...)
		}
	}
}

func (s *Store) dataVersion(ctx context.Context) (int64, error) {
	var v int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA data_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read data_version: %w", err)
	}
	return v, nil
}
