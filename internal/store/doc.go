// Package store provides SQLite-backed durable storage for courses, holes,
// players and games.
//
// The store holds six tables:
//   - courses, holes: a course and its ordered hole list
//   - players
//   - games, game_players: a round on a course and its roster
//   - game_player_hole_throws: one throw cell per (game, player, hole)
//
// # Referential Cleanup
//
// Every foreign key is declared ON DELETE CASCADE and foreign_keys=ON is
// enforced on the connection. Deleting a course removes its holes and games;
// deleting a game or a player removes roster rows and throw cells.
//
// # Reads and Writes
//
//   - Single-row reads return (value, ok, err); absence is not an error
//   - Updates of absent rows return ErrNotFound
//   - Deletes of absent rows are no-ops
//   - Foreign key and uniqueness failures are reported as *ConstraintError
//   - List results are never nil
//
// Every committed write is announced to listeners registered with OnChange.
// Listeners run synchronously on the writer's goroutine and must not block.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
