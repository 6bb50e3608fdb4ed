package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/discman/internal/model"
)

// InsertGame inserts a game row and returns its assigned ID.
// Fails with *ConstraintError if the course does not exist.
func (s *Store) InsertGame(ctx context.Context, g model.Game) (int64, error) {
	id, err := insertGame(ctx, s.db, g)
	if err != nil {
		return 0, err
	}

	s.notify(Change{Table: TableGames})
	return id, nil
}

func insertGame(ctx context.Context, ex execer, g model.Game) (int64, error) {
	result, err := ex.ExecContext(ctx, `
		INSERT INTO games (course_id, start_date) VALUES (?, ?)
	`, g.CourseID, g.StartDate.UTC().UnixMilli())
	if err != nil {
		return 0, wrapErr("insert game", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert game: last insert id: %w", err)
	}
	return id, nil
}

// CreateGame inserts a game, its roster and its throw cells in one
// transaction and returns the new game ID. The GameID fields of cells are
// ignored and replaced by the new ID.
func (s *Store) CreateGame(ctx context.Context, g model.Game, playerIDs []int64, cells []model.ThrowCell) (int64, error) {
	var gameID int64
	err := s.withTx(ctx, "create game", func(tx *sql.Tx) error {
		var err error
		gameID, err = insertGame(ctx, tx, g)
		if err != nil {
			return err
		}

		for _, pid := range playerIDs {
			if err := insertGamePlayer(ctx, tx, model.GamePlayer{GameID: gameID, PlayerID: pid}); err != nil {
				return err
			}
		}

		for _, c := range cells {
			c.GameID = gameID
			if err := insertThrow(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.notify(
		Change{Table: TableGames},
		Change{Table: TableGamePlayers, GameID: gameID},
		Change{Table: TableThrows, GameID: gameID},
	)
	return gameID, nil
}

// DeleteGame removes a game with its roster rows and throw cells.
// Deleting an absent game is a no-op.
func (s *Store) DeleteGame(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE game_id = ?`, id)
	if err != nil {
		return wrapErr("delete game", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return nil
	}

	s.notify(
		Change{Table: TableGames},
		Change{Table: TableGamePlayers, GameID: id},
		Change{Table: TableThrows, GameID: id},
	)
	return nil
}

// GetGame retrieves a game by ID. ok is false if it does not exist.
func (s *Store) GetGame(ctx context.Context, id int64) (model.Game, bool, error) {
	var (
		g  model.Game
		ms int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT game_id, course_id, start_date FROM games WHERE game_id = ?
	`, id).Scan(&g.ID, &g.CourseID, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Game{}, false, nil
	}
	if err != nil {
		return model.Game{}, false, fmt.Errorf("get game: %w", err)
	}
	g.StartDate = time.UnixMilli(ms).UTC()
	return g, true, nil
}

// ListGames returns all games, most recent start date first.
func (s *Store) ListGames(ctx context.Context) ([]model.Game, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, course_id, start_date FROM games
		ORDER BY start_date DESC, game_id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	games := []model.Game{}
	for rows.Next() {
		var (
			g  model.Game
			ms int64
		)
		if err := rows.Scan(&g.ID, &g.CourseID, &ms); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		g.StartDate = time.UnixMilli(ms).UTC()
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return games, nil
}

// InsertGamePlayers adds roster rows in one transaction.
func (s *Store) InsertGamePlayers(ctx context.Context, roster []model.GamePlayer) error {
	if len(roster) == 0 {
		return nil
	}

	err := s.withTx(ctx, "insert game players", func(tx *sql.Tx) error {
		for _, gp := range roster {
			if err := insertGamePlayer(ctx, tx, gp); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notify(Change{Table: TableGamePlayers, GameID: roster[0].GameID})
	return nil
}

func insertGamePlayer(ctx context.Context, ex execer, gp model.GamePlayer) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO game_players (game_id, player_id) VALUES (?, ?)
	`, gp.GameID, gp.PlayerID)
	if err != nil {
		return wrapErr("insert game player", err)
	}
	return nil
}

// ListGamePlayers returns the roster of a game ordered by player ID.
func (s *Store) ListGamePlayers(ctx context.Context, gameID int64) ([]model.GamePlayer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, player_id FROM game_players
		WHERE game_id = ?
		ORDER BY player_id ASC
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query game players: %w", err)
	}
	defer rows.Close()

	roster := []model.GamePlayer{}
	for rows.Next() {
		var gp model.GamePlayer
		if err := rows.Scan(&gp.GameID, &gp.PlayerID); err != nil {
			return nil, fmt.Errorf("scan game player: %w", err)
		}
		roster = append(roster, gp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game players: %w", err)
	}
	return roster, nil
}

// InsertThrows adds throw cells in one transaction.
func (s *Store) InsertThrows(ctx context.Context, cells []model.ThrowCell) error {
	if len(cells) == 0 {
		return nil
	}

	err := s.withTx(ctx, "insert throws", func(tx *sql.Tx) error {
		for _, c := range cells {
			if err := insertThrow(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notify(Change{Table: TableThrows, GameID: cells[0].GameID})
	return nil
}

func insertThrow(ctx context.Context, ex execer, c model.ThrowCell) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO game_player_hole_throws
		(game_id, player_id, hole_number, number_of_throws)
		VALUES (?, ?, ?, ?)
	`, c.GameID, c.PlayerID, c.HoleNumber, c.NumberOfThrows)
	if err != nil {
		return wrapErr("insert throw", err)
	}
	return nil
}

// UpdateThrow sets the throw count of an existing cell.
// Returns ErrNotFound if the cell does not exist.
func (s *Store) UpdateThrow(ctx context.Context, c model.ThrowCell) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE game_player_hole_throws
		SET number_of_throws = ?
		WHERE game_id = ? AND player_id = ? AND hole_number = ?
	`, c.NumberOfThrows, c.GameID, c.PlayerID, c.HoleNumber)
	if err != nil {
		return wrapErr("update throw", err)
	}

	key := fmt.Sprintf("(%d,%d,%d)", c.GameID, c.PlayerID, c.HoleNumber)
	if err := requireAffected(result, "update throw", key); err != nil {
		return err
	}

	s.notify(Change{Table: TableThrows, GameID: c.GameID})
	return nil
}

// GetThrow retrieves a single throw cell. ok is false if it does not exist.
func (s *Store) GetThrow(ctx context.Context, gameID, playerID int64, holeNumber int) (model.ThrowCell, bool, error) {
	var c model.ThrowCell
	err := s.db.QueryRowContext(ctx, `
		SELECT game_id, player_id, hole_number, number_of_throws
		FROM game_player_hole_throws
		WHERE game_id = ? AND player_id = ? AND hole_number = ?
	`, gameID, playerID, holeNumber).Scan(&c.GameID, &c.PlayerID, &c.HoleNumber, &c.NumberOfThrows)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ThrowCell{}, false, nil
	}
	if err != nil {
		return model.ThrowCell{}, false, fmt.Errorf("get throw: %w", err)
	}
	return c, true, nil
}

// ListThrows returns all throw cells of a game ordered by hole number, then player ID.
func (s *Store) ListThrows(ctx context.Context, gameID int64) ([]model.ThrowCell, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, player_id, hole_number, number_of_throws
		FROM game_player_hole_throws
		WHERE game_id = ?
		ORDER BY hole_number ASC, player_id ASC
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query throws: %w", err)
	}
	defer rows.Close()

	cells := []model.ThrowCell{}
	for rows.Next() {
		var c model.ThrowCell
		if err := rows.Scan(&c.GameID, &c.PlayerID, &c.HoleNumber, &c.NumberOfThrows); err != nil {
			return nil, fmt.Errorf("scan throw: %w", err)
		}
		cells = append(cells, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate throws: %w", err)
	}
	return cells, nil
}
