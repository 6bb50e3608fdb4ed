package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/discman/internal/model"
)

// InsertPlayer inserts a player and returns the assigned ID.
func (s *Store) InsertPlayer(ctx context.Context, p model.Player) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO players (name) VALUES (?)
	`, model.NormalizeName(p.Name))
	if err != nil {
		return 0, wrapErr("insert player", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert player: last insert id: %w", err)
	}

	s.notify(Change{Table: TablePlayers})
	return id, nil
}

// UpdatePlayer renames an existing player.
// Returns ErrNotFound if no player has p.ID.
func (s *Store) UpdatePlayer(ctx context.Context, p model.Player) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE players SET name = ? WHERE player_id = ?
	`, model.NormalizeName(p.Name), p.ID)
	if err != nil {
		return wrapErr("update player", err)
	}

	if err := requireAffected(result, "update player", p.ID); err != nil {
		return err
	}

	s.notify(Change{Table: TablePlayers})
	return nil
}

// DeletePlayer removes a player together with their roster rows and throw
// cells. Deleting an absent player is a no-op.
func (s *Store) DeletePlayer(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE player_id = ?`, id)
	if err != nil {
		return wrapErr("delete player", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return nil
	}

	s.notify(
		Change{Table: TablePlayers},
		Change{Table: TableGamePlayers},
		Change{Table: TableThrows},
	)
	return nil
}

// GetPlayer retrieves a player by ID. ok is false if it does not exist.
func (s *Store) GetPlayer(ctx context.Context, id int64) (p model.Player, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT player_id, name FROM players WHERE player_id = ?
	`, id).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Player{}, false, nil
	}
	if err != nil {
		return model.Player{}, false, fmt.Errorf("get player: %w", err)
	}
	return p, true, nil
}

// ListPlayers returns all players ordered by name ascending.
func (s *Store) ListPlayers(ctx context.Context) ([]model.Player, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_id, name FROM players
		ORDER BY name ASC, player_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	players := []model.Player{}
	for rows.Next() {
		var p model.Player
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return players, nil
}
