package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"virushunt/internal/game"
)

func (d *DB) CreateGame(ctx context.Context, playerIDs []string) (*game.Game, error) {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var g game.Game
	err = tx.QueryRowContext(ctx, `
		INSERT INTO games (clicks, rounds) VALUES (0, 0)
		RETURNING id, clicks, rounds
	`).Scan(&g.ID, &g.Clicks, &g.Rounds)
	if err != nil {
		return nil, fmt.Errorf("creating game: %w", err)
	}

	for _, pid := range playerIDs {
		if _, err := tx.ExecContext(ctx, `
			UPDATE players SET game_id = $1 WHERE id = $2
		`, g.ID, pid); err != nil {
			return nil, fmt.Errorf("associating player %s: %w", pid, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing game: %w", err)
	}
	return &g, nil
}

func (d *DB) GetGameWithPlayers(ctx context.Context, id string) (*game.Game, error) {
	var g game.Game
	err := d.conn.QueryRowContext(ctx, `
		SELECT id, clicks, rounds FROM games WHERE id = $1
	`, id).Scan(&g.ID, &g.Clicks, &g.Rounds)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting game: %w", err)
	}

	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, playername, score, click_time, click_times
		FROM players WHERE game_id = $1
		ORDER BY created_at ASC, id ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("getting game players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p game.Player
		var times []int64
		if err := rows.Scan(&p.ID, &p.Playername, &p.Score, &p.LastClick, pq.Array(&times)); err != nil {
			return nil, fmt.Errorf("scanning game player: %w", err)
		}
		p.ClickTimes = clickTimesInt(times)
		p.GameID = g.ID
		g.Players = append(g.Players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating game players: %w", err)
	}
	return &g, nil
}

func (d *DB) SetRounds(ctx context.Context, gameID string, rounds int) error {
	res, err := d.conn.ExecContext(ctx, `
		UPDATE games SET rounds = $2 WHERE id = $1
	`, gameID, rounds)
	if err != nil {
		return fmt.Errorf("setting rounds: %w", err)
	}
	return notFoundWhenNoRows(res)
}

func (d *DB) ResetClicks(ctx context.Context, gameID string) error {
	res, err := d.conn.ExecContext(ctx, `
		UPDATE games SET clicks = 0 WHERE id = $1
	`, gameID)
	if err != nil {
		return fmt.Errorf("resetting clicks: %w", err)
	}
	return notFoundWhenNoRows(res)
}
