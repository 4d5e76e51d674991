package db

import (
	"context"
	"fmt"

	"virushunt/internal/game"
)

func (d *DB) CreateHighscore(ctx context.Context, h game.Highscore) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO highscores (playername, highscore) VALUES ($1, $2)
	`, h.Playername, h.Highscore)
	if err != nil {
		return fmt.Errorf("creating highscore: %w", err)
	}
	return nil
}

func (d *DB) ListHighscores(ctx context.Context) ([]game.Highscore, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, playername, highscore
		FROM highscores
		ORDER BY highscore ASC
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("listing highscores: %w", err)
	}
	defer rows.Close()

	var highscores []game.Highscore
	for rows.Next() {
		var h game.Highscore
		if err := rows.Scan(&h.ID, &h.Playername, &h.Highscore); err != nil {
			return nil, fmt.Errorf("scanning highscore: %w", err)
		}
		highscores = append(highscores, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating highscores: %w", err)
	}
	return highscores, nil
}
