package db

import (
	"context"
	"fmt"

	"virushunt/internal/game"
)

func (d *DB) CreateResult(ctx context.Context, r game.Result) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO results (player_one_name, player_two_name,
			player_one_highscore, player_two_highscore,
			player_one_point, player_two_point, ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.PlayerOneName, r.PlayerTwoName,
		r.PlayerOneHighscore, r.PlayerTwoHighscore,
		r.PlayerOnePoint, r.PlayerTwoPoint, r.Timestamp)
	if err != nil {
		return fmt.Errorf("creating result: %w", err)
	}
	return nil
}

func (d *DB) ListResults(ctx context.Context) ([]game.Result, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, player_one_name, player_two_name,
			player_one_highscore, player_two_highscore,
			player_one_point, player_two_point, ts
		FROM results
		ORDER BY ts DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	defer rows.Close()

	var results []game.Result
	for rows.Next() {
		var r game.Result
		if err := rows.Scan(&r.ID, &r.PlayerOneName, &r.PlayerTwoName,
			&r.PlayerOneHighscore, &r.PlayerTwoHighscore,
			&r.PlayerOnePoint, &r.PlayerTwoPoint, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating results: %w", err)
	}
	return results, nil
}
