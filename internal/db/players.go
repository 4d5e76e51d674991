package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"virushunt/internal/game"
)

func (d *DB) CreatePlayer(ctx context.Context, p game.Player) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO players (id, playername, score, click_times)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET playername = $2, score = $3, click_times = $4
	`, p.ID, p.Playername, p.Score, pq.Array(clickTimes64(p.ClickTimes)))
	if err != nil {
		return fmt.Errorf("creating player: %w", err)
	}
	return nil
}

func (d *DB) GetPlayer(ctx context.Context, id string) (*game.Player, error) {
	var p game.Player
	var times []int64
	var gameID sql.NullString
	err := d.conn.QueryRowContext(ctx, `
		SELECT id, playername, score, click_time, click_times, game_id
		FROM players WHERE id = $1
	`, id).Scan(&p.ID, &p.Playername, &p.Score, &p.LastClick, pq.Array(&times), &gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting player: %w", err)
	}
	p.ClickTimes = clickTimesInt(times)
	p.GameID = gameID.String
	return &p, nil
}

func (d *DB) DeletePlayer(ctx context.Context, id string) error {
	res, err := d.conn.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting player: %w", err)
	}
	return notFoundWhenNoRows(res)
}

func (d *DB) ResetPlayer(ctx context.Context, id string) error {
	res, err := d.conn.ExecContext(ctx, `
		UPDATE players
		SET score = 0, click_time = 0, click_times = '{}', game_id = NULL
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("resetting player: %w", err)
	}
	return notFoundWhenNoRows(res)
}

func (d *DB) RecordClick(ctx context.Context, id string, reactionMs int) error {
	res, err := d.conn.ExecContext(ctx, `
		UPDATE players
		SET click_time = $2, click_times = array_append(click_times, $2)
		WHERE id = $1
	`, id, reactionMs)
	if err != nil {
		return fmt.Errorf("recording click: %w", err)
	}
	return notFoundWhenNoRows(res)
}

func (d *DB) IncrementScore(ctx context.Context, id string) error {
	res, err := d.conn.ExecContext(ctx, `
		UPDATE players SET score = score + 1 WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("incrementing score: %w", err)
	}
	return notFoundWhenNoRows(res)
}

func notFoundWhenNoRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return game.ErrNotFound
	}
	return nil
}

func clickTimes64(times []int) []int64 {
	out := make([]int64, len(times))
	for i, t := range times {
		out[i] = int64(t)
	}
	return out
}

func clickTimesInt(times []int64) []int {
	out := make([]int, len(times))
	for i, t := range times {
		out[i] = int(t)
	}
	return out
}
