package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"trivia-duel-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// PackLoader loads question pack JSONB from Postgres.
type PackLoader struct {
	pool *pgxpool.Pool
}

func NewPackLoader(pool *pgxpool.Pool) *PackLoader {
	return &PackLoader{pool: pool}
}

func (l *PackLoader) LoadPack(ctx context.Context, name string) (domain.QuestionPack, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_packs WHERE name=$1`, name).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuestionPack{}, domain.ErrPackNotFound
	}
	if err != nil {
		return domain.QuestionPack{}, fmt.Errorf("load pack: %w", err)
	}
	var pack domain.QuestionPack
	if err := json.Unmarshal(raw, &pack); err != nil {
		return domain.QuestionPack{}, fmt.Errorf("unmarshal pack: %w", err)
	}
	if pack.Name == "" {
		pack.Name = name
	}
	return pack, nil
}

func (l *PackLoader) ListPacks(ctx context.Context) ([]string, error) {
	rows, err := l.pool.Query(ctx, `SELECT name FROM question_packs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list packs: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan pack name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
