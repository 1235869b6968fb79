package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type Repository interface {
	CreateGeneration(ctx context.Context, g *Generation) error
	ListRecent(ctx context.Context, limit int) ([]*Generation, error)
	CountGenerations(ctx context.Context) (int, error)
	CountByGenre(ctx context.Context) ([]GenreCount, error)
	CountFallbacks(ctx context.Context) (int, error)

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

var _ Repository = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateGeneration(ctx context.Context, g *Generation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO generations (id, genre, resolved_genre, fallback, word_count, scene_count, duration_ms, format, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, g.ID, g.Genre, g.ResolvedGenre, boolToInt(g.Fallback), g.WordCount, g.SceneCount, g.DurationMs, g.Format,
		g.CreatedAt.UTC().Format(timeLayout))
	return err
}

func (r *SQLiteRepository) ListRecent(ctx context.Context, limit int) ([]*Generation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, genre, resolved_genre, fallback, word_count, scene_count, duration_ms, format, created_at
		FROM generations ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Generation
	for rows.Next() {
		var g Generation
		var fallback int
		var createdAt string
		if err := rows.Scan(&g.ID, &g.Genre, &g.ResolvedGenre, &fallback, &g.WordCount, &g.SceneCount,
			&g.DurationMs, &g.Format, &createdAt); err != nil {
			return nil, err
		}
		g.Fallback = fallback != 0
		g.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for %s: %w", g.ID, err)
		}
		out = append(out, &g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CountGenerations(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM generations").Scan(&count)
	return count, err
}

func (r *SQLiteRepository) CountByGenre(ctx context.Context) ([]GenreCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT resolved_genre, COUNT(*) FROM generations
		GROUP BY resolved_genre ORDER BY COUNT(*) DESC, resolved_genre ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GenreCount
	for rows.Next() {
		var gc GenreCount
		if err := rows.Scan(&gc.Genre, &gc.Count); err != nil {
			return nil, err
		}
		out = append(out, gc)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CountFallbacks(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM generations WHERE fallback = 1").Scan(&count)
	return count, err
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
