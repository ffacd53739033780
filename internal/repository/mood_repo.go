package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"tara/internal/domain"
)

type MoodRepository interface {
	Create(ctx context.Context, entry domain.MoodEntry) error
	ListByUser(ctx context.Context, userID string) ([]domain.MoodEntry, error)
	ListSince(ctx context.Context, userID string, since time.Time) ([]domain.MoodEntry, error)
}

type PgMoodRepository struct {
	pool *pgxpool.Pool
}

func NewPgMoodRepository(pool *pgxpool.Pool) *PgMoodRepository {
	return &PgMoodRepository{pool: pool}
}

func (r *PgMoodRepository) Create(ctx context.Context, entry domain.MoodEntry) error {
	const query = `
		INSERT INTO mood_entries (id, user_id, mood, intensity, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Mood,
		entry.Intensity,
		entry.Note,
		entry.CreatedAt,
	)
	return err
}

func (r *PgMoodRepository) ListByUser(ctx context.Context, userID string) ([]domain.MoodEntry, error) {
	const query = `
		SELECT id, user_id, mood, intensity, COALESCE(note, ''), created_at
		FROM mood_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMoods(rows)
}

func (r *PgMoodRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]domain.MoodEntry, error) {
	const query = `
		SELECT id, user_id, mood, intensity, COALESCE(note, ''), created_at
		FROM mood_entries
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMoods(rows)
}

func scanMoods(rows pgxRows) ([]domain.MoodEntry, error) {
	var entries []domain.MoodEntry
	for rows.Next() {
		var m domain.MoodEntry
		if err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.Mood,
			&m.Intensity,
			&m.Note,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// pgxRows is a minimal interface to allow scanning from pgx rows and simplify testing.
type pgxRows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
	Close()
}
