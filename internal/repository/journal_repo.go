package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"tara/internal/domain"
)

type JournalRepository interface {
	Create(ctx context.Context, entry domain.JournalEntry) error
	Update(ctx context.Context, entry domain.JournalEntry) error
	Delete(ctx context.Context, userID, id string) error
	GetByID(ctx context.Context, userID, id string) (domain.JournalEntry, error)
	ListByUser(ctx context.Context, userID string) ([]domain.JournalEntry, error)
	SetEmbedding(ctx context.Context, id string, embedding pgvector.Vector) error
	SearchSimilar(ctx context.Context, userID, excludeID string, embedding pgvector.Vector, k int) ([]domain.JournalEntry, error)
}

type PgJournalRepository struct {
	pool *pgxpool.Pool
}

func NewPgJournalRepository(pool *pgxpool.Pool) *PgJournalRepository {
	return &PgJournalRepository{pool: pool}
}

func (r *PgJournalRepository) Create(ctx context.Context, entry domain.JournalEntry) error {
	const query = `
		INSERT INTO journal_entries (id, user_id, title, content, embedding, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Title,
		entry.Content,
		entry.Embedding,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	return err
}

// Update reescribe titulo y contenido; el embedding se invalida hasta recalcularlo.
func (r *PgJournalRepository) Update(ctx context.Context, entry domain.JournalEntry) error {
	const query = `
		UPDATE journal_entries
		SET title = $1, content = $2, embedding = NULL, updated_at = $3
		WHERE id = $4 AND user_id = $5
	`
	tag, err := r.pool.Exec(ctx, query,
		entry.Title,
		entry.Content,
		entry.UpdatedAt,
		entry.ID,
		entry.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgJournalRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM journal_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgJournalRepository) GetByID(ctx context.Context, userID, id string) (domain.JournalEntry, error) {
	const query = `
		SELECT id, user_id, COALESCE(title, ''), content, embedding, created_at, updated_at
		FROM journal_entries
		WHERE id = $1 AND user_id = $2
	`
	var j domain.JournalEntry
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&j.ID,
		&j.UserID,
		&j.Title,
		&j.Content,
		&j.Embedding,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.JournalEntry{}, err
	}
	return j, err
}

func (r *PgJournalRepository) ListByUser(ctx context.Context, userID string) ([]domain.JournalEntry, error) {
	const query = `
		SELECT id, user_id, COALESCE(title, ''), content, created_at, updated_at
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJournals(rows)
}

func (r *PgJournalRepository) SetEmbedding(ctx context.Context, id string, embedding pgvector.Vector) error {
	_, err := r.pool.Exec(ctx, `UPDATE journal_entries SET embedding = $1 WHERE id = $2`, embedding, id)
	return err
}

// SearchSimilar busca por distancia coseno dentro de las entradas del mismo usuario.
func (r *PgJournalRepository) SearchSimilar(ctx context.Context, userID, excludeID string, embedding pgvector.Vector, k int) ([]domain.JournalEntry, error) {
	if k <= 0 {
		k = 5
	}
	const query = `
		SELECT id, user_id, COALESCE(title, ''), content, created_at, updated_at
		FROM journal_entries
		WHERE user_id = $1 AND id <> $2 AND embedding IS NOT NULL
		ORDER BY embedding <=> $3
		LIMIT $4
	`
	rows, err := r.pool.Query(ctx, query, userID, excludeID, embedding, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJournals(rows)
}

func scanJournals(rows pgxRows) ([]domain.JournalEntry, error) {
	var entries []domain.JournalEntry
	for rows.Next() {
		var j domain.JournalEntry
		if err := rows.Scan(
			&j.ID,
			&j.UserID,
			&j.Title,
			&j.Content,
			&j.CreatedAt,
			&j.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
