package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"tara/internal/domain"
)

type AssessmentRepository interface {
	Create(ctx context.Context, a domain.Assessment) error
	LatestByKind(ctx context.Context, userID, kind string) (domain.Assessment, []byte, error)
}

type PgAssessmentRepository struct {
	pool *pgxpool.Pool
}

func NewPgAssessmentRepository(pool *pgxpool.Pool) *PgAssessmentRepository {
	return &PgAssessmentRepository{pool: pool}
}

func (r *PgAssessmentRepository) Create(ctx context.Context, a domain.Assessment) error {
	result, err := json.Marshal(a.Result)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO assessments (id, user_id, kind, answers, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.pool.Exec(ctx, query,
		a.ID,
		a.UserID,
		a.Kind,
		a.Answers,
		result,
		a.CreatedAt,
	)
	return err
}

// LatestByKind devuelve el ultimo resultado y su JSON crudo para que el llamador lo decodifique.
func (r *PgAssessmentRepository) LatestByKind(ctx context.Context, userID, kind string) (domain.Assessment, []byte, error) {
	const query = `
		SELECT id, user_id, kind, answers, result, created_at
		FROM assessments
		WHERE user_id = $1 AND kind = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	var a domain.Assessment
	var raw []byte
	err := r.pool.QueryRow(ctx, query, userID, kind).Scan(
		&a.ID,
		&a.UserID,
		&a.Kind,
		&a.Answers,
		&raw,
		&a.CreatedAt,
	)
	if err != nil {
		return domain.Assessment{}, nil, err
	}
	return a, raw, nil
}
