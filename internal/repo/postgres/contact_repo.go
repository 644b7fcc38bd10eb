package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casaphilia/rentals-api/internal/domain"
)

type ContactRepo interface {
	Create(ctx context.Context, req *domain.ContactReq) (*domain.ContactMessage, error)
	List(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error)
}

type ContactRepoImpl struct{ pool *pgxpool.Pool }

func NewContactRepo(pool *pgxpool.Pool) *ContactRepoImpl { return &ContactRepoImpl{pool: pool} }

func (r *ContactRepoImpl) Create(ctx context.Context, req *domain.ContactReq) (*domain.ContactMessage, error) {
	const q = `INSERT INTO contact_messages (id, name, email, subject, message)
  VALUES ($1,$2,$3,$4,$5)
  RETURNING id, name, email, subject, message, created_at`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var m domain.ContactMessage
	err := r.pool.QueryRow(ctx, q, uuid.NewString(), req.Name, req.Email, req.Subject, req.Message).
		Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ContactRepoImpl) List(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error) {
	limit, offset = clampPage(limit, offset)
	const q = `SELECT id, name, email, subject, message, created_at
  FROM contact_messages ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ms := make([]domain.ContactMessage, 0, limit)
	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return ms, rows.Err()
}

var _ ContactRepo = (*ContactRepoImpl)(nil)
