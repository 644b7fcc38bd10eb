package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casaphilia/rentals-api/internal/domain"
)

type ApplicationRepo interface {
	Create(ctx context.Context, propertyID, userID, message string) (*domain.Application, error)
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	ListPending(ctx context.Context, limit, offset int) ([]domain.Application, error)
	// Review resolves a PENDING application; false means it was missing or
	// already reviewed.
	Review(ctx context.Context, id string, status domain.ApplicationStatus, reason, reviewerID string) (bool, error)
}

type ApplicationRepoImpl struct{ pool *pgxpool.Pool }

func NewApplicationRepo(pool *pgxpool.Pool) *ApplicationRepoImpl {
	return &ApplicationRepoImpl{pool: pool}
}

const applicationCols = `id, property_id, user_id, message, status, reason, reviewed_by, created_at, updated_at`

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var a domain.Application
	var reason, reviewedBy *string
	err := row.Scan(&a.ID, &a.PropertyID, &a.UserID, &a.Message, &a.Status, &reason, &reviewedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if reason != nil {
		a.Reason = *reason
	}
	if reviewedBy != nil {
		a.ReviewedBy = *reviewedBy
	}
	return &a, nil
}

func (r *ApplicationRepoImpl) Create(ctx context.Context, propertyID, userID, message string) (*domain.Application, error) {
	const q = `INSERT INTO applications (id, property_id, user_id, message, status)
  VALUES ($1,$2,$3,$4,'PENDING')
  RETURNING ` + applicationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanApplication(r.pool.QueryRow(ctx, q, uuid.NewString(), propertyID, userID, message))
}

func (r *ApplicationRepoImpl) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	const q = `SELECT ` + applicationCols + ` FROM applications WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	a, err := scanApplication(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func (r *ApplicationRepoImpl) ListPending(ctx context.Context, limit, offset int) ([]domain.Application, error) {
	limit, offset = clampPage(limit, offset)
	const q = `SELECT ` + applicationCols + ` FROM applications
  WHERE status='PENDING' ORDER BY created_at ASC LIMIT $1 OFFSET $2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	as := make([]domain.Application, 0, limit)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		as = append(as, *a)
	}
	return as, rows.Err()
}

func (r *ApplicationRepoImpl) Review(ctx context.Context, id string, status domain.ApplicationStatus, reason, reviewerID string) (bool, error) {
	const q = `UPDATE applications
  SET status=$2, reason=$3, reviewed_by=$4, updated_at=now()
  WHERE id=$1 AND status='PENDING'`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id, status, reason, reviewerID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

var _ ApplicationRepo = (*ApplicationRepoImpl)(nil)
