package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casaphilia/rentals-api/internal/domain"
)

type ReviewRepo interface {
	Create(ctx context.Context, propertyID, userID string, rating int, comment string) (*domain.Review, error)
	ExistsForUser(ctx context.Context, propertyID, userID string) (bool, error)
	ListByProperty(ctx context.Context, propertyID string, limit, offset int) ([]domain.Review, error)
}

type ReviewRepoImpl struct{ pool *pgxpool.Pool }

func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepoImpl { return &ReviewRepoImpl{pool: pool} }

func (r *ReviewRepoImpl) Create(ctx context.Context, propertyID, userID string, rating int, comment string) (*domain.Review, error) {
	const q = `INSERT INTO reviews (id, property_id, user_id, rating, comment)
  VALUES ($1,$2,$3,$4,$5)
  RETURNING id, property_id, user_id, rating, comment, created_at`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var rv domain.Review
	err := r.pool.QueryRow(ctx, q, uuid.NewString(), propertyID, userID, rating, comment).
		Scan(&rv.ID, &rv.PropertyID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepoImpl) ExistsForUser(ctx context.Context, propertyID, userID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM reviews WHERE property_id=$1 AND user_id=$2)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx, q, propertyID, userID).Scan(&exists)
	return exists, err
}

func (r *ReviewRepoImpl) ListByProperty(ctx context.Context, propertyID string, limit, offset int) ([]domain.Review, error) {
	limit, offset = clampPage(limit, offset)
	const q = `SELECT rv.id, rv.property_id, rv.user_id, u.full_name, rv.rating, rv.comment, rv.created_at
  FROM reviews rv
  JOIN users u ON u.id = rv.user_id
  WHERE rv.property_id=$1
  ORDER BY rv.created_at DESC LIMIT $2 OFFSET $3`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, propertyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rvs := make([]domain.Review, 0, limit)
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.PropertyID, &rv.UserID, &rv.AuthorName, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		rvs = append(rvs, rv)
	}
	return rvs, rows.Err()
}

var _ ReviewRepo = (*ReviewRepoImpl)(nil)
