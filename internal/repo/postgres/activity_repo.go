package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casaphilia/rentals-api/internal/domain"
)

type ActivityRepo interface {
	Append(ctx context.Context, userID, action, entityType, entityID, details string) error
	List(ctx context.Context, limit, offset int) ([]domain.ActivityLog, error)
}

type ActivityRepoImpl struct{ pool *pgxpool.Pool }

func NewActivityRepo(pool *pgxpool.Pool) *ActivityRepoImpl { return &ActivityRepoImpl{pool: pool} }

func (r *ActivityRepoImpl) Append(ctx context.Context, userID, action, entityType, entityID, details string) error {
	const q = `INSERT INTO activity_log (id, user_id, action, entity_type, entity_id, details)
  VALUES ($1,$2,$3,$4,$5,$6)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, uuid.NewString(), userID, action, entityType, entityID, details)
	return err
}

func (r *ActivityRepoImpl) List(ctx context.Context, limit, offset int) ([]domain.ActivityLog, error) {
	limit, offset = clampPage(limit, offset)
	const q = `SELECT id, user_id, action, entity_type, entity_id, details, created_at
  FROM activity_log ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ls := make([]domain.ActivityLog, 0, limit)
	for rows.Next() {
		var l domain.ActivityLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.EntityType, &l.EntityID, &l.Details, &l.CreatedAt); err != nil {
			return nil, err
		}
		ls = append(ls, l)
	}
	return ls, rows.Err()
}

var _ ActivityRepo = (*ActivityRepoImpl)(nil)
