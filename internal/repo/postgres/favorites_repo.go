package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casaphilia/rentals-api/internal/domain"
)

type FavoriteRepo interface {
	Add(ctx context.Context, userID, propertyID string) (bool, error)
	Remove(ctx context.Context, userID, propertyID string) (bool, error)
	Exists(ctx context.Context, userID, propertyID string) (bool, error)
	ListProperties(ctx context.Context, userID string, limit, offset int) ([]domain.Property, error)
}

type FavoriteRepoImpl struct{ pool *pgxpool.Pool }

func NewFavoriteRepo(pool *pgxpool.Pool) *FavoriteRepoImpl { return &FavoriteRepoImpl{pool: pool} }

func (r *FavoriteRepoImpl) Add(ctx context.Context, userID, propertyID string) (bool, error) {
	const q = `INSERT INTO favorites (id, user_id, property_id)
  VALUES ($1,$2,$3)
  ON CONFLICT (user_id, property_id) DO NOTHING`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, uuid.NewString(), userID, propertyID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *FavoriteRepoImpl) Remove(ctx context.Context, userID, propertyID string) (bool, error) {
	const q = `DELETE FROM favorites WHERE user_id=$1 AND property_id=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, userID, propertyID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *FavoriteRepoImpl) Exists(ctx context.Context, userID, propertyID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id=$1 AND property_id=$2)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx, q, userID, propertyID).Scan(&exists)
	return exists, err
}

// ListProperties returns the resident's saved properties, newest save first,
// each carrying its primary image.
func (r *FavoriteRepoImpl) ListProperties(ctx context.Context, userID string, limit, offset int) ([]domain.Property, error) {
	limit, offset = clampPage(limit, offset)
	const q = `SELECT p.id, p.manager_id, p.title, p.slug, p.description, p.type,
  p.address, p.city, p.country, p.bedrooms, p.bathrooms, p.square_feet,
  p.price_per_month, p.currency, p.billing_period, p.amenities, p.status,
  p.created_at, p.updated_at
  FROM favorites f
  JOIN properties p ON p.id = f.property_id
  WHERE f.user_id=$1
  ORDER BY f.created_at DESC LIMIT $2 OFFSET $3`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ps := make([]domain.Property, 0)
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(
			&p.ID, &p.ManagerID, &p.Title, &p.Slug, &p.Description, &p.Type,
			&p.Address, &p.City, &p.Country, &p.Bedrooms, &p.Bathrooms, &p.SquareFeet,
			&p.PricePerMonth, &p.Currency, &p.BillingPeriod, &p.Amenities, &p.Status,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const qi = `SELECT id, property_id, url, caption, is_primary, display_order
  FROM property_images WHERE property_id=$1 AND is_primary
  ORDER BY display_order LIMIT 1`
	for i := range ps {
		var img domain.PropertyImage
		err := r.pool.QueryRow(ctx, qi, ps[i].ID).Scan(
			&img.ID, &img.PropertyID, &img.URL, &img.Caption, &img.IsPrimary, &img.DisplayOrder)
		if err == pgx.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, err
		}
		ps[i].Images = []domain.PropertyImage{img}
	}
	return ps, nil
}

var _ FavoriteRepo = (*FavoriteRepoImpl)(nil)
