package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casaphilia/rentals-api/internal/domain"
)

type PropertyRepo interface {
	Create(ctx context.Context, p *domain.Property) (*domain.Property, error)
	Update(ctx context.Context, p *domain.Property) (*domain.Property, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Property, error)
	Featured(ctx context.Context, limit int) ([]domain.Property, error)
	Search(ctx context.Context, s domain.PropertySearch) ([]domain.Property, error)
	ListByManager(ctx context.Context, managerID string) ([]domain.Property, error)
}

type PropertyRepoImpl struct{ pool *pgxpool.Pool }

func NewPropertyRepo(pool *pgxpool.Pool) *PropertyRepoImpl { return &PropertyRepoImpl{pool: pool} }

const propertyCols = `id, manager_id, title, slug, description, type,
address, city, country, bedrooms, bathrooms, square_feet,
price_per_month, currency, billing_period, amenities, status,
created_at, updated_at`

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var p domain.Property
	err := row.Scan(
		&p.ID, &p.ManagerID, &p.Title, &p.Slug, &p.Description, &p.Type,
		&p.Address, &p.City, &p.Country, &p.Bedrooms, &p.Bathrooms, &p.SquareFeet,
		&p.PricePerMonth, &p.Currency, &p.BillingPeriod, &p.Amenities, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PropertyRepoImpl) Create(ctx context.Context, in *domain.Property) (*domain.Property, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `INSERT INTO properties (
    id, manager_id, title, slug, description, type,
    address, city, country, bedrooms, bathrooms, square_feet,
    price_per_month, currency, billing_period, amenities, status
  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,'AVAILABLE')
  RETURNING ` + propertyCols

	p, err := scanProperty(tx.QueryRow(ctx, q, uuid.NewString(),
		in.ManagerID, in.Title, in.Slug, in.Description, in.Type,
		in.Address, in.City, in.Country, in.Bedrooms, in.Bathrooms, in.SquareFeet,
		in.PricePerMonth, in.Currency, in.BillingPeriod, in.Amenities,
	))
	if err != nil {
		return nil, err
	}

	if err := insertImages(ctx, tx, p.ID, in.Images); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.Images, err = r.images(ctx, p.ID)
	return p, err
}

func (r *PropertyRepoImpl) Update(ctx context.Context, in *domain.Property) (*domain.Property, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `UPDATE properties SET
    title=$2, description=$3, type=$4, address=$5, city=$6, country=$7,
    bedrooms=$8, bathrooms=$9, square_feet=$10, price_per_month=$11,
    currency=$12, billing_period=$13, amenities=$14, updated_at=now()
  WHERE id=$1
  RETURNING ` + propertyCols

	p, err := scanProperty(tx.QueryRow(ctx, q, in.ID,
		in.Title, in.Description, in.Type, in.Address, in.City, in.Country,
		in.Bedrooms, in.Bathrooms, in.SquareFeet, in.PricePerMonth,
		in.Currency, in.BillingPeriod, in.Amenities,
	))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// Image set is replaced wholesale on update.
	if _, err := tx.Exec(ctx, `DELETE FROM property_images WHERE property_id=$1`, p.ID); err != nil {
		return nil, err
	}
	if err := insertImages(ctx, tx, p.ID, in.Images); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.Images, err = r.images(ctx, p.ID)
	return p, err
}

func insertImages(ctx context.Context, tx pgx.Tx, propertyID string, images []domain.PropertyImage) error {
	const q = `INSERT INTO property_images (id, property_id, url, caption, is_primary, display_order)
  VALUES ($1,$2,$3,$4,$5,$6)`
	for i, img := range images {
		primary := img.IsPrimary || i == 0
		if _, err := tx.Exec(ctx, q, uuid.NewString(), propertyID, img.URL, img.Caption, primary, i); err != nil {
			return err
		}
	}
	return nil
}

func (r *PropertyRepoImpl) Delete(ctx context.Context, id string) (bool, error) {
	const q = `DELETE FROM properties WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *PropertyRepoImpl) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	const q = `SELECT ` + propertyCols + ` FROM properties WHERE id=$1`
	return r.getOne(ctx, q, id)
}

func (r *PropertyRepoImpl) GetBySlug(ctx context.Context, slug string) (*domain.Property, error) {
	const q = `SELECT ` + propertyCols + ` FROM properties WHERE slug=$1`
	return r.getOne(ctx, q, slug)
}

func (r *PropertyRepoImpl) getOne(ctx context.Context, q string, arg any) (*domain.Property, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanProperty(r.pool.QueryRow(ctx, q, arg))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Images, err = r.images(ctx, p.ID)
	return p, err
}

func (r *PropertyRepoImpl) Featured(ctx context.Context, limit int) ([]domain.Property, error) {
	if limit <= 0 || limit > 20 {
		limit = 3
	}
	const q = `SELECT ` + propertyCols + ` FROM properties
  WHERE status='AVAILABLE' ORDER BY created_at DESC LIMIT $1`
	return r.list(ctx, q, limit)
}

func (r *PropertyRepoImpl) Search(ctx context.Context, s domain.PropertySearch) ([]domain.Property, error) {
	limit, offset := clampPage(s.Limit, s.Offset)

	var sb strings.Builder
	sb.WriteString(`SELECT ` + propertyCols + ` FROM properties WHERE status='AVAILABLE'`)
	args := []any{}

	add := func(cond string, v any) {
		args = append(args, v)
		sb.WriteString(" AND " + cond + "$" + strconv.Itoa(len(args)))
	}

	if s.City != "" {
		add("city ILIKE ", "%"+s.City+"%")
	}
	if s.Type != nil {
		add("type = ", *s.Type)
	}
	if s.MinPrice != nil {
		add("price_per_month >= ", *s.MinPrice)
	}
	if s.MaxPrice != nil {
		add("price_per_month <= ", *s.MaxPrice)
	}
	if s.MinBedrooms != nil {
		add("bedrooms >= ", *s.MinBedrooms)
	}

	args = append(args, limit, offset)
	sb.WriteString(" ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args)))

	return r.list(ctx, sb.String(), args...)
}

func (r *PropertyRepoImpl) ListByManager(ctx context.Context, managerID string) ([]domain.Property, error) {
	const q = `SELECT ` + propertyCols + ` FROM properties
  WHERE manager_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, q, managerID)
}

func (r *PropertyRepoImpl) list(ctx context.Context, q string, args ...any) ([]domain.Property, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
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

	for i := range ps {
		imgs, err := r.images(ctx, ps[i].ID)
		if err != nil {
			return nil, err
		}
		ps[i].Images = imgs
	}
	return ps, nil
}

func (r *PropertyRepoImpl) images(ctx context.Context, propertyID string) ([]domain.PropertyImage, error) {
	const q = `SELECT id, property_id, url, caption, is_primary, display_order
  FROM property_images WHERE property_id=$1 ORDER BY display_order`

	rows, err := r.pool.Query(ctx, q, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	imgs := make([]domain.PropertyImage, 0)
	for rows.Next() {
		var img domain.PropertyImage
		if err := rows.Scan(&img.ID, &img.PropertyID, &img.URL, &img.Caption, &img.IsPrimary, &img.DisplayOrder); err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}
	return imgs, rows.Err()
}

var _ PropertyRepo = (*PropertyRepoImpl)(nil)
