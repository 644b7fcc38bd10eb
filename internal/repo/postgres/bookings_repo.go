package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casaphilia/rentals-api/internal/domain"
)

type BookingRepo interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	// UpdateStatusIf transitions id from one observed status to another in a
	// single conditional statement; false means the row was missing or no
	// longer in the expected status.
	UpdateStatusIf(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error)
	// ConfirmPaid sets status CONFIRMED unless the booking is CANCELLED.
	// Confirming an already-confirmed booking matches and is a no-op.
	ConfirmPaid(ctx context.Context, id string) (bool, error)
	OverlapExists(ctx context.Context, propertyID string, checkIn, checkOut time.Time) (bool, error)
	ActiveCount(ctx context.Context, propertyID string) (int, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Booking, error)
	ListForManager(ctx context.Context, managerID string, limit, offset int) ([]domain.Booking, error)
	ListAll(ctx context.Context, status *domain.BookingStatus, limit, offset int) ([]domain.Booking, error)
	Windows(ctx context.Context, propertyID string) ([]domain.BookingWindow, error)
}

type BookingRepoImpl struct{ pool *pgxpool.Pool }

func NewBookingRepo(pool *pgxpool.Pool) *BookingRepoImpl { return &BookingRepoImpl{pool: pool} }

const bookingCols = `id, property_id, user_id, check_in, check_out,
guests, total_price, status, message, phone, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID, &b.PropertyID, &b.UserID, &b.CheckIn, &b.CheckOut,
		&b.Guests, &b.TotalPrice, &b.Status, &b.Message, &b.Phone,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepoImpl) Create(ctx context.Context, in *domain.Booking) (*domain.Booking, error) {
	const q = `INSERT INTO bookings (
    id, property_id, user_id, check_in, check_out,
    guests, total_price, status, message, phone
  ) VALUES ($1,$2,$3,$4,$5,$6,$7,'PENDING',$8,$9)
  RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanBooking(r.pool.QueryRow(ctx, q, uuid.NewString(),
		in.PropertyID, in.UserID, in.CheckIn, in.CheckOut,
		in.Guests, in.TotalPrice, in.Message, in.Phone,
	))
}

func (r *BookingRepoImpl) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBooking(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return b, err
}

func (r *BookingRepoImpl) UpdateStatusIf(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error) {
	const q = `UPDATE bookings SET status=$3, updated_at=now() WHERE id=$1 AND status=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id, from, to)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *BookingRepoImpl) ConfirmPaid(ctx context.Context, id string) (bool, error) {
	const q = `UPDATE bookings SET status='CONFIRMED', updated_at=now()
  WHERE id=$1 AND status <> 'CANCELLED'`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *BookingRepoImpl) OverlapExists(ctx context.Context, propertyID string, checkIn, checkOut time.Time) (bool, error) {
	const q = `SELECT EXISTS (
    SELECT 1 FROM bookings
    WHERE property_id=$1 AND status IN ('PENDING','CONFIRMED')
      AND check_in < $3 AND check_out > $2
  )`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx, q, propertyID, checkIn, checkOut).Scan(&exists)
	return exists, err
}

func (r *BookingRepoImpl) ActiveCount(ctx context.Context, propertyID string) (int, error) {
	const q = `SELECT count(*) FROM bookings
  WHERE property_id=$1 AND status IN ('PENDING','CONFIRMED')`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int
	err := r.pool.QueryRow(ctx, q, propertyID).Scan(&n)
	return n, err
}

func (r *BookingRepoImpl) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Booking, error) {
	limit, offset = clampPage(limit, offset)
	const q = `SELECT ` + bookingCols + ` FROM bookings
  WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, q, userID, limit, offset)
}

func (r *BookingRepoImpl) ListForManager(ctx context.Context, managerID string, limit, offset int) ([]domain.Booking, error) {
	limit, offset = clampPage(limit, offset)
	const q = `SELECT b.id, b.property_id, b.user_id, b.check_in, b.check_out,
  b.guests, b.total_price, b.status, b.message, b.phone, b.created_at, b.updated_at
  FROM bookings b
  JOIN properties p ON p.id = b.property_id
  WHERE p.manager_id=$1
  ORDER BY b.created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, q, managerID, limit, offset)
}

func (r *BookingRepoImpl) ListAll(ctx context.Context, status *domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	limit, offset = clampPage(limit, offset)
	if status != nil {
		const q = `SELECT ` + bookingCols + ` FROM bookings
  WHERE status=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		return r.list(ctx, q, *status, limit, offset)
	}
	const q = `SELECT ` + bookingCols + ` FROM bookings
  ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(ctx, q, limit, offset)
}

func (r *BookingRepoImpl) list(ctx context.Context, q string, args ...any) ([]domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bs := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID, &b.PropertyID, &b.UserID, &b.CheckIn, &b.CheckOut,
			&b.Guests, &b.TotalPrice, &b.Status, &b.Message, &b.Phone,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		bs = append(bs, b)
	}
	return bs, rows.Err()
}

func (r *BookingRepoImpl) Windows(ctx context.Context, propertyID string) ([]domain.BookingWindow, error) {
	const q = `SELECT check_in, check_out FROM bookings
  WHERE property_id=$1 AND status IN ('PENDING','CONFIRMED')
  ORDER BY check_in`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ws := make([]domain.BookingWindow, 0)
	for rows.Next() {
		var w domain.BookingWindow
		if err := rows.Scan(&w.CheckIn, &w.CheckOut); err != nil {
			return nil, err
		}
		ws = append(ws, w)
	}
	return ws, rows.Err()
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

var _ BookingRepo = (*BookingRepoImpl)(nil)
