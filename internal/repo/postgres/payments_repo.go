package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casaphilia/rentals-api/internal/domain"
)

type PaymentRepo interface {
	CreateAttempt(ctx context.Context, a *domain.PaymentAttempt) (*domain.PaymentAttempt, error)
	GetByReference(ctx context.Context, reference string) (*domain.PaymentAttempt, error)
	SetStatusByReference(ctx context.Context, reference string, status domain.PaymentAttemptStatus) (bool, error)
	ListByBooking(ctx context.Context, bookingID string) ([]domain.PaymentAttempt, error)
}

type PaymentRepoImpl struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepoImpl { return &PaymentRepoImpl{pool: pool} }

const paymentCols = `id, booking_id, reference, amount, payer_email, callback_url, status, mode, created_at, updated_at`

func scanPayment(row pgx.Row) (*domain.PaymentAttempt, error) {
	var a domain.PaymentAttempt
	err := row.Scan(&a.ID, &a.BookingID, &a.Reference, &a.Amount, &a.PayerEmail,
		&a.CallbackURL, &a.Status, &a.Mode, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PaymentRepoImpl) CreateAttempt(ctx context.Context, in *domain.PaymentAttempt) (*domain.PaymentAttempt, error) {
	const q = `INSERT INTO payment_attempts (
    id, booking_id, reference, amount, payer_email, callback_url, status, mode
  ) VALUES ($1,$2,$3,$4,$5,$6,'INITIALIZED',$7)
  RETURNING ` + paymentCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanPayment(r.pool.QueryRow(ctx, q, uuid.NewString(),
		in.BookingID, in.Reference, in.Amount, in.PayerEmail, in.CallbackURL, in.Mode))
}

func (r *PaymentRepoImpl) GetByReference(ctx context.Context, reference string) (*domain.PaymentAttempt, error) {
	const q = `SELECT ` + paymentCols + ` FROM payment_attempts WHERE reference=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	a, err := scanPayment(r.pool.QueryRow(ctx, q, reference))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func (r *PaymentRepoImpl) SetStatusByReference(ctx context.Context, reference string, status domain.PaymentAttemptStatus) (bool, error) {
	const q = `UPDATE payment_attempts SET status=$2, updated_at=now() WHERE reference=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, reference, status)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *PaymentRepoImpl) ListByBooking(ctx context.Context, bookingID string) ([]domain.PaymentAttempt, error) {
	const q = `SELECT ` + paymentCols + ` FROM payment_attempts
  WHERE booking_id=$1 ORDER BY created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	as := make([]domain.PaymentAttempt, 0)
	for rows.Next() {
		a, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		as = append(as, *a)
	}
	return as, rows.Err()
}

var _ PaymentRepo = (*PaymentRepoImpl)(nil)
