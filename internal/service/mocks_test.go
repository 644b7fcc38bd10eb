package service_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/platform/paystack"
	"github.com/casaphilia/rentals-api/pkg/config"
)

// In-memory repo fakes mirroring the conditional-update semantics of the
// SQL layer.

type fakeBookingRepo struct {
	mu       sync.Mutex
	seq      int
	bookings map[string]*domain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[string]*domain.Booking{}}
}

func (r *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	cp := *b
	cp.ID = "bkg-" + strconv.Itoa(r.seq)
	cp.Status = domain.BookingPending
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.bookings[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) UpdateStatusIf(_ context.Context, id string, from, to domain.BookingStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeBookingRepo) ConfirmPaid(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status == domain.BookingCancelled {
		return false, nil
	}
	b.Status = domain.BookingConfirmed
	b.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeBookingRepo) OverlapExists(_ context.Context, propertyID string, checkIn, checkOut time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.PropertyID != propertyID || b.Status == domain.BookingCancelled {
			continue
		}
		if b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) ActiveCount(_ context.Context, propertyID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.bookings {
		if b.PropertyID == propertyID && b.Status != domain.BookingCancelled {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListForManager(context.Context, string, int, int) ([]domain.Booking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, status *domain.BookingStatus, _, _ int) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Booking
	for _, b := range r.bookings {
		if status == nil || b.Status == *status {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) Windows(_ context.Context, propertyID string) ([]domain.BookingWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.BookingWindow
	for _, b := range r.bookings {
		if b.PropertyID == propertyID && b.Status != domain.BookingCancelled {
			out = append(out, domain.BookingWindow{CheckIn: b.CheckIn, CheckOut: b.CheckOut})
		}
	}
	return out, nil
}

type fakePropertyRepo struct {
	properties map[string]*domain.Property
}

func newFakePropertyRepo(ps ...*domain.Property) *fakePropertyRepo {
	r := &fakePropertyRepo{properties: map[string]*domain.Property{}}
	for _, p := range ps {
		r.properties[p.ID] = p
	}
	return r
}

func (r *fakePropertyRepo) Create(_ context.Context, p *domain.Property) (*domain.Property, error) {
	cp := *p
	cp.ID = "prop-" + strconv.Itoa(len(r.properties)+1)
	r.properties[cp.ID] = &cp
	return &cp, nil
}

func (r *fakePropertyRepo) Update(_ context.Context, p *domain.Property) (*domain.Property, error) {
	if _, ok := r.properties[p.ID]; !ok {
		return nil, nil
	}
	r.properties[p.ID] = p
	return p, nil
}

func (r *fakePropertyRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.properties[id]; !ok {
		return false, nil
	}
	delete(r.properties, id)
	return true, nil
}

func (r *fakePropertyRepo) GetByID(_ context.Context, id string) (*domain.Property, error) {
	p, ok := r.properties[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (r *fakePropertyRepo) GetBySlug(_ context.Context, slug string) (*domain.Property, error) {
	for _, p := range r.properties {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePropertyRepo) Featured(context.Context, int) ([]domain.Property, error) { return nil, nil }
func (r *fakePropertyRepo) Search(context.Context, domain.PropertySearch) ([]domain.Property, error) {
	return nil, nil
}
func (r *fakePropertyRepo) ListByManager(context.Context, string) ([]domain.Property, error) {
	return nil, nil
}

type activityRecord struct {
	UserID, Action, EntityType, EntityID, Details string
}

type fakeActivityRepo struct {
	mu      sync.Mutex
	records []activityRecord
}

func (r *fakeActivityRepo) Append(_ context.Context, userID, action, entityType, entityID, details string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, activityRecord{userID, action, entityType, entityID, details})
	return nil
}

func (r *fakeActivityRepo) List(context.Context, int, int) ([]domain.ActivityLog, error) {
	return nil, nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	seq      int
	attempts map[string]*domain.PaymentAttempt
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{attempts: map[string]*domain.PaymentAttempt{}}
}

func (r *fakePaymentRepo) CreateAttempt(_ context.Context, a *domain.PaymentAttempt) (*domain.PaymentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	cp := *a
	cp.ID = "pay-" + strconv.Itoa(r.seq)
	cp.Status = domain.PaymentInitialized
	r.attempts[cp.Reference] = &cp
	out := cp
	return &out, nil
}

func (r *fakePaymentRepo) GetByReference(_ context.Context, reference string) (*domain.PaymentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[reference]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakePaymentRepo) SetStatusByReference(_ context.Context, reference string, status domain.PaymentAttemptStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[reference]
	if !ok {
		return false, nil
	}
	a.Status = status
	return true, nil
}

func (r *fakePaymentRepo) ListByBooking(_ context.Context, bookingID string) ([]domain.PaymentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.PaymentAttempt
	for _, a := range r.attempts {
		if a.BookingID == bookingID {
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (r *fakeUserRepo) Create(_ context.Context, email, hash, name, phone string, role domain.Role) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) UpdateRoleByEmail(context.Context, string, domain.Role) (bool, error) {
	return false, nil
}

func (r *fakeUserRepo) List(context.Context, int, int) ([]domain.User, error) { return nil, nil }

// fakeGateway scripts the payment processor.
type fakeGateway struct {
	mode        config.PaymentMode
	initErr     error
	verifyOK    bool
	verifyErr   error
	initialized []paystack.InitializeReq
	verified    []string
}

func (g *fakeGateway) Initialize(_ context.Context, req paystack.InitializeReq) (*paystack.Transaction, error) {
	if g.initErr != nil {
		return nil, g.initErr
	}
	g.initialized = append(g.initialized, req)
	return &paystack.Transaction{
		AuthorizationURL: "https://checkout.example/" + req.Reference,
		AccessCode:       "code",
		Reference:        req.Reference,
	}, nil
}

func (g *fakeGateway) Verify(_ context.Context, reference string) (bool, error) {
	g.verified = append(g.verified, reference)
	if g.verifyErr != nil {
		return false, g.verifyErr
	}
	return g.verifyOK, nil
}

func (g *fakeGateway) Mode() config.PaymentMode { return g.mode }
