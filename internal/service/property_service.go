package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/repo/postgres"
	"github.com/casaphilia/rentals-api/pkg/events"
	"github.com/casaphilia/rentals-api/pkg/logger"
)

type PropertyService interface {
	Create(ctx context.Context, identity domain.Identity, req *domain.PropertyReq) (*domain.Property, error)
	Update(ctx context.Context, identity domain.Identity, id string, req *domain.PropertyReq) (*domain.Property, error)
	Delete(ctx context.Context, identity domain.Identity, id string) error
	Get(ctx context.Context, id string) (*domain.Property, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Property, error)
	Featured(ctx context.Context, limit int) ([]domain.Property, error)
	Search(ctx context.Context, s domain.PropertySearch) ([]domain.Property, error)
	ListMine(ctx context.Context, identity domain.Identity) ([]domain.Property, error)
}

type propertyService struct {
	properties postgres.PropertyRepo
	bookings   postgres.BookingRepo
	activity   postgres.ActivityRepo
	eventBus   events.EventBus
	now        func() time.Time
}

func NewPropertyService(
	properties postgres.PropertyRepo,
	bookings postgres.BookingRepo,
	activity postgres.ActivityRepo,
	eventBus events.EventBus,
) PropertyService {
	return &propertyService{
		properties: properties,
		bookings:   bookings,
		activity:   activity,
		eventBus:   eventBus,
		now:        time.Now,
	}
}

func (s *propertyService) Create(ctx context.Context, identity domain.Identity, req *domain.PropertyReq) (*domain.Property, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	if identity.Role != domain.RolePropertyManager && !identity.IsAdmin() {
		return nil, fmt.Errorf("manager role required to list a property: %w", domain.ErrUnauthorized)
	}
	if err := validatePropertyReq(req); err != nil {
		return nil, err
	}

	in := propertyFromReq(req)
	in.ManagerID = identity.UserID
	in.Slug = slugify(req.Title) + "-" + uuid.NewString()[:8]

	p, err := s.properties.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	s.audit(ctx, identity.UserID, domain.ActionCreateProperty, p.ID, "Listed "+p.Title+".")
	s.publishProperty(ctx, events.PropertyCreated, p)
	return p, nil
}

func (s *propertyService) Update(ctx context.Context, identity domain.Identity, id string, req *domain.PropertyReq) (*domain.Property, error) {
	existing, err := s.authorizeManage(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	if err := validatePropertyReq(req); err != nil {
		return nil, err
	}

	in := propertyFromReq(req)
	in.ID = existing.ID

	p, err := s.properties.Update(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("property %s: %w", id, domain.ErrNotFound)
	}

	s.audit(ctx, identity.UserID, domain.ActionUpdateProperty, p.ID, "Updated "+p.Title+".")
	s.publishProperty(ctx, events.PropertyUpdated, p)
	return p, nil
}

func (s *propertyService) Delete(ctx context.Context, identity domain.Identity, id string) error {
	existing, err := s.authorizeManage(ctx, identity, id)
	if err != nil {
		return err
	}

	active, err := s.bookings.ActiveCount(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count active bookings: %w", err)
	}
	if active > 0 {
		return fmt.Errorf("property %s has %d active bookings: %w", id, active, domain.ErrConflict)
	}

	ok, err := s.properties.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	if !ok {
		return fmt.Errorf("property %s: %w", id, domain.ErrNotFound)
	}

	s.audit(ctx, identity.UserID, domain.ActionDeleteProperty, id, "Removed "+existing.Title+".")
	s.publishProperty(ctx, events.PropertyDeleted, existing)
	return nil
}

func (s *propertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("property %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (s *propertyService) GetBySlug(ctx context.Context, slug string) (*domain.Property, error) {
	p, err := s.properties.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("property %s: %w", slug, domain.ErrNotFound)
	}
	return p, nil
}

func (s *propertyService) Featured(ctx context.Context, limit int) ([]domain.Property, error) {
	return s.properties.Featured(ctx, limit)
}

func (s *propertyService) Search(ctx context.Context, search domain.PropertySearch) ([]domain.Property, error) {
	return s.properties.Search(ctx, search)
}

func (s *propertyService) ListMine(ctx context.Context, identity domain.Identity) ([]domain.Property, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	if identity.Role != domain.RolePropertyManager && !identity.IsAdmin() {
		return nil, fmt.Errorf("manager role required: %w", domain.ErrUnauthorized)
	}
	return s.properties.ListByManager(ctx, identity.UserID)
}

// authorizeManage loads the property and checks the caller may mutate it.
func (s *propertyService) authorizeManage(ctx context.Context, identity domain.Identity, id string) (*domain.Property, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}

	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("property %s: %w", id, domain.ErrNotFound)
	}
	if p.ManagerID != identity.UserID && !identity.IsAdmin() {
		return nil, fmt.Errorf("property %s is managed by someone else: %w", id, domain.ErrUnauthorized)
	}
	return p, nil
}

func validatePropertyReq(req *domain.PropertyReq) error {
	switch {
	case strings.TrimSpace(req.Title) == "":
		return fmt.Errorf("title is required: %w", domain.ErrValidation)
	case req.PricePerMonth <= 0:
		return fmt.Errorf("price per month must be positive: %w", domain.ErrValidation)
	case req.Bedrooms < 0 || req.Bathrooms < 0:
		return fmt.Errorf("room counts cannot be negative: %w", domain.ErrValidation)
	}
	if _, ok := domain.ParsePropertyType(string(req.Type)); !ok {
		return fmt.Errorf("unknown property type %q: %w", req.Type, domain.ErrValidation)
	}
	return nil
}

func propertyFromReq(req *domain.PropertyReq) *domain.Property {
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	period := req.BillingPeriod
	if period == "" {
		period = "MONTHLY"
	}

	images := make([]domain.PropertyImage, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, domain.PropertyImage{
			URL:       img.URL,
			Caption:   img.Caption,
			IsPrimary: img.IsPrimary,
		})
	}

	return &domain.Property{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Type:          req.Type,
		Address:       req.Address,
		City:          req.City,
		Country:       req.Country,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		SquareFeet:    req.SquareFeet,
		PricePerMonth: req.PricePerMonth,
		Currency:      currency,
		BillingPeriod: period,
		Amenities:     req.Amenities,
		Images:        images,
	}
}

// slugify lowercases the title and collapses everything that is not a
// letter or digit into single hyphens.
func slugify(title string) string {
	var sb strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			sb.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(sb.String(), "-")
}

func (s *propertyService) audit(ctx context.Context, userID, action, entityID, details string) {
	if err := s.activity.Append(ctx, userID, action, "PROPERTY", entityID, details); err != nil {
		logger.ErrorContext(ctx, "failed to append activity", "error", err, "action", action)
	}
}

func (s *propertyService) publishProperty(ctx context.Context, subject string, p *domain.Property) {
	event := events.PropertyEvent{
		PropertyID: p.ID,
		ManagerID:  p.ManagerID,
		Title:      p.Title,
		OccurredAt: s.now(),
	}
	if err := s.eventBus.Publish(ctx, subject, event); err != nil {
		logger.ErrorContext(ctx, "failed to publish property event",
			"error", err, "subject", subject, "property_id", p.ID)
	}
}

var _ PropertyService = (*propertyService)(nil)
