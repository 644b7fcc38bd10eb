package service

import (
	"context"
	"fmt"
	"time"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/repo/postgres"
	"github.com/casaphilia/rentals-api/pkg/events"
	"github.com/casaphilia/rentals-api/pkg/logger"
)

type ApplicationService interface {
	Submit(ctx context.Context, identity domain.Identity, req *domain.ApplicationReq) (*domain.Application, error)
	Get(ctx context.Context, identity domain.Identity, id string) (*domain.Application, error)
	ListPending(ctx context.Context, identity domain.Identity, limit, offset int) ([]domain.Application, error)
	Review(ctx context.Context, identity domain.Identity, id string, req *domain.ApplicationReviewReq) (*domain.Application, error)
}

type applicationService struct {
	applications postgres.ApplicationRepo
	properties   postgres.PropertyRepo
	activity     postgres.ActivityRepo
	eventBus     events.EventBus
	now          func() time.Time
}

func NewApplicationService(
	applications postgres.ApplicationRepo,
	properties postgres.PropertyRepo,
	activity postgres.ActivityRepo,
	eventBus events.EventBus,
) ApplicationService {
	return &applicationService{
		applications: applications,
		properties:   properties,
		activity:     activity,
		eventBus:     eventBus,
		now:          time.Now,
	}
}

func (s *applicationService) Submit(ctx context.Context, identity domain.Identity, req *domain.ApplicationReq) (*domain.Application, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}

	property, err := s.properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("property %s: %w", req.PropertyID, domain.ErrNotFound)
	}

	app, err := s.applications.Create(ctx, req.PropertyID, identity.UserID, req.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to submit application: %w", err)
	}

	s.publish(ctx, events.ApplicationSubmitted, app)
	return app, nil
}

func (s *applicationService) Get(ctx context.Context, identity domain.Identity, id string) (*domain.Application, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}

	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
	}
	if app.UserID != identity.UserID && !identity.IsAdmin() {
		return nil, fmt.Errorf("application %s belongs to another resident: %w", id, domain.ErrUnauthorized)
	}
	return app, nil
}

func (s *applicationService) ListPending(ctx context.Context, identity domain.Identity, limit, offset int) ([]domain.Application, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	if !identity.IsAdmin() {
		return nil, fmt.Errorf("admin access required: %w", domain.ErrUnauthorized)
	}
	return s.applications.ListPending(ctx, limit, offset)
}

func (s *applicationService) Review(ctx context.Context, identity domain.Identity, id string, req *domain.ApplicationReviewReq) (*domain.Application, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	if !identity.IsAdmin() {
		return nil, fmt.Errorf("admin access required: %w", domain.ErrUnauthorized)
	}

	status, ok := domain.ParseApplicationStatus(req.Status)
	if !ok || status == domain.ApplicationPending {
		return nil, fmt.Errorf("review status must be APPROVED or REJECTED: %w", domain.ErrValidation)
	}

	updated, err := s.applications.Review(ctx, id, status, req.Reason, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to review application: %w", err)
	}
	if !updated {
		app, err := s.applications.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load application: %w", err)
		}
		if app == nil {
			return nil, fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("application %s already reviewed as %s: %w", id, app.Status, domain.ErrConflict)
	}

	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload application: %w", err)
	}

	if err := s.activity.Append(ctx, identity.UserID, domain.ActionReviewApplication, "APPLICATION", id,
		fmt.Sprintf("Application %s.", status)); err != nil {
		logger.ErrorContext(ctx, "failed to append activity", "error", err, "application_id", id)
	}
	s.publish(ctx, events.ApplicationReviewed, app)

	return app, nil
}

func (s *applicationService) publish(ctx context.Context, subject string, app *domain.Application) {
	event := events.ApplicationEvent{
		ApplicationID: app.ID,
		PropertyID:    app.PropertyID,
		UserID:        app.UserID,
		Status:        string(app.Status),
		OccurredAt:    s.now(),
	}
	if err := s.eventBus.Publish(ctx, subject, event); err != nil {
		logger.ErrorContext(ctx, "failed to publish application event",
			"error", err, "subject", subject, "application_id", app.ID)
	}
}

var _ ApplicationService = (*applicationService)(nil)
