package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/alexedwards/argon2id"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/repo/postgres"
	"github.com/casaphilia/rentals-api/pkg/auth"
	"github.com/casaphilia/rentals-api/pkg/config"
)

type AuthService interface {
	Register(ctx context.Context, req *domain.RegisterReq) (*domain.User, error)
	Login(ctx context.Context, req *domain.LoginReq) (*domain.LoginRes, error)
	GetUser(ctx context.Context, identity domain.Identity, id string) (*domain.User, error)
	ListUsers(ctx context.Context, identity domain.Identity, limit, offset int) ([]domain.User, error)
	UpdateUserRole(ctx context.Context, identity domain.Identity, email string, role domain.Role) error
}

type authService struct {
	users    postgres.UserRepo
	activity postgres.ActivityRepo
	cfg      *config.Config
}

func NewAuthService(users postgres.UserRepo, activity postgres.ActivityRepo, cfg *config.Config) AuthService {
	return &authService{users: users, activity: activity, cfg: cfg}
}

const minPasswordLen = 8

func (s *authService) Register(ctx context.Context, req *domain.RegisterReq) (*domain.User, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fmt.Errorf("invalid email address: %w", domain.ErrValidation)
	}
	if len(req.Password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, domain.ErrValidation)
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, fmt.Errorf("full name is required: %w", domain.ErrValidation)
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Email, hash, req.FullName, req.Phone, domain.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, req *domain.LoginReq) (*domain.LoginRes, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrAuthenticationRequired)
	}

	valid, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to compare password: %w", err)
	}
	if !valid {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrAuthenticationRequired)
	}

	token, err := auth.NewAccessToken(user.ID, user.Email, string(user.Role),
		s.cfg.Auth.JWTSecret, s.cfg.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &domain.LoginRes{
		AccessToken: token,
		ExpiresIn:   int64(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User:        user,
	}, nil
}

func (s *authService) GetUser(ctx context.Context, identity domain.Identity, id string) (*domain.User, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	if identity.UserID != id && !identity.IsAdmin() {
		return nil, fmt.Errorf("actor %s may not view user %s: %w", identity.UserID, id, domain.ErrUnauthorized)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return user, nil
}

func (s *authService) ListUsers(ctx context.Context, identity domain.Identity, limit, offset int) ([]domain.User, error) {
	if identity.UserID == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	if !identity.IsAdmin() {
		return nil, fmt.Errorf("admin access required: %w", domain.ErrUnauthorized)
	}
	return s.users.List(ctx, limit, offset)
}

func (s *authService) UpdateUserRole(ctx context.Context, identity domain.Identity, email string, role domain.Role) error {
	if identity.UserID == "" {
		return domain.ErrAuthenticationRequired
	}
	if !identity.IsAdmin() {
		return fmt.Errorf("admin access required: %w", domain.ErrUnauthorized)
	}

	ok, err := s.users.UpdateRoleByEmail(ctx, email, role)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	if !ok {
		return fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
	}

	if err := s.activity.Append(ctx, identity.UserID, domain.ActionUpdateUserRole, "USER", email,
		fmt.Sprintf("Role set to %s.", role)); err != nil {
		return nil // audit failure is logged at the repo level, not fatal
	}
	return nil
}

var _ AuthService = (*authService)(nil)
