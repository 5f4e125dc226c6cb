package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bazaarhq/marketplace/internal/auth"
	"github.com/bazaarhq/marketplace/internal/config"
	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/repository"
	apperrors "github.com/bazaarhq/marketplace/pkg/util/errorutil"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	FullName    *string
	Address     *string
	PhoneNumber *string
}

// AuthService coordinates registration, login and token verification for one tenant.
type AuthService struct {
	users      repository.UserRepository
	revoked    auth.RevocationStore
	tokenMgr   *auth.TokenManager
	tenantID   string
	bcryptCost int
	admins     map[string]struct{}
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	Revocations auth.RevocationStore
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	admins := make(map[string]struct{}, len(cfg.Auth.AdminUsernames))
	for _, name := range cfg.Auth.AdminUsernames {
		admins[name] = struct{}{}
	}
	return &AuthService{
		users:      deps.UserRepo,
		revoked:    deps.Revocations,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		tenantID:   cfg.Tenant.ID,
		bcryptCost: cfg.Auth.BcryptCost,
		admins:     admins,
	}
}

// Register creates a new account in the service's tenant.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if _, err := s.users.GetByUsername(ctx, s.tenantID, in.Username); err == nil {
		return nil, apperrors.NewConflict("username already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	role := domain.RoleUser
	if _, ok := s.admins[in.Username]; ok {
		role = domain.RoleAdmin
	}

	user := &domain.User{
		TenantID:     s.tenantID,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Address:      in.Address,
		PhoneNumber:  in.PhoneNumber,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login authenticates a user and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, s.tenantID, username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Verify resolves a token to its user. With admin set, only admins pass.
func (s *AuthService) Verify(ctx context.Context, token string, admin bool) (*domain.User, error) {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}
	if claims.TenantID != s.tenantID {
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewUnauthorized("invalid token")
	}
	if err != nil {
		return nil, err
	}
	if admin && user.Role != domain.RoleAdmin {
		return nil, apperrors.NewUnauthorized("admin privilege required")
	}
	return user, nil
}

// Logout revokes the token until it expires.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if claims.ExpiresAt == nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
