package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/events"
	"github.com/bazaarhq/marketplace/internal/repository"
	apperrors "github.com/bazaarhq/marketplace/pkg/util/errorutil"
)

// UpdateTenantInput describes the tenant after an edit.
type UpdateTenantInput struct {
	TenantID string
	OwnerID  string
	Name     string
}

// TenantService manages tenants on behalf of their owners.
type TenantService struct {
	tenants    repository.TenantRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewTenantService builds the service.
func NewTenantService(tenants repository.TenantRepository, dispatcher events.Dispatcher, logger *zap.Logger) *TenantService {
	return &TenantService{tenants: tenants, dispatcher: dispatcher, logger: logger}
}

// Get returns the tenant together with its detail row.
func (s *TenantService) Get(ctx context.Context, tenantID string) (*domain.TenantOwnership, error) {
	rec, err := s.tenants.Get(ctx, tenantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("tenant", map[string]any{"tenant_id": tenantID})
	}
	return rec, err
}

// Create registers a tenant owned by ownerID.
func (s *TenantService) Create(ctx context.Context, ownerID, name string) (*domain.TenantOwnership, error) {
	if ownerID == "" {
		return nil, apperrors.NewUnauthorized("caller has no id")
	}
	rec := &domain.TenantOwnership{
		Tenant: domain.Tenant{OwnerID: ownerID},
		Detail: domain.TenantDetail{Name: strings.TrimSpace(name)},
	}
	if err := s.tenants.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewEvent(events.EventTenantCreated, rec.Tenant.ID, ownerID, events.TenantChangedPayload{
		OwnerID: ownerID,
		Name:    rec.Detail.Name,
	}))
	return rec, nil
}

// Update edits a tenant the caller owns. The tenant id itself may change.
func (s *TenantService) Update(ctx context.Context, callerID, oldTenantID string, in UpdateTenantInput) (*domain.TenantOwnership, error) {
	if _, err := s.owned(ctx, callerID, oldTenantID); err != nil {
		return nil, err
	}

	rec := &domain.TenantOwnership{
		Tenant: domain.Tenant{ID: in.TenantID, OwnerID: in.OwnerID},
		Detail: domain.TenantDetail{Name: strings.TrimSpace(in.Name)},
	}
	if err := s.tenants.Replace(ctx, oldTenantID, rec); err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewEvent(events.EventTenantUpdated, rec.Tenant.ID, callerID, events.TenantChangedPayload{
		PreviousTenantID: oldTenantID,
		OwnerID:          rec.Tenant.OwnerID,
		Name:             rec.Detail.Name,
	}))
	return rec, nil
}

// Delete removes a tenant the caller owns.
func (s *TenantService) Delete(ctx context.Context, callerID, tenantID string) error {
	if _, err := s.owned(ctx, callerID, tenantID); err != nil {
		return err
	}
	if err := s.tenants.Delete(ctx, tenantID); err != nil {
		return err
	}
	s.publish(ctx, events.NewEvent(events.EventTenantDeleted, tenantID, callerID, nil))
	return nil
}

func (s *TenantService) owned(ctx context.Context, callerID, tenantID string) (*domain.TenantOwnership, error) {
	rec, err := s.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !rec.OwnedBy(callerID) {
		return nil, apperrors.NewUnauthorized("caller does not own this tenant")
	}
	return rec, nil
}

func (s *TenantService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("tenant event handler failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
