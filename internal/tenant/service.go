// Copyright 2026 The Mortian Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tenant

import (
	"context"
	"fmt"
	"time"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/audit"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/id"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/rbac"
)

// Service provides tenant management business logic
type Service struct {
	repo        Repository
	memberships MembershipRepository
	auditLogger audit.Logger
}

// NewService creates a new tenant service
func NewService(repo Repository, memberships MembershipRepository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		memberships: memberships,
		auditLogger: auditLogger,
	}
}

// CreateTenant creates a new tenant
func (s *Service) CreateTenant(ctx context.Context, name string) (*Tenant, error) {
	if name == "" {
		return nil, fmt.Errorf("tenant name is required")
	}

	if existing, err := s.repo.GetByName(ctx, name); err == nil && existing != nil {
		return nil, ErrTenantExists
	}

	now := time.Now()
	t := &Tenant{
		ID:        id.NewUUIDv7(),
		Name:      name,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTenantCreated,
		TenantID: t.ID,
		Resource: "tenant",
	})

	return t, nil
}

// GetTenant retrieves a tenant by ID
func (s *Service) GetTenant(ctx context.Context, id string) (*Tenant, error) {
	return s.repo.GetByID(ctx, id)
}

// ListTenants lists tenants with pagination
func (s *Service) ListTenants(ctx context.Context, limit, offset int) ([]*Tenant, error) {
	return s.repo.List(ctx, limit, offset)
}

// AssignRole grants a role to a user in a tenant. The role must be
// non-empty and normalize to a current role; unknown strings are
// rejected here even though checks downstream would silently deny
// them, because a grant is a write and should fail fast. The empty
// string is checked separately: Normalize maps it to viewer for reads,
// but persisting it as a grant would only manufacture latent denials.
func (s *Service) AssignRole(ctx context.Context, tenantID, userID, role string, grantedBy string) error {
	if role == "" || !rbac.IsValid(role) {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	m := &Membership{
		ID:        id.NewUUIDv7(),
		TenantID:  tenantID,
		UserID:    userID,
		Role:      role,
		GrantedBy: grantedBy,
	}

	if err := s.memberships.Assign(ctx, m); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRoleAssigned,
		TenantID: tenantID,
		ActorID:  grantedBy,
		Resource: "membership",
		Metadata: map[string]any{"user_id": userID, "role": role},
	})

	return nil
}

// RevokeRole removes a user's membership in a tenant
func (s *Service) RevokeRole(ctx context.Context, tenantID, userID, revokedBy string) error {
	if err := s.memberships.Revoke(ctx, tenantID, userID); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRoleRevoked,
		TenantID: tenantID,
		ActorID:  revokedBy,
		Resource: "membership",
		Metadata: map[string]any{"user_id": userID},
	})

	return nil
}

// GetMemberRole returns the raw stored role for a user in a tenant.
// Callers normalize via rbac.Normalize; a missing membership returns
// ErrMembershipNotFound and is treated as viewer/deny by checks.
func (s *Service) GetMemberRole(ctx context.Context, tenantID, userID string) (string, error) {
	m, err := s.memberships.Get(ctx, tenantID, userID)
	if err != nil {
		return "", err
	}
	return m.Role, nil
}

// ListMembers lists all memberships in a tenant
func (s *Service) ListMembers(ctx context.Context, tenantID string) ([]*Membership, error) {
	return s.memberships.ListByTenant(ctx, tenantID)
}
