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

package team

import (
	"context"
	"fmt"
	"time"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/audit"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/id"
)

// Service provides team and material business logic
type Service struct {
	repo        Repository
	materials   MaterialRepository
	auditLogger audit.Logger
}

// NewService creates a new team service
func NewService(repo Repository, materials MaterialRepository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		materials:   materials,
		auditLogger: auditLogger,
	}
}

// CreateTeam creates a team, optionally attached to a project
func (s *Service) CreateTeam(ctx context.Context, tenantID, actorID, name string, projectID *string) (*Team, error) {
	if name == "" {
		return nil, fmt.Errorf("team name is required")
	}

	now := time.Now()
	t := &Team{
		ID:        id.NewUUIDv7(),
		TenantID:  tenantID,
		ProjectID: projectID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTeamCreated,
		TenantID: tenantID,
		ActorID:  actorID,
		Resource: t.ID,
	})

	return t, nil
}

// GetTeam retrieves a team by ID
func (s *Service) GetTeam(ctx context.Context, tenantID, teamID string) (*Team, error) {
	return s.repo.GetByID(ctx, tenantID, teamID)
}

// ListTeams lists a tenant's teams
func (s *Service) ListTeams(ctx context.Context, tenantID string, limit, offset int) ([]*Team, error) {
	return s.repo.ListByTenant(ctx, tenantID, limit, offset)
}

// DeleteTeam removes a team and its memberships
func (s *Service) DeleteTeam(ctx context.Context, tenantID, actorID, teamID string) error {
	if err := s.repo.Delete(ctx, tenantID, teamID); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTeamDeleted,
		TenantID: tenantID,
		ActorID:  actorID,
		Resource: teamID,
	})

	return nil
}

// AddMember adds a user to a team
func (s *Service) AddMember(ctx context.Context, tenantID, actorID, teamID, userID, title string) (*Member, error) {
	if _, err := s.repo.GetByID(ctx, tenantID, teamID); err != nil {
		return nil, err
	}

	m := &Member{
		ID:      id.NewUUIDv7(),
		TeamID:  teamID,
		UserID:  userID,
		Title:   title,
		AddedAt: time.Now(),
		AddedBy: actorID,
	}

	if err := s.repo.AddMember(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return m, nil
}

// RemoveMember removes a user from a team
func (s *Service) RemoveMember(ctx context.Context, tenantID, teamID, userID string) error {
	if _, err := s.repo.GetByID(ctx, tenantID, teamID); err != nil {
		return err
	}
	return s.repo.RemoveMember(ctx, teamID, userID)
}

// ListMembers lists a team's members
func (s *Service) ListMembers(ctx context.Context, tenantID, teamID string) ([]*Member, error) {
	if _, err := s.repo.GetByID(ctx, tenantID, teamID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, teamID)
}

// CreateMaterial adds a catalog entry
func (s *Service) CreateMaterial(ctx context.Context, tenantID string, m *Material) (*Material, error) {
	if m.SKU == "" || m.Name == "" {
		return nil, fmt.Errorf("material sku and name are required")
	}
	if m.Currency == "" {
		m.Currency = "NGN"
	}

	now := time.Now()
	m.ID = id.NewUUIDv7()
	m.TenantID = tenantID
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := s.materials.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create material: %w", err)
	}

	return m, nil
}

// ListMaterials lists a tenant's material catalog
func (s *Service) ListMaterials(ctx context.Context, tenantID string, limit, offset int) ([]*Material, error) {
	return s.materials.ListByTenant(ctx, tenantID, limit, offset)
}

// DeleteMaterial removes a catalog entry
func (s *Service) DeleteMaterial(ctx context.Context, tenantID, materialID string) error {
	return s.materials.Delete(ctx, tenantID, materialID)
}
