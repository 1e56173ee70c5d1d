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

package project

import (
	"context"
	"fmt"
	"time"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/audit"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/cache"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/id"
)

// Service provides project and budget business logic
type Service struct {
	repo        Repository
	budgets     BudgetRepository
	cache       *cache.Cache
	auditLogger audit.Logger
}

// NewService creates a new project service
func NewService(repo Repository, budgets BudgetRepository, c *cache.Cache, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		budgets:     budgets,
		cache:       c,
		auditLogger: auditLogger,
	}
}

// CreateInput holds fields for project creation
type CreateInput struct {
	Name        string
	Client      string
	SiteAddress string
	StartDate   *time.Time
	EndDate     *time.Time
}

// Create creates a new project in draft status
func (s *Service) Create(ctx context.Context, tenantID, actorID string, in CreateInput) (*Project, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("project name is required")
	}

	now := time.Now()
	p := &Project{
		ID:          id.NewUUIDv7(),
		TenantID:    tenantID,
		Name:        in.Name,
		Client:      in.Client,
		SiteAddress: in.SiteAddress,
		Status:      StatusDraft,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.cache.Invalidate(ctx, cache.ProjectListKey(tenantID))

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeProjectCreated,
		TenantID: tenantID,
		ActorID:  actorID,
		Resource: p.ID,
	})

	return p, nil
}

// Get retrieves a project by ID within a tenant
func (s *Service) Get(ctx context.Context, tenantID, projectID string) (*Project, error) {
	return s.repo.GetByID(ctx, tenantID, projectID)
}

// List lists a tenant's projects, optionally filtered by status.
// Reads through the tenant's project list cache when no filter or
// pagination applies.
func (s *Service) List(ctx context.Context, tenantID, status string, limit, offset int) ([]*Project, error) {
	cacheable := status == "" && offset == 0

	if cacheable {
		var cached []*Project
		if s.cache.Get(ctx, cache.ProjectListKey(tenantID), &cached) {
			return cached, nil
		}
	}

	projects, err := s.repo.ListByTenant(ctx, tenantID, status, limit, offset)
	if err != nil {
		return nil, err
	}

	if cacheable {
		s.cache.Set(ctx, cache.ProjectListKey(tenantID), projects)
	}

	return projects, nil
}

// UpdateInput holds mutable project fields
type UpdateInput struct {
	Name        string
	Client      string
	SiteAddress string
	Status      string
	StartDate   *time.Time
	EndDate     *time.Time
}

// Update updates project fields and status
func (s *Service) Update(ctx context.Context, tenantID, actorID, projectID string, in UpdateInput) (*Project, error) {
	p, err := s.repo.GetByID(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}

	if in.Status != "" && !ValidStatus(in.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, in.Status)
	}

	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Client != "" {
		p.Client = in.Client
	}
	if in.SiteAddress != "" {
		p.SiteAddress = in.SiteAddress
	}
	if in.Status != "" {
		p.Status = in.Status
	}
	if in.StartDate != nil {
		p.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		p.EndDate = in.EndDate
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.cache.Invalidate(ctx, cache.ProjectListKey(tenantID))

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeProjectUpdated,
		TenantID: tenantID,
		ActorID:  actorID,
		Resource: p.ID,
	})

	return p, nil
}

// Delete soft-deletes a project
func (s *Service) Delete(ctx context.Context, tenantID, actorID, projectID string) error {
	if err := s.repo.Delete(ctx, tenantID, projectID); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.ProjectListKey(tenantID))

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeProjectDeleted,
		TenantID: tenantID,
		ActorID:  actorID,
		Resource: projectID,
	})

	return nil
}

// SetBudget creates or replaces a project's budget. The total must
// cover the sum of its lines.
func (s *Service) SetBudget(ctx context.Context, tenantID, actorID, projectID string, totalMinor int64, currency string, lines []BudgetLine) (*Budget, error) {
	if totalMinor <= 0 {
		return nil, fmt.Errorf("budget total must be positive")
	}
	if currency == "" {
		currency = "NGN"
	}

	var lineSum int64
	for _, l := range lines {
		if l.AmountMinor < 0 {
			return nil, fmt.Errorf("budget line %s must not be negative", l.Category)
		}
		lineSum += l.AmountMinor
	}
	if lineSum > totalMinor {
		return nil, fmt.Errorf("budget lines (%d) exceed total (%d)", lineSum, totalMinor)
	}

	// Verify project exists in this tenant before writing.
	if _, err := s.repo.GetByID(ctx, tenantID, projectID); err != nil {
		return nil, err
	}

	b := &Budget{
		ID:          id.NewUUIDv7(),
		ProjectID:   projectID,
		TotalMinor:  totalMinor,
		Currency:    currency,
		Lines:       lines,
		UpdatedAt:   time.Now(),
		UpdatedByID: actorID,
	}

	if err := s.budgets.Upsert(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to set budget: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeBudgetUpdated,
		TenantID: tenantID,
		ActorID:  actorID,
		Resource: projectID,
		Metadata: map[string]any{"total_minor": totalMinor, "currency": currency},
	})

	return b, nil
}

// GetBudget retrieves a project's budget
func (s *Service) GetBudget(ctx context.Context, tenantID, projectID string) (*Budget, error) {
	if _, err := s.repo.GetByID(ctx, tenantID, projectID); err != nil {
		return nil, err
	}
	return s.budgets.GetByProject(ctx, projectID)
}
