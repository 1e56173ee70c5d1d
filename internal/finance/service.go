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

package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/audit"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/cache"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/id"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/project"
)

// Service provides fund allocation and transaction business logic
type Service struct {
	allocations  AllocationRepository
	transactions TransactionRepository
	projects     project.Repository
	budgets      project.BudgetRepository
	cache        *cache.Cache
	auditLogger  audit.Logger
}

// NewService creates a new finance service
func NewService(
	allocations AllocationRepository,
	transactions TransactionRepository,
	projects project.Repository,
	budgets project.BudgetRepository,
	c *cache.Cache,
	auditLogger audit.Logger,
) *Service {
	return &Service{
		allocations:  allocations,
		transactions: transactions,
		projects:     projects,
		budgets:      budgets,
		cache:        c,
		auditLogger:  auditLogger,
	}
}

// AllocateInput holds fields for a new fund allocation
type AllocateInput struct {
	ProjectID   string
	Category    string
	AmountMinor int64
	Currency    string
	EffectiveAt time.Time
}

// Allocate earmarks budget for a project category. Allocations across
// a project must stay within the budget total; a project without a
// budget cannot be allocated against.
func (s *Service) Allocate(ctx context.Context, tenantID, actorID string, in AllocateInput) (*FundAllocation, error) {
	if in.AmountMinor <= 0 {
		return nil, ErrInvalidAmount
	}

	if _, err := s.projects.GetByID(ctx, tenantID, in.ProjectID); err != nil {
		return nil, err
	}

	budget, err := s.budgets.GetByProject(ctx, in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("project has no budget: %w", err)
	}

	allocated, err := s.allocations.SumActiveByProject(ctx, in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum allocations: %w", err)
	}

	if allocated+in.AmountMinor > budget.TotalMinor {
		return nil, fmt.Errorf("%w: allocated %d + requested %d > budget %d",
			ErrBudgetExceeded, allocated, in.AmountMinor, budget.TotalMinor)
	}

	currency := in.Currency
	if currency == "" {
		currency = budget.Currency
	}

	effectiveAt := in.EffectiveAt
	if effectiveAt.IsZero() {
		effectiveAt = time.Now()
	}

	a := &FundAllocation{
		ID:          id.NewUUIDv7(),
		TenantID:    tenantID,
		ProjectID:   in.ProjectID,
		Category:    in.Category,
		AmountMinor: in.AmountMinor,
		Currency:    currency,
		AllocatedBy: actorID,
		EffectiveAt: effectiveAt,
		CreatedAt:   time.Now(),
	}

	if err := s.allocations.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create allocation: %w", err)
	}

	s.cache.Invalidate(ctx, cache.SpendSummaryKey(tenantID, in.ProjectID))

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeFundsAllocated,
		TenantID: tenantID,
		ActorID:  actorID,
		Resource: a.ID,
		Metadata: map[string]any{"project_id": in.ProjectID, "amount_minor": in.AmountMinor},
	})

	return a, nil
}

// RevokeAllocation marks an allocation revoked, freeing its envelope
func (s *Service) RevokeAllocation(ctx context.Context, tenantID, actorID, allocationID string) error {
	a, err := s.allocations.GetByID(ctx, tenantID, allocationID)
	if err != nil {
		return err
	}

	if err := s.allocations.Revoke(ctx, tenantID, allocationID, time.Now()); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.SpendSummaryKey(tenantID, a.ProjectID))

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeAllocationRevoked,
		TenantID: tenantID,
		ActorID:  actorID,
		Resource: allocationID,
	})

	return nil
}

// ListAllocations lists a project's allocations
func (s *Service) ListAllocations(ctx context.Context, tenantID, projectID string) ([]*FundAllocation, error) {
	return s.allocations.ListByProject(ctx, tenantID, projectID)
}

// RecordInput holds fields for a new transaction
type RecordInput struct {
	ProjectID    string
	AllocationID *string
	Type         string
	AmountMinor  int64
	Currency     string
	Description  string
	Reference    string
	OccurredAt   time.Time
}

// Record creates a transaction against a project
func (s *Service) Record(ctx context.Context, tenantID, actorID string, in RecordInput) (*Transaction, error) {
	t, err := s.buildTransaction(ctx, tenantID, actorID, in)
	if err != nil {
		return nil, err
	}

	if err := s.transactions.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.cache.Invalidate(ctx, cache.SpendSummaryKey(tenantID, in.ProjectID))

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTransactionCreated,
		TenantID: tenantID,
		ActorID:  actorID,
		Resource: t.ID,
		Metadata: map[string]any{"project_id": in.ProjectID, "type": in.Type, "amount_minor": in.AmountMinor},
	})

	return t, nil
}

// RecordBatch validates and inserts a batch of transactions in one
// statement. Used by the CSV importer. All rows must target projects
// in the caller's tenant; the batch is all-or-nothing.
func (s *Service) RecordBatch(ctx context.Context, tenantID, actorID string, inputs []RecordInput) ([]*Transaction, error) {
	ts := make([]*Transaction, 0, len(inputs))
	seen := map[string]bool{}
	for i, in := range inputs {
		t, err := s.buildTransaction(ctx, tenantID, actorID, in)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		ts = append(ts, t)
		seen[in.ProjectID] = true
	}

	if err := s.transactions.CreateBatch(ctx, ts); err != nil {
		return nil, fmt.Errorf("failed to insert batch: %w", err)
	}

	for projectID := range seen {
		s.cache.Invalidate(ctx, cache.SpendSummaryKey(tenantID, projectID))
	}

	return ts, nil
}

func (s *Service) buildTransaction(ctx context.Context, tenantID, actorID string, in RecordInput) (*Transaction, error) {
	if in.AmountMinor <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.Type != TypeCredit && in.Type != TypeDebit {
		return nil, fmt.Errorf("%w: %s", ErrInvalidType, in.Type)
	}

	if _, err := s.projects.GetByID(ctx, tenantID, in.ProjectID); err != nil {
		return nil, err
	}

	if in.AllocationID != nil {
		if _, err := s.allocations.GetByID(ctx, tenantID, *in.AllocationID); err != nil {
			return nil, err
		}
	}

	occurredAt := in.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	currency := in.Currency
	if currency == "" {
		currency = "NGN"
	}

	return &Transaction{
		ID:           id.NewUUIDv7(),
		TenantID:     tenantID,
		ProjectID:    in.ProjectID,
		AllocationID: in.AllocationID,
		Type:         in.Type,
		AmountMinor:  in.AmountMinor,
		Currency:     currency,
		Description:  in.Description,
		Reference:    in.Reference,
		OccurredAt:   occurredAt,
		RecordedBy:   actorID,
		CreatedAt:    time.Now(),
	}, nil
}

// Delete removes a transaction
func (s *Service) Delete(ctx context.Context, tenantID, actorID, transactionID string) error {
	t, err := s.transactions.GetByID(ctx, tenantID, transactionID)
	if err != nil {
		return err
	}

	if err := s.transactions.Delete(ctx, tenantID, transactionID); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.SpendSummaryKey(tenantID, t.ProjectID))

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTransactionDeleted,
		TenantID: tenantID,
		ActorID:  actorID,
		Resource: transactionID,
	})

	return nil
}

// List lists transactions under a filter
func (s *Service) List(ctx context.Context, tenantID string, filter TransactionFilter) ([]*Transaction, error) {
	return s.transactions.List(ctx, tenantID, filter)
}

// Summary computes a project's budget/allocation/spend roll-up,
// reading through the spend summary cache.
func (s *Service) Summary(ctx context.Context, tenantID, projectID string) (*SpendSummary, error) {
	key := cache.SpendSummaryKey(tenantID, projectID)

	var cached SpendSummary
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	if _, err := s.projects.GetByID(ctx, tenantID, projectID); err != nil {
		return nil, err
	}

	summary := &SpendSummary{ProjectID: projectID}

	if budget, err := s.budgets.GetByProject(ctx, projectID); err == nil {
		summary.BudgetMinor = budget.TotalMinor
	}

	allocated, err := s.allocations.SumActiveByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum allocations: %w", err)
	}
	summary.AllocatedMinor = allocated

	credit, debit, err := s.transactions.SumByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions: %w", err)
	}
	summary.CreditMinor = credit
	summary.DebitMinor = debit

	s.cache.Set(ctx, key, summary)

	return summary, nil
}
