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

// Package finance tracks fund allocations and transactions against
// project budgets. Amounts are integer minor units.
package finance

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrAllocationNotFound  = errors.New("allocation not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBudgetExceeded      = errors.New("allocation exceeds project budget")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidType         = errors.New("invalid transaction type")
)

// Transaction types
const (
	TypeCredit = "credit"
	TypeDebit  = "debit"
)

// FundAllocation is an earmarked envelope of project budget for a
// category. The sum of a project's allocations must not exceed its
// budget total.
type FundAllocation struct {
	ID          string     `json:"id" csv:"id"`
	TenantID    string     `json:"tenant_id" csv:"-"`
	ProjectID   string     `json:"project_id" csv:"project_id"`
	Category    string     `json:"category" csv:"category"`
	AmountMinor int64      `json:"amount_minor" csv:"amount_minor"`
	Currency    string     `json:"currency" csv:"currency"`
	AllocatedBy string     `json:"allocated_by" csv:"-"`
	EffectiveAt time.Time  `json:"effective_at" csv:"effective_at"`
	CreatedAt   time.Time  `json:"created_at" csv:"-"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty" csv:"-"`
}

// Transaction is a money movement recorded against a project,
// optionally within an allocation envelope.
type Transaction struct {
	ID           string    `json:"id" csv:"id"`
	TenantID     string    `json:"tenant_id" csv:"-"`
	ProjectID    string    `json:"project_id" csv:"project_id"`
	AllocationID *string   `json:"allocation_id,omitempty" csv:"allocation_id"`
	Type         string    `json:"type" csv:"type"`
	AmountMinor  int64     `json:"amount_minor" csv:"amount_minor"`
	Currency     string    `json:"currency" csv:"currency"`
	Description  string    `json:"description" csv:"description"`
	Reference    string    `json:"reference" csv:"reference"`
	OccurredAt   time.Time `json:"occurred_at" csv:"occurred_at"`
	RecordedBy   string    `json:"recorded_by" csv:"-"`
	CreatedAt    time.Time `json:"created_at" csv:"-"`
}

// TransactionFilter narrows transaction listings. Zero values mean
// "no constraint".
type TransactionFilter struct {
	ProjectID  string
	Type       string
	From       *time.Time
	To         *time.Time
	MinAmount  *int64
	MaxAmount  *int64
	Limit      int
	Offset     int
}

// SpendSummary is the per-project roll-up the dashboard renders.
type SpendSummary struct {
	ProjectID      string `json:"project_id"`
	BudgetMinor    int64  `json:"budget_minor"`
	AllocatedMinor int64  `json:"allocated_minor"`
	CreditMinor    int64  `json:"credit_minor"`
	DebitMinor     int64  `json:"debit_minor"`
}

// RemainingMinor is the unspent budget after debits net of credits.
func (s *SpendSummary) RemainingMinor() int64 {
	return s.BudgetMinor - s.DebitMinor + s.CreditMinor
}

// AllocationRepository defines the interface for allocation persistence
type AllocationRepository interface {
	Create(ctx context.Context, a *FundAllocation) error
	GetByID(ctx context.Context, tenantID, id string) (*FundAllocation, error)
	Revoke(ctx context.Context, tenantID, id string, at time.Time) error
	ListByProject(ctx context.Context, tenantID, projectID string) ([]*FundAllocation, error)
	SumActiveByProject(ctx context.Context, projectID string) (int64, error)
}

// TransactionRepository defines the interface for transaction persistence
type TransactionRepository interface {
	Create(ctx context.Context, t *Transaction) error
	CreateBatch(ctx context.Context, ts []*Transaction) error
	GetByID(ctx context.Context, tenantID, id string) (*Transaction, error)
	Delete(ctx context.Context, tenantID, id string) error
	List(ctx context.Context, tenantID string, filter TransactionFilter) ([]*Transaction, error)
	SumByProject(ctx context.Context, projectID string) (creditMinor, debitMinor int64, err error)
}
