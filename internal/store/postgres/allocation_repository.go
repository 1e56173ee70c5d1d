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

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/finance"
)

const allocationColumns = `id, tenant_id, project_id, category, amount_minor, currency, allocated_by, effective_at, created_at, revoked_at`

// AllocationRepository implements finance.AllocationRepository
type AllocationRepository struct {
	db *DB
}

// NewAllocationRepository creates a new allocation repository
func NewAllocationRepository(db *DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

func scanAllocation(row pgx.Row) (*finance.FundAllocation, error) {
	var a finance.FundAllocation
	err := row.Scan(&a.ID, &a.TenantID, &a.ProjectID, &a.Category, &a.AmountMinor,
		&a.Currency, &a.AllocatedBy, &a.EffectiveAt, &a.CreatedAt, &a.RevokedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new fund allocation
func (r *AllocationRepository) Create(ctx context.Context, a *finance.FundAllocation) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO fund_allocations (`+allocationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, a.ID, a.TenantID, a.ProjectID, a.Category, a.AmountMinor,
		a.Currency, a.AllocatedBy, a.EffectiveAt, a.CreatedAt, a.RevokedAt)
	if err != nil {
		return fmt.Errorf("failed to create allocation: %w", err)
	}
	return nil
}

// GetByID retrieves an allocation scoped to a tenant
func (r *AllocationRepository) GetByID(ctx context.Context, tenantID, id string) (*finance.FundAllocation, error) {
	a, err := scanAllocation(r.db.pool.QueryRow(ctx, `
		SELECT `+allocationColumns+` FROM fund_allocations
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, finance.ErrAllocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get allocation: %w", err)
	}
	return a, nil
}

// Revoke marks an allocation as revoked. Revoked allocations no longer
// count toward the project's allocated total.
func (r *AllocationRepository) Revoke(ctx context.Context, tenantID, id string, at time.Time) error {
	tag, err := r.db.pool.Exec(ctx, `
		UPDATE fund_allocations SET revoked_at = $3
		WHERE tenant_id = $1 AND id = $2 AND revoked_at IS NULL
	`, tenantID, id, at)
	if err != nil {
		return fmt.Errorf("failed to revoke allocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return finance.ErrAllocationNotFound
	}
	return nil
}

// ListByProject retrieves all allocations for a project, newest first
func (r *AllocationRepository) ListByProject(ctx context.Context, tenantID, projectID string) ([]*finance.FundAllocation, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+allocationColumns+` FROM fund_allocations
		WHERE tenant_id = $1 AND project_id = $2
		ORDER BY created_at DESC
	`, tenantID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer rows.Close()

	var allocations []*finance.FundAllocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		allocations = append(allocations, a)
	}
	return allocations, rows.Err()
}

// SumActiveByProject totals the non-revoked allocations for a project
func (r *AllocationRepository) SumActiveByProject(ctx context.Context, projectID string) (int64, error) {
	var sum int64
	err := r.db.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_minor), 0) FROM fund_allocations
		WHERE project_id = $1 AND revoked_at IS NULL
	`, projectID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum allocations: %w", err)
	}
	return sum, nil
}
