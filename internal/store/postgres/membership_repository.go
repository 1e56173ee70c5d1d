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
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/tenant"
)

// MembershipRepository implements tenant.MembershipRepository.
// Role is stored as the raw string it was granted with; legacy alias
// rows ("manager", "user") are preserved and normalized at read sites.
type MembershipRepository struct {
	db *DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Assign assigns a role to a user in a tenant. One membership per
// (tenant, user); re-assigning replaces the role.
func (r *MembershipRepository) Assign(ctx context.Context, m *tenant.Membership) error {
	m.GrantedAt = time.Now()

	var grantedBy sql.NullString
	if m.GrantedBy != "" {
		grantedBy = sql.NullString{String: m.GrantedBy, Valid: true}
	}

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO tenant_memberships (id, tenant_id, user_id, role, granted_at, granted_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id, user_id) DO UPDATE SET role = $4, granted_at = $5, granted_by = $6
	`, m.ID, m.TenantID, m.UserID, m.Role, m.GrantedAt, grantedBy)
	if err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	return nil
}

// Revoke removes a user's membership in a tenant
func (r *MembershipRepository) Revoke(ctx context.Context, tenantID, userID string) error {
	result, err := r.db.pool.Exec(ctx, `
		DELETE FROM tenant_memberships WHERE tenant_id = $1 AND user_id = $2
	`, tenantID, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}
	if result.RowsAffected() == 0 {
		return tenant.ErrMembershipNotFound
	}
	return nil
}

// Get retrieves a user's membership in a tenant
func (r *MembershipRepository) Get(ctx context.Context, tenantID, userID string) (*tenant.Membership, error) {
	var m tenant.Membership
	var grantedBy sql.NullString
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, tenant_id, user_id, role, granted_at, granted_by
		FROM tenant_memberships WHERE tenant_id = $1 AND user_id = $2
	`, tenantID, userID).Scan(&m.ID, &m.TenantID, &m.UserID, &m.Role, &m.GrantedAt, &grantedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, tenant.ErrMembershipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if grantedBy.Valid {
		m.GrantedBy = grantedBy.String
	}
	return &m, nil
}

// ListByTenant retrieves all memberships in a tenant
func (r *MembershipRepository) ListByTenant(ctx context.Context, tenantID string) ([]*tenant.Membership, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, tenant_id, user_id, role, granted_at, granted_by
		FROM tenant_memberships WHERE tenant_id = $1
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []*tenant.Membership
	for rows.Next() {
		var m tenant.Membership
		var grantedBy sql.NullString
		if err := rows.Scan(&m.ID, &m.TenantID, &m.UserID, &m.Role, &m.GrantedAt, &grantedBy); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		if grantedBy.Valid {
			m.GrantedBy = grantedBy.String
		}
		memberships = append(memberships, &m)
	}
	return memberships, rows.Err()
}
