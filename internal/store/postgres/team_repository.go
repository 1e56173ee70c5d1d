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

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/team"
)

// TeamRepository implements team.Repository
type TeamRepository struct {
	db *DB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create inserts a new team
func (r *TeamRepository) Create(ctx context.Context, t *team.Team) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO teams (id, tenant_id, project_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID, t.TenantID, t.ProjectID, t.Name, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

// GetByID retrieves a team scoped to a tenant
func (r *TeamRepository) GetByID(ctx context.Context, tenantID, id string) (*team.Team, error) {
	var t team.Team
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, tenant_id, project_id, name, created_at, updated_at
		FROM teams WHERE tenant_id = $1 AND id = $2
	`, tenantID, id).Scan(&t.ID, &t.TenantID, &t.ProjectID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, team.ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &t, nil
}

// Update modifies a team's name and project attachment
func (r *TeamRepository) Update(ctx context.Context, t *team.Team) error {
	tag, err := r.db.pool.Exec(ctx, `
		UPDATE teams SET project_id = $3, name = $4, updated_at = $5
		WHERE tenant_id = $1 AND id = $2
	`, t.TenantID, t.ID, t.ProjectID, t.Name, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return team.ErrTeamNotFound
	}
	return nil
}

// Delete removes a team and its memberships
func (r *TeamRepository) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := r.db.pool.Exec(ctx, `
		DELETE FROM teams WHERE tenant_id = $1 AND id = $2
	`, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return team.ErrTeamNotFound
	}
	return nil
}

// ListByTenant retrieves teams for a tenant with pagination
func (r *TeamRepository) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*team.Team, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, tenant_id, project_id, name, created_at, updated_at
		FROM teams WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*team.Team
	for rows.Next() {
		var t team.Team
		if err := rows.Scan(&t.ID, &t.TenantID, &t.ProjectID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, &t)
	}
	return teams, rows.Err()
}

// AddMember links a user to a team. A user can only appear once per
// team, the unique constraint maps to ErrMemberExists.
func (r *TeamRepository) AddMember(ctx context.Context, m *team.Member) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO team_members (id, team_id, user_id, title, added_at, added_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID, m.TeamID, m.UserID, m.Title, m.AddedAt, m.AddedBy)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return team.ErrMemberExists
		}
		return fmt.Errorf("failed to add team member: %w", err)
	}
	return nil
}

// RemoveMember unlinks a user from a team
func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	tag, err := r.db.pool.Exec(ctx, `
		DELETE FROM team_members WHERE team_id = $1 AND user_id = $2
	`, teamID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return team.ErrMemberNotFound
	}
	return nil
}

// ListMembers retrieves a team's members in join order
func (r *TeamRepository) ListMembers(ctx context.Context, teamID string) ([]*team.Member, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, team_id, user_id, title, added_at, added_by
		FROM team_members WHERE team_id = $1
		ORDER BY added_at
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	var members []*team.Member
	for rows.Next() {
		var m team.Member
		if err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.Title, &m.AddedAt, &m.AddedBy); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}
