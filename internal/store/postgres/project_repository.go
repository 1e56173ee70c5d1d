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

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/project"
)

// psql builds queries with $N placeholders for pgx.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ProjectRepository implements project.Repository
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO projects (id, tenant_id, name, client, site_address, status, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, p.ID, p.TenantID, p.Name, p.Client, p.SiteAddress, p.Status,
		p.StartDate, p.EndDate, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

const projectColumns = `id, tenant_id, name, client, site_address, status, start_date, end_date, created_at, updated_at, deleted_at`

func scanProject(row pgx.Row) (*project.Project, error) {
	var p project.Project
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.Client, &p.SiteAddress, &p.Status,
		&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves a project by ID within a tenant
func (r *ProjectRepository) GetByID(ctx context.Context, tenantID, id string) (*project.Project, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL
	`, tenantID, id)

	p, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, project.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// Update updates project information
func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE projects
		SET name = $3, client = $4, site_address = $5, status = $6, start_date = $7, end_date = $8, updated_at = $9
		WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL
	`, p.TenantID, p.ID, p.Name, p.Client, p.SiteAddress, p.Status, p.StartDate, p.EndDate, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}

// Delete soft-deletes a project
func (r *ProjectRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE projects SET deleted_at = $3 WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL
	`, tenantID, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}

// ListByTenant retrieves a tenant's projects, optionally filtered by
// status.
func (r *ProjectRepository) ListByTenant(ctx context.Context, tenantID string, status string, limit, offset int) ([]*project.Project, error) {
	builder := psql.Select(projectColumns).
		From("projects").
		Where(sq.Eq{"tenant_id": tenantID}).
		Where("deleted_at IS NULL").
		OrderBy("created_at DESC")

	if status != "" {
		builder = builder.Where(sq.Eq{"status": status})
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	if offset > 0 {
		builder = builder.Offset(uint64(offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
