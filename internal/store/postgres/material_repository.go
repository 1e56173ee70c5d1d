package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/team"
)

const materialColumns = `id, tenant_id, sku, name, unit, unit_cost_minor, currency, created_at, updated_at`

// MaterialRepository implements team.MaterialRepository
type MaterialRepository struct {
	db *DB
}

// NewMaterialRepository creates a new material repository
func NewMaterialRepository(db *DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

func scanMaterial(row pgx.Row) (*team.Material, error) {
	var m team.Material
	err := row.Scan(&m.ID, &m.TenantID, &m.SKU, &m.Name, &m.Unit,
		&m.UnitCostMinor, &m.Currency, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new material
func (r *MaterialRepository) Create(ctx context.Context, m *team.Material) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO materials (`+materialColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, m.ID, m.TenantID, m.SKU, m.Name, m.Unit,
		m.UnitCostMinor, m.Currency, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create material: %w", err)
	}
	return nil
}

// GetByID retrieves a material scoped to a tenant
func (r *MaterialRepository) GetByID(ctx context.Context, tenantID, id string) (*team.Material, error) {
	m, err := scanMaterial(r.db.pool.QueryRow(ctx, `
		SELECT `+materialColumns+` FROM materials
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, team.ErrMaterialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	return m, nil
}

// Update modifies a material
func (r *MaterialRepository) Update(ctx context.Context, m *team.Material) error {
	tag, err := r.db.pool.Exec(ctx, `
		UPDATE materials
		SET sku = $3, name = $4, unit = $5, unit_cost_minor = $6, currency = $7, updated_at = $8
		WHERE tenant_id = $1 AND id = $2
	`, m.TenantID, m.ID, m.SKU, m.Name, m.Unit, m.UnitCostMinor, m.Currency, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return team.ErrMaterialNotFound
	}
	return nil
}

// Delete removes a material
func (r *MaterialRepository) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := r.db.pool.Exec(ctx, `
		DELETE FROM materials WHERE tenant_id = $1 AND id = $2
	`, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to delete material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return team.ErrMaterialNotFound
	}
	return nil
}

// ListByTenant retrieves materials for a tenant ordered by name
func (r *MaterialRepository) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*team.Material, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+materialColumns+` FROM materials
		WHERE tenant_id = $1
		ORDER BY name
		LIMIT $2 OFFSET $3
	`, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	defer rows.Close()

	var materials []*team.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan material: %w", err)
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}
