package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/project"
)

// BudgetRepository implements project.BudgetRepository. A project has
// at most one budget row; lines live in budget_lines and are replaced
// wholesale on upsert.
type BudgetRepository struct {
	db *DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// Upsert creates or replaces a project's budget and its lines in one
// transaction.
func (r *BudgetRepository) Upsert(ctx context.Context, b *project.Budget) error {
	tx, err := r.db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO budgets (id, project_id, total_minor, currency, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (project_id) DO UPDATE
		SET total_minor = $3, currency = $4, updated_at = $5, updated_by = $6
	`, b.ID, b.ProjectID, b.TotalMinor, b.Currency, b.UpdatedAt, b.UpdatedByID)
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM budget_lines WHERE project_id = $1`, b.ProjectID); err != nil {
		return fmt.Errorf("failed to clear budget lines: %w", err)
	}

	for _, line := range b.Lines {
		_, err := tx.Exec(ctx, `
			INSERT INTO budget_lines (project_id, category, amount_minor)
			VALUES ($1, $2, $3)
		`, b.ProjectID, line.Category, line.AmountMinor)
		if err != nil {
			return fmt.Errorf("failed to insert budget line: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetByProject retrieves a project's budget with its lines
func (r *BudgetRepository) GetByProject(ctx context.Context, projectID string) (*project.Budget, error) {
	var b project.Budget
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, project_id, total_minor, currency, updated_at, updated_by
		FROM budgets WHERE project_id = $1
	`, projectID).Scan(&b.ID, &b.ProjectID, &b.TotalMinor, &b.Currency, &b.UpdatedAt, &b.UpdatedByID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, project.ErrBudgetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	rows, err := r.db.pool.Query(ctx, `
		SELECT category, amount_minor FROM budget_lines WHERE project_id = $1 ORDER BY category
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get budget lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line project.BudgetLine
		if err := rows.Scan(&line.Category, &line.AmountMinor); err != nil {
			return nil, fmt.Errorf("failed to scan budget line: %w", err)
		}
		b.Lines = append(b.Lines, line)
	}
	return &b, rows.Err()
}
