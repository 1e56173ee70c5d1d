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

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/finance"
)

const transactionColumns = `id, tenant_id, project_id, allocation_id, type, amount_minor, currency, description, reference, occurred_at, recorded_by, created_at`

// TransactionRepository implements finance.TransactionRepository
type TransactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func scanTransaction(row pgx.Row) (*finance.Transaction, error) {
	var t finance.Transaction
	err := row.Scan(&t.ID, &t.TenantID, &t.ProjectID, &t.AllocationID, &t.Type,
		&t.AmountMinor, &t.Currency, &t.Description, &t.Reference,
		&t.OccurredAt, &t.RecordedBy, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a single transaction
func (r *TransactionRepository) Create(ctx context.Context, t *finance.Transaction) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, t.ID, t.TenantID, t.ProjectID, t.AllocationID, t.Type,
		t.AmountMinor, t.Currency, t.Description, t.Reference,
		t.OccurredAt, t.RecordedBy, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// CreateBatch inserts transactions in one database transaction so a
// CSV import lands all-or-nothing.
func (r *TransactionRepository) CreateBatch(ctx context.Context, ts []*finance.Transaction) error {
	if len(ts) == 0 {
		return nil
	}
	tx, err := r.db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range ts {
		_, err := tx.Exec(ctx, `
			INSERT INTO transactions (`+transactionColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, t.ID, t.TenantID, t.ProjectID, t.AllocationID, t.Type,
			t.AmountMinor, t.Currency, t.Description, t.Reference,
			t.OccurredAt, t.RecordedBy, t.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
	}
	return tx.Commit(ctx)
}

// GetByID retrieves a transaction scoped to a tenant
func (r *TransactionRepository) GetByID(ctx context.Context, tenantID, id string) (*finance.Transaction, error) {
	t, err := scanTransaction(r.db.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, finance.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// Delete removes a transaction
func (r *TransactionRepository) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := r.db.pool.Exec(ctx, `
		DELETE FROM transactions WHERE tenant_id = $1 AND id = $2
	`, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return finance.ErrTransactionNotFound
	}
	return nil
}

// List retrieves transactions matching the filter, newest first
func (r *TransactionRepository) List(ctx context.Context, tenantID string, filter finance.TransactionFilter) ([]*finance.Transaction, error) {
	q := psql.Select(transactionColumns).
		From("transactions").
		Where(sq.Eq{"tenant_id": tenantID}).
		OrderBy("occurred_at DESC")

	if filter.ProjectID != "" {
		q = q.Where(sq.Eq{"project_id": filter.ProjectID})
	}
	if filter.Type != "" {
		q = q.Where(sq.Eq{"type": filter.Type})
	}
	if filter.From != nil {
		q = q.Where(sq.GtOrEq{"occurred_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(sq.LtOrEq{"occurred_at": *filter.To})
	}
	if filter.MinAmount != nil {
		q = q.Where(sq.GtOrEq{"amount_minor": *filter.MinAmount})
	}
	if filter.MaxAmount != nil {
		q = q.Where(sq.LtOrEq{"amount_minor": *filter.MaxAmount})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction query: %w", err)
	}

	rows, err := r.db.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*finance.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// SumByProject totals credits and debits recorded against a project
func (r *TransactionRepository) SumByProject(ctx context.Context, projectID string) (int64, int64, error) {
	var credit, debit int64
	err := r.db.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount_minor) FILTER (WHERE type = 'credit'), 0),
			COALESCE(SUM(amount_minor) FILTER (WHERE type = 'debit'), 0)
		FROM transactions WHERE project_id = $1
	`, projectID).Scan(&credit, &debit)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return credit, debit, nil
}
