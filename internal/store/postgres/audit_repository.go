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
	"encoding/json"
	"fmt"
	"time"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/audit"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/id"
)

// AuditRepository implements audit.Repository. Metadata is stored as
// JSONB.
type AuditRepository struct {
	db *DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert persists an audit event
func (r *AuditRepository) Insert(ctx context.Context, event *audit.Event) error {
	if event.ID == "" {
		event.ID = id.NewUUIDv7()
	}

	var metadata []byte
	if len(event.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal audit metadata: %w", err)
		}
	}

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO audit_events (id, type, tenant_id, actor_id, resource, metadata, occurred_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, event.ID, event.Type, event.TenantID, event.ActorID, event.Resource,
		metadata, event.Timestamp, event.IPAddress, event.UserAgent)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}

// ListByTenant retrieves audit events for a tenant, newest first
func (r *AuditRepository) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*audit.Event, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, type, tenant_id, actor_id, resource, metadata, occurred_at, ip_address, user_agent
		FROM audit_events WHERE tenant_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2 OFFSET $3
	`, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer rows.Close()

	var events []*audit.Event
	for rows.Next() {
		var e audit.Event
		var metadata []byte
		err := rows.Scan(&e.ID, &e.Type, &e.TenantID, &e.ActorID, &e.Resource,
			&metadata, &e.Timestamp, &e.IPAddress, &e.UserAgent)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit metadata: %w", err)
			}
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

// DeleteOlderThan removes audit events before the cutoff, returning the
// number deleted.
func (r *AuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.pool.Exec(ctx, `
		DELETE FROM audit_events WHERE occurred_at < $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete audit events: %w", err)
	}
	return tag.RowsAffected(), nil
}
