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

package audit

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Event types
const (
	TypeLoginSuccess       = "login_success"
	TypeLoginFailed        = "login_failed"
	TypeLogout             = "logout"
	TypeUserCreated        = "user_created"
	TypeUserLocked         = "user_locked"
	TypeRoleAssigned       = "role_assigned"
	TypeRoleRevoked        = "role_revoked"
	TypeTenantCreated      = "tenant_created"
	TypeProjectCreated     = "project_created"
	TypeProjectUpdated     = "project_updated"
	TypeProjectDeleted     = "project_deleted"
	TypeBudgetUpdated      = "budget_updated"
	TypeFundsAllocated     = "funds_allocated"
	TypeAllocationRevoked  = "allocation_revoked"
	TypeTransactionCreated = "transaction_created"
	TypeTransactionDeleted = "transaction_deleted"
	TypeTeamCreated        = "team_created"
	TypeTeamDeleted        = "team_deleted"
	TypeCSVImported        = "csv_imported"
	TypeCSVExported        = "csv_exported"
)

// Metadata keys shared by emitters
const (
	AttrReason   = "reason"
	AttrAttempts = "attempts"
	AttrRows     = "rows"
)

// Event represents an auditable action
type Event struct {
	ID        string
	Type      string
	TenantID  string
	ActorID   string
	Resource  string
	Metadata  map[string]any
	Timestamp time.Time
	IPAddress string
	UserAgent string
}

// Logger defines the interface for audit logging
type Logger interface {
	Log(ctx context.Context, event Event)
}

// Repository persists audit events for the audit trail listing.
type Repository interface {
	Insert(ctx context.Context, event *Event) error
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*Event, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SlogLogger implements Logger using slog
type SlogLogger struct{}

// NewSlogLogger creates a new audit logger
func NewSlogLogger() *SlogLogger {
	return &SlogLogger{}
}

// Log records an audit event
func (l *SlogLogger) Log(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	attrs := []any{
		slog.String("audit_type", event.Type),
		slog.String("tenant_id", event.TenantID),
		slog.String("actor_id", event.ActorID),
		slog.String("resource", event.Resource),
		slog.Time("timestamp", event.Timestamp),
	}

	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.UserAgent != "" {
		attrs = append(attrs, slog.String("user_agent", event.UserAgent))
	}

	if len(event.Metadata) > 0 {
		group := []any{}
		for k, v := range event.Metadata {
			if isSecret(k) {
				v = "[REDACTED]"
			}
			group = append(group, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("metadata", group...))
	}

	slog.InfoContext(ctx, "AUDIT_EVENT", append(attrs, slog.String("component", "audit"))...)
}

// isSecret checks if a key likely contains a secret
func isSecret(key string) bool {
	k := strings.ToLower(key)
	secrets := []string{"password", "secret", "token", "key", "hash", "credential", "authorization"}
	for _, s := range secrets {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

// TrailLogger logs to slog and persists the event through a repository.
// Persistence is best effort: an insert failure is logged and dropped,
// never surfaced to the caller's request.
type TrailLogger struct {
	slogLogger *SlogLogger
	repo       Repository
}

// NewTrailLogger creates an audit logger backed by a repository.
func NewTrailLogger(repo Repository) *TrailLogger {
	return &TrailLogger{slogLogger: NewSlogLogger(), repo: repo}
}

// Log records the event to slog and the audit trail.
func (l *TrailLogger) Log(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	l.slogLogger.Log(ctx, event)
	if err := l.repo.Insert(ctx, &event); err != nil {
		slog.ErrorContext(ctx, "failed to persist audit event",
			slog.String("audit_type", event.Type),
			slog.String("error", err.Error()),
		)
	}
}
