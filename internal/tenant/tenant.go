package tenant

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrTenantExists       = errors.New("tenant already exists")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrInvalidRole        = errors.New("invalid role")
)

// Status constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Tenant represents an isolated customer organization. All projects,
// teams, and finance records are scoped to a tenant.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Membership records a user's role within a tenant. Role is the raw
// stored string: legacy aliases ("manager", "user") survive in old
// rows and are normalized by the rbac package at check time, never
// rewritten in place.
type Membership struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	GrantedAt time.Time `json:"granted_at"`
	GrantedBy string    `json:"granted_by"`
}

// Repository defines the interface for tenant persistence
type Repository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id string) (*Tenant, error)
	GetByName(ctx context.Context, name string) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*Tenant, error)
}

// MembershipRepository defines the interface for role assignments
type MembershipRepository interface {
	Assign(ctx context.Context, m *Membership) error
	Revoke(ctx context.Context, tenantID, userID string) error
	Get(ctx context.Context, tenantID, userID string) (*Membership, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*Membership, error)
}
