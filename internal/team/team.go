package team

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrMemberNotFound   = errors.New("team member not found")
	ErrMemberExists     = errors.New("user is already a team member")
	ErrMaterialNotFound = errors.New("material not found")
)

// Team is a working crew within a tenant, optionally attached to a
// project.
type Team struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	ProjectID *string   `json:"project_id,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Member links a user to a team. Title is informational; it carries no
// permissions, those come from the tenant membership role.
type Member struct {
	ID      string    `json:"id"`
	TeamID  string    `json:"team_id"`
	UserID  string    `json:"user_id"`
	Title   string    `json:"title"`
	AddedAt time.Time `json:"added_at"`
	AddedBy string    `json:"added_by"`
}

// Material is a catalog entry referenced by budget lines and imports.
type Material struct {
	ID            string    `json:"id" csv:"id"`
	TenantID      string    `json:"tenant_id" csv:"-"`
	SKU           string    `json:"sku" csv:"sku"`
	Name          string    `json:"name" csv:"name"`
	Unit          string    `json:"unit" csv:"unit"`
	UnitCostMinor int64     `json:"unit_cost_minor" csv:"unit_cost_minor"`
	Currency      string    `json:"currency" csv:"currency"`
	CreatedAt     time.Time `json:"created_at" csv:"-"`
	UpdatedAt     time.Time `json:"updated_at" csv:"-"`
}

// Repository defines the interface for team persistence
type Repository interface {
	Create(ctx context.Context, t *Team) error
	GetByID(ctx context.Context, tenantID, id string) (*Team, error)
	Update(ctx context.Context, t *Team) error
	Delete(ctx context.Context, tenantID, id string) error
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*Team, error)

	AddMember(ctx context.Context, m *Member) error
	RemoveMember(ctx context.Context, teamID, userID string) error
	ListMembers(ctx context.Context, teamID string) ([]*Member, error)
}

// MaterialRepository defines the interface for material persistence
type MaterialRepository interface {
	Create(ctx context.Context, m *Material) error
	GetByID(ctx context.Context, tenantID, id string) (*Material, error)
	Update(ctx context.Context, m *Material) error
	Delete(ctx context.Context, tenantID, id string) error
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*Material, error)
}
