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

// Package project holds construction project records and their
// budgets. A project belongs to exactly one tenant; money amounts are
// integer minor units to avoid float drift.
package project

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrProjectExists   = errors.New("project already exists")
	ErrBudgetNotFound  = errors.New("budget not found")
	ErrInvalidStatus   = errors.New("invalid project status")
)

// Project statuses
const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusOnHold    = "on_hold"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

// Budget line categories
const (
	CategoryLabour    = "labour"
	CategoryMaterials = "materials"
	CategoryEquipment = "equipment"
	CategoryOverhead  = "overhead"
)

// Project represents a construction project
type Project struct {
	ID          string     `json:"id" csv:"id"`
	TenantID    string     `json:"tenant_id" csv:"-"`
	Name        string     `json:"name" csv:"name"`
	Client      string     `json:"client" csv:"client"`
	SiteAddress string     `json:"site_address" csv:"site_address"`
	Status      string     `json:"status" csv:"status"`
	StartDate   *time.Time `json:"start_date,omitempty" csv:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty" csv:"end_date"`
	CreatedAt   time.Time  `json:"created_at" csv:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" csv:"-"`
	DeletedAt   *time.Time `json:"-" csv:"-"`
}

// Budget is the spending envelope for a project
type Budget struct {
	ID          string       `json:"id"`
	ProjectID   string       `json:"project_id"`
	TotalMinor  int64        `json:"total_minor"`
	Currency    string       `json:"currency"`
	Lines       []BudgetLine `json:"lines"`
	UpdatedAt   time.Time    `json:"updated_at"`
	UpdatedByID string       `json:"updated_by"`
}

// BudgetLine is a category envelope within a budget
type BudgetLine struct {
	Category    string `json:"category"`
	AmountMinor int64  `json:"amount_minor"`
}

// ValidStatus reports whether s is a known project status
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusActive, StatusOnHold, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// Repository defines the interface for project persistence
type Repository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, tenantID, id string) (*Project, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, tenantID, id string) error
	ListByTenant(ctx context.Context, tenantID string, status string, limit, offset int) ([]*Project, error)
}

// BudgetRepository defines the interface for budget persistence
type BudgetRepository interface {
	Upsert(ctx context.Context, b *Budget) error
	GetByProject(ctx context.Context, projectID string) (*Budget, error)
}
