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

package rbac_test

import (
	"testing"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/rbac"
	"github.com/stretchr/testify/assert"
)

func TestHasPermissionAbsentRoleDeniesEverything(t *testing.T) {
	for _, perm := range rbac.Permissions() {
		assert.False(t, rbac.HasPermission("", perm), "absent role must fail %q", perm)
	}
}

func TestHasPermissionUnknownRoleDeniesEverything(t *testing.T) {
	for _, perm := range rbac.Permissions() {
		assert.False(t, rbac.HasPermission("superuser", perm), "unknown role must fail %q", perm)
	}
}

func TestHasPermissionLegacyManagerAllocatesFunds(t *testing.T) {
	// "manager" normalizes to admin, which is in the FUND_ALLOCATION
	// allow-list.
	assert.True(t, rbac.HasPermission("manager", rbac.PermFundAllocation))
}

func TestHasPermissionViewerCannotCreateProjects(t *testing.T) {
	assert.False(t, rbac.HasPermission("viewer", rbac.PermProjectCreation))
}

func TestHasPermissionTable(t *testing.T) {
	tests := []struct {
		role string
		perm rbac.Permission
		want bool
	}{
		{"console_manager", rbac.PermTenantManage, true},
		{"admin", rbac.PermTenantManage, false},
		{"admin", rbac.PermAuditView, true},
		{"team_leader", rbac.PermAuditView, false},
		{"team_leader", rbac.PermTransactionCreate, true},
		{"team_leader", rbac.PermTransactionDelete, false},
		{"viewer", rbac.PermCSVExport, true},
		{"viewer", rbac.PermCSVImport, false},
		{"user", rbac.PermCSVExport, true}, // legacy alias of viewer
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rbac.HasPermission(tt.role, tt.perm),
			"hasPermission(%q, %q)", tt.role, tt.perm)
	}
}

func TestHasPermissionUnknownPermissionDenies(t *testing.T) {
	assert.False(t, rbac.HasPermission("console_manager", rbac.Permission("NOT_A_PERMISSION")))
}

// TestPredicatesAgreeWithTable pins every derived predicate to its
// table entry so the two can never drift apart.
func TestPredicatesAgreeWithTable(t *testing.T) {
	predicates := map[rbac.Permission]func(string) bool{
		rbac.PermProjectCreation:   rbac.CanCreateProjects,
		rbac.PermProjectEdit:       rbac.CanEditProjects,
		rbac.PermProjectDelete:     rbac.CanDeleteProjects,
		rbac.PermBudgetManage:      rbac.CanManageBudgets,
		rbac.PermFundAllocation:    rbac.CanManageFundAllocations,
		rbac.PermTransactionCreate: rbac.CanRecordTransactions,
		rbac.PermCSVImport:         rbac.CanImportCSV,
		rbac.PermCSVExport:         rbac.CanExportCSV,
		rbac.PermTeamManage:        rbac.CanManageTeams,
		rbac.PermUserManage:        rbac.CanManageUsers,
		rbac.PermAuditView:         rbac.CanViewAuditLogs,
	}

	roles := []string{"", "viewer", "team_leader", "admin", "console_manager", "manager", "user", "superuser"}
	for perm, predicate := range predicates {
		for _, role := range roles {
			assert.Equal(t, rbac.HasPermission(role, perm), predicate(role),
				"predicate for %q diverges from table for role %q", perm, role)
		}
	}
}

func TestAllowedRolesAreAllCurrent(t *testing.T) {
	// The table must never list a legacy alias or an unknown role;
	// normalization happens before lookup, so only current roles can
	// ever match.
	for _, perm := range rbac.Permissions() {
		for _, role := range rbac.AllowedRoles(perm) {
			assert.Equal(t, role, rbac.Normalize(string(role)),
				"%q lists non-normalized role %q", perm, role)
		}
	}
}
