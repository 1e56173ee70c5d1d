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

package rbac

// Permission is a named, boolean, role-gated action.
type Permission string

// Permission names. The allow-lists in permissionTable are the single
// source of truth for who may do what; the Can* predicates below are
// derived from the table, never hand-maintained beside it.
const (
	PermProjectCreation   Permission = "PROJECT_CREATION"
	PermProjectEdit       Permission = "PROJECT_EDIT"
	PermProjectDelete     Permission = "PROJECT_DELETE"
	PermBudgetManage      Permission = "BUDGET_MANAGE"
	PermFundAllocation    Permission = "FUND_ALLOCATION"
	PermTransactionCreate Permission = "TRANSACTION_CREATE"
	PermTransactionDelete Permission = "TRANSACTION_DELETE"
	PermCSVImport         Permission = "CSV_IMPORT"
	PermCSVExport         Permission = "CSV_EXPORT"
	PermTeamManage        Permission = "TEAM_MANAGE"
	PermMaterialManage    Permission = "MATERIAL_MANAGE"
	PermUserManage        Permission = "USER_MANAGE"
	PermTenantManage      Permission = "TENANT_MANAGE"
	PermAuditView         Permission = "AUDIT_VIEW"
)

// permissionTable maps each permission to the exact set of normalized
// roles allowed to exercise it. Fixed at build time, not data-driven.
// There is no wildcard role and no inheritance: a role passes a check
// only if it is listed for that permission. An admin is not implicitly
// in every list; every intended role is spelled out.
var permissionTable = map[Permission][]Role{
	PermProjectCreation:   {RoleConsoleManager, RoleAdmin},
	PermProjectEdit:       {RoleConsoleManager, RoleAdmin, RoleTeamLeader},
	PermProjectDelete:     {RoleConsoleManager, RoleAdmin},
	PermBudgetManage:      {RoleConsoleManager, RoleAdmin},
	PermFundAllocation:    {RoleConsoleManager, RoleAdmin},
	PermTransactionCreate: {RoleConsoleManager, RoleAdmin, RoleTeamLeader},
	PermTransactionDelete: {RoleConsoleManager, RoleAdmin},
	PermCSVImport:         {RoleConsoleManager, RoleAdmin},
	PermCSVExport:         {RoleConsoleManager, RoleAdmin, RoleTeamLeader, RoleViewer},
	PermTeamManage:        {RoleConsoleManager, RoleAdmin, RoleTeamLeader},
	PermMaterialManage:    {RoleConsoleManager, RoleAdmin, RoleTeamLeader},
	PermUserManage:        {RoleConsoleManager, RoleAdmin},
	PermTenantManage:      {RoleConsoleManager},
	PermAuditView:         {RoleConsoleManager, RoleAdmin},
}

// HasPermission reports whether the raw role, after normalization, is a
// member of the permission's allow-list. An absent role and an unknown
// permission both return false. Never errors.
func HasPermission(rawRole string, perm Permission) bool {
	if rawRole == "" {
		return false
	}
	role := Normalize(rawRole)
	for _, allowed := range permissionTable[perm] {
		if allowed == role {
			return true
		}
	}
	return false
}

// Permissions returns the permission names in the table. Order is not
// defined. Intended for consistency tests and admin introspection.
func Permissions() []Permission {
	perms := make([]Permission, 0, len(permissionTable))
	for p := range permissionTable {
		perms = append(perms, p)
	}
	return perms
}

// AllowedRoles returns the allow-list for a permission. Callers must
// not mutate the returned slice.
func AllowedRoles(perm Permission) []Role {
	return permissionTable[perm]
}

// Derived capability predicates. Each one is a table lookup; there is
// deliberately no second hand-written role list behind any of these.

// CanCreateProjects reports whether the role may create projects.
func CanCreateProjects(role string) bool { return HasPermission(role, PermProjectCreation) }

// CanEditProjects reports whether the role may edit project records.
func CanEditProjects(role string) bool { return HasPermission(role, PermProjectEdit) }

// CanDeleteProjects reports whether the role may delete projects.
func CanDeleteProjects(role string) bool { return HasPermission(role, PermProjectDelete) }

// CanManageBudgets reports whether the role may edit project budgets.
func CanManageBudgets(role string) bool { return HasPermission(role, PermBudgetManage) }

// CanManageFundAllocations reports whether the role may create or
// adjust fund allocations.
func CanManageFundAllocations(role string) bool { return HasPermission(role, PermFundAllocation) }

// CanRecordTransactions reports whether the role may record transactions.
func CanRecordTransactions(role string) bool { return HasPermission(role, PermTransactionCreate) }

// CanManageTeams reports whether the role may manage teams and members.
func CanManageTeams(role string) bool { return HasPermission(role, PermTeamManage) }

// CanImportCSV reports whether the role may bulk-import records.
func CanImportCSV(role string) bool { return HasPermission(role, PermCSVImport) }

// CanExportCSV reports whether the role may export records.
func CanExportCSV(role string) bool { return HasPermission(role, PermCSVExport) }

// CanManageUsers reports whether the role may provision or manage users.
func CanManageUsers(role string) bool { return HasPermission(role, PermUserManage) }

// CanViewAuditLogs reports whether the role may read the audit trail.
func CanViewAuditLogs(role string) bool { return HasPermission(role, PermAuditView) }
