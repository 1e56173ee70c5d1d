package cache

import "fmt"

// Key constructors. All cache keys are built here so the invalidation
// rules are auditable in one place.
//
// Invalidation rules:
//   - project create/update/delete   -> ProjectListKey(tenant)
//   - allocation create/revoke       -> SpendSummaryKey(tenant, project)
//   - transaction create/delete      -> SpendSummaryKey(tenant, project)
//   - CSV transaction import         -> SpendSummaryKey(tenant, project)

// ProjectListKey addresses a tenant's unfiltered project list.
func ProjectListKey(tenantID string) string {
	return fmt.Sprintf("tenant:%s:projects", tenantID)
}

// SpendSummaryKey addresses a project's allocation/spend roll-up.
func SpendSummaryKey(tenantID, projectID string) string {
	return fmt.Sprintf("tenant:%s:project:%s:spend", tenantID, projectID)
}
