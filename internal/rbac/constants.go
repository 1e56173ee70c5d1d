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

// Seeded IDs from the initial schema migration (0001_initial.up.sql).
// These values are inserted during database initialization and must
// remain stable. DO NOT modify them without a data migration plan.
const (
	// BootstrapTenantID is the pre-seeded tenant used for the initial
	// console manager bootstrap. Created by migration; never deleted.
	BootstrapTenantID = "10000000-0000-0000-0000-000000000000"

	// BootstrapUserID is the reserved ID for the bootstrap console
	// manager account provisioned by `server bootstrap`.
	BootstrapUserID = "20000000-0000-0000-0000-000000000001"
)
