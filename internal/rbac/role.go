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

// Package rbac implements the role model for the platform: role
// normalization, the capability table, the role hierarchy, and the
// authentication route gate. Every function here is pure and total:
// no I/O, no errors, safe for concurrent use against immutable inputs.
package rbac

// Role is a coarse-grained identity tag governing feature access.
// A role value is produced once per authenticated session from the
// tenant membership record and is read-only for that session.
type Role string

// Current roles, ascending by privilege.
const (
	RoleViewer         Role = "viewer"
	RoleTeamLeader     Role = "team_leader"
	RoleAdmin          Role = "admin"
	RoleConsoleManager Role = "console_manager"
)

// Legacy role aliases still present in older membership rows.
// They are normalized before any capability check.
const (
	legacyRoleManager Role = "manager"
	legacyRoleUser    Role = "user"
)

// Normalize maps a raw stored role string to a current role.
//
// Absent input maps to viewer (least privilege). Legacy aliases map to
// their current equivalents. Current roles map to themselves. Any other
// string passes through verbatim: it will appear in no allow-list, so
// every capability check against it fails. Unknown roles are a silent
// deny, never an error. Normalize is idempotent.
func Normalize(raw string) Role {
	switch Role(raw) {
	case "":
		return RoleViewer
	case legacyRoleManager:
		return RoleAdmin
	case legacyRoleUser:
		return RoleViewer
	case RoleViewer, RoleTeamLeader, RoleAdmin, RoleConsoleManager:
		return Role(raw)
	default:
		return Role(raw)
	}
}

// hierarchy is the total order over current roles, least to most
// privileged. Index position is the role's rank.
var hierarchy = []Role{RoleViewer, RoleTeamLeader, RoleAdmin, RoleConsoleManager}

// rank returns the hierarchy index of a normalized role, or -1 when the
// role is not a current role. The -1 sentinel makes IsAtLeast false
// against every minimum, which is the silent-deny behavior we want for
// unrecognized roles.
func rank(r Role) int {
	for i, h := range hierarchy {
		if h == r {
			return i
		}
	}
	return -1
}

// IsAtLeast reports whether candidate holds at least the privilege of
// minimum under the role hierarchy viewer < team_leader < admin <
// console_manager. Both sides are normalized first.
func IsAtLeast(candidate, minimum string) bool {
	c := rank(Normalize(candidate))
	m := rank(Normalize(minimum))
	if c < 0 || m < 0 {
		return false
	}
	return c >= m
}

// CurrentRoles returns the current role set in ascending privilege
// order. Callers must not mutate the returned slice.
func CurrentRoles() []Role {
	return hierarchy
}

// IsValid reports whether raw normalizes to a current role.
func IsValid(raw string) bool {
	return rank(Normalize(raw)) >= 0
}
