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

// GateState is the outcome of the authentication route gate.
type GateState int

const (
	// GateLoading means the session fetch is still in flight; callers
	// should hold rendering until it resolves.
	GateLoading GateState = iota

	// GateUnauthenticated means the session resolved to no user; the
	// caller should present the public landing surface. A failed
	// session fetch lands here too (fail closed).
	GateUnauthenticated

	// GateRender means the session resolved to an authenticated user
	// and the protected target may be served.
	GateRender
)

// String returns the gate state name for logging.
func (s GateState) String() string {
	switch s {
	case GateLoading:
		return "loading"
	case GateUnauthenticated:
		return "unauthenticated"
	case GateRender:
		return "render"
	default:
		return "unknown"
	}
}

// Guard is the route gate over the session accessor's two booleans.
// While the fetch is in flight the gate is Loading regardless of the
// authenticated flag. Once resolved there is a single terminal
// transition to Unauthenticated or Render.
func Guard(isAuthenticated, isLoading bool) GateState {
	if isLoading {
		return GateLoading
	}
	if !isAuthenticated {
		return GateUnauthenticated
	}
	return GateRender
}
