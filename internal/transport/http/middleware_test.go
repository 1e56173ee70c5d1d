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

package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/identity"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/rbac"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func withRole(r *http.Request, role string) *http.Request {
	ctx := context.WithValue(r.Context(), roleKey, role)
	ctx = context.WithValue(ctx, userIDKey, "user-1")
	ctx = context.WithValue(ctx, tenantIDKey, "tenant-1")
	return r.WithContext(ctx)
}

// TestPurpose: Validates permission gating on routes. Roles without the
// permission, unknown roles and absent roles all deny with 403; no route
// distinguishes "no role" from "insufficient role".
// Scope: Unit Test
// Security: Silent deny keeps role probing uninformative.
// Expected: admin passes PermFundAllocation; viewer, gibberish and empty
// roles get 403 without reaching the handler.
func TestHTTP_RequirePermission(t *testing.T) {
	h := &Handler{}
	guard := h.RequirePermission(rbac.PermFundAllocation)

	cases := []struct {
		role       string
		wantStatus int
	}{
		{"admin", http.StatusOK},
		{"console_manager", http.StatusOK},
		{"manager", http.StatusOK}, // legacy alias for admin
		{"team_leader", http.StatusForbidden},
		{"viewer", http.StatusForbidden},
		{"gibberish", http.StatusForbidden},
		{"", http.StatusForbidden},
	}

	for _, tc := range cases {
		called := false
		rec := httptest.NewRecorder()
		req := withRole(httptest.NewRequest(http.MethodPost, "/allocations", nil), tc.role)

		guard(okHandler(&called)).ServeHTTP(rec, req)

		if rec.Code != tc.wantStatus {
			t.Errorf("role %q: want %d, got %d", tc.role, tc.wantStatus, rec.Code)
		}
		if tc.wantStatus != http.StatusOK && called {
			t.Errorf("role %q: handler must not run on denial", tc.role)
		}
	}
}

func TestHTTP_RequireRole(t *testing.T) {
	h := &Handler{}
	guard := h.RequireRole(rbac.RoleTeamLeader)

	cases := []struct {
		role       string
		wantStatus int
	}{
		{"console_manager", http.StatusOK},
		{"admin", http.StatusOK},
		{"team_leader", http.StatusOK},
		{"viewer", http.StatusForbidden},
		{"", http.StatusForbidden},
	}

	for _, tc := range cases {
		called := false
		rec := httptest.NewRecorder()
		req := withRole(httptest.NewRequest(http.MethodGet, "/", nil), tc.role)

		guard(okHandler(&called)).ServeHTTP(rec, req)

		if rec.Code != tc.wantStatus {
			t.Errorf("role %q: want %d, got %d", tc.role, tc.wantStatus, rec.Code)
		}
	}
}

// TestPurpose: Validates Bearer token authentication end to end through the
// auth middleware, including rejection of tampered and absent tokens.
// Scope: Unit Test
// Expected: A valid token injects user, tenant and role into context; a
// garbage token or no credential at all yields 401.
func TestHTTP_AuthMiddleware_BearerToken(t *testing.T) {
	issuer := identity.NewTokenIssuer("test-secret", time.Hour)
	h := &Handler{
		tokens:        issuer,
		sessionConfig: SessionConfig{CookieName: "mortian_session"},
	}

	var gotUser, gotTenant, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = GetUserID(r.Context())
		gotTenant = GetTenantID(r.Context())
		gotRole = GetRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	token, err := issuer.Issue("user-1", "tenant-1", "admin")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.AuthMiddleware(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if gotUser != "user-1" || gotTenant != "tenant-1" || gotRole != "admin" {
		t.Errorf("context identity: got %s/%s/%s", gotUser, gotTenant, gotRole)
	}

	// Tampered token.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token+"x")
	h.AuthMiddleware(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("tampered token: want 401, got %d", rec.Code)
	}

	// No credential.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	h.AuthMiddleware(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no credential: want 401, got %d", rec.Code)
	}
}

func TestHTTP_CSRFMiddleware(t *testing.T) {
	h := &Handler{}
	called := false
	wrapped := h.CSRFMiddleware(okHandler(&called))

	// Safe methods pass without the header.
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET: want 200, got %d", rec.Code)
	}

	// State-changing cookie requests need the header.
	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/projects", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("POST without header: want 403, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", nil)
	req.Header.Set("X-CSRF-Token", "token")
	wrapped.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("POST with header: want 200, got %d", rec.Code)
	}

	// Bearer requests are exempt.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/projects/x", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	wrapped.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Bearer DELETE: want 200, got %d", rec.Code)
	}
}

func TestHTTP_ContextHelpers_Empty(t *testing.T) {
	ctx := context.Background()
	if GetUserID(ctx) != "" || GetTenantID(ctx) != "" || GetSessionID(ctx) != "" || GetRole(ctx) != "" {
		t.Error("expected empty values from a bare context")
	}
}
