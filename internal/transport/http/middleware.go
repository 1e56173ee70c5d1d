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
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/observability/logger"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/rbac"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/tenant"
)

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			slog.InfoContext(r.Context(), "http_request_start",
				logger.RequestID(middleware.GetReqID(r.Context())),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.RemoteAddr(r.RemoteAddr),
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				slog.InfoContext(r.Context(), "http_request_end",
					logger.RequestID(middleware.GetReqID(r.Context())),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.RemoteAddr(r.RemoteAddr),
					logger.UserAgent(r.UserAgent()),
					logger.StatusCode(ww.Status()),
					logger.Duration(time.Since(start).Milliseconds()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// AuthMiddleware resolves the caller's identity from the session cookie
// or a Bearer token and injects user, tenant and role into the request
// context. Resolution failure of any kind renders the request
// unauthenticated; the route guard then rejects it. Tenant context is
// derived exclusively from the session or token, never from headers.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, authenticated := h.resolveIdentity(r)

		// The server is never mid-bootstrap when it answers requests,
		// so the loading input to the gate is always false here.
		switch rbac.Guard(authenticated, false) {
		case rbac.GateRender:
			next.ServeHTTP(w, r.WithContext(ctx))
		default:
			respondError(w, http.StatusUnauthorized, "not authenticated")
		}
	})
}

// resolveIdentity tries the session cookie first, then a Bearer token.
// The returned context carries user_id, tenant_id and role when
// authentication succeeds.
func (h *Handler) resolveIdentity(r *http.Request) (context.Context, bool) {
	ctx := r.Context()

	if sessionID := h.getSessionFromCookie(r); sessionID != "" {
		sess, err := h.sessionService.Get(ctx, sessionID)
		if err != nil {
			return ctx, false
		}

		if err := h.sessionService.Refresh(ctx, sessionID); err != nil {
			slog.ErrorContext(ctx, "failed to refresh session", logger.Error(err))
		}

		// The role is read from the membership on every request so a
		// revocation takes effect immediately, not at next login.
		role := ""
		if stored, err := h.tenantService.GetMemberRole(ctx, sess.TenantID, sess.UserID); err == nil {
			role = stored
		} else if !errors.Is(err, tenant.ErrMembershipNotFound) {
			return ctx, false
		}

		ctx = context.WithValue(ctx, userIDKey, sess.UserID)
		ctx = context.WithValue(ctx, sessionIDKey, sess.ID)
		ctx = context.WithValue(ctx, tenantIDKey, sess.TenantID)
		ctx = context.WithValue(ctx, roleKey, role)
		return ctx, true
	}

	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		claims, err := h.tokens.Parse(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			return ctx, false
		}

		ctx = context.WithValue(ctx, userIDKey, claims.Subject)
		ctx = context.WithValue(ctx, tenantIDKey, claims.TenantID)
		ctx = context.WithValue(ctx, roleKey, claims.Role)
		return ctx, true
	}

	return ctx, false
}

// RequirePermission gates a route on a permission check against the
// caller's role. Unknown or absent roles deny silently with 403, the
// same as a known role without the permission.
func (h *Handler) RequirePermission(perm rbac.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := GetRole(r.Context())
			if !rbac.HasPermission(role, perm) {
				if h.counters != nil {
					h.counters.PermissionDenials.Add(r.Context(), 1)
				}
				slog.WarnContext(r.Context(), "permission denied",
					logger.UserID(GetUserID(r.Context())),
					logger.TenantID(GetTenantID(r.Context())),
					logger.Role(role),
					logger.String("permission", string(perm)),
				)
				respondError(w, http.StatusForbidden, "permission denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole gates a route on the role hierarchy. A role that does not
// normalize to a current role never satisfies any minimum.
func (h *Handler) RequireRole(minimum rbac.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rbac.IsAtLeast(GetRole(r.Context()), string(minimum)) {
				if h.counters != nil {
					h.counters.PermissionDenials.Add(r.Context(), 1)
				}
				respondError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CSRFMiddleware enforces the X-CSRF-Token header on state-changing
// cookie-authenticated requests. Bearer token requests are exempt, the
// token itself is not browser-ambient.
func (h *Handler) CSRFMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions || r.Method == http.MethodTrace {
			next.ServeHTTP(w, r)
			return
		}

		if strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}

		if r.Header.Get("X-CSRF-Token") == "" {
			slog.WarnContext(r.Context(), "missing CSRF token header",
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
			)
			respondError(w, http.StatusForbidden, "X-CSRF-Token header is required for state-changing operations")
			return
		}

		next.ServeHTTP(w, r)
	})
}
