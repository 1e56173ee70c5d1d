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
	"errors"
	"log/slog"
	"net/http"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/audit"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/identity"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/observability/logger"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/rbac"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/tenant"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	TenantID string `json:"tenant_id" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a user and starts a cookie session
// @Summary Login
// @Description Authenticate user and create a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if h.counters != nil {
		h.counters.LoginAttempts.Add(r.Context(), 1)
	}

	user, err := h.identityService.Authenticate(r.Context(), req.TenantID, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrAccountLocked) {
			respondError(w, http.StatusUnauthorized, "account is temporarily locked")
			return
		}
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	sess, err := h.sessionService.Create(r.Context(), user.TenantID, user.ID, getIPAddress(r), r.UserAgent())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create session", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	h.setSessionCookie(w, sess.ID, int(sess.ExpiresAt.Sub(sess.CreatedAt).Seconds()))

	respondJSON(w, http.StatusOK, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})
}

// Token exchanges credentials for a Bearer access token. The token
// carries the membership role at issuance.
// @Summary Issue API token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /auth/token [post]
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if h.counters != nil {
		h.counters.LoginAttempts.Add(r.Context(), 1)
	}

	user, err := h.identityService.Authenticate(r.Context(), req.TenantID, req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	role := ""
	if stored, err := h.tenantService.GetMemberRole(r.Context(), user.TenantID, user.ID); err == nil {
		role = stored
	}

	token, err := h.tokens.Issue(user.ID, user.TenantID, role)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to issue token", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "Bearer",
	})
}

// Logout destroys the current session
// @Summary Logout
// @Tags Auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID := GetSessionID(r.Context()); sessionID != "" {
		h.auditLogger.Log(r.Context(), audit.Event{
			Type:      audit.TypeLogout,
			TenantID:  GetTenantID(r.Context()),
			ActorID:   GetUserID(r.Context()),
			Resource:  "session",
			IPAddress: getIPAddress(r),
			UserAgent: r.UserAgent(),
		})
		if err := h.sessionService.Delete(r.Context(), sessionID); err != nil {
			slog.ErrorContext(r.Context(), "failed to delete session", logger.Error(err))
		}
	}

	h.clearSessionCookie(w)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user plus the derived
// permission set the frontend renders from.
// @Summary Get Current User
// @Tags Auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /auth/me [get]
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.identityService.GetUser(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	role := GetRole(r.Context())

	permissions := map[string]bool{}
	for _, perm := range rbac.Permissions() {
		permissions[string(perm)] = rbac.HasPermission(role, perm)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user_id":        user.ID,
		"email":          user.Email,
		"email_verified": user.EmailVerified,
		"profile":        user.Profile,
		"tenant_id":      GetTenantID(r.Context()),
		"role":           string(rbac.Normalize(role)),
		"permissions":    permissions,
	})
}

// UpdateProfile updates the caller's profile
// @Summary Update Profile
// @Tags User
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Router /user/profile [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var profile identity.Profile
	if !decodeAndValidate(w, r, &profile) {
		return
	}

	if err := h.identityService.UpdateProfile(r.Context(), GetUserID(r.Context()), profile); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "profile updated successfully",
	})
}

// ChangePasswordRequest represents password change data
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// ChangePassword changes the caller's password
// @Summary Change Password
// @Tags User
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /user/change-password [post]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.identityService.ChangePassword(r.Context(), GetUserID(r.Context()), req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "invalid old password")
		case errors.Is(err, identity.ErrWeakPassword):
			respondError(w, http.StatusBadRequest, "new password does not meet security requirements")
		default:
			respondError(w, http.StatusInternalServerError, "failed to change password")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "password changed successfully",
	})
}

// ProvisionUserRequest represents user provisioning data
type ProvisionUserRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	Role       string `json:"role"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// ProvisionUser creates a user in the caller's tenant, optionally with
// an initial role.
// @Summary Provision User
// @Tags Users
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 201 {object} map[string]any
// @Failure 409 {object} map[string]string
// @Router /users [post]
func (h *Handler) ProvisionUser(w http.ResponseWriter, r *http.Request) {
	var req ProvisionUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tenantID := GetTenantID(r.Context())

	profile := identity.Profile{
		GivenName:  req.GivenName,
		FamilyName: req.FamilyName,
		FullName:   req.GivenName + " " + req.FamilyName,
	}

	user, err := h.identityService.ProvisionUser(r.Context(), tenantID, req.Email, profile)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrUserAlreadyExists):
			respondError(w, http.StatusConflict, "user already exists")
		case errors.Is(err, identity.ErrInvalidEmail):
			respondError(w, http.StatusBadRequest, "invalid email address")
		default:
			respondError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	if err := h.identityService.AddPassword(r.Context(), user.ID, req.Password); err != nil {
		respondError(w, http.StatusBadRequest, "failed to set password: "+err.Error())
		return
	}

	if req.Role != "" {
		if err := h.tenantService.AssignRole(r.Context(), tenantID, user.ID, req.Role, GetUserID(r.Context())); err != nil {
			if errors.Is(err, tenant.ErrInvalidRole) {
				respondError(w, http.StatusBadRequest, "invalid role: "+req.Role)
				return
			}
			respondError(w, http.StatusInternalServerError, "failed to assign role")
			return
		}
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})
}

// ListUsers lists the caller's tenant users
// @Summary List Users
// @Tags Users
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Router /users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	users, err := h.identityService.ListUsers(r.Context(), GetTenantID(r.Context()), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"users": users})
}
