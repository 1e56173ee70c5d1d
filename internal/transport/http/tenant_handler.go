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
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/tenant"
)

// CreateTenantRequest represents tenant creation data
type CreateTenantRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateTenant creates a new tenant
// @Summary Create Tenant
// @Tags Tenants
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 201 {object} tenant.Tenant
// @Failure 409 {object} map[string]string
// @Router /tenants [post]
func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req CreateTenantRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	t, err := h.tenantService.CreateTenant(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantExists) {
			respondError(w, http.StatusConflict, "tenant already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create tenant")
		return
	}

	respondJSON(w, http.StatusCreated, t)
}

// ListTenants lists tenants with pagination
// @Summary List Tenants
// @Tags Tenants
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Router /tenants [get]
func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	tenants, err := h.tenantService.ListTenants(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list tenants")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"tenants": tenants})
}

// GetTenant retrieves a tenant by ID
// @Summary Get Tenant
// @Tags Tenants
// @Produce json
// @Security CookieAuth
// @Success 200 {object} tenant.Tenant
// @Failure 404 {object} map[string]string
// @Router /tenants/{tenantID} [get]
func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.tenantService.GetTenant(r.Context(), chi.URLParam(r, "tenantID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "tenant not found")
		return
	}

	respondJSON(w, http.StatusOK, t)
}

// AssignRoleRequest represents a role grant
type AssignRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// AssignRole grants a role to a user in the caller's tenant. Unknown
// role strings are rejected; a grant is a write and fails fast.
// @Summary Assign Role
// @Tags Users
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /users/{userID}/role [post]
func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	var req AssignRoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID := chi.URLParam(r, "userID")

	err := h.tenantService.AssignRole(r.Context(), GetTenantID(r.Context()), userID, req.Role, GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, tenant.ErrInvalidRole) {
			respondError(w, http.StatusBadRequest, "invalid role: "+req.Role)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to assign role")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "role assigned",
	})
}

// RevokeRole removes a user's membership in the caller's tenant
// @Summary Revoke Role
// @Tags Users
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /users/{userID}/role [delete]
func (h *Handler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	err := h.tenantService.RevokeRole(r.Context(), GetTenantID(r.Context()), userID, GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, tenant.ErrMembershipNotFound) {
			respondError(w, http.StatusNotFound, "membership not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to revoke role")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "role revoked",
	})
}
