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
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/project"
)

// CreateProjectRequest represents project creation data
type CreateProjectRequest struct {
	Name        string     `json:"name" validate:"required"`
	Client      string     `json:"client"`
	SiteAddress string     `json:"site_address"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// CreateProject creates a project in draft status
// @Summary Create Project
// @Tags Projects
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 201 {object} project.Project
// @Router /projects [post]
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := h.projectService.Create(r.Context(), GetTenantID(r.Context()), GetUserID(r.Context()), project.CreateInput{
		Name:        req.Name,
		Client:      req.Client,
		SiteAddress: req.SiteAddress,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

// GetProject retrieves a project
// @Summary Get Project
// @Tags Projects
// @Produce json
// @Security CookieAuth
// @Success 200 {object} project.Project
// @Failure 404 {object} map[string]string
// @Router /projects/{projectID} [get]
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.projectService.Get(r.Context(), GetTenantID(r.Context()), chi.URLParam(r, "projectID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "project not found")
		return
	}

	respondJSON(w, http.StatusOK, p)
}

// ListProjects lists the tenant's projects, optionally by status
// @Summary List Projects
// @Tags Projects
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Router /projects [get]
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)
	status := r.URL.Query().Get("status")

	projects, err := h.projectService.List(r.Context(), GetTenantID(r.Context()), status, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// UpdateProjectRequest represents mutable project fields
type UpdateProjectRequest struct {
	Name        string     `json:"name"`
	Client      string     `json:"client"`
	SiteAddress string     `json:"site_address"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// UpdateProject updates project fields and status
// @Summary Update Project
// @Tags Projects
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} project.Project
// @Failure 404 {object} map[string]string
// @Router /projects/{projectID} [put]
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req UpdateProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := h.projectService.Update(r.Context(), GetTenantID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "projectID"), project.UpdateInput{
		Name:        req.Name,
		Client:      req.Client,
		SiteAddress: req.SiteAddress,
		Status:      req.Status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, project.ErrProjectNotFound):
			respondError(w, http.StatusNotFound, "project not found")
		case errors.Is(err, project.ErrInvalidStatus):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to update project")
		}
		return
	}

	respondJSON(w, http.StatusOK, p)
}

// DeleteProject soft-deletes a project
// @Summary Delete Project
// @Tags Projects
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /projects/{projectID} [delete]
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	err := h.projectService.Delete(r.Context(), GetTenantID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "projectID"))
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			respondError(w, http.StatusNotFound, "project not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete project")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "project deleted",
	})
}

// SetBudgetRequest represents budget data
type SetBudgetRequest struct {
	TotalMinor int64                `json:"total_minor" validate:"required,gt=0"`
	Currency   string               `json:"currency"`
	Lines      []project.BudgetLine `json:"lines"`
}

// SetBudget creates or replaces a project's budget
// @Summary Set Budget
// @Tags Projects
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} project.Budget
// @Failure 400 {object} map[string]string
// @Router /projects/{projectID}/budget [put]
func (h *Handler) SetBudget(w http.ResponseWriter, r *http.Request) {
	var req SetBudgetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	b, err := h.projectService.SetBudget(r.Context(), GetTenantID(r.Context()), GetUserID(r.Context()),
		chi.URLParam(r, "projectID"), req.TotalMinor, req.Currency, req.Lines)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			respondError(w, http.StatusNotFound, "project not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, b)
}

// GetBudget retrieves a project's budget
// @Summary Get Budget
// @Tags Projects
// @Produce json
// @Security CookieAuth
// @Success 200 {object} project.Budget
// @Failure 404 {object} map[string]string
// @Router /projects/{projectID}/budget [get]
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	b, err := h.projectService.GetBudget(r.Context(), GetTenantID(r.Context()), chi.URLParam(r, "projectID"))
	if err != nil {
		if errors.Is(err, project.ErrBudgetNotFound) {
			respondError(w, http.StatusNotFound, "budget not found")
			return
		}
		respondError(w, http.StatusNotFound, "project not found")
		return
	}

	respondJSON(w, http.StatusOK, b)
}
