package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/team"
)

// CreateTeamRequest represents team creation data
type CreateTeamRequest struct {
	Name      string  `json:"name" validate:"required"`
	ProjectID *string `json:"project_id"`
}

// CreateTeam creates a team, optionally attached to a project
// @Summary Create Team
// @Tags Teams
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 201 {object} team.Team
// @Router /teams [post]
func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req CreateTeamRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	t, err := h.teamService.CreateTeam(r.Context(), GetTenantID(r.Context()), GetUserID(r.Context()), req.Name, req.ProjectID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, t)
}

// GetTeam retrieves a team
// @Summary Get Team
// @Tags Teams
// @Produce json
// @Security CookieAuth
// @Success 200 {object} team.Team
// @Failure 404 {object} map[string]string
// @Router /teams/{teamID} [get]
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	t, err := h.teamService.GetTeam(r.Context(), GetTenantID(r.Context()), chi.URLParam(r, "teamID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "team not found")
		return
	}

	respondJSON(w, http.StatusOK, t)
}

// ListTeams lists the tenant's teams
// @Summary List Teams
// @Tags Teams
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Router /teams [get]
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	teams, err := h.teamService.ListTeams(r.Context(), GetTenantID(r.Context()), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list teams")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"teams": teams})
}

// DeleteTeam removes a team and its memberships
// @Summary Delete Team
// @Tags Teams
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /teams/{teamID} [delete]
func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	err := h.teamService.DeleteTeam(r.Context(), GetTenantID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "teamID"))
	if err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			respondError(w, http.StatusNotFound, "team not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete team")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "team deleted",
	})
}

// AddTeamMemberRequest represents member addition data
type AddTeamMemberRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Title  string `json:"title"`
}

// AddTeamMember adds a user to a team. The title is informational and
// carries no permissions.
// @Summary Add Team Member
// @Tags Teams
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 201 {object} team.Member
// @Failure 409 {object} map[string]string
// @Router /teams/{teamID}/members [post]
func (h *Handler) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	var req AddTeamMemberRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	m, err := h.teamService.AddMember(r.Context(), GetTenantID(r.Context()), GetUserID(r.Context()),
		chi.URLParam(r, "teamID"), req.UserID, req.Title)
	if err != nil {
		switch {
		case errors.Is(err, team.ErrTeamNotFound):
			respondError(w, http.StatusNotFound, "team not found")
		case errors.Is(err, team.ErrMemberExists):
			respondError(w, http.StatusConflict, "user is already a team member")
		default:
			respondError(w, http.StatusInternalServerError, "failed to add member")
		}
		return
	}

	respondJSON(w, http.StatusCreated, m)
}

// RemoveTeamMember removes a user from a team
// @Summary Remove Team Member
// @Tags Teams
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /teams/{teamID}/members/{userID} [delete]
func (h *Handler) RemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	err := h.teamService.RemoveMember(r.Context(), GetTenantID(r.Context()), chi.URLParam(r, "teamID"), chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, team.ErrTeamNotFound) || errors.Is(err, team.ErrMemberNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to remove member")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "member removed",
	})
}

// ListTeamMembers lists a team's members
// @Summary List Team Members
// @Tags Teams
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Router /teams/{teamID}/members [get]
func (h *Handler) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.teamService.ListMembers(r.Context(), GetTenantID(r.Context()), chi.URLParam(r, "teamID"))
	if err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			respondError(w, http.StatusNotFound, "team not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to list members")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"members": members})
}

// CreateMaterialRequest represents material catalog data
type CreateMaterialRequest struct {
	SKU           string `json:"sku" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Unit          string `json:"unit"`
	UnitCostMinor int64  `json:"unit_cost_minor" validate:"gte=0"`
	Currency      string `json:"currency"`
}

// CreateMaterial adds a material catalog entry
// @Summary Create Material
// @Tags Materials
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 201 {object} team.Material
// @Router /materials [post]
func (h *Handler) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	var req CreateMaterialRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	m, err := h.teamService.CreateMaterial(r.Context(), GetTenantID(r.Context()), &team.Material{
		SKU:           req.SKU,
		Name:          req.Name,
		Unit:          req.Unit,
		UnitCostMinor: req.UnitCostMinor,
		Currency:      req.Currency,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, m)
}

// ListMaterials lists the tenant's material catalog
// @Summary List Materials
// @Tags Materials
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Router /materials [get]
func (h *Handler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	materials, err := h.teamService.ListMaterials(r.Context(), GetTenantID(r.Context()), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list materials")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"materials": materials})
}

// DeleteMaterial removes a material catalog entry
// @Summary Delete Material
// @Tags Materials
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /materials/{materialID} [delete]
func (h *Handler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	err := h.teamService.DeleteMaterial(r.Context(), GetTenantID(r.Context()), chi.URLParam(r, "materialID"))
	if err != nil {
		if errors.Is(err, team.ErrMaterialNotFound) {
			respondError(w, http.StatusNotFound, "material not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete material")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "material deleted",
	})
}
