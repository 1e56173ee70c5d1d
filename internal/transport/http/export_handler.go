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
	"log/slog"
	"net/http"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/audit"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/export"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/observability/logger"
)

const exportPageSize = 10000

// ExportProjects streams the tenant's projects as CSV
// @Summary Export Projects CSV
// @Tags Export
// @Produce text/csv
// @Security CookieAuth
// @Success 200 {string} string
// @Router /export/projects.csv [get]
func (h *Handler) ExportProjects(w http.ResponseWriter, r *http.Request) {
	tenantID := GetTenantID(r.Context())

	projects, err := h.projectService.List(r.Context(), tenantID, r.URL.Query().Get("status"), exportPageSize, 0)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}

	h.logExport(r, "projects", len(projects))

	if err := export.WriteCSVResponse(w, "projects.csv", projects); err != nil {
		slog.ErrorContext(r.Context(), "failed to write csv", logger.Error(err))
	}
}

// ExportTransactions streams transactions as CSV, honoring the same
// query filters as the listing endpoint.
// @Summary Export Transactions CSV
// @Tags Export
// @Produce text/csv
// @Security CookieAuth
// @Success 200 {string} string
// @Router /export/transactions.csv [get]
func (h *Handler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := transactionFilterFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.Limit = exportPageSize
	filter.Offset = 0

	transactions, err := h.financeService.List(r.Context(), GetTenantID(r.Context()), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	h.logExport(r, "transactions", len(transactions))

	if err := export.WriteCSVResponse(w, "transactions.csv", transactions); err != nil {
		slog.ErrorContext(r.Context(), "failed to write csv", logger.Error(err))
	}
}

// ExportAllocations streams a project's fund allocations as CSV
// @Summary Export Allocations CSV
// @Tags Export
// @Produce text/csv
// @Security CookieAuth
// @Success 200 {string} string
// @Router /export/allocations.csv [get]
func (h *Handler) ExportAllocations(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		respondError(w, http.StatusBadRequest, "project_id query parameter is required")
		return
	}

	allocations, err := h.financeService.ListAllocations(r.Context(), GetTenantID(r.Context()), projectID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list allocations")
		return
	}

	h.logExport(r, "allocations", len(allocations))

	if err := export.WriteCSVResponse(w, "allocations.csv", allocations); err != nil {
		slog.ErrorContext(r.Context(), "failed to write csv", logger.Error(err))
	}
}

// ExportMaterials streams the material catalog as CSV
// @Summary Export Materials CSV
// @Tags Export
// @Produce text/csv
// @Security CookieAuth
// @Success 200 {string} string
// @Router /export/materials.csv [get]
func (h *Handler) ExportMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := h.teamService.ListMaterials(r.Context(), GetTenantID(r.Context()), exportPageSize, 0)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list materials")
		return
	}

	h.logExport(r, "materials", len(materials))

	if err := export.WriteCSVResponse(w, "materials.csv", materials); err != nil {
		slog.ErrorContext(r.Context(), "failed to write csv", logger.Error(err))
	}
}

// ImportTransactions parses an uploaded CSV and records its rows as a
// single all-or-nothing batch. Rows that fail to parse are reported
// back with their line numbers; a partially valid file is not applied.
// @Summary Import Transactions CSV
// @Tags Export
// @Accept text/csv
// @Produce json
// @Security CookieAuth
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /import/transactions [post]
func (h *Handler) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	result, err := export.ParseTransactions(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if len(result.Errors) > 0 {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":      "csv contains invalid rows",
			"row_errors": result.Errors,
		})
		return
	}

	tenantID := GetTenantID(r.Context())
	actorID := GetUserID(r.Context())

	transactions, err := h.financeService.RecordBatch(r.Context(), tenantID, actorID, result.Inputs)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.counters != nil {
		h.counters.CSVRowsImported.Add(r.Context(), int64(len(transactions)))
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeCSVImported,
		TenantID:  tenantID,
		ActorID:   actorID,
		Resource:  "transactions",
		IPAddress: getIPAddress(r),
		UserAgent: r.UserAgent(),
		Metadata:  map[string]any{audit.AttrRows: len(transactions)},
	})

	respondJSON(w, http.StatusCreated, map[string]any{
		"imported": len(transactions),
	})
}

// logExport records an export in the audit trail
func (h *Handler) logExport(r *http.Request, resource string, rows int) {
	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeCSVExported,
		TenantID:  GetTenantID(r.Context()),
		ActorID:   GetUserID(r.Context()),
		Resource:  resource,
		IPAddress: getIPAddress(r),
		UserAgent: r.UserAgent(),
		Metadata:  map[string]any{audit.AttrRows: rows},
	})
}

// ListAuditEvents lists the tenant's audit trail, newest first
// @Summary List Audit Events
// @Tags Audit
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Router /audit [get]
func (h *Handler) ListAuditEvents(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	events, err := h.auditRepo.ListByTenant(r.Context(), GetTenantID(r.Context()), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list audit events")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"events": events})
}
