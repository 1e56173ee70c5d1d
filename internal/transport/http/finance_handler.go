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
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/finance"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/project"
)

// CreateAllocationRequest represents fund allocation data
type CreateAllocationRequest struct {
	ProjectID   string    `json:"project_id" validate:"required"`
	Category    string    `json:"category"`
	AmountMinor int64     `json:"amount_minor" validate:"required,gt=0"`
	Currency    string    `json:"currency"`
	EffectiveAt time.Time `json:"effective_at"`
}

// CreateAllocation earmarks project budget. Allocations past the budget
// total are rejected.
// @Summary Allocate Funds
// @Tags Finance
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 201 {object} finance.FundAllocation
// @Failure 409 {object} map[string]string
// @Router /allocations [post]
func (h *Handler) CreateAllocation(w http.ResponseWriter, r *http.Request) {
	var req CreateAllocationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	a, err := h.financeService.Allocate(r.Context(), GetTenantID(r.Context()), GetUserID(r.Context()), finance.AllocateInput{
		ProjectID:   req.ProjectID,
		Category:    req.Category,
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
		EffectiveAt: req.EffectiveAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, finance.ErrBudgetExceeded):
			respondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, project.ErrProjectNotFound):
			respondError(w, http.StatusNotFound, "project not found")
		case errors.Is(err, project.ErrBudgetNotFound):
			respondError(w, http.StatusConflict, "project has no budget")
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusCreated, a)
}

// RevokeAllocation revokes an allocation, freeing its envelope
// @Summary Revoke Allocation
// @Tags Finance
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /allocations/{allocationID} [delete]
func (h *Handler) RevokeAllocation(w http.ResponseWriter, r *http.Request) {
	err := h.financeService.RevokeAllocation(r.Context(), GetTenantID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "allocationID"))
	if err != nil {
		if errors.Is(err, finance.ErrAllocationNotFound) {
			respondError(w, http.StatusNotFound, "allocation not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to revoke allocation")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "allocation revoked",
	})
}

// ListAllocations lists a project's allocations
// @Summary List Allocations
// @Tags Finance
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Router /projects/{projectID}/allocations [get]
func (h *Handler) ListAllocations(w http.ResponseWriter, r *http.Request) {
	allocations, err := h.financeService.ListAllocations(r.Context(), GetTenantID(r.Context()), chi.URLParam(r, "projectID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list allocations")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"allocations": allocations})
}

// CreateTransactionRequest represents transaction data
type CreateTransactionRequest struct {
	ProjectID    string    `json:"project_id" validate:"required"`
	AllocationID *string   `json:"allocation_id"`
	Type         string    `json:"type" validate:"required,oneof=credit debit"`
	AmountMinor  int64     `json:"amount_minor" validate:"required,gt=0"`
	Currency     string    `json:"currency"`
	Description  string    `json:"description"`
	Reference    string    `json:"reference"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// CreateTransaction records a money movement against a project
// @Summary Record Transaction
// @Tags Finance
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 201 {object} finance.Transaction
// @Router /transactions [post]
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	t, err := h.financeService.Record(r.Context(), GetTenantID(r.Context()), GetUserID(r.Context()), finance.RecordInput{
		ProjectID:    req.ProjectID,
		AllocationID: req.AllocationID,
		Type:         req.Type,
		AmountMinor:  req.AmountMinor,
		Currency:     req.Currency,
		Description:  req.Description,
		Reference:    req.Reference,
		OccurredAt:   req.OccurredAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, project.ErrProjectNotFound):
			respondError(w, http.StatusNotFound, "project not found")
		case errors.Is(err, finance.ErrAllocationNotFound):
			respondError(w, http.StatusNotFound, "allocation not found")
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if h.counters != nil {
		h.counters.TransactionsMade.Add(r.Context(), 1)
	}

	respondJSON(w, http.StatusCreated, t)
}

// DeleteTransaction removes a transaction
// @Summary Delete Transaction
// @Tags Finance
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /transactions/{transactionID} [delete]
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	err := h.financeService.Delete(r.Context(), GetTenantID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "transactionID"))
	if err != nil {
		if errors.Is(err, finance.ErrTransactionNotFound) {
			respondError(w, http.StatusNotFound, "transaction not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "transaction deleted",
	})
}

// ListTransactions lists transactions under query filters
// @Summary List Transactions
// @Tags Finance
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Router /transactions [get]
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := transactionFilterFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	transactions, err := h.financeService.List(r.Context(), GetTenantID(r.Context()), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}

// GetSpendSummary returns a project's budget/allocation/spend roll-up
// @Summary Spend Summary
// @Tags Finance
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /projects/{projectID}/summary [get]
func (h *Handler) GetSpendSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.financeService.Summary(r.Context(), GetTenantID(r.Context()), chi.URLParam(r, "projectID"))
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			respondError(w, http.StatusNotFound, "project not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"project_id":      summary.ProjectID,
		"budget_minor":    summary.BudgetMinor,
		"allocated_minor": summary.AllocatedMinor,
		"credit_minor":    summary.CreditMinor,
		"debit_minor":     summary.DebitMinor,
		"remaining_minor": summary.RemainingMinor(),
	})
}

func transactionFilterFromQuery(r *http.Request) (finance.TransactionFilter, error) {
	q := r.URL.Query()
	limit, offset := paginationParams(r)

	filter := finance.TransactionFilter{
		ProjectID: q.Get("project_id"),
		Type:      q.Get("type"),
		Limit:     limit,
		Offset:    offset,
	}

	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.New("invalid from timestamp")
		}
		filter.From = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.New("invalid to timestamp")
		}
		filter.To = &t
	}
	if raw := q.Get("min_amount"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, errors.New("invalid min_amount")
		}
		filter.MinAmount = &n
	}
	if raw := q.Get("max_amount"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, errors.New("invalid max_amount")
		}
		filter.MaxAmount = &n
	}

	return filter, nil
}
