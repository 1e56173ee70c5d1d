package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportTransactions_InvalidRowsReported(t *testing.T) {
	h := &Handler{}

	body := "project_id,type,amount_minor\n" +
		"proj-1,debit,1000\n" +
		",debit,500\n" +
		"proj-1,debit,abc\n"

	req := authedRequest(http.MethodPost, "/api/v1/import/transactions", body)
	rec := httptest.NewRecorder()
	h.ImportTransactions(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error     string `json:"error"`
		RowErrors []struct {
			Line int    `json:"line"`
			Err  string `json:"error"`
		} `json:"row_errors"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.Equal(t, "csv contains invalid rows", resp.Error)
	require.Len(t, resp.RowErrors, 2)
	assert.Equal(t, 3, resp.RowErrors[0].Line)
	assert.Contains(t, resp.RowErrors[0].Err, "project_id is required")
	assert.Equal(t, 4, resp.RowErrors[1].Line)
	assert.NotEmpty(t, resp.RowErrors[1].Err)
}

func TestImportTransactions_MissingHeader(t *testing.T) {
	h := &Handler{}

	req := authedRequest(http.MethodPost, "/api/v1/import/transactions", "project_id,type\nproj-1,debit\n")
	rec := httptest.NewRecorder()
	h.ImportTransactions(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "amount_minor")
}

func TestImportTransactions_EmptyBody(t *testing.T) {
	h := &Handler{}

	req := authedRequest(http.MethodPost, "/api/v1/import/transactions", "")
	rec := httptest.NewRecorder()
	h.ImportTransactions(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
