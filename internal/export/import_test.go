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

package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/finance"
)

func TestImport_ParseTransactions(t *testing.T) {
	csv := strings.Join([]string{
		"project_id,type,amount_minor,currency,description,occurred_at",
		"proj-1,debit,250000,NGN,sand delivery,2026-05-10",
		"proj-1,CREDIT,100000,,client refund,2026-05-11T14:00:00Z",
	}, "\n")

	result, err := ParseTransactions(strings.NewReader(csv))
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Len(t, result.Inputs, 2)

	first := result.Inputs[0]
	assert.Equal(t, "proj-1", first.ProjectID)
	assert.Equal(t, finance.TypeDebit, first.Type)
	assert.EqualValues(t, 250000, first.AmountMinor)
	assert.Equal(t, time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), first.OccurredAt)

	second := result.Inputs[1]
	assert.Equal(t, finance.TypeCredit, second.Type, "type is case-insensitive")
	assert.Equal(t, time.Date(2026, 5, 11, 14, 0, 0, 0, time.UTC), second.OccurredAt)
}

// Column order is free; the header drives the mapping.
func TestImport_ParseTransactions_ReorderedColumns(t *testing.T) {
	csv := strings.Join([]string{
		"amount_minor, type ,project_id",
		"5000,credit,proj-9",
	}, "\n")

	result, err := ParseTransactions(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, result.Inputs, 1)
	assert.Equal(t, "proj-9", result.Inputs[0].ProjectID)
	assert.EqualValues(t, 5000, result.Inputs[0].AmountMinor)
}

// TestPurpose: Validates per-row error collection. A bad row must not abort
// the parse; every problem is reported with its 1-based file line.
// Scope: Unit Test
// Expected: Three bad rows yield three RowErrors with the right lines while
// the good row still parses.
func TestImport_ParseTransactions_RowErrors(t *testing.T) {
	csv := strings.Join([]string{
		"project_id,type,amount_minor",
		"proj-1,debit,100",
		",debit,100",
		"proj-1,transfer,100",
		"proj-1,debit,-5",
	}, "\n")

	result, err := ParseTransactions(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, result.Inputs, 1)
	require.Len(t, result.Errors, 3)

	assert.Equal(t, 3, result.Errors[0].Line)
	assert.Contains(t, result.Errors[0].Err, "project_id is required")
	assert.Equal(t, 4, result.Errors[1].Line)
	assert.Contains(t, result.Errors[1].Err, "credit or debit")
	assert.Equal(t, 5, result.Errors[2].Line)
	assert.Contains(t, result.Errors[2].Err, "must be positive")
}

func TestImport_ParseTransactions_EmptyFile(t *testing.T) {
	_, err := ParseTransactions(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)

	// A header with no data rows is also empty.
	_, err = ParseTransactions(strings.NewReader("project_id,type,amount_minor\n"))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestImport_ParseTransactions_MissingHeader(t *testing.T) {
	_, err := ParseTransactions(strings.NewReader("project_id,description\nproj-1,x"))
	assert.ErrorIs(t, err, ErrMissingHeader)
}

func TestImport_ParseTransactions_BadAmountAndDate(t *testing.T) {
	csv := strings.Join([]string{
		"project_id,type,amount_minor,occurred_at",
		"proj-1,debit,12.50,",
		"proj-1,debit,100,10/05/2026",
	}, "\n")

	result, err := ParseTransactions(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0].Err, "not an integer")
	assert.Contains(t, result.Errors[1].Err, "not a date")
}

func TestImport_ParseTransactions_AllocationID(t *testing.T) {
	csv := strings.Join([]string{
		"project_id,type,amount_minor,allocation_id",
		"proj-1,debit,100,alloc-7",
		"proj-1,debit,100,",
	}, "\n")

	result, err := ParseTransactions(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, result.Inputs, 2)
	require.NotNil(t, result.Inputs[0].AllocationID)
	assert.Equal(t, "alloc-7", *result.Inputs[0].AllocationID)
	assert.Nil(t, result.Inputs[1].AllocationID)
}
