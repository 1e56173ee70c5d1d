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
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/finance"
)

// Import errors
var (
	ErrEmptyFile     = errors.New("csv file is empty")
	ErrMissingHeader = errors.New("csv header is missing required columns")
)

// Transaction import columns. project_id, type and amount_minor are
// required; the rest are optional.
var requiredColumns = []string{"project_id", "type", "amount_minor"}

// RowError reports a rejected CSV line.
type RowError struct {
	Line int    `json:"line"`
	Err  string `json:"error"`
}

// ImportResult summarizes a parse pass.
type ImportResult struct {
	Inputs []finance.RecordInput `json:"-"`
	Errors []RowError            `json:"errors,omitempty"`
}

// ParseTransactions reads a CSV stream of transactions. The first row
// is a header; column order is free. Invalid rows are collected as
// RowErrors rather than aborting the parse, so the caller can report
// every problem in one pass. The caller decides whether any error
// blocks the import (the HTTP handler rejects the batch if Errors is
// non-empty).
func ParseTransactions(r io.Reader) (*ImportResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingHeader, required)
		}
	}

	result := &ImportResult{}
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, RowError{Line: line, Err: err.Error()})
			continue
		}

		input, err := parseRow(cols, record)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Line: line, Err: err.Error()})
			continue
		}
		result.Inputs = append(result.Inputs, input)
	}

	if len(result.Inputs) == 0 && len(result.Errors) == 0 {
		return nil, ErrEmptyFile
	}

	return result, nil
}

func parseRow(cols map[string]int, record []string) (finance.RecordInput, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var in finance.RecordInput

	in.ProjectID = field("project_id")
	if in.ProjectID == "" {
		return in, fmt.Errorf("project_id is required")
	}

	in.Type = strings.ToLower(field("type"))
	if in.Type != finance.TypeCredit && in.Type != finance.TypeDebit {
		return in, fmt.Errorf("type must be credit or debit, got %q", field("type"))
	}

	amount, err := strconv.ParseInt(field("amount_minor"), 10, 64)
	if err != nil {
		return in, fmt.Errorf("amount_minor is not an integer: %q", field("amount_minor"))
	}
	if amount <= 0 {
		return in, fmt.Errorf("amount_minor must be positive, got %d", amount)
	}
	in.AmountMinor = amount

	in.Currency = field("currency")
	in.Description = field("description")
	in.Reference = field("reference")

	if raw := field("occurred_at"); raw != "" {
		occurredAt, err := parseDate(raw)
		if err != nil {
			return in, fmt.Errorf("occurred_at is not a date: %q", raw)
		}
		in.OccurredAt = occurredAt
	}

	if raw := field("allocation_id"); raw != "" {
		in.AllocationID = &raw
	}

	return in, nil
}

// parseDate accepts RFC3339 or bare YYYY-MM-DD, which is what
// spreadsheet exports typically produce.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
