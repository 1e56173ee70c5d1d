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

package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Config holds metrics configuration
type Config struct {
	Enabled bool
}

// Meter wraps the OpenTelemetry meter
type Meter struct {
	meter metric.Meter
}

// New creates a new meter instance
func New(ctx context.Context, cfg Config, serviceName string) (*Meter, error) {
	if !cfg.Enabled {
		return &Meter{meter: otel.Meter("noop")}, nil
	}
	return &Meter{meter: otel.Meter(serviceName)}, nil
}

// CreateCounter creates a new counter metric
func (m *Meter) CreateCounter(name, description string) (metric.Int64Counter, error) {
	counter, err := m.meter.Int64Counter(
		name,
		metric.WithDescription(description),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return counter, nil
}

// CreateHistogram creates a new histogram metric
func (m *Meter) CreateHistogram(name, description, unit string) (metric.Float64Histogram, error) {
	histogram, err := m.meter.Float64Histogram(
		name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram %s: %w", name, err)
	}
	return histogram, nil
}

// DomainCounters bundles the counters the request path increments.
type DomainCounters struct {
	LoginAttempts     metric.Int64Counter
	PermissionDenials metric.Int64Counter
	TransactionsMade  metric.Int64Counter
	CSVRowsImported   metric.Int64Counter
}

// NewDomainCounters creates the standard set of domain counters.
func NewDomainCounters(m *Meter) (*DomainCounters, error) {
	logins, err := m.CreateCounter("auth_login_attempts_total", "Login attempts, success or failure")
	if err != nil {
		return nil, err
	}
	denials, err := m.CreateCounter("rbac_permission_denials_total", "Requests rejected by a permission gate")
	if err != nil {
		return nil, err
	}
	txns, err := m.CreateCounter("finance_transactions_total", "Transactions recorded")
	if err != nil {
		return nil, err
	}
	rows, err := m.CreateCounter("csv_rows_imported_total", "CSV rows accepted by the importer")
	if err != nil {
		return nil, err
	}
	return &DomainCounters{
		LoginAttempts:     logins,
		PermissionDenials: denials,
		TransactionsMade:  txns,
		CSVRowsImported:   rows,
	}, nil
}
