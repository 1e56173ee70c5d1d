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

// Package export converts domain records to and from CSV. Export is
// driven by `csv` struct tags; a tag of "-" or an absent tag excludes
// the field.
package export

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"reflect"
	"time"
)

// csvFields retrieves the csv struct tag names for t, flattening
// embedded structs.
func csvFields(t reflect.Type) []string {
	fields := []string{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			fields = append(fields, csvFields(f.Type)...)
			continue
		}
		tag := f.Tag.Get("csv")
		if tag != "" && tag != "-" {
			fields = append(fields, tag)
		}
	}
	return fields
}

// csvValues renders one struct value as a row, matching csvFields.
func csvValues(data any) []string {
	values := []string{}
	v := reflect.ValueOf(data)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			values = append(values, csvValues(v.Field(i).Interface())...)
			continue
		}
		tag := f.Tag.Get("csv")
		if tag == "" || tag == "-" {
			continue
		}
		values = append(values, formatValue(v.Field(i)))
	}
	return values
}

func formatValue(v reflect.Value) string {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if tv, ok := v.Interface().(time.Time); ok {
		return tv.Format(time.RFC3339)
	}
	return fmt.Sprintf("%v", v.Interface())
}

// Records converts a slice of tagged structs to CSV records with a
// header row. An empty slice still yields the header when a sample
// value is provided via the slice's element type.
func Records(data any) ([][]string, error) {
	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, fmt.Errorf("data is not a slice or array")
	}

	elem := v.Type().Elem()
	for elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return nil, fmt.Errorf("element type %s is not a struct", elem)
	}

	records := [][]string{csvFields(elem)}
	for i := 0; i < v.Len(); i++ {
		item := v.Index(i)
		for item.Kind() == reflect.Pointer {
			item = item.Elem()
		}
		records = append(records, csvValues(item.Interface()))
	}
	return records, nil
}

// WriteCSVResponse renders data as a CSV attachment.
func WriteCSVResponse(w http.ResponseWriter, filename string, data any) error {
	records, err := Records(data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
