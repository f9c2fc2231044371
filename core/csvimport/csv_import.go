/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package csvimport reads CSV files into typed rows and writes them back.
// Columns are matched to struct fields by `table` tag, `json` tag or field
// name, like columns.FieldValue.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/ledgerview/core/columns"
	"github.com/shopspring/decimal"
)

// CsvColumnSource defines source metadata for how a column is imported
type CsvColumnSource struct {
	// Name is the field key the column fills (defaults to the header name)
	Name string
	// TimeLayout parses time.Time fields (default: 2006-01-02, then RFC 3339)
	TimeLayout string
}

// ImportOptions configures CSV import behavior
type ImportOptions struct {
	// HasHeader indicates whether the first row contains column headers
	HasHeader bool
	// Headers names the columns when HasHeader is false
	Headers []string
	// Delimiter is the field delimiter (defaults to comma)
	Delimiter rune
	// ColumnSources provides configuration for specific columns by header name
	ColumnSources map[string]CsvColumnSource
	// Strict rejects headers that match no field
	Strict bool
}

// DefaultOptions returns default import options
func DefaultOptions() ImportOptions {
	return ImportOptions{
		HasHeader:     true,
		Delimiter:     ',',
		ColumnSources: make(map[string]CsvColumnSource),
	}
}

// ErrNoHeader is returned for an empty file that should have a header.
var ErrNoHeader = errors.New("CSV file has no header")

// ParseError locates a value that could not be converted.
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %q: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ImportFromFile imports a CSV file into rows of T
func ImportFromFile[T any](path string, options ImportOptions) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ImportFromReader[T](file, options)
}

type binding struct {
	header string
	index  []int
	layout string
}

// ImportFromReader imports CSV data into rows of T. T must be a struct.
// Empty cells leave the field at its zero value.
func ImportFromReader[T any](reader io.Reader, options ImportOptions) ([]T, error) {
	rowType := reflect.TypeFor[T]()
	if rowType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("csvimport: %s is not a struct", rowType)
	}

	csvReader := csv.NewReader(reader)
	if options.Delimiter != 0 {
		csvReader.Comma = options.Delimiter
	}
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	headers := options.Headers
	dataStart := 0
	if options.HasHeader {
		if len(records) == 0 {
			return nil, ErrNoHeader
		}
		headers = records[0]
		dataStart = 1
	}

	bindings := make([]*binding, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
		src := options.ColumnSources[header]
		key := header
		if src.Name != "" {
			key = src.Name
		}
		idx, ok := columns.FieldIndex(rowType, key)
		if !ok {
			if options.Strict {
				return nil, fmt.Errorf("column %q matches no field of %s", header, rowType)
			}
			continue
		}
		bindings[i] = &binding{header: header, index: idx, layout: src.TimeLayout}
	}

	rows := make([]T, 0, len(records)-dataStart)
	for n, record := range records[dataStart:] {
		var row T
		rv := reflect.ValueOf(&row).Elem()
		for i, b := range bindings {
			if b == nil || i >= len(record) {
				continue
			}
			value := strings.TrimSpace(record[i])
			if value == "" {
				continue
			}
			if err := setField(rv.FieldByIndex(b.index), value, b.layout); err != nil {
				return nil, &ParseError{Line: n + dataStart + 1, Column: b.header, Err: err}
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

var (
	decimalType = reflect.TypeFor[decimal.Decimal]()
	timeType    = reflect.TypeFor[time.Time]()
)

func setField(f reflect.Value, value, layout string) error {
	if f.Kind() == reflect.Pointer {
		ptr := reflect.New(f.Type().Elem())
		if err := setField(ptr.Elem(), value, layout); err != nil {
			return err
		}
		f.Set(ptr)
		return nil
	}

	switch f.Type() {
	case decimalType:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return err
		}
		f.Set(reflect.ValueOf(d))
		return nil
	case timeType:
		t, err := parseTime(value, layout)
		if err != nil {
			return err
		}
		f.Set(reflect.ValueOf(t))
		return nil
	}

	switch f.Kind() {
	case reflect.String:
		f.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.ToLower(value))
		if err != nil {
			return err
		}
		f.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, f.Type().Bits())
		if err != nil {
			return err
		}
		f.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, f.Type().Bits())
		if err != nil {
			return err
		}
		f.SetUint(n)
	case reflect.Float32, reflect.Float64:
		x, err := strconv.ParseFloat(value, f.Type().Bits())
		if err != nil {
			return err
		}
		f.SetFloat(x)
	default:
		return fmt.Errorf("unsupported field type %s", f.Type())
	}
	return nil
}

func parseTime(value, layout string) (time.Time, error) {
	if layout != "" {
		return time.Parse(layout, value)
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
