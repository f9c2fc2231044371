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

// Package aggregates computes column totals over the filtered rows of a
// table view. Money columns are summed exactly with decimal arithmetic.
package aggregates

import (
	"math"
	"math/big"
	"reflect"

	"github.com/google/ledgerview/core/columns"
	"github.com/shopspring/decimal"
)

// Kind selects which aggregate Format returns.
type Kind int

const (
	Sum Kind = iota
	Avg
	Min
	Max
	Count
)

// NumericAggState stores intermediate state for a numeric column.
// It can derive sum, avg, min, max and count.
type NumericAggState struct {
	Count int64           // Number of values
	Sum   decimal.Decimal // Sum of values
	Min   decimal.Decimal // Minimum value, valid when Count > 0
	Max   decimal.Decimal // Maximum value, valid when Count > 0
}

// NewNumericAggState creates a new empty numeric aggregate state.
func NewNumericAggState() *NumericAggState {
	return &NumericAggState{}
}

// Add adds a single value to the aggregate state.
func (s *NumericAggState) Add(value decimal.Decimal) {
	if s.Count == 0 || value.LessThan(s.Min) {
		s.Min = value
	}
	if s.Count == 0 || value.GreaterThan(s.Max) {
		s.Max = value
	}
	s.Count++
	s.Sum = s.Sum.Add(value)
}

// AddValue adds a raw column value. nil and non-numeric values are skipped;
// it reports whether the value was counted.
func (s *NumericAggState) AddValue(v any) bool {
	d, ok := ToDecimal(v)
	if ok {
		s.Add(d)
	}
	return ok
}

// Combine merges another numeric state into this one.
func (s *NumericAggState) Combine(other *NumericAggState) {
	if other == nil || other.Count == 0 {
		return
	}
	if s.Count == 0 || other.Min.LessThan(s.Min) {
		s.Min = other.Min
	}
	if s.Count == 0 || other.Max.GreaterThan(s.Max) {
		s.Max = other.Max
	}
	s.Count += other.Count
	s.Sum = s.Sum.Add(other.Sum)
}

// Avg returns the average (mean) of the values.
func (s *NumericAggState) Avg() decimal.Decimal {
	if s.Count == 0 {
		return decimal.Zero
	}
	return s.Sum.Div(decimal.NewFromInt(s.Count))
}

// Value returns the aggregate of the given kind.
func (s *NumericAggState) Value(kind Kind) decimal.Decimal {
	switch kind {
	case Avg:
		return s.Avg()
	case Min:
		return s.Min
	case Max:
		return s.Max
	case Count:
		return decimal.NewFromInt(s.Count)
	default:
		return s.Sum
	}
}

// Format returns the aggregate rounded to two decimals, "-" when empty.
func (s *NumericAggState) Format(kind Kind) string {
	if s.Count == 0 {
		return "-"
	}
	if kind == Count {
		return decimal.NewFromInt(s.Count).String()
	}
	return s.Value(kind).StringFixed(2)
}

// ToDecimal converts decimals, integers and floats of any width, and
// pointers to them.
func ToDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return x, true
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero, false
		}
		return *x, true
	case decimal.NullDecimal:
		return x.Decimal, x.Valid
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return decimal.Zero, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(rv.Uint()), 0), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(f), true
	}
	return decimal.Zero, false
}

// Totals aggregates every summable data column over rows.
func Totals[T any](rows []T, set *columns.Set[T]) map[string]*NumericAggState {
	totals := make(map[string]*NumericAggState)
	for _, col := range set.Data() {
		if !col.Summable {
			continue
		}
		state := NewNumericAggState()
		for _, row := range rows {
			state.AddValue(col.Raw(row))
		}
		totals[col.Key()] = state
	}
	return totals
}
