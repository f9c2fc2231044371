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

package columns

import "fmt"

// Set is an ordered collection of columns with unique keys.
type Set[T any] struct {
	columns []Column[T]
	byKey   map[string]Column[T]
	data    []*DataColumn[T]
	actions *ActionColumn[T]
}

// NewSet validates the descriptors and returns a Set in declaration order.
func NewSet[T any](cols ...Column[T]) (*Set[T], error) {
	s := &Set[T]{
		columns: make([]Column[T], 0, len(cols)),
		byKey:   make(map[string]Column[T], len(cols)),
	}
	for i, col := range cols {
		if col == nil {
			return nil, fmt.Errorf("column %d: %w", i, ErrNilColumn)
		}
		key := col.Key()
		if key == "" {
			return nil, fmt.Errorf("column %d: %w", i, ErrEmptyKey)
		}
		if _, exists := s.byKey[key]; exists {
			return nil, fmt.Errorf("column %q: %w", key, ErrDuplicateKey)
		}
		s.columns = append(s.columns, col)
		s.byKey[key] = col

		switch c := col.(type) {
		case *DataColumn[T]:
			s.data = append(s.data, c)
		case *ActionColumn[T]:
			s.actions = c
		}
	}
	return s, nil
}

// MustSet is NewSet for descriptor sets declared in code.
func MustSet[T any](cols ...Column[T]) *Set[T] {
	s, err := NewSet(cols...)
	if err != nil {
		panic(err)
	}
	return s
}

// All returns every column in declaration order.
func (s *Set[T]) All() []Column[T] {
	return s.columns
}

// Data returns the data columns in declaration order.
func (s *Set[T]) Data() []*DataColumn[T] {
	return s.data
}

// Actions returns the action column, or nil when the set has none.
func (s *Set[T]) Actions() *ActionColumn[T] {
	return s.actions
}

// Get returns the column with the given key, or nil.
func (s *Set[T]) Get(key string) Column[T] {
	return s.byKey[key]
}

// Len returns the number of columns.
func (s *Set[T]) Len() int {
	return len(s.columns)
}

// SortColumn returns the data column for key if it exists and is sortable.
func (s *Set[T]) SortColumn(key string) (*DataColumn[T], bool) {
	dc, ok := s.byKey[key].(*DataColumn[T])
	if !ok || !dc.Sortable {
		return nil, false
	}
	return dc, true
}

// WithTier returns the data columns of one priority tier in declaration
// order. The action column is never included.
func (s *Set[T]) WithTier(p Priority) []*DataColumn[T] {
	var out []*DataColumn[T]
	for _, col := range s.Data() {
		if col.Tier == p {
			out = append(out, col)
		}
	}
	return out
}
