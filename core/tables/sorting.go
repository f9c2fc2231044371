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

package tables

import (
	"slices"

	"github.com/google/ledgerview/core/columns"
)

// Direction of the active sort.
type Direction int

const (
	Unsorted Direction = iota
	Ascending
	Descending
)

// String returns "asc", "desc" or "".
func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return ""
	}
}

// ParseDirection is the inverse of Direction.String. Anything unknown is
// Unsorted.
func ParseDirection(s string) Direction {
	switch s {
	case "asc":
		return Ascending
	case "desc":
		return Descending
	default:
		return Unsorted
	}
}

// SortState is the single active sort column, if any.
type SortState struct {
	Key       string
	Direction Direction
}

// Active reports whether a sort is applied.
func (s SortState) Active() bool {
	return s.Key != "" && s.Direction != Unsorted
}

// DirectionFor returns the direction of key, Unsorted when key is not the
// active sort column.
func (s SortState) DirectionFor(key string) Direction {
	if !s.Active() || s.Key != key {
		return Unsorted
	}
	return s.Direction
}

// Toggle returns the state after a click on the header of key.
// The same key cycles asc -> desc -> none; another sortable key starts at
// asc. Unknown or unsortable keys leave the state unchanged.
func Toggle[T any](s SortState, key string, set *columns.Set[T]) SortState {
	if _, ok := set.SortColumn(key); !ok {
		return s
	}
	if !s.Active() || s.Key != key {
		return SortState{Key: key, Direction: Ascending}
	}
	if s.Direction == Ascending {
		return SortState{Key: key, Direction: Descending}
	}
	return SortState{}
}

// Normalize drops a sort that does not reference a sortable column.
func Normalize[T any](s SortState, set *columns.Set[T]) SortState {
	if !s.Active() {
		return SortState{}
	}
	if _, ok := set.SortColumn(s.Key); !ok {
		return SortState{}
	}
	return s
}

// Sort returns a sorted copy of rows. The sort is stable, so ties keep their
// input order, and rows is never modified. With no active sort the copy is in
// input order.
func Sort[T any](rows []T, set *columns.Set[T], s SortState) []T {
	sorted := slices.Clone(rows)
	if sorted == nil {
		sorted = []T{}
	}
	s = Normalize(s, set)
	if !s.Active() {
		return sorted
	}
	col, _ := set.SortColumn(s.Key)

	// Read every key once instead of twice per comparison
	keys := make([]any, len(sorted))
	order := make([]int, len(sorted))
	for i, row := range sorted {
		keys[i] = col.Raw(row)
		order[i] = i
	}
	slices.SortStableFunc(order, func(i, j int) int {
		cmp := columns.Compare(keys[i], keys[j])
		if s.Direction == Descending {
			return -cmp
		}
		return cmp
	})

	result := make([]T, len(sorted))
	for i, idx := range order {
		result[i] = sorted[idx]
	}
	return result
}
