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
	"github.com/google/ledgerview/core/columns"
)

// EmptyState tells the bindings which placeholder, if any, to show.
type EmptyState int

const (
	HasRows   EmptyState = iota
	NoData               // the source collection is empty
	NoResults            // the search term excluded every row
)

// Request is the user-controlled input of the pipeline.
type Request struct {
	Term     string
	Sort     SortState
	Page     int
	PageSize int // <= 0 shows everything on one page
}

// Result is the derived view model of one pipeline run.
type Result[T any] struct {
	Rows        []T      // rows of the visible page
	IDs         []string // ids of Rows, same order
	Filtered    []T      // all rows that passed the search, sorted
	SourceCount int
	Term        string
	Sort        SortState
	Pagination  Pagination
	State       EmptyState
}

// Derive runs search, sort and pagination over rows. The page is clamped to
// the filtered page count and unusable sorts are dropped.
func Derive[T any](rows []T, set *columns.Set[T], id func(T) string, req Request) Result[T] {
	filtered := Filter(rows, set, req.Term)
	sortState := Normalize(req.Sort, set)
	sorted := Sort(filtered, set, sortState)
	page, pagination := Paginate(sorted, req.Page, req.PageSize)

	ids := make([]string, len(page))
	for i, row := range page {
		ids[i] = id(row)
	}

	state := HasRows
	switch {
	case len(rows) == 0:
		state = NoData
	case len(filtered) == 0:
		state = NoResults
	}

	return Result[T]{
		Rows:        page,
		IDs:         ids,
		Filtered:    sorted,
		SourceCount: len(rows),
		Term:        req.Term,
		Sort:        sortState,
		Pagination:  pagination,
		State:       state,
	}
}
