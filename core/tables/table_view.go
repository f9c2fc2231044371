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
	"github.com/google/ledgerview/core/selection"
)

// Callbacks are the host's handlers for row clicks and bulk actions.
type Callbacks[T any] struct {
	OnRowClick   func(row T)
	OnBulkAction func(action string, rows []T) error
}

// TableView holds the transient state of one mounted table: search term,
// sort, page and selection. The rows are owned by the caller and never
// modified. A TableView is not safe for concurrent use.
type TableView[T any] struct {
	rows      []T
	set       *columns.Set[T]
	id        func(T) string
	config    Config
	callbacks Callbacks[T]

	term      string
	sort      SortState
	page      int
	selection *selection.Tracker
}

// NewTableView creates a table view over rows. id must return a stable
// identity for every row.
func NewTableView[T any](rows []T, set *columns.Set[T], id func(T) string, config Config, callbacks Callbacks[T]) (*TableView[T], error) {
	if id == nil {
		return nil, ErrNoIdentity
	}
	if set == nil {
		return nil, ErrNilColumns
	}
	return &TableView[T]{
		rows:      rows,
		set:       set,
		id:        id,
		config:    config,
		callbacks: callbacks,
		page:      1,
		selection: selection.New(),
	}, nil
}

// Columns returns the descriptor set.
func (tv *TableView[T]) Columns() *columns.Set[T] {
	return tv.set
}

// Config returns the view configuration.
func (tv *TableView[T]) Config() Config {
	return tv.config
}

// Rows returns the unfiltered source collection.
func (tv *TableView[T]) Rows() []T {
	return tv.rows
}

// ID returns the identity of row.
func (tv *TableView[T]) ID(row T) string {
	return tv.id(row)
}

// SetRows replaces the source collection, e.g. after a refetch.
func (tv *TableView[T]) SetRows(rows []T) {
	tv.rows = rows
	tv.clampPage()
}

// Search sets the search term. It is ignored when the view is not searchable.
func (tv *TableView[T]) Search(term string) {
	if !tv.config.Searchable {
		return
	}
	tv.term = term
	tv.clampPage()
}

// Term returns the current search term.
func (tv *TableView[T]) Term() string {
	return tv.term
}

// ToggleSort handles a click on the header of key and reports whether the
// sort changed.
func (tv *TableView[T]) ToggleSort(key string) bool {
	next := Toggle(tv.sort, key, tv.set)
	changed := next != tv.sort
	tv.sort = next
	return changed
}

// Sort returns the active sort.
func (tv *TableView[T]) Sort() SortState {
	return tv.sort
}

// Page returns the current page number.
func (tv *TableView[T]) Page() int {
	return tv.page
}

// GoToPage jumps to page n, clamped into range.
func (tv *TableView[T]) GoToPage(n int) {
	tv.page = ClampPage(n, tv.totalPages())
}

// Navigate moves to the first, previous, next or last page.
func (tv *TableView[T]) Navigate(nav Nav) {
	p := tv.View().Pagination
	tv.page = Navigate(p, nav)
}

// ToggleRow flips the selection of one row. It does nothing when bulk
// actions are disabled.
func (tv *TableView[T]) ToggleRow(id string) {
	if !tv.config.BulkActionsEnabled {
		return
	}
	tv.selection.Toggle(id)
}

// ToggleAllOnPage selects or deselects the rows of the visible page only.
func (tv *TableView[T]) ToggleAllOnPage() {
	if !tv.config.BulkActionsEnabled {
		return
	}
	tv.selection.ToggleAll(tv.View().IDs)
}

// AllOnPageSelected reports whether every row of the visible page is selected.
func (tv *TableView[T]) AllOnPageSelected() bool {
	return tv.selection.AllSelected(tv.View().IDs)
}

// IsSelected reports whether the row with id is selected.
func (tv *TableView[T]) IsSelected(id string) bool {
	return tv.selection.IsSelected(id)
}

// Selected returns the selected ids in selection order.
func (tv *TableView[T]) Selected() []string {
	return tv.selection.IDs()
}

// ClearSelection deselects every row.
func (tv *TableView[T]) ClearSelection() {
	tv.selection.Clear()
}

// DispatchBulkAction hands the selected rows, resolved against the unfiltered
// collection, to OnBulkAction and clears the selection.
func (tv *TableView[T]) DispatchBulkAction(action string) error {
	if !tv.config.BulkActionsEnabled {
		return nil
	}
	return selection.Dispatch(tv.selection, tv.rows, tv.id, action, tv.callbacks.OnBulkAction)
}

// ClickRow handles a click on the visible row at index, inside the cell of
// columnKey. Clicks inside the actions cell belong to its controls and do not
// reach OnRowClick. Reports whether OnRowClick was called.
func (tv *TableView[T]) ClickRow(index int, columnKey string) bool {
	if tv.callbacks.OnRowClick == nil || columnKey == columns.ActionsKey {
		return false
	}
	if _, isAction := tv.set.Get(columnKey).(*columns.ActionColumn[T]); isAction {
		return false
	}
	rows := tv.View().Rows
	if index < 0 || index >= len(rows) {
		return false
	}
	tv.callbacks.OnRowClick(rows[index])
	return true
}

// View runs the pipeline over the current state.
func (tv *TableView[T]) View() Result[T] {
	return Derive(tv.rows, tv.set, tv.id, tv.request())
}

func (tv *TableView[T]) request() Request {
	return tv.config.Restrict(Request{
		Term:     tv.term,
		Sort:     tv.sort,
		Page:     tv.page,
		PageSize: tv.config.EffectivePageSize(),
	})
}

func (tv *TableView[T]) totalPages() int {
	filtered := Filter(tv.rows, tv.set, tv.term)
	return TotalPages(len(filtered), tv.config.EffectivePageSize())
}

func (tv *TableView[T]) clampPage() {
	tv.page = ClampPage(tv.page, tv.totalPages())
}
