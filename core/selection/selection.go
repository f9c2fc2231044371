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

// Package selection tracks which rows of a table view are selected for a
// bulk action. Selection survives re-filtering, re-sorting and paging; bulk
// actions resolve ids against the unfiltered collection.
package selection

// Tracker is a set of row ids that remembers insertion order.
// The zero value is not usable; use New.
type Tracker struct {
	ids   map[string]struct{}
	order []string
}

// New returns a tracker with ids selected. Duplicates and empty ids are
// ignored.
func New(ids ...string) *Tracker {
	t := &Tracker{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		t.add(id)
	}
	return t
}

func (t *Tracker) add(id string) {
	if id == "" {
		return
	}
	if _, ok := t.ids[id]; ok {
		return
	}
	t.ids[id] = struct{}{}
	t.order = append(t.order, id)
}

func (t *Tracker) remove(id string) {
	if _, ok := t.ids[id]; !ok {
		return
	}
	delete(t.ids, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i:i], t.order[i+1:]...)
			break
		}
	}
}

// Toggle flips the selection of id.
func (t *Tracker) Toggle(id string) {
	if t.IsSelected(id) {
		t.remove(id)
		return
	}
	t.add(id)
}

// IsSelected reports whether id is selected.
func (t *Tracker) IsSelected(id string) bool {
	_, ok := t.ids[id]
	return ok
}

// AllSelected reports whether every id of the page is selected. An empty
// page is never "all selected".
func (t *Tracker) AllSelected(pageIDs []string) bool {
	if len(pageIDs) == 0 {
		return false
	}
	for _, id := range pageIDs {
		if !t.IsSelected(id) {
			return false
		}
	}
	return true
}

// ToggleAll selects every id of the page unless all of them are already
// selected, in which case exactly those ids are deselected. Selections on
// other pages are untouched.
func (t *Tracker) ToggleAll(pageIDs []string) {
	if t.AllSelected(pageIDs) {
		for _, id := range pageIDs {
			t.remove(id)
		}
		return
	}
	for _, id := range pageIDs {
		t.add(id)
	}
}

// Clear deselects everything.
func (t *Tracker) Clear() {
	clear(t.ids)
	t.order = t.order[:0]
}

// Len returns the number of selected ids.
func (t *Tracker) Len() int {
	return len(t.order)
}

// IDs returns the selected ids in the order they were selected.
func (t *Tracker) IDs() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Resolve returns the rows of the original collection whose id is selected,
// in collection order. Selected ids missing from rows are skipped.
func Resolve[T any](t *Tracker, rows []T, id func(T) string) []T {
	if t.Len() == 0 {
		return []T{}
	}
	result := make([]T, 0, t.Len())
	for _, row := range rows {
		if t.IsSelected(id(row)) {
			result = append(result, row)
		}
	}
	return result
}

// Handler receives a bulk action and the rows it applies to.
type Handler[T any] func(action string, rows []T) error

// Dispatch resolves the selection against rows (the unfiltered collection),
// calls handler, then clears the selection. The selection is cleared even
// when handler fails; its error is returned. With nothing selected the
// handler is not called.
func Dispatch[T any](t *Tracker, rows []T, id func(T) string, action string, handler Handler[T]) error {
	if t.Len() == 0 || handler == nil {
		return nil
	}
	resolved := Resolve(t, rows, id)
	defer t.Clear()
	return handler(action, resolved)
}
