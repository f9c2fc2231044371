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

package query

import (
	"net/url"
	"slices"
	"strconv"

	"github.com/google/ledgerview/core/tables"
	"github.com/google/safehtml"
)

// Layout selects the render binding.
type Layout string

const (
	LayoutAuto    Layout = ""
	LayoutDesktop Layout = "desktop"
	LayoutCompact Layout = "compact"
)

// ParseLayout returns LayoutAuto for anything unknown.
func ParseLayout(s string) Layout {
	switch Layout(s) {
	case LayoutDesktop, LayoutCompact:
		return Layout(s)
	default:
		return LayoutAuto
	}
}

// Query represents the parsed state of a table view URL
type Query struct {
	// Base path (e.g., "/t/invoices")
	Path string

	Search   string           // Free-text search term
	SortKey  string           // Active sort column, empty when unsorted
	SortDir  tables.Direction // Direction of SortKey
	Page     int              // 1-based page number
	PageSize int              // Page size override, 0 = table default
	Selected []string         // Selected row ids, in selection order
	Layout   Layout           // Forced binding, auto when empty
	Notice   string           // One-shot message shown after a redirect
}

// Field is a hidden form input carrying state across a GET form submit.
type Field struct {
	Name  string
	Value string
}

// NewQuery creates a Query from a URL
func NewQuery(u *url.URL) *Query {
	state := &Query{
		Path:     u.Path,
		Page:     1,
		Selected: []string{},
	}

	q := u.Query()

	state.Search = q.Get("q")
	state.SortKey = q.Get("sort")
	state.SortDir = tables.ParseDirection(q.Get("dir"))
	if state.SortKey == "" || state.SortDir == tables.Unsorted {
		state.SortKey = ""
		state.SortDir = tables.Unsorted
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		state.Page = page
	}
	if size, err := strconv.Atoi(q.Get("size")); err == nil && size > 0 {
		state.PageSize = size
	}

	// Selected ids, one sel parameter each (sel=id1&sel=id2)
	for _, id := range q["sel"] {
		if id != "" && !slices.Contains(state.Selected, id) {
			state.Selected = append(state.Selected, id)
		}
	}

	state.Layout = ParseLayout(q.Get("layout"))
	state.Notice = q.Get("notice")

	return state
}

// Clone creates a deep copy of the Query
func (s *Query) Clone() *Query {
	clone := *s
	clone.Selected = slices.Clone(s.Selected)
	if clone.Selected == nil {
		clone.Selected = []string{}
	}
	return &clone
}

// next is the starting point of every link: a clone without the notice, which
// is shown once.
func (s *Query) next() *Query {
	n := s.Clone()
	n.Notice = ""
	return n
}

// Sort returns the sort as engine state.
func (s *Query) Sort() tables.SortState {
	return tables.SortState{Key: s.SortKey, Direction: s.SortDir}
}

// Request returns the pipeline input for a table whose default page size is
// defaultSize.
func (s *Query) Request(defaultSize int) tables.Request {
	size := defaultSize
	if s.PageSize > 0 && defaultSize > 0 {
		size = s.PageSize
	}
	return tables.Request{
		Term:     s.Search,
		Sort:     s.Sort(),
		Page:     s.Page,
		PageSize: size,
	}
}

// IsSelected checks if a row id is in the selection
func (s *Query) IsSelected(id string) bool {
	return slices.Contains(s.Selected, id)
}

// WithSort returns a URL with the given sort state
func (s *Query) WithSort(sort tables.SortState) safehtml.URL {
	n := s.next()
	if sort.Active() {
		n.SortKey, n.SortDir = sort.Key, sort.Direction
	} else {
		n.SortKey, n.SortDir = "", tables.Unsorted
	}
	return n.ToSafeURL()
}

// WithPage returns a URL showing page
func (s *Query) WithPage(page int) safehtml.URL {
	n := s.next()
	n.Page = max(page, 1)
	return n.ToSafeURL()
}

// WithSearch returns a URL with a different search term
func (s *Query) WithSearch(term string) safehtml.URL {
	n := s.next()
	n.Search = term
	return n.ToSafeURL()
}

// WithRowToggled returns a URL with the row added to or removed from the
// selection
func (s *Query) WithRowToggled(id string) safehtml.URL {
	n := s.next()
	if i := slices.Index(n.Selected, id); i >= 0 {
		n.Selected = slices.Delete(n.Selected, i, i+1)
	} else {
		n.Selected = append(n.Selected, id)
	}
	return n.ToSafeURL()
}

// WithPageToggled returns a URL that selects every id of the page, or
// deselects exactly those ids when all of them are already selected
func (s *Query) WithPageToggled(pageIDs []string) safehtml.URL {
	n := s.next()
	all := len(pageIDs) > 0
	for _, id := range pageIDs {
		if !n.IsSelected(id) {
			all = false
			break
		}
	}
	if all {
		n.Selected = slices.DeleteFunc(n.Selected, func(id string) bool {
			return slices.Contains(pageIDs, id)
		})
	} else {
		for _, id := range pageIDs {
			if !n.IsSelected(id) {
				n.Selected = append(n.Selected, id)
			}
		}
	}
	return n.ToSafeURL()
}

// WithoutSelection returns a URL with nothing selected
func (s *Query) WithoutSelection() safehtml.URL {
	n := s.next()
	n.Selected = []string{}
	return n.ToSafeURL()
}

// WithLayout returns a URL forcing a binding
func (s *Query) WithLayout(layout Layout) safehtml.URL {
	n := s.next()
	n.Layout = layout
	return n.ToSafeURL()
}

// WithNotice returns the URL string a POST handler redirects to
func (s *Query) WithNotice(notice string) string {
	n := s.Clone()
	n.Notice = notice
	return n.ToURL()
}

// HiddenFields returns the state a search form must carry, everything except
// the term and the page.
func (s *Query) HiddenFields() []Field {
	var fields []Field
	if s.SortKey != "" {
		fields = append(fields, Field{"sort", s.SortKey}, Field{"dir", s.SortDir.String()})
	}
	if s.PageSize > 0 {
		fields = append(fields, Field{"size", strconv.Itoa(s.PageSize)})
	}
	for _, id := range s.Selected {
		fields = append(fields, Field{"sel", id})
	}
	if s.Layout != LayoutAuto {
		fields = append(fields, Field{"layout", string(s.Layout)})
	}
	return fields
}

// ToURL converts the Query back to a URL string
func (s *Query) ToURL() string {
	u := &url.URL{
		Path: s.Path,
	}

	q := u.Query()

	if s.Search != "" {
		q.Set("q", s.Search)
	}
	if s.SortKey != "" && s.SortDir != tables.Unsorted {
		q.Set("sort", s.SortKey)
		q.Set("dir", s.SortDir.String())
	}
	if s.Page > 1 {
		q.Set("page", strconv.Itoa(s.Page))
	}
	if s.PageSize > 0 {
		q.Set("size", strconv.Itoa(s.PageSize))
	}
	for _, id := range s.Selected {
		q.Add("sel", id)
	}
	if s.Layout != LayoutAuto {
		q.Set("layout", string(s.Layout))
	}
	if s.Notice != "" {
		q.Set("notice", s.Notice)
	}

	u.RawQuery = q.Encode()
	return u.String()
}

// ToSafeURL converts the Query to a safehtml.URL
func (s *Query) ToSafeURL() safehtml.URL {
	return safehtml.URLSanitized(s.ToURL())
}
