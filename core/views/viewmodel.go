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

// Package views turns one pipeline result into template-ready view models.
// The desktop and compact builders are stateless: every link they emit
// encodes the next engine state in its URL.
package views

import (
	"github.com/google/ledgerview/core/i18n"
	"github.com/google/ledgerview/core/query"
	"github.com/google/ledgerview/core/tables"
	"github.com/google/safehtml"
)

// Chrome is everything around the rows that both layouts share.
type Chrome struct {
	Title      string
	Name       string // table name, e.g. "invoices"
	User       string
	Company    string
	SignedInAs string
	Notice     string

	Search SearchView
	Bulk   BulkView
	Pager  PagerView

	State      tables.EmptyState
	Empty      string // placeholder text, empty when there are rows
	Records    string // "42 records"
	Layout     query.Layout
	DesktopURL safehtml.URL
	CompactURL safehtml.URL
	Messages   i18n.Messages
}

// SearchView is the GET form above the rows.
type SearchView struct {
	Enabled     bool
	Placeholder string
	Term        string
	Action      safehtml.URL
	Hidden      []HiddenInput
	ClearURL    safehtml.URL
	HasTerm     bool
}

// HiddenInput carries engine state through the search form.
type HiddenInput struct {
	Name  safehtml.Identifier
	Value string
}

// BulkView is the bulk action bar. Its form posts the selection to Action.
type BulkView struct {
	Enabled      bool
	Action       safehtml.URL
	Back         string   // URL to return to, with the selection cleared
	Selected     []string // one hidden sel input each
	Count        int
	CountText    string
	Actions      []BulkActionView
	ClearURL     safehtml.URL
	AllSelected  bool
	ToggleAllURL safehtml.URL
}

type BulkActionView struct {
	Name  string
	Label string
}

// PageLink is one pager button.
type PageLink struct {
	Label    string
	Number   int
	URL      safehtml.URL
	Current  bool
	Disabled bool
}

// PagerView is the pagination footer.
type PagerView struct {
	Show       bool // more than one page
	Range      string
	PageOf     string
	First      PageLink
	Prev       PageLink
	Pages      []PageLink
	Next       PageLink
	Last       PageLink
	Pagination tables.Pagination
}

// HeaderCell is one desktop column header.
type HeaderCell struct {
	Key       string
	Label     string
	Sortable  bool
	Direction string // "asc", "desc" or ""
	Indicator string // ▲, ▼, ↕ or empty for unsortable columns
	AriaSort  string // ascending, descending or none
	SortURL   safehtml.URL
	IsActions bool
}

// ControlView is one per-row control.
type ControlView struct {
	Name   string
	Label  string
	URL    safehtml.URL
	Post   bool
	Danger bool
}

// Cell is one desktop cell.
type Cell struct {
	Key       string
	Text      string
	IsActions bool
	Controls  []ControlView
}

// RowView is one desktop row.
type RowView struct {
	ID        string
	URL       safehtml.URL
	HasURL    bool
	Selected  bool
	ToggleURL safehtml.URL
	Cells     []Cell
}

// TotalCell is one footer cell, aligned with Headers.
type TotalCell struct {
	Key  string
	Text string
}

// DesktopView is the grid layout.
type DesktopView struct {
	Chrome
	Headers   []HeaderCell
	Rows      []RowView
	Totals    []TotalCell
	HasTotals bool
}

// Field is a label/value pair on a card.
type Field struct {
	Key   string
	Label string
	Text  string
}

// CardView is one compact card.
type CardView struct {
	ID        string
	URL       safehtml.URL
	HasURL    bool
	Selected  bool
	ToggleURL safehtml.URL
	Header    []Field
	Details   []Field
	Controls  []ControlView
}

// CompactView is the card layout.
type CompactView struct {
	Chrome
	Cards []CardView
}

// TableInfo is one entry of the landing page.
type TableInfo struct {
	Name        string
	Title       string
	URL         safehtml.URL
	RecordCount int
	Records     string
	ColumnCount int
	Error       string
}

// LandingViewModel lists the registered tables.
type LandingViewModel struct {
	Title      string
	Subtitle   string
	SignedInAs string
	Company    string
	Tables     []TableInfo
}

// DetailViewModel shows every data column of one row.
type DetailViewModel struct {
	Title      string
	TableTitle string
	BackURL    safehtml.URL
	BackLabel  string
	SignedInAs string
	Company    string
	Fields     []Field
	Controls   []ControlView
}
