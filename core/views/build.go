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

package views

import (
	"slices"
	"strconv"
	"strings"

	"github.com/google/ledgerview/core/aggregates"
	"github.com/google/ledgerview/core/columns"
	"github.com/google/ledgerview/core/i18n"
	"github.com/google/ledgerview/core/query"
	"github.com/google/ledgerview/core/tables"
	"github.com/google/ledgerview/core/users"
	"github.com/google/safehtml"
)

// Default widths of the page-number window.
const (
	DesktopWindow = 5
	CompactWindow = 3
)

// Sort indicators.
const (
	IndicatorAsc      = "▲"
	IndicatorDesc     = "▼"
	IndicatorUnsorted = "↕"
)

// Source describes a table to the builders.
type Source[T any] struct {
	Name        string
	Title       string
	Set         *columns.Set[T]
	ID          func(T) string
	RowURL      func(T) string // optional row-click target
	Config      tables.Config
	BulkActions []BulkActionView // labels are translated by the builders
}

// Env is the per-request input of the builders.
type Env struct {
	Query     *query.Query
	Localizer *i18n.Localizer
	Session   users.Session
	Window    int // page-number window, 0 for the layout default
}

// BuildDesktop builds the grid layout from a pipeline result.
func BuildDesktop[T any](src Source[T], res tables.Result[T], env Env) *DesktopView {
	loc := env.Localizer
	q := env.Query
	vm := &DesktopView{
		Chrome: buildChrome(src, res, env, false),
	}

	for _, col := range src.Set.All() {
		h := HeaderCell{Key: col.Key(), Label: loc.Label(col.Label()), AriaSort: "none"}
		switch c := col.(type) {
		case *columns.ActionColumn[T]:
			h.IsActions = true
			if h.Label == "" {
				h.Label = vm.Messages.Actions
			}
		case *columns.DataColumn[T]:
			if c.Sortable {
				dir := res.Sort.DirectionFor(c.Key())
				h.Sortable = true
				h.Direction = dir.String()
				h.Indicator = indicator(dir)
				switch dir {
				case tables.Ascending:
					h.AriaSort = "ascending"
				case tables.Descending:
					h.AriaSort = "descending"
				}
				h.SortURL = q.WithSort(tables.Toggle(res.Sort, c.Key(), src.Set))
			}
		}
		vm.Headers = append(vm.Headers, h)
	}

	for i, row := range res.Rows {
		id := res.IDs[i]
		rv := RowView{
			ID:        id,
			Selected:  q.IsSelected(id),
			ToggleURL: q.WithRowToggled(id),
		}
		rv.URL, rv.HasURL = rowURL(src, row)
		for _, col := range src.Set.All() {
			switch c := col.(type) {
			case *columns.ActionColumn[T]:
				rv.Cells = append(rv.Cells, Cell{Key: c.Key(), IsActions: true, Controls: controls(c.For(row), loc)})
			case *columns.DataColumn[T]:
				rv.Cells = append(rv.Cells, Cell{Key: c.Key(), Text: c.Text(row)})
			}
		}
		vm.Rows = append(vm.Rows, rv)
	}

	totals := aggregates.Totals(res.Filtered, src.Set)
	if len(totals) > 0 && res.State == tables.HasRows {
		vm.HasTotals = true
		for _, h := range vm.Headers {
			cell := TotalCell{Key: h.Key}
			if state, ok := totals[h.Key]; ok {
				cell.Text = state.Format(aggregates.Sum)
			}
			vm.Totals = append(vm.Totals, cell)
		}
		if vm.Totals[0].Text == "" {
			vm.Totals[0].Text = vm.Messages.Total
		}
	}
	return vm
}

// BuildCompact builds the card layout from a pipeline result. Cards show
// high priority columns in the header and medium ones in the detail grid;
// low priority and untiered columns are left out.
func BuildCompact[T any](src Source[T], res tables.Result[T], env Env) *CompactView {
	loc := env.Localizer
	q := env.Query
	vm := &CompactView{
		Chrome: buildChrome(src, res, env, true),
	}

	high := src.Set.WithTier(columns.PriorityHigh)
	medium := src.Set.WithTier(columns.PriorityMedium)
	actions := src.Set.Actions()

	for i, row := range res.Rows {
		id := res.IDs[i]
		card := CardView{
			ID:        id,
			Selected:  q.IsSelected(id),
			ToggleURL: q.WithRowToggled(id),
		}
		card.URL, card.HasURL = rowURL(src, row)
		card.Header = fields(high, row, loc)
		card.Details = fields(medium, row, loc)
		if actions != nil {
			card.Controls = controls(actions.For(row), loc)
		}
		vm.Cards = append(vm.Cards, card)
	}
	return vm
}

func fields[T any](cols []*columns.DataColumn[T], row T, loc *i18n.Localizer) []Field {
	out := make([]Field, 0, len(cols))
	for _, c := range cols {
		out = append(out, Field{Key: c.Key(), Label: loc.Label(c.Label()), Text: c.MobileText(row)})
	}
	return out
}

func buildChrome[T any](src Source[T], res tables.Result[T], env Env, compact bool) Chrome {
	loc := env.Localizer
	q := env.Query
	msgs := loc.Messages()

	c := Chrome{
		Title:      loc.Label(src.Title),
		Name:       src.Name,
		Notice:     q.Notice,
		State:      res.State,
		Records:    loc.Sprintf(i18n.MsgRecords, len(res.Filtered)),
		Layout:     query.LayoutDesktop,
		DesktopURL: q.WithLayout(query.LayoutDesktop),
		CompactURL: q.WithLayout(query.LayoutCompact),
		Messages:   msgs,
	}
	if compact {
		c.Layout = query.LayoutCompact
	}
	if env.Session.Authenticated() {
		c.User = env.Session.User
		c.Company = env.Session.Company
		c.SignedInAs = loc.Sprintf(i18n.MsgSignedInAs, env.Session.User)
	}

	switch res.State {
	case tables.NoData:
		c.Empty = msgs.NoData
	case tables.NoResults:
		c.Empty = msgs.NoResults
	}

	if src.Config.Searchable {
		placeholder := src.Config.SearchPlaceholder
		if placeholder == "" {
			placeholder = i18n.MsgSearch
		}
		c.Search = SearchView{
			Enabled:     true,
			Placeholder: loc.Label(placeholder),
			Term:        res.Term,
			HasTerm:     res.Term != "",
			Action:      safehtml.URLSanitized(q.Path),
			Hidden:      hiddenInputs(q.HiddenFields()),
			ClearURL:    q.WithSearch(""),
		}
	}

	if src.Config.BulkActionsEnabled {
		c.Bulk = BulkView{
			Enabled:      true,
			Action:       safehtml.URLSanitized(q.Path + "/bulk"),
			Back:         q.WithoutSelection().String(),
			Selected:     slices.Clone(q.Selected),
			Count:        len(q.Selected),
			CountText:    loc.Sprintf(i18n.MsgSelected, len(q.Selected)),
			ClearURL:     q.WithoutSelection(),
			AllSelected:  allSelected(q, res.IDs),
			ToggleAllURL: q.WithPageToggled(res.IDs),
		}
		for _, a := range bulkActions(src) {
			c.Bulk.Actions = append(c.Bulk.Actions, BulkActionView{Name: a.Name, Label: loc.Label(a.Label)})
		}
	}

	window := env.Window
	if window <= 0 {
		window = DesktopWindow
		if compact {
			window = CompactWindow
		}
	}
	c.Pager = buildPager(res.Pagination, q, loc, window, compact)
	return c
}

// bulkActions prefers the labelled list and falls back to the names from the
// table config.
func bulkActions[T any](src Source[T]) []BulkActionView {
	if len(src.BulkActions) > 0 {
		return src.BulkActions
	}
	out := make([]BulkActionView, 0, len(src.Config.BulkActions))
	for _, name := range src.Config.BulkActions {
		out = append(out, BulkActionView{Name: name, Label: name})
	}
	return out
}

func buildPager(p tables.Pagination, q *query.Query, loc *i18n.Localizer, window int, compact bool) PagerView {
	msgs := loc.Messages()
	first, prev, next, last := msgs.First, msgs.Prev, msgs.Next, msgs.Last
	if compact {
		first, prev, next, last = "«", "‹", "›", "»"
	}

	link := func(label string, n int, disabled bool) PageLink {
		return PageLink{Label: label, Number: n, URL: q.WithPage(n), Disabled: disabled}
	}

	pv := PagerView{
		Show:       p.TotalPages > 1,
		Range:      loc.Sprintf(i18n.MsgRange, p.StartItem, p.EndItem, p.Total),
		PageOf:     loc.Sprintf(i18n.MsgPageOf, p.Page, p.TotalPages),
		First:      link(first, 1, !p.HasPrev()),
		Prev:       link(prev, tables.Navigate(p, tables.NavPrev), !p.HasPrev()),
		Next:       link(next, tables.Navigate(p, tables.NavNext), !p.HasNext()),
		Last:       link(last, tables.Navigate(p, tables.NavLast), !p.HasNext()),
		Pagination: p,
	}
	for _, n := range tables.PageWindow(p.Page, p.TotalPages, window) {
		l := link(strconv.Itoa(n), n, false)
		l.Current = n == p.Page
		pv.Pages = append(pv.Pages, l)
	}
	return pv
}

func hiddenInputs(fields []query.Field) []HiddenInput {
	out := make([]HiddenInput, 0, len(fields))
	for _, f := range fields {
		var name safehtml.Identifier
		switch f.Name {
		case "sort":
			name = safehtml.IdentifierFromConstant("sort")
		case "dir":
			name = safehtml.IdentifierFromConstant("dir")
		case "size":
			name = safehtml.IdentifierFromConstant("size")
		case "sel":
			name = safehtml.IdentifierFromConstant("sel")
		case "layout":
			name = safehtml.IdentifierFromConstant("layout")
		default:
			continue
		}
		out = append(out, HiddenInput{Name: name, Value: f.Value})
	}
	return out
}

func controls(cs []columns.Control, loc *i18n.Localizer) []ControlView {
	out := make([]ControlView, 0, len(cs))
	for _, c := range cs {
		label := c.Label
		if label == "" {
			label = c.Name
		}
		out = append(out, ControlView{
			Name:   c.Name,
			Label:  loc.Label(label),
			URL:    safehtml.URLSanitized(c.Href),
			Post:   strings.EqualFold(c.Method, "POST"),
			Danger: c.Danger,
		})
	}
	return out
}

func rowURL[T any](src Source[T], row T) (safehtml.URL, bool) {
	if src.RowURL == nil {
		return safehtml.URL{}, false
	}
	href := src.RowURL(row)
	if href == "" {
		return safehtml.URL{}, false
	}
	return safehtml.URLSanitized(href), true
}

func allSelected(q *query.Query, ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !q.IsSelected(id) {
			return false
		}
	}
	return true
}

func indicator(d tables.Direction) string {
	switch d {
	case tables.Ascending:
		return IndicatorAsc
	case tables.Descending:
		return IndicatorDesc
	default:
		return IndicatorUnsorted
	}
}

// BuildDetail lists every data column of one row.
func BuildDetail[T any](src Source[T], row T, back safehtml.URL, env Env) *DetailViewModel {
	loc := env.Localizer
	vm := &DetailViewModel{
		TableTitle: loc.Label(src.Title),
		BackURL:    back,
		BackLabel:  loc.Label("Back"),
	}
	if env.Session.Authenticated() {
		vm.SignedInAs = loc.Sprintf(i18n.MsgSignedInAs, env.Session.User)
		vm.Company = env.Session.Company
	}
	for _, col := range src.Set.Data() {
		vm.Fields = append(vm.Fields, Field{Key: col.Key(), Label: loc.Label(col.Label()), Text: col.Text(row)})
	}
	if len(vm.Fields) > 0 {
		vm.Title = vm.Fields[0].Text
	}
	if actions := src.Set.Actions(); actions != nil {
		vm.Controls = controls(actions.For(row), loc)
	}
	return vm
}
