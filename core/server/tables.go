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

package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/ledgerview/core/columns"
	"github.com/google/ledgerview/core/export"
	"github.com/google/ledgerview/core/i18n"
	"github.com/google/ledgerview/core/logging"
	"github.com/google/ledgerview/core/models"
	"github.com/google/ledgerview/core/query"
	"github.com/google/ledgerview/core/selection"
	"github.com/google/ledgerview/core/tables"
	"github.com/google/ledgerview/core/views"
	"github.com/google/safehtml"
)

// ErrUnknownAction is returned for a bulk action the table does not offer.
var ErrUnknownAction = errors.New("unknown bulk action")

// TableDef describes a table to host.
type TableDef[T any] struct {
	Name    string // URL segment, e.g. "invoices"
	Title   string
	Columns *columns.Set[T]
	ID      func(T) string
	Load    func(ctx context.Context) ([]T, error)

	// RowURL is the row-click target. Defaults to the detail page.
	RowURL func(T) string

	Config      tables.Config
	BulkActions []BulkAction[T]

	// Hidden tables are served but left off the landing page.
	Hidden bool
}

// BulkAction is an operation over the selected rows.
type BulkAction[T any] struct {
	Name  string
	Label string
	Run   func(ctx context.Context, rows []T) (BulkResult, error)
}

// BulkResult is what a bulk action hands back to the browser: either a
// notice shown after the redirect, or a file download.
type BulkResult struct {
	Notice     string // message key, translated with NoticeArgs
	NoticeArgs []any
	Attachment *Attachment
}

// Attachment is a file sent in place of the redirect.
type Attachment struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportAction returns a bulk action that downloads the selected rows as an
// XLSX workbook.
func ExportAction[T any](name string, set *columns.Set[T]) BulkAction[T] {
	return BulkAction[T]{
		Name:  "export",
		Label: "Export",
		Run: func(ctx context.Context, rows []T) (BulkResult, error) {
			var buf bytes.Buffer
			if err := export.Write(&buf, name, set, rows); err != nil {
				return BulkResult{}, err
			}
			return BulkResult{Attachment: &Attachment{
				Filename:    export.Filename(name),
				ContentType: export.ContentType,
				Body:        buf.Bytes(),
			}}, nil
		},
	}
}

// table is the type-erased view of a registered TableDef.
type table interface {
	hidden() bool
	info(ctx context.Context, loc *i18n.Localizer) views.TableInfo
	serveTable(w http.ResponseWriter, r *http.Request) *TableHandlerResult
	serveBulk(w http.ResponseWriter, r *http.Request) *TableHandlerResult
	serveRow(w http.ResponseWriter, r *http.Request, id string) *TableHandlerResult
}

type registered[T any] struct {
	srv *Server
	def TableDef[T]
}

// Register hosts def at /t/{name}. Registering a name again replaces the
// table.
func Register[T any](srv *Server, def TableDef[T]) error {
	if def.Name == "" || strings.ContainsAny(def.Name, "/?#") {
		return fmt.Errorf("invalid table name %q", def.Name)
	}
	if def.Columns == nil {
		return fmt.Errorf("table %q: no columns", def.Name)
	}
	if def.ID == nil {
		return fmt.Errorf("table %q: %w", def.Name, tables.ErrNoIdentity)
	}
	if def.Load == nil {
		return fmt.Errorf("table %q: no loader", def.Name)
	}
	if def.Title == "" {
		def.Title = def.Name
	}
	if def.RowURL == nil {
		def.RowURL = func(row T) string {
			return "/t/" + def.Name + "/" + url.PathEscape(def.ID(row))
		}
	}
	if def.Config.BulkActionsEnabled && len(def.Config.BulkActions) == 0 {
		for _, a := range def.BulkActions {
			def.Config.BulkActions = append(def.Config.BulkActions, a.Name)
		}
	}

	srv.add(def.Name, &registered[T]{srv: srv, def: def})
	if !models.IsSystemTable(def.Name) {
		models.AddTable(srv.dataModel, def.Name, def.Columns)
	}
	return nil
}

// MustRegister is Register for tables declared in code.
func MustRegister[T any](srv *Server, def TableDef[T]) {
	if err := Register(srv, def); err != nil {
		panic(err)
	}
}

func (t *registered[T]) hidden() bool { return t.def.Hidden }

// Source describes def to the view builders. Only the bulk actions listed in
// Config.BulkActions are offered.
func (def TableDef[T]) Source() views.Source[T] {
	src := views.Source[T]{
		Name:   def.Name,
		Title:  def.Title,
		Set:    def.Columns,
		ID:     def.ID,
		RowURL: def.RowURL,
		Config: def.Config,
	}
	for _, a := range def.BulkActions {
		if slices.Contains(def.Config.BulkActions, a.Name) {
			src.BulkActions = append(src.BulkActions, views.BulkActionView{Name: a.Name, Label: a.Label})
		}
	}
	return src
}

func (t *registered[T]) source() views.Source[T] { return t.def.Source() }

func (t *registered[T]) info(ctx context.Context, loc *i18n.Localizer) views.TableInfo {
	ti := views.TableInfo{
		Name:        t.def.Name,
		Title:       loc.Label(t.def.Title),
		URL:         safehtml.URLSanitized("/t/" + t.def.Name),
		ColumnCount: t.def.Columns.Len(),
	}
	rows, err := t.def.Load(ctx)
	if err != nil {
		ti.Error = err.Error()
		return ti
	}
	ti.RecordCount = len(rows)
	ti.Records = loc.Sprintf(i18n.MsgRecords, len(rows))
	return ti
}

func (t *registered[T]) serveTable(w http.ResponseWriter, r *http.Request) *TableHandlerResult {
	ctx := r.Context()
	timing := NewTimingCollector()

	start := time.Now()
	rows, err := t.def.Load(ctx)
	if err != nil {
		return internalError(fmt.Errorf("load %s: %w", t.def.Name, err))
	}
	timing.Record("load_ms", time.Since(start))

	return ServeRows(t.srv, w, r, t.source(), rows, timing)
}

// ServeRows runs the pipeline over rows and renders the layout the request
// asks for. timing may be nil.
func ServeRows[T any](srv *Server, w http.ResponseWriter, r *http.Request, src views.Source[T], rows []T, timing *TimingCollector) *TableHandlerResult {
	ctx := r.Context()
	if timing == nil {
		timing = NewTimingCollector()
	}

	q := query.NewQuery(r.URL)
	layout := views.ResolveLayout(q.Layout, r.UserAgent())
	env := srv.env(r, layout)

	start := time.Now()
	req := src.Config.Restrict(q.Request(src.Config.EffectivePageSize()))
	res := tables.Derive(rows, src.Set, src.ID, req)
	timing.Record("derive_ms", time.Since(start))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	start = time.Now()
	var err error
	if layout == query.LayoutCompact {
		err = srv.renderer.RenderCompact(w, views.BuildCompact(src, res, env))
	} else {
		err = srv.renderer.RenderDesktop(w, views.BuildDesktop(src, res, env))
	}
	timing.Record("render_ms", time.Since(start))
	if err != nil {
		// Headers are already out; log only.
		srv.logger.ErrorContext(ctx, "template rendering failed", logging.NewFields().WithTable(src.Name, len(res.Rows)).WithError(err).ToSlice()...)
		return nil
	}

	fields := logging.NewFields().WithTable(src.Name, len(res.Filtered))
	fields[logging.FieldOperation] = string(layout)
	logging.FromContext(ctx).DebugContext(ctx, "table served", append(fields.ToSlice(), timing.args()...)...)
	return nil
}

func (t *registered[T]) serveBulk(w http.ResponseWriter, r *http.Request) *TableHandlerResult {
	ctx := r.Context()
	if !t.def.Config.BulkActionsEnabled {
		return notFound("Table '%s' has no bulk actions", t.def.Name)
	}
	if err := r.ParseForm(); err != nil {
		return badRequest("Invalid form: %v", err)
	}

	name := r.PostForm.Get("action")
	var action *BulkAction[T]
	for i := range t.def.BulkActions {
		if t.def.BulkActions[i].Name == name && slices.Contains(t.def.Config.BulkActions, name) {
			action = &t.def.BulkActions[i]
			break
		}
	}
	if action == nil {
		return badRequest("%v: %q", ErrUnknownAction, name)
	}

	back := t.backQuery(r.PostForm.Get("back"))
	tracker := selection.New(r.PostForm["sel"]...)
	selected := tracker.Len()

	rows, err := t.def.Load(ctx)
	if err != nil {
		return internalError(fmt.Errorf("load %s: %w", t.def.Name, err))
	}

	var result BulkResult
	err = selection.Dispatch(tracker, rows, t.def.ID, name, func(_ string, picked []T) error {
		var err error
		result, err = action.Run(ctx, picked)
		return err
	})
	logging.FromContext(ctx).InfoContext(ctx, "bulk action",
		logging.NewFields().WithTable(t.def.Name, len(rows)).WithBulk(name, selected).WithError(err).ToSlice()...)
	if err != nil {
		return internalError(fmt.Errorf("bulk %s on %s: %w", name, t.def.Name, err))
	}

	if a := result.Attachment; a != nil {
		w.Header().Set("Content-Type", a.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(a.Body)))
		if _, err := w.Write(a.Body); err != nil {
			t.srv.logger.ErrorContext(ctx, "attachment write failed", logging.NewFields().WithBulk(name, selected).WithError(err).ToSlice()...)
		}
		return nil
	}

	notice := ""
	if result.Notice != "" {
		notice = t.srv.env(r, query.LayoutDesktop).Localizer.Sprintf(result.Notice, result.NoticeArgs...)
	}
	back.Selected = []string{}
	http.Redirect(w, r, back.WithNotice(notice), http.StatusSeeOther)
	return nil
}

// backQuery parses the page to return to. Only pages of this table are
// accepted.
func (t *registered[T]) backQuery(raw string) *query.Query {
	path := "/t/" + t.def.Name
	u, err := url.Parse(raw)
	if err != nil || u.Path != path || u.Host != "" || u.Scheme != "" {
		u = &url.URL{Path: path}
	}
	return query.NewQuery(u)
}

func (t *registered[T]) serveRow(w http.ResponseWriter, r *http.Request, id string) *TableHandlerResult {
	rows, err := t.def.Load(r.Context())
	if err != nil {
		return internalError(fmt.Errorf("load %s: %w", t.def.Name, err))
	}
	i := slices.IndexFunc(rows, func(row T) bool { return t.def.ID(row) == id })
	if i < 0 {
		return notFound("Row '%s' not found in table '%s'", id, t.def.Name)
	}

	env := t.srv.env(r, query.LayoutDesktop)
	back := t.backQuery(r.URL.Query().Get("back")).ToSafeURL()
	vm := views.BuildDetail(t.source(), rows[i], back, env)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.srv.renderer.RenderDetail(w, vm); err != nil {
		t.srv.logger.ErrorContext(r.Context(), "template rendering failed", logging.NewFields().WithError(err).ToSlice()...)
	}
	return nil
}

// RegisterColumnsTable hosts the catalog of every column registered so far
// as the _columns table. It is left off the landing page.
func RegisterColumnsTable(srv *Server) error {
	cfg := tables.DefaultConfig()
	cfg.PageSize = 25
	return Register(srv, TableDef[models.ColumnInfo]{
		Name:    models.ColumnsTableName,
		Title:   "Columns",
		Columns: models.ColumnsTableColumns(),
		ID:      models.ColumnInfo.ID,
		Load: func(context.Context) ([]models.ColumnInfo, error) {
			return models.BuildColumnsTable(srv.dataModel), nil
		},
		Config: cfg,
		Hidden: true,
	})
}
