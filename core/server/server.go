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

// Package server hosts registered tables over HTTP. Every table gets a page
// at /t/{table}, a bulk endpoint and a row detail page; the landing page
// lists them all.
package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/ledgerview/core/i18n"
	"github.com/google/ledgerview/core/logging"
	"github.com/google/ledgerview/core/models"
	"github.com/google/ledgerview/core/query"
	"github.com/google/ledgerview/core/rendering"
	"github.com/google/ledgerview/core/users"
	"github.com/google/ledgerview/core/views"
	"github.com/gorilla/mux"
)

// Options configures a Server. Zero values pick the defaults.
type Options struct {
	Title    string
	Subtitle string
	Locale   string // used when the request has no Accept-Language header

	DesktopWindow int
	CompactWindow int

	Logger   *logging.Logger
	Sessions *users.Provider
}

// Server represents the application server with all its dependencies
type Server struct {
	router    *mux.Router
	renderer  *rendering.TableRenderer
	logger    *logging.Logger
	sessions  *users.Provider
	dataModel *models.DataModel
	opts      Options

	mu     sync.RWMutex
	tables map[string]table
	order  []string
}

// NewServer creates a server with no tables.
func NewServer(opts Options) (*Server, error) {
	renderer, err := rendering.NewTableRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Sessions == nil {
		opts.Sessions = users.NewProvider()
	}
	if opts.Title == "" {
		opts.Title = "ledgerview"
	}
	if opts.Locale == "" {
		opts.Locale = "en"
	}

	s := &Server{
		router:    mux.NewRouter(),
		renderer:  renderer,
		logger:    opts.Logger.WithComponent(logging.ComponentServer),
		sessions:  opts.Sessions,
		dataModel: models.NewDataModel(),
		opts:      opts,
		tables:    make(map[string]table),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Use(logging.Middleware(s.logger))
	s.router.Use(s.sessions.Middleware)

	s.router.HandleFunc("/", s.handleLanding).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/t/{table}", s.handleTable).Methods(http.MethodGet)
	s.router.HandleFunc("/t/{table}/bulk", s.handleBulk).Methods(http.MethodPost)
	s.router.HandleFunc("/t/{table}/{id}", s.handleRow).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HandleFunc adds a custom route. It goes through the same middleware as the
// table routes.
func (s *Server) HandleFunc(path string, f func(http.ResponseWriter, *http.Request)) *mux.Route {
	return s.router.HandleFunc(path, f)
}

// DataModel returns the column catalog of the registered tables.
func (s *Server) DataModel() *models.DataModel {
	return s.dataModel
}

// Renderer returns the HTML renderer.
func (s *Server) Renderer() *rendering.TableRenderer {
	return s.renderer
}

// Tables returns the registered table names in registration order.
func (s *Server) Tables() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

func (s *Server) lookup(name string) (table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[name]
	return t, ok
}

func (s *Server) add(name string, t table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tables[name]; !exists {
		s.order = append(s.order, name)
	}
	s.tables[name] = t
}

// env assembles the builder input of one request.
func (s *Server) env(r *http.Request, layout query.Layout) views.Env {
	loc := i18n.Parse(s.opts.Locale)
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		loc = i18n.Match(accept)
	}
	session, _ := users.FromContext(r.Context())
	window := s.opts.DesktopWindow
	if layout == query.LayoutCompact {
		window = s.opts.CompactWindow
	}
	return views.Env{
		Query:     query.NewQuery(r.URL),
		Localizer: loc,
		Session:   session,
		Window:    window,
	}
}

// TableHandlerResult represents the result of handling a table request
type TableHandlerResult struct {
	Error      error
	StatusCode int
	Message    string
}

func notFound(format string, args ...any) *TableHandlerResult {
	return &TableHandlerResult{StatusCode: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func badRequest(format string, args ...any) *TableHandlerResult {
	return &TableHandlerResult{StatusCode: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func internalError(err error) *TableHandlerResult {
	return &TableHandlerResult{Error: err, StatusCode: http.StatusInternalServerError, Message: "Internal server error"}
}

// writeResult reports a failed request. A nil result means the handler
// already wrote the response.
func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, res *TableHandlerResult) {
	if res == nil {
		return
	}
	if res.Error != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "request failed",
			logging.NewFields().WithRequest(r.Method, r.URL.Path, r.URL.RawQuery).WithError(res.Error).ToSlice()...)
	}
	status := res.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	msg := res.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	http.Error(w, msg, status)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["table"]
	t, ok := s.lookup(name)
	if !ok {
		s.writeResult(w, r, notFound("Table '%s' not found", name))
		return
	}
	s.writeResult(w, r, t.serveTable(w, r))
}

func (s *Server) handleBulk(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["table"]
	t, ok := s.lookup(name)
	if !ok {
		s.writeResult(w, r, notFound("Table '%s' not found", name))
		return
	}
	s.writeResult(w, r, t.serveBulk(w, r))
}

func (s *Server) handleRow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	t, ok := s.lookup(vars["table"])
	if !ok {
		s.writeResult(w, r, notFound("Table '%s' not found", vars["table"]))
		return
	}
	s.writeResult(w, r, t.serveRow(w, r, vars["id"]))
}

// handleLanding lists the registered tables with their record counts.
func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	env := s.env(r, query.LayoutDesktop)
	vm := views.LandingViewModel{
		Title:    env.Localizer.Label(s.opts.Title),
		Subtitle: env.Localizer.Label(s.opts.Subtitle),
	}
	if env.Session.Authenticated() {
		vm.SignedInAs = env.Localizer.Sprintf(i18n.MsgSignedInAs, env.Session.User)
		vm.Company = env.Session.Company
	}
	for _, name := range s.Tables() {
		t, ok := s.lookup(name)
		if !ok || t.hidden() {
			continue
		}
		vm.Tables = append(vm.Tables, t.info(r.Context(), env.Localizer))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.RenderLanding(w, vm); err != nil {
		s.logger.ErrorContext(r.Context(), "template rendering failed", logging.NewFields().WithError(err).ToSlice()...)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

// TimingEntry is one measured step of a request.
type TimingEntry struct {
	Operation  string
	DurationMs string
}

// TimingCollector collects timing measurements for various operations
type TimingCollector struct {
	entries []TimingEntry
	start   time.Time
}

// NewTimingCollector creates a new timing collector
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{start: time.Now()}
}

// Record records a timing entry
func (tc *TimingCollector) Record(operation string, duration time.Duration) {
	tc.entries = append(tc.entries, TimingEntry{
		Operation:  operation,
		DurationMs: fmt.Sprintf("%.2f", float64(duration.Microseconds())/1000.0),
	})
}

// GetEntries returns all timing entries
func (tc *TimingCollector) GetEntries() []TimingEntry {
	return tc.entries
}

// TotalMs returns total elapsed time in milliseconds as formatted string
func (tc *TimingCollector) TotalMs() string {
	return fmt.Sprintf("%.2f", float64(time.Since(tc.start).Microseconds())/1000.0)
}

// args flattens the entries into slog key/value pairs.
func (tc *TimingCollector) args() []any {
	args := make([]any, 0, 2*len(tc.entries)+2)
	for _, e := range tc.entries {
		args = append(args, e.Operation, e.DurationMs)
	}
	return append(args, "total_ms", tc.TotalMs())
}
