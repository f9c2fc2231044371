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
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/ledgerview/core/columns"
	"github.com/google/ledgerview/core/export"
	"github.com/google/ledgerview/core/logging"
	"github.com/google/ledgerview/core/tables"
	"github.com/google/ledgerview/core/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type order struct {
	Code  string
	Buyer string
	Total int
}

// orderStore is a tiny mutable source for the bulk tests.
type orderStore struct {
	mu   sync.Mutex
	rows []order
}

func (s *orderStore) load(context.Context) ([]order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]order(nil), s.rows...), nil
}

func (s *orderStore) remove(ids map[string]bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	for _, o := range s.rows {
		if !ids[o.Code] {
			kept = append(kept, o)
		}
	}
	n := len(s.rows) - len(kept)
	s.rows = kept
	return n
}

func orderColumns() *columns.Set[order] {
	return columns.MustSet[order](
		&columns.DataColumn[order]{Name: "Code", Title: "Code", Sortable: true, Tier: columns.PriorityHigh},
		&columns.DataColumn[order]{Name: "Buyer", Title: "Buyer", Sortable: true, Tier: columns.PriorityMedium},
		&columns.DataColumn[order]{Name: "Total", Title: "Total", Sortable: true, Summable: true, Tier: columns.PriorityMedium},
	)
}

func newTestServer(t *testing.T, n int) (*Server, *orderStore) {
	t.Helper()
	store := &orderStore{}
	for i := 1; i <= n; i++ {
		store.rows = append(store.rows, order{Code: fmt.Sprintf("O%02d", i), Buyer: fmt.Sprintf("buyer %d", i%3), Total: i * 10})
	}

	sessions := users.NewProvider()
	_, err := sessions.Login("alice", "Acme Srl")
	require.NoError(t, err)

	srv, err := NewServer(Options{Title: "Ledger", Sessions: sessions})
	require.NoError(t, err)

	cfg := tables.DefaultConfig()
	cfg.BulkActionsEnabled = true
	set := orderColumns()
	require.NoError(t, Register(srv, TableDef[order]{
		Name:    "orders",
		Title:   "Orders",
		Columns: set,
		ID:      func(o order) string { return o.Code },
		Load:    store.load,
		Config:  cfg,
		BulkActions: []BulkAction[order]{
			ExportAction("orders", set),
			{
				Name:  "delete",
				Label: "Delete",
				Run: func(_ context.Context, rows []order) (BulkResult, error) {
					ids := make(map[string]bool)
					for _, o := range rows {
						ids[o.Code] = true
					}
					return BulkResult{Notice: fmt.Sprintf("%d deleted", store.remove(ids))}, nil
				},
			},
			{
				Name: "fail",
				Run: func(context.Context, []order) (BulkResult, error) {
					return BulkResult{}, errors.New("boom")
				},
			},
		},
	}))
	require.NoError(t, RegisterColumnsTable(srv))
	return srv, store
}

func get(srv http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func post(srv http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestRegisterValidates(t *testing.T) {
	srv, err := NewServer(Options{})
	require.NoError(t, err)

	err = Register(srv, TableDef[order]{Name: "orders", Columns: orderColumns(), Load: (&orderStore{}).load})
	assert.ErrorIs(t, err, tables.ErrNoIdentity)
	assert.Error(t, Register(srv, TableDef[order]{Name: "a/b", Columns: orderColumns()}))
	assert.Empty(t, srv.Tables())
}

func TestLanding(t *testing.T) {
	srv, _ := newTestServer(t, 12)
	rec := get(srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Ledger")
	assert.Contains(t, body, `href="/t/orders"`)
	assert.Contains(t, body, "12 records")
	assert.Contains(t, body, "Signed in as alice")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestTableDesktop(t *testing.T) {
	srv, _ := newTestServer(t, 12)
	rec := get(srv, "/t/orders?sort=Total&dir=desc")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<table")
	assert.Contains(t, body, "1-10 of 12")
	assert.Contains(t, body, `aria-sort="descending"`)
	assert.Less(t, strings.Index(body, "O12"), strings.Index(body, "O11"))
	assert.NotContains(t, body, ">O01<", "first row is on page 2")
}

func TestTableCompactFromUserAgent(t *testing.T) {
	srv, _ := newTestServer(t, 4)
	rec := get(srv, "/t/orders", "User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<table")
	assert.Contains(t, body, "<dt>Buyer</dt>")

	rec = get(srv, "/t/orders?layout=desktop", "User-Agent", "iPhone")
	assert.Contains(t, rec.Body.String(), "<table")
}

func TestTableSearchAndLocale(t *testing.T) {
	srv, _ := newTestServer(t, 12)
	rec := get(srv, "/t/orders?q=nothing-matches", "Accept-Language", "it-IT,it;q=0.9")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nessun risultato")
}

func TestNotFound(t *testing.T) {
	srv, _ := newTestServer(t, 3)

	assert.Equal(t, http.StatusNotFound, get(srv, "/t/missing").Code)
	assert.Equal(t, http.StatusNotFound, get(srv, "/t/orders/O99").Code)
	assert.Equal(t, http.StatusNotFound, post(srv, "/t/missing/bulk", url.Values{}).Code)
}

func TestRowDetail(t *testing.T) {
	srv, _ := newTestServer(t, 3)
	rec := get(srv, "/t/orders/O02")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "O02")
	assert.Contains(t, body, "buyer 2")
	assert.Contains(t, body, `href="/t/orders"`)
}

func TestBulkDeleteRedirects(t *testing.T) {
	srv, store := newTestServer(t, 5)
	rec := post(srv, "/t/orders/bulk", url.Values{
		"action": {"delete"},
		"sel":    {"O01", "O03", "O99"},
		"back":   {"/t/orders?q=buyer&page=1&sel=O01&sel=O03"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/t/orders", loc.Path)
	assert.Equal(t, "2 deleted", loc.Query().Get("notice"))
	assert.Equal(t, "buyer", loc.Query().Get("q"))
	assert.Empty(t, loc.Query().Get("sel"))

	rows, _ := store.load(context.Background())
	assert.Len(t, rows, 3)

	// The notice shows once on the page the redirect lands on.
	assert.Contains(t, get(srv, rec.Header().Get("Location")).Body.String(), "2 deleted")
}

func TestBulkBackStaysOnTable(t *testing.T) {
	srv, _ := newTestServer(t, 2)
	rec := post(srv, "/t/orders/bulk", url.Values{
		"action": {"delete"},
		"sel":    {"O01"},
		"back":   {"https://evil.example/t/orders"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/t/orders"))
}

func TestBulkEmptySelection(t *testing.T) {
	srv, store := newTestServer(t, 2)
	rec := post(srv, "/t/orders/bulk", url.Values{"action": {"delete"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	rows, _ := store.load(context.Background())
	assert.Len(t, rows, 2)
}

func TestBulkErrors(t *testing.T) {
	srv, _ := newTestServer(t, 2)

	rec := post(srv, "/t/orders/bulk", url.Values{"action": {"archive"}, "sel": {"O01"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(srv, "/t/orders/bulk", url.Values{"action": {"fail"}, "sel": {"O01"}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestBulkExport(t *testing.T) {
	srv, _ := newTestServer(t, 4)
	rec := post(srv, "/t/orders/bulk", url.Values{"action": {"export"}, "sel": {"O04", "O02"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "orders.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	got, err := f.GetRows("orders")
	require.NoError(t, err)
	require.Len(t, got, 3)
	// Collection order, not selection order.
	assert.Equal(t, "O02", got[1][0])
	assert.Equal(t, "O04", got[2][0])
}

func TestBulkIDWithComma(t *testing.T) {
	srv, store := newTestServer(t, 3)
	store.rows[1].Code = "ACME, Inc"

	rec := post(srv, "/t/orders/bulk", url.Values{"action": {"delete"}, "sel": {"ACME, Inc", "O03"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "2 deleted", loc.Query().Get("notice"))

	rows, _ := store.load(context.Background())
	require.Len(t, rows, 1)
	assert.Equal(t, "O01", rows[0].Code)
}

// brokenWriter fails every body write.
type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (w brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestBulkExportWriteFailureIsLogged(t *testing.T) {
	srv, _ := newTestServer(t, 2)
	var buf bytes.Buffer
	srv.logger = logging.New(logging.Config{Format: "json", Output: &buf})

	form := url.Values{"action": {"export"}, "sel": {"O01"}}
	req := httptest.NewRequest(http.MethodPost, "/t/orders/bulk", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.ServeHTTP(brokenWriter{httptest.NewRecorder()}, req)

	assert.Contains(t, buf.String(), "attachment write failed")
	assert.Contains(t, buf.String(), "connection reset")
}

func TestColumnsTable(t *testing.T) {
	srv, _ := newTestServer(t, 1)
	rec := get(srv, "/t/_columns")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "orders")
	assert.Contains(t, body, "Buyer")
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	rec := get(srv, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestTimingCollector(t *testing.T) {
	tc := NewTimingCollector()
	tc.Record("load_ms", 1500000)
	require.Len(t, tc.GetEntries(), 1)
	assert.Equal(t, "1.50", tc.GetEntries()[0].DurationMs)
	assert.Len(t, tc.args(), 4)
}
