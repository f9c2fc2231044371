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

package demo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/ledgerview/core/config"
	"github.com/google/ledgerview/core/models"
	"github.com/google/ledgerview/core/server"
	"github.com/google/ledgerview/datasources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataset(t *testing.T) {
	ds, err := Dataset()
	require.NoError(t, err)
	assert.Len(t, ds.Customers, 8)
	assert.Len(t, ds.Invoices, 22)
	assert.Len(t, ds.Quotes, 8)
	assert.Len(t, ds.Payments, 11)
	assert.Len(t, ds.Expenses, 14)
	assert.Equal(t, models.InvoicePaid, ds.Invoices[0].Status)
	assert.Equal(t, "1830.00", ds.Invoices[0].Amount.StringFixed(2))
}

func TestPerfDataset(t *testing.T) {
	ds := PerfDataset(1_000)
	assert.Len(t, ds.Invoices, 1_000)
	assert.Len(t, ds.Payments, 500)
	assert.Len(t, ds.Quotes, 250)
	assert.Len(t, ds.Customers, PERF_NUM_CUSTOMERS)
	assert.Equal(t, ds.Invoices, PerfDataset(1_000).Invoices)
}

func newLedgerServer(t *testing.T) (*server.Server, *datasources.Manager) {
	t.Helper()
	srv, err := server.NewServer(server.Options{Title: "Ledger"})
	require.NoError(t, err)
	m := datasources.NewManager(datasources.NewMemoryLoader(*MustDataset()), nil)
	require.NoError(t, NewLedger(m, 10).Register(srv))
	return srv, m
}

func do(srv http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestLedgerRegistersTables(t *testing.T) {
	srv, _ := newLedgerServer(t)
	assert.Equal(t, []string{"invoices", "quotes", "payments", "expenses", "customers", "_columns"}, srv.Tables())

	body := do(srv, http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, body, "22 records")
	assert.NotContains(t, body, `href="/t/_columns"`)
}

func TestInvoicesPage(t *testing.T) {
	srv, _ := newLedgerServer(t)
	rec := do(srv, http.MethodGet, "/t/invoices?q=agenzia+blu", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "2024-006")
	assert.Contains(t, body, "2024-015")
	assert.NotContains(t, body, "Officine Rossi")
	assert.Contains(t, body, "980.00")
}

func TestMarkPaid(t *testing.T) {
	srv, m := newLedgerServer(t)
	rec := do(srv, http.MethodPost, "/t/invoices/bulk", url.Values{
		"action": {ActionMarkPaid},
		"sel":    {"2024-006", "2024-015"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "2 invoices marked paid", loc.Query().Get("notice"))

	invoices, err := datasources.Load[models.Invoice](context.Background(), m, datasources.TableInvoices)
	require.NoError(t, err)
	for _, inv := range invoices {
		if inv.Number == "2024-006" || inv.Number == "2024-015" {
			assert.Equal(t, models.InvoicePaid, inv.Status, inv.Number)
		}
	}
}

func TestDeleteExpenses(t *testing.T) {
	srv, m := newLedgerServer(t)
	rec := do(srv, http.MethodPost, "/t/expenses/bulk", url.Values{
		"action": {ActionDelete},
		"sel":    {"EXP-001", "EXP-002"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	expenses, err := datasources.Load[models.Expense](context.Background(), m, datasources.TableExpenses)
	require.NoError(t, err)
	assert.Len(t, expenses, 12)
}

func TestCustomersHaveNoBulkActions(t *testing.T) {
	srv, _ := newLedgerServer(t)
	rec := do(srv, http.MethodPost, "/t/customers/bulk", url.Values{"action": {ActionDelete}, "sel": {"C001"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMatchPage(t *testing.T) {
	srv, _ := newLedgerServer(t)
	rec := do(srv, http.MethodGet, MatchPath("PAY-0011"), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Candidates")
	assert.Contains(t, body, "2024-006")
	assert.Contains(t, body, "2024-015")
	assert.NotContains(t, body, "2024-001")

	assert.Equal(t, http.StatusNotFound, do(srv, http.MethodGet, MatchPath("PAY-9999"), nil).Code)
}

func TestSetupServerSQLite(t *testing.T) {
	cfg := config.Default()
	cfg.Datasource.Kind = config.KindSQLite
	cfg.Datasource.SQLitePath = filepath.Join(t.TempDir(), "ledger.db")
	cfg.Session.User = "marta"

	srv, closeFn, err := SetupServer(cfg, nil)
	require.NoError(t, err)
	defer closeFn()

	body := do(srv, http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, body, "Signed in as marta")
	assert.Contains(t, body, "0 records")
}

func TestOpenLoaderUnknownKind(t *testing.T) {
	cfg := config.Default()
	cfg.Datasource.Kind = "ftp"
	_, _, err := OpenLoader(cfg)
	assert.Error(t, err)
}
