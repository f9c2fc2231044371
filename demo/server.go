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

// Package demo wires the ledger tables of a small invoicing back office
// onto the table server.
package demo

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/google/ledgerview/core/config"
	"github.com/google/ledgerview/core/logging"
	"github.com/google/ledgerview/core/models"
	"github.com/google/ledgerview/core/server"
	"github.com/google/ledgerview/core/tables"
	"github.com/google/ledgerview/core/users"
	"github.com/google/ledgerview/core/views"
	"github.com/google/ledgerview/datasources"
	"github.com/google/ledgerview/datasources/sqlite"
	"github.com/gorilla/mux"
)

// Ledger builds the table definitions of the ledger on top of a Manager.
type Ledger struct {
	Manager  *datasources.Manager
	PageSize int
}

// NewLedger returns a Ledger paging at pageSize rows (0 disables paging).
func NewLedger(m *datasources.Manager, pageSize int) *Ledger {
	return &Ledger{Manager: m, PageSize: pageSize}
}

func (l *Ledger) config(bulk bool) tables.Config {
	cfg := tables.DefaultConfig()
	cfg.PageSize = l.PageSize
	cfg.PaginationEnabled = l.PageSize > 0
	cfg.BulkActionsEnabled = bulk
	return cfg
}

func loadFrom[T any](m *datasources.Manager, name string) func(context.Context) ([]T, error) {
	return func(ctx context.Context) ([]T, error) {
		return datasources.Load[T](ctx, m, name)
	}
}

func (l *Ledger) Invoices() server.TableDef[models.Invoice] {
	return server.TableDef[models.Invoice]{
		Name:        datasources.TableInvoices,
		Title:       "Invoices",
		Columns:     InvoiceColumns(),
		ID:          models.Invoice.ID,
		Load:        loadFrom[models.Invoice](l.Manager, datasources.TableInvoices),
		Config:      l.config(true),
		BulkActions: invoiceActions(l.Manager),
	}
}

func (l *Ledger) Quotes() server.TableDef[models.Quote] {
	set := QuoteColumns()
	return server.TableDef[models.Quote]{
		Name:    datasources.TableQuotes,
		Title:   "Quotes",
		Columns: set,
		ID:      models.Quote.ID,
		Load:    loadFrom[models.Quote](l.Manager, datasources.TableQuotes),
		Config:  l.config(true),
		BulkActions: []server.BulkAction[models.Quote]{
			server.ExportAction(datasources.TableQuotes, set),
			deleteAction(l.Manager, datasources.TableQuotes, models.Quote.ID),
		},
	}
}

func (l *Ledger) Payments() server.TableDef[models.Payment] {
	set := PaymentColumns()
	return server.TableDef[models.Payment]{
		Name:    datasources.TablePayments,
		Title:   "Payments",
		Columns: set,
		ID:      models.Payment.ID,
		Load:    loadFrom[models.Payment](l.Manager, datasources.TablePayments),
		Config:  l.config(true),
		BulkActions: []server.BulkAction[models.Payment]{
			server.ExportAction(datasources.TablePayments, set),
		},
	}
}

func (l *Ledger) Expenses() server.TableDef[models.Expense] {
	set := ExpenseColumns()
	return server.TableDef[models.Expense]{
		Name:    datasources.TableExpenses,
		Title:   "Expenses",
		Columns: set,
		ID:      models.Expense.ID,
		Load:    loadFrom[models.Expense](l.Manager, datasources.TableExpenses),
		Config:  l.config(true),
		BulkActions: []server.BulkAction[models.Expense]{
			server.ExportAction(datasources.TableExpenses, set),
			deleteAction(l.Manager, datasources.TableExpenses, models.Expense.ID),
		},
	}
}

// Customers is a read-only table: no bulk actions.
func (l *Ledger) Customers() server.TableDef[models.Customer] {
	return server.TableDef[models.Customer]{
		Name:    datasources.TableCustomers,
		Title:   "Customers",
		Columns: CustomerColumns(),
		ID:      models.Customer.ID,
		Load:    loadFrom[models.Customer](l.Manager, datasources.TableCustomers),
		Config:  l.config(false),
	}
}

// Register hosts every ledger table, the column catalog and the payment
// matching page on srv.
func (l *Ledger) Register(srv *server.Server) error {
	err := server.Register(srv, l.Invoices())
	if err == nil {
		err = server.Register(srv, l.Quotes())
	}
	if err == nil {
		err = server.Register(srv, l.Payments())
	}
	if err == nil {
		err = server.Register(srv, l.Expenses())
	}
	if err == nil {
		err = server.Register(srv, l.Customers())
	}
	if err == nil {
		err = server.RegisterColumnsTable(srv)
	}
	if err != nil {
		return err
	}
	srv.HandleFunc("/payments/{id}/match", l.handleMatch(srv)).Methods(http.MethodGet)
	return nil
}

// handleMatch lists the open invoices a payment reference mentions, through
// the same pipeline as any other table.
func (l *Ledger) handleMatch(srv *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		code := mux.Vars(r)["id"]

		payments, err := datasources.Load[models.Payment](ctx, l.Manager, datasources.TablePayments)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		i := slices.IndexFunc(payments, func(p models.Payment) bool { return p.Code == code })
		if i < 0 {
			http.Error(w, fmt.Sprintf("Payment '%s' not found", code), http.StatusNotFound)
			return
		}
		invoices, err := datasources.Load[models.Invoice](ctx, l.Manager, datasources.TableInvoices)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		def := l.Invoices()
		src := views.Source[models.Invoice]{
			Name:   def.Name,
			Title:  "Candidates",
			Set:    def.Columns,
			ID:     def.ID,
			RowURL: func(inv models.Invoice) string { return rowHref(datasources.TableInvoices, inv.Number) },
			Config: l.config(false),
		}
		server.ServeRows(srv, w, r, src, models.MatchInvoices(payments[i], invoices), nil)
	}
}

// OpenLoader returns the loader cfg selects and a function releasing it.
func OpenLoader(cfg *config.Config) (datasources.Loader, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Datasource.Kind {
	case config.KindMemory:
		ds, err := Dataset()
		if err != nil {
			return nil, nil, err
		}
		return datasources.NewMemoryLoader(*ds), noop, nil
	case config.KindCSV:
		return datasources.NewCsvLoader(cfg.Datasource.CSVDir), noop, nil
	case config.KindSQLite:
		store, err := sqlite.Open(cfg.Datasource.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown datasource kind %q", cfg.Datasource.Kind)
	}
}

// SetupServer creates a server hosting the ledger described by cfg. The
// returned function closes the datasource.
func SetupServer(cfg *config.Config, logger *logging.Logger) (*server.Server, func() error, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	loader, closeLoader, err := OpenLoader(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s datasource: %w", cfg.Datasource.Kind, err)
	}

	sessions := users.NewProvider()
	if cfg.Session.User != "" {
		if _, err := sessions.Login(cfg.Session.User, cfg.Session.Company); err != nil {
			closeLoader()
			return nil, nil, err
		}
	}

	srv, err := server.NewServer(server.Options{
		Title:         "Ledger",
		Subtitle:      "Invoices, quotes, payments and expenses",
		Locale:        cfg.Locale,
		DesktopWindow: cfg.Table.DesktopWindow,
		CompactWindow: cfg.Table.CompactWindow,
		Logger:        logger,
		Sessions:      sessions,
	})
	if err != nil {
		closeLoader()
		return nil, nil, err
	}

	manager := datasources.NewManager(loader, logger)
	if err := NewLedger(manager, cfg.Table.PageSize).Register(srv); err != nil {
		closeLoader()
		return nil, nil, err
	}
	logger.Info("ledger ready", "datasource", manager.SourceType(), "tables", len(srv.Tables()))
	return srv, closeLoader, nil
}
