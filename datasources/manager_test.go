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

package datasources

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/ledgerview/core/models"
	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func testDataset() Dataset {
	return Dataset{
		Customers: []models.Customer{
			{Code: "C01", Name: "Acme", Email: "billing@acme.test", City: "Torino"},
			{Code: "C02", Name: "Globex", City: "Milano"},
		},
		Invoices: []models.Invoice{
			{Number: "INV-001", Customer: "Acme", Date: day("2024-01-10"), DueDate: day("2024-02-10"), Amount: decimal.RequireFromString("1200.50"), Status: models.InvoiceSent},
			{Number: "INV-002", Customer: "Globex", Date: day("2024-01-12"), DueDate: day("2024-02-12"), Amount: decimal.RequireFromString("80"), Status: models.InvoiceDraft},
			{Number: "INV-003", Customer: "Acme", Date: day("2024-02-01"), DueDate: day("2024-03-01"), Amount: decimal.RequireFromString("300"), Status: models.InvoiceOverdue},
		},
		Quotes: []models.Quote{
			{Number: "Q-001", Customer: "Acme", Date: day("2024-01-02"), ValidUntil: day("2024-02-02"), Amount: decimal.RequireFromString("999"), Status: models.QuoteAccepted},
		},
		Payments: []models.Payment{
			{Code: "P01", Date: day("2024-02-11"), Payer: "Acme", Reference: "Invoice INV-001", Amount: decimal.RequireFromString("1200.50")},
		},
		Expenses: []models.Expense{
			{Code: "E01", Date: day("2024-01-05"), Supplier: "Office Co", Category: "office", Description: "Paper", Amount: decimal.RequireFromString("42.10")},
		},
	}
}

// countingLoader counts fetches per table.
type countingLoader struct {
	*MemoryLoader
	invoiceLoads int
	fail         error
}

func (l *countingLoader) Invoices(ctx context.Context) ([]models.Invoice, error) {
	l.invoiceLoads++
	if l.fail != nil {
		return nil, l.fail
	}
	return l.MemoryLoader.Invoices(ctx)
}

func TestManagerLazyLoading(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{MemoryLoader: NewMemoryLoader(testDataset())}
	manager := NewManager(loader, nil)

	if got := manager.Names(); !slices.Equal(got, []string{"customers", "expenses", "invoices", "payments", "quotes"}) {
		t.Errorf("unexpected table names %v", got)
	}
	if manager.IsLoaded(TableInvoices) {
		t.Error("invoices should not be loaded yet")
	}

	invoices, err := Load[models.Invoice](ctx, manager, TableInvoices)
	if err != nil {
		t.Fatalf("failed to load invoices: %v", err)
	}
	if len(invoices) != 3 {
		t.Errorf("expected 3 invoices, got %d", len(invoices))
	}
	if !manager.IsLoaded(TableInvoices) {
		t.Error("invoices should be loaded now")
	}

	// Second load is served from the cache
	if _, err := Load[models.Invoice](ctx, manager, TableInvoices); err != nil {
		t.Fatalf("failed to load cached invoices: %v", err)
	}
	if loader.invoiceLoads != 1 {
		t.Errorf("expected 1 fetch, got %d", loader.invoiceLoads)
	}

	manager.InvalidateCache(TableInvoices)
	if manager.IsLoaded(TableInvoices) {
		t.Error("invoices should not be loaded after invalidation")
	}
	if _, err := Load[models.Invoice](ctx, manager, TableInvoices); err != nil {
		t.Fatalf("failed to reload invoices: %v", err)
	}
	if loader.invoiceLoads != 2 {
		t.Errorf("expected 2 fetches, got %d", loader.invoiceLoads)
	}
}

func TestManagerLoadErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	manager := NewManager(&countingLoader{MemoryLoader: NewMemoryLoader(testDataset()), fail: boom}, nil)

	if _, err := Load[models.Invoice](ctx, manager, TableInvoices); !errors.Is(err, boom) {
		t.Errorf("expected wrapped load error, got %v", err)
	}
	if manager.IsLoaded(TableInvoices) {
		t.Error("failed load must not be cached")
	}
	if _, err := Load[models.Invoice](ctx, manager, "ledger"); !errors.Is(err, ErrUnknownTable) {
		t.Errorf("expected ErrUnknownTable, got %v", err)
	}
	if _, err := Load[models.Quote](ctx, manager, TableCustomers); err == nil {
		t.Error("expected a type mismatch error")
	}
}

func TestManagerPreload(t *testing.T) {
	manager := NewManager(NewMemoryLoader(testDataset()), nil)
	Register(manager, "numbers", func(context.Context) ([]int, error) { return []int{1, 2, 3}, nil }, func(int) string { return "" })

	if err := manager.Preload(context.Background()); err != nil {
		t.Fatalf("preload failed: %v", err)
	}
	if got := manager.LoadedSources(); len(got) != 6 {
		t.Errorf("expected 6 loaded tables, got %v", got)
	}

	manager.InvalidateAllCaches()
	if got := manager.LoadedSources(); len(got) != 0 {
		t.Errorf("expected empty cache, got %v", got)
	}
}

func TestManagerDelete(t *testing.T) {
	ctx := context.Background()
	loader := NewMemoryLoader(testDataset())
	manager := NewManager(loader, nil)

	n, err := manager.Delete(ctx, TableInvoices, []string{"INV-001", "INV-404"})
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted row, got %d", n)
	}

	cached, _ := Load[models.Invoice](ctx, manager, TableInvoices)
	if len(cached) != 2 || cached[0].Number != "INV-002" {
		t.Errorf("unexpected cached invoices %v", cached)
	}

	// The change reached the loader
	stored, _ := loader.Invoices(ctx)
	if len(stored) != 2 {
		t.Errorf("expected 2 stored invoices, got %d", len(stored))
	}

	if n, err := manager.Delete(ctx, TableInvoices, []string{"INV-404"}); err != nil || n != 0 {
		t.Errorf("expected no-op delete, got %d, %v", n, err)
	}
}

func TestManagerSetInvoiceStatus(t *testing.T) {
	ctx := context.Background()
	loader := NewMemoryLoader(testDataset())
	manager := NewManager(loader, nil)

	before, _ := Load[models.Invoice](ctx, manager, TableInvoices)

	n, err := manager.SetInvoiceStatus(ctx, []string{"INV-001", "INV-003"}, models.InvoicePaid)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 updated invoices, got %d", n)
	}

	after, _ := Load[models.Invoice](ctx, manager, TableInvoices)
	for _, inv := range after {
		want := models.InvoicePaid
		if inv.Number == "INV-002" {
			want = models.InvoiceDraft
		}
		if inv.Status != want {
			t.Errorf("%s: expected %s, got %s", inv.Number, want, inv.Status)
		}
	}
	if before[0].Status != models.InvoiceSent {
		t.Error("previously returned slice must not change")
	}

	stored, _ := loader.Invoices(ctx)
	if stored[0].Status != models.InvoicePaid {
		t.Errorf("expected stored status paid, got %s", stored[0].Status)
	}
}

// blockingWriter holds Delete until release is closed.
type blockingWriter struct {
	*MemoryLoader
	entered chan struct{}
	release chan struct{}
}

func (w *blockingWriter) Delete(ctx context.Context, table string, ids []string) error {
	close(w.entered)
	<-w.release
	return w.MemoryLoader.Delete(ctx, table, ids)
}

func TestManagerConcurrentEdits(t *testing.T) {
	ctx := context.Background()
	loader := &blockingWriter{
		MemoryLoader: NewMemoryLoader(testDataset()),
		entered:      make(chan struct{}),
		release:      make(chan struct{}),
	}
	manager := NewManager(loader, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := manager.Delete(ctx, TableInvoices, []string{"INV-002"})
		errs <- err
	}()
	<-loader.entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := manager.SetInvoiceStatus(ctx, []string{"INV-001"}, models.InvoicePaid)
		errs <- err
	}()
	close(loader.release)
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("edit failed: %v", err)
		}
	}

	cached, _ := Load[models.Invoice](ctx, manager, TableInvoices)
	if len(cached) != 2 {
		t.Fatalf("expected 2 cached invoices, got %v", cached)
	}
	for _, inv := range cached {
		if inv.Number == "INV-002" {
			t.Error("INV-002 came back after delete")
		}
		if inv.Number == "INV-001" && inv.Status != models.InvoicePaid {
			t.Errorf("INV-001: expected %s, got %s", models.InvoicePaid, inv.Status)
		}
	}

	stored, _ := loader.Invoices(ctx)
	if len(stored) != 2 || stored[0].Status != models.InvoicePaid {
		t.Errorf("unexpected stored invoices %v", stored)
	}
}

func TestManagerLoadKeepsEdits(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(NewMemoryLoader(testDataset()), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			manager.InvalidateCache(TableInvoices)
			if _, err := Load[models.Invoice](ctx, manager, TableInvoices); err != nil {
				t.Errorf("load failed: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := manager.Delete(ctx, TableInvoices, []string{"INV-003"}); err != nil {
				t.Errorf("delete failed: %v", err)
			}
		}()
	}
	wg.Wait()

	cached, _ := Load[models.Invoice](ctx, manager, TableInvoices)
	if slices.ContainsFunc(cached, func(inv models.Invoice) bool { return inv.Number == "INV-003" }) {
		t.Errorf("deleted invoice is cached again: %v", cached)
	}
}

func TestCsvLoader(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	csvContent := `number,customer,date,due_date,amount,status
INV-100,Acme,2024-03-01,2024-04-01,150.25,Sent
INV-101,Initech,2024-03-02,2024-04-02,20,paid`
	if err := os.WriteFile(filepath.Join(tmpDir, "invoices.csv"), []byte(csvContent), 0644); err != nil {
		t.Fatalf("failed to write test CSV: %v", err)
	}

	manager := NewManager(NewCsvLoader(tmpDir), nil)
	if manager.SourceType() != "csv" {
		t.Errorf("expected source type csv, got %q", manager.SourceType())
	}

	invoices, err := Load[models.Invoice](ctx, manager, TableInvoices)
	if err != nil {
		t.Fatalf("failed to load CSV: %v", err)
	}
	if len(invoices) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(invoices))
	}
	if invoices[0].Status != models.InvoiceSent {
		t.Errorf("expected status sent, got %q", invoices[0].Status)
	}
	if !invoices[0].Amount.Equal(decimal.RequireFromString("150.25")) {
		t.Errorf("unexpected amount %s", invoices[0].Amount)
	}
	if !invoices[1].DueDate.Equal(day("2024-04-02")) {
		t.Errorf("unexpected due date %s", invoices[1].DueDate)
	}

	// Missing files are empty tables
	quotes, err := Load[models.Quote](ctx, manager, TableQuotes)
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if len(quotes) != 0 {
		t.Errorf("expected no quotes, got %d", len(quotes))
	}
}

func TestCsvLoaderBadStatus(t *testing.T) {
	tmpDir := t.TempDir()
	csvContent := "number,status\nQ-1,pending\n"
	if err := os.WriteFile(filepath.Join(tmpDir, "quotes.csv"), []byte(csvContent), 0644); err != nil {
		t.Fatalf("failed to write test CSV: %v", err)
	}
	if _, err := NewCsvLoader(tmpDir).Quotes(context.Background()); err == nil {
		t.Error("expected an unknown status error")
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "export")
	want := testDataset()

	if err := WriteCSV(dir, &want); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, err := LoadDataset(ctx, NewCsvLoader(dir))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got.Invoices) != len(want.Invoices) || len(got.Customers) != len(want.Customers) {
		t.Fatalf("row counts differ: %d invoices, %d customers", len(got.Invoices), len(got.Customers))
	}
	if got.Invoices[2].Status != models.InvoiceOverdue {
		t.Errorf("expected overdue, got %s", got.Invoices[2].Status)
	}
	if got.Payments[0].Reference != "Invoice INV-001" {
		t.Errorf("unexpected reference %q", got.Payments[0].Reference)
	}
	if !got.Expenses[0].Amount.Equal(want.Expenses[0].Amount) {
		t.Errorf("unexpected amount %s", got.Expenses[0].Amount)
	}
}

func TestMemoryLoaderUnknownTable(t *testing.T) {
	err := NewMemoryLoader(Dataset{}).Delete(context.Background(), "ledger", []string{"x"})
	if !errors.Is(err, ErrUnknownTable) {
		t.Errorf("expected ErrUnknownTable, got %v", err)
	}
}
