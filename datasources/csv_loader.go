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
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/ledgerview/core/csvimport"
	"github.com/google/ledgerview/core/models"
)

// Column order of the CSV files written by WriteCSV.
var (
	customerKeys = []string{"code", "name", "email", "city", "vat_number"}
	invoiceKeys  = []string{"number", "customer", "date", "due_date", "amount", "status"}
	quoteKeys    = []string{"number", "customer", "date", "valid_until", "amount", "status"}
	paymentKeys  = []string{"code", "date", "payer", "reference", "amount"}
	expenseKeys  = []string{"code", "date", "supplier", "category", "description", "amount"}
)

// CsvLoader reads one file per table from a directory: invoices.csv,
// quotes.csv and so on. Each file starts with a header row naming the
// fields. A missing file is an empty table. The loader is read-only.
type CsvLoader struct {
	FS      fs.FS
	Options csvimport.ImportOptions
}

// NewCsvLoader creates a new CSV loader reading from dir.
func NewCsvLoader(dir string) *CsvLoader {
	return NewCsvLoaderFS(os.DirFS(dir))
}

// NewCsvLoaderFS creates a CSV loader reading from the root of fsys.
func NewCsvLoaderFS(fsys fs.FS) *CsvLoader {
	return &CsvLoader{FS: fsys, Options: csvimport.DefaultOptions()}
}

// SourceType returns "csv".
func (l *CsvLoader) SourceType() string {
	return "csv"
}

func (l *CsvLoader) path(table string) string {
	return table + ".csv"
}

func readTable[T any](l *CsvLoader, table string) ([]T, error) {
	f, err := l.FS.Open(l.path(table))
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", l.path(table), err)
	}
	defer f.Close()

	rows, err := csvimport.ImportFromReader[T](f, l.Options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.path(table), err)
	}
	return rows, nil
}

func (l *CsvLoader) Customers(ctx context.Context) ([]models.Customer, error) {
	return readTable[models.Customer](l, TableCustomers)
}

func (l *CsvLoader) Invoices(ctx context.Context) ([]models.Invoice, error) {
	rows, err := readTable[models.Invoice](l, TableInvoices)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Status, err = models.ParseInvoiceStatus(string(rows[i].Status)); err != nil {
			return nil, fmt.Errorf("%s: invoice %s: %w", l.path(TableInvoices), rows[i].Number, err)
		}
	}
	return rows, nil
}

func (l *CsvLoader) Quotes(ctx context.Context) ([]models.Quote, error) {
	rows, err := readTable[models.Quote](l, TableQuotes)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Status, err = models.ParseQuoteStatus(string(rows[i].Status)); err != nil {
			return nil, fmt.Errorf("%s: quote %s: %w", l.path(TableQuotes), rows[i].Number, err)
		}
	}
	return rows, nil
}

func (l *CsvLoader) Payments(ctx context.Context) ([]models.Payment, error) {
	return readTable[models.Payment](l, TablePayments)
}

func (l *CsvLoader) Expenses(ctx context.Context) ([]models.Expense, error) {
	return readTable[models.Expense](l, TableExpenses)
}

// WriteCSV writes every table of ds into dir in the layout CsvLoader reads.
func WriteCSV(dir string, ds *Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create csv directory: %w", err)
	}
	path := func(table string) string { return filepath.Join(dir, table+".csv") }
	return errors.Join(
		csvimport.ExportToFile(path(TableCustomers), ds.Customers, customerKeys),
		csvimport.ExportToFile(path(TableInvoices), ds.Invoices, invoiceKeys),
		csvimport.ExportToFile(path(TableQuotes), ds.Quotes, quoteKeys),
		csvimport.ExportToFile(path(TablePayments), ds.Payments, paymentKeys),
		csvimport.ExportToFile(path(TableExpenses), ds.Expenses, expenseKeys),
	)
}
