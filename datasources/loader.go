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

// Package datasources provides a unified interface for loading the ledger
// tables from memory, CSV files or SQLite, with a lazily filled cache in
// front of them.
package datasources

import (
	"context"
	"errors"

	"github.com/google/ledgerview/core/models"
)

// Table names shared by every loader.
const (
	TableCustomers = "customers"
	TableInvoices  = "invoices"
	TableQuotes    = "quotes"
	TablePayments  = "payments"
	TableExpenses  = "expenses"
)

// TableNames lists the ledger tables in landing page order.
var TableNames = []string{TableInvoices, TableQuotes, TablePayments, TableExpenses, TableCustomers}

var (
	// ErrUnknownTable is returned for a table name no loader serves.
	ErrUnknownTable = errors.New("unknown table")
)

// Dataset holds every ledger table.
type Dataset struct {
	Customers []models.Customer
	Invoices  []models.Invoice
	Quotes    []models.Quote
	Payments  []models.Payment
	Expenses  []models.Expense
}

// Loader is the interface that all data source loaders must implement.
// ledgerview provides loaders for "memory", "csv" and "sqlite".
type Loader interface {
	// SourceType returns the type identifier used in config.
	SourceType() string

	Customers(ctx context.Context) ([]models.Customer, error)
	Invoices(ctx context.Context) ([]models.Invoice, error)
	Quotes(ctx context.Context) ([]models.Quote, error)
	Payments(ctx context.Context) ([]models.Payment, error)
	Expenses(ctx context.Context) ([]models.Expense, error)
}

// Writer is implemented by loaders that persist bulk changes. Loaders
// without it only see changes in the Manager cache.
type Writer interface {
	SetInvoiceStatus(ctx context.Context, numbers []string, status models.InvoiceStatus) error
	Delete(ctx context.Context, table string, ids []string) error
}

// LoadDataset reads every table from l.
func LoadDataset(ctx context.Context, l Loader) (*Dataset, error) {
	var (
		ds  Dataset
		err error
	)
	if ds.Customers, err = l.Customers(ctx); err != nil {
		return nil, err
	}
	if ds.Invoices, err = l.Invoices(ctx); err != nil {
		return nil, err
	}
	if ds.Quotes, err = l.Quotes(ctx); err != nil {
		return nil, err
	}
	if ds.Payments, err = l.Payments(ctx); err != nil {
		return nil, err
	}
	if ds.Expenses, err = l.Expenses(ctx); err != nil {
		return nil, err
	}
	return &ds, nil
}
