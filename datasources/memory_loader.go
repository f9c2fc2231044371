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
	"fmt"
	"slices"
	"sync"

	"github.com/google/ledgerview/core/models"
)

// MemoryLoader serves a Dataset held in memory. It is a Writer.
type MemoryLoader struct {
	mu   sync.RWMutex
	data Dataset
}

// NewMemoryLoader copies ds into a new loader.
func NewMemoryLoader(ds Dataset) *MemoryLoader {
	return &MemoryLoader{data: Dataset{
		Customers: slices.Clone(ds.Customers),
		Invoices:  slices.Clone(ds.Invoices),
		Quotes:    slices.Clone(ds.Quotes),
		Payments:  slices.Clone(ds.Payments),
		Expenses:  slices.Clone(ds.Expenses),
	}}
}

// SourceType returns "memory".
func (l *MemoryLoader) SourceType() string { return "memory" }

func (l *MemoryLoader) Customers(ctx context.Context) ([]models.Customer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.data.Customers), nil
}

func (l *MemoryLoader) Invoices(ctx context.Context) ([]models.Invoice, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.data.Invoices), nil
}

func (l *MemoryLoader) Quotes(ctx context.Context) ([]models.Quote, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.data.Quotes), nil
}

func (l *MemoryLoader) Payments(ctx context.Context) ([]models.Payment, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.data.Payments), nil
}

func (l *MemoryLoader) Expenses(ctx context.Context) ([]models.Expense, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.data.Expenses), nil
}

// SetInvoiceStatus implements Writer.
func (l *MemoryLoader) SetInvoiceStatus(ctx context.Context, numbers []string, status models.InvoiceStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.data.Invoices {
		if slices.Contains(numbers, l.data.Invoices[i].Number) {
			l.data.Invoices[i].Status = status
		}
	}
	return nil
}

// Delete implements Writer.
func (l *MemoryLoader) Delete(ctx context.Context, table string, ids []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch table {
	case TableCustomers:
		l.data.Customers = without(l.data.Customers, ids, models.Customer.ID)
	case TableInvoices:
		l.data.Invoices = without(l.data.Invoices, ids, models.Invoice.ID)
	case TableQuotes:
		l.data.Quotes = without(l.data.Quotes, ids, models.Quote.ID)
	case TablePayments:
		l.data.Payments = without(l.data.Payments, ids, models.Payment.ID)
	case TableExpenses:
		l.data.Expenses = without(l.data.Expenses, ids, models.Expense.ID)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return nil
}

func without[T any](rows []T, ids []string, id func(T) string) []T {
	return slices.DeleteFunc(rows, func(row T) bool {
		return slices.Contains(ids, id(row))
	})
}
