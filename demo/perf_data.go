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
	"fmt"
	"time"

	"github.com/google/ledgerview/core/models"
	"github.com/google/ledgerview/datasources"
	"github.com/shopspring/decimal"
)

// Performance data cardinality
const (
	PERF_NUM_CUSTOMERS = 2_000
	PERF_NUM_SUPPLIERS = 150
)

var perfStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// PerfDataset generates a deterministic ledger with n invoices and matching
// volumes of the other tables, for profiling search, sort and paging.
func PerfDataset(n int) *datasources.Dataset {
	ds := &datasources.Dataset{
		Customers: make([]models.Customer, 0, PERF_NUM_CUSTOMERS),
		Invoices:  make([]models.Invoice, 0, n),
		Quotes:    make([]models.Quote, 0, n/4),
		Payments:  make([]models.Payment, 0, n/2),
		Expenses:  make([]models.Expense, 0, n/2),
	}

	cities := []string{"Torino", "Milano", "Roma", "Napoli", "Bologna", "Firenze", "Genova", "Bari"}
	for i := range PERF_NUM_CUSTOMERS {
		ds.Customers = append(ds.Customers, models.Customer{
			Code:      fmt.Sprintf("C%05d", i),
			Name:      fmt.Sprintf("Customer %d", i),
			Email:     fmt.Sprintf("billing%d@example.com", i),
			City:      cities[i%len(cities)],
			VATNumber: fmt.Sprintf("IT%011d", i),
		})
	}

	invoiceStatuses := []models.InvoiceStatus{models.InvoicePaid, models.InvoicePaid, models.InvoiceSent, models.InvoiceOverdue, models.InvoiceDraft}
	for i := range n {
		// Amounts: deterministic but varied, cents included
		amount := decimal.New(int64(1_000+(i*7919)%500_000), -2)
		date := perfStart.AddDate(0, 0, i%1_500)
		ds.Invoices = append(ds.Invoices, models.Invoice{
			Number:   fmt.Sprintf("P-%07d", i),
			Customer: ds.Customers[i%PERF_NUM_CUSTOMERS].Name,
			Date:     date,
			DueDate:  date.AddDate(0, 0, 30),
			Amount:   amount,
			Status:   invoiceStatuses[i%len(invoiceStatuses)],
		})
		if i%2 == 0 {
			ds.Payments = append(ds.Payments, models.Payment{
				Code:      fmt.Sprintf("PAY-%07d", i),
				Date:      date.AddDate(0, 0, 20),
				Payer:     ds.Customers[i%PERF_NUM_CUSTOMERS].Name,
				Reference: fmt.Sprintf("Invoice P-%07d", i),
				Amount:    amount,
			})
			ds.Expenses = append(ds.Expenses, models.Expense{
				Code:        fmt.Sprintf("EXP-%07d", i),
				Date:        date,
				Supplier:    fmt.Sprintf("Supplier %d", i%PERF_NUM_SUPPLIERS),
				Category:    []string{"office", "travel", "software", "services"}[i%4],
				Description: fmt.Sprintf("Expense %d", i),
				Amount:      decimal.New(int64(500+(i*31)%20_000), -2),
			})
		}
		if i%4 == 0 {
			ds.Quotes = append(ds.Quotes, models.Quote{
				Number:     fmt.Sprintf("Q-%07d", i),
				Customer:   ds.Customers[i%PERF_NUM_CUSTOMERS].Name,
				Date:       date.AddDate(0, 0, -10),
				ValidUntil: date.AddDate(0, 0, 20),
				Amount:     amount,
				Status:     models.QuoteAccepted,
			})
		}
	}
	return ds
}
