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
	"net/url"
	"time"

	"github.com/google/ledgerview/core/columns"
	"github.com/google/ledgerview/core/models"
	"github.com/google/ledgerview/datasources"
	"github.com/shopspring/decimal"
)

// money renders amounts with two decimals.
func money[T any](v any, _ T) string {
	d, ok := v.(decimal.Decimal)
	if !ok {
		return ""
	}
	return d.StringFixed(2)
}

// shortMoney is the compact card variant of money.
func shortMoney(d decimal.Decimal) string {
	return "€ " + d.StringFixed(2)
}

func shortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan")
}

func viewControl(href string) columns.Control {
	return columns.Control{Name: "view", Label: "View", Href: href}
}

func rowHref(table, id string) string {
	return "/t/" + table + "/" + url.PathEscape(id)
}

// InvoiceColumns describes the invoices table.
func InvoiceColumns() *columns.Set[models.Invoice] {
	return columns.MustSet[models.Invoice](
		&columns.DataColumn[models.Invoice]{Name: "number", Title: "Number", Sortable: true, Tier: columns.PriorityHigh},
		&columns.DataColumn[models.Invoice]{Name: "customer", Title: "Customer", Sortable: true, Tier: columns.PriorityHigh},
		&columns.DataColumn[models.Invoice]{Name: "date", Title: "Date", Sortable: true, Tier: columns.PriorityMedium,
			MobileRender: func(inv models.Invoice) string { return shortDate(inv.Date) }},
		&columns.DataColumn[models.Invoice]{Name: "due_date", Title: "Due date", Sortable: true, Tier: columns.PriorityLow},
		&columns.DataColumn[models.Invoice]{Name: "amount", Title: "Amount", Sortable: true, Summable: true, Tier: columns.PriorityMedium,
			Render:       money[models.Invoice],
			MobileRender: func(inv models.Invoice) string { return shortMoney(inv.Amount) }},
		&columns.DataColumn[models.Invoice]{Name: "status", Title: "Status", Sortable: true, Tier: columns.PriorityMedium},
		&columns.ActionColumn[models.Invoice]{Controls: func(inv models.Invoice) []columns.Control {
			return []columns.Control{viewControl(rowHref(datasources.TableInvoices, inv.Number))}
		}},
	)
}

// QuoteColumns describes the quotes table.
func QuoteColumns() *columns.Set[models.Quote] {
	return columns.MustSet[models.Quote](
		&columns.DataColumn[models.Quote]{Name: "number", Title: "Number", Sortable: true, Tier: columns.PriorityHigh},
		&columns.DataColumn[models.Quote]{Name: "customer", Title: "Customer", Sortable: true, Tier: columns.PriorityHigh},
		&columns.DataColumn[models.Quote]{Name: "date", Title: "Date", Sortable: true, Tier: columns.PriorityMedium},
		&columns.DataColumn[models.Quote]{Name: "valid_until", Title: "Valid until", Sortable: true, Tier: columns.PriorityLow},
		&columns.DataColumn[models.Quote]{Name: "amount", Title: "Amount", Sortable: true, Summable: true, Tier: columns.PriorityMedium,
			Render:       money[models.Quote],
			MobileRender: func(q models.Quote) string { return shortMoney(q.Amount) }},
		&columns.DataColumn[models.Quote]{Name: "status", Title: "Status", Sortable: true, Tier: columns.PriorityMedium},
	)
}

// CustomerColumns describes the customers table.
func CustomerColumns() *columns.Set[models.Customer] {
	return columns.MustSet[models.Customer](
		&columns.DataColumn[models.Customer]{Name: "code", Title: "Code", Sortable: true, Tier: columns.PriorityLow},
		&columns.DataColumn[models.Customer]{Name: "name", Title: "Name", Sortable: true, Tier: columns.PriorityHigh},
		&columns.DataColumn[models.Customer]{Name: "email", Title: "Email", Tier: columns.PriorityMedium},
		&columns.DataColumn[models.Customer]{Name: "city", Title: "City", Sortable: true, Tier: columns.PriorityMedium},
		&columns.DataColumn[models.Customer]{Name: "vat_number", Title: "VAT number"},
	)
}

// PaymentColumns describes the payments table. Every row links to the open
// invoices its reference mentions.
func PaymentColumns() *columns.Set[models.Payment] {
	return columns.MustSet[models.Payment](
		&columns.DataColumn[models.Payment]{Name: "code", Title: "Code", Sortable: true, Tier: columns.PriorityLow},
		&columns.DataColumn[models.Payment]{Name: "date", Title: "Date", Sortable: true, Tier: columns.PriorityMedium,
			MobileRender: func(p models.Payment) string { return shortDate(p.Date) }},
		&columns.DataColumn[models.Payment]{Name: "payer", Title: "Payer", Sortable: true, Tier: columns.PriorityHigh},
		&columns.DataColumn[models.Payment]{Name: "reference", Title: "Reference", Tier: columns.PriorityMedium},
		&columns.DataColumn[models.Payment]{Name: "amount", Title: "Amount", Sortable: true, Summable: true, Tier: columns.PriorityHigh,
			Render:       money[models.Payment],
			MobileRender: func(p models.Payment) string { return shortMoney(p.Amount) }},
		&columns.ActionColumn[models.Payment]{Controls: func(p models.Payment) []columns.Control {
			return []columns.Control{
				viewControl(rowHref(datasources.TablePayments, p.Code)),
				{Name: "match", Label: "Match", Href: MatchPath(p.Code)},
			}
		}},
	)
}

// ExpenseColumns describes the expenses table.
func ExpenseColumns() *columns.Set[models.Expense] {
	return columns.MustSet[models.Expense](
		&columns.DataColumn[models.Expense]{Name: "code", Title: "Code", Sortable: true},
		&columns.DataColumn[models.Expense]{Name: "date", Title: "Date", Sortable: true, Tier: columns.PriorityMedium,
			MobileRender: func(e models.Expense) string { return shortDate(e.Date) }},
		&columns.DataColumn[models.Expense]{Name: "supplier", Title: "Supplier", Sortable: true, Tier: columns.PriorityHigh},
		&columns.DataColumn[models.Expense]{Name: "category", Title: "Category", Sortable: true, Tier: columns.PriorityMedium},
		&columns.DataColumn[models.Expense]{Name: "description", Title: "Description", Tier: columns.PriorityLow},
		&columns.DataColumn[models.Expense]{Name: "amount", Title: "Amount", Sortable: true, Summable: true, Tier: columns.PriorityHigh,
			Render:       money[models.Expense],
			MobileRender: func(e models.Expense) string { return shortMoney(e.Amount) }},
	)
}

// MatchPath is the page listing the invoice candidates of a payment.
func MatchPath(paymentCode string) string {
	return "/payments/" + url.PathEscape(paymentCode) + "/match"
}
