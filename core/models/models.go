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

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

// QuoteStatus is the lifecycle state of a quote.
type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "draft"
	QuoteSent     QuoteStatus = "sent"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRejected QuoteStatus = "rejected"
	QuoteExpired  QuoteStatus = "expired"
)

// ParseInvoiceStatus accepts the status names case-insensitively.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch st := InvoiceStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue:
		return st, nil
	}
	return "", fmt.Errorf("unknown invoice status %q", s)
}

// ParseQuoteStatus accepts the status names case-insensitively.
func ParseQuoteStatus(s string) (QuoteStatus, error) {
	switch st := QuoteStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case QuoteDraft, QuoteSent, QuoteAccepted, QuoteRejected, QuoteExpired:
		return st, nil
	}
	return "", fmt.Errorf("unknown quote status %q", s)
}

// Customer is a billed party.
type Customer struct {
	Code      string `table:"code"`
	Name      string `table:"name"`
	Email     string `table:"email"`
	City      string `table:"city"`
	VATNumber string `table:"vat_number"`
}

func (c Customer) ID() string { return c.Code }

// Invoice is an issued invoice. Number is unique and URL safe.
type Invoice struct {
	Number   string          `table:"number"`
	Customer string          `table:"customer"`
	Date     time.Time       `table:"date"`
	DueDate  time.Time       `table:"due_date"`
	Amount   decimal.Decimal `table:"amount"`
	Status   InvoiceStatus   `table:"status"`
}

func (i Invoice) ID() string { return i.Number }

// Open reports whether the invoice still waits for a payment.
func (i Invoice) Open() bool {
	return i.Status == InvoiceSent || i.Status == InvoiceOverdue
}

// Quote is an offer sent to a customer.
type Quote struct {
	Number     string          `table:"number"`
	Customer   string          `table:"customer"`
	Date       time.Time       `table:"date"`
	ValidUntil time.Time       `table:"valid_until"`
	Amount     decimal.Decimal `table:"amount"`
	Status     QuoteStatus     `table:"status"`
}

func (q Quote) ID() string { return q.Number }

// Payment is an incoming bank transfer.
type Payment struct {
	Code      string          `table:"code"`
	Date      time.Time       `table:"date"`
	Payer     string          `table:"payer"`
	Reference string          `table:"reference"` // free text from the bank statement
	Amount    decimal.Decimal `table:"amount"`
}

func (p Payment) ID() string { return p.Code }

// Expense is an outgoing cost.
type Expense struct {
	Code        string          `table:"code"`
	Date        time.Time       `table:"date"`
	Supplier    string          `table:"supplier"`
	Category    string          `table:"category"`
	Description string          `table:"description"`
	Amount      decimal.Decimal `table:"amount"`
}

func (e Expense) ID() string { return e.Code }
