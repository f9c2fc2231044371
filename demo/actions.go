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

	"github.com/google/ledgerview/core/models"
	"github.com/google/ledgerview/core/server"
	"github.com/google/ledgerview/datasources"
)

// Bulk action names.
const (
	ActionExport   = "export"
	ActionMarkPaid = "mark_paid"
	ActionMarkSent = "mark_sent"
	ActionDelete   = "delete"
)

// deleteAction removes the selected rows of table through the manager.
func deleteAction[T any](m *datasources.Manager, table string, id func(T) string) server.BulkAction[T] {
	return server.BulkAction[T]{
		Name:  ActionDelete,
		Label: "Delete",
		Run: func(ctx context.Context, rows []T) (server.BulkResult, error) {
			ids := make([]string, len(rows))
			for i, row := range rows {
				ids[i] = id(row)
			}
			n, err := m.Delete(ctx, table, ids)
			if err != nil {
				return server.BulkResult{}, err
			}
			return server.BulkResult{Notice: "%d rows deleted", NoticeArgs: []any{n}}, nil
		},
	}
}

func invoiceStatusAction(m *datasources.Manager, name, label string, status models.InvoiceStatus, notice string) server.BulkAction[models.Invoice] {
	return server.BulkAction[models.Invoice]{
		Name:  name,
		Label: label,
		Run: func(ctx context.Context, rows []models.Invoice) (server.BulkResult, error) {
			numbers := make([]string, len(rows))
			for i, inv := range rows {
				numbers[i] = inv.Number
			}
			n, err := m.SetInvoiceStatus(ctx, numbers, status)
			if err != nil {
				return server.BulkResult{}, err
			}
			return server.BulkResult{Notice: notice, NoticeArgs: []any{n}}, nil
		},
	}
}

// invoiceActions are the bulk actions of the invoices table.
func invoiceActions(m *datasources.Manager) []server.BulkAction[models.Invoice] {
	return []server.BulkAction[models.Invoice]{
		server.ExportAction(datasources.TableInvoices, InvoiceColumns()),
		invoiceStatusAction(m, ActionMarkPaid, "Mark paid", models.InvoicePaid, "%d invoices marked paid"),
		invoiceStatusAction(m, ActionMarkSent, "Mark sent", models.InvoiceSent, "%d invoices marked sent"),
		deleteAction(m, datasources.TableInvoices, models.Invoice.ID),
	}
}
