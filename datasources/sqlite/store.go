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

// Package sqlite stores the ledger tables in a SQLite file. Amounts are kept
// as decimal text and dates as 2006-01-02 text.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/ledgerview/core/models"
	"github.com/google/ledgerview/datasources"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

// keyColumns maps each table to its primary key column.
var keyColumns = map[string]string{
	datasources.TableCustomers: "code",
	datasources.TableInvoices:  "number",
	datasources.TableQuotes:    "number",
	datasources.TablePayments:  "code",
	datasources.TableExpenses:  "code",
}

// Store is a datasources.Loader and datasources.Writer backed by SQLite.
type Store struct {
	db *sql.DB
}

var (
	_ datasources.Loader = (*Store)(nil)
	_ datasources.Writer = (*Store)(nil)
)

// Open opens or creates the database at path and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(path); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SourceType returns "sqlite".
func (s *Store) SourceType() string { return "sqlite" }

func (s *Store) Customers(ctx context.Context) ([]models.Customer, error) {
	return query(ctx, s.db, `SELECT code, name, email, city, vat_number FROM customers ORDER BY rowid`,
		func(rows *sql.Rows) (models.Customer, error) {
			var c models.Customer
			err := rows.Scan(&c.Code, &c.Name, &c.Email, &c.City, &c.VATNumber)
			return c, err
		})
}

func (s *Store) Invoices(ctx context.Context) ([]models.Invoice, error) {
	return query(ctx, s.db, `SELECT number, customer, date, due_date, amount, status FROM invoices ORDER BY rowid`,
		func(rows *sql.Rows) (models.Invoice, error) {
			var (
				inv                   models.Invoice
				date, due, amt, state string
			)
			if err := rows.Scan(&inv.Number, &inv.Customer, &date, &due, &amt, &state); err != nil {
				return inv, err
			}
			var err error
			if inv.Date, err = parseDate(date); err != nil {
				return inv, err
			}
			if inv.DueDate, err = parseDate(due); err != nil {
				return inv, err
			}
			if inv.Amount, err = decimal.NewFromString(amt); err != nil {
				return inv, fmt.Errorf("invoice %s amount: %w", inv.Number, err)
			}
			inv.Status, err = models.ParseInvoiceStatus(state)
			return inv, err
		})
}

func (s *Store) Quotes(ctx context.Context) ([]models.Quote, error) {
	return query(ctx, s.db, `SELECT number, customer, date, valid_until, amount, status FROM quotes ORDER BY rowid`,
		func(rows *sql.Rows) (models.Quote, error) {
			var (
				q                       models.Quote
				date, until, amt, state string
			)
			if err := rows.Scan(&q.Number, &q.Customer, &date, &until, &amt, &state); err != nil {
				return q, err
			}
			var err error
			if q.Date, err = parseDate(date); err != nil {
				return q, err
			}
			if q.ValidUntil, err = parseDate(until); err != nil {
				return q, err
			}
			if q.Amount, err = decimal.NewFromString(amt); err != nil {
				return q, fmt.Errorf("quote %s amount: %w", q.Number, err)
			}
			q.Status, err = models.ParseQuoteStatus(state)
			return q, err
		})
}

func (s *Store) Payments(ctx context.Context) ([]models.Payment, error) {
	return query(ctx, s.db, `SELECT code, date, payer, reference, amount FROM payments ORDER BY rowid`,
		func(rows *sql.Rows) (models.Payment, error) {
			var (
				p         models.Payment
				date, amt string
			)
			if err := rows.Scan(&p.Code, &date, &p.Payer, &p.Reference, &amt); err != nil {
				return p, err
			}
			var err error
			if p.Date, err = parseDate(date); err != nil {
				return p, err
			}
			if p.Amount, err = decimal.NewFromString(amt); err != nil {
				return p, fmt.Errorf("payment %s amount: %w", p.Code, err)
			}
			return p, nil
		})
}

func (s *Store) Expenses(ctx context.Context) ([]models.Expense, error) {
	return query(ctx, s.db, `SELECT code, date, supplier, category, description, amount FROM expenses ORDER BY rowid`,
		func(rows *sql.Rows) (models.Expense, error) {
			var (
				e         models.Expense
				date, amt string
			)
			if err := rows.Scan(&e.Code, &date, &e.Supplier, &e.Category, &e.Description, &amt); err != nil {
				return e, err
			}
			var err error
			if e.Date, err = parseDate(date); err != nil {
				return e, err
			}
			if e.Amount, err = decimal.NewFromString(amt); err != nil {
				return e, fmt.Errorf("expense %s amount: %w", e.Code, err)
			}
			return e, nil
		})
}

// SetInvoiceStatus implements datasources.Writer.
func (s *Store) SetInvoiceStatus(ctx context.Context, numbers []string, status models.InvoiceStatus) error {
	if len(numbers) == 0 {
		return nil
	}
	args := make([]any, 0, len(numbers)+1)
	args = append(args, string(status))
	for _, n := range numbers {
		args = append(args, n)
	}
	stmt := `UPDATE invoices SET status = ? WHERE number IN (` + placeholders(len(numbers)) + `)`
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return nil
}

// Delete implements datasources.Writer.
func (s *Store) Delete(ctx context.Context, table string, ids []string) error {
	key, ok := keyColumns[table]
	if !ok {
		return fmt.Errorf("%w: %q", datasources.ErrUnknownTable, table)
	}
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	stmt := `DELETE FROM ` + table + ` WHERE ` + key + ` IN (` + placeholders(len(ids)) + `)`
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return nil
}

// Seed replaces the content of every table with ds in one transaction.
func (s *Store) Seed(ctx context.Context, ds *datasources.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, table := range datasources.TableNames {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for _, c := range ds.Customers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO customers (code, name, email, city, vat_number) VALUES (?, ?, ?, ?, ?)`,
			c.Code, c.Name, c.Email, c.City, c.VATNumber); err != nil {
			return fmt.Errorf("insert customer %s: %w", c.Code, err)
		}
	}
	for _, inv := range ds.Invoices {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO invoices (number, customer, date, due_date, amount, status) VALUES (?, ?, ?, ?, ?, ?)`,
			inv.Number, inv.Customer, formatDate(inv.Date), formatDate(inv.DueDate), inv.Amount.String(), string(inv.Status)); err != nil {
			return fmt.Errorf("insert invoice %s: %w", inv.Number, err)
		}
	}
	for _, q := range ds.Quotes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO quotes (number, customer, date, valid_until, amount, status) VALUES (?, ?, ?, ?, ?, ?)`,
			q.Number, q.Customer, formatDate(q.Date), formatDate(q.ValidUntil), q.Amount.String(), string(q.Status)); err != nil {
			return fmt.Errorf("insert quote %s: %w", q.Number, err)
		}
	}
	for _, p := range ds.Payments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO payments (code, date, payer, reference, amount) VALUES (?, ?, ?, ?, ?)`,
			p.Code, formatDate(p.Date), p.Payer, p.Reference, p.Amount.String()); err != nil {
			return fmt.Errorf("insert payment %s: %w", p.Code, err)
		}
	}
	for _, e := range ds.Expenses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (code, date, supplier, category, description, amount) VALUES (?, ?, ?, ?, ?, ?)`,
			e.Code, formatDate(e.Date), e.Supplier, e.Category, e.Description, e.Amount.String()); err != nil {
			return fmt.Errorf("insert expense %s: %w", e.Code, err)
		}
	}
	return tx.Commit()
}

func query[T any](ctx context.Context, db *sql.DB, stmt string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
