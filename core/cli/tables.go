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

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/ledgerview/core/config"
	"github.com/google/ledgerview/core/export"
	"github.com/google/ledgerview/core/i18n"
	"github.com/google/ledgerview/core/logging"
	"github.com/google/ledgerview/core/models"
	"github.com/google/ledgerview/core/query"
	"github.com/google/ledgerview/core/rendering"
	"github.com/google/ledgerview/core/server"
	"github.com/google/ledgerview/core/tables"
	"github.com/google/ledgerview/core/users"
	"github.com/google/ledgerview/core/views"
	"github.com/google/ledgerview/datasources"
	"github.com/google/ledgerview/demo"
	"github.com/spf13/cobra"
)

// viewOptions are the pipeline flags shared by list and export.
type viewOptions struct {
	search   string
	sort     string
	desc     bool
	page     int
	pageSize int
}

func (o *viewOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.search, "search", "s", "", "keep rows containing this text")
	cmd.Flags().StringVar(&o.sort, "sort", "", "sort by this column")
	cmd.Flags().BoolVar(&o.desc, "desc", false, "sort descending")
}

// query builds the same query a table page URL would carry.
func (o viewOptions) query(table string) *query.Query {
	q := &query.Query{
		Path:     "/t/" + table,
		Search:   o.search,
		SortKey:  o.sort,
		Page:     max(o.page, 1),
		PageSize: o.pageSize,
	}
	if o.sort != "" {
		q.SortDir = tables.Ascending
		if o.desc {
			q.SortDir = tables.Descending
		}
	}
	return q
}

// tableRunner is the type-erased view of one ledger table.
type tableRunner interface {
	list(ctx context.Context, w io.Writer, r *rendering.TerminalRenderer, env views.Env, compact bool) error
	export(ctx context.Context, path string, q *query.Query) (int, error)
}

type tableCommand[T any] struct {
	def server.TableDef[T]
}

func (c tableCommand[T]) derive(ctx context.Context, q *query.Query, pageSize int) (tables.Result[T], error) {
	rows, err := c.def.Load(ctx)
	if err != nil {
		return tables.Result[T]{}, err
	}
	req := c.def.Config.Restrict(q.Request(pageSize))
	return tables.Derive(rows, c.def.Columns, c.def.ID, req), nil
}

func (c tableCommand[T]) list(ctx context.Context, w io.Writer, r *rendering.TerminalRenderer, env views.Env, compact bool) error {
	res, err := c.derive(ctx, env.Query, c.def.Config.EffectivePageSize())
	if err != nil {
		return err
	}
	src := c.def.Source()
	if compact {
		return r.RenderCompact(w, views.BuildCompact(src, res, env))
	}
	return r.RenderDesktop(w, views.BuildDesktop(src, res, env))
}

// export writes every row that passes the search, in sort order.
func (c tableCommand[T]) export(ctx context.Context, path string, q *query.Query) (int, error) {
	res, err := c.derive(ctx, q, 0)
	if err != nil {
		return 0, err
	}
	if err := export.WriteFile(path, c.def.Name, c.def.Columns, res.Filtered); err != nil {
		return 0, err
	}
	return len(res.Filtered), nil
}

func lookupTable(l *demo.Ledger, name string) (tableRunner, error) {
	switch name {
	case datasources.TableInvoices:
		return tableCommand[models.Invoice]{l.Invoices()}, nil
	case datasources.TableQuotes:
		return tableCommand[models.Quote]{l.Quotes()}, nil
	case datasources.TablePayments:
		return tableCommand[models.Payment]{l.Payments()}, nil
	case datasources.TableExpenses:
		return tableCommand[models.Expense]{l.Expenses()}, nil
	case datasources.TableCustomers:
		return tableCommand[models.Customer]{l.Customers()}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", datasources.ErrUnknownTable, name, strings.Join(datasources.TableNames, ", "))
	}
}

func newListCommand(a *app) *cobra.Command {
	var (
		opts    viewOptions
		compact bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:       "list <table>",
		Short:     "Print one page of a table",
		Args:      cobra.ExactArgs(1),
		ValidArgs: datasources.TableNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeLoader, err := a.ledger()
			if err != nil {
				return err
			}
			defer closeLoader()

			t, err := lookupTable(l, args[0])
			if err != nil {
				return err
			}
			env, err := terminalEnv(a.cfg, opts.query(args[0]), compact)
			if err != nil {
				return err
			}
			return t.list(cmd.Context(), cmd.OutOrStdout(), rendering.NewTerminalRenderer(!noColor), env, compact)
		},
	}

	opts.bind(cmd)
	cmd.Flags().IntVar(&opts.page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "rows per page, overrides table.page_size")
	cmd.Flags().BoolVar(&compact, "compact", false, "render cards instead of a grid")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable styling")

	return cmd
}

// terminalEnv is the builder input of a CLI run: the configured locale and
// the configured user, if any.
func terminalEnv(cfg *config.Config, q *query.Query, compact bool) (views.Env, error) {
	env := views.Env{
		Query:     q,
		Localizer: i18n.Parse(cfg.Locale),
		Window:    cfg.Table.DesktopWindow,
	}
	if compact {
		env.Window = cfg.Table.CompactWindow
	}
	if cfg.Session.User != "" {
		sessions := users.NewProvider()
		s, err := sessions.Login(cfg.Session.User, cfg.Session.Company)
		if err != nil {
			return views.Env{}, err
		}
		env.Session = s
	}
	return env, nil
}

func newExportCommand(a *app) *cobra.Command {
	var (
		opts viewOptions
		out  string
	)

	cmd := &cobra.Command{
		Use:       "export <table>",
		Short:     "Write the matching rows of a table to an XLSX workbook",
		Args:      cobra.ExactArgs(1),
		ValidArgs: datasources.TableNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeLoader, err := a.ledger()
			if err != nil {
				return err
			}
			defer closeLoader()

			t, err := lookupTable(l, args[0])
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				if err := os.MkdirAll(a.cfg.Export.Dir, 0o755); err != nil {
					return fmt.Errorf("creating export dir: %w", err)
				}
				path = filepath.Join(a.cfg.Export.Dir, export.Filename(args[0]))
			}

			n, err := t.export(cmd.Context(), path, opts.query(args[0]))
			if err != nil {
				return err
			}
			a.logger.WithComponent(logging.ComponentExport).Info("table exported",
				logging.NewFields().WithTable(args[0], n).ToSlice()...)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", n, path)
			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <export.dir>/<table>.xlsx)")

	return cmd
}
