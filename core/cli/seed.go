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
	"fmt"

	"github.com/google/ledgerview/datasources"
	"github.com/google/ledgerview/datasources/sqlite"
	"github.com/google/ledgerview/demo"
	"github.com/spf13/cobra"
)

func newSeedCommand(a *app) *cobra.Command {
	var (
		dbPath string
		csvDir string
		perf   int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the demo ledger to a sqlite database or CSV files",
		Long: `Seed replaces the contents of the sqlite database at datasource.sqlite_path
(or --db) with the demo ledger. With --perf N a generated ledger of N
invoices is written instead. --csv also writes one CSV file per table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := seedDataset(perf)
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = a.cfg.Datasource.SQLitePath
			}
			if dbPath == "" && csvDir == "" {
				return fmt.Errorf("nothing to seed: set datasource.sqlite_path, --db or --csv")
			}

			if dbPath != "" {
				store, err := sqlite.Open(dbPath)
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.Seed(cmd.Context(), ds); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s: %s\n", dbPath, summary(ds))
			}
			if csvDir != "" {
				if err := datasources.WriteCSV(csvDir, ds); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote CSV files to %s\n", csvDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database, overrides datasource.sqlite_path")
	cmd.Flags().StringVar(&csvDir, "csv", "", "also write one CSV file per table to this directory")
	cmd.Flags().IntVar(&perf, "perf", 0, "generate a ledger with this many invoices instead of the demo data")

	return cmd
}

func seedDataset(perf int) (*datasources.Dataset, error) {
	if perf > 0 {
		return demo.PerfDataset(perf), nil
	}
	return demo.Dataset()
}

func summary(ds *datasources.Dataset) string {
	return fmt.Sprintf("%d invoices, %d quotes, %d payments, %d expenses, %d customers",
		len(ds.Invoices), len(ds.Quotes), len(ds.Payments), len(ds.Expenses), len(ds.Customers))
}
