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

// Package cli implements the ledgerview command line.
package cli

import (
	"fmt"

	"github.com/google/ledgerview/core/config"
	"github.com/google/ledgerview/core/logging"
	"github.com/google/ledgerview/datasources"
	"github.com/google/ledgerview/demo"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

// app is the state shared by the subcommands once flags are parsed.
type app struct {
	configPath string
	datasource string

	cfg    *config.Config
	logger *logging.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "ledgerview",
		Short:   "Browse, search and bulk-edit a small business ledger",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "ledgerview.yaml", "config file (missing is fine)")
	rootCmd.PersistentFlags().StringVar(&a.datasource, "datasource", "", "override datasource.kind (memory, csv, sqlite)")

	rootCmd.AddCommand(
		newServeCommand(a),
		newListCommand(a),
		newExportCommand(a),
		newSeedCommand(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.datasource != "" {
		cfg.Datasource.Kind = a.datasource
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	lc := cfg.Logging()
	lc.Output = cmd.ErrOrStderr()
	a.cfg = cfg
	a.logger = logging.New(lc)
	return nil
}

// ledger opens the configured datasource. The returned function closes it.
func (a *app) ledger() (*demo.Ledger, func() error, error) {
	loader, closeLoader, err := demo.OpenLoader(a.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s datasource: %w", a.cfg.Datasource.Kind, err)
	}
	m := datasources.NewManager(loader, a.logger)
	return demo.NewLedger(m, a.cfg.Table.PageSize), closeLoader, nil
}
