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

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgerview.yaml")

	cfg := Default()
	cfg.Datasource = DatasourceConfig{Kind: KindSQLite, SQLitePath: "data/ledger.db"}
	cfg.Table.PageSize = 25
	cfg.Session = SessionConfig{User: "anna", Company: "Acme Srl"}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, KindSQLite, loaded.Datasource.Kind)
	assert.Equal(t, "data/ledger.db", loaded.Datasource.SQLitePath)
	assert.Equal(t, 25, loaded.Table.PageSize)
	assert.Equal(t, 5, loaded.Table.DesktopWindow, "unset keys keep defaults")
	assert.Equal(t, "anna", loaded.Session.User)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Server, cfg.Server)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("table: [1, 2"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"LEDGERVIEW_DATASOURCE": "csv",
		"LEDGERVIEW_CSV_DIR":    "/srv/data",
		"LEDGERVIEW_PAGE_SIZE":  "50",
		"LEDGERVIEW_LOCALE":     "it",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, KindCSV, cfg.Datasource.Kind)
	assert.Equal(t, "/srv/data", cfg.Datasource.CSVDir)
	assert.Equal(t, 50, cfg.Table.PageSize)
	assert.Equal(t, "it", cfg.Locale)

	env["LEDGERVIEW_PAGE_SIZE"] = "many"
	assert.ErrorContains(t, Default().ApplyEnv(func(k string) string { return env[k] }), "LEDGERVIEW_PAGE_SIZE")
}

func TestValidateAggregatesProblems(t *testing.T) {
	cfg := Default()
	cfg.Server.Addr = "nope"
	cfg.Datasource.Kind = "mongo"
	cfg.Table.CompactWindow = 0
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"server addr", "datasource kind", "compact window", "log format"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidateDatasourcePaths(t *testing.T) {
	cfg := Default()
	cfg.Datasource.Kind = KindCSV
	assert.ErrorContains(t, cfg.Validate(), "csv_dir")

	cfg.Datasource = DatasourceConfig{Kind: KindSQLite}
	assert.ErrorContains(t, cfg.Validate(), "sqlite_path")
}

func TestLoggingConfig(t *testing.T) {
	cfg := Default()
	cfg.Log = LogConfig{Level: "debug", Format: "json"}
	lc := cfg.Logging()
	assert.Equal(t, slog.LevelDebug, lc.Level)
	assert.Equal(t, "json", lc.Format)
}
