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

// Package config loads ledgerview.yaml and applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/google/ledgerview/core/logging"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Datasource kinds.
const (
	KindMemory = "memory"
	KindCSV    = "csv"
	KindSQLite = "sqlite"
)

// Config represents the top-level ledgerview.yaml configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Datasource DatasourceConfig `yaml:"datasource"`
	Table      TableConfig      `yaml:"table"`
	Locale     string           `yaml:"locale"`
	Log        LogConfig        `yaml:"log"`
	Session    SessionConfig    `yaml:"session"`
	Export     ExportConfig     `yaml:"export"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatasourceConfig selects where table rows come from.
type DatasourceConfig struct {
	Kind       string `yaml:"kind"`
	CSVDir     string `yaml:"csv_dir,omitempty"`
	SQLitePath string `yaml:"sqlite_path,omitempty"`
}

// TableConfig holds engine defaults shared by every table.
type TableConfig struct {
	PageSize      int `yaml:"page_size"`
	DesktopWindow int `yaml:"desktop_window"`
	CompactWindow int `yaml:"compact_window"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SessionConfig is the user signed in at startup. Empty means anonymous.
type SessionConfig struct {
	User    string `yaml:"user,omitempty"`
	Company string `yaml:"company,omitempty"`
}

type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Server:     ServerConfig{Addr: ":8097"},
		Datasource: DatasourceConfig{Kind: KindMemory},
		Table: TableConfig{
			PageSize:      10,
			DesktopWindow: 5,
			CompactWindow: 3,
		},
		Locale: "en",
		Log:    LogConfig{Level: "info", Format: "text"},
		Export: ExportConfig{Dir: "."},
	}
}

// Load reads path on top of Default. A missing file is not an error.
// Environment variables, including those from a .env file in the working
// directory, are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}
	_ = godotenv.Load()
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from LEDGERVIEW_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v := getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("LEDGERVIEW_ADDR", &c.Server.Addr)
	str("LEDGERVIEW_DATASOURCE", &c.Datasource.Kind)
	str("LEDGERVIEW_CSV_DIR", &c.Datasource.CSVDir)
	str("LEDGERVIEW_SQLITE_PATH", &c.Datasource.SQLitePath)
	str("LEDGERVIEW_LOCALE", &c.Locale)
	str("LEDGERVIEW_LOG_LEVEL", &c.Log.Level)
	str("LEDGERVIEW_LOG_FORMAT", &c.Log.Format)
	str("LEDGERVIEW_USER", &c.Session.User)
	str("LEDGERVIEW_COMPANY", &c.Session.Company)
	str("LEDGERVIEW_EXPORT_DIR", &c.Export.Dir)
	return errors.Join(
		num("LEDGERVIEW_PAGE_SIZE", &c.Table.PageSize),
		num("LEDGERVIEW_DESKTOP_WINDOW", &c.Table.DesktopWindow),
		num("LEDGERVIEW_COMPACT_WINDOW", &c.Table.CompactWindow),
	)
}

// Validate validates the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if _, port, err := net.SplitHostPort(c.Server.Addr); err != nil {
		problems = append(problems, fmt.Sprintf("invalid server addr %q: %v", c.Server.Addr, err))
	} else if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		problems = append(problems, fmt.Sprintf("invalid server port %q", port))
	}

	kinds := []string{KindMemory, KindCSV, KindSQLite}
	if !slices.Contains(kinds, c.Datasource.Kind) {
		problems = append(problems, fmt.Sprintf("invalid datasource kind %q: must be one of %v", c.Datasource.Kind, kinds))
	}
	if c.Datasource.Kind == KindCSV && c.Datasource.CSVDir == "" {
		problems = append(problems, "datasource.csv_dir is required for the csv datasource")
	}
	if c.Datasource.Kind == KindSQLite && c.Datasource.SQLitePath == "" {
		problems = append(problems, "datasource.sqlite_path is required for the sqlite datasource")
	}

	if c.Table.PageSize < 0 {
		problems = append(problems, fmt.Sprintf("invalid page size %d: must not be negative", c.Table.PageSize))
	}
	if c.Table.DesktopWindow < 1 {
		problems = append(problems, fmt.Sprintf("invalid desktop window %d: must be at least 1", c.Table.DesktopWindow))
	}
	if c.Table.CompactWindow < 1 {
		problems = append(problems, fmt.Sprintf("invalid compact window %d: must be at least 1", c.Table.CompactWindow))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		problems = append(problems, fmt.Sprintf("invalid log format %q: must be text or json", c.Log.Format))
	}

	if c.Session.Company != "" && strings.TrimSpace(c.Session.User) == "" {
		problems = append(problems, "session.company requires session.user")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Logging returns the logger configuration. Call after Validate.
func (c *Config) Logging() logging.Config {
	lc := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Log.Level); err == nil {
		lc.Level = level
	}
	lc.Format = c.Log.Format
	return lc
}
