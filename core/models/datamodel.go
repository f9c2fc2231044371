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
	"sort"
	"sync"

	"github.com/google/ledgerview/core/columns"
)

// Column kinds in ColumnInfo.Kind.
const (
	KindData    = "data"
	KindActions = "actions"
)

// ColumnInfo describes one column of a registered table.
type ColumnInfo struct {
	Table    string `table:"table_name"`
	Column   string `table:"column_name"`
	Label    string `table:"display_name"`
	Kind     string `table:"kind"`
	Sortable bool   `table:"sortable"`
	Summable bool   `table:"summable"`
	Priority string `table:"priority"`
	Position int    `table:"position"`
}

func (c ColumnInfo) ID() string { return c.Table + "." + c.Column }

// Describe lists the columns of set in display order.
func Describe[T any](table string, set *columns.Set[T]) []ColumnInfo {
	out := make([]ColumnInfo, 0, set.Len())
	for i, col := range set.All() {
		info := ColumnInfo{
			Table:    table,
			Column:   col.Key(),
			Label:    col.Label(),
			Priority: col.Priority().String(),
			Position: i,
		}
		switch c := col.(type) {
		case *columns.DataColumn[T]:
			info.Kind = KindData
			info.Sortable = c.Sortable
			info.Summable = c.Summable
		case *columns.ActionColumn[T]:
			info.Kind = KindActions
		}
		out = append(out, info)
	}
	return out
}

// DataModel records the column layout of every registered table.
type DataModel struct {
	mu sync.RWMutex
	// table name -> columns in display order
	tables map[string][]ColumnInfo
}

// NewDataModel creates a new DataModel instance
func NewDataModel() *DataModel {
	return &DataModel{
		tables: make(map[string][]ColumnInfo),
	}
}

// AddTable records the columns of a table, replacing any earlier entry.
func AddTable[T any](dm *DataModel, name string, set *columns.Set[T]) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.tables[name] = Describe(name, set)
}

// Columns returns the columns of a table, or nil when it is unknown.
func (dm *DataModel) Columns(name string) []ColumnInfo {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.tables[name]
}

// TableNames returns the registered table names, sorted.
func (dm *DataModel) TableNames() []string {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	names := make([]string, 0, len(dm.tables))
	for name := range dm.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
