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
	"github.com/google/ledgerview/core/columns"
)

// System table name constants
const (
	ColumnsTableName = "_columns"
)

// BuildColumnsTable returns the rows of the _columns system table: one row
// per column of every non-system table, tables sorted by name and columns
// in display order.
func BuildColumnsTable(dm *DataModel) []ColumnInfo {
	var rows []ColumnInfo
	for _, name := range dm.TableNames() {
		if IsSystemTable(name) {
			continue
		}
		rows = append(rows, dm.Columns(name)...)
	}
	return rows
}

// ColumnsTableColumns is the column set used to browse _columns.
func ColumnsTableColumns() *columns.Set[ColumnInfo] {
	return columns.MustSet[ColumnInfo](
		&columns.DataColumn[ColumnInfo]{Name: "table_name", Title: "Table", Sortable: true, Tier: columns.PriorityHigh},
		&columns.DataColumn[ColumnInfo]{Name: "column_name", Title: "Column", Sortable: true, Tier: columns.PriorityHigh},
		&columns.DataColumn[ColumnInfo]{Name: "display_name", Title: "Display Name", Sortable: true, Tier: columns.PriorityMedium},
		&columns.DataColumn[ColumnInfo]{Name: "kind", Title: "Kind", Sortable: true, Tier: columns.PriorityMedium},
		&columns.DataColumn[ColumnInfo]{Name: "sortable", Title: "Sortable", Sortable: true},
		&columns.DataColumn[ColumnInfo]{Name: "summable", Title: "Summable", Sortable: true},
		&columns.DataColumn[ColumnInfo]{Name: "priority", Title: "Priority", Sortable: true, Tier: columns.PriorityLow},
		&columns.DataColumn[ColumnInfo]{Name: "position", Title: "Position", Sortable: true},
	)
}

// IsSystemTable returns true if the table name is a system table
func IsSystemTable(name string) bool {
	return name == ColumnsTableName
}
