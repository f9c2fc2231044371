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

package tables

import (
	"strings"

	"github.com/google/ledgerview/core/columns"
)

// Filter returns the rows for which at least one data column's raw value,
// stringified and lower-cased, contains the lower-cased term.
//
// A blank term returns rows itself. nil values never match. Action columns
// are not searched. The relative order of rows is preserved.
func Filter[T any](rows []T, set *columns.Set[T], term string) []T {
	if strings.TrimSpace(term) == "" {
		return rows
	}
	needle := strings.ToLower(term)

	result := make([]T, 0, len(rows))
	for _, row := range rows {
		if Matches(row, set, needle) {
			result = append(result, row)
		}
	}
	return result
}

// Matches reports whether any data column of row contains needle, which must
// already be lower-cased.
func Matches[T any](row T, set *columns.Set[T], needle string) bool {
	for _, col := range set.Data() {
		v := col.Raw(row)
		if columns.IsNil(v) {
			continue
		}
		if strings.Contains(strings.ToLower(columns.Stringify(v)), needle) {
			return true
		}
	}
	return false
}
