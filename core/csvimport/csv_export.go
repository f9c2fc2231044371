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

package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/google/ledgerview/core/columns"
)

// ExportToWriter writes a header of keys and one record per row. Cells use
// columns.Stringify, so the output reads back with ImportFromReader.
func ExportToWriter[T any](w io.Writer, rows []T, keys []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(keys); err != nil {
		return err
	}
	record := make([]string, len(keys))
	for _, row := range rows {
		for i, key := range keys {
			record[i] = columns.Stringify(columns.FieldValue(row, key))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportToFile writes rows to path, replacing the file.
func ExportToFile[T any](path string, rows []T, keys []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := ExportToWriter(f, rows, keys); err != nil {
		f.Close()
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return f.Close()
}
