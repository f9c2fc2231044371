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

package demo

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/google/ledgerview/datasources"
)

//go:embed data/*.csv
var dataFS embed.FS

// DataFS returns the demo CSV files, one per table, at the root.
func DataFS() fs.FS {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		panic(fmt.Sprintf("demo data: %v", err))
	}
	return sub
}

// Dataset imports the embedded demo ledger: a small consultancy's
// customers, invoices, quotes, payments and expenses for 2024.
func Dataset() (*datasources.Dataset, error) {
	ds, err := datasources.LoadDataset(context.Background(), datasources.NewCsvLoaderFS(DataFS()))
	if err != nil {
		return nil, fmt.Errorf("failed to import demo data: %w", err)
	}
	return ds, nil
}

// MustDataset is Dataset for callers that cannot recover from broken
// embedded files.
func MustDataset() *datasources.Dataset {
	ds, err := Dataset()
	if err != nil {
		panic(err)
	}
	return ds
}
