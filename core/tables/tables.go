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

// Package tables is the client-side table engine: search, sort, paginate and
// bulk-select over an in-memory row collection. The pipeline always runs in
// that order and is recomputed from scratch on every state change.
package tables

import "errors"

var (
	ErrNoIdentity = errors.New("row identity accessor is required")
	ErrNilColumns = errors.New("column set is required")
)

// DefaultPageSize is used when pagination is enabled without a page size.
const DefaultPageSize = 10

// Config holds the host-facing switches of a table view.
type Config struct {
	Searchable         bool
	SearchPlaceholder  string
	PaginationEnabled  bool
	PageSize           int
	BulkActionsEnabled bool
	BulkActions        []string
}

// DefaultConfig returns a searchable, paginated table without bulk actions.
func DefaultConfig() Config {
	return Config{
		Searchable:        true,
		SearchPlaceholder: "Search...",
		PaginationEnabled: true,
		PageSize:          DefaultPageSize,
	}
}

// EffectivePageSize is the page size the slicer uses: 0 (one page) when
// pagination is off.
func (c Config) EffectivePageSize() int {
	if !c.PaginationEnabled {
		return 0
	}
	if c.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.PageSize
}

// Restrict applies the switches to a user request: the term is dropped when
// search is off and everything fits one page when pagination is off.
func (c Config) Restrict(req Request) Request {
	if !c.Searchable {
		req.Term = ""
	}
	if !c.PaginationEnabled {
		req.PageSize = 0
	}
	return req
}
