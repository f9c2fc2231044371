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

package logging

import (
	"sort"
	"time"
)

// Field names used across the module.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUser       = "user"
	FieldTable      = "table"
	FieldRows       = "rows"
	FieldAction     = "action"
	FieldSelected   = "selected"
	FieldError      = "error"
	FieldOperation  = "operation"
)

// Fields is a builder for structured log attributes.
type Fields map[string]any

// NewFields creates an empty builder.
func NewFields() Fields {
	return make(Fields)
}

func (f Fields) WithRequest(method, path, query string) Fields {
	f[FieldMethod] = method
	f[FieldPath] = path
	if query != "" {
		f[FieldQuery] = query
	}
	return f
}

func (f Fields) WithResponse(status int, d time.Duration) Fields {
	f[FieldStatusCode] = status
	f[FieldDuration] = d.Milliseconds()
	return f
}

func (f Fields) WithTable(name string, rows int) Fields {
	f[FieldTable] = name
	f[FieldRows] = rows
	return f
}

func (f Fields) WithBulk(action string, selected int) Fields {
	f[FieldAction] = action
	f[FieldSelected] = selected
	return f
}

func (f Fields) WithOperation(op string) Fields {
	f[FieldOperation] = op
	return f
}

func (f Fields) WithError(err error) Fields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// ToSlice flattens the fields into slog key/value pairs, sorted by key.
func (f Fields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, 2*len(f))
	for _, k := range keys {
		out = append(out, k, f[k])
	}
	return out
}
