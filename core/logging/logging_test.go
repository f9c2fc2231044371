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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLogger(buf *bytes.Buffer) *Logger {
	return New(Config{Level: slog.LevelDebug, Component: ComponentServer, Format: "json", Output: buf})
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoggerComponent(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf)
	assert.Equal(t, ComponentServer, l.Component())

	l.Info("hello", NewFields().WithTable("invoices", 3).ToSlice()...)
	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "server", got[0][FieldComponent])
	assert.Equal(t, "invoices", got[0][FieldTable])
	assert.EqualValues(t, 3, got[0][FieldRows])

	child := l.WithComponent(ComponentExport)
	assert.Equal(t, ComponentExport, child.Component())
	assert.Equal(t, ComponentExport, child.With("k", "v").Component())
}

func TestFieldsToSliceIsSorted(t *testing.T) {
	f := NewFields().WithBulk("export", 2).WithError(errors.New("boom")).WithOperation("bulk")
	assert.Equal(t, []any{
		FieldAction, "export",
		FieldError, "boom",
		FieldOperation, "bulk",
		FieldSelected, 2,
	}, f.ToSlice())

	assert.NotContains(t, NewFields().WithError(nil), FieldError)
}

func TestFromContextFallsBack(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	assert.Equal(t, "unknown", l.Component())

	mine := Discard()
	assert.Same(t, mine, FromContext(NewContext(context.Background(), mine)))
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	h := Middleware(jsonLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Debug("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/t/invoices?q=acme", nil))

	id := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)

	got := lines(t, &buf)
	require.Len(t, got, 2)
	assert.Equal(t, id, got[0][FieldRequestID], "handler logs carry the request id")
	assert.Equal(t, "WARN", got[1]["level"])
	assert.EqualValues(t, http.StatusTeapot, got[1][FieldStatusCode])
	assert.Equal(t, "/t/invoices", got[1][FieldPath])
	assert.Equal(t, "q=acme", got[1][FieldQuery])
}

func TestMiddlewareKeepsIncomingRequestID(t *testing.T) {
	h := Middleware(Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}
