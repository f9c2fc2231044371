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

// Package columns declares the column descriptors a table view is built from.
// A descriptor set is pure metadata: the engine reads rows only through it.
package columns

import (
	"errors"
	"fmt"
	"strings"
)

// ActionsKey is the key every ActionColumn reports.
const ActionsKey = "actions"

var (
	ErrDuplicateKey = errors.New("duplicate column key")
	ErrEmptyKey     = errors.New("empty column key")
	ErrNilColumn    = errors.New("nil column")
)

// Priority decides where a column shows up in the compact card layout.
type Priority int

const (
	PriorityNone   Priority = iota // desktop only
	PriorityHigh                   // card header
	PriorityMedium                 // card detail grid
	PriorityLow                    // never shown on compact
)

// String returns the config spelling of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return ""
	}
}

// ParsePriority parses "high", "medium", "low" or "" (none).
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityNone, nil
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	}
	return PriorityNone, fmt.Errorf("unknown priority %q", s)
}

// Column is either a *DataColumn[T] or an *ActionColumn[T].
type Column[T any] interface {
	Key() string
	Label() string
	Priority() Priority
	isColumn()
}

// DataColumn reads one field of a row.
type DataColumn[T any] struct {
	Name     string // sort key, and the field read when Value is nil
	Title    string
	Sortable bool
	Tier     Priority

	// Summable columns get a total over the filtered rows in the desktop footer.
	Summable bool

	// Value reads the raw field. When nil the field named Name is looked up
	// by reflection.
	Value func(row T) any

	// Render turns the raw value into cell text. Defaults to Stringify.
	Render func(value any, row T) string

	// MobileRender overrides Render in the compact layout only.
	MobileRender func(row T) string
}

func (c *DataColumn[T]) Key() string        { return c.Name }
func (c *DataColumn[T]) Label() string      { return labelOr(c.Title, c.Name) }
func (c *DataColumn[T]) Priority() Priority { return c.Tier }
func (c *DataColumn[T]) isColumn()          {}

// Raw returns the raw field value, or nil when the field does not exist.
func (c *DataColumn[T]) Raw(row T) any {
	if c.Value != nil {
		return c.Value(row)
	}
	return FieldValue(row, c.Name)
}

// Text returns the desktop cell text.
func (c *DataColumn[T]) Text(row T) string {
	v := c.Raw(row)
	if c.Render != nil {
		return c.Render(v, row)
	}
	return Stringify(v)
}

// MobileText returns the compact cell text: MobileRender, then Render, then
// plain stringification.
func (c *DataColumn[T]) MobileText(row T) string {
	if c.MobileRender != nil {
		return c.MobileRender(row)
	}
	return c.Text(row)
}

// Control is an interactive element rendered inside an actions cell.
type Control struct {
	Name   string // view, edit, delete, match...
	Label  string
	Href   string
	Method string // GET when empty
	Danger bool
}

// ActionColumn renders per-row controls. It never takes part in search or sort.
type ActionColumn[T any] struct {
	Title    string
	Tier     Priority
	Controls func(row T) []Control
}

func (c *ActionColumn[T]) Key() string        { return ActionsKey }
func (c *ActionColumn[T]) Label() string      { return c.Title }
func (c *ActionColumn[T]) Priority() Priority { return c.Tier }
func (c *ActionColumn[T]) isColumn()          {}

// For returns the controls of a row, never nil.
func (c *ActionColumn[T]) For(row T) []Control {
	if c.Controls == nil {
		return []Control{}
	}
	controls := c.Controls(row)
	if controls == nil {
		return []Control{}
	}
	return controls
}

func labelOr(label, key string) string {
	if label != "" {
		return label
	}
	return key
}
