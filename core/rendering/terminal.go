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

package rendering

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/ledgerview/core/views"
)

// TerminalRenderer renders the same view models as TableRenderer for a
// terminal.
type TerminalRenderer struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Cell   lipgloss.Style
	Muted  lipgloss.Style
	Notice lipgloss.Style
	Card   lipgloss.Style
}

// NewTerminalRenderer returns a renderer; color turns on styling.
func NewTerminalRenderer(color bool) *TerminalRenderer {
	if !color {
		return &TerminalRenderer{
			Title:  lipgloss.NewStyle(),
			Header: lipgloss.NewStyle(),
			Cell:   lipgloss.NewStyle(),
			Muted:  lipgloss.NewStyle(),
			Notice: lipgloss.NewStyle(),
			Card:   lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
		}
	}
	return &TerminalRenderer{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#243B53")),
		Header: lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Cell:   lipgloss.NewStyle().Padding(0, 1),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#627D98")),
		Notice: lipgloss.NewStyle().Foreground(lipgloss.Color("#57AE5B")),
		Card:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

// RenderDesktop writes the grid layout.
func (r *TerminalRenderer) RenderDesktop(w io.Writer, vm *views.DesktopView) error {
	var b strings.Builder
	r.writeChrome(&b, vm.Chrome)

	if vm.Empty != "" {
		b.WriteString(r.Muted.Render(vm.Empty))
		b.WriteString("\n")
	} else {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return r.Header
				}
				return r.Cell
			})

		headers := make([]string, 0, len(vm.Headers)+1)
		if vm.Bulk.Enabled {
			headers = append(headers, mark(vm.Bulk.AllSelected))
		}
		for _, h := range vm.Headers {
			label := h.Label
			if h.Indicator != "" {
				label += " " + h.Indicator
			}
			headers = append(headers, label)
		}
		t.Headers(headers...)

		for _, row := range vm.Rows {
			cells := make([]string, 0, len(row.Cells)+1)
			if vm.Bulk.Enabled {
				cells = append(cells, mark(row.Selected))
			}
			for _, c := range row.Cells {
				if c.IsActions {
					cells = append(cells, controlLabels(c.Controls))
					continue
				}
				cells = append(cells, c.Text)
			}
			t.Row(cells...)
		}

		if vm.HasTotals {
			totals := make([]string, 0, len(vm.Totals)+1)
			if vm.Bulk.Enabled {
				totals = append(totals, "")
			}
			for _, c := range vm.Totals {
				totals = append(totals, c.Text)
			}
			t.Row(totals...)
		}

		b.WriteString(t.String())
		b.WriteString("\n")
	}

	r.writePager(&b, vm.Pager)
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderCompact writes one block per card.
func (r *TerminalRenderer) RenderCompact(w io.Writer, vm *views.CompactView) error {
	var b strings.Builder
	r.writeChrome(&b, vm.Chrome)

	if vm.Empty != "" {
		b.WriteString(r.Muted.Render(vm.Empty))
		b.WriteString("\n")
	}
	for _, card := range vm.Cards {
		var lines []string

		head := make([]string, 0, len(card.Header)+1)
		if vm.Bulk.Enabled {
			head = append(head, mark(card.Selected))
		}
		for _, f := range card.Header {
			head = append(head, f.Text)
		}
		lines = append(lines, r.Header.Render(strings.Join(head, "  ")))

		for _, f := range card.Details {
			lines = append(lines, r.Muted.Render(f.Label+":")+" "+f.Text)
		}
		if len(card.Controls) > 0 {
			lines = append(lines, strings.Repeat("─", 8), controlLabels(card.Controls))
		}
		b.WriteString(r.Card.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	r.writePager(&b, vm.Pager)
	_, err := io.WriteString(w, b.String())
	return err
}

func (r *TerminalRenderer) writeChrome(b *strings.Builder, c views.Chrome) {
	b.WriteString(r.Title.Render(c.Title))
	if c.Records != "" {
		b.WriteString("  " + r.Muted.Render(c.Records))
	}
	b.WriteString("\n")
	if c.Notice != "" {
		b.WriteString(r.Notice.Render(c.Notice))
		b.WriteString("\n")
	}
	if c.Search.HasTerm {
		fmt.Fprintf(b, "%s %q\n", r.Muted.Render(c.Messages.Search), c.Search.Term)
	}
	if c.Bulk.Enabled && c.Bulk.Count > 0 {
		b.WriteString(r.Muted.Render(c.Bulk.CountText))
		b.WriteString("\n")
	}
}

func (r *TerminalRenderer) writePager(b *strings.Builder, p views.PagerView) {
	parts := []string{p.Range}
	if p.Show {
		parts = append(parts, p.PageOf)
	}
	b.WriteString(r.Muted.Render(strings.Join(parts, " · ")))
	b.WriteString("\n")
}

func controlLabels(cs []views.ControlView) string {
	labels := make([]string, len(cs))
	for i, c := range cs {
		labels[i] = c.Label
	}
	return strings.Join(labels, " | ")
}

func mark(selected bool) string {
	if selected {
		return "[x]"
	}
	return "[ ]"
}
