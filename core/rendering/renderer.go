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
	"embed"
	"fmt"
	"io"

	"github.com/google/ledgerview/core/views"
	"github.com/google/safehtml/template"
)

//go:embed templates/*
var templateFS embed.FS

// TableRenderer handles rendering of table view models to HTML
type TableRenderer struct {
	tableTemplate   *template.Template
	cardsTemplate   *template.Template
	landingTemplate *template.Template
	detailTemplate  *template.Template
}

// NewTableRenderer creates a new table renderer
func NewTableRenderer() (*TableRenderer, error) {
	trustedFS := template.TrustedFSFromEmbed(templateFS)

	parse := func(name string) (*template.Template, error) {
		t, err := template.New(name).ParseFS(trustedFS, "templates/"+name, "templates/chrome.html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		return t, nil
	}

	r := &TableRenderer{}
	var err error
	if r.tableTemplate, err = parse("table.html"); err != nil {
		return nil, err
	}
	if r.cardsTemplate, err = parse("cards.html"); err != nil {
		return nil, err
	}
	if r.landingTemplate, err = parse("landing.html"); err != nil {
		return nil, err
	}
	if r.detailTemplate, err = parse("detail.html"); err != nil {
		return nil, err
	}
	return r, nil
}

// RenderDesktop renders the grid layout to the provided writer
func (r *TableRenderer) RenderDesktop(w io.Writer, vm *views.DesktopView) error {
	return r.tableTemplate.Execute(w, vm)
}

// RenderCompact renders the card layout to the provided writer
func (r *TableRenderer) RenderCompact(w io.Writer, vm *views.CompactView) error {
	return r.cardsTemplate.Execute(w, vm)
}

// RenderLanding renders a LandingViewModel to the provided writer
func (r *TableRenderer) RenderLanding(w io.Writer, vm views.LandingViewModel) error {
	return r.landingTemplate.Execute(w, vm)
}

// RenderDetail renders a single row to the provided writer
func (r *TableRenderer) RenderDetail(w io.Writer, vm *views.DetailViewModel) error {
	return r.detailTemplate.Execute(w, vm)
}
