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

// Package i18n holds the user-visible strings of the table views. Message
// keys are the English text; other locales are looked up in a catalog.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Engine message keys.
const (
	MsgNoData         = "No data available"
	MsgNoResults      = "No results found"
	MsgSearch         = "Search..."
	MsgRange          = "%d-%d of %d"
	MsgPageOf         = "Page %d of %d"
	MsgSelected       = "%d selected"
	MsgClearSelection = "Clear selection"
	MsgSelectAll      = "Select all"
	MsgFirst          = "First"
	MsgPrev           = "Previous"
	MsgNext           = "Next"
	MsgLast           = "Last"
	MsgTotal          = "Total"
	MsgActions        = "Actions"
	MsgRecords        = "%d records"
	MsgDesktop        = "Desktop"
	MsgCompact        = "Compact"
	MsgApply          = "Apply"
	MsgSignedInAs     = "Signed in as %s"
)

// Supported lists the available locales; the first one is the fallback.
var Supported = []language.Tag{language.English, language.Italian}

var matcher = language.NewMatcher(Supported)

var italian = map[string]string{
	MsgNoData:         "Nessun dato disponibile",
	MsgNoResults:      "Nessun risultato trovato",
	MsgSearch:         "Cerca...",
	MsgRange:          "%d-%d di %d",
	MsgPageOf:         "Pagina %d di %d",
	MsgSelected:       "%d selezionati",
	MsgClearSelection: "Annulla selezione",
	MsgSelectAll:      "Seleziona tutto",
	MsgFirst:          "Prima",
	MsgPrev:           "Precedente",
	MsgNext:           "Successiva",
	MsgLast:           "Ultima",
	MsgTotal:          "Totale",
	MsgActions:        "Azioni",
	MsgRecords:        "%d record",
	MsgDesktop:        "Desktop",
	MsgCompact:        "Compatta",
	MsgApply:          "Applica",
	MsgSignedInAs:     "Accesso come %s",

	// Tables and columns
	"Invoices":    "Fatture",
	"Quotes":      "Preventivi",
	"Customers":   "Clienti",
	"Payments":    "Pagamenti",
	"Expenses":    "Spese",
	"Number":      "Numero",
	"Customer":    "Cliente",
	"Date":        "Data",
	"Due date":    "Scadenza",
	"Valid until": "Valida fino al",
	"Amount":      "Importo",
	"Status":      "Stato",
	"Name":        "Nome",
	"Email":       "Email",
	"City":        "Città",
	"VAT number":  "Partita IVA",
	"Reference":   "Riferimento",
	"Payer":       "Ordinante",
	"Category":    "Categoria",
	"Description": "Descrizione",
	"Supplier":    "Fornitore",

	// Controls and bulk actions
	"View":       "Apri",
	"Edit":       "Modifica",
	"Match":      "Abbina",
	"Export":     "Esporta",
	"Mark paid":  "Segna pagate",
	"Mark sent":  "Segna inviate",
	"Delete":     "Elimina",
	"Back":       "Indietro",
	"Candidates": "Candidati",

	// Statuses
	"draft":    "bozza",
	"sent":     "inviata",
	"paid":     "pagata",
	"overdue":  "scaduta",
	"accepted": "accettato",
	"rejected": "rifiutato",
	"expired":  "scaduto",

	// Notices
	"%d rows exported":        "%d righe esportate",
	"%d invoices marked paid": "%d fatture segnate come pagate",
	"%d invoices marked sent": "%d fatture segnate come inviate",
	"%d rows deleted":         "%d righe eliminate",
	"Action failed: %s":       "Azione non riuscita: %s",
}

var cat = newCatalog()

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range italian {
		if err := b.SetString(language.Italian, key, msg); err != nil {
			panic(err)
		}
	}
	return b
}

// Localizer formats messages for one locale. It is safe for concurrent use.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a localizer for tag, falling back to English for tags that
// are not supported.
func New(tag language.Tag) *Localizer {
	_, index, _ := matcher.Match(tag)
	return newLocalizer(Supported[index])
}

// Match picks the locale for an Accept-Language header value.
func Match(acceptLanguage string) *Localizer {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return newLocalizer(Supported[0])
	}
	_, index, _ := matcher.Match(tags...)
	return newLocalizer(Supported[index])
}

// Parse returns the localizer for a BCP 47 string such as "it" or "en-GB".
func Parse(locale string) *Localizer {
	tag, err := language.Parse(locale)
	if err != nil {
		return newLocalizer(Supported[0])
	}
	return New(tag)
}

func newLocalizer(tag language.Tag) *Localizer {
	return &Localizer{tag: tag, printer: message.NewPrinter(tag, message.Catalog(cat))}
}

// Tag returns the locale.
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// Sprintf formats the message with key.
func (l *Localizer) Sprintf(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// Label translates a label without arguments. Unknown labels are returned
// unchanged.
func (l *Localizer) Label(key string) string {
	if key == "" {
		return ""
	}
	return l.printer.Sprintf(key)
}

// Messages are the fixed strings of the table chrome.
type Messages struct {
	NoData         string
	NoResults      string
	Search         string
	ClearSelection string
	SelectAll      string
	First          string
	Prev           string
	Next           string
	Last           string
	Total          string
	Actions        string
	Apply          string
}

// Messages returns the fixed strings in the localizer's locale.
func (l *Localizer) Messages() Messages {
	return Messages{
		NoData:         l.Label(MsgNoData),
		NoResults:      l.Label(MsgNoResults),
		Search:         l.Label(MsgSearch),
		ClearSelection: l.Label(MsgClearSelection),
		SelectAll:      l.Label(MsgSelectAll),
		First:          l.Label(MsgFirst),
		Prev:           l.Label(MsgPrev),
		Next:           l.Label(MsgNext),
		Last:           l.Label(MsgLast),
		Total:          l.Label(MsgTotal),
		Actions:        l.Label(MsgActions),
		Apply:          l.Label(MsgApply),
	}
}
