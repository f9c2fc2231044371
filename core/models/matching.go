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

package models

import (
	"strings"
	"unicode"
)

// NormalizeReference lower-cases s and drops everything but letters and
// digits, so "INV 2024/007" and "inv-2024-007" compare equal.
func NormalizeReference(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// minPartialReference is the shortest normalized reference matched inside
// invoice numbers. Shorter ones like "2024" or "001" would hit most invoices.
const minPartialReference = 6

// MatchInvoices returns the open invoices whose number appears in the
// payment reference, or whose number contains the whole reference when it is
// at least minPartialReference long. Input order is kept.
func MatchInvoices(p Payment, invoices []Invoice) []Invoice {
	ref := NormalizeReference(p.Reference)
	if ref == "" {
		return nil
	}
	var out []Invoice
	for _, inv := range invoices {
		if !inv.Open() {
			continue
		}
		num := NormalizeReference(inv.Number)
		if num == "" {
			continue
		}
		if strings.Contains(ref, num) || (len(ref) >= minPartialReference && strings.Contains(num, ref)) {
			out = append(out, inv)
		}
	}
	return out
}
