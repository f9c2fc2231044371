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

package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		header string
		want   language.Tag
	}{
		{"", language.English},
		{"it-IT,it;q=0.9,en;q=0.8", language.Italian},
		{"fr-FR,fr;q=0.9", language.English},
		{"de;q=0.9,it;q=0.5", language.Italian},
		{"not a header;;", language.English},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.header).Tag())
		})
	}
}

func TestLabels(t *testing.T) {
	en := New(language.English)
	it := Parse("it")

	assert.Equal(t, "No results found", en.Label(MsgNoResults))
	assert.Equal(t, "Nessun risultato trovato", it.Label(MsgNoResults))
	assert.Equal(t, "Importo", it.Label("Amount"))
	assert.Equal(t, "Unknown column", it.Label("Unknown column"))
	assert.Equal(t, "", it.Label(""))
}

func TestSprintf(t *testing.T) {
	assert.Equal(t, "17-17 of 17", New(language.English).Sprintf(MsgRange, 17, 17, 17))
	assert.Equal(t, "11-20 di 42", Parse("it-CH").Sprintf(MsgRange, 11, 20, 42))
}

func TestMessagesAreDistinct(t *testing.T) {
	for _, tag := range Supported {
		m := New(tag).Messages()
		assert.NotEqual(t, m.NoData, m.NoResults, "locale %s", tag)
		assert.NotEmpty(t, m.Search)
	}
}
