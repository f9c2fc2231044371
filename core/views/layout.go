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

package views

import (
	"strings"

	"github.com/google/ledgerview/core/query"
)

var mobileMarkers = []string{"mobi", "android", "iphone", "ipod", "windows phone"}

// ResolveLayout returns the forced layout, or guesses one from the
// User-Agent header when the layout is auto.
func ResolveLayout(layout query.Layout, userAgent string) query.Layout {
	if layout != query.LayoutAuto {
		return layout
	}
	ua := strings.ToLower(userAgent)
	for _, m := range mobileMarkers {
		if strings.Contains(ua, m) {
			return query.LayoutCompact
		}
	}
	return query.LayoutDesktop
}
