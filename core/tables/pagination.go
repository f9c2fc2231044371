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

package tables

// Pagination describes the visible page of a sorted collection.
// StartItem and EndItem are 1-based and both 0 when Total is 0.
type Pagination struct {
	Page       int
	PageSize   int
	Total      int
	TotalPages int
	StartItem  int
	EndItem    int
}

func (p Pagination) HasPrev() bool { return p.Page > 1 }
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// Nav is a relative page navigation.
type Nav int

const (
	NavFirst Nav = iota
	NavPrev
	NavNext
	NavLast
)

// TotalPages returns max(1, ceil(total/pageSize)). A pageSize <= 0 means
// everything is on one page.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage moves page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Navigate returns the page reached from p by nav, clamped.
func Navigate(p Pagination, nav Nav) int {
	switch nav {
	case NavFirst:
		return 1
	case NavPrev:
		return ClampPage(p.Page-1, p.TotalPages)
	case NavNext:
		return ClampPage(p.Page+1, p.TotalPages)
	case NavLast:
		return ClampPage(p.TotalPages, p.TotalPages)
	}
	return p.Page
}

// Paginate returns the rows of the requested (clamped) page.
// The returned slice aliases rows.
func Paginate[T any](rows []T, page, pageSize int) ([]T, Pagination) {
	total := len(rows)
	size := pageSize
	if size <= 0 {
		size = total
	}
	p := Pagination{
		PageSize:   size,
		Total:      total,
		TotalPages: TotalPages(total, pageSize),
	}
	p.Page = ClampPage(page, p.TotalPages)
	if total == 0 {
		return rows[:0:0], p
	}

	start := (p.Page - 1) * size
	end := min(p.Page*size, total)
	p.StartItem = start + 1
	p.EndItem = end
	return rows[start:end], p
}

// PageWindow returns at most width consecutive page numbers centered on
// current and clamped to [1, totalPages].
func PageWindow(current, totalPages, width int) []int {
	if totalPages < 1 || width < 1 {
		return []int{}
	}
	width = min(width, totalPages)
	current = ClampPage(current, totalPages)

	start := current - width/2
	if start < 1 {
		start = 1
	}
	end := start + width - 1
	if end > totalPages {
		end = totalPages
		start = end - width + 1
	}

	pages := make([]int, 0, width)
	for n := start; n <= end; n++ {
		pages = append(pages, n)
	}
	return pages
}
