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

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/google/ledgerview/core/columns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type company struct {
	ID     int     `table:"id"`
	Name   string  `table:"name"`
	Amount int     `table:"amount"`
	City   *string `table:"city"`
}

func companyID(c company) string { return strconv.Itoa(c.ID) }

func companyColumns() *columns.Set[company] {
	return columns.MustSet[company](
		&columns.DataColumn[company]{Name: "id", Sortable: true},
		&columns.DataColumn[company]{Name: "name", Sortable: true},
		&columns.DataColumn[company]{Name: "amount", Sortable: true},
		&columns.DataColumn[company]{Name: "city"},
		&columns.ActionColumn[company]{Title: "Actions"},
	)
}

func ids(rows []company) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func amounts(rows []company) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Amount
	}
	return out
}

func TestFilterKeepsMatchingRowsInOrder(t *testing.T) {
	rows := []company{{ID: 1, Name: "Acme"}, {ID: 2, Name: "Beta"}, {ID: 3, Name: "Acme Corp"}}
	got := Filter(rows, companyColumns(), "acme")
	assert.Equal(t, []int{1, 3}, ids(got))
}

func TestFilterBlankTermReturnsRows(t *testing.T) {
	rows := []company{{ID: 2, Name: "b"}, {ID: 1, Name: "a"}}
	for _, term := range []string{"", "   ", "\t"} {
		got := Filter(rows, companyColumns(), term)
		assert.Equal(t, rows, got, "term %q", term)
	}
}

func TestFilterResultIsExact(t *testing.T) {
	milan := "Milano"
	rows := []company{
		{ID: 1, Name: "North", Amount: 120},
		{ID: 2, Name: "South", Amount: 7, City: &milan},
		{ID: 3, Name: "East", Amount: 12},
		{ID: 4, Name: "West"},
	}
	set := companyColumns()

	for _, term := range []string{"12", "TH", "milan", "x", "1"} {
		t.Run(term, func(t *testing.T) {
			got := Filter(rows, set, term)
			in := map[int]bool{}
			for _, r := range got {
				in[r.ID] = true
			}
			for _, r := range rows {
				hit := false
				for _, col := range set.Data() {
					v := col.Raw(r)
					if !columns.IsNil(v) && strings.Contains(strings.ToLower(columns.Stringify(v)), strings.ToLower(term)) {
						hit = true
					}
				}
				assert.Equal(t, hit, in[r.ID], "row %d", r.ID)
			}
		})
	}
}

func TestFilterSkipsNilValues(t *testing.T) {
	rows := []company{{ID: 7, Name: "x"}}
	assert.Empty(t, Filter(rows, companyColumns(), "nil"))
	assert.Empty(t, Filter(rows, companyColumns(), "<nil>"))
}

func TestSortCycle(t *testing.T) {
	set := columns.MustSet[company](&columns.DataColumn[company]{Name: "amount", Sortable: true})
	rows := []company{{ID: 1, Amount: 30}, {ID: 2, Amount: 10}, {ID: 3, Amount: 20}}

	var s SortState
	s = Toggle(s, "amount", set)
	assert.Equal(t, SortState{Key: "amount", Direction: Ascending}, s)
	assert.Equal(t, []int{10, 20, 30}, amounts(Sort(rows, set, s)))

	s = Toggle(s, "amount", set)
	assert.Equal(t, Descending, s.Direction)
	assert.Equal(t, []int{30, 20, 10}, amounts(Sort(rows, set, s)))

	s = Toggle(s, "amount", set)
	assert.False(t, s.Active())
	assert.Equal(t, []int{30, 10, 20}, amounts(Sort(rows, set, s)))

	assert.Equal(t, []int{30, 10, 20}, amounts(rows), "input must not be modified")
}

func TestToggleIgnoresUnsortableKeys(t *testing.T) {
	set := companyColumns()
	start := SortState{Key: "name", Direction: Descending}

	assert.Equal(t, start, Toggle(start, "city", set))
	assert.Equal(t, start, Toggle(start, "missing", set))
	assert.Equal(t, start, Toggle(start, columns.ActionsKey, set))
	assert.Equal(t, SortState{Key: "amount", Direction: Ascending}, Toggle(start, "amount", set))
}

func TestSortIsStableAndIdempotent(t *testing.T) {
	set := companyColumns()
	rows := []company{
		{ID: 1, Name: "b"}, {ID: 2, Name: "a"}, {ID: 3, Name: "b"}, {ID: 4, Name: "a"},
	}
	asc := SortState{Key: "name", Direction: Ascending}

	once := Sort(rows, set, asc)
	assert.Equal(t, []int{2, 4, 1, 3}, ids(once))
	assert.Equal(t, ids(once), ids(Sort(once, set, asc)))

	desc := Sort(rows, set, SortState{Key: "name", Direction: Descending})
	assert.Equal(t, []int{1, 3, 2, 4}, ids(desc), "ties keep input order")
}

func TestSortDescendingReversesDistinctKeys(t *testing.T) {
	set := companyColumns()
	rows := []company{{ID: 5}, {ID: 3}, {ID: 9}, {ID: 1}, {ID: 4}}

	asc := ids(Sort(rows, set, SortState{Key: "id", Direction: Ascending}))
	desc := ids(Sort(rows, set, SortState{Key: "id", Direction: Descending}))
	require.Len(t, desc, len(asc))
	for i := range asc {
		assert.Equal(t, asc[i], desc[len(desc)-1-i])
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{17, 8, 3},
		{17, 0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.size), "TotalPages(%d, %d)", tt.total, tt.size)
	}
}

func TestPaginateLastPartialPage(t *testing.T) {
	rows := make([]int, 17)
	for i := range rows {
		rows[i] = i + 1
	}
	page, p := Paginate(rows, 3, 8)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 17, p.StartItem)
	assert.Equal(t, 17, p.EndItem)
	assert.Equal(t, []int{17}, page)
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())
}

func TestPaginatePagesPartitionRows(t *testing.T) {
	for _, total := range []int{0, 1, 7, 8, 9, 23} {
		for _, size := range []int{1, 3, 8, 50} {
			t.Run(fmt.Sprintf("%d/%d", total, size), func(t *testing.T) {
				rows := make([]int, total)
				for i := range rows {
					rows[i] = i
				}
				seen := map[int]bool{}
				count := 0
				for n := 1; n <= TotalPages(total, size); n++ {
					page, _ := Paginate(rows, n, size)
					for _, v := range page {
						assert.False(t, seen[v], "value %d on two pages", v)
						seen[v] = true
					}
					count += len(page)
				}
				assert.Equal(t, total, count)
			})
		}
	}
}

func TestPaginateClamps(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5}
	first, _ := Paginate(rows, 1, 2)
	last, p := Paginate(rows, 3, 2)

	got, _ := Paginate(rows, 0, 2)
	assert.Equal(t, first, got)
	got, _ = Paginate(rows, -4, 2)
	assert.Equal(t, first, got)
	got, gp := Paginate(rows, p.TotalPages+5, 2)
	assert.Equal(t, last, got)
	assert.Equal(t, p, gp)
}

func TestPaginateEmpty(t *testing.T) {
	page, p := Paginate([]int{}, 4, 10)
	assert.Empty(t, page)
	assert.Equal(t, Pagination{Page: 1, PageSize: 10, TotalPages: 1}, p)
}

func TestPageWindow(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, PageWindow(1, 10, 3))
	assert.Equal(t, []int{4, 5, 6}, PageWindow(5, 10, 3))
	assert.Equal(t, []int{8, 9, 10}, PageWindow(10, 10, 3))
	assert.Equal(t, []int{1, 2}, PageWindow(2, 2, 5))
	assert.Equal(t, []int{3, 4, 5, 6, 7}, PageWindow(5, 12, 5))
	assert.Empty(t, PageWindow(1, 0, 3))
}

func TestDeriveEmptyStates(t *testing.T) {
	set := companyColumns()

	r := Derive([]company{}, set, companyID, Request{Page: 1, PageSize: 10})
	assert.Equal(t, NoData, r.State)
	assert.Empty(t, r.Rows)

	rows := []company{{ID: 1, Name: "Acme"}}
	r = Derive(rows, set, companyID, Request{Term: "zzz", Page: 1, PageSize: 10})
	assert.Equal(t, NoResults, r.State)
	assert.Equal(t, 1, r.SourceCount)

	r = Derive(rows, set, companyID, Request{Term: "acm", Page: 1, PageSize: 10})
	assert.Equal(t, HasRows, r.State)
	assert.Equal(t, []string{"1"}, r.IDs)
}

func TestDeriveRunsSearchSortPaginate(t *testing.T) {
	rows := []company{
		{ID: 1, Name: "alpha", Amount: 5},
		{ID: 2, Name: "beta", Amount: 3},
		{ID: 3, Name: "alpine", Amount: 4},
		{ID: 4, Name: "gamma", Amount: 1},
		{ID: 5, Name: "alps", Amount: 2},
	}
	r := Derive(rows, companyColumns(), companyID, Request{
		Term:     "al",
		Sort:     SortState{Key: "amount", Direction: Ascending},
		Page:     2,
		PageSize: 2,
	})
	assert.Equal(t, []int{5, 3, 1}, ids(r.Filtered))
	assert.Equal(t, []string{"1"}, r.IDs)
	assert.Equal(t, Pagination{Page: 2, PageSize: 2, Total: 3, TotalPages: 2, StartItem: 3, EndItem: 3}, r.Pagination)
}

func TestDeriveDropsUnusableSort(t *testing.T) {
	rows := []company{{ID: 2}, {ID: 1}}
	r := Derive(rows, companyColumns(), companyID, Request{Sort: SortState{Key: "city", Direction: Ascending}})
	assert.False(t, r.Sort.Active())
	assert.Equal(t, []int{2, 1}, ids(r.Rows))
}

func BenchmarkDerive(b *testing.B) {
	sizes := []int{1_000, 10_000}
	set := companyColumns()

	for _, size := range sizes {
		rows := make([]company, size)
		for i := range rows {
			rows[i] = company{ID: i, Name: fmt.Sprintf("company-%d", i%97), Amount: (i * 7919) % 1000}
		}
		req := Request{Term: "pany-4", Sort: SortState{Key: "amount", Direction: Descending}, Page: 3, PageSize: 25}

		b.Run(fmt.Sprintf("%d_rows", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Derive(rows, set, companyID, req)
			}
			rowsProcessed := int64(size) * int64(b.N)
			b.ReportMetric(float64(rowsProcessed)/b.Elapsed().Seconds()/1e6, "Mrows/sec")
		})
	}
}
