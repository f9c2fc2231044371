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

// Package export writes table rows to XLSX workbooks. One sheet holds the
// data columns of a descriptor set: a bold header row with the column
// labels, then one row per record. Decimal and numeric values are written as
// numbers so totals work in the spreadsheet; everything else is the desktop
// cell text.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/ledgerview/core/columns"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the written workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

// Filename returns the attachment name for a table export.
func Filename(table string) string {
	return SheetName(table) + ".xlsx"
}

// SheetName turns a table name into a valid sheet name.
func SheetName(table string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '_'
		}
		return r
	}, strings.TrimSpace(table))
	if name == "" {
		name = "Sheet1"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}

// Workbook builds a workbook with rows on a sheet named after table. The
// caller closes the returned file.
func Workbook[T any](table string, set *columns.Set[T], rows []T) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := SheetName(table)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	data := set.Data()
	header := make([]any, len(data))
	for i, col := range data {
		header[i] = col.Label()
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		f.Close()
		return nil, fmt.Errorf("style header: %w", err)
	}

	record := make([]any, len(data))
	for n, row := range rows {
		for i, col := range data {
			record[i] = cellValue(col, row)
		}
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &record); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", n+1, err)
		}
	}
	return f, nil
}

// Write streams the workbook for rows to w.
func Write[T any](w io.Writer, table string, set *columns.Set[T], rows []T) error {
	f, err := Workbook(table, set, rows)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteFile saves the workbook for rows at path.
func WriteFile[T any](path, table string, set *columns.Set[T], rows []T) error {
	f, err := Workbook(table, set, rows)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func cellValue[T any](col *columns.DataColumn[T], row T) any {
	// A custom renderer owns the cell text.
	if col.Render != nil {
		return col.Text(row)
	}
	switch v := col.Raw(row).(type) {
	case decimal.Decimal:
		return v.InexactFloat64()
	case int, int32, int64, uint32, uint64, float32, float64:
		return v
	}
	return col.Text(row)
}
