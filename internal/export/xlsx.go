// Package export writes tables in spreadsheet and columnar interchange formats.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"salarydash/internal/engine"
)

// SheetName is the worksheet that holds exported rows.
const SheetName = "salaries"

// WriteXLSX writes t as a single-sheet workbook: a header row, then one row
// per record. Missing numeric cells are left blank.
func WriteXLSX(w io.Writer, t *engine.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}

	names := t.Columns()
	cols := make([]*engine.Column, len(names))
	header := make([]interface{}, len(names))
	for i, name := range names {
		cols[i], _ = t.Column(name)
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for r := 0; r < t.Len(); r++ {
		values := make([]interface{}, len(cols))
		for i, c := range cols {
			if c.Kind() == engine.Numeric {
				if v, ok := c.Float(r); ok {
					values[i] = v
				}
				continue
			}
			values[i] = c.Text(r)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("write row %d: %w", r+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	return f.Write(w)
}
