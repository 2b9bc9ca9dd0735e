package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet of an Excel export.
const SheetName = "Data"

const minColumnWidth = 15

// ToExcel writes records into one "Data" sheet. Numbers stay numeric; every
// other value is written as the text FormatValue gives it. Column width is
// the header length, never below 15 characters.
func ToExcel(records []Record) (Blob, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return Blob{}, fmt.Errorf("rename sheet: %w", err)
	}

	if len(records) > 0 {
		header := records[0].Keys()
		headerRow := make([]any, len(header))
		for i, h := range header {
			headerRow[i] = h
		}
		if err := f.SetSheetRow(SheetName, "A1", &headerRow); err != nil {
			return Blob{}, err
		}

		for r, rec := range records {
			row := make([]any, len(header))
			for i, key := range header {
				v, _ := rec.Get(key)
				row[i] = cellValue(v)
			}
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return Blob{}, err
			}
			if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
				return Blob{}, err
			}
		}

		for i, h := range header {
			col, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return Blob{}, err
			}
			width := len(h)
			if width < minColumnWidth {
				width = minColumnWidth
			}
			if err := f.SetColWidth(SheetName, col, col, float64(width)); err != nil {
				return Blob{}, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Blob{}, fmt.Errorf("write workbook: %w", err)
	}
	return Blob{Data: buf.Bytes(), MIMEType: MIMEXLSX}, nil
}

func cellValue(v any) any {
	switch val := v.(type) {
	case int, int32, int64, float32, float64:
		return val
	}
	return FormatValue(v)
}
