// Package fetcher reads import source files. XLSX is the only format the
// catalogue is delivered in.
package fetcher

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/ailandscape/landscape-cli/internal/model"
)

// Row is one data row keyed by normalized column name. Index is zero-based
// over the data rows; the human-readable spreadsheet row is Number().
type Row struct {
	Index int
	cells map[string]string
}

// Get returns the trimmed cell value for a column key, or "" when the
// column is absent.
func (r Row) Get(key string) string {
	return r.cells[key]
}

// Has reports whether the row has a non-blank value for the column.
func (r Row) Has(key string) bool {
	return r.cells[key] != ""
}

// Number is the 1-based spreadsheet row, accounting for the heading row.
// Error messages use it so operators can find the row in their editor.
func (r Row) Number() int {
	return r.Index + 2
}

// IsEmpty reports whether every cell in the row is blank.
func (r Row) IsEmpty() bool {
	for _, v := range r.cells {
		if v != "" {
			return false
		}
	}
	return true
}

// Sheet is the parsed first worksheet of an import file.
type Sheet struct {
	Columns []string
	Rows    []Row
}

// IsEmpty reports whether the sheet has no data rows.
func (s *Sheet) IsEmpty() bool {
	return len(s.Rows) == 0
}

// First returns the first data row, or nil for an empty sheet.
func (s *Sheet) First() *Row {
	if len(s.Rows) == 0 {
		return nil
	}
	return &s.Rows[0]
}

// HasColumns reports whether every named column is present in the heading
// row.
func (s *Sheet) HasColumns(keys ...string) bool {
	present := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		present[c] = true
	}
	for _, k := range keys {
		if !present[k] {
			return false
		}
	}
	return true
}

// ReadSheet parses the first worksheet of an XLSX file. The heading row
// defines the column keys, normalized to lowercase underscore form
// ("Website URL" becomes "website_url"); the remaining rows become data
// rows in file order.
func ReadSheet(path string) (*Sheet, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("fetcher: %s has no worksheets", path)
	}

	ws := f.Sheets[0]
	if len(ws.Rows) == 0 {
		return &Sheet{}, nil
	}

	columns := make([]string, 0, len(ws.Rows[0].Cells))
	for _, cell := range ws.Rows[0].Cells {
		columns = append(columns, model.SlugifyUnderscore(cell.String()))
	}

	sheet := &Sheet{Columns: columns}
	for i, row := range ws.Rows[1:] {
		cells := make(map[string]string, len(columns))
		for j, key := range columns {
			if key == "" {
				continue
			}
			if j < len(row.Cells) {
				cells[key] = strings.TrimSpace(row.Cells[j].String())
			} else {
				cells[key] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, Row{Index: i, cells: cells})
	}

	return sheet, nil
}
