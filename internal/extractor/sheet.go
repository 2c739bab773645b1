package extractor

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is a read-only view over one worksheet: cached cell values plus
// on-demand font-color lookups. Row and column indices are 1-based.
type Sheet struct {
	file *excelize.File
	Name string
	rows [][]string
}

func newSheet(f *excelize.File, name string) (*Sheet, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, err
	}
	return &Sheet{file: f, Name: name, rows: rows}, nil
}

// RowCount returns the number of rows holding data.
func (s *Sheet) RowCount() int {
	return len(s.rows)
}

// Cell returns the cached string value at (row, col), "" when out of range.
// Formula cells surface their cached result, which is exactly what the
// normalizer wants.
func (s *Sheet) Cell(row, col int) string {
	if row < 1 || row > len(s.rows) {
		return ""
	}
	r := s.rows[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return r[col-1]
}

// ColCount returns the width of a given row.
func (s *Sheet) ColCount(row int) int {
	if row < 1 || row > len(s.rows) {
		return 0
	}
	return len(s.rows[row-1])
}

// redARGBValues are the only font colors that mark a maximum-mark cell. The
// institutional template flags the ceiling value with pure red font; near-red
// shades (maroon, orange) must not qualify, so matching is exact.
var redARGBValues = map[string]bool{
	"FFFF0000": true,
	"FF0000":   true,
}

// IsRedFont reports whether the cell's font color resolves to the template's
// red marker. Style lookup failures count as "not red"; color anomalies never
// abort extraction.
func (s *Sheet) IsRedFont(row, col int) bool {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false
	}
	styleID, err := s.file.GetCellStyle(s.Name, cell)
	if err != nil {
		return false
	}
	style, err := s.file.GetStyle(styleID)
	if err != nil || style == nil || style.Font == nil {
		return false
	}
	return IsRedColor(style.Font.Color)
}

// IsRedColor matches an (A)RGB string against the two accepted red values,
// tolerating a '#' prefix and any letter case.
func IsRedColor(color string) bool {
	c := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(color), "#"))
	return redARGBValues[c]
}

// isMaxMarkCell is the template convention in one predicate: a cell holds a
// CO's maximum mark when it is numeric, positive and red-flagged.
func (s *Sheet) isMaxMarkCell(row, col int) bool {
	n, ok := numOK(s.Cell(row, col))
	if !ok || n <= 0 {
		return false
	}
	return s.IsRedFont(row, col)
}
