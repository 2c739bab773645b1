package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"co-attain/internal/apperror"
	"co-attain/internal/textutil"
)

// SheetKind selects the discovery strategy for a sheet.
type SheetKind string

const (
	KindCIA        SheetKind = "CIA"
	KindAssessment SheetKind = "Assessment"
)

// Discovery thresholds. These are business rules inherited from the
// institutional template, kept as named constants so tests can target them.
const (
	// HeaderScanWindow bounds the header search to this many rows below the
	// start row, protecting against runaway scans on malformed files.
	HeaderScanWindow = 50

	// MaxMarkScanDepth is how far below the header row the red max-mark scan
	// extends (rows 1 .. headerRow+MaxMarkScanDepth).
	MaxMarkScanDepth = 5

	// DefaultRollColumn and DefaultNameColumn apply when the header row
	// carries no recognisable register/name label.
	DefaultRollColumn = 2
	DefaultNameColumn = 3
)

// coLabelPattern matches a CO header label exactly: "CO" plus a single digit
// 1-5 on the trimmed, upper-cased cell text. Substrings like "CO12" or
// "SCORE" must not match.
var coLabelPattern = regexp.MustCompile(`^CO([1-5])$`)

var (
	rollLabels = []string{"register", "regno", "roll"}
	nameLabels = []string{"name", "student"}

	// componentMarkers bound the header search on the Assessment sheet, whose
	// upper region repeats the CIA layout for other components.
	componentMarkers = []string{"comp3", "component3"}
)

// Structure is the discovered layout of one sheet.
type Structure struct {
	HeaderRow int
	RollCol   int
	NameCol   int
	COColumns map[int]int // CO id -> column
}

// DiscoverStructure locates the CO header row, the roll-number column and the
// name column. For the Assessment sheet the search starts at the "Component 3"
// marker row; for CIA it starts at row 1. Returns a client fault when no CO
// header appears within the scan window.
func DiscoverStructure(sheet *Sheet, kind SheetKind) (Structure, error) {
	st := Structure{
		RollCol:   DefaultRollColumn,
		NameCol:   DefaultNameColumn,
		COColumns: make(map[int]int),
	}

	startRow := 1
	if kind == KindAssessment {
		startRow = findComponentRow(sheet)
	}

	endRow := startRow + HeaderScanWindow
	if endRow > sheet.RowCount() {
		endRow = sheet.RowCount()
	}

	for row := startRow; row <= endRow; row++ {
		found := false
		for col := 1; col <= sheet.ColCount(row); col++ {
			v := sheet.Cell(row, col)
			if v == "" {
				continue
			}
			if m := coLabelPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(v))); m != nil {
				id, _ := strconv.Atoi(m[1])
				st.COColumns[id] = col
				found = true
			}
			if textutil.Match(v, rollLabels...) {
				st.RollCol = col
			}
			if textutil.Match(v, nameLabels...) {
				st.NameCol = col
			}
		}
		if found {
			st.HeaderRow = row
			return st, nil
		}
	}

	return Structure{}, apperror.New(apperror.StatusUnprocessable,
		"%s: CO headers not discovered; expected a row labelled CO1..CO5 within %d rows of row %d",
		kind, HeaderScanWindow, startRow)
}

// findComponentRow returns the earliest row whose first cell names the third
// assessment component, or 1 when no marker exists.
func findComponentRow(sheet *Sheet) int {
	for row := 1; row <= sheet.RowCount(); row++ {
		if textutil.Match(sheet.Cell(row, 1), componentMarkers...) {
			return row
		}
	}
	return 1
}
