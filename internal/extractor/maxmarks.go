package extractor

import (
	"co-attain/internal/logger"
)

// ResolveMaxMarks finds the red-flagged maximum mark for each discovered CO
// column. The scan covers rows 1 through headerRow+MaxMarkScanDepth (clamped
// to the sheet extent); the first positive red numeric wins.
//
// A CO with no red cell resolves to 0. That is a soft failure: extraction
// continues, downstream percentage math treats a zero ceiling as a zero
// contribution, and the pipeline's CO1 gate decides whether the whole request
// dies. Partial detection is warned about, not fixed, because the template
// leaves the intent ambiguous.
func ResolveMaxMarks(sheet *Sheet, kind SheetKind, headerRow int, coColumns map[int]int) map[int]float64 {
	maxMarks := make(map[int]float64, len(coColumns))

	endRow := headerRow + MaxMarkScanDepth
	if endRow > sheet.RowCount() {
		endRow = sheet.RowCount()
	}

	for id, col := range coColumns {
		maxMarks[id] = 0
		for row := 1; row <= endRow; row++ {
			if sheet.isMaxMarkCell(row, col) {
				maxMarks[id] = Num(sheet.Cell(row, col))
				break
			}
		}
		if maxMarks[id] == 0 {
			logger.Warn("%s: red max mark not found for CO%d in column %d, defaulting to 0", kind, id, col)
		}
	}

	return maxMarks
}
