package extractor

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// setCells writes literal values onto a sheet of an in-memory workbook.
func setCells(t *testing.T, f *excelize.File, sheet string, cells map[string]interface{}) {
	t.Helper()
	for addr, v := range cells {
		if err := f.SetCellValue(sheet, addr, v); err != nil {
			t.Fatalf("SetCellValue(%s!%s): %v", sheet, addr, err)
		}
	}
}

// markRed applies the template's red-font marker to the given cells.
func markRed(t *testing.T, f *excelize.File, sheet string, addrs ...string) {
	t.Helper()
	styleID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "FF0000", Bold: true}})
	if err != nil {
		t.Fatalf("NewStyle: %v", err)
	}
	for _, addr := range addrs {
		if err := f.SetCellStyle(sheet, addr, addr, styleID); err != nil {
			t.Fatalf("SetCellStyle(%s!%s): %v", sheet, addr, err)
		}
	}
}

// sheetFrom loads one sheet of an in-memory workbook through the reader path.
func sheetFrom(t *testing.T, f *excelize.File, name string) *Sheet {
	t.Helper()
	s, err := newSheet(f, name)
	if err != nil {
		t.Fatalf("newSheet(%s): %v", name, err)
	}
	return s
}

// buildCIAFixture creates a workbook whose CIA sheet follows the template
// convention: metadata rows, a red max-mark row, a CO header row and a small
// roster with a summary footer.
func buildCIAFixture(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()

	const sheet = "Sheet1"
	setCells(t, f, sheet, map[string]interface{}{
		"C5": "22CS401",
		"C6": "DATA STRUCTURES",
		// Red ceilings above the header.
		"D5": 20, "E5": 10,
		// Header row.
		"B11": "Register No", "C11": "Student Name", "D11": "CO1", "E11": "co2",
		// Roster.
		"B12": "R001", "C12": "Asha", "D12": 18, "E12": 7,
		"B13": "R002", "C13": "Binu", "D13": 12, "E13": "8",
		"C14": "Total", "D14": 30, "E14": 15,
	})
	markRed(t, f, sheet, "D5", "E5")

	return f
}
