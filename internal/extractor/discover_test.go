package extractor

import (
	"testing"

	"co-attain/internal/apperror"

	"github.com/xuri/excelize/v2"
)

func TestDiscoverStructureCIA(t *testing.T) {
	f := buildCIAFixture(t)
	defer f.Close()

	sheet := sheetFrom(t, f, "Sheet1")
	st, err := DiscoverStructure(sheet, KindCIA)
	if err != nil {
		t.Fatalf("DiscoverStructure: %v", err)
	}

	if st.HeaderRow != 11 {
		t.Errorf("HeaderRow = %d, expected 11", st.HeaderRow)
	}
	if st.RollCol != 2 {
		t.Errorf("RollCol = %d, expected 2", st.RollCol)
	}
	if st.NameCol != 3 {
		t.Errorf("NameCol = %d, expected 3", st.NameCol)
	}
	if col := st.COColumns[1]; col != 4 {
		t.Errorf("CO1 column = %d, expected 4 (D)", col)
	}
	if col := st.COColumns[2]; col != 5 {
		t.Errorf("CO2 column = %d, expected 5 (E); lower-case label must match", col)
	}
}

func TestDiscoverStructureExactLabelOnly(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	setCells(t, f, "Sheet1", map[string]interface{}{
		"B2": "CO12",    // not a CO label: two digits
		"C2": "SCORE",   // contains "CO" as substring only
		"D2": "CO6",     // out of range
		"B4": " co3 ",   // valid after trimming
		"C4": "Name",
	})

	sheet := sheetFrom(t, f, "Sheet1")
	st, err := DiscoverStructure(sheet, KindCIA)
	if err != nil {
		t.Fatalf("DiscoverStructure: %v", err)
	}

	if st.HeaderRow != 4 {
		t.Errorf("HeaderRow = %d, expected 4; row 2 holds no exact CO label", st.HeaderRow)
	}
	if len(st.COColumns) != 1 || st.COColumns[3] != 2 {
		t.Errorf("COColumns = %v, expected only CO3 at column 2", st.COColumns)
	}
}

func TestDiscoverStructureAssessmentMarker(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	setCells(t, f, "Sheet1", map[string]interface{}{
		// A decoy header in the component-1 region must be skipped.
		"B3": "CO1",
		// Component marker bounds the real search.
		"A8":  "COMP - 3",
		"B10": "Reg No", "C10": "Name", "D10": "CO1",
	})

	sheet := sheetFrom(t, f, "Sheet1")
	st, err := DiscoverStructure(sheet, KindAssessment)
	if err != nil {
		t.Fatalf("DiscoverStructure: %v", err)
	}

	if st.HeaderRow != 10 {
		t.Errorf("HeaderRow = %d, expected 10 (below the COMP3 marker)", st.HeaderRow)
	}
	if st.COColumns[1] != 4 {
		t.Errorf("CO1 column = %d, expected 4", st.COColumns[1])
	}

	// The same sheet read as CIA starts from row 1 and hits the decoy.
	stCIA, err := DiscoverStructure(sheet, KindCIA)
	if err != nil {
		t.Fatalf("DiscoverStructure(CIA): %v", err)
	}
	if stCIA.HeaderRow != 3 {
		t.Errorf("CIA HeaderRow = %d, expected 3", stCIA.HeaderRow)
	}
}

func TestDiscoverStructureDefaults(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	// Header row with CO labels but no register/name labels.
	setCells(t, f, "Sheet1", map[string]interface{}{
		"F2": "CO1",
	})

	sheet := sheetFrom(t, f, "Sheet1")
	st, err := DiscoverStructure(sheet, KindCIA)
	if err != nil {
		t.Fatalf("DiscoverStructure: %v", err)
	}

	if st.RollCol != DefaultRollColumn {
		t.Errorf("RollCol = %d, expected default %d", st.RollCol, DefaultRollColumn)
	}
	if st.NameCol != DefaultNameColumn {
		t.Errorf("NameCol = %d, expected default %d", st.NameCol, DefaultNameColumn)
	}
}

func TestDiscoverStructureNotFound(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	setCells(t, f, "Sheet1", map[string]interface{}{
		"A1": "nothing useful here",
		"B2": "still nothing",
	})

	sheet := sheetFrom(t, f, "Sheet1")
	_, err := DiscoverStructure(sheet, KindCIA)
	if err == nil {
		t.Fatal("expected a StructureNotFound error")
	}
	if !apperror.IsClientFault(err) {
		t.Errorf("missing header must be a client fault, got status %d", apperror.StatusOf(err))
	}
}

func TestDiscoverStructureScanWindow(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	// A header beyond the scan window must not be found.
	beyond := 1 + HeaderScanWindow + 1
	addr, _ := excelize.CoordinatesToCellName(4, beyond)
	setCells(t, f, "Sheet1", map[string]interface{}{addr: "CO1"})

	sheet := sheetFrom(t, f, "Sheet1")
	if _, err := DiscoverStructure(sheet, KindCIA); err == nil {
		t.Errorf("header at row %d must be outside the %d-row scan window", beyond, HeaderScanWindow)
	}
}
