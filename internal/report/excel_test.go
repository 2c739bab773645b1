package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"co-attain/internal/config"
	"co-attain/internal/model"
)

func testReportData() *model.ReportData {
	return &model.ReportData{
		Meta:   model.CourseMeta{CourseCode: "22CS401", CourseName: "DATA STRUCTURES"},
		COIDs:  []int{1, 2},
		MaxMarks: map[int]model.MaxMark{
			1: {CIA: 20, Assessment: 15},
			2: {CIA: 10, Assessment: 10},
		},
		Students: []model.JoinedStudent{
			{
				RollNo:          "R001",
				Name:            "Asha",
				CIAMarks:        map[int]float64{1: 18, 2: 7},
				AssessmentMarks: map[int]float64{1: 12, 2: 8},
				Results: map[int]model.COResult{
					1: {Raw: 86, FinalPercent: 86, Passed: true},
					2: {Raw: 74, FinalPercent: 74, Passed: true},
				},
			},
			{
				RollNo:          "R002",
				Name:            "Binu",
				CIAMarks:        map[int]float64{1: 12, 2: 4},
				AssessmentMarks: map[int]float64{1: 6, 2: 3},
				Results: map[int]model.COResult{
					1: {Raw: 52, FinalPercent: 52, Passed: false},
					2: {Raw: 36, FinalPercent: 36, Passed: false},
				},
			},
		},
		Matrix: []model.MatrixStat{
			{COID: 1, CIALevel: 0, AssessmentLevel: 0, SemesterLevel: 3, ExitLevel: 2.5, DirectLevel: 1, OverallLevel: 1.3},
			{COID: 2, CIALevel: 0, AssessmentLevel: 0, SemesterLevel: 3, ExitLevel: 2.0, DirectLevel: 1, OverallLevel: 1.2},
		},
		OverallAttainment: 1.25,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Report: config.ReportConfig{
			Institution: "INSTITUTE OF TECHNOLOGY",
			Department:  "DEPARTMENT OF COMPUTER SCIENCE AND ENGINEERING",
			Title:       "COURSE OUTCOME ATTAINMENT",
		},
	}
}

// roundTrip serializes the built workbook and reopens it, the same way a
// downloaded file would be read back.
func roundTrip(t *testing.T, data *model.ReportData) *excelize.File {
	t.Helper()

	f, err := BuildWorkbook(data, testConfig())
	if err != nil {
		t.Fatalf("BuildWorkbook: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	f.Close()

	reopened, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	t.Cleanup(func() { reopened.Close() })
	return reopened
}

func TestBuildWorkbookSheets(t *testing.T) {
	f := roundTrip(t, testReportData())

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "CO" || sheets[1] != "MATRIX" {
		t.Errorf("sheets = %v, expected [CO MATRIX]", sheets)
	}
}

func TestCOSheetContents(t *testing.T) {
	f := roundTrip(t, testReportData())

	checks := map[string]string{
		"A6":  "Course:",
		"B6":  "22CS401",
		"B7":  "DATA STRUCTURES",
		"B8":  "2",
		"A10": "S.NO",
		"D10": "CO1",
		"L10": "CO2",
		"D11": "CIA",
		"J11": "FINAL %",
		"C12": "Max Marks",
		"D12": "20",
		"G12": "15",
		"B13": "R001",
		"C13": "Asha",
		"D13": "18",
		"G13": "12",
		"B14": "R002",
	}
	for addr, want := range checks {
		got, err := f.GetCellValue("CO", addr)
		if err != nil {
			t.Fatalf("GetCellValue(CO, %s): %v", addr, err)
		}
		if got != want {
			t.Errorf("CO!%s = %q, expected %q", addr, got, want)
		}
	}
}

func TestCOSheetFormulas(t *testing.T) {
	f := roundTrip(t, testReportData())

	// First student, first CO: percentage, status and the 60/40 final.
	formulaChecks := map[string]string{
		"E13": "ROUND(D13/$D$12*100,0)",
		"F13": `IF(E13>65,"Y","N")`,
		"J13": "ROUND((60*D13/$D$12)+(40*G13/$G$12),0)",
		"K13": `IF(J13>65,"Y","N")`,
		// Summary rows start right below the two students.
		"K15": `COUNTIF(K13:K14,"Y")`,
	}
	for addr, want := range formulaChecks {
		got, err := f.GetCellFormula("CO", addr)
		if err != nil {
			t.Fatalf("GetCellFormula(CO, %s): %v", addr, err)
		}
		if got != want {
			t.Errorf("CO!%s formula = %q, expected %q", addr, got, want)
		}
	}

	// Level formula nests the 70/65/60 thresholds.
	lvl, err := f.GetCellFormula("CO", "K17")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(lvl, ">70,3") || !strings.Contains(lvl, ">65,2") || !strings.Contains(lvl, ">60,1") {
		t.Errorf("level formula = %q", lvl)
	}
}

func TestMatrixSheetContents(t *testing.T) {
	f := roundTrip(t, testReportData())

	if got, _ := f.GetCellValue("MATRIX", "B4"); got != "22CS401" {
		t.Errorf("MATRIX!B4 = %q", got)
	}
	if got, _ := f.GetCellValue("MATRIX", "B9"); got != "CO1" {
		t.Errorf("MATRIX!B9 = %q", got)
	}
	if got, _ := f.GetCellValue("MATRIX", "A10"); got != "DIRECT METHOD" {
		t.Errorf("MATRIX!A10 = %q", got)
	}
	// External semester level is written as a plain value.
	if got, _ := f.GetCellValue("MATRIX", "B13"); got != "3" {
		t.Errorf("MATRIX!B13 = %q", got)
	}
	if got, _ := f.GetCellValue("MATRIX", "B16"); got != "2.5" {
		t.Errorf("MATRIX!B16 = %q", got)
	}

	// CIA level references the CO summary rows (two students, so the CIA
	// level row on the CO sheet is 18).
	if got, _ := f.GetCellFormula("MATRIX", "B11"); got != "'CO'!K18" {
		t.Errorf("MATRIX!B11 formula = %q", got)
	}
	if got, _ := f.GetCellFormula("MATRIX", "B14"); got != "ROUND(AVERAGE(B11,B12,B13),0)" {
		t.Errorf("MATRIX!B14 formula = %q", got)
	}
	if got, _ := f.GetCellFormula("MATRIX", "B18"); got != "(B14*0.8)+(B16*0.2)" {
		t.Errorf("MATRIX!B18 formula = %q", got)
	}

	box, _ := f.GetCellValue("MATRIX", "B20")
	if !strings.Contains(box, "22CS401") || !strings.Contains(box, "1.25") {
		t.Errorf("final statement = %q", box)
	}
}
