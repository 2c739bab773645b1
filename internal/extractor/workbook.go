package extractor

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"

	"co-attain/internal/apperror"
	"co-attain/internal/logger"
	"co-attain/internal/model"
	"co-attain/internal/textutil"
)

// Sheet role detection works on the folded sheet name: all non-letters are
// stripped and the rest lower-cased, so " CIA " and "Cia" both resolve to the
// CIA role. CIA and Assessment require an exact folded match; the optional
// sheets match on substring.
const (
	roleCIA        = "cia"
	roleAssessment = "assessment"
	roleExit       = "exit"
	roleSemester   = "semester"
)

// Placeholder metadata used when the fixed cells are blank or unreadable.
const (
	DefaultCourseCode = "20CS"
	DefaultCourseName = "Course Name"
)

// Workbook is an opened upload with its sheets resolved to their roles.
type Workbook struct {
	file       *excelize.File
	CIA        *Sheet
	Assessment *Sheet
	Exit       *Sheet // optional, may be nil
	Semester   *Sheet // optional, may be nil
}

// OpenWorkbook parses the uploaded buffer and locates the required CIA and
// Assessment sheets plus the optional exit-survey and end-semester sheets.
// All failures here are client faults.
func OpenWorkbook(data []byte) (*Workbook, error) {
	if len(data) == 0 {
		return nil, apperror.New(apperror.StatusBadRequest, "Empty file uploaded")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperror.Wrap(err, apperror.StatusUnprocessable,
			"Invalid or corrupted Excel file. Please upload a valid .xlsx file.")
	}

	wb := &Workbook{file: f}
	for _, name := range f.GetSheetList() {
		folded := textutil.FoldLetters(name)
		switch {
		case folded == roleCIA && wb.CIA == nil:
			wb.CIA, err = newSheet(f, name)
		case folded == roleAssessment && wb.Assessment == nil:
			wb.Assessment, err = newSheet(f, name)
		case strings.Contains(folded, roleExit) && wb.Exit == nil:
			wb.Exit, err = newSheet(f, name)
		case strings.Contains(folded, roleSemester) && wb.Semester == nil:
			wb.Semester, err = newSheet(f, name)
		}
		if err != nil {
			f.Close()
			return nil, apperror.Wrap(err, apperror.StatusUnprocessable,
				"Failed to read sheet "+name)
		}
	}

	if wb.CIA == nil {
		f.Close()
		return nil, apperror.New(apperror.StatusUnprocessable,
			"CIA sheet not detected (check sheet name spelling)")
	}
	if wb.Assessment == nil {
		f.Close()
		return nil, apperror.New(apperror.StatusUnprocessable,
			"Assessment sheet not detected (check sheet name spelling)")
	}

	return wb, nil
}

// Close releases the underlying file resources.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// ExtractSheet runs the full per-sheet phase chain: structure discovery, red
// max-mark resolution, student row extraction.
func ExtractSheet(sheet *Sheet, kind SheetKind) (model.SheetData, error) {
	st, err := DiscoverStructure(sheet, kind)
	if err != nil {
		return model.SheetData{}, err
	}

	return model.SheetData{
		MaxMarks: ResolveMaxMarks(sheet, kind, st.HeaderRow, st.COColumns),
		Students: ExtractStudents(sheet, st),
	}, nil
}

// courseCodeCells and courseNameCells are the fixed metadata locations on the
// CIA sheet; the first readable candidate wins.
var (
	courseCodeCells = []string{"C5", "B5"}
	courseNameCells = []string{"C6", "B6"}
)

// CourseMeta reads course code and name off the CIA sheet, defaulting to
// placeholders when the cells are empty.
func (w *Workbook) CourseMeta() model.CourseMeta {
	meta := model.CourseMeta{
		CourseCode: w.cellOrDefault(w.CIA.Name, courseCodeCells, DefaultCourseCode),
		CourseName: w.cellOrDefault(w.CIA.Name, courseNameCells, DefaultCourseName),
	}
	return meta
}

func (w *Workbook) cellOrDefault(sheetName string, candidates []string, fallback string) string {
	for _, addr := range candidates {
		v, err := w.file.GetCellValue(sheetName, addr)
		if err != nil {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return fallback
}

// attainmentLabel marks the row carrying externally-supplied attainment
// levels on the exit-survey and end-semester sheets.
const attainmentLabel = "attainment"

// ExtractAttainmentLevels scans an optional sheet for rows mentioning
// "attainment" and collects the red-flagged numeric cells on those rows, in
// column order. A nil sheet yields no levels.
func ExtractAttainmentLevels(sheet *Sheet) []model.ExternalLevel {
	if sheet == nil {
		return nil
	}

	var levels []model.ExternalLevel
	for row := 1; row <= sheet.RowCount(); row++ {
		if !rowMentionsAttainment(sheet, row) {
			continue
		}
		for col := 1; col <= sheet.ColCount(row); col++ {
			n, ok := numOK(sheet.Cell(row, col))
			if !ok {
				continue
			}
			if !sheet.IsRedFont(row, col) {
				continue
			}
			addr, _ := excelize.CoordinatesToCellName(col, row)
			levels = append(levels, model.ExternalLevel{
				Value: n,
				Cell:  addr,
				Sheet: sheet.Name,
				Row:   row,
			})
		}
	}

	if len(levels) == 0 {
		logger.Warn("no red attainment marks found in sheet %q", sheet.Name)
	}
	return levels
}

func rowMentionsAttainment(sheet *Sheet, row int) bool {
	for col := 1; col <= sheet.ColCount(row); col++ {
		if textutil.Match(sheet.Cell(row, col), attainmentLabel) {
			return true
		}
	}
	return false
}
