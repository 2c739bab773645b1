package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"co-attain/internal/config"
	"co-attain/internal/model"
)

// Fixed geometry of the generated CO sheet: the per-student block starts at
// column D with eight columns per CO, students begin at row 13 below the
// two-row header and the red max-mark row.
const (
	coSheetName     = "CO"
	matrixSheetName = "MATRIX"

	coStartCol      = 4
	colsPerCO       = 8
	groupHeaderRow  = 10
	subHeaderRow    = 11
	maxMarkRow      = 12
	studentStartRow = 13
)

var subHeaders = []string{"CIA", "CIA %", "CIA Status", "Assessment", "Ass %", "Ass Status", "FINAL %", "Status"}

// ExcelExporter handles the Excel generation
type ExcelExporter struct {
	// Stateless
}

// NewExcelExporter creates a new ExcelExporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export generates the Excel report on disk
func (e *ExcelExporter) Export(data *model.ReportData, cfg *config.Config) error {
	f, err := BuildWorkbook(data, cfg)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.SaveAs(cfg.GetOutputPath("xlsx"))
}

// BuildWorkbook assembles the CO and MATRIX sheets. The CO sheet carries live
// formulas mirroring the computed values so the workbook stays editable; the
// MATRIX sheet references the CO summary rows.
func BuildWorkbook(data *model.ReportData, cfg *config.Config) (*excelize.File, error) {
	f := excelize.NewFile()
	styler, err := NewStyler(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := writeCOSheet(f, styler, data, cfg); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeMatrixSheet(f, styler, data, cfg); err != nil {
		f.Close()
		return nil, err
	}

	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		f.DeleteSheet("Sheet1")
	}
	if idx, err := f.GetSheetIndex(coSheetName); err == nil && idx != -1 {
		f.SetActiveSheet(idx)
	}

	return f, nil
}

func colName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colName(col), row)
}

// coBaseCol returns the first column of the eight-column block for the CO at
// the given index.
func coBaseCol(idx int) int {
	return coStartCol + idx*colsPerCO
}

func writeCOSheet(f *excelize.File, s *Styler, data *model.ReportData, cfg *config.Config) error {
	if _, err := f.NewSheet(coSheetName); err != nil {
		return err
	}

	totalCols := 3 + len(data.COIDs)*colsPerCO
	lastCol := colName(totalCols)

	// Title block, rows 1-4
	titles := []struct {
		text  string
		style int
	}{
		{cfg.Report.Institution, s.TitleStyle},
		{cfg.Report.Department, s.SubTitleStyle},
		{cfg.Report.Title, s.SubTitleStyle},
		{cfg.Report.AcademicYear, s.SubTitleStyle},
	}
	for i, title := range titles {
		row := i + 1
		if err := f.MergeCell(coSheetName, cellRef(1, row), fmt.Sprintf("%s%d", lastCol, row)); err != nil {
			return err
		}
		f.SetCellValue(coSheetName, cellRef(1, row), title.text)
		f.SetCellStyle(coSheetName, cellRef(1, row), cellRef(1, row), title.style)
	}

	// Metadata block, rows 6-8
	f.SetCellValue(coSheetName, "A6", "Course:")
	f.SetCellValue(coSheetName, "B6", data.Meta.CourseCode)
	f.SetCellValue(coSheetName, "A7", "COURSE NAME:")
	f.SetCellValue(coSheetName, "B7", data.Meta.CourseName)
	f.SetCellValue(coSheetName, "A8", "Total Students:")
	f.SetCellValue(coSheetName, "B8", len(data.Students))
	f.SetCellValue(coSheetName, "A9", "Percentage of Students above target level")

	// Fixed headers, merged across rows 10-11
	fixed := []string{"S.NO", "REGISTER", "NAME"}
	for i, label := range fixed {
		top := cellRef(i+1, groupHeaderRow)
		if err := f.MergeCell(coSheetName, top, cellRef(i+1, subHeaderRow)); err != nil {
			return err
		}
		f.SetCellValue(coSheetName, top, label)
		f.SetCellStyle(coSheetName, top, cellRef(i+1, subHeaderRow), s.HeaderStyle)
	}

	// Per-CO header groups and red max-mark row
	for idx, id := range data.COIDs {
		base := coBaseCol(idx)

		group := cellRef(base, groupHeaderRow)
		if err := f.MergeCell(coSheetName, group, cellRef(base+colsPerCO-1, groupHeaderRow)); err != nil {
			return err
		}
		f.SetCellValue(coSheetName, group, fmt.Sprintf("CO%d", id))
		f.SetCellStyle(coSheetName, group, cellRef(base+colsPerCO-1, groupHeaderRow), s.HeaderStyle)

		for i, sh := range subHeaders {
			addr := cellRef(base+i, subHeaderRow)
			f.SetCellValue(coSheetName, addr, sh)
			f.SetCellStyle(coSheetName, addr, addr, s.HeaderStyle)
		}

		max := data.MaxMarks[id]
		f.SetCellValue(coSheetName, cellRef(base, maxMarkRow), max.CIA)
		f.SetCellValue(coSheetName, cellRef(base+3, maxMarkRow), max.Assessment)
		f.SetCellStyle(coSheetName, cellRef(base, maxMarkRow), cellRef(base+colsPerCO-1, maxMarkRow), s.CellStyle)
		f.SetCellStyle(coSheetName, cellRef(base, maxMarkRow), cellRef(base, maxMarkRow), s.MaxMarkStyle)
		f.SetCellStyle(coSheetName, cellRef(base+3, maxMarkRow), cellRef(base+3, maxMarkRow), s.MaxMarkStyle)
	}

	f.SetCellValue(coSheetName, cellRef(3, maxMarkRow), "Max Marks")
	f.SetCellStyle(coSheetName, cellRef(3, maxMarkRow), cellRef(3, maxMarkRow), s.MaxMarkLabelStyle)
	f.SetCellStyle(coSheetName, cellRef(1, maxMarkRow), cellRef(2, maxMarkRow), s.CellStyle)

	// Student rows with live formulas
	for sIdx, student := range data.Students {
		row := studentStartRow + sIdx

		f.SetCellValue(coSheetName, cellRef(1, row), sIdx+1)
		f.SetCellValue(coSheetName, cellRef(2, row), student.RollNo)
		f.SetCellValue(coSheetName, cellRef(3, row), student.Name)

		for idx, id := range data.COIDs {
			base := coBaseCol(idx)
			ciaL := colName(base)
			assL := colName(base + 3)

			f.SetCellValue(coSheetName, cellRef(base, row), student.CIAMarks[id])
			f.SetCellValue(coSheetName, cellRef(base+3, row), student.AssessmentMarks[id])

			f.SetCellFormula(coSheetName, cellRef(base+1, row),
				fmt.Sprintf("ROUND(%s%d/$%s$%d*100,0)", ciaL, row, ciaL, maxMarkRow))
			f.SetCellFormula(coSheetName, cellRef(base+2, row),
				fmt.Sprintf("IF(%s%d>65,\"Y\",\"N\")", colName(base+1), row))
			f.SetCellFormula(coSheetName, cellRef(base+4, row),
				fmt.Sprintf("ROUND(%s%d/$%s$%d*100,0)", assL, row, assL, maxMarkRow))
			f.SetCellFormula(coSheetName, cellRef(base+5, row),
				fmt.Sprintf("IF(%s%d>65,\"Y\",\"N\")", colName(base+4), row))
			f.SetCellFormula(coSheetName, cellRef(base+6, row),
				fmt.Sprintf("ROUND((60*%s%d/$%s$%d)+(40*%s%d/$%s$%d),0)",
					ciaL, row, ciaL, maxMarkRow, assL, row, assL, maxMarkRow))
			f.SetCellFormula(coSheetName, cellRef(base+7, row),
				fmt.Sprintf("IF(%s%d>65,\"Y\",\"N\")", colName(base+6), row))
		}

		f.SetCellStyle(coSheetName, cellRef(1, row), cellRef(totalCols, row), s.CellStyle)
		f.SetCellStyle(coSheetName, cellRef(3, row), cellRef(3, row), s.NameStyle)
	}

	return writeCOSummary(f, s, data)
}

// writeCOSummary appends the five attainment rows below the roster: the pass
// count, pass percentage and the final/CIA/Assessment levels per CO.
func writeCOSummary(f *excelize.File, s *Styler, data *model.ReportData) error {
	lastStudentRow := studentStartRow + len(data.Students) - 1
	nameRange := fmt.Sprintf("$C$%d:$C$%d", studentStartRow, lastStudentRow)

	labels := []string{
		"Total Y (Final)",
		"Percentage (Final)",
		"Final Attainment Level",
		"CIA Attainment Level",
		"Assessment Attainment Level",
	}
	for i, label := range labels {
		addr := cellRef(3, lastStudentRow+1+i)
		f.SetCellValue(coSheetName, addr, label)
		f.SetCellStyle(coSheetName, addr, addr, s.SummaryLabelStyle)
		f.SetCellStyle(coSheetName, cellRef(1, lastStudentRow+1+i), cellRef(2, lastStudentRow+1+i), s.CellStyle)
	}

	levelFormula := func(ref string) string {
		return fmt.Sprintf("IF(%s>70,3,IF(%s>65,2,IF(%s>60,1,0)))", ref, ref, ref)
	}

	for idx := range data.COIDs {
		base := coBaseCol(idx)
		ciaStatL := colName(base + 2)
		assStatL := colName(base + 5)
		statusL := colName(base + 7)

		countRow := lastStudentRow + 1
		percRow := lastStudentRow + 2

		f.SetCellFormula(coSheetName, fmt.Sprintf("%s%d", statusL, countRow),
			fmt.Sprintf("COUNTIF(%s%d:%s%d,\"Y\")", statusL, studentStartRow, statusL, lastStudentRow))
		f.SetCellFormula(coSheetName, fmt.Sprintf("%s%d", statusL, percRow),
			fmt.Sprintf("ROUND((%s%d/COUNTA(%s))*100,0)", statusL, countRow, nameRange))
		f.SetCellFormula(coSheetName, fmt.Sprintf("%s%d", statusL, lastStudentRow+3),
			levelFormula(fmt.Sprintf("%s%d", statusL, percRow)))

		ciaPerc := fmt.Sprintf("ROUND((COUNTIF(%s%d:%s%d,\"Y\")/COUNTA(%s))*100,0)",
			ciaStatL, studentStartRow, ciaStatL, lastStudentRow, nameRange)
		f.SetCellFormula(coSheetName, fmt.Sprintf("%s%d", statusL, lastStudentRow+4), levelFormula(ciaPerc))

		assPerc := fmt.Sprintf("ROUND((COUNTIF(%s%d:%s%d,\"Y\")/COUNTA(%s))*100,0)",
			assStatL, studentStartRow, assStatL, lastStudentRow, nameRange)
		f.SetCellFormula(coSheetName, fmt.Sprintf("%s%d", statusL, lastStudentRow+5), levelFormula(assPerc))

		for r := 1; r <= 5; r++ {
			addr := fmt.Sprintf("%s%d", statusL, lastStudentRow+r)
			f.SetCellStyle(coSheetName, addr, addr, s.SummaryValueStyle)
		}
	}

	f.SetColWidth(coSheetName, "A", "A", 6)
	f.SetColWidth(coSheetName, "B", "B", 18)
	f.SetColWidth(coSheetName, "C", "C", 28)

	return nil
}

func writeMatrixSheet(f *excelize.File, s *Styler, data *model.ReportData, cfg *config.Config) error {
	if _, err := f.NewSheet(matrixSheetName); err != nil {
		return err
	}

	totalCols := len(data.COIDs) + 1
	lastCol := colName(totalCols)
	lastStudentRow := studentStartRow + len(data.Students) - 1

	// Titles, rows 1-2
	titles := []struct {
		text  string
		style int
	}{
		{cfg.Report.Institution, s.TitleStyle},
		{cfg.Report.Department, s.SubTitleStyle},
	}
	for i, title := range titles {
		row := i + 1
		if err := f.MergeCell(matrixSheetName, cellRef(1, row), fmt.Sprintf("%s%d", lastCol, row)); err != nil {
			return err
		}
		f.SetCellValue(matrixSheetName, cellRef(1, row), title.text)
		f.SetCellStyle(matrixSheetName, cellRef(1, row), cellRef(1, row), title.style)
	}

	// Metadata, rows 3-7
	meta := []struct {
		label string
		value string
	}{
		{"Academic year", cfg.Report.AcademicYear},
		{"Course Code", data.Meta.CourseCode},
		{"Course Name", data.Meta.CourseName},
		{"Class", cfg.Report.ClassName},
		{"Semester", cfg.Report.Semester},
	}
	for i, m := range meta {
		row := i + 3
		f.SetCellValue(matrixSheetName, cellRef(1, row), m.label)
		f.SetCellStyle(matrixSheetName, cellRef(1, row), cellRef(1, row), s.MetaLabelStyle)
		if err := f.MergeCell(matrixSheetName, cellRef(2, row), fmt.Sprintf("%s%d", lastCol, row)); err != nil {
			return err
		}
		f.SetCellValue(matrixSheetName, cellRef(2, row), m.value)
		f.SetCellStyle(matrixSheetName, cellRef(2, row), fmt.Sprintf("%s%d", lastCol, row), s.MetaValueStyle)
	}

	// Row 9: component headers
	f.SetCellValue(matrixSheetName, "A9", "Component")
	f.SetCellStyle(matrixSheetName, "A9", "A9", s.MetaLabelStyle)
	for idx, id := range data.COIDs {
		addr := cellRef(idx+2, 9)
		f.SetCellValue(matrixSheetName, addr, fmt.Sprintf("CO%d", id))
		f.SetCellStyle(matrixSheetName, addr, addr, s.HeaderStyle)
	}

	banner := func(row int, text string) error {
		if err := f.MergeCell(matrixSheetName, cellRef(1, row), fmt.Sprintf("%s%d", lastCol, row)); err != nil {
			return err
		}
		f.SetCellValue(matrixSheetName, cellRef(1, row), text)
		f.SetCellStyle(matrixSheetName, cellRef(1, row), cellRef(1, row), s.SectionStyle)
		return nil
	}

	if err := banner(10, "DIRECT METHOD"); err != nil {
		return err
	}

	// Rows 11-14: direct-method levels per CO
	directRows := []struct {
		row   int
		label string
		style int
	}{
		{11, "CIA", s.GrayLabelStyle},
		{12, "ASSESSMENT COMPONENTS", s.GrayLabelStyle},
		{13, "End Semester Examinations (External)", s.GrayLabelStyle},
		{14, "OVERALL DIRECT ATTAINMENT", s.BeigeStyle},
	}
	for _, dr := range directRows {
		f.SetCellValue(matrixSheetName, cellRef(1, dr.row), dr.label)
		f.SetCellStyle(matrixSheetName, cellRef(1, dr.row), cellRef(1, dr.row), dr.style)
	}

	for idx := range data.COIDs {
		stat := data.Matrix[idx]
		col := idx + 2
		mColL := colName(col)
		statusL := colName(coBaseCol(idx) + 7)

		f.SetCellFormula(matrixSheetName, cellRef(col, 11),
			fmt.Sprintf("'%s'!%s%d", coSheetName, statusL, lastStudentRow+4))
		f.SetCellFormula(matrixSheetName, cellRef(col, 12),
			fmt.Sprintf("'%s'!%s%d", coSheetName, statusL, lastStudentRow+5))
		f.SetCellValue(matrixSheetName, cellRef(col, 13), stat.SemesterLevel)
		f.SetCellFormula(matrixSheetName, cellRef(col, 14),
			fmt.Sprintf("ROUND(AVERAGE(%s11,%s12,%s13),0)", mColL, mColL, mColL))

		for _, dr := range directRows {
			addr := cellRef(col, dr.row)
			style := s.CellStyle
			if dr.row == 14 {
				style = s.BeigeStyle
			}
			f.SetCellStyle(matrixSheetName, addr, addr, style)
		}
	}

	if err := banner(15, "Indirect Method"); err != nil {
		return err
	}

	// Row 16: exit-survey levels (decimal)
	f.SetCellValue(matrixSheetName, "A16", "Course Exit Survey")
	f.SetCellStyle(matrixSheetName, "A16", "A16", s.GrayLabelStyle)
	for idx := range data.COIDs {
		addr := cellRef(idx+2, 16)
		f.SetCellValue(matrixSheetName, addr, data.Matrix[idx].ExitLevel)
		f.SetCellStyle(matrixSheetName, addr, addr, s.CellStyle)
	}

	if err := banner(17, "OVERALL ATTAINMENT (80 % Direct & 20% Indirect)"); err != nil {
		return err
	}

	// Row 18: blended overall levels
	f.SetCellValue(matrixSheetName, "A18", "OVERALL ATTAINMENT")
	f.SetCellStyle(matrixSheetName, "A18", "A18", s.OrangeStyle)
	for idx := range data.COIDs {
		col := idx + 2
		addr := cellRef(col, 18)
		f.SetCellFormula(matrixSheetName, addr,
			fmt.Sprintf("(%s14*0.8)+(%s16*0.2)", colName(col), colName(col)))
		f.SetCellStyle(matrixSheetName, addr, addr, s.OrangeStyle)
	}

	// Final statement box
	if err := f.MergeCell(matrixSheetName, "B20", fmt.Sprintf("%s21", lastCol)); err != nil {
		return err
	}
	f.SetCellValue(matrixSheetName, "B20",
		fmt.Sprintf("Overall CO Attainment for %s - %s = %.2f",
			data.Meta.CourseCode, data.Meta.CourseName, data.OverallAttainment))
	f.SetCellStyle(matrixSheetName, "B20", fmt.Sprintf("%s21", lastCol), s.FinalBoxStyle)

	f.SetColWidth(matrixSheetName, "A", "A", 40)
	if totalCols >= 2 {
		f.SetColWidth(matrixSheetName, "B", lastCol, 12)
	}

	return nil
}
