package extractor

import (
	"fmt"
	"strings"

	"co-attain/internal/model"
	"co-attain/internal/textutil"
)

// summaryRowLabels identify footer/summary rows mixed into the data region.
// A row whose name cell matches any of these is not a student record.
var summaryRowLabels = []string{"total", "average", "max", "names", "register"}

// ExtractStudents walks every row strictly below the header, producing one
// Student per retained row. It never fails; an empty roster is the caller's
// problem (and upstream treats it as a fatal validation error).
func ExtractStudents(sheet *Sheet, st Structure) []model.Student {
	var students []model.Student

	for row := st.HeaderRow + 1; row <= sheet.RowCount(); row++ {
		name := strings.TrimSpace(sheet.Cell(row, st.NameCol))
		if name == "" || textutil.Fold(name) == "" || textutil.Match(name, summaryRowLabels...) {
			continue
		}

		roll := strings.TrimSpace(sheet.Cell(row, st.RollCol))
		if roll == "" {
			// Synthetic key: distinct from any real register number, still
			// stable for joining the two sheets by position.
			roll = fmt.Sprintf("S%d", row)
		}

		s := model.Student{
			RollNo: roll,
			Name:   name,
			Marks:  make(map[int]float64, len(st.COColumns)),
		}
		for id, col := range st.COColumns {
			s.Marks[id] = Num(sheet.Cell(row, col))
		}
		students = append(students, s)
	}

	return students
}
