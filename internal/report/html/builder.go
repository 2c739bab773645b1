package html

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	"co-attain/internal/config"
	"co-attain/internal/model"
)

type HTMLExporter struct{}

func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{}
}

// View structures for the report template
type reportView struct {
	Institution   string
	Title         string
	CourseCode    string
	CourseName    string
	TotalStudents int
	COLabels      []string
	Students      []studentView
	MatrixRows    []matrixRowView
	Overall       string
}

type studentView struct {
	SNo     int
	RegNo   string
	Name    string
	Results []resultView
}

type resultView struct {
	CIA        string
	Assessment string
	Final      int
	Status     string
}

type matrixRowView struct {
	Label     string
	Values    []string
	Highlight bool
}

func (e *HTMLExporter) Export(data *model.ReportData, cfg *config.Config) error {
	out, err := Render(data, cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(cfg.GetOutputPath("html"), out, 0644)
}

// Render produces the full HTML page for the given results. The PDF renderer
// feeds this straight into a headless browser.
func Render(data *model.ReportData, cfg *config.Config) ([]byte, error) {
	tmpl, err := template.New("co-report").Parse(ReportTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, buildView(data, cfg)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildView(data *model.ReportData, cfg *config.Config) reportView {
	view := reportView{
		Institution:   cfg.Report.Institution,
		Title:         cfg.Report.Title,
		CourseCode:    data.Meta.CourseCode,
		CourseName:    data.Meta.CourseName,
		TotalStudents: len(data.Students),
		Overall:       fmt.Sprintf("%.2f", data.OverallAttainment),
	}

	for _, id := range data.COIDs {
		view.COLabels = append(view.COLabels, fmt.Sprintf("CO%d", id))
	}

	for i, s := range data.Students {
		sv := studentView{SNo: i + 1, RegNo: s.RollNo, Name: s.Name}
		for _, id := range data.COIDs {
			res := s.Results[id]
			status := "N"
			if res.Passed {
				status = "Y"
			}
			sv.Results = append(sv.Results, resultView{
				CIA:        trimZeros(s.CIAMarks[id]),
				Assessment: trimZeros(s.AssessmentMarks[id]),
				Final:      res.FinalPercent,
				Status:     status,
			})
		}
		view.Students = append(view.Students, sv)
	}

	view.MatrixRows = matrixRows(data.Matrix)
	return view
}

func matrixRows(stats []model.MatrixStat) []matrixRowView {
	rows := []matrixRowView{
		{Label: "CIA Attainment (0-3)"},
		{Label: "Assessment Attainment (0-3)"},
		{Label: "End Semester Attainment (0-3)"},
		{Label: "OVERALL DIRECT ATTAINMENT"},
		{Label: "Indirect Method (Exit Survey)"},
		{Label: "OVERALL ATTAINMENT (80/20)", Highlight: true},
	}

	for _, stat := range stats {
		rows[0].Values = append(rows[0].Values, fmt.Sprintf("%d", stat.CIALevel))
		rows[1].Values = append(rows[1].Values, fmt.Sprintf("%d", stat.AssessmentLevel))
		rows[2].Values = append(rows[2].Values, fmt.Sprintf("%d", stat.SemesterLevel))
		rows[3].Values = append(rows[3].Values, fmt.Sprintf("%d", stat.DirectLevel))
		rows[4].Values = append(rows[4].Values, fmt.Sprintf("%.2f", stat.ExitLevel))
		rows[5].Values = append(rows[5].Values, fmt.Sprintf("%.2f", stat.OverallLevel))
	}
	return rows
}

func trimZeros(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
