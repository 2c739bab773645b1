// Package word fills a .docx attainment summary from a site-provided
// template. The template carries {{PLACEHOLDER}} tokens that are replaced
// with the computed results.
package word

import (
	"fmt"

	"github.com/nguyenthenguyen/docx"
	"github.com/pkg/errors"

	"co-attain/internal/config"
	"co-attain/internal/model"
)

type WordExporter struct{}

func NewWordExporter() *WordExporter {
	return &WordExporter{}
}

func (e *WordExporter) Export(data *model.ReportData, cfg *config.Config) error {
	templatePath := cfg.Report.WordTemplate
	if templatePath == "" {
		return errors.New("report.word_template is not configured")
	}

	r, err := docx.ReadDocxFile(templatePath)
	if err != nil {
		return errors.Wrapf(err, "failed to open word template %s", templatePath)
	}
	defer r.Close()

	doc := r.Editable()
	for token, value := range replacements(data, cfg) {
		if err := doc.Replace(token, value, -1); err != nil {
			return errors.Wrapf(err, "failed to substitute %s", token)
		}
	}

	return doc.WriteToFile(cfg.GetOutputPath("docx"))
}

func replacements(data *model.ReportData, cfg *config.Config) map[string]string {
	repl := map[string]string{
		"{{INSTITUTION}}":        cfg.Report.Institution,
		"{{DEPARTMENT}}":         cfg.Report.Department,
		"{{ACADEMIC_YEAR}}":      cfg.Report.AcademicYear,
		"{{COURSE_CODE}}":        data.Meta.CourseCode,
		"{{COURSE_NAME}}":        data.Meta.CourseName,
		"{{TOTAL_STUDENTS}}":     fmt.Sprintf("%d", len(data.Students)),
		"{{OVERALL_ATTAINMENT}}": fmt.Sprintf("%.2f", data.OverallAttainment),
	}

	for i, id := range data.COIDs {
		if i < len(data.Matrix) {
			repl[fmt.Sprintf("{{CO%d_DIRECT}}", id)] = fmt.Sprintf("%d", data.Matrix[i].DirectLevel)
			repl[fmt.Sprintf("{{CO%d_OVERALL}}", id)] = fmt.Sprintf("%.2f", data.Matrix[i].OverallLevel)
		}
	}
	return repl
}
