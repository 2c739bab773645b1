package report

import (
	"strings"

	"co-attain/internal/config"
	"co-attain/internal/logger"
	"co-attain/internal/report/html"
	"co-attain/internal/report/pdf"
	"co-attain/internal/report/word"
)

// GetExporters returns a list of Exporters based on requested formats
func GetExporters(formats []string, cfg *config.Config) []Exporter {
	exporters := []Exporter{}
	seen := make(map[string]bool)

	for _, fmtStr := range formats {
		fmtStr = strings.ToLower(strings.TrimSpace(fmtStr))
		if seen[fmtStr] {
			continue
		}
		seen[fmtStr] = true

		switch fmtStr {
		case "excel", "xlsx":
			exporters = append(exporters, NewExcelExporter())
		case "html":
			exporters = append(exporters, html.NewHTMLExporter())
		case "pdf":
			exporters = append(exporters, pdf.NewPDFExporter())
		case "word", "docx":
			// The word exporter needs a site-provided template
			if cfg.Report.WordTemplate == "" {
				logger.Warn("word format requested but report.word_template is not set, skipping")
				continue
			}
			exporters = append(exporters, word.NewWordExporter())
		}
	}

	return exporters
}
