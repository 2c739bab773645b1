// Package pdf renders the HTML report to PDF through a headless Chromium.
package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"

	"co-attain/internal/apperror"
	"co-attain/internal/config"
	"co-attain/internal/logger"
	"co-attain/internal/model"
	"co-attain/internal/report/html"
)

// browserCandidates are tried in order when no binary is configured.
var browserCandidates = []string{"chromium", "chromium-browser", "google-chrome", "chrome"}

type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

func (e *PDFExporter) Export(data *model.ReportData, cfg *config.Config) error {
	out, err := Render(context.Background(), data, cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(cfg.GetOutputPath("pdf"), out, 0644)
}

// Render builds the HTML report, prints it through a headless browser and
// returns the PDF bytes. Failures are server faults: the upload itself was
// already valid by the time rendering starts.
func Render(ctx context.Context, data *model.ReportData, cfg *config.Config) ([]byte, error) {
	page, err := html.Render(data, cfg)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.StatusInternal, "report rendering failed")
	}

	browser, err := findBrowser(cfg.Report.ChromePath)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.StatusInternal, "no browser available for PDF rendering")
	}

	workDir, err := os.MkdirTemp("", "co-attain-pdf-*")
	if err != nil {
		return nil, apperror.Wrap(err, apperror.StatusInternal, "temp dir creation failed")
	}
	defer os.RemoveAll(workDir)

	htmlPath := filepath.Join(workDir, "report.html")
	pdfPath := filepath.Join(workDir, "report.pdf")
	if err := os.WriteFile(htmlPath, page, 0644); err != nil {
		return nil, apperror.Wrap(err, apperror.StatusInternal, "temp file write failed")
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.RenderTimeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, browser,
		"--headless",
		"--disable-gpu",
		"--no-sandbox",
		"--no-pdf-header-footer",
		fmt.Sprintf("--print-to-pdf=%s", pdfPath),
		"file://"+htmlPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		logger.Error("browser failed: %v: %s", err, out)
		return nil, apperror.Wrap(err, apperror.StatusInternal, "PDF rendering failed")
	}

	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.StatusInternal, "PDF output missing")
	}
	return pdf, nil
}

func findBrowser(configured string) (string, error) {
	if configured != "" {
		if _, err := exec.LookPath(configured); err != nil {
			return "", errors.Wrapf(err, "configured browser %q not found", configured)
		}
		return configured, nil
	}
	for _, name := range browserCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", errors.New("no chromium-compatible browser on PATH")
}
