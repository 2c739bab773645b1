package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"co-attain/internal/apperror"
	"co-attain/internal/logger"
	"co-attain/internal/pipeline"
	"co-attain/internal/report"
)

const (
	excelMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfMIME   = "application/pdf"
)

// fail writes the error contract: client faults carry their message
// verbatim, everything else is masked behind the generic message.
func fail(c echo.Context, err error) error {
	status := apperror.StatusOf(err)
	if !apperror.IsClientFault(err) {
		logger.Error("request failed: %v", err)
	}
	return c.JSON(status, map[string]interface{}{
		"success": false,
		"error":   apperror.UserMessage(err),
	})
}

// readUpload pulls the multipart "file" part into memory. Only .xlsx
// uploads (by extension or spreadsheet MIME type) are accepted.
func readUpload(c echo.Context) ([]byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, apperror.New(apperror.StatusUnprocessable, "No valid file uploaded")
	}
	mime := fh.Header.Get(echo.HeaderContentType)
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".xlsx") &&
		mime != excelMIME && mime != "application/vnd.ms-excel" {
		return nil, apperror.New(apperror.StatusBadRequest, "Only Excel files (.xlsx) are allowed")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.StatusUnprocessable, "No valid file uploaded")
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.StatusInternal, "upload read failed")
	}
	if len(buf) == 0 {
		return nil, apperror.New(apperror.StatusUnprocessable, "No valid file uploaded")
	}
	return buf, nil
}

func (s *Service) handlePreview(c echo.Context) error {
	buf, err := readUpload(c)
	if err != nil {
		return fail(c, err)
	}

	preview, err := pipeline.Preview(buf)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    preview,
	})
}

func (s *Service) handleUpload(c echo.Context) error {
	buf, err := readUpload(c)
	if err != nil {
		return fail(c, err)
	}

	data, err := pipeline.Process(buf)
	if err != nil {
		return fail(c, err)
	}

	// Serialize the workbook up front so downloads are a plain byte copy.
	wb, err := report.BuildWorkbook(data, s.cfg)
	if err != nil {
		return fail(c, apperror.Wrap(err, apperror.StatusInternal, "workbook generation failed"))
	}
	excel, err := wb.WriteToBuffer()
	wb.Close()
	if err != nil {
		return fail(c, apperror.Wrap(err, apperror.StatusInternal, "workbook serialization failed"))
	}

	token := s.store.Put(data, excel.Bytes())

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "CO Generated Successfully",
		"token":   token,
		"summary": map[string]interface{}{
			"totalStudents":    len(data.Students),
			"courseCode":       data.Meta.CourseCode,
			"courseName":       data.Meta.CourseName,
			"maxMarks":         data.MaxMarks,
			"attainmentLevels": data.ClassAttainment,
			"overall":          data.OverallAttainment,
		},
	})
}

func (s *Service) lookupResult(c echo.Context) (*storedResult, error) {
	token := c.QueryParam("token")
	res, ok := s.store.Get(token)
	if !ok {
		return nil, apperror.New(apperror.StatusNotFound,
			"No generated file available. Please upload and process a file first.")
	}
	return res, nil
}

func (s *Service) handleDownloadExcel(c echo.Context) error {
	res, err := s.lookupResult(c)
	if err != nil {
		return fail(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename=CO_Attainment.xlsx`)
	return c.Blob(http.StatusOK, excelMIME, res.excel)
}

func (s *Service) handleDownloadPDF(c echo.Context) error {
	res, err := s.lookupResult(c)
	if err != nil {
		return fail(c, err)
	}

	pdfExport, err := s.renderPDF(c.Request().Context(), res.data, s.cfg)
	if err != nil {
		return fail(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename=CO_Attainment.pdf`)
	return c.Blob(http.StatusOK, pdfMIME, pdfExport)
}
