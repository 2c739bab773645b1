package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"co-attain/internal/config"
	"co-attain/internal/model"
)

func testServiceConfig() *config.Config {
	return &config.Config{
		Output: config.OutputConfig{FileName: "co-attainment-report"},
		Report: config.ReportConfig{
			Institution: "INSTITUTE OF TECHNOLOGY",
			Department:  "DEPARTMENT OF COMPUTER SCIENCE AND ENGINEERING",
			Title:       "COURSE OUTCOME ATTAINMENT",
		},
		Server: config.ServerConfig{
			Host:          "127.0.0.1",
			Port:          5000,
			MaxUploadMB:   10,
			ResultTTL:     "1m",
			ClientOrigins: []string{"*"},
		},
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := New(testServiceConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(s.store.Close)
	return s
}

// validUpload builds a minimal processable workbook: one student, one CO,
// red max marks on both sheets.
func validUpload(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	red, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "FF0000", Bold: true}})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.NewSheet("CIA"); err != nil {
		t.Fatal(err)
	}
	f.SetCellValue("CIA", "C5", "22CS401")
	f.SetCellValue("CIA", "C6", "DATA STRUCTURES")
	f.SetCellValue("CIA", "D3", 20)
	f.SetCellStyle("CIA", "D3", "D3", red)
	f.SetCellValue("CIA", "B7", "Register No")
	f.SetCellValue("CIA", "C7", "Name")
	f.SetCellValue("CIA", "D7", "CO1")
	f.SetCellValue("CIA", "B8", "R001")
	f.SetCellValue("CIA", "C8", "Asha")
	f.SetCellValue("CIA", "D8", 18)

	if _, err := f.NewSheet("Assessment"); err != nil {
		t.Fatal(err)
	}
	f.SetCellValue("Assessment", "A1", "COMP3")
	f.SetCellValue("Assessment", "D2", 15)
	f.SetCellStyle("Assessment", "D2", "D2", red)
	f.SetCellValue("Assessment", "B3", "Reg No")
	f.SetCellValue("Assessment", "C3", "Name")
	f.SetCellValue("Assessment", "D3", "CO1")
	f.SetCellValue("Assessment", "B4", "R001")
	f.SetCellValue("Assessment", "C4", "Asha")
	f.SetCellValue("Assessment", "D4", 12)

	f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func multipartUpload(t *testing.T, path string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "upload.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(file); err != nil {
		t.Fatal(err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func doRequest(s *Service, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON response: %v: %s", err, rec.Body.String())
	}
	return out
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestService(t)

	for _, path := range []string{"/", "/api/health"} {
		rec := doRequest(s, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, rec.Code)
		}
		body := decodeJSON(t, rec)
		if body["status"] != "OK" {
			t.Errorf("GET %s status = %v", path, body["status"])
		}
	}
}

func TestUploadAndDownloadExcel(t *testing.T) {
	s := newTestService(t)

	rec := doRequest(s, multipartUpload(t, "/api/upload", validUpload(t)))
	if rec.Code != http.StatusOK {
		t.Fatalf("upload = %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	if body["success"] != true {
		t.Fatalf("upload response: %v", body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("upload response missing token")
	}
	summary, _ := body["summary"].(map[string]interface{})
	if summary["totalStudents"] != float64(1) {
		t.Errorf("totalStudents = %v", summary["totalStudents"])
	}

	dl := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/download/excel?token="+token, nil))
	if dl.Code != http.StatusOK {
		t.Fatalf("download = %d: %s", dl.Code, dl.Body.String())
	}
	if ct := dl.Header().Get(echo.HeaderContentType); ct != excelMIME {
		t.Errorf("content type = %s", ct)
	}

	// The downloaded bytes are a real workbook with both report sheets
	wb, err := excelize.OpenReader(bytes.NewReader(dl.Body.Bytes()))
	if err != nil {
		t.Fatalf("downloaded file does not parse: %v", err)
	}
	defer wb.Close()
	sheets := wb.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "CO" || sheets[1] != "MATRIX" {
		t.Errorf("downloaded sheets = %v", sheets)
	}
}

func TestUploadWithoutFile(t *testing.T) {
	s := newTestService(t)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	rec := doRequest(s, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d", rec.Code)
	}
	body := decodeJSON(t, rec)
	if body["error"] != "No valid file uploaded" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestUploadCorruptFile(t *testing.T) {
	s := newTestService(t)

	rec := doRequest(s, multipartUpload(t, "/api/upload", []byte("definitely not a workbook")))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeJSON(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v", body["success"])
	}
}

func TestUploadRejectsNonExcel(t *testing.T) {
	s := newTestService(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("plain text"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := doRequest(s, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeJSON(t, rec)
	if resp["error"] != "Only Excel files (.xlsx) are allowed" {
		t.Errorf("error = %v", resp["error"])
	}
}

func TestDownloadUnknownToken(t *testing.T) {
	s := newTestService(t)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/download/excel?token=nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	body := decodeJSON(t, rec)
	if body["error"] != "No generated file available. Please upload and process a file first." {
		t.Errorf("error = %v", body["error"])
	}
}

func TestPreviewEndpoint(t *testing.T) {
	s := newTestService(t)

	rec := doRequest(s, multipartUpload(t, "/api/preview", validUpload(t)))
	if rec.Code != http.StatusOK {
		t.Fatalf("preview = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeJSON(t, rec)
	data, _ := body["data"].(map[string]interface{})
	cia, _ := data["ciaData"].(map[string]interface{})
	if cia["totalStudents"] != float64(1) {
		t.Errorf("ciaData.totalStudents = %v", cia["totalStudents"])
	}
}

func TestDownloadPDF(t *testing.T) {
	s := newTestService(t)
	s.renderPDF = func(_ context.Context, data *model.ReportData, _ *config.Config) ([]byte, error) {
		if data == nil {
			t.Error("renderPDF received nil data")
		}
		return []byte("%PDF-1.7 stub"), nil
	}

	rec := doRequest(s, multipartUpload(t, "/api/upload", validUpload(t)))
	if rec.Code != http.StatusOK {
		t.Fatalf("upload = %d", rec.Code)
	}
	token, _ := decodeJSON(t, rec)["token"].(string)

	dl := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/download/pdf?token="+token, nil))
	if dl.Code != http.StatusOK {
		t.Fatalf("pdf download = %d: %s", dl.Code, dl.Body.String())
	}
	if ct := dl.Header().Get(echo.HeaderContentType); ct != pdfMIME {
		t.Errorf("content type = %s", ct)
	}
	if !bytes.HasPrefix(dl.Body.Bytes(), []byte("%PDF")) {
		t.Error("pdf body missing")
	}
}

func TestOptionOverrides(t *testing.T) {
	cfg := testServiceConfig()
	s, err := New(cfg, Host("0.0.0.0"), Port(9090), MaxUploadMB(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(s.store.Close)

	if got := cfg.Addr(); got != "0.0.0.0:9090" {
		t.Errorf("Addr() = %s", got)
	}
	if cfg.Server.MaxUploadMB != 2 {
		t.Errorf("MaxUploadMB = %d", cfg.Server.MaxUploadMB)
	}

	if _, err := New(cfg, Port(-2)); err == nil {
		t.Error("negative port should fail")
	}
}
