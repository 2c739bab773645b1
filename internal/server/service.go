// Package server exposes the attainment pipeline over HTTP: preview, upload
// and the two download endpoints. Processed results are held in a token
// store so downloads stay request-safe under concurrent uploads.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"co-attain/internal/config"
	"co-attain/internal/model"
	"co-attain/internal/report/pdf"
)

type Service struct {
	e     *echo.Echo
	cfg   *config.Config
	store *ResultStore

	// pdf rendering shells out to a browser, kept swappable for tests
	renderPDF func(ctx context.Context, data *model.ReportData, cfg *config.Config) ([]byte, error)
}

// New creates a service instance around the given configuration.
func New(cfg *config.Config, options ...Option) (*Service, error) {
	s := &Service{cfg: cfg, renderPDF: pdf.Render}

	if err := s.setOptions(options...); err != nil {
		return nil, err
	}

	s.store = NewResultStore(cfg.ResultTTL())

	s.e = echo.New()
	s.e.HideBanner = true
	s.e.Logger.SetLevel(log.INFO)

	s.e.Use(middleware.Recover())
	s.e.Use(middleware.Logger())
	s.e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.ClientOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))
	s.e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.Server.MaxUploadMB)))

	// pingable methods to know we're up
	s.e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "OK",
			"message":   "CO attainment service is running",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})
	s.e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "OK",
			"message": "API is healthy",
		})
	})

	s.e.POST("/api/preview", s.handlePreview)
	s.e.POST("/api/upload", s.handleUpload)
	s.e.GET("/api/download/excel", s.handleDownloadExcel)
	s.e.GET("/api/download/pdf", s.handleDownloadPDF)

	return s, nil
}

// Start runs the embedded web server in the background.
func (s *Service) Start() {
	go func(addr string) {
		if err := s.e.Start(addr); err != nil && err != http.ErrServerClosed {
			s.e.Logger.Info("error starting server: ", err, ", shutting down...")
			// attempt clean shutdown by raising sig int
			p, _ := os.FindProcess(os.Getpid())
			p.Signal(os.Interrupt)
		}
	}(s.cfg.Addr())
}

// Shutdown stops the web server and the result store.
func (s *Service) Shutdown() {
	s.store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.e.Shutdown(ctx); err != nil {
		fmt.Println("could not shut down server cleanly: ", err)
		s.e.Logger.Fatal(err)
	}
}

// PrintConfig displays the effective service settings.
func (s *Service) PrintConfig() {
	fmt.Println("\n\tCO Attainment Service Configuration")
	fmt.Println("\t-----------------------------------")
	fmt.Println("\tlisten address:\t\t", s.cfg.Addr())
	fmt.Println("\tupload limit:\t\t", s.cfg.Server.MaxUploadMB, "MB")
	fmt.Println("\tresult ttl:\t\t", s.cfg.ResultTTL())
	fmt.Println("\tallowed origins:\t", s.cfg.Server.ClientOrigins)
	fmt.Println()
}
