package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Output OutputConfig `mapstructure:"output"`
	Report ReportConfig `mapstructure:"report"`
	Server ServerConfig `mapstructure:"server"`
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir      string   `mapstructure:"dir"`       // Output directory
	FileName string   `mapstructure:"file_name"` // Output file name (without extension)
	Formats  []string `mapstructure:"formats"`   // Report formats to generate (excel, pdf, html, word)
}

// ReportConfig holds the presentation settings stamped onto every report
type ReportConfig struct {
	Institution   string `mapstructure:"institution"`
	Department    string `mapstructure:"department"`
	Title         string `mapstructure:"title"`
	AcademicYear  string `mapstructure:"academic_year"`
	ClassName     string `mapstructure:"class_name"`
	Semester      string `mapstructure:"semester"`
	ChromePath    string `mapstructure:"chrome_path"`    // Headless browser binary for PDF rendering
	RenderTimeout string `mapstructure:"render_timeout"` // PDF render timeout (duration string)
	WordTemplate  string `mapstructure:"word_template"`  // Optional .docx template path
}

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	Host          string   `mapstructure:"host"`
	Port          int      `mapstructure:"port"`
	MaxUploadMB   int      `mapstructure:"max_upload_mb"`
	ResultTTL     string   `mapstructure:"result_ttl"` // How long download tokens stay valid
	ClientOrigins []string `mapstructure:"client_origins"`
}

// Load reads the configuration from a file or uses defaults
// If configPath is empty, it looks for "config.yaml" in the current directory
// If the file doesn't exist, it uses sensible defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath == "" {
		configPath = "config.yaml"
	}
	v.SetConfigFile(configPath)

	// Read config file (ignore error if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") ||
			strings.Contains(err.Error(), "cannot find") {
			// Config file not found - use defaults
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	if err := cfg.EnsureOutputDir(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults configures sensible default values
func setDefaults(v *viper.Viper) {
	// Output defaults
	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.file_name", "co-attainment-report")
	v.SetDefault("output.formats", []string{"excel", "pdf"})

	// Report presentation defaults
	v.SetDefault("report.institution", "INSTITUTE OF TECHNOLOGY")
	v.SetDefault("report.department", "DEPARTMENT OF COMPUTER SCIENCE AND ENGINEERING")
	v.SetDefault("report.title", "COURSE OUTCOME ATTAINMENT")
	v.SetDefault("report.academic_year", "")
	v.SetDefault("report.class_name", "")
	v.SetDefault("report.semester", "")
	v.SetDefault("report.chrome_path", "")
	v.SetDefault("report.render_timeout", "30s")
	v.SetDefault("report.word_template", "")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.max_upload_mb", 10)
	v.SetDefault("server.result_ttl", "15m")
	v.SetDefault("server.client_origins", []string{"*"})
}

// normalizePaths converts relative paths to absolute paths
func (c *Config) normalizePaths() error {
	absOutput, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output.dir: %w", err)
	}
	c.Output.Dir = absOutput

	if c.Report.WordTemplate != "" {
		absTemplate, err := filepath.Abs(c.Report.WordTemplate)
		if err != nil {
			return fmt.Errorf("failed to resolve report.word_template: %w", err)
		}
		c.Report.WordTemplate = absTemplate
	}

	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// GetOutputPath returns the full path for an output file with the given extension
func (c *Config) GetOutputPath(ext string) string {
	return filepath.Join(c.Output.Dir, c.Output.FileName+"."+ext)
}

// RenderTimeout parses the configured PDF render timeout, falling back to 30s
// on an empty or malformed value.
func (c *Config) RenderTimeout() time.Duration {
	d, err := time.ParseDuration(c.Report.RenderTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// ResultTTL parses the configured download token lifetime, falling back to
// 15 minutes on an empty or malformed value.
func (c *Config) ResultTTL() time.Duration {
	d, err := time.ParseDuration(c.Server.ResultTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// Addr returns the host:port the HTTP server binds to
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// MaxUploadBytes returns the upload size cap in bytes
func (c *Config) MaxUploadBytes() int64 {
	mb := c.Server.MaxUploadMB
	if mb <= 0 {
		mb = 10
	}
	return int64(mb) << 20
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Output.FileName == "" {
		return fmt.Errorf("output.file_name cannot be empty")
	}

	for _, f := range c.Output.Formats {
		switch strings.ToLower(f) {
		case "excel", "pdf", "html", "word":
		default:
			return fmt.Errorf("unknown output format: %s", f)
		}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}

	return nil
}

// Print displays the current configuration
func (c *Config) Print() {
	fmt.Println("=== CO Attainment Configuration ===")
	fmt.Printf("Output Directory: %s\n", c.Output.Dir)
	fmt.Printf("Output File:      %s\n", c.Output.FileName)
	fmt.Printf("Formats:          %v\n", c.Output.Formats)
	fmt.Printf("Server Address:   %s\n", c.Addr())
	fmt.Printf("Upload Limit:     %d MB\n", c.Server.MaxUploadMB)
	fmt.Println("===================================")
}
