package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"co-attain/internal/config"
	"co-attain/internal/logger"
	"co-attain/internal/pipeline"
	"co-attain/internal/report"
	"co-attain/internal/ui"
)

const (
	appName    = "CO Attain"
	appVersion = "1.0.0"
	appDesc    = "Course outcome attainment processor for CIA/Assessment mark sheets"
)

var (
	configPath  string
	inputPath   string
	verbose     bool
	showVersion bool
	outputDir   string
	formats     string
)

func init() {
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	flag.StringVar(&inputPath, "input", "", "Path to the uploaded .xlsx mark sheet")
	flag.StringVar(&inputPath, "i", "", "Path to the uploaded .xlsx mark sheet (shorthand)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging (DEBUG level)")
	flag.BoolVar(&verbose, "v", false, "Enable verbose logging (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.StringVar(&outputDir, "output", "", "Override output directory from config")
	flag.StringVar(&formats, "format", "", "Comma-separated output formats (excel,pdf,html,word), overrides config")
}

func main() {
	exitCode := run()
	os.Exit(exitCode)
}

func run() int {
	flag.Parse()

	if showVersion {
		fmt.Printf("%s v%s\n%s\n", appName, appVersion, appDesc)
		return 0
	}

	printBanner()

	if inputPath == "" {
		fmt.Println("❌ No input file. Use -input <file.xlsx>")
		flag.Usage()
		return 1
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		return 1
	}

	if outputDir != "" {
		cfg.Output.Dir = outputDir
		cfg.EnsureOutputDir()
	}
	if formats != "" {
		cfg.Output.Formats = strings.Split(formats, ",")
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		return 1
	}

	logPath := filepath.Join(cfg.Output.Dir, "co_attain.log")
	if err := logger.Init(os.Stdout, logPath, verbose); err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	if err := runPipeline(cfg); err != nil {
		logger.Error("Processing failed: %v", err)
		return 1
	}

	logger.Info("✅ Reports generated. Check [%s] directory.", cfg.Output.Dir)
	return 0
}

func runPipeline(cfg *config.Config) error {
	phases := ui.NewPipeline([]ui.Phase{
		ui.PhaseParsing,
		ui.PhaseCalculating,
		ui.PhaseGenerating,
	})

	// --- Phase 1: Read the upload ---
	logger.Info("Phase 1: Reading %s...", inputPath)
	readBar := phases.NextPhase(1)
	buf, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	readBar.Increment()
	readBar.Finish()

	// --- Phase 2: Extract and calculate ---
	logger.Info("Phase 2: Extracting sheets and computing attainment...")
	calcBar := phases.NextPhase(1)
	data, err := pipeline.Process(buf)
	if err != nil {
		return err
	}
	calcBar.Increment()
	calcBar.Finish()

	logger.Info("Course %s (%s): %d students, %d COs, overall attainment %.2f",
		data.Meta.CourseCode, data.Meta.CourseName, len(data.Students), len(data.COIDs), data.OverallAttainment)

	// --- Phase 3: Reports ---
	logger.Info("Phase 3: Generating reports...")
	exporters := report.GetExporters(cfg.Output.Formats, cfg)
	genBar := phases.NextPhase(len(exporters))

	var exportErrors []error
	for _, exp := range exporters {
		if err := exp.Export(data, cfg); err != nil {
			logger.Error("Export failed: %v", err)
			exportErrors = append(exportErrors, err)
		}
		genBar.Increment()
	}
	genBar.Finish()
	phases.Finish()

	if len(exportErrors) > 0 {
		return fmt.Errorf("one or more exports failed: %d errors", len(exportErrors))
	}
	return nil
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                      CO ATTAIN v1.0.0                     ║
║      Course Outcome Attainment from CIA/Assessment        ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}
