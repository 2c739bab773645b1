package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/peterbourgon/ff/v3"

	"co-attain/internal/config"
	"co-attain/internal/logger"
	"co-attain/internal/server"
)

func main() {
	fs := flag.NewFlagSet("co-attain-server", flag.ExitOnError)
	var (
		configPath  = fs.String("config", "", "config file (optional), yaml format")
		host        = fs.String("host", "", "name/address to bind, overrides config")
		port        = fs.Int("port", 0, "port to run the service on, overrides config")
		maxUploadMB = fs.Int("maxUploadMB", 0, "upload size cap in megabytes, overrides config")
		verbose     = fs.Bool("verbose", false, "enable verbose logging")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("CO_ATTAIN"),
	); err != nil {
		fmt.Printf("\nCannot parse flags:\n%s\n\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("\nCannot load configuration:\n%s\n\n", err)
		os.Exit(1)
	}

	logPath := filepath.Join(cfg.Output.Dir, "co_attain_server.log")
	if err := logger.Init(os.Stdout, logPath, *verbose); err != nil {
		fmt.Printf("\nCannot initialize logger:\n%s\n\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	srvc, err := server.New(cfg,
		server.Host(*host),
		server.Port(*port),
		server.MaxUploadMB(*maxUploadMB),
	)
	if err != nil {
		fmt.Printf("\nCannot create co-attain service:\n%s\n\n", err)
		os.Exit(1)
	}

	srvc.PrintConfig()

	// signal handler for shutdown
	closed := make(chan struct{})
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\nco-attain-server shutting down")
		srvc.Shutdown()
		fmt.Println("co-attain-server closed")
		close(closed)
	}()

	srvc.Start()

	// block until shutdown by sig-handler
	<-closed
}
