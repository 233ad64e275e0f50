package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grushad/flowtag/internal/aggregate"
	"github.com/grushad/flowtag/internal/config"
	"github.com/grushad/flowtag/internal/logging"
	"github.com/grushad/flowtag/internal/pipeline"
	"github.com/grushad/flowtag/internal/web"
)

// version is set via ldflags at build time: -ldflags="-X main.version=1.0.0"
var version = "dev"

func main() {
	var (
		configPath  string
		outputPath  string
		serve       bool
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "Path to configuration file (optional)")
	flag.StringVar(&outputPath, "output", "", "Output CSV file (default: output.csv)")
	flag.BoolVar(&serve, "serve", false, "Serve results over HTTP after processing")
	flag.BoolVar(&showVersion, "version", false, "Show version and exit")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Printf("flowtag v%s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) != 2 {
		usage()
		os.Exit(2)
	}
	lookupPath, flowLogPath := args[0], args[1]

	// Load configuration; the tool works with defaults when no file is given.
	cfg := config.Defaults()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = *loaded
	}

	logging.SetupFromConfig(cfg.Logging.Level)
	web.Version = version

	if outputPath == "" {
		outputPath = cfg.Output.Path
	}

	p := pipeline.New(pipeline.Config{Layout: cfg.FlowLog.Layout()})

	logging.Info("processing flow log",
		"lookup", lookupPath, "flowlog", flowLogPath, "version", version)

	result, err := p.Run(lookupPath, flowLogPath)
	if err != nil {
		logging.Error("processing failed", "error", err)
		os.Exit(1)
	}

	if err := pipeline.WriteFile(outputPath, result); err != nil {
		logging.Error("failed to write output", "error", err)
		os.Exit(1)
	}
	logging.Info("output written", "path", outputPath)

	if serve || cfg.Server.Enabled {
		runServer(cfg.Server.HTTPPort, result)
	}
}

// runServer serves the result over HTTP until interrupted.
func runServer(port int, result *aggregate.Result) {
	server := web.New(web.Config{Port: port, Result: result})
	server.StartAsync()

	logging.Info("results available",
		"url", fmt.Sprintf("http://localhost:%d/api/results", port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logging.Error("error during shutdown", "error", err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: flowtag [flags] <lookup-file> <flow-log-file>\n\n")
	fmt.Fprintf(os.Stderr, "Tags flow log records using a (dstport, protocol) lookup table and\n")
	fmt.Fprintf(os.Stderr, "writes per-tag and per-port/protocol match counts as CSV.\n\nFlags:\n")
	flag.PrintDefaults()
}
