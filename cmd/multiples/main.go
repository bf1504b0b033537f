package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/multiples/internal/app"
	"github.com/ternarybob/multiples/internal/common"
	"github.com/ternarybob/multiples/internal/server"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	serverPort   = flag.Int("port", 0, "Server port (overrides config)")
	serverPortP  = flag.Int("p", 0, "Server port (shorthand, overrides config)")
	serverHost   = flag.String("host", "", "Server host (overrides config)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
	reportTicker = flag.String("report", "", "Write the financial report of one or more comma-separated tickers and exit")
	reportFormat = flag.String("format", "md", "Report format for -report: md or pdf")
	reportOut    = flag.String("out", "", "Output file for -report (a directory when several tickers are given)")
	reportJobs   = flag.Int("workers", 4, "Concurrent report workers for -report")
	deriveFile   = flag.String("derive", "", "Derive yearly metrics from a financials JSON file and exit")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	common.InstallCrashHandler(common.LogDirectory())
	defer common.RecoverWithCrashFile()

	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Multiples version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	// -derive needs no configuration or remote API
	if *deriveFile != "" {
		if err := runDerive(*deriveFile, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "derive failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	finalPort := *serverPort
	if *serverPortP != 0 {
		finalPort = *serverPortP
	}

	if len(configFiles) == 0 {
		if _, err := os.Stat("multiples.toml"); err == nil {
			configFiles = append(configFiles, "multiples.toml")
		} else if _, err := os.Stat("deployments/local/multiples.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/multiples.toml")
		}
	}

	// Startup order: config (defaults -> files -> env) -> CLI overrides -> logger -> banner
	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		arbor.NewLogger().Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration files")
		os.Exit(1)
	}
	common.ApplyFlagOverrides(config, finalPort, *serverHost)

	if err := config.Validate(); err != nil {
		arbor.NewLogger().Fatal().Err(err).Msg("Invalid configuration")
		os.Exit(1)
	}

	logger := common.InitLogger(config)

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}
	defer application.Close()

	if *reportTicker != "" {
		if err := runReport(context.Background(), application, *reportTicker, *reportFormat, *reportOut, *reportJobs); err != nil {
			logger.Error().Err(err).Str("ticker", *reportTicker).Msg("Report failed")
			application.Close()
			os.Exit(1)
		}
		return
	}

	common.PrintBanner(common.GetVersion(), config)

	logger.Info().
		Strs("config_files", configFiles).
		Int("port", config.Server.Port).
		Str("host", config.Server.Host).
		Str("api_base_url", config.API.BaseURL).
		Msg("Application configuration loaded")

	srv := server.New(application)

	go func() {
		defer common.RecoverWithCrashFile()
		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.Info().
		Str("url", fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)).
		Msg("Server ready - Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info().Msg("Interrupt signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}

	logger.Info().Msg("Server stopped")
}
