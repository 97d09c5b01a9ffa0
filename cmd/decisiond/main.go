// Decisiond is the decision tracking daemon.
//
// It serves the decision record HTTP API: creation with risk classification,
// lifecycle updates, aggregate stats, free-text risk probes, pattern
// analyses, and weekly growth reports. Records are stored as one JSON file
// each under the configured data directory.
//
// Usage:
//
//	# Start with defaults (~/.config/decisiond/config.yaml if present)
//	decisiond
//
//	# Configure via environment
//	SERVER_PORT=8600 STORAGE_DATA_DIR=/var/lib/decisiond decisiond
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/decisiond/internal/analysis"
	"github.com/fyrsmithlabs/decisiond/internal/classifier"
	"github.com/fyrsmithlabs/decisiond/internal/config"
	"github.com/fyrsmithlabs/decisiond/internal/decision"
	httpserver "github.com/fyrsmithlabs/decisiond/internal/http"
	"github.com/fyrsmithlabs/decisiond/internal/lifecycle"
	"github.com/fyrsmithlabs/decisiond/internal/logging"
	"github.com/fyrsmithlabs/decisiond/internal/persona"
	"github.com/fyrsmithlabs/decisiond/internal/report"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if args := flag.Args(); len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  decisiond           Start the decisiond daemon\n")
			fmt.Fprintf(os.Stderr, "  decisiond version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("decisiond %s (commit %s, built %s)\n", version, gitCommit, buildDate)
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // stdout sync errors are harmless

	logger.Info("starting decisiond",
		zap.String("version", version),
		zap.String("data_dir", cfg.Storage.DataDir),
	)

	cls := classifier.New(cfg.Classifier)

	store, err := decision.NewStore(cfg.Storage.DecisionsDir(), cls, logger.Named("store"))
	if err != nil {
		return fmt.Errorf("failed to open decision store: %w", err)
	}

	lc, err := lifecycle.NewService(store, logger.Named("lifecycle"))
	if err != nil {
		return fmt.Errorf("failed to build lifecycle service: %w", err)
	}

	analyzer := analysis.NewAnalyzer(cls.Tables().ValidationMarker)
	extractor := persona.NewExtractor()

	reports, err := report.NewService(store, analyzer, extractor, cfg.Storage.ReviewsDir(), logger.Named("report"))
	if err != nil {
		return fmt.Errorf("failed to build report service: %w", err)
	}

	server, err := httpserver.NewServer(store, lc, cls, analyzer, reports, logger.Named("http"), &httpserver.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	})
	if err != nil {
		return fmt.Errorf("failed to build http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
