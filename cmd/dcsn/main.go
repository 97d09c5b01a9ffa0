// Package main implements the dcsn CLI for decision tracking against a
// local store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/decisiond/internal/analysis"
	"github.com/fyrsmithlabs/decisiond/internal/classifier"
	"github.com/fyrsmithlabs/decisiond/internal/config"
	"github.com/fyrsmithlabs/decisiond/internal/decision"
	"github.com/fyrsmithlabs/decisiond/internal/lifecycle"
	"github.com/fyrsmithlabs/decisiond/internal/persona"
	"github.com/fyrsmithlabs/decisiond/internal/report"
)

var (
	// configPath overrides the default config file location.
	configPath string
	// dataDir overrides the configured data directory.
	dataDir string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dcsn",
	Short: "CLI for tracking and analyzing personal decisions",
	Long: `dcsn records life decisions, classifies their risk, tracks their
lifecycle, and generates periodic growth reports from the local store.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override the data directory")

	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(checkRiskCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(updateStatusCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(extractMetadataCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dcsn %s\n", version)
	},
}

// app bundles the locally constructed services the commands operate on.
type app struct {
	cfg        *config.Config
	classifier *classifier.Classifier
	store      *decision.Store
	lifecycle  *lifecycle.Service
	analyzer   *analysis.Analyzer
	extractor  *persona.Extractor
	reports    *report.Service
}

// newApp builds the service graph for local operation. The CLI logs nothing
// structurally; command output goes to stdout.
func newApp() (*app, error) {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Storage.DataDir = dataDir
	}

	logger := zap.NewNop()

	cls := classifier.New(cfg.Classifier)

	store, err := decision.NewStore(cfg.Storage.DecisionsDir(), cls, logger)
	if err != nil {
		return nil, err
	}

	lc, err := lifecycle.NewService(store, logger)
	if err != nil {
		return nil, err
	}

	analyzer := analysis.NewAnalyzer(cls.Tables().ValidationMarker)
	extractor := persona.NewExtractor()

	reports, err := report.NewService(store, analyzer, extractor, cfg.Storage.ReviewsDir(), logger)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:        cfg,
		classifier: cls,
		store:      store,
		lifecycle:  lc,
		analyzer:   analyzer,
		extractor:  extractor,
		reports:    reports,
	}, nil
}
