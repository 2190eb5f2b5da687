package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/theirongolddev/messmate/internal/config"
	"github.com/theirongolddev/messmate/internal/logger"
	"github.com/theirongolddev/messmate/internal/report"
	"github.com/theirongolddev/messmate/internal/store"
	"github.com/theirongolddev/messmate/internal/tracker"

	"github.com/spf13/cobra"
)

var (
	flagDataDir string
	flagQuiet   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:          "messmate",
	Short:        "Mess meal subscription tracker",
	Long:         "Track breakfast, lunch and dinner against your mess subscription: what you ate, what you skipped, and what you owe.",
	RunE:         runStats,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = report.Version
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Directory holding the tracker database (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
}

// errNotSetUp is shown by commands that need a profile before they can run.
var errNotSetUp = errors.New("messmate is not set up yet; run `messmate setup` first")

// app bundles everything a command needs to talk to the tracker.
type app struct {
	cfg      config.Config
	log      *slog.Logger
	dataDir  string
	currency string
	store    *store.Store
	tracker  *tracker.Tracker
}

// Close releases the database.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("closing store", "error", err)
	}
}

// openApp is the shared startup path used by all commands: config, logger,
// database and tracker, in that order.
func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	dir := resolveDataDir(cfg)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	st, err := store.Open(config.DatabasePath(dir))
	if err != nil {
		return nil, err
	}

	tr, err := tracker.Open(st, tracker.WithLogger(log))
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	log.Debug("opened tracker", "data_dir", dir)
	return &app{
		cfg:      cfg,
		log:      log,
		dataDir:  dir,
		currency: config.CurrencySymbol(cfg.General.Currency),
		store:    st,
		tracker:  tr,
	}, nil
}

// openSetUpApp is openApp for commands that need a profile and a cycle.
func openSetUpApp() (*app, error) {
	a, err := openApp()
	if err != nil {
		return nil, err
	}
	st := a.tracker.State()
	if !st.IsSetUp() {
		a.Close()
		return nil, errNotSetUp
	}
	return a, nil
}

// newLogger applies the --quiet and --verbose overrides to the configured level.
func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	level := cfg.Log.Level
	switch {
	case flagVerbose:
		level = "debug"
	case flagQuiet:
		level = "error"
	}
	return logger.New(level, cfg.Log.Format, w)
}

func resolveDataDir(cfg config.Config) string {
	if flagDataDir != "" {
		return flagDataDir
	}
	return config.DataDir(cfg)
}

// progress prints a status line to stderr unless --quiet is set.
func progress(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, "  "+format+"\n", args...)
}
