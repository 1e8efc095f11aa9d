// Command pmguide is the operator CLI: it seeds and imports standards into
// the local store and runs the formatter and matcher offline.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pmguide/internal/config"
	"github.com/dgallion1/pmguide/internal/store"
)

var (
	dataDir string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:           "pmguide",
	Short:         "Project management standards guide",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default $DATA_DIR or ./data)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() config.Config {
	cfg := config.Load()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openStore(cfg config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open store in %s: %w", cfg.DataDir, err)
	}
	return st, nil
}
