package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pmguide/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed [catalog.yaml]",
	Short: "Load standards, sections, comparisons and templates from a YAML catalog",
	Long: `Loads a YAML catalog into the store. Records that already exist are
skipped, so running the same catalog twice is safe.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	res, err := seed.LoadFile(cmd.Context(), args[0], st, newLogger())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
