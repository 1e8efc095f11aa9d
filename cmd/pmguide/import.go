package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pmguide/internal/model"
	"github.com/dgallion1/pmguide/internal/parser"
	"github.com/dgallion1/pmguide/internal/pipeline"
)

var importCmd = &cobra.Command{
	Use:   "import [standard] [file]",
	Short: "Section a standards document and replace the standard's sections",
	Long: `Parses a txt, md, html, pdf or docx file, splits it into sections and
replaces the stored sections of the named standard (PMBOK, PRINCE2,
ISO21500, ISO21502, PROCESS_GROUPS). Importing the same file twice is a
no-op.`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	name, ok := model.ParseStandardName(args[0])
	if !ok {
		return fmt.Errorf("unknown standard %q", args[0])
	}
	path := args[1]
	if !parser.IsSupportedExtension(path) {
		return fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	std, err := st.Standards().GetByName(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("standard %s: %w", name, err)
	}

	log := newLogger()
	w := pipeline.NewWorkerFromConfig(cfg, st, log, pipeline.NewImportStats(0))
	job := pipeline.NewJob(std.ID, string(std.Name), filepath.Base(path), data)
	w.Process(cmd.Context(), job)

	snap := job.Snapshot()
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return err
	}
	if snap.Status == pipeline.StatusFailed {
		return fmt.Errorf("import failed in %s", snap.Phase)
	}
	return nil
}
