package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pmguide/internal/formatter"
)

var formatHTML bool

var formatCmd = &cobra.Command{
	Use:   "format [file|-]",
	Short: "Classify the lines of a text file into display blocks",
	Args:  cobra.ExactArgs(1),
	RunE:  runFormat,
}

func init() {
	formatCmd.Flags().BoolVar(&formatHTML, "html", false, "render an HTML fragment instead of JSON")
	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	blocks := formatter.Format(string(data))
	if formatHTML {
		return formatter.RenderHTML(cmd.OutOrStdout(), blocks)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(blocks)
}
