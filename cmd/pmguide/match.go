package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pmguide/internal/export"
	"github.com/dgallion1/pmguide/internal/matcher"
)

var (
	matchQuery  matcher.Query
	matchFormat string
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Find the process template that best fits a project",
	Args:  cobra.NoArgs,
	RunE:  runMatch,
}

func init() {
	f := matchCmd.Flags()
	f.StringVar(&matchQuery.ProjectType, "type", "", "project type (required)")
	f.StringVar(&matchQuery.ProjectSize, "size", "", "project size: Small, Medium or Large")
	f.StringVar(&matchQuery.Complexity, "complexity", "", "complexity: Low, Medium or High")
	f.StringVar(&matchQuery.Industry, "industry", "", "industry")
	f.StringVar(&matchFormat, "format", "markdown", "output format: json, markdown or html")
	_ = matchCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(matchFormat)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	candidates, err := st.Templates().Candidates(cmd.Context())
	if err != nil {
		return err
	}
	res := matcher.Match(matchQuery, candidates)
	if !res.Found() {
		return errors.New("no matching process found; try different criteria")
	}
	if res.Kind == matcher.Closest {
		fmt.Fprintf(cmd.ErrOrStderr(), "No exact match. Closest match on %s.\n", strings.Join(res.MatchedOn, ", "))
	}

	doc, err := export.Export(res.Template, format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(doc.Body)
	return err
}
