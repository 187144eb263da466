package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	readtime "github.com/goliatone/go-readtime"
)

const stdinName = "-"

// estimateReport is one line of estimate output.
type estimateReport struct {
	File string `json:"file"`
	readtime.Metric
}

// NewEstimateCmd creates the estimate command.
func NewEstimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate [file...]",
		Short: "Print the reading time of markdown files",
		Long: `Estimate parses each markdown file, drops its front matter and counts the
words of the remaining text. A "Table of contents" section is filled in first,
so the count matches the label a default build shows. Without arguments the document is read from stdin.

Examples:
  readtime estimate content/posts/*.md
  cat post.md | readtime estimate --json
  readtime estimate --wpm 250 --exclude-code post.md`,
		Args: cobra.ArbitraryArgs,
		RunE: runEstimateCmd,
	}

	cmd.Flags().Int("wpm", readtime.DefaultWordsPerMinute, "Reading speed in words per minute")
	cmd.Flags().Bool("exclude-code", false, "Leave fenced and indented code blocks out of the count")
	cmd.Flags().BoolP("json", "j", false, "Print results as JSON")

	return cmd
}

func runEstimateCmd(cmd *cobra.Command, args []string) error {
	wpm, err := cmd.Flags().GetInt("wpm")
	if err != nil {
		return err
	}
	excludeCode, err := cmd.Flags().GetBool("exclude-code")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	opts := readtime.EstimateOptions{WordsPerMinute: wpm, ExcludeCode: excludeCode}
	if len(args) == 0 {
		args = []string{stdinName}
	}

	reports := make([]estimateReport, 0, len(args))
	for _, name := range args {
		source, err := readSource(cmd, name)
		if err != nil {
			return err
		}
		metric, err := readtime.Estimate(source, opts)
		if err != nil {
			return fmt.Errorf("estimate %s: %w", name, err)
		}
		reports = append(reports, estimateReport{File: name, Metric: metric})
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, reports)
	}
	for _, report := range reports {
		fmt.Fprintf(out, "%s\t%s\t%s words\n", report.File, report.Text, humanize.Comma(int64(report.Words)))
	}
	return nil
}

func readSource(cmd *cobra.Command, name string) ([]byte, error) {
	if name == stdinName {
		source, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return source, nil
	}
	source, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return source, nil
}

func writeJSON(w io.Writer, reports []estimateReport) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if len(reports) == 1 {
		return encoder.Encode(reports[0])
	}
	return encoder.Encode(reports)
}
