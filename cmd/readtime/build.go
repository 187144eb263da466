package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	readtime "github.com/goliatone/go-readtime"
	"github.com/goliatone/go-readtime/internal/logging/console"
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the static site from the content directory",
		Long: `Build loads every markdown document under the content directory, runs the
configured transform stages and writes one page per post.

Configuration is read from --config, ./readtime.yaml, or
$XDG_CONFIG_HOME/readtime/config.yaml, in that order. Flags override the file.

Examples:
  readtime build
  readtime build --content-dir src/posts --output-dir public
  readtime build --dry-run -v`,
		Args: cobra.NoArgs,
		RunE: runBuildCmd,
	}

	cmd.Flags().StringP("config", "c", "", "Configuration file path")
	cmd.Flags().String("content-dir", "", "Directory holding markdown sources")
	cmd.Flags().StringP("output-dir", "o", "", "Directory the site is written to")
	cmd.Flags().String("site-url", "", "Public base URL used in sitemap and feed links")
	cmd.Flags().Bool("dry-run", false, "Render every page without writing files")

	return cmd
}

func runBuildCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}

	var opts []readtime.Option
	if strings.EqualFold(strings.TrimSpace(cfg.Logging.Provider), "console") {
		level, _ := console.ParseLevel(cfg.Logging.Level)
		opts = append(opts, readtime.WithLoggerProvider(console.NewProvider(console.Options{
			Writer:   cmd.ErrOrStderr(),
			MinLevel: level,
		})))
	}

	module, err := readtime.New(cfg, opts...)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := module.Build(ctx, readtime.BuildOptions{DryRun: dryRun})
	if result != nil {
		for _, buildErr := range result.Errors {
			color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "error: %v\n", buildErr)
		}
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	headline := "Built"
	if result.DryRun {
		headline = "Rendered (dry run)"
	}
	color.New(color.FgGreen, color.Bold).Fprintf(out, "%s %d pages", headline, result.PagesBuilt)
	fmt.Fprintf(out, ", skipped %d, in %s\n", result.PagesSkipped, result.Duration.Round(time.Millisecond))
	if !result.DryRun {
		fmt.Fprintf(out, "Wrote %d files (%s) to %s\n",
			result.FilesWritten, humanize.Bytes(uint64(result.BytesWritten)), cfg.Generator.OutputDir)
	}
	fmt.Fprintf(out, "Build %s\n", result.BuildID)
	return nil
}

// buildConfig loads the configuration file and applies flag overrides.
func buildConfig(cmd *cobra.Command) (readtime.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return readtime.Config{}, err
	}
	cfg, _, err := readtime.LoadConfig(path)
	if err != nil {
		return readtime.Config{}, err
	}

	overrides := map[string]*string{
		"content-dir": &cfg.Markdown.ContentDir,
		"output-dir":  &cfg.Generator.OutputDir,
		"site-url":    &cfg.Site.URL,
	}
	for name, target := range overrides {
		if !cmd.Flags().Changed(name) {
			continue
		}
		value, err := cmd.Flags().GetString(name)
		if err != nil {
			return readtime.Config{}, err
		}
		*target = value
	}

	if getVerboseFlag(cmd) {
		cfg.Logging.Level = "debug"
	}
	if format := strings.TrimSpace(getLogFormatFlag(cmd)); format != "" {
		cfg.Logging.Provider = "gologger"
		cfg.Logging.Format = format
	}
	return cfg, nil
}
