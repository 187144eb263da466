package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for readtime.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readtime",
		Short: "Reading-time estimates and static pages for markdown content",
		Long: `readtime counts the words of markdown documents and turns them into a
"N min read" estimate. The build command runs the full transform pipeline
(table of contents, reading time, collapsible sections) and writes one page
per post plus sitemap.xml, robots.txt and rss.xml.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().String("log-format", "",
		"Log through go-logger with the given format (json, console, pretty)")

	cmd.AddCommand(NewEstimateCmd())
	cmd.AddCommand(NewBuildCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return false
	}
	return verbose
}

func getLogFormatFlag(cmd *cobra.Command) string {
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return ""
	}
	return format
}
