// Package main provides the entry point for the sitecheck CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitecheck.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitecheck",
		Short: "Website crawler with SEO and accessibility checks",
		Long: `Sitecheck crawls a website starting from its root and audits every
discovered page for SEO, accessibility, social media metadata, and
performance issues. It can also generate a sitemap.xml from the crawl.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewHistoryCmd())
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
