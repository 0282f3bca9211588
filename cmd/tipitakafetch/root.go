package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for tipitakafetch.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tipitakafetch",
		Short: "Resumable downloader for the Tripitaka on tripitaka.online",
		Long: `tipitakafetch downloads the Sinhala and Pali texts of the Tripitaka from
tripitaka.online, organised by canonical division (Nikaya), into JSON
batch files.

Runs are resumable: pages already covered by a persisted batch file are
never fetched again, so an interrupted run continues where it left off.
Requests are made one at a time with a politeness delay to keep the load
on the source site low.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewVerifyCmd())
	cmd.AddCommand(NewNikayasCmd())
	cmd.AddCommand(NewInitCmd())
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
