package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tipitaka-tools/tipitakafetch/internal/config"
)

// NewNikayasCmd creates the nikayas command.
func NewNikayasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nikayas",
		Short: "List the known Nikayas and their ID ranges",
		Long: `Nikayas lists the five canonical divisions of the Sutta Pitaka with
their command-line keys and the sutta ID ranges they occupy on
tripitaka.online.

Use the key in the first column as an argument to fetch or verify.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%-12s %-22s %-28s %-14s %8s\n",
				"KEY", "NAME", "DESCRIPTION", "ID RANGE", "PAGES")
			fmt.Fprintln(out, strings.Repeat("-", 88))

			for _, n := range config.Nikayas() {
				fmt.Fprintf(out, "%-12s %-22s %-28s %-14s %8d\n",
					n.Key,
					n.NameEnglish,
					n.Description,
					fmt.Sprintf("%d-%d", n.Start, n.End),
					n.Count(),
				)
			}

			fmt.Fprintln(out, strings.Repeat("-", 88))
			fmt.Fprintf(out, "%-64s %14d pages\n", "Total", config.TotalSuttas())
		},
	}
}
