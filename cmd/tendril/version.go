package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/presentation/tui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tendril",
	Run: func(cmd *cobra.Command, args []string) {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner(cmd.OutOrStdout(), tendril.Version)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "tendril version %s\n", tendril.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
