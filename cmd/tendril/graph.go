package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/tendril/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [file]",
	Short: "Export the rule graph visualization",
	Long:  `Compiles the grammar and outputs a Mermaid diagram (graph TD) of the rules and their references.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGrammar(cmd, args)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g.Registry(), g.Start()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
