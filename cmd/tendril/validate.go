package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/tendril/internal/validator"
	"github.com/aretw0/tendril/pkg/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check the grammar for consistency",
	Long:  `Crawls the grammar from its start rule and reports missing rules, unknown transforms and unreachable rules.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		external, _ := cmd.Flags().GetStringSlice("external")

		g, err := loadGrammar(cmd, args)
		if err != nil {
			return err
		}

		provided := make([]domain.Symbol, 0, len(external))
		for _, name := range external {
			provided = append(provided, domain.Symbol(name))
		}

		report, err := validator.ValidateGrammar(g.Registry(), g.Start(), provided...)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, sym := range report.Unreachable {
			fmt.Fprintf(out, "warning: rule '%s' is never reached from '%s'\n", sym, g.Start())
		}
		if err := report.Err(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		fmt.Fprintln(out, "Grammar is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringSlice("external", nil, "Rules supplied at generation time (--set or request overrides)")
}
