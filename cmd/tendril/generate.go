package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/cli"
	"github.com/aretw0/tendril/internal/presentation/tui"
	"github.com/aretw0/tendril/pkg/domain"
)

var generateCmd = &cobra.Command{
	Use:   "generate [file]",
	Short: "Expand the start rule of a grammar",
	Long: `Loads the grammar document and prints one expansion per line.
Use --set to declare rules for this run only, e.g. --set "hero=Ann|Bob".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		start, _ := cmd.Flags().GetString("start")
		jsonMode, _ := cmd.Flags().GetBool("json")
		render, _ := cmd.Flags().GetBool("render")
		width, _ := cmd.Flags().GetInt("width")
		sets, _ := cmd.Flags().GetStringArray("set")
		watch, _ := cmd.Flags().GetBool("watch")

		if count < 1 {
			return fmt.Errorf("--count must be at least 1")
		}

		var opts []tendril.Option
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetInt64("seed")
			opts = append(opts, tendril.WithSeed(seed))
		}

		overrides, err := parseOverrides(sets)
		if err != nil {
			return err
		}

		runner := tendril.NewRunner(cmd.OutOrStdout())
		runner.Count = count
		runner.Overrides = overrides
		runner.JSON = jsonMode

		// Markdown rendering only makes sense on a terminal.
		if render && !jsonMode && term.IsTerminal(int(os.Stdout.Fd())) {
			renderer, err := tui.NewRenderer(width)
			if err != nil {
				return err
			}
			runner.Renderer = renderer
		}

		if !watch {
			g, err := loadGrammar(cmd, args, opts...)
			if err != nil {
				return err
			}
			return runGenerate(runner, g, start)
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.RunWatch(sigCtx, cli.WatchOptions{
			Paths:    []string{grammarPath(cmd, args)},
			Logger:   logger,
			Messages: cmd.ErrOrStderr(),
		}, func(context.Context) ([]string, error) {
			doc, err := loadDocument(cmd, args)
			if err != nil {
				return nil, err
			}
			g, err := compile(doc, grammarName(doc, grammarPath(cmd, args)), opts...)
			if err != nil {
				return nil, err
			}
			return doc.Files(), runGenerate(runner, g, start)
		})
	},
}

func runGenerate(runner *tendril.Runner, g *tendril.Grammar, start string) error {
	runner.Start = g.Start()
	if start != "" {
		runner.Start = domain.Symbol(start)
	}
	return runner.Run(g)
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().Int64P("seed", "s", 0, "Seed the random source for reproducible output")
	generateCmd.Flags().IntP("count", "n", 1, "Number of expansions to print")
	generateCmd.Flags().String("start", "", "Rule to expand (defaults to the document's start)")
	generateCmd.Flags().Bool("json", false, "Print one JSON object per expansion (NDJSON)")
	generateCmd.Flags().Bool("render", false, "Render output as markdown when stdout is a terminal")
	generateCmd.Flags().Int("width", 0, "Word wrap width for --render")
	generateCmd.Flags().StringArray("set", nil, "Declare a rule for this run: name=alt1|alt2")
	generateCmd.Flags().BoolP("watch", "w", false, "Regenerate whenever the grammar or a parent document changes")
}

// parseOverrides turns name=alt1|alt2 pairs into call-time rule declarations.
// A single alternative is declared as a template, several as a uniform choice.
func parseOverrides(sets []string) (map[string]any, error) {
	if len(sets) == 0 {
		return nil, nil
	}

	overrides := make(map[string]any, len(sets))
	for _, set := range sets {
		name, value, ok := strings.Cut(set, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: expected name=value", set)
		}
		if _, exists := overrides[name]; exists {
			return nil, fmt.Errorf("invalid --set %q: %s declared twice", set, name)
		}

		alternatives := strings.Split(value, "|")
		if len(alternatives) == 1 {
			overrides[name] = value
			continue
		}
		overrides[name] = alternatives
	}
	return overrides, nil
}
