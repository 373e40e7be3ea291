package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/schema"
)

var logger = logging.NewNop()

var rootCmd = &cobra.Command{
	Use:   "tendril",
	Short: "Tendril grows text from weighted grammar rules",
	Long: `Tendril expands a start rule into finished text by resolving symbol references,
making (optionally weighted) random choices and applying named transforms.
Grammars are YAML or JSON documents of rules.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(raw)
		if err != nil {
			return err
		}
		logger = logging.New(level)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("file", "f", "grammar.yaml", "Grammar document (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
}

// grammarPath resolves the document from the first argument or --file.
func grammarPath(cmd *cobra.Command, args []string) string {
	path, _ := cmd.Flags().GetString("file")
	if !cmd.Flags().Changed("file") && len(args) > 0 {
		path = args[0]
	}
	return path
}

// loadDocument reads the grammar document and everything it extends.
func loadDocument(cmd *cobra.Command, args []string) (*schema.Document, error) {
	path := grammarPath(cmd, args)
	doc, err := schema.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	logger.Debug("grammar loaded", "path", path, "rules", len(doc.Rules))
	return doc, nil
}

// loadGrammar compiles the grammar document into a ready Grammar.
func loadGrammar(cmd *cobra.Command, args []string, opts ...tendril.Option) (*tendril.Grammar, error) {
	doc, err := loadDocument(cmd, args)
	if err != nil {
		return nil, err
	}
	return compile(doc, grammarName(doc, grammarPath(cmd, args)), opts...)
}

// grammarName labels logs and metrics: the document name, else its path.
func grammarName(doc *schema.Document, path string) string {
	if doc.Name != "" {
		return doc.Name
	}
	return path
}

func compile(doc *schema.Document, name string, opts ...tendril.Option) (*tendril.Grammar, error) {
	base := []tendril.Option{
		tendril.WithLogger(logger),
		tendril.WithName(name),
		tendril.WithStart(doc.StartSymbol()),
	}
	return tendril.New(doc.Builder(), append(base, opts...)...)
}
