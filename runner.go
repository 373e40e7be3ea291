package tendril

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/tendril/pkg/domain"
)

// ContentRenderer is a function that transforms generated text before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// Runner writes a batch of generations to Output.
// This allows for easy testing and integration with different frontends (CLI, HTTP, etc).
type Runner struct {
	Output    io.Writer
	Count     int
	Start     domain.Symbol
	Overrides map[string]any
	JSON      bool
	Renderer  ContentRenderer
}

// NewRunner creates a Runner producing a single result from the start rule.
func NewRunner(output io.Writer) *Runner {
	return &Runner{
		Output: output,
		Count:  1,
		Start:  domain.StartSymbol,
	}
}

// Run generates Count results and writes one per line (or one JSON object per line).
// It stops at the first failure; results already written stay written.
func (r *Runner) Run(g *Grammar) error {
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	start := r.Start
	if start == "" {
		start = domain.StartSymbol
	}

	enc := json.NewEncoder(r.Output)
	for i := 0; i < r.Count; i++ {
		res, err := g.Expand(start, r.Overrides)
		if err != nil {
			return fmt.Errorf("generation %d failed: %w", i+1, err)
		}

		if r.JSON {
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
			continue
		}

		text := res.Text
		if r.Renderer != nil {
			text, err = r.Renderer(text)
			if err != nil {
				return fmt.Errorf("render error: %w", err)
			}
		}
		if _, err := fmt.Fprintln(r.Output, text); err != nil {
			return err
		}
	}
	return nil
}
