package validator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/production"
	"github.com/aretw0/tendril/pkg/registry"
)

// Report lists the problems found while crawling a grammar.
type Report struct {
	Missing           []string // "rule -> symbol" references that resolve to nothing
	UnknownTransforms []string // "rule: transform" names nobody resolves
	Unreachable       []domain.Symbol
}

// Err summarizes blocking problems. Unreachable rules are not an error.
func (r *Report) Err() error {
	var problems []string
	for _, m := range r.Missing {
		problems = append(problems, fmt.Sprintf("Missing rule: %s", m))
	}
	for _, u := range r.UnknownTransforms {
		problems = append(problems, fmt.Sprintf("Unknown transform: %s", u))
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("found %d errors:\n- %s", len(problems), strings.Join(problems, "\n- "))
}

// ValidateGrammar crawls references from start and reports dangling references,
// unresolvable transforms and rules never reached.
// Symbols listed in external are treated as supplied at call time.
func ValidateGrammar(reg *registry.Registry, start domain.Symbol, external ...domain.Symbol) (*Report, error) {
	if _, ok := reg.Lookup(start); !ok {
		return nil, fmt.Errorf("start rule '%s' not found: %w", start, domain.ErrMissingRule)
	}

	provided := make(map[domain.Symbol]bool, len(external))
	for _, sym := range external {
		provided[sym] = true
	}

	report := &Report{}
	visited := make(map[domain.Symbol]bool)
	checked := make(map[string]bool)
	queue := []domain.Symbol{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		refs, ok := reg.References(current)
		if !ok {
			continue
		}
		for _, sym := range refs {
			if _, ok := reg.Lookup(sym); !ok {
				if !provided[sym] {
					report.Missing = append(report.Missing, fmt.Sprintf("%s -> %s", current, sym))
				}
				continue
			}
			if !visited[sym] {
				queue = append(queue, sym)
			}
		}

		p, _ := reg.Lookup(current)
		production.Walk(p, func(node production.Production) {
			expr, ok := node.(*production.TransformExpression)
			if !ok {
				return
			}
			for _, name := range expr.Transforms {
				if checked[name] {
					continue
				}
				checked[name] = true
				if _, err := reg.Transform(name, "probe"); errors.Is(err, domain.ErrUnknownTransform) {
					report.UnknownTransforms = append(report.UnknownTransforms, fmt.Sprintf("%s: %s", current, name))
				}
			}
		})
	}

	for _, name := range reg.Rules() {
		if !visited[name] {
			report.Unreachable = append(report.Unreachable, name)
		}
	}
	sort.Strings(report.Missing)
	sort.Strings(report.UnknownTransforms)

	return report, nil
}
