package registry

import (
	"fmt"
	"sort"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/production"
)

// Source is the random stream consumed by one evaluation.
type Source interface {
	Float64() float64
}

// evaluation is the call-local state of a single Evaluate call.
// It is never stored on the Registry, so concurrent calls do not share it.
type evaluation struct {
	reg       *Registry
	overrides map[domain.Symbol]production.Production
	cache     map[domain.Symbol]string
	rng       Source
}

var _ production.Scope = (*evaluation)(nil)

// Evaluate expands start using rng as the random source.
// Overrides add ad-hoc rules for this call only; a key naming a compiled rule is rejected.
func (r *Registry) Evaluate(rng Source, start domain.Symbol, overrides map[string]any) (domain.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ev := &evaluation{
		reg:       r,
		overrides: make(map[domain.Symbol]production.Production, len(overrides)),
		cache:     make(map[domain.Symbol]string),
		rng:       rng,
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := domain.Symbol(k)
		if _, exists := r.rules[name]; exists {
			return domain.Result{}, &domain.DuplicateRuleError{Rule: name}
		}
		p, err := Build(overrides[k])
		if err != nil {
			return domain.Result{}, fmt.Errorf("failed to build override '%s': %w", k, err)
		}
		ev.overrides[name] = p
	}

	root, ok := ev.Lookup(start)
	if !ok {
		return domain.Result{}, &domain.MissingRuleError{Rule: start}
	}

	text, err := root.Evaluate(ev)
	if err != nil {
		r.logger.Debug("evaluation failed", "start", start, "error", err)
		return domain.Result{}, err
	}

	return domain.Result{Symbol: start, Text: text}, nil
}

func (ev *evaluation) Lookup(sym domain.Symbol) (production.Production, bool) {
	if p, ok := ev.reg.rules[sym]; ok {
		return p, true
	}
	p, ok := ev.overrides[sym]
	return p, ok
}

func (ev *evaluation) Memoized(sym domain.Symbol) bool {
	return ev.reg.memo[sym]
}

func (ev *evaluation) Cached(sym domain.Symbol) (string, bool) {
	text, ok := ev.cache[sym]
	return text, ok
}

func (ev *evaluation) Store(sym domain.Symbol, text string) {
	ev.cache[sym] = text
}

// Transform runs under the read lock already held by Evaluate.
func (ev *evaluation) Transform(name, value string) (string, error) {
	if fn, ok := ev.reg.transforms[name]; ok {
		return fn(value)
	}
	if ev.reg.modifier == nil {
		return "", &domain.UnknownTransformError{Name: name}
	}
	return ev.reg.modifier.Transform(name, value)
}

func (ev *evaluation) Float64() float64 {
	return ev.rng.Float64()
}
