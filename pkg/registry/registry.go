package registry

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/production"
)

// TransformFunc rewrites a fragment of generated text.
type TransformFunc func(value string) string

type transformFunc func(value string) (string, error)

// Registry holds the compiled rules of a grammar, its transform table and the
// modifier consulted for transforms the table does not define.
type Registry struct {
	mu         sync.RWMutex
	rules      map[domain.Symbol]production.Production
	memo       map[domain.Symbol]bool
	transforms map[string]transformFunc
	modifier   domain.Modifier
	logger     *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithModifier sets the provider of built-in transforms.
func WithModifier(m domain.Modifier) Option {
	return func(r *Registry) {
		r.modifier = m
	}
}

// WithLogger sets a custom structured logger for the registry.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		rules:      make(map[domain.Symbol]production.Production),
		memo:       make(map[domain.Symbol]bool),
		transforms: make(map[string]transformFunc),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return r
}

// DefineRule compiles raw into a production and stores it under name.
// If a rule with the same name exists, it is overwritten.
// Weighted declarations are validated here, never at evaluation time.
func (r *Registry) DefineRule(name domain.Symbol, raw any) error {
	return r.define(name, raw, false)
}

// DefineMemoRule is DefineRule for a rule whose expansion is computed once per call.
func (r *Registry) DefineMemoRule(name domain.Symbol, raw any) error {
	return r.define(name, raw, true)
}

func (r *Registry) define(name domain.Symbol, raw any, memo bool) error {
	if name == "" {
		return fmt.Errorf("%w: rule name is empty", domain.ErrInvalidProduction)
	}

	p, err := Build(raw)
	if err != nil {
		var sumErr *domain.WeightSumError
		if errors.As(err, &sumErr) {
			sumErr.Rule = name
		}
		return fmt.Errorf("failed to define rule '%s': %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[name] = p
	if memo {
		r.memo[name] = true
	} else {
		delete(r.memo, name)
	}
	r.logger.Debug("rule defined", "rule", name, "memo", memo, "kind", fmt.Sprintf("%T", p))
	return nil
}

// DefineTransform registers a named transform.
// Registered transforms take precedence over the modifier.
func (r *Registry) DefineTransform(name string, fn TransformFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transforms[name] = func(value string) (string, error) {
		return fn(value), nil
	}
}

// DefineMapping registers a transform that applies the replacement of the first
// pattern matching its input, to the first match only.
func (r *Registry) DefineMapping(name string, pairs ...domain.Mapping) error {
	fn, err := compileMapping(pairs)
	if err != nil {
		return fmt.Errorf("failed to define mapping '%s': %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.transforms[name] = fn
	return nil
}

// Transform looks up a transform by name and applies it to value.
// Names missing from the transform table are delegated to the modifier.
func (r *Registry) Transform(name, value string) (string, error) {
	r.mu.RLock()
	fn, ok := r.transforms[name]
	modifier := r.modifier
	r.mu.RUnlock()

	if ok {
		return fn(value)
	}
	if modifier == nil {
		return "", &domain.UnknownTransformError{Name: name}
	}
	return modifier.Transform(name, value)
}

// Combine merges the rules and transforms of other into r.
// Entries already defined on r win on collision, so a child registry
// combined with its parent keeps its own definitions.
func (r *Registry) Combine(other *Registry) {
	if other == nil || other == r {
		return
	}

	other.mu.RLock()
	defer other.mu.RUnlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, p := range other.rules {
		if _, exists := r.rules[name]; exists {
			continue
		}
		r.rules[name] = p
		if other.memo[name] {
			r.memo[name] = true
		}
	}
	for name, fn := range other.transforms {
		if _, exists := r.transforms[name]; !exists {
			r.transforms[name] = fn
		}
	}
	if r.modifier == nil {
		r.modifier = other.modifier
	}
}

// Lookup returns the compiled production of a rule.
func (r *Registry) Lookup(name domain.Symbol) (production.Production, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.rules[name]
	return p, ok
}

// IsMemo reports whether the rule was declared memoized.
func (r *Registry) IsMemo(name domain.Symbol) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.memo[name]
}

// Rules returns all rule names in sorted order.
func (r *Registry) Rules() []domain.Symbol {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]domain.Symbol, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// References returns the distinct symbols the rule refers to directly, sorted.
// It reports false when the rule is not defined.
func (r *Registry) References(name domain.Symbol) ([]domain.Symbol, bool) {
	p, ok := r.Lookup(name)
	if !ok {
		return nil, false
	}

	seen := make(map[domain.Symbol]bool)
	var refs []domain.Symbol
	production.Walk(p, func(node production.Production) {
		if ref, ok := node.(*production.Reference); ok && !seen[ref.Symbol] {
			seen[ref.Symbol] = true
			refs = append(refs, ref.Symbol)
		}
	})
	sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })
	return refs, true
}
