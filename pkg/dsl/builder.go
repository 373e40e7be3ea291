package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/registry"
)

// Builder collects rule declarations and compiles them into a Registry.
type Builder struct {
	rules    map[domain.Symbol]*RuleBuilder
	order    []domain.Symbol
	funcs    map[string]registry.TransformFunc
	mappings map[string][]domain.Mapping
	parent   *Builder
}

// New creates a new grammar builder.
func New() *Builder {
	return &Builder{
		rules:    make(map[domain.Symbol]*RuleBuilder),
		funcs:    make(map[string]registry.TransformFunc),
		mappings: make(map[string][]domain.Mapping),
	}
}

// Add returns the builder of the named rule, creating it if needed.
func (b *Builder) Add(name domain.Symbol) *RuleBuilder {
	if rb, ok := b.rules[name]; ok {
		return rb
	}
	rb := &RuleBuilder{name: name}
	b.rules[name] = rb
	b.order = append(b.order, name)
	return rb
}

// Rule declares a rule choosing uniformly among alternatives.
// Strings are templates, domain.Symbol values are references.
func (b *Builder) Rule(name domain.Symbol, alternatives ...any) *Builder {
	b.Add(name).Choose(alternatives...)
	return b
}

// WeightedRule declares a rule choosing among weighted alternatives.
// decl is a map of alternative to weight or a []domain.Weighted.
func (b *Builder) WeightedRule(name domain.Symbol, decl any) *Builder {
	b.Add(name).Raw(decl)
	return b
}

// MemoRule declares a rule expanded at most once per generation.
func (b *Builder) MemoRule(name domain.Symbol, alternatives ...any) *Builder {
	b.Add(name).Choose(alternatives...).Memo()
	return b
}

// Start declares the rule named "start".
func (b *Builder) Start(alternatives ...any) *Builder {
	return b.Rule(domain.StartSymbol, alternatives...)
}

// Transform declares a named transform usable as "{rule.name}".
func (b *Builder) Transform(name string, fn registry.TransformFunc) *Builder {
	b.funcs[name] = fn
	return b
}

// Mapping declares a pattern rewrite transform.
func (b *Builder) Mapping(name string, pairs ...domain.Mapping) *Builder {
	b.mappings[name] = append(b.mappings[name], pairs...)
	return b
}

// Extends makes parent's rules resolvable from this grammar.
// Rules declared here take precedence over the parent's.
func (b *Builder) Extends(parent *Builder) *Builder {
	b.parent = parent
	return b
}

// Build compiles the declarations into a Registry.
// All declaration errors are reported together.
func (b *Builder) Build(opts ...registry.Option) (*registry.Registry, error) {
	return b.build(opts, map[*Builder]bool{})
}

func (b *Builder) build(opts []registry.Option, seen map[*Builder]bool) (*registry.Registry, error) {
	if seen[b] {
		return nil, fmt.Errorf("%w: grammar extends itself", domain.ErrInvalidProduction)
	}
	seen[b] = true

	reg := registry.New(opts...)

	var errs []error
	for _, name := range b.order {
		rb := b.rules[name]
		if rb.raw == nil {
			errs = append(errs, fmt.Errorf("rule '%s' has no alternatives: %w", name, domain.ErrInvalidProduction))
			continue
		}
		define := reg.DefineRule
		if rb.memo {
			define = reg.DefineMemoRule
		}
		if err := define(name, rb.raw); err != nil {
			errs = append(errs, err)
		}
	}
	for name, fn := range b.funcs {
		reg.DefineTransform(name, fn)
	}
	for name, pairs := range b.mappings {
		if err := reg.DefineMapping(name, pairs...); err != nil {
			errs = append(errs, err)
		}
	}

	if b.parent != nil {
		parent, err := b.parent.build(opts, seen)
		if err != nil {
			errs = append(errs, fmt.Errorf("parent grammar: %w", err))
		} else {
			reg.Combine(parent)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return reg, nil
}
