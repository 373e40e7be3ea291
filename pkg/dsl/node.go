package dsl

import "github.com/aretw0/tendril/pkg/domain"

// RuleBuilder provides a fluent API for configuring a rule.
type RuleBuilder struct {
	name domain.Symbol
	raw  any
	memo bool
}

// Choose sets the alternatives picked uniformly at random.
func (r *RuleBuilder) Choose(alternatives ...any) *RuleBuilder {
	if len(alternatives) == 1 {
		r.raw = alternatives[0]
		return r
	}
	r.raw = alternatives
	return r
}

// Weights sets weighted alternatives. Weights must sum to 1.0.
func (r *RuleBuilder) Weights(pairs ...domain.Weighted) *RuleBuilder {
	r.raw = pairs
	return r
}

// Raw sets any declaration shape understood by registry.Build.
func (r *RuleBuilder) Raw(decl any) *RuleBuilder {
	r.raw = decl
	return r
}

// Memo marks the rule as expanded at most once per generation.
func (r *RuleBuilder) Memo() *RuleBuilder {
	r.memo = true
	return r
}

// Name returns the rule name.
func (r *RuleBuilder) Name() domain.Symbol {
	return r.name
}
