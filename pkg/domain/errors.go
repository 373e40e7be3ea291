package domain

import (
	"errors"
	"fmt"
)

// ErrWeightSum is returned when the weights of a weighted rule do not sum to 1.0.
var ErrWeightSum = errors.New("weights must sum to 1.0")

// ErrDuplicateRule is returned when a call-time override names an already compiled rule.
var ErrDuplicateRule = errors.New("duplicate rule")

// ErrMissingRule is returned when a symbol resolves to no rule.
var ErrMissingRule = errors.New("missing rule")

// ErrUnknownTransform is returned when a transform name resolves neither in the
// grammar's transform table nor in its modifier.
var ErrUnknownTransform = errors.New("unknown transform")

// ErrTemplateSyntax is returned when a template string is malformed.
var ErrTemplateSyntax = errors.New("template syntax error")

// ErrInvalidProduction is returned when a rule declaration has an unsupported shape.
var ErrInvalidProduction = errors.New("invalid production")

// WeightSumError reports the rule and the offending sum.
type WeightSumError struct {
	Rule Symbol
	Sum  float64
}

func (e *WeightSumError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("%v (got %g)", ErrWeightSum, e.Sum)
	}
	return fmt.Sprintf("rule '%s': %v (got %g)", e.Rule, ErrWeightSum, e.Sum)
}

func (e *WeightSumError) Unwrap() error { return ErrWeightSum }

// DuplicateRuleError reports an override key that collides with a compiled rule.
type DuplicateRuleError struct {
	Rule Symbol
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("%v: '%s' is already defined", ErrDuplicateRule, e.Rule)
}

func (e *DuplicateRuleError) Unwrap() error { return ErrDuplicateRule }

// MissingRuleError reports a symbol with no matching rule or override.
type MissingRuleError struct {
	Rule Symbol
}

func (e *MissingRuleError) Error() string {
	return fmt.Sprintf("%v: '%s' is not defined", ErrMissingRule, e.Rule)
}

func (e *MissingRuleError) Unwrap() error { return ErrMissingRule }

// UnknownTransformError reports a transform name nobody could resolve.
type UnknownTransformError struct {
	Name string
}

func (e *UnknownTransformError) Error() string {
	return fmt.Sprintf("%v: '%s'", ErrUnknownTransform, e.Name)
}

func (e *UnknownTransformError) Unwrap() error { return ErrUnknownTransform }
