package production

import (
	"fmt"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
)

// Scope is the call-local environment a production is evaluated in.
type Scope interface {
	// Lookup resolves a symbol against the compiled rules and the call-time overrides.
	Lookup(sym domain.Symbol) (Production, bool)
	// Memoized reports whether the rule was declared as memoized.
	Memoized(sym domain.Symbol) bool
	// Cached returns the expansion stored for sym during this call, if any.
	Cached(sym domain.Symbol) (string, bool)
	// Store records the expansion of sym for the rest of this call.
	Store(sym domain.Symbol, text string)
	// Transform applies the named transform to value.
	Transform(name, value string) (string, error)
	// Float64 draws a uniform number in [0, 1) from the call's random source.
	Float64() float64
}

// Production is a node of the expansion tree.
type Production interface {
	Evaluate(s Scope) (string, error)
	production()
}

// Literal returns its value verbatim.
type Literal struct {
	Value string
}

// NewLiteral renders any scalar into a Literal.
func NewLiteral(v any) *Literal {
	if s, ok := v.(string); ok {
		return &Literal{Value: s}
	}
	return &Literal{Value: fmt.Sprint(v)}
}

func (l *Literal) Evaluate(Scope) (string, error) {
	return l.Value, nil
}

// Reference delegates to the rule named by Symbol.
// Memo forces the memoized path even when the rule was not declared memoized.
type Reference struct {
	Symbol domain.Symbol
	Memo   bool
}

func (r *Reference) Evaluate(s Scope) (string, error) {
	memo := r.Memo || s.Memoized(r.Symbol)
	if memo {
		if text, ok := s.Cached(r.Symbol); ok {
			return text, nil
		}
	}

	target, ok := s.Lookup(r.Symbol)
	if !ok {
		return "", &domain.MissingRuleError{Rule: r.Symbol}
	}

	text, err := target.Evaluate(s)
	if err != nil {
		return "", err
	}

	if memo {
		s.Store(r.Symbol, text)
	}
	return text, nil
}

// TransformExpression applies Transforms in order to the output of Base.
type TransformExpression struct {
	Base       Production
	Transforms []string
}

func (t *TransformExpression) Evaluate(s Scope) (string, error) {
	text, err := t.Base.Evaluate(s)
	if err != nil {
		return "", err
	}
	for _, name := range t.Transforms {
		text, err = s.Transform(name, text)
		if err != nil {
			return "", err
		}
	}
	return text, nil
}

// Template concatenates the evaluation of its parts with no separators.
type Template struct {
	Source string
	Parts  []Production
}

func (t *Template) Evaluate(s Scope) (string, error) {
	if len(t.Parts) == 1 {
		return t.Parts[0].Evaluate(s)
	}

	var sb strings.Builder
	for _, part := range t.Parts {
		text, err := part.Evaluate(s)
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

func (*Literal) production()             {}
func (*Reference) production()           {}
func (*TransformExpression) production() {}
func (*Template) production()            {}
func (*UniformChoice) production()       {}
func (*WeightedChoice) production()      {}

// Children returns the direct sub-productions of p.
func Children(p Production) []Production {
	switch n := p.(type) {
	case *TransformExpression:
		return []Production{n.Base}
	case *Template:
		return n.Parts
	case *UniformChoice:
		return n.Alternatives
	case *WeightedChoice:
		return n.Alternatives
	default:
		return nil
	}
}

// Walk visits p and every production below it, depth first.
// References are not followed.
func Walk(p Production, fn func(Production)) {
	if p == nil {
		return
	}
	fn(p)
	for _, child := range Children(p) {
		Walk(child, fn)
	}
}
