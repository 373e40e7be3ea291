package domain

// StartSymbol is the rule evaluated when no other start symbol is requested.
const StartSymbol Symbol = "start"

// Symbol is the name of a rule.
// Inside a rule declaration, a Symbol is a reference to another rule,
// while a plain string is parsed as a template.
type Symbol string

func (s Symbol) String() string {
	return string(s)
}

// Weighted pairs an alternative with its selection weight.
// The weights of all alternatives of one rule must sum to 1.0.
type Weighted struct {
	Value  any     `json:"value" yaml:"value" mapstructure:"value"`
	Weight float64 `json:"weight" yaml:"weight" mapstructure:"weight"`
}

// W is a shorthand for building a Weighted pair.
func W(value any, weight float64) Weighted {
	return Weighted{Value: value, Weight: weight}
}

// Mapping pairs a pattern with the replacement applied to its first match.
type Mapping struct {
	Pattern string `json:"pattern" yaml:"pattern" mapstructure:"pattern"`
	Replace string `json:"replace" yaml:"replace" mapstructure:"replace"`
}

// Modifier resolves a named transform that is not declared on the grammar itself.
// Implementations must fail with ErrUnknownTransform for names they do not recognize.
type Modifier interface {
	Transform(name, value string) (string, error)
}

// ModifierFunc adapts a function to the Modifier interface.
type ModifierFunc func(name, value string) (string, error)

func (f ModifierFunc) Transform(name, value string) (string, error) {
	return f(name, value)
}

// Result is the outcome of one generation: the start symbol and its expansion.
type Result struct {
	Symbol Symbol `json:"symbol"`
	Text   string `json:"text"`
}

func (r Result) String() string {
	return r.Text
}
