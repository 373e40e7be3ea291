package dsl

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tendril/pkg/domain"
)

func evaluate(t *testing.T, b *Builder) string {
	t.Helper()
	reg, err := b.Build()
	require.NoError(t, err)
	res, err := reg.Evaluate(rand.New(rand.NewPCG(1, 2)), domain.StartSymbol, nil)
	require.NoError(t, err)
	return res.Text
}

func TestBuilder_SimpleGrammar(t *testing.T) {
	b := New()

	b.Start("{greeting}, {name}!").
		Rule("greeting", "Hello").
		Rule("name", domain.Symbol("nickname")).
		Rule("nickname", "DSL")

	assert.Equal(t, "Hello, DSL!", evaluate(t, b))

	reg, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []domain.Symbol{"greeting", "name", "nickname", "start"}, reg.Rules())
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := New()
	first := b.Add("x")
	assert.Same(t, first, b.Add("x"))
	assert.Equal(t, domain.Symbol("x"), first.Name())
	assert.Equal(t, []domain.Symbol{"x"}, b.order)
}

func TestBuilder_Weighted(t *testing.T) {
	b := New().
		Start("{coin}").
		WeightedRule("coin", map[string]float64{"heads": 1, "tails": 0})
	assert.Equal(t, "heads", evaluate(t, b))

	b.Add("die").Weights(domain.W("one", 0.5), domain.W("two", 0.4))
	_, err := b.Build()
	assert.ErrorIs(t, err, domain.ErrWeightSum)
}

func TestBuilder_Memo(t *testing.T) {
	b := New().
		Start("{x}{x}{x}").
		MemoRule("x", "a", "b", "c", "d")

	for i := 0; i < 5; i++ {
		out := evaluate(t, b)
		assert.Equal(t, strings.Repeat(out[:1], 3), out)
	}
}

func TestBuilder_TransformsAndMappings(t *testing.T) {
	b := New().
		Start("{word.shout.tail}").
		Rule("word", "hello").
		Transform("shout", strings.ToUpper).
		Mapping("tail", domain.Mapping{Pattern: "O$", Replace: "O!"})

	assert.Equal(t, "HELLO!", evaluate(t, b))
}

func TestBuilder_Extends(t *testing.T) {
	parent := New().
		Rule("animal", "cat").
		Rule("color", "red").
		Transform("shout", strings.ToUpper)

	child := New().Extends(parent).
		Start("{color} {animal.shout}").
		Rule("color", "blue")

	assert.Equal(t, "blue CAT", evaluate(t, child))

	t.Run("Transitive", func(t *testing.T) {
		grandchild := New().Extends(child).Rule("extra", "x")
		assert.Equal(t, "blue CAT", evaluate(t, grandchild))
	})

	t.Run("Cycle", func(t *testing.T) {
		a := New().Start("a")
		bb := New().Extends(a)
		a.Extends(bb)
		_, err := bb.Build()
		assert.ErrorIs(t, err, domain.ErrInvalidProduction)
	})
}

func TestBuilder_CollectsErrors(t *testing.T) {
	b := New()
	b.Add("empty")
	b.Rule("broken", "{oops")
	b.Mapping("bad", domain.Mapping{Pattern: "("})

	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidProduction)
	assert.ErrorIs(t, err, domain.ErrTemplateSyntax)
	assert.Contains(t, err.Error(), "bad")
}
