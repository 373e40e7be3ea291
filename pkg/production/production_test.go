package production_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/production"
)

// fakeScope is a minimal Scope backed by maps and a scripted random stream.
type fakeScope struct {
	rules  map[domain.Symbol]production.Production
	memo   map[domain.Symbol]bool
	cache  map[domain.Symbol]string
	draws  []float64
	lookup int
}

func newScope(rules map[domain.Symbol]production.Production, draws ...float64) *fakeScope {
	return &fakeScope{
		rules: rules,
		memo:  map[domain.Symbol]bool{},
		cache: map[domain.Symbol]string{},
		draws: draws,
	}
}

func (s *fakeScope) Lookup(sym domain.Symbol) (production.Production, bool) {
	s.lookup++
	p, ok := s.rules[sym]
	return p, ok
}

func (s *fakeScope) Memoized(sym domain.Symbol) bool { return s.memo[sym] }

func (s *fakeScope) Cached(sym domain.Symbol) (string, bool) {
	text, ok := s.cache[sym]
	return text, ok
}

func (s *fakeScope) Store(sym domain.Symbol, text string) { s.cache[sym] = text }

func (s *fakeScope) Transform(name, value string) (string, error) {
	switch name {
	case "upcase":
		return strings.ToUpper(value), nil
	case "exclaim":
		return value + "!", nil
	case "first":
		return value[:1], nil
	case "tail":
		return value[1:], nil
	}
	return "", &domain.UnknownTransformError{Name: name}
}

func (s *fakeScope) Float64() float64 {
	if len(s.draws) == 0 {
		return 0
	}
	r := s.draws[0]
	s.draws = s.draws[1:]
	return r
}

func mustTemplate(t *testing.T, src string) *production.Template {
	t.Helper()
	tpl, err := production.ParseTemplate(src)
	require.NoError(t, err)
	return tpl
}

func TestLiteral_Evaluate(t *testing.T) {
	text, err := production.NewLiteral(42).Evaluate(newScope(nil))
	require.NoError(t, err)
	assert.Equal(t, "42", text)

	text, err = production.NewLiteral("as is {x}").Evaluate(newScope(nil))
	require.NoError(t, err)
	assert.Equal(t, "as is {x}", text)
}

func TestReference_Chain(t *testing.T) {
	scope := newScope(map[domain.Symbol]production.Production{
		"sym":   &production.Reference{Symbol: "other"},
		"other": production.NewLiteral("OK"),
	})

	text, err := (&production.Reference{Symbol: "sym"}).Evaluate(scope)
	require.NoError(t, err)
	assert.Equal(t, "OK", text)
}

func TestReference_Missing(t *testing.T) {
	_, err := (&production.Reference{Symbol: "ghost"}).Evaluate(newScope(nil))
	require.Error(t, err)

	var missing *domain.MissingRuleError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, domain.Symbol("ghost"), missing.Rule)
	assert.ErrorIs(t, err, domain.ErrMissingRule)
}

func TestReference_Memo(t *testing.T) {
	pick, err := production.NewUniformChoice(production.NewLiteral("a"), production.NewLiteral("b"))
	require.NoError(t, err)

	scope := newScope(map[domain.Symbol]production.Production{"pick": pick}, 0.9, 0.1)
	ref := &production.Reference{Symbol: "pick", Memo: true}

	first, err := ref.Evaluate(scope)
	require.NoError(t, err)
	second, err := ref.Evaluate(scope)
	require.NoError(t, err)

	assert.Equal(t, "b", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, scope.lookup, "memoized reference must not re-evaluate")
	assert.Len(t, scope.draws, 1, "memoized reference must not draw again")
}

func TestTemplate_Concatenation(t *testing.T) {
	scope := newScope(map[domain.Symbol]production.Production{
		"one": production.NewLiteral("One."),
		"two": production.NewLiteral("Two."),
	})

	text, err := mustTemplate(t, "{one} {two}").Evaluate(scope)
	require.NoError(t, err)
	assert.Equal(t, "One. Two.", text)
}

func TestTemplate_TransformOrder(t *testing.T) {
	scope := newScope(map[domain.Symbol]production.Production{
		"hello": production.NewLiteral("hello"),
	})

	text, err := mustTemplate(t, "<{hello.exclaim.upcase}>").Evaluate(scope)
	require.NoError(t, err)
	assert.Equal(t, "<HELLO!>", text)

	// Chains run left to right: each result feeds the next transform.
	text, err = mustTemplate(t, "{hello.exclaim.first}|{hello.first.exclaim}").Evaluate(scope)
	require.NoError(t, err)
	assert.Equal(t, "h|h!", text)

	text, err = mustTemplate(t, "{hello.tail.first}|{hello.first.tail}").Evaluate(scope)
	require.NoError(t, err)
	assert.Equal(t, "e|", text)
}

func TestTemplate_UnknownTransform(t *testing.T) {
	scope := newScope(map[domain.Symbol]production.Production{
		"hello": production.NewLiteral("hello"),
	})

	_, err := mustTemplate(t, "{hello.bogus}").Evaluate(scope)
	assert.ErrorIs(t, err, domain.ErrUnknownTransform)
}

func TestParseTemplate(t *testing.T) {
	t.Run("Parts", func(t *testing.T) {
		tpl := mustTemplate(t, "a {b} c {@d.x.y}")
		require.Len(t, tpl.Parts, 4)

		assert.Equal(t, &production.Literal{Value: "a "}, tpl.Parts[0])
		assert.Equal(t, &production.Reference{Symbol: "b"}, tpl.Parts[1])
		assert.Equal(t, &production.Literal{Value: " c "}, tpl.Parts[2])

		expr, ok := tpl.Parts[3].(*production.TransformExpression)
		require.True(t, ok)
		assert.Equal(t, []string{"x", "y"}, expr.Transforms)
		assert.Equal(t, &production.Reference{Symbol: "d", Memo: true}, expr.Base)
	})

	t.Run("Plain Text", func(t *testing.T) {
		tpl := mustTemplate(t, "  spaced  ")
		assert.Equal(t, []production.Production{&production.Literal{Value: "  spaced  "}}, tpl.Parts)
	})

	t.Run("Empty", func(t *testing.T) {
		tpl := mustTemplate(t, "")
		assert.Len(t, tpl.Parts, 1)
	})

	for _, src := range []string{"{open", "{}", "{@}", "{a..b}", "{a.}", "{a {b}", "x {a.{b}} y"} {
		t.Run("Invalid "+src, func(t *testing.T) {
			_, err := production.ParseTemplate(src)
			assert.ErrorIs(t, err, domain.ErrTemplateSyntax)
		})
	}
}

func TestWalk(t *testing.T) {
	choice, err := production.NewUniformChoice(
		mustTemplate(t, "{a} and {b.upcase}"),
		&production.Reference{Symbol: "c"},
	)
	require.NoError(t, err)

	var refs []domain.Symbol
	production.Walk(choice, func(p production.Production) {
		if ref, ok := p.(*production.Reference); ok {
			refs = append(refs, ref.Symbol)
		}
	})
	assert.Equal(t, []domain.Symbol{"a", "b", "c"}, refs)
}

func TestErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	scope := newScope(map[domain.Symbol]production.Production{
		"bad": failing{err: boom},
	})
	_, err := mustTemplate(t, "x {bad} y").Evaluate(scope)
	assert.ErrorIs(t, err, boom)
}

type failing struct {
	production.Production
	err error
}

func (f failing) Evaluate(production.Scope) (string, error) { return "", f.err }
