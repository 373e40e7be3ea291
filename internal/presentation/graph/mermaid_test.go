package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tendril/internal/presentation/graph"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/dsl"
)

func TestGenerateMermaid(t *testing.T) {
	reg, err := dsl.New().
		Start("{hero} takes {item.article}. {@hero} leaves. {ghost}").
		MemoRule("hero", "Ann", "Bob").
		WeightedRule("item", map[string]float64{"sword": 0.5, "lamp": 0.5}).
		Rule("my-rule", domain.Symbol("hero")).
		Build()
	require.NoError(t, err)

	out := graph.GenerateMermaid(reg, domain.StartSymbol)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	for _, want := range []string{
		`start(("start"))`,
		`hero[["hero"]]`,
		`item[/"item"/]`,
		`my_rule["my-rule"]`,
		`start -.-> hero`,
		`start -- "article" --> item`,
		`start --> ghost`,
		`my_rule -.-> hero`,
		`class ghost missing;`,
	} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 1, strings.Count(out, "start -.-> hero"), "edges are deduplicated")
}

func TestGenerateMermaid_NoMissing(t *testing.T) {
	reg, err := dsl.New().Start("plain").Build()
	require.NoError(t, err)

	out := graph.GenerateMermaid(reg, domain.StartSymbol)
	assert.NotContains(t, out, "classDef missing")
}

func TestGenerateMermaid_QuotedNames(t *testing.T) {
	reg, err := dsl.New().
		Start(domain.Symbol(`say "hi"`)).
		Rule(`say "hi"`, "hi").
		Build()
	require.NoError(t, err)

	out := graph.GenerateMermaid(reg, domain.StartSymbol)
	assert.Contains(t, out, `say__hi_["say #quot;hi#quot;"]`)
	assert.Contains(t, out, `start --> say__hi_`)
	assert.NotContains(t, out, `"say "hi""`)
}
