package schema_test

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/modifier"
	"github.com/aretw0/tendril/pkg/registry"
	"github.com/aretw0/tendril/pkg/schema"
)

const tavern = `
name: tavern
memo: [keeper]
rules:
  start: "{keeper} pours {drink}. {keeper.possessive} smile is warm."
  keeper: [Mara, Oswin, Tobb, Wren]
  drink:
    ale: 0.5
    cider: 0.5
mappings:
  possessive:
    - {pattern: "s$", replace: "s'"}
    - {pattern: "$", replace: "'s"}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func expand(t *testing.T, doc *schema.Document, seed uint64) string {
	t.Helper()
	reg, err := doc.Builder().Build()
	require.NoError(t, err)
	res, err := reg.Evaluate(rand.New(rand.NewPCG(seed, seed)), doc.StartSymbol(), nil)
	require.NoError(t, err)
	return res.Text
}

func TestParse_YAML(t *testing.T) {
	doc, err := schema.Parse([]byte(tavern), schema.FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "tavern", doc.Name)
	assert.Equal(t, domain.StartSymbol, doc.StartSymbol())
	assert.Equal(t, []string{"keeper"}, doc.Memo)
	require.Len(t, doc.Mappings["possessive"], 2)
	assert.Equal(t, domain.Mapping{Pattern: "s$", Replace: "s'"}, doc.Mappings["possessive"][0])

	for seed := uint64(0); seed < 10; seed++ {
		out := expand(t, doc, seed)
		assert.Regexp(t, `^(Mara|Oswin|Tobb|Wren) pours (ale|cider)\. (Mara's|Oswin's|Tobb's|Wren's) smile is warm\.$`, out)
		// Memoized keeper: the one who pours is the one who smiles.
		fields := strings.Fields(out)
		assert.Equal(t, fields[0]+"'s", fields[3])
	}
}

func TestParse_JSON(t *testing.T) {
	doc, err := schema.Parse([]byte(`{
		"start": "motto",
		"rules": {
			"motto": ["{word.upcase}"],
			"word": {"onward": 1}
		}
	}`), schema.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, domain.Symbol("motto"), doc.StartSymbol())
	assert.Equal(t, "ONWARD", expand(t, doc, 1))
}

func TestParse_Invalid(t *testing.T) {
	_, err := schema.Parse([]byte("rules: [unclosed"), schema.FormatYAML)
	assert.Error(t, err)

	_, err = schema.Parse([]byte(`{"rules": `), schema.FormatJSON)
	assert.Error(t, err)

	_, err = schema.Parse([]byte(`
memo: [ghost]
rules:
  start: "x"
mappings:
  empty: []
`), schema.FormatYAML)
	require.Error(t, err)
	errs := schema.ValidationErrors(err)
	require.Len(t, errs, 2)

	var vErr *schema.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "mappings.empty: mapping has no patterns", errs[0].Error())
	assert.Equal(t, "memo.ghost: rule is not defined in this document", errs[1].Error())
	assert.True(t, strings.HasPrefix(err.Error(), "grammar has 2 problems:"))
}

func TestLoadFile_Extends(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "common.yaml", `
start: greeting
rules:
  greeting: "{salute}, {title}!"
  salute: Hail
  title: traveler
`)
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	path := writeFile(t, sub, "child.json", `{
		"extends": "../common.yaml",
		"rules": {"title": "friend"}
	}`)

	doc, err := schema.LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, doc.Parent)
	assert.Equal(t, domain.Symbol("greeting"), doc.StartSymbol())
	assert.Equal(t, "Hail, friend!", expand(t, doc, 1))
	assert.Equal(t, []string{path, filepath.Join(dir, "common.yaml")}, doc.Files())
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := schema.LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	loop := writeFile(t, dir, "loop.yaml", "extends: loop.yaml\nrules:\n  start: x\n")
	_, err = schema.LoadFile(loop)
	assert.ErrorContains(t, err, "extends itself")

	bad := writeFile(t, dir, "bad.yaml", "rules:\n  start:\n    a: 0.2\n")
	doc, err := schema.LoadFile(bad)
	require.NoError(t, err, "weights are checked at compile time")
	_, err = doc.Builder().Build()
	assert.ErrorIs(t, err, domain.ErrWeightSum)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, schema.FormatJSON, schema.FormatOf("a/b.JSON"))
	assert.Equal(t, schema.FormatYAML, schema.FormatOf("a/b.yml"))
	assert.Equal(t, schema.FormatYAML, schema.FormatOf("grammar"))
}

func TestLoadFile_Examples(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "*", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			doc, err := schema.LoadFile(path)
			require.NoError(t, err)

			reg, err := doc.Builder().Build(registry.WithModifier(modifier.Default()))
			require.NoError(t, err)

			rng := rand.New(rand.NewPCG(7, 7))
			for i := 0; i < 25; i++ {
				res, err := reg.Evaluate(rng, doc.StartSymbol(), nil)
				require.NoError(t, err)
				assert.NotContains(t, res.Text, "{")
			}
		})
	}
}
