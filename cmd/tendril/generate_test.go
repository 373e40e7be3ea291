package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverrides(t *testing.T) {
	got, err := parseOverrides([]string{"hero=Ann|Bob", "place=the {adj} hill", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"hero":  []string{"Ann", "Bob"},
		"place": "the {adj} hill",
		"empty": "",
	}, got)

	none, err := parseOverrides(nil)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = parseOverrides([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseOverrides([]string{"=x"})
	assert.Error(t, err)
	_, err = parseOverrides([]string{"a=1", "a=2"})
	assert.Error(t, err)
}

func writeGrammar(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "greeting.yaml")
	doc := `name: greeting
start: greeting
rules:
  greeting: ["{salute.capitalize}, {who}!"]
  salute: [hello, hi]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestCommands(t *testing.T) {
	path := writeGrammar(t)

	run := func(t *testing.T, args ...string) (string, error) {
		t.Helper()
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(args)
		err := rootCmd.Execute()
		return out.String(), err
	}

	t.Run("Generate", func(t *testing.T) {
		out, err := run(t, "generate", path, "--seed", "3", "--set", "who=tendril")
		require.NoError(t, err)
		assert.Regexp(t, `^(Hello|Hi), tendril!\n$`, out)
	})

	t.Run("Validate", func(t *testing.T) {
		_, err := run(t, "validate", path)
		assert.ErrorContains(t, err, "Missing rule: greeting -> who")

		out, err := run(t, "validate", path, "--external", "who")
		require.NoError(t, err)
		assert.Contains(t, out, "Grammar is valid!")
	})

	t.Run("Graph", func(t *testing.T) {
		out, err := run(t, "graph", path)
		require.NoError(t, err)
		assert.Contains(t, out, `greeting(("greeting"))`)
		assert.Contains(t, out, `greeting -- "capitalize" --> salute`)
		assert.Contains(t, out, "class who missing;")
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := run(t, "generate", filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
