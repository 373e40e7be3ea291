package modifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/modifier"
)

func TestDefault(t *testing.T) {
	p := modifier.Default()

	cases := []struct {
		name, in, want string
	}{
		{"capitalize", "hello world", "Hello world"},
		{"capitalize", "", ""},
		{"capitalize", "élan", "Élan"},
		{"upcase", "abc", "ABC"},
		{"downcase", "ABC", "abc"},
		{"titlecase", "the old man", "The Old Man"},
		{"sentencecase", "THE OLD MAN", "The old man"},
		{"trim", "  x  ", "x"},
		{"reverse", "abc", "cba"},
		{"length", "héllo", "5"},
		{"pluralize", "city", "cities"},
		{"pluralize", "person", "people"},
		{"singularize", "mice", "mouse"},
		{"article", "apple", "an apple"},
		{"article", "pear", "a pear"},
	}
	for _, tc := range cases {
		t.Run(tc.name+"/"+tc.in, func(t *testing.T) {
			out, err := p.Transform(tc.name, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestUnknown(t *testing.T) {
	_, err := modifier.Default().Transform("frobnicate", "x")
	assert.ErrorIs(t, err, domain.ErrUnknownTransform)
}

func TestWith(t *testing.T) {
	base := modifier.Default()
	extended := base.With("bracket", func(s string) string { return "[" + s + "]" })

	out, err := extended.Transform("bracket", "x")
	require.NoError(t, err)
	assert.Equal(t, "[x]", out)

	_, err = base.Transform("bracket", "x")
	assert.ErrorIs(t, err, domain.ErrUnknownTransform, "With does not mutate the receiver")
}
