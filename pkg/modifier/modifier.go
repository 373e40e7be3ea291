// Package modifier provides the built-in transforms available to every grammar.
package modifier

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aretw0/tendril/pkg/domain"
)

// Func is a single built-in transform.
type Func func(value string) string

// Provider resolves transforms from a fixed table of built-ins.
type Provider struct {
	funcs map[string]Func
}

var _ domain.Modifier = (*Provider)(nil)

// Default returns a provider with the standard built-ins:
// capitalize, upcase, downcase, titlecase, sentencecase, trim, reverse, length,
// pluralize, singularize and article.
func Default() *Provider {
	return &Provider{funcs: map[string]Func{
		"capitalize":   Capitalize,
		"upcase":       strings.ToUpper,
		"upper":        strings.ToUpper,
		"downcase":     strings.ToLower,
		"lower":        strings.ToLower,
		"titlecase":    TitleCase,
		"sentencecase": SentenceCase,
		"trim":         strings.TrimSpace,
		"reverse":      Reverse,
		"length":       func(s string) string { return strconv.Itoa(utf8.RuneCountInString(s)) },
		"pluralize":    inflection.Plural,
		"plural":       inflection.Plural,
		"singularize":  inflection.Singular,
		"singular":     inflection.Singular,
		"article":      Article,
	}}
}

// With returns a copy of p with fn registered under name.
func (p *Provider) With(name string, fn Func) *Provider {
	funcs := make(map[string]Func, len(p.funcs)+1)
	for k, v := range p.funcs {
		funcs[k] = v
	}
	funcs[name] = fn
	return &Provider{funcs: funcs}
}

// Transform applies the named built-in.
func (p *Provider) Transform(name, value string) (string, error) {
	fn, ok := p.funcs[name]
	if !ok {
		return "", &domain.UnknownTransformError{Name: name}
	}
	return fn(value), nil
}

// Capitalize upper-cases the first letter and leaves the rest untouched.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// TitleCase capitalizes every word using English casing rules.
func TitleCase(s string) string {
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Title(language.English).String(s)
}

// SentenceCase lower-cases s and capitalizes its first letter.
func SentenceCase(s string) string {
	return Capitalize(strings.ToLower(s))
}

// Reverse reverses s rune by rune.
func Reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// Article prefixes s with "a" or "an" depending on its first letter.
func Article(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	r, _ := utf8.DecodeRuneInString(trimmed)
	if strings.ContainsRune("aeiouAEIOU", r) {
		return "an " + s
	}
	return "a " + s
}
