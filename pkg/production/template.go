package production

import (
	"fmt"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
)

const (
	openDelim  = '{'
	closeDelim = '}'
	memoSigil  = "@"
)

// ParseTemplate splits src into literal text and "{symbol.transform...}" expressions.
// A leading "@" on the symbol forces memoization of that reference.
func ParseTemplate(src string) (*Template, error) {
	t := &Template{Source: src}

	rest := src
	for {
		start := strings.IndexByte(rest, openDelim)
		if start < 0 {
			break
		}
		end := strings.IndexByte(rest[start+1:], closeDelim)
		if end < 0 {
			return nil, fmt.Errorf("%w: unterminated '{' in %q", domain.ErrTemplateSyntax, src)
		}
		end += start + 1

		if start > 0 {
			t.Parts = append(t.Parts, &Literal{Value: rest[:start]})
		}

		expr, err := parseExpression(rest[start+1 : end])
		if err != nil {
			return nil, fmt.Errorf("%w in %q", err, src)
		}
		t.Parts = append(t.Parts, expr)

		rest = rest[end+1:]
	}

	if rest != "" || len(t.Parts) == 0 {
		t.Parts = append(t.Parts, &Literal{Value: rest})
	}
	return t, nil
}

// parseExpression turns "name.mod1.mod2" into a Reference, wrapped when transforms follow.
func parseExpression(body string) (Production, error) {
	if strings.IndexByte(body, openDelim) >= 0 {
		return nil, fmt.Errorf("%w: nested '{' in '{%s}'", domain.ErrTemplateSyntax, body)
	}

	tokens := strings.Split(strings.TrimSpace(body), ".")

	name := tokens[0]
	memo := strings.HasPrefix(name, memoSigil)
	name = strings.TrimPrefix(name, memoSigil)
	if name == "" {
		return nil, fmt.Errorf("%w: empty symbol in '{%s}'", domain.ErrTemplateSyntax, body)
	}

	ref := &Reference{Symbol: domain.Symbol(name), Memo: memo}
	if len(tokens) == 1 {
		return ref, nil
	}

	transforms := tokens[1:]
	for _, m := range transforms {
		if m == "" {
			return nil, fmt.Errorf("%w: empty transform in '{%s}'", domain.ErrTemplateSyntax, body)
		}
	}
	return &TransformExpression{Base: ref, Transforms: transforms}, nil
}
