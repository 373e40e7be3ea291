package registry

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/aretw0/tendril/pkg/domain"
)

// MatchTimeout bounds a single pattern match inside a mapping transform.
var MatchTimeout = time.Second

type compiledMapping struct {
	re      *regexp2.Regexp
	replace string
}

// compileMapping builds the transform behind DefineMapping.
// Patterns use Perl-style syntax (lookarounds allowed); replacements refer to groups as $1.
func compileMapping(pairs []domain.Mapping) (transformFunc, error) {
	compiled := make([]compiledMapping, 0, len(pairs))
	for _, pair := range pairs {
		re, err := regexp2.Compile(pair.Pattern, regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pair.Pattern, err)
		}
		re.MatchTimeout = MatchTimeout
		compiled = append(compiled, compiledMapping{re: re, replace: pair.Replace})
	}

	return func(value string) (string, error) {
		for _, m := range compiled {
			ok, err := m.re.MatchString(value)
			if err != nil {
				return "", fmt.Errorf("pattern %q: %w", m.re.String(), err)
			}
			if !ok {
				continue
			}
			return m.re.Replace(value, m.replace, -1, 1)
		}
		return value, nil
	}, nil
}
