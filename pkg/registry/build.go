package registry

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/production"
)

// Build compiles a raw rule declaration into a production.
//
// A map of alternative to weight, or a list whose every element is a weighted pair,
// becomes a WeightedChoice. Any other list becomes a UniformChoice over its elements.
// Elements resolve by type: a domain.Symbol is a Reference, a string is parsed as a
// Template, a nested list is a nested choice and any other scalar is a Literal.
func Build(raw any) (production.Production, error) {
	switch v := raw.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil declaration", domain.ErrInvalidProduction)
	case production.Production:
		return v, nil
	case domain.Weighted:
		return buildWeighted([]domain.Weighted{v})
	case []domain.Weighted:
		return buildWeighted(v)
	case map[string]float64:
		return buildWeighted(sortedPairs(v))
	case map[domain.Symbol]float64:
		return buildWeighted(sortedPairs(v))
	case map[any]float64:
		return buildWeighted(sortedPairs(v))
	case map[string]any:
		pairs, err := pairsFromMap(v)
		if err != nil {
			return nil, err
		}
		return buildWeighted(pairs)
	case []string:
		return buildUniform(toAny(v))
	case []domain.Symbol:
		return buildUniform(toAny(v))
	case []production.Production:
		return production.NewUniformChoice(v...)
	case []any:
		if pairs, ok := asPairs(v); ok {
			return buildWeighted(pairs)
		}
		return buildUniform(v)
	default:
		return element(raw)
	}
}

// element resolves a single alternative.
func element(v any) (production.Production, error) {
	switch e := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil alternative", domain.ErrInvalidProduction)
	case production.Production:
		return e, nil
	case domain.Symbol:
		if e == "" {
			return nil, fmt.Errorf("%w: empty symbol", domain.ErrInvalidProduction)
		}
		return &production.Reference{Symbol: e}, nil
	case string:
		return production.ParseTemplate(e)
	case []any, []string, []domain.Symbol, []domain.Weighted, map[string]float64, map[string]any:
		return Build(e)
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number, fmt.Stringer:
		return production.NewLiteral(e), nil
	default:
		return nil, fmt.Errorf("%w: unsupported alternative of type %T", domain.ErrInvalidProduction, v)
	}
}

func buildUniform(values []any) (production.Production, error) {
	alts := make([]production.Production, 0, len(values))
	for i, v := range values {
		p, err := element(v)
		if err != nil {
			return nil, fmt.Errorf("alternative %d: %w", i, err)
		}
		alts = append(alts, p)
	}
	return production.NewUniformChoice(alts...)
}

func buildWeighted(pairs []domain.Weighted) (production.Production, error) {
	alts := make([]production.Production, 0, len(pairs))
	weights := make([]float64, 0, len(pairs))
	for i, pair := range pairs {
		p, err := element(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("alternative %d: %w", i, err)
		}
		alts = append(alts, p)
		weights = append(weights, pair.Weight)
	}
	return production.NewWeightedChoice(alts, weights)
}

// sortedPairs orders map entries by key so that compilation is reproducible.
func sortedPairs[K comparable](m map[K]float64) []domain.Weighted {
	pairs := make([]domain.Weighted, 0, len(m))
	for k, w := range m {
		pairs = append(pairs, domain.Weighted{Value: k, Weight: w})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return fmt.Sprint(pairs[i].Value) < fmt.Sprint(pairs[j].Value)
	})
	return pairs
}

func pairsFromMap(m map[string]any) ([]domain.Weighted, error) {
	weights := make(map[string]float64, len(m))
	for k, v := range m {
		w, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("%w: weight of %q is %T, not a number", domain.ErrInvalidProduction, k, v)
		}
		weights[k] = w
	}
	return sortedPairs(weights), nil
}

// asPairs reports whether every element of values is a weighted pair.
func asPairs(values []any) ([]domain.Weighted, bool) {
	if len(values) == 0 {
		return nil, false
	}
	pairs := make([]domain.Weighted, 0, len(values))
	for _, v := range values {
		switch e := v.(type) {
		case domain.Weighted:
			pairs = append(pairs, e)
		case []any:
			if len(e) != 2 {
				return nil, false
			}
			w, ok := toFloat(e[1])
			if !ok {
				return nil, false
			}
			pairs = append(pairs, domain.Weighted{Value: e[0], Weight: w})
		default:
			return nil, false
		}
	}
	return pairs, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func toAny[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
