package production

import (
	"fmt"
	"math"

	"github.com/aretw0/tendril/pkg/domain"
)

// WeightTolerance is the largest accepted distance between a weight sum and 1.0.
const WeightTolerance = 1e-9

// Select returns the index of the first weight whose cumulative sum exceeds r.
// r is expected in [0, 1). If rounding leaves r uncovered, the last index is returned.
func Select(r float64, weights []float64) int {
	var cumulative float64
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// UniformChoice picks among Alternatives with equal probability.
type UniformChoice struct {
	Alternatives []Production
	weights      []float64
}

// NewUniformChoice builds a choice over at least one alternative.
func NewUniformChoice(alternatives ...Production) (*UniformChoice, error) {
	if len(alternatives) == 0 {
		return nil, fmt.Errorf("%w: choice needs at least one alternative", domain.ErrInvalidProduction)
	}
	weights := make([]float64, len(alternatives))
	for i := range weights {
		weights[i] = 1 / float64(len(alternatives))
	}
	return &UniformChoice{Alternatives: alternatives, weights: weights}, nil
}

func (c *UniformChoice) Evaluate(s Scope) (string, error) {
	if len(c.Alternatives) == 1 {
		return c.Alternatives[0].Evaluate(s)
	}
	return c.Alternatives[Select(s.Float64(), c.weights)].Evaluate(s)
}

// WeightedChoice picks among Alternatives proportionally to Weights.
type WeightedChoice struct {
	Alternatives []Production
	Weights      []float64
}

// NewWeightedChoice validates that weights are non-negative and sum to 1.0.
// The returned error wraps domain.ErrWeightSum when the sum is off.
func NewWeightedChoice(alternatives []Production, weights []float64) (*WeightedChoice, error) {
	if len(alternatives) == 0 {
		return nil, fmt.Errorf("%w: choice needs at least one alternative", domain.ErrInvalidProduction)
	}
	if len(alternatives) != len(weights) {
		return nil, fmt.Errorf("%w: %d alternatives but %d weights", domain.ErrInvalidProduction, len(alternatives), len(weights))
	}

	var sum float64
	for _, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: weight %g is not a finite non-negative number", domain.ErrInvalidProduction, w)
		}
		sum += w
	}
	if math.Abs(sum-1) > WeightTolerance {
		return nil, &domain.WeightSumError{Sum: sum}
	}

	return &WeightedChoice{Alternatives: alternatives, Weights: weights}, nil
}

func (c *WeightedChoice) Evaluate(s Scope) (string, error) {
	return c.Alternatives[Select(s.Float64(), c.Weights)].Evaluate(s)
}
