package observability

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/tendril/pkg/domain"
)

// Collector records generation counts, failures and latency per grammar and start rule.
type Collector struct {
	generations *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	length      *prometheus.HistogramVec
}

// NewCollector creates the metric vectors and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tendril_generations_total",
				Help: "Total number of successful generations",
			},
			[]string{"grammar", "symbol"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tendril_generation_errors_total",
				Help: "Total number of failed generations by error kind",
			},
			[]string{"grammar", "symbol", "kind"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tendril_generation_duration_seconds",
				Help:    "Duration of generations",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"grammar"},
		),
		length: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tendril_generation_length_bytes",
				Help:    "Length of generated text",
				Buckets: prometheus.ExponentialBuckets(8, 2, 10),
			},
			[]string{"grammar"},
		),
	}

	for _, col := range []prometheus.Collector{c.generations, c.failures, c.duration, c.length} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// UnknownSymbol labels generations whose start is not a compiled rule.
// Start symbols can come from clients, so they are only used as labels when
// the grammar defines them.
const UnknownSymbol = "_unknown"

// Hooks returns lifecycle hooks labelled with the grammar name.
func (c *Collector) Hooks(grammar string) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGenerate: func(e *domain.GenerateEvent) {
			c.generations.WithLabelValues(grammar, symbolLabel(e)).Inc()
			c.duration.WithLabelValues(grammar).Observe(e.Duration.Seconds())
			c.length.WithLabelValues(grammar).Observe(float64(e.Length))
		},
		OnError: func(e *domain.GenerateEvent) {
			c.failures.WithLabelValues(grammar, symbolLabel(e), ErrorKind(e.Err)).Inc()
		},
	}
}

func symbolLabel(e *domain.GenerateEvent) string {
	if !e.Defined {
		return UnknownSymbol
	}
	return string(e.Symbol)
}

// ErrorKind maps an error to a low-cardinality label.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, domain.ErrMissingRule):
		return "missing_rule"
	case errors.Is(err, domain.ErrDuplicateRule):
		return "duplicate_rule"
	case errors.Is(err, domain.ErrUnknownTransform):
		return "unknown_transform"
	case errors.Is(err, domain.ErrWeightSum):
		return "weight_sum"
	case errors.Is(err, domain.ErrTemplateSyntax), errors.Is(err, domain.ErrInvalidProduction):
		return "invalid_production"
	default:
		return "other"
	}
}
