package tendril

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/dsl"
	"github.com/aretw0/tendril/pkg/modifier"
	"github.com/aretw0/tendril/pkg/registry"
)

// Version is the current release of the Tendril library and CLI.
const Version = "0.4.0"

// Grammar is the high-level entry point for the Tendril library.
// It owns a compiled Registry and the random source used for every generation.
type Grammar struct {
	registry *registry.Registry
	modifier domain.Modifier
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	start    domain.Symbol
	seed     *int64

	mu  sync.Mutex
	rng *rand.Rand

	Name string
}

// Option defines a functional option for configuring the Grammar.
type Option func(*Grammar)

// WithSeed makes every draw reproducible.
// The random source is a PCG generator seeded with (seed, seed).
func WithSeed(seed int64) Option {
	return func(g *Grammar) {
		g.seed = &seed
	}
}

// WithModifier replaces the built-in transform provider.
func WithModifier(m domain.Modifier) Option {
	return func(g *Grammar) {
		g.modifier = m
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(g *Grammar) {
		g.hooks = g.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Grammar) {
		g.logger = logger
	}
}

// WithStart configures the rule expanded by Generate (default: "start").
func WithStart(name domain.Symbol) Option {
	return func(g *Grammar) {
		g.start = name
	}
}

// WithName labels the grammar in logs and metrics.
func WithName(name string) Option {
	return func(g *Grammar) {
		g.Name = name
	}
}

// New compiles the declarations of b into a Grammar.
func New(b *dsl.Builder, opts ...Option) (*Grammar, error) {
	g := newGrammar(opts)

	reg, err := b.Build(
		registry.WithModifier(g.modifier),
		registry.WithLogger(g.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile grammar: %w", err)
	}
	g.registry = reg
	return g, nil
}

// FromRegistry wraps an already compiled Registry.
// The registry keeps whatever modifier it was built with.
func FromRegistry(reg *registry.Registry, opts ...Option) *Grammar {
	g := newGrammar(opts)
	g.registry = reg
	return g
}

func newGrammar(opts []Option) *Grammar {
	g := &Grammar{start: domain.StartSymbol}
	for _, opt := range opts {
		opt(g)
	}

	if g.modifier == nil {
		g.modifier = modifier.Default()
	}
	if g.logger == nil {
		g.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if g.Name != "" {
		g.logger = g.logger.With("grammar", g.Name)
	}

	if g.seed != nil {
		g.rng = seeded(*g.seed)
	} else {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g
}

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// Reseed resets the random source as if the Grammar was built WithSeed(seed).
func (g *Grammar) Reseed(seed int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seed = &seed
	g.rng = seeded(seed)
}

// Fork returns a Grammar over the same rules, hooks and logger with its own
// random source seeded with seed. The receiver's random stream is untouched.
func (g *Grammar) Fork(seed int64) *Grammar {
	return &Grammar{
		registry: g.registry,
		modifier: g.modifier,
		hooks:    g.hooks,
		logger:   g.logger,
		start:    g.start,
		seed:     &seed,
		rng:      seeded(seed),
		Name:     g.Name,
	}
}

// Start is the rule expanded by Generate.
func (g *Grammar) Start() domain.Symbol {
	return g.start
}

// Registry exposes the compiled rules.
func (g *Grammar) Registry() *registry.Registry {
	return g.registry
}

// Generate expands the start rule.
// Overrides declare ad-hoc rules for this call only.
func (g *Grammar) Generate(overrides ...map[string]any) (string, error) {
	res, err := g.Expand(g.start, overrides...)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// GenerateFrom expands the named rule instead of the start rule.
func (g *Grammar) GenerateFrom(start domain.Symbol, overrides ...map[string]any) (string, error) {
	res, err := g.Expand(start, overrides...)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Expand evaluates start and returns it paired with its expansion.
// Calls are serialized on the random source, so a Grammar may be shared
// between goroutines while staying deterministic per seed.
func (g *Grammar) Expand(start domain.Symbol, overrides ...map[string]any) (domain.Result, error) {
	merged := mergeOverrides(overrides)

	g.mu.Lock()
	began := time.Now()
	res, err := g.registry.Evaluate(g.rng, start, merged)
	elapsed := time.Since(began)
	g.mu.Unlock()

	_, defined := g.registry.Lookup(start)

	event := &domain.GenerateEvent{
		EventBase: domain.EventBase{Timestamp: began, Type: domain.EventGenerate},
		Symbol:    start,
		Defined:   defined,
		Overrides: len(merged),
		Length:    len(res.Text),
		Duration:  elapsed,
	}

	if err != nil {
		event.Type = domain.EventGenerateError
		event.Err = err
		g.logger.Warn("generation failed", "start", start, "error", err)
		if g.hooks.OnError != nil {
			g.hooks.OnError(event)
		}
		return domain.Result{}, err
	}

	g.logger.Debug("generated", "start", start, "length", event.Length, "duration", elapsed)
	if g.hooks.OnGenerate != nil {
		g.hooks.OnGenerate(event)
	}
	return res, nil
}

func mergeOverrides(overrides []map[string]any) map[string]any {
	switch len(overrides) {
	case 0:
		return nil
	case 1:
		return overrides[0]
	}
	merged := make(map[string]any)
	for _, o := range overrides {
		for k, v := range o {
			merged[k] = v
		}
	}
	return merged
}
