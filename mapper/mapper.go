package mapper

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"golang.org/x/sync/errgroup"

	"struct-mapper/internal/diagnostic"
	"struct-mapper/internal/plan"
	"struct-mapper/node"
	"struct-mapper/rules"
)

// Mapper executes the resolved plans of a rule set. It is immutable after New
// and safe for concurrent use.
type Mapper struct {
	set      *rules.Set
	catalog  *plan.Catalog
	diags    diagnostic.Diagnostics
	labels   map[*plan.Plan]string
	logger   *slog.Logger
	metrics  *Metrics
	maxDepth int
}

// Option configures a Mapper.
type Option func(m *Mapper)

// WithLogger sets the logger, slog.Default() otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mapper) {
		m.logger = logger
	}
}

// WithMetrics records mapping calls in metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Mapper) {
		m.metrics = metrics
	}
}

// WithDefaultMaxDepth is the depth limit of the contexts created for calls without one.
func WithDefaultMaxDepth(n int) Option {
	return func(m *Mapper) {
		m.maxDepth = n
	}
}

// New resolves every rule reachable from set. All configuration errors are
// reported together as a *ConfigError, warnings are logged.
func New(set *rules.Set, opts ...Option) (*Mapper, error) {
	m := &Mapper{set: set, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}

	catalog, diags := plan.NewResolver(set, plan.DefaultConfig()).Resolve()
	if diags.HasErrors() {
		return nil, &ConfigError{Diagnostics: diags}
	}

	for d := range diags.All() {
		level := slog.LevelDebug
		if d.Severity == diagnostic.DiagnosticWarning {
			level = slog.LevelWarn
		}

		m.logger.Log(context.Background(), level, d.Message,
			"code", d.Code,
			"pair", d.TypePair,
			"field", d.FieldPath,
			"suggestions", d.Suggestions)
	}

	m.labels = make(map[*plan.Plan]string, len(catalog.Plans()))
	for _, p := range catalog.Plans() {
		m.labels[p] = p.Pair.String()
		m.logger.Debug("plan resolved",
			"pair", m.labels[p],
			"fields", len(p.Fields),
			"unmapped", len(p.Unmapped),
			"abstract", p.Abstract())
	}

	m.catalog, m.diags = catalog, diags

	return m, nil
}

// Set returns the rule set of the mapper.
func (m *Mapper) Set() *rules.Set { return m.set }

// Diagnostics returns the warnings and infos of resolution.
func (m *Mapper) Diagnostics() diagnostic.Diagnostics { return m.diags }

// Plans describes the resolved plans in resolution order.
func (m *Mapper) Plans() []plan.Description { return m.catalog.Describe() }

// NewContext creates an ExclusiveContext limited by the default max depth of m.
func (m *Mapper) NewContext(opts ...ContextOption) *ExclusiveContext {
	return NewContext(append([]ContextOption{WithMaxDepth(m.maxDepth)}, opts...)...)
}

// Map maps src into a new D. S and D are the declared types or pointers to them,
// abstractions are dispatched on the runtime type of src.
// A nil c maps with a fresh ExclusiveContext.
func Map[S, D any](m *Mapper, src S, c Context) (D, error) {
	var zero D

	out, err := m.mapValue(reflect.ValueOf(&src).Elem(), reflect.TypeFor[D](), c)
	if err != nil {
		return zero, err
	}

	d, ok := out.Interface().(D)
	if !ok && !(out.Kind() == reflect.Interface && out.IsNil()) {
		pair := rules.TypePair{Source: node.Base(reflect.TypeFor[S]()), Destination: node.Base(reflect.TypeFor[D]())}
		return zero, &MappingError{Pair: pair, Err: fmt.Errorf("%w: produced %s", ErrUnmappedPair, out.Type())}
	}

	return d, nil
}

// MapAny maps src, typed by its dynamic type, into a new value of type dst.
func (m *Mapper) MapAny(src any, dst reflect.Type, c Context) (any, error) {
	if src == nil {
		return reflect.Zero(dst).Interface(), nil
	}

	out, err := m.mapValue(reflect.ValueOf(src), dst, c)
	if err != nil {
		return nil, err
	}

	return out.Interface(), nil
}

// MapAll maps independent roots in parallel over one shared ConcurrentContext,
// at most limit at a time when limit is positive. The first fault cancels the
// items not started yet.
func MapAll[S, D any](ctx context.Context, m *Mapper, srcs []S, c *ConcurrentContext, limit int) ([]D, error) {
	if c == nil {
		c = NewConcurrentContext(WithMaxDepth(m.maxDepth))
	}

	res := make([]D, len(srcs))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, src := range srcs {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			d, err := Map[S, D](m, src, c)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}

			res[i] = d

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return res, nil
}

func (m *Mapper) mapValue(src reflect.Value, dst reflect.Type, c Context) (reflect.Value, error) {
	rule, err := m.root(src, dst)
	if err != nil {
		return reflect.Value{}, err
	}

	if c == nil {
		c = m.NewContext()
	}

	label := rule.Pair.String()
	start := time.Now()

	e := &executor{m: m, s: c.session()}
	out, ok, err := e.nested(rule, src, dst, "")

	m.metrics.recordCall(label, time.Since(start), err)

	if err != nil {
		m.logger.Debug("mapping failed", "pair", label, "error", err)
		return reflect.Value{}, err
	}

	if !ok {
		return reflect.Zero(dst), nil
	}

	return out, nil
}

// root finds the rule for the call types. A concrete source mapped into an
// abstraction uses the abstraction rule that can dispatch it.
func (m *Mapper) root(src reflect.Value, dst reflect.Type) (*rules.Rule, error) {
	pair := rules.TypePair{Source: node.Base(src.Type()), Destination: node.Base(dst)}

	if rule, ok := m.set.Lookup(pair); ok {
		return rule, nil
	}

	if pair.Destination.Kind() == reflect.Interface {
		for _, p := range m.catalog.Plans() {
			if p.Abstract() && p.Pair.Destination == pair.Destination && src.Type().Implements(p.Pair.Source) {
				return p.Rule, nil
			}
		}
	}

	return nil, &MappingError{Pair: pair, Err: ErrUnmappedPair}
}
