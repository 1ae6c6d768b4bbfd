package mapper

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"struct-mapper/rules"
)

// Context is a mapping session handed to Map: an ExclusiveContext or a ConcurrentContext.
type Context interface {
	rules.Context

	// References is the number of reference cache hits.
	References() int
	// Maps is the number of mapped nodes.
	Maps() int

	session() Session
}

// Session is the state of one call chain: its depth plus the shared reference cache.
// Hooks, custom functions and factories receive the Session as their rules.Context.
type Session interface {
	rules.Context

	IncrementDepth() error
	DecrementDepth()
	GetOrCreate(key RefKey, create func() reflect.Value, populate func(dst reflect.Value) error) (reflect.Value, error)
}

// RefKey identifies a destination instance by source reference identity and destination type.
type RefKey struct {
	// Source is the source pointer, compared by identity.
	Source      any
	Destination reflect.Type
}

type contextConfig struct {
	maxDepth int
	seed     map[string]any
	values   rules.Values
}

// ContextOption configures a context.
type ContextOption func(c *contextConfig)

// WithMaxDepth limits the number of nested mappings of one call chain, zero means unlimited.
func WithMaxDepth(n int) ContextOption {
	return func(c *contextConfig) {
		c.maxDepth = n
	}
}

// WithValues seeds the side channel.
func WithValues(values map[string]any) ContextOption {
	return func(c *contextConfig) {
		c.seed = values
	}
}

// WithSharedValues makes the context use values as its side channel, so several
// contexts can share one bag.
func WithSharedValues(values *ConcurrentValues) ContextOption {
	return func(c *contextConfig) {
		c.values = values
	}
}

func newConfig(opts []ContextOption) contextConfig {
	var cfg contextConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func checkDepth(depth, maxDepth int) error {
	if maxDepth > 0 && depth >= maxDepth {
		return fmt.Errorf("%w: depth %d reached the limit of %d", ErrDepthExceeded, depth, maxDepth)
	}

	return nil
}

// ExclusiveContext is a session for a single call chain, it must not be shared
// between goroutines.
type ExclusiveContext struct {
	depth, maxDepth int
	refs            map[RefKey]reflect.Value
	values          rules.Values

	// registered lists the keys added under the populates in progress.
	registered []RefKey

	references, maps int
}

// NewContext creates an ExclusiveContext.
func NewContext(opts ...ContextOption) *ExclusiveContext {
	cfg := newConfig(opts)

	values := cfg.values
	if values == nil {
		values = make(mapValues, len(cfg.seed))
	}

	for k, v := range cfg.seed {
		values.Store(k, v)
	}

	return &ExclusiveContext{
		maxDepth: cfg.maxDepth,
		refs:     make(map[RefKey]reflect.Value),
		values:   values,
	}
}

func (c *ExclusiveContext) Depth() int           { return c.depth }
func (c *ExclusiveContext) MaxDepth() int        { return c.maxDepth }
func (c *ExclusiveContext) Values() rules.Values { return c.values }
func (c *ExclusiveContext) References() int      { return c.references }
func (c *ExclusiveContext) Maps() int            { return c.maps }
func (c *ExclusiveContext) session() Session     { return c }

// IncrementDepth opens a nested mapping, ErrDepthExceeded when the limit is reached.
func (c *ExclusiveContext) IncrementDepth() error {
	if err := checkDepth(c.depth, c.maxDepth); err != nil {
		return err
	}

	c.depth++
	c.maps++

	return nil
}

// DecrementDepth closes a nested mapping. Unbalanced calls panic.
func (c *ExclusiveContext) DecrementDepth() {
	if c.depth == 0 {
		panic("mapper: depth decremented below zero")
	}

	c.depth--
}

// GetOrCreate returns the destination registered for key, or allocates one with
// create, registers it and then populates it. A failed populate unregisters it
// together with every instance registered while it ran.
func (c *ExclusiveContext) GetOrCreate(
	key RefKey, create func() reflect.Value, populate func(dst reflect.Value) error,
) (reflect.Value, error) {
	if dst, ok := c.refs[key]; ok {
		c.references++
		return dst, nil
	}

	dst := create()
	c.refs[key] = dst

	mark := len(c.registered)
	c.registered = append(c.registered, key)

	if err := populate(dst); err != nil {
		for _, k := range c.registered[mark:] {
			delete(c.refs, k)
		}
		c.registered = c.registered[:mark]

		return reflect.Value{}, err
	}

	if mark == 0 {
		c.registered = c.registered[:0]
	}

	return dst, nil
}

// ConcurrentContext is a session shared by many call chains. The reference cache
// and the side channel are synchronized, the depth is tracked per chain.
type ConcurrentContext struct {
	maxDepth int
	refs     sync.Map
	values   rules.Values

	references, maps atomic.Int64
}

// NewConcurrentContext creates a ConcurrentContext.
func NewConcurrentContext(opts ...ContextOption) *ConcurrentContext {
	cfg := newConfig(opts)

	values := cfg.values
	if values == nil {
		values = NewConcurrentValues()
	}

	for k, v := range cfg.seed {
		values.Store(k, v)
	}

	return &ConcurrentContext{maxDepth: cfg.maxDepth, values: values}
}

// Depth is always zero, depth belongs to the chains started with Chain.
func (c *ConcurrentContext) Depth() int           { return 0 }
func (c *ConcurrentContext) MaxDepth() int        { return c.maxDepth }
func (c *ConcurrentContext) Values() rules.Values { return c.values }
func (c *ConcurrentContext) References() int      { return int(c.references.Load()) }
func (c *ConcurrentContext) Maps() int            { return int(c.maps.Load()) }
func (c *ConcurrentContext) session() Session     { return c.Chain() }

// Chain starts a call chain with its own depth over the shared state.
func (c *ConcurrentContext) Chain() *Chain {
	return &Chain{shared: c}
}

// GetOrCreate runs GetOrCreate on a fresh chain.
func (c *ConcurrentContext) GetOrCreate(
	key RefKey, create func() reflect.Value, populate func(dst reflect.Value) error,
) (reflect.Value, error) {
	return c.Chain().GetOrCreate(key, create, populate)
}

// Chain is one call chain of a ConcurrentContext. It is not safe for concurrent use.
// A Chain is itself a Context, so hooks and custom functions can map further
// values within their own chain.
type Chain struct {
	shared *ConcurrentContext
	depth  int

	// registered are the entries this chain added under the populates in progress.
	registered []registration
}

type registration struct {
	key RefKey
	dst reflect.Value
}

func (c *Chain) Depth() int           { return c.depth }
func (c *Chain) MaxDepth() int        { return c.shared.maxDepth }
func (c *Chain) Values() rules.Values { return c.shared.values }
func (c *Chain) References() int      { return c.shared.References() }
func (c *Chain) Maps() int            { return c.shared.Maps() }
func (c *Chain) session() Session     { return c }

func (c *Chain) IncrementDepth() error {
	if err := checkDepth(c.depth, c.shared.maxDepth); err != nil {
		return err
	}

	c.depth++
	c.shared.maps.Add(1)

	return nil
}

func (c *Chain) DecrementDepth() {
	if c.depth == 0 {
		panic("mapper: depth decremented below zero")
	}

	c.depth--
}

// GetOrCreate is ExclusiveContext.GetOrCreate over the shared cache. When two chains
// race on one key the loser gets the winner's instance, possibly still being populated.
func (c *Chain) GetOrCreate(
	key RefKey, create func() reflect.Value, populate func(dst reflect.Value) error,
) (reflect.Value, error) {
	refs := &c.shared.refs

	if dst, ok := refs.Load(key); ok {
		c.shared.references.Add(1)
		return dst.(reflect.Value), nil
	}

	fresh := create()
	if dst, loaded := refs.LoadOrStore(key, fresh); loaded {
		c.shared.references.Add(1)
		return dst.(reflect.Value), nil
	}

	mark := len(c.registered)
	c.registered = append(c.registered, registration{key: key, dst: fresh})

	if err := populate(fresh); err != nil {
		for _, r := range c.registered[mark:] {
			refs.CompareAndDelete(r.key, r.dst)
		}
		c.registered = c.registered[:mark]

		return reflect.Value{}, err
	}

	if mark == 0 {
		c.registered = c.registered[:0]
	}

	return fresh, nil
}

type mapValues map[string]any

func (m mapValues) Load(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapValues) Store(key string, value any) { m[key] = value }

func (m mapValues) LoadOrStore(key string, value any) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}

	m[key] = value

	return value, false
}

func (m mapValues) LoadAndDelete(key string) (any, bool) {
	v, ok := m[key]
	delete(m, key)

	return v, ok
}

func (m mapValues) Delete(key string) { delete(m, key) }

func (m mapValues) Range(fn func(key string, value any) bool) {
	for k, v := range m {
		if !fn(k, v) {
			return
		}
	}
}

func (m mapValues) Len() int { return len(m) }

// ConcurrentValues is a side channel safe for concurrent use.
type ConcurrentValues struct {
	m   sync.Map
	len atomic.Int64
}

func NewConcurrentValues() *ConcurrentValues {
	return &ConcurrentValues{}
}

func (v *ConcurrentValues) Load(key string) (any, bool) {
	return v.m.Load(key)
}

func (v *ConcurrentValues) Store(key string, value any) {
	if _, loaded := v.m.Swap(key, value); !loaded {
		v.len.Add(1)
	}
}

func (v *ConcurrentValues) LoadOrStore(key string, value any) (any, bool) {
	actual, loaded := v.m.LoadOrStore(key, value)
	if !loaded {
		v.len.Add(1)
	}

	return actual, loaded
}

func (v *ConcurrentValues) LoadAndDelete(key string) (any, bool) {
	value, loaded := v.m.LoadAndDelete(key)
	if loaded {
		v.len.Add(-1)
	}

	return value, loaded
}

func (v *ConcurrentValues) Delete(key string) {
	v.LoadAndDelete(key)
}

func (v *ConcurrentValues) Range(fn func(key string, value any) bool) {
	v.m.Range(func(k, value any) bool {
		return fn(k.(string), value)
	})
}

func (v *ConcurrentValues) Len() int {
	return int(v.len.Load())
}
