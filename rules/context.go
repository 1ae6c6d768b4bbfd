package rules

// Context is the view of a mapping session available to hooks, custom field
// functions, factories and projections.
type Context interface {
	// Depth is the number of currently open nested mappings of the call chain.
	Depth() int
	// MaxDepth is the configured limit, zero means unlimited.
	MaxDepth() int
	// Values is the side channel shared by all hooks of the session.
	Values() Values
}

// Values is a string keyed bag for hook communication.
type Values interface {
	Load(key string) (value any, ok bool)
	Store(key string, value any)
	LoadOrStore(key string, value any) (actual any, loaded bool)
	LoadAndDelete(key string) (value any, loaded bool)
	Delete(key string)
	Range(fn func(key string, value any) bool)
	Len() int
}
