// Package mapper executes resolved mapping plans against live object graphs.
//
// A Mapper is built once from a rules.Set: every rule reachable from the set is
// resolved up front and configuration problems are reported together as a
// *ConfigError. Mapping calls then walk the source graph:
//
//   - abstraction pairs dispatch on the runtime type of the source;
//   - under PreserveReferences a source pointer maps to a single destination
//     instance, registered before its fields are populated, so cycles terminate;
//   - every mapped node increments the call chain depth, bounded by the context
//     max depth;
//   - pre-hooks, field assignments and post-hooks run in plan order.
//
// An ExclusiveContext serves one call chain. A ConcurrentContext may be shared by
// many goroutines: its reference cache and side channel are synchronized and
// every Map call starts a Chain of its own for depth accounting. Hooks and custom
// functions receive the Chain, which is a Context, so they can call Map again
// within the same chain.
//
// A failed mapping leaves no trace in the reference cache: the instances
// registered while it ran are dropped together with the failing one.
package mapper
