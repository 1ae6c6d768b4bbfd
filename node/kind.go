package node

//go:generate go tool stringer -type=DispatcherEnum -output=kind_string.go

// DispatcherEnum classifies a base type by the way values of it are mapped.
type DispatcherEnum int

const (
	DispatcherUnknown   DispatcherEnum = iota
	DispatcherPrimitive                // scalars handled by the primitive package
	DispatcherInterface                // abstractions resolved at runtime
	DispatcherSlice                    // slices, arrays and lazy sequences
	DispatcherMap
	DispatcherStruct

	// DispatcherTotal is a constant that represents the total number of kinds defined
	DispatcherTotal = int(iota)
)
