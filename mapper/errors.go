package mapper

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"struct-mapper/internal/collection"
	"struct-mapper/internal/diagnostic"
	"struct-mapper/internal/dispatch"
	"struct-mapper/primitive"
	"struct-mapper/rules"
)

var (
	ErrConfiguration = errors.New("invalid mapping configuration")
	ErrDepthExceeded = errors.New("maximum mapping depth exceeded")
	ErrUnmappedPair  = errors.New("no rule is declared for the type pair")

	ErrEnumMissingField         = primitive.ErrEnumMissingField
	ErrUnhandledPolymorphicType = dispatch.ErrUnhandledPolymorphicType
	ErrConversion               = primitive.ErrConversion
	ErrNilSource                = primitive.ErrNilSource
	ErrOverflow                 = collection.ErrOverflow
)

// ConfigError lists every configuration problem found while building a Mapper.
type ConfigError struct {
	Diagnostics diagnostic.Diagnostics
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %d error(s): %v", ErrConfiguration, len(e.Diagnostics.Errors), e.Diagnostics.Error())
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// MappingError is a runtime fault of one mapping call.
type MappingError struct {
	Pair rules.TypePair
	// Field is the destination field being assigned, empty for faults of the node itself.
	Field string
	// Path locates the failing node from the root: "Lines[2].Product".
	Path string
	// RuntimeType is the dynamic source type for dispatch faults.
	RuntimeType reflect.Type
	Err         error
}

func (e *MappingError) Error() string {
	var sb strings.Builder

	sb.WriteString("map ")
	sb.WriteString(e.Pair.String())

	if e.Path != "" {
		sb.WriteString(" at ")
		sb.WriteString(e.Path)
	}

	if e.RuntimeType != nil {
		sb.WriteString(" (runtime type ")
		sb.WriteString(e.RuntimeType.String())
		sb.WriteString(")")
	}

	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())

	return sb.String()
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// fault wraps err unless it already is a MappingError raised deeper in the graph.
func fault(pair rules.TypePair, field, path string, err error) error {
	var me *MappingError
	if errors.As(err, &me) {
		return err
	}

	return &MappingError{Pair: pair, Field: field, Path: path, Err: err}
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}

	return path + "." + field
}
