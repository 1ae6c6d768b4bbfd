package node_test

import (
	"iter"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"struct-mapper/node"
)

type shape interface{ Area() float64 }

type box struct{ W, H float64 }

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		t    reflect.Type
		want node.DispatcherEnum
	}{
		{"int", reflect.TypeFor[int](), node.DispatcherPrimitive},
		{"time", reflect.TypeFor[time.Time](), node.DispatcherPrimitive},
		{"interface", reflect.TypeFor[shape](), node.DispatcherInterface},
		{"slice", reflect.TypeFor[[]box](), node.DispatcherSlice},
		{"array", reflect.TypeFor[[3]box](), node.DispatcherSlice},
		{"seq", reflect.TypeFor[iter.Seq[box]](), node.DispatcherSlice},
		{"map", reflect.TypeFor[map[string]box](), node.DispatcherMap},
		{"struct", reflect.TypeFor[box](), node.DispatcherStruct},
		{"bytes", reflect.TypeFor[[]byte](), node.DispatcherUnknown},
		{"chan", reflect.TypeFor[chan int](), node.DispatcherUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, node.Classify(tt.t))
		})
	}

	assert.Equal(t, "DispatcherStruct", node.DispatcherStruct.String())
	assert.Equal(t, node.DispatcherUnknown, node.Dispatch(reflect.TypeFor[box](), reflect.TypeFor[[]box]()))
	assert.Equal(t, node.DispatcherInterface, node.Dispatch(reflect.TypeFor[box](), reflect.TypeFor[shape]()))
	assert.Panics(t, func() { node.Classify(reflect.TypeFor[*box]()) })
}

func TestSequence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		t     reflect.Type
		elem  reflect.Type
		shape node.SequenceEnum
	}{
		{"slice", reflect.TypeFor[[]*box](), reflect.TypeFor[*box](), node.SequenceSlice},
		{"array", reflect.TypeFor[[2]box](), reflect.TypeFor[box](), node.SequenceArray},
		{"seq", reflect.TypeFor[iter.Seq[box]](), reflect.TypeFor[box](), node.SequenceSeq},
		{"seq2 error", reflect.TypeFor[iter.Seq2[box, error]](), reflect.TypeFor[box](), node.SequenceSeqErr},
		{"seq2 other", reflect.TypeFor[iter.Seq2[box, int]](), nil, node.SequenceNone},
		{"func", reflect.TypeFor[func(int) bool](), nil, node.SequenceNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elem, got := node.Sequence(tt.t)
			assert.Equal(t, tt.shape, got)
			assert.Equal(t, tt.elem, elem)
		})
	}
}

func TestPtrDepthAndBase(t *testing.T) {
	t.Parallel()

	depth, base := node.PtrDepthAndBase(reflect.TypeFor[**box]())
	assert.Equal(t, 2, depth)
	assert.Equal(t, reflect.TypeFor[box](), base)
	assert.Equal(t, reflect.TypeFor[box](), node.Base(reflect.TypeFor[*box]()))
	assert.Equal(t, "struct-mapper/node_test.box", node.TypeName(reflect.TypeFor[box]()))
	assert.Equal(t, "[]*struct-mapper/node_test.box", node.TypeName(reflect.TypeFor[[]*box]()))
}
