package node_test

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"struct-mapper/node"
)

type moreThanError interface {
	error
	More()
}

type depther interface{ Depth() int }

type fakeCtx struct{ depth int }

func (f fakeCtx) Depth() int { return f.depth }

var ctxType = reflect.TypeFor[fakeCtx]()

func empty()                          { panic("not implemented") }
func wrong(int) (string, error, bool) { panic("not implemented") }

func full(int) (string, bool, error)          { panic("not implemented") }
func customError(int) (string, moreThanError) { panic("not implemented") }
func withCtx(int, depther) string             { panic("not implemented") }
func withBadCtx(int, fmt.Stringer) string     { panic("not implemented") }

func ExampleCaster() {
	desc, err := node.ParseCaster(full, ctxType)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = node.ParseCaster(strconv.Itoa, ctxType)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = node.ParseCaster(strconv.Atoi, ctxType)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = node.ParseCaster(customError, ctxType)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = node.ParseCaster(withCtx, ctxType)
	fmt.Println(err, desc, desc.HasCtx)

	_, err = node.ParseCaster(withBadCtx, ctxType)
	fmt.Println(err)

	_, err = node.ParseCaster(empty, ctxType)
	fmt.Println(err)

	_, err = node.ParseCaster(wrong, ctxType)
	fmt.Println(err)

	// Output:
	// <nil> node_test full int string true true
	// <nil> strconv Itoa int string false false
	// <nil> strconv Atoi string int false true
	// <nil> node_test customError int string false true
	// <nil> node_test.withCtx true
	// provided function is not a recognizable caster
	// provided function is not a recognizable caster
	// provided function is not a recognizable caster
}

func TestCaster_Call(t *testing.T) {
	t.Parallel()

	t.Run("context is passed", func(t *testing.T) {
		c, err := node.ParseCaster(func(v int, ctx depther) string {
			return strconv.Itoa(v + ctx.Depth())
		}, ctxType)
		require.NoError(t, err)

		dst, ok, err := c.Call(reflect.ValueOf(40), fakeCtx{depth: 2})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "42", dst.Interface())
	})

	t.Run("bool result skips", func(t *testing.T) {
		c, err := node.ParseCaster(func(v int) (string, bool) { return "", v > 0 }, ctxType)
		require.NoError(t, err)

		_, ok, err := c.Call(reflect.ValueOf(0), nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("error result", func(t *testing.T) {
		boom := errors.New("boom")
		c, err := node.ParseCaster(func(int) (string, error) { return "", boom }, ctxType)
		require.NoError(t, err)

		_, _, err = c.Call(reflect.ValueOf(1), nil)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("not a function", func(t *testing.T) {
		_, err := node.ParseCaster(42, ctxType)
		assert.ErrorIs(t, err, node.ErrCasterIsNotAFunction)

		_, err = node.ParseCaster(func(**int) int { return 0 }, ctxType)
		assert.ErrorIs(t, err, node.ErrDoublePointer)
	})
}
