package observer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArray(t *testing.T) {
	watchLen := func(rt *Runtime, a *Array) *int {
		runs := 0
		rt.Watch(func() (any, error) {
			runs++
			return a.Len(), nil
		}, nil, WatcherOptions{})
		return &runs
	}

	t.Run("mutators notify readers", func(t *testing.T) {
		rt := testRuntime(t)
		a := NewArray(1, 2, 3)
		rt.Observe(a, nil)
		runs := watchLen(rt, a)

		assert.Equal(t, 4, a.Push(4))
		assert.Equal(t, 4, a.Pop())
		assert.Equal(t, 1, a.Shift())
		assert.Equal(t, 3, a.Unshift(0))
		assert.Equal(t, 5, *runs)
		assert.Equal(t, []any{0, 2, 3}, a.Items())
	})

	t.Run("inserted elements are observed", func(t *testing.T) {
		rt := testRuntime(t)
		a := NewArray()
		rt.Observe(a, nil)
		pushed := NewObject()
		unshifted := NewObject()
		spliced := NewObject()
		a.Push(pushed)
		a.Unshift(unshifted)
		a.Splice(1, 0, spliced)
		assert.NotNil(t, pushed.Observer())
		assert.NotNil(t, unshifted.Observer())
		assert.NotNil(t, spliced.Observer())
	})

	t.Run("splice", func(t *testing.T) {
		a := NewArray(1, 2, 3, 4, 5)
		assert.Equal(t, []any{2, 3}, a.Splice(1, 2, "x"))
		assert.Equal(t, []any{1, "x", 4, 5}, a.Items())

		assert.Equal(t, []any{4}, a.Splice(-2, 1))
		assert.Equal(t, []any{1, "x", 5}, a.Items())

		assert.Equal(t, []any{}, a.Splice(10, 3, "y"))
		assert.Equal(t, []any{1, "x", 5, "y"}, a.Items())

		assert.Equal(t, []any{1, "x", 5, "y"}, a.Splice(-100, 100))
		assert.Equal(t, 0, a.Len())
	})

	t.Run("sort and reverse", func(t *testing.T) {
		rt := testRuntime(t)
		a := NewArray(3, 1, 2)
		rt.Observe(a, nil)
		runs := watchLen(rt, a)

		a.Sort(func(x, y any) bool { return x.(int) < y.(int) })
		assert.Equal(t, []any{1, 2, 3}, a.Items())
		a.Reverse()
		assert.Equal(t, []any{3, 2, 1}, a.Items())
		assert.Equal(t, 3, *runs)
	})

	t.Run("set at and remove", func(t *testing.T) {
		a := NewArray("a")
		a.SetAt(2, "c")
		assert.Equal(t, []any{"a", nil, "c"}, a.Items())
		a.SetAt(0, "z")
		assert.Equal(t, "z", a.At(0))
		a.SetAt(-1, "ignored")
		assert.Equal(t, 3, a.Len())

		assert.Equal(t, "c", a.Remove("c"))
		assert.Nil(t, a.Remove("missing"))
		assert.Equal(t, []any{"z", nil}, a.Items())
	})

	t.Run("empty pop and shift", func(t *testing.T) {
		a := NewArray()
		assert.Nil(t, a.Pop())
		assert.Nil(t, a.Shift())
		assert.Nil(t, a.At(3))
	})

	t.Run("readers of a property holding an array see element changes", func(t *testing.T) {
		rt := testRuntime(t)
		s := observed(rt, map[string]any{
			"rows": []any{map[string]any{"id": 1}},
		})
		runs := 0
		rt.Watch(func() (any, error) {
			runs++
			return s.Get("rows"), nil
		}, nil, WatcherOptions{})

		row := s.Get("rows").(*Array).At(0).(*Object)
		rt.Set(row, "name", "first")
		assert.Equal(t, 2, runs)
	})

	t.Run("array from converts nested values", func(t *testing.T) {
		a := ArrayFrom([]any{map[string]any{"a": 1}, []any{1}})
		assert.IsType(t, &Object{}, a.At(0))
		assert.IsType(t, &Array{}, a.At(1))
	})
}
