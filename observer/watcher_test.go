package observer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher(t *testing.T) {
	t.Run("write then read", func(t *testing.T) {
		rt := testRuntime(t)
		s := observed(rt, map[string]any{"a": 1})
		runs := 0
		rt.Watch(func() (any, error) {
			runs++
			return s.Get("a"), nil
		}, nil, WatcherOptions{})
		assert.Equal(t, 1, runs)

		s.Set("a", 1)
		assert.Equal(t, 1, runs, "writing the same value is a no-op")

		s.Set("a", 2)
		assert.Equal(t, 2, runs)
		assert.Equal(t, 2, s.Get("a"))
	})

	/*
	   a ---> w ---> b   (a > 0)
	          \----> c   (a <= 0)
	*/
	t.Run("dependency discovery", func(t *testing.T) {
		rt := testRuntime(t)
		s := observed(rt, map[string]any{"a": 1, "b": "b", "c": "c"})
		var w *Watcher
		w = NewWatcher(rt, nil, func() (any, error) {
			if intOf(s, "a") > 0 {
				return s.Get("b"), nil
			}
			return s.Get("c"), nil
		}, nil, WatcherOptions{})

		assert.Equal(t, []*Watcher{w}, s.Dep("a").Subscribers())
		assert.Equal(t, []*Watcher{w}, s.Dep("b").Subscribers())
		assert.Empty(t, s.Dep("c").Subscribers())
		assert.ElementsMatch(t, []*Dep{s.Dep("a"), s.Dep("b")}, w.Deps())

		s.Set("a", 0)
		assert.Equal(t, "c", w.Value())
		assert.Equal(t, []*Watcher{w}, s.Dep("a").Subscribers())
		assert.Empty(t, s.Dep("b").Subscribers())
		assert.Equal(t, []*Watcher{w}, s.Dep("c").Subscribers())
		assert.ElementsMatch(t, []*Dep{s.Dep("a"), s.Dep("c")}, w.Deps())
	})

	t.Run("repeated reads subscribe once", func(t *testing.T) {
		rt := testRuntime(t)
		s := observed(rt, map[string]any{"a": 1})
		w := NewWatcher(rt, nil, func() (any, error) {
			return intOf(s, "a") + intOf(s, "a") + intOf(s, "a"), nil
		}, nil, WatcherOptions{})
		assert.Len(t, s.Dep("a").Subscribers(), 1)
		assert.Len(t, w.Deps(), 1)
	})

	t.Run("callback receives new and old values", func(t *testing.T) {
		rt := testRuntime(t)
		s := observed(rt, map[string]any{"a": 1})
		type call struct{ value, old any }
		var calls []call
		rt.Watch(func() (any, error) {
			return s.Get("a"), nil
		}, func(value, old any) error {
			calls = append(calls, call{value, old})
			return nil
		}, WatcherOptions{})

		s.Set("a", 2)
		s.Set("a", 3)
		assert.Equal(t, []call{{2, 1}, {3, 2}}, calls)
	})

	t.Run("immediate", func(t *testing.T) {
		rt := testRuntime(t)
		s := observed(rt, map[string]any{"a": 5})
		var got [][2]any
		rt.Watch(func() (any, error) {
			return s.Get("a"), nil
		}, func(value, old any) error {
			got = append(got, [2]any{value, old})
			return nil
		}, WatcherOptions{Immediate: true})
		assert.Equal(t, [][2]any{{5, 5}}, got)
	})

	t.Run("user watchers fire on every re-run", func(t *testing.T) {
		rt := testRuntime(t)
		s := observed(rt, map[string]any{"a": 1})
		parity := func() (any, error) { return intOf(s, "a") % 2, nil }

		userCalls, plainCalls := 0, 0
		rt.Watch(parity, func(any, any) error {
			userCalls++
			return nil
		}, WatcherOptions{User: true})
		rt.Watch(parity, func(any, any) error {
			plainCalls++
			return nil
		}, WatcherOptions{})

		s.Set("a", 3)
		assert.Equal(t, 1, userCalls)
		assert.Equal(t, 0, plainCalls)
	})

	t.Run("object values always fire", func(t *testing.T) {
		rt := testRuntime(t)
		s := observed(rt, map[string]any{"list": []any{1, 2}})
		calls := 0
		rt.Watch(func() (any, error) {
			return s.Get("list"), nil
		}, func(value, old any) error {
			calls++
			assert.Same(t, value, old)
			return nil
		}, WatcherOptions{})

		s.Get("list").(*Array).Push(3)
		assert.Equal(t, 1, calls)
	})

	t.Run("deep", func(t *testing.T) {
		rt := testRuntime(t)
		s := observed(rt, map[string]any{
			"nested": map[string]any{"x": 1, "inner": map[string]any{"y": 1}},
		})
		deepCalls, shallowCalls := 0, 0
		get := func() (any, error) { return s.Get("nested"), nil }
		rt.Watch(get, func(any, any) error {
			deepCalls++
			return nil
		}, WatcherOptions{Deep: true})
		rt.Watch(get, func(any, any) error {
			shallowCalls++
			return nil
		}, WatcherOptions{})

		nested := s.Get("nested").(*Object)
		nested.Set("x", 2)
		nested.Get("inner").(*Object).Set("y", 2)
		assert.Equal(t, 2, deepCalls)
		assert.Equal(t, 0, shallowCalls)
	})

	t.Run("sync runs inside the notification", func(t *testing.T) {
		rt := testRuntime(t)
		s := observed(rt, map[string]any{"a": 1})
		w := NewWatcher(rt, nil, func() (any, error) {
			return s.Get("a"), nil
		}, nil, WatcherOptions{Sync: true})

		rt.Batch(func() {
			s.Set("a", 2)
			assert.Equal(t, 2, w.Value())
		})
	})

	/*
	   c
	   | \
	   |  d = c*10
	   | /
	   w (sync, subscribed to c before d)
	*/
	t.Run("sync sees fresh derived values", func(t *testing.T) {
		rt := testRuntime(t)
		s := observed(rt, map[string]any{"c": 1})
		d := rt.Computed(func() (any, error) {
			return intOf(s, "c") * 10, nil
		})
		var seen []any
		w := NewWatcher(rt, nil, func() (any, error) {
			s.Get("c")
			return d.Read(), nil
		}, func(value, _ any) error {
			seen = append(seen, value)
			return nil
		}, WatcherOptions{Sync: true})
		require.Equal(t, []*Watcher{w, d}, s.Dep("c").Subscribers())

		s.Set("c", 2)
		assert.Equal(t, []any{20}, seen)
		assert.Equal(t, 20, w.Value())
	})

	t.Run("cancel is idempotent", func(t *testing.T) {
		rt := testRuntime(t)
		s := observed(rt, map[string]any{"a": 1})
		runs := 0
		cancel := rt.Watch(func() (any, error) {
			runs++
			return s.Get("a"), nil
		}, nil, WatcherOptions{})

		cancel()
		cancel()
		assert.Empty(t, s.Dep("a").Subscribers())
		s.Set("a", 2)
		assert.Equal(t, 1, runs)
	})

	t.Run("teardown tracks owner", func(t *testing.T) {
		rt := testRuntime(t)
		owner := &fakeOwner{}
		w := NewWatcher(rt, owner, func() (any, error) { return nil, nil }, nil, WatcherOptions{})
		assert.Equal(t, []*Watcher{w}, owner.watchers)
		w.Teardown()
		assert.Empty(t, owner.watchers)
		assert.False(t, w.Active())
	})

	t.Run("untrack", func(t *testing.T) {
		rt := testRuntime(t)
		s := observed(rt, map[string]any{"a": 1, "b": 1})
		runs := 0
		rt.Watch(func() (any, error) {
			runs++
			sum := intOf(s, "a")
			rt.Untrack(func() {
				sum += intOf(s, "b")
			})
			return sum, nil
		}, nil, WatcherOptions{})

		s.Set("b", 2)
		assert.Equal(t, 1, runs)
		s.Set("a", 2)
		assert.Equal(t, 2, runs)
		assert.Nil(t, rt.Target())
	})

	t.Run("default expression", func(t *testing.T) {
		rt := testRuntime(t)
		w := rt.Computed(func() (any, error) { return nil, nil })
		assert.Contains(t, w.Expression(), "watcher#")
	})
}

func TestWatcherErrors(t *testing.T) {
	errBoom := errors.New("boom")

	t.Run("getter error", func(t *testing.T) {
		var got []error
		rt := testRuntime(t, WithErrorHandler(func(w *Watcher, err error) {
			got = append(got, err)
		}))
		s := observed(rt, map[string]any{"fail": false, "a": 1})
		w := NewWatcher(rt, nil, func() (any, error) {
			v := s.Get("a")
			if s.Get("fail").(bool) {
				return nil, errBoom
			}
			return v, nil
		}, nil, WatcherOptions{Expression: "a"})

		s.Set("fail", true)
		require.Len(t, got, 1)
		var evalErr *EvalError
		require.ErrorAs(t, got[0], &evalErr)
		assert.Equal(t, "a", evalErr.Expression)
		assert.ErrorIs(t, got[0], errBoom)
		assert.Equal(t, 1, w.Value(), "failed evaluation keeps the previous value")
		assert.Error(t, w.Err())

		// still subscribed to what it read before failing
		s.Set("fail", false)
		assert.NoError(t, w.Err())
		s.Set("a", 2)
		assert.Equal(t, 2, w.Value())
	})

	t.Run("callback error", func(t *testing.T) {
		var got error
		rt := testRuntime(t, WithErrorHandler(func(w *Watcher, err error) {
			got = err
		}))
		s := observed(rt, map[string]any{"a": 1})
		rt.Watch(func() (any, error) {
			return s.Get("a"), nil
		}, func(any, any) error {
			return errBoom
		}, WatcherOptions{})

		s.Set("a", 2)
		assert.ErrorIs(t, got, errBoom)
	})

	t.Run("computed error", func(t *testing.T) {
		var got error
		rt := testRuntime(t, WithErrorHandler(func(w *Watcher, err error) {
			got = err
		}))
		s := observed(rt, map[string]any{"a": 1})
		c := rt.Computed(func() (any, error) {
			if intOf(s, "a") > 1 {
				return nil, errBoom
			}
			return intOf(s, "a"), nil
		})
		assert.Equal(t, 1, c.Read())
		s.Set("a", 2)
		assert.Equal(t, 1, c.Read())
		assert.ErrorIs(t, got, errBoom)
		assert.False(t, c.Dirty())
	})

	t.Run("panic leaves tracking consistent", func(t *testing.T) {
		rt := testRuntime(t)
		s := observed(rt, map[string]any{"a": 1, "b": 1})
		c := rt.Computed(func() (any, error) {
			s.Get("a")
			panic("boom")
		})

		assert.Panics(t, func() { c.Read() })
		assert.Nil(t, rt.Target())
		assert.Equal(t, []*Watcher{c}, s.Dep("a").Subscribers())
		assert.Empty(t, s.Dep("b").Subscribers())
		assert.True(t, c.Dirty())

		runs := 0
		rt.Watch(func() (any, error) {
			runs++
			return s.Get("b"), nil
		}, nil, WatcherOptions{})
		s.Set("b", 2)
		assert.Equal(t, 2, runs)
	})

	t.Run("default handler logs", func(t *testing.T) {
		rt := testRuntime(t)
		s := observed(rt, map[string]any{"a": 1})
		assert.NotPanics(t, func() {
			rt.Watch(func() (any, error) {
				s.Get("a")
				return nil, errBoom
			}, nil, WatcherOptions{})
		})
	})
}
