package observer

import (
	"fmt"
	"testing"
)

func BenchmarkWrite(b *testing.B) {
	for _, readers := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("readers=%d", readers), func(b *testing.B) {
			rt := NewRuntime()
			s := observed(rt, map[string]any{"a": 0})
			for i := 0; i < readers; i++ {
				rt.Watch(func() (any, error) {
					return s.Get("a"), nil
				}, nil, WatcherOptions{})
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s.Set("a", i+1)
			}
		})
	}
}

func BenchmarkComputedChain(b *testing.B) {
	rt := NewRuntime()
	s := observed(rt, map[string]any{"a": 0})
	head := rt.Computed(func() (any, error) { return intOf(s, "a"), nil })
	tail := head
	for i := 0; i < 50; i++ {
		prev := tail
		tail = rt.Computed(func() (any, error) { return prev.Read().(int) + 1, nil })
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Set("a", i+1)
		tail.Read()
	}
}
