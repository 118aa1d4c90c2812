package observer

import (
	"testing"

	"github.com/rs/zerolog"
)

func testRuntime(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	return NewRuntime(append([]Option{WithLogger(zerolog.Nop())}, opts...)...)
}

func observed(rt *Runtime, m map[string]any) *Object {
	o := ObjectFrom(m)
	rt.Observe(o, nil)
	return o
}

func intOf(o *Object, key string) int {
	return o.Get(key).(int)
}

type fakeOwner struct {
	watchers []*Watcher
}

func (f *fakeOwner) TrackWatcher(w *Watcher) {
	f.watchers = append(f.watchers, w)
}

func (f *fakeOwner) UntrackWatcher(w *Watcher) {
	for i, existing := range f.watchers {
		if existing == w {
			f.watchers = append(f.watchers[:i], f.watchers[i+1:]...)
			return
		}
	}
}
