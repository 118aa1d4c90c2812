package state

import (
	"fmt"

	"github.com/delaneyj/observable/observer"
)

func (h *Host) initComputed() {
	for _, key := range sortedKeys(h.opts.Computed) {
		def := h.opts.Computed[key]

		var get func() any
		switch {
		case def.Get == nil:
			get = func() any { return nil }
		case def.NoCache:
			get = h.bindGetter(key, def.Get)
		default:
			get = h.makeComputedGetter(key, def.Get)
		}

		set := func(any) {}
		if def.Set != nil {
			set = h.bindSetter(key, def.Set)
		}
		h.DefineAccessor(key, get, set)
	}
}

// makeComputedGetter backs a computed key with a lazy watcher: recompute when
// dirty, then hand its dependencies to whoever is reading.
func (h *Host) makeComputedGetter(key string, fn ComputedGetter) func() any {
	w := observer.NewWatcher(h.rt, h, func() (any, error) {
		return fn(h)
	}, nil, observer.WatcherOptions{Lazy: true, Expression: key})

	return func() any {
		if w.Dirty() {
			w.Evaluate()
		}
		if h.rt.Target() != nil {
			w.Depend()
		}
		return w.Value()
	}
}

func (h *Host) bindGetter(key string, fn ComputedGetter) func() any {
	return func() any {
		v, err := fn(h)
		if err != nil {
			h.rt.HandleError(nil, fmt.Errorf("computed %q: %w", key, err))
		}
		return v
	}
}

func (h *Host) bindSetter(key string, fn ComputedSetter) func(any) {
	return func(v any) {
		if err := fn(h, v); err != nil {
			h.rt.HandleError(nil, fmt.Errorf("computed %q setter: %w", key, err))
		}
	}
}
