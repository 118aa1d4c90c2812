package state

import "github.com/delaneyj/observable/observer"

func (h *Host) initWatch() {
	for _, key := range sortedKeys(h.opts.Watch) {
		for _, def := range h.opts.Watch[key] {
			h.createWatcher(key, def)
		}
	}
}

func (h *Host) createWatcher(key string, def WatchDef) {
	var cb observer.Callback
	switch {
	case def.Handler != nil:
		handler := def.Handler
		cb = func(value, old any) error {
			return handler(h, value, old)
		}
	case def.Method != "":
		m, ok := h.Method(def.Method)
		if !ok {
			h.warn("watch handler method not found", map[string]any{"key": key, "method": def.Method})
			return
		}
		cb = func(value, old any) error {
			_, err := m(value, old)
			return err
		}
	default:
		h.warn("watch entry has no handler", map[string]any{"key": key})
		return
	}
	h.Watch(key, cb, WatchOptions{Immediate: def.Immediate, Deep: def.Deep})
}

// Watch watches the value at the dot separated path on the host and calls cb
// after every re-run. It returns a cancel function that is safe to call more
// than once.
func (h *Host) Watch(path string, cb observer.Callback, opts WatchOptions) (cancel func()) {
	get, err := observer.ParsePath(path)
	if err != nil {
		h.warn("failed watching path", map[string]any{"path": path, "error": err.Error()})
		get = func(any) (any, error) { return nil, nil }
	}
	return h.watch(path, func() (any, error) {
		return get(h.Object)
	}, cb, opts)
}

// WatchFunc watches whatever fn computes from the host.
func (h *Host) WatchFunc(fn func(h *Host) (any, error), cb observer.Callback, opts WatchOptions) (cancel func()) {
	return h.watch("", func() (any, error) {
		return fn(h)
	}, cb, opts)
}

func (h *Host) watch(expr string, get observer.Getter, cb observer.Callback, opts WatchOptions) func() {
	w := observer.NewWatcher(h.rt, h, get, cb, observer.WatcherOptions{
		User:       true,
		Deep:       opts.Deep,
		Sync:       opts.Sync,
		Immediate:  opts.Immediate,
		Expression: expr,
	})
	return w.Teardown
}
