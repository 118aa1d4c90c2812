package observer

// Watch creates an eager watcher on getter and returns its cancel function.
// Cancelling more than once is safe.
func (rt *Runtime) Watch(getter Getter, cb Callback, opts WatcherOptions) (cancel func()) {
	opts.Lazy = false
	w := NewWatcher(rt, nil, getter, cb, opts)
	return w.Teardown
}

// WatchPath watches the value at path below root.
func (rt *Runtime) WatchPath(root *Object, path string, cb Callback, opts WatcherOptions) (cancel func(), err error) {
	get, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	if opts.Expression == "" {
		opts.Expression = path
	}
	return rt.Watch(func() (any, error) { return get(root) }, cb, opts), nil
}

// Computed creates a lazy watcher whose value is recomputed on Read only after
// one of its dependencies changed.
func (rt *Runtime) Computed(getter Getter) *Watcher {
	return NewWatcher(rt, nil, getter, nil, WatcherOptions{Lazy: true})
}
