package state

import (
	"sort"

	"github.com/delaneyj/observable/observer"
)

// Host is an object whose declared props, data, computed values, methods and
// watchers are bound as reactive properties on itself.
type Host struct {
	*observer.Object

	rt       *observer.Runtime
	name     string
	parent   *Host
	opts     Options
	propKeys []string
	data     *observer.Object

	watchers []*observer.Watcher
	render   *observer.Watcher

	validate      PropValidator
	onForceUpdate func(h *Host)

	destroying bool
	destroyed  bool
}

// New binds opts onto a fresh host: props, then data, computed values,
// methods and finally watchers.
func New(rt *observer.Runtime, opts Options, hostOpts ...HostOption) *Host {
	h := &Host{
		Object:   observer.NewObject(),
		rt:       rt,
		name:     opts.Name,
		parent:   opts.Parent,
		opts:     opts,
		validate: ValidateProp,
	}
	for _, opt := range hostOpts {
		opt(h)
	}

	h.initProps()
	h.initData()
	h.initComputed()
	h.initMethods()
	h.initWatch()
	return h
}

func (h *Host) Runtime() *observer.Runtime {
	return h.rt
}

func (h *Host) Parent() *Host {
	return h.parent
}

func (h *Host) Name() string {
	return h.name
}

// PropKeys returns the declared prop keys in binding order.
func (h *Host) PropKeys() []string {
	keys := make([]string, len(h.propKeys))
	copy(keys, h.propKeys)
	return keys
}

// Watchers returns the live watchers owned by the host.
func (h *Host) Watchers() []*observer.Watcher {
	ws := make([]*observer.Watcher, len(h.watchers))
	copy(ws, h.watchers)
	return ws
}

func (h *Host) TrackWatcher(w *observer.Watcher) {
	h.watchers = append(h.watchers, w)
}

func (h *Host) UntrackWatcher(w *observer.Watcher) {
	if h.destroying {
		return
	}
	for i, existing := range h.watchers {
		if existing == w {
			h.watchers = append(h.watchers[:i], h.watchers[i+1:]...)
			return
		}
	}
}

// Mount installs render as the host's render watcher. It runs immediately and
// again whenever what it read changes or the host is forced to update.
func (h *Host) Mount(render func(h *Host) error) *observer.Watcher {
	if h.render != nil {
		h.render.Teardown()
	}
	h.render = observer.NewWatcher(h.rt, h, func() (any, error) {
		return nil, render(h)
	}, nil, observer.WatcherOptions{Expression: "render"})
	return h.render
}

// ForceUpdate re-runs the render watcher and calls the force update hook.
func (h *Host) ForceUpdate() {
	h.forceUpdate(nil)
}

func (h *Host) forceUpdate(affected []*observer.Watcher) {
	h.rt.Batch(func() {
		for _, w := range affected {
			w.Update()
		}
		if h.render != nil {
			h.render.Update()
		}
	})
	if h.onForceUpdate != nil {
		h.onForceUpdate(h)
	}
}

// Destroy tears down every watcher owned by the host and releases its data
// bag. Destroying twice does nothing.
func (h *Host) Destroy() {
	if h.destroyed {
		return
	}
	h.destroying = true
	for i := len(h.watchers) - 1; i >= 0; i-- {
		h.watchers[i].Teardown()
	}
	h.watchers = nil
	h.render = nil
	if ob := h.data.Observer(); ob != nil {
		ob.RemoveOwner(h)
	}
	h.destroyed = true
}

func (h *Host) Destroyed() bool {
	return h.destroyed
}

func (h *Host) warn(msg string, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	if h.name != "" {
		fields["host"] = h.name
	}
	h.rt.Warn(msg, fields)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
