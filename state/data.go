package state

import "github.com/delaneyj/observable/observer"

func (h *Host) initData() {
	data, ok := h.resolveData(h.opts.Data)
	if !ok {
		h.warn("data functions should return an object", nil)
		data = observer.NewObject()
	}
	h.data = data
	for _, key := range data.Keys() {
		h.ProxyKey(key)
	}
	h.rt.Observe(data, h)
}

func (h *Host) resolveData(v any) (*observer.Object, bool) {
	switch d := v.(type) {
	case nil:
		return observer.NewObject(), true
	case func() any:
		return plainObject(d())
	case func(*Host) any:
		return plainObject(d(h))
	}
	return plainObject(v)
}

func plainObject(v any) (*observer.Object, bool) {
	switch d := v.(type) {
	case *observer.Object:
		return d, d != nil
	case map[string]any:
		return observer.ObjectFrom(d), true
	}
	return nil, false
}

// Data returns the current data bag.
func (h *Host) Data() *observer.Object {
	return h.data
}

// ProxyKey exposes data.key as h.key. The accessor follows the current data
// bag, so it keeps working across SetData.
func (h *Host) ProxyKey(key string) {
	observer.Proxy(h.Object, key, func() *observer.Object { return h.data })
}

func (h *Host) UnproxyKey(key string) {
	observer.Unproxy(h.Object, key)
}

// SetData replaces the data bag. v takes the same forms as Options.Data
// values; nil means an empty bag. Keys missing from the new bag disappear from
// the host, new keys appear, and watchers that read a key present in both bags
// re-run once. While another host still owns the old bag only this host's
// watchers are re-run. Cached values that read a dropped key go dirty.
func (h *Host) SetData(v any) {
	var data *observer.Object
	if v == nil {
		data = observer.NewObject()
	} else {
		var ok bool
		if data, ok = plainObject(v); !ok {
			h.warn("data must be an object", nil)
			data = observer.NewObject()
		}
	}
	if data == h.data {
		return
	}

	var affected []*observer.Watcher
	h.rt.Untrack(func() {
		affected = h.swapData(data)
	})
	h.forceUpdate(affected)
}

func (h *Host) swapData(data *observer.Object) []*observer.Watcher {
	old := h.data
	h.data = data

	// Leaving as the last owner destroys the old bag and cuts every reader
	// off, so all of them are re-run. A bag that stays shared keeps its
	// subscribers and only the host's own watchers are moved over.
	ob := old.Observer()
	releasing := ob != nil && ob.OwnerCount() <= 1
	include := func(w *observer.Watcher) bool {
		return releasing || w.Owner() == observer.Owner(h)
	}

	var affected []*observer.Watcher
	for _, key := range old.Keys() {
		dep := old.Dep(key)
		if !data.Has(key) {
			h.UnproxyKey(key)
			// cached values that read a dropped key recompute on next read
			if dep != nil {
				for _, w := range dep.Subscribers() {
					if w.Lazy() && include(w) {
						affected = append(affected, w)
					}
				}
			}
			continue
		}
		if dep != nil {
			for _, w := range dep.Subscribers() {
				if include(w) {
					affected = append(affected, w)
				}
			}
		}
	}
	for _, key := range data.Keys() {
		if !h.Has(key) {
			h.ProxyKey(key)
		}
	}

	if ob != nil {
		ob.RemoveOwner(h)
	}
	h.rt.Observe(data, h)
	return affected
}
