package observer

// Owner is a host that keeps track of the watchers created on its behalf and
// may own observed data.
type Owner interface {
	TrackWatcher(w *Watcher)
	UntrackWatcher(w *Watcher)
}

// DataOwner is an Owner that exposes the keys of an observed data bag on
// itself. Runtime.Set and Runtime.Del keep those exposed keys in sync.
type DataOwner interface {
	Owner
	ProxyKey(key string)
	UnproxyKey(key string)
	ForceUpdate()
}

// Observer is the record attached to an observed Object or Array. Its dep is
// notified on structural changes (keys added or removed, array mutators), and
// its owners are the hosts using the value as their data bag.
type Observer struct {
	rt        *Runtime
	value     any
	dep       *Dep
	owners    []Owner
	destroyed bool
}

func (ob *Observer) Value() any {
	return ob.value
}

func (ob *Observer) Dep() *Dep {
	return ob.dep
}

func (ob *Observer) OwnerCount() int {
	return len(ob.owners)
}

func (ob *Observer) Destroyed() bool {
	return ob.destroyed
}

func (ob *Observer) AddOwner(owner Owner) {
	ob.owners = append(ob.owners, owner)
}

// RemoveOwner detaches one reference from owner and returns how many remain.
// When none remain the record is destroyed: every subscriber of the value's
// own deps is dropped, so nothing that read the detached value fires again.
// The value stays instrumented and can be observed again later.
func (ob *Observer) RemoveOwner(owner Owner) int {
	for i, existing := range ob.owners {
		if existing == owner {
			ob.owners = append(ob.owners[:i], ob.owners[i+1:]...)
			break
		}
	}
	if len(ob.owners) == 0 {
		ob.destroy()
	}
	return len(ob.owners)
}

func (ob *Observer) destroy() {
	if ob.destroyed {
		return
	}
	ob.destroyed = true
	ob.dep.clear()
	if obj, ok := ob.value.(*Object); ok {
		for _, key := range obj.keys {
			if dep := obj.props[key].dep; dep != nil {
				dep.clear()
			}
		}
	}
}

func (ob *Observer) walk(obj *Object) {
	keys := make([]string, len(obj.keys))
	copy(keys, obj.keys)
	for _, key := range keys {
		ob.rt.defineReactive(obj, key, obj.Get(key), true)
	}
}

func (ob *Observer) observeArray(items []any) {
	for _, item := range items {
		ob.rt.observe(item, nil, true)
	}
}

// Observe instruments value when it is an *Object or *Array and returns its
// observer record, adding owner to it when owner is not nil. A value that is
// already observed is not instrumented again; its existing record is returned.
// Anything else returns nil.
func (rt *Runtime) Observe(value any, owner Owner) *Observer {
	return rt.observe(value, owner, true)
}

// ObserveShallow is Observe without instrumenting values that were not observed
// already. Nested hosts bind their props this way so values owned by a parent
// are not converted a second time.
func (rt *Runtime) ObserveShallow(value any, owner Owner) *Observer {
	return rt.observe(value, owner, false)
}

func (rt *Runtime) observe(value any, owner Owner, convert bool) *Observer {
	var ob *Observer
	switch v := value.(type) {
	case *Object:
		if v == nil {
			return nil
		}
		if v.ob != nil {
			ob = v.ob
		} else if convert {
			ob = rt.newObserver(v)
			v.ob = ob
			ob.walk(v)
		}
	case *Array:
		if v == nil {
			return nil
		}
		if v.ob != nil {
			ob = v.ob
		} else if convert {
			ob = rt.newObserver(v)
			v.ob = ob
			ob.observeArray(v.items)
		}
	default:
		return nil
	}
	if ob == nil {
		return nil
	}
	ob.destroyed = false
	if owner != nil {
		ob.AddOwner(owner)
	}
	return ob
}

func (rt *Runtime) newObserver(value any) *Observer {
	return &Observer{
		rt:    rt,
		value: value,
		dep:   newDep(rt),
	}
}

// DefineReactive installs an instrumented property for key on obj with val as
// its initial value, observing val. An accessor already present on key is kept
// as the backing store.
func (rt *Runtime) DefineReactive(obj *Object, key string, val any) *Dep {
	return rt.defineReactive(obj, key, val, true)
}

// DefineReactiveShallow is DefineReactive without instrumenting val. Values
// written later are still observed.
func (rt *Runtime) DefineReactiveShallow(obj *Object, key string, val any) *Dep {
	return rt.defineReactive(obj, key, val, false)
}

func (rt *Runtime) defineReactive(obj *Object, key string, val any, convert bool) *Dep {
	dep := newDep(rt)

	var getter func() any
	var setter func(any)
	if p, ok := obj.props[key]; ok {
		getter, setter = p.get, p.set
	}

	childOb := rt.observe(val, nil, convert)
	obj.define(key, &property{
		dep: dep,
		get: func() any {
			value := val
			if getter != nil {
				value = getter()
			}
			if rt.Target() != nil {
				dep.Depend()
				if childOb != nil {
					childOb.dep.Depend()
				}
				if arr, ok := value.(*Array); ok {
					dependArray(arr)
				}
			}
			return value
		},
		set: func(newVal any) {
			value := val
			if getter != nil {
				value = getter()
			}
			if sameValue(newVal, value) {
				return
			}
			if setter != nil {
				setter(newVal)
			} else {
				val = newVal
			}
			childOb = rt.observe(newVal, nil, true)
			dep.Notify()
		},
	})
	return dep
}

// dependArray makes the current target depend on every observed element of
// arr, since element mutations do not go through a property getter.
func dependArray(arr *Array) {
	for _, item := range arr.items {
		switch v := item.(type) {
		case *Object:
			if v.ob != nil {
				v.ob.dep.Depend()
			}
		case *Array:
			if v.ob != nil {
				v.ob.dep.Depend()
			}
			dependArray(v)
		}
	}
}

// Set writes key on obj. When obj is observed and key is new, the key is made
// reactive, readers of obj's keys are notified and owning hosts expose it.
func (rt *Runtime) Set(obj *Object, key string, val any) {
	if obj.Has(key) {
		obj.Set(key, val)
		return
	}
	ob := obj.ob
	if ob == nil {
		obj.DefineValue(key, val)
		return
	}
	rt.defineReactive(obj, key, val, true)
	ob.dep.Notify()
	for _, owner := range ob.owners {
		if do, ok := owner.(DataOwner); ok {
			do.ProxyKey(key)
			do.ForceUpdate()
		}
	}
}

// Del deletes key from obj, notifying readers when obj is observed.
func (rt *Runtime) Del(obj *Object, key string) {
	if !obj.Delete(key) {
		return
	}
	ob := obj.ob
	if ob == nil {
		return
	}
	ob.dep.Notify()
	for _, owner := range ob.owners {
		if do, ok := owner.(DataOwner); ok {
			do.UnproxyKey(key)
			do.ForceUpdate()
		}
	}
}

// Proxy exposes source().key as target.key. The source is resolved on every
// access, so swapping what source returns retargets the accessor.
func Proxy(target *Object, key string, source func() *Object) {
	target.DefineAccessor(key,
		func() any { return source().Get(key) },
		func(v any) { source().Set(key, v) },
	)
}

// Unproxy revokes an accessor installed by Proxy.
func Unproxy(target *Object, key string) {
	target.Delete(key)
}
