package observer

import "sort"

type property struct {
	value any
	get   func() any
	set   func(any)
	dep   *Dep
}

// Object is an ordered string keyed bag of properties. A property is either a
// plain value or an accessor pair. Objects are inert until observed; observing
// one replaces every property with an instrumented accessor.
type Object struct {
	keys  []string
	props map[string]*property
	ob    *Observer
}

func NewObject() *Object {
	return &Object{props: map[string]*property{}}
}

// ObjectFrom builds an Object from m with its keys sorted. Nested
// map[string]any and []any values become Objects and Arrays.
func ObjectFrom(m map[string]any) *Object {
	o := NewObject()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		o.DefineValue(k, normalize(m[k]))
	}
	return o
}

// Get returns the value of key, calling its getter if it is an accessor.
// Missing keys read as nil.
func (o *Object) Get(key string) any {
	v, _ := o.Lookup(key)
	return v
}

func (o *Object) Lookup(key string) (any, bool) {
	p, ok := o.props[key]
	if !ok {
		return nil, false
	}
	if p.get != nil {
		return p.get(), true
	}
	if p.set != nil {
		return nil, true
	}
	return p.value, true
}

// Set writes key. Accessors without a setter ignore the write. Writing a key
// that does not exist adds a plain property; use Runtime.Set to add a reactive
// one to an observed object.
func (o *Object) Set(key string, v any) {
	p, ok := o.props[key]
	if !ok {
		o.DefineValue(key, v)
		return
	}
	if p.get != nil || p.set != nil {
		if p.set != nil {
			p.set(v)
		}
		return
	}
	p.value = v
}

func (o *Object) Has(key string) bool {
	_, ok := o.props[key]
	return ok
}

// Keys returns the keys in definition order. Reading the keys of an observed
// object depends on it, so adding or deleting keys through Runtime.Set and
// Runtime.Del re-runs the reader.
func (o *Object) Keys() []string {
	if o.ob != nil {
		o.ob.dep.Depend()
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

func (o *Object) Len() int {
	return len(o.keys)
}

// Delete removes key. It reports whether the key existed.
func (o *Object) Delete(key string) bool {
	if _, ok := o.props[key]; !ok {
		return false
	}
	delete(o.props, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

func (o *Object) DefineValue(key string, v any) {
	o.define(key, &property{value: v})
}

// DefineAccessor installs a getter/setter pair on key, replacing whatever was
// there. Either function may be nil.
func (o *Object) DefineAccessor(key string, get func() any, set func(any)) {
	o.define(key, &property{get: get, set: set})
}

func (o *Object) define(key string, p *property) {
	if _, ok := o.props[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.props[key] = p
}

// Dep returns the dep behind an instrumented key, or nil.
func (o *Object) Dep(key string) *Dep {
	if p, ok := o.props[key]; ok {
		return p.dep
	}
	return nil
}

// Observer returns the observer record of o, or nil when o was never observed.
func (o *Object) Observer() *Observer {
	return o.ob
}

// ToMap reads every property into a plain map, converting nested Objects and
// Arrays back to maps and slices.
func (o *Object) ToMap() map[string]any {
	m := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		m[k] = denormalize(o.Get(k))
	}
	return m
}
