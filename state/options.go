package state

import "github.com/delaneyj/observable/observer"

// Prop declares one input property.
type Prop struct {
	// Default is used when the caller supplies no value. A func() any default
	// is called to produce the value.
	Default  any
	Required bool
}

// PropValidator resolves the initial value of a prop from the caller supplied
// data.
type PropValidator func(h *Host, key string, prop Prop, propsData map[string]any) any

type ComputedGetter func(h *Host) (any, error)

type ComputedSetter func(h *Host, value any) error

// Computed declares a derived value. The getter is cached unless NoCache is
// set. Without a setter writes are ignored.
type Computed struct {
	Get     ComputedGetter
	Set     ComputedSetter
	NoCache bool
}

// ComputedFunc declares a cached, read-only derived value.
func ComputedFunc(fn ComputedGetter) Computed {
	return Computed{Get: fn}
}

type Method func(h *Host, args ...any) (any, error)

// BoundMethod is a Method with its host already applied. It is what a method
// key reads as on the host.
type BoundMethod func(args ...any) (any, error)

type WatchHandler func(h *Host, value, old any) error

// WatchDef declares one watcher on a key path. Method names a host method to
// use as the handler instead of Handler; it is called with (value, old).
type WatchDef struct {
	Handler   WatchHandler
	Method    string
	Immediate bool
	Deep      bool
}

// Options describes a host. Data may be an *observer.Object, a
// map[string]any, a func() any or func(*Host) any producing either, or nil.
type Options struct {
	Name      string
	Parent    *Host
	Props     map[string]Prop
	PropsData map[string]any
	Data      any
	Computed  map[string]Computed
	Methods   map[string]Method
	Watch     map[string][]WatchDef
}

type WatchOptions struct {
	Immediate bool
	Deep      bool
	Sync      bool
}

type HostOption func(*Host)

func WithPropValidator(v PropValidator) HostOption {
	return func(h *Host) {
		h.validate = v
	}
}

// WithForceUpdate registers fn to run whenever the host is forced to update,
// after its own watchers were re-run.
func WithForceUpdate(fn func(h *Host)) HostOption {
	return func(h *Host) {
		h.onForceUpdate = fn
	}
}

var _ observer.DataOwner = (*Host)(nil)
