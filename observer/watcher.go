package observer

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// Getter is the function a watcher evaluates. Every instrumented property it
// reads becomes a dependency.
type Getter func() (any, error)

// Callback receives the new and previous value of an eager watcher.
type Callback func(value, old any) error

type WatcherOptions struct {
	// Lazy watchers only mark themselves dirty on change and recompute when
	// read. Derived values use this mode.
	Lazy bool
	// User watchers invoke their callback after every re-run, even when the
	// value did not change.
	User bool
	// Deep watchers depend on every instrumented property nested in the value.
	Deep bool
	// Sync watchers re-run as soon as they are notified instead of at the end
	// of the notification pass.
	Sync bool
	// Immediate invokes the callback once at registration with the current
	// value as both arguments.
	Immediate bool
	// Expression names the watcher in diagnostics.
	Expression string
}

// Watcher is one unit of dependent work. After every evaluation its
// subscriptions are exactly the deps read during that evaluation.
type Watcher struct {
	id         uint64
	rt         *Runtime
	owner      Owner
	getter     Getter
	cb         Callback
	expression string

	lazy, user, deep, sync bool

	active bool
	dirty  bool
	value  any
	err    error

	deps      []*Dep
	newDeps   []*Dep
	depIDs    mapset.Set[uint64]
	newDepIDs mapset.Set[uint64]
}

func NewWatcher(rt *Runtime, owner Owner, getter Getter, cb Callback, opts WatcherOptions) *Watcher {
	w := &Watcher{
		id:         nextID(),
		rt:         rt,
		owner:      owner,
		getter:     getter,
		cb:         cb,
		expression: opts.Expression,
		lazy:       opts.Lazy,
		user:       opts.User,
		deep:       opts.Deep,
		sync:       opts.Sync,
		active:     true,
		dirty:      opts.Lazy,
		depIDs:     mapset.NewThreadUnsafeSet[uint64](),
		newDepIDs:  mapset.NewThreadUnsafeSet[uint64](),
	}
	if w.getter == nil {
		w.getter = func() (any, error) { return nil, nil }
	}
	if w.expression == "" {
		w.expression = fmt.Sprintf("watcher#%d", w.id)
	}
	if owner != nil {
		owner.TrackWatcher(w)
	}

	if !w.lazy {
		value, err := w.get()
		if err != nil {
			w.fail(err)
		} else {
			w.value = value
		}
		if opts.Immediate {
			w.invoke(w.value, w.value)
		}
	}
	return w
}

func (w *Watcher) ID() uint64 {
	return w.id
}

func (w *Watcher) Expression() string {
	return w.expression
}

func (w *Watcher) Owner() Owner {
	return w.owner
}

func (w *Watcher) Active() bool {
	return w.active
}

func (w *Watcher) Lazy() bool {
	return w.lazy
}

// Dirty reports whether a lazy watcher needs to recompute before its value is
// used.
func (w *Watcher) Dirty() bool {
	return w.dirty
}

// Value returns the value of the last successful evaluation.
func (w *Watcher) Value() any {
	return w.value
}

// Err returns the error of the last evaluation or callback, if it failed.
func (w *Watcher) Err() error {
	return w.err
}

// Deps returns the deps collected by the last evaluation.
func (w *Watcher) Deps() []*Dep {
	deps := make([]*Dep, len(w.deps))
	copy(deps, w.deps)
	return deps
}

// get evaluates the getter with w as the current target. The target is popped
// and the dependency set reconciled even if the getter panics.
func (w *Watcher) get() (value any, err error) {
	w.rt.pushTarget(w)
	defer func() {
		w.rt.popTarget()
		w.cleanupDeps()
	}()

	value, err = w.getter()
	if err != nil {
		return w.value, &EvalError{Expression: w.expression, Err: err}
	}
	if w.deep {
		traverse(value)
	}
	return value, nil
}

// AddDep subscribes w to d unless it already did so during this evaluation.
func (w *Watcher) AddDep(d *Dep) {
	if w.newDepIDs.Contains(d.id) {
		return
	}
	w.newDepIDs.Add(d.id)
	w.newDeps = append(w.newDeps, d)
	if !w.depIDs.Contains(d.id) {
		d.AddSub(w)
	}
}

// cleanupDeps drops subscriptions that were not renewed by the evaluation that
// just finished and makes the new set current.
func (w *Watcher) cleanupDeps() {
	if !w.active {
		for _, d := range w.newDeps {
			d.RemoveSub(w)
		}
		w.newDepIDs.Clear()
		clear(w.newDeps)
		w.newDeps = w.newDeps[:0]
		return
	}

	for _, d := range w.deps {
		if !w.newDepIDs.Contains(d.id) {
			d.RemoveSub(w)
		}
	}
	w.depIDs, w.newDepIDs = w.newDepIDs, w.depIDs
	w.newDepIDs.Clear()
	w.deps, w.newDeps = w.newDeps, w.deps
	clear(w.newDeps)
	w.newDeps = w.newDeps[:0]
}

// forgetDep removes d from the current dependency set without touching d.
func (w *Watcher) forgetDep(d *Dep) {
	if !w.depIDs.Contains(d.id) {
		return
	}
	w.depIDs.Remove(d.id)
	for i, existing := range w.deps {
		if existing == d {
			w.deps = append(w.deps[:i], w.deps[i+1:]...)
			return
		}
	}
}

// Update is called by a dep when something w read has changed.
func (w *Watcher) Update() {
	if !w.active {
		return
	}
	switch {
	case w.lazy:
		w.dirty = true
	case w.sync:
		w.run()
	default:
		w.rt.queueWatcher(w)
	}
}

func (w *Watcher) run() {
	if !w.active {
		return
	}
	value, err := w.get()
	if err != nil {
		w.fail(err)
		return
	}
	w.err = nil
	if !sameValue(value, w.value) || isObject(value) || w.deep || w.user {
		old := w.value
		w.value = value
		w.invoke(value, old)
	}
}

func (w *Watcher) invoke(value, old any) {
	if w.cb == nil {
		return
	}
	if err := w.cb(value, old); err != nil {
		w.fail(fmt.Errorf("callback for %q: %w", w.expression, err))
	}
}

func (w *Watcher) fail(err error) {
	w.err = err
	w.rt.HandleError(w, err)
}

// Evaluate recomputes a lazy watcher's value and clears the dirty flag. A
// failed evaluation keeps the previous value and is not retried until a
// dependency changes again.
func (w *Watcher) Evaluate() {
	value, err := w.get()
	w.dirty = false
	if err != nil {
		w.fail(err)
		return
	}
	w.err = nil
	w.value = value
}

// Depend subscribes the current target to every dep w holds, so whoever reads
// a derived value also depends on what the derived value read.
func (w *Watcher) Depend() {
	for _, d := range w.deps {
		d.Depend()
	}
}

// Read is the accessor protocol for lazy watchers: recompute when dirty,
// forward dependencies to the current target, return the cached value.
func (w *Watcher) Read() any {
	if w.dirty {
		w.Evaluate()
	}
	if w.rt.Target() != nil {
		w.Depend()
	}
	return w.value
}

// Teardown unsubscribes w from everything it depends on. Calling it again does
// nothing.
func (w *Watcher) Teardown() {
	if !w.active {
		return
	}
	w.active = false
	if w.owner != nil {
		w.owner.UntrackWatcher(w)
	}
	for i := len(w.deps) - 1; i >= 0; i-- {
		w.deps[i].RemoveSub(w)
	}
}
