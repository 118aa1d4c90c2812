package observer

// Dep is the subscriber list behind one instrumented property or observed
// collection. It only points at its watchers; a watcher that goes away removes
// itself through Teardown.
type Dep struct {
	id   uint64
	rt   *Runtime
	subs []*Watcher
}

func newDep(rt *Runtime) *Dep {
	return &Dep{
		id: nextID(),
		rt: rt,
	}
}

func (d *Dep) ID() uint64 {
	return d.id
}

func (d *Dep) AddSub(w *Watcher) {
	for _, existing := range d.subs {
		if existing == w {
			return
		}
	}
	d.subs = append(d.subs, w)
}

func (d *Dep) RemoveSub(w *Watcher) {
	for i, existing := range d.subs {
		if existing == w {
			copy(d.subs[i:], d.subs[i+1:])
			d.subs[len(d.subs)-1] = nil
			d.subs = d.subs[:len(d.subs)-1]
			return
		}
	}
}

// Depend records d as a dependency of the current target, if any.
func (d *Dep) Depend() {
	if t := d.rt.Target(); t != nil {
		t.AddDep(d)
	}
}

// Notify invalidates every subscriber. The subscriber list is copied first so
// watchers that resubscribe or tear down while being notified do not change who
// is visited in this pass. Lazy subscribers are marked dirty before any eager
// one runs, so a sync watcher never reads a stale derived value. Other eager
// watchers are queued and run once the outermost notification completes.
func (d *Dep) Notify() {
	if len(d.subs) == 0 {
		return
	}
	subs := make([]*Watcher, len(d.subs))
	copy(subs, d.subs)

	d.rt.StartBatch()
	defer d.rt.EndBatch()
	for _, sub := range subs {
		if sub.lazy {
			sub.Update()
		}
	}
	for _, sub := range subs {
		if !sub.lazy {
			sub.Update()
		}
	}
}

// Subscribers returns a copy of the current subscriber list.
func (d *Dep) Subscribers() []*Watcher {
	subs := make([]*Watcher, len(d.subs))
	copy(subs, d.subs)
	return subs
}

// clear drops every subscriber and makes them forget d, so a later read
// subscribes them again.
func (d *Dep) clear() {
	subs := d.subs
	d.subs = nil
	for _, sub := range subs {
		sub.forgetDep(d)
	}
}
