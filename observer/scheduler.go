package observer

import "fmt"

func (rt *Runtime) StartBatch() {
	rt.batchDepth++
}

func (rt *Runtime) EndBatch() {
	rt.batchDepth--
	if rt.batchDepth == 0 {
		rt.flush()
	}
}

// Batch holds queued watchers until fn returns, so several writes re-run each
// affected watcher once.
func (rt *Runtime) Batch(fn func()) {
	rt.StartBatch()
	defer rt.EndBatch()
	fn()
}

func (rt *Runtime) queueWatcher(w *Watcher) {
	if rt.queued[w.id] {
		return
	}
	rt.queued[w.id] = true
	rt.queue = append(rt.queue, w)
}

// flush runs queued watchers in the order they were queued. Watchers queued
// while flushing are appended and picked up by the same loop.
func (rt *Runtime) flush() {
	if rt.flushing || rt.batchDepth > 0 || len(rt.queue) == 0 {
		return
	}
	rt.flushing = true
	defer rt.resetQueue()

	for i := 0; i < len(rt.queue); i++ {
		w := rt.queue[i]
		delete(rt.queued, w.id)

		rt.circular[w.id]++
		if rt.circular[w.id] > rt.maxUpdates {
			rt.HandleError(w, fmt.Errorf("%w in watcher %q", ErrInfiniteUpdate, w.expression))
			break
		}
		w.run()
	}
}

func (rt *Runtime) resetQueue() {
	clear(rt.queue)
	rt.queue = rt.queue[:0]
	clear(rt.queued)
	clear(rt.circular)
	rt.flushing = false
}
