package observer

import (
	"os"

	"github.com/rs/zerolog"
)

// DefaultMaxUpdateCount is how many times one watcher may be re-queued within a
// single flush before the flush is abandoned as an infinite update loop.
const DefaultMaxUpdateCount = 100

// ErrorHandler receives errors raised by watcher getters and callbacks.
// w is nil when the error did not come from a watcher.
type ErrorHandler func(w *Watcher, err error)

// WarnHandler receives non-fatal configuration warnings.
type WarnHandler func(msg string, fields map[string]any)

// Runtime owns the tracking state shared by every observed value and watcher
// created through it: the stack of currently evaluating watchers, the queue of
// watchers waiting for the current notification pass to finish, and the
// diagnostic channels.
//
// A Runtime is not safe for concurrent use. Goroutines that need reactive state
// of their own should each create a Runtime.
type Runtime struct {
	targets []*Watcher

	batchDepth int
	queue      []*Watcher
	queued     map[uint64]bool
	circular   map[uint64]int
	flushing   bool
	maxUpdates int

	logger  zerolog.Logger
	onError ErrorHandler
	onWarn  WarnHandler
}

type Option func(*Runtime)

func WithLogger(logger zerolog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = logger
	}
}

func WithErrorHandler(fn ErrorHandler) Option {
	return func(rt *Runtime) {
		rt.onError = fn
	}
}

func WithWarnHandler(fn WarnHandler) Option {
	return func(rt *Runtime) {
		rt.onWarn = fn
	}
}

func WithMaxUpdateCount(n int) Option {
	return func(rt *Runtime) {
		if n > 0 {
			rt.maxUpdates = n
		}
	}
}

func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		queued:     map[uint64]bool{},
		circular:   map[uint64]int{},
		maxUpdates: DefaultMaxUpdateCount,
		logger: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.WarnLevel).
			With().Timestamp().Logger(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Target returns the watcher currently evaluating, or nil when reads are not
// being tracked.
func (rt *Runtime) Target() *Watcher {
	if n := len(rt.targets); n > 0 {
		return rt.targets[n-1]
	}
	return nil
}

func (rt *Runtime) pushTarget(w *Watcher) {
	rt.targets = append(rt.targets, w)
}

func (rt *Runtime) popTarget() {
	last := len(rt.targets) - 1
	rt.targets[last] = nil
	rt.targets = rt.targets[:last]
}

// Untrack runs fn without a current target, so nothing it reads becomes a
// dependency of the enclosing watcher.
func (rt *Runtime) Untrack(fn func()) {
	rt.pushTarget(nil)
	defer rt.popTarget()
	fn()
}

func (rt *Runtime) Logger() *zerolog.Logger {
	return &rt.logger
}

// Warn emits a configuration warning. Execution always continues.
func (rt *Runtime) Warn(msg string, fields map[string]any) {
	if rt.onWarn != nil {
		rt.onWarn(msg, fields)
		return
	}
	rt.logger.Warn().Fields(fields).Msg(msg)
}

// HandleError surfaces err to the configured ErrorHandler, logging it when none
// was given.
func (rt *Runtime) HandleError(w *Watcher, err error) {
	if err == nil {
		return
	}
	if rt.onError != nil {
		rt.onError(w, err)
		return
	}
	ev := rt.logger.Error().Err(err)
	if w != nil {
		ev = ev.Uint64("watcher", w.id).Str("expression", w.expression)
	}
	ev.Msg("watcher error")
}
