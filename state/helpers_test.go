package state

import (
	"testing"

	"github.com/delaneyj/observable/observer"
	"github.com/rs/zerolog"
)

type warning struct {
	msg    string
	fields map[string]any
}

type recorder struct {
	warnings []warning
	errs     []error
}

func (r *recorder) messages() []string {
	msgs := make([]string, len(r.warnings))
	for i, w := range r.warnings {
		msgs[i] = w.msg
	}
	return msgs
}

func testRuntime(t *testing.T) (*observer.Runtime, *recorder) {
	t.Helper()
	rec := &recorder{}
	rt := observer.NewRuntime(
		observer.WithLogger(zerolog.Nop()),
		observer.WithWarnHandler(func(msg string, fields map[string]any) {
			rec.warnings = append(rec.warnings, warning{msg, fields})
		}),
		observer.WithErrorHandler(func(w *observer.Watcher, err error) {
			rec.errs = append(rec.errs, err)
		}),
	)
	return rt, rec
}
