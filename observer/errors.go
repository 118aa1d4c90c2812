package observer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPath is returned by ParsePath for expressions that are not a
	// dot separated list of identifiers.
	ErrInvalidPath = errors.New("observer: invalid watch path")

	// ErrInfiniteUpdate is reported when a watcher keeps re-queueing itself
	// within one flush, usually because its callback writes what it reads.
	ErrInfiniteUpdate = errors.New("observer: infinite update loop")
)

// EvalError wraps an error returned by a watcher's getter.
type EvalError struct {
	Expression string
	Err        error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("observer: evaluating %q: %v", e.Expression, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}
