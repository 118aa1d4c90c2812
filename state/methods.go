package state

import "fmt"

func (h *Host) initMethods() {
	for _, key := range sortedKeys(h.opts.Methods) {
		m := h.opts.Methods[key]
		h.DefineValue(key, BoundMethod(func(args ...any) (any, error) {
			return m(h, args...)
		}))
	}
}

// Method returns the bound method stored under name.
func (h *Host) Method(name string) (BoundMethod, bool) {
	m, ok := h.Get(name).(BoundMethod)
	return m, ok
}

// Call invokes the method stored under name.
func (h *Host) Call(name string, args ...any) (any, error) {
	m, ok := h.Method(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoMethod, name)
	}
	return m(args...)
}
