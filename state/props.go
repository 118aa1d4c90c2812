package state

// ValidateProp is the default PropValidator: the supplied value when present,
// otherwise the declared default. A missing required prop is warned about.
func ValidateProp(h *Host, key string, prop Prop, propsData map[string]any) any {
	if v, ok := propsData[key]; ok {
		return v
	}
	if prop.Required {
		h.warn("missing required prop", map[string]any{"key": key})
	}
	if fn, ok := prop.Default.(func() any); ok {
		return fn()
	}
	return prop.Default
}

// initProps binds every declared prop as a reactive property. Only the root
// host instruments prop values; a nested host receives values its parent
// already owns and leaves them as they are.
func (h *Host) initProps() {
	if len(h.opts.Props) == 0 {
		return
	}
	h.propKeys = sortedKeys(h.opts.Props)
	isRoot := h.parent == nil
	for _, key := range h.propKeys {
		val := h.validate(h, key, h.opts.Props[key], h.opts.PropsData)
		if isRoot {
			h.rt.DefineReactive(h.Object, key, val)
		} else {
			h.rt.DefineReactiveShallow(h.Object, key, val)
		}
	}
}
