package observer

import "sort"

// Array is an ordered collection. Once observed, its structural mutators
// notify the collection's observer dep and observe inserted elements.
type Array struct {
	items []any
	ob    *Observer
}

func NewArray(items ...any) *Array {
	return &Array{items: items}
}

// ArrayFrom copies s into an Array, converting nested maps and slices.
func ArrayFrom(s []any) *Array {
	items := make([]any, len(s))
	for i, v := range s {
		items[i] = normalize(v)
	}
	return &Array{items: items}
}

func (a *Array) depend() {
	if a.ob != nil {
		a.ob.dep.Depend()
	}
}

func (a *Array) mutated(inserted []any) {
	if a.ob == nil {
		return
	}
	a.ob.observeArray(inserted)
	a.ob.dep.Notify()
}

func (a *Array) Len() int {
	a.depend()
	return len(a.items)
}

// At returns the element at i, or nil when i is out of range.
func (a *Array) At(i int) any {
	a.depend()
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Items returns a copy of the elements.
func (a *Array) Items() []any {
	a.depend()
	items := make([]any, len(a.items))
	copy(items, a.items)
	return items
}

func (a *Array) Push(items ...any) int {
	a.items = append(a.items, items...)
	a.mutated(items)
	return len(a.items)
}

func (a *Array) Pop() any {
	if len(a.items) == 0 {
		return nil
	}
	last := len(a.items) - 1
	v := a.items[last]
	a.items[last] = nil
	a.items = a.items[:last]
	a.mutated(nil)
	return v
}

func (a *Array) Shift() any {
	if len(a.items) == 0 {
		return nil
	}
	v := a.items[0]
	a.items = append(a.items[:0:0], a.items[1:]...)
	a.mutated(nil)
	return v
}

func (a *Array) Unshift(items ...any) int {
	next := make([]any, 0, len(items)+len(a.items))
	next = append(next, items...)
	a.items = append(next, a.items...)
	a.mutated(items)
	return len(a.items)
}

// Splice removes deleteCount elements starting at start, inserts items in
// their place and returns the removed elements. A negative start counts from
// the end.
func (a *Array) Splice(start, deleteCount int, items ...any) []any {
	n := len(a.items)
	if start < 0 {
		start = max(n+start, 0)
	}
	start = min(start, n)
	deleteCount = min(max(deleteCount, 0), n-start)

	removed := make([]any, deleteCount)
	copy(removed, a.items[start:start+deleteCount])

	next := make([]any, 0, n-deleteCount+len(items))
	next = append(next, a.items[:start]...)
	next = append(next, items...)
	next = append(next, a.items[start+deleteCount:]...)
	a.items = next
	a.mutated(items)
	return removed
}

func (a *Array) Sort(less func(x, y any) bool) {
	sort.SliceStable(a.items, func(i, j int) bool {
		return less(a.items[i], a.items[j])
	})
	a.mutated(nil)
}

func (a *Array) Reverse() {
	for i, j := 0, len(a.items)-1; i < j; i, j = i+1, j-1 {
		a.items[i], a.items[j] = a.items[j], a.items[i]
	}
	a.mutated(nil)
}

// SetAt replaces the element at i, growing the array when i is past the end.
func (a *Array) SetAt(i int, v any) {
	if i < 0 {
		return
	}
	for len(a.items) <= i {
		a.items = append(a.items, nil)
	}
	a.Splice(i, 1, v)
}

// Remove deletes the first element equal to v and returns it, or nil.
func (a *Array) Remove(v any) any {
	for i, item := range a.items {
		if sameValue(item, v) {
			return a.Splice(i, 1)[0]
		}
	}
	return nil
}

func (a *Array) Observer() *Observer {
	return a.ob
}
