package observer

import (
	"math"
	"reflect"

	mapset "github.com/deckarep/golang-set/v2"
)

// sameValue reports whether writing b over a is a no-op. Comparable values use
// ==, with NaN equal to itself. Maps and slices compare by identity. Functions
// are never the same.
func sameValue(a, b any) (same bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	switch ta.Kind() {
	case reflect.Func:
		return false
	case reflect.Map:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	case reflect.Float32, reflect.Float64:
		fa, fb := reflect.ValueOf(a).Float(), reflect.ValueOf(b).Float()
		return fa == fb || (math.IsNaN(fa) && math.IsNaN(fb))
	}

	if !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	// structs holding interfaces are comparable by type but panic on == when
	// the interface holds a slice or map.
	defer func() {
		if recover() != nil {
			same = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}

// isObject reports whether v is a reference whose contents may have changed
// even though the reference itself did not.
func isObject(v any) bool {
	switch v.(type) {
	case nil:
		return false
	case *Object, *Array:
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer:
		return true
	}
	return false
}

func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return ObjectFrom(x)
	case []any:
		return ArrayFrom(x)
	}
	return v
}

func denormalize(v any) any {
	switch x := v.(type) {
	case *Object:
		return x.ToMap()
	case *Array:
		items := make([]any, len(x.items))
		for i, item := range x.items {
			items[i] = denormalize(item)
		}
		return items
	}
	return v
}

// traverse reads every instrumented property reachable from v so the current
// target depends on all of them.
func traverse(v any) {
	traverseValue(v, mapset.NewThreadUnsafeSet[uint64]())
}

func traverseValue(v any, seen mapset.Set[uint64]) {
	switch x := v.(type) {
	case *Object:
		if x.ob != nil {
			if seen.Contains(x.ob.dep.id) {
				return
			}
			seen.Add(x.ob.dep.id)
		}
		for _, key := range x.keys {
			traverseValue(x.Get(key), seen)
		}
	case *Array:
		if x.ob != nil {
			if seen.Contains(x.ob.dep.id) {
				return
			}
			seen.Add(x.ob.dep.id)
		}
		for _, item := range x.items {
			traverseValue(item, seen)
		}
	}
}
