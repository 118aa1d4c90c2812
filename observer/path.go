package observer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

var bailRE = regexp.MustCompile(`[^\w.$]`)

type compiledPath struct {
	path     string
	segments []string
}

// compiled paths keyed by the xxhash of the expression
var pathCache sync.Map

// PathGetter reads a compiled path starting at root.
type PathGetter func(root any) (any, error)

// ParsePath compiles a dot separated expression such as "user.address.city"
// into a getter. Numeric segments index into Arrays. Walking through a missing
// or non-container value yields nil.
func ParsePath(path string) (PathGetter, error) {
	if path == "" || bailRE.MatchString(path) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	segments := pathSegments(path)
	return func(root any) (any, error) {
		cur := root
		for _, seg := range segments {
			switch v := cur.(type) {
			case *Object:
				cur = v.Get(seg)
			case *Array:
				i, err := strconv.Atoi(seg)
				if err != nil {
					return nil, nil
				}
				cur = v.At(i)
			default:
				return nil, nil
			}
		}
		return cur, nil
	}, nil
}

func pathSegments(path string) []string {
	key := xxhash.Sum64String(path)
	if cached, ok := pathCache.Load(key); ok {
		if cp := cached.(*compiledPath); cp.path == path {
			return cp.segments
		}
	}
	cp := &compiledPath{path: path, segments: strings.Split(path, ".")}
	pathCache.Store(key, cp)
	return cp.segments
}
