package main

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/delaneyj/observable/observer"
)

type benchmarkGraph struct {
	rt      *observer.Runtime
	sources *observer.Object
	keys    []string
	layers  [][]*observer.Watcher
}

// makeGraph builds totalLayers-1 rows of derived values on top of width
// source properties. Each node sums nSources entries of the previous row;
// dynamic nodes skip one of them depending on the first value read.
func makeGraph(rt *observer.Runtime, c benchmarkCase, counter *int64) *benchmarkGraph {
	g := &benchmarkGraph{
		rt:      rt,
		sources: observer.NewObject(),
		keys:    make([]string, c.Width),
	}
	for i := range g.keys {
		g.keys[i] = "s" + strconv.Itoa(i)
		g.sources.DefineValue(g.keys[i], i)
	}
	rt.Observe(g.sources, nil)

	prevRow := make([]func() int, c.Width)
	for i, key := range g.keys {
		prevRow[i] = func() int { return g.sources.Get(key).(int) }
	}

	random := rand.New(rand.NewSource(0))
	g.layers = make([][]*observer.Watcher, c.TotalLayers-1)
	for l := range g.layers {
		row := make([]*observer.Watcher, len(prevRow))
		for myDex := range prevRow {
			mySources := make([]func() int, 0, c.NSources)
			for sourceDex := 0; sourceDex < int(c.NSources); sourceDex++ {
				mySources = append(mySources, prevRow[(myDex+sourceDex)%len(prevRow)])
			}

			if random.Float64() < c.StaticFraction {
				row[myDex] = rt.Computed(func() (any, error) {
					*counter++
					sum := 0
					for _, source := range mySources {
						sum += source()
					}
					return sum, nil
				})
			} else {
				first, tail := mySources[0], mySources[1:]
				row[myDex] = rt.Computed(func() (any, error) {
					*counter++
					sum := first()
					shouldDrop := sum&0x1 > 0
					dropDex := 0
					if len(tail) > 0 {
						dropDex = sum % len(tail)
					}
					for i := range tail {
						if shouldDrop && i == dropDex {
							continue
						}
						sum += tail[i]()
					}
					return sum, nil
				})
			}
		}

		g.layers[l] = row
		nextRow := make([]func() int, len(row))
		for i, w := range row {
			nextRow[i] = func() int { return w.Read().(int) }
		}
		prevRow = nextRow
	}
	return g
}

// run writes one source per iteration and reads a random readFraction of the
// leaves, returning the sum of the leaves read.
func (g *benchmarkGraph) run(iterations int64, readFraction float64) int {
	random := rand.New(rand.NewSource(0))
	leaves := g.layers[len(g.layers)-1]
	skipCount := int(math.Round(float64(len(leaves)) * (1 - readFraction)))
	readLeaves := removeElems(leaves, skipCount, random)

	for i := 0; i < int(iterations); i++ {
		sourceDex := i % len(g.keys)
		g.rt.Batch(func() {
			g.sources.Set(g.keys[sourceDex], i+sourceDex)
		})
		for _, leaf := range readLeaves {
			leaf.Read()
		}
	}

	sum := 0
	for _, leaf := range readLeaves {
		sum += leaf.Read().(int)
	}
	return sum
}

func removeElems[T any](src []T, rmCount int, random *rand.Rand) []T {
	out := make([]T, len(src))
	copy(out, src)
	for i := 0; i < rmCount; i++ {
		rmDex := random.Intn(len(out))
		out[rmDex] = out[len(out)-1]
		out = out[:len(out)-1]
	}
	return out
}
