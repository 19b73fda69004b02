package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Timing buckets shared by the world, the mesher and the renderer.

// Stat is the accumulated time and call count of one bucket.
type Stat struct {
	Total time.Duration
	Count int
}

// Mean returns the average duration per call.
func (s Stat) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

var (
	mu     sync.Mutex
	totals = make(map[string]Stat)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("meshing.Build")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		s := totals[name]
		s.Total += d
		s.Count++
		totals[name] = s
		mu.Unlock()
	}
}

// Reset clears every bucket.
func Reset() {
	mu.Lock()
	clear(totals)
	mu.Unlock()
}

// Snapshot returns a copy of the current buckets.
func Snapshot() map[string]Stat {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]Stat, len(totals))
	for k, v := range totals {
		out[k] = v
	}
	return out
}

// SumWithPrefix adds up every bucket whose name starts with prefix.
func SumWithPrefix(prefix string) Stat {
	var sum Stat
	for k, v := range Snapshot() {
		if strings.HasPrefix(k, prefix) {
			sum.Total += v.Total
			sum.Count += v.Count
		}
	}
	return sum
}

// TopN formats the n most expensive buckets.
// Example: "meshing.Build:42.1ms/96, world.Generate:30.0ms/1"
func TopN(n int) string {
	ss := Snapshot()
	type pair struct {
		name string
		stat Stat
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, stat: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].stat.Total == list[j].stat.Total {
			return list[i].name < list[j].name
		}
		return list[i].stat.Total > list[j].stat.Total
	})
	n = max(0, min(n, len(list)))
	parts := make([]string, 0, n)
	for _, p := range list[:n] {
		ms := float64(p.stat.Total.Microseconds()) / 1000.0
		parts = append(parts, fmt.Sprintf("%s:%.1fms/%d", p.name, ms, p.stat.Count))
	}
	return strings.Join(parts, ", ")
}
