package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Lightweight per-tick CPU profiler for terrain subsystem insights.

var (
	mu         sync.Mutex
	tickTotals = make(map[string]time.Duration)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("world.Tick")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		tickTotals[name] += d
		mu.Unlock()
	}
}

// Reset clears the current totals. Call at the start of each tick.
func Reset() {
	mu.Lock()
	for k := range tickTotals {
		delete(tickTotals, k)
	}
	mu.Unlock()
}

// Snapshot returns a copy of the current totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(tickTotals))
	for k, v := range tickTotals {
		out[k] = v
	}
	return out
}

// SumWithPrefix totals every tracked section whose name starts with prefix.
// Useful for bucketing, e.g. SumWithPrefix("world.") vs SumWithPrefix("meshing.").
func SumWithPrefix(prefix string) time.Duration {
	mu.Lock()
	defer mu.Unlock()
	var total time.Duration
	for k, v := range tickTotals {
		if strings.HasPrefix(k, prefix) {
			total += v
		}
	}
	return total
}

// TopN formats the N largest totals since the last Reset.
// Example: "world.loadChunk:4.2ms, meshing.March:2.1ms"
func TopN(n int) string {
	ss := Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].dur > list[j].dur })
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ms := float64(list[i].dur.Microseconds()) / 1000.0
		parts = append(parts, fmt.Sprintf("%s:%.1fms", list[i].name, ms))
	}
	return strings.Join(parts, ", ")
}
