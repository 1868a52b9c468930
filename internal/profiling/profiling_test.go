package profiling

import (
	"strings"
	"testing"
	"time"
)

// seed installs known totals, replacing whatever is tracked.
func seed(t *testing.T, totals map[string]time.Duration) {
	t.Helper()
	Reset()
	mu.Lock()
	for k, v := range totals {
		tickTotals[k] = v
	}
	mu.Unlock()
	t.Cleanup(Reset)
}

func TestTrackAccumulates(t *testing.T) {
	seed(t, map[string]time.Duration{"world.Tick": time.Millisecond})
	Track("world.Tick")()
	if got := Snapshot()["world.Tick"]; got < time.Millisecond {
		t.Errorf("total = %v, want at least the prior 1ms", got)
	}
}

func TestResetClears(t *testing.T) {
	seed(t, map[string]time.Duration{"world.Tick": time.Millisecond})
	Reset()
	if ss := Snapshot(); len(ss) != 0 {
		t.Errorf("snapshot has %d entries after Reset, want 0", len(ss))
	}
}

func TestSnapshotCopies(t *testing.T) {
	seed(t, map[string]time.Duration{"world.Tick": time.Millisecond})
	ss := Snapshot()
	ss["world.Tick"] = 0
	ss["injected"] = time.Second
	if got := Snapshot()["world.Tick"]; got != time.Millisecond {
		t.Errorf("mutating a snapshot changed the tracked total to %v", got)
	}
	if _, ok := Snapshot()["injected"]; ok {
		t.Error("mutating a snapshot injected a tracked section")
	}
}

func TestSumWithPrefix(t *testing.T) {
	seed(t, map[string]time.Duration{
		"world.Tick":      2 * time.Millisecond,
		"world.MeshChunk": 3 * time.Millisecond,
		"meshing.March":   5 * time.Millisecond,
	})
	if got := SumWithPrefix("world."); got != 5*time.Millisecond {
		t.Errorf("SumWithPrefix(world.) = %v, want 5ms", got)
	}
	if got := SumWithPrefix("meshing."); got != 5*time.Millisecond {
		t.Errorf("SumWithPrefix(meshing.) = %v, want 5ms", got)
	}
	if got := SumWithPrefix("physics."); got != 0 {
		t.Errorf("SumWithPrefix(physics.) = %v, want 0", got)
	}
}

func TestTopN(t *testing.T) {
	seed(t, map[string]time.Duration{
		"world.loadChunk": 4200 * time.Microsecond,
		"meshing.March":   2100 * time.Microsecond,
		"world.Tick":      100 * time.Microsecond,
	})
	got := TopN(2)
	want := "world.loadChunk:4.2ms, meshing.March:2.1ms"
	if got != want {
		t.Errorf("TopN(2) = %q, want %q", got, want)
	}
	if !strings.Contains(TopN(10), "world.Tick:0.1ms") {
		t.Error("TopN larger than the table should include every section")
	}
}

func TestTopNEmpty(t *testing.T) {
	Reset()
	if got := TopN(3); got != "" {
		t.Errorf("TopN on an empty table = %q, want empty", got)
	}
}
