package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAccumulatesAndResets(t *testing.T) {
	ResetFrame()
	Track("world.Tick")()
	Track("world.Tick")()
	if got := Count("world.Tick"); got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}
	if _, ok := Snapshot()["world.Tick"]; !ok {
		t.Error("snapshot missing tracked entry")
	}
	ResetFrame()
	if len(Snapshot()) != 0 {
		t.Error("ResetFrame should clear all totals")
	}
}

func TestSumWithPrefix(t *testing.T) {
	ResetFrame()
	mu.Lock()
	frameTotals["meshing.Extract"] = 2 * time.Millisecond
	frameTotals["meshing.Assemble"] = 3 * time.Millisecond
	frameTotals["voxel.Build"] = 10 * time.Millisecond
	mu.Unlock()
	defer ResetFrame()

	if got := SumWithPrefix("meshing."); got != 5*time.Millisecond {
		t.Errorf("SumWithPrefix = %v, want 5ms", got)
	}
}

func TestTopNOrdersByDuration(t *testing.T) {
	ResetFrame()
	mu.Lock()
	frameTotals["a"] = 1500 * time.Microsecond
	frameTotals["b"] = 4 * time.Millisecond
	frameTotals["c"] = 200 * time.Microsecond
	mu.Unlock()
	defer ResetFrame()

	got := TopN(2)
	if got != "b:4ms, a:1.5ms" {
		t.Errorf("TopN(2) = %q", got)
	}
	if all := TopN(10); strings.Count(all, ",") != 2 {
		t.Errorf("TopN(10) = %q, want three entries", all)
	}
}
