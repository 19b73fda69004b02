package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAccumulates(t *testing.T) {
	Reset()
	for range 3 {
		stop := Track("test.op")
		time.Sleep(time.Millisecond)
		stop()
	}
	s := Snapshot()["test.op"]
	if s.Count != 3 {
		t.Fatalf("Count = %d, want 3", s.Count)
	}
	if s.Total < 3*time.Millisecond {
		t.Fatalf("Total = %v, want >= 3ms", s.Total)
	}
	if s.Mean() < time.Millisecond {
		t.Fatalf("Mean = %v", s.Mean())
	}
}

func TestTopNOrdering(t *testing.T) {
	Reset()
	mu.Lock()
	totals["a.fast"] = Stat{Total: time.Millisecond, Count: 1}
	totals["b.slow"] = Stat{Total: 5 * time.Millisecond, Count: 2}
	totals["a.mid"] = Stat{Total: 2 * time.Millisecond, Count: 1}
	mu.Unlock()

	got := TopN(2)
	if !strings.HasPrefix(got, "b.slow:5.0ms/2") || !strings.Contains(got, "a.mid") || strings.Contains(got, "a.fast") {
		t.Fatalf("TopN(2) = %q", got)
	}
	if sum := SumWithPrefix("a."); sum.Total != 3*time.Millisecond || sum.Count != 2 {
		t.Fatalf("SumWithPrefix = %+v", sum)
	}
	Reset()
	if len(Snapshot()) != 0 {
		t.Fatalf("Reset left buckets behind")
	}
}

func TestTopNNonPositive(t *testing.T) {
	Reset()
	Track("test.op")()
	for _, n := range []int{0, -1, -10} {
		if got := TopN(n); got != "" {
			t.Fatalf("TopN(%d) = %q, want empty", n, got)
		}
	}
}
