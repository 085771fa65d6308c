package world

import "testing"

func TestSchedulerGivesEveryChunkOneTurnPerPeriod(t *testing.T) {
	tests := []struct {
		n, perFrame, period int
	}{
		{10, 4, 3},
		{8, 4, 2},
		{3, 10, 1},
		{1, 1, 1},
		{0, 4, 1},
	}
	for _, tt := range tests {
		s := Scheduler{ChunksPerFrame: tt.perFrame}
		if got := s.Period(tt.n); got != tt.period {
			t.Errorf("Period(%d) with %d per frame = %d, want %d", tt.n, tt.perFrame, got, tt.period)
		}
		for i := 0; i < tt.n; i++ {
			turns := 0
			for tick := uint64(0); tick < uint64(tt.period); tick++ {
				if s.Eligible(i, tt.n, tick) {
					turns++
				}
			}
			if turns != 1 {
				t.Errorf("n=%d perFrame=%d: chunk %d had %d turns in one period", tt.n, tt.perFrame, i, turns)
			}
		}
	}
}

func TestSchedulerRespectsBudget(t *testing.T) {
	s := Scheduler{ChunksPerFrame: 4}
	for tick := uint64(0); tick < 6; tick++ {
		count := 0
		for i := 0; i < 10; i++ {
			if s.Eligible(i, 10, tick) {
				count++
			}
		}
		if count > 4 {
			t.Errorf("tick %d: %d chunks eligible, budget is 4", tick, count)
		}
	}
	if !s.Eligible(9, 10, 2) || !s.Eligible(9, 10, 5) {
		t.Error("chunk 9 of 10 should be eligible on ticks 2 and 5")
	}
}

func TestSchedulerDirtyFlag(t *testing.T) {
	s := Scheduler{ChunksPerFrame: 1}
	if s.ShouldRebuild(0, 1, 0, false) {
		t.Error("clean chunk should not rebuild outside continuous mode")
	}
	if !s.ShouldRebuild(0, 1, 0, true) {
		t.Error("dirty chunk should rebuild on its turn")
	}
	s.Continuous = true
	if !s.ShouldRebuild(0, 1, 0, false) {
		t.Error("continuous mode rebuilds on every turn")
	}
	if s.ShouldRebuild(1, 2, 0, true) {
		t.Error("chunk 1 of 2 has its turn on odd ticks only")
	}
}

func TestZeroBudgetIsTreatedAsOne(t *testing.T) {
	s := Scheduler{}
	if s.Period(3) != 3 {
		t.Errorf("Period = %d, want 3", s.Period(3))
	}
}
