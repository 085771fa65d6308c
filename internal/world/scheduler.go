package world

// Scheduler spreads regeneration over ticks: with N chunks and a budget of
// ChunksPerFrame, chunk i gets a turn when tick % period == i/ChunksPerFrame
// where period = max(1, ceil(N/ChunksPerFrame)).
type Scheduler struct {
	ChunksPerFrame int
	// Continuous rebuilds a chunk on every turn instead of only when dirty.
	Continuous bool
}

func (s Scheduler) budget() int {
	return max(s.ChunksPerFrame, 1)
}

// Period is the number of ticks it takes every chunk to get one turn.
func (s Scheduler) Period(n int) int {
	b := s.budget()
	return max(1, (n+b-1)/b)
}

// Eligible reports whether chunk i of n has its turn on this tick.
func (s Scheduler) Eligible(i, n int, tick uint64) bool {
	if i < 0 || i >= n {
		return false
	}
	return tick%uint64(s.Period(n)) == uint64(i/s.budget())
}

// ShouldRebuild combines eligibility with the dirty flag.
func (s Scheduler) ShouldRebuild(i, n int, tick uint64, dirty bool) bool {
	return (dirty || s.Continuous) && s.Eligible(i, n, tick)
}
