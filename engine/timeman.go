package engine

import (
	"time"
)

// TimeManager turns the GUI's clock into two budgets: optimum, the time we
// aim to spend on a normal move, and maximum, the hard ceiling. The driver
// stretches or shrinks optimum by PV-stability factors; maximum is only
// ever undercut by the 10ms reserve for getting bestmove onto the wire.
type TimeManager struct {
	start   time.Time
	optimum time.Duration
	maximum time.Duration

	// forced is set for movetime searches: no early exit, stop exactly at
	// the budget.
	forced bool

	// Stability bookkeeping fed by the driver.
	bestMoveChanges float64
	stableIters     int
	lastBest        uint32
}

const moveOverhead = 10 * time.Millisecond

// StartFixed arms the manager for a movetime search.
func (tm *TimeManager) StartFixed(moveTime time.Duration) {
	tm.start = time.Now()
	tm.optimum = moveTime - moveOverhead
	tm.maximum = moveTime - moveOverhead
	if tm.optimum < time.Millisecond {
		tm.optimum = time.Millisecond
		tm.maximum = time.Millisecond
	}
	tm.forced = true
	tm.resetStability()
}

// Start computes budgets from remaining time, increment and moves-to-go.
// The phase estimate stands in for "how much game is left" the same way the
// full-move counter did before it: with many pieces on the board we still
// expect dozens of moves.
func (tm *TimeManager) Start(remaining, increment time.Duration, movesToGo, phase int) {
	tm.start = time.Now()
	tm.forced = false
	tm.resetStability()

	if remaining <= 0 {
		tm.optimum = 5 * time.Millisecond
		tm.maximum = 5 * time.Millisecond
		return
	}

	mtg := movesToGo
	if mtg <= 0 {
		// Interpolate expected moves left from phase: 20 in the endgame up
		// to 45 with everything on the board.
		mtg = (phase*25)/TotalPhase + 20
	}
	if mtg > 50 {
		mtg = 50
	}

	slice := remaining/time.Duration(mtg) + increment*3/4
	tm.optimum = slice
	tm.maximum = slice * 4
	if tm.maximum > remaining*7/10 {
		tm.maximum = remaining * 7 / 10
	}
	if tm.optimum > tm.maximum {
		tm.optimum = tm.maximum
	}
	if tm.optimum < time.Millisecond {
		tm.optimum = time.Millisecond
	}
	if tm.maximum < time.Millisecond {
		tm.maximum = time.Millisecond
	}
}

func (tm *TimeManager) resetStability() {
	tm.bestMoveChanges = 0
	tm.stableIters = 0
	tm.lastBest = 0
}

// Elapsed is the wall time since Start.
func (tm *TimeManager) Elapsed() time.Duration { return time.Since(tm.start) }

// UpdateStability records the iteration's best move so the stop decision
// can reward a PV that has settled and distrust one that keeps flipping.
func (tm *TimeManager) UpdateStability(best uint32) {
	if best == tm.lastBest {
		tm.stableIters++
	} else {
		tm.stableIters = 0
		tm.bestMoveChanges++
	}
	tm.lastBest = best
	// Fade old instability so one early flip doesn't haunt the whole search.
	tm.bestMoveChanges *= 0.9
}

// ShouldStop decides the soft termination after a completed iteration.
// drawish widens the budget: a dead-equal score is exactly when another
// iteration may find something.
func (tm *TimeManager) ShouldStop(drawish bool) bool {
	if tm.forced {
		return tm.Elapsed() >= tm.optimum
	}

	unstable := 1.0 + tm.bestMoveChanges
	if drawish {
		unstable += 0.2
	}

	// A best move unchanged for 3, 4, 5+ iterations cuts the budget by 1.3
	// per threshold reached.
	reduction := 1.0
	for _, thresh := range [3]int{3, 4, 5} {
		if tm.stableIters >= thresh {
			reduction *= 1.3
		}
	}

	budget := time.Duration(float64(tm.optimum) * unstable / reduction)
	if budget > tm.maximum {
		budget = tm.maximum
	}
	return tm.Elapsed() > budget
}

// HardStop is the in-search cutoff polled on the node counter: never run
// past maximum less the output reserve.
func (tm *TimeManager) HardStop() bool {
	return tm.Elapsed() >= tm.maximum-moveOverhead || (tm.forced && tm.Elapsed() >= tm.optimum)
}
