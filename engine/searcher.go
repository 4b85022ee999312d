package engine

import (
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	gm "goosecore/goosemg"
)

// RootMove is one candidate at the root with its collated result.
type RootMove struct {
	Move      gm.Move
	Score     int32
	PrevScore int32
	SelDepth  int
	PV        []gm.Move
}

// repState is one entry of the per-thread position history used for draw
// and repetition detection.
type repState struct {
	hash   uint64
	rule50 int
}

// Searcher is one worker thread: a private copy of the root position and
// stack, private histories, and a reference to the shared engine state. The
// only cross-thread traffic is the TT, the stop flag and the node counter.
type Searcher struct {
	id  int
	eng *Engine

	board  gm.Board
	stack  []StackFrame
	hist   HistoryTables
	killer Killers

	rep        []repState
	rootIndex  int

	rootMoves []RootMove
	rootDepth int
	pvIdx     int

	completedDepth int
	selDepth       int
	nodes          uint64

	// Recursive null-move ban: no null move for nmpColor while below
	// nmpMinPly.
	nmpMinPly int
	nmpColor  gm.Color

	limits Limits
}

func newSearcher(id int, e *Engine) *Searcher {
	s := &Searcher{
		id:         id,
		eng:        e,
		stack:      newSearchStack(),
		rep:        make([]repState, 0, 512),
	}
	return s
}

func (s *Searcher) mainThread() bool { return s.id == 0 }

// prepare resets the per-search state and seeds the root move list.
func (s *Searcher) prepare(board *gm.Board, history []uint64, limits Limits) {
	s.board = *board
	s.limits = limits
	s.resetStack()
	s.hist.Decay()
	s.killer.clear()
	atomic.StoreUint64(&s.nodes, 0)
	s.completedDepth = 0
	s.selDepth = 0
	s.nmpMinPly = 0
	s.rootDepth = 0

	// Seed repetition tracking with the game so far; everything before the
	// root counts once, positions inside the search tree count directly.
	s.rep = s.rep[:0]
	for _, h := range history {
		s.rep = append(s.rep, repState{hash: h})
	}
	if n := len(s.rep); n == 0 || s.rep[n-1].hash != board.Hash() {
		s.rep = append(s.rep, repState{hash: board.Hash(), rule50: board.HalfmoveClock()})
	} else {
		s.rep[n-1].rule50 = board.HalfmoveClock()
	}
	s.rootIndex = len(s.rep) - 1

	s.rootMoves = s.rootMoves[:0]
	for _, m := range board.GenerateLegalMoves() {
		if len(limits.SearchMoves) > 0 && !containsMove(limits.SearchMoves, m) {
			continue
		}
		s.rootMoves = append(s.rootMoves, RootMove{Move: m, Score: -ValueInfinite, PrevScore: -ValueInfinite})
	}
}

func containsMove(list []gm.Move, m gm.Move) bool {
	for _, x := range list {
		if x == m {
			return true
		}
	}
	return false
}

// Worker depth skipping for Lazy SMP: thread i skips iterations according
// to a small phase table so the pool spreads over neighbouring depths.
var skipSize = [20]int{1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 3, 3, 4, 4, 4, 4, 4, 4, 4, 4}
var skipPhase = [20]int{0, 1, 0, 1, 2, 3, 0, 1, 2, 3, 4, 5, 0, 1, 2, 3, 4, 5, 6, 7}

// iterate is the per-thread iterative-deepening loop.
func (s *Searcher) iterate() {
	if len(s.rootMoves) == 0 {
		return
	}

	e := s.eng
	multiPV := e.Options.MultiPV
	if multiPV > len(s.rootMoves) {
		multiPV = len(s.rootMoves)
	}

	maxDepth := MaxPly - 1
	if s.limits.Depth > 0 && s.limits.Depth < maxDepth {
		maxDepth = s.limits.Depth
	}

	gamePly := s.board.FullmoveNumber() * 2

	for s.rootDepth = 1; s.rootDepth <= maxDepth; s.rootDepth++ {
		if e.Stopped() {
			break
		}

		// Helper threads hop over depths the table assigns away from them.
		if !s.mainThread() {
			idx := (s.id - 1) % 20
			if ((s.rootDepth+gamePly+skipPhase[idx])/skipSize[idx])%2 == 1 {
				continue
			}
		}

		for i := range s.rootMoves {
			s.rootMoves[i].PrevScore = s.rootMoves[i].Score
		}

		for s.pvIdx = 0; s.pvIdx < multiPV && !e.Stopped(); s.pvIdx++ {
			s.selDepth = 0
			s.aspirationSearch()
			// Stable sort: moves already searched this iteration float in
			// front of the pending ones, ties keep their order.
			sort.SliceStable(s.rootMoves[s.pvIdx:], func(a, b int) bool {
				return s.rootMoves[s.pvIdx+a].Score > s.rootMoves[s.pvIdx+b].Score
			})
			if s.mainThread() && !e.Stopped() {
				s.printPV(s.rootDepth, multiPV)
			}
		}

		if e.Stopped() {
			break
		}
		s.completedDepth = s.rootDepth

		if !s.mainThread() {
			continue
		}

		best := s.rootMoves[0]

		// Mate limit: stop once the requested mate is proven.
		if s.limits.Mate > 0 && best.Score >= ValueMate-int32(2*s.limits.Mate) {
			e.Stop()
			break
		}

		if s.limits.UseClock() && !e.ponder.Load() {
			e.Time.UpdateStability(uint32(best.Move))
			drawish := abs32(best.Score) < 30
			if e.Time.ShouldStop(drawish) {
				e.Stop()
				break
			}
		} else if s.limits.UseClock() && e.ponder.Load() {
			e.Time.UpdateStability(uint32(best.Move))
			if e.Time.ShouldStop(false) {
				// Do not stop a ponder search on time; remember to stop the
				// moment the ponder hit converts it.
				e.stopOnPonderhit.Store(true)
			}
		}
	}

	// An infinite or ponder search must not produce bestmove until the GUI
	// says stop (or the ponder move is confirmed); park until then.
	if s.mainThread() {
		for (s.limits.Infinite || e.ponder.Load()) && !e.Stopped() {
			time.Sleep(time.Millisecond)
		}
		e.Stop()
	}
}

// aspirationSearch runs one root search for the rootMoves[pvIdx] line,
// starting from a narrow window around the previous score once the search
// is deep enough to trust it.
func (s *Searcher) aspirationSearch() {
	alpha, beta := -ValueInfinite, ValueInfinite
	var delta int32 = 18
	prev := s.rootMoves[s.pvIdx].PrevScore
	if s.rootDepth >= 5 && prev > -ValueInfinite {
		alpha = Max32(prev-delta, -ValueInfinite)
		beta = Min32(prev+delta, ValueInfinite)
	}

	depth := s.rootDepth
	for {
		score := s.searchRoot(alpha, beta, int8(depth))
		if s.eng.Stopped() {
			return
		}

		if score <= alpha {
			// Fail low: widen downward, pull beta toward the score.
			beta = (alpha + beta) / 2
			alpha = Max32(score-delta, -ValueInfinite)
		} else if score >= beta {
			beta = Min32(score+delta, ValueInfinite)
		} else {
			return
		}
		delta += delta/4 + 5
	}
}

// searchRoot is the ply-0 move loop: a PV search over the root moves from
// pvIdx onward, collating scores and lines into rootMoves.
func (s *Searcher) searchRoot(alpha, beta int32, depth int8) int32 {
	b := &s.board
	frame := s.frame(0)
	frame.inCheck = b.OurKingInCheck()
	frame.staticEval = ValueNone
	frame.currentMove = 0
	frame.contHist = nil

	var pvLine, childPV PVLine
	bestScore := -ValueInfinite
	moveCount := 0

	// Search the PV candidate of this MultiPV round first, then the rest
	// in their sorted order.
	for i := s.pvIdx; i < len(s.rootMoves); i++ {
		rm := &s.rootMoves[i]
		move := rm.Move

		ok, st := b.MakeMove(move)
		if !ok {
			continue
		}
		moveCount++
		frame.moveCount = moveCount
		frame.currentMove = move
		frame.movedPiece = move.MovedPiece()
		frame.contHist = s.hist.ContTable(move.MovedPiece(), move.To())
		s.pushPosition()

		newDepth := depth - 1
		var score int32
		if moveCount == 1 {
			score = -s.search(-beta, -alpha, newDepth, 1, &childPV, false)
		} else {
			reduction := int8(0)
			if depth >= 3 && moveCount > 3 && !frame.inCheck && move.CapturedPiece() == gm.NoPiece {
				reduction = reductionFor(true, false, depth, moveCount)
			}
			score = -s.search(-(alpha + 1), -alpha, newDepth-reduction, 1, &childPV, true)
			if score > alpha && reduction > 0 {
				score = -s.search(-(alpha+1), -alpha, newDepth, 1, &childPV, true)
			}
			if score > alpha && score < beta {
				score = -s.search(-beta, -alpha, newDepth, 1, &childPV, false)
			}
		}

		s.popPosition()
		b.UnmakeMove(move, st)

		if s.eng.Stopped() {
			return 0
		}

		if score > bestScore {
			bestScore = score
		}
		if score > alpha {
			alpha = score
			rm.Score = score
			rm.SelDepth = s.selDepth
			pvLine.Update(move, childPV)
			rm.PV = append(rm.PV[:0], pvLine.Moves...)
			if alpha >= beta {
				break
			}
		} else if moveCount > 1 {
			// Keep unsearched/fail-low moves behind the PV in the sort.
			rm.Score = -ValueInfinite
		}
		childPV.Clear()
	}

	if moveCount == 0 {
		if frame.inCheck {
			return matedIn(0)
		}
		return ValueDraw
	}
	return bestScore
}

// printPV emits the "info ..." lines for the completed iteration.
func (s *Searcher) printPV(depth, multiPV int) {
	e := s.eng
	nodes := e.Nodes()
	elapsed := e.Time.Elapsed().Milliseconds()
	if elapsed < 1 {
		elapsed = 1
	}
	nps := nodes * 1000 / uint64(elapsed)

	// Only lines searched in this round carry a fresh score.
	lines := s.pvIdx + 1
	if lines > multiPV {
		lines = multiPV
	}
	for k := 0; k < lines; k++ {
		rm := &s.rootMoves[k]
		score := rm.Score
		bound := ""
		if score == -ValueInfinite {
			score = rm.PrevScore
			bound = " upperbound"
		}
		line := fmt.Sprintf("info depth %d seldepth %d multipv %d score %s%s nodes %d nps %d hashfull %d time %d pv %s",
			depth, rm.SelDepth, k+1, formatScore(score), bound, nodes, nps, e.TT.Hashfull(), elapsed, pvString(rm))
		writeLine(e.Out, line)
	}
}

func pvString(rm *RootMove) string {
	if len(rm.PV) == 0 {
		return rm.Move.String()
	}
	pv := PVLine{Moves: rm.PV}
	return pv.String()
}

// formatScore renders a value as "cp N" or "mate N" per the protocol.
func formatScore(v int32) string {
	if v >= ValueMateInMaxPly {
		return fmt.Sprintf("mate %d", (ValueMate-v+1)/2)
	}
	if v <= ValueMatedInMaxPly {
		return fmt.Sprintf("mate %d", -(ValueMate+v+1)/2)
	}
	return fmt.Sprintf("cp %d", v)
}

/* ============= POSITION HISTORY / DRAW DETECTION ============= */

// pushPosition records the position reached after a move (null moves
// included: they change the hash but keep the rule-50 window running).
func (s *Searcher) pushPosition() {
	s.rep = append(s.rep, repState{hash: s.board.Hash(), rule50: s.board.HalfmoveClock()})
}

func (s *Searcher) popPosition() {
	s.rep = s.rep[:len(s.rep)-1]
}

// isDraw reports fifty-move and repetition draws. A single repetition
// inside the search tree (after the root) is already scored as a draw; a
// repetition of a pre-root position needs a second visit.
func (s *Searcher) isDraw() bool {
	n := len(s.rep)
	if n == 0 {
		return false
	}
	curr := s.rep[n-1]
	if curr.rule50 >= 100 {
		return true
	}
	count := 0
	start := n - 1 - curr.rule50
	if start < 0 {
		start = 0
	}
	// Same side to move: step back two at a time.
	for i := n - 3; i >= start; i -= 2 {
		if s.rep[i].hash == curr.hash {
			count++
			if i >= s.rootIndex || count >= 2 {
				return true
			}
		}
	}
	return false
}

func Min32(x, y int32) int32 {
	if x < y {
		return x
	}
	return y
}
