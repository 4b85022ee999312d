package engine

import (
	"math"
	"sync/atomic"

	gm "goosecore/goosemg"
)

// Search tuning constants. Reduction divisors and margins follow the hand
// tuning this search family converged on; change them only with games.
const (
	razorMargin    = 600
	futilitySlope  = 150
	probCutDepth   = 5
	probCutMargin  = 200
	iidMinDepth    = 6
	singularDepth  = 8
	lmrMinDepth    = 3
	qsCheckDepth   = 0 // quiescence generates checks at depth >= this
	seeQuietScale  = 35
	statScoreDenom = 20000
)

// Reductions is the late-move reduction table, indexed by [pv][improving]
// [depth][moveCount].
var Reductions [2][2][64][64]int8

// FutilityMoveCounts holds the move-count pruning bounds by [improving][depth].
var FutilityMoveCounts [2][16]int

func init() {
	for d := 1; d < 64; d++ {
		for mc := 1; mc < 64; mc++ {
			r := math.Log(float64(d)) * math.Log(float64(mc)) / 1.95
			Reductions[0][0][d][mc] = int8(math.Round(r))
			Reductions[0][1][d][mc] = int8(math.Round(r))
			Reductions[1][0][d][mc] = int8(Max(int(math.Round(r))-1, 0))
			Reductions[1][1][d][mc] = int8(Max(int(math.Round(r))-1, 0))
			// Not improving: reduce a bit more at non-PV nodes.
			if r > 1.0 {
				Reductions[0][0][d][mc]++
			}
		}
	}
	for d := 0; d < 16; d++ {
		FutilityMoveCounts[0][d] = int(2.4 + 0.74*math.Pow(float64(d), 1.78))
		FutilityMoveCounts[1][d] = int(5.0 + 1.0*math.Pow(float64(d), 2.0))
	}
}

func reductionFor(pv, improving bool, depth int8, moveCount int) int8 {
	p, i := 0, 0
	if pv {
		p = 1
	}
	if improving {
		i = 1
	}
	return Reductions[p][i][Min(int(depth), 63)][Min(moveCount, 63)]
}

// futilityMargin is the reverse-futility margin by depth.
func futilityMargin(depth int8) int32 { return futilitySlope * int32(depth) }

// checkTime is the main thread's node-batched clock poll.
func (s *Searcher) checkTime() {
	if !s.mainThread() {
		return
	}
	interval := uint64(4096)
	if s.limits.Nodes > 0 {
		if alt := s.limits.Nodes / 1024; alt < interval && alt > 0 {
			interval = alt
		}
	}
	n := atomic.LoadUint64(&s.nodes)
	if n%interval != 0 {
		return
	}
	if s.limits.Nodes > 0 && s.eng.Nodes() >= s.limits.Nodes {
		s.eng.Stop()
		return
	}
	if s.limits.UseClock() && !s.eng.ponder.Load() && s.eng.Time.HardStop() {
		s.eng.Stop()
	}
}

// search is the recursive negamax. The window contract is the usual
// bracket semantics: a return <= alpha is an upper bound, >= beta a lower
// bound, anything between is exact. Non-PV callers always pass a null
// window (beta == alpha+1).
func (s *Searcher) search(alpha, beta int32, depth int8, ply int, pvLine *PVLine, cutNode bool) int32 {
	b := &s.board
	e := s.eng

	isPV := beta-alpha > 1
	frame := s.frame(ply)
	frame.moveCount = 0

	atomic.AddUint64(&s.nodes, 1)
	s.checkTime()
	if e.Stopped() {
		return 0
	}
	if ply > s.selDepth {
		s.selDepth = ply
	}

	inCheck := b.OurKingInCheck()
	frame.inCheck = inCheck

	// Step 1: draw and ceiling checks.
	if ply >= MaxPly {
		if inCheck {
			return ValueDraw
		}
		return s.evaluate()
	}
	if s.isDraw() {
		return ValueDraw
	}

	// Quiescence takes over at the horizon.
	if depth <= 0 {
		return s.quiescence(alpha, beta, 0, ply, pvLine)
	}

	// Step 2: mate distance pruning. No line from here can be better than
	// mating next move or worse than being mated on the spot.
	alpha = Max32(alpha, matedIn(ply))
	beta = Min32(beta, mateIn(ply+1))
	if alpha >= beta {
		return alpha
	}

	excluded := frame.excludedMove
	posKey := b.Hash()

	// Step 3: transposition table probe. The exclusion key of a singular
	// verification search must not collide with the parent's entry.
	probeKey := posKey
	if excluded != 0 {
		probeKey ^= uint64(excluded) * 0x9E3779B97F4A7C15
	}
	ttEntry, ttHit := e.TT.Probe(probeKey)
	var ttMove gm.Move
	var ttValue int32 = ValueNone
	if ttHit {
		ttMove = ttEntry.Move
		ttValue = valueFromTT(ttEntry.Value, ply)
	}

	if !isPV && ttHit && ttEntry.Depth >= depth && ttValue != ValueNone {
		bound := ttEntry.Bound()
		usable := bound&BoundUpper != 0
		if ttValue >= beta {
			usable = bound&BoundLower != 0
		}
		if usable {
			// Refresh quiet-move ordering on confirmed cutoffs.
			if ttMove != 0 && ttValue >= beta && ttMove.CapturedPiece() == gm.NoPiece {
				s.updateQuietStats(ply, ttMove, nil, statBonus(depth))
			}
			return ttValue
		}
	}

	// Step 4: static evaluation.
	var staticEval int32
	if inCheck {
		staticEval = ValueNone
		frame.staticEval = staticEval
	} else {
		if ttHit && ttEntry.Eval != 0 {
			staticEval = int32(ttEntry.Eval)
		} else if s.frame(ply - 1).nullMove {
			// The null move flipped the side; the previous eval serves with
			// the sign flipped and two tempi restored.
			staticEval = -s.frame(ply-1).staticEval + 2*int32(TempoBonus)
		} else {
			staticEval = s.evaluate()
		}
		frame.staticEval = staticEval
	}

	improving := !inCheck && ply >= 2 && frame.staticEval >= s.frame(ply-2).staticEval

	// Step 5: razoring. A hopeless eval near the horizon drops straight
	// into quiescence with a tight window.
	if !isPV && !inCheck && depth < 4 && staticEval+razorMargin <= alpha {
		rAlpha := alpha - razorMargin
		var discardPV PVLine
		v := s.quiescence(rAlpha, rAlpha+1, 0, ply, &discardPV)
		if v <= rAlpha {
			return v
		}
	}

	// Step 6: reverse futility pruning.
	if !isPV && !inCheck && depth < 7 && excluded == 0 &&
		staticEval-futilityMargin(depth) >= beta && staticEval < ValueKnownWin &&
		hasNonPawnMaterial(b) {
		return staticEval
	}

	// Step 7: null-move pruning, guarded against recursion by the same side
	// below nmpMinPly.
	if !isPV && !inCheck && excluded == 0 && !s.frame(ply-1).nullMove &&
		staticEval >= beta && sideHasPieces(b) &&
		(ply >= s.nmpMinPly || b.SideToMove() != s.nmpColor) {

		r := int8((823+67*int(depth))/256) + int8(Min32((staticEval-beta)/int32(pieceValueMG[gm.PieceTypePawn]), 3))

		frame.currentMove = 0
		frame.nullMove = true
		frame.contHist = nil
		st := b.MakeNullMove()
		s.pushPosition()

		var nullPV PVLine
		nullValue := -s.search(-beta, -beta+1, depth-r-1, ply+1, &nullPV, !cutNode)

		s.popPosition()
		b.UnmakeNullMove(st)
		frame.nullMove = false

		if nullValue >= beta && nullValue < ValueMateInMaxPly {
			if depth < 12 || s.nmpMinPly > 0 {
				return nullValue
			}
			// Verify at high depth with null moves banned for our side down
			// to a fraction of the reduced depth.
			s.nmpMinPly = ply + 3*int(depth-r)/4
			s.nmpColor = b.SideToMove()
			var verifyPV PVLine
			v := s.search(beta-1, beta, depth-r-1, ply, &verifyPV, false)
			s.nmpMinPly = 0
			if v >= beta {
				return nullValue
			}
		}
	}

	// Step 8: ProbCut. A capture that beats a raised beta in a shallow
	// search is very likely to hold at full depth.
	if !isPV && !inCheck && depth >= probCutDepth && excluded == 0 && abs32(beta) < ValueMateInMaxPly {
		rBeta := Min32(beta+probCutMargin, ValueInfinite)
		for _, m := range b.GenerateCaptures() {
			if m == ttMove && ttHit && int8(ttEntry.Depth) >= depth-4 && ttValue < rBeta {
				continue
			}
			if int32(see(b, m, false)) < rBeta-staticEval {
				continue
			}
			ok, st := b.MakeMove(m)
			if !ok {
				continue
			}
			frame.currentMove = m
			frame.movedPiece = m.MovedPiece()
			frame.contHist = s.hist.ContTable(m.MovedPiece(), m.To())
			s.pushPosition()

			var pcPV PVLine
			value := -s.quiescence(-rBeta, -rBeta+1, 0, ply+1, &pcPV)
			if value >= rBeta {
				value = -s.search(-rBeta, -rBeta+1, depth-4, ply+1, &pcPV, !cutNode)
			}

			s.popPosition()
			b.UnmakeMove(m, st)

			if value >= rBeta {
				return value
			}
		}
	}

	// Step 9: internal iterative deepening to find a move worth ordering
	// first when the TT has nothing.
	if ttMove == 0 && depth >= iidMinDepth && (isPV || staticEval+256 >= beta) {
		var iidPV PVLine
		s.search(alpha, beta, depth-depth/4-2, ply, &iidPV, cutNode)
		if iidEntry, ok := e.TT.Probe(probeKey); ok {
			ttMove = iidEntry.Move
		}
	}

	// Step 10: the move loop.
	prevFrame := s.frame(ply - 1)
	var counter gm.Move
	if prevFrame.currentMove != 0 {
		counter = s.hist.CounterFor(b.PieceAt(prevFrame.currentMove.To()), prevFrame.currentMove.To())
	}
	contHist := [3]*PieceToHistory{
		s.frame(ply - 1).contHist,
		s.frame(ply - 2).contHist,
		s.frame(ply - 4).contHist,
	}

	mp := NewMovePicker(b, &s.hist, ttMove, s.killer[ply], counter, contHist)

	var bestMove gm.Move
	bestValue := -ValueInfinite
	moveCount := 0
	ttBound := BoundUpper
	var childPV PVLine
	quietsTried := make([]gm.Move, 0, 32)
	capturesTried := make([]gm.Move, 0, 16)

	singularLMR := false

	for move := mp.Next(); move != 0; move = mp.Next() {
		if move == excluded {
			continue
		}

		isCapture := move.CapturedPiece() != gm.NoPiece || move.Flags()&gm.FlagEnPassant != 0
		isPromotion := move.PromotionPieceType() != gm.PieceTypeNone
		givesCheck := b.GivesCheck(move)
		quiet := !isCapture && !isPromotion

		// Shallow pruning for quiet moves once at least one line escapes a
		// mate score.
		if quiet && !givesCheck && bestValue > -ValueMateInMaxPly && !inCheck {
			lmrDepth := int(depth) - int(reductionFor(isPV, improving, depth, moveCount+1))
			if lmrDepth < 0 {
				lmrDepth = 0
			}

			// Move-count pruning.
			imp := 0
			if improving {
				imp = 1
			}
			if depth < 16 && moveCount+1 >= FutilityMoveCounts[imp][depth] {
				mp.SkipQuiets()
				continue
			}

			// Counter-move history: drop quiets both continuation tables
			// dislike.
			if lmrDepth < 3 &&
				contHistBelow(contHist[0], move, 0) &&
				contHistBelow(contHist[1], move, 0) {
				continue
			}

			// Parent-node futility.
			if lmrDepth < 7 && staticEval+int32(200*lmrDepth)+256 <= alpha {
				continue
			}

			// SEE pruning on quiets with a depth-squared threshold.
			if see(b, move, false) < -seeQuietScale*lmrDepth*lmrDepth {
				continue
			}
		} else if isCapture && bestValue > -ValueMateInMaxPly && depth < 7 && !inCheck {
			if see(b, move, false) < -int(pieceValueEG[gm.PieceTypePawn])*int(depth) {
				continue
			}
		}

		// Singular extension: the TT move gets one extra ply when every
		// alternative fails a lowered exclusion search.
		extension := int8(0)
		if move == ttMove && depth >= singularDepth && excluded == 0 &&
			ttHit && ttEntry.Bound()&BoundLower != 0 && int8(ttEntry.Depth) >= depth-3 &&
			abs32(ttValue) < ValueKnownWin && ply < 2*int(depth) {

			rBeta := Max32(ttValue-2*int32(depth), -ValueMate)
			frame.excludedMove = move
			var exclPV PVLine
			value := s.search(rBeta-1, rBeta, depth/2, ply, &exclPV, cutNode)
			frame.excludedMove = 0

			if value < rBeta {
				extension = 1
				singularLMR = true
			} else if rBeta >= beta {
				// The exclusion search itself refutes beta.
				return rBeta
			}
		} else if givesCheck && see(b, move, false) >= 0 {
			extension = 1
		}

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

		if quiet {
			quietsTried = append(quietsTried, move)
		} else if isCapture {
			capturesTried = append(capturesTried, move)
		}

		newDepth := depth - 1 + extension
		var value int32

		// Late-move reductions: a null-window probe at reduced depth, with
		// a full re-search only when it surprises us.
		if depth >= lmrMinDepth && moveCount > 1 && (quiet || cutNode) {
			r := reductionFor(isPV, improving, depth, moveCount)

			if ttHit && ttEntry.Bound() == BoundExact {
				r--
			}
			if prevFrame.moveCount > 15 {
				r--
			}
			if ttMove != 0 && ttMove.CapturedPiece() != gm.NoPiece {
				r++
			}
			if cutNode {
				r += 2
			}
			if singularLMR && move == ttMove {
				r--
			}
			if quiet {
				// Escaping a capture: the reverse move of a threatened
				// piece deserves more depth.
				if prevFrame.currentMove != 0 && prevFrame.currentMove.To() == move.From() &&
					prevFrame.currentMove.CapturedPiece() != gm.NoPiece {
					r -= 2
				}
				frame.statScore = s.hist.Main(!b.Wtomove, move) +
					contHistAt(contHist[0], move) + contHistAt(contHist[1], move) + contHistAt(contHist[2], move)
				r -= int8(frame.statScore / statScoreDenom)
			}
			if givesCheck || inCheck {
				r = 0
			}
			if r < 0 {
				r = 0
			}

			d := newDepth - r
			if d < 1 {
				d = 1
			}
			value = -s.search(-(alpha + 1), -alpha, d, ply+1, &childPV, true)
			if value > alpha && d < newDepth {
				value = -s.search(-(alpha+1), -alpha, newDepth, ply+1, &childPV, !cutNode)
			}
		} else if !isPV || moveCount > 1 {
			value = -s.search(-(alpha + 1), -alpha, newDepth, ply+1, &childPV, !cutNode)
		}

		// Full-window search for the first PV move and for null-window
		// surprises inside the window.
		if isPV && (moveCount == 1 || (value > alpha && value < beta)) {
			value = -s.search(-beta, -alpha, newDepth, ply+1, &childPV, false)
		}

		s.popPosition()
		b.UnmakeMove(move, st)

		if e.Stopped() {
			return 0
		}

		if value > bestValue {
			bestValue = value
			bestMove = move
		}
		if value > alpha {
			alpha = value
			ttBound = BoundExact
			if isPV {
				pvLine.Update(move, childPV)
			}
			if value >= beta {
				ttBound = BoundLower
				break
			}
		}
		childPV.Clear()
	}

	// Step 11: no legal move means mate or stalemate, or that everything
	// was excluded inside a singular verification search.
	if moveCount == 0 {
		if excluded != 0 {
			return alpha
		}
		if inCheck {
			return matedIn(ply)
		}
		return ValueDraw
	}

	// Step 12: histories and TT store.
	if bestMove != 0 && bestValue >= beta {
		bonus := statBonus(depth)
		if bestMove.CapturedPiece() == gm.NoPiece && bestMove.PromotionPieceType() == gm.PieceTypeNone {
			s.updateQuietStats(ply, bestMove, quietsTried, bonus)
		} else {
			s.hist.updateCapture(bestMove, bonus)
		}
		for _, m := range capturesTried {
			if m != bestMove {
				s.hist.updateCapture(m, -bonus)
			}
		}
	}

	if excluded == 0 && !e.Stopped() {
		storedEval := staticEval
		if storedEval == ValueNone {
			storedEval = 0
		}
		e.TT.Store(probeKey, bestValue, ttBound, depth, bestMove, storedEval, ply)
	}

	return bestValue
}

// contHistAt reads one continuation-history cell, tolerating nil frames.
func contHistAt(t *PieceToHistory, m gm.Move) int32 {
	if t == nil {
		return 0
	}
	return int32(t[m.MovedPiece()][m.To()])
}

func contHistBelow(t *PieceToHistory, m gm.Move, threshold int32) bool {
	return contHistAt(t, m) < threshold
}

// updateQuietStats installs a quiet cutoff move into the killers, counter
// table and all history tables, and punishes the quiets searched before it.
func (s *Searcher) updateQuietStats(ply int, move gm.Move, quietsTried []gm.Move, bonus int32) {
	s.killer.insert(ply, move)

	prev := s.frame(ply - 1).currentMove
	if prev != 0 {
		s.hist.setCounter(s.board.PieceAt(prev.To()), prev.To(), move)
	}

	white := s.board.Wtomove
	s.hist.updateMain(white, move, bonus)
	s.updateContinuations(ply, move.MovedPiece(), move.To(), bonus)

	for _, m := range quietsTried {
		if m == move {
			continue
		}
		s.hist.updateMain(white, m, -bonus)
		s.updateContinuations(ply, m.MovedPiece(), m.To(), -bonus)
	}
}

// updateContinuations feeds the tables hanging off the moves played 1, 2
// and 4 plies ago.
func (s *Searcher) updateContinuations(ply int, piece gm.Piece, to gm.Square, bonus int32) {
	for _, back := range [3]int{1, 2, 4} {
		f := s.frame(ply - back)
		if f.currentMove != 0 {
			updateContinuation(f.contHist, piece, to, bonus)
		}
	}
}

// quiescence resolves the horizon by searching captures, promotions and,
// right at the boundary, checking moves, with stand-pat as the floor.
func (s *Searcher) quiescence(alpha, beta int32, depth int8, ply int, pvLine *PVLine) int32 {
	b := &s.board
	e := s.eng

	atomic.AddUint64(&s.nodes, 1)
	s.checkTime()
	if e.Stopped() {
		return 0
	}

	if ply >= MaxPly {
		return s.evaluate()
	}
	if s.isDraw() {
		return ValueDraw
	}

	inCheck := b.OurKingInCheck()
	isPV := beta-alpha > 1

	// Two TT depths distinguish whether this node generated checks.
	ttDepth := DepthQSNoChecks
	withChecks := inCheck || depth >= qsCheckDepth
	if withChecks {
		ttDepth = DepthQSChecks
	}

	posKey := b.Hash()
	ttEntry, ttHit := e.TT.Probe(posKey)
	var ttMove gm.Move
	if ttHit {
		ttMove = ttEntry.Move
		ttValue := valueFromTT(ttEntry.Value, ply)
		if !isPV && ttEntry.Depth >= ttDepth && ttValue != ValueNone {
			bound := ttEntry.Bound()
			if bound == BoundExact ||
				(bound == BoundLower && ttValue >= beta) ||
				(bound == BoundUpper && ttValue <= alpha) {
				return ttValue
			}
		}
	}

	var bestValue, standPat int32
	if inCheck {
		bestValue = -ValueInfinite
		standPat = ValueNone
	} else {
		standPat = s.evaluate()
		bestValue = standPat
		if bestValue >= beta {
			if !ttHit {
				e.TT.Store(posKey, bestValue, BoundLower, ttDepth, 0, standPat, ply)
			}
			return bestValue
		}
		if bestValue > alpha {
			alpha = bestValue
		}
	}

	var bestMove gm.Move
	var childPV PVLine
	ttBound := BoundUpper
	moveCount := 0

	var mp *MovePicker
	if inCheck {
		// Evasions: use the full picker so every legal escape is tried.
		mp = NewMovePicker(b, &s.hist, ttMove, [2]gm.Move{}, 0, [3]*PieceToHistory{})
	} else {
		mp = NewQMovePicker(b, &s.hist, ttMove, withChecks)
	}

	for move := mp.Next(); move != 0; move = mp.Next() {
		isCapture := move.CapturedPiece() != gm.NoPiece || move.Flags()&gm.FlagEnPassant != 0

		if !inCheck && isCapture {
			// SEE pruning: losing trades cannot rescue a stand-pat fail-low.
			seeVal := see(b, move, false)
			if seeVal < 0 {
				continue
			}
			// Delta pruning: even the optimistic gain leaves alpha out of
			// reach.
			gain := int32(SeePieceValue[move.CapturedPiece().Type()])
			if move.PromotionPieceType() != gm.PieceTypeNone {
				gain += int32(SeePieceValue[move.PromotionPieceType()] - SeePieceValue[gm.PieceTypePawn])
			}
			if standPat+gain+200 < alpha {
				continue
			}
		} else if !inCheck && !isCapture && move.PromotionPieceType() == gm.PieceTypeNone {
			// Quiet checks only survive a non-negative SEE.
			if see(b, move, false) < 0 {
				continue
			}
		}

		ok, st := b.MakeMove(move)
		if !ok {
			continue
		}
		moveCount++
		s.frame(ply).currentMove = move
		s.frame(ply).contHist = s.hist.ContTable(move.MovedPiece(), move.To())
		s.pushPosition()

		value := -s.quiescence(-beta, -alpha, depth-1, ply+1, &childPV)

		s.popPosition()
		b.UnmakeMove(move, st)

		if value > bestValue {
			bestValue = value
			bestMove = move
		}
		if value > alpha {
			alpha = value
			ttBound = BoundExact
			if isPV {
				pvLine.Update(move, childPV)
			}
			if value >= beta {
				ttBound = BoundLower
				break
			}
		}
		childPV.Clear()
	}

	if inCheck && moveCount == 0 {
		return matedIn(ply)
	}

	if !e.Stopped() {
		storedEval := standPat
		if storedEval == ValueNone {
			storedEval = 0
		}
		e.TT.Store(posKey, bestValue, ttBound, ttDepth, bestMove, storedEval, ply)
	}
	return bestValue
}

/* ============= SMALL BOARD PREDICATES ============= */

// sideHasPieces reports whether the side to move still has non-pawn
// material, the null-move precondition.
func sideHasPieces(b *gm.Board) bool {
	if b.Wtomove {
		return b.White.Knights|b.White.Bishops|b.White.Rooks|b.White.Queens != 0
	}
	return b.Black.Knights|b.Black.Bishops|b.Black.Rooks|b.Black.Queens != 0
}

func hasNonPawnMaterial(b *gm.Board) bool {
	return b.White.Knights|b.White.Bishops|b.White.Rooks|b.White.Queens|
		b.Black.Knights|b.Black.Bishops|b.Black.Rooks|b.Black.Queens != 0
}
