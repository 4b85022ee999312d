package engine

import (
	"sort"

	gm "goosecore/goosemg"
)

// Move picker stages. The picker is lazy: each generation/scoring step runs
// only when the previous stage is exhausted.
const (
	stageTT = iota
	stageGenCaptures
	stageGoodCaptures
	stageKiller1
	stageKiller2
	stageCounter
	stageGenQuiets
	stageQuiets
	stageBadCaptures
	stageDone
)

type scoredMove struct {
	move  gm.Move
	score int32
}

// MovePicker streams candidate moves in the staged order: TT move, winning
// captures by SEE + capture history, killers, counter move, quiets by
// combined histories, losing captures. It never restarts; callers that set
// skipQuiets mid-iteration silently lose the remaining quiet moves.
type MovePicker struct {
	board *gm.Board
	hist  *HistoryTables

	ttMove   gm.Move
	killers  [2]gm.Move
	counter  gm.Move
	contHist [3]*PieceToHistory

	stage      int
	captures   []scoredMove
	bad        []scoredMove
	quiets     []scoredMove
	idx        int
	skipQuiets bool

	// Quiescence mode: captures (and optionally quiet checks) only.
	qsearch  bool
	qsChecks bool

	// In check, only generated moves are trustworthy: the make-move
	// legality gate assumes generated-legal input for non-evasions.
	inCheck bool
}

// NewMovePicker prepares a picker for a main-search node.
func NewMovePicker(b *gm.Board, hist *HistoryTables, ttMove gm.Move, killers [2]gm.Move, counter gm.Move, contHist [3]*PieceToHistory) *MovePicker {
	return &MovePicker{
		board:    b,
		hist:     hist,
		ttMove:   ttMove,
		killers:  killers,
		counter:  counter,
		contHist: contHist,
		stage:    stageTT,
		inCheck:  b.OurKingInCheck(),
	}
}

// NewQMovePicker prepares a picker for quiescence. When withChecks is set,
// quiet checking moves are appended after the captures run out.
func NewQMovePicker(b *gm.Board, hist *HistoryTables, ttMove gm.Move, withChecks bool) *MovePicker {
	return &MovePicker{
		board:    b,
		hist:     hist,
		ttMove:   ttMove,
		stage:    stageTT,
		qsearch:  true,
		qsChecks: withChecks,
		inCheck:  b.OurKingInCheck(),
	}
}

// SkipQuiets drops all not-yet-yielded quiet moves.
func (mp *MovePicker) SkipQuiets() { mp.skipQuiets = true }

// ttMoveUsable checks that the TT move is at least structurally consistent
// with the board before we hand it out ahead of generation. Full legality
// is settled by MakeMove in the search loop.
func (mp *MovePicker) ttMoveUsable() bool {
	m := mp.ttMove
	if m == 0 || mp.inCheck {
		return false
	}
	moved := m.MovedPiece()
	if mp.board.PieceAt(m.From()) != moved {
		return false
	}
	if moved.Color() != mp.board.SideToMove() {
		return false
	}
	if m.Flags()&gm.FlagEnPassant != 0 {
		return mp.board.EnPassantSquare() == m.To()
	}
	if m.Flags()&gm.FlagCastle == 0 && mp.board.PieceAt(m.To()) != m.CapturedPiece() {
		return false
	}
	if mp.qsearch && !mp.qsChecks && m.CapturedPiece() == gm.NoPiece && m.PromotionPiece() == gm.NoPiece {
		return false
	}
	return true
}

func (mp *MovePicker) scoreCaptures(moves []gm.Move) {
	mp.captures = mp.captures[:0]
	for _, m := range moves {
		if m == mp.ttMove {
			if !mp.inCheck {
				continue // already yielded by the TT stage
			}
			// In check the TT stage stands down; keep the move, boosted to
			// the front of the evasions.
			mp.captures = append(mp.captures, scoredMove{m, 1 << 24})
			continue
		}
		seeVal := see(mp.board, m, false)
		sc := int32(seeVal)*16 + mp.hist.Capture(m)
		if !mp.qsearch && seeVal < 0 {
			mp.bad = append(mp.bad, scoredMove{m, sc})
			continue
		}
		mp.captures = append(mp.captures, scoredMove{m, sc})
	}
	sort.SliceStable(mp.captures, func(i, j int) bool {
		return mp.captures[i].score > mp.captures[j].score
	})
	sort.SliceStable(mp.bad, func(i, j int) bool {
		return mp.bad[i].score > mp.bad[j].score
	})
}

func (mp *MovePicker) scoreQuiets(moves []gm.Move) {
	mp.quiets = mp.quiets[:0]
	for _, m := range moves {
		if m == mp.ttMove {
			if !mp.inCheck {
				continue
			}
			mp.quiets = append(mp.quiets, scoredMove{m, 1 << 24})
			continue
		}
		if !mp.inCheck && (m == mp.killers[0] || m == mp.killers[1] || m == mp.counter) {
			continue
		}
		sc := mp.hist.Main(mp.board.Wtomove, m)
		piece := m.MovedPiece()
		to := m.To()
		for _, ch := range mp.contHist {
			if ch != nil {
				sc += int32(ch[piece][to])
			}
		}
		mp.quiets = append(mp.quiets, scoredMove{m, sc})
	}
	sort.SliceStable(mp.quiets, func(i, j int) bool {
		return mp.quiets[i].score > mp.quiets[j].score
	})
}

// quietCandidateOK vets a killer or counter move: it must be quiet, distinct
// from already-yielded specials, and sitting on a consistent board square.
func (mp *MovePicker) quietCandidateOK(m gm.Move, exclude ...gm.Move) bool {
	if m == 0 || m == mp.ttMove || mp.inCheck {
		return false
	}
	for _, x := range exclude {
		if m == x {
			return false
		}
	}
	if m.CapturedPiece() != gm.NoPiece || m.PromotionPiece() != gm.NoPiece {
		return false
	}
	moved := m.MovedPiece()
	if mp.board.PieceAt(m.From()) != moved || moved.Color() != mp.board.SideToMove() {
		return false
	}
	return mp.board.PieceAt(m.To()) == gm.NoPiece
}

// Next returns the next candidate move, or 0 when the sequence is
// exhausted. Returned moves still need a MakeMove legality check.
func (mp *MovePicker) Next() gm.Move {
	for {
		switch mp.stage {
		case stageTT:
			mp.stage = stageGenCaptures
			if mp.ttMoveUsable() {
				return mp.ttMove
			}

		case stageGenCaptures:
			mp.scoreCaptures(mp.board.GenerateCaptures())
			mp.idx = 0
			mp.stage = stageGoodCaptures

		case stageGoodCaptures:
			if mp.idx < len(mp.captures) {
				m := mp.captures[mp.idx].move
				mp.idx++
				return m
			}
			if mp.qsearch {
				if mp.qsChecks {
					mp.scoreQuiets(mp.board.GenerateChecks())
					mp.idx = 0
					mp.stage = stageQuiets
					continue
				}
				mp.stage = stageDone
				continue
			}
			mp.stage = stageKiller1

		case stageKiller1:
			mp.stage = stageKiller2
			if !mp.skipQuiets && mp.quietCandidateOK(mp.killers[0]) {
				return mp.killers[0]
			}

		case stageKiller2:
			mp.stage = stageCounter
			if !mp.skipQuiets && mp.quietCandidateOK(mp.killers[1], mp.killers[0]) {
				return mp.killers[1]
			}

		case stageCounter:
			mp.stage = stageGenQuiets
			if !mp.skipQuiets && mp.quietCandidateOK(mp.counter, mp.killers[0], mp.killers[1]) {
				return mp.counter
			}

		case stageGenQuiets:
			if mp.skipQuiets {
				mp.idx = 0
				mp.stage = stageBadCaptures
				continue
			}
			mp.scoreQuiets(mp.board.GenerateQuiets())
			mp.idx = 0
			mp.stage = stageQuiets

		case stageQuiets:
			if mp.skipQuiets {
				mp.idx = 0
				mp.stage = stageBadCaptures
				continue
			}
			if mp.idx < len(mp.quiets) {
				m := mp.quiets[mp.idx].move
				mp.idx++
				return m
			}
			mp.idx = 0
			mp.stage = stageBadCaptures

		case stageBadCaptures:
			if mp.qsearch {
				mp.stage = stageDone
				continue
			}
			if mp.idx < len(mp.bad) {
				m := mp.bad[mp.idx].move
				mp.idx++
				return m
			}
			mp.stage = stageDone

		default:
			return 0
		}
	}
}
