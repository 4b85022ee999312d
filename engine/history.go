package engine

import (
	gm "goosecore/goosemg"
)

const maxHistory = 16384

// pieceSlots covers every Piece code (0..14) so piece-indexed tables can be
// addressed without remapping.
const pieceSlots = 15

// PieceToHistory is one continuation-history table: how well a
// [piece][to-square] pair has done after some earlier move.
type PieceToHistory [pieceSlots][64]int16

// HistoryTables holds every per-thread move-ordering statistic. Between
// searches they are decayed rather than cleared so a ponder hit or the next
// move of the same game keeps its ordering knowledge.
type HistoryTables struct {
	// Butterfly history: [side][from][to].
	main [2][64][64]int16

	// Capture history: [moved piece][to][captured type].
	capture [pieceSlots][64][7]int16

	// Continuation history grid: entry [piece][to] is the table consulted
	// by moves following a move of that piece to that square.
	continuation [pieceSlots][64]PieceToHistory

	// Counter moves: [piece on previous to-square][previous to-square].
	counter [pieceSlots][64]gm.Move
}

// statBonus is the depth-scaled history adjustment used on cutoffs.
func statBonus(depth int8) int32 {
	d := int32(depth)
	if d > 17 {
		return 0
	}
	return d*d + 2*d - 2
}

// gravity applies the bounded history update h += bonus - h*|bonus|/max,
// which saturates smoothly at ±maxHistory.
func gravity(h *int16, bonus int32) {
	abs := bonus
	if abs < 0 {
		abs = -abs
	}
	v := int32(*h) + bonus - int32(*h)*abs/maxHistory
	if v > maxHistory {
		v = maxHistory
	}
	if v < -maxHistory {
		v = -maxHistory
	}
	*h = int16(v)
}

func sideIndex(whiteToMove bool) int {
	if whiteToMove {
		return 0
	}
	return 1
}

// Main returns the butterfly history score of a quiet move.
func (h *HistoryTables) Main(whiteToMove bool, m gm.Move) int32 {
	return int32(h.main[sideIndex(whiteToMove)][m.From()][m.To()])
}

func (h *HistoryTables) updateMain(whiteToMove bool, m gm.Move, bonus int32) {
	gravity(&h.main[sideIndex(whiteToMove)][m.From()][m.To()], bonus)
}

// Capture returns the capture-history score of a capturing move.
func (h *HistoryTables) Capture(m gm.Move) int32 {
	return int32(h.capture[m.MovedPiece()][m.To()][m.CapturedPiece().Type()])
}

func (h *HistoryTables) updateCapture(m gm.Move, bonus int32) {
	gravity(&h.capture[m.MovedPiece()][m.To()][m.CapturedPiece().Type()], bonus)
}

// ContTable returns the continuation-history table keyed by a played move,
// for the frames that follow it.
func (h *HistoryTables) ContTable(piece gm.Piece, to gm.Square) *PieceToHistory {
	return &h.continuation[piece][to]
}

func updateContinuation(table *PieceToHistory, piece gm.Piece, to gm.Square, bonus int32) {
	if table == nil {
		return
	}
	gravity(&table[piece][to], bonus)
}

// setCounter records move as the refutation of the move that put prevPiece on
// prevTo.
func (h *HistoryTables) setCounter(prevPiece gm.Piece, prevTo gm.Square, move gm.Move) {
	h.counter[prevPiece][prevTo] = move
}

// CounterFor returns the stored counter to the previous move, or 0.
func (h *HistoryTables) CounterFor(prevPiece gm.Piece, prevTo gm.Square) gm.Move {
	if prevTo < 0 {
		return 0
	}
	return h.counter[prevPiece][prevTo]
}

// Decay halves everything, keeping direction but forgetting magnitude.
// Called between searches; a full clear would throw away ordering knowledge
// the next search can still use.
func (h *HistoryTables) Decay() {
	for s := range h.main {
		for f := range h.main[s] {
			for t := range h.main[s][f] {
				h.main[s][f][t] /= 2
			}
		}
	}
	for p := range h.capture {
		for t := range h.capture[p] {
			for c := range h.capture[p][t] {
				h.capture[p][t][c] /= 2
			}
		}
	}
	for p := range h.continuation {
		for t := range h.continuation[p] {
			for pp := range h.continuation[p][t] {
				for tt := range h.continuation[p][t][pp] {
					h.continuation[p][t][pp][tt] /= 2
				}
			}
		}
	}
}

// Clear wipes all tables, for ucinewgame.
func (h *HistoryTables) Clear() {
	*h = HistoryTables{}
}

// Killers are the two most recent quiet cutoff moves per ply.
type Killers [MaxPly + 2][2]gm.Move

func (k *Killers) insert(ply int, move gm.Move) {
	if k[ply][0] != move {
		k[ply][1] = k[ply][0]
		k[ply][0] = move
	}
}

func (k *Killers) clear() {
	*k = Killers{}
}
