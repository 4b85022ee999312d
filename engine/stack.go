package engine

import (
	gm "goosecore/goosemg"
)

// stackOffset is how many frames exist below ply 0, so the search can read
// continuation-history pointers for plies -1, -2 and -4 without branching.
const stackOffset = 4

// StackFrame carries the per-ply search state. Frames are slots in a
// thread-owned array indexed by ply+stackOffset.
type StackFrame struct {
	currentMove  gm.Move
	excludedMove gm.Move
	movedPiece   gm.Piece
	contHist     *PieceToHistory
	staticEval   int32
	statScore    int32
	moveCount    int
	ply          int
	inCheck      bool
	nullMove     bool
}

// newSearchStack allocates the frame array, including the frames below the
// root and a few above MaxPly so extensions never index out of bounds.
func newSearchStack() []StackFrame {
	stack := make([]StackFrame, MaxPly+stackOffset+3)
	for i := range stack {
		stack[i].ply = i - stackOffset
	}
	return stack
}

// frame returns the stack slot for the given ply.
func (s *Searcher) frame(ply int) *StackFrame {
	return &s.stack[ply+stackOffset]
}

// resetStack clears move bookkeeping while keeping the slots themselves.
func (s *Searcher) resetStack() {
	for i := range s.stack {
		s.stack[i] = StackFrame{ply: i - stackOffset}
	}
}
