package engine

import (
	"strings"

	gm "goosecore/goosemg"
)

// PVLine is a principal variation collected on the way back up the search.
type PVLine struct {
	Moves []gm.Move
}

// Clear truncates the line in place.
func (pv *PVLine) Clear() { pv.Moves = pv.Moves[:0] }

// Update sets the line to move followed by the child's line.
func (pv *PVLine) Update(move gm.Move, child PVLine) {
	pv.Clear()
	pv.Moves = append(pv.Moves, move)
	pv.Moves = append(pv.Moves, child.Moves...)
}

// GetPVMove returns the first move of the line, or 0 when empty.
func (pv *PVLine) GetPVMove() gm.Move {
	if len(pv.Moves) == 0 {
		return 0
	}
	return pv.Moves[0]
}

// Clone deep-copies the line.
func (pv *PVLine) Clone() PVLine {
	return PVLine{Moves: append([]gm.Move(nil), pv.Moves...)}
}

// String renders the line in coordinate notation.
func (pv *PVLine) String() string {
	var sb strings.Builder
	for i, m := range pv.Moves {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}
