package engine

import (
	"testing"

	gm "goosecore/goosemg"
)

func collectMoves(mp *MovePicker) []gm.Move {
	var out []gm.Move
	for m := mp.Next(); m != 0; m = mp.Next() {
		out = append(out, m)
	}
	return out
}

func findByString(t *testing.T, b *gm.Board, s string) gm.Move {
	t.Helper()
	for _, m := range b.GenerateLegalMoves() {
		if m.String() == s {
			return m
		}
	}
	t.Fatalf("move %s not legal here", s)
	return 0
}

func TestPickerYieldsTTMoveFirst(t *testing.T) {
	board, err := gm.ParseFEN("r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	var hist HistoryTables
	tt := findByString(t, board, "f1c4")
	mp := NewMovePicker(board, &hist, tt, [2]gm.Move{}, 0, [3]*PieceToHistory{})
	moves := collectMoves(mp)
	if len(moves) == 0 || moves[0] != tt {
		t.Fatalf("TT move not first: got %v", moves[0].String())
	}
	// No duplicates.
	seen := map[gm.Move]bool{}
	for _, m := range moves {
		if seen[m] {
			t.Fatalf("move %s yielded twice", m.String())
		}
		seen[m] = true
	}
	if len(moves) != len(board.GenerateLegalMoves()) {
		t.Fatalf("picker yielded %d moves, board has %d", len(moves), len(board.GenerateLegalMoves()))
	}
}

func TestPickerGoodCapturesBeforeKillers(t *testing.T) {
	// White can win a pawn with exd5; a quiet killer must come later.
	board, err := gm.ParseFEN("rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	var hist HistoryTables
	capture := findByString(t, board, "e4d5")
	killer := findByString(t, board, "g1f3")
	mp := NewMovePicker(board, &hist, 0, [2]gm.Move{killer}, 0, [3]*PieceToHistory{})
	moves := collectMoves(mp)

	capIdx, kilIdx := -1, -1
	for i, m := range moves {
		if m == capture {
			capIdx = i
		}
		if m == killer {
			kilIdx = i
		}
	}
	if capIdx == -1 || kilIdx == -1 {
		t.Fatalf("capture or killer missing from %v", moves)
	}
	if capIdx > kilIdx {
		t.Fatalf("winning capture (%d) came after killer (%d)", capIdx, kilIdx)
	}
	// The killer must precede all plain quiets except itself.
	if kilIdx > 1 {
		t.Fatalf("killer too late in the order: index %d", kilIdx)
	}
}

func TestPickerBadCapturesLast(t *testing.T) {
	// Qxd5 loses the queen to exd5: it must be sorted behind the quiets.
	board, err := gm.ParseFEN("rnbqkbnr/ppp2ppp/4p3/3p4/4P3/3Q4/PPPP1PPP/RNB1KBNR w KQkq - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	if see(board, findByString(t, board, "d3d5"), false) >= 0 {
		t.Skip("position not set up as expected")
	}
	var hist HistoryTables
	mp := NewMovePicker(board, &hist, 0, [2]gm.Move{}, 0, [3]*PieceToHistory{})
	moves := collectMoves(mp)
	bad := findByString(t, board, "d3d5")
	if moves[len(moves)-1] != bad && moves[len(moves)-2] != bad {
		for i, m := range moves {
			if m == bad {
				t.Fatalf("losing capture at index %d of %d", i, len(moves))
			}
		}
	}
}

func TestPickerSkipQuiets(t *testing.T) {
	board, err := gm.ParseFEN("rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	var hist HistoryTables
	mp := NewMovePicker(board, &hist, 0, [2]gm.Move{}, 0, [3]*PieceToHistory{})

	first := mp.Next() // a capture
	if first == 0 || first.CapturedPiece() == gm.NoPiece {
		t.Fatalf("expected a capture first, got %v", first)
	}
	mp.SkipQuiets()
	for m := mp.Next(); m != 0; m = mp.Next() {
		if m.CapturedPiece() == gm.NoPiece && m.PromotionPiece() == gm.NoPiece {
			t.Fatalf("quiet move %s yielded after SkipQuiets", m.String())
		}
	}
}

func TestQPickerCapturesOnly(t *testing.T) {
	board, err := gm.ParseFEN("rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	var hist HistoryTables
	mp := NewQMovePicker(board, &hist, 0, false)
	for m := mp.Next(); m != 0; m = mp.Next() {
		if m.CapturedPiece() == gm.NoPiece && m.Flags()&gm.FlagEnPassant == 0 && m.PromotionPiece() == gm.NoPiece {
			t.Fatalf("quiescence picker yielded quiet move %s", m.String())
		}
	}
}
