package engine

import (
	"io"
	"testing"

	gm "goosecore/goosemg"
)

func searchToDepth(t *testing.T, fen string, depth int) *Searcher {
	t.Helper()
	e := NewEngine()
	e.Out = io.Discard
	board, err := gm.ParseFEN(fen)
	if err != nil {
		t.Fatalf("parse FEN %q: %v", fen, err)
	}
	e.StartSearch(board, []uint64{board.Hash()}, Limits{Depth: depth})
	e.WaitForSearchFinished()
	return e.bestWorker()
}

func TestFoolsMate(t *testing.T) {
	// After 1.f3 e5 2.g4 black mates with Qh4.
	fen := "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2"
	w := searchToDepth(t, fen, 2)
	best := w.rootMoves[0]
	if got := best.Move.String(); got != "d8h4" {
		t.Fatalf("expected bestmove d8h4, got %s (score %d)", got, best.Score)
	}
	if best.Score < ValueMateInMaxPly {
		t.Fatalf("expected a mate score, got %d", best.Score)
	}
	if best.Score != mateIn(1) {
		t.Fatalf("expected mate in 1 ply (%d), got %d", mateIn(1), best.Score)
	}
}

func TestKQKMate(t *testing.T) {
	w := searchToDepth(t, "4k3/8/4K3/8/8/8/8/7Q w - - 0 1", 6)
	best := w.rootMoves[0]
	if best.Score < ValueMateInMaxPly {
		t.Fatalf("expected mate score in KQK, got %d", best.Score)
	}
	if len(best.PV) < 3 {
		t.Fatalf("expected PV of at least 3 plies, got %v", best.PV)
	}
}

func TestStalemateHasNoRootMoves(t *testing.T) {
	e := NewEngine()
	e.Out = io.Discard
	board, err := gm.ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	if moves := board.GenerateLegalMoves(); len(moves) != 0 {
		t.Fatalf("expected stalemate, got moves %v", moves)
	}
	s := e.workers[0]
	s.prepare(board, []uint64{board.Hash()}, Limits{})
	if got := s.searchRoot(-ValueInfinite, ValueInfinite, 4); got != ValueDraw {
		t.Fatalf("stalemate search returned %d, want %d", got, ValueDraw)
	}
}

func TestSimpleCapture(t *testing.T) {
	w := searchToDepth(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", 4)
	if got := w.rootMoves[0].Move.String(); got != "e4d5" {
		t.Fatalf("expected bestmove e4d5, got %s", got)
	}
}

func TestMateDistancePruningBounds(t *testing.T) {
	// Window bracket: a mated-in score can never be better than matedIn(ply).
	e := NewEngine()
	e.Out = io.Discard
	board, _ := gm.ParseFEN(gm.FENStartPos)
	s := e.workers[0]
	s.prepare(board, []uint64{board.Hash()}, Limits{})
	v := s.search(-ValueInfinite, ValueInfinite, 3, 1, &PVLine{}, false)
	if v <= matedIn(1) || v >= mateIn(1) {
		t.Fatalf("startpos value %d outside sane bounds", v)
	}
}

func TestThreefoldRepetitionIsDraw(t *testing.T) {
	e := NewEngine()
	e.Out = io.Discard
	// A position with a running rule-50 window that occurred twice before
	// (knights shuffled out and back).
	board, err := gm.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 8 5")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	hash := board.Hash()
	history := []uint64{hash, 111, hash, 333, hash}
	s := e.workers[0]
	s.prepare(board, history, Limits{})
	if !s.isDraw() {
		t.Fatal("expected threefold repetition to be detected at the root")
	}
}

func TestFiftyMoveRuleIsDraw(t *testing.T) {
	e := NewEngine()
	e.Out = io.Discard
	// Halfmove clock at 100 with plenty of material.
	board, err := gm.ParseFEN("4k3/8/8/8/8/8/4R3/4K3 w - - 100 80")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	s := e.workers[0]
	s.prepare(board, []uint64{board.Hash()}, Limits{})
	if !s.isDraw() {
		t.Fatal("expected fifty-move draw to be detected")
	}
}

func TestQuiescenceStandPatOnQuietPosition(t *testing.T) {
	// With no captures on the board quiescence must come back with the
	// static evaluation.
	e := NewEngine()
	e.Out = io.Discard
	board, _ := gm.ParseFEN(gm.FENStartPos)
	s := e.workers[0]
	s.prepare(board, []uint64{board.Hash()}, Limits{})
	got := s.quiescence(-ValueInfinite, ValueInfinite, 0, 1, &PVLine{})
	want := s.evaluate()
	if got != want {
		t.Fatalf("quiescence of quiet position = %d, evaluate = %d", got, want)
	}
}

func TestStatBonusShape(t *testing.T) {
	if statBonus(1) != 1 || statBonus(2) != 6 {
		t.Fatalf("unexpected stat bonus values: %d %d", statBonus(1), statBonus(2))
	}
	if statBonus(18) != 0 {
		t.Fatalf("stat bonus should cut off past depth 17, got %d", statBonus(18))
	}
}

func TestReductionsTableMonotonic(t *testing.T) {
	// Later moves at the same depth are never reduced less.
	for mc := 2; mc < 63; mc++ {
		if Reductions[0][0][20][mc+1] < Reductions[0][0][20][mc] {
			t.Fatalf("reduction not monotonic in move count at %d", mc)
		}
	}
}
