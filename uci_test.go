package main

import (
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"goosecore/engine"
	gm "goosecore/goosemg"
)

func newTestState() *uciState {
	u := &uciState{
		eng: engine.NewEngine(),
		log: zerolog.New(os.Stderr).Level(zerolog.Disabled),
	}
	u.resetPosition()
	return u
}

func TestPositionStartposMoves(t *testing.T) {
	u := newTestState()
	u.cmdPosition([]string{"startpos", "moves", "e2e4", "e7e5", "g1f3"})
	fen := u.board.ToFEN()
	if want := "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2"; fen != want {
		t.Fatalf("position after moves = %q, want %q", fen, want)
	}
	if len(u.history) != 2 {
		t.Fatalf("history should hold the positions since the last irreversible move, got %d entries", len(u.history))
	}
}

func TestPositionIllegalMoveIgnored(t *testing.T) {
	u := newTestState()
	before := u.board.ToFEN()
	u.cmdPosition([]string{"startpos", "moves", "e2e5"})
	if got := u.board.ToFEN(); got != before {
		t.Fatalf("illegal move changed the position: %q", got)
	}
}

func TestPositionFEN(t *testing.T) {
	u := newTestState()
	fen := "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1"
	u.cmdPosition(append([]string{"fen"}, strings.Fields(fen)...))
	if got := u.board.ToFEN(); got != fen {
		t.Fatalf("FEN roundtrip: %q != %q", got, fen)
	}
}

func TestPositionMalformedFENKeepsPrior(t *testing.T) {
	u := newTestState()
	before := u.board.ToFEN()
	u.cmdPosition([]string{"fen", "not", "a", "fen", "at", "all", "x"})
	if got := u.board.ToFEN(); got != before {
		t.Fatalf("malformed FEN changed the position: %q", got)
	}
}

func TestFindLegalMovePromotion(t *testing.T) {
	u := newTestState()
	fen := "8/4P1k1/8/8/8/8/8/4K3 w - - 0 1"
	u.cmdPosition(append([]string{"fen"}, strings.Fields(fen)...))
	m, ok := u.findLegalMove("e7e8q")
	if !ok {
		t.Fatal("promotion move not resolved")
	}
	if m.PromotionPieceType() != gm.PieceTypeQueen {
		t.Fatalf("wrong promotion piece: %v", m.PromotionPieceType())
	}
}

func TestIrreversibleMoveTruncatesHistory(t *testing.T) {
	u := newTestState()
	u.cmdPosition([]string{"startpos", "moves", "g1f3", "g8f6", "e2e4"})
	// The pawn push resets the fifty-move window; only positions from it
	// onward can repeat.
	if len(u.history) != 1 {
		t.Fatalf("expected truncated history after pawn move, got %d entries", len(u.history))
	}
}
