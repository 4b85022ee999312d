package engine

import (
	"testing"

	gm "goosecore/goosemg"
)

func TestHistoryGravityBounds(t *testing.T) {
	var h HistoryTables
	m := gm.NewMove(12, 28, gm.WhitePawn, gm.NoPiece, gm.NoPiece, 0)

	for i := 0; i < 1000; i++ {
		h.updateMain(true, m, 2000)
	}
	if got := h.Main(true, m); got > maxHistory {
		t.Fatalf("history exceeded bound: %d", got)
	}
	for i := 0; i < 1000; i++ {
		h.updateMain(true, m, -2000)
	}
	if got := h.Main(true, m); got < -maxHistory {
		t.Fatalf("history exceeded negative bound: %d", got)
	}
}

func TestHistorySidesIndependent(t *testing.T) {
	var h HistoryTables
	m := gm.NewMove(12, 28, gm.WhitePawn, gm.NoPiece, gm.NoPiece, 0)
	h.updateMain(true, m, 500)
	if h.Main(false, m) != 0 {
		t.Fatal("black history affected by white update")
	}
}

func TestCaptureHistoryKeying(t *testing.T) {
	var h HistoryTables
	m := gm.NewMove(28, 35, gm.WhitePawn, gm.BlackPawn, gm.NoPiece, 0)
	h.updateCapture(m, 300)
	if h.Capture(m) == 0 {
		t.Fatal("capture history not recorded")
	}
	other := gm.NewMove(28, 35, gm.WhitePawn, gm.BlackKnight, gm.NoPiece, 0)
	if h.Capture(other) != 0 {
		t.Fatal("capture history keyed only by squares, not captured type")
	}
}

func TestContinuationHistoryGrid(t *testing.T) {
	var h HistoryTables
	table := h.ContTable(gm.WhiteKnight, 18)
	updateContinuation(table, gm.WhitePawn, 28, 400)
	if table[gm.WhitePawn][28] == 0 {
		t.Fatal("continuation history not recorded")
	}
	// A different prior move has its own table.
	if h.ContTable(gm.WhiteKnight, 21)[gm.WhitePawn][28] != 0 {
		t.Fatal("continuation tables aliased")
	}
}

func TestCounterMoves(t *testing.T) {
	var h HistoryTables
	counter := gm.NewMove(57, 42, gm.BlackKnight, gm.NoPiece, gm.NoPiece, 0)
	h.setCounter(gm.WhitePawn, 28, counter)
	if h.CounterFor(gm.WhitePawn, 28) != counter {
		t.Fatal("counter move not stored")
	}
	if h.CounterFor(gm.WhitePawn, 29) != 0 {
		t.Fatal("counter move leaked to another square")
	}
}

func TestHistoryDecayHalves(t *testing.T) {
	var h HistoryTables
	m := gm.NewMove(12, 28, gm.WhitePawn, gm.NoPiece, gm.NoPiece, 0)
	h.updateMain(true, m, 1000)
	before := h.Main(true, m)
	h.Decay()
	if got := h.Main(true, m); got != before/2 {
		t.Fatalf("decay: got %d, want %d", got, before/2)
	}
}

func TestKillersShiftAndDedup(t *testing.T) {
	var k Killers
	m1 := gm.NewMove(12, 28, gm.WhitePawn, gm.NoPiece, gm.NoPiece, 0)
	m2 := gm.NewMove(11, 27, gm.WhitePawn, gm.NoPiece, gm.NoPiece, 0)

	k.insert(3, m1)
	k.insert(3, m1) // repeat must not duplicate
	if k[3][0] != m1 || k[3][1] != 0 {
		t.Fatalf("unexpected killers after repeat insert: %v", k[3])
	}
	k.insert(3, m2)
	if k[3][0] != m2 || k[3][1] != m1 {
		t.Fatalf("killers did not shift: %v", k[3])
	}
}
