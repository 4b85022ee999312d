package engine

import (
	"strings"
	"testing"

	gm "goosecore/goosemg"
)

// mirrorFEN flips a position vertically and swaps the colors and side to
// move, producing the color-reversed twin of the input.
func mirrorFEN(t *testing.T, fen string) string {
	t.Helper()
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		t.Fatalf("bad FEN %q", fen)
	}
	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		t.Fatalf("bad FEN board %q", parts[0])
	}
	swapCase := func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 32
		case r >= 'A' && r <= 'Z':
			return r + 32
		}
		return r
	}
	out := make([]string, 8)
	for i := range ranks {
		var sb strings.Builder
		for _, r := range ranks[7-i] {
			sb.WriteRune(swapCase(r))
		}
		out[i] = sb.String()
	}
	side := "w"
	if parts[1] == "w" {
		side = "b"
	}
	castle := parts[2]
	if castle != "-" {
		var sb strings.Builder
		for _, r := range castle {
			sb.WriteRune(swapCase(r))
		}
		castle = sb.String()
	}
	ep := parts[3]
	if ep != "-" {
		rank := ep[1]
		ep = string(ep[0]) + string('1'+'8'-rank)
	}
	rest := ""
	if len(parts) > 4 {
		rest = " " + strings.Join(parts[4:], " ")
	}
	return strings.Join(out, "/") + " " + side + " " + castle + " " + ep + rest
}

func evalFEN(t *testing.T, fen string) int32 {
	t.Helper()
	board, err := gm.ParseFEN(fen)
	if err != nil {
		t.Fatalf("parse FEN %q: %v", fen, err)
	}
	return Evaluation(board, false)
}

func TestEvaluationAntisymmetry(t *testing.T) {
	// The color-mirrored twin is the same position from the mover's seat,
	// so the side-relative evaluation must match exactly.
	fens := []string{
		"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1",
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1",
	}
	for _, fen := range fens {
		v1 := evalFEN(t, fen)
		v2 := evalFEN(t, mirrorFEN(t, fen))
		if v1 != v2 {
			t.Errorf("antisymmetry broken for %s: %d vs %d (mirror %s)", fen, v1, v2, mirrorFEN(t, fen))
		}
	}
}

func TestEvaluationMaterialSign(t *testing.T) {
	// White up a rook must evaluate clearly positive for white to move.
	v := evalFEN(t, "4k3/8/8/8/8/8/4R3/4K3 w - - 0 1")
	if v < 300 {
		t.Fatalf("up a rook should be winning, got %d", v)
	}
	// Same position with black to move is losing for the mover.
	v = evalFEN(t, "4k3/8/8/8/8/8/4R3/4K3 b - - 0 1")
	if v > -300 {
		t.Fatalf("down a rook should be losing, got %d", v)
	}
}

func TestOppositeBishopsDrawish(t *testing.T) {
	// Spec scenario: opposite-colored bishops with blocked pawns should
	// evaluate inside a small margin of the draw.
	v := evalFEN(t, "8/8/4k3/4p3/4P3/3K1B2/8/5b2 w - - 0 1")
	if abs32(v) > 100 {
		t.Fatalf("opposite-bishop ending should be near draw, got %d", v)
	}
}

func TestLazyEvalKicksIn(t *testing.T) {
	// A queen-and-rooks crush is so far past LazyThreshold that the lazy
	// and the full path must agree about the sign and magnitude class.
	v := evalFEN(t, "4k3/8/8/8/8/8/8/QQQQK2Q w - - 0 1")
	if v < int32(LazyThreshold) {
		t.Fatalf("lazy exit should report a crushing score, got %d", v)
	}
}

func TestTempoConstant(t *testing.T) {
	if TempoBonus != 20 {
		t.Fatalf("tempo bonus drifted: %d", TempoBonus)
	}
}

func TestPhaseBlendBounds(t *testing.T) {
	if got := blendScore(100, -100, TotalPhase, ScaleNormal); got != 100 {
		t.Fatalf("full middlegame blend: %d", got)
	}
	if got := blendScore(100, -100, 0, ScaleNormal); got != -100 {
		t.Fatalf("full endgame blend: %d", got)
	}
	if got := blendScore(0, 100, 0, 32); got != 50 {
		t.Fatalf("scale factor not applied: %d", got)
	}
}

func TestScorePacking(t *testing.T) {
	for _, c := range [][2]int{{0, 0}, {10, -20}, {-300, 500}, {1234, 1234}} {
		s := S(c[0], c[1])
		if s.MG() != c[0] || s.EG() != c[1] {
			t.Fatalf("pack/unpack (%d,%d) -> (%d,%d)", c[0], c[1], s.MG(), s.EG())
		}
	}
	a, b := S(5, 7), S(-3, 11)
	sum := a + b
	if sum.MG() != 2 || sum.EG() != 18 {
		t.Fatalf("packed addition broken: (%d,%d)", sum.MG(), sum.EG())
	}
}

func TestInitiativeNeverFlipsSign(t *testing.T) {
	board, err := gm.ParseFEN("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	for _, eg := range []int{5, -5, 120, -120} {
		v := initiativeCorrection(board, eg)
		if (eg > 0 && eg+v < 0) || (eg < 0 && eg+v > 0) {
			t.Fatalf("initiative flipped the endgame sign: eg=%d v=%d", eg, v)
		}
	}
}
