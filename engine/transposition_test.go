package engine

import (
	"testing"

	gm "goosecore/goosemg"
)

func TestTTStoreProbeRoundtrip(t *testing.T) {
	tt := NewTransTable(1)
	key := uint64(0xDEADBEEFCAFEBABE)
	move := gm.NewMove(12, 28, gm.WhitePawn, gm.NoPiece, gm.NoPiece, 0)

	tt.Store(key, 123, BoundExact, 9, move, 55, 0)

	entry, hit := tt.Probe(key)
	if !hit {
		t.Fatal("expected a hit after store")
	}
	if entry.Move != move || entry.Value != 123 || entry.Eval != 55 || entry.Depth != 9 || entry.Bound() != BoundExact {
		t.Fatalf("entry mismatch: %+v", entry)
	}
}

func TestTTMissOnDifferentKey(t *testing.T) {
	tt := NewTransTable(1)
	tt.Store(0x1111222233334444, 10, BoundLower, 3, 0, 0, 0)
	// Same bucket index is possible, but key16 must differ for a miss.
	if _, hit := tt.Probe(0x9999888877776666); hit {
		t.Fatal("unexpected hit for a different key")
	}
}

func TestTTMateScoreTranslation(t *testing.T) {
	tt := NewTransTable(1)
	key := uint64(0xABCDEF)

	// A mate found 5 plies into the search, stored from ply 5.
	v := mateIn(5)
	tt.Store(key, v, BoundExact, 12, 0, 0, 5)

	entry, hit := tt.Probe(key)
	if !hit {
		t.Fatal("expected hit")
	}
	// Values are stored node-relative: probing the same entry from another
	// ply re-anchors the mate distance at the probing node.
	if got := valueFromTT(entry.Value, 5); got != v {
		t.Fatalf("mate translation roundtrip failed: %d != %d", got, v)
	}
	if got := valueFromTT(entry.Value, 3); got != mateIn(3) {
		t.Fatalf("mate translation at shallower ply: got %d, want %d", got, mateIn(3))
	}
}

func TestTTDeepEntrySurvivesShallowOverwrite(t *testing.T) {
	tt := NewTransTable(1)
	key := uint64(0x1234567812345678)
	deep := gm.NewMove(1, 18, gm.WhiteKnight, gm.NoPiece, gm.NoPiece, 0)

	tt.Store(key, 200, BoundLower, 20, deep, 0, 0)
	tt.Store(key, -50, BoundUpper, 2, 0, 0, 0)

	entry, hit := tt.Probe(key)
	if !hit {
		t.Fatal("expected hit")
	}
	if entry.Depth != 20 || entry.Value != 200 {
		t.Fatalf("shallow store evicted a much deeper entry: %+v", entry)
	}
}

func TestTTGenerationCycles(t *testing.T) {
	tt := NewTransTable(1)
	for i := 0; i < 9; i++ {
		tt.NewSearch()
	}
	if tt.generation != 1 {
		t.Fatalf("generation should cycle mod 8, got %d", tt.generation)
	}
}

func TestTTHashfullGrows(t *testing.T) {
	tt := NewTransTable(1)
	if tt.Hashfull() != 0 {
		t.Fatal("fresh table should report 0 hashfull")
	}
	for i := uint64(0); i < 100000; i++ {
		tt.Store(i*0x9E3779B97F4A7C15, 1, BoundExact, 1, 0, 0, 0)
	}
	if tt.Hashfull() == 0 {
		t.Fatal("expected nonzero hashfull after many stores")
	}
}

func TestTTClear(t *testing.T) {
	tt := NewTransTable(1)
	key := uint64(0xFEEDFACE)
	tt.Store(key, 7, BoundExact, 1, 0, 0, 0)
	tt.Clear()
	if _, hit := tt.Probe(key); hit {
		t.Fatal("expected miss after clear")
	}
}
