package engine

import (
	"math/bits"

	gm "goosecore/goosemg"
)

// pawnAsymmetry counts files where exactly one side has pawns; open pawn
// races feed the initiative term.
func pawnAsymmetry(b *gm.Board) int {
	var wFiles, bFiles int
	for f := 0; f < 8; f++ {
		if b.White.Pawns&onlyFile[f] != 0 {
			wFiles |= 1 << f
		}
		if b.Black.Pawns&onlyFile[f] != 0 {
			bFiles |= 1 << f
		}
	}
	return bits.OnesCount8(uint8(wFiles ^ bFiles))
}

const (
	queenSideMask uint64 = 0x0f0f0f0f0f0f0f0f
	kingSideMask  uint64 = 0xf0f0f0f0f0f0f0f0
)

// initiativeCorrection is the second-order endgame corrector: a side that
// is ahead gains from spread pawns and a distant defending king, but the
// bonus can never flip the sign of the endgame score. Returns the delta to
// add to the endgame component (white point of view).
func initiativeCorrection(b *gm.Board, eg int) int {
	wKing := bits.TrailingZeros64(b.White.Kings)
	bKing := bits.TrailingZeros64(b.Black.Kings)
	kingDistance := absInt((wKing&7)-(bKing&7)) - absInt((wKing>>3)-(bKing>>3))

	pawns := b.White.Pawns | b.Black.Pawns
	bothFlanks := 0
	if pawns&queenSideMask != 0 && pawns&kingSideMask != 0 {
		bothFlanks = 1
	}
	pawnCount := bits.OnesCount64(pawns)

	initiative := 8*(pawnAsymmetry(b)+kingDistance-17) + 12*pawnCount + 16*bothFlanks

	sign := 0
	if eg > 0 {
		sign = 1
	} else if eg < 0 {
		sign = -1
	}
	return sign * Max(initiative, -absInt(eg))
}

// oppositeBishops reports a single bishop each, standing on opposite
// colored squares.
func oppositeBishops(b *gm.Board) bool {
	if bits.OnesCount64(b.White.Bishops) != 1 || bits.OnesCount64(b.Black.Bishops) != 1 {
		return false
	}
	const darkSquares uint64 = 0xAA55AA55AA55AA55
	wDark := b.White.Bishops&darkSquares != 0
	bDark := b.Black.Bishops&darkSquares != 0
	return wDark != bDark
}

func nonPawnMaterial(bb *gm.Bitboards) int {
	return bits.OnesCount64(bb.Knights)*pieceValueMG[gm.PieceTypeKnight] +
		bits.OnesCount64(bb.Bishops)*pieceValueMG[gm.PieceTypeBishop] +
		bits.OnesCount64(bb.Rooks)*pieceValueMG[gm.PieceTypeRook] +
		bits.OnesCount64(bb.Queens)*pieceValueMG[gm.PieceTypeQueen]
}

// endgameScaleFactor shrinks the endgame component of drawish material
// configurations: opposite-colored bishops, a defending king planted in
// front of the pawns, and the recognized theoretical draws.
func endgameScaleFactor(b *gm.Board, eg int) int {
	strongWhite := eg > 0
	var strong, weak *gm.Bitboards
	if strongWhite {
		strong, weak = &b.White, &b.Black
	} else {
		strong, weak = &b.Black, &b.White
	}

	if oppositeBishops(b) {
		bishopOnly := nonPawnMaterial(&b.White) == pieceValueMG[gm.PieceTypeBishop] &&
			nonPawnMaterial(&b.Black) == pieceValueMG[gm.PieceTypeBishop]
		if bishopOnly {
			if bits.OnesCount64(b.White.Pawns|b.Black.Pawns) > 1 {
				return 31
			}
			return 9
		}
		return 46
	}

	strongPawns := bits.OnesCount64(strong.Pawns)
	if absInt(eg) <= pieceValueEG[gm.PieceTypeBishop] && strongPawns <= 2 &&
		weakKingInFront(strong.Pawns, weak.Kings, strongWhite) {
		return 37 + 7*strongPawns
	}

	if isTheoreticalDraw(b, false) {
		return 8
	}

	return ScaleNormal
}

// weakKingInFront reports whether the defending king stands on the
// promotion path of the strong side's pawns (adjacent files included).
func weakKingInFront(strongPawns uint64, weakKing uint64, strongWhite bool) bool {
	if strongPawns == 0 || weakKing == 0 {
		return false
	}
	ksq := bits.TrailingZeros64(weakKing)
	file := ksq & 7
	span := onlyFile[file]
	if file > 0 {
		span |= onlyFile[file-1]
	}
	if file < 7 {
		span |= onlyFile[file+1]
	}
	if strongWhite {
		// Strong pawns below the king, marching toward it.
		span &= ranksBelow[ksq>>3]
	} else {
		span &= ranksAbove[ksq>>3]
	}
	return strongPawns&span != 0
}
