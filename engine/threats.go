package engine

import (
	"math/bits"

	gm "goosecore/goosemg"
)

// Threat bonuses, indexed by the type of the attacked piece.
var threatByMinor = [7]Score{
	gm.PieceTypePawn:   S(0, 31),
	gm.PieceTypeKnight: S(39, 42),
	gm.PieceTypeBishop: S(57, 44),
	gm.PieceTypeRook:   S(68, 112),
	gm.PieceTypeQueen:  S(47, 120),
}
var threatByRook = [7]Score{
	gm.PieceTypePawn:   S(0, 24),
	gm.PieceTypeKnight: S(38, 71),
	gm.PieceTypeBishop: S(38, 61),
	gm.PieceTypeRook:   S(0, 38),
	gm.PieceTypeQueen:  S(36, 38),
}

var (
	threatBySafePawn  = S(173, 94)
	threatByPawnPush  = S(45, 40)
	threatByKing      = S(23, 76)
	threatHanging     = S(52, 30)
	threatWeakPawn    = S(8, 25)
	threatSliderQueen = S(42, 21)
)

// threatInputs carries the attack maps the piece evaluators already built,
// so the threats term does not recompute them.
type threatInputs struct {
	wPawnAttacks, bPawnAttacks uint64
	wMinor, bMinor             uint64 // knight | bishop attack squares
	wRook, bRook               uint64
	wQueen, bQueen             uint64
	wKing, bKing               uint64
}

func (ti *threatInputs) allWhite() uint64 {
	return ti.wPawnAttacks | ti.wMinor | ti.wRook | ti.wQueen | ti.wKing
}

func (ti *threatInputs) allBlack() uint64 {
	return ti.bPawnAttacks | ti.bMinor | ti.bRook | ti.bQueen | ti.bKing
}

// evaluateThreats scores attacks on enemy pieces: safe pawn attacks on
// anything valuable, minor and rook attacks by victim type, hanging pieces,
// king attacks on weak pieces, pawn pushes that would hit a piece, and
// slider pressure against an exposed queen. White minus black.
func evaluateThreats(b *gm.Board, ti *threatInputs) Score {
	score := threatsForSide(b, ti, true) - threatsForSide(b, ti, false)
	return score
}

func threatsForSide(b *gm.Board, ti *threatInputs, white bool) Score {
	var score Score

	var us, them *gm.Bitboards
	var ourAtt, theirAtt, theirPawnAtt uint64
	var ourMinor, ourRook, ourKing uint64
	if white {
		us, them = &b.White, &b.Black
		ourAtt, theirAtt = ti.allWhite(), ti.allBlack()
		theirPawnAtt = ti.bPawnAttacks
		ourMinor, ourRook, ourKing = ti.wMinor, ti.wRook, ti.wKing
	} else {
		us, them = &b.Black, &b.White
		ourAtt, theirAtt = ti.allBlack(), ti.allWhite()
		theirPawnAtt = ti.wPawnAttacks
		ourMinor, ourRook, ourKing = ti.bMinor, ti.bRook, ti.bKing
	}

	theirNonPawns := them.All &^ them.Pawns

	// Enemy pieces that are not defended by a pawn and that we attack.
	stronglyProtected := theirPawnAtt
	weak := them.All & ^stronglyProtected & ourAtt

	// Safe pawn attacks: the attacking pawn is defended or unattacked.
	safePawns := us.Pawns & (ourAtt | ^theirAtt)
	east, west := PawnCaptureBitboards(safePawns, white)
	safePawnThreats := (east | west) & theirNonPawns
	score += threatBySafePawn.times(bits.OnesCount64(safePawnThreats))

	// Minor and rook attacks, scored by what is hit.
	for targets := (weak | theirNonPawns) & ourMinor & them.All; targets != 0; targets &= targets - 1 {
		sq := bits.TrailingZeros64(targets)
		score += threatByMinor[pieceTypeOn(them, sq)]
	}
	for targets := weak & ourRook & them.All; targets != 0; targets &= targets - 1 {
		sq := bits.TrailingZeros64(targets)
		score += threatByRook[pieceTypeOn(them, sq)]
	}

	// Pieces attacked and not defended at all.
	hanging := weak & ^theirAtt
	score += threatHanging.times(bits.OnesCount64(hanging))

	// King attacks on weak pieces.
	score += threatByKing.times(bits.OnesCount64(weak & ourKing))

	// Enemy weak pawns matter once we have heavy pieces to harvest them.
	if us.Rooks != 0 && us.Queens != 0 {
		weakPawns := them.Pawns & ^theirPawnAtt & ourAtt
		score += threatWeakPawn.times(bits.OnesCount64(weakPawns))
	}

	// Pawn pushes that would attack an enemy piece from a safe square.
	var pushes uint64
	occupied := b.White.All | b.Black.All
	if white {
		single := (us.Pawns << 8) &^ occupied
		double := ((single & onlyRank[2]) << 8) &^ occupied
		pushes = (single | double) &^ theirPawnAtt & (ourAtt | ^theirAtt)
	} else {
		single := (us.Pawns >> 8) &^ occupied
		double := ((single & onlyRank[5]) >> 8) &^ occupied
		pushes = (single | double) &^ theirPawnAtt & (ourAtt | ^theirAtt)
	}
	pushEast, pushWest := PawnCaptureBitboards(pushes, white)
	score += threatByPawnPush.times(bits.OnesCount64((pushEast | pushWest) & theirNonPawns))

	// Slider alignment against the enemy queen: safe squares from which a
	// bishop or rook would hit her along a line she does not defend.
	if bits.OnesCount64(them.Queens) == 1 {
		qsq := bits.TrailingZeros64(them.Queens)
		occ := occupied &^ them.Queens
		safe := ^us.All & ^theirPawnAtt
		diag := gm.CalculateBishopMoveBitboard(uint8(qsq), occ) & safe & ourMinor & ^ti.queenDefense(!white)
		orth := gm.CalculateRookMoveBitboard(uint8(qsq), occ) & safe & ourRook & ^ti.queenDefense(!white)
		score += threatSliderQueen.times(bits.OnesCount64(diag | orth))
	}

	return score
}

// queenDefense is the square set the given side's queen defends herself.
func (ti *threatInputs) queenDefense(white bool) uint64 {
	if white {
		return ti.wQueen
	}
	return ti.bQueen
}

func pieceTypeOn(bb *gm.Bitboards, sq int) gm.PieceType {
	mask := PositionBB[sq]
	switch {
	case bb.Pawns&mask != 0:
		return gm.PieceTypePawn
	case bb.Knights&mask != 0:
		return gm.PieceTypeKnight
	case bb.Bishops&mask != 0:
		return gm.PieceTypeBishop
	case bb.Rooks&mask != 0:
		return gm.PieceTypeRook
	case bb.Queens&mask != 0:
		return gm.PieceTypeQueen
	case bb.Kings&mask != 0:
		return gm.PieceTypeKing
	}
	return gm.PieceTypeNone
}

// times scales both halves of a Score by a count.
func (s Score) times(n int) Score {
	return S(s.MG()*n, s.EG()*n)
}
