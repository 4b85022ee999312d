package engine

import (
	"math/bits"

	gm "goosecore/goosemg"
)

// SeePieceValue holds the material scale used by the static exchange
// evaluator. The king value just needs to dwarf everything else.
var SeePieceValue = [7]int{
	gm.PieceTypeKing:   5000,
	gm.PieceTypePawn:   100,
	gm.PieceTypeKnight: 300,
	gm.PieceTypeBishop: 300,
	gm.PieceTypeRook:   500,
	gm.PieceTypeQueen:  900,
}

// see runs a static exchange evaluation of move: the material swing after
// both sides trade down on the target square in least-valuable-attacker
// order, with sliders x-raying through the pieces that move away.
func see(b *gm.Board, move gm.Move, debug bool) int {
	var gain [32]int
	depth := 0

	from := int(move.From())
	to := int(move.To())
	white := b.Wtomove

	target := move.CapturedPiece().Type()
	if target == gm.PieceTypeNone {
		// En passant arrives with the victim off the target square.
		target = gm.PieceTypePawn
	}
	attacker := move.MovedPiece().Type()

	occupied := (b.White.All | b.Black.All) &^ PositionBB[from]
	attadef := attackersTo(b, to, occupied)
	attadef &^= PositionBB[from]

	gain[depth] = SeePieceValue[target]
	if move.PromotionPieceType() != gm.PieceTypeNone {
		gain[depth] += SeePieceValue[move.PromotionPieceType()] - SeePieceValue[gm.PieceTypePawn]
		attacker = move.PromotionPieceType()
	}

	white = !white
	for {
		depth++
		gain[depth] = SeePieceValue[attacker] - gain[depth-1]
		if Max(-gain[depth-1], gain[depth]) < 0 {
			break
		}

		attackerBB, nextAttacker := leastValuableAttacker(b, attadef, white)
		if attackerBB == 0 {
			break
		}
		attadef &^= attackerBB
		occupied &^= attackerBB

		// Sliders behind the piece that just moved may now reach the square.
		attadef |= sliderAttackersTo(b, to, occupied) & occupied

		attacker = nextAttacker
		white = !white
	}

	for x := depth - 1; x > 0; x-- {
		gain[x-1] = -Max(-gain[x-1], gain[x])
	}

	if debug {
		println("see:", move.String(), "gain:", gain[0])
	}
	return gain[0]
}

// attackersTo returns every piece of both sides attacking sq under the
// given occupancy.
func attackersTo(b *gm.Board, sq int, occupied uint64) uint64 {
	sqBB := PositionBB[sq]
	var attackers uint64

	east, west := PawnCaptureBitboards(b.White.Pawns&occupied, true)
	if (east|west)&sqBB != 0 {
		if east&sqBB != 0 {
			attackers |= PositionBB[sq-9] & b.White.Pawns
		}
		if west&sqBB != 0 {
			attackers |= PositionBB[sq-7] & b.White.Pawns
		}
	}
	east, west = PawnCaptureBitboards(b.Black.Pawns&occupied, false)
	if (east|west)&sqBB != 0 {
		if east&sqBB != 0 {
			attackers |= PositionBB[sq+9] & b.Black.Pawns
		}
		if west&sqBB != 0 {
			attackers |= PositionBB[sq+7] & b.Black.Pawns
		}
	}

	knights := (b.White.Knights | b.Black.Knights) & occupied
	attackers |= KnightMasks[sq] & knights
	kings := b.White.Kings | b.Black.Kings
	attackers |= KingMasks[sq] & kings
	attackers |= sliderAttackersTo(b, sq, occupied)
	return attackers & occupied
}

func sliderAttackersTo(b *gm.Board, sq int, occupied uint64) uint64 {
	rooks := (b.White.Rooks | b.Black.Rooks | b.White.Queens | b.Black.Queens) & occupied
	bishops := (b.White.Bishops | b.Black.Bishops | b.White.Queens | b.Black.Queens) & occupied
	var attackers uint64
	if rooks != 0 {
		attackers |= gm.CalculateRookMoveBitboard(uint8(sq), occupied) & rooks
	}
	if bishops != 0 {
		attackers |= gm.CalculateBishopMoveBitboard(uint8(sq), occupied) & bishops
	}
	return attackers
}

// leastValuableAttacker picks the cheapest attacker of the given side from
// attadef, returning its single-bit board and type.
func leastValuableAttacker(b *gm.Board, attadef uint64, white bool) (uint64, gm.PieceType) {
	var side *gm.Bitboards
	if white {
		side = &b.White
	} else {
		side = &b.Black
	}
	for _, probe := range []struct {
		bb uint64
		pt gm.PieceType
	}{
		{side.Pawns, gm.PieceTypePawn},
		{side.Knights, gm.PieceTypeKnight},
		{side.Bishops, gm.PieceTypeBishop},
		{side.Rooks, gm.PieceTypeRook},
		{side.Queens, gm.PieceTypeQueen},
		{side.Kings, gm.PieceTypeKing},
	} {
		if subset := attadef & probe.bb; subset != 0 {
			return PositionBB[bits.TrailingZeros64(subset)], probe.pt
		}
	}
	return 0, gm.PieceTypeNone
}
