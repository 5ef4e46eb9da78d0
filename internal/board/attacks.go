package board

// Pre-computed attack tables for non-sliding pieces
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]

	// Between and Line bitboards for pins/checks
	betweenBB [64][64]Bitboard // Squares strictly between two squares
	lineBB    [64][64]Bitboard // Full line through two squares (including endpoints)
)

func init() {
	initLeaperAttacks()
	initLines()
	initMagics()
}

func initLeaperAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		knightAttacks[sq] = (bb<<17)&NotFileA | (bb<<15)&NotFileH |
			(bb>>17)&NotFileH | (bb>>15)&NotFileA |
			(bb<<10)&NotFileAB | (bb<<6)&NotFileGH |
			(bb>>10)&NotFileGH | (bb>>6)&NotFileAB

		kingAttacks[sq] = bb.North() | bb.South() | bb.East() | bb.West() |
			bb.NorthEast() | bb.NorthWest() | bb.SouthEast() | bb.SouthWest()

		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
}

func initLines() {
	for sq1 := A1; sq1 <= H8; sq1++ {
		for sq2 := A1; sq2 <= H8; sq2++ {
			if sq1 == sq2 {
				continue
			}
			df := sign(sq2.File() - sq1.File())
			dr := sign(sq2.Rank() - sq1.Rank())
			if df != 0 && dr != 0 && FileDistance(sq1, sq2) != RankDistance(sq1, sq2) {
				continue
			}

			var between Bitboard
			for f, r := sq1.File()+df, sq1.Rank()+dr; f != sq2.File() || r != sq2.Rank(); f, r = f+df, r+dr {
				between |= SquareBB(NewSquare(f, r))
			}
			betweenBB[sq1][sq2] = between

			var line Bitboard
			for f, r := sq1.File(), sq1.Rank(); onBoard(f, r); f, r = f-df, r-dr {
				line |= SquareBB(NewSquare(f, r))
			}
			for f, r := sq1.File()+df, sq1.Rank()+dr; onBoard(f, r); f, r = f+df, r+dr {
				line |= SquareBB(NewSquare(f, r))
			}
			lineBB[sq1][sq2] = line
		}
	}
}

func onBoard(file, rank int) bool {
	return file >= 0 && file <= 7 && rank >= 0 && rank <= 7
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// BishopAttacks returns the bishop attack bitboard for a square with given occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &bishopMagics[sq]
	return m.attacks[m.index(occupied)]
}

// RookAttacks returns the rook attack bitboard for a square with given occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &rookMagics[sq]
	return m.attacks[m.index(occupied)]
}

// QueenAttacks returns the queen attack bitboard for a square with given occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// Attacks returns the squares a piece of type pt and color c on sq attacks.
// Color matters only for pawns; occupancy only for sliders.
func Attacks(pt PieceType, c Color, sq Square, occupied Bitboard) Bitboard {
	switch pt {
	case Pawn:
		return PawnAttacks(sq, c)
	case Knight:
		return KnightAttacks(sq)
	case Bishop:
		return BishopAttacks(sq, occupied)
	case Rook:
		return RookAttacks(sq, occupied)
	case Queen:
		return QueenAttacks(sq, occupied)
	case King:
		return KingAttacks(sq)
	default:
		return Empty
	}
}

// Between returns the bitboard of squares strictly between two squares.
// Returns empty if squares are not aligned (not on same rank, file, or diagonal).
func Between(sq1, sq2 Square) Bitboard {
	return betweenBB[sq1][sq2]
}

// Line returns the bitboard of the full line through two squares.
// Returns empty if squares are not aligned.
func Line(sq1, sq2 Square) Bitboard {
	return lineBB[sq1][sq2]
}
