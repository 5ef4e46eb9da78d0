package board

import (
	"fmt"
	"strings"
)

// CastlingSide distinguishes king-side (short) from queen-side (long) castling.
type CastlingSide uint8

const (
	KingSide CastlingSide = iota
	QueenSide
)

// String returns "O-O" or "O-O-O".
func (s CastlingSide) String() string {
	if s == KingSide {
		return "O-O"
	}
	return "O-O-O"
}

// CastlingRights records which castling options remain and the file of the
// rook each right refers to. The zero value has no rights.
type CastlingRights struct {
	mask  uint8
	files [2][2]uint8 // [Color][CastlingSide]
}

// NoCastling has every right cleared.
var NoCastling = CastlingRights{}

// castlingBit orders the four rights as K, Q, k, q.
func castlingBit(c Color, side CastlingSide) uint8 {
	return 1 << (uint8(c)*2 + uint8(side))
}

// StandardCastling returns all four rights with rooks on the a- and h-files.
func StandardCastling() CastlingRights {
	var cr CastlingRights
	for c := White; c <= Black; c++ {
		cr.Set(c, KingSide, 7)
		cr.Set(c, QueenSide, 0)
	}
	return cr
}

// Has reports whether c may still castle on the given side.
func (cr CastlingRights) Has(c Color, side CastlingSide) bool {
	return cr.mask&castlingBit(c, side) != 0
}

// HasAny reports whether c keeps at least one castling right.
func (cr CastlingRights) HasAny(c Color) bool {
	return cr.mask&(castlingBit(c, KingSide)|castlingBit(c, QueenSide)) != 0
}

// Set grants a right with the castling rook on rookFile. Only position setup
// grants rights; play only clears them.
func (cr *CastlingRights) Set(c Color, side CastlingSide, rookFile int) {
	cr.mask |= castlingBit(c, side)
	cr.files[c][side] = uint8(rookFile)
}

// Clear strips a right.
func (cr *CastlingRights) Clear(c Color, side CastlingSide) {
	cr.mask &^= castlingBit(c, side)
	cr.files[c][side] = 0
}

// Mask returns the rights as a 4-bit value (K=1, Q=2, k=4, q=8).
func (cr CastlingRights) Mask() uint8 {
	return cr.mask
}

// RookFile returns the file of the castling rook for a held right.
func (cr CastlingRights) RookFile(c Color, side CastlingSide) int {
	return int(cr.files[c][side])
}

// RookSquare returns the origin square of the castling rook, or NoSquare if
// the right is not held.
func (cr CastlingRights) RookSquare(c Color, side CastlingSide) Square {
	if !cr.Has(c, side) {
		return NoSquare
	}
	return NewSquare(int(cr.files[c][side]), BackRank(c))
}

// CastlingSideOf classifies a rook (or castling target) square relative to the
// king: king-side when it lies on a higher file.
func CastlingSideOf(sq, kingSq Square) CastlingSide {
	if sq.File() > kingSq.File() {
		return KingSide
	}
	return QueenSide
}

// KingDestination returns where the king lands after castling (g- or c-file).
func KingDestination(c Color, side CastlingSide) Square {
	if side == KingSide {
		return NewSquare(6, BackRank(c))
	}
	return NewSquare(2, BackRank(c))
}

// RookDestination returns where the rook lands after castling (f- or d-file).
func RookDestination(c Color, side CastlingSide) Square {
	if side == KingSide {
		return NewSquare(5, BackRank(c))
	}
	return NewSquare(3, BackRank(c))
}

// String returns the FEN castling field. Rights on the standard a/h rook files
// print as KQkq; any other rook file prints as its Shredder-FEN letter.
func (cr CastlingRights) String() string {
	if cr.mask == 0 {
		return "-"
	}
	var sb strings.Builder
	for c := White; c <= Black; c++ {
		for _, side := range [2]CastlingSide{KingSide, QueenSide} {
			if !cr.Has(c, side) {
				continue
			}
			var ch byte
			switch {
			case side == KingSide && cr.files[c][side] == 7:
				ch = 'K'
			case side == QueenSide && cr.files[c][side] == 0:
				ch = 'Q'
			default:
				ch = 'A' + cr.files[c][side]
			}
			if c == Black {
				ch += 'a' - 'A'
			}
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

// parseCastlingRights parses the FEN castling field against an already placed
// board. K/Q pick the outermost rook on that side of the king (X-FEN); file
// letters A-H name the rook file directly (Shredder-FEN).
func parseCastlingRights(field string, b *Board) (CastlingRights, error) {
	var cr CastlingRights
	if field == "-" {
		return cr, nil
	}
	if field == "" {
		return cr, fmt.Errorf("%w: empty castling field", ErrInvalidFEN)
	}

	for i := 0; i < len(field); i++ {
		ch := field[i]
		c := White
		upper := ch
		if ch >= 'a' && ch <= 'z' {
			c = Black
			upper = ch - ('a' - 'A')
		}

		kings := b.bitboards[c][King] & RankMask[BackRank(c)]
		if kings == 0 {
			return cr, fmt.Errorf("%w: castling right %c without king on back rank", ErrInvalidFEN, ch)
		}
		kingSq := kings.LSB()
		rooks := b.bitboards[c][Rook] & RankMask[BackRank(c)]

		var rookSq Square
		switch {
		case upper == 'K':
			candidates := rooks &^ (SquareBB(kingSq+1) - 1)
			if candidates == 0 {
				return cr, fmt.Errorf("%w: castling right %c without king-side rook", ErrInvalidFEN, ch)
			}
			rookSq = candidates.MSB()
		case upper == 'Q':
			candidates := rooks & (SquareBB(kingSq) - 1)
			if candidates == 0 {
				return cr, fmt.Errorf("%w: castling right %c without queen-side rook", ErrInvalidFEN, ch)
			}
			rookSq = candidates.LSB()
		case upper >= 'A' && upper <= 'H':
			rookSq = NewSquare(int(upper-'A'), BackRank(c))
			if !rooks.IsSet(rookSq) || rookSq == kingSq {
				return cr, fmt.Errorf("%w: castling right %c without rook on %s", ErrInvalidFEN, ch, rookSq)
			}
		default:
			return cr, fmt.Errorf("%w: invalid castling character %q", ErrInvalidFEN, ch)
		}

		cr.Set(c, CastlingSideOf(rookSq, kingSq), rookSq.File())
	}

	return cr, nil
}
