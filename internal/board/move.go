package board

import "fmt"

// Move encodes a chess move in 16 bits:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-13: promotion piece (0=Knight, 1=Bishop, 2=Rook, 3=Queen)
// bits 14-15: kind (0=normal, 1=promotion, 2=en passant, 3=castling)
//
// A castling move stores the king's origin and the castling rook's square
// ("king takes own rook"), which also covers Chess960 rook placements.
type Move uint16

// MoveKind selects how MakeMove applies a move.
type MoveKind uint16

const (
	Normal    MoveKind = 0 << 14
	Promotion MoveKind = 1 << 14
	EnPassant MoveKind = 2 << 14
	Castling  MoveKind = 3 << 14
)

// NoMove represents an invalid or null move.
const NoMove Move = 0

// NewMove creates a normal move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion creates a promotion move. promo must be Knight..Queen.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move(from) | Move(to)<<6 | Move(promo-Knight)<<12 | Move(Promotion)
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(EnPassant)
}

// NewCastling creates a castling move from the king square to the castling
// rook's square.
func NewCastling(kingFrom, rookSq Square) Move {
	return Move(kingFrom) | Move(rookSq)<<6 | Move(Castling)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square (the rook's square for castling).
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Kind returns how the move is applied.
func (m Move) Kind() MoveKind {
	return MoveKind(m & 0xC000)
}

// Promotion returns the promotion piece type, or NoPieceType for other kinds.
func (m Move) Promotion() PieceType {
	if m.Kind() != Promotion {
		return NoPieceType
	}
	return PieceType((m>>12)&3) + Knight
}

func (m Move) IsPromotion() bool {
	return m.Kind() == Promotion
}

func (m Move) IsCastling() bool {
	return m.Kind() == Castling
}

func (m Move) IsEnPassant() bool {
	return m.Kind() == EnPassant
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q", "e1g1").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	from, to := m.From(), m.To()
	if m.IsCastling() {
		c := White
		if from.Rank() == 7 {
			c = Black
		}
		to = KingDestination(c, CastlingSideOf(to, from))
	}

	s := from.String() + to.String()
	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}
	return s
}

// ParseMove converts UCI move text into a Move using the current position to
// classify it. The board is not modified.
func (b *Board) ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: %q: want 4 or 5 characters", ErrInvalidMove, s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %w", ErrInvalidMove, s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %w", ErrInvalidMove, s, err)
	}

	piece := b.pieces[from]
	if piece == NoPiece {
		return NoMove, fmt.Errorf("%w: %q: no piece on %s", ErrInvalidMove, s, from)
	}
	us := piece.Color()
	pt := piece.Type()

	if len(s) == 5 {
		promo := PieceTypeFromChar(s[4])
		if promo < Knight || promo > Queen {
			return NoMove, fmt.Errorf("%w: %q: invalid promotion piece %q", ErrInvalidMove, s, s[4])
		}
		if pt != Pawn {
			return NoMove, fmt.Errorf("%w: %q: promotion by %s", ErrInvalidMove, s, pt)
		}
		return NewPromotion(from, to, promo), nil
	}

	if pt == King {
		// King onto its own castling rook.
		for _, side := range [2]CastlingSide{KingSide, QueenSide} {
			if b.castling.RookSquare(us, side) == to {
				return NewCastling(from, to), nil
			}
		}
		if from.Rank() == to.Rank() && FileDistance(from, to) == 2 {
			side := CastlingSideOf(to, from)
			rookSq := b.castling.RookSquare(us, side)
			if rookSq == NoSquare {
				rookSq = NewSquare(0, from.Rank())
				if side == KingSide {
					rookSq = NewSquare(7, from.Rank())
				}
			}
			return NewCastling(from, rookSq), nil
		}
	}

	if pt == Pawn && to == b.enPassant {
		return NewEnPassant(from, to), nil
	}

	return NewMove(from, to), nil
}
