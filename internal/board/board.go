package board

import (
	"fmt"
	"log"
	"strings"
)

// DebugMoveValidation enables extra consistency checks and logging in MakeMove.
var DebugMoveValidation = false

// undo holds the state MakeMove cannot recompute from the move itself.
type undo struct {
	castling      CastlingRights
	enPassant     Square
	captured      Piece
	halfMoveClock int
	hash          uint64
}

// Board is a complete chess position with a history stack for unmaking moves.
// A Board is not safe for concurrent use; give each goroutine its own.
type Board struct {
	pieces    Mailbox
	bitboards [2][6]Bitboard // [Color][PieceType]
	occupancy Bitboard

	sideToMove    Color
	castling      CastlingRights
	enPassant     Square // NoSquare unless a pawn can capture en passant
	halfMoveClock int
	ply           int
	hash          uint64

	history []undo
}

// NewBoard returns a board set to the standard starting position.
func NewBoard() *Board {
	b, err := FromFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return b
}

// FromFEN returns a board set to the given position.
func FromFEN(fen string) (*Board, error) {
	b := &Board{}
	if err := b.SetFEN(fen); err != nil {
		return nil, err
	}
	return b, nil
}

// SideToMove returns the color to move.
func (b *Board) SideToMove() Color { return b.sideToMove }

// Occupied returns every occupied square.
func (b *Board) Occupied() Bitboard { return b.occupancy }

// Bitboard returns the squares holding pieces of color c and type pt.
func (b *Board) Bitboard(c Color, pt PieceType) Bitboard { return b.bitboards[c][pt] }

// Us returns every square holding a piece of color c.
func (b *Board) Us(c Color) Bitboard {
	bb := b.bitboards[c]
	return bb[Pawn] | bb[Knight] | bb[Bishop] | bb[Rook] | bb[Queen] | bb[King]
}

// Them returns every square holding a piece of c's opponent.
func (b *Board) Them(c Color) Bitboard { return b.Us(c.Other()) }

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (b *Board) PieceAt(sq Square) Piece { return b.pieces[sq] }

// Mailbox returns a copy of the square-to-piece table.
func (b *Board) Mailbox() Mailbox { return b.pieces }

func (b *Board) CastlingRights() CastlingRights { return b.castling }
func (b *Board) EnPassant() Square             { return b.enPassant }
func (b *Board) HalfMoveClock() int            { return b.halfMoveClock }
func (b *Board) Ply() int                      { return b.ply }
func (b *Board) Hash() uint64                  { return b.hash }

// FullMoveNumber returns the FEN full-move counter derived from the ply.
func (b *Board) FullMoveNumber() int { return b.ply/2 + 1 }

// HistoryLen returns the number of made moves not yet unmade.
func (b *Board) HistoryLen() int { return len(b.history) }

// KingSquare returns the square of c's king. A board without that king is a
// programming error and panics.
func (b *Board) KingSquare(c Color) Square {
	return b.bitboards[c][King].LSB()
}

// placePiece puts p on an empty square, keeping mailbox, bitboards,
// occupancy and hash in step.
func (b *Board) placePiece(p Piece, sq Square) {
	if p == NoPiece || b.pieces[sq] != NoPiece {
		panic(fmt.Sprintf("board: place %s on %s holding %s", p, sq, b.pieces[sq]))
	}
	b.pieces.Set(p, sq)
	b.bitboards[p.Color()][p.Type()].Set(sq)
	b.occupancy.Set(sq)
	b.hash ^= zobristPiece[p.Color()][p.Type()][sq]
}

// removePiece takes p off sq. p must be the piece standing there.
func (b *Board) removePiece(p Piece, sq Square) {
	if p == NoPiece || b.pieces[sq] != p {
		panic(fmt.Sprintf("board: remove %s from %s holding %s", p, sq, b.pieces[sq]))
	}
	b.pieces.Clear(sq)
	b.bitboards[p.Color()][p.Type()].Clear(sq)
	b.occupancy.Clear(sq)
	b.hash ^= zobristPiece[p.Color()][p.Type()][sq]
}

// movePiece relocates p from one square to an empty one.
func (b *Board) movePiece(p Piece, from, to Square) {
	b.removePiece(p, from)
	b.placePiece(p, to)
}

// MovedPiece returns the piece the move picks up.
func (b *Board) MovedPiece(m Move) Piece {
	return b.pieces[m.From()]
}

// CapturedPiece returns the piece the move would capture, or NoPiece.
func (b *Board) CapturedPiece(m Move) Piece {
	switch m.Kind() {
	case Castling:
		return NoPiece
	case EnPassant:
		return NewPiece(Pawn, b.sideToMove.Other())
	default:
		return b.pieces[m.To()]
	}
}

// IsCapture reports whether the move captures a piece.
func (b *Board) IsCapture(m Move) bool {
	return b.CapturedPiece(m) != NoPiece
}

// AttackersTo returns the pieces of color by that attack sq.
func (b *Board) AttackersTo(sq Square, by Color) Bitboard {
	bb := &b.bitboards[by]
	occ := b.occupancy
	return (PawnAttacks(sq, by.Other()) & bb[Pawn]) |
		(KnightAttacks(sq) & bb[Knight]) |
		(BishopAttacks(sq, occ) & (bb[Bishop] | bb[Queen])) |
		(RookAttacks(sq, occ) & (bb[Rook] | bb[Queen])) |
		(KingAttacks(sq) & bb[King])
}

// IsAttacked reports whether any piece of color by attacks sq.
func (b *Board) IsAttacked(sq Square, by Color) bool {
	bb := &b.bitboards[by]
	if PawnAttacks(sq, by.Other())&bb[Pawn] != 0 {
		return true
	}
	if KnightAttacks(sq)&bb[Knight] != 0 {
		return true
	}
	if BishopAttacks(sq, b.occupancy)&(bb[Bishop]|bb[Queen]) != 0 {
		return true
	}
	if RookAttacks(sq, b.occupancy)&(bb[Rook]|bb[Queen]) != 0 {
		return true
	}
	return KingAttacks(sq)&bb[King] != 0
}

// InCheck returns true if the side to move is in check.
func (b *Board) InCheck() bool {
	return b.IsCheck(b.sideToMove)
}

// IsCheck returns true if c's king is attacked.
func (b *Board) IsCheck(c Color) bool {
	return b.IsAttacked(b.KingSquare(c), c.Other())
}

// MakeMove applies a pseudo-legal move and pushes the state needed to undo it.
func (b *Board) MakeMove(m Move) {
	us := b.sideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	piece := b.pieces[from]
	pt := piece.Type()
	captured := b.CapturedPiece(m)

	if DebugMoveValidation && (piece == NoPiece || piece.Color() != us) {
		log.Printf("MAKEMOVE: %v to move but %s holds %s, move=%v hash=%x", us, from, piece, m, b.hash)
	}

	b.history = append(b.history, undo{
		castling:      b.castling,
		enPassant:     b.enPassant,
		captured:      captured,
		halfMoveClock: b.halfMoveClock,
		hash:          b.hash,
	})

	b.halfMoveClock++
	b.ply++
	if b.enPassant != NoSquare {
		b.hash ^= zobristEnPassant[b.enPassant.File()]
		b.enPassant = NoSquare
	}

	if captured != NoPiece || pt == Pawn {
		b.halfMoveClock = 0
	}

	oldRights := b.castling.Mask()

	if captured != NoPiece && m.Kind() != EnPassant {
		b.removePiece(captured, to)
		if captured.Type() == Rook {
			for _, side := range [2]CastlingSide{KingSide, QueenSide} {
				if b.castling.RookSquare(them, side) == to {
					b.castling.Clear(them, side)
				}
			}
		}
	}

	if pt == King && b.castling.HasAny(us) {
		b.castling.Clear(us, KingSide)
		b.castling.Clear(us, QueenSide)
	} else if pt == Rook {
		for _, side := range [2]CastlingSide{KingSide, QueenSide} {
			if b.castling.RookSquare(us, side) == from {
				b.castling.Clear(us, side)
			}
		}
	}

	if newRights := b.castling.Mask(); newRights != oldRights {
		b.hash ^= zobristCastling[oldRights] ^ zobristCastling[newRights]
	}

	if pt == Pawn && RankDistance(from, to) == 2 {
		ep := Square((int(from) + int(to)) / 2)
		if PawnAttacks(ep, us)&b.bitboards[them][Pawn] != 0 {
			b.enPassant = ep
			b.hash ^= zobristEnPassant[ep.File()]
		}
	}

	switch m.Kind() {
	case Castling:
		side := CastlingSideOf(to, from)
		rook := NewPiece(Rook, us)
		b.removePiece(piece, from)
		b.removePiece(rook, to)
		b.placePiece(piece, KingDestination(us, side))
		b.placePiece(rook, RookDestination(us, side))
	case Promotion:
		b.removePiece(piece, from)
		b.placePiece(NewPiece(m.Promotion(), us), to)
	case EnPassant:
		b.movePiece(piece, from, to)
		b.removePiece(captured, NewSquare(to.File(), from.Rank()))
	default:
		b.movePiece(piece, from, to)
	}

	b.sideToMove = them
	b.hash ^= zobristSideToMove

	if DebugMoveValidation {
		if err := b.Validate(); err != nil {
			log.Printf("MAKEMOVE: move=%v left an inconsistent board: %v", m, err)
		}
	}
}

// UnmakeMove reverts the most recent MakeMove. m must be the same move; calls
// must mirror MakeMove in strict LIFO order. An empty history panics.
func (b *Board) UnmakeMove(m Move) {
	st := b.pop()

	b.sideToMove = b.sideToMove.Other()
	b.ply--
	us := b.sideToMove
	from, to := m.From(), m.To()

	switch m.Kind() {
	case Castling:
		side := CastlingSideOf(to, from)
		king := NewPiece(King, us)
		rook := NewPiece(Rook, us)
		b.removePiece(king, KingDestination(us, side))
		b.removePiece(rook, RookDestination(us, side))
		b.placePiece(king, from)
		b.placePiece(rook, to)
	case Promotion:
		b.removePiece(b.pieces[to], to)
		b.placePiece(NewPiece(Pawn, us), from)
		if st.captured != NoPiece {
			b.placePiece(st.captured, to)
		}
	case EnPassant:
		b.movePiece(NewPiece(Pawn, us), to, from)
		b.placePiece(st.captured, NewSquare(to.File(), from.Rank()))
	default:
		b.movePiece(b.pieces[to], to, from)
		if st.captured != NoPiece {
			b.placePiece(st.captured, to)
		}
	}

	b.castling = st.castling
	b.enPassant = st.enPassant
	b.halfMoveClock = st.halfMoveClock
	b.hash = st.hash
}

// MakeNullMove passes the turn without moving. It shares the history stack
// with MakeMove and must be undone with UnmakeNullMove.
func (b *Board) MakeNullMove() {
	b.history = append(b.history, undo{
		castling:      b.castling,
		enPassant:     b.enPassant,
		captured:      NoPiece,
		halfMoveClock: b.halfMoveClock,
		hash:          b.hash,
	})

	if b.enPassant != NoSquare {
		b.hash ^= zobristEnPassant[b.enPassant.File()]
		b.enPassant = NoSquare
	}
	b.ply++
	b.sideToMove = b.sideToMove.Other()
	b.hash ^= zobristSideToMove
}

// UnmakeNullMove undoes a null move.
func (b *Board) UnmakeNullMove() {
	st := b.pop()
	b.sideToMove = b.sideToMove.Other()
	b.ply--
	b.enPassant = st.enPassant
	b.hash = st.hash
}

func (b *Board) pop() undo {
	n := len(b.history)
	if n == 0 {
		panic("board: unmake with empty history")
	}
	st := b.history[n-1]
	b.history = b.history[:n-1]
	return st
}

// IsRepetition reports whether the current position has occurred n times
// (counting itself) since the last capture or pawn move.
func (b *Board) IsRepetition(n int) bool {
	count := 1
	last := len(b.history)
	for i := last - 2; i >= 0 && i >= last-b.halfMoveClock; i -= 2 {
		if b.history[i].hash == b.hash {
			count++
			if count >= n {
				return true
			}
		}
	}
	return count >= n
}

// Validate checks the mailbox, bitboards, occupancy and hash agree and that
// each side has exactly one king.
func (b *Board) Validate() error {
	var union Bitboard
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := b.bitboards[c][pt]
			if union&bb != 0 {
				return fmt.Errorf("%v %v bitboard overlaps another piece set", c, pt)
			}
			union |= bb
		}
	}
	if union != b.occupancy {
		return fmt.Errorf("occupancy %016x != union of piece bitboards %016x", uint64(b.occupancy), uint64(union))
	}

	for sq := A1; sq <= H8; sq++ {
		p := b.pieces[sq]
		if p == NoPiece {
			if union.IsSet(sq) {
				return fmt.Errorf("%s empty in mailbox but set in bitboards", sq)
			}
			continue
		}
		if !b.bitboards[p.Color()][p.Type()].IsSet(sq) {
			return fmt.Errorf("%s holds %s in mailbox but not in its bitboard", sq, p)
		}
	}

	for c := White; c <= Black; c++ {
		if n := b.bitboards[c][King].PopCount(); n != 1 {
			return fmt.Errorf("%v has %d kings", c, n)
		}
	}

	if h := b.ComputeHash(); h != b.hash {
		return fmt.Errorf("hash %016x != recomputed %016x", b.hash, h)
	}
	return nil
}

// String returns a visual representation of the position.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString(b.pieces.String())
	fmt.Fprintf(&sb, "\nSide to move: %s\n", b.sideToMove)
	if b.enPassant != NoSquare {
		fmt.Fprintf(&sb, "En passant: %s\n", b.enPassant)
	} else {
		sb.WriteString("En passant: None\n")
	}
	fmt.Fprintf(&sb, "Castling: %s\n", b.castling)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", b.halfMoveClock)
	fmt.Fprintf(&sb, "Ply: %d\n", b.ply)
	fmt.Fprintf(&sb, "Hash: %016x\n", b.hash)
	return sb.String()
}
