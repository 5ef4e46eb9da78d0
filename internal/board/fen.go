package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// SetFEN replaces the whole position, clearing the history. On error the
// board is left unchanged.
func (b *Board) SetFEN(fen string) error {
	parts := strings.Fields(fen)
	if len(parts) < 4 || len(parts) > 6 {
		return fmt.Errorf("%w: need 4 to 6 fields, got %d", ErrInvalidFEN, len(parts))
	}

	nb := Board{
		enPassant: NoSquare,
		history:   b.history[:0],
	}
	nb.pieces.Reset()

	if err := parsePiecePlacement(&nb, parts[0]); err != nil {
		return err
	}

	switch parts[1] {
	case "w":
		nb.sideToMove = White
	case "b":
		nb.sideToMove = Black
	default:
		return fmt.Errorf("%w: invalid side to move %q", ErrInvalidFEN, parts[1])
	}

	cr, err := parseCastlingRights(parts[2], &nb)
	if err != nil {
		return err
	}
	nb.castling = cr

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return fmt.Errorf("%w: en passant: %w", ErrInvalidFEN, err)
		}
		pusher := nb.sideToMove.Other()
		if sq.RelativeRank(pusher) != 2 {
			return fmt.Errorf("%w: en passant square %s on wrong rank", ErrInvalidFEN, sq)
		}
		pushed, origin := sq+8, sq-8
		if pusher == Black {
			pushed, origin = sq-8, sq+8
		}
		if nb.pieces[sq] != NoPiece || nb.pieces[origin] != NoPiece {
			return fmt.Errorf("%w: en passant square %s or %s not empty", ErrInvalidFEN, sq, origin)
		}
		if nb.pieces[pushed] != NewPiece(Pawn, pusher) {
			return fmt.Errorf("%w: en passant square %s without a pushed pawn on %s", ErrInvalidFEN, sq, pushed)
		}
		// Only keep a target some pawn can actually capture on.
		if PawnAttacks(sq, pusher)&nb.bitboards[nb.sideToMove][Pawn] != 0 {
			nb.enPassant = sq
		}
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return fmt.Errorf("%w: invalid half-move clock %q", ErrInvalidFEN, parts[4])
		}
		nb.halfMoveClock = hmc
	}

	fullMove := 1
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 0 {
			return fmt.Errorf("%w: invalid full-move number %q", ErrInvalidFEN, parts[5])
		}
		fullMove = max(fmn, 1)
	}
	nb.ply = 2 * (fullMove - 1)
	if nb.sideToMove == Black {
		nb.ply++
	}

	for c := White; c <= Black; c++ {
		if n := nb.bitboards[c][King].PopCount(); n != 1 {
			return fmt.Errorf("%w: %v has %d kings", ErrInvalidFEN, c, n)
		}
	}
	if (nb.bitboards[White][Pawn]|nb.bitboards[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("%w: pawns on rank 1 or 8", ErrInvalidFEN)
	}

	nb.hash = nb.ComputeHash()
	*b = nb
	return nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(b *Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if file > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			piece := PieceFromChar(c)
			if piece == NoPiece {
				return fmt.Errorf("%w: invalid piece character %q", ErrInvalidFEN, c)
			}
			b.placePiece(piece, NewSquare(file, rank))
			file++
		}

		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, rank+1, file)
		}
	}

	return nil
}

// FEN returns the FEN representation of the position.
func (b *Board) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := b.pieces[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(piece.Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if b.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(b.castling.String())

	sb.WriteByte(' ')
	sb.WriteString(b.enPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.FullMoveNumber()))

	return sb.String()
}
