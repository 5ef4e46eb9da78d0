package board

import "strings"

// Mailbox maps each of the 64 squares to the piece standing on it.
type Mailbox [64]Piece

// Set puts p on sq.
func (mb *Mailbox) Set(p Piece, sq Square) {
	mb[sq] = p
}

// Clear empties sq.
func (mb *Mailbox) Clear(sq Square) {
	mb[sq] = NoPiece
}

// Reset empties every square.
func (mb *Mailbox) Reset() {
	for i := range mb {
		mb[i] = NoPiece
	}
}

// String renders the mailbox as an 8x8 grid, rank 8 first.
func (mb *Mailbox) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteString("  ")
		for file := 0; file < 8; file++ {
			sb.WriteByte(mb[NewSquare(file, rank)].Char())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}
