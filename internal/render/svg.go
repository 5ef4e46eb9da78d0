// Package render draws board diagrams.
package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/hailam/chesscore/internal/board"
)

// Options controls diagram appearance.
type Options struct {
	SquareSize  int
	Light       string
	Dark        string
	Highlight   string // fill for the checked king and the en passant target
	Flip        bool   // draw from Black's side
	Coordinates bool
}

// DefaultOptions returns a 360px board with coordinates.
func DefaultOptions() Options {
	return Options{
		SquareSize:  45,
		Light:       "#f0d9b5",
		Dark:        "#b58863",
		Highlight:   "#e8685a",
		Coordinates: true,
	}
}

var glyphs = [12]string{"♙", "♘", "♗", "♖", "♕", "♔", "♟", "♞", "♝", "♜", "♛", "♚"}

// WriteSVG writes an SVG diagram of b to w.
func WriteSVG(w io.Writer, b *board.Board, opts Options) error {
	if opts.SquareSize <= 0 {
		return fmt.Errorf("render: square size must be positive, got %d", opts.SquareSize)
	}
	size := opts.SquareSize
	margin := 0
	if opts.Coordinates {
		margin = size / 2
	}

	marked := board.Empty
	if ep := b.EnPassant(); ep != board.NoSquare {
		marked |= board.SquareBB(ep)
	}
	if b.InCheck() {
		marked |= board.SquareBB(b.KingSquare(b.SideToMove()))
	}

	canvas := svg.New(w)
	canvas.Start(8*size+margin, 8*size+margin)
	canvas.Title(b.FEN())

	for sq := board.A1; sq <= board.H8; sq++ {
		col, row := sq.File(), 7-sq.Rank()
		if opts.Flip {
			col, row = 7-col, 7-row
		}
		x, y := margin+col*size, row*size

		fill := opts.Light
		if (sq.File()+sq.Rank())%2 == 0 {
			fill = opts.Dark
		}
		if marked.IsSet(sq) {
			fill = opts.Highlight
		}
		canvas.Rect(x, y, size, size, "fill:"+fill)

		if p := b.PieceAt(sq); p != board.NoPiece {
			canvas.Text(x+size/2, y+size*4/5, glyphs[p],
				fmt.Sprintf("text-anchor:middle;font-size:%dpx", size*4/5))
		}
	}

	if opts.Coordinates {
		style := fmt.Sprintf("text-anchor:middle;font-size:%dpx;fill:#555", size/3)
		for i := 0; i < 8; i++ {
			file, rank := i, 7-i
			if opts.Flip {
				file, rank = 7-i, i
			}
			canvas.Text(margin+i*size+size/2, 8*size+margin*3/4, string(rune('a'+file)), style)
			canvas.Text(margin/2, i*size+size*3/5, string(rune('1'+rank)), style)
		}
	}

	canvas.End()
	return nil
}
