package board

import (
	"errors"
	"testing"
)

func TestParseSquare(t *testing.T) {
	for sq := A1; sq <= H8; sq++ {
		got, err := ParseSquare(sq.String())
		if err != nil || got != sq {
			t.Errorf("ParseSquare(%q) = %v, %v; want %v", sq.String(), got, err, sq)
		}
	}

	for _, s := range []string{"", "e", "e44", "i1", "a0", "a9", "E4", "-"} {
		if _, err := ParseSquare(s); !errors.Is(err, ErrInvalidSquare) {
			t.Errorf("ParseSquare(%q) error = %v, want ErrInvalidSquare", s, err)
		}
	}
}

func TestSquareGeometry(t *testing.T) {
	if E4.File() != 4 || E4.Rank() != 3 {
		t.Errorf("e4 file/rank = %d/%d", E4.File(), E4.Rank())
	}
	if NewSquare(7, 7) != H8 || NewSquare(0, 0) != A1 {
		t.Error("NewSquare corners wrong")
	}
	if E3.RelativeRank(White) != 2 || E6.RelativeRank(Black) != 2 {
		t.Errorf("RelativeRank: e3/W=%d e6/B=%d", E3.RelativeRank(White), E6.RelativeRank(Black))
	}
	if BackRank(White) != 0 || BackRank(Black) != 7 {
		t.Error("BackRank wrong")
	}
	if NoSquare.String() != "-" {
		t.Errorf("NoSquare prints %q", NoSquare.String())
	}

	tests := []struct {
		a, b   Square
		df, dr int
	}{
		{A1, H8, 7, 7},
		{E4, E4, 0, 0},
		{B1, C3, 1, 2},
		{H1, A1, 7, 0},
	}
	for _, tc := range tests {
		if got := RankDistance(tc.a, tc.b); got != tc.dr {
			t.Errorf("RankDistance(%v,%v) = %d, want %d", tc.a, tc.b, got, tc.dr)
		}
		if got := FileDistance(tc.a, tc.b); got != tc.df {
			t.Errorf("FileDistance(%v,%v) = %d, want %d", tc.a, tc.b, got, tc.df)
		}
	}
}

func TestPieceEncoding(t *testing.T) {
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			p := NewPiece(pt, c)
			if p.Type() != pt || p.Color() != c {
				t.Errorf("NewPiece(%v,%v) decodes to %v,%v", pt, c, p.Type(), p.Color())
			}
			if back := PieceFromChar(p.Char()); back != p {
				t.Errorf("PieceFromChar(%q) = %v, want %v", p.Char(), back, p)
			}
		}
	}
	if NoPiece.Type() != NoPieceType || NoPiece.Color() != NoColor {
		t.Error("NoPiece should decode to NoPieceType/NoColor")
	}
	if PieceFromChar('x') != NoPiece {
		t.Error("PieceFromChar('x') should be NoPiece")
	}
	if White.Other() != Black || Black.Other() != White {
		t.Error("Other wrong")
	}
}
