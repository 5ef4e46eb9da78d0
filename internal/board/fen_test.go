package board

import (
	"errors"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	fens := append([]string{
		"8/8/8/8/8/8/8/K6k b - - 99 150",
		"rnbqkbnr/pppp1ppp/8/8/3Pp3/8/PPP1PPPP/RNBQKBNR b KQkq d3 0 2",
		"1r2k1r1/8/8/8/8/8/8/1R2K1R1 w GBgb - 0 1",
		"rk5r/8/8/8/8/8/8/RK5R w KQkq - 4 12",
		"4k3/8/8/8/8/8/8/1R2K1R1 w GB - 0 1",
	}, roundTripFENs...)

	for _, fen := range fens {
		b := mustFEN(t, fen)
		if got := b.FEN(); got != fen {
			t.Errorf("FEN round trip:\n got %q\nwant %q", got, fen)
		}
	}
}

func TestFENNormalization(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"four fields", StartFEN[:len(StartFEN)-4], StartFEN},
		{"surrounding whitespace", "  " + StartFEN + " \t", StartFEN},
		{"uncapturable en passant dropped",
			"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
			"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"},
		{"full move zero", "4k3/8/8/8/8/8/8/4K3 w - - 0 0", "4k3/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"outer rook chosen for K", "4k3/8/8/8/8/8/8/4K1RR w K - 0 1", "4k3/8/8/8/8/8/8/4K1RR w K - 0 1"},
		{"shredder letters on standard files", "r3k2r/8/8/8/8/8/8/R3K2R w HAha - 0 1",
			"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustFEN(t, tc.in)
			if got := b.FEN(); got != tc.want {
				t.Errorf("FEN() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFENPly(t *testing.T) {
	tests := []struct {
		fen  string
		ply  int
		full int
	}{
		{StartFEN, 0, 1},
		{"4k3/8/8/8/8/8/8/4K3 b - - 0 1", 1, 1},
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 40", 78, 40},
		{"4k3/8/8/8/8/8/8/4K3 b - - 0 40", 79, 40},
		{"4k3/8/8/8/8/8/8/4K3 b - -", 1, 1},
	}
	for _, tc := range tests {
		b := mustFEN(t, tc.fen)
		if b.Ply() != tc.ply || b.FullMoveNumber() != tc.full {
			t.Errorf("%q: ply=%d full=%d, want %d %d", tc.fen, b.Ply(), b.FullMoveNumber(), tc.ply, tc.full)
		}
	}
}

func TestFENErrors(t *testing.T) {
	tests := []struct {
		name, fen string
	}{
		{"empty", ""},
		{"too few fields", "8/8/8/8/8/8/8/8 w -"},
		{"too many fields", StartFEN + " 7"},
		{"seven ranks", "8/8/8/8/8/8/4K2k w - - 0 1"},
		{"long rank", "rnbqkbnr/ppppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"short rank", "rnbqkbn/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"bad piece", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBXKBNR w KQkq - 0 1"},
		{"bad side", "4k3/8/8/8/8/8/8/4K3 x - - 0 1"},
		{"bad castling char", "4k3/8/8/8/8/8/8/4K3 w X - 0 1"},
		{"castling without rook", "4k3/8/8/8/8/8/8/4K3 w K - 0 1"},
		{"castling without home king", "7k/8/8/8/8/8/4K3/7R w K - 0 1"},
		{"bad en passant square", "4k3/8/8/8/8/8/8/4K3 w - z9 0 1"},
		{"en passant wrong rank", "4k3/8/8/8/8/8/8/4K3 w - e3 0 1"},
		{"en passant target occupied", "4k3/8/8/8/3pP3/4N3/8/4K3 b - e3 0 1"},
		{"en passant without pushed pawn", "4k3/8/8/8/3p4/8/8/4K3 b - e3 0 1"},
		{"en passant origin occupied", "4k3/8/8/8/3pP3/8/4P3/4K3 b - e3 0 1"},
		{"black en passant origin occupied", "4k3/3p4/8/3pP3/8/8/8/4K3 w - d6 0 1"},
		{"negative halfmove", "4k3/8/8/8/8/8/8/4K3 w - - -1 1"},
		{"non-numeric fullmove", "4k3/8/8/8/8/8/8/4K3 w - - 0 x"},
		{"no white king", "4k3/8/8/8/8/8/8/8 w - - 0 1"},
		{"two black kings", "3kk3/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"pawn on back rank", "P3k3/8/8/8/8/8/8/4K3 w - - 0 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromFEN(tc.fen); !errors.Is(err, ErrInvalidFEN) {
				t.Errorf("FromFEN(%q) error = %v, want ErrInvalidFEN", tc.fen, err)
			}
		})
	}
}

func TestSetFENLeavesBoardOnError(t *testing.T) {
	b := NewBoard()
	play(t, b, "e2e4")
	before := snapshot(b)

	if err := b.SetFEN("4k3/8/8/8/8/8/8/4K3 w K - 0 1"); err == nil {
		t.Fatal("SetFEN accepted a castling right without a rook")
	}
	if before.Hash != b.Hash() || before.HistoryLen != b.HistoryLen() || b.FEN() != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1" {
		t.Errorf("board changed after failed SetFEN: %s", b.FEN())
	}

	if err := b.SetFEN(StartFEN); err != nil {
		t.Fatal(err)
	}
	if b.HistoryLen() != 0 {
		t.Errorf("SetFEN kept %d history entries", b.HistoryLen())
	}
}
