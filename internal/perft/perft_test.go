package perft

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chesscore/internal/board"
)

func newRunner(t *testing.T, cfg Config) *Runner {
	t.Helper()
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestPerft(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		nodes []uint64 // indexed by depth-1
	}{
		{"start", board.StartFEN, []uint64{20, 400, 8902, 197281}},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", []uint64{48, 2039, 97862}},
		{"endgame", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", []uint64{14, 191, 2812, 43238}},
		{"promotions", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []uint64{6, 264, 9467}},
		{"talkchess", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []uint64{44, 1486, 62379}},
	}

	r := newRunner(t, DefaultConfig())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for i, want := range tc.nodes {
				depth := i + 1
				got, err := r.Count(context.Background(), tc.fen, depth)
				if err != nil {
					t.Fatalf("perft(%d): %v", depth, err)
				}
				if got != want {
					t.Errorf("perft(%d) = %d, want %d", depth, got, want)
				}
			}
		})
	}
}

func TestPerftWithoutCache(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DisableCache = true
	r := newRunner(t, cfg)

	got, err := r.Count(context.Background(), board.StartFEN, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != 8902 {
		t.Errorf("perft(3) = %d, want 8902", got)
	}
}

func TestPerftVerify(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Verify = true
	r := newRunner(t, cfg)
	if r.cache != nil {
		t.Fatal("verify mode kept the node cache")
	}

	got, err := r.Count(context.Background(), "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != 2039 {
		t.Errorf("perft(2) = %d, want 2039", got)
	}
}

func TestDivide(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 4
	r := newRunner(t, cfg)

	splits, err := r.Divide(context.Background(), board.StartFEN, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(splits) != 20 {
		t.Fatalf("got %d root moves, want 20", len(splits))
	}
	if total := Total(splits); total != 400 {
		t.Errorf("Total = %d, want 400", total)
	}
	for _, s := range splits {
		if s.Nodes != 20 {
			t.Errorf("%s: %d, want 20", s.Move, s.Nodes)
		}
	}
	for i := 1; i < len(splits); i++ {
		if splits[i-1].Move >= splits[i].Move {
			t.Errorf("splits not sorted: %s before %s", splits[i-1].Move, splits[i].Move)
		}
	}

	want := []Split{{"a2a3", 20}, {"a2a4", 20}, {"b1a3", 20}, {"b1c3", 20}}
	if diff := cmp.Diff(want, splits[:4]); diff != "" {
		t.Errorf("first splits mismatch (-want +got):\n%s", diff)
	}
}

func TestDivideDepthZero(t *testing.T) {
	r := newRunner(t, DefaultConfig())
	if _, err := r.Divide(context.Background(), board.StartFEN, 0); err == nil {
		t.Error("Divide at depth 0 should fail")
	}
}

func TestCountInvalidFEN(t *testing.T) {
	r := newRunner(t, DefaultConfig())
	if _, err := r.Count(context.Background(), "not a fen", 1); !errors.Is(err, board.ErrInvalidFEN) {
		t.Errorf("error = %v, want ErrInvalidFEN", err)
	}
}

func TestCountCanceled(t *testing.T) {
	r := newRunner(t, DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Count(ctx, board.StartFEN, 3); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if _, err := r.Divide(ctx, board.StartFEN, 3); !errors.Is(err, context.Canceled) {
		t.Errorf("Divide error = %v, want context.Canceled", err)
	}
}

func TestCache(t *testing.T) {
	c, err := OpenCache()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, ok, err := c.Get(0xDEADBEEF, 3); err != nil || ok {
		t.Fatalf("Get on empty cache = %v, %v", ok, err)
	}
	if err := c.Put(0xDEADBEEF, 3, 8902); err != nil {
		t.Fatal(err)
	}

	n, ok, err := c.Get(0xDEADBEEF, 3)
	if err != nil || !ok || n != 8902 {
		t.Errorf("Get = %d, %v, %v; want 8902, true, nil", n, ok, err)
	}
	if _, ok, _ := c.Get(0xDEADBEEF, 4); ok {
		t.Error("depth is part of the key")
	}
}
