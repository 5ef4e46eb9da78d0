// Package perft counts move-tree leaves by walking the board core with make and
// unmake while an external legal-move generator supplies the moves. Any
// disagreement between the two boards surfaces as ErrDesync.
package perft

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sort"

	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
)

// ErrDesync reports that the core and the move generator no longer agree.
var ErrDesync = errors.New("perft: board and generator out of sync")

// Config controls a Runner.
type Config struct {
	Workers       int  // parallel root workers used by Divide
	CacheMinDepth int  // subtrees shallower than this are not cached
	DisableCache  bool // skip the node cache entirely
	Verify        bool // compare occupancy with the generator at every node; turns the cache off
	Verbose       bool // log each root move as it completes
}

// DefaultConfig returns the settings used by the CLI.
func DefaultConfig() Config {
	return Config{
		Workers:       runtime.NumCPU(),
		CacheMinDepth: 2,
	}
}

// Split is the node count below one root move.
type Split struct {
	Move  string
	Nodes uint64
}

// Runner counts perft nodes. It is safe for concurrent use: every walk builds
// its own boards and only the cache is shared.
type Runner struct {
	cfg   Config
	cache *Cache
}

// New creates a Runner, opening the node cache unless disabled.
func New(cfg Config) (*Runner, error) {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Verify {
		// Verification has to visit every node.
		cfg.DisableCache = true
	}
	r := &Runner{cfg: cfg}
	if !cfg.DisableCache {
		c, err := OpenCache()
		if err != nil {
			return nil, fmt.Errorf("perft: open cache: %w", err)
		}
		r.cache = c
	}
	return r, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.cache == nil {
		return nil
	}
	return r.cache.Close()
}

// Count returns the number of leaf nodes depth plies below fen.
func (r *Runner) Count(ctx context.Context, fen string, depth int) (uint64, error) {
	w, err := r.newWalker(fen)
	if err != nil {
		return 0, err
	}
	return w.count(ctx, depth)
}

// Divide returns the node count below every root move, sorted by move text.
// Root moves are spread over Config.Workers goroutines.
func (r *Runner) Divide(ctx context.Context, fen string, depth int) ([]Split, error) {
	if depth < 1 {
		return nil, fmt.Errorf("perft: divide needs depth >= 1, got %d", depth)
	}
	root, err := r.newWalker(fen)
	if err != nil {
		return nil, err
	}
	moves := root.gen.GenerateLegalMoves()
	splits := make([]Split, len(moves))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i := range moves {
		m := moves[i]
		g.Go(func() error {
			w, err := r.newWalker(fen)
			if err != nil {
				return err
			}
			text := m.String()
			n, err := w.child(ctx, m, depth-1)
			if err != nil {
				return fmt.Errorf("%s: %w", text, err)
			}
			splits[i] = Split{Move: text, Nodes: n}
			if r.cfg.Verbose {
				log.Printf("perft: %s %d", text, n)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(splits, func(i, j int) bool { return splits[i].Move < splits[j].Move })
	return splits, nil
}

// Total sums a divide result.
func Total(splits []Split) uint64 {
	var n uint64
	for _, s := range splits {
		n += s.Nodes
	}
	return n
}

// walker advances one core board and one generator board in lockstep.
type walker struct {
	b     *board.Board
	gen   *dragontoothmg.Board
	cache *Cache
	cfg   Config
}

func (r *Runner) newWalker(fen string) (*walker, error) {
	b, err := board.FromFEN(fen)
	if err != nil {
		return nil, err
	}
	gen := dragontoothmg.ParseFen(fen)
	return &walker{b: b, gen: &gen, cache: r.cache, cfg: r.cfg}, nil
}

func (w *walker) count(ctx context.Context, depth int) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if w.cfg.Verify {
		if err := w.verify(); err != nil {
			return 0, err
		}
	}
	if depth == 0 {
		return 1, nil
	}

	useCache := w.cache != nil && depth >= w.cfg.CacheMinDepth
	if useCache {
		n, ok, err := w.cache.Get(w.b.Hash(), depth)
		if err != nil {
			return 0, err
		}
		if ok {
			return n, nil
		}
	}

	var nodes uint64
	for _, m := range w.gen.GenerateLegalMoves() {
		n, err := w.child(ctx, m, depth-1)
		if err != nil {
			return 0, err
		}
		nodes += n
	}

	if useCache {
		if err := w.cache.Put(w.b.Hash(), depth, nodes); err != nil {
			return 0, err
		}
	}
	return nodes, nil
}

// child plays m on both boards, counts below it and takes it back.
func (w *walker) child(ctx context.Context, m dragontoothmg.Move, depth int) (uint64, error) {
	text := m.String()
	mv, err := w.b.ParseMove(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDesync, err)
	}

	unapply := w.gen.Apply(m)
	w.b.MakeMove(mv)
	n, err := w.count(ctx, depth)
	w.b.UnmakeMove(mv)
	unapply()

	return n, err
}

func (w *walker) verify() error {
	want := board.Bitboard(w.gen.White.All | w.gen.Black.All)
	if got := w.b.Occupied(); got != want {
		return fmt.Errorf("%w: occupancy %016x, generator %016x at %s",
			ErrDesync, uint64(got), uint64(want), w.b.FEN())
	}
	if err := w.b.Validate(); err != nil {
		return fmt.Errorf("%w: %w at %s", ErrDesync, err, w.b.FEN())
	}
	return nil
}
