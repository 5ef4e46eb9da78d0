// Command chesscore loads a position, applies UCI moves and reports the
// result, optionally running perft or writing an SVG diagram.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/perft"
	"github.com/hailam/chesscore/internal/render"
)

var (
	fenFlag    = flag.String("fen", board.StartFEN, "starting position")
	movesFlag  = flag.String("moves", "", "space separated UCI moves to apply")
	perftDepth = flag.Int("perft", 0, "run perft to this depth")
	divide     = flag.Bool("divide", false, "print per-move perft counts")
	workers    = flag.Int("workers", perft.DefaultConfig().Workers, "perft worker goroutines")
	verify     = flag.Bool("verify", false, "cross-check every perft node against the generator")
	svgPath    = flag.String("svg", "", "write an SVG diagram to this file")
	flip       = flag.Bool("flip", false, "draw the diagram from Black's side")
	debug      = flag.Bool("debug", false, "enable move validation logging")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()
	board.DebugMoveValidation = *debug

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

func run() error {
	b, err := board.FromFEN(*fenFlag)
	if err != nil {
		return err
	}

	for _, text := range strings.Fields(*movesFlag) {
		m, err := b.ParseMove(text)
		if err != nil {
			return err
		}
		b.MakeMove(m)
	}

	fmt.Print(b)
	fmt.Println("FEN:", b.FEN())
	if b.InCheck() {
		fmt.Println("Check")
	}

	if *svgPath != "" {
		if err := writeSVG(b, *svgPath); err != nil {
			return err
		}
	}

	if *perftDepth > 0 {
		return runPerft(b.FEN(), *perftDepth)
	}
	return nil
}

func writeSVG(b *board.Board, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	opts := render.DefaultOptions()
	opts.Flip = *flip
	if err := render.WriteSVG(f, b, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runPerft(fen string, depth int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := perft.DefaultConfig()
	cfg.Workers = *workers
	cfg.Verify = *verify
	cfg.Verbose = *debug

	r, err := perft.New(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	start := time.Now()
	var nodes uint64
	if *divide {
		splits, err := r.Divide(ctx, fen, depth)
		if err != nil {
			return err
		}
		for _, s := range splits {
			fmt.Printf("%s: %d\n", s.Move, s.Nodes)
		}
		nodes = perft.Total(splits)
	} else {
		nodes, err = r.Count(ctx, fen, depth)
		if err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("\nNodes searched: %d\n", nodes)
	log.Printf("perft(%d) took %v", depth, elapsed)
	return nil
}
