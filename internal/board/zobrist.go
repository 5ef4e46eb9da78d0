package board

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [2][6][64]uint64 // [Color][PieceType][Square]
	zobristEnPassant  [8]uint64        // One per file
	zobristCastling   [16]uint64       // Indexed by CastlingRights.Mask()
	zobristSideToMove uint64           // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys and magic search.
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// sparse returns a value with roughly 1/8 of its bits set.
func (p *prng) sparse() uint64 {
	return p.next() & p.next() & p.next()
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}

	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}

	// Mask 0 keeps key 0 so an empty-rights position hashes like the piece set alone.
	for i := 1; i < 16; i++ {
		zobristCastling[i] = rng.next()
	}

	zobristSideToMove = rng.next()
}

// ComputeHash computes the Zobrist hash for the position from scratch.
// MakeMove and UnmakeMove keep Hash() equal to this value incrementally.
func (b *Board) ComputeHash() uint64 {
	var hash uint64

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := b.bitboards[c][pt]
			for bb != 0 {
				hash ^= zobristPiece[c][pt][bb.PopLSB()]
			}
		}
	}

	if b.sideToMove == Black {
		hash ^= zobristSideToMove
	}

	hash ^= zobristCastling[b.castling.Mask()]

	if b.enPassant != NoSquare {
		hash ^= zobristEnPassant[b.enPassant.File()]
	}

	return hash
}
