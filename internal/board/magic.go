package board

import "math/bits"

// Fancy magic bitboards for sliding piece attacks. Magic multipliers are
// searched at init from a fixed seed, so a table is only accepted once every
// occupancy subset maps to a slot holding its exact attack set.

// Magic holds the magic bitboard data for a single square.
type Magic struct {
	Mask    Bitboard   // Relevant occupancy mask (excludes edges)
	Magic   uint64     // Magic multiplier
	Shift   uint8      // Bits to shift right
	attacks []Bitboard // Slice of the shared attack table for this square
}

func (m *Magic) index(occupied Bitboard) uint64 {
	return (uint64(occupied&m.Mask) * m.Magic) >> m.Shift
}

var (
	bishopMagics [64]Magic
	rookMagics   [64]Magic

	bishopTable [5248]Bitboard
	rookTable   [102400]Bitboard
)

func initMagics() {
	findMagics(bishopMagics[:], bishopTable[:], bishopAttacksSlow)
	findMagics(rookMagics[:], rookTable[:], rookAttacksSlow)
}

// findMagics fills magics and table for one slider type.
func findMagics(magics []Magic, table []Bitboard, slow func(Square, Bitboard) Bitboard) {
	var (
		occupancy [4096]Bitboard
		reference [4096]Bitboard
		epoch     [4096]int
		attempt   int
	)
	rng := newPRNG(0x5EED_C0FFEE_1234)
	offset := 0

	for sq := A1; sq <= H8; sq++ {
		edges := ((Rank1 | Rank8) &^ RankMask[sq.Rank()]) | ((FileA | FileH) &^ FileMask[sq.File()])
		m := &magics[sq]
		m.Mask = slow(sq, 0) &^ edges
		n := m.Mask.PopCount()
		m.Shift = uint8(64 - n)
		size := 1 << n
		m.attacks = table[offset : offset+size]
		offset += size

		// Carry-Rippler enumeration of every subset of the mask.
		var b Bitboard
		for i := 0; i < size; i++ {
			occupancy[i] = b
			reference[i] = slow(sq, b)
			b = (b - m.Mask) & m.Mask
		}

		for {
			for {
				m.Magic = rng.sparse()
				if bits.OnesCount64((m.Magic*uint64(m.Mask))>>56) >= 6 {
					break
				}
			}

			attempt++
			ok := true
			for i := 0; i < size; i++ {
				idx := m.index(occupancy[i])
				if epoch[idx] < attempt {
					epoch[idx] = attempt
					m.attacks[idx] = reference[i]
				} else if m.attacks[idx] != reference[i] {
					ok = false
					break
				}
			}
			if ok {
				break
			}
		}
	}
}

// bishopAttacksSlow computes bishop attacks by ray casting (used during initialization).
func bishopAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, occupied, [4][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}})
}

// rookAttacksSlow computes rook attacks by ray casting (used during initialization).
func rookAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, occupied, [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}})
}

func rayAttacks(sq Square, occupied Bitboard, dirs [4][2]int) Bitboard {
	var attacks Bitboard
	for _, d := range dirs {
		for f, r := sq.File()+d[0], sq.Rank()+d[1]; onBoard(f, r); f, r = f+d[0], r+d[1] {
			s := NewSquare(f, r)
			attacks |= SquareBB(s)
			if occupied.IsSet(s) {
				break
			}
		}
	}
	return attacks
}
