package board

import "math/bits"

// Bitboard is a 64-bit set of squares, bit i standing for Square(i):
// bit 0 is a1, bit 7 is h1 and bit 63 is h8.
type Bitboard uint64

const (
	Empty Bitboard = 0
	Rank1 Bitboard = 0xFF
	Rank8 Bitboard = Rank1 << 56
)

// SquareBB returns a bitboard with only the given square set.
func SquareBB(sq Square) Bitboard {
	return 1 << sq
}

// Mask returns the single-bit mask for display coordinates (row 0 = rank 8).
func Mask(row, col int) (Bitboard, error) {
	sq, err := SquareAt(row, col)
	if err != nil {
		return Empty, err
	}
	return SquareBB(sq), nil
}

// IsSet reports whether sq is in the set. NoSquare never is.
func (b Bitboard) IsSet(sq Square) bool {
	return sq < NoSquare && b&SquareBB(sq) != 0
}

// PopCount returns the number of squares in the set.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// LSB returns the lowest square in the set, or NoSquare for an empty set.
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLSB removes the lowest square from the set and returns it.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}
