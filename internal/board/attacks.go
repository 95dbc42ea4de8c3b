package board

// Pre-computed attack tables for the stepping pieces and the line
// tables used for pins and checks. Sliders are ray cast at run time.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]

	betweenBB [64][64]Bitboard // Squares strictly between two aligned squares
	lineBB    [64][64]Bitboard // Full line through two aligned squares
)

func init() {
	for sq := A1; sq <= H8; sq++ {
		knightAttacks[sq] = steps(sq, knightJumps[:]...)
		kingAttacks[sq] = steps(sq, allDirections[:]...)
		pawnAttacks[White][sq] = steps(sq, NorthEast, NorthWest)
		pawnAttacks[Black][sq] = steps(sq, SouthEast, SouthWest)

		initLines(sq)
	}
}

// steps returns the squares one step away from sq in each direction.
func steps(sq Square, dirs ...Direction) Bitboard {
	var bb Bitboard
	for _, d := range dirs {
		if to, ok := sq.Step(d); ok {
			bb |= SquareBB(to)
		}
	}
	return bb
}

// initLines fills the between and line tables for every square aligned with from.
func initLines(from Square) {
	for _, d := range allDirections {
		back := Direction{-d.File, -d.Rank}
		full := rayAttacks(from, d, Empty) | rayAttacks(from, back, Empty) | SquareBB(from)

		var between Bitboard
		for to, ok := from.Step(d); ok; to, ok = to.Step(d) {
			betweenBB[from][to] = between
			lineBB[from][to] = full
			between |= SquareBB(to)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the pawn attack bitboard for a square and color.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// rayAttacks casts a ray from sq one square at a time. The first occupied
// square ends the ray and is included in the result.
func rayAttacks(sq Square, d Direction, occupied Bitboard) Bitboard {
	var attacks Bitboard
	for cur, ok := sq.Step(d); ok; cur, ok = cur.Step(d) {
		attacks |= SquareBB(cur)
		if occupied&SquareBB(cur) != 0 {
			break
		}
	}
	return attacks
}

// BishopAttacks returns the bishop attack bitboard for a square with given occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	var attacks Bitboard
	for _, d := range diagonalDirections {
		attacks |= rayAttacks(sq, d, occupied)
	}
	return attacks
}

// RookAttacks returns the rook attack bitboard for a square with given occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	var attacks Bitboard
	for _, d := range orthogonalDirections {
		attacks |= rayAttacks(sq, d, occupied)
	}
	return attacks
}

// QueenAttacks returns the queen attack bitboard for a square with given occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// Between returns the bitboard of squares strictly between two squares.
// Returns empty if squares are not aligned (not on same rank, file, or diagonal).
func Between(sq1, sq2 Square) Bitboard {
	return betweenBB[sq1][sq2]
}

// Aligned returns true if three squares are on the same line.
func Aligned(sq1, sq2, sq3 Square) bool {
	return lineBB[sq1][sq2]&SquareBB(sq3) != 0
}

// AttackersByColor returns a bitboard of pieces of the given color attacking a square.
// Empty squares count: a pawn attacks the squares diagonally in front of it
// whether or not anything stands there.
func (p *Position) AttackersByColor(sq Square, c Color, occupied Bitboard) Bitboard {
	enemy := c.Other()
	return (pawnAttacks[enemy][sq] & p.Pieces[c][Pawn]) |
		(knightAttacks[sq] & p.Pieces[c][Knight]) |
		(kingAttacks[sq] & p.Pieces[c][King]) |
		(BishopAttacks(sq, occupied) & (p.Pieces[c][Bishop] | p.Pieces[c][Queen])) |
		(RookAttacks(sq, occupied) & (p.Pieces[c][Rook] | p.Pieces[c][Queen]))
}

// IsSquareAttacked returns true if the square is attacked by the given color.
func (p *Position) IsSquareAttacked(sq Square, byColor Color) bool {
	return p.AttackersByColor(sq, byColor, p.AllOccupied) != 0
}

// SquareUnderAttack reports whether the opponent of the side to move
// attacks the square at display coordinates (row 0 = rank 8).
func (p *Position) SquareUnderAttack(row, col int) (bool, error) {
	sq, err := SquareAt(row, col)
	if err != nil {
		return false, err
	}
	return p.IsSquareAttacked(sq, p.SideToMove.Other()), nil
}

// InCheck returns true if the king of the side to move is attacked.
func (p *Position) InCheck() bool {
	ksq := p.KingSquare(p.SideToMove)
	if ksq == NoSquare {
		return false
	}
	return p.IsSquareAttacked(ksq, p.SideToMove.Other())
}
