package board

import "fmt"

// MoveFlag marks the special properties of a move.
type MoveFlag uint8

// Move flags
const (
	FlagCapture MoveFlag = 1 << iota
	FlagEnPassant
	FlagCastle
	FlagPromotion
)

// Move is a single move from one square to another.
//
// Generators fill From, To and Flags. Piece, Color and Captured are
// filled in by Position.Apply, so the copy kept in the history carries
// everything Undo needs.
type Move struct {
	From     Square
	To       Square
	Flags    MoveFlag
	Piece    PieceType
	Color    Color
	Captured PieceType
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare, Piece: NoPieceType, Color: NoColor, Captured: NoPieceType}

// NewMove creates a move with the given flags.
func NewMove(from, to Square, flags MoveFlag) Move {
	return Move{From: from, To: to, Flags: flags, Piece: NoPieceType, Color: NoColor, Captured: NoPieceType}
}

// IsNone reports whether m is NoMove.
func (m Move) IsNone() bool {
	return m.From == NoSquare || m.To == NoSquare
}

// IsCapture returns true if the move takes a piece, en passant included.
func (m Move) IsCapture() bool {
	return m.Flags&FlagCapture != 0
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flags&FlagEnPassant != 0
}

// IsCastle returns true for the king's two-square castling move.
func (m Move) IsCastle() bool {
	return m.Flags&FlagCastle != 0
}

// IsPromotion returns true when a pawn reaches the last rank.
// Promotion is always to a queen.
func (m Move) IsPromotion() bool {
	return m.Flags&FlagPromotion != 0
}

// Equal compares the move identity: squares and the en passant, castle
// and promotion flags. The capture flag and the fields filled in on
// application are derived from the board and take no part.
func (m Move) Equal(o Move) bool {
	const identity = FlagEnPassant | FlagCastle | FlagPromotion
	return m.From == o.From && m.To == o.To && m.Flags&identity == o.Flags&identity
}

// String returns coordinate notation (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m.IsNone() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += "q"
	}
	return s
}

// ParseMove parses coordinate notation against a position and returns the
// matching legal move.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move string: %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}
	if len(s) == 5 && s[4] != 'q' {
		return NoMove, fmt.Errorf("unsupported promotion piece: %c", s[4])
	}

	m, ok := pos.GenerateLegalMoves().Find(from, to)
	if !ok {
		return NoMove, fmt.Errorf("illegal move: %s", s)
	}
	return m, nil
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Contains returns true if the list holds a move equal to m.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i].Equal(m) {
			return true
		}
	}
	return false
}

// Find returns the move going from one square to another. Promotion is
// queen-only, so a square pair identifies at most one legal move.
func (ml *MoveList) Find(from, to Square) (Move, bool) {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i].From == from && ml.moves[i].To == to {
			return ml.moves[i], true
		}
	}
	return NoMove, false
}

// Slice returns the moves as a slice. The slice aliases the list storage.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// UndoInfo stores the state Undo cannot recompute from the move itself.
type UndoInfo struct {
	CastlingRights CastlingRights
	HalfMoveClock  int
}
