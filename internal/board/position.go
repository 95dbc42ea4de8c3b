package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr&WhiteKingSideCastle != 0
		}
		return cr&WhiteQueenSideCastle != 0
	}
	if kingSide {
		return cr&BlackKingSideCastle != 0
	}
	return cr&BlackQueenSideCastle != 0
}

// Status is the terminal state reported by legal move generation.
type Status uint8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
)

func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// Position represents a complete chess position together with the
// history needed to take moves back.
type Position struct {
	// Piece bitboards: [Color][PieceType]
	Pieces [2][6]Bitboard

	// Derived occupancy, recomputed after every mutation
	Occupied    [2]Bitboard
	AllOccupied Bitboard

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int
	FullMoveNumber int

	// Set by GenerateLegalMoves, cleared by Apply and Undo.
	Checkmate bool
	Stalemate bool

	history []Move
	undo    []UndoInfo

	// En passant target of the setup position, restored when the
	// history is unwound to its root.
	rootEnPassant Square
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// Copy creates a deep copy of the position, history included.
func (p *Position) Copy() *Position {
	newPos := *p
	newPos.history = append([]Move(nil), p.history...)
	newPos.undo = append([]UndoInfo(nil), p.undo...)
	return &newPos
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	bb := SquareBB(sq)
	if p.AllOccupied&bb == 0 {
		return NoPiece
	}

	c := White
	if p.Occupied[Black]&bb != 0 {
		c = Black
	}

	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[c][pt]&bb != 0 {
			return NewPiece(pt, c)
		}
	}
	return NoPiece
}

// PieceAtRowCol returns the piece at display coordinates (row 0 = rank 8).
func (p *Position) PieceAtRowCol(row, col int) (Piece, error) {
	sq, err := SquareAt(row, col)
	if err != nil {
		return NoPiece, err
	}
	return p.PieceAt(sq), nil
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.AllOccupied&SquareBB(sq) == 0
}

// KingSquare returns the square of the king of color c, or NoSquare.
func (p *Position) KingSquare(c Color) Square {
	return p.Pieces[c][King].LSB()
}

// History returns the applied moves, oldest first.
func (p *Position) History() []Move {
	return append([]Move(nil), p.history...)
}

// LastMove returns the most recently applied move.
func (p *Position) LastMove() (Move, bool) {
	if len(p.history) == 0 {
		return NoMove, false
	}
	return p.history[len(p.history)-1], true
}

// Ply returns the number of applied moves.
func (p *Position) Ply() int {
	return len(p.history)
}

// Status reports checkmate, stalemate or an ongoing game. It generates
// the legal moves, which also refreshes the terminal flags.
func (p *Position) Status() Status {
	p.GenerateLegalMoves()
	switch {
	case p.Checkmate:
		return Checkmate
	case p.Stalemate:
		return Stalemate
	}
	return Ongoing
}

func (p *Position) setPiece(piece Piece, sq Square) {
	if piece == NoPiece {
		return
	}
	p.Pieces[piece.Color()][piece.Type()] |= SquareBB(sq)
}

func (p *Position) removePiece(c Color, pt PieceType, sq Square) {
	p.Pieces[c][pt] &^= SquareBB(sq)
}

func (p *Position) movePiece(c Color, pt PieceType, from, to Square) {
	p.Pieces[c][pt] ^= SquareBB(from) | SquareBB(to)
}

// updateOccupied recalculates occupancy bitboards from piece bitboards.
func (p *Position) updateOccupied() {
	p.Occupied[White] = Empty
	p.Occupied[Black] = Empty

	for pt := Pawn; pt <= King; pt++ {
		p.Occupied[White] |= p.Pieces[White][pt]
		p.Occupied[Black] |= p.Pieces[Black][pt]
	}

	p.AllOccupied = p.Occupied[White] | p.Occupied[Black]
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "FEN: %s\n", p.ToFEN())
	return sb.String()
}

// Validate checks the structural invariants of the position.
func (p *Position) Validate() error {
	var seen Bitboard
	for c := White; c <= Black; c++ {
		var own Bitboard
		for pt := Pawn; pt <= King; pt++ {
			if seen&p.Pieces[c][pt] != 0 {
				return fmt.Errorf("two pieces share a square: %s", (seen & p.Pieces[c][pt]).LSB())
			}
			seen |= p.Pieces[c][pt]
			own |= p.Pieces[c][pt]
		}
		if own != p.Occupied[c] {
			return fmt.Errorf("%s occupancy out of date", c)
		}
		if p.Pieces[c][King].PopCount() != 1 {
			return fmt.Errorf("%s must have exactly one king", strings.ToLower(c.String()))
		}
	}
	if seen != p.AllOccupied {
		return fmt.Errorf("combined occupancy out of date")
	}
	if (p.Pieces[White][Pawn]|p.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("pawns cannot be on rank 1 or 8")
	}
	return nil
}

// Material returns the material balance (positive favors white).
func (p *Position) Material() int {
	score := 0
	for pt := Pawn; pt < King; pt++ {
		score += p.Pieces[White][pt].PopCount() * PieceValue[pt]
		score -= p.Pieces[Black][pt].PopCount() * PieceValue[pt]
	}
	return score
}
