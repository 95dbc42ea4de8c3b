package board

// Color is the side a piece belongs to, or the side to move.
type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	}
	return "NoColor"
}

// PieceType is a kind of piece regardless of color.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

var pieceTypeNames = [...]string{"Pawn", "Knight", "Bishop", "Rook", "Queen", "King", "None"}

func (pt PieceType) String() string {
	return pieceTypeNames[min(pt, NoPieceType)]
}

// Letter returns the notation letter of the piece type. Pawns use 'p',
// as in the display codes.
func (pt PieceType) Letter() byte {
	if pt >= NoPieceType {
		return ' '
	}
	return "pNBRQK"[pt]
}

// PieceValue is the material value of each piece type, in pawns.
// The king carries none.
var PieceValue = [7]int{1, 3, 3, 5, 10, 0, 0}

// Piece is a colored piece, encoded as type + 6*color so it can index
// per-piece tables directly.
type Piece uint8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	NoPiece
)

// pieceChars holds the FEN letter of every piece, in Piece order.
const pieceChars = "PNBRQKpnbrqk"

// NewPiece combines a type and a color. Out-of-range input gives NoPiece.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(c)*6 + Piece(pt)
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the Color of the piece.
func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / 6)
}

// String returns the FEN letter: upper case for white, lower for black.
func (p Piece) String() string {
	if p >= NoPiece {
		return " "
	}
	return pieceChars[p : p+1]
}

// Code returns the two-letter display code of the piece ("wK", "bp"),
// or the empty string for NoPiece.
func (p Piece) Code() string {
	if p >= NoPiece {
		return ""
	}
	return string([]byte{"wb"[p.Color()], p.Type().Letter()})
}

// PieceFromChar converts a FEN letter to a Piece.
func PieceFromChar(c byte) Piece {
	for i := range len(pieceChars) {
		if pieceChars[i] == c {
			return Piece(i)
		}
	}
	return NoPiece
}

// Value returns the material value of the piece.
func (p Piece) Value() int {
	return PieceValue[p.Type()]
}
