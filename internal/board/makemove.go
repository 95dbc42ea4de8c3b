package board

// castleRookSquares returns the rook's origin and destination for a
// castling king move.
func castleRookSquares(from, to Square) (Square, Square) {
	if to > from {
		return NewSquare(7, from.Rank()), NewSquare(5, from.Rank())
	}
	return NewSquare(0, from.Rank()), NewSquare(3, from.Rank())
}

// rightsLostOn maps the corner squares to the castling right that ends
// when a piece leaves or is captured on them.
var rightsLostOn = map[Square]CastlingRights{
	A1: WhiteQueenSideCastle,
	H1: WhiteKingSideCastle,
	A8: BlackQueenSideCastle,
	H8: BlackKingSideCastle,
}

// Apply plays m for the side to move and pushes it onto the history.
//
// The move is normalized against the board first: the moved piece, its
// color and any captured piece are filled in, and the en passant, castle
// and promotion flags are derived from the piece and squares. Apply
// returns false and leaves the position untouched if the side to move has
// no piece on m.From.
func (p *Position) Apply(m Move) bool {
	us := p.SideToMove
	them := us.Other()

	piece := p.PieceAt(m.From)
	if piece == NoPiece || piece.Color() != us || !m.To.IsValid() {
		return false
	}

	m.Piece = piece.Type()
	m.Color = us
	m.Captured = NoPieceType
	m.Flags = 0

	p.undo = append(p.undo, UndoInfo{
		CastlingRights: p.CastlingRights,
		HalfMoveClock:  p.HalfMoveClock,
	})

	// Captures
	if target := p.PieceAt(m.To); target != NoPiece {
		m.Flags |= FlagCapture
		m.Captured = target.Type()
		p.removePiece(them, target.Type(), m.To)
	} else if m.Piece == Pawn && m.To == p.EnPassant && m.From.File() != m.To.File() {
		m.Flags |= FlagCapture | FlagEnPassant
		m.Captured = Pawn
		p.removePiece(them, Pawn, NewSquare(m.To.File(), m.From.Rank()))
	}

	p.movePiece(us, m.Piece, m.From, m.To)

	switch m.Piece {
	case Pawn:
		if m.To.RelativeRank(us) == 7 {
			m.Flags |= FlagPromotion
			p.removePiece(us, Pawn, m.To)
			p.setPiece(NewPiece(Queen, us), m.To)
		}
	case King:
		if abs(m.To.File()-m.From.File()) == 2 {
			m.Flags |= FlagCastle
			rookFrom, rookTo := castleRookSquares(m.From, m.To)
			p.movePiece(us, Rook, rookFrom, rookTo)
		}
		if us == White {
			p.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			p.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}

	p.CastlingRights &^= rightsLostOn[m.From] | rightsLostOn[m.To]
	p.EnPassant = enPassantTarget(m)

	if m.Piece == Pawn || m.IsCapture() {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}

	p.updateOccupied()
	p.history = append(p.history, m)
	p.SideToMove = them
	p.Checkmate = false
	p.Stalemate = false
	return true
}

// Undo takes back the last applied move. It is a no-op on an empty history.
func (p *Position) Undo() {
	n := len(p.history)
	if n == 0 {
		return
	}
	m := p.history[n-1]
	info := p.undo[n-1]
	p.history = p.history[:n-1]
	p.undo = p.undo[:n-1]

	us := m.Color
	them := us.Other()
	p.SideToMove = us

	if m.IsPromotion() {
		p.removePiece(us, Queen, m.To)
		p.setPiece(NewPiece(Pawn, us), m.From)
	} else {
		p.movePiece(us, m.Piece, m.To, m.From)
	}

	if m.IsEnPassant() {
		p.setPiece(NewPiece(Pawn, them), NewSquare(m.To.File(), m.From.Rank()))
	} else if m.Captured != NoPieceType {
		p.setPiece(NewPiece(m.Captured, them), m.To)
	}

	if m.IsCastle() {
		rookFrom, rookTo := castleRookSquares(m.From, m.To)
		p.movePiece(us, Rook, rookTo, rookFrom)
	}

	if last, ok := p.LastMove(); ok {
		p.EnPassant = enPassantTarget(last)
	} else {
		p.EnPassant = p.rootEnPassant
	}

	p.CastlingRights = info.CastlingRights
	p.HalfMoveClock = info.HalfMoveClock
	if us == Black {
		p.FullMoveNumber--
	}

	p.updateOccupied()
	p.Checkmate = false
	p.Stalemate = false
}

// enPassantTarget returns the square skipped by a two-square pawn advance,
// or NoSquare for any other move.
func enPassantTarget(m Move) Square {
	if m.Piece == Pawn && abs(int(m.To)-int(m.From)) == 16 {
		return Square((int(m.From) + int(m.To)) / 2)
	}
	return NoSquare
}
