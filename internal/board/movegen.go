package board

// GeneratePseudoLegalMoves generates all pseudo-legal moves (may leave king
// in check). Castling is not included; see generateCastlingMoves.
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generateAllMoves(ml)
	return ml
}

// generateAllMoves walks the side's pieces square by square and dispatches
// on the piece type.
func (p *Position) generateAllMoves(ml *MoveList) {
	us := p.SideToMove
	own := p.Occupied[us]

	pieces := own
	for pieces != 0 {
		from := pieces.PopLSB()
		switch pt := p.PieceAt(from).Type(); pt {
		case Pawn:
			p.generatePawnMoves(ml, from, us)
		case Knight:
			p.addTargets(ml, from, KnightAttacks(from)&^own)
		case Bishop:
			p.addTargets(ml, from, BishopAttacks(from, p.AllOccupied)&^own)
		case Rook:
			p.addTargets(ml, from, RookAttacks(from, p.AllOccupied)&^own)
		case Queen:
			p.addTargets(ml, from, QueenAttacks(from, p.AllOccupied)&^own)
		case King:
			p.addTargets(ml, from, KingAttacks(from)&^own)
		}
	}
}

// addTargets adds a move to every target square, flagging captures.
func (p *Position) addTargets(ml *MoveList, from Square, targets Bitboard) {
	enemies := p.Occupied[p.SideToMove.Other()]
	for targets != 0 {
		to := targets.PopLSB()
		var flags MoveFlag
		if enemies.IsSet(to) {
			flags = FlagCapture
		}
		ml.Add(NewMove(from, to, flags))
	}
}

// generatePawnMoves generates the pushes, captures and en passant captures
// of the pawn on from.
func (p *Position) generatePawnMoves(ml *MoveList, from Square, us Color) {
	forward := North
	if us == Black {
		forward = South
	}

	var promo MoveFlag
	if from.RelativeRank(us) == 6 {
		promo = FlagPromotion
	}

	if one, ok := from.Step(forward); ok && p.IsEmpty(one) {
		ml.Add(NewMove(from, one, promo))
		if from.RelativeRank(us) == 1 {
			if two, ok := one.Step(forward); ok && p.IsEmpty(two) {
				ml.Add(NewMove(from, two, 0))
			}
		}
	}

	attacks := PawnAttacks(from, us)
	captures := attacks & p.Occupied[us.Other()]
	for captures != 0 {
		to := captures.PopLSB()
		ml.Add(NewMove(from, to, FlagCapture|promo))
	}

	if p.EnPassant != NoSquare && attacks.IsSet(p.EnPassant) && p.IsEmpty(p.EnPassant) {
		ml.Add(NewMove(from, p.EnPassant, FlagCapture|FlagEnPassant))
	}
}

// castlePath describes one castling move: the right it needs, the squares
// that must be empty and the squares the king stands on, crosses and lands on.
type castlePath struct {
	right      CastlingRights
	king, to   Square
	rook       Square
	empty      Bitboard
	kingTravel [3]Square
}

var castlePaths = [2][2]castlePath{
	White: {
		{WhiteKingSideCastle, E1, G1, H1, SquareBB(F1) | SquareBB(G1), [3]Square{E1, F1, G1}},
		{WhiteQueenSideCastle, E1, C1, A1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), [3]Square{E1, D1, C1}},
	},
	Black: {
		{BlackKingSideCastle, E8, G8, H8, SquareBB(F8) | SquareBB(G8), [3]Square{E8, F8, G8}},
		{BlackQueenSideCastle, E8, C8, A8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), [3]Square{E8, D8, C8}},
	},
}

// generateCastlingMoves adds the castling moves whose right is held, whose
// path is empty and whose king squares are not attacked.
func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()
	for _, c := range castlePaths[us] {
		if p.CastlingRights&c.right == 0 {
			continue
		}
		if !p.Pieces[us][King].IsSet(c.king) || !p.Pieces[us][Rook].IsSet(c.rook) {
			continue
		}
		if p.AllOccupied&c.empty != 0 {
			continue
		}
		safe := true
		for _, sq := range c.kingTravel {
			if p.IsSquareAttacked(sq, them) {
				safe = false
				break
			}
		}
		if safe {
			ml.Add(NewMove(c.king, c.to, FlagCastle))
		}
	}
}
