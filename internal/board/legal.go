package board

// Pin is a friendly piece that shields its king from an enemy slider.
// Direction points from the king toward the pinned piece.
type Pin struct {
	Square    Square
	Direction Direction
}

// Check is an enemy piece giving check. Direction points from the king
// toward the checker; for a knight it is the jump itself.
type Check struct {
	Square    Square
	Direction Direction
}

// CheckInfo is the result of scanning outward from the side's king.
type CheckInfo struct {
	InCheck bool
	Pins    []Pin
	Checks  []Check
}

// pinned reports whether sq holds a pinned piece.
func (ci *CheckInfo) pinned(sq Square) bool {
	for _, pin := range ci.Pins {
		if pin.Square == sq {
			return true
		}
	}
	return false
}

// ScanPinsAndChecks walks the eight rays and the knight jumps out from the
// king of the side to move. The first friendly piece on a ray becomes a
// pin candidate; an enemy slider of the matching kind behind it confirms
// the pin, an enemy slider with nothing in between gives check.
func (p *Position) ScanPinsAndChecks() CheckInfo {
	var info CheckInfo
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare(us)
	if ksq == NoSquare {
		return info
	}

	for _, d := range allDirections {
		candidate := NoSquare
		for sq, ok := ksq.Step(d); ok; sq, ok = sq.Step(d) {
			piece := p.PieceAt(sq)
			if piece == NoPiece {
				continue
			}
			if piece.Color() == us {
				if candidate != NoSquare {
					break
				}
				candidate = sq
				continue
			}
			if slidesAlong(piece.Type(), d) {
				if candidate == NoSquare {
					info.Checks = append(info.Checks, Check{Square: sq, Direction: d})
				} else {
					info.Pins = append(info.Pins, Pin{Square: candidate, Direction: d})
				}
			}
			break
		}
	}

	for _, j := range knightJumps {
		if sq, ok := ksq.Step(j); ok && p.Pieces[them][Knight].IsSet(sq) {
			info.Checks = append(info.Checks, Check{Square: sq, Direction: j})
		}
	}

	pawns := PawnAttacks(ksq, us) & p.Pieces[them][Pawn]
	for pawns != 0 {
		sq := pawns.PopLSB()
		info.Checks = append(info.Checks, Check{
			Square:    sq,
			Direction: Direction{sq.File() - ksq.File(), sq.Rank() - ksq.Rank()},
		})
	}

	info.InCheck = len(info.Checks) > 0
	return info
}

// slidesAlong reports whether a piece of type pt attacks along direction d
// from any distance.
func slidesAlong(pt PieceType, d Direction) bool {
	switch pt {
	case Queen:
		return true
	case Rook:
		return d.IsOrthogonal()
	case Bishop:
		return d.IsDiagonal()
	}
	return false
}

// GenerateLegalMoves generates all legal moves for the side to move and
// sets the Checkmate or Stalemate flag when there are none.
//
// Candidates are pruned with the pin and check scan. Moves that cannot
// change the king's safety are accepted as generated; king moves, en
// passant, pinned pieces and every move out of check are confirmed by
// applying the move and testing the king.
func (p *Position) GenerateLegalMoves() *MoveList {
	us := p.SideToMove
	candidates := NewMoveList()
	p.generateAllMoves(candidates)

	info := p.ScanPinsAndChecks()
	if !info.InCheck {
		p.generateCastlingMoves(candidates, us)
	}

	result := NewMoveList()
	ksq := p.KingSquare(us)

	var evasion Bitboard
	if len(info.Checks) == 1 {
		c := info.Checks[0]
		evasion = SquareBB(c.Square) | Between(c.Square, ksq)
	}

	for i := 0; i < candidates.Len(); i++ {
		m := candidates.Get(i)
		isKing := m.From == ksq

		if !isKing {
			if len(info.Checks) > 1 {
				continue
			}
			if len(info.Checks) == 1 && !evasion.IsSet(m.To) {
				// An en passant capture may remove the checking pawn
				// without landing on its square.
				captured := NewSquare(m.To.File(), m.From.Rank())
				if !m.IsEnPassant() || captured != info.Checks[0].Square {
					continue
				}
			}
		}

		pinned := info.pinned(m.From)
		if pinned && !Aligned(ksq, m.From, m.To) {
			continue
		}

		if !info.InCheck && !isKing && !pinned && !m.IsEnPassant() {
			result.Add(m)
			continue
		}

		if m.IsCastle() || p.keepsKingSafe(m) {
			result.Add(m)
		}
	}

	p.Checkmate = result.Len() == 0 && info.InCheck
	p.Stalemate = result.Len() == 0 && !info.InCheck
	return result
}

// keepsKingSafe applies m, tests whether the mover's king is attacked and
// takes the move back.
func (p *Position) keepsKingSafe(m Move) bool {
	us := p.SideToMove
	if !p.Apply(m) {
		return false
	}
	attacked := p.IsSquareAttacked(p.KingSquare(us), us.Other())
	p.Undo()
	return !attacked
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (p *Position) HasLegalMoves() bool {
	return p.GenerateLegalMoves().Len() > 0
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return !p.HasLegalMoves() && p.Checkmate
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.HasLegalMoves() && p.Stalemate
}
