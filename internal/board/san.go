package board

import (
	"fmt"
	"strings"
)

// ToSAN converts a legal move of pos to Standard Algebraic Notation.
// Promotions are always written as "=Q".
func (m Move) ToSAN(pos *Position) string {
	if m.IsNone() {
		return "-"
	}

	piece := pos.PieceAt(m.From)
	if piece == NoPiece {
		return m.String()
	}
	pt := piece.Type()

	var sb strings.Builder
	if pt == King && abs(m.To.File()-m.From.File()) == 2 {
		if m.To > m.From {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		capture := !pos.IsEmpty(m.To) || (pt == Pawn && m.From.File() != m.To.File())

		if pt != Pawn {
			sb.WriteByte(pt.Letter())
			sb.WriteString(disambiguation(pos, m, pt))
		}
		if capture {
			if pt == Pawn {
				sb.WriteByte('a' + byte(m.From.File()))
			}
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())
		if pt == Pawn && m.To.RelativeRank(piece.Color()) == 7 {
			sb.WriteString("=Q")
		}
	}

	// Check and mate markers are read off the position after the move.
	if pos.Apply(m) {
		moves := pos.GenerateLegalMoves()
		inCheck := pos.InCheck()
		pos.Undo()
		switch {
		case inCheck && moves.Len() == 0:
			sb.WriteByte('#')
		case inCheck:
			sb.WriteByte('+')
		}
	}

	return sb.String()
}

// disambiguation returns the file, rank or square needed to tell m apart
// from other pieces of the same type that can reach the same square.
func disambiguation(pos *Position, m Move, pt PieceType) string {
	pieces := pos.Pieces[pos.SideToMove][pt]

	var candidates []Square
	all := pos.GenerateLegalMoves()
	for i := 0; i < all.Len(); i++ {
		other := all.Get(i)
		if other.To == m.To && other.From != m.From && pieces.IsSet(other.From) {
			candidates = append(candidates, other.From)
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		sameFile = sameFile || sq.File() == m.From.File()
		sameRank = sameRank || sq.Rank() == m.From.Rank()
	}

	switch {
	case !sameFile:
		return string(rune('a' + m.From.File()))
	case !sameRank:
		return string(rune('1' + m.From.Rank()))
	default:
		return m.From.String()
	}
}

// ParseSAN parses a SAN string and returns the matching legal move.
func ParseSAN(s string, pos *Position) (Move, error) {
	orig := s
	s = strings.TrimRight(strings.TrimSpace(s), "+#")
	moves := pos.GenerateLegalMoves()

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		kingSide := len(s) == 3
		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			if m.IsCastle() && (m.To > m.From) == kingSide {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("illegal move: %s", orig)
	}

	if idx := strings.Index(s, "="); idx >= 0 {
		if idx+1 >= len(s) || s[idx+1] != 'Q' {
			return NoMove, fmt.Errorf("unsupported promotion: %s", orig)
		}
		s = s[:idx]
	}
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		idx := strings.IndexByte("NBRQK", s[0])
		if idx < 0 {
			return NoMove, fmt.Errorf("invalid piece letter in %q", orig)
		}
		pt = PieceType(idx + 1)
		s = s[1:]
	}

	if len(s) < 2 {
		return NoMove, fmt.Errorf("invalid SAN: %q", orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, err
	}

	file, rank := -1, -1
	for _, c := range s[:len(s)-2] {
		switch {
		case c >= 'a' && c <= 'h':
			file = int(c - 'a')
		case c >= '1' && c <= '8':
			rank = int(c - '1')
		}
	}

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.To != dest || pos.PieceAt(m.From).Type() != pt {
			continue
		}
		if (file >= 0 && m.From.File() != file) || (rank >= 0 && m.From.Rank() != rank) {
			continue
		}
		return m, nil
	}
	return NoMove, fmt.Errorf("illegal move: %s", orig)
}
