package board

import (
	"slices"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func playMoves(t *testing.T, pos *Position, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m, err := ParseMove(s, pos)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v\n%s", s, err, pos)
		}
		pos.Apply(m)
	}
}

func moveStrings(ml *MoveList) []string {
	out := make([]string, 0, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		out = append(out, ml.Get(i).String())
	}
	sort.Strings(out)
	return out
}

func TestStartPositionHasTwentyMoves(t *testing.T) {
	pos := NewPosition()
	moves := pos.GenerateLegalMoves()
	if moves.Len() != 20 {
		t.Errorf("start position: %d legal moves, want 20: %v", moves.Len(), moveStrings(moves))
	}
	if pos.Checkmate || pos.Stalemate {
		t.Error("terminal flag set in the start position")
	}
}

func TestFoolsMate(t *testing.T) {
	pos := NewPosition()
	playMoves(t, pos, "f2f3", "e7e5", "g2g4", "d8h4")

	t.Log(pos)

	moves := pos.GenerateLegalMoves()
	if moves.Len() != 0 {
		t.Errorf("expected no legal moves, got %v", moveStrings(moves))
	}
	if !pos.InCheck() {
		t.Error("white king should be in check")
	}
	if !pos.Checkmate || pos.Stalemate {
		t.Errorf("Checkmate=%v Stalemate=%v, want true/false", pos.Checkmate, pos.Stalemate)
	}
	if pos.Status() != Checkmate {
		t.Errorf("Status() = %s, want checkmate", pos.Status())
	}
}

func TestCheckmate(t *testing.T) {
	// Back rank mate: Ra8 against Kh8 boxed in by its own pawns.
	pos := mustParseFEN(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")

	t.Log("InCheck:", pos.InCheck())
	if !pos.IsCheckmate() {
		t.Error("Expected checkmate but got false")
	}
	if pos.IsStalemate() {
		t.Error("checkmate reported as stalemate")
	}
}

func TestNotCheckmate(t *testing.T) {
	// The king can take the checking rook.
	pos := mustParseFEN(t, "6Rk/8/8/8/8/8/8/K7 b - - 0 1")

	moves := pos.GenerateLegalMoves()
	t.Log("Black legal moves:", moveStrings(moves))

	if pos.IsCheckmate() {
		t.Error("Expected NOT checkmate but got true")
	}
	if !moves.Contains(NewMove(H8, G8, FlagCapture)) {
		t.Error("Kxg8 missing")
	}
}

func TestStalemate(t *testing.T) {
	pos := mustParseFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")

	moves := pos.GenerateLegalMoves()
	if moves.Len() != 0 {
		t.Fatalf("expected no legal moves, got %v", moveStrings(moves))
	}
	if pos.InCheck() {
		t.Error("stalemated king reported in check")
	}
	if !pos.Stalemate || pos.Checkmate {
		t.Errorf("Checkmate=%v Stalemate=%v, want false/true", pos.Checkmate, pos.Stalemate)
	}
}

func TestApplyClearsTerminalFlags(t *testing.T) {
	pos := NewPosition()
	playMoves(t, pos, "f2f3", "e7e5", "g2g4", "d8h4")
	pos.GenerateLegalMoves()
	if !pos.Checkmate {
		t.Fatal("expected checkmate flag")
	}
	pos.Undo()
	if pos.Checkmate || pos.Stalemate {
		t.Error("flags survived Undo")
	}
	playMoves(t, pos, "d8h4")
	if pos.Checkmate {
		t.Error("flag set before generation")
	}
}

func TestPinnedPieceStaysOnLine(t *testing.T) {
	pos := mustParseFEN(t, "4k3/4r3/8/8/8/8/4R3/4K3 b - - 0 1")

	info := pos.ScanPinsAndChecks()
	want := []Pin{{Square: E7, Direction: South}}
	if diff := cmp.Diff(want, info.Pins); diff != "" {
		t.Errorf("pins mismatch (-want +got):\n%s", diff)
	}
	if info.InCheck {
		t.Error("not in check")
	}

	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From == E7 && m.To.File() != E7.File() {
			t.Errorf("pinned rook left the file: %s", m)
		}
	}
	var rook []string
	for i := 0; i < moves.Len(); i++ {
		if m := moves.Get(i); m.From == E7 {
			rook = append(rook, m.String())
		}
	}
	sort.Strings(rook)
	if diff := cmp.Diff([]string{"e7e2", "e7e3", "e7e4", "e7e5", "e7e6"}, rook); diff != "" {
		t.Errorf("rook moves (-want +got):\n%s", diff)
	}
}

func TestPseudoLegalIncludesPinnedMoves(t *testing.T) {
	pos := mustParseFEN(t, "4k3/4r3/8/8/8/8/4R3/4K3 b - - 0 1")

	pseudo := moveStrings(pos.GeneratePseudoLegalMoves())
	legal := moveStrings(pos.GenerateLegalMoves())
	t.Logf("pseudo-legal: %d, legal: %d", len(pseudo), len(legal))

	for _, m := range legal {
		if _, found := slices.BinarySearch(pseudo, m); !found {
			t.Errorf("legal move %s missing from the pseudo-legal list", m)
		}
	}
	// The pinned rook may slide sideways before the king-safety filter.
	for _, m := range []string{"e7a7", "e7h7"} {
		if _, found := slices.BinarySearch(pseudo, m); !found {
			t.Errorf("pseudo-legal list lacks %s", m)
		}
		if _, found := slices.BinarySearch(legal, m); found {
			t.Errorf("pinned rook move %s passed the legality filter", m)
		}
	}
	if pos.Ply() != 0 || pos.ToFEN() != "4k3/4r3/8/8/8/8/4R3/4K3 b - - 0 1" {
		t.Errorf("generation changed the position: %s", pos.ToFEN())
	}
}

func TestSingleCheckMustBlockOrCapture(t *testing.T) {
	pos := mustParseFEN(t, "4r2k/8/8/8/8/8/3B4/4K3 w - - 0 1")

	info := pos.ScanPinsAndChecks()
	if len(info.Checks) != 1 || info.Checks[0].Square != E8 || info.Checks[0].Direction != North {
		t.Fatalf("checks = %+v, want rook on e8 to the north", info.Checks)
	}

	moves := pos.GenerateLegalMoves()
	var others []string
	for i := 0; i < moves.Len(); i++ {
		if m := moves.Get(i); m.From != E1 {
			others = append(others, m.String())
		}
	}
	if diff := cmp.Diff([]string{"d2e3"}, others); diff != "" {
		t.Errorf("non-king moves (-want +got):\n%s", diff)
	}
}

func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	pos := mustParseFEN(t, "4r2k/8/8/8/8/3n4/2B5/4K3 w - - 0 1")

	info := pos.ScanPinsAndChecks()
	if len(info.Checks) != 2 {
		t.Fatalf("got %d checks, want 2: %+v", len(info.Checks), info.Checks)
	}

	moves := pos.GenerateLegalMoves()
	if diff := cmp.Diff([]string{"e1d1", "e1d2", "e1f1"}, moveStrings(moves)); diff != "" {
		t.Errorf("moves (-want +got):\n%s", diff)
	}
}

func TestEnPassantWindow(t *testing.T) {
	pos := NewPosition()
	playMoves(t, pos, "e2e4", "a7a6", "e4e5", "d7d5")

	if pos.EnPassant != D6 {
		t.Fatalf("EnPassant = %s, want d6", pos.EnPassant)
	}

	moves := pos.GenerateLegalMoves()
	ep, ok := moves.Find(E5, D6)
	if !ok || !ep.IsEnPassant() {
		t.Fatalf("e5d6 en passant missing: %v", moveStrings(moves))
	}

	pos.Apply(ep)
	if pos.PieceAt(D5) != NoPiece {
		t.Error("captured pawn still on d5")
	}
	if pos.PieceAt(D6) != WhitePawn {
		t.Error("capturing pawn not on d6")
	}
	pos.Undo()
	if pos.PieceAt(D5) != BlackPawn || pos.PieceAt(E5) != WhitePawn {
		t.Error("undo did not restore the pawns")
	}
	if pos.EnPassant != D6 {
		t.Errorf("EnPassant after undo = %s, want d6", pos.EnPassant)
	}

	// The right expires after one move.
	playMoves(t, pos, "a2a3", "a6a5")
	if pos.EnPassant != NoSquare {
		t.Errorf("EnPassant = %s, want none", pos.EnPassant)
	}
	if _, ok := pos.GenerateLegalMoves().Find(E5, D6); ok {
		t.Error("en passant still available a move later")
	}
}

func TestEnPassantRemovesCheckingPawn(t *testing.T) {
	pos := mustParseFEN(t, "4k3/3p4/8/4P3/4K3/8/8/8 b - - 0 1")
	playMoves(t, pos, "d7d5")

	if !pos.InCheck() {
		t.Fatal("d5 should check the king on e4")
	}
	moves := pos.GenerateLegalMoves()
	t.Log("White legal moves:", moveStrings(moves))
	if m, ok := moves.Find(E5, D6); !ok || !m.IsEnPassant() {
		t.Error("en passant capture of the checking pawn missing")
	}
}

func TestCastlingGeneration(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want []string
	}{
		{"both sides open", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", []string{"e1c1", "e1g1"}},
		{"no rights", "r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1", nil},
		{"blocked queen side", "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", []string{"e1g1"}},
		{"transit attacked by pawn", "r3k2r/8/8/8/8/8/6p1/R3K2R w KQkq - 0 1", []string{"e1c1"}},
		{"in check", "r3k2r/8/8/8/4r3/8/8/R3K2R w KQ - 0 1", nil},
		{"destination attacked", "r3k2r/8/8/2b5/8/8/8/R3K2R w KQ - 0 1", []string{"e1c1"}},
		{"rook path attacked only", "4k3/8/8/8/8/n7/8/R3K2R w KQ - 0 1", []string{"e1c1", "e1g1"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParseFEN(t, tc.fen)
			moves := pos.GenerateLegalMoves()
			var got []string
			for i := 0; i < moves.Len(); i++ {
				if m := moves.Get(i); m.IsCastle() {
					got = append(got, m.String())
				}
			}
			sort.Strings(got)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("castling moves (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSquareUnderAttack(t *testing.T) {
	// Black pawn on g2 attacks the empty squares f1 and h1.
	pos := mustParseFEN(t, "4k3/8/8/8/8/8/6p1/4K3 w - - 0 1")

	for _, tc := range []struct {
		sq   Square
		want bool
	}{{F1, true}, {H1, true}, {G1, false}, {E2, false}} {
		got, err := pos.SquareUnderAttack(tc.sq.Row(), tc.sq.Col())
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("SquareUnderAttack(%s) = %v, want %v", tc.sq, got, tc.want)
		}
	}

	if _, err := pos.SquareUnderAttack(8, 0); err == nil {
		t.Error("expected error for row 8")
	}
}
