package coral

import (
	"errors"
	"testing"
)

func mustSquare(t *testing.T, s string) Square {
	t.Helper()
	sq, ok := ParseSquare(s)
	if !ok {
		t.Fatalf("bad square %q", s)
	}
	return sq
}

func mustLoad(t *testing.T, fen string) *Position {
	t.Helper()
	p, err := Load(fen)
	if err != nil {
		t.Fatalf("Load(%q): %v", fen, err)
	}
	return p
}

func mustPlaceCoral(t *testing.T, p *Position, sq string, c Color) {
	t.Helper()
	if err := p.PlaceCoral(mustSquare(t, sq), c); err != nil {
		t.Fatalf("PlaceCoral(%s, %s): %v", sq, c, err)
	}
}

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in   string
		want Square
		ok   bool
	}{
		{"a1", 0, true},
		{"h1", 7, true},
		{"a8", 56, true},
		{"h8", 63, true},
		{"e4", 28, true},
		{"i1", NoSquare, false},
		{"a9", NoSquare, false},
		{"a", NoSquare, false},
		{"", NoSquare, false},
	}
	for _, tt := range tests {
		got, ok := ParseSquare(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseSquare(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSquareAdjacent(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"d4", "d5", true},
		{"d4", "e4", true},
		{"d4", "e5", false},
		{"d4", "d6", false},
		{"a1", "b1", true},
		{"h1", "a2", false},
	}
	for _, tt := range tests {
		a, b := mustSquare(t, tt.a), mustSquare(t, tt.b)
		if got := a.adjacent(b); got != tt.want {
			t.Errorf("%s adjacent %s = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if got := b.adjacent(a); got != tt.want {
			t.Errorf("%s adjacent %s = %v, want %v", tt.b, tt.a, got, tt.want)
		}
	}
}

func TestNewPositionSetup(t *testing.T) {
	p := NewPosition()

	if p.Turn() != White {
		t.Fatalf("turn = %v, want white", p.Turn())
	}

	wantBack := map[string]Kind{
		"a1": Turtle, "b1": Octopus, "c1": Pufferfish,
		"f1": Dolphin, "g1": Octopus, "h1": Turtle,
	}
	for sq, kind := range wantBack {
		pc := p.Get(mustSquare(t, sq))
		if pc == nil || pc.Color != White || pc.Kind != kind {
			t.Errorf("%s = %+v, want white %v", sq, pc, kind)
		}
	}

	if wp := p.WhaleSquares(White); wp.First != mustSquare(t, "d1") || wp.Second != mustSquare(t, "e1") {
		t.Errorf("white whale = %v/%v, want d1/e1", wp.First, wp.Second)
	}
	if wp := p.WhaleSquares(Black); wp.First != mustSquare(t, "d8") || wp.Second != mustSquare(t, "e8") {
		t.Errorf("black whale = %v/%v, want d8/e8", wp.First, wp.Second)
	}

	// The derived second square resolves to the same logical piece.
	if p.Get(mustSquare(t, "e1")) != p.Get(mustSquare(t, "d1")) {
		t.Error("e1 does not resolve to the d1 whale")
	}

	for file := 0; file < BoardFiles; file++ {
		w := p.Get(squareAt(file, 1))
		b := p.Get(squareAt(file, 6))
		if w == nil || w.Kind != Crab || w.Color != White {
			t.Errorf("white crab missing at file %d", file)
		}
		if b == nil || b.Kind != Crab || b.Color != Black {
			t.Errorf("black crab missing at file %d", file)
		}
	}

	// Queenside pieces hunt, kingside pieces gather.
	if pc := p.Get(mustSquare(t, "c2")); pc.Role != Hunter {
		t.Errorf("c2 role = %v, want hunter", pc.Role)
	}
	if pc := p.Get(mustSquare(t, "f2")); pc.Role != Gatherer {
		t.Errorf("f2 role = %v, want gatherer", pc.Role)
	}
	if pc := p.Get(mustSquare(t, "d1")); pc.Role != RoleNone {
		t.Errorf("whale role = %v, want none", pc.Role)
	}

	for _, tt := range []struct {
		sq    string
		color Color
	}{
		{"d3", White}, {"e3", White}, {"d6", Black}, {"e6", Black},
	} {
		if got := p.CoralAt(mustSquare(t, tt.sq)); got != tt.color {
			t.Errorf("coral at %s = %v, want %v", tt.sq, got, tt.color)
		}
	}
	if p.CoralRemaining(White) != CoralPerSide-2 {
		t.Errorf("white coral remaining = %d, want %d", p.CoralRemaining(White), CoralPerSide-2)
	}
	if p.CoralRemaining(Black) != CoralPerSide-2 {
		t.Errorf("black coral remaining = %d, want %d", p.CoralRemaining(Black), CoralPerSide-2)
	}
}

func TestPutAndRemoveWhale(t *testing.T) {
	p := emptyPosition()
	if err := p.Put(&Piece{Color: White, Kind: Whale}, mustSquare(t, "c4")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	wp := p.WhaleSquares(White)
	if wp.First != mustSquare(t, "c4") || wp.Second != mustSquare(t, "d4") {
		t.Fatalf("whale = %v/%v, want c4/d4", wp.First, wp.Second)
	}
	if p.Get(mustSquare(t, "c4")) == nil || p.Get(mustSquare(t, "d4")) == nil {
		t.Fatal("whale squares not occupied")
	}

	// Removing either half clears the whole whale.
	if pc := p.Remove(mustSquare(t, "d4")); pc == nil || pc.Kind != Whale {
		t.Fatalf("Remove returned %+v", pc)
	}
	if p.Get(mustSquare(t, "c4")) != nil || p.Get(mustSquare(t, "d4")) != nil {
		t.Error("whale squares still occupied after removal")
	}
	if p.WhaleSquares(White).valid() {
		t.Error("whale pair still valid after removal")
	}
}

func TestPutWhaleOffBoardEdge(t *testing.T) {
	p := emptyPosition()
	err := p.Put(&Piece{Color: White, Kind: Whale}, mustSquare(t, "h4"))
	if !errors.Is(err, ErrInvalidSquare) {
		t.Fatalf("Put whale at h4: err = %v, want ErrInvalidSquare", err)
	}
}

func TestPutSecondWhaleSameColor(t *testing.T) {
	p := emptyPosition()
	if err := p.Put(&Piece{Color: White, Kind: Whale}, mustSquare(t, "a1")); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	err := p.Put(&Piece{Color: White, Kind: Whale}, mustSquare(t, "e4"))
	if !errors.Is(err, ErrInvalidPiece) {
		t.Fatalf("second Put: err = %v, want ErrInvalidPiece", err)
	}
}

func TestCoralPlacementErrors(t *testing.T) {
	p := emptyPosition()
	mustPlaceCoral(t, p, "d4", White)

	if err := p.PlaceCoral(mustSquare(t, "d4"), Black); !errors.Is(err, ErrCoralOccupied) {
		t.Errorf("double placement: err = %v, want ErrCoralOccupied", err)
	}

	// Drain the rest of the stock, then expect exhaustion.
	placed := 1
	for sq := Square(0); sq < NumSquares && placed < CoralPerSide; sq++ {
		if p.CoralAt(sq) == NoColor {
			if err := p.PlaceCoral(sq, White); err != nil {
				t.Fatalf("PlaceCoral(%s): %v", sq, err)
			}
			placed++
		}
	}
	if p.CoralRemaining(White) != 0 {
		t.Fatalf("remaining = %d, want 0", p.CoralRemaining(White))
	}
	if err := p.PlaceCoral(mustSquare(t, "h8"), White); !errors.Is(err, ErrCoralExhausted) {
		t.Errorf("exhausted placement: err = %v, want ErrCoralExhausted", err)
	}
}

func TestRemoveCoralReturnsToStock(t *testing.T) {
	p := emptyPosition()
	mustPlaceCoral(t, p, "d4", Black)
	if p.CoralRemaining(Black) != CoralPerSide-1 {
		t.Fatalf("remaining = %d", p.CoralRemaining(Black))
	}
	if owner := p.RemoveCoral(mustSquare(t, "d4")); owner != Black {
		t.Fatalf("RemoveCoral owner = %v, want black", owner)
	}
	if p.CoralRemaining(Black) != CoralPerSide {
		t.Errorf("remaining = %d, want %d", p.CoralRemaining(Black), CoralPerSide)
	}
	if owner := p.RemoveCoral(mustSquare(t, "d4")); owner != NoColor {
		t.Errorf("second RemoveCoral owner = %v, want none", owner)
	}
}
