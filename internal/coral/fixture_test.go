package coral

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestFixtureRoundTrip(t *testing.T) {
	p := NewPosition()
	for _, text := range []string{"d3", "d6"} {
		if _, err := p.MakeMoveText(text); err != nil {
			t.Fatalf("%s: %v", text, err)
		}
	}

	data, err := json.Marshal(p.Export())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	restored, err := LoadFixture(data)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	if restored.FEN() != p.FEN() {
		t.Errorf("FEN = %q, want %q", restored.FEN(), p.FEN())
	}
	if restored.Turn() != p.Turn() {
		t.Errorf("turn = %v, want %v", restored.Turn(), p.Turn())
	}
	if !reflect.DeepEqual(restored.SANHistory(), p.SANHistory()) {
		t.Errorf("history = %v, want %v", restored.SANHistory(), p.SANHistory())
	}
	if restored.WhaleSquares(White) != p.WhaleSquares(White) || restored.WhaleSquares(Black) != p.WhaleSquares(Black) {
		t.Error("whale squares differ after round trip")
	}
	for _, c := range []Color{White, Black} {
		if restored.CoralRemaining(c) != p.CoralRemaining(c) {
			t.Errorf("%s coral remaining = %d, want %d", c, restored.CoralRemaining(c), p.CoralRemaining(c))
		}
	}
	for sq := Square(0); sq < NumSquares; sq++ {
		if restored.CoralAt(sq) != p.CoralAt(sq) {
			t.Errorf("coral at %s = %v, want %v", sq, restored.CoralAt(sq), p.CoralAt(sq))
		}
		got, want := restored.Get(sq), p.Get(sq)
		if (got == nil) != (want == nil) {
			t.Errorf("occupancy at %s differs", sq)
			continue
		}
		if got != nil && *got != *want {
			t.Errorf("piece at %s = %+v, want %+v", sq, got, want)
		}
	}
}

func TestFixtureRestoresWhaleOrientation(t *testing.T) {
	p := mustLoad(t, "6w1/8/7c/8/8/C7/8/W7 w - - 0 1")
	if _, err := p.MakeMoveText("Wa1b2"); err != nil {
		t.Fatalf("Wa1b2: %v", err)
	}

	data, err := json.Marshal(p.Export())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	restored, err := LoadFixture(data)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	// The placement field alone would reload the whale horizontally; the
	// whale-position overlay recovers the vertical pair.
	want := canonicalPair(mustSquare(t, "b1"), mustSquare(t, "b2"))
	if wp := restored.WhaleSquares(White); wp != want {
		t.Fatalf("whale = %s/%s, want b1/b2", wp.First, wp.Second)
	}
	if pc := restored.Get(mustSquare(t, "b2")); pc == nil || pc.Kind != Whale {
		t.Error("b2 does not resolve to the whale")
	}
}

func TestFixtureCoralOverlay(t *testing.T) {
	f := &Fixture{
		SchemaVersion: FixtureSchemaVersion,
		State: FixtureState{
			FEN:            StartFEN,
			Coral:          []FixtureCoral{{Square: "a4", Color: "white"}},
			CoralRemaining: map[string]int{"white": 5},
		},
	}
	p, err := FromFixture(f)
	if err != nil {
		t.Fatalf("FromFixture: %v", err)
	}
	if got := p.CoralAt(mustSquare(t, "a4")); got != White {
		t.Errorf("coral at a4 = %v, want white", got)
	}
	// The overlay replaces the setup coral entirely.
	if got := p.CoralAt(mustSquare(t, "d3")); got != NoColor {
		t.Errorf("coral at d3 = %v, want none", got)
	}
	if got := p.CoralRemaining(White); got != 5 {
		t.Errorf("white coral remaining = %d, want 5", got)
	}
	if got := p.CoralRemaining(Black); got != CoralPerSide {
		t.Errorf("black coral remaining = %d, want %d", got, CoralPerSide)
	}
}

func TestFixtureRoleOverlay(t *testing.T) {
	f := &Fixture{
		SchemaVersion: FixtureSchemaVersion,
		State: FixtureState{
			FEN:   StartFEN,
			Board: []FixtureCell{{Square: "a2", Color: "white", Kind: "crab", Role: "gatherer"}},
		},
	}
	p, err := FromFixture(f)
	if err != nil {
		t.Fatalf("FromFixture: %v", err)
	}
	if pc := p.Get(mustSquare(t, "a2")); pc == nil || pc.Role != Gatherer {
		t.Errorf("a2 = %+v, want gatherer crab", pc)
	}
}

func TestFixtureRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		f    Fixture
	}{
		{
			"wrong schema version",
			Fixture{SchemaVersion: 99, State: FixtureState{FEN: StartFEN}},
		},
		{
			"bad fen",
			Fixture{SchemaVersion: FixtureSchemaVersion, State: FixtureState{FEN: "nonsense"}},
		},
		{
			"non-adjacent whale squares",
			Fixture{SchemaVersion: FixtureSchemaVersion, State: FixtureState{
				FEN:            StartFEN,
				WhalePositions: map[string][]string{"white": {"d1", "f1"}},
			}},
		},
		{
			"whale square count",
			Fixture{SchemaVersion: FixtureSchemaVersion, State: FixtureState{
				FEN:            StartFEN,
				WhalePositions: map[string][]string{"white": {"d1"}},
			}},
		},
		{
			"unknown color name",
			Fixture{SchemaVersion: FixtureSchemaVersion, State: FixtureState{
				FEN:   StartFEN,
				Coral: []FixtureCoral{{Square: "a4", Color: "teal"}},
			}},
		},
		{
			"coral out of range",
			Fixture{SchemaVersion: FixtureSchemaVersion, State: FixtureState{
				FEN:            StartFEN,
				CoralRemaining: map[string]int{"white": CoralPerSide + 1},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromFixture(&tt.f); !errors.Is(err, ErrInvalidNotation) {
				t.Errorf("err = %v, want ErrInvalidNotation", err)
			}
		})
	}

	if _, err := LoadFixture([]byte("{")); !errors.Is(err, ErrInvalidNotation) {
		t.Errorf("truncated JSON: err = %v, want ErrInvalidNotation", err)
	}
}

func TestExportReportsTerminalState(t *testing.T) {
	p := mustLoad(t, "6w1/8/8/5p2/8/8/TT6/W1T5 b - - 0 1")
	mustPlaceCoral(t, p, "c2", White)
	if _, err := p.MakeMoveText("Pd3"); err != nil {
		t.Fatalf("Pd3: %v", err)
	}

	f := p.Export()
	if !f.State.InCheck || !f.State.IsCheckmate || !f.State.IsGameOver {
		t.Errorf("state = %+v, want checkmate flags set", f.State)
	}
	if f.State.Turn != "white" {
		t.Errorf("turn = %q, want white", f.State.Turn)
	}
	if f.SchemaVersion != FixtureSchemaVersion {
		t.Errorf("schema version = %d", f.SchemaVersion)
	}
}
