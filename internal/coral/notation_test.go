package coral

import (
	"errors"
	"strings"
	"testing"
)

func TestStartFENRoundTrip(t *testing.T) {
	if got := NewPosition().FEN(); got != StartFEN {
		t.Errorf("NewPosition FEN = %q, want %q", got, StartFEN)
	}

	p := mustLoad(t, StartFEN)
	if got := p.FEN(); got != StartFEN {
		t.Errorf("reloaded FEN = %q, want %q", got, StartFEN)
	}
	if p.Turn() != White {
		t.Errorf("turn = %v, want white", p.Turn())
	}
	if wp := p.WhaleSquares(White); wp != canonicalPair(mustSquare(t, "d1"), mustSquare(t, "e1")) {
		t.Errorf("white whale = %v/%v, want d1/e1", wp.First, wp.Second)
	}
}

func TestLoadRejectsMalformedStrings(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"too few fields", "topw1dot/cccccccc/8/8/8/8/CCCCCCCC/TOPW1DOT w - - 0"},
		{"wrong rank count", "8/8/8/8/8/8/8 w - - 0 1"},
		{"unknown piece letter", "6w1/8/8/8/8/8/8/W6k w - - 0 1"},
		{"rank too short", "6w1/8/8/8/7/8/8/W7 w - - 0 1"},
		{"rank overflow", "6w1/8/8/8/ccccccccc/8/8/W7 w - - 0 1"},
		{"two white whales", "6w1/8/8/8/8/8/8/W2W4 w - - 0 1"},
		{"missing black whale", "8/8/8/8/8/8/8/W7 w - - 0 1"},
		{"crab on back rank", "6w1/8/8/8/8/8/8/W5C1 w - - 0 1"},
		{"whale on edge file", "7w/8/8/8/8/8/8/W7 w - - 0 1"},
		{"whale second square occupied", "wt6/8/8/8/8/8/8/W7 w - - 0 1"},
		{"bad side field", "6w1/8/8/8/8/8/8/W7 x - - 0 1"},
		{"bad en-passant field", "6w1/8/8/8/8/8/8/W7 w - e9 0 1"},
		{"negative halfmove", "6w1/8/8/8/8/8/8/W7 w - - -1 1"},
		{"zero fullmove", "6w1/8/8/8/8/8/8/W7 w - - 0 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.fen); !errors.Is(err, ErrInvalidNotation) {
				t.Errorf("Load(%q): err = %v, want ErrInvalidNotation", tt.fen, err)
			}
		})
	}
}

func TestFENEnPassantEmission(t *testing.T) {
	// With a white crab beside the target the capture is legal, so the
	// square is emitted and the string round-trips.
	withCapturer := "6w1/8/3C4/4c3/8/8/8/W7 w - e6 0 1"
	if got := mustLoad(t, withCapturer).FEN(); got != withCapturer {
		t.Errorf("FEN = %q, want %q", got, withCapturer)
	}

	// Without a capturer the stale square is suppressed.
	p := mustLoad(t, "6w1/8/8/4c3/8/8/8/W7 w - e6 0 1")
	if got := p.FEN(); got != "6w1/8/8/4c3/8/8/8/W7 w - - 0 1" {
		t.Errorf("FEN = %q, want en-passant suppressed", got)
	}
}

func TestSANRendering(t *testing.T) {
	t.Run("quiet crab step", func(t *testing.T) {
		p := NewPosition()
		for _, m := range p.LegalMovesFrom(mustSquare(t, "e2")) {
			if got := p.SAN(m); got != "e3" {
				t.Errorf("SAN = %q, want e3", got)
			}
		}
	})

	t.Run("turtle capture", func(t *testing.T) {
		p := mustLoad(t, "6w1/8/8/8/3c4/8/8/W2T4 w - - 0 1")
		for _, m := range p.LegalMovesFrom(mustSquare(t, "d1")) {
			if m.To == mustSquare(t, "d4") {
				if got := p.SAN(m); got != "Txd4" {
					t.Errorf("SAN = %q, want Txd4", got)
				}
			}
		}
	})

	t.Run("whale moves carry origin", func(t *testing.T) {
		p := mustLoad(t, "6w1/8/7c/8/8/C7/8/W7 w - - 0 1")
		texts := p.LegalMoveTexts()
		for _, want := range []string{"Wa1b2", "Wb1a2", "a4"} {
			found := false
			for _, s := range texts {
				if s == want {
					found = true
				}
			}
			if !found {
				t.Errorf("missing %q in %v", want, texts)
			}
		}
	})

	t.Run("ambiguous crabs carry origin", func(t *testing.T) {
		p := mustLoad(t, "6w1/8/8/2C5/8/2C5/8/W7 w - - 0 1")
		var sans []string
		for _, m := range movesTo(p.LegalMoves(), mustSquare(t, "c4")) {
			sans = append(sans, p.SAN(m))
		}
		if len(sans) != 2 {
			t.Fatalf("got %d moves to c4, want 2", len(sans))
		}
		for _, s := range sans {
			if s != "c3c4" && s != "c5c4" {
				t.Errorf("SAN = %q, want origin-qualified form", s)
			}
		}
	})
}

func TestCheckAndMateSuffixes(t *testing.T) {
	// Promoting on g8 opens the rank toward the black whale on c8/d8.
	p := mustLoad(t, "2w5/6C1/8/8/8/8/8/W7 w - - 0 1")
	if _, err := p.MakeMoveText("g8=T"); err != nil {
		t.Fatalf("g8=T: %v", err)
	}
	hist := p.SANHistory()
	if len(hist) != 1 || hist[0] != "g8=T+" {
		t.Errorf("history = %v, want [g8=T+]", hist)
	}
	if !p.InCheck() {
		t.Error("black should be in check")
	}

	// The smothered mate renders with a mate suffix.
	p = mustLoad(t, "6w1/8/8/5p2/8/8/TT6/W1T5 b - - 0 1")
	mustPlaceCoral(t, p, "c2", White)
	var mate string
	for _, m := range p.LegalMovesFrom(mustSquare(t, "f5")) {
		if m.To == mustSquare(t, "d3") {
			mate = p.SAN(m)
		}
	}
	if mate != "Pd3#" {
		t.Errorf("SAN = %q, want Pd3#", mate)
	}
}

func TestParseMoveText(t *testing.T) {
	t.Run("permissive capture without x", func(t *testing.T) {
		p := mustLoad(t, "6w1/8/8/8/3c4/8/8/W2T4 w - - 0 1")
		if _, err := p.MakeMoveText("Td4"); err != nil {
			t.Fatalf("Td4: %v", err)
		}
		if pc := p.Get(mustSquare(t, "d4")); pc == nil || pc.Kind != Turtle {
			t.Errorf("d4 = %+v, want turtle", pc)
		}
	})

	t.Run("coordinate forms", func(t *testing.T) {
		for _, text := range []string{"f2f3", "f2-f3"} {
			p := NewPosition()
			if _, err := p.MakeMoveText(text); err != nil {
				t.Errorf("%s: %v", text, err)
			}
		}
	})

	t.Run("coordinates select a whale by either half", func(t *testing.T) {
		p := mustLoad(t, "6w1/8/7c/8/8/C7/8/W7 w - - 0 1")
		if _, err := p.MakeMoveText("b1-a2"); err != nil {
			t.Fatalf("b1-a2: %v", err)
		}
		if wp := p.WhaleSquares(White); wp != canonicalPair(mustSquare(t, "a1"), mustSquare(t, "a2")) {
			t.Errorf("whale = %v/%v, want a1/a2", wp.First, wp.Second)
		}
	})

	t.Run("ambiguous text rejected", func(t *testing.T) {
		p := mustLoad(t, "6w1/8/8/2C5/8/2C5/8/W7 w - - 0 1")
		_, err := p.MakeMoveText("c4")
		if !errors.Is(err, ErrInvalidMove) {
			t.Fatalf("c4: err = %v, want ErrInvalidMove", err)
		}
		if !strings.Contains(err.Error(), "ambiguous") {
			t.Errorf("err = %v, want ambiguity mention", err)
		}
	})

	t.Run("garbage rejected", func(t *testing.T) {
		p := NewPosition()
		for _, text := range []string{"", "zz9", "Wq9q9", "e2e9"} {
			if _, err := p.MakeMoveText(text); !errors.Is(err, ErrInvalidMove) {
				t.Errorf("%q: err = %v, want ErrInvalidMove", text, err)
			}
		}
	})
}

func TestRepetitionKeyTracksWhaleOrientation(t *testing.T) {
	// Two positions with identical placement fields but different whale
	// orientations must not collide.
	a := mustLoad(t, "6w1/8/7c/8/8/C7/8/W7 w - - 0 1")
	if _, err := a.MakeMoveText("Wa1b2"); err != nil {
		t.Fatalf("Wa1b2: %v", err)
	}
	b := mustLoad(t, "6w1/8/7c/8/8/C7/8/W7 b - - 0 1")
	if _, err := b.MakeMoveText("Wh8g7"); err != nil {
		t.Fatalf("Wh8g7: %v", err)
	}
	if a.repetitionKey() == b.repetitionKey() {
		t.Error("repetition keys collide across different whale layouts")
	}
}
