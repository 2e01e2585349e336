package coral

import (
	"encoding/json"
	"fmt"
	"time"
)

// Fixtures are JSON snapshots used to restore positions the notation string
// cannot fully express: whale orientation, coral overlay, and role metadata
// ride alongside the FEN.

const FixtureSchemaVersion = 1

type Fixture struct {
	SchemaVersion int          `json:"schemaVersion"`
	ExportedAt    time.Time    `json:"exportedAt"`
	State         FixtureState `json:"state"`
}

type FixtureState struct {
	FEN            string              `json:"fen"`
	Board          []FixtureCell       `json:"board"`
	History        []string            `json:"history"`
	Turn           string              `json:"turn"`
	WhalePositions map[string][]string `json:"whalePositions,omitempty"`
	Coral          []FixtureCoral      `json:"coral,omitempty"`
	CoralRemaining map[string]int      `json:"coralRemaining,omitempty"`
	IsGameOver     bool                `json:"isGameOver"`
	InCheck        bool                `json:"inCheck"`
	IsCheckmate    bool                `json:"isCheckmate"`
	IsStalemate    bool                `json:"isStalemate"`
	IsDraw         bool                `json:"isDraw"`
	IsCoralVictory bool                `json:"isCoralVictory"`
}

type FixtureCell struct {
	Square string `json:"square"`
	Color  string `json:"color"`
	Kind   string `json:"kind"`
	Role   string `json:"role"`
}

type FixtureCoral struct {
	Square string `json:"square"`
	Color  string `json:"color"`
}

func parseColorName(s string) (Color, error) {
	switch s {
	case "white":
		return White, nil
	case "black":
		return Black, nil
	}
	return NoColor, fmt.Errorf("%w: color %q", ErrInvalidNotation, s)
}

func parseRoleName(s string) (Role, error) {
	switch s {
	case "hunter":
		return Hunter, nil
	case "gatherer":
		return Gatherer, nil
	case "none", "":
		return RoleNone, nil
	}
	return RoleNone, fmt.Errorf("%w: role %q", ErrInvalidNotation, s)
}

// LoadFixture restores a position from fixture JSON: the FEN is applied
// first, then whale orientation, roles, and coral state are overlaid.
func LoadFixture(data []byte) (*Position, error) {
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNotation, err)
	}
	return FromFixture(&f)
}

func FromFixture(f *Fixture) (*Position, error) {
	if f.SchemaVersion != FixtureSchemaVersion {
		return nil, fmt.Errorf("%w: unsupported schema version %d", ErrInvalidNotation, f.SchemaVersion)
	}
	p, err := Load(f.State.FEN)
	if err != nil {
		return nil, err
	}

	for name, squares := range f.State.WhalePositions {
		c, err := parseColorName(name)
		if err != nil {
			return nil, err
		}
		if len(squares) != 2 {
			return nil, fmt.Errorf("%w: whale of %s needs 2 squares, got %d", ErrInvalidNotation, c, len(squares))
		}
		a, okA := ParseSquare(squares[0])
		b, okB := ParseSquare(squares[1])
		if !okA || !okB || !a.adjacent(b) {
			return nil, fmt.Errorf("%w: whale squares %v not orthogonally adjacent", ErrInvalidNotation, squares)
		}
		if err := p.relocateWhale(c, canonicalPair(a, b)); err != nil {
			return nil, err
		}
	}

	for _, cell := range f.State.Board {
		sq, ok := ParseSquare(cell.Square)
		if !ok {
			return nil, fmt.Errorf("%w: board square %q", ErrInvalidNotation, cell.Square)
		}
		pc := p.Get(sq)
		if pc == nil {
			return nil, fmt.Errorf("%w: no piece at %s to annotate", ErrInvalidNotation, sq)
		}
		role, err := parseRoleName(cell.Role)
		if err != nil {
			return nil, err
		}
		if pc.Kind != Whale {
			pc.Role = role
		}
	}

	if len(f.State.Coral) > 0 || f.State.CoralRemaining != nil {
		for i := range p.coral {
			p.coral[i] = NoColor
		}
		p.coralLeft = [2]int{CoralPerSide, CoralPerSide}
		for _, tag := range f.State.Coral {
			sq, ok := ParseSquare(tag.Square)
			if !ok {
				return nil, fmt.Errorf("%w: coral square %q", ErrInvalidNotation, tag.Square)
			}
			c, err := parseColorName(tag.Color)
			if err != nil {
				return nil, err
			}
			if err := p.PlaceCoral(sq, c); err != nil {
				return nil, err
			}
		}
		for name, n := range f.State.CoralRemaining {
			c, err := parseColorName(name)
			if err != nil {
				return nil, err
			}
			if n < 0 || n > CoralPerSide {
				return nil, fmt.Errorf("%w: coral remaining %d for %s", ErrInvalidNotation, n, c)
			}
			p.coralLeft[c] = n
		}
	}

	p.sanHistory = append([]string(nil), f.State.History...)
	// The overlays change the trimmed position identity, so reseed.
	p.repetition = map[string]int{p.repetitionKey(): 1}
	return p, nil
}

// relocateWhale moves a whale wholesale onto a validated adjacent pair.
func (p *Position) relocateWhale(c Color, to WhalePair) error {
	cur := p.whales[c]
	if !cur.valid() {
		return fmt.Errorf("%w: %s has no whale to place", ErrInvalidNotation, c)
	}
	for _, sq := range []Square{to.First, to.Second} {
		if occupant := p.Get(sq); occupant != nil && occupant != p.board[cur.First] {
			return fmt.Errorf("%w: whale square %s occupied", ErrInvalidNotation, sq)
		}
	}
	pc := p.board[cur.First]
	p.board[cur.First] = nil
	p.whales[c] = to
	p.board[to.First] = pc
	return nil
}

// Export renders the position as a fixture snapshot.
func (p *Position) Export() *Fixture {
	state := FixtureState{
		FEN:            p.FEN(),
		Turn:           p.turn.String(),
		History:        p.SANHistory(),
		WhalePositions: map[string][]string{},
		CoralRemaining: map[string]int{},
		IsGameOver:     p.IsGameOver(),
		InCheck:        p.InCheck(),
		IsCheckmate:    p.IsCheckmate(),
		IsStalemate:    p.IsStalemate(),
		IsDraw:         p.IsDraw(),
		IsCoralVictory: p.IsCoralVictory(),
	}
	for _, c := range []Color{White, Black} {
		wp := p.whales[c]
		if wp.valid() {
			state.WhalePositions[c.String()] = []string{wp.First.String(), wp.Second.String()}
		}
		state.CoralRemaining[c.String()] = p.coralLeft[c]
	}
	for sq := Square(0); sq < NumSquares; sq++ {
		if pc := p.board[sq]; pc != nil {
			state.Board = append(state.Board, FixtureCell{
				Square: sq.String(),
				Color:  pc.Color.String(),
				Kind:   pc.Kind.String(),
				Role:   pc.Role.String(),
			})
		}
		if p.coral[sq] != NoColor {
			state.Coral = append(state.Coral, FixtureCoral{Square: sq.String(), Color: p.coral[sq].String()})
		}
	}
	return &Fixture{
		SchemaVersion: FixtureSchemaVersion,
		ExportedAt:    time.Now().UTC(),
		State:         state,
	}
}
