package coral

// Color identifies a side. White moves first.
type Color int8

const (
	NoColor Color = -1
	White   Color = 0
	Black   Color = 1
)

func (c Color) Opposite() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

// Kind is the piece class.
type Kind int8

const (
	KindNone Kind = iota
	Crab
	Turtle
	Octopus
	Pufferfish
	Dolphin
	Whale
)

func (k Kind) String() string {
	switch k {
	case Crab:
		return "crab"
	case Turtle:
		return "turtle"
	case Octopus:
		return "octopus"
	case Pufferfish:
		return "pufferfish"
	case Dolphin:
		return "dolphin"
	case Whale:
		return "whale"
	}
	return "none"
}

// Role is the hunter/gatherer assignment made at setup. Whales carry no role.
type Role int8

const (
	RoleNone Role = iota
	Hunter
	Gatherer
)

func (r Role) String() string {
	switch r {
	case Hunter:
		return "hunter"
	case Gatherer:
		return "gatherer"
	}
	return "none"
}

// Piece is one logical piece. A whale occupies two squares but is a single
// Piece; its squares live in the position's whale pairs.
type Piece struct {
	Color Color `json:"color"`
	Kind  Kind  `json:"kind"`
	Role  Role  `json:"role"`
}

// WhalePair is the two squares a whale occupies, canonically ordered with the
// lower index first. The pair is the source of truth; the board array only
// indexes the first square.
type WhalePair struct {
	First  Square `json:"first"`
	Second Square `json:"second"`
}

func (wp WhalePair) valid() bool {
	return wp.First != NoSquare && wp.Second != NoSquare
}

func (wp WhalePair) contains(sq Square) bool {
	return wp.valid() && (wp.First == sq || wp.Second == sq)
}

// Horizontal reports whether the pair shares a rank. Derived, never stored.
func (wp WhalePair) Horizontal() bool {
	return wp.First.Rank() == wp.Second.Rank()
}

func canonicalPair(a, b Square) WhalePair {
	if b < a {
		a, b = b, a
	}
	return WhalePair{First: a, Second: b}
}

// otherHalf returns the square of the pair that is not sq.
func (wp WhalePair) otherHalf(sq Square) Square {
	if wp.First == sq {
		return wp.Second
	}
	return wp.First
}

// Captured records one piece removed by a move, with enough metadata to put
// it back verbatim on undo.
type Captured struct {
	Square Square `json:"square"`
	Color  Color  `json:"color"`
	Kind   Kind   `json:"kind"`
	Role   Role   `json:"role"`
}

// Move is one fully described move. From/To are the moved half for whale
// moves; WhaleFrom/WhaleTo carry the complete pair transition.
type Move struct {
	From      Square     `json:"from"`
	To        Square     `json:"to"`
	Kind      Kind       `json:"kind"`
	Color     Color      `json:"color"`
	Role      Role       `json:"role"`
	Captured  []Captured `json:"captured,omitempty"`
	Promotion Kind       `json:"promotion,omitempty"`
	EnPassant bool       `json:"enPassant,omitempty"`
	WhaleFrom WhalePair  `json:"whaleFrom,omitempty"`
	WhaleTo   WhalePair  `json:"whaleTo,omitempty"`
}

// IsCapture reports whether the move removes at least one enemy piece.
func (m Move) IsCapture() bool { return len(m.Captured) > 0 }

// covers reports whether applying the move puts the mover on sq.
func (m Move) covers(sq Square) bool {
	if m.Kind != Whale {
		return m.To == sq
	}
	return m.WhaleTo.contains(sq)
}

// sameTransition reports whether two moves produce the same board transition.
// Distinct whale families can emit the same relocation; generation dedupes
// with this.
func (m Move) sameTransition(o Move) bool {
	if m.Kind != o.Kind || m.From != o.From || m.To != o.To {
		return false
	}
	if m.Kind == Whale {
		return m.WhaleTo == o.WhaleTo
	}
	return m.Promotion == o.Promotion
}
