package coral

import "fmt"

const (
	BoardFiles = 8
	BoardRanks = 8
	NumSquares = BoardFiles * BoardRanks

	// CoralPerSide is each color's total coral stock, pre-placed setup
	// coral included.
	CoralPerSide = 17
)

// Square is a dense board index, 0 = a1, 63 = h8. NoSquare is the off-board
// sentinel.
type Square int

const NoSquare Square = -1

func squareAt(file, rank int) Square { return Square(rank*BoardFiles + file) }

func (sq Square) File() int { return int(sq) % BoardFiles }
func (sq Square) Rank() int { return int(sq) / BoardFiles }

func (sq Square) onBoard() bool { return sq >= 0 && sq < NumSquares }

// offset steps file/rank deltas with wrap protection; NoSquare when off.
func (sq Square) offset(df, dr int) Square {
	f := sq.File() + df
	r := sq.Rank() + dr
	if f < 0 || f >= BoardFiles || r < 0 || r >= BoardRanks {
		return NoSquare
	}
	return squareAt(f, r)
}

// adjacent reports orthogonal adjacency: exactly one of file/rank differs,
// by exactly one. This is the whale-pair invariant predicate.
func (sq Square) adjacent(o Square) bool {
	if !sq.onBoard() || !o.onBoard() {
		return false
	}
	df := sq.File() - o.File()
	dr := sq.Rank() - o.Rank()
	if df < 0 {
		df = -df
	}
	if dr < 0 {
		dr = -dr
	}
	return df+dr == 1
}

func (sq Square) String() string {
	if !sq.onBoard() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+sq.File(), sq.Rank()+1)
}

// ParseSquare converts algebraic form ("e2") to a Square.
func ParseSquare(s string) (Square, bool) {
	if len(s) != 2 {
		return NoSquare, false
	}
	f := int(s[0] - 'a')
	r := int(s[1] - '1')
	if f < 0 || f >= BoardFiles || r < 0 || r >= BoardRanks {
		return NoSquare, false
	}
	return squareAt(f, r), true
}

type direction struct{ df, dr int }

var (
	orthogonalDirs = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonalDirs   = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	allDirs        = append(append([]direction{}, orthogonalDirs...), diagonalDirs...)
)

// forwardRankDir is the promotion direction: White advances toward rank 8.
func forwardRankDir(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

func backRank(c Color) int {
	if c == White {
		return 0
	}
	return BoardRanks - 1
}

// Starting back-rank kinds by file; the whale covers files d and e.
var setupBackRank = [BoardFiles]Kind{Turtle, Octopus, Pufferfish, Whale, Whale, Dolphin, Octopus, Turtle}

// setupRole is the fixed role table keyed by kind and square: queenside
// files hunt, kingside files gather. Whales carry no role. The same table
// resolves roles for positions loaded from bare notation strings, which
// cannot carry role metadata.
func setupRole(kind Kind, sq Square) Role {
	if kind == Whale {
		return RoleNone
	}
	if sq.File() < BoardFiles/2 {
		return Hunter
	}
	return Gatherer
}

// setupCoral is the pre-placed coral: two squares near the center per color.
var setupCoral = []struct {
	sq    string
	color Color
}{
	{"d3", White},
	{"e3", White},
	{"d6", Black},
	{"e6", Black},
}
