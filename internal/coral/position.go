package coral

import "fmt"

// Position is the full mutable game state. Each Position is independent;
// concurrent games use separate instances and need no locking.
type Position struct {
	board      [NumSquares]*Piece
	turn       Color
	epSquare   Square
	halfmove   int
	fullmove   int
	whales     [2]WhalePair
	coral      [NumSquares]Color
	coralLeft  [2]int
	repetition map[string]int
	history    []historyRecord
	sanHistory []string
	corrupted  bool
}

// NewPosition returns the standard starting position: whales astride the
// center files of each back rank, crabs on the second rank, and two
// pre-placed coral squares per color near the center.
func NewPosition() *Position {
	p := emptyPosition()
	for file := 0; file < BoardFiles; file++ {
		for _, c := range []Color{White, Black} {
			kind := setupBackRank[file]
			back := squareAt(file, backRank(c))
			if kind == Whale {
				// Placed once, at its first (leftmost) square.
				if file == 3 {
					p.mustPut(&Piece{Color: c, Kind: Whale}, back)
				}
			} else {
				p.mustPut(&Piece{Color: c, Kind: kind, Role: setupRole(kind, back)}, back)
			}
			crabSq := squareAt(file, backRank(c)+forwardRankDir(c))
			p.mustPut(&Piece{Color: c, Kind: Crab, Role: setupRole(Crab, crabSq)}, crabSq)
		}
	}
	for _, pc := range setupCoral {
		sq, _ := ParseSquare(pc.sq)
		if err := p.PlaceCoral(sq, pc.color); err != nil {
			panic(fmt.Sprintf("setup coral %s: %v", pc.sq, err))
		}
	}
	p.repetition[p.repetitionKey()] = 1
	return p
}

// emptyPosition returns a cleared board with full coral stocks and White to
// move. Used by tests and by the notation loader.
func emptyPosition() *Position {
	p := &Position{
		turn:       White,
		epSquare:   NoSquare,
		fullmove:   1,
		whales:     [2]WhalePair{{NoSquare, NoSquare}, {NoSquare, NoSquare}},
		coralLeft:  [2]int{CoralPerSide, CoralPerSide},
		repetition: make(map[string]int),
	}
	for i := range p.coral {
		p.coral[i] = NoColor
	}
	return p
}

func (p *Position) mustPut(pc *Piece, sq Square) {
	if err := p.Put(pc, sq); err != nil {
		panic(fmt.Sprintf("put %s %s at %s: %v", pc.Color, pc.Kind, sq, err))
	}
}

// Turn returns the side to move.
func (p *Position) Turn() Color { return p.turn }

// EnPassant returns the current en-passant target square, NoSquare if none.
func (p *Position) EnPassant() Square { return p.epSquare }

// HalfmoveClock returns plies since the last capture or crab move.
func (p *Position) HalfmoveClock() int { return p.halfmove }

// FullmoveNumber returns the current full-move number, starting at 1.
func (p *Position) FullmoveNumber() int { return p.fullmove }

// WhaleSquares returns the two squares of a color's whale.
func (p *Position) WhaleSquares(c Color) WhalePair { return p.whales[c] }

// Get returns the piece at sq, resolving the whale's second (derived) square
// to the same logical piece.
func (p *Position) Get(sq Square) *Piece {
	if !sq.onBoard() {
		return nil
	}
	if pc := p.board[sq]; pc != nil {
		return pc
	}
	for _, c := range []Color{White, Black} {
		wp := p.whales[c]
		if wp.valid() && wp.Second == sq {
			return p.board[wp.First]
		}
	}
	return nil
}

// Put places a piece. Whales default their second square one file to the
// right of the target; callers needing another orientation rotate via moves
// afterward. Placing any piece over a whale half clears that whale entirely.
func (p *Position) Put(pc *Piece, sq Square) error {
	if pc == nil || pc.Kind == KindNone || pc.Kind > Whale {
		return fmt.Errorf("%w: unknown kind", ErrInvalidPiece)
	}
	if pc.Color != White && pc.Color != Black {
		return fmt.Errorf("%w: unknown color", ErrInvalidPiece)
	}
	if !sq.onBoard() {
		return fmt.Errorf("%w: %d", ErrInvalidSquare, sq)
	}
	if pc.Kind == Whale {
		second := sq.offset(1, 0)
		if second == NoSquare {
			return fmt.Errorf("%w: whale second square off board at %s", ErrInvalidSquare, sq)
		}
		own := p.whales[pc.Color]
		if own.valid() && !own.contains(sq) && !own.contains(second) {
			return fmt.Errorf("%w: %s already has a whale", ErrInvalidPiece, pc.Color)
		}
		pc.Role = RoleNone
		p.clearWhaleAt(sq)
		p.clearWhaleAt(second)
		p.Remove(sq)
		p.Remove(second)
		p.whales[pc.Color] = canonicalPair(sq, second)
		p.board[p.whales[pc.Color].First] = pc
		return nil
	}
	p.clearWhaleAt(sq)
	p.Remove(sq)
	p.board[sq] = pc
	return nil
}

// clearWhaleAt removes any whale occupying sq, clearing both of its squares.
func (p *Position) clearWhaleAt(sq Square) {
	for _, c := range []Color{White, Black} {
		wp := p.whales[c]
		if wp.contains(sq) {
			p.board[wp.First] = nil
			p.whales[c] = WhalePair{NoSquare, NoSquare}
		}
	}
}

// Remove takes the piece at sq off the board and returns it. Removing either
// half of a whale clears both squares.
func (p *Position) Remove(sq Square) *Piece {
	if !sq.onBoard() {
		return nil
	}
	for _, c := range []Color{White, Black} {
		wp := p.whales[c]
		if wp.contains(sq) {
			pc := p.board[wp.First]
			p.board[wp.First] = nil
			p.whales[c] = WhalePair{NoSquare, NoSquare}
			return pc
		}
	}
	pc := p.board[sq]
	p.board[sq] = nil
	return pc
}

// CoralAt returns the color of coral on sq, NoColor if bare.
func (p *Position) CoralAt(sq Square) Color {
	if !sq.onBoard() {
		return NoColor
	}
	return p.coral[sq]
}

// CoralRemaining returns how many coral a color can still place.
func (p *Position) CoralRemaining(c Color) int {
	if c != White && c != Black {
		return 0
	}
	return p.coralLeft[c]
}

// PlaceCoral tags sq with a color's coral, drawing from its remaining stock.
func (p *Position) PlaceCoral(sq Square, c Color) error {
	if !sq.onBoard() {
		return fmt.Errorf("%w: %d", ErrInvalidSquare, sq)
	}
	if c != White && c != Black {
		return fmt.Errorf("%w: unknown color", ErrInvalidPiece)
	}
	if p.coral[sq] != NoColor {
		return fmt.Errorf("%w: %s", ErrCoralOccupied, sq)
	}
	if p.coralLeft[c] <= 0 {
		return fmt.Errorf("%w: %s", ErrCoralExhausted, c)
	}
	p.coral[sq] = c
	p.coralLeft[c]--
	return nil
}

// RemoveCoral clears coral from sq, returning it to its owner's stock.
// Returns the owner, or NoColor if the square was bare.
func (p *Position) RemoveCoral(sq Square) Color {
	if !sq.onBoard() || p.coral[sq] == NoColor {
		return NoColor
	}
	c := p.coral[sq]
	p.coral[sq] = NoColor
	p.coralLeft[c]++
	return c
}

// pieceSquares calls fn for every square holding a piece of color c, visiting
// a whale only at its first square.
func (p *Position) pieceSquares(c Color, fn func(sq Square, pc *Piece)) {
	for sq := Square(0); sq < NumSquares; sq++ {
		if pc := p.board[sq]; pc != nil && pc.Color == c {
			fn(sq, pc)
		}
	}
}

// countPieces returns per-kind piece counts for a color.
func (p *Position) countPieces(c Color) map[Kind]int {
	counts := make(map[Kind]int)
	p.pieceSquares(c, func(_ Square, pc *Piece) {
		counts[pc.Kind]++
	})
	return counts
}

// Corrupted reports whether an internal invariant violation has poisoned the
// position. Once set, mutating operations refuse to run.
func (p *Position) Corrupted() bool { return p.corrupted }

func (p *Position) markCorrupted(reason string) error {
	p.corrupted = true
	return fmt.Errorf("%w: %s", ErrCorrupted, reason)
}
