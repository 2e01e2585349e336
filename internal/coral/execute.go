package coral

import "fmt"

// historyRecord is the deep snapshot pushed before every applied move. The
// coral overlay is an array, so the copy here is a true copy; restoring from
// a shared reference would corrupt positions reachable from multiple
// branches.
type historyRecord struct {
	move      Move
	whales    [2]WhalePair
	turn      Color
	epSquare  Square
	halfmove  int
	fullmove  int
	coral     [NumSquares]Color
	coralLeft [2]int
	movedKind Kind
	movedRole Role
	repKey    string
}

func (p *Position) snapshot(m Move) historyRecord {
	return historyRecord{
		move:      m,
		whales:    p.whales,
		turn:      p.turn,
		epSquare:  p.epSquare,
		halfmove:  p.halfmove,
		fullmove:  p.fullmove,
		coral:     p.coral,
		coralLeft: p.coralLeft,
	}
}

// apply executes a move's full side effects and pushes an undo record. The
// move must come from the generator (or have been matched against it); apply
// does not re-check legality.
func (p *Position) apply(m Move) error {
	if p.corrupted {
		return ErrCorrupted
	}

	var pc *Piece
	if m.Kind == Whale {
		pc = p.board[p.whales[m.Color].First]
	} else {
		pc = p.board[m.From]
	}
	if pc == nil || pc.Kind != m.Kind || pc.Color != m.Color {
		return fmt.Errorf("%w: no %s %s at %s", ErrInvalidMove, m.Color, m.Kind, m.From)
	}

	rec := p.snapshot(m)
	rec.movedKind = pc.Kind
	rec.movedRole = pc.Role

	for _, cap := range m.Captured {
		if cap.Kind == Whale {
			return p.markCorrupted("whale capture attempted at " + cap.Square.String())
		}
		p.board[cap.Square] = nil
	}

	if m.Kind == Whale {
		to := canonicalPair(m.WhaleTo.First, m.WhaleTo.Second)
		if !to.First.adjacent(to.Second) {
			return p.markCorrupted(fmt.Sprintf("whale pair %s/%s not adjacent", to.First, to.Second))
		}
		p.board[p.whales[m.Color].First] = nil
		p.whales[m.Color] = to
		p.board[to.First] = pc
	} else {
		p.board[m.From] = nil
		p.board[m.To] = pc
		if m.Promotion != KindNone && pc.Kind == Crab {
			// Promotion-equivalent replacement keeps the crab's role.
			pc.Kind = m.Promotion
		}
	}

	switch pc.Role {
	case Hunter:
		if p.coral[m.To] != NoColor {
			p.RemoveCoral(m.To)
		}
	case Gatherer:
		if p.coral[m.From] == NoColor && p.coralLeft[pc.Color] > 0 {
			p.coral[m.From] = pc.Color
			p.coralLeft[pc.Color]--
		}
	}

	p.epSquare = NoSquare
	if m.IsCapture() || m.Kind == Crab {
		p.halfmove = 0
	} else {
		p.halfmove++
	}
	if m.Color == Black {
		p.fullmove++
	}
	p.turn = m.Color.Opposite()

	rec.repKey = p.repetitionKey()
	p.repetition[rec.repKey]++
	p.history = append(p.history, rec)
	return nil
}

// revert pops the newest history record and restores the exact prior state.
func (p *Position) revert() error {
	if p.corrupted {
		return ErrCorrupted
	}
	if len(p.history) == 0 {
		return ErrNothingToUndo
	}
	rec := p.history[len(p.history)-1]
	p.history = p.history[:len(p.history)-1]

	if n := p.repetition[rec.repKey] - 1; n > 0 {
		p.repetition[rec.repKey] = n
	} else {
		delete(p.repetition, rec.repKey)
	}

	m := rec.move
	if m.Kind == Whale {
		pc := p.board[p.whales[m.Color].First]
		p.board[p.whales[m.Color].First] = nil
		p.whales = rec.whales
		p.board[rec.whales[m.Color].First] = pc
	} else {
		pc := p.board[m.To]
		p.board[m.To] = nil
		pc.Kind = rec.movedKind
		pc.Role = rec.movedRole
		p.board[m.From] = pc
		p.whales = rec.whales
	}

	for _, cap := range m.Captured {
		p.board[cap.Square] = &Piece{Color: cap.Color, Kind: cap.Kind, Role: cap.Role}
	}

	p.turn = rec.turn
	p.epSquare = rec.epSquare
	p.halfmove = rec.halfmove
	p.fullmove = rec.fullmove
	p.coral = rec.coral
	p.coralLeft = rec.coralLeft
	return nil
}

// MakeMove validates m against the current legal move set and applies it.
// The promotion field of a matching crab move may be overridden by the
// request; an unmatched move leaves the position untouched.
func (p *Position) MakeMove(m Move) (Move, error) {
	if p.corrupted {
		return Move{}, ErrCorrupted
	}
	legal := p.LegalMoves()
	for _, cand := range legal {
		if cand.From != m.From || cand.To != m.To {
			continue
		}
		if cand.Promotion != KindNone && m.Promotion != KindNone && cand.Promotion != m.Promotion {
			continue
		}
		san := p.san(cand, legal)
		if err := p.apply(cand); err != nil {
			return Move{}, err
		}
		p.sanHistory = append(p.sanHistory, san)
		return cand, nil
	}
	return Move{}, fmt.Errorf("%w: %s to %s", ErrInvalidMove, m.From, m.To)
}

// MakeMoveText parses move text (SAN-like, permissive fallback, or
// coordinate pairs) and applies the matching legal move.
func (p *Position) MakeMoveText(text string) (Move, error) {
	if p.corrupted {
		return Move{}, ErrCorrupted
	}
	legal := p.LegalMoves()
	m, err := p.parseMoveText(text, legal)
	if err != nil {
		return Move{}, err
	}
	san := p.san(m, legal)
	if err := p.apply(m); err != nil {
		return Move{}, err
	}
	p.sanHistory = append(p.sanHistory, san)
	return m, nil
}

// Undo reverses the last move made through MakeMove or MakeMoveText.
func (p *Position) Undo() error {
	if err := p.revert(); err != nil {
		return err
	}
	if n := len(p.sanHistory); n > 0 {
		p.sanHistory = p.sanHistory[:n-1]
	}
	return nil
}

// History returns the applied moves, oldest first.
func (p *Position) History() []Move {
	out := make([]Move, len(p.history))
	for i, rec := range p.history {
		out[i] = rec.move
	}
	return out
}

// SANHistory returns the move texts of the game so far.
func (p *Position) SANHistory() []string {
	return append([]string(nil), p.sanHistory...)
}
