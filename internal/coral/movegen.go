package coral

// Pseudo-legal generation per piece class, then a legality filter that
// simulates each candidate and keeps only moves that leave the mover's own
// whale unattacked. Crabs step orthogonally, turtles slide orthogonally
// (blocked by coral), octopuses step diagonally, pufferfish slide
// diagonally, dolphins slide all eight directions and pass coral freely.

var promotionKinds = []Kind{Dolphin, Turtle, Pufferfish, Octopus}

func (p *Position) pseudoMovesFor(sq Square, pc *Piece) []Move {
	switch pc.Kind {
	case Crab:
		return p.crabMoves(sq, pc)
	case Turtle:
		return p.slideMoves(sq, pc, orthogonalDirs, true)
	case Octopus:
		return p.stepMoves(sq, pc, diagonalDirs)
	case Pufferfish:
		return p.slideMoves(sq, pc, diagonalDirs, false)
	case Dolphin:
		return p.slideMoves(sq, pc, allDirs, false)
	case Whale:
		return p.whaleMoves(pc.Color)
	}
	return nil
}

func (p *Position) stepMoves(from Square, pc *Piece, dirs []direction) []Move {
	var moves []Move
	for _, dir := range dirs {
		to := from.offset(dir.df, dir.dr)
		if to == NoSquare {
			continue
		}
		occupant := p.Get(to)
		if occupant != nil && occupant.Color == pc.Color {
			continue
		}
		m := Move{From: from, To: to, Kind: pc.Kind, Color: pc.Color, Role: pc.Role}
		if occupant != nil {
			m.Captured = append(m.Captured, Captured{
				Square: to, Color: occupant.Color, Kind: occupant.Kind, Role: occupant.Role,
			})
		}
		moves = append(moves, m)
	}
	return moves
}

// slideMoves walks rays until the first occupied square, capturing an enemy
// there. coralBlocks marks the class that may neither enter nor pass coral.
func (p *Position) slideMoves(from Square, pc *Piece, dirs []direction, coralBlocks bool) []Move {
	var moves []Move
	for _, dir := range dirs {
		for to := from.offset(dir.df, dir.dr); to != NoSquare; to = to.offset(dir.df, dir.dr) {
			if coralBlocks && p.coral[to] != NoColor {
				break
			}
			occupant := p.Get(to)
			if occupant != nil && occupant.Color == pc.Color {
				break
			}
			m := Move{From: from, To: to, Kind: pc.Kind, Color: pc.Color, Role: pc.Role}
			if occupant != nil {
				m.Captured = append(m.Captured, Captured{
					Square: to, Color: occupant.Color, Kind: occupant.Kind, Role: occupant.Role,
				})
				moves = append(moves, m)
				break
			}
			moves = append(moves, m)
		}
	}
	return moves
}

// crabMoves are one-step orthogonal, with en-passant capture onto the target
// square and promotion-equivalent replacement on the opponent's back rank.
func (p *Position) crabMoves(from Square, pc *Piece) []Move {
	var moves []Move
	promoteRank := backRank(pc.Color.Opposite())
	for _, dir := range orthogonalDirs {
		to := from.offset(dir.df, dir.dr)
		if to == NoSquare {
			continue
		}
		occupant := p.Get(to)
		if occupant != nil && occupant.Color == pc.Color {
			continue
		}
		m := Move{From: from, To: to, Kind: Crab, Color: pc.Color, Role: pc.Role}
		switch {
		case occupant != nil:
			m.Captured = append(m.Captured, Captured{
				Square: to, Color: occupant.Color, Kind: occupant.Kind, Role: occupant.Role,
			})
		case to == p.epSquare:
			behind := to.offset(0, -forwardRankDir(pc.Color))
			if victim := p.Get(behind); victim != nil && victim.Color != pc.Color && victim.Kind == Crab {
				m.EnPassant = true
				m.Captured = append(m.Captured, Captured{
					Square: behind, Color: victim.Color, Kind: victim.Kind, Role: victim.Role,
				})
			}
		}
		if to.Rank() == promoteRank {
			for _, kind := range promotionKinds {
				pm := m
				pm.Captured = append([]Captured(nil), m.Captured...)
				pm.Promotion = kind
				moves = append(moves, pm)
			}
			continue
		}
		moves = append(moves, m)
	}
	return moves
}

// pseudoMoves enumerates every pseudo-legal move for a color in a fixed
// square-then-direction order, so generation is deterministic.
func (p *Position) pseudoMoves(c Color) []Move {
	var moves []Move
	p.pieceSquares(c, func(sq Square, pc *Piece) {
		moves = append(moves, p.pseudoMovesFor(sq, pc)...)
	})
	return moves
}

// squareAttacked reports whether any pseudo-legal move of the attacking
// color lands on target. Piece classes here capture exactly where they move,
// so reachability is attack.
func (p *Position) squareAttacked(target Square, by Color) bool {
	attacked := false
	p.pieceSquares(by, func(sq Square, pc *Piece) {
		if attacked {
			return
		}
		for _, m := range p.pseudoMovesFor(sq, pc) {
			if m.covers(target) {
				attacked = true
				return
			}
		}
	})
	return attacked
}

// capturesWhale reports a pseudo move that would remove a whale. Such a move
// can never be legal; it exists only so attack detection sees whale squares
// as reachable.
func capturesWhale(m Move) bool {
	for _, cap := range m.Captured {
		if cap.Kind == Whale {
			return true
		}
	}
	return false
}

// leavesWhaleExposed simulates m and reports whether the mover's own whale
// ends up attacked. The revert runs on the defer path so an error during
// evaluation can never leave the position half-mutated.
func (p *Position) leavesWhaleExposed(m Move) bool {
	if err := p.apply(m); err != nil {
		return true
	}
	defer func() { _ = p.revert() }()
	return p.whaleAttacked(m.Color)
}

// LegalMoves returns every legal move for the side to move.
func (p *Position) LegalMoves() []Move {
	return p.legalMovesFiltered(NoSquare, KindNone)
}

// LegalMovesFrom returns the legal moves of the piece on sq. For a whale,
// either of its squares selects the whole move set of that whale.
func (p *Position) LegalMovesFrom(sq Square) []Move {
	return p.legalMovesFiltered(sq, KindNone)
}

// LegalMovesOf returns the side to move's legal moves for one piece class.
func (p *Position) LegalMovesOf(kind Kind) []Move {
	return p.legalMovesFiltered(NoSquare, kind)
}

func (p *Position) legalMovesFiltered(from Square, kind Kind) []Move {
	if p.corrupted {
		return nil
	}
	var legal []Move
	for _, m := range p.pseudoMoves(p.turn) {
		if from != NoSquare && !p.moveOriginCovers(m, from) {
			continue
		}
		if kind != KindNone && m.Kind != kind {
			continue
		}
		if capturesWhale(m) {
			continue
		}
		if p.leavesWhaleExposed(m) {
			continue
		}
		legal = append(legal, m)
	}
	return legal
}

func (p *Position) moveOriginCovers(m Move, sq Square) bool {
	if m.Kind == Whale {
		return m.WhaleFrom.contains(sq)
	}
	return m.From == sq
}

// HasLegalMove reports whether the side to move has any legal move.
func (p *Position) HasLegalMove() bool {
	for _, m := range p.pseudoMoves(p.turn) {
		if capturesWhale(m) {
			continue
		}
		if !p.leavesWhaleExposed(m) {
			return true
		}
	}
	return false
}
