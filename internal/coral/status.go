package coral

// Terminal-state evaluation. All predicates are pure queries; the nested
// simulate/revert cycles inside LegalMoves leave no residue, so calling any
// of these repeatedly is stable.

// InCheck reports whether either square of the side-to-move's whale is
// attacked by the opponent.
func (p *Position) InCheck() bool {
	return p.whaleAttacked(p.turn)
}

// IsCheckmate: in check with no legal moves.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMove()
}

// IsStalemate: not in check with no legal moves.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMove()
}

// IsFiftyMoveRule reports 100 plies without a capture or crab move.
func (p *Position) IsFiftyMoveRule() bool {
	return p.halfmove >= 100
}

// IsThreefoldRepetition reports whether the current trimmed position key
// (placement, side, and en passant, with clocks excluded) has occurred
// three times.
func (p *Position) IsThreefoldRepetition() bool {
	return p.repetition[p.repetitionKey()] >= 3
}

// IsInsufficientMaterial covers whale vs whale, whale plus one minor (crab
// or octopus) vs whale, and whale plus octopuses against whale plus
// octopuses with every octopus on the same square color.
func (p *Position) IsInsufficientMaterial() bool {
	type extra struct {
		kind Kind
		dark bool
	}
	var white, black []extra
	for _, c := range []Color{White, Black} {
		p.pieceSquares(c, func(sq Square, pc *Piece) {
			if pc.Kind == Whale {
				return
			}
			e := extra{kind: pc.Kind, dark: (sq.File()+sq.Rank())%2 == 0}
			if c == White {
				white = append(white, e)
			} else {
				black = append(black, e)
			}
		})
	}
	if len(white) == 0 && len(black) == 0 {
		return true
	}
	isMinor := func(k Kind) bool { return k == Crab || k == Octopus }
	if len(white) == 0 && len(black) == 1 && isMinor(black[0].kind) {
		return true
	}
	if len(black) == 0 && len(white) == 1 && isMinor(white[0].kind) {
		return true
	}
	all := append(append([]extra{}, white...), black...)
	sameColorOctopuses := true
	for _, e := range all {
		if e.kind != Octopus || e.dark != all[0].dark {
			sameColorOctopuses = false
			break
		}
	}
	return sameColorOctopuses
}

// IsDraw: fifty-move rule, stalemate, insufficient material, or threefold
// repetition.
func (p *Position) IsDraw() bool {
	return p.IsFiftyMoveRule() || p.IsStalemate() || p.IsInsufficientMaterial() || p.IsThreefoldRepetition()
}

// coralVictoryTriggered holds when either player has exhausted their coral
// stock, either player is down to a lone whale, or any crab or octopus
// stands on the opponent's back rank.
func (p *Position) coralVictoryTriggered() bool {
	if p.coralLeft[White] == 0 || p.coralLeft[Black] == 0 {
		return true
	}
	for _, c := range []Color{White, Black} {
		counts := p.countPieces(c)
		delete(counts, Whale)
		if len(counts) == 0 && p.whales[c].valid() {
			return true
		}
	}
	triggered := false
	for _, c := range []Color{White, Black} {
		rank := backRank(c.Opposite())
		p.pieceSquares(c, func(sq Square, pc *Piece) {
			if (pc.Kind == Crab || pc.Kind == Octopus) && sq.Rank() == rank {
				triggered = true
			}
		})
	}
	return triggered
}

// coralControl counts a color's coral squares not currently occupied by an
// opponent piece.
func (p *Position) coralControl(c Color) int {
	n := 0
	for sq := Square(0); sq < NumSquares; sq++ {
		if p.coral[sq] != c {
			continue
		}
		if pc := p.Get(sq); pc != nil && pc.Color != c {
			continue
		}
		n++
	}
	return n
}

// CoralVictor returns the coral-victory winner once a trigger condition
// holds and one color controls strictly more coral than the other. Equal
// control yields no victory and play continues.
func (p *Position) CoralVictor() (Color, bool) {
	if !p.coralVictoryTriggered() {
		return NoColor, false
	}
	w, b := p.coralControl(White), p.coralControl(Black)
	switch {
	case w > b:
		return White, true
	case b > w:
		return Black, true
	}
	return NoColor, false
}

// IsCoralVictory reports whether the secondary win condition has resolved.
func (p *Position) IsCoralVictory() bool {
	_, ok := p.CoralVictor()
	return ok
}

// IsGameOver: checkmate, stalemate, draw, or a decided coral victory.
func (p *Position) IsGameOver() bool {
	return p.IsCheckmate() || p.IsStalemate() || p.IsDraw() || p.IsCoralVictory()
}
