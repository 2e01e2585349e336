package coral

// The whale is a single logical piece on two orthogonally adjacent squares.
// Every move family below emits only pairs that satisfy the adjacency
// predicate; nothing is post-filtered, so a generated whale move can never
// leave the halves diagonal or separated.

// whaleMoves produces the pseudo-legal moves for a color's whale: single-half
// slides, parallel slides, and rotations. Slides that reach an enemy piece
// end there as captures. Duplicate transitions across families are deduped.
func (p *Position) whaleMoves(c Color) []Move {
	wp := p.whales[c]
	if !wp.valid() {
		return nil
	}
	pc := p.board[wp.First]
	if pc == nil {
		return nil
	}

	var moves []Move
	add := func(m Move) {
		for _, prev := range moves {
			if prev.sameTransition(m) {
				return
			}
		}
		moves = append(moves, m)
	}

	halves := [2]Square{wp.First, wp.Second}
	for i, mover := range halves {
		fixed := halves[1-i]
		p.whaleSingleHalfSlides(pc, wp, mover, fixed, add)
		p.whaleRotations(pc, wp, mover, fixed, add)
	}
	p.whaleParallelSlides(pc, wp, add)
	return moves
}

// whaleSingleHalfSlides slides one half along its orthogonal rays while the
// other stays put. The loop is bounded only by the adjacency check: every
// candidate square, intermediate or final, must remain orthogonally adjacent
// to the fixed half, which confines reach to the fixed half's immediate
// neighborhood without a hard-coded distance cap.
func (p *Position) whaleSingleHalfSlides(pc *Piece, wp WhalePair, mover, fixed Square, add func(Move)) {
	for _, dir := range orthogonalDirs {
		for sq := mover.offset(dir.df, dir.dr); sq != NoSquare; sq = sq.offset(dir.df, dir.dr) {
			if sq == fixed || !sq.adjacent(fixed) {
				break
			}
			occupant := p.Get(sq)
			if occupant == pc {
				break
			}
			if occupant != nil && occupant.Color == pc.Color {
				break
			}
			m := Move{
				From: mover, To: sq, Kind: Whale, Color: pc.Color,
				WhaleFrom: wp, WhaleTo: canonicalPair(fixed, sq),
			}
			if occupant != nil {
				m.Captured = append(m.Captured, Captured{
					Square: sq, Color: occupant.Color, Kind: occupant.Kind, Role: occupant.Role,
				})
				add(m)
				break
			}
			add(m)
		}
	}
}

// whaleRotations move one half onto an orthogonal neighbor of the other,
// stationary half, switching the whale between horizontal and vertical.
func (p *Position) whaleRotations(pc *Piece, wp WhalePair, mover, fixed Square, add func(Move)) {
	for _, dir := range orthogonalDirs {
		sq := fixed.offset(dir.df, dir.dr)
		if sq == NoSquare || sq == mover {
			continue
		}
		occupant := p.Get(sq)
		if occupant == pc {
			continue
		}
		if occupant != nil && occupant.Color == pc.Color {
			continue
		}
		m := Move{
			From: mover, To: sq, Kind: Whale, Color: pc.Color,
			WhaleFrom: wp, WhaleTo: canonicalPair(fixed, sq),
		}
		if occupant != nil {
			m.Captured = append(m.Captured, Captured{
				Square: sq, Color: occupant.Color, Kind: occupant.Kind, Role: occupant.Role,
			})
		}
		add(m)
	}
}

// whaleParallelSlides translate both halves together by the same orthogonal
// offset, any distance. A capture needs at least one destination square
// enemy-occupied and the other empty or enemy-occupied; captures end the
// slide in that direction, as does any friendly piece or the board edge.
func (p *Position) whaleParallelSlides(pc *Piece, wp WhalePair, add func(Move)) {
	for _, dir := range orthogonalDirs {
		curA, curB := wp.First, wp.Second
		for {
			nA := curA.offset(dir.df, dir.dr)
			nB := curB.offset(dir.df, dir.dr)
			if nA == NoSquare || nB == NoSquare {
				break
			}
			var caps []Captured
			blocked := false
			for _, sq := range []Square{nA, nB} {
				occupant := p.Get(sq)
				if occupant == nil || occupant == pc {
					continue
				}
				if occupant.Color == pc.Color {
					blocked = true
					break
				}
				caps = append(caps, Captured{
					Square: sq, Color: occupant.Color, Kind: occupant.Kind, Role: occupant.Role,
				})
			}
			if blocked {
				break
			}
			m := Move{
				From: wp.First, To: nA, Kind: Whale, Color: pc.Color,
				Captured: caps, WhaleFrom: wp, WhaleTo: canonicalPair(nA, nB),
			}
			add(m)
			if len(caps) > 0 {
				break
			}
			curA, curB = nA, nB
		}
	}
}

// whaleAttacked reports whether either square of a color's whale is attacked
// by the opponent.
func (p *Position) whaleAttacked(c Color) bool {
	wp := p.whales[c]
	if !wp.valid() {
		return false
	}
	by := c.Opposite()
	return p.squareAttacked(wp.First, by) || p.squareAttacked(wp.Second, by)
}
