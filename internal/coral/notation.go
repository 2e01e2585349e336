package coral

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Position strings are FEN-shaped: six whitespace-separated fields, ranks
// top-first with digit runs for empty squares. A whale is written only at
// its first (lower-index) square; the derived second square counts as empty
// and defaults one file to the right on load. The third field is accepted
// for structural compatibility and ignored.

var kindFromLetter = map[rune]Kind{
	'c': Crab,
	't': Turtle,
	'o': Octopus,
	'p': Pufferfish,
	'd': Dolphin,
	'w': Whale,
}

func letterFromKind(k Kind) rune {
	switch k {
	case Crab:
		return 'c'
	case Turtle:
		return 't'
	case Octopus:
		return 'o'
	case Pufferfish:
		return 'p'
	case Dolphin:
		return 'd'
	case Whale:
		return 'w'
	}
	return '?'
}

// StartFEN is the standard starting position.
const StartFEN = "topw1dot/cccccccc/8/8/8/8/CCCCCCCC/TOPW1DOT w - - 0 1"

// Load parses a six-field position string. Validation is complete before any
// state is built, so a malformed string never yields a partial load. Roles
// are resolved from the fixed setup table; coral is not expressible here and
// is overlaid by fixtures.
func Load(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return nil, fmt.Errorf("%w: expected 6 fields, got %d", ErrInvalidNotation, len(fields))
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != BoardRanks {
		return nil, fmt.Errorf("%w: expected %d ranks, got %d", ErrInvalidNotation, BoardRanks, len(ranks))
	}
	var grid [NumSquares]rune
	whaleSeen := map[Color]int{}
	for i, rankStr := range ranks {
		rank := BoardRanks - 1 - i
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			kind, ok := kindFromLetter[unicode.ToLower(ch)]
			if !ok {
				return nil, fmt.Errorf("%w: piece character %q", ErrInvalidNotation, ch)
			}
			if file >= BoardFiles {
				return nil, fmt.Errorf("%w: rank %d overflows", ErrInvalidNotation, rank+1)
			}
			sq := squareAt(file, rank)
			grid[sq] = ch
			color := Black
			if unicode.IsUpper(ch) {
				color = White
			}
			if kind == Whale {
				whaleSeen[color]++
			}
			if kind == Crab && (rank == 0 || rank == BoardRanks-1) {
				return nil, fmt.Errorf("%w: crab on back rank at %s", ErrInvalidNotation, sq)
			}
			file++
		}
		if file != BoardFiles {
			return nil, fmt.Errorf("%w: rank %d sums to %d squares", ErrInvalidNotation, rank+1, file)
		}
	}
	for _, c := range []Color{White, Black} {
		if whaleSeen[c] != 1 {
			return nil, fmt.Errorf("%w: %s has %d whale markers, want exactly 1", ErrInvalidNotation, c, whaleSeen[c])
		}
	}
	for sq := Square(0); sq < NumSquares; sq++ {
		ch := grid[sq]
		if ch == 0 || kindFromLetter[unicode.ToLower(ch)] != Whale {
			continue
		}
		second := sq.offset(1, 0)
		if second == NoSquare {
			return nil, fmt.Errorf("%w: whale at %s has no square to its right", ErrInvalidNotation, sq)
		}
		if grid[second] != 0 {
			return nil, fmt.Errorf("%w: whale second square %s occupied", ErrInvalidNotation, second)
		}
	}

	if fields[1] != "w" && fields[1] != "b" {
		return nil, fmt.Errorf("%w: side field %q", ErrInvalidNotation, fields[1])
	}
	ep := NoSquare
	if fields[3] != "-" {
		var ok bool
		ep, ok = ParseSquare(fields[3])
		if !ok {
			return nil, fmt.Errorf("%w: en-passant field %q", ErrInvalidNotation, fields[3])
		}
	}
	halfmove, err := strconv.Atoi(fields[4])
	if err != nil || halfmove < 0 {
		return nil, fmt.Errorf("%w: half-move field %q", ErrInvalidNotation, fields[4])
	}
	fullmove, err := strconv.Atoi(fields[5])
	if err != nil || fullmove < 1 {
		return nil, fmt.Errorf("%w: full-move field %q", ErrInvalidNotation, fields[5])
	}

	p := emptyPosition()
	for sq := Square(0); sq < NumSquares; sq++ {
		ch := grid[sq]
		if ch == 0 {
			continue
		}
		kind := kindFromLetter[unicode.ToLower(ch)]
		color := Black
		if unicode.IsUpper(ch) {
			color = White
		}
		if err := p.Put(&Piece{Color: color, Kind: kind, Role: setupRole(kind, sq)}, sq); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidNotation, err)
		}
	}
	if fields[1] == "b" {
		p.turn = Black
	}
	p.epSquare = ep
	p.halfmove = halfmove
	p.fullmove = fullmove
	p.repetition[p.repetitionKey()] = 1
	return p, nil
}

// fenPlacement renders the board field, whales at their first square only.
func (p *Position) fenPlacement() string {
	var sb strings.Builder
	for rank := BoardRanks - 1; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < BoardFiles; file++ {
			pc := p.board[squareAt(file, rank)]
			if pc == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			ch := letterFromKind(pc.Kind)
			if pc.Color == White {
				ch = unicode.ToUpper(ch)
			}
			sb.WriteRune(ch)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// FEN renders the position. The en-passant field is emitted only when an
// en-passant capture is currently legal, which costs a simulate/revert round
// trip through the move generator.
func (p *Position) FEN() string {
	side := "w"
	if p.turn == Black {
		side = "b"
	}
	ep := "-"
	if p.epSquare != NoSquare {
		for _, m := range p.LegalMoves() {
			if m.EnPassant {
				ep = p.epSquare.String()
				break
			}
		}
	}
	return fmt.Sprintf("%s %s - %s %d %d", p.fenPlacement(), side, ep, p.halfmove, p.fullmove)
}

// repetitionKey is the trimmed position identity: placement, side, en
// passant, plus both whale pairs, which the placement field alone cannot
// distinguish. Clocks are excluded.
func (p *Position) repetitionKey() string {
	side := "w"
	if p.turn == Black {
		side = "b"
	}
	return fmt.Sprintf("%s %s %s %s%s %s%s",
		p.fenPlacement(), side, p.epSquare,
		p.whales[White].First, p.whales[White].Second,
		p.whales[Black].First, p.whales[Black].Second)
}

func sanKindLetter(k Kind) string {
	switch k {
	case Crab:
		return ""
	case Turtle:
		return "T"
	case Octopus:
		return "O"
	case Pufferfish:
		return "P"
	case Dolphin:
		return "D"
	case Whale:
		return "W"
	}
	return "?"
}

// LegalMoveTexts renders the current legal move set as compact move text,
// in generation order.
func (p *Position) LegalMoveTexts() []string {
	legal := p.LegalMoves()
	out := make([]string, len(legal))
	for i, m := range legal {
		out[i] = p.san(m, legal)
	}
	return out
}

// SAN renders move text for a move that is legal in the current position.
func (p *Position) SAN(m Move) string {
	return p.san(m, p.LegalMoves())
}

func (p *Position) san(m Move, legal []Move) string {
	var sb strings.Builder
	switch m.Kind {
	case Crab:
		// Crabs step sideways too, so the chess pawn convention of a bare
		// destination can collide; ambiguous crab moves carry their origin.
		if p.crabAmbiguous(m, legal) {
			sb.WriteString(m.From.String())
		} else if m.IsCapture() {
			sb.WriteByte(byte('a' + m.From.File()))
		}
		if m.IsCapture() {
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())
		if m.Promotion != KindNone {
			sb.WriteByte('=')
			sb.WriteString(sanKindLetter(m.Promotion))
		}
	case Whale:
		// Both halves can often reach the same square, so whale moves
		// always carry their origin square.
		sb.WriteString("W")
		sb.WriteString(m.From.String())
		if m.IsCapture() {
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())
	default:
		sb.WriteString(sanKindLetter(m.Kind))
		sb.WriteString(p.disambiguation(m, legal))
		if m.IsCapture() {
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())
	}
	sb.WriteString(p.checkSuffix(m))
	return sb.String()
}

// crabAmbiguous reports another crab move reaching the same destination, for
// captures only when the file prefix alone would still collide.
func (p *Position) crabAmbiguous(m Move, legal []Move) bool {
	for _, o := range legal {
		if o.Kind != Crab || o.To != m.To || o.From == m.From {
			continue
		}
		if o.Promotion != m.Promotion {
			continue
		}
		if m.IsCapture() && o.From.File() != m.From.File() {
			continue
		}
		return true
	}
	return false
}

// disambiguation picks file, rank, or full square, in that order, when other
// same-kind pieces can reach the same destination.
func (p *Position) disambiguation(m Move, legal []Move) string {
	sameFile, sameRank, others := false, false, false
	for _, o := range legal {
		if o.Kind != m.Kind || o.To != m.To || o.From == m.From {
			continue
		}
		others = true
		if o.From.File() == m.From.File() {
			sameFile = true
		}
		if o.From.Rank() == m.From.Rank() {
			sameRank = true
		}
	}
	switch {
	case !others:
		return ""
	case !sameFile:
		return string(byte('a' + m.From.File()))
	case !sameRank:
		return strconv.Itoa(m.From.Rank() + 1)
	}
	return m.From.String()
}

// checkSuffix simulates the move to classify check and mate. The revert is
// deferred so the probe can never strand a half-applied position.
func (p *Position) checkSuffix(m Move) string {
	if capturesWhale(m) {
		return ""
	}
	if err := p.apply(m); err != nil {
		return ""
	}
	defer func() { _ = p.revert() }()
	if !p.InCheck() {
		return ""
	}
	if !p.HasLegalMove() {
		return "#"
	}
	return "+"
}

var permissiveMovePattern = regexp.MustCompile(`^([CTOPDW]?)([a-h]?)([1-8]?)(x?)([a-h][1-8])(?:=([TOPD]))?[+#]?$`)

var coordMovePattern = regexp.MustCompile(`^([a-h][1-8])[-x]?([a-h][1-8])(?:=?([TOPDtopd]))?$`)

// parseMoveText matches text against the legal move set: exact SAN first,
// then a permissive pattern, then bare coordinates.
func (p *Position) parseMoveText(text string, legal []Move) (Move, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Move{}, fmt.Errorf("%w: empty move text", ErrInvalidMove)
	}
	stripped := strings.TrimRight(trimmed, "+#")

	for _, m := range legal {
		san := p.san(m, legal)
		if san == trimmed || strings.TrimRight(san, "+#") == stripped {
			return m, nil
		}
	}

	if g := permissiveMovePattern.FindStringSubmatch(stripped); g != nil {
		kind := kindFromSANLetter(g[1])
		if g[1] == "" {
			kind = Crab
		}
		to, _ := ParseSquare(g[5])
		promo := kindFromSANLetter(g[6])
		var matches []Move
		for _, m := range legal {
			if m.To != to || m.Kind != kind {
				continue
			}
			if g[2] != "" && m.From.File() != int(g[2][0]-'a') {
				continue
			}
			if g[3] != "" && m.From.Rank() != int(g[3][0]-'1') {
				continue
			}
			if promo != KindNone && m.Promotion != promo {
				continue
			}
			if promo == KindNone && m.Promotion != KindNone && m.Promotion != Dolphin {
				continue
			}
			matches = append(matches, m)
		}
		if len(matches) == 1 {
			return matches[0], nil
		}
		if len(matches) > 1 {
			return Move{}, fmt.Errorf("%w: ambiguous move text %q", ErrInvalidMove, text)
		}
	}

	if g := coordMovePattern.FindStringSubmatch(stripped); g != nil {
		from, _ := ParseSquare(g[1])
		to, _ := ParseSquare(g[2])
		promo := kindFromSANLetter(strings.ToUpper(g[3]))
		for _, m := range legal {
			if !p.moveOriginCovers(m, from) || m.To != to {
				continue
			}
			if promo != KindNone && m.Promotion != promo {
				continue
			}
			if promo == KindNone && m.Promotion != KindNone && m.Promotion != Dolphin {
				continue
			}
			return m, nil
		}
	}

	return Move{}, fmt.Errorf("%w: %q matches no legal move", ErrInvalidMove, text)
}

func kindFromSANLetter(s string) Kind {
	switch s {
	case "C":
		return Crab
	case "T":
		return Turtle
	case "O":
		return Octopus
	case "P":
		return Pufferfish
	case "D":
		return Dolphin
	case "W":
		return Whale
	}
	return KindNone
}
