package coral

import "errors"

var (
	ErrInvalidNotation = errors.New("invalid notation")
	ErrInvalidMove     = errors.New("invalid move")
	ErrInvalidSquare   = errors.New("invalid square")
	ErrInvalidPiece    = errors.New("invalid piece")
	ErrCoralExhausted  = errors.New("no coral remaining")
	ErrCoralOccupied   = errors.New("square already has coral")
	ErrNothingToUndo   = errors.New("nothing to undo")

	// ErrCorrupted is returned by every mutating operation after an
	// internal invariant violation. The position cannot be repaired.
	ErrCorrupted = errors.New("position corrupted by invariant violation")
)
