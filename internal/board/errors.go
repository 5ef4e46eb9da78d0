package board

import "errors"

// Sentinel errors for malformed input. Check with errors.Is; the returned
// errors wrap these with the offending text.
var (
	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN")

	// ErrInvalidSquare indicates malformed algebraic square text.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrInvalidMove indicates UCI move text that cannot be mapped onto the position.
	ErrInvalidMove = errors.New("invalid move")
)
