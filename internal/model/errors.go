package model

import "errors"

var (
	// ErrInvalidInput indicates a non-positive roll length, piece length or
	// quantity, or an empty order list when power sizing was requested.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPieceExceedsRoll indicates an ordered piece longer than the stock roll.
	ErrPieceExceedsRoll = errors.New("piece exceeds roll length")

	// ErrInvalidConfiguration indicates a non-positive power rate or an empty or
	// malformed supply catalog.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ErrorKind returns a short machine-readable name for one of the terminal
// errors above, or "internal" for anything else.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrPieceExceedsRoll):
		return "piece_exceeds_roll"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrInvalidConfiguration):
		return "invalid_configuration"
	default:
		return "internal"
	}
}
