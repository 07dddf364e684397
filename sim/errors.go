package sim

import "errors"

var (
	// ErrInvalidQuantity means a caller tried to open a zero or negative
	// size lot. Fatal to that call only, never to the run.
	ErrInvalidQuantity = errors.New("sim: lot quantity must be positive")

	// ErrEmptyLedger means a close was requested with no open lot. The
	// simulation loop treats it as "nothing to exit".
	ErrEmptyLedger = errors.New("sim: no open lot")
)
