package types

import "errors"

var (
	// ErrInvalidInput marks malformed or out-of-range input: empty history,
	// non-finite bar values, empty headlines, invalid risk parameters.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDataUnavailable marks an upstream fetch that returned nothing.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrComputationDegenerate marks division-by-zero prone inputs such as a
	// zero SMA50 or a stop-loss equal to the entry price.
	ErrComputationDegenerate = errors.New("computation degenerate")
	// ErrModelAbsent is returned by a model store that holds no trained model.
	ErrModelAbsent = errors.New("model absent")
)
