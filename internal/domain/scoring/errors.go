package scoring

import "errors"

// Scoring errors.
var (
	ErrInvalidTime = errors.New("invalid time value")
	ErrCanceled    = errors.New("scoring canceled")
)
