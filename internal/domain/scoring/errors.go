package scoring

import "errors"

// Sentinel kinds for scoring configuration errors.
var (
	ErrUnknownAlgorithm      = errors.New("unknown scoring algorithm")
	ErrUnknownStatusHandling = errors.New("unknown status handling")
	ErrInvalidBaseTemplate   = errors.New("invalid custom base template")
	ErrUnknownMedianField    = errors.New("unknown median field")
	ErrUnknownScheme         = errors.New("unknown scheme")
)
