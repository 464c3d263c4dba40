package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrBackpressure  = errors.New("submission queue is full")
	ErrNotStarted    = errors.New("service not started")
	ErrNotPositional = errors.New("algorithm has no fixed points per place")
)
