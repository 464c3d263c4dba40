package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound           = errors.New("competition not found")
	ErrInvalidCompetition = errors.New("invalid competition")
	ErrUnknownEvent       = errors.New("unknown event")
	ErrNotRegistered      = errors.New("athlete not registered")
)
