package api

import (
	"errors"

	"github.com/okian/wodboard/internal/domain/types"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

type errorResponse = types.ErrorResponse
