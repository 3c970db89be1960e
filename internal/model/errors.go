package model

import (
	"errors"
	"fmt"
)

// Error categories. Every specific error below wraps exactly one of these so
// callers can branch on the category with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

var (
	// Player errors
	ErrPlayerNotFound  = fmt.Errorf("%w: player not found", ErrNotFound)
	ErrInvalidUsername = fmt.Errorf("%w: username must be 1-%d characters", ErrValidation, MaxUsernameLength)
	ErrInvalidTeam     = fmt.Errorf("%w: unknown team", ErrValidation)
	ErrUsernameTaken   = fmt.Errorf("%w: username already exists", ErrConflict)

	// Hit errors
	ErrSelfHit = fmt.Errorf("%w: players cannot hit themselves", ErrValidation)

	// Stream errors
	ErrInvalidStreamEndpoint   = fmt.Errorf("%w: stream endpoint is required", ErrValidation)
	ErrInvalidTransportStatus  = fmt.Errorf("%w: unknown transport status", ErrValidation)
	ErrInvalidStreamTransition = fmt.Errorf("%w: invalid stream transition", ErrConflict)
	ErrStreamSlotNotFound      = fmt.Errorf("%w: stream slot not found", ErrNotFound)
)
