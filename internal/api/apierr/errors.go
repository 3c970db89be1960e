package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/lasertag/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest          = "INVALID_REQUEST"
	CodeInvalidUsername         = "INVALID_USERNAME"
	CodeInvalidTeam             = "INVALID_TEAM"
	CodeSelfHit                 = "SELF_HIT"
	CodeInvalidStreamURL        = "INVALID_STREAM_URL"
	CodeInvalidStatus           = "INVALID_STATUS"
	CodePlayerNotFound          = "PLAYER_NOT_FOUND"
	CodeNotFound                = "NOT_FOUND"
	CodeUsernameExists          = "USERNAME_EXISTS"
	CodeInvalidStreamTransition = "INVALID_STREAM_TRANSITION"
	CodeConflict                = "CONFLICT"
	CodeRateLimited             = "RATE_LIMITED"
	CodeInternalError           = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors, most specific first
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrInvalidUsername):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidUsername, "Username must be 1-100 characters"}}
	case errors.Is(err, model.ErrInvalidTeam):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidTeam, "Team must be yellow or green"}}
	case errors.Is(err, model.ErrSelfHit):
		return &httpError{http.StatusBadRequest, APIError{CodeSelfHit, "Players cannot hit themselves"}}
	case errors.Is(err, model.ErrInvalidStreamEndpoint):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidStreamURL, "stream_url is required"}}
	case errors.Is(err, model.ErrInvalidTransportStatus):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidStatus, "Unknown transport status"}}
	case errors.Is(err, model.ErrUsernameTaken):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}
	case errors.Is(err, model.ErrInvalidStreamTransition):
		return &httpError{http.StatusConflict, APIError{CodeInvalidStreamTransition, "Stream cannot make that transition from its current state"}}

	// Map error categories
	case errors.Is(err, model.ErrValidation):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Invalid request"}}
	case errors.Is(err, model.ErrNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Not found"}}
	case errors.Is(err, model.ErrConflict):
		return &httpError{http.StatusConflict, APIError{CodeConflict, "Conflict"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewRateLimitedError creates a too many requests error
func NewRateLimitedError() error {
	return &httpError{http.StatusTooManyRequests, APIError{CodeRateLimited, "Too many requests"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
