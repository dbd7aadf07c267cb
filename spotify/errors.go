package spotify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

var (
	// Transport and authentication errors
	ErrTransport                = fmt.Errorf("transport error")
	ErrRefreshFailed            = fmt.Errorf("token refresh failed")
	ErrReauthenticationRequired = fmt.Errorf("reauthentication required")
	ErrMissingCredentials       = fmt.Errorf("missing credentials")

	// Response errors
	ErrDecode      = fmt.Errorf("failed to decode response")
	ErrBadRequest  = fmt.Errorf("bad request")
	ErrForbidden   = fmt.Errorf("forbidden")
	ErrNotFound    = fmt.Errorf("not found")
	ErrRateLimited = fmt.Errorf("rate limited")
	ErrServerError = fmt.Errorf("server error")

	// Input validation errors
	ErrInvalidInput = fmt.Errorf("invalid input")
)

// StatusError is returned by [Dispatcher.Send] for any response outside the success family that
// could not be recovered by refreshing the access token.
//
// Use [errors.As] to read the status code and body, or [errors.Is] with [ErrNotFound], [ErrForbidden],
// [ErrBadRequest], [ErrRateLimited] and [ErrServerError] to branch on the class of failure.
type StatusError struct {
	StatusCode int
	Body       []byte
	Message    string        // error.message from the provider payload, when present
	RetryAfter time.Duration // parsed Retry-After header on 429 responses
}

type errorPayload struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func newStatusError(statusCode int, header http.Header, body []byte) *StatusError {
	e := &StatusError{StatusCode: statusCode, Body: body}

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err == nil {
		e.Message = payload.Error.Message
	}

	if header != nil {
		if secs, err := strconv.Atoi(header.Get("Retry-After")); err == nil && secs > 0 {
			e.RetryAfter = time.Duration(secs) * time.Second
		}
	}

	return e
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("spotify API error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("spotify API error: status %d", e.StatusCode)
}

// Is reports whether the status code belongs to the class named by target.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.StatusCode == http.StatusBadRequest
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrServerError:
		return e.StatusCode >= 500
	}
	return false
}
