package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidURL     = errors.New("invalid URL")
	ErrEmptyResponse  = errors.New("empty response")
	ErrLineTooLong    = errors.New("response line too long")
	ErrNoShareTarget  = errors.New("no share target available")
	ErrTaskAlreadyRun = errors.New("worker task already run")
	ErrNotShared      = errors.New("nothing was shared")
	ErrConfigInvalid  = errors.New("invalid configuration")
	ErrUnexpectedKind = errors.New("unexpected message kind")
)

// NetworkError is returned by the shortening client for transport and
// protocol failures. StatusCode is zero when no response was received.
type NetworkError struct {
	StatusCode int
	Msg        string
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "network error"
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// UnexpectedStatus builds the error for a non-200 response.
func UnexpectedStatus(code int) *NetworkError {
	return &NetworkError{
		StatusCode: code,
		Msg:        fmt.Sprintf("unexpected response: %d", code),
	}
}
