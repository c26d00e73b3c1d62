package protocol

import (
	"errors"
	"fmt"

	"github.com/lox/klondike/internal/klondike"
	"github.com/lox/klondike/internal/session"
)

// ErrInvalidArgument is wrapped by every decoding failure. The message names
// the offending field path.
var ErrInvalidArgument = errors.New("invalid argument")

func invalidArgument(path, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidArgument, path, fmt.Sprintf(format, args...))
}

// Error codes carried by ErrorData
const (
	CodeInvalidMove     = "invalid_move"
	CodeNotFound        = "not_found"
	CodeInvalidArgument = "invalid_argument"
	CodeUnavailable     = "unavailable"
	CodeInternal        = "internal"
)

// ErrorData is the payload of an error message. Reason is set for rejected
// moves.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// NewErrorData classifies err into a wire error
func NewErrorData(err error) ErrorData {
	var moveErr *klondike.MoveError
	switch {
	case errors.As(err, &moveErr):
		return ErrorData{Code: CodeInvalidMove, Message: err.Error(), Reason: moveErr.Reason}
	case errors.Is(err, session.ErrNotFound):
		return ErrorData{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, ErrInvalidArgument):
		return ErrorData{Code: CodeInvalidArgument, Message: err.Error()}
	case errors.Is(err, session.ErrTooManyGames):
		return ErrorData{Code: CodeUnavailable, Message: err.Error()}
	}
	return ErrorData{Code: CodeInternal, Message: err.Error()}
}

// RemoteError is an error reported by the server
type RemoteError struct {
	Code    string
	Message string
	Reason  string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("server error (%s): %s", e.Code, e.Message)
}

// Unwrap maps the code back onto the sentinel it was produced from, so
// callers can use errors.Is across the wire.
func (e *RemoteError) Unwrap() error {
	switch e.Code {
	case CodeInvalidMove:
		return klondike.ErrInvalidMove
	case CodeNotFound:
		return session.ErrNotFound
	case CodeInvalidArgument:
		return ErrInvalidArgument
	case CodeUnavailable:
		return session.ErrTooManyGames
	}
	return nil
}

// Err converts the payload into a *RemoteError
func (d ErrorData) Err() error {
	return &RemoteError{Code: d.Code, Message: d.Message, Reason: d.Reason}
}
