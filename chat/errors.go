package chat

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrNoMessages rejects a call with an empty message list. Never retried.
	ErrNoMessages = errors.New("chat: messages must not be empty")
	// ErrEmptyResponse is returned by response accessors when the API
	// produced no choices.
	ErrEmptyResponse = errors.New("chat: response has no choices")
	// ErrStreamClosed is returned by Stream.Next after Close.
	ErrStreamClosed = errors.New("chat: stream is closed")
)

// SchemaError reports a response payload that does not parse as the
// expected completion schema. It is fatal; the transport never retries it.
type SchemaError struct {
	Err error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("chat: response does not match completion schema: %v", e.Err)
}

// Unwrap returns the underlying parse error.
func (e *SchemaError) Unwrap() error { return e.Err }
