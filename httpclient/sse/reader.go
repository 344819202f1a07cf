// Package sse decodes Server-Sent Events streams as chat-completion APIs
// emit them: a sequence of data-only events, one JSON chunk per event,
// separated by blank lines.
package sse

import (
	"bufio"
	"io"
	"strings"
)

// Event is one decoded server-sent event.
type Event struct {
	// Event is the event type. Completion streams leave it empty.
	Event string
	// Data is the payload. Multi-line data is joined with newlines.
	Data string
	// ID is the event ID, when the server sends one.
	ID string
}

// Reader pulls events off a live stream one at a time. The stream is
// single-pass.
type Reader interface {
	// Next returns the next event, or io.EOF when the stream ends.
	Next() (*Event, error)
	// Close releases the underlying connection.
	Close() error
}

type reader struct {
	buf  *bufio.Reader
	body io.ReadCloser
}

// NewReader decodes events from body. Close closes body.
func NewReader(body io.ReadCloser) Reader {
	return &reader{
		buf:  bufio.NewReader(body),
		body: body,
	}
}

// Next accumulates field lines until the blank line that ends an event.
// Comment lines are skipped; CRLF line endings and a final event without
// a trailing blank line are accepted.
func (r *reader) Next() (*Event, error) {
	var (
		event Event
		data  []string
	)

	for {
		raw, err := r.buf.ReadString('\n')
		line := strings.TrimRight(raw, "\r\n")

		switch {
		case line == "":
			// A read newline with no content ends the event.
			if raw != "" && len(data) > 0 {
				event.Data = strings.Join(data, "\n")
				return &event, nil
			}
		case strings.HasPrefix(line, ":"):
			// keep-alive comment
		default:
			field, value, _ := strings.Cut(line, ":")
			value = strings.TrimPrefix(value, " ")
			switch field {
			case "data":
				data = append(data, value)
			case "event":
				event.Event = value
			case "id":
				event.ID = value
			}
		}

		if err != nil {
			if err == io.EOF {
				if len(data) > 0 {
					event.Data = strings.Join(data, "\n")
					return &event, nil
				}
				return nil, io.EOF
			}
			return nil, err
		}
	}
}

// Close releases the underlying stream.
func (r *reader) Close() error {
	return r.body.Close()
}
