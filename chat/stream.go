package chat

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kbukum/wispchat/httpclient"
	"github.com/kbukum/wispchat/httpclient/sse"
)

// doneSentinel terminates the event stream.
const doneSentinel = "[DONE]"

// Stream is a single-pass pull iterator over completion chunks. Next
// returns chunks in arrival order and io.EOF when the server signals the
// end of the stream. A failure after the first chunk is terminal; the
// stream is never re-established mid-output.
type Stream struct {
	events sse.Reader
	resp   *httpclient.StreamResponse
	err    error
	closed bool
}

func newStream(resp *httpclient.StreamResponse) *Stream {
	events := resp.SSE
	if events == nil {
		events = sse.NewReader(resp.Body)
	}
	return &Stream{events: events, resp: resp}
}

// Next returns the next chunk. It returns io.EOF when the stream is
// exhausted; any other error is terminal and repeats on subsequent calls.
func (s *Stream) Next() (*Chunk, error) {
	if s.closed {
		return nil, ErrStreamClosed
	}
	if s.err != nil {
		return nil, s.err
	}

	event, err := s.events.Next()
	if err != nil {
		if err == io.EOF {
			s.err = io.EOF
		} else {
			s.err = fmt.Errorf("chat: stream interrupted: %w", err)
		}
		return nil, s.err
	}

	if event.Data == doneSentinel {
		s.err = io.EOF
		return nil, s.err
	}

	var chunk Chunk
	if err := json.Unmarshal([]byte(event.Data), &chunk); err != nil {
		s.err = &SchemaError{Err: err}
		return nil, s.err
	}

	return &chunk, nil
}

// Close releases the underlying connection. Safe to call more than once.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.resp.Close()
}
