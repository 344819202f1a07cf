package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/kbukum/wispchat/httpclient"
)

func chunkData(content string) string {
	chunk := map[string]any{
		"id":      "chatcmpl-123",
		"object":  "chat.completion.chunk",
		"created": 1700000000,
		"model":   "gpt-3.5-turbo",
		"choices": []map[string]any{
			{"index": 0, "delta": map[string]any{"content": content}},
		},
	}
	data, _ := json.Marshal(chunk)
	return string(data)
}

func writeSSE(w http.ResponseWriter, data string) {
	fmt.Fprintf(w, "data: %s\n\n", data)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func collectStream(t *testing.T, stream *Stream) []string {
	t.Helper()
	var contents []string
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			return contents
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		contents = append(contents, chunk.First())
	}
}

func TestStreamYieldsChunksInOrder(t *testing.T) {
	var payload map[string]any
	srv := serveCompletion(t, func(w http.ResponseWriter, r *http.Request) {
		payload = decodePayload(t, r)
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(w, chunkData("Hel"))
		writeSSE(w, chunkData("lo"))
		writeSSE(w, chunkData("!"))
		writeSSE(w, "[DONE]")
	})

	c := newTestClient(t, Config{BaseURL: srv.URL})

	stream, err := c.Stream(context.Background(), []string{"hi"}, nil)
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	defer func() { _ = stream.Close() }()

	if payload["stream"] != true {
		t.Errorf("expected stream true in payload, got %v", payload["stream"])
	}

	contents := collectStream(t, stream)
	if len(contents) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %v", len(contents), contents)
	}
	if contents[0] != "Hel" || contents[1] != "lo" || contents[2] != "!" {
		t.Errorf("expected chunks in arrival order, got %v", contents)
	}
}

func TestStreamEOFAfterDone(t *testing.T) {
	srv := serveCompletion(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(w, chunkData("only"))
		writeSSE(w, "[DONE]")
	})

	c := newTestClient(t, Config{BaseURL: srv.URL})

	stream, err := c.Stream(context.Background(), []string{"hi"}, nil)
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	defer func() { _ = stream.Close() }()

	if _, err := stream.Next(); err != nil {
		t.Fatalf("expected first chunk, got %v", err)
	}
	if _, err := stream.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after done sentinel, got %v", err)
	}
	// EOF repeats on further calls.
	if _, err := stream.Next(); err != io.EOF {
		t.Errorf("expected io.EOF again, got %v", err)
	}
}

func TestStreamRetriesConnectionPhase(t *testing.T) {
	hits := 0
	srv := serveCompletion(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(w, chunkData("ok"))
		writeSSE(w, "[DONE]")
	})

	c := newTestClient(t, Config{BaseURL: srv.URL, Retry: fastRetry(3)})

	stream, err := c.Stream(context.Background(), []string{"hi"}, nil)
	if err != nil {
		t.Fatalf("expected stream to open after retry, got %v", err)
	}
	defer func() { _ = stream.Close() }()

	if hits != 2 {
		t.Errorf("expected 2 attempts, got %d", hits)
	}
	contents := collectStream(t, stream)
	if len(contents) != 1 || contents[0] != "ok" {
		t.Errorf("expected single ok chunk, got %v", contents)
	}
}

func TestStreamNoRetryAfterFirstChunk(t *testing.T) {
	hits := 0
	srv := serveCompletion(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(w, chunkData("partial"))
		panic(http.ErrAbortHandler)
	})

	c := newTestClient(t, Config{BaseURL: srv.URL, Retry: fastRetry(3)})

	stream, err := c.Stream(context.Background(), []string{"hi"}, nil)
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	defer func() { _ = stream.Close() }()

	chunk, err := stream.Next()
	if err != nil {
		t.Fatalf("expected first chunk, got %v", err)
	}
	if chunk.First() != "partial" {
		t.Errorf("expected partial chunk, got %q", chunk.First())
	}

	_, err = stream.Next()
	if err == nil || err == io.EOF {
		t.Fatalf("expected terminal error after interruption, got %v", err)
	}
	// Mid-stream failure must not re-send the request.
	if hits != 1 {
		t.Errorf("expected 1 attempt, got %d", hits)
	}

	// The error is sticky.
	if _, err2 := stream.Next(); err2 != err {
		t.Errorf("expected terminal error to repeat, got %v", err2)
	}
}

func TestStreamFunctionCallDeltas(t *testing.T) {
	deltas := []string{
		`{"choices":[{"index":0,"delta":{"role":"assistant","function_call":{"name":"get_weather","arguments":""}}}]}`,
		`{"choices":[{"index":0,"delta":{"function_call":{"arguments":"{\"city\":"}}}]}`,
		`{"choices":[{"index":0,"delta":{"function_call":{"arguments":"\"Oslo\"}"}},"finish_reason":"function_call"}]}`,
	}
	srv := serveCompletion(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, d := range deltas {
			writeSSE(w, d)
		}
		writeSSE(w, "[DONE]")
	})

	c := newTestClient(t, Config{BaseURL: srv.URL})

	stream, err := c.Stream(context.Background(), []string{"weather in oslo?"}, nil)
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	defer func() { _ = stream.Close() }()

	var name, args string
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if fc := chunk.Choices[0].Delta.FunctionCall; fc != nil {
			if fc.Name != "" {
				name = fc.Name
			}
			args += fc.Arguments
		}
	}

	if name != "get_weather" {
		t.Errorf("expected function name from deltas, got %q", name)
	}
	if args != `{"city":"Oslo"}` {
		t.Errorf("expected assembled arguments, got %q", args)
	}
}

func TestStreamFailsBeforeStreaming(t *testing.T) {
	srv := serveCompletion(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	c := newTestClient(t, Config{BaseURL: srv.URL})

	_, err := c.Stream(context.Background(), []string{"hi"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !httpclient.IsRateLimit(err) {
		t.Errorf("expected rate limit error, got %v", err)
	}
}

func TestStreamSchemaError(t *testing.T) {
	srv := serveCompletion(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(w, "not json")
	})

	c := newTestClient(t, Config{BaseURL: srv.URL})

	stream, err := c.Stream(context.Background(), []string{"hi"}, nil)
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	defer func() { _ = stream.Close() }()

	_, err = stream.Next()
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestStreamNextAfterClose(t *testing.T) {
	srv := serveCompletion(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(w, chunkData("x"))
		writeSSE(w, "[DONE]")
	})

	c := newTestClient(t, Config{BaseURL: srv.URL})

	stream, err := c.Stream(context.Background(), []string{"hi"}, nil)
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	if err := stream.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	if _, err := stream.Next(); !errors.Is(err, ErrStreamClosed) {
		t.Errorf("expected ErrStreamClosed, got %v", err)
	}
}

func TestStreamEmptyMessages(t *testing.T) {
	c := newTestClient(t, Config{BaseURL: "http://127.0.0.1:1"})

	if _, err := c.Stream(context.Background(), nil, nil); !errors.Is(err, ErrNoMessages) {
		t.Errorf("expected ErrNoMessages, got %v", err)
	}
}
