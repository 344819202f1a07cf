package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/wispchat/httpclient"
	"github.com/kbukum/wispchat/logger"
	"github.com/kbukum/wispchat/resilience"
)

const completionsPath = "/v1/chat/completions"

// completionsPathFor resolves the request path for the configured API
// flavor. Azure addresses the deployment (the model) in the path and
// pins the api-version as a query parameter.
func completionsPathFor(cfg Config) string {
	if cfg.APIType == APITypeAzure {
		return fmt.Sprintf("/openai/deployments/%s/chat/completions?api-version=%s",
			url.PathEscape(cfg.Model), url.QueryEscape(cfg.APIVersion))
	}
	return completionsPath
}

// Client is a chat-completion client. It is safe for concurrent use; the
// prompt-override stack is the only mutable state and is shared by all
// goroutines using the client.
type Client struct {
	cfg     Config
	path    string
	http    *httpclient.Client
	prompts promptStack
	log     *logger.Logger
}

// New creates a client from cfg. Unset fields get defaults; the API key
// is required.
func New(cfg Config) (*Client, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	auth := httpclient.BearerAuth(cfg.APIKey)
	if cfg.APIType == APITypeAzure {
		auth = httpclient.APIKeyAuth(cfg.APIKey, "api-key")
	}

	hc, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    auth,
		Headers: cfg.Headers,
		Retry:   cfg.Retry,
	})
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:  cfg,
		path: completionsPathFor(cfg),
		http: hc,
	}
	if cfg.EnableLogging {
		if cfg.Log != nil {
			c.log = logger.New(cfg.Log, "wispchat")
		} else {
			c.log = logger.NewDefault("wispchat")
		}
	}
	return c, nil
}

// Call sends the contents as user messages and returns the completion.
func (c *Client) Call(ctx context.Context, contents []string, opts *Options) (*Response, error) {
	return c.CallMessages(ctx, UserMessages(contents...), opts)
}

// CallMessages sends a full message list and returns the completion.
// Transient failures are retried per the configured policy; each retry
// resends the identical request.
func (c *Client) CallMessages(ctx context.Context, messages []Message, opts *Options) (*Response, error) {
	payload, err := c.buildPayload(messages, opts, false)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	start := time.Now()

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   c.path,
		Body:   payload,
		Retry:  c.callRetry(requestID, "completion"),
	})
	if err != nil {
		c.logError("completion failed", requestID, "completion", err, start)
		return nil, err
	}

	var completion Response
	if err := json.Unmarshal(resp.Body, &completion); err != nil {
		schemaErr := &SchemaError{Err: err}
		c.logError("completion failed", requestID, "completion", schemaErr, start)
		return nil, schemaErr
	}

	if c.log != nil {
		c.log.Info("completion succeeded", map[string]interface{}{
			logger.FieldRequestID: requestID,
			logger.FieldOperation: "completion",
			logger.FieldModel:     completion.Model,
			logger.FieldDuration:  time.Since(start).Milliseconds(),
			"total_tokens":        completion.Usage.TotalTokens,
		})
	}

	return &completion, nil
}

// Stream sends the contents as user messages and returns a chunk stream.
func (c *Client) Stream(ctx context.Context, contents []string, opts *Options) (*Stream, error) {
	return c.StreamMessages(ctx, UserMessages(contents...), opts)
}

// StreamMessages sends a full message list and returns a chunk stream.
// Retry covers establishing the stream only; once the first chunk has
// been read, failures surface through Stream.Next and are terminal.
// The caller must close the returned stream.
func (c *Client) StreamMessages(ctx context.Context, messages []Message, opts *Options) (*Stream, error) {
	payload, err := c.buildPayload(messages, opts, true)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	start := time.Now()

	resp, err := c.http.DoStream(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    c.path,
		Headers: map[string]string{"Accept": "text/event-stream"},
		Body:    payload,
		Retry:   c.callRetry(requestID, "stream"),
	})
	if err != nil {
		c.logError("stream failed", requestID, "stream", err, start)
		return nil, err
	}

	if c.log != nil {
		c.log.Debug("stream opened", map[string]interface{}{
			logger.FieldRequestID: requestID,
			logger.FieldOperation: "stream",
			logger.FieldModel:     c.cfg.Model,
		})
	}

	return newStream(resp), nil
}

// callRetry copies the client retry policy and hooks per-attempt logging
// into it. The copy keeps concurrent calls from sharing one OnRetry
// closure.
func (c *Client) callRetry(requestID, operation string) *resilience.RetryConfig {
	if c.cfg.Retry == nil {
		return nil
	}
	rc := *c.cfg.Retry
	if c.log != nil {
		rc.OnRetry = func(attempt int, err error, backoff time.Duration) {
			c.log.Warn("retrying after failure", map[string]interface{}{
				logger.FieldRequestID: requestID,
				logger.FieldOperation: operation,
				logger.FieldAttempt:   attempt,
				logger.FieldBackoff:   backoff.Milliseconds(),
				logger.FieldError:     err.Error(),
			})
		}
	}
	return &rc
}

func (c *Client) logError(msg, requestID, operation string, err error, start time.Time) {
	if c.log == nil {
		return
	}
	c.log.WithError(err).Error(msg, map[string]interface{}{
		logger.FieldRequestID: requestID,
		logger.FieldOperation: operation,
		logger.FieldDuration:  time.Since(start).Milliseconds(),
	})
}
