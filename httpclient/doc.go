// Package httpclient is the transport layer for the completion API.
//
// It classifies failures into typed, retryable-or-fatal errors, applies
// bearer or API-key authentication, and wraps single-shot requests in the
// resilience retry loop. Streaming requests retry only while the stream
// is being established; once the body is open, failures surface to the
// caller unretried.
package httpclient
