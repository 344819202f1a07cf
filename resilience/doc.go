// Package resilience provides bounded exponential-backoff retry for the
// completion transport. Failure classification lives with the caller via
// RetryIf; this package only drives the attempt loop and delays.
package resilience
