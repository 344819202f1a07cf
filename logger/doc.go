// Package logger provides structured logging on top of zerolog.
// The chat client uses it to record per-attempt retry events and call
// summaries when logging is enabled; log output never affects control
// flow.
package logger
