// Package goroutine provides a fixed-size worker pool for fire-and-forget work
// that must never block or fail the caller.
package goroutine
