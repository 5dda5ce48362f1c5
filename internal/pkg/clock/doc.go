// Package clock provides a tiny time abstraction.
//
// Code that computes expiry (challenge TTLs, token lifetimes) depends on the
// Clocker interface instead of calling time.Now directly, so tests can drive
// time with a Frozen clock.
package clock
