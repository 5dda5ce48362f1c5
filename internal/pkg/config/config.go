// Package config reads typed configuration values from a file with
// environment variable overrides.
package config

import (
	"io"
	"time"
)

// Config defines a set of methods for retrieving configuration values of
// various types. Missing keys or values that cannot be converted yield the
// zero value of the requested type.
type Config interface {
	io.Closer

	// GetSecond reads an integer value as a number of seconds.
	GetSecond(key string) time.Duration
	// GetMinute reads an integer value as a number of minutes.
	GetMinute(key string) time.Duration

	GetInt(key string) int
	GetInt32(key string) int32
	GetUint(key string) uint
	GetFloat64(key string) float64
	GetBool(key string) bool
	GetString(key string) string

	// GetBinary decodes a base64 encoded value.
	GetBinary(key string) []byte

	// GetArray splits a value stored as <element1>,<element2>,... and trims
	// whitespace; empty elements are dropped.
	GetArray(key string) []string

	// GetMap parses a value stored as <key1>:<value1>,<key2>:<value2>,...
	GetMap(key string) map[string]string
}
