// Package hash provides keyed digests for short-lived secrets.
//
// One-time codes are never kept in plaintext. The store holds the HMAC of the
// code and a candidate is digested the same way before comparison.
package hash
