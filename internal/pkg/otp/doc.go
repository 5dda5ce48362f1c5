// Package otp generates numeric one-time passcodes for out-of-band delivery
// (SMS, push). Codes are drawn from crypto/rand and are always exactly the
// configured width: the range is offset so the first digit is never zero.
package otp
