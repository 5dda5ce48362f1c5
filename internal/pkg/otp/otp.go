package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/pquerna/otp"
)

// ErrEntropyUnavailable is returned when the random source fails.
var ErrEntropyUnavailable = errors.New("otp: entropy source unavailable")

// Generator produces one-time codes.
type Generator interface {
	Generate() (string, error)
}

// Numeric generates codes uniformly distributed over
// [10^(digits-1), 10^digits - 1]; six digits give 100000..999999.
type Numeric struct {
	digits otp.Digits
	low    *big.Int
	span   *big.Int
	rand   io.Reader
}

// NewNumeric returns a Numeric generator. Only six and eight digits are
// supported; anything else falls back to six.
func NewNumeric(digits otp.Digits) *Numeric {
	return newNumeric(digits, rand.Reader)
}

// ParseDigits maps a configured width to a supported one: 8 stays 8,
// everything else becomes 6.
func ParseDigits(n int) otp.Digits {
	if n == int(otp.DigitsEight) {
		return otp.DigitsEight
	}
	return otp.DigitsSix
}

func newNumeric(digits otp.Digits, r io.Reader) *Numeric {
	digits = ParseDigits(int(digits))

	high := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits.Length())), nil)
	low := new(big.Int).Div(high, big.NewInt(10))

	return &Numeric{
		digits: digits,
		low:    low,
		span:   new(big.Int).Sub(high, low),
		rand:   r,
	}
}

// Generate returns a new code.
func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(n.rand, n.span)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEntropyUnavailable, err)
	}

	return n.digits.Format(int32(v.Add(v, n.low).Int64())), nil
}

// Length returns the code width.
func (n *Numeric) Length() int {
	return n.digits.Length()
}
