package jwt

import (
	"context"
	"errors"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrKeyMaterialInvalid is returned when PEM key material cannot be used for signing.
	ErrKeyMaterialInvalid = errors.New("jwt: key material invalid")

	// ErrTokenExpired is returned when the JWT token has expired.
	ErrTokenExpired = errors.New("jwt: token has expired")

	// ErrInvalidToken is returned when the token is malformed or fails validation.
	ErrInvalidToken = errors.New("jwt: invalid token")

	// ErrInvalidLifetime is returned when a token is requested with a non-positive lifetime.
	ErrInvalidLifetime = errors.New("jwt: lifetime must be positive")
)

// JWT issues and checks session tokens.
type JWT interface {
	// Issue signs a token for subject carrying claims, valid for lifetime.
	Issue(subject string, claims map[string]any, lifetime time.Duration) (string, error)
	// Verify parses and validates the token and returns its claims.
	Verify(token string) (Claims, error)
	// Validate reports whether the token is valid. It never returns an error;
	// every failure collapses to false.
	Validate(token string) bool
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

type jwtContextKey struct{}

// Config defines the inputs for building an RS256 issuer.
type Config struct {
	// PrivateKeyPEM is the RSA private key (PKCS#8 or PKCS#1), armored or bare base64.
	PrivateKeyPEM string
	// PublicKeyPEM is the RSA public key (PKIX or PKCS#1). It must match the private key.
	PublicKeyPEM string
	// Issuer is the token issuer value. Empty disables the iss claim and check.
	Issuer string
	// Clock provides the current time source.
	Clock clocker
	// UUID generates token IDs.
	UUID generator
}

// Claims is the verified content of a token.
type Claims struct {
	// RegisteredClaims holds the standard JWT claims.
	libJWT.RegisteredClaims
	// Values holds every non-registered claim.
	Values map[string]any
}

// String returns a string claim or "".
func (c Claims) String(name string) string {
	s, _ := c.Values[name].(string)
	return s
}

// Bool returns a boolean claim or false.
func (c Claims) Bool(name string) bool {
	b, _ := c.Values[name].(bool)
	return b
}

// GetAuth returns the JWT claims stored in the context, if any.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(jwtContextKey{}).(Claims)
	if !ok {
		return nil
	}

	return &clm
}

// SetAuth stores JWT claims in the context.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, jwtContextKey{}, clm)
}
