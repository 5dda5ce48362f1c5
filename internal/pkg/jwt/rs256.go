package jwt

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
	"github.com/samber/lo"
)

var registeredNames = []string{"iss", "sub", "aud", "exp", "nbf", "iat", "jti"}

// RS256 signs tokens with an RSA private key and verifies them with the
// matching public key. It is safe for concurrent use.
type RS256 struct {
	keys   *Keypair
	issuer string
	clock  clocker
	uuid   generator
	parser *libJWT.Parser
}

// NewRS256 loads the keypair from cfg and fails fast if it is unusable.
func NewRS256(cfg Config) (*RS256, error) {
	keys, err := LoadKeypair(cfg.PrivateKeyPEM, cfg.PublicKeyPEM)
	if err != nil {
		return nil, err
	}

	opts := []libJWT.ParserOption{
		libJWT.WithValidMethods([]string{libJWT.SigningMethodRS256.Alg()}),
		libJWT.WithExpirationRequired(),
		libJWT.WithIssuedAt(),
		libJWT.WithTimeFunc(cfg.Clock.Now),
		libJWT.WithStrictDecoding(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, libJWT.WithIssuer(cfg.Issuer))
	}

	return &RS256{
		keys:   keys,
		issuer: cfg.Issuer,
		clock:  cfg.Clock,
		uuid:   cfg.UUID,
		parser: libJWT.NewParser(opts...),
	}, nil
}

// Keypair returns the loaded signing identity.
func (r *RS256) Keypair() *Keypair {
	return r.keys
}

// Issue signs a token. Registered claims (sub, iat, exp, iss, jti) always win
// over entries of the same name in claims.
func (r *RS256) Issue(subject string, claims map[string]any, lifetime time.Duration) (string, error) {
	if lifetime <= 0 {
		return "", ErrInvalidLifetime
	}

	now := r.clock.Now()
	registered := map[string]any{
		"sub": subject,
		"iat": libJWT.NewNumericDate(now),
		"exp": libJWT.NewNumericDate(now.Add(lifetime)),
	}
	if r.issuer != "" {
		registered["iss"] = r.issuer
	}
	if r.uuid != nil {
		registered["jti"] = r.uuid.Generate()
	}

	token := libJWT.NewWithClaims(libJWT.SigningMethodRS256, libJWT.MapClaims(lo.Assign(claims, registered)))
	token.Header["kid"] = r.keys.kid

	signed, err := token.SignedString(r.keys.private)
	if err != nil {
		return "", fmt.Errorf("jwt: sign: %w", err)
	}

	return signed, nil
}

// Verify checks signature, algorithm, expiry and issuer, then returns the claims.
func (r *RS256) Verify(tokenStr string) (Claims, error) {
	mc := libJWT.MapClaims{}

	token, err := r.parser.ParseWithClaims(tokenStr, mc, func(t *libJWT.Token) (any, error) {
		if t.Method != libJWT.SigningMethodRS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return r.keys.public, nil
	})
	if err != nil {
		if errors.Is(err, libJWT.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	return toClaims(mc)
}

// Validate reports whether the token verifies. Failure reasons are logged at debug level only.
func (r *RS256) Validate(tokenStr string) bool {
	if _, err := r.Verify(tokenStr); err != nil {
		slog.Debug("token rejected", "reason", err)
		return false
	}
	return true
}

func toClaims(mc libJWT.MapClaims) (Claims, error) {
	var (
		clm Claims
		err error
	)

	if clm.Subject, err = mc.GetSubject(); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if clm.Issuer, err = mc.GetIssuer(); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if clm.IssuedAt, err = mc.GetIssuedAt(); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if clm.ExpiresAt, err = mc.GetExpirationTime(); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	clm.ID, _ = mc["jti"].(string)
	clm.Values = lo.OmitByKeys(map[string]any(mc), registeredNames)

	return clm, nil
}
