package jwt

import (
	"encoding/base64"
	"math/big"
)

// JWK is a single RSA public key in JSON Web Key form.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKS is a JSON Web Key Set.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWKS renders the verification key so other services can check tokens
// without sharing the private key.
func (k *Keypair) JWKS() JWKS {
	return JWKS{Keys: []JWK{{
		Kty: "RSA",
		Use: "sig",
		Kid: k.kid,
		Alg: "RS256",
		N:   base64.RawURLEncoding.EncodeToString(k.public.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(k.public.E)).Bytes()),
	}}}
}
