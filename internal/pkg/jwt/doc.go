// Package jwt issues and verifies RS256 JSON Web Tokens.
//
// It includes:
//   - PEM key loading (PKCS#8/PKCS#1 private keys, PKIX/PKCS#1 public keys)
//     with a keypair consistency check.
//   - An RS256 issuer that signs with the private key and verifies with the
//     public key, pinning the algorithm.
//   - JWKS rendering of the public key for external verifiers.
//   - Context helpers for storing and retrieving authenticated claims.
package jwt
