package jwt

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"regexp"
	"strings"
)

// MinRSABits is the smallest accepted modulus size.
const MinRSABits = 2048

var reArmor = regexp.MustCompile(`-----(BEGIN|END) [A-Z0-9 ]+-----`)

// Keypair is the process-wide signing identity. It is immutable once loaded.
type Keypair struct {
	private *rsa.PrivateKey
	public  *rsa.PublicKey
	kid     string
}

// LoadKeypair parses PEM key material and checks that both halves belong together.
func LoadKeypair(privatePEM, publicPEM string) (*Keypair, error) {
	priv, err := ParsePrivateKey(privatePEM)
	if err != nil {
		return nil, err
	}

	pub, err := ParsePublicKey(publicPEM)
	if err != nil {
		return nil, err
	}

	if !priv.PublicKey.Equal(pub) {
		return nil, fmt.Errorf("%w: public key does not match private key", ErrKeyMaterialInvalid)
	}

	kid, err := keyID(pub)
	if err != nil {
		return nil, err
	}

	return &Keypair{private: priv, public: pub, kid: kid}, nil
}

// PublicKey returns the verification key.
func (k *Keypair) PublicKey() *rsa.PublicKey {
	return k.public
}

// KID returns the key id: base64url(SHA-256(PKIX DER of the public key)).
func (k *Keypair) KID() string {
	return k.kid
}

// ParsePrivateKey accepts a PKCS#8 or PKCS#1 RSA private key.
func ParsePrivateKey(material string) (*rsa.PrivateKey, error) {
	der, err := decodeKeyMaterial(material)
	if err != nil {
		return nil, err
	}

	var key *rsa.PrivateKey
	if parsed, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		rsaKey, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: private key is not RSA", ErrKeyMaterialInvalid)
		}
		key = rsaKey
	} else if parsed, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		key = parsed
	} else {
		return nil, fmt.Errorf("%w: unable to parse RSA private key", ErrKeyMaterialInvalid)
	}

	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyMaterialInvalid, err)
	}
	if key.N.BitLen() < MinRSABits {
		return nil, fmt.Errorf("%w: RSA key must be at least %d bits", ErrKeyMaterialInvalid, MinRSABits)
	}

	return key, nil
}

// ParsePublicKey accepts a PKIX (SubjectPublicKeyInfo) or PKCS#1 RSA public key.
func ParsePublicKey(material string) (*rsa.PublicKey, error) {
	der, err := decodeKeyMaterial(material)
	if err != nil {
		return nil, err
	}

	if parsed, err := x509.ParsePKIXPublicKey(der); err == nil {
		rsaKey, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: public key is not RSA", ErrKeyMaterialInvalid)
		}
		return rsaKey, nil
	}

	if parsed, err := x509.ParsePKCS1PublicKey(der); err == nil {
		return parsed, nil
	}

	return nil, fmt.Errorf("%w: unable to parse RSA public key", ErrKeyMaterialInvalid)
}

// decodeKeyMaterial returns DER bytes from an armored PEM block or from bare
// base64 (armor lines and whitespace are stripped). Env-supplied values may
// carry literal "\n" sequences instead of newlines.
func decodeKeyMaterial(material string) ([]byte, error) {
	material = strings.ReplaceAll(material, `\n`, "\n")
	if strings.TrimSpace(material) == "" {
		return nil, fmt.Errorf("%w: empty key material", ErrKeyMaterialInvalid)
	}

	if block, _ := pem.Decode([]byte(material)); block != nil {
		return block.Bytes, nil
	}

	cleaned := strings.Join(strings.Fields(reArmor.ReplaceAllString(material, "")), "")
	der, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyMaterialInvalid, err)
	}

	return der, nil
}

func keyID(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrKeyMaterialInvalid, err)
	}
	sum := sha256.Sum256(der)
	return base64.RawURLEncoding.EncodeToString(sum[:]), nil
}
