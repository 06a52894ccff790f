package keys

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lestrrat-go/jwx/jwk"
)

// Store holds the issuer's RSA signing key and the JWKS derived from its
// public half. The key id is content-derived so the JWKS stays stable
// across restarts.
type Store struct {
	privateKey *rsa.PrivateKey
	kid        string
	keySet     jwk.Set
}

func NewStore(privateKeyPEM string) (*Store, error) {
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA private key: %w", err)
	}

	kid, err := keyID(&privateKey.PublicKey)
	if err != nil {
		return nil, err
	}

	jwkKey, err := jwk.New(&privateKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWK from public key: %w", err)
	}

	if err := jwkKey.Set(jwk.AlgorithmKey, "RS256"); err != nil {
		return nil, fmt.Errorf("failed to set algorithm for JWK: %w", err)
	}

	if err := jwkKey.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("failed to set usage for JWK: %w", err)
	}

	if err := jwkKey.Set(jwk.KeyIDKey, kid); err != nil {
		return nil, fmt.Errorf("failed to set Key ID for JWK: %w", err)
	}

	keySet := jwk.NewSet()

	keySet.Add(jwkKey)

	return &Store{
		privateKey: privateKey,
		kid:        kid,
		keySet:     keySet,
	}, nil
}

func keyID(publicKey *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(publicKey)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key for Key ID: %w", err)
	}

	sum := sha256.Sum256(der)

	return base64.RawURLEncoding.EncodeToString(sum[:16]), nil
}

func (s *Store) PrivateKey() *rsa.PrivateKey {
	return s.privateKey
}

func (s *Store) Kid() string {
	return s.kid
}

func (s *Store) JWKS() jwk.Set {
	return s.keySet
}
