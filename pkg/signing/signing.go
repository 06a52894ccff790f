package signing

import (
	"fmt"

	"github.com/golang-jwt/jwt/v4"

	"github.com/grassroots-wallet/gpay-pass-service/pkg/claims"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/keys"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/passerrors"
)

// Signer produces save-to-wallet bearer tokens by signing claim envelopes
// with the issuer's RSA key (RS256 compact JWS).
type Signer struct {
	keyStore *keys.Store
}

func NewSigner(keyStore *keys.Store) *Signer {
	return &Signer{
		keyStore: keyStore,
	}
}

// Sign returns the signed compact serialization of the envelope. The
// envelope carries patient data; callers must not log it or the error
// returned from here alongside it.
func (s *Signer) Sign(envelope claims.Envelope) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, envelope)

	token.Header["kid"] = s.keyStore.Kid()

	tokenString, err := token.SignedString(s.keyStore.PrivateKey())
	if err != nil {
		return "", fmt.Errorf("%w: %v", passerrors.ErrSigning, err)
	}

	return tokenString, nil
}
