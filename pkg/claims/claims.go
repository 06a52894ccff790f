package claims

import (
	"errors"
	"time"

	"github.com/grassroots-wallet/gpay-pass-service/pkg/pass"
)

// Claim type discriminators defined by the wallet provider's save flows.
const (
	TypeSaveToGooglePay = "savetogooglepay"
	TypeSaveToWallet    = "savetowallet"
)

const audienceGoogle = "google"

// Envelope is the JWT claim set signed to produce a save-to-wallet token.
// The pass objects themselves ride inside the payload claim.
type Envelope struct {
	Aud     string   `json:"aud"`
	Iss     string   `json:"iss"`
	Iat     int64    `json:"iat"`
	Typ     string   `json:"typ"`
	Origins []string `json:"origins,omitempty"`
	Payload Payload  `json:"payload"`
}

type Payload struct {
	CovidCardObjects []pass.CovidCardObject `json:"covidCardObjects,omitempty"`
	LoyaltyObjects   []pass.LoyaltyObject   `json:"loyaltyObjects,omitempty"`
}

// Valid implements jwt.Claims. Signing never calls it, but a structurally
// broken envelope should not verify either.
func (e Envelope) Valid() error {
	if e.Aud != audienceGoogle {
		return errors.New("invalid audience")
	}

	if e.Iss == "" {
		return errors.New("missing issuer")
	}

	return nil
}

// AssembleCovidCard wraps covid card objects in a savetogooglepay envelope.
// Object order is preserved.
func AssembleCovidCard(issuerEmail string, covidCardObjects []pass.CovidCardObject) Envelope {
	return Envelope{
		Aud: audienceGoogle,
		Iss: issuerEmail,
		Iat: time.Now().Unix(),
		Typ: TypeSaveToGooglePay,
		Payload: Payload{
			CovidCardObjects: covidCardObjects,
		},
	}
}

// AssembleLoyalty wraps loyalty objects in a savetowallet envelope. The
// wallet provider requires the saving website's origin in the claim;
// website is the resolved origin (configured value first, else the
// caller's Origin header).
func AssembleLoyalty(issuerEmail string, website string, loyaltyObjects []pass.LoyaltyObject) Envelope {
	return Envelope{
		Aud:     audienceGoogle,
		Iss:     issuerEmail,
		Iat:     time.Now().Unix(),
		Typ:     TypeSaveToWallet,
		Origins: []string{website},
		Payload: Payload{
			LoyaltyObjects: loyaltyObjects,
		},
	}
}

// ResolveWebsite applies the origin precedence rule: an explicitly
// configured website wins over the request origin.
func ResolveWebsite(configured string, requestOrigin string) string {
	if configured != "" {
		return configured
	}

	return requestOrigin
}
