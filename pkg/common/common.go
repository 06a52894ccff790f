package common

import (
	"errors"

	"github.com/grassroots-wallet/gpay-pass-service/pkg/pass"
)

type PassKind string

const (
	CovidCardPass PassKind = "covidcard"
	LoyaltyPass   PassKind = "loyalty"
)

// CreatePassRequest is the body of both create routes. ID is the caller's
// external pass identifier, PayloadBody the pass content, QRCodeMessage an
// optional caller-composed barcode value used when the payload carries no
// raw QR data.
type CreatePassRequest struct {
	ID            string        `json:"id"`
	PayloadBody   *pass.Payload `json:"payloadBody"`
	QRCodeMessage string        `json:"qrCodeMessage,omitempty"`
}

func (r *CreatePassRequest) Validate() error {
	if r.ID == "" {
		return errors.New("id cannot be empty")
	}

	if r.PayloadBody == nil {
		return errors.New("payloadBody cannot be empty")
	}

	return nil
}
