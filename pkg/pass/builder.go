package pass

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/grassroots-wallet/gpay-pass-service/pkg/passerrors"
)

const (
	covidCardTitle           = "COVID-19 Vaccination Card"
	covidCardColorHex        = "#FFFFFF"
	covidCardLogoURI         = "https://www.gstatic.com/images/icons/material/system_gm/2x/gpp_good_black_48dp.png"
	barcodeTypeQRCode        = "qrCode"
	loyaltyObjectStateActive = "active"
)

// Builder turns caller payloads into wallet pass objects. It is a pure
// transformation over its inputs and the issuer configuration captured at
// construction; it performs no I/O.
type Builder struct {
	issuerID          string
	issuerIDCovidcard string
	loyaltyProgram    string
}

func NewBuilder(issuerID, issuerIDCovidcard, loyaltyProgram string) *Builder {
	return &Builder{
		issuerID:          issuerID,
		issuerIDCovidcard: issuerIDCovidcard,
		loyaltyProgram:    loyaltyProgram,
	}
}

// CovidCardID returns the composite pass id for a covid card. The id is
// deterministic: the same external id always yields the same pass id.
func (b *Builder) CovidCardID(externalID string) string {
	return fmt.Sprintf("%s.%s", b.issuerIDCovidcard, externalID)
}

// LoyaltyID returns the composite pass id for a loyalty card.
func (b *Builder) LoyaltyID(externalID string) string {
	return fmt.Sprintf("%s.%s.%s", b.issuerID, externalID, b.loyaltyProgram)
}

func (b *Builder) loyaltyClassID() string {
	return fmt.Sprintf("%s.%s", b.issuerID, b.loyaltyProgram)
}

// BuildCovidCardObject maps an SHC receipt to a covid card pass object.
// Vaccination entries keep their input order and are labeled "Dose 1",
// "Dose 2", ... by position.
func (b *Builder) BuildCovidCardObject(payload *Payload, externalID string, qrCodeMessage string) (*CovidCardObject, error) {
	if externalID == "" {
		return nil, fmt.Errorf("%w: id must not be empty", passerrors.ErrMalformedPayload)
	}

	if payload == nil || payload.SHCReceipt == nil {
		return nil, fmt.Errorf("%w: missing shcReceipt", passerrors.ErrMalformedPayload)
	}

	receipt := payload.SHCReceipt

	if receipt.Name == "" || receipt.DateOfBirth == "" {
		return nil, fmt.Errorf("%w: missing patient name or date of birth", passerrors.ErrMalformedPayload)
	}

	if len(receipt.Vaccinations) == 0 {
		return nil, fmt.Errorf("%w: missing vaccinations", passerrors.ErrMalformedPayload)
	}

	vaccinationRecords := make([]VaccinationRecord, 0, len(receipt.Vaccinations))

	for i, vaccination := range receipt.Vaccinations {
		vaccinationRecords = append(vaccinationRecords, VaccinationRecord{
			DoseDateTime: vaccination.VaccinationDate,
			Manufacturer: vaccination.VaccineName,
			Provider:     vaccination.Organization,
			DoseLabel:    fmt.Sprintf("Dose %d", i+1),
		})
	}

	title := covidCardTitle
	if receipt.CardOrigin != "" {
		title = fmt.Sprintf("%s, %s", covidCardTitle, receipt.CardOrigin)
	}

	covidCardObject := &CovidCardObject{
		ID:       b.CovidCardID(externalID),
		IssuerID: b.issuerIDCovidcard,
		Title:    title,
		PatientDetails: PatientDetails{
			DateOfBirth: receipt.DateOfBirth,
			PatientName: receipt.Name,
		},
		VaccinationDetails: VaccinationDetails{
			VaccinationRecord: vaccinationRecords,
		},
		Barcode: Barcode{
			Type:  barcodeTypeQRCode,
			Value: barcodeValue(payload, qrCodeMessage),
		},
		CardColorHex: covidCardColorHex,
		Logo: Logo{
			SourceURI: SourceURI{
				URI: covidCardLogoURI,
			},
		},
	}

	return covidCardObject, nil
}

// BuildLoyaltyObject maps dose receipts to a loyalty pass object. The
// primary receipt fills accountName and the barcode alternate text, the
// secondary receipt (if any) fills accountId; see SortedReceiptKeys for the
// selection rule.
func (b *Builder) BuildLoyaltyObject(payload *Payload, externalID string, qrCodeMessage string) (*LoyaltyObject, error) {
	if externalID == "" {
		return nil, fmt.Errorf("%w: id must not be empty", passerrors.ErrMalformedPayload)
	}

	if payload == nil || len(payload.Receipts) == 0 {
		return nil, fmt.Errorf("%w: missing receipts", passerrors.ErrMalformedPayload)
	}

	keys := SortedReceiptKeys(payload.Receipts)

	primary := payload.Receipts[keys[0]]

	if primary.Name == "" || primary.DateOfBirth == "" {
		return nil, fmt.Errorf("%w: missing receipt holder name or date of birth", passerrors.ErrMalformedPayload)
	}

	var secondaryDetails string

	if len(keys) > 1 {
		secondaryDetails = receiptDetails(payload.Receipts[keys[1]])
	}

	numDoses := len(payload.Receipts)

	doseWord := "doses"
	if numDoses == 1 {
		doseWord = "dose"
	}

	loyaltyObject := &LoyaltyObject{
		ID:          b.LoyaltyID(externalID),
		ClassID:     b.loyaltyClassID(),
		AccountName: receiptDetails(primary),
		AccountID:   secondaryDetails,
		State:       loyaltyObjectStateActive,
		Barcode: Barcode{
			Type:          barcodeTypeQRCode,
			Value:         barcodeValue(payload, qrCodeMessage),
			AlternateText: fmt.Sprintf("%s (%s) : %d %s", primary.Name, primary.DateOfBirth, numDoses, doseWord),
		},
	}

	return loyaltyObject, nil
}

// SortedReceiptKeys orders receipt map keys numerically when every key is an
// integer ("2" before "10") and lexicographically otherwise. The first key
// selects the primary receipt, the second the secondary one.
func SortedReceiptKeys(receipts map[string]Receipt) []string {
	keys := make([]string, 0, len(receipts))

	for k := range receipts {
		keys = append(keys, k)
	}

	numeric := make(map[string]int, len(keys))
	allNumeric := true

	for _, k := range keys {
		n, err := strconv.Atoi(k)
		if err != nil {
			allNumeric = false

			break
		}

		numeric[k] = n
	}

	if allNumeric {
		sort.Slice(keys, func(i, j int) bool { return numeric[keys[i]] < numeric[keys[j]] })
	} else {
		sort.Strings(keys)
	}

	return keys
}

// The raw QR contents scanned from the document take precedence over a
// caller-composed QR message.
func barcodeValue(payload *Payload, qrCodeMessage string) string {
	if payload.RawData != "" {
		return payload.RawData
	}

	return qrCodeMessage
}

func receiptDetails(r Receipt) string {
	return fmt.Sprintf("%s (%s)", r.VaccineName, r.VaccinationDate)
}
