package pass

// Wallet pass object shapes expected by the Google Wallet save flows. Field
// names follow the wallet provider's JSON schema and must not be renamed.

type Barcode struct {
	Type          string `json:"type"`
	Value         string `json:"value"`
	AlternateText string `json:"alternateText,omitempty"`
}

type PatientDetails struct {
	DateOfBirth string `json:"dateOfBirth"`
	PatientName string `json:"patientName"`
}

type VaccinationRecord struct {
	DoseDateTime string `json:"doseDateTime"`
	Manufacturer string `json:"manufacturer"`
	Provider     string `json:"provider"`
	DoseLabel    string `json:"doseLabel"`
}

type VaccinationDetails struct {
	VaccinationRecord []VaccinationRecord `json:"vaccinationRecord"`
}

type SourceURI struct {
	Description string `json:"description,omitempty"`
	URI         string `json:"uri"`
}

type Logo struct {
	SourceURI SourceURI `json:"sourceUri"`
}

type CovidCardObject struct {
	ID                 string             `json:"id"`
	IssuerID           string             `json:"issuerId"`
	Title              string             `json:"title"`
	PatientDetails     PatientDetails     `json:"patientDetails"`
	VaccinationDetails VaccinationDetails `json:"vaccinationDetails"`
	Barcode            Barcode            `json:"barcode"`
	CardColorHex       string             `json:"cardColorHex"`
	Logo               Logo               `json:"logo"`
}

type LoyaltyObject struct {
	ID          string  `json:"id"`
	ClassID     string  `json:"classId"`
	AccountName string  `json:"accountName"`
	AccountID   string  `json:"accountId"`
	State       string  `json:"state"`
	Barcode     Barcode `json:"barcode"`
}

// Payload is the caller-supplied pass content. A covid-card request carries
// an SHC receipt, a loyalty request carries receipts keyed by dose index.
// RawData, when present, is the scanned QR contents (an shc:/ string).
type Payload struct {
	SHCReceipt *SHCReceipt        `json:"shcReceipt,omitempty"`
	Receipts   map[string]Receipt `json:"receipts,omitempty"`
	RawData    string             `json:"rawData,omitempty"`
}

type SHCReceipt struct {
	Name         string        `json:"name"`
	DateOfBirth  string        `json:"dateOfBirth"`
	CardOrigin   string        `json:"cardOrigin"`
	Vaccinations []Vaccination `json:"vaccinations"`
}

type Vaccination struct {
	VaccinationDate string `json:"vaccinationDate"`
	VaccineName     string `json:"vaccineName"`
	Organization    string `json:"organization"`
}

type Receipt struct {
	Name            string `json:"name"`
	DateOfBirth     string `json:"dateOfBirth"`
	VaccineName     string `json:"vaccineName"`
	VaccinationDate string `json:"vaccinationDate"`
}
