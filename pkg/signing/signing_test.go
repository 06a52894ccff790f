package signing

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/grassroots-wallet/gpay-pass-service/pkg/claims"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/keys"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/pass"
)

func testSigner(t *testing.T) *Signer {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}

	privateKeyPEM := string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	}))

	keyStore, err := keys.NewStore(privateKeyPEM)
	if err != nil {
		t.Fatalf("failed to create key store: %v", err)
	}

	return NewSigner(keyStore)
}

func decodeSegment(t *testing.T, segment string) map[string]any {
	t.Helper()

	data, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		t.Fatalf("failed to decode token segment: %v", err)
	}

	var decoded map[string]any

	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal token segment: %v", err)
	}

	return decoded
}

func TestSignProducesCompactRS256Token(t *testing.T) {
	signer := testSigner(t)

	envelope := claims.AssembleCovidCard("issuer@example.iam.gserviceaccount.com", []pass.CovidCardObject{
		{ID: "issuer.first"},
		{ID: "issuer.second"},
	})

	token, err := signer.Sign(envelope)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	segments := strings.Split(token, ".")

	if len(segments) != 3 {
		t.Fatalf("got %d token segments, want 3", len(segments))
	}

	header := decodeSegment(t, segments[0])

	if header["alg"] != "RS256" {
		t.Errorf("got alg %v, want RS256", header["alg"])
	}

	if header["kid"] == "" || header["kid"] == nil {
		t.Error("token header missing kid")
	}

	payload := decodeSegment(t, segments[1])

	if payload["aud"] != "google" {
		t.Errorf("got aud %v, want google", payload["aud"])
	}

	if payload["typ"] != "savetogooglepay" {
		t.Errorf("got typ %v, want savetogooglepay", payload["typ"])
	}

	claimPayload, ok := payload["payload"].(map[string]any)
	if !ok {
		t.Fatal("payload claim missing")
	}

	covidCardObjects, ok := claimPayload["covidCardObjects"].([]any)
	if !ok {
		t.Fatal("covidCardObjects claim missing")
	}

	if len(covidCardObjects) != 2 {
		t.Fatalf("got %d covid card objects, want 2", len(covidCardObjects))
	}

	first, ok := covidCardObjects[0].(map[string]any)
	if !ok || first["id"] != "issuer.first" {
		t.Errorf("pass objects not embedded in input order: %v", covidCardObjects)
	}
}

func TestSignLoyaltyEnvelope(t *testing.T) {
	signer := testSigner(t)

	envelope := claims.AssembleLoyalty("issuer@example.iam.gserviceaccount.com", "https://pass.example.ca", []pass.LoyaltyObject{
		{ID: "issuer.abc123.program"},
	})

	token, err := signer.Sign(envelope)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	payload := decodeSegment(t, strings.Split(token, ".")[1])

	if payload["typ"] != "savetowallet" {
		t.Errorf("got typ %v, want savetowallet", payload["typ"])
	}

	origins, ok := payload["origins"].([]any)
	if !ok || len(origins) != 1 || origins[0] != "https://pass.example.ca" {
		t.Errorf("got origins %v, want the resolved website only", payload["origins"])
	}
}
