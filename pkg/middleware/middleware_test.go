package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAllowOrigins(t *testing.T) {
	allowedOrigins := []string{".vaccine-ontario.ca", "https://us-central1-grassroots-gpay.cloudfunctions.net"}

	tests := []struct {
		name     string
		origin   string
		wantCode int
	}{
		{"no origin passes through", "", http.StatusOK},
		{"exact origin allowed", "https://us-central1-grassroots-gpay.cloudfunctions.net", http.StatusOK},
		{"subdomain of allowed suffix", "https://pass.vaccine-ontario.ca", http.StatusOK},
		{"disallowed origin rejected", "https://evil.example.com", http.StatusForbidden},
		{"suffix must match whole label", "https://notvaccine-ontario.ca", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AllowOrigins(allowedOrigins, zap.NewNop())(okHandler())

			req := httptest.NewRequest(http.MethodPost, "/api/covidcard/create", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Errorf("got status %d, want %d", rr.Code, tt.wantCode)
			}

			if tt.wantCode == http.StatusForbidden && rr.Body.String() != "Forbidden by CORS\n" {
				t.Errorf("got body %q, want %q", rr.Body.String(), "Forbidden by CORS\n")
			}

			if tt.wantCode == http.StatusOK && tt.origin != "" {
				if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.origin {
					t.Errorf("got Access-Control-Allow-Origin %q, want %q", got, tt.origin)
				}
			}
		})
	}
}

func TestAllowOriginsPreflight(t *testing.T) {
	handler := AllowOrigins([]string{".vaccine-ontario.ca"}, zap.NewNop())(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/covidcard/create", nil)
	req.Header.Set("Origin", "https://pass.vaccine-ontario.ca")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("got status %d, want %d", rr.Code, http.StatusNoContent)
	}

	if rr.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("preflight response missing Access-Control-Allow-Methods")
	}
}

func TestRequestID(t *testing.T) {
	handler := RequestID(zap.NewNop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Header().Get(RequestIDHeader) == "" {
		t.Error("response missing X-Request-Id header")
	}
}

func TestRequestIDPreserved(t *testing.T) {
	handler := RequestID(zap.NewNop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "caller-supplied-id")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get(RequestIDHeader); got != "caller-supplied-id" {
		t.Errorf("got request id %q, want caller-supplied value", got)
	}
}
