package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/grassroots-wallet/gpay-pass-service/pkg/common"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/passerrors"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/service"
)

type Handlers struct {
	Service *service.Service
	Logger  *zap.Logger
}

func NewHandlers(service *service.Service, logger *zap.Logger) *Handlers {
	return &Handlers{
		Service: service,
		Logger:  logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handlers) GetJwksHandler(w http.ResponseWriter, r *http.Request) {
	jwks := h.Service.GetJwks()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(jwks); err != nil {
		h.Logger.Error("Failed to encode response of a get-jwks request.", zap.Error(err))

		return
	}
}

func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		h.Logger.Error("Failed to encode response of a health request.", zap.Error(err))

		return
	}
}

func (h *Handlers) CreateCovidCardHandler(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("Create-covidcard request received.")

	request, ok := h.decodeCreatePassRequest(w, r)
	if !ok {
		return
	}

	tokenResponse, err := h.Service.CreateCovidCardToken(r.Context(), request)
	if err != nil {
		h.writeError(w, err)

		return
	}

	h.writeToken(w, tokenResponse)
}

func (h *Handlers) CreateLoyaltyHandler(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("Create-loyalty request received.")

	request, ok := h.decodeCreatePassRequest(w, r)
	if !ok {
		return
	}

	tokenResponse, err := h.Service.CreateLoyaltyToken(r.Context(), request, r.Header.Get("Origin"))
	if err != nil {
		h.writeError(w, err)

		return
	}

	h.writeToken(w, tokenResponse)
}

func (h *Handlers) decodeCreatePassRequest(w http.ResponseWriter, r *http.Request) (*common.CreatePassRequest, bool) {
	var request common.CreatePassRequest

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.Logger.Error("Failed to decode a create-pass request body.")
		h.writeErrorStatus(w, "Invalid request body.", http.StatusBadRequest)

		return nil, false
	}

	return &request, true
}

// Errors carry payload fragments in their wrapped detail; the response
// echoes only the taxonomy message, never err.Error().
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, passerrors.ErrMalformedPayload):
		h.writeErrorStatus(w, passerrors.ErrMalformedPayload.Error(), http.StatusBadRequest)
	case errors.Is(err, passerrors.ErrUpstreamWallet):
		h.writeErrorStatus(w, passerrors.ErrUpstreamWallet.Error(), http.StatusBadGateway)
	case errors.Is(err, passerrors.ErrSigning):
		h.writeErrorStatus(w, passerrors.ErrSigning.Error(), http.StatusInternalServerError)
	default:
		h.writeErrorStatus(w, "Internal server error.", http.StatusInternalServerError)
	}
}

func (h *Handlers) writeErrorStatus(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(errorResponse{Error: message}); err != nil {
		h.Logger.Error("Failed to encode an error response.", zap.Error(err))
	}
}

func (h *Handlers) writeToken(w http.ResponseWriter, tokenResponse *service.TokenResponse) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(tokenResponse); err != nil {
		h.Logger.Error("Failed to encode a token response.", zap.Error(err))

		return
	}
}
