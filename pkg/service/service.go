package service

import (
	"context"
	"fmt"

	"github.com/lestrrat-go/jwx/jwk"
	"go.uber.org/zap"

	"github.com/grassroots-wallet/gpay-pass-service/pkg/claims"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/common"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/config"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/keys"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/pass"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/passerrors"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/signing"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/walletclient"
)

// The wallet provider requires the full pass contents inside the signed
// claim, so patient name and birthdate unavoidably flow through this
// service. Nothing derived from the request body may be logged at any
// level; log lines carry only the composite pass id.

type Service struct {
	config       *config.AppConfig
	builder      *pass.Builder
	signer       *signing.Signer
	keyStore     *keys.Store
	walletClient walletclient.Upserter
	logger       *zap.Logger
}

func NewService(cfg *config.AppConfig, keyStore *keys.Store, walletClient walletclient.Upserter, logger *zap.Logger) *Service {
	return &Service{
		config:       cfg,
		builder:      pass.NewBuilder(cfg.IssuerID, cfg.IssuerIDCovidcard, cfg.LoyaltyProgram),
		signer:       signing.NewSigner(keyStore),
		keyStore:     keyStore,
		walletClient: walletClient,
		logger:       logger,
	}
}

type TokenResponse struct {
	Token string `json:"token"`
}

func (s *Service) GetJwks() jwk.Set {
	return s.keyStore.JWKS()
}

// CreateCovidCardToken builds a covid card object from the request and
// returns the signed save-to-wallet token for it.
func (s *Service) CreateCovidCardToken(ctx context.Context, request *common.CreatePassRequest) (*TokenResponse, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", passerrors.ErrMalformedPayload, err)
	}

	covidCardObject, err := s.builder.BuildCovidCardObject(request.PayloadBody, request.ID, request.QRCodeMessage)
	if err != nil {
		return nil, err
	}

	envelope := claims.AssembleCovidCard(s.config.Credentials.ClientEmail, []pass.CovidCardObject{*covidCardObject})

	token, err := s.signer.Sign(envelope)
	if err != nil {
		s.logger.Error("Failed to sign covid card claims.", zap.String("pass-id", covidCardObject.ID))

		return nil, err
	}

	s.logger.Info("Covid card pass created.", zap.String("pass-id", covidCardObject.ID))

	return &TokenResponse{Token: token}, nil
}

// CreateLoyaltyToken builds a loyalty object, upserts it into the wallet
// provider's object store, and returns the signed save-to-wallet token.
// requestOrigin is the caller's Origin header, used when no website is
// configured.
func (s *Service) CreateLoyaltyToken(ctx context.Context, request *common.CreatePassRequest, requestOrigin string) (*TokenResponse, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", passerrors.ErrMalformedPayload, err)
	}

	loyaltyObject, err := s.builder.BuildLoyaltyObject(request.PayloadBody, request.ID, request.QRCodeMessage)
	if err != nil {
		return nil, err
	}

	if err := s.walletClient.UpsertLoyaltyObject(ctx, loyaltyObject); err != nil {
		s.logger.Error("Failed to upsert loyalty object.", zap.String("pass-id", loyaltyObject.ID))

		return nil, err
	}

	website := claims.ResolveWebsite(s.config.Website, requestOrigin)

	envelope := claims.AssembleLoyalty(s.config.Credentials.ClientEmail, website, []pass.LoyaltyObject{*loyaltyObject})

	token, err := s.signer.Sign(envelope)
	if err != nil {
		s.logger.Error("Failed to sign loyalty claims.", zap.String("pass-id", loyaltyObject.ID))

		return nil, err
	}

	s.logger.Info("Loyalty pass created.", zap.String("pass-id", loyaltyObject.ID))

	return &TokenResponse{Token: token}, nil
}
