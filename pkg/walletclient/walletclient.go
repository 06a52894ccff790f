package walletclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/grassroots-wallet/gpay-pass-service/pkg/pass"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/passerrors"
)

const loyaltyObjectPath = "loyaltyObject"

// Upserter creates a loyalty object in the wallet provider's object store
// if it does not exist yet, keyed by the object's id.
type Upserter interface {
	UpsertLoyaltyObject(ctx context.Context, object *pass.LoyaltyObject) error
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// UpsertLoyaltyObject looks the object up by id and posts it only when the
// wallet API reports it absent. Conflict handling beyond that is the wallet
// provider's concern; no retries are performed here.
func (c *Client) UpsertLoyaltyObject(ctx context.Context, object *pass.LoyaltyObject) error {
	exists, err := c.loyaltyObjectExists(ctx, object.ID)
	if err != nil {
		return err
	}

	if exists {
		c.logger.Info("Loyalty object already present, skipping insert.", zap.String("pass-id", object.ID))

		return nil
	}

	jsonData, err := json.Marshal(object)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal loyalty object: %v", passerrors.ErrUpstreamWallet, err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, loyaltyObjectPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("%w: failed to create insert request: %v", passerrors.ErrUpstreamWallet, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: insert request failed: %v", passerrors.ErrUpstreamWallet, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: insert returned status %d", passerrors.ErrUpstreamWallet, resp.StatusCode)
	}

	c.logger.Info("Loyalty object inserted.", zap.String("pass-id", object.ID))

	return nil
}

func (c *Client) loyaltyObjectExists(ctx context.Context, objectID string) (bool, error) {
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, loyaltyObjectPath, objectID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("%w: failed to create lookup request: %v", passerrors.ErrUpstreamWallet, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: lookup request failed: %v", passerrors.ErrUpstreamWallet, err)
	}

	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return true, nil
	default:
		return false, fmt.Errorf("%w: lookup returned status %d", passerrors.ErrUpstreamWallet, resp.StatusCode)
	}
}
