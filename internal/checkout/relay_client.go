package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var ErrRelayNotConfigured = errors.New("payment relay URL is not configured")

// HTTPRelayClient calls the payment relay's POST /payment-sheet endpoint.
type HTTPRelayClient struct {
	baseURL string
	httpc   *http.Client
}

func NewHTTPRelayClient(baseURL string) (*HTTPRelayClient, error) {
	if baseURL == "" {
		return nil, ErrRelayNotConfigured
	}
	return &HTTPRelayClient{
		baseURL: baseURL,
		httpc: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

type paymentSheetRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type relayErrorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPRelayClient) CreatePaymentSheet(ctx context.Context, amountCents int64, currency string) (*SheetParams, error) {
	body, err := json.Marshal(paymentSheetRequest{Amount: amountCents, Currency: currency})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payment-sheet", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var relayErr relayErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&relayErr); err == nil && relayErr.Error != "" {
			return nil, fmt.Errorf("payment relay rejected request: %s", relayErr.Error)
		}
		return nil, fmt.Errorf("payment relay returned status %d", resp.StatusCode)
	}

	var params SheetParams
	if err := json.NewDecoder(resp.Body).Decode(&params); err != nil {
		return nil, fmt.Errorf("decode payment sheet params failed: %w", err)
	}
	if params.PaymentIntentSecret == "" || params.EphemeralKeySecret == "" || params.CustomerID == "" {
		return nil, errors.New("payment relay response is missing credentials")
	}
	return &params, nil
}
