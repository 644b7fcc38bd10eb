package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/pkg/config"
)

// Client talks to the live processor over HTTPS. Every call is bounded by
// the configured request timeout; any transport, status, or decode failure
// is reported as an upstream failure and never mutates booking state.
type Client struct {
	baseURL    string
	secretKey  string
	multiplier float64
	httpClient *http.Client
}

func NewClient(cfg config.PaystackConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		secretKey:  cfg.SecretKey,
		multiplier: cfg.ExchangeMultiplier,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

type initializeBody struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status string `json:"status"`
	} `json:"data"`
}

func (c *Client) Initialize(ctx context.Context, req InitializeReq) (*Transaction, error) {
	body := initializeBody{
		Email:       req.Email,
		Amount:      c.minorUnits(req.Amount),
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal initialize request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/transaction/initialize", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build initialize request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("initialize transaction %s: %w: %v", req.Reference, domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	var out initializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode initialize response: %w: %v", domain.ErrUpstreamFailure, err)
	}
	if !out.Status {
		return nil, fmt.Errorf("initialize rejected: %s: %w", out.Message, domain.ErrUpstreamFailure)
	}

	return &Transaction{
		AuthorizationURL: out.Data.AuthorizationURL,
		AccessCode:       out.Data.AccessCode,
		Reference:        out.Data.Reference,
	}, nil
}

func (c *Client) Verify(ctx context.Context, reference string) (bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return false, fmt.Errorf("build verify request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("verify transaction %s: %w: %v", reference, domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode verify response: %w: %v", domain.ErrUpstreamFailure, err)
	}

	return out.Status && out.Data.Status == "success", nil
}

func (c *Client) Mode() config.PaymentMode { return config.PaymentModeLive }

// minorUnits converts a major-unit amount to the processor's integer minor
// unit, applying the configured exchange multiplier.
func (c *Client) minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100 * c.multiplier))
}

var _ Gateway = (*Client)(nil)
