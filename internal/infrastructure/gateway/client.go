package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopmitra/billing-api/internal/domain/entity"
	"github.com/shopmitra/billing-api/internal/domain/port"
	"github.com/shopmitra/billing-api/pkg/apperror"
	"golang.org/x/time/rate"
)

// Config holds the hosted payment gateway credentials and limits.
type Config struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Timeout   time.Duration
	// RequestsPerSecond throttles order creation client-side; gateways
	// rate-limit API keys and a burst of retries must not trip that.
	RequestsPerSecond float64
	Burst             int
}

// Client talks to the hosted payment gateway's order API. Only order
// creation lives here: signature verification belongs to the shop
// backend, which holds the key secret server-side as well.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

var _ port.PaymentGateway = (*Client)(nil)

// NewClient creates a gateway client.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		log:     log.With().Str("component", "gateway").Logger(),
	}
}

// KeyID returns the public key id the hosted checkout is opened with.
func (c *Client) KeyID() string {
	return c.cfg.KeyID
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type gatewayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder reserves a gateway-side order for the amount in minor
// currency units.
func (c *Client) CreateOrder(ctx context.Context, req port.GatewayOrderRequest) (*entity.GatewayOrder, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(createOrderRequest{
		Amount:   req.AmountMinor,
		Currency: req.Currency,
		Receipt:  req.Receipt,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Error().Err(err).Msg("gateway order request failed")
		return nil, apperror.NewAppError(http.StatusBadGateway, "Payment gateway is unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var gwErr gatewayError
		message := "Payment gateway rejected the order"
		if err := json.NewDecoder(resp.Body).Decode(&gwErr); err == nil && gwErr.Error.Description != "" {
			message = gwErr.Error.Description
		}
		c.log.Error().Int("status", resp.StatusCode).Str("message", message).Msg("gateway order rejected")
		return nil, apperror.NewAppError(http.StatusBadGateway, message)
	}

	var order createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("gateway: decoding order response: %w", err)
	}

	c.log.Info().Str("gateway_order_id", order.ID).Int64("amount", order.Amount).Msg("gateway order created")
	return &entity.GatewayOrder{
		ID:          order.ID,
		AmountMinor: order.Amount,
		Currency:    order.Currency,
	}, nil
}
