package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopmitra/billing-api/internal/domain/entity"
	"github.com/shopmitra/billing-api/internal/domain/port"
	"github.com/shopmitra/billing-api/pkg/apperror"
	"github.com/shopmitra/billing-api/pkg/pagination"
)

// Config holds the shop backend connection settings.
type Config struct {
	BaseURL string
	// Token is the service token the terminal API authenticates to the
	// backend with.
	Token   string
	Timeout time.Duration
}

// Client is the REST client for the shop-management backend: bill
// settlement plus the product and customer search the terminal UI
// proxies through.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

var _ port.BillingBackend = (*Client)(nil)

// NewClient creates a shop backend client.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log.With().Str("component", "backend").Logger(),
	}
}

// envelope mirrors the backend's standard response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// SubmitBill posts a finalized bill and returns the invoice reference.
func (c *Client) SubmitBill(ctx context.Context, bill *entity.BillPayload) (*entity.InvoiceRef, error) {
	body, err := json.Marshal(bill)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/v1/bills", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.prepare(req)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Msg("bill submission request failed")
		return nil, apperror.NewAppError(http.StatusBadGateway, "Billing service is unreachable")
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil, fmt.Errorf("backend: decoding bill response: %w", err)
		}
		return nil, apperror.NewAppError(resp.StatusCode, "Bill could not be submitted")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		message := env.Message
		if message == "" {
			message = "Bill could not be submitted"
		}
		return nil, apperror.NewAppError(resp.StatusCode, message)
	}

	var invoice entity.InvoiceRef
	if err := json.Unmarshal(env.Data, &invoice); err != nil {
		return nil, fmt.Errorf("backend: decoding invoice reference: %w", err)
	}
	return &invoice, nil
}

// SearchProducts returns a page of catalog products matching the query.
func (c *Client) SearchProducts(ctx context.Context, query string, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Product], error) {
	return search[entity.Product](ctx, c, "/api/v1/products", query, params)
}

// SearchCustomers returns a page of customers matching the query.
func (c *Client) SearchCustomers(ctx context.Context, query string, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Customer], error) {
	return search[entity.Customer](ctx, c, "/api/v1/customers", query, params)
}

func search[T any](ctx context.Context, c *Client, path, query string, params *pagination.PaginationParams) (*pagination.PaginatedResult[T], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	q := url.Values{}
	if query != "" {
		q.Set("search", query)
	}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("per_page", strconv.Itoa(params.PerPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	c.prepare(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.NewAppError(http.StatusBadGateway, "Billing service is unreachable")
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("backend: decoding search response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		message := env.Message
		if message == "" {
			message = "Search failed"
		}
		return nil, apperror.NewAppError(resp.StatusCode, message)
	}

	var result pagination.PaginatedResult[T]
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return nil, fmt.Errorf("backend: decoding search items: %w", err)
	}
	return &result, nil
}

func (c *Client) prepare(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
}
