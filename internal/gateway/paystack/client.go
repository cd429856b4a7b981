// Package paystack implements the payment gateway contract: transaction
// initialization, webhook signature verification and the customer, plan
// and subscription resources.
package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://api.paystack.co"
	defaultTimeout = 15 * time.Second
)

// ErrUnavailable wraps transport-level failures so callers can report a
// purchase attempt as failed without inspecting the cause.
var ErrUnavailable = errors.New("payment gateway unavailable")

type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient builds a gateway client. The secret key authenticates API
// calls and keys the webhook signature HMAC.
func NewClient(secretKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithTimeout bounds every gateway call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: timeout} }
}

// envelope is the common response wrapper on every endpoint.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) call(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: invalid response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode >= 400 || !env.Status {
		return fmt.Errorf("%w: %s", ErrUnavailable, env.Message)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: invalid response data: %v", ErrUnavailable, err)
		}
	}
	return nil
}

func (c *Client) InitializeTransaction(ctx context.Context, email string, amountMinor int64, metadata Metadata) (*Authorization, error) {
	body := map[string]interface{}{
		"email":    email,
		"amount":   amountMinor,
		"metadata": metadata,
	}
	var auth Authorization
	if err := c.call(ctx, http.MethodPost, "/transaction/initialize", body, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// VerifySignature checks the webhook signature header against an
// HMAC-SHA512 of the raw payload keyed with the secret.
func (c *Client) VerifySignature(payload []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(payload)
	computed := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(computed), []byte(signature)) == 1
}

func (c *Client) GetCustomer(ctx context.Context, emailOrCode string) (string, error) {
	var customer struct {
		CustomerCode string `json:"customer_code"`
	}
	path := "/customer/" + url.PathEscape(emailOrCode)
	if err := c.call(ctx, http.MethodGet, path, nil, &customer); err != nil {
		return "", err
	}
	if customer.CustomerCode == "" {
		return "", fmt.Errorf("customer not found for %s", emailOrCode)
	}
	return customer.CustomerCode, nil
}

func (c *Client) CreatePlan(ctx context.Context, name, interval string, amountMinor int64) (string, error) {
	body := map[string]interface{}{
		"name":     name,
		"interval": interval,
		"amount":   amountMinor,
	}
	var plan struct {
		PlanCode string `json:"plan_code"`
	}
	if err := c.call(ctx, http.MethodPost, "/plan", body, &plan); err != nil {
		return "", err
	}
	return plan.PlanCode, nil
}

func (c *Client) CreateSubscription(ctx context.Context, customerCode, planCode string, startDate *time.Time) (*Subscription, error) {
	body := map[string]interface{}{
		"customer": customerCode,
		"plan":     planCode,
	}
	if startDate != nil {
		body["start_date"] = startDate.UTC().Format(time.RFC3339)
	}
	var sub Subscription
	if err := c.call(ctx, http.MethodPost, "/subscription", body, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}
