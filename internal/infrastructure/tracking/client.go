// Package tracking posts project tracking updates to the customer-facing
// tracking service over HTTP.
package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/contracts/domain"
)

// Config points the client at the tracking endpoint. An empty URL disables
// delivery.
type Config struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// Client sends tracking updates with fasthttp.
type Client struct {
	cfg    Config
	client *fasthttp.Client
}

// New builds a Client. httpClient may be nil.
func New(cfg Config, httpClient *fasthttp.Client) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "contracts-tracking",
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxIdleConnDuration: time.Minute,
		}
	}
	return &Client{cfg: cfg, client: httpClient}
}

// Enabled reports whether an endpoint is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.URL != ""
}

// Send posts update as JSON. Non-2xx responses are errors.
func (c *Client) Send(ctx context.Context, update domain.TrackingUpdate) error {
	if !c.Enabled() {
		return nil
	}
	if update.OccurredAt.IsZero() {
		update.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(update)
	if err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.cfg.URL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if c.cfg.Token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+c.cfg.Token)
	}
	req.SetBody(body)

	timeout := c.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}

	if err := c.client.DoTimeout(req, resp, timeout); err != nil {
		return fmt.Errorf("tracking request: %w", err)
	}
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return fmt.Errorf("tracking request: unexpected status %d", code)
	}
	return nil
}
