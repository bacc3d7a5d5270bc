// Package client talks to a running sportsd over HTTP.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	service "github.com/jigu1688/sporttools-sub000/internal/app"
	"github.com/jigu1688/sporttools-sub000/internal/domain/model"
	"github.com/jigu1688/sporttools-sub000/internal/domain/types"
)

// ErrUnavailable is returned when the server cannot take the request now.
var ErrUnavailable = errors.New("server unavailable")

// APIError is an error response from the server.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap maps throttling and outages onto ErrUnavailable.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusTooManyRequests || e.Status == http.StatusServiceUnavailable {
		return ErrUnavailable
	}
	return nil
}

// Client is a typed wrapper over the HTTP API.
type Client struct {
	http *resty.Client
}

// Option configures the Client.
type Option func(*resty.Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

// WithRetries retries failed requests count times.
func WithRetries(count int) Option {
	return func(c *resty.Client) { c.SetRetryCount(count) }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetRetryWaitTime(200*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetError(&APIError{})
	rc.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() == http.StatusTooManyRequests
	})
	for _, opt := range opts {
		opt(rc)
	}
	return &Client{http: rc}
}

// Calculate scores a measurement without storing it.
func (c *Client) Calculate(ctx context.Context, m model.Measurement) (model.ScoreBreakdown, error) { //nolint:gocritic // hugeParam: request value
	var out model.ScoreBreakdown
	resp, err := c.http.R().SetContext(ctx).SetBody(m).SetResult(&out).Post("/scores/calculate")
	return out, check(resp, err, "calculate score")
}

// Submit queues a measurement for scoring.
func (c *Client) Submit(ctx context.Context, m model.Measurement) (service.SubmitResult, error) { //nolint:gocritic // hugeParam: request value
	var out service.SubmitResult
	resp, err := c.http.R().SetContext(ctx).SetBody(m).SetResult(&out).Post("/measurements")
	return out, check(resp, err, "submit measurement")
}

// Ranking returns the top limit students.
func (c *Client) Ranking(ctx context.Context, limit int) ([]types.Entry, error) {
	var out []types.Entry
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&out).
		Get("/ranking")
	return out, check(resp, err, "get ranking")
}

// Schedule returns the stored heats of a meet.
func (c *Client) Schedule(ctx context.Context, meetID string) ([]model.ScheduledHeat, error) {
	var out []model.ScheduledHeat
	resp, err := c.http.R().SetContext(ctx).
		SetPathParam("id", meetID).
		SetResult(&out).
		Get("/meets/{id}/schedule")
	return out, check(resp, err, "get schedule")
}

// Health reports whether the server answers /healthz.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/healthz")
	return check(resp, err, "health check")
}

func check(resp *resty.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !resp.IsError() {
		return nil
	}
	apiErr, ok := resp.Error().(*APIError)
	if !ok || apiErr == nil {
		apiErr = &APIError{Message: resp.Status()}
	}
	apiErr.Status = resp.StatusCode()
	return fmt.Errorf("%s: %w", op, apiErr)
}
