// Package client talks to the onboarding API. Its Sink lets a wizard running
// outside the server submit over HTTP.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lusoconnect/onboarding/internal/pricing"
	"github.com/lusoconnect/onboarding/internal/wizard"
)

const (
	defaultTimeout       = 10 * time.Second
	idempotencyKeyHeader = "Idempotency-Key"
)

// Client calls the onboarding API.
type Client struct {
	baseURL        string
	timeout        time.Duration
	idempotencyKey string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithIdempotencyKey fixes the key sent with submissions.
func WithIdempotencyKey(key string) Option {
	return func(c *Client) { c.idempotencyKey = key }
}

// New builds a client for the API rooted at baseURL, e.g. http://localhost:8080.
// Every submission made through one client reuses a single idempotency key, so
// a retried registration is never created twice.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}
	c := &Client{
		baseURL:        strings.TrimRight(u.String(), "/"),
		timeout:        defaultTimeout,
		idempotencyKey: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ wizard.Sink = (*Client)(nil)

type registerResponse struct {
	MemberID    string `json:"memberId"`
	AccessToken string `json:"accessToken"`
}

type errorResponse struct {
	Errors map[string]string `json:"errors"`
}

type conflictResponse struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

// Submit posts the payload to the members endpoint.
func (c *Client) Submit(ctx context.Context, payload wizard.Payload) (wizard.Receipt, error) {
	timeout, err := c.budget(ctx)
	if err != nil {
		return wizard.Receipt{}, fmt.Errorf("%w: %v", wizard.ErrUnavailable, err)
	}

	agent := fiber.Post(c.baseURL + "/api/v1/members").
		Set(idempotencyKeyHeader, c.idempotencyKey).
		JSON(payload).
		Timeout(timeout)
	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return wizard.Receipt{}, fmt.Errorf("%w: %v", wizard.ErrUnavailable, errors.Join(errs...))
	}

	switch {
	case status == http.StatusCreated || status == http.StatusOK:
		var resp registerResponse
		if err := json.Unmarshal(body, &resp); err != nil || resp.MemberID == "" {
			return wizard.Receipt{}, fmt.Errorf("%w: malformed response", wizard.ErrUnavailable)
		}
		return wizard.Receipt{MemberID: resp.MemberID, AccessToken: resp.AccessToken}, nil
	case status == http.StatusConflict:
		return wizard.Receipt{}, conflict(body)
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		return wizard.Receipt{}, rejection(body)
	default:
		return wizard.Receipt{}, fmt.Errorf("%w: server answered %d", wizard.ErrUnavailable, status)
	}
}

type plansResponse struct {
	Cycle pricing.Cycle   `json:"cycle"`
	Plans []pricing.Offer `json:"plans"`
}

// Plans fetches the plan catalog priced for cycle.
func (c *Client) Plans(ctx context.Context, cycle pricing.Cycle) ([]pricing.Offer, error) {
	timeout, err := c.budget(ctx)
	if err != nil {
		return nil, err
	}
	agent := fiber.Get(c.baseURL + "/api/v1/plans").
		QueryString("cycle=" + url.QueryEscape(string(cycle))).
		Timeout(timeout)
	var resp plansResponse
	status, _, errs := agent.Struct(&resp)
	if len(errs) > 0 {
		return nil, fmt.Errorf("fetch plans: %w", errors.Join(errs...))
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("fetch plans: server answered %d", status)
	}
	return resp.Plans, nil
}

// budget derives the request timeout from the context deadline.
func (c *Client) budget(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return 0, context.DeadlineExceeded
	}
	return timeout, nil
}

// conflict tells a taken email apart from the other 409s the API sends, such
// as a request still running under the same idempotency key. Only the former
// is final; the rest are worth retrying.
func conflict(body []byte) error {
	var resp conflictResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Code == wizard.CodeDuplicateEmail {
		return wizard.ErrDuplicateEmail
	}
	reason := resp.Message
	if reason == "" {
		reason = strings.TrimSpace(string(body))
	}
	return fmt.Errorf("%w: conflict: %s", wizard.ErrUnavailable, reason)
}

func rejection(body []byte) error {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Errors) == 0 {
		return wizard.ErrRejected
	}
	fields := make([]string, 0, len(resp.Errors))
	for field, msg := range resp.Errors {
		fields = append(fields, field+": "+msg)
	}
	sort.Strings(fields)
	return fmt.Errorf("%w: %s", wizard.ErrRejected, strings.Join(fields, "; "))
}
