package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/spendshred/internal/adapters/wire"
	"github.com/bnema/spendshred/internal/domain"
	"github.com/bnema/spendshred/internal/ports"
	"github.com/cenkalti/backoff/v4"
)

const (
	subscriptionsPath     = "/api/v1/subscriptions"
	defaultTimeout        = 15 * time.Second
	defaultListRetries    = 3
	maxErrorBodyBytes     = 4 << 10
	defaultInitialBackoff = 200 * time.Millisecond
)

// Client is a SubscriptionStore backed by a remote store gateway. Only List
// is retried; writes are sent once.
type Client struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	listRetries uint64
	backoff     func() backoff.BackOff
}

var _ ports.SubscriptionStore = (*Client)(nil)

type Option func(*Client)

// WithToken sets the bearer credential sent with every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithListRetries bounds how many times a failed List is retried.
func WithListRetries(retries uint64) Option {
	return func(c *Client) {
		c.listRetries = retries
	}
}

func WithBackOff(factory func() backoff.BackOff) Option {
	return func(c *Client) {
		if factory != nil {
			c.backoff = factory
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("store gateway url is empty")
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("parse store gateway url: %w", err)
	}

	c := &Client{
		baseURL:     trimmed,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		listRetries: defaultListRetries,
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = defaultInitialBackoff
			return b
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) List(ctx context.Context) ([]domain.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []wire.Subscription
	operation := func() error {
		records = nil
		err := c.doJSON(ctx, "list subscriptions", http.MethodGet, subscriptionsPath, nil, &records)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrSubscriptionNotFound) {
			return backoff.Permanent(&domain.TransportError{Op: "list subscriptions", StatusCode: http.StatusNotFound})
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.backoff(), c.listRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	subscriptions := make([]domain.Subscription, 0, len(records))
	for _, record := range records {
		sub, err := record.ToSubscription()
		if err != nil {
			return nil, &domain.TransportError{Op: "decode subscription " + record.ID, Err: err}
		}
		subscriptions = append(subscriptions, sub)
	}

	return subscriptions, nil
}

func (c *Client) Create(ctx context.Context, draft domain.SubscriptionDraft) (domain.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return domain.Subscription{}, err
	}

	var record wire.Subscription
	if err := c.doJSON(ctx, "create subscription", http.MethodPost, subscriptionsPath, wire.FromDraft(draft), &record); err != nil {
		return domain.Subscription{}, err
	}

	return c.decodeRecord("create subscription", record)
}

func (c *Client) Update(ctx context.Context, id domain.SubscriptionID, patch domain.SubscriptionPatch) (domain.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return domain.Subscription{}, err
	}

	path := subscriptionsPath + "/" + url.PathEscape(string(id))
	var record wire.Subscription
	if err := c.doJSON(ctx, "update subscription", http.MethodPatch, path, wire.FromPatch(patch), &record); err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return domain.Subscription{}, &domain.NotFoundError{ID: id}
		}
		return domain.Subscription{}, err
	}

	return c.decodeRecord("update subscription", record)
}

func (c *Client) decodeRecord(op string, record wire.Subscription) (domain.Subscription, error) {
	sub, err := record.ToSubscription()
	if err != nil {
		return domain.Subscription{}, &domain.TransportError{Op: op, Err: err}
	}

	return sub, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, body any, target any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(op, resp)
	}

	if target == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &domain.TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}

func statusError(op string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	var payload wire.Error
	_ = json.Unmarshal(data, &payload)
	message := strings.TrimSpace(payload.Error)
	if message == "" {
		message = strings.TrimSpace(string(data))
	}
	if message == "" {
		message = resp.Status
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &domain.NotFoundError{}
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return domain.NewValidationError(payload.Field, message)
	default:
		return &domain.TransportError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(message)}
	}
}

func retryable(err error) bool {
	var transportErr *domain.TransportError
	if !errors.As(err, &transportErr) {
		return false
	}

	return transportErr.StatusCode == 0 ||
		transportErr.StatusCode == http.StatusTooManyRequests ||
		transportErr.StatusCode >= 500
}
