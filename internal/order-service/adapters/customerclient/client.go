// Package customerclient looks customers up in the customer service over HTTP.
package customerclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/shop-services/internal/order-service/ports"
	"github.com/jcmexdev/shop-services/internal/pkg/constants"
)

// Client implements ports.CustomerDirectory against GET /customers/{id}.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	newBackOff func() backoff.BackOff
	logger     *slog.Logger
}

var _ ports.CustomerDirectory = (*Client)(nil)

type Option func(*Client)

// WithHTTPClient replaces the instrumented default client. The timeout passed
// to New is not applied to it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBackOff sets the delay policy between retries.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(c *Client) { c.newBackOff = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for the customer service at baseURL. timeout bounds each
// attempt; retries is the number of extra attempts made after a transport
// error or a 5xx answer.
func New(baseURL string, timeout time.Duration, retries int, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		retries: max(retries, 0),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 100 * time.Millisecond
			b.MaxInterval = time.Second
			return b
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type customerResponse struct {
	CustomerID      int64   `json:"customer_id"`
	Email           string  `json:"email"`
	ShippingAddress *string `json:"shipping_address"`
}

// LookupCustomer returns ports.ErrCustomerNotFound when the customer service
// answers 404. That answer is final and never retried.
func (c *Client) LookupCustomer(ctx context.Context, id int64) (ports.Customer, error) {
	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.retries)), ctx)

	attempt := 0
	customer, err := backoff.RetryWithData(func() (ports.Customer, error) {
		attempt++
		cust, err := c.fetch(ctx, id)
		if err != nil && !isPermanent(err) {
			c.logger.WarnContext(ctx, "customer lookup attempt failed",
				"customer_id", id, "attempt", attempt, "error", err)
		}
		return cust, err
	}, policy)
	if err != nil {
		return ports.Customer{}, err
	}
	return customer, nil
}

func (c *Client) fetch(ctx context.Context, id int64) (ports.Customer, error) {
	url := fmt.Sprintf("%s/customers/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ports.Customer{}, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(constants.HeaderXRequestId, requestID(ctx))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ports.Customer{}, backoff.Permanent(err)
		}
		return ports.Customer{}, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var body customerResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return ports.Customer{}, backoff.Permanent(fmt.Errorf("decode customer %d: %w", id, err))
		}
		return ports.Customer{
			ID:              body.CustomerID,
			Email:           body.Email,
			ShippingAddress: body.ShippingAddress,
		}, nil
	case resp.StatusCode == http.StatusNotFound:
		return ports.Customer{}, backoff.Permanent(ports.ErrCustomerNotFound)
	case resp.StatusCode >= http.StatusInternalServerError:
		return ports.Customer{}, &statusError{url: url, code: resp.StatusCode, body: readSnippet(resp.Body)}
	default:
		return ports.Customer{}, backoff.Permanent(&statusError{url: url, code: resp.StatusCode, body: readSnippet(resp.Body)})
	}
}

type statusError struct {
	url  string
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d: %s", e.url, e.code, e.body)
}

func isPermanent(err error) bool {
	var p *backoff.PermanentError
	return errors.As(err, &p)
}

// requestID forwards the inbound request id, or mints one.
func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}
