package carrier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"shipquote/internal/logger"
	"shipquote/internal/shipment"
)

const maxResponseBytes = 1 << 20

var tracer = otel.Tracer("shipquote/internal/carrier")

// HTTPClient sends the single outbound request of a carrier fetch.
//
//go:generate mockgen -package=carrier_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues quote requests to carrier endpoints that share one base URL.
type Client struct {
	// baseURL is prefixed to every carrier path.
	baseURL string
	// httpClient performs the outbound calls.
	httpClient HTTPClient
	// header is copied onto every carrier request.
	header http.Header
	log    *logger.Logger
}

// ClientOption is a configuration option for the carrier client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for outbound calls.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader adds headers to every request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient creates a client addressing every carrier under baseURL.
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: http.DefaultClient,
		header:     http.Header{},
		log:        logger.Nop(),
	}
	for _, option := range options {
		option(c)
	}
	return c, nil
}

// Fetch asks carrier id to quote s. It performs exactly one outbound call and
// gives up as soon as ctx ends.
func (c *Client) Fetch(ctx context.Context, id ID, s shipment.Shipment) (Quote, error) {
	cd, ok := codecFor(id)
	if !ok {
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownCarrier, id)
	}

	ctx, span := tracer.Start(ctx, "carrier.fetch", trace.WithAttributes(attribute.String("carrier.id", string(id))))
	defer span.End()

	q, err := c.fetch(ctx, id, cd, s)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Quote{}, err
	}
	span.SetAttributes(attribute.Float64("carrier.amount", q.Amount))
	return q, nil
}

func (c *Client) fetch(ctx context.Context, id ID, cd codec, s shipment.Shipment) (Quote, error) {
	payload, err := cd.encode(s)
	if err != nil {
		return Quote{}, fmt.Errorf("carrier %s: encoding request: %w", id, err)
	}

	endpoint := c.baseURL + "/" + cd.path()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Quote{}, &NetworkError{Carrier: id, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header = c.header.Clone()
	req.Header.Set("Content-Type", cd.contentType())
	req.Header.Set("Accept", cd.contentType())

	res, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Quote{}, canceled(id, ctxErr)
		}
		return Quote{}, &NetworkError{Carrier: id, Err: fmt.Errorf("performing request: %w", err)}
	}
	defer res.Body.Close()

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.status_code", res.StatusCode))
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return Quote{}, &NetworkError{Carrier: id, Status: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Quote{}, canceled(id, ctxErr)
		}
		return Quote{}, &NetworkError{Carrier: id, Status: res.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}

	amount, err := cd.decode(body)
	if err != nil {
		return Quote{}, &DecodeError{Carrier: id, Err: err}
	}
	c.log.Debug("carrier quoted", "carrier", id, "amount", amount)
	return Quote{Carrier: id, Amount: amount}, nil
}
