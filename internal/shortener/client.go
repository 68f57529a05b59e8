package shortener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dtroode/linkverify-server/internal/model"
)

const maxResponseSize = 64 << 10

var _ model.Shortener = (*Client)(nil)

var (
	// ErrEmptyShortURL is returned when the service answers without a shortened url.
	ErrEmptyShortURL = errors.New("shortener returned no url")

	// ErrInvalidShortURL is returned when the shortened url is not an absolute http(s) url.
	ErrInvalidShortURL = errors.New("shortener returned an invalid url")
)

type response struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ShortenedURL string `json:"shortenedUrl"`
}

// Client calls a link shortening API of the form <scheme>://<host>/api?api=<key>&url=<long url>.
type Client struct {
	httpClient *http.Client
	scheme     string
	host       string
	apiKey     string
}

// NewClient creates a shortener client. Outbound requests are traced with otelhttp.
// Deadlines come from the request context.
func NewClient(scheme, host, apiKey string) *Client {
	if scheme == "" {
		scheme = "https"
	}
	return &Client{
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		scheme:     scheme,
		host:       host,
		apiKey:     apiKey,
	}
}

// Configured reports whether host and credential are set.
func (c *Client) Configured() bool {
	return c.host != "" && c.apiKey != ""
}

// Shorten asks the service for a short form of longURL.
func (c *Client) Shorten(ctx context.Context, longURL string) (string, error) {
	if !c.Configured() {
		return "", errors.New("shortener is not configured")
	}

	endpoint := url.URL{
		Scheme:   c.scheme,
		Host:     c.host,
		Path:     "/api",
		RawQuery: url.Values{"api": {c.apiKey}, "url": {longURL}}.Encode(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build shortener request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the request url, which carries the api key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return "", fmt.Errorf("shortener request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read shortener response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("shortener responded with status %d", resp.StatusCode)
	}

	var decoded response
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode shortener response: %w", err)
	}

	if decoded.ShortenedURL == "" {
		if decoded.Message != "" {
			return "", fmt.Errorf("%w: %s", ErrEmptyShortURL, decoded.Message)
		}
		return "", ErrEmptyShortURL
	}

	short, err := url.Parse(decoded.ShortenedURL)
	if err != nil || (short.Scheme != "http" && short.Scheme != "https") || short.Host == "" {
		return "", ErrInvalidShortURL
	}

	return decoded.ShortenedURL, nil
}
