package shortener

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	errpkg "github.com/veranemoloko/tinyshare/internal/errors"
	"github.com/veranemoloko/tinyshare/internal/metrics"
)

// maxBodySize caps the first line of the response.
const maxBodySize = 64 * 1024

// Client calls a TinyURL-style API: GET <endpoint>?url=<long url> answers
// with the short URL on the first line of a text body.
type Client struct {
	endpoint   *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the given endpoint.
// The HTTP client gets the provided timeout and no retry logic.
func NewClient(endpoint string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse endpoint: unsupported scheme %q", u.Scheme)
	}

	return &Client{
		endpoint: u,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// RequestURL builds the API URL for longURL, keeping any query already on the endpoint.
func (c *Client) RequestURL(longURL string) string {
	u := *c.endpoint
	q := u.Query()
	q.Set("url", longURL)
	u.RawQuery = q.Encode()
	return u.String()
}

// Shorten performs one round trip and returns the short URL.
// Every failure is a *errors.NetworkError.
func (c *Client) Shorten(ctx context.Context, longURL string) (string, error) {
	start := time.Now()
	short, err := c.shorten(ctx, longURL)
	metrics.ShortenDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ShortenRequestsTotal.WithLabelValues("failure").Inc()
		c.logger.Warn("shorten failed",
			"url", longURL,
			"error", err,
		)
		return "", err
	}

	metrics.ShortenRequestsTotal.WithLabelValues("success").Inc()
	c.logger.Debug("shorten succeeded",
		"url", longURL,
		"short_url", short,
		"duration", time.Since(start),
	)
	return short, nil
}

func (c *Client) shorten(ctx context.Context, longURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RequestURL(longURL), nil)
	if err != nil {
		return "", &errpkg.NetworkError{Msg: "create request", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &errpkg.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errpkg.UnexpectedStatus(resp.StatusCode)
	}

	line, err := firstLine(resp.Body)
	if err != nil {
		return "", &errpkg.NetworkError{StatusCode: resp.StatusCode, Msg: "read response", Err: err}
	}
	if line == "" {
		return "", &errpkg.NetworkError{StatusCode: resp.StatusCode, Err: errpkg.ErrEmptyResponse}
	}

	return line, nil
}

// firstLine returns the first line of r without its terminator. The line,
// including its terminator, must fit in maxBodySize bytes.
func firstLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(io.LimitReader(r, maxBodySize+1)).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if len(line) > maxBodySize {
		return "", errpkg.ErrLineTooLong
	}
	return strings.TrimSpace(line), nil
}
