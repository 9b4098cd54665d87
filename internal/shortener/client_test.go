package shortener

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errpkg "github.com/veranemoloko/tinyshare/internal/errors"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newStubAPI mimics the api-create.php endpoint; reply decides the response per long URL.
func newStubAPI(t *testing.T, reply func(w http.ResponseWriter, longURL string)) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/api-create.php", func(w http.ResponseWriter, r *http.Request) {
		reply(w, r.URL.Query().Get("url"))
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	c, err := NewClient(endpoint, 2*time.Second, newTestLogger())
	require.NoError(t, err)
	return c
}

func TestClient_Shorten_FirstLine(t *testing.T) {
	var got string
	server := newStubAPI(t, func(w http.ResponseWriter, longURL string) {
		got = longURL
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "http://tiny.example/abc\nignored")
	})

	c := newTestClient(t, server.URL+"/api-create.php")
	short, err := c.Shorten(context.Background(), "http://example.com/page?a=1&b=2")

	require.NoError(t, err)
	assert.Equal(t, "http://tiny.example/abc", short)
	assert.Equal(t, "http://example.com/page?a=1&b=2", got)
}

func TestClient_Shorten_CRLF(t *testing.T) {
	server := newStubAPI(t, func(w http.ResponseWriter, _ string) {
		_, _ = io.WriteString(w, "http://tiny.example/xyz\r\n")
	})

	short, err := newTestClient(t, server.URL+"/api-create.php").Shorten(context.Background(), "http://example.com")
	require.NoError(t, err)
	assert.Equal(t, "http://tiny.example/xyz", short)
}

func TestClient_Shorten_EmptyBody(t *testing.T) {
	server := newStubAPI(t, func(w http.ResponseWriter, _ string) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := newTestClient(t, server.URL+"/api-create.php").Shorten(context.Background(), "http://example.com")

	require.Error(t, err)
	assert.ErrorIs(t, err, errpkg.ErrEmptyResponse)
	assert.Equal(t, "empty response", err.Error())

	var netErr *errpkg.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusOK, netErr.StatusCode)
}

func TestClient_Shorten_EmptyFirstLine(t *testing.T) {
	server := newStubAPI(t, func(w http.ResponseWriter, _ string) {
		_, _ = io.WriteString(w, "\nhttp://tiny.example/late")
	})

	_, err := newTestClient(t, server.URL+"/api-create.php").Shorten(context.Background(), "http://example.com")
	assert.ErrorIs(t, err, errpkg.ErrEmptyResponse)
}

func TestClient_Shorten_LineTooLong(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no newline", body: "http://tiny.example/" + strings.Repeat("a", 71_680)},
		{name: "newline past the limit", body: "http://tiny.example/" + strings.Repeat("a", maxBodySize) + "\nnext"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newStubAPI(t, func(w http.ResponseWriter, _ string) {
				_, _ = io.WriteString(w, tt.body)
			})

			short, err := newTestClient(t, server.URL+"/api-create.php").Shorten(context.Background(), "http://example.com")

			require.Error(t, err)
			assert.Empty(t, short)
			assert.ErrorIs(t, err, errpkg.ErrLineTooLong)

			var netErr *errpkg.NetworkError
			require.ErrorAs(t, err, &netErr)
			assert.Equal(t, http.StatusOK, netErr.StatusCode)
		})
	}
}

func TestClient_Shorten_LineAtLimit(t *testing.T) {
	line := "http://tiny.example/" + strings.Repeat("a", maxBodySize-len("http://tiny.example/")-1)
	server := newStubAPI(t, func(w http.ResponseWriter, _ string) {
		_, _ = io.WriteString(w, line+"\n"+strings.Repeat("b", maxBodySize))
	})

	short, err := newTestClient(t, server.URL+"/api-create.php").Shorten(context.Background(), "http://example.com")

	require.NoError(t, err)
	assert.Equal(t, line, short)
}

func TestClient_Shorten_UnexpectedStatus(t *testing.T) {
	server := newStubAPI(t, func(w http.ResponseWriter, _ string) {
		http.Error(w, "Error", http.StatusInternalServerError)
	})

	_, err := newTestClient(t, server.URL+"/api-create.php").Shorten(context.Background(), "http://example.com")

	require.Error(t, err)
	assert.Equal(t, "unexpected response: 500", err.Error())

	var netErr *errpkg.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusInternalServerError, netErr.StatusCode)
}

func TestClient_Shorten_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL + "/api-create.php"
	server.Close()

	_, err := newTestClient(t, endpoint).Shorten(context.Background(), "http://example.com")

	var netErr *errpkg.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Zero(t, netErr.StatusCode)
	assert.NotNil(t, netErr.Unwrap())
}

func TestClient_Shorten_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := newStubAPI(t, func(w http.ResponseWriter, _ string) {
		<-release
	})
	defer close(release)

	c, err := NewClient(server.URL+"/api-create.php", 50*time.Millisecond, newTestLogger())
	require.NoError(t, err)

	_, err = c.Shorten(context.Background(), "http://example.com")
	var netErr *errpkg.NetworkError
	assert.ErrorAs(t, err, &netErr)
}

type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestClient_Shorten_ClosesBody(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "success", status: http.StatusOK, body: "http://tiny.example/a\n", wantErr: false},
		{name: "empty", status: http.StatusOK, body: "", wantErr: true},
		{name: "http error", status: http.StatusBadGateway, body: "bad gateway", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := &trackingBody{Reader: strings.NewReader(tt.body)}
			hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: tt.status, Body: body, Request: r, Header: http.Header{}}, nil
			})}

			c := newTestClient(t, "http://tinyurl.com/api-create.php").WithHTTPClient(hc)
			_, err := c.Shorten(context.Background(), "http://example.com")

			assert.Equal(t, tt.wantErr, err != nil)
			assert.True(t, body.closed, "response body must be closed")
		})
	}
}

func TestClient_RequestURL(t *testing.T) {
	c := newTestClient(t, "http://tinyurl.com/api-create.php?alias=")
	got := c.RequestURL("http://example.com/a b?x=1&y=2")

	assert.True(t, strings.HasPrefix(got, "http://tinyurl.com/api-create.php?"))
	assert.Contains(t, got, "url=http%3A%2F%2Fexample.com%2Fa+b%3Fx%3D1%26y%3D2")
	assert.Contains(t, got, "alias=")
}

func TestNewClient_InvalidEndpoint(t *testing.T) {
	_, err := NewClient("ftp://tinyurl.com", time.Second, newTestLogger())
	assert.Error(t, err)

	_, err = NewClient("http://[::1", time.Second, newTestLogger())
	assert.Error(t, err)
}

func TestClient_Shorten_CanceledContext(t *testing.T) {
	server := newStubAPI(t, func(w http.ResponseWriter, _ string) {
		_, _ = io.WriteString(w, "http://tiny.example/a")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, server.URL+"/api-create.php").Shorten(ctx, "http://example.com")
	assert.True(t, errors.Is(err, context.Canceled))
}
