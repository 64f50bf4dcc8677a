package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"
)

var upstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "portal_upstream_requests_total",
		Help: "Requests issued to the content backend, by method and status.",
	},
	[]string{"method", "status"},
)

// Credentials is the session-owned token source a Client is bound to. The
// client never touches storage directly: reads and writes go through this
// interface so the owner of the session stays in one place.
type Credentials interface {
	AccessToken() string
	RefreshToken() string
	StoreAccessToken(ctx context.Context, token string) error
	// Invalidate clears every persisted session field. Called when a token
	// refresh is no longer possible; terminal for the session.
	Invalidate(ctx context.Context) error
}

type core struct {
	baseURL    string
	httpClient *http.Client
	onExpired  func()
	refreshing singleflight.Group
}

// Client performs HTTP calls against the content backend, attaching a bearer
// token when bound to credentials and recovering once from token expiry.
// The zero-credential client is used for public, unauthenticated reads.
type Client struct {
	core  *core
	creds Credentials
}

type Option func(*core)

func WithHTTPClient(h *http.Client) Option {
	return func(c *core) { c.httpClient = h }
}

// OnSessionExpired registers the terminal callback invoked after a failed
// refresh has cleared the session. The hosting layer decides what a dead
// session means (redirect, reload); the client only signals it.
func OnSessionExpired(fn func()) Option {
	return func(c *core) { c.onExpired = fn }
}

func New(baseURL string, opts ...Option) *Client {
	c := &core{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return &Client{core: c}
}

// With returns a copy of the client bound to the given credentials. The
// underlying transport and refresh guard are shared.
func (c *Client) With(creds Credentials) *Client {
	return &Client{core: c.core, creds: creds}
}

func (c *Client) BaseURL() string { return c.core.baseURL }

func (c *Client) token() string {
	if c.creds == nil {
		return ""
	}
	return c.creds.AccessToken()
}

// do issues the request and, on a 401 with credentials bound, performs
// exactly one refresh-and-retry. The retried response is final: no loop.
func (c *Client) do(ctx context.Context, method, endpoint, contentType string, body []byte) (*http.Response, error) {
	resp, err := c.send(ctx, method, endpoint, contentType, body, c.token())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || c.creds == nil {
		return resp, nil
	}

	token, refreshErr := c.refreshAccessToken(ctx)
	if refreshErr != nil {
		// Refresh failed and the session is already torn down. The original
		// 401 propagates unchanged.
		return resp, nil
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return c.send(ctx, method, endpoint, contentType, body, token)
}

func (c *Client) send(ctx context.Context, method, endpoint, contentType string, body []byte, token string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.core.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.core.httpClient.Do(req)
	if err != nil {
		upstreamRequestsTotal.WithLabelValues(method, "error").Inc()
		return nil, err
	}
	upstreamRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}

// refreshAccessToken exchanges the stored refresh token for a new access
// token. Concurrent callers holding the same refresh token share one
// in-flight exchange instead of racing. Any failure clears the session and
// fires the expiry callback.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	refresh := c.creds.RefreshToken()
	if refresh == "" {
		c.expireSession(ctx)
		return "", ErrSessionExpired
	}

	v, err, _ := c.core.refreshing.Do(refresh, func() (any, error) {
		return c.requestRefresh(ctx, refresh)
	})
	if err != nil {
		c.expireSession(ctx)
		return "", err
	}

	token := v.(string)
	if err := c.creds.StoreAccessToken(ctx, token); err != nil {
		return "", fmt.Errorf("storing refreshed token: %w", err)
	}
	return token, nil
}

func (c *Client) requestRefresh(ctx context.Context, refresh string) (string, error) {
	body, err := json.Marshal(map[string]string{"refresh": refresh})
	if err != nil {
		return "", err
	}
	resp, err := c.send(ctx, http.MethodPost, "/auth/token/refresh/", "application/json", body, "")
	if err != nil {
		return "", fmt.Errorf("token refresh: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("token refresh: status %d", resp.StatusCode)
	}

	var out struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("token refresh: %w", err)
	}
	return out.Access, nil
}

func (c *Client) expireSession(ctx context.Context) {
	if c.creds != nil {
		_ = c.creds.Invalidate(ctx)
	}
	if c.core.onExpired != nil {
		c.core.onExpired()
	}
}

// Verbs

// Get fetches endpoint and decodes the JSON body into out. Nil-valued params
// are omitted from the query string. Non-2xx responses surface as a
// *RequestError carrying only the status.
func (c *Client) Get(ctx context.Context, endpoint string, params Params, out any) error {
	if qs := params.encode(); qs != "" {
		endpoint += "?" + qs
	}
	resp, err := c.do(ctx, http.MethodGet, endpoint, "", nil)
	if err != nil {
		return fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{Method: http.MethodGet, Endpoint: endpoint, Status: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decoding response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) Post(ctx context.Context, endpoint string, data, out any) error {
	return c.write(ctx, http.MethodPost, endpoint, data, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, data, out any) error {
	return c.write(ctx, http.MethodPut, endpoint, data, out)
}

func (c *Client) Patch(ctx context.Context, endpoint string, data, out any) error {
	return c.write(ctx, http.MethodPatch, endpoint, data, out)
}

// write performs a mutating call. Server rejections become a *RequestError
// with the parsed error body attached; transport failures stay plain wrapped
// errors, distinguishable by the missing response data.
func (c *Client) write(ctx context.Context, method, endpoint string, data, out any) error {
	contentType, body, err := encodeBody(data)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	resp, err := c.do(ctx, method, endpoint, contentType, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errData := map[string]any{}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errData); decodeErr != nil || len(errData) == 0 {
			errData = map[string]any{"message": fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))}
		}
		return &RequestError{Method: method, Endpoint: endpoint, Status: resp.StatusCode, Data: errData}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", method, endpoint, err)
	}
	return nil
}

// Delete returns nil on 204, decodes the body into out on any other 2xx.
func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	resp, err := c.do(ctx, http.MethodDelete, endpoint, "", nil)
	if err != nil {
		return fmt.Errorf("DELETE %s: %w", endpoint, err)
	}
	defer drain(resp)

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("DELETE %s: decoding response: %w", endpoint, err)
		}
		return nil
	default:
		return &RequestError{Method: http.MethodDelete, Endpoint: endpoint, Status: resp.StatusCode}
	}
}

// encodeBody serializes data for transport. A *Form keeps the multipart
// writer's own content type so the boundary survives; everything else is
// JSON.
func encodeBody(data any) (contentType string, body []byte, err error) {
	switch v := data.(type) {
	case nil:
		return "", nil, nil
	case *Form:
		return v.encode()
	default:
		body, err = json.Marshal(v)
		if err != nil {
			return "", nil, fmt.Errorf("encoding body: %w", err)
		}
		return "application/json", body, nil
	}
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
