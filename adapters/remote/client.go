package remote

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/layer-3/xosclaim/config"
	"github.com/layer-3/xosclaim/core"
	"go.uber.org/zap"
)

const maxErrorBody = 512

// Client talks to the wallet discovery, identity and reward APIs
type Client struct {
	api       config.APIConfig
	handshake retryPolicy
	rewards   retryPolicy
	proxy     string
	direct    *resty.Client
	logger    *zap.Logger
}

// NewClient creates a new remote client.
// Handshake calls go through cfg.Proxy; reward calls take the proxy per call.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	c := &Client{
		api:       cfg.API,
		handshake: exponentialPolicy(cfg.Handshake),
		rewards:   constantPolicy(cfg.Rewards),
		proxy:     cfg.Proxy,
		logger:    logger,
	}
	c.direct = c.newResty()
	return c
}

func (c *Client) newResty() *resty.Client {
	origin := strings.TrimSuffix(c.api.Origin, "/")
	return resty.New().
		SetTimeout(c.api.Timeout).
		SetHeaders(map[string]string{
			"Accept":          "application/json, text/plain, */*",
			"Accept-Language": "en-US,en;q=0.9",
			"Origin":          origin,
			"Referer":         origin + "/",
			"Sec-Fetch-Dest":  "empty",
			"Sec-Fetch-Mode":  "cors",
			"Sec-Fetch-Site":  "same-site",
			"User-Agent":      c.api.UserAgent,
		})
}

// restyFor returns a client routed through proxy, or the direct client when proxy is empty
func (c *Client) restyFor(proxy string) (*resty.Client, error) {
	if proxy == "" {
		return c.direct, nil
	}

	u, err := url.Parse(proxy)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidProxy, proxy)
	}

	return c.newResty().SetProxy(u.String()), nil
}

// StatusError is a non-2xx response
type StatusError struct {
	StatusCode int
	RetryAfter time.Duration
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps 429 to ErrRateLimited and every other status to ErrServer
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusTooManyRequests {
		return core.ErrRateLimited
	}
	return core.ErrServer
}

// classify turns a resty result into a transport, rate limit or server error
func classify(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrTransport, err)
	}
	if resp.IsSuccess() {
		return nil
	}

	body := strings.TrimSpace(resp.String())
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}

	return &StatusError{
		StatusCode: resp.StatusCode(),
		RetryAfter: parseRetryAfter(resp.Header().Get("Retry-After")),
		Body:       body,
	}
}

// isClientError reports a definitive 4xx answer other than 429
func isClientError(resp *resty.Response) bool {
	if resp == nil {
		return false
	}
	code := resp.StatusCode()
	return code >= 400 && code < 500 && code != http.StatusTooManyRequests
}

func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
