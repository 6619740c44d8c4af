// Package spotify provides a resilient Spotify Web API client for harvest and enrichment
package spotify

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	perr "spinlog/internal/platform/errors"
	"spinlog/internal/platform/logger"
)

const (
	baseURLDefault     = "https://api.spotify.com/v1"
	accountsURLDefault = "https://accounts.spotify.com"
	defaultTimeout     = 10 * time.Second
	defaultUA          = "spinlog"
	defaultMaxRetry    = 4
	defaultRetryBase   = 500 * time.Millisecond

	// tokens are refreshed this long before their reported expiry
	tokenSkew = 30 * time.Second
)

// Options tunes endpoints, credentials and retry behavior
type Options struct {
	BaseURL     string
	AccountsURL string
	UserAgent   string
	Timeout     time.Duration

	// App credentials plus the user's long lived refresh token
	ClientID     string
	ClientSecret string
	RefreshToken string

	// Caps for retrying rate limited and transient 5xx responses
	MaxRetries int
	RetryBase  time.Duration
}

// Client is a minimal Web API client with token refresh and retry support
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(time.Duration)

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

// NewClient builds a Client, filling any unset Options with defaults
func NewClient(opt Options) *Client {
	if opt.BaseURL == "" {
		opt.BaseURL = baseURLDefault
	}
	if opt.AccountsURL == "" {
		opt.AccountsURL = accountsURLDefault
	}
	if opt.UserAgent == "" {
		opt.UserAgent = defaultUA
	}
	if opt.Timeout <= 0 {
		opt.Timeout = defaultTimeout
	}
	if opt.MaxRetries <= 0 {
		opt.MaxRetries = defaultMaxRetry
	}
	if opt.RetryBase <= 0 {
		opt.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: opt.Timeout},
		opts:  opt,
		log:   *logger.Named("spotify"),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// accessToken returns a cached bearer token, refreshing via the accounts
// service when missing or close to expiry
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.now().Add(tokenSkew).Before(c.tokenExp) {
		return c.token, nil
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {c.opts.RefreshToken},
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.opts.AccountsURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "spotify token request failed")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.opts.ClientID, c.opts.ClientSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "spotify token refresh failed")
	}
	defer func() { _ = discardBody(resp.Body) }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", perr.Unauthorizedf("spotify token refresh status %d body %s", resp.StatusCode, string(body))
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "spotify token read failed")
	}
	if err := json.Unmarshal(b, &tok); err != nil {
		return "", perr.JSONErrf("spotify token decode: %v", err)
	}
	if tok.AccessToken == "" {
		return "", perr.Unauthorizedf("spotify token refresh returned no access_token")
	}

	exp := tok.ExpiresIn
	if exp <= 0 {
		exp = 3600
	}
	c.token = tok.AccessToken
	c.tokenExp = c.now().Add(time.Duration(exp) * time.Second)
	c.log.Debug().Time("expires", c.tokenExp).Msg("spotify token refreshed")
	return c.token, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// get issues an authorized GET with retries and rate limit handling
// and returns the response body
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	tries := 0
	retried401 := false
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		tok, err := c.accessToken(ctx)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+path, nil)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "spotify new request failed")
		}
		req.Header.Set("Authorization", "Bearer "+tok)
		req.Header.Set("User-Agent", c.opts.UserAgent)

		began := c.now()
		resp, err := c.http.Do(req)
		took := c.now().Sub(began)

		if err != nil {
			if !c.shouldRetry(tries) {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "spotify do failed")
			}
			delay := c.backoff(tries)
			c.log.Warn().Dur("retry_in", delay).Int("attempt", tries).Msg("spotify transport error retrying")
			c.sleep(delay)
			tries++
			continue
		}

		c.log.Debug().
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", tries).
			Dur("latency", took).
			Msg("spotify http response")

		switch resp.StatusCode {
		case http.StatusOK:
			body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
			cerr := resp.Body.Close()
			if err != nil {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "spotify read body failed")
			}
			if cerr != nil {
				c.log.Error().Err(cerr).Str("path", path).Msg("spotify close body failed")
			}
			return body, nil
		case http.StatusUnauthorized:
			// one forced refresh covers an externally revoked token
			_ = discardBody(resp.Body)
			if retried401 {
				return nil, perr.Unauthorizedf("spotify unauthorized after token refresh")
			}
			c.invalidateToken()
			retried401 = true
			continue
		case http.StatusTooManyRequests:
			hold := retryAfter(resp.Header.Get("Retry-After"))
			if hold <= 0 {
				hold = c.backoff(tries)
			}
			if !c.shouldRetry(tries) {
				_ = discardBody(resp.Body)
				return nil, perr.Newf(perr.ErrorCodeTooManyRequests, "spotify rate limited")
			}
			c.log.Warn().Dur("sleep", hold).Msg("spotify rate limited backing off")
			_ = discardBody(resp.Body)
			c.sleep(hold)
			tries++
			continue
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			if !c.shouldRetry(tries) {
				_ = discardBody(resp.Body)
				return nil, perr.Newf(perr.ErrorCodeUnavailable, "spotify transient server error")
			}
			delay := c.backoff(tries)
			c.log.Warn().Dur("retry_in", delay).Int("attempt", tries).Msg("spotify transient error retrying")
			_ = discardBody(resp.Body)
			c.sleep(delay)
			tries++
			continue
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return nil, perr.Newf(perr.ErrorCodeUnknown, "spotify unexpected status %d body %s", resp.StatusCode, string(body))
		}
	}
}

// backoff doubles the base per attempt and caps the result at 30s
func (c *Client) backoff(attempt int) time.Duration {
	const ceiling = 30 * time.Second
	d := c.opts.RetryBase << uint(attempt)
	if d <= 0 || d > ceiling {
		return ceiling
	}
	return d
}

func (c *Client) shouldRetry(n int) bool {
	return n < c.opts.MaxRetries
}

// retryAfter parses a Retry-After header holding whole seconds
func retryAfter(h string) time.Duration {
	n, _ := strconv.Atoi(h)
	return time.Duration(n) * time.Second
}

func discardBody(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}
