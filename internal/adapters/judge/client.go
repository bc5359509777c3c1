// Package judge fetches profiles and submission histories from the
// Codeforces API.
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/time/rate"

	model "github.com/okian/cfinsight/internal/domain/model"
	"github.com/okian/cfinsight/pkg/logger"
	"github.com/okian/cfinsight/pkg/metrics"
)

const (
	defaultAPIURL       = "https://codeforces.com/api"
	defaultTimeout      = 10 * time.Second
	defaultRateInterval = 2 * time.Second
	defaultRateBurst    = 2
	defaultUserAgent    = "cfinsight/1.0"
	maxBodyBytes        = 64 << 20

	endpointUserInfo   = "user.info"
	endpointUserStatus = "user.status"

	statusOK = "OK"
)

// Fetcher retrieves a handle's profile and full submission list.
type Fetcher interface {
	Fetch(ctx context.Context, handle string) (model.Profile, []model.RawSubmission, error)
}

// Client is a rate-limited Codeforces API client. It never retries.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	apiURL      string
	userAgent   string
	log         logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAPIURL sets the API root, e.g. "https://codeforces.com/api".
func WithAPIURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.apiURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit allows one request per interval with the given burst.
// A non-positive interval disables pacing.
func WithRateLimit(interval time.Duration, burst int) Option {
	return func(c *Client) {
		if burst <= 0 {
			burst = 1
		}
		if interval <= 0 {
			c.rateLimiter = rate.NewLimiter(rate.Inf, burst)
			return
		}
		c.rateLimiter = rate.NewLimiter(rate.Every(interval), burst)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a new judge API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		rateLimiter: rate.NewLimiter(rate.Every(defaultRateInterval), defaultRateBurst),
		apiURL:      defaultAPIURL,
		userAgent:   defaultUserAgent,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the common wrapper of every API answer.
type envelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

// Fetch issues user.info then user.status for handle. Any failure aborts
// the whole fetch.
func (c *Client) Fetch(ctx context.Context, handle string) (model.Profile, []model.RawSubmission, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return model.Profile{}, nil, fmt.Errorf("%w: empty handle", ErrNotFound)
	}

	var profiles []model.Profile
	if err := c.call(ctx, endpointUserInfo, url.Values{"handles": {handle}}, schemaUserInfo, &profiles); err != nil {
		return model.Profile{}, nil, err
	}

	var subs []model.RawSubmission
	if err := c.call(ctx, endpointUserStatus, url.Values{"handle": {handle}}, schemaUserStatus, &subs); err != nil {
		return model.Profile{}, nil, err
	}
	if subs == nil {
		subs = []model.RawSubmission{}
	}
	metrics.RecordSubmissionsFetched(len(subs))

	c.log.Debug(ctx, "fetched judge data",
		logger.String("handle", handle),
		logger.Int("submissions", len(subs)),
	)
	return profiles[0], subs, nil
}

// call performs one paced GET and decodes the envelope result into out.
func (c *Client) call(ctx context.Context, endpoint string, q url.Values, schema string, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordJudgeRequest(endpoint, Outcome(err), float64(time.Since(start).Milliseconds()))
		if err != nil {
			metrics.RecordErrorByComponent("judge", Outcome(err))
			c.log.Warn(ctx, "judge request failed",
				logger.String("endpoint", endpoint),
				logger.Error(err),
			)
		}
	}()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: rate limiter: %w", ErrTransport, endpoint, err)
	}

	reqURL := fmt.Sprintf("%s/%s?%s", c.apiURL, endpoint, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: build request: %w", ErrTransport, endpoint, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTransport, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %s: read body: %w", ErrTransport, endpoint, err)
	}

	env, err := decodeEnvelope(body, schema)
	if err != nil {
		if !success(resp.StatusCode) {
			return fmt.Errorf("%w: %s: HTTP %d", ErrTransport, endpoint, resp.StatusCode)
		}
		return fmt.Errorf("%w: %s: %w", ErrMalformed, endpoint, err)
	}

	if env.Status != statusOK {
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError ||
			strings.Contains(strings.ToLower(env.Comment), "limit exceeded") {
			return fmt.Errorf("%w: %s: %s", ErrTransport, endpoint, env.Comment)
		}
		return fmt.Errorf("%w: %s: %s", ErrNotFound, endpoint, env.Comment)
	}
	if !success(resp.StatusCode) {
		return fmt.Errorf("%w: %s: HTTP %d", ErrTransport, endpoint, resp.StatusCode)
	}

	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("%w: %s: decode result: %w", ErrMalformed, endpoint, err)
	}
	return nil
}

// decodeEnvelope validates body against the named schema and decodes it.
func decodeEnvelope(body []byte, schema string) (*envelope, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	compiled, err := compiledSchema(schema)
	if err != nil {
		return nil, err
	}
	if err := compiled.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return &env, nil
}

func success(code int) bool { return code >= 200 && code < 300 }

// ProblemURL builds the public link of a problem. Defaulted values produce
// a link that does not resolve; callers display it anyway.
func ProblemURL(base string, contestID int, index string) string {
	return fmt.Sprintf("%s/contest/%d/problem/%s", strings.TrimRight(base, "/"), contestID, index)
}
