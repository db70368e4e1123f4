// Package geocode wraps the OpenCage forward/reverse geocoding API behind a
// persistent response cache with graceful degradation: callers always get a
// Result, never an error, so a flaky provider degrades match quality instead
// of failing batch runs.
package geocode

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ailandscape/landscape-cli/internal/resilience"
)

const defaultBaseURL = "https://api.opencagedata.com/geocode/v1/json"

// availabilityTTL is how long one availability probe result is trusted
// before a fresh live lookup is made.
const availabilityTTL = 5 * time.Minute

// testAddresses are reliably geocodable landmarks used by the availability
// probe, keyed by alpha-2 country code.
var testAddresses = map[string]string{
	"FR": "5 Avenue Anatole France, 75007 Paris",
	"DE": "Pariser Platz, 10117 Berlin",
	"IT": "Piazza del Colosseo, 1, 00184 Roma RM",
	"NL": "Dam, 1012 NP Amsterdam",
	"ES": "Puerta del Sol, 28013 Madrid",
}

// Client is the geocoding contract the import pipeline depends on.
type Client interface {
	// Forward geocodes an address. countryHint biases results toward an
	// alpha-2 country when non-empty. Never returns an error: provider
	// failures yield a zero-confidence Result.
	Forward(ctx context.Context, address, countryHint string, limit int, useCache bool) Result

	// Reverse geocodes a coordinate pair with the same caching and
	// fallback discipline as Forward.
	Reverse(ctx context.Context, lat, lng float64, useCache bool) Result

	// SingleBest forces limit=1 and applies quality filtering: nil for a
	// nil address and for confidence-zero results. "Good result or
	// nothing" for the import pipeline.
	SingleBest(ctx context.Context, address *string, countryHint string) *Result

	// IsAvailable checks the API credential and performs one live, uncached
	// probe lookup. The verdict is memoized for five minutes when useCache
	// is true.
	IsAvailable(ctx context.Context, useCache bool) bool
}

// Option configures the OpenCage client.
type Option func(*openCage)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *openCage) { c.httpClient = hc }
}

// WithBaseURL overrides the provider endpoint (tests point it at httptest).
func WithBaseURL(u string) Option {
	return func(c *openCage) { c.baseURL = u }
}

// WithCache wires the persistent response cache.
func WithCache(cache Cache) Option {
	return func(c *openCage) { c.cache = cache }
}

// WithRateLimit sets the requests-per-second limit for provider calls.
func WithRateLimit(rps float64) Option {
	return func(c *openCage) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// WithLanguage sets the response language (default "en").
func WithLanguage(lang string) Option {
	return func(c *openCage) { c.language = lang }
}

type openCage struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      Cache

	availMu      sync.Mutex
	availChecked time.Time
	available    bool
}

// NewClient creates an OpenCage-backed Client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &openCage{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		language:   "en",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(1, 1), // free-tier default: 1 req/s
		cache:      NopCache{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *openCage) Forward(ctx context.Context, address, countryHint string, limit int, useCache bool) Result {
	normalized := normalizeAddress(address, countryHint)

	params := map[string]any{
		"language":  c.language,
		"pretty":    0,
		"no_record": 1,
		"limit":     limit,
	}
	if countryHint != "" {
		params["countrycode"] = strings.ToLower(countryHint)
	}

	return c.lookup(ctx, address, normalized, params, DirectionForward, useCache)
}

func (c *openCage) Reverse(ctx context.Context, lat, lng float64, useCache bool) Result {
	query := strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)

	params := map[string]any{
		"language":  c.language,
		"pretty":    0,
		"no_record": 1,
	}

	return c.lookup(ctx, query, query, params, DirectionReverse, useCache)
}

func (c *openCage) SingleBest(ctx context.Context, address *string, countryHint string) *Result {
	if address == nil {
		return nil
	}

	result := c.Forward(ctx, *address, countryHint, 1, true)
	if result.Confidence == 0 {
		return nil
	}
	return &result
}

func (c *openCage) IsAvailable(ctx context.Context, useCache bool) bool {
	if useCache {
		c.availMu.Lock()
		if !c.availChecked.IsZero() && time.Since(c.availChecked) < availabilityTTL {
			available := c.available
			c.availMu.Unlock()
			return available
		}
		c.availMu.Unlock()
	}

	available := c.probe(ctx)

	c.availMu.Lock()
	c.availChecked = time.Now()
	c.available = available
	c.availMu.Unlock()

	return available
}

// lookup implements the shared cache-first flow. query is what callers see
// in the Result; normalized is what is actually sent to the provider and
// keyed in the cache.
func (c *openCage) lookup(ctx context.Context, query, normalized string, params map[string]any, direction Direction, useCache bool) Result {
	key := cacheKey(normalized, params)

	if useCache {
		if payload, ok, err := c.cache.Get(ctx, key); err != nil {
			zap.L().Warn("geocode: cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			result, fmtErr := formatResponse(query, payload)
			if fmtErr != nil {
				zap.L().Error("geocode: malformed cached payload", zap.String("key", key), zap.Error(fmtErr))
				return Result{Query: query, Source: SourceOpenCage, Response: payload}
			}
			return result
		}
	}

	raw, err := c.request(ctx, normalized, params)
	if err != nil {
		zap.L().Error("geocode: provider call failed",
			zap.String("query", query),
			zap.String("direction", string(direction)),
			zap.Error(err),
		)
		return Result{Query: query, Source: SourceOpenCage, Response: emptyPayload}
	}

	// Store every live response, including semantically empty ones, so
	// queries known to fail do not hammer the provider on re-runs.
	if err := c.cache.Put(ctx, key, SourceOpenCage, direction, raw, CacheTTL); err != nil {
		zap.L().Warn("geocode: cache write failed", zap.String("key", key), zap.Error(err))
	}

	result, err := formatResponse(query, raw)
	if err != nil {
		zap.L().Error("geocode: malformed provider payload", zap.String("query", query), zap.Error(err))
		return Result{Query: query, Source: SourceOpenCage, Response: raw}
	}
	return result
}

func (c *openCage) request(ctx context.Context, query string, params map[string]any) ([]byte, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("key", c.apiKey)
	for name, value := range params {
		switch v := value.(type) {
		case string:
			values.Set(name, v)
		case int:
			values.Set(name, strconv.Itoa(v))
		}
	}

	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.OnRetry = resilience.RetryLogger("opencage", "lookup")

	return resilience.DoVal(ctx, retryCfg, func(ctx context.Context) ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "geocode: rate limit wait")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
		if err != nil {
			return nil, eris.Wrap(err, "geocode: build request")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "geocode: http")
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, eris.Wrap(err, "geocode: read body")
		}

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("geocode: provider returned HTTP %d", resp.StatusCode)
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}

		return body, nil
	})
}

// probe performs the live availability check: a superficially well-formed
// credential plus one uncached lookup of a known-good address.
func (c *openCage) probe(ctx context.Context) bool {
	if len(strings.TrimSpace(c.apiKey)) <= 10 {
		zap.L().Warn("geocode: API key is not configured properly")
		return false
	}

	const testCountry = "FR"
	result := c.Forward(ctx, testAddresses[testCountry], testCountry, 1, false)

	if !result.HasValidResponse() {
		zap.L().Warn("geocode: availability probe returned an invalid response")
		return false
	}
	if result.Confidence == 0 {
		zap.L().Warn("geocode: availability probe returned no meaningful results")
		return false
	}
	if !result.HasValidCoordinates() {
		zap.L().Warn("geocode: availability probe returned invalid coordinates")
		return false
	}

	zap.L().Info("geocode: availability check passed")
	return true
}
