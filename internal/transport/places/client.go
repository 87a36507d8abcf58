package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/nearbite/internal/domain"
	"github.com/kailas-cloud/nearbite/internal/metrics"
	"github.com/kailas-cloud/nearbite/internal/version"
)

// DefaultBaseURL is the Google Maps web-service root.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api"

const (
	defaultTimeout   = 10 * time.Second
	defaultRateLimit = 50
	photoMaxWidth    = 400
)

// Client talks to the Google Places and Geocoding web services.
type Client struct {
	apiKey   string
	baseURL  string
	language string
	http     *http.Client
	limiter  *rate.Limiter
	logger   *zap.Logger
}

// Config holds the places provider settings.
type Config struct {
	APIKey    string
	BaseURL   string
	Language  string
	Timeout   time.Duration
	RateLimit float64 // requests per second, shared by all calls of this client
	// HTTPClient overrides the pooled default client (tests).
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates a places client. The HTTP client is pooled and shared by every request.
func NewClient(cfg *Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = defaultRateLimit
	}
	hc := cfg.HTTPClient
	if hc == nil {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.MaxIdleConns = 50
		tr.MaxIdleConnsPerHost = 50
		hc = &http.Client{Timeout: timeout, Transport: tr}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	burst := int(rps)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		apiKey:   cfg.APIKey,
		baseURL:  baseURL,
		language: cfg.Language,
		http:     hc,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		logger:   logger,
	}
}

// NearbyRequest describes one nearby-search page.
// When PageToken is set every other field is ignored by the provider.
type NearbyRequest struct {
	Location  domain.Coordinate
	Radius    int
	Type      string
	Keyword   string
	PageToken string
}

// NearbySearch runs one nearby-search page. ZERO_RESULTS is not an error.
func (c *Client) NearbySearch(ctx context.Context, req NearbyRequest) (*NearbySearchResponse, error) {
	params := url.Values{}
	if req.PageToken != "" {
		params.Set("pagetoken", req.PageToken)
	} else {
		params.Set("location", formatLatLng(req.Location))
		params.Set("radius", strconv.Itoa(req.Radius))
		if req.Type != "" {
			params.Set("type", req.Type)
		}
		if req.Keyword != "" {
			params.Set("keyword", req.Keyword)
		}
		c.setLanguage(params)
	}

	var resp NearbySearchResponse
	if err := c.get(ctx, "nearbysearch", "/place/nearbysearch/json", params, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return nil, fmt.Errorf("nearby search: %w", err)
	}
	return &resp, nil
}

// Details fetches one place with the given field selector.
// A non-OK provider status is returned as data, not as an error.
func (c *Client) Details(ctx context.Context, placeID string, fields []string) (*DetailsResponse, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}
	c.setLanguage(params)

	var resp DetailsResponse
	if err := c.get(ctx, "details", "/place/details/json", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Geocode resolves free text into matches. ZERO_RESULTS yields an empty response.
func (c *Client) Geocode(ctx context.Context, query string) (*GeocodeResponse, error) {
	params := url.Values{}
	params.Set("address", query)
	c.setLanguage(params)

	var resp GeocodeResponse
	if err := c.get(ctx, "geocode", "/geocode/json", params, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return nil, fmt.Errorf("geocode: %w", err)
	}
	return &resp, nil
}

// PhotoURL returns a browser-loadable photo URL with the API key embedded.
func (c *Client) PhotoURL(photoReference string) string {
	params := url.Values{}
	params.Set("maxwidth", strconv.Itoa(photoMaxWidth))
	params.Set("photoreference", photoReference)
	params.Set("key", c.apiKey)
	return c.baseURL + "/place/photo?" + params.Encode()
}

func (c *Client) setLanguage(params url.Values) {
	if c.language != "" {
		params.Set("language", c.language)
	}
}

func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limit wait: %w", endpoint, err)
	}

	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("%s build request: %w", endpoint, err)
	}
	req.Header.Set("User-Agent", version.UserAgent())

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.PlacesRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PlacesRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		return fmt.Errorf("%s request: %w: %w", endpoint, err, domain.ErrPlacesProviderError)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.PlacesRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		return fmt.Errorf("%s read body: %w: %w", endpoint, err, domain.ErrPlacesProviderError)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.PlacesRequestsTotal.WithLabelValues(endpoint, "http_"+strconv.Itoa(resp.StatusCode)).Inc()
		return fmt.Errorf("%s returned status %d: %w", endpoint, resp.StatusCode, domain.ErrPlacesProviderError)
	}

	if err := json.Unmarshal(body, out); err != nil {
		metrics.PlacesRequestsTotal.WithLabelValues(endpoint, "malformed").Inc()
		return fmt.Errorf("%s parse response: %w: %w", endpoint, err, domain.ErrPlacesProviderError)
	}

	metrics.PlacesRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	c.logger.Debug("places request completed",
		zap.String("endpoint", endpoint),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// checkStatus maps provider status strings to errors. OK and ZERO_RESULTS pass.
func checkStatus(status, message string) error {
	switch status {
	case StatusOK, StatusZeroResults:
		return nil
	case StatusOverQueryLimit:
		return fmt.Errorf("provider status %s: %w", status, domain.ErrRateLimited)
	}
	if message != "" {
		return fmt.Errorf("provider status %s: %s: %w", status, message, domain.ErrPlacesProviderError)
	}
	return fmt.Errorf("provider status %s: %w", status, domain.ErrPlacesProviderError)
}

func formatLatLng(c domain.Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}
