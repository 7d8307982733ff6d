package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/five82/portal/internal/request"
)

// Fetcher is the read side of the catalog API. It is implemented by *Client
// and faked in tests.
type Fetcher interface {
	ListResources(ctx context.Context, filter Filter, page int) (Page, error)
	GetResource(ctx context.Context, id int) (Resource, error)
	GetResources(ctx context.Context, ids []int) ([]Resource, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

const (
	DefaultBaseURL   = "https://rickandmortyapi.com/api"
	DefaultUserAgent = "portal/0.1"
	DefaultTimeout   = 10 * time.Second

	resourcePath = "character"
)

// Options tunes a Client. Zero values select defaults; a RateLimit of zero
// or below disables client-side throttling.
type Options struct {
	Timeout    time.Duration
	RateLimit  float64
	UserAgent  string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client talks to the catalog HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	logger    *log.Logger
}

// NewClient builds a Client rooted at baseURL, e.g. https://rickandmortyapi.com/api.
func NewClient(baseURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Client{
		baseURL:   base,
		http:      httpClient,
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: userAgent,
		logger:    logger,
	}, nil
}

// BaseURL returns the API root the client resolves paths against.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL.String()
}

// ListResources fetches one page of the list endpoint. Only non-empty filters
// are sent; page is always sent. A 404 means nothing matched and yields an
// empty page.
func (c *Client) ListResources(ctx context.Context, filter Filter, page int) (Page, error) {
	if c == nil {
		return Page{}, fmt.Errorf("client is nil")
	}
	if page < 1 {
		page = 1
	}
	values := url.Values{}
	if name := strings.TrimSpace(filter.Name); name != "" {
		values.Set("name", name)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		values.Set("status", status)
	}
	if gender := strings.TrimSpace(filter.Gender); gender != "" {
		values.Set("gender", gender)
	}
	if species := strings.TrimSpace(filter.Species); species != "" {
		values.Set("species", species)
	}
	values.Set("page", strconv.Itoa(page))

	u := c.baseURL.JoinPath(resourcePath)
	u.RawQuery = values.Encode()

	var payload Page
	if err := c.doURL(ctx, u, &payload); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return EmptyPage(), nil
		}
		return Page{}, err
	}
	if payload.Results == nil {
		payload.Results = []Resource{}
	}
	return payload, nil
}

// GetResource fetches a single record. Any non-2xx status, 404 included, is
// a RemoteError.
func (c *Client) GetResource(ctx context.Context, id int) (Resource, error) {
	if c == nil {
		return Resource{}, fmt.Errorf("client is nil")
	}
	u := c.baseURL.JoinPath(resourcePath, strconv.Itoa(id))
	var payload Resource
	if err := c.doURL(ctx, u, &payload); err != nil {
		return Resource{}, err
	}
	return payload, nil
}

// GetResources fetches several records in one request. Duplicate ids are
// collapsed. The API answers a single id with an object and several with an
// array; both are accepted. Ids the API does not know are left out.
func (c *Client) GetResources(ctx context.Context, ids []int) ([]Resource, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	parts := make([]string, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		parts = append(parts, strconv.Itoa(id))
	}
	if len(parts) == 0 {
		return []Resource{}, nil
	}

	u := c.baseURL.JoinPath(resourcePath, strings.Join(parts, ","))
	var raw json.RawMessage
	if err := c.doURL(ctx, u, &raw); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return []Resource{}, nil
		}
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []Resource
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, &RemoteError{Err: fmt.Errorf("decode response: %w", err)}
		}
		return list, nil
	}
	var single Resource
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, &RemoteError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return []Resource{single}, nil
}

func (c *Client) doURL(ctx context.Context, u *url.URL, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return classify(ctx, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	requestID := request.IDFromContext(ctx)
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "url", u.String(), "request_id", requestID, "err", err)
		return classify(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request done",
		"url", u.String(),
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteError{StatusCode: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		if ctx.Err() != nil {
			return classify(ctx, err)
		}
		return &RemoteError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func isStatus(err error, code int) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.StatusCode == code
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_base %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
