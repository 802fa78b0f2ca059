package websearch

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
)

const defaultBaseURL = "https://serpapi.com/search.json"

type Hit struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Result is the uniform envelope of a search call. Transport failures are
// reported as 502 so callers only ever branch on StatusCode.
type Result struct {
	StatusCode int    `json:"status_code"`
	Hits       []Hit  `json:"results"`
	Body       string `json:"body,omitempty"`
}

func (r Result) OK() bool {
	return r.StatusCode == http.StatusOK
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      Cache
	cacheTTL   time.Duration
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cacheTTL:   10 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasProvider reports whether a real provider key is configured.
func (c *Client) HasProvider() bool {
	return c.apiKey != ""
}

// Query returns up to num hits. Without a provider key it answers with a
// deterministic mocked set of exactly num hits.
func (c *Client) Query(ctx context.Context, q string, num int) Result {
	if num <= 0 {
		num = 3
	}
	if !c.HasProvider() {
		return Result{StatusCode: http.StatusOK, Hits: MockHits(num)}
	}

	cacheKey := fmt.Sprintf("websearch:%d:%s", num, strings.ToLower(strings.TrimSpace(q)))
	if c.cache != nil {
		if hits, ok := c.cache.Get(ctx, cacheKey); ok {
			return Result{StatusCode: http.StatusOK, Hits: hits}
		}
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("api_key", c.apiKey)
	params.Set("num", strconv.Itoa(num))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Result{StatusCode: http.StatusBadGateway, Body: err.Error()}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{StatusCode: http.StatusBadGateway, Body: scrub(err.Error(), c.apiKey)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{StatusCode: http.StatusBadGateway, Body: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return Result{StatusCode: resp.StatusCode, Body: string(body)}
	}

	hits, err := parseOrganic(body, num)
	if err != nil {
		return Result{StatusCode: http.StatusBadGateway, Body: fmt.Sprintf("decode search response: %v", err)}
	}

	if c.cache != nil {
		c.cache.Set(ctx, cacheKey, hits, c.cacheTTL)
	}
	return Result{StatusCode: http.StatusOK, Hits: hits}
}

func MockHits(num int) []Hit {
	hits := make([]Hit, 0, num)
	for i := 1; i <= num; i++ {
		hits = append(hits, Hit{
			Title:   fmt.Sprintf("Mock Expert %d", i),
			Link:    fmt.Sprintf("https://example.com/expert/%d", i),
			Snippet: fmt.Sprintf("Expert %d profile", i),
		})
	}
	return hits
}

type organicItem struct {
	Title    string `json:"title"`
	Position int    `json:"position"`
	Link     string `json:"link"`
	URL      string `json:"url"`
	Snippet  string `json:"snippet"`
}

func parseOrganic(body []byte, num int) ([]Hit, error) {
	var payload struct {
		OrganicResults []organicItem `json:"organic_results"`
		Organic        []organicItem `json:"organic"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	items := payload.OrganicResults
	if len(items) == 0 {
		items = payload.Organic
	}
	if len(items) > num {
		items = items[:num]
	}

	hits := make([]Hit, 0, len(items))
	for _, it := range items {
		title := it.Title
		if title == "" && it.Position > 0 {
			title = strconv.Itoa(it.Position)
		}
		link := it.Link
		if link == "" {
			link = it.URL
		}
		hits = append(hits, Hit{Title: title, Link: link, Snippet: it.Snippet})
	}
	return hits, nil
}

func scrub(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "***")
}
