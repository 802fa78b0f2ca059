package circlo

import (
	"bytes"
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

const DefaultBaseURL = "https://api.getcirclo.com"

type Logger interface {
	Info(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
}

// Response is the uniform envelope of every call. Data is set on 2xx,
// Error carries the upstream body otherwise. Transport failures map to 502.
type Response struct {
	StatusCode int `json:"status_code"`
	Data       any `json:"data,omitempty"`
	Error      any `json:"error,omitempty"`
}

func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type Post struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type AgentProfile struct {
	Name      string `json:"name,omitempty"`
	Username  string `json:"username,omitempty"`
	Niche     string `json:"niche,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Endpoint  string `json:"endpoint,omitempty"`
	IsAgent   bool   `json:"is_agent,omitempty"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     Logger
}

// NewClient builds a client bound to one token. Close releases idle connections.
func NewClient(baseURL, token string, timeout time.Duration, logger Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      NormalizeToken(token),
		httpClient: &http.Client{Timeout: timeout, Transport: http.DefaultTransport.(*http.Transport).Clone()},
		logger:     logger,
	}
}

// NormalizeToken strips a stored "Bearer " prefix so the header is never double-prefixed.
func NormalizeToken(token string) string {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[len("bearer "):])
	}
	return token
}

// MaskToken keeps the first and last four characters.
func MaskToken(token string) string {
	token = NormalizeToken(token)
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) HasToken() bool { return c.token != "" }

func (c *Client) GetUserPreferences(ctx context.Context, userID string) Response {
	return c.do(ctx, http.MethodGet, "/api/user-preferences/user/"+url.PathEscape(userID), nil, nil)
}

func (c *Client) GetAllUserPreferences(ctx context.Context, page, limit int) Response {
	return c.do(ctx, http.MethodGet, "/api/user-preferences", pageQuery(page, limit), nil)
}

func (c *Client) GetPostsByKeywords(ctx context.Context, keywords string, page, limit int) Response {
	q := pageQuery(page, limit)
	q.Set("keywords", keywords)
	return c.do(ctx, http.MethodGet, "/api/posts/by-keywords", q, nil)
}

func (c *Client) CreatePost(ctx context.Context, post Post) Response {
	return c.do(ctx, http.MethodPost, "/api/user-preferences/recommend/create-post", nil, post)
}

func (c *Client) CreateAgent(ctx context.Context, profile any) Response {
	return c.do(ctx, http.MethodPost, "/api/profiles/agent", nil, profile)
}

// UpdateAgent tries PATCH first and retries with PUT when the API rejects the method.
func (c *Client) UpdateAgent(ctx context.Context, agentID string, fields any) Response {
	path := "/api/profiles/agent/" + url.PathEscape(agentID)
	resp := c.do(ctx, http.MethodPatch, path, nil, fields)
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusMethodNotAllowed {
		c.logInfo("PATCH not supported, retrying with PUT", map[string]interface{}{"agent_id": agentID})
		return c.do(ctx, http.MethodPut, path, nil, fields)
	}
	return resp
}

func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) Response {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return Response{StatusCode: http.StatusBadGateway, Error: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return Response{StatusCode: http.StatusBadGateway, Error: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logError("circlo request failed", map[string]interface{}{"method": method, "path": path, "error": err.Error()})
		return Response{StatusCode: http.StatusBadGateway, Error: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return Response{StatusCode: http.StatusBadGateway, Error: err.Error()}
	}
	content := decodeBody(raw)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logError("circlo upstream error", map[string]interface{}{"method": method, "path": path, "status": resp.StatusCode})
		return Response{StatusCode: resp.StatusCode, Error: content}
	}
	return Response{StatusCode: resp.StatusCode, Data: content}
}

// decodeBody returns parsed JSON when possible and the raw text otherwise.
func decodeBody(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

func pageQuery(page, limit int) url.Values {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

func (c *Client) logInfo(msg string, details map[string]interface{}) {
	if c.logger != nil {
		c.logger.Info("CIRCLO", msg, details)
	}
}

func (c *Client) logError(msg string, details map[string]interface{}) {
	if c.logger != nil {
		c.logger.Error("CIRCLO", msg, details)
	}
}
