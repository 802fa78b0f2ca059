package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/calendar/v3"
	EventsScope    = "https://www.googleapis.com/auth/calendar.events"
)

var ErrNotAuthorized = errors.New("not authorized")

// TokenStore keeps one OAuth token per user. LoadToken returns ErrNotAuthorized
// when the user never completed the consent flow.
type TokenStore interface {
	LoadToken(ctx context.Context, userID string) (*oauth2.Token, error)
	SaveToken(ctx context.Context, userID string, token *oauth2.Token) error
}

type Logger interface {
	Warn(module, message string, details map[string]interface{})
}

// EventRecorder is notified after every created event.
type EventRecorder interface {
	RecordEvent(ctx context.Context, userID string, event map[string]any) error
}

type EventRequest struct {
	Summary   string   `json:"summary"`
	StartISO  string   `json:"start_iso"`
	EndISO    string   `json:"end_iso"`
	Attendees []string `json:"attendees,omitempty"`
}

type Result struct {
	StatusCode int            `json:"status_code"`
	Event      map[string]any `json:"event,omitempty"`
	Error      string         `json:"error,omitempty"`
}

func (r Result) OK() bool {
	return r.StatusCode == http.StatusOK || r.StatusCode == http.StatusCreated
}

func NewOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{EventsScope},
		Endpoint:     google.Endpoint,
	}
}

type Client struct {
	conf     *oauth2.Config
	baseURL  string
	tokens   TokenStore
	recorder EventRecorder
	logger   Logger
}

type Option func(*Client)

// WithLogger reports failures that do not change the CreateEvent result.
func WithLogger(logger Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func NewClient(conf *oauth2.Config, baseURL string, tokens TokenStore, recorder EventRecorder, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		conf:     conf,
		baseURL:  strings.TrimRight(baseURL, "/"),
		tokens:   tokens,
		recorder: recorder,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether client id, secret and redirect are all set.
func (c *Client) Configured() bool {
	return c.conf != nil && c.conf.ClientID != "" && c.conf.ClientSecret != "" && c.conf.RedirectURL != ""
}

func (c *Client) AuthURL(state string) string {
	return c.conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

// Exchange trades an authorization code for a token and stores it for userID.
func (c *Client) Exchange(ctx context.Context, userID, code string) error {
	tok, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}
	if err := c.tokens.SaveToken(ctx, userID, tok); err != nil {
		return fmt.Errorf("store calendar token: %w", err)
	}
	return nil
}

// CreateEvent inserts an event in the user's primary calendar and sends invitations.
// It never returns an error; failures are encoded in Result.
func (c *Client) CreateEvent(ctx context.Context, userID string, req EventRequest) Result {
	tok, err := c.tokens.LoadToken(ctx, userID)
	if errors.Is(err, ErrNotAuthorized) || (err == nil && tok == nil) {
		return Result{StatusCode: http.StatusUnauthorized, Error: ErrNotAuthorized.Error()}
	}
	if err != nil {
		return Result{StatusCode: http.StatusInternalServerError, Error: err.Error()}
	}

	summary := req.Summary
	if summary == "" {
		summary = "Meeting"
	}
	body := map[string]any{
		"summary": summary,
		"start":   map[string]string{"dateTime": req.StartISO},
		"end":     map[string]string{"dateTime": req.EndISO},
	}
	if len(req.Attendees) > 0 {
		attendees := make([]map[string]string, 0, len(req.Attendees))
		for _, a := range req.Attendees {
			attendees = append(attendees, map[string]string{"email": a})
		}
		body["attendees"] = attendees
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return Result{StatusCode: http.StatusInternalServerError, Error: err.Error()}
	}

	src := c.conf.TokenSource(ctx, tok)
	hc := oauth2.NewClient(ctx, src)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/calendars/primary/events?sendUpdates=all", bytes.NewReader(raw))
	if err != nil {
		return Result{StatusCode: http.StatusInternalServerError, Error: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(httpReq)
	if err != nil {
		return Result{StatusCode: http.StatusBadGateway, Error: err.Error()}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{StatusCode: resp.StatusCode, Error: string(respBody)}
	}

	var event map[string]any
	if err := json.Unmarshal(respBody, &event); err != nil {
		return Result{StatusCode: http.StatusBadGateway, Error: fmt.Sprintf("decode calendar event: %v", err)}
	}

	// persist a refreshed token so the next call skips the refresh
	if fresh, err := src.Token(); err == nil && fresh.AccessToken != tok.AccessToken {
		if err := c.tokens.SaveToken(ctx, userID, fresh); err != nil {
			c.warn("Failed to store refreshed token", map[string]interface{}{"user_id": userID, "error": err.Error()})
		}
	}
	if c.recorder != nil {
		if err := c.recorder.RecordEvent(ctx, userID, event); err != nil {
			c.warn("Failed to record calendar event", map[string]interface{}{
				"user_id":  userID,
				"event_id": event["id"],
				"error":    err.Error(),
			})
		}
	}

	return Result{StatusCode: http.StatusCreated, Event: event}
}

func (c *Client) warn(msg string, details map[string]interface{}) {
	if c.logger != nil {
		c.logger.Warn("GCAL", msg, details)
	}
}
