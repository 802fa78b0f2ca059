package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"haruhi-agent-be/internal/dto"
	"haruhi-agent-be/internal/service"
	"haruhi-agent-be/pkg/calendar"
	"haruhi-agent-be/pkg/circlo"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCircloService struct {
	prefs    circlo.Response
	gotPage  int
	gotLimit int
}

func (f *fakeCircloService) UserPreferences(_ context.Context, _ string) circlo.Response {
	return f.prefs
}

func (f *fakeCircloService) ListUserPreferences(_ context.Context, page, limit int) circlo.Response {
	f.gotPage, f.gotLimit = page, limit
	return circlo.Response{StatusCode: http.StatusOK, Data: []any{}}
}

func (f *fakeCircloService) PostsByKeywords(_ context.Context, _ string, _, _ int) circlo.Response {
	return circlo.Response{StatusCode: http.StatusOK, Data: []any{}}
}

func (f *fakeCircloService) CreatePost(_ context.Context, _ circlo.Post) circlo.Response {
	return circlo.Response{StatusCode: http.StatusCreated, Data: map[string]any{"id": "p1"}}
}

func (f *fakeCircloService) CreateAgent(_ context.Context, _ map[string]any) circlo.Response {
	return circlo.Response{StatusCode: http.StatusCreated}
}

func (f *fakeCircloService) Debug(_ context.Context) dto.CircloDebugResponse {
	return dto.CircloDebugResponse{BaseURL: circlo.DefaultBaseURL}
}

func signed(t *testing.T, secret string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "operator",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestCircloController_JwtAndProxy(t *testing.T) {
	const secret = "s3cret"
	svc := &fakeCircloService{prefs: circlo.Response{StatusCode: http.StatusNotFound, Error: "no such user"}}
	app := fiber.New()
	NewCircloController(svc, secret).RegisterRoutes(app)

	tests := []struct {
		name       string
		target     string
		auth       string
		wantStatus int
	}{
		{"missing token", "/circlo/user-preferences/u1", "", http.StatusUnauthorized},
		{"wrong secret", "/circlo/user-preferences/u1", "Bearer " + signed(t, "other"), http.StatusUnauthorized},
		{"upstream status propagated", "/circlo/user-preferences/u1", "Bearer " + signed(t, secret), http.StatusNotFound},
		{"keywords required", "/circlo/posts/by-keywords", "Bearer " + signed(t, secret), http.StatusBadRequest},
		{"list passes paging", "/circlo/user-preferences?page=2&limit=5", "Bearer " + signed(t, secret), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
	assert.Equal(t, 2, svc.gotPage)
	assert.Equal(t, 5, svc.gotLimit)
}

func TestCircloController_OpenWithoutSecret(t *testing.T) {
	app := fiber.New()
	NewCircloController(&fakeCircloService{}, "").RegisterRoutes(app)

	req := httptest.NewRequest(http.MethodPost, "/circlo/posts/create", strings.NewReader(`{"title":"t","body":"b"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "p1", out["id"])
}

type fakeCalendarService struct {
	event   calendar.Result
	sendErr error
}

func (f *fakeCalendarService) Configured() bool { return true }

func (f *fakeCalendarService) StartOAuth(_ context.Context, userID string) (*dto.OAuthStartResponse, error) {
	return &dto.OAuthStartResponse{AuthURL: "https://accounts.example/auth?state=s1", State: "s1"}, nil
}

func (f *fakeCalendarService) CompleteOAuth(_ context.Context, state, code string) (*dto.OAuthCallbackResponse, error) {
	if state == "" {
		return nil, service.ErrMissingState
	}
	if code == "" {
		return nil, service.ErrMissingCode
	}
	return &dto.OAuthCallbackResponse{UserID: "<u1>", Authorized: true}, nil
}

func (f *fakeCalendarService) CreateEvent(_ context.Context, _ dto.CreateEventRequest) calendar.Result {
	return f.event
}

func (f *fakeCalendarService) SendOAuthLink(_ context.Context, _ dto.SendOAuthRequest) (*dto.SendOAuthResponse, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &dto.SendOAuthResponse{Sent: true, Channel: "circlo"}, nil
}

func TestCalendarController_Callback(t *testing.T) {
	app := fiber.New()
	NewCalendarController(&fakeCalendarService{}).RegisterRoutes(app)

	tests := []struct {
		target     string
		wantStatus int
		wantBody   string
	}{
		{"/gcal/oauth/callback?code=c", http.StatusBadRequest, "Missing state"},
		{"/gcal/oauth/callback?state=s1", http.StatusBadRequest, "Missing code"},
		{"/gcal/oauth/callback?state=s1&code=c", http.StatusOK, "Google Calendar connected for user &lt;u1&gt;. You can close this window."},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}

func TestCalendarController_CreateEventAndSend(t *testing.T) {
	svc := &fakeCalendarService{event: calendar.Result{StatusCode: http.StatusUnauthorized, Error: "not authorized"}}
	app := fiber.New()
	NewCalendarController(svc).RegisterRoutes(app)

	post := func(target, body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	event := `{"user_id":"u1","start_iso":"2026-01-01T10:00:00Z","end_iso":"2026-01-01T10:30:00Z"}`
	assert.Equal(t, http.StatusBadRequest, post("/gcal/create-event", `{"user_id":"u1"}`).StatusCode)
	assert.Equal(t, http.StatusUnauthorized, post("/gcal/create-event", event).StatusCode)

	svc.event = calendar.Result{StatusCode: http.StatusOK, Event: map[string]any{"id": "e1"}}
	resp := post("/gcal/create-event", event)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "created", out["status"])

	assert.Equal(t, http.StatusBadRequest, post("/gcal/send-oauth", `{}`).StatusCode)
	assert.Equal(t, http.StatusOK, post("/gcal/send-oauth", `{"user_id":"u1"}`).StatusCode)

	svc.sendErr = &service.LinkDeliveryError{StatusCode: http.StatusForbidden, Upstream: "denied"}
	assert.Equal(t, http.StatusBadGateway, post("/gcal/send-oauth", `{"user_id":"u1"}`).StatusCode)
}

func TestWantsHTML(t *testing.T) {
	tests := []struct {
		name   string
		target string
		accept string
		want   bool
	}{
		{"default json", "/x", "", false},
		{"format query", "/x?format=html", "", true},
		{"accept html", "/x", "text/html", true},
		{"format json wins", "/x?format=json", "text/html", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/x", func(c *fiber.Ctx) error {
				if wantsHTML(c) {
					return c.SendString("html")
				}
				return c.SendString("json")
			})
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.want, string(body) == "html")
		})
	}
}
