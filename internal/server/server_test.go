package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"haruhi-agent-be/internal/bootstrap"
	"haruhi-agent-be/internal/config"
	"haruhi-agent-be/internal/dto"
	"haruhi-agent-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig leaves every collaborator unconfigured: no database, no LLM key,
// no search key, no Google client, no Circlo token.
func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			LogFilePath:        filepath.Join(dir, "haruhi.log"),
			CorsAllowedOrigins: "*",
			StaticDir:          dir,
		},
		Ai: config.AIConfig{
			LLMProvider: "openai",
			LLMModel:    "gpt-3.5-turbo",
		},
		Circlo: config.CircloConfig{
			BaseURL: "http://127.0.0.1:1",
			Timeout: time.Second,
		},
		Agent: config.AgentConfig{
			DefaultUserID: "demo-user",
			ActionTimeout: time.Second,
			SlotTimezone:  "Asia/Singapore",
			HelperDelay:   time.Millisecond,
			BookingTopic:  "BOOKING_RECORDED",
		},
	}
}

func setupApp(t *testing.T) *fiber.App {
	cfg := testConfig(t)
	container := bootstrap.NewContainer(nil, cfg)
	t.Cleanup(container.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, container.ConsumerService.Consume(ctx))

	return New(cfg, container).GetApp()
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any, headers map[string]string) *http.Response {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func TestHealthz_ReportsUnavailableLLM(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.False(t, health.LLMAvailable)
	assert.NotEmpty(t, health.LLMError)
	assert.False(t, health.Search)
	assert.False(t, health.Calendar)
	assert.False(t, health.Circlo)
}

func TestHook_DegradesToEcho(t *testing.T) {
	app := setupApp(t)

	tests := []struct {
		name     string
		body     any
		wantEcho string
	}{
		{"plain message", map[string]string{"message": "find an expert"}, "Haruhi di sini, saya menerima pesan Anda: find an expert"},
		{"missing message is still answered", map[string]string{"user_id": "u1"}, "Haruhi di sini, saya menerima pesan Anda: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/agents/haruhi/hook", tt.body, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var out dto.HookResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.Equal(t, strings.TrimSpace(tt.wantEcho), strings.TrimSpace(out.Response))
			assert.Empty(t, out.Details)
		})
	}
}

func TestHook_HTMLOnRequest(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/agents/haruhi/hook?format=html", map[string]string{"message": "<script>alert(1)</script>hi"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "<script>")
	assert.Contains(t, string(body), "hi")
}

func TestHook_FormWithOffers(t *testing.T) {
	app := setupApp(t)

	form := url.Values{"message": {"cari hotel di Bali"}, "area": {"Canggu"}}
	req := httptest.NewRequest(http.MethodPost, "/agents/haruhi/hook?format=html", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Canggu Surf Lodge")
}

func TestWebSearch_MockedWithoutKey(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/websearch/query", map[string]any{"q": "golang", "num": 2}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.WebSearchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Results, 2)
	assert.Equal(t, "Mock Expert 1", out.Results[0].Title)

	resp = doJSON(t, app, http.MethodPost, "/websearch/query", map[string]any{"q": "  "}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOrchestrator_ExecuteRecordsBooking(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/orchestrator/execute?format=json", map[string]any{
		"message": "Need a flight and hotel to Bali next week",
		"user":    map[string]string{"id": "u1"},
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "u1", result["user_id"])
	assert.NotEmpty(t, result["flights"])
	assert.NotEmpty(t, result["hotels"])

	assert.Eventually(t, func() bool {
		resp := doJSON(t, app, http.MethodGet, "/orchestrator/bookings/u1", nil, nil)
		if resp.StatusCode != http.StatusOK {
			return false
		}
		var page serverutils.BaseResponse[dto.BookingListResponse]
		if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
			return false
		}
		return page.Data.Total == 1 && page.Data.Bookings[0].Kind == "itinerary"
	}, 3*time.Second, 50*time.Millisecond)
}

func TestOrchestrator_EmptyMessageRejected(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/orchestrator/execute", map[string]any{"message": ""}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCalendar_NotConfigured(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/gcal/oauth/start?user_id=u1", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/gcal/oauth/callback?code=abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStaticAvatar_Fallback(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/static/haruhi.jpg", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "svg")
}

func TestMetrics_Exposed(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "go_goroutines")
}
