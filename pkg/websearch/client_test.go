package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_NoKeyReturnsMockedHits(t *testing.T) {
	c := NewClient("")

	for _, num := range []int{1, 3, 5} {
		res := c.Query(context.Background(), "ai expert", num)
		require.True(t, res.OK())
		require.Len(t, res.Hits, num)
		assert.Equal(t, "Mock Expert 1", res.Hits[0].Title)
		assert.Equal(t, "https://example.com/expert/1", res.Hits[0].Link)
	}

	// deterministic
	assert.Equal(t, c.Query(context.Background(), "x", 3), c.Query(context.Background(), "y", 3))
}

func TestQuery_ParsesOrganicResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ai expert singapore", r.URL.Query().Get("q"))
		assert.Equal(t, "key-1", r.URL.Query().Get("api_key"))
		_, _ = w.Write([]byte(`{"organic_results":[
			{"title":"A","link":"https://a","snippet":"sa"},
			{"position":2,"url":"https://b"},
			{"title":"C","link":"https://c"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("key-1", WithBaseURL(srv.URL))
	res := c.Query(context.Background(), "ai expert singapore", 2)

	require.True(t, res.OK())
	assert.Equal(t, []Hit{
		{Title: "A", Link: "https://a", Snippet: "sa"},
		{Title: "2", Link: "https://b"},
	}, res.Hits)
}

func TestQuery_UpstreamErrorKeepsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	res := NewClient("k", WithBaseURL(srv.URL)).Query(context.Background(), "q", 3)

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "boom", res.Body)
	assert.Empty(t, res.Hits)
}

func TestQuery_TransportFailureIs502AndScrubsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	res := NewClient("secret-key", WithBaseURL(base)).Query(context.Background(), "q", 3)

	assert.Equal(t, http.StatusBadGateway, res.StatusCode)
	assert.NotContains(t, res.Body, "secret-key")
}

func TestQuery_CachesSuccessfulResults(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"organic_results":[{"title":"A","link":"https://a"}]}`))
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithCache(NewMemoryCache(time.Minute), time.Minute))

	first := c.Query(context.Background(), "Bali Hotels", 3)
	second := c.Query(context.Background(), "  bali hotels ", 3)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}
