package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	t.Run("returns body and sends headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "feed-bouncer-test", r.Header.Get("User-Agent"))
			assert.Contains(t, r.Header.Get("Accept"), "application/rss+xml")
			assert.NotEmpty(t, r.Header.Get("Accept-Language"))
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(rssFixture))
		}))
		defer server.Close()

		fetcher := NewHTTPFetcher(5*time.Second, "feed-bouncer-test")
		body, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, rssFixture, string(body))

		doc, err := Parse(body, server.URL)
		require.NoError(t, err)
		assert.Len(t, doc.Items, 2)
	})

	t.Run("error status", func(t *testing.T) {
		for _, code := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusTooManyRequests} {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
			}))
			fetcher := NewHTTPFetcher(5*time.Second, "")
			_, err := fetcher.Fetch(context.Background(), server.URL)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "unexpected status code")
			server.Close()
		}
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(rssFixture))
		}))
		defer server.Close()

		fetcher := NewHTTPFetcher(50*time.Millisecond, "")
		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
	})

	t.Run("canceled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(rssFixture))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewHTTPFetcher(time.Second, "").Fetch(ctx, server.URL)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := NewHTTPFetcher(time.Second, "").Fetch(context.Background(), "://bad")
		require.Error(t, err)
	})
}
