package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimited(t *testing.T, max int) http.Handler {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := Handler{
		Limiter: Limiter{Client: client, Prefix: "ratelimit:widget:"},
		Config: Config{
			Key:    CookieKey("cart_key"),
			Window: time.Second,
			Max:    max,
		},
	}
	return h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func ajaxRequest(cartKey string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/widget/ajax", nil)
	if cartKey != "" {
		req.AddCookie(&http.Cookie{Name: "cart_key", Value: cartKey})
	}
	return req
}

func TestMiddlewareThrottlesPerCartCookie(t *testing.T) {
	limited := newLimited(t, 1)

	first := httptest.NewRecorder()
	limited.ServeHTTP(first, ajaxRequest("cart-a"))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	limited.ServeHTTP(second, ajaxRequest("cart-a"))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	other := httptest.NewRecorder()
	limited.ServeHTTP(other, ajaxRequest("cart-b"))
	assert.Equal(t, http.StatusOK, other.Code, "another shopper's cart is not throttled")
}

func TestMiddlewareKeysOnAddressWithoutCookie(t *testing.T) {
	limited := newLimited(t, 1)

	first := httptest.NewRecorder()
	limited.ServeHTTP(first, ajaxRequest(""))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	limited.ServeHTTP(second, ajaxRequest(""))
	assert.Equal(t, http.StatusTooManyRequests, second.Code, "cookieless requests share the address key")
}

func TestMiddlewareFailsOpenOnRedisError(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = client.Close() })

	var limiterErr error
	h := Handler{
		Limiter: Limiter{Client: client, Prefix: "ratelimit:widget:"},
		Config: Config{
			Key:    CookieKey("cart_key"),
			Window: time.Second,
			Max:    1,
		},
		OnError: func(err error) { limiterErr = err },
	}
	limited := h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, ajaxRequest("cart-a"))
	assert.Equal(t, http.StatusOK, rec.Code, "widget keeps answering while redis is down")
	assert.Error(t, limiterErr)
}
