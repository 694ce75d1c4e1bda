package ratelimiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidArgs(t *testing.T) {
	assert.Nil(t, New(0, 1, 0))
	assert.Nil(t, New(1, 0, 0))

	var l *MapLimiter
	assert.True(t, l.Allow("ip:1.2.3.4", time.Now()))
	assert.Equal(t, 0, l.Len())
}

func TestAllowPerKey(t *testing.T) {
	l := New(1, 2, time.Minute)
	now := time.Unix(1000, 0)

	assert.True(t, l.Allow("a", now))
	assert.True(t, l.Allow("a", now))
	assert.False(t, l.Allow("a", now))
	assert.True(t, l.Allow("b", now), "keys have separate buckets")

	assert.True(t, l.Allow("a", now.Add(time.Second)), "bucket refills")
	assert.True(t, l.Allow("", now), "empty keys are not limited")
}

func TestIdleKeysAreEvicted(t *testing.T) {
	l := New(1000, 1000, time.Second)
	start := time.Unix(1000, 0)
	l.Allow("idle", start)

	later := start.Add(time.Minute)
	for i := 0; i < 511; i++ {
		l.Allow("busy", later)
	}
	assert.Equal(t, 1, l.Len())
}

func TestMiddleware(t *testing.T) {
	l := New(1, 1, time.Minute)
	now := time.Unix(1000, 0)
	l.now = func() time.Time { return now }

	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/wallets", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, do("10.0.0.1:5000").Code)
	rec := do("10.0.0.1:5001")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded","code":"rate_limited"}`, rec.Body.String())
	assert.Equal(t, http.StatusOK, do("10.0.0.2:5000").Code)
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "ip:192.0.2.1", ClientKey(req))

	req.RemoteAddr = "[::1]:80"
	assert.Equal(t, "ip:::1", ClientKey(req))

	req.RemoteAddr = "not-an-addr"
	assert.Equal(t, "ip:not-an-addr", ClientKey(req))

	req.RemoteAddr = ""
	assert.Equal(t, "ip:unknown", ClientKey(req))
}
