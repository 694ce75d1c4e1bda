package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetROSERate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "oasis-network", r.URL.Query().Get("ids"))
		assert.Equal(t, "eur", r.URL.Query().Get("vs_currencies"))
		_, _ = w.Write([]byte(`{"oasis-network":{"eur":0.0412}}`))
	}))
	defer srv.Close()

	c := NewCoinGeckoClientWithURL(srv.URL, srv.Client())
	rate, err := c.GetROSERate(context.Background(), " EUR ")
	require.NoError(t, err)
	assert.Equal(t, "0.0412", rate)
}

func TestGetROSERateErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("vs_currencies") == "xxx" {
			_, _ = w.Write([]byte(`{"oasis-network":{}}`))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewCoinGeckoClientWithURL(srv.URL, srv.Client())

	_, err := c.GetROSERate(context.Background(), "xxx")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)

	_, err = c.GetROSERate(context.Background(), "usd")
	assert.Error(t, err)

	_, err = c.GetROSERate(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}
