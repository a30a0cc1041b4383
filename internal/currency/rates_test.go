package currency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*FixerClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewFixerClient(FixerConfig{APIKey: "test-key", BaseURL: srv.URL}, nil)
	return c, srv
}

func TestLatestSuccess(t *testing.T) {
	var gotSymbols string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSymbols = r.URL.Query().Get("symbols")
		assert.Equal(t, "test-key", r.URL.Query().Get("access_key"))
		_, _ = w.Write([]byte(`{"success":true,"base":"EUR","rates":{"USD":1.1,"JPY":160.5}}`))
	})

	table, err := c.Latest(context.Background(), []string{"usd", "JPY"})
	require.NoError(t, err)
	assert.Equal(t, "JPY,USD", gotSymbols)
	require.Len(t, table, 2)
	assert.True(t, table["USD"].Equal(decimal.NewFromFloat(1.1)))
	assert.True(t, table["JPY"].Equal(decimal.NewFromFloat(160.5)))
}

func TestLatestProviderReportsFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":101,"type":"invalid_access_key"}}`))
	})

	_, err := c.Latest(context.Background(), []string{"USD"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_access_key")
}

func TestLatestRejectsContractViolation(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":"yes","rates":{"USD":"one point one"}}`))
	})

	_, err := c.Latest(context.Background(), []string{"USD"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contract")
}

func TestLatestHTTPError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Latest(context.Background(), []string{"USD"})
	require.Error(t, err)
}

func TestLatestNoSymbolsSkipsCall(t *testing.T) {
	called := false
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	table, err := c.Latest(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, table)
	assert.False(t, called)
}

func TestLatestMissingAPIKey(t *testing.T) {
	c := NewFixerClient(FixerConfig{}, nil)
	_, err := c.Latest(context.Background(), []string{"USD"})
	require.Error(t, err)
}
