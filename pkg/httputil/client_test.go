package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muchen/fenglin/pkg/logger"
)

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"600519.XSHG","close":1700.5}`))
	}))
	defer server.Close()

	client := New(logger.NewNop(), 5*time.Second).DisableRetry()

	var dest struct {
		Code  string  `json:"code"`
		Close float64 `json:"close"`
	}
	err := client.GetJSON(context.Background(), server.URL, &dest)
	require.NoError(t, err)
	assert.Equal(t, "600519.XSHG", dest.Code)
	assert.Equal(t, 1700.5, dest.Close)
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(logger.NewNop(), 5*time.Second).WithRetry(3, 10*time.Millisecond)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRetryExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(logger.NewNop(), 5*time.Second).WithRetry(1, 5*time.Millisecond)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err) // 5xx is not a transport error
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	resp.Body.Close()
}

func TestRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// 1 burst, then ~20ms between requests
	client := New(logger.NewNop(), 5*time.Second).DisableRetry().WithRateLimit(50, 1)

	start := time.Now()
	for i := 0; i < 3; i++ {
		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}

	// Two waits of ~20ms each
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
