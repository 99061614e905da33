package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/endpoint"
)

func fastOptions() Options {
	return Options{
		Timeout:      5 * time.Second,
		RetryMax:     3,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	}
}

func TestOpen(t *testing.T) {
	var gotPath, gotURL, gotRaw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRaw = r.URL.RawQuery
		gotURL = r.URL.Query().Get("url")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"url":"` + gotURL + `","scheduled":true,"requestId":"req_1"}`))
	}))
	defer srv.Close()

	c := New(srv.URL+endpoint.Prefix, fastOptions())

	resp, err := c.Open(context.Background(), "https://example.com/a b?x=1&y=2")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.True(t, resp.Success)
	assert.True(t, resp.Scheduled)
	assert.Equal(t, "/api/ide-browser/open", gotPath)
	assert.Equal(t, "https://example.com/a b?x=1&y=2", gotURL)
	assert.Equal(t, "url="+url.QueryEscape("https://example.com/a b?x=1&y=2"), gotRaw)
}

func TestOpenDefaultTarget(t *testing.T) {
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.Query().Get("url")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := New(srv.URL, fastOptions()).Open(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, DefaultTarget, gotURL)
}

func TestOpenRetriesUnavailable(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"success":false,"error":"no open workspace"}`))
			return
		}
		w.Write([]byte(`{"success":true,"scheduled":true}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL, fastOptions()).Open(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenGivesUpWithLastStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"success":false,"error":"no open workspace"}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL, fastOptions()).Open(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
	assert.Equal(t, "no open workspace", resp.Error)
	assert.Equal(t, int32(4), calls.Load())
}

func TestOpenDoesNotRetryBadRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	resp, err := New(srv.URL, fastOptions()).Open(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFromEnv(t *testing.T) {
	t.Setenv(endpoint.EnvVar, "")
	_, err := FromEnv(fastOptions())
	assert.ErrorIs(t, err, endpoint.ErrNotSet)

	t.Setenv(endpoint.EnvVar, "http://localhost:9/api/ide-browser/")
	c, err := FromEnv(fastOptions())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9/api/ide-browser", c.Base())
}
