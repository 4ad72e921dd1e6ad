package request_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/amonks/artists/limiter"
	"github.com/amonks/artists/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIncludesStatusAndBody(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusBadRequest,
		Body:       httptestBody("Query is malformed"),
		Header:     http.Header{},
	}

	err := request.Error(resp)

	require.Error(t, err)
	assert.ErrorIs(t, err, request.ErrStatus)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "Query is malformed")
}

func TestErrorOK(t *testing.T) {
	assert.NoError(t, request.Error(&http.Response{StatusCode: http.StatusOK}))
	assert.NoError(t, request.Error(&http.Response{StatusCode: http.StatusNoContent}))
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "bar", req.URL.Query().Get("foo"))
		assert.Equal(t, "agent/1", req.Header.Get("User-Agent"))
		w.Write([]byte(`{"name": "Giotto", "born": 1267}`))
	}))
	defer srv.Close()

	var out struct {
		Name string
		Born int
	}
	client := request.NewClient("agent/1", time.Second, nil)
	err := client.GetJSON(context.Background(), srv.URL, url.Values{"foo": {"bar"}}, &out)

	require.NoError(t, err)
	assert.Equal(t, "Giotto", out.Name)
	assert.Equal(t, 1267, out.Born)
}

func TestGetJSONRecordsBackoffWithoutRetrying(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits++
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	lim := limiter.New("", 0)
	client := request.NewClient("agent/1", time.Second, lim)
	var out any
	err := client.GetJSON(context.Background(), srv.URL, nil, &out)

	assert.ErrorIs(t, err, request.ErrStatus)
	assert.Equal(t, 1, hits)
	assert.WithinDuration(t, time.Now().Add(31*time.Second), lim.NextAt(), 2*time.Second)
}

func TestGetJSONFailsFastDuringLongBackoff(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits++
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := request.NewClient("agent/1", time.Second, limiter.New("", 0))
	var out any
	require.Error(t, client.GetJSON(context.Background(), srv.URL, nil, &out))

	start := time.Now()
	err := client.GetJSON(context.Background(), srv.URL, nil, &out)

	assert.ErrorIs(t, err, limiter.ErrBackoff)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, hits)
}

func TestRetryAfter(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusServiceUnavailable, Header: http.Header{}}
	_, ok := request.RetryAfter(resp)
	assert.False(t, ok, "503 without a header is not a backoff request")

	resp.Header.Set("Retry-After", "5")
	v, ok := request.RetryAfter(resp)
	assert.True(t, ok)
	assert.Equal(t, "5", v)

	resp = &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{}}
	v, ok = request.RetryAfter(resp)
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

type body struct{ *strings.Reader }

func (body) Close() error { return nil }

func httptestBody(s string) body { return body{strings.NewReader(s)} }
