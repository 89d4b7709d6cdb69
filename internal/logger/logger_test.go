package logger

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRoundTripper_logsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	rt := NewRoundTripper(zerolog.New(&buf), nil)
	client := &http.Client{Transport: rt}

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/me", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "req-1")

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	out := buf.String()
	require.Contains(t, out, `"status":401`)
	require.Contains(t, out, `"path":"/me"`)
	require.Contains(t, out, `"request_id":"req-1"`)
	require.Contains(t, out, `"level":"warn"`)
}

func TestRoundTripper_logsTransportError(t *testing.T) {
	var buf bytes.Buffer
	rt := NewRoundTripper(zerolog.New(&buf), nil)
	client := &http.Client{Transport: rt}

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := client.Get(url + "/cart")
	require.Error(t, err)
	require.Contains(t, buf.String(), `"level":"error"`)
}

func TestRoundTripper_successIsDebug(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	client := &http.Client{Transport: NewRoundTripper(zerolog.New(&buf).Level(zerolog.InfoLevel), nil)}

	resp, err := client.Get(srv.URL + "/products")
	require.NoError(t, err)
	resp.Body.Close()

	require.Empty(t, buf.String())
}
