package http

import (
	"context"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bradcypert/httpspec/packages/core/parser"
)

func parsedRequest(method, url string) *parser.Request {
	return &parser.Request{
		Method:  parser.LookupMethod(method),
		URL:     url,
		Version: parser.DefaultVersion,
	}
}

func TestClient_Do(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("X-Test", "value")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("hello"))
	}))
	defer server.Close()

	client := NewClient()
	resp, err := client.Do(context.Background(), parsedRequest("GET", server.URL))
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "hello", resp.BodyString())
	v, ok := resp.Header("x-test")
	assert.True(t, ok)
	assert.Equal(t, "value", v)
	assert.Greater(t, resp.Duration, time.Duration(0))
}

func TestClient_HeaderNormalization(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Add("X-Multi", "first")
		w.Header().Add("X-Multi", "second")
		w.WriteHeader(204)
	}))
	defer server.Close()

	client := NewClient()
	resp, err := client.Do(context.Background(), parsedRequest("GET", server.URL))
	require.NoError(t, err)

	// Names are lowercased and the last duplicate wins.
	v, ok := resp.Headers["x-multi"]
	require.True(t, ok)
	assert.Equal(t, "second", v)
}

func TestClient_SendsHeadersAndBody(t *testing.T) {
	var gotBody []byte
	var gotTags []string
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotTags = r.Header.Values("X-Tag")
		w.WriteHeader(201)
	}))
	defer server.Close()

	req := parsedRequest("POST", server.URL)
	req.Headers = []*parser.Header{
		{Key: "X-Tag", Value: "one"},
		{Key: "X-Tag", Value: "two"},
	}
	req.Body = []byte("{\"name\": \"John\"}\n")

	client := NewClient()
	resp, err := client.Do(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, string(req.Body), string(gotBody))
	assert.Equal(t, []string{"one", "two"}, gotTags)
}

func TestClient_ErrorStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		nethttp.Error(w, "boom", 500)
	}))
	defer server.Close()

	client := NewClient()
	resp, err := client.Do(context.Background(), parsedRequest("GET", server.URL))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestClient_MissingMethod(t *testing.T) {
	client := NewClient()
	_, err := client.Do(context.Background(), parsedRequest("FETCH", "http://localhost:0"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingMethod)
}

func TestClient_TransportError(t *testing.T) {
	client := NewClient(WithTimeout(2 * time.Second))
	// Port 0 is never listening.
	_, err := client.Do(context.Background(), parsedRequest("GET", "http://127.0.0.1:0/"))
	require.Error(t, err)
}

func TestClient_DefaultHeaders(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		gotAgent = r.Header.Get("X-Agent")
		w.WriteHeader(200)
	}))
	defer server.Close()

	client := NewClient(WithDefaultHeader("X-Agent", "httpspec"))
	_, err := client.Do(context.Background(), parsedRequest("GET", server.URL))
	require.NoError(t, err)
	assert.Equal(t, "httpspec", gotAgent)
}
