package gif

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryFirstMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "cat", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))

		w.Write([]byte(`{
			"results": [
				{"media": [{"mp4": {"url": "https://example.com/a.mp4"}}]},
				{"media": [{"tinygif": {"url": "https://example.com/b-tiny.gif"}, "gif": {"url": "https://example.com/b.gif"}}]}
			]
		}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	url, err := client.QueryFirstMatch(context.Background(), "cat")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/b-tiny.gif", url)
}

func TestQueryFirstMatch_NoResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	url, err := client.QueryFirstMatch(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestQueryFirstMatch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	_, err := client.QueryFirstMatch(context.Background(), "cat")
	assert.Error(t, err)
}
