package twitter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geofetch/pkg/errors"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(testCreds, 5*time.Second, nil)
	client.SetBaseURL(server.URL)
	return client, server
}

func TestClientSearchRequest(t *testing.T) {
	var captured *http.Request
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(r.Context())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"statuses": [], "search_metadata": {}}`))
	}))
	defer server.Close()

	since := int64(445633721891164100)
	max := int64(445633721891164159)
	response, err := client.Search(SearchRequest{
		Query:   "test pic.twitter.com",
		Count:   15,
		Geocode: "0,1,2km",
		SinceID: &since,
		MaxID:   &max,
	})
	require.NoError(t, err)
	require.NotNil(t, captured)

	assert.Equal(t, SearchEndpoint, captured.URL.Path)
	assert.Equal(t, "Bearer token", captured.Header.Get("Authorization"))

	params := captured.URL.Query()
	assert.Equal(t, "test pic.twitter.com", params.Get("q"))
	assert.Equal(t, "15", params.Get("count"))
	assert.Equal(t, "0,1,2km", params.Get("geocode"))
	assert.Equal(t, "445633721891164100", params.Get("since_id"))
	assert.Equal(t, "445633721891164159", params.Get("max_id"))

	require.NotNil(t, response.Statuses)
	assert.Empty(t, response.Statuses)
}

func TestClientSearchOmitsUnsetParams(t *testing.T) {
	var captured *http.Request
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(r.Context())
		w.Write([]byte(`{"statuses": []}`))
	}))
	defer server.Close()

	_, err := client.Search(SearchRequest{Query: "test", Count: 15})
	require.NoError(t, err)

	params := captured.URL.Query()
	assert.False(t, params.Has("geocode"))
	assert.False(t, params.Has("since_id"))
	assert.False(t, params.Has("max_id"))
}

func TestClientStatusesStayNilOnErrorPayload(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [{"code": 25, "message": "Query parameters are missing"}]}`))
	}))
	defer server.Close()

	response, err := client.Search(SearchRequest{Query: "test", Count: 15})
	require.NoError(t, err)
	assert.Nil(t, response.Statuses)
	assert.Equal(t, "Query parameters are missing", response.ErrorMessage())
}

func TestClientRateLimitStatus(t *testing.T) {
	var captured *http.Request
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(r.Context())
		w.Write([]byte(`{
			"resources": {
				"search": {
					"/search/tweets": {"limit": 450, "remaining": 420, "reset": 1445181000}
				}
			}
		}`))
	}))
	defer server.Close()

	status, err := client.RateLimitStatus()
	require.NoError(t, err)
	assert.Equal(t, RateLimitEndpoint, captured.URL.Path)
	assert.Equal(t, "search", captured.URL.Query().Get("resources"))

	resource, ok := status.Resources.Search[SearchResource]
	require.True(t, ok)
	require.NotNil(t, resource.Remaining)
	assert.Equal(t, 420, *resource.Remaining)
	require.NotNil(t, resource.Reset)
	assert.Equal(t, int64(1445181000), *resource.Reset)
}

func TestClientThrottledStatus(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"errors": [{"code": 88, "message": "Rate limit exceeded"}]}`))
	}))
	defer server.Close()

	_, err := client.Search(SearchRequest{Query: "test", Count: 15})
	assert.True(t, errors.IsRateLimit(err))
}

func TestClientProviderStatus(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"errors": [{"code": 131, "message": "Internal error"}]}`))
	}))
	defer server.Close()

	_, err := client.Search(SearchRequest{Query: "test", Count: 15})
	require.True(t, errors.IsProvider(err))
	assert.Contains(t, err.Error(), "Internal error")
}

func TestClientMalformedBody(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	_, err := client.RateLimitStatus()
	assert.True(t, errors.IsMalformedResponse(err))
}

func TestClientNetworkFailure(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := client.Search(SearchRequest{Query: "test", Count: 15})
	assert.True(t, errors.IsNetwork(err))
}

func TestClientFetchMedia(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(r.Context())
		w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	client := NewClient(testCreds, 5*time.Second, nil)
	data, err := client.FetchMedia(server.URL + "/media/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
	assert.Empty(t, captured.Header.Get("Authorization"), "media hosts take no bearer token")

	server2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server2.Close()
	_, err = client.FetchMedia(server2.URL + "/media/missing.jpg")
	assert.True(t, errors.IsNetwork(err))
}
