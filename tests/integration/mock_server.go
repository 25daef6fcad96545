package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
)

// mockTweet is the wire shape the mock server emits for one record.
type mockTweet struct {
	ID          int64            `json:"id"`
	Text        string           `json:"text"`
	Coordinates *mockCoordinates `json:"coordinates,omitempty"`
	Entities    *mockEntities    `json:"entities,omitempty"`
}

type mockCoordinates struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type mockEntities struct {
	Media []mockMedia `json:"media"`
}

type mockMedia struct {
	Type          string `json:"type"`
	MediaURL      string `json:"media_url"`
	MediaURLHTTPS string `json:"media_url_https"`
}

// MockTwitterServer simulates the pieces of the Twitter search API the
// retriever touches: rate-limit status, paginated search, and a media host.
type MockTwitterServer struct {
	server *httptest.Server

	mu        sync.RWMutex
	remaining int
	tweets    []mockTweet
	pageSize  int
	media     map[string][]byte

	searchCalls int32
	statusCalls int32
	mediaCalls  int32
}

// NewMockTwitterServer creates a mock API with the given quota remaining.
func NewMockTwitterServer(remaining int) *MockTwitterServer {
	m := &MockTwitterServer{
		remaining: remaining,
		pageSize:  2,
		media:     make(map[string][]byte),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/application/rate_limit_status.json", m.handleRateLimit)
	mux.HandleFunc("/search/tweets.json", m.handleSearch)
	mux.HandleFunc("/media/", m.handleMedia)
	m.server = httptest.NewServer(mux)
	return m
}

// URL returns the mock server's base URL.
func (m *MockTwitterServer) URL() string {
	return m.server.URL
}

// Close shuts the mock server down.
func (m *MockTwitterServer) Close() {
	m.server.Close()
}

// SetTweets replaces the result set served by search, newest first.
func (m *MockTwitterServer) SetTweets(tweets []mockTweet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tweets = tweets
}

// AddMedia registers bytes under a /media/ path.
func (m *MockTwitterServer) AddMedia(name string, data []byte) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.media[name] = data
	return m.server.URL + "/media/" + name
}

// SearchCalls reports how many search requests were served.
func (m *MockTwitterServer) SearchCalls() int {
	return int(atomic.LoadInt32(&m.searchCalls))
}

// StatusCalls reports how many rate-limit status requests were served.
func (m *MockTwitterServer) StatusCalls() int {
	return int(atomic.LoadInt32(&m.statusCalls))
}

// MediaCalls reports how many media requests were served.
func (m *MockTwitterServer) MediaCalls() int {
	return int(atomic.LoadInt32(&m.mediaCalls))
}

func (m *MockTwitterServer) handleRateLimit(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.statusCalls, 1)

	m.mu.RLock()
	remaining := m.remaining
	m.mu.RUnlock()

	payload := map[string]interface{}{
		"resources": map[string]interface{}{
			"search": map[string]interface{}{
				"/search/tweets": map[string]interface{}{
					"limit":     450,
					"remaining": remaining,
					"reset":     1445181000,
				},
			},
		},
	}
	writeJSON(w, payload)
}

func (m *MockTwitterServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.searchCalls, 1)

	params := r.URL.Query()
	maxID := int64(0)
	if v := params.Get("max_id"); v != "" {
		maxID, _ = strconv.ParseInt(v, 10, 64)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var page []mockTweet
	for _, tweet := range m.tweets {
		if maxID != 0 && tweet.ID > maxID {
			continue
		}
		page = append(page, tweet)
		if len(page) == m.pageSize {
			break
		}
	}
	if page == nil {
		page = []mockTweet{}
	}

	payload := map[string]interface{}{
		"statuses": page,
	}
	if len(page) == m.pageSize {
		lowest := page[len(page)-1].ID
		next := url.Values{}
		next.Set("max_id", strconv.FormatInt(lowest-1, 10))
		next.Set("q", params.Get("q"))
		payload["search_metadata"] = map[string]interface{}{
			"next_results": "?" + next.Encode(),
		}
	} else {
		payload["search_metadata"] = map[string]interface{}{}
	}
	writeJSON(w, payload)
}

func (m *MockTwitterServer) handleMedia(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.mediaCalls, 1)

	name := r.URL.Path[len("/media/"):]

	m.mu.RLock()
	data, ok := m.media[name]
	m.mu.RUnlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}
