package twitter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"geofetch/pkg/auth"
	"geofetch/pkg/errors"
	"geofetch/pkg/logger"
)

// API is the capability the retrieval engine needs from the provider. The
// production implementation is Client; tests inject in-memory doubles.
type API interface {
	// RateLimitStatus reads the remaining quota for the search resource.
	RateLimitStatus() (*RateLimitStatus, error)

	// Search runs one search call.
	Search(req SearchRequest) (*SearchResponse, error)
}

// Client is the production Twitter API client. It also implements
// mediafetch.Fetcher for photo attachment retrieval.
type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      auth.Credentials
	logger     logger.Logger
}

// NewClient creates a Twitter API client authenticated with the given
// credentials.
func NewClient(creds auth.Credentials, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    BaseURL,
		creds:      creds,
		logger:     log.WithField("source", "twitter"),
	}
}

// SetBaseURL points the client at a different API host. Used by tests.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
}

// RateLimitStatus reads the provider's quota counters for the search
// resource family.
func (c *Client) RateLimitStatus() (*RateLimitStatus, error) {
	var status RateLimitStatus
	if err := c.getJSON(rateLimitURL(c.baseURL), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Search runs one search call against the provider.
func (c *Client) Search(req SearchRequest) (*SearchResponse, error) {
	var response SearchResponse
	if err := c.getJSON(searchURL(c.baseURL, req), &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// FetchMedia retrieves the raw bytes behind a media URL. Media CDNs take no
// authentication, so no bearer token is attached.
func (c *Client) FetchMedia(url string) ([]byte, error) {
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, errors.Newf(errors.ErrorTypeNetwork, "twitter", "media fetch failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrorTypeNetwork, "twitter",
			"media fetch returned status %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Newf(errors.ErrorTypeNetwork, "twitter", "failed to read media body: %v", err)
	}
	return data, nil
}

// getJSON performs an authenticated GET and decodes the JSON response.
func (c *Client) getJSON(url string, target interface{}) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return errors.Newf(errors.ErrorTypeNetwork, "twitter", "failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.creds.AccessToken)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return errors.Newf(errors.ErrorTypeNetwork, "twitter", "network error: %v", err)
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":         url,
		"status":      resp.StatusCode,
		"duration_ms": float64(duration.Microseconds()) / 1000,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Newf(errors.ErrorTypeNetwork, "twitter", "failed to read response body: %v", err)
	}

	if err := c.checkStatus(resp.StatusCode, body); err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"body_preview": preview,
		})
		return errors.Newf(errors.ErrorTypeMalformedResponse, "twitter", "failed to parse JSON: %v", err)
	}

	return nil
}

// checkStatus maps non-OK HTTP statuses to typed errors.
func (c *Client) checkStatus(status int, body []byte) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusTooManyRequests:
		return errors.New(errors.ErrorTypeRateLimit, "twitter", "provider throttled the request")
	default:
		return errors.Newf(errors.ErrorTypeProvider, "twitter", "status %d: %s", status, providerMessage(body))
	}
}

// providerMessage pulls the message out of a provider error body, falling
// back to a generic description.
func providerMessage(body []byte) string {
	var payload SearchResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := payload.ErrorMessage(); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("unexpected response (%d bytes)", len(body))
}
