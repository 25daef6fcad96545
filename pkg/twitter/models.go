package twitter

import "strings"

// SearchRequest holds the parameters for one search call.
type SearchRequest struct {
	Query   string
	Count   int
	Geocode string
	SinceID *int64
	MaxID   *int64
}

// SearchResponse is the provider's answer to a search call. Statuses stays
// nil when the field is absent from the payload, which is how the engine
// distinguishes an error payload from an empty page.
type SearchResponse struct {
	Statuses       []Tweet         `json:"statuses"`
	SearchMetadata *SearchMetadata `json:"search_metadata"`
	Errors         []APIError      `json:"errors"`
	Error          string          `json:"error"`
}

// ErrorMessage extracts a human-readable error from the payload, empty when
// none is present.
func (r *SearchResponse) ErrorMessage() string {
	if r.Error != "" {
		return r.Error
	}
	messages := make([]string, 0, len(r.Errors))
	for _, apiErr := range r.Errors {
		messages = append(messages, apiErr.Message)
	}
	return strings.Join(messages, "; ")
}

// SearchMetadata carries the paging state of a search response.
type SearchMetadata struct {
	NextResults string `json:"next_results"`
}

// APIError is one entry of a structured provider error payload.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Tweet is a raw provider record.
type Tweet struct {
	ID          int64    `json:"id"`
	Text        string   `json:"text"`
	Coordinates *Point   `json:"coordinates"`
	Entities    Entities `json:"entities"`
}

// Point is the provider's geolocation attachment, coordinates in
// longitude/latitude order.
type Point struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Entities holds a Tweet's attachments.
type Entities struct {
	Media []MediaEntity `json:"media"`
}

// MediaEntity is one media attachment.
type MediaEntity struct {
	Type          string `json:"type"`
	MediaURL      string `json:"media_url"`
	MediaURLHTTPS string `json:"media_url_https"`
}

// RateLimitStatus is the provider's rate-limit status payload, narrowed to
// the fields the engine reads. Remaining and Reset are pointers so a payload
// missing them is detectable.
type RateLimitStatus struct {
	Resources Resources `json:"resources"`
}

// Resources groups per-endpoint rate limits by resource family.
type Resources struct {
	Search map[string]ResourceLimit `json:"search"`
}

// ResourceLimit is the quota window for a single endpoint.
type ResourceLimit struct {
	Limit     *int   `json:"limit"`
	Remaining *int   `json:"remaining"`
	Reset     *int64 `json:"reset"`
}
