package twitter

import (
	"net/url"
	"strconv"
)

const (
	// BaseURL is the base URL for the Twitter REST API.
	BaseURL = "https://api.twitter.com/1.1"

	// SearchEndpoint is the Tweet search endpoint.
	SearchEndpoint = "/search/tweets.json"

	// RateLimitEndpoint reports per-resource quota for the current window.
	RateLimitEndpoint = "/application/rate_limit_status.json"

	// SearchResource is the key under which the rate-limit status payload
	// reports the search quota.
	SearchResource = "/search/tweets"

	// SourceName tags every produced feature.
	SourceName = "Twitter"

	// imageHint is the query term Twitter associates with photo
	// attachments. Appended positively it prefers Tweets carrying an
	// image, negated it excludes them.
	imageHint = "pic.twitter.com"
)

// searchURL builds the full search request URL.
func searchURL(base string, req SearchRequest) string {
	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("count", strconv.Itoa(req.Count))
	if req.Geocode != "" {
		params.Set("geocode", req.Geocode)
	}
	if req.SinceID != nil {
		params.Set("since_id", strconv.FormatInt(*req.SinceID, 10))
	}
	if req.MaxID != nil {
		params.Set("max_id", strconv.FormatInt(*req.MaxID, 10))
	}
	return base + SearchEndpoint + "?" + params.Encode()
}

// rateLimitURL builds the rate-limit status request URL, narrowed to the
// search resource family.
func rateLimitURL(base string) string {
	params := url.Values{}
	params.Set("resources", "search")
	return base + RateLimitEndpoint + "?" + params.Encode()
}
