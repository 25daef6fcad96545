package twitter

import (
	"time"

	"geofetch/internal/mediafetch"
	"geofetch/pkg/auth"
	"geofetch/pkg/geojson"
	"geofetch/pkg/retriever"
)

// defaultTimeout bounds every HTTP call of a production client.
const defaultTimeout = 30 * time.Second

// TwitterSource adapts this package to the retriever's Source interface.
type TwitterSource struct {
	// newClient builds the API and media fetcher for one invocation.
	// Overridable in tests.
	newClient func(creds auth.Credentials) (API, mediafetch.Fetcher)
}

// NewSource creates the production Twitter source. Every fetch constructs a
// fresh client so no state leaks between invocations.
func NewSource() *TwitterSource {
	return &TwitterSource{
		newClient: func(creds auth.Credentials) (API, mediafetch.Fetcher) {
			client := NewClient(creds, defaultTimeout, nil)
			return client, client
		},
	}
}

// Name returns the registry identifier.
func (s *TwitterSource) Name() string { return "twitter" }

// Fetch sanitizes the request and runs the retrieval loop.
func (s *TwitterSource) Fetch(creds auth.Credentials, req retriever.Request) ([]geojson.Feature, error) {
	query, err := Sanitize(creds, Options{
		Media:    req.Media,
		Keyword:  req.Keyword,
		Quantity: req.Quantity,
		Location: req.Location,
		Interval: req.Interval,
	})
	if err != nil {
		return nil, err
	}

	api, fetcher := s.newClient(creds)
	return Retrieve(api, fetcher, query, RetrieveOptions{
		QueryLimit:  req.QueryLimit,
		FailHard:    req.FailHard,
		Insecure:    req.Insecure,
		StrictMedia: req.StrictMedia,
	})
}

func init() {
	retriever.Register(NewSource())
}
