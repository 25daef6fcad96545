package twitter

import (
	"encoding/base64"

	"geofetch/internal/mediafetch"
	"geofetch/pkg/errors"
	"geofetch/pkg/geojson"
	"geofetch/pkg/logger"
	"geofetch/pkg/ratelimit"
	"geofetch/pkg/snowflake"
)

// fetchWorkers bounds concurrent photo fetches within one page.
const fetchWorkers = 4

// RetrieveOptions tunes one engine invocation.
type RetrieveOptions struct {
	// QueryLimit caps the number of search calls. nil means unlimited; a
	// value <= 0 short-circuits to an empty result without any network
	// access.
	QueryLimit *int

	// FailHard raises typed errors where the default mode degrades to an
	// empty or partial result.
	FailHard bool

	// Insecure fetches photos over HTTP instead of HTTPS.
	Insecure bool

	// StrictMedia limits output properties to explicitly requested kinds.
	// By default text is attached whenever the record has it.
	StrictMedia bool
}

// Retrieve executes the retrieval loop: one rate-status call, then a bounded
// sequence of search calls, each page projected into features. The returned
// sequence is ordered by page and record; duplicates across overlapping
// pages are preserved.
func Retrieve(api API, fetcher mediafetch.Fetcher, query Query, opts RetrieveOptions) ([]geojson.Feature, error) {
	log := logger.GetLogger().WithField("source", "twitter")

	features := []geojson.Feature{}
	if len(query.Media) == 0 || query.Quantity <= 0 {
		return features, nil
	}
	if opts.QueryLimit != nil && *opts.QueryLimit <= 0 {
		return features, nil
	}

	budget, err := searchBudget(api)
	if err != nil {
		return nil, err
	}
	log.DebugWithFields("rate budget read", map[string]interface{}{
		"remaining": budget.Remaining,
		"reset":     budget.Reset.Format("2006-01-02T15:04:05Z"),
	})

	if budget.Exhausted() {
		if opts.FailHard {
			return nil, errors.Newf(errors.ErrorTypeRateLimit, "twitter",
				"query budget exhausted until %s", budget.Reset.Format("2006-01-02T15:04:05Z"))
		}
		log.Warn("query budget exhausted, returning empty result")
		return features, nil
	}

	// The paging upper bound moves as pages are consumed; the query's own
	// bound must stay untouched.
	var maxID *int64
	if query.MaxID != nil {
		bound := *query.MaxID
		maxID = &bound
	}

	for calls := 0; ; calls++ {
		if !budget.Allows(calls) {
			log.Warn("stopping: rate budget spent")
			break
		}
		if opts.QueryLimit != nil && calls >= *opts.QueryLimit {
			log.Debug("stopping: query limit reached")
			break
		}
		if len(features) >= query.Quantity {
			break
		}

		response, err := api.Search(SearchRequest{
			Query:   query.Keyword,
			Count:   query.Quantity - len(features),
			Geocode: query.Geocode,
			SinceID: query.SinceID,
			MaxID:   maxID,
		})
		if err != nil {
			return nil, err
		}

		if response.Statuses == nil {
			// An error payload rather than a page of results.
			if opts.FailHard {
				message := response.ErrorMessage()
				if message == "" {
					message = "response missing statuses"
				}
				return nil, errors.New(errors.ErrorTypeProvider, "twitter", message)
			}
			log.WithField("provider_error", response.ErrorMessage()).
				Warn("treating error payload as an empty page")
			break
		}

		page, err := ProjectPage(response.Statuses, query, opts, fetcher)
		if err != nil {
			return nil, err
		}
		features = append(features, page...)

		if response.SearchMetadata == nil || response.SearchMetadata.NextResults == "" {
			break
		}
		if len(response.Statuses) == 0 {
			break
		}

		lowest := lowestID(response.Statuses)
		if maxID != nil && lowest == *maxID {
			// The next page cannot move the window; give up rather
			// than loop on the same records.
			break
		}
		next := lowest - 1
		maxID = &next
	}

	return features, nil
}

// searchBudget issues the single rate-status call of an invocation and
// extracts the search quota. A response missing the expected fields is fatal
// because the engine cannot reason about quota without it.
func searchBudget(api API) (ratelimit.Budget, error) {
	status, err := api.RateLimitStatus()
	if err != nil {
		return ratelimit.Budget{}, err
	}

	resource, ok := status.Resources.Search[SearchResource]
	if !ok || resource.Remaining == nil || resource.Reset == nil {
		return ratelimit.Budget{}, errors.New(errors.ErrorTypeMalformedResponse, "twitter",
			"rate limit status is missing the search resource")
	}

	return ratelimit.New(*resource.Remaining, *resource.Reset), nil
}

// lowestID returns the smallest Tweet ID in a page.
func lowestID(tweets []Tweet) int64 {
	lowest := tweets[0].ID
	for _, tweet := range tweets[1:] {
		if tweet.ID < lowest {
			lowest = tweet.ID
		}
	}
	return lowest
}

// ProjectPage filters and maps one page of raw records into features.
// Records without a geolocation are dropped silently. Photo fetches run
// concurrently but the output order always matches record order.
func ProjectPage(tweets []Tweet, query Query, opts RetrieveOptions, fetcher mediafetch.Fetcher) ([]geojson.Feature, error) {
	log := logger.GetLogger().WithField("source", "twitter")

	wantImage := mediaRequested(query.Media, "image")
	wantText := mediaRequested(query.Media, "text")

	type pending struct {
		feature  geojson.Feature
		imageJob int // index into jobs, -1 when no photo to attach
	}

	var page []pending
	var jobs []mediafetch.Job

	for _, tweet := range tweets {
		if tweet.Coordinates == nil || len(tweet.Coordinates.Coordinates) < 2 {
			log.WithField("id", tweet.ID).Debug("dropping record without geolocation")
			continue
		}

		properties := geojson.Properties{
			Source: SourceName,
			Time:   snowflake.Timestamp(tweet.ID),
		}
		if wantText || (!opts.StrictMedia && tweet.Text != "") {
			properties.Text = tweet.Text
		}

		entry := pending{
			feature: geojson.NewFeature(geojson.NewPoint(
				tweet.Coordinates.Coordinates[0],
				tweet.Coordinates.Coordinates[1],
			), properties),
			imageJob: -1,
		}

		if wantImage {
			if url := photoURL(tweet, opts.Insecure, log); url != "" {
				entry.imageJob = len(jobs)
				jobs = append(jobs, mediafetch.Job{Index: len(jobs), URL: url})
			}
		}

		page = append(page, entry)
	}

	var results []mediafetch.Result
	if len(jobs) > 0 {
		results = mediafetch.NewPool(fetchWorkers, fetcher, log).FetchAll(jobs)
		for _, result := range results {
			if result.Err != nil {
				return nil, result.Err
			}
		}
	}

	features := make([]geojson.Feature, 0, len(page))
	for _, entry := range page {
		if entry.imageJob >= 0 {
			entry.feature.Properties.Image = base64.StdEncoding.EncodeToString(results[entry.imageJob].Data)
		}
		features = append(features, entry.feature)
	}
	return features, nil
}

// photoURL picks the attachment URL to fetch for a record. When a record
// carries several photos the last one wins, matching iteration order.
// Attachment types other than photo are logged and skipped.
func photoURL(tweet Tweet, insecure bool, log logger.Logger) string {
	var chosen string
	for _, entity := range tweet.Entities.Media {
		if entity.Type != "photo" {
			log.WithFields(map[string]interface{}{
				"id":   tweet.ID,
				"type": entity.Type,
			}).Warn("skipping unrecognized media type")
			continue
		}
		if insecure {
			chosen = entity.MediaURL
		} else {
			chosen = entity.MediaURLHTTPS
		}
	}
	return chosen
}

// mediaRequested reports whether a medium is in the requested set.
func mediaRequested(media []string, kind string) bool {
	for _, m := range media {
		if m == kind {
			return true
		}
	}
	return false
}
