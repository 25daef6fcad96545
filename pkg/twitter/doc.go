// Package twitter retrieves geotagged Tweets and projects them into GeoJSON
// features.
//
// The package has three stages. Sanitize validates caller input and produces
// a canonical Query, converting time intervals into snowflake ID bounds.
// Retrieve checks the provider-reported rate budget once, then pages through
// the search endpoint until the budget, the caller's query limit, or the
// requested quantity is hit. Each page runs through the projector, which
// drops records without a geolocation and maps the rest into features,
// optionally fetching photo attachments.
//
// Network access goes through the API and mediafetch.Fetcher interfaces so
// the whole pipeline runs against in-memory doubles in tests:
//
//	client := twitter.NewClient(creds, 30*time.Second, nil)
//	query, err := twitter.Sanitize(creds, twitter.Options{
//	    Media:   []string{"image", "text"},
//	    Keyword: "earthquake",
//	})
//	if err != nil {
//	    // ...
//	}
//	features, err := twitter.Retrieve(client, client, query, twitter.RetrieveOptions{})
package twitter
