package twitter

import (
	"strconv"
	"strings"

	"geofetch/pkg/auth"
	"geofetch/pkg/errors"
	"geofetch/pkg/retriever"
	"geofetch/pkg/snowflake"
)

// supportedMedia is every medium a caller may request. Twitter itself only
// understands image and text; sound and video are accepted as inert labels
// and dropped during normalization.
var supportedMedia = map[string]bool{
	"image": true,
	"sound": true,
	"text":  true,
	"video": true,
}

// Options is the caller's request before sanitization.
type Options struct {
	Media    []string
	Keyword  string
	Quantity int
	Location *retriever.Location
	Interval *retriever.Interval
}

// Query is the canonical, sanitized request the retrieval engine consumes.
type Query struct {
	Credentials auth.Credentials

	// Media is the requested set restricted to kinds Twitter can serve,
	// deduplicated, in image-before-text order.
	Media []string

	Keyword  string
	Quantity int

	// Geocode is the serialized "lat,lon,radius<unit>" constraint, empty
	// when no location was given.
	Geocode string

	// SinceID and MaxID are the snowflake bounds derived from the time
	// interval. nil means unbounded.
	SinceID *int64
	MaxID   *int64
}

// Sanitize validates and normalizes a request into a canonical Query. It
// performs no network I/O.
func Sanitize(creds auth.Credentials, opts Options) (Query, error) {
	if !creds.Complete() {
		return Query{}, errors.New(errors.ErrorTypeValidation, "twitter",
			"credentials require both a consumer key and an access token")
	}

	media, err := normalizeMedia(opts.Media)
	if err != nil {
		return Query{}, err
	}

	keyword := strings.TrimSpace(opts.Keyword)
	// A request narrowed to exactly one of image/text gets a query hint:
	// positively for images, negatively for text-only.
	if len(media) == 1 {
		switch media[0] {
		case "image":
			keyword = strings.TrimSpace(keyword + " " + imageHint)
		case "text":
			keyword = strings.TrimSpace(keyword + " -" + imageHint)
		}
	}

	geocode, err := serializeLocation(opts.Location)
	if err != nil {
		return Query{}, err
	}

	sinceID, maxID := intervalBounds(opts.Interval)

	return Query{
		Credentials: creds,
		Media:       media,
		Keyword:     keyword,
		Quantity:    opts.Quantity,
		Geocode:     geocode,
		SinceID:     sinceID,
		MaxID:       maxID,
	}, nil
}

// normalizeMedia validates the requested media kinds and restricts them to
// the ones Twitter can serve.
func normalizeMedia(media []string) ([]string, error) {
	requested := make(map[string]bool, len(media))
	for _, kind := range media {
		kind = strings.ToLower(kind)
		if !supportedMedia[kind] {
			return nil, errors.Newf(errors.ErrorTypeValidation, "twitter",
				`medium may be "image", "sound", "text", or "video", not %q`, kind)
		}
		requested[kind] = true
	}

	var normalized []string
	if requested["image"] {
		normalized = append(normalized, "image")
	}
	if requested["text"] {
		normalized = append(normalized, "text")
	}
	return normalized, nil
}

// serializeLocation validates a location and renders the provider's geocode
// string.
func serializeLocation(location *retriever.Location) (string, error) {
	if location == nil {
		return "", nil
	}

	if location.Latitude < -90 || location.Latitude > 90 {
		return "", errors.Newf(errors.ErrorTypeValidation, "twitter",
			"latitude must be between -90 and 90, not %v", location.Latitude)
	}
	if location.Longitude < -180 || location.Longitude > 180 {
		return "", errors.Newf(errors.ErrorTypeValidation, "twitter",
			"longitude must be between -180 and 180, not %v", location.Longitude)
	}
	if location.Radius <= 0 {
		return "", errors.Newf(errors.ErrorTypeValidation, "twitter",
			"radius must be positive, not %v", location.Radius)
	}

	unit := strings.ToLower(location.Unit)
	if unit != "km" && unit != "mi" {
		return "", errors.Newf(errors.ErrorTypeValidation, "twitter",
			`unit must be "km" or "mi", not %q`, location.Unit)
	}

	return strconv.FormatFloat(location.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(location.Longitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(location.Radius, 'f', -1, 64) + unit, nil
}

// intervalBounds converts a time interval into snowflake ID bounds, swapping
// reversed bounds first.
func intervalBounds(interval *retriever.Interval) (*int64, *int64) {
	if interval == nil {
		return nil, nil
	}

	earliest, latest := interval.Earliest, interval.Latest
	if earliest > latest {
		earliest, latest = latest, earliest
	}

	sinceID := snowflake.LowerBoundID(earliest)
	maxID := snowflake.UpperBoundID(latest)
	return &sinceID, &maxID
}
