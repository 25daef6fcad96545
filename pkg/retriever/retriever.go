// Package retriever fans a query out across registered content sources and
// merges their results into a single GeoJSON feature collection.
//
// Sources register themselves by name, usually from an init function, the
// same way database/sql drivers do. Adding a source means adding a
// registration, not editing a dispatch table.
package retriever

import (
	"sort"
	"strings"
	"sync"

	"geofetch/pkg/auth"
	"geofetch/pkg/errors"
	"geofetch/pkg/geojson"
	"geofetch/pkg/logger"
)

// Location constrains a search to a circular area.
type Location struct {
	Latitude  float64
	Longitude float64
	Radius    float64
	Unit      string // "km" or "mi"
}

// Interval constrains a search to a period of time, each bound given as
// POSIX seconds.
type Interval struct {
	Earliest float64
	Latest   float64
}

// Request is the caller-facing query passed to every source.
type Request struct {
	// Media is the set of content kinds to retrieve.
	Media []string

	// Keyword is the free-text search term.
	Keyword string

	// Quantity is the target number of features.
	Quantity int

	// Location limits results to a circular area when non-nil.
	Location *Location

	// Interval limits results to a time window when non-nil.
	Interval *Interval

	// QueryLimit caps the number of provider calls per invocation.
	// nil means unlimited.
	QueryLimit *int

	// FailHard surfaces typed errors where the default mode degrades to
	// empty or partial results.
	FailHard bool

	// Insecure fetches media over HTTP instead of HTTPS.
	Insecure bool

	// StrictMedia limits output properties to explicitly requested kinds.
	StrictMedia bool
}

// Source retrieves features from one provider.
type Source interface {
	// Name returns the lower-case identifier used in fetch requests.
	Name() string

	// Fetch runs a sanitized retrieval against the provider.
	Fetch(creds auth.Credentials, req Request) ([]geojson.Feature, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Source)
)

// Register makes a source available by its name. It panics when a source
// registers twice, which indicates a programming error.
func Register(source Source) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := strings.ToLower(source.Name())
	if _, dup := registry[name]; dup {
		panic("retriever: Register called twice for source " + name)
	}
	registry[name] = source
}

// Lookup returns the source registered under name.
func Lookup(name string) (Source, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	source, ok := registry[strings.ToLower(name)]
	return source, ok
}

// Sources returns the sorted names of all registered sources.
func Sources() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Retriever dispatches fetch requests across sources using per-source
// credentials.
type Retriever struct {
	keys   map[string]auth.Credentials
	logger logger.Logger
}

// New creates a Retriever. Keys maps a source name to the credentials used
// for that source.
func New(keys map[string]auth.Credentials) *Retriever {
	normalized := make(map[string]auth.Credentials, len(keys))
	for name, creds := range keys {
		normalized[strings.ToLower(name)] = creds
	}
	return &Retriever{
		keys:   normalized,
		logger: logger.GetLogger().WithField("component", "retriever"),
	}
}

// Fetch queries each named source in order and merges the returned features
// into one FeatureCollection. Duplicate features across sources or pages are
// preserved.
func (r *Retriever) Fetch(sources []string, req Request) (*geojson.FeatureCollection, error) {
	if len(sources) == 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "", "at least one source must be specified")
	}
	if req.Keyword == "" && req.Location == nil && req.Interval == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "",
			"either a keyword, a location, or an interval must be specified")
	}

	var features []geojson.Feature
	for _, name := range sources {
		name = strings.ToLower(name)

		source, ok := Lookup(name)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeValidation, name, "unsupported source")
		}

		creds, ok := r.keys[name]
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeValidation, name, "no credentials configured")
		}

		r.logger.WithField("source", name).Debug("dispatching fetch")
		fetched, err := source.Fetch(creds, req)
		if err != nil {
			return nil, err
		}

		r.logger.InfoWithFields("source fetch finished", map[string]interface{}{
			"source":   name,
			"features": len(fetched),
		})
		features = append(features, fetched...)
	}

	return geojson.NewCollection(features), nil
}
