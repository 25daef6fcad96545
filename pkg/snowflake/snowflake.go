// Package snowflake converts Twitter snowflake IDs to and from POSIX time.
//
// A snowflake ID is a 64-bit integer whose high 41 bits encode milliseconds
// since the Twitter epoch; the low 22 bits hold worker and sequence numbers
// used to disambiguate IDs minted within the same millisecond. Because the
// timestamp occupies the high-order bits, IDs sort chronologically, which is
// what makes them usable as paging bounds for time-windowed searches.
package snowflake

import "time"

const (
	// Epoch is the Twitter snowflake epoch in milliseconds since the Unix
	// epoch (2010-11-04T01:42:54.657Z).
	Epoch int64 = 1288834974657

	// sequenceBits is the width of the worker/sequence section.
	sequenceBits = 22
	sequenceMask = (1 << sequenceBits) - 1
)

// LowerBoundID returns the smallest snowflake ID whose embedded timestamp is
// at or after t, given as POSIX seconds. The sequence bits are zeroed so no
// ID minted at or after t compares below the bound.
func LowerBoundID(t float64) int64 {
	ms := int64(t * 1000)
	return (ms - Epoch) << sequenceBits
}

// UpperBoundID returns the largest snowflake ID whose embedded timestamp is
// at or before t, given as POSIX seconds. The sequence bits are set to
// all-ones so no ID minted at or before t compares above the bound.
func UpperBoundID(t float64) int64 {
	return LowerBoundID(t) | sequenceMask
}

// IDToTime extracts the embedded timestamp from an ID and returns POSIX
// seconds with millisecond precision. Callers must pass real snowflake IDs;
// arbitrary integers are converted without complaint.
func IDToTime(id int64) float64 {
	return float64((id>>sequenceBits)+Epoch) / 1000
}

// Timestamp renders the embedded timestamp of an ID as an ISO-8601 UTC
// string truncated to whole seconds, e.g. "2012-05-21T22:16:35Z".
func Timestamp(id int64) string {
	return time.Unix(int64(IDToTime(id)), 0).UTC().Format("2006-01-02T15:04:05Z")
}
