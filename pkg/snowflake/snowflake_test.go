package snowflake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDToTime(t *testing.T) {
	// Tweet minted Mon May 21 22:16:35.436 +0000 2012.
	utc := IDToTime(204697221847986177)

	assert.InDelta(t, 1337638595.436, utc, 0.0005)
	assert.Equal(t, "2012-05-21T22:16:35Z", Timestamp(204697221847986177))
}

func TestBoundsBeforeEpoch(t *testing.T) {
	// Instants before the snowflake epoch yield negative IDs; the engine
	// sends them to the provider unchanged.
	assert.Equal(t, int64(-5405765689543753728), LowerBoundID(0))
	assert.Equal(t, int64(-5405765685349449728), LowerBoundID(1))
	assert.Equal(t, int64(-5405765685345255425), UpperBoundID(1))
}

func TestRoundTrip(t *testing.T) {
	instants := []float64{0, 1, 1337638595.436, 1400000000, 1500000000.25}

	for _, instant := range instants {
		lower := LowerBoundID(instant)
		upper := UpperBoundID(instant)

		assert.LessOrEqual(t, lower, upper, "instant %v", instant)

		// Truncated downward, within one millisecond.
		recovered := IDToTime(lower)
		assert.LessOrEqual(t, recovered, instant, "instant %v", instant)
		assert.InDelta(t, instant, recovered, 0.0011, "instant %v", instant)

		// The bounds differ only in their sequence bits.
		assert.Equal(t, lower|sequenceMask, upper, "instant %v", instant)
	}
}

func TestBoundsOrdering(t *testing.T) {
	// An upper bound for an earlier instant never reaches the lower bound
	// of the next millisecond.
	assert.Less(t, UpperBoundID(3), LowerBoundID(3.001))
}
