package retriever

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geofetch/pkg/auth"
	"geofetch/pkg/errors"
	"geofetch/pkg/geojson"
)

type stubSource struct {
	name     string
	features []geojson.Feature
	err      error

	calls int
	creds auth.Credentials
	req   Request
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(creds auth.Credentials, req Request) ([]geojson.Feature, error) {
	s.calls++
	s.creds = creds
	s.req = req
	return s.features, s.err
}

func feature(source, text string) geojson.Feature {
	return geojson.NewFeature(geojson.NewPoint(1, 2), geojson.Properties{
		Source: source,
		Time:   "2014-04-22T12:00:00Z",
		Text:   text,
	})
}

func TestRegisterAndLookup(t *testing.T) {
	Register(&stubSource{name: "Alpha"})

	source, ok := Lookup("alpha")
	require.True(t, ok)
	assert.Equal(t, "Alpha", source.Name())

	_, ok = Lookup("missing")
	assert.False(t, ok)

	assert.Contains(t, Sources(), "alpha")
	assert.Panics(t, func() { Register(&stubSource{name: "alpha"}) })
}

func TestFetchMergesSourcesInOrder(t *testing.T) {
	first := &stubSource{name: "first", features: []geojson.Feature{feature("first", "a"), feature("first", "b")}}
	second := &stubSource{name: "second", features: []geojson.Feature{feature("second", "c")}}
	Register(first)
	Register(second)

	keys := map[string]auth.Credentials{
		"First":  {ConsumerKey: "k1", AccessToken: "t1"},
		"second": {ConsumerKey: "k2", AccessToken: "t2"},
	}

	fc, err := New(keys).Fetch([]string{"first", "SECOND"}, Request{Keyword: "test", Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 3)
	assert.Equal(t, "a", fc.Features[0].Properties.Text)
	assert.Equal(t, "c", fc.Features[2].Properties.Text)

	assert.Equal(t, 1, first.calls)
	assert.Equal(t, "k1", first.creds.ConsumerKey)
	assert.Equal(t, "test", first.req.Keyword)
	assert.Equal(t, 1, second.calls)
}

func TestFetchValidation(t *testing.T) {
	keys := map[string]auth.Credentials{"anything": {ConsumerKey: "k", AccessToken: "t"}}
	r := New(keys)

	_, err := r.Fetch(nil, Request{Keyword: "test"})
	assert.True(t, errors.IsValidation(err))

	// A keyword, location, or interval is required.
	_, err = r.Fetch([]string{"anything"}, Request{Quantity: 5})
	assert.True(t, errors.IsValidation(err))

	// A location alone is enough.
	Register(&stubSource{name: "located"})
	_, err = New(map[string]auth.Credentials{"located": {ConsumerKey: "k", AccessToken: "t"}}).
		Fetch([]string{"located"}, Request{Location: &Location{Latitude: 0, Longitude: 1, Radius: 2, Unit: "km"}})
	assert.NoError(t, err)
}

func TestFetchUnknownSource(t *testing.T) {
	_, err := New(nil).Fetch([]string{"nonexistent"}, Request{Keyword: "test"})
	require.True(t, errors.IsValidation(err))
	assert.Contains(t, err.Error(), "unsupported source")
}

func TestFetchMissingCredentials(t *testing.T) {
	Register(&stubSource{name: "keyless"})

	_, err := New(nil).Fetch([]string{"keyless"}, Request{Keyword: "test"})
	require.True(t, errors.IsValidation(err))
	assert.Contains(t, err.Error(), "no credentials configured")
}

func TestFetchPropagatesSourceError(t *testing.T) {
	failing := &stubSource{
		name: "failing",
		err:  errors.New(errors.ErrorTypeProvider, "failing", "boom"),
	}
	Register(failing)

	_, err := New(map[string]auth.Credentials{"failing": {ConsumerKey: "k", AccessToken: "t"}}).
		Fetch([]string{"failing"}, Request{Keyword: "test"})
	assert.True(t, errors.IsProvider(err))
}

func TestFetchEmptySourcesCollection(t *testing.T) {
	empty := &stubSource{name: "empty"}
	Register(empty)

	fc, err := New(map[string]auth.Credentials{"empty": {ConsumerKey: "k", AccessToken: "t"}}).
		Fetch([]string{"empty"}, Request{Keyword: "test"})
	require.NoError(t, err)
	require.NotNil(t, fc.Features)
	assert.Empty(t, fc.Features)
}
