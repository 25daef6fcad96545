// Package geojson defines the normalized output format for retrieved content.
//
// Every record that survives filtering becomes a Feature: a Point geometry in
// longitude/latitude order plus a small set of properties (source tag,
// derived timestamp, optional text and base64-encoded image). Features from
// one or more sources are wrapped in a FeatureCollection by the retriever.
package geojson

// Feature is a single normalized geospatial record.
type Feature struct {
	Type       string     `json:"type"`
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
}

// Geometry holds a GeoJSON geometry. Only Point is produced.
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Properties carries the normalized attributes of a feature.
type Properties struct {
	Source string `json:"source"`
	Time   string `json:"time"`
	Text   string `json:"text,omitempty"`
	Image  string `json:"image,omitempty"` // base64-encoded raw bytes
}

// FeatureCollection wraps the features returned by one or more sources.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// NewPoint builds a Point geometry. Coordinates are GeoJSON order:
// longitude first, latitude second.
func NewPoint(longitude, latitude float64) Geometry {
	return Geometry{
		Type:        "Point",
		Coordinates: []float64{longitude, latitude},
	}
}

// NewFeature builds a Feature from a geometry and its properties.
func NewFeature(geometry Geometry, properties Properties) Feature {
	return Feature{
		Type:       "Feature",
		Geometry:   geometry,
		Properties: properties,
	}
}

// NewCollection wraps features in a FeatureCollection. A nil slice becomes an
// empty but non-nil feature list so the collection always serializes as [].
func NewCollection(features []Feature) *FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
