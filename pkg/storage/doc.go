// Package storage persists retrieval results as GeoJSON documents.
package storage
