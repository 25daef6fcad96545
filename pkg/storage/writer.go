package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"geofetch/pkg/geojson"
)

// Writer serializes feature collections to disk or to a stream.
type Writer struct {
	indent string
}

// NewWriter creates a Writer. Output is pretty-printed with a two-space
// indent.
func NewWriter() *Writer {
	return &Writer{indent: "  "}
}

// Encode writes the collection as GeoJSON to w.
func (wr *Writer) Encode(w io.Writer, collection *geojson.FeatureCollection) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", wr.indent)
	if err := encoder.Encode(collection); err != nil {
		return fmt.Errorf("failed to encode feature collection: %w", err)
	}
	return nil
}

// Save writes the collection to path, creating parent directories as needed.
// The document lands under a temporary name first and is renamed into place,
// so a crash mid-write never leaves a truncated file behind.
func (wr *Writer) Save(path string, collection *geojson.FeatureCollection) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tempFile := path + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	err = wr.Encode(out, collection)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return err
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
