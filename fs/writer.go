// Package fs provides file-based storage for product records.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/amzscrape"
)

// ProductPath returns the relative file path for a product record.
// Example: B0CBBZ69H5 → B0CBBZ69H5.json
func ProductPath(id string) (string, error) {
	if id == "" {
		return "", amzscrape.Errorf(amzscrape.EINVALID, "product id required")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", amzscrape.Errorf(amzscrape.EINVALID, "product id %q rejected: path traversal", id)
	}
	return id + ".json", nil
}

// EncodeProduct renders a record as indented JSON followed by a newline.
// Non-ASCII text is written as is.
func EncodeProduct(rec *amzscrape.ProductRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeProduct writes rec to dir/<id>.json, creating dir if needed.
func writeProduct(dir string, rec *amzscrape.ProductRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	relPath, err := ProductPath(rec.ID)
	if err != nil {
		return err
	}

	content, err := EncodeProduct(rec)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, relPath), content, 0644)
}

// Ensure Writer implements amzscrape.ProductWriter at compile time.
var _ amzscrape.ProductWriter = (*Writer)(nil)

// Writer writes a product record as JSON to a single file.
type Writer struct {
	path string
}

// NewWriter creates a new Writer for the file at path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// WriteProduct replaces the file with rec, creating parent directories.
func (w *Writer) WriteProduct(ctx context.Context, rec *amzscrape.ProductRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	content, err := EncodeProduct(rec)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(w.path, content, 0644)
}
