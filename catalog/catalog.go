// Package catalog serves the pre-normalized product catalog from disk.
package catalog

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/use-agent/shelfcheck/metrics"
	"github.com/use-agent/shelfcheck/models"
)

// Read loads the catalog file at path and returns its JSON value unchanged.
//
// The whole file is read before parsing. Any valid JSON document is
// accepted; its shape is not checked. Errors are *models.CatalogError with
// Code ErrCodeNotFound when the path does not exist, ErrCodeParse when the
// content is not valid JSON, and ErrCodeIO otherwise. Nothing is cached;
// every call hits storage.
func Read(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, models.NewCatalogError(models.ErrCodeNotFound, path, err)
		}
		return nil, models.NewCatalogError(models.ErrCodeIO, path, err)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, models.NewCatalogError(models.ErrCodeParse, path, err)
	}
	return raw, nil
}

// Reader binds a catalog path to the metrics it reports into.
type Reader struct {
	path    string
	metrics *metrics.Metrics
}

// NewReader creates a Reader for path. m may be nil.
func NewReader(path string, m *metrics.Metrics) *Reader {
	return &Reader{path: path, metrics: m}
}

// Path returns the catalog file location.
func (r *Reader) Path() string { return r.path }

// Products re-reads the catalog file. See Read.
func (r *Reader) Products() (json.RawMessage, error) {
	products, err := Read(r.path)
	if err != nil {
		var ce *models.CatalogError
		if errors.As(err, &ce) {
			r.metrics.IncCatalogRead(ce.Code)
		}
		return nil, err
	}
	r.metrics.IncCatalogRead("ok")
	return products, nil
}
