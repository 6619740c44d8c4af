package flatten

import (
	"io"

	perr "spinlog/internal/platform/errors"

	"github.com/goccy/go-json"
)

// Page is the raw recently-played response envelope as stored in the raw zone
type Page struct {
	Items []RawRecord `json:"items"`
	Next  string      `json:"next"`
	Limit int         `json:"limit"`
}

// DecodeBatch reads one stored raw payload and returns its records
// the envelope shape is lenient; only items matters downstream
func DecodeBatch(r io.Reader) ([]RawRecord, error) {
	var page Page
	if err := json.NewDecoder(r).Decode(&page); err != nil {
		return nil, perr.JSONErrf("decode raw batch: %v", err)
	}
	return page.Items, nil
}
