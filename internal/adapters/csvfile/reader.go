// Package csvfile reads the raw review export and maps its human-readable
// header names onto canonical field keys. It does no validation beyond CSV
// well-formedness; cleaning is the app layer's job.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"tp_reviews/internal/domain"
)

// headerMap translates source header names to canonical keys, 1:1.
var headerMap = map[string]string{
	"Review Id":         "review_id",
	"Reviewer Name":     "reviewer_name",
	"Review Title":      "review_title",
	"Review Rating":     "review_rating",
	"Review Content":    "review_content",
	"Review IP Address": "review_ip",
	"Business Id":       "business_id",
	"Business Name":     "business_name",
	"Reviewer Id":       "reviewer_id",
	"Email Address":     "email",
	"Reviewer Country":  "reviewer_country",
	"Review Date":       "review_date",
}

const utf8BOM = "\uFEFF"

// Source implements domain.ReviewSource over a file path.
type Source struct{ path string }

func NewSource(path string) *Source { return &Source{path: path} }

func (s *Source) Load(ctx context.Context) ([]domain.RawReview, error) {
	return ReadFile(s.path)
}

// ReadFile loads the whole export into memory. Any read or parse error is
// returned as-is; the caller aborts ingestion without touching the store.
func ReadFile(path string) ([]domain.RawReview, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	recs, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	return recs, nil
}

// Read parses CSV from r. The first row must be a header; its cells are
// mapped through headerMap and unmapped columns are dropped.
func Read(r io.Reader) ([]domain.RawReview, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	// keys[i] is the canonical key for column i, "" when unmapped
	keys := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
		keys[i] = headerMap[h]
	}

	var out []domain.RawReview
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rec := make(domain.RawReview, len(keys))
		for i, v := range row {
			if i >= len(keys) || keys[i] == "" {
				continue
			}
			rec[keys[i]] = strings.TrimSpace(v)
		}
		out = append(out, rec)
	}
	return out, nil
}
