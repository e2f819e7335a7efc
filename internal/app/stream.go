package app

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"tp_reviews/internal/adapters/observability"
	"tp_reviews/internal/domain"
)

// CSVColumns is the fixed output column order for every review stream.
var CSVColumns = []string{
	"review_id",
	"reviewer_name",
	"review_title",
	"review_rating",
	"review_content",
	"review_ip",
	"business_id",
	"business_name",
	"reviewer_id",
	"email",
	"reviewer_country",
	"review_date",
}

const dateFormat = "2006-01-02 15:04:05"

// ReviewStream lazily serializes an open iterator as CSV. The underlying
// cursor stays open until WriteCSV finishes and is released exactly once,
// whatever the exit path.
type ReviewStream struct {
	it    domain.ReviewIterator
	label string // metrics label: business|reviewer
}

func NewReviewStream(it domain.ReviewIterator, label string) *ReviewStream {
	return &ReviewStream{it: it, label: label}
}

// WriteCSV emits the header row followed by one row per record, flushing as
// it goes so the consumer sees rows without the full result materializing.
func (s *ReviewStream) WriteCSV(w io.Writer) (err error) {
	defer func() {
		if cerr := s.it.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	cw := csv.NewWriter(w)
	if err = cw.Write(CSVColumns); err != nil {
		return err
	}
	cw.Flush()
	if err = cw.Error(); err != nil {
		return err
	}

	n := 0
	for s.it.Next() {
		if err = cw.Write(reviewRow(s.it.Review())); err != nil {
			return err
		}
		cw.Flush()
		if err = cw.Error(); err != nil {
			return err
		}
		n++
		if f, ok := w.(flusher); ok {
			f.Flush()
		}
	}
	observability.ObserveStream(s.label, n)
	return s.it.Err()
}

type flusher interface{ Flush() }

// reviewRow serializes one review in CSVColumns order; nil fields become "".
func reviewRow(r domain.Review) []string {
	return []string{
		r.ID,
		str(r.ReviewerName),
		str(r.Title),
		ratingStr(r.Rating),
		str(r.Content),
		str(r.ReviewerIP),
		str(r.BusinessID),
		str(r.BusinessName),
		str(r.ReviewerID),
		str(r.Email),
		str(r.ReviewerCountry),
		dateStr(r.Date),
	}
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func ratingStr(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func dateStr(p *time.Time) string {
	if p == nil {
		return ""
	}
	return p.Format(dateFormat)
}
