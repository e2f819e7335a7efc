package app

import (
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"tp_reviews/internal/adapters/observability"
	"tp_reviews/internal/domain"
)

// dateLayouts is tried in order when parsing review_date.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// Clean validates and normalizes raw rows in three ordered passes, each one
// only shrinking the candidate set: dedup by review_id (first occurrence
// wins), date parse, rating range. Survivor order matches input order.
// Dropped rows are never an error; only counts are logged.
func Clean(raws []domain.RawReview) []domain.Review {
	log.Info().Int("rows", len(raws)).Msg("cleaning started")

	// 1) dedup by review_id, keep-first
	seen := make(map[string]struct{}, len(raws))
	deduped := make([]domain.RawReview, 0, len(raws))
	for _, r := range raws {
		id := r["review_id"]
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, r)
	}
	log.Info().Int("rows", len(deduped)).Msg("removed duplicates")
	observability.ObserveIngest("deduped", len(deduped))

	// 2) parse dates, drop unparseable
	type dated struct {
		raw  domain.RawReview
		when time.Time
	}
	withDates := make([]dated, 0, len(deduped))
	for _, r := range deduped {
		t, ok := parseDate(r["review_date"])
		if !ok {
			continue
		}
		withDates = append(withDates, dated{raw: r, when: t})
	}
	log.Info().Int("rows", len(withDates)).Msg("filtered invalid dates")
	observability.ObserveIngest("dated", len(withDates))

	// 3) rating must be numeric and within [1,5]; no clamping
	out := make([]domain.Review, 0, len(withDates))
	for _, d := range withDates {
		f, err := strconv.ParseFloat(d.raw["review_rating"], 64)
		if err != nil || f < 1 || f > 5 {
			continue
		}
		rating := int(f)
		when := d.when
		out = append(out, domain.Review{
			ID:              d.raw["review_id"],
			ReviewerName:    optional(d.raw, "reviewer_name"),
			Title:           optional(d.raw, "review_title"),
			Rating:          &rating,
			Content:         optional(d.raw, "review_content"),
			ReviewerIP:      optional(d.raw, "review_ip"),
			BusinessID:      optional(d.raw, "business_id"),
			BusinessName:    optional(d.raw, "business_name"),
			ReviewerID:      optional(d.raw, "reviewer_id"),
			Email:           optional(d.raw, "email"),
			ReviewerCountry: optional(d.raw, "reviewer_country"),
			Date:            &when,
		})
	}
	log.Info().Int("rows", len(out)).Msg("filtered invalid ratings")
	observability.ObserveIngest("cleaned", len(out))

	return out
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// optional maps an empty or missing cell to nil so it lands as SQL NULL.
func optional(r domain.RawReview, key string) *string {
	if v, ok := r[key]; ok && v != "" {
		s := v
		return &s
	}
	return nil
}
