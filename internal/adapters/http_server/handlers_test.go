package httpserver_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpserver "tp_reviews/internal/adapters/http_server"
	"tp_reviews/internal/app"
	"tp_reviews/internal/domain"
)

// ---- fakes ----

type sliceIter struct {
	items []domain.Review
	pos   int
}

func (f *sliceIter) Next() bool {
	if f.pos < len(f.items) {
		f.pos++
		return true
	}
	return false
}
func (f *sliceIter) Review() domain.Review { return f.items[f.pos-1] }
func (f *sliceIter) Err() error            { return nil }
func (f *sliceIter) Close() error          { return nil }

type fakeRepo struct{ reviews []domain.Review }

func (f *fakeRepo) UpsertReviews(ctx context.Context, rs []domain.Review) error { return nil }
func (f *fakeRepo) CountReviews(ctx context.Context) (int64, error)             { return 0, nil }
func (f *fakeRepo) EnsureSchema(ctx context.Context) error                      { return nil }
func (f *fakeRepo) StreamByBusiness(ctx context.Context, businessID string) (domain.ReviewIterator, error) {
	var match []domain.Review
	for _, r := range f.reviews {
		if r.BusinessID != nil && *r.BusinessID == businessID {
			match = append(match, r)
		}
	}
	return &sliceIter{items: match}, nil
}
func (f *fakeRepo) StreamByReviewer(ctx context.Context, reviewerID string) (domain.ReviewIterator, error) {
	var match []domain.Review
	for _, r := range f.reviews {
		if r.ReviewerID != nil && *r.ReviewerID == reviewerID {
			match = append(match, r)
		}
	}
	return &sliceIter{items: match}, nil
}
func (f *fakeRepo) HasReviewer(ctx context.Context, reviewerID string) (bool, error) {
	for _, r := range f.reviews {
		if r.ReviewerID != nil && *r.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}
func (f *fakeRepo) GetAccount(ctx context.Context, reviewerID string) (domain.Account, error) {
	for _, r := range f.reviews {
		if r.ReviewerID != nil && *r.ReviewerID == reviewerID {
			return domain.Account{
				ReviewerID:      *r.ReviewerID,
				ReviewerName:    r.ReviewerName,
				Email:           r.Email,
				ReviewerCountry: r.ReviewerCountry,
			}, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

func ptr[T any](v T) *T { return &v }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	repo := &fakeRepo{reviews: []domain.Review{
		{
			ID:           "1",
			ReviewerID:   ptr("456"),
			ReviewerName: ptr("Test User"),
			BusinessID:   ptr("biz1"),
			Rating:       ptr(5),
			Title:        ptr("Great!"),
		},
		{
			ID:           "2",
			ReviewerID:   ptr("789"),
			ReviewerName: ptr("Another User"),
			BusinessID:   ptr("biz2"),
			Rating:       ptr(4),
			Title:        ptr("Good"),
		},
	}}
	q := app.NewQueryService(repo, nil, time.Minute)
	srv := httpserver.New(0)
	srv.MountHandlers(&httpserver.Handlers{Q: q})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	body, _ := io.ReadAll(res.Body)
	_ = res.Body.Close()
	return res, string(body)
}

// ---- tests ----

func TestBusinessReviews_CSVAttachment(t *testing.T) {
	ts := newTestServer(t)
	res, body := get(t, ts.URL+"/business/biz1/reviews")

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type %q", ct)
	}
	if cd := res.Header.Get("Content-Disposition"); cd != `attachment; filename="biz1_reviews.csv"` {
		t.Fatalf("content disposition %q", cd)
	}
	if !strings.HasPrefix(body, "review_id,reviewer_name,review_title,review_rating") {
		t.Fatalf("missing header row: %q", body)
	}
	if !strings.Contains(body, "Great!") || strings.Contains(body, "Good") {
		t.Fatalf("wrong rows:\n%s", body)
	}
}

func TestBusinessReviews_UnknownBusinessIs200HeaderOnly(t *testing.T) {
	ts := newTestServer(t)
	res, body := get(t, ts.URL+"/business/ghost/reviews")

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200 for unknown business", res.StatusCode)
	}
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected header-only body, got %d lines:\n%s", len(lines), body)
	}
}

func TestUserReviews_StreamsRows(t *testing.T) {
	ts := newTestServer(t)
	res, body := get(t, ts.URL+"/user/789/reviews")

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	if !strings.Contains(body, "2,Another User,Good,4") {
		t.Fatalf("expected row for review 2:\n%s", body)
	}
}

func TestUserReviews_UnknownReviewerIs404(t *testing.T) {
	ts := newTestServer(t)
	res, body := get(t, ts.URL+"/user/000/reviews")

	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d, want 404", res.StatusCode)
	}
	if !strings.Contains(res.Header.Get("Content-Type"), "application/problem+json") {
		t.Fatalf("content type %q", res.Header.Get("Content-Type"))
	}
	if !strings.Contains(body, "Not Found") {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestUserAccount_JSON(t *testing.T) {
	ts := newTestServer(t)
	res, body := get(t, ts.URL+"/user/456/account")

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	var acc struct {
		ReviewerID   string  `json:"reviewer_id"`
		ReviewerName *string `json:"reviewer_name"`
	}
	if err := json.Unmarshal([]byte(body), &acc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if acc.ReviewerID != "456" || acc.ReviewerName == nil || *acc.ReviewerName != "Test User" {
		t.Fatalf("unexpected account: %s", body)
	}
}

func TestUserAccount_UnknownReviewerIs404(t *testing.T) {
	ts := newTestServer(t)
	res, _ := get(t, ts.URL+"/user/000/account")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d, want 404", res.StatusCode)
	}
}

func TestRoot_Welcome(t *testing.T) {
	ts := newTestServer(t)
	res, body := get(t, ts.URL+"/")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	if !strings.Contains(body, "Welcome") {
		t.Fatalf("unexpected body: %s", body)
	}
}
