package app

import (
	"context"
	"fmt"
	"time"

	"tp_reviews/internal/domain"
)

type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// BusinessReviewsCSV opens a lazy stream over a business's reviews. A
// business with no rows is not an error; the stream is just header-only.
func (s *QueryService) BusinessReviewsCSV(ctx context.Context, businessID string) (*ReviewStream, error) {
	it, err := s.repo.StreamByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return NewReviewStream(it, "business"), nil
}

// UserReviewsCSV opens a lazy stream over a reviewer's reviews. Unlike the
// business lookup it prechecks existence and returns ErrNotFound before any
// streaming starts when the reviewer has no rows.
func (s *QueryService) UserReviewsCSV(ctx context.Context, reviewerID string) (*ReviewStream, error) {
	ok, err := s.repo.HasReviewer(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	it, err := s.repo.StreamByReviewer(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	return NewReviewStream(it, "reviewer"), nil
}

// UserAccount returns the public fields of the reviewer's first review row.
func (s *QueryService) UserAccount(ctx context.Context, reviewerID string) (domain.Account, error) {
	key := accountKey(reviewerID)
	var acc domain.Account
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &acc); ok {
			return acc, nil
		}
	}
	acc, err := s.repo.GetAccount(ctx, reviewerID)
	if err != nil {
		return domain.Account{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, acc, int(s.cacheTTL.Seconds()))
	}
	return acc, nil
}

func accountKey(reviewerID string) string {
	return fmt.Sprintf("account:%s", reviewerID)
}
