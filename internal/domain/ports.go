package domain

import "context"

type ReviewRepository interface {
	// Write paths
	UpsertReviews(ctx context.Context, rs []Review) error
	CountReviews(ctx context.Context) (int64, error)
	EnsureSchema(ctx context.Context) error

	// Read paths
	StreamByBusiness(ctx context.Context, businessID string) (ReviewIterator, error)
	StreamByReviewer(ctx context.Context, reviewerID string) (ReviewIterator, error)
	HasReviewer(ctx context.Context, reviewerID string) (bool, error)
	GetAccount(ctx context.Context, reviewerID string) (Account, error)
}

// ReviewIterator is a lazy cursor over matching reviews. It holds a live
// read session until Close, which must be called exactly once on every
// exit path (same contract as sql.Rows).
type ReviewIterator interface {
	Next() bool
	Review() Review
	Err() error
	Close() error
}

// RawReview is one uncleaned source row keyed by canonical field name.
type RawReview map[string]string

type ReviewSource interface {
	Load(ctx context.Context) ([]RawReview, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
