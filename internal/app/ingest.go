package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"tp_reviews/internal/adapters/observability"
	"tp_reviews/internal/domain"
)

const defaultBatchSize = 500

type IngestionService struct {
	source    domain.ReviewSource
	repo      domain.ReviewRepository
	cache     domain.Cache
	batchSize int
}

func NewIngestionService(src domain.ReviewSource, r domain.ReviewRepository, cache domain.Cache, batchSize int) *IngestionService {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &IngestionService{source: src, repo: r, cache: cache, batchSize: batchSize}
}

// Run loads the source, cleans it, and upserts the survivors in independent
// batches. A source fault aborts before any store mutation; a store fault
// aborts mid-run, leaving earlier batches durably applied (each batch is its
// own statement, there is no atomicity across the whole input).
func (s *IngestionService) Run(ctx context.Context) error {
	raws, err := s.source.Load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("loading source failed")
		return fmt.Errorf("load source: %w", err)
	}
	observability.ObserveIngest("read", len(raws))

	cleaned := Clean(raws)
	log.Info().Int("rows", len(cleaned)).Msg("upserting cleaned rows")

	batches := (len(cleaned) + s.batchSize - 1) / s.batchSize
	for i := 0; i < len(cleaned); i += s.batchSize {
		end := i + s.batchSize
		if end > len(cleaned) {
			end = len(cleaned)
		}
		batch := cleaned[i:end]
		if err := s.repo.UpsertReviews(ctx, batch); err != nil {
			return fmt.Errorf("upsert batch %d/%d: %w", i/s.batchSize+1, batches, err)
		}
		observability.ObserveIngest("upserted", len(batch))
		log.Info().
			Int("batch", i/s.batchSize+1).
			Int("batches", batches).
			Int("rows", len(batch)).
			Msg("batch upserted")
	}

	// Account lookups are served from cache; drop entries for every reviewer
	// this run touched so reads see the fresh row.
	if s.cache != nil {
		s.invalidateAccounts(ctx, cleaned)
	}

	if total, err := s.repo.CountReviews(ctx); err == nil {
		log.Info().Int64("total", total).Msg("rows in store after ingest")
	}
	return nil
}

func (s *IngestionService) invalidateAccounts(ctx context.Context, rs []domain.Review) {
	seen := map[string]struct{}{}
	for _, r := range rs {
		if r.ReviewerID == nil {
			continue
		}
		if _, done := seen[*r.ReviewerID]; done {
			continue
		}
		seen[*r.ReviewerID] = struct{}{}
		_ = s.cache.Del(ctx, accountKey(*r.ReviewerID))
	}
}
