package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joyroute/backend/internal/domain"
)

// PlaceSearcher is the slice of the mapbox client the search service
// depends on. Defined here so tests can inject a fake provider.
type PlaceSearcher interface {
	ForwardGeocode(ctx context.Context, query string, autocomplete bool, limit int) ([]domain.PlaceSuggestion, error)
}

// SuggestionCache is the optional read-through cache in front of the
// provider. A nil cache disables caching entirely.
type SuggestionCache interface {
	Get(ctx context.Context, query string, autocomplete bool, limit int) ([]domain.PlaceSuggestion, bool, error)
	Set(ctx context.Context, query string, autocomplete bool, limit int, suggestions []domain.PlaceSuggestion) error
}

// PlaceSearchService resolves free-text queries into normalized place
// suggestions, caching provider responses when a cache is configured.
type PlaceSearchService struct {
	searcher PlaceSearcher
	cache    SuggestionCache
	log      *slog.Logger
}

// NewPlaceSearchService constructs a PlaceSearchService.
// cache may be nil to disable caching.
func NewPlaceSearchService(searcher PlaceSearcher, cache SuggestionCache, log *slog.Logger) *PlaceSearchService {
	return &PlaceSearchService{searcher: searcher, cache: cache, log: log}
}

// Search validates the query, consults the cache, and falls back to the
// provider. Cache errors are logged and ignored — search must keep working
// when Redis is down. limit is clamped to [1, 10].
func (s *PlaceSearchService) Search(ctx context.Context, query string, autocomplete bool, limit int) ([]domain.PlaceSuggestion, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, fmt.Errorf("%w: query must be at least 2 characters", domain.ErrValidation)
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 10 {
		limit = 10
	}

	if s.cache != nil {
		cached, hit, err := s.cache.Get(ctx, query, autocomplete, limit)
		if err != nil {
			s.log.WarnContext(ctx, "place-search cache read failed", "error", err)
		} else if hit {
			return cached, nil
		}
	}

	suggestions, err := s.searcher.ForwardGeocode(ctx, query, autocomplete, limit)
	if err != nil {
		return nil, fmt.Errorf("service.PlaceSearchService.Search: %w", err)
	}
	if suggestions == nil {
		suggestions = []domain.PlaceSuggestion{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, query, autocomplete, limit, suggestions); err != nil {
			s.log.WarnContext(ctx, "place-search cache write failed", "error", err)
		}
	}

	return suggestions, nil
}
