// Package recstate caches query details and drives recommendation actions.
//
// Apply and Dismiss are optimistic: the local status flips immediately, the
// backend confirms, and a failure restores the snapshot so the view falls
// back to the truth.
package recstate

import (
	"context"
	"sync"

	"querypulse/internal/domain"
)

// API is the slice of the backend the recommendation layer needs.
type API interface {
	QueryDetails(ctx context.Context, id string) (domain.QueryDetail, error)
	ApplyRecommendation(ctx context.Context, id string) (domain.Recommendation, error)
	DismissRecommendation(ctx context.Context, id string) (domain.Recommendation, error)
}

// Store caches one QueryDetail per query ID.
type Store struct {
	mu      sync.Mutex
	api     API
	details map[string]domain.QueryDetail
}

// NewStore creates an empty cache.
func NewStore(api API) *Store {
	return &Store{api: api, details: make(map[string]domain.QueryDetail)}
}

// Load fetches a query's detail and caches it.
func (s *Store) Load(ctx context.Context, queryID string) (domain.QueryDetail, error) {
	detail, err := s.api.QueryDetails(ctx, queryID)
	if err != nil {
		return domain.QueryDetail{}, err
	}
	s.mu.Lock()
	s.details[queryID] = detail
	s.mu.Unlock()
	return detail, nil
}

// Detail returns the cached detail for a query.
func (s *Store) Detail(queryID string) (domain.QueryDetail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.details[queryID]
	return d, ok
}

// Apply marks a recommendation applied.
func (s *Store) Apply(ctx context.Context, queryID, recID string) error {
	return s.transition(ctx, queryID, recID, domain.RecommendationApplied, s.api.ApplyRecommendation)
}

// Dismiss marks a recommendation dismissed.
func (s *Store) Dismiss(ctx context.Context, queryID, recID string) error {
	return s.transition(ctx, queryID, recID, domain.RecommendationDismissed, s.api.DismissRecommendation)
}

func (s *Store) transition(ctx context.Context, queryID, recID string, tentative domain.RecommendationStatus, confirm func(context.Context, string) (domain.Recommendation, error)) error {
	snapshot, ok := s.setStatus(queryID, recID, tentative)
	if !ok {
		return domain.ErrNotFound("recommendation %s not found for query %s", recID, queryID)
	}

	confirmed, err := confirm(ctx, recID)
	if err != nil {
		s.restore(queryID, recID, snapshot)
		return err
	}
	s.replace(queryID, recID, confirmed)
	return nil
}

// setStatus flips the local status and returns the previous recommendation
// as the rollback snapshot.
func (s *Store) setStatus(queryID, recID string, status domain.RecommendationStatus) (domain.Recommendation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	detail, ok := s.details[queryID]
	if !ok {
		return domain.Recommendation{}, false
	}
	for i, rec := range detail.Recommendations {
		if rec.ID == recID {
			snapshot := rec
			detail.Recommendations[i].Status = status
			s.details[queryID] = detail
			return snapshot, true
		}
	}
	return domain.Recommendation{}, false
}

func (s *Store) restore(queryID, recID string, snapshot domain.Recommendation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	detail, ok := s.details[queryID]
	if !ok {
		return
	}
	for i, rec := range detail.Recommendations {
		if rec.ID == recID {
			detail.Recommendations[i] = snapshot
			s.details[queryID] = detail
			return
		}
	}
}

func (s *Store) replace(queryID, recID string, confirmed domain.Recommendation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	detail, ok := s.details[queryID]
	if !ok {
		return
	}
	for i, rec := range detail.Recommendations {
		if rec.ID == recID {
			detail.Recommendations[i] = confirmed
			s.details[queryID] = detail
			return
		}
	}
}
