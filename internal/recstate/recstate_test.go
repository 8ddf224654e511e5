package recstate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"querypulse/internal/domain"
)

type fakeAPI struct {
	detail     domain.QueryDetail
	detailErr  error
	applyErr   error
	dismissErr error
}

func (f *fakeAPI) QueryDetails(_ context.Context, id string) (domain.QueryDetail, error) {
	if f.detailErr != nil {
		return domain.QueryDetail{}, f.detailErr
	}
	return f.detail, nil
}

func (f *fakeAPI) ApplyRecommendation(_ context.Context, id string) (domain.Recommendation, error) {
	if f.applyErr != nil {
		return domain.Recommendation{}, f.applyErr
	}
	return domain.Recommendation{ID: id, Status: domain.RecommendationApplied, Type: "index"}, nil
}

func (f *fakeAPI) DismissRecommendation(_ context.Context, id string) (domain.Recommendation, error) {
	if f.dismissErr != nil {
		return domain.Recommendation{}, f.dismissErr
	}
	return domain.Recommendation{ID: id, Status: domain.RecommendationDismissed, Type: "index"}, nil
}

func testDetail() domain.QueryDetail {
	return domain.QueryDetail{
		QueryRecord: domain.QueryRecord{ID: "q1", SQLText: "SELECT 1"},
		Recommendations: []domain.Recommendation{
			{ID: "r1", QueryID: "q1", Type: "index", Status: domain.RecommendationPending},
			{ID: "r2", QueryID: "q1", Type: "rewrite", Status: domain.RecommendationPending},
		},
	}
}

func loadedStore(t *testing.T, api *fakeAPI) *Store {
	t.Helper()
	store := NewStore(api)
	_, err := store.Load(context.Background(), "q1")
	require.NoError(t, err)
	return store
}

func recStatus(t *testing.T, store *Store, queryID, recID string) domain.RecommendationStatus {
	t.Helper()
	detail, ok := store.Detail(queryID)
	require.True(t, ok)
	for _, rec := range detail.Recommendations {
		if rec.ID == recID {
			return rec.Status
		}
	}
	t.Fatalf("recommendation %s not in cache", recID)
	return ""
}

func TestApplyConfirmedByBackend(t *testing.T) {
	api := &fakeAPI{detail: testDetail()}
	store := loadedStore(t, api)

	require.NoError(t, store.Apply(context.Background(), "q1", "r1"))

	assert.Equal(t, domain.RecommendationApplied, recStatus(t, store, "q1", "r1"))
	assert.Equal(t, domain.RecommendationPending, recStatus(t, store, "q1", "r2"), "sibling untouched")
}

func TestApplyRollsBackOnFailure(t *testing.T) {
	api := &fakeAPI{detail: testDetail(), applyErr: errors.New("backend rejected")}
	store := loadedStore(t, api)

	err := store.Apply(context.Background(), "q1", "r1")
	require.Error(t, err)

	assert.Equal(t, domain.RecommendationPending, recStatus(t, store, "q1", "r1"), "failed apply must restore the snapshot")
}

func TestDismissRollsBackOnFailure(t *testing.T) {
	api := &fakeAPI{detail: testDetail(), dismissErr: errors.New("timeout")}
	store := loadedStore(t, api)

	require.Error(t, store.Dismiss(context.Background(), "q1", "r2"))
	assert.Equal(t, domain.RecommendationPending, recStatus(t, store, "q1", "r2"))
}

func TestDismissConfirmed(t *testing.T) {
	api := &fakeAPI{detail: testDetail()}
	store := loadedStore(t, api)

	require.NoError(t, store.Dismiss(context.Background(), "q1", "r2"))
	assert.Equal(t, domain.RecommendationDismissed, recStatus(t, store, "q1", "r2"))
}

func TestApplyUnknownRecommendation(t *testing.T) {
	api := &fakeAPI{detail: testDetail()}
	store := loadedStore(t, api)

	err := store.Apply(context.Background(), "q1", "nope")
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestLoadErrorDoesNotCache(t *testing.T) {
	api := &fakeAPI{detailErr: errors.New("boom")}
	store := NewStore(api)

	_, err := store.Load(context.Background(), "q1")
	require.Error(t, err)
	_, ok := store.Detail("q1")
	assert.False(t, ok)
}
