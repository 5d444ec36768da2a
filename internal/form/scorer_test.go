package form

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktoiv/epistemo-hippodrome/internal/cache"
	"github.com/ktoiv/epistemo-hippodrome/internal/models"
	"github.com/ktoiv/epistemo-hippodrome/internal/repository"
)

type stubRepository struct {
	counts  func(filter repository.PerformanceFilter) (int64, error)
	calls   int
	filters []repository.PerformanceFilter
}

func (r *stubRepository) CountPerformances(ctx context.Context, filter repository.PerformanceFilter) (int64, error) {
	r.calls++
	r.filters = append(r.filters, filter)
	return r.counts(filter)
}

func newTestScorer(repo repository.PerformanceRepository) *Scorer {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewScorer(repo, cache.NewStore("form-test", time.Minute), time.Minute, log)
}

func TestScoreRecentFormAboveBaseline(t *testing.T) {
	// Recent: 2 wins of 4 starts (50%). Overall: 10 wins of 100 starts (10%).
	repo := &stubRepository{counts: func(filter repository.PerformanceFilter) (int64, error) {
		switch {
		case filter.Since != nil && filter.WinnersOnly:
			return 2, nil
		case filter.Since != nil:
			return 4, nil
		case filter.WinnersOnly:
			return 10, nil
		default:
			return 100, nil
		}
	}}

	scorer := newTestScorer(repo)

	score := scorer.Score(context.Background(), "Kolgjini")
	assert.InDelta(t, 40.0, score, 1e-9)
}

func TestScoreUnknownTrainerIsZero(t *testing.T) {
	repo := &stubRepository{counts: func(filter repository.PerformanceFilter) (int64, error) {
		return 0, nil
	}}

	scorer := newTestScorer(repo)

	score := scorer.Score(context.Background(), "Unknown Trainer")
	assert.Zero(t, score)
}

func TestScoreUsesTrailingWindowBoundary(t *testing.T) {
	repo := &stubRepository{counts: func(filter repository.PerformanceFilter) (int64, error) {
		return 0, nil
	}}

	scorer := newTestScorer(repo)
	fixed := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	scorer.now = func() time.Time { return fixed }

	scorer.Score(context.Background(), "Kolgjini")

	require.Len(t, repo.filters, 4)
	expected := fixed.Add(-30 * 24 * time.Hour)
	for _, filter := range repo.filters[:2] {
		require.NotNil(t, filter.Since)
		assert.True(t, filter.Since.Equal(expected))
	}
	for _, filter := range repo.filters[2:] {
		assert.Nil(t, filter.Since)
	}
}

func TestScoreCachesResult(t *testing.T) {
	repo := &stubRepository{counts: func(filter repository.PerformanceFilter) (int64, error) {
		return 5, nil
	}}

	scorer := newTestScorer(repo)

	first := scorer.Score(context.Background(), "Kolgjini")
	second := scorer.Score(context.Background(), "Kolgjini")

	assert.Equal(t, first, second)
	assert.Equal(t, 4, repo.calls)
}

func TestScoreStoreFailureCachesZero(t *testing.T) {
	repo := &stubRepository{counts: func(filter repository.PerformanceFilter) (int64, error) {
		return 0, models.NewStoreError("connection refused", errors.New("dial tcp"))
	}}

	scorer := newTestScorer(repo)

	score := scorer.Score(context.Background(), "Kolgjini")
	assert.Zero(t, score)

	// The zero must be cached so a store outage does not repeat queries
	scorer.Score(context.Background(), "Kolgjini")
	assert.Equal(t, 1, repo.calls)
}
