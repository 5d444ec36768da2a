// Package form computes trainer form-adjustment scores from historical
// performance records.
package form

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ktoiv/epistemo-hippodrome/internal/cache"
	"github.com/ktoiv/epistemo-hippodrome/internal/metrics"
	"github.com/ktoiv/epistemo-hippodrome/internal/repository"
)

// trailingWindow is the exact lookback for the recent-form rate
const trailingWindow = 30 * 24 * time.Hour

// Scorer derives a signed form score per trainer: the difference between
// the trailing-window win rate and the all-time win rate, in percentage
// points. Scores change slowly, so they are cached far longer than odds.
type Scorer struct {
	repo   repository.PerformanceRepository
	cache  *cache.Store
	ttl    time.Duration
	now    func() time.Time
	logger *logrus.Logger
}

// NewScorer creates a form scorer with its injected cache
func NewScorer(repo repository.PerformanceRepository, store *cache.Store, ttl time.Duration, logger *logrus.Logger) *Scorer {
	return &Scorer{
		repo:   repo,
		cache:  store,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// Score computes the form score for one trainer. A store failure yields
// zero, cached for the full TTL so an outage does not trigger a query
// storm.
func (s *Scorer) Score(ctx context.Context, coachName string) float64 {
	if cached, found := s.cache.Get(coachName); found {
		return cached.(float64)
	}

	score, err := s.compute(ctx, coachName)
	if err != nil {
		s.logger.WithError(err).WithField("coach", coachName).
			Warn("Could not compute form score, caching zero")
		s.cache.Put(coachName, 0.0, s.ttl)
		return 0
	}

	metrics.FormScoresComputedTotal.Inc()
	s.cache.Put(coachName, score, s.ttl)
	return score
}

func (s *Scorer) compute(ctx context.Context, coachName string) (float64, error) {
	monthAgo := s.now().Add(-trailingWindow)

	recentWins, err := s.repo.CountPerformances(ctx, repository.PerformanceFilter{
		Coach:       coachName,
		WinnersOnly: true,
		Since:       &monthAgo,
	})
	if err != nil {
		return 0, err
	}

	recentStarts, err := s.repo.CountPerformances(ctx, repository.PerformanceFilter{
		Coach: coachName,
		Since: &monthAgo,
	})
	if err != nil {
		return 0, err
	}

	overallWins, err := s.repo.CountPerformances(ctx, repository.PerformanceFilter{
		Coach:       coachName,
		WinnersOnly: true,
	})
	if err != nil {
		return 0, err
	}

	overallStarts, err := s.repo.CountPerformances(ctx, repository.PerformanceFilter{
		Coach: coachName,
	})
	if err != nil {
		return 0, err
	}

	recentRate := float64(recentWins) / floorOne(recentStarts)
	overallRate := float64(overallWins) / floorOne(overallStarts)

	return (recentRate - overallRate) * 100, nil
}

// floorOne keeps a zero-start trainer from dividing by zero
func floorOne(count int64) float64 {
	if count < 1 {
		return 1
	}
	return float64(count)
}
