// Package service composes provider data into the per-runner race view.
package service

import (
	"context"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/ktoiv/epistemo-hippodrome/internal/metrics"
	"github.com/ktoiv/epistemo-hippodrome/internal/models"
	"github.com/ktoiv/epistemo-hippodrome/internal/odds"
	"github.com/ktoiv/epistemo-hippodrome/internal/racing"
)

// bookmakerOddsName labels the bookmaker's entry in a runner's odds list
const bookmakerOddsName = "Bookmaker"

// CardSource provides race metadata and pool odds from the primary provider
type CardSource interface {
	FetchCardsForToday(ctx context.Context) []models.Card
	FetchRacesForCard(ctx context.Context, card models.Card) []models.Race
	FetchRunnersForRace(ctx context.Context, race models.Race) []models.Runner
	FetchPoolsForRace(ctx context.Context, race models.Race) []models.Pool
	FetchOddsForPool(ctx context.Context, pool models.Pool, race models.Race) []models.Odd
}

// OutcomeSource provides the secondary provider's outcome odds
type OutcomeSource interface {
	FetchOutcomes(ctx context.Context, track string, raceNumber int) []models.Outcome
}

// FormSource provides trainer form scores
type FormSource interface {
	Score(ctx context.Context, coachName string) float64
}

// RaceViewService aggregates both providers and the form scorer into the
// final per-runner view
type RaceViewService struct {
	racing    CardSource
	bookmaker OutcomeSource
	form      FormSource
	logger    *logrus.Logger
}

// NewRaceViewService creates the aggregation service
func NewRaceViewService(racingSource CardSource, bookmakerSource OutcomeSource, formSource FormSource, logger *logrus.Logger) *RaceViewService {
	return &RaceViewService{
		racing:    racingSource,
		bookmaker: bookmakerSource,
		form:      formSource,
		logger:    logger,
	}
}

// ListCards returns today's cards as the track list view
func (s *RaceViewService) ListCards(ctx context.Context) []models.Track {
	cards := s.racing.FetchCardsForToday(ctx)

	tracks := make([]models.Track, 0, len(cards))
	for _, card := range cards {
		tracks = append(tracks, models.Track{Name: card.TrackName})
	}
	return tracks
}

// ListRaces returns the races of the named card, or ErrNotFound when no
// card matches
func (s *RaceViewService) ListRaces(ctx context.Context, cardName string) ([]models.Race, error) {
	card, err := s.resolveCard(ctx, cardName)
	if err != nil {
		return nil, err
	}
	return s.racing.FetchRacesForCard(ctx, card), nil
}

// game pairs a pool type with its fetched odds rows
type game struct {
	poolType string
	odds     []models.Odd
}

// BuildRaceView assembles the per-runner view for one race. Metadata for
// the race, its pools and the bookmaker outcomes are fetched
// concurrently, then every pool's odds, then one view per runner.
// A race without a win pool yields an empty view: without a win-market
// reference price no stake can be computed.
func (s *RaceViewService) BuildRaceView(ctx context.Context, cardName string, raceNumber int) ([]models.HorseView, error) {
	timer := prometheus.NewTimer(metrics.RaceViewBuildDuration)
	defer timer.ObserveDuration()

	card, err := s.resolveCard(ctx, cardName)
	if err != nil {
		return nil, err
	}

	race, err := s.resolveRace(ctx, card, raceNumber)
	if err != nil {
		return nil, err
	}

	var (
		outcomes []models.Outcome
		pools    []models.Pool
		runners  []models.Runner
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		outcomes = s.bookmaker.FetchOutcomes(ctx, cardName, raceNumber)
	}()
	go func() {
		defer wg.Done()
		pools = s.racing.FetchPoolsForRace(ctx, race)
	}()
	go func() {
		defer wg.Done()
		runners = s.racing.FetchRunnersForRace(ctx, race)
	}()
	wg.Wait()

	if !hasWinPool(pools) {
		s.logger.WithFields(logrus.Fields{
			"card": cardName,
			"race": raceNumber,
		}).Warn("No win pool offered, returning empty view")
		return []models.HorseView{}, nil
	}

	games := make([]game, len(pools))
	wg.Add(len(pools))
	for i, pool := range pools {
		go func(i int, pool models.Pool) {
			defer wg.Done()
			games[i] = game{
				poolType: pool.PoolType,
				odds:     s.racing.FetchOddsForPool(ctx, pool, race),
			}
		}(i, pool)
	}
	wg.Wait()

	views := make([]models.HorseView, len(runners))
	wg.Add(len(runners))
	for i, runner := range runners {
		go func(i int, runner models.Runner) {
			defer wg.Done()
			views[i] = s.composeHorseView(ctx, runner, games, outcomes)
		}(i, runner)
	}
	wg.Wait()

	metrics.RaceViewsBuiltTotal.Inc()
	return views, nil
}

// composeHorseView merges every pool's normalized odds, the bookmaker's
// normalized outcome, the trainer form score and the stake recommendation
// into one runner view
func (s *RaceViewService) composeHorseView(ctx context.Context, runner models.Runner, games []game, outcomes []models.Outcome) models.HorseView {
	name := runner.DisplayName()

	commonOdds := make([]models.CommonOdd, 0, len(games)+1)
	var marketPercentage float64
	for _, g := range games {
		odd, found := findOddForRunner(g.odds, runner.StartNumber)
		if !found {
			// The runner simply has no price in this pool
			continue
		}

		common := odds.FromPoolOdd(g.poolType, odd)
		if g.poolType == racing.PoolTypeWin {
			marketPercentage = common.Percentage
		}
		commonOdds = append(commonOdds, common)
	}

	outcome, found := findOutcomeForRunner(outcomes, name)
	if !found {
		outcome = models.Outcome{Label: name, StartNumber: runner.StartNumber}
	}
	bookmakerOdd := odds.FromBookmakerOutcome(bookmakerOddsName, outcome)
	commonOdds = append(commonOdds, bookmakerOdd)

	formScore := s.form.Score(ctx, runner.CoachName)

	return models.HorseView{
		Number:              runner.StartNumber,
		Name:                name,
		FrontShoes:          runner.FrontShoes == models.HasShoes,
		RearShoes:           runner.RearShoes == models.HasShoes,
		Driver:              runner.DriverName,
		Coach:               runner.CoachName,
		Odds:                commonOdds,
		FormScore:           formScore,
		StakeRecommendation: StakeRecommendation(marketPercentage, bookmakerOdd.Percentage, formScore),
	}
}

// resolveCard matches the card name case-insensitively against today's
// track names
func (s *RaceViewService) resolveCard(ctx context.Context, cardName string) (models.Card, error) {
	for _, card := range s.racing.FetchCardsForToday(ctx) {
		if strings.EqualFold(card.TrackName, cardName) {
			return card, nil
		}
	}
	return models.Card{}, models.ErrNotFound
}

// resolveRace matches the race number within the card's races
func (s *RaceViewService) resolveRace(ctx context.Context, card models.Card, raceNumber int) (models.Race, error) {
	for _, race := range s.racing.FetchRacesForCard(ctx, card) {
		if race.Number == raceNumber {
			return race, nil
		}
	}
	return models.Race{}, models.ErrNotFound
}

func hasWinPool(pools []models.Pool) bool {
	for _, pool := range pools {
		if pool.PoolType == racing.PoolTypeWin {
			return true
		}
	}
	return false
}

func findOddForRunner(rows []models.Odd, startNumber int) (models.Odd, bool) {
	for _, odd := range rows {
		if odd.RunnerNumber == startNumber {
			return odd, true
		}
	}
	return models.Odd{}, false
}

func findOutcomeForRunner(outcomes []models.Outcome, name string) (models.Outcome, bool) {
	for _, outcome := range outcomes {
		if strings.EqualFold(outcome.Label, name) {
			return outcome, true
		}
	}
	return models.Outcome{}, false
}
