// Package racing implements the fetcher for the primary race-data provider.
package racing

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/ktoiv/epistemo-hippodrome/internal/cache"
	"github.com/ktoiv/epistemo-hippodrome/internal/metrics"
	"github.com/ktoiv/epistemo-hippodrome/internal/models"
	"github.com/ktoiv/epistemo-hippodrome/internal/transport"
)

const providerName = "racing"

// Cache key schemes. Keys are derived from naturally bounded identifiers
// so the store never grows past the day's card list.
const (
	cardsCacheKey     = "cards-today"
	racesKeyPrefix    = "races"
	runnersKeyPrefix  = "runners"
	poolsKeyPrefix    = "pools"
	poolOddsKeyPrefix = "pool-odds"
)

// Options configures a racing client
type Options struct {
	BaseURL     string
	CountryCode string
	CacheTTL    time.Duration
	// OddsCacheTTL bounds upstream volume on the per-pool odds endpoint.
	// Zero disables caching entirely: odds move too fast to serve stale.
	OddsCacheTTL time.Duration
}

// Client retrieves and caches cards, races, runners, pools and per-pool
// odds from the racing provider. Every operation degrades to an empty
// result on upstream failure instead of surfacing the error; a missing
// base URL therefore yields a permanently empty provider, not a crash.
type Client struct {
	http   *transport.Client
	cache  *cache.Store
	opts   Options
	group  singleflight.Group
	logger *logrus.Logger
}

// NewClient creates a racing-provider client with its injected cache
func NewClient(httpClient *transport.Client, store *cache.Store, opts Options, logger *logrus.Logger) *Client {
	return &Client{
		http:   httpClient,
		cache:  store,
		opts:   opts,
		logger: logger,
	}
}

type cardCollection struct {
	Collection []models.Card `json:"collection"`
}

type raceCollection struct {
	Collection []models.Race `json:"collection"`
}

type runnerCollection struct {
	Collection []models.Runner `json:"collection"`
}

type poolCollection struct {
	Collection []models.Pool `json:"collection"`
}

type oddsEnvelope struct {
	Odds []models.Odd `json:"odds"`
}

// FetchCardsForToday retrieves today's cards filtered to the configured
// country code
func (c *Client) FetchCardsForToday(ctx context.Context) []models.Card {
	if cached, found := c.cache.Get(cardsCacheKey); found {
		return cached.([]models.Card)
	}

	result, err, _ := c.group.Do(cardsCacheKey, func() (interface{}, error) {
		metrics.RecordProviderFetch(providerName, "cards")

		var payload cardCollection
		if err := c.http.GetJSON(ctx, fmt.Sprintf("%s/cards/today", c.opts.BaseURL), &payload); err != nil {
			return nil, models.NewUpstreamError(providerName, "could not fetch cards for today", err)
		}

		cards := make([]models.Card, 0, len(payload.Collection))
		for _, card := range payload.Collection {
			if card.Country == c.opts.CountryCode {
				cards = append(cards, card)
			}
		}

		c.cache.Put(cardsCacheKey, cards, c.opts.CacheTTL)
		return cards, nil
	})
	if err != nil {
		metrics.RecordProviderFailure(providerName, "cards")
		c.logger.WithError(err).Warn("Could not fetch cards for today, returning empty list")
		return []models.Card{}
	}

	return result.([]models.Card)
}

// FetchRacesForCard retrieves the races of one card
func (c *Client) FetchRacesForCard(ctx context.Context, card models.Card) []models.Race {
	key := fmt.Sprintf("%s-%s", racesKeyPrefix, card.TrackName)
	if cached, found := c.cache.Get(key); found {
		return cached.([]models.Race)
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		metrics.RecordProviderFetch(providerName, "races")

		var payload raceCollection
		url := fmt.Sprintf("%s/card/%d/races", c.opts.BaseURL, card.CardID)
		if err := c.http.GetJSON(ctx, url, &payload); err != nil {
			return nil, models.NewUpstreamError(providerName, "could not fetch races", err)
		}

		c.cache.Put(key, payload.Collection, c.opts.CacheTTL)
		return payload.Collection, nil
	})
	if err != nil {
		metrics.RecordProviderFailure(providerName, "races")
		c.logger.WithError(err).WithField("track", card.TrackName).
			Warn("Could not fetch races for card, returning empty list")
		return []models.Race{}
	}

	return result.([]models.Race)
}

// FetchRunnersForRace retrieves the runners of one race
func (c *Client) FetchRunnersForRace(ctx context.Context, race models.Race) []models.Runner {
	key := fmt.Sprintf("%s-%d", runnersKeyPrefix, race.RaceID)
	if cached, found := c.cache.Get(key); found {
		return cached.([]models.Runner)
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		metrics.RecordProviderFetch(providerName, "runners")

		var payload runnerCollection
		url := fmt.Sprintf("%s/race/%d/runners", c.opts.BaseURL, race.RaceID)
		if err := c.http.GetJSON(ctx, url, &payload); err != nil {
			return nil, models.NewUpstreamError(providerName, "could not fetch runners", err)
		}

		c.cache.Put(key, payload.Collection, c.opts.CacheTTL)
		return payload.Collection, nil
	})
	if err != nil {
		metrics.RecordProviderFailure(providerName, "runners")
		c.logger.WithError(err).WithField("race_number", race.Number).
			Warn("Could not fetch runners for race, returning empty list")
		return []models.Runner{}
	}

	return result.([]models.Runner)
}

// FetchPoolsForRace retrieves the pools offered on one race, filtered to
// the recognized pool types
func (c *Client) FetchPoolsForRace(ctx context.Context, race models.Race) []models.Pool {
	key := fmt.Sprintf("%s-%d", poolsKeyPrefix, race.RaceID)
	if cached, found := c.cache.Get(key); found {
		return cached.([]models.Pool)
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		metrics.RecordProviderFetch(providerName, "pools")

		var payload poolCollection
		url := fmt.Sprintf("%s/race/%d/pools", c.opts.BaseURL, race.RaceID)
		if err := c.http.GetJSON(ctx, url, &payload); err != nil {
			return nil, models.NewUpstreamError(providerName, "could not fetch pools", err)
		}

		pools := make([]models.Pool, 0, len(payload.Collection))
		for _, pool := range payload.Collection {
			if IsRecognizedPoolType(pool.PoolType) {
				pools = append(pools, pool)
			}
		}

		c.cache.Put(key, pools, c.opts.CacheTTL)
		return pools, nil
	})
	if err != nil {
		metrics.RecordProviderFailure(providerName, "pools")
		c.logger.WithError(err).WithField("race_number", race.Number).
			Warn("Could not fetch pools for race, returning empty list")
		return []models.Pool{}
	}

	return result.([]models.Pool)
}

// FetchOddsForPool retrieves the current odds of one pool. Multi-leg
// pools return rows spanning every race of the game, so those are
// filtered down to the requested race. Results are only cached when a
// short odds TTL is configured.
func (c *Client) FetchOddsForPool(ctx context.Context, pool models.Pool, race models.Race) []models.Odd {
	key := fmt.Sprintf("%s-%d-%d", poolOddsKeyPrefix, pool.PoolID, race.RaceID)
	if c.opts.OddsCacheTTL > 0 {
		if cached, found := c.cache.Get(key); found {
			return cached.([]models.Odd)
		}
	}

	metrics.RecordProviderFetch(providerName, "odds")

	var payload oddsEnvelope
	url := fmt.Sprintf("%s/pool/%d/odds", c.opts.BaseURL, pool.PoolID)
	if err := c.http.GetJSON(ctx, url, &payload); err != nil {
		metrics.RecordProviderFailure(providerName, "odds")
		c.logger.WithError(err).WithField("pool_type", pool.PoolType).
			Warn("Could not fetch odds for pool, returning empty list")
		return []models.Odd{}
	}

	odds := payload.Odds
	if IsMultiLegPoolType(pool.PoolType) {
		filtered := make([]models.Odd, 0, len(odds))
		for _, odd := range odds {
			if odd.RaceID != nil && *odd.RaceID == race.RaceID {
				filtered = append(filtered, odd)
			}
		}
		odds = filtered
	}

	if c.opts.OddsCacheTTL > 0 {
		c.cache.Put(key, odds, c.opts.OddsCacheTTL)
	}

	return odds
}
