// Package bookmaker implements the fetcher for the secondary odds provider.
package bookmaker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/ktoiv/epistemo-hippodrome/internal/cache"
	"github.com/ktoiv/epistemo-hippodrome/internal/metrics"
	"github.com/ktoiv/epistemo-hippodrome/internal/models"
	"github.com/ktoiv/epistemo-hippodrome/internal/transport"
)

const providerName = "bookmaker"

const eventsCacheKey = "events"

// Options configures a bookmaker client
type Options struct {
	BaseURL  string
	CacheTTL time.Duration
}

// Client retrieves the bookmaker's per-event outcome odds. Caching is
// two-level: a coarse cache of every event with offers, refetched once
// per TTL window, and a fine cache keyed by track and race number. The
// client never raises to its caller; any transport or parse failure
// yields an empty outcome list.
type Client struct {
	http   *transport.Client
	cache  *cache.Store
	opts   Options
	group  singleflight.Group
	logger *logrus.Logger
}

// NewClient creates a bookmaker client with its injected cache
func NewClient(httpClient *transport.Client, store *cache.Store, opts Options, logger *logrus.Logger) *Client {
	return &Client{
		http:   httpClient,
		cache:  store,
		opts:   opts,
		logger: logger,
	}
}

type eventsEnvelope struct {
	Events []models.EventWithOffers `json:"events"`
}

// FetchOutcomes returns the bookmaker's outcomes for one race, resolved
// by matching the track name and race number embedded in event names
func (c *Client) FetchOutcomes(ctx context.Context, track string, raceNumber int) []models.Outcome {
	key := outcomeCacheKey(track, raceNumber)
	if cached, found := c.cache.Get(key); found {
		return cached.([]models.Outcome)
	}

	events, err := c.fetchEvents(ctx)
	if err != nil {
		metrics.RecordProviderFailure(providerName, "events")
		c.logger.WithError(err).Warn("Could not fetch bookmaker events, returning empty list")
		return []models.Outcome{}
	}

	outcomes := c.findOutcomes(track, raceNumber, events)
	c.cache.Put(key, outcomes, c.opts.CacheTTL)
	return outcomes
}

// fetchEvents returns the bookmaker's event list, serving from the
// coarse cache inside one TTL window
func (c *Client) fetchEvents(ctx context.Context) ([]models.EventWithOffers, error) {
	if cached, found := c.cache.Get(eventsCacheKey); found {
		return cached.([]models.EventWithOffers), nil
	}

	result, err, _ := c.group.Do(eventsCacheKey, func() (interface{}, error) {
		metrics.RecordProviderFetch(providerName, "events")

		var payload eventsEnvelope
		if err := c.http.GetJSON(ctx, c.opts.BaseURL, &payload); err != nil {
			return nil, models.NewUpstreamError(providerName, "could not fetch events", err)
		}

		c.cache.Put(eventsCacheKey, payload.Events, c.opts.CacheTTL)
		return payload.Events, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]models.EventWithOffers), nil
}

// findOutcomes picks the event whose embedded track name matches
// case-insensitively and whose race number matches exactly. Events with
// unparseable names are skipped, not fatal; a matching event without
// offers yields an empty outcome list.
func (c *Client) findOutcomes(track string, raceNumber int, events []models.EventWithOffers) []models.Outcome {
	for _, event := range events {
		eventTrack, eventRaceNumber, err := parseEventName(event.Event.Name)
		if err != nil {
			c.logger.WithError(err).Debug("Skipping bookmaker event with unparseable name")
			continue
		}

		if strings.EqualFold(eventTrack, track) && eventRaceNumber == raceNumber {
			if !event.HasOffers() {
				return []models.Outcome{}
			}
			return event.BetOffers[0].Outcomes
		}
	}

	return []models.Outcome{}
}

func outcomeCacheKey(track string, raceNumber int) string {
	return fmt.Sprintf("%s-%d", strings.ToLower(track), raceNumber)
}
