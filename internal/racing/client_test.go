package racing

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktoiv/epistemo-hippodrome/internal/cache"
	"github.com/ktoiv/epistemo-hippodrome/internal/models"
	"github.com/ktoiv/epistemo-hippodrome/internal/transport"
)

func poolWith(id int64, poolType string) models.Pool {
	return models.Pool{PoolID: id, PoolType: poolType}
}

func raceWith(id int64) models.Race {
	return models.Race{RaceID: id, Number: int(id)}
}

func newTestClient(t *testing.T, baseURL string, oddsCacheTTL time.Duration) *Client {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	clientCfg := transport.DefaultClientConfig()
	clientCfg.MaxRetries = 0
	clientCfg.Timeout = 2 * time.Second

	return NewClient(transport.NewClient(clientCfg, log), cache.NewStore("racing-test", time.Minute), Options{
		BaseURL:      baseURL,
		CountryCode:  "SE",
		CacheTTL:     time.Minute,
		OddsCacheTTL: oddsCacheTTL,
	}, log)
}

func TestFetchCardsForTodayFiltersCountry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cards/today", r.URL.Path)
		fmt.Fprint(w, `{"collection": [
			{"cardId": 1, "country": "SE", "trackName": "Solvalla", "trackAbbreviation": "S"},
			{"cardId": 2, "country": "FI", "trackName": "Vermo", "trackAbbreviation": "V"},
			{"cardId": 3, "country": "SE", "trackName": "Axevalla", "trackAbbreviation": "Ax"}
		]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)

	cards := client.FetchCardsForToday(context.Background())

	require.Len(t, cards, 2)
	assert.Equal(t, "Solvalla", cards[0].TrackName)
	assert.Equal(t, "Axevalla", cards[1].TrackName)
}

func TestFetchCardsForTodayServesFromCache(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		fmt.Fprint(w, `{"collection": [{"cardId": 1, "country": "SE", "trackName": "Solvalla"}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)

	first := client.FetchCardsForToday(context.Background())
	second := client.FetchCardsForToday(context.Background())

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls), "second call must be served from cache")
}

func TestFetchCardsForTodayDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)

	cards := client.FetchCardsForToday(context.Background())
	assert.Empty(t, cards)
}

func TestFetchOddsForPoolFiltersMultiLegRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/pool/77/odds", r.URL.Path)
		fmt.Fprint(w, `{"odds": [
			{"runnerNumber": 1, "probable": 0.025, "raceId": 1},
			{"runnerNumber": 1, "probable": 0.05, "raceId": 2},
			{"runnerNumber": 2, "probable": 0.1, "raceId": 2},
			{"runnerNumber": 1, "probable": 0.04, "raceId": 3}
		]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)

	pool := poolWith(77, "T75")
	race := raceWith(2)

	odds := client.FetchOddsForPool(context.Background(), pool, race)

	require.Len(t, odds, 2)
	for _, odd := range odds {
		require.NotNil(t, odd.RaceID)
		assert.Equal(t, int64(2), *odd.RaceID)
	}
}

func TestFetchOddsForPoolKeepsAllSingleRaceRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"odds": [
			{"runnerNumber": 1, "percentage": 0.5, "raceId": 1},
			{"runnerNumber": 2, "percentage": 0.3, "raceId": 3}
		]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)

	odds := client.FetchOddsForPool(context.Background(), poolWith(5, "VOI"), raceWith(2))

	// Single-race pools keep every row regardless of any raceId field
	assert.Len(t, odds, 2)
}

func TestFetchOddsForPoolUncachedByDefault(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		fmt.Fprint(w, `{"odds": [{"runnerNumber": 1, "percentage": 0.5}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)

	client.FetchOddsForPool(context.Background(), poolWith(5, "VOI"), raceWith(2))
	client.FetchOddsForPool(context.Background(), poolWith(5, "VOI"), raceWith(2))

	assert.Equal(t, int64(2), atomic.LoadInt64(&calls), "odds must hit upstream on every call when uncached")
}

func TestFetchOddsForPoolShortTTLCache(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		fmt.Fprint(w, `{"odds": [{"runnerNumber": 1, "percentage": 0.5}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 10*time.Second)

	client.FetchOddsForPool(context.Background(), poolWith(5, "VOI"), raceWith(2))
	client.FetchOddsForPool(context.Background(), poolWith(5, "VOI"), raceWith(2))

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestFetchPoolsForRaceDiscardsUnrecognizedTypes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/race/9/pools", r.URL.Path)
		fmt.Fprint(w, `{"collection": [
			{"poolId": 1, "poolType": "VOI"},
			{"poolId": 2, "poolType": "KAKSARI"},
			{"poolId": 3, "poolType": "T75"}
		]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)

	pools := client.FetchPoolsForRace(context.Background(), raceWith(9))

	require.Len(t, pools, 2)
	assert.Equal(t, "VOI", pools[0].PoolType)
	assert.Equal(t, "T75", pools[1].PoolType)
}
