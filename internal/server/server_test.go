package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktoiv/epistemo-hippodrome/internal/config"
	"github.com/ktoiv/epistemo-hippodrome/internal/models"
	"github.com/ktoiv/epistemo-hippodrome/internal/racing"
	"github.com/ktoiv/epistemo-hippodrome/internal/service"
)

type fixtureCardSource struct{}

func (fixtureCardSource) FetchCardsForToday(ctx context.Context) []models.Card {
	return []models.Card{{CardID: 1, Country: "SE", TrackName: "Solvalla"}}
}

func (fixtureCardSource) FetchRacesForCard(ctx context.Context, card models.Card) []models.Race {
	return []models.Race{
		{RaceID: 10, CardID: 1, Number: 1},
		{RaceID: 11, CardID: 1, Number: 2},
	}
}

func (fixtureCardSource) FetchRunnersForRace(ctx context.Context, race models.Race) []models.Runner {
	return []models.Runner{{RunnerID: 100, HorseName: "Alpha", StartNumber: 1, CoachName: "Kolgjini"}}
}

func (fixtureCardSource) FetchPoolsForRace(ctx context.Context, race models.Race) []models.Pool {
	return []models.Pool{{PoolID: 900, PoolType: racing.PoolTypeWin}}
}

func (fixtureCardSource) FetchOddsForPool(ctx context.Context, pool models.Pool, race models.Race) []models.Odd {
	percentage := 0.5
	return []models.Odd{{RunnerNumber: 1, Percentage: &percentage}}
}

type fixtureOutcomeSource struct{}

func (fixtureOutcomeSource) FetchOutcomes(ctx context.Context, track string, raceNumber int) []models.Outcome {
	return []models.Outcome{{Label: "Alpha", StartNumber: 1, Odds: 0.025}}
}

type fixtureFormSource struct{}

func (fixtureFormSource) Score(ctx context.Context, coachName string) float64 { return 0 }

func newTestServer() *Server {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	svc := service.NewRaceViewService(fixtureCardSource{}, fixtureOutcomeSource{}, fixtureFormSource{}, log)
	return NewServer(svc, &config.ServerConfig{Port: 0}, log)
}

func TestHandleCards(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.handleCards(rec, httptest.NewRequest(http.MethodGet, "/cards", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var tracks []models.Track
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tracks))
	require.Len(t, tracks, 1)
	assert.Equal(t, "Solvalla", tracks[0].Name)
}

func TestHandleCardsRejectsPost(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.handleCards(rec, httptest.NewRequest(http.MethodPost, "/cards", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleRaces(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.handleRaces(rec, httptest.NewRequest(http.MethodGet, "/races?card=solvalla", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var races []models.Race
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &races))
	assert.Len(t, races, 2)
}

func TestHandleRacesMissingCardParameter(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.handleRaces(rec, httptest.NewRequest(http.MethodGet, "/races", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRacesUnknownCard(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.handleRaces(rec, httptest.NewRequest(http.MethodGet, "/races?card=vermo", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleStarts(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.handleStarts(rec, httptest.NewRequest(http.MethodGet, "/starts?card=Solvalla", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var starts models.Starts
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &starts))
	assert.Equal(t, 2, starts.Count)
}

func TestHandleRace(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.handleRace(rec, httptest.NewRequest(http.MethodGet, "/race?card=Solvalla&start=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var views []models.HorseView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Alpha", views[0].Name)
	assert.NotZero(t, views[0].StakeRecommendation)
}

func TestHandleRaceBadStartParameter(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.handleRace(rec, httptest.NewRequest(http.MethodGet, "/race?card=Solvalla&start=five", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRaceMissingParameters(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.handleRace(rec, httptest.NewRequest(http.MethodGet, "/race?card=Solvalla", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRaceUnknownRace(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.handleRace(rec, httptest.NewRequest(http.MethodGet, "/race?card=Solvalla&start=9", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMiddlewareSetsRequestID(t *testing.T) {
	srv := newTestServer()

	handler := srv.withMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cards", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
