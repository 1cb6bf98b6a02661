package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/rzldimam28/score-predictor/internal/domain/prediction"
	"github.com/rzldimam28/score-predictor/internal/domain/scoring"
	"github.com/rzldimam28/score-predictor/internal/domain/standing"
	"github.com/rzldimam28/score-predictor/internal/domain/tier"
	"github.com/rzldimam28/score-predictor/internal/infrastructure/repository/memory"
	"github.com/rzldimam28/score-predictor/internal/platform/cache"
	"github.com/rzldimam28/score-predictor/internal/platform/id"
	"github.com/rzldimam28/score-predictor/internal/platform/logging"
	"github.com/rzldimam28/score-predictor/internal/usecase"
	"github.com/stretchr/testify/require"
)

type staticStandingsProvider struct {
	rows []standing.Row
}

func (p staticStandingsProvider) FetchTable(_ context.Context) ([]standing.Row, error) {
	return p.rows, nil
}

const testInternalAPIKey = "test-internal-key"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	seed := memory.NewSeedData()
	playerRepo := memory.NewPlayerRepository(seed.Players)
	teamRepo := memory.NewTeamRepository(seed.Teams)
	recordRepo := memory.NewMatchRecordRepository(seed.Records)
	standingRepo := memory.NewStandingRepository(seed.Standings)
	reportRepo := memory.NewReportRepository()

	bands := tier.DefaultBands()
	params := prediction.DefaultParams()
	store := cache.NewStore(time.Minute)

	stats := usecase.NewStatsService(recordRepo, playerRepo, standingRepo, bands, params, store)
	predictions := usecase.NewPredictionService(
		playerRepo, standingRepo, reportRepo, stats,
		scoring.DefaultRules(), params, bands, id.NewRandomGenerator(), nil,
	)
	lineups := usecase.NewLineupService(predictions, prediction.DefaultFormationRules())
	matchups := usecase.NewMatchupService(lineups, params)
	exports := usecase.NewExportService(reportRepo)
	standings := usecase.NewStandingsService(staticStandingsProvider{rows: seed.Standings}, standingRepo, stats)

	handler := NewHandler(predictions, lineups, matchups, exports, standings, stats, playerRepo, teamRepo, logging.NewNop())
	return NewRouter(handler, nil, []string{"*"}, testInternalAPIKey)
}

func decodeEnvelope(t *testing.T, body []byte) map[string]any {
	t.Helper()

	var envelope map[string]any
	require.NoError(t, sonic.Unmarshal(body, &envelope))
	return envelope
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_PredictPlayer(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/predictions/players/team-arsenal-p10?opponent_team_id=team-luton&home=true", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec.Body.Bytes())
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok, "expected data object")
	require.Equal(t, "team-arsenal-p10", data["player_id"])
	require.Equal(t, "FWD", data["position"])

	points, ok := data["expected_points"].(float64)
	require.True(t, ok)
	require.Greater(t, points, 0.0)
}

func TestRouter_PredictPlayer_UnknownPlayer(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/predictions/players/no-such-player", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_OptimalLineup(t *testing.T) {
	router := newTestRouter(t)

	var payload strings.Builder
	payload.WriteString(`{"players":[`)
	for i := 1; i <= 11; i++ {
		if i > 1 {
			payload.WriteString(",")
		}
		fmt.Fprintf(&payload, `{"player_id":"team-arsenal-p%02d","opponent_team_id":"team-luton","home":true}`, i)
	}
	payload.WriteString(`]}`)

	req := httptest.NewRequest(http.MethodPost, "/v1/lineups/optimal", strings.NewReader(payload.String()))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec.Body.Bytes())
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	require.NotEmpty(t, data["formation"])

	total, ok := data["total"].(float64)
	require.True(t, ok)
	require.Greater(t, total, 0.0)
}

func TestRouter_RefreshStandings_RequiresAPIKey(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/standings/refresh", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/standings/refresh", nil)
	req.Header.Set("X-Internal-API-Key", testInternalAPIKey)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_IngestMatchRecords_RejectsInvalidPayload(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/match-records", strings.NewReader(`{"records":[{"player_id":""}]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-API-Key", testInternalAPIKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ListStandings(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/standings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec.Body.Bytes())
	rows, ok := envelope["data"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 4)
}
