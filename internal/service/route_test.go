package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/shenikar/safe_route_system/internal/riskstore"
	"github.com/shenikar/safe_route_system/internal/scoring"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouteService собирает сервис на реальном хранилище и движке:
// ранжирование - чистая композиция, мокать тут нечего
func newTestRouteService(t *testing.T) (*routeService, *riskstore.Store) {
	t.Helper()
	store := riskstore.New(50, 72*time.Hour, 5)
	engine := scoring.NewEngine(scoring.Params{NightMultiplier: 1.5, NightStartHour: 21, NightEndHour: 6})

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	service := NewRouteService(store, engine, logger).(*routeService)
	// Фиксированный дневной момент для детерминированного множителя
	service.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return service, store
}

func TestRankRoutes_SafestFirst(t *testing.T) {
	// Подготовка: в одной из ячеек свежий инцидент
	service, store := newTestRouteService(t)
	ctx := context.Background()

	safeCell := models.CellTokenFromLatLng(55.751, 37.617, 16)
	riskyCell := models.CellTokenFromLatLng(55.752, 37.618, 16)
	store.Apply(&models.RiskReport{
		CellToken:   riskyCell,
		Polarity:    models.PolarityIncident,
		Severity:    models.MaxSeverity,
		ReporterID:  "reporter-1",
		SubmittedAt: time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
	})

	candidates := []models.RouteCandidate{
		{ID: "risky", Cells: []models.CellToken{riskyCell}, ETASeconds: 300},
		{ID: "safe", Cells: []models.CellToken{safeCell}, ETASeconds: 600},
	}

	// Действие
	ranked, err := service.RankRoutes(ctx, candidates)

	// Проверки: маршрут в обход инцидента выигрывает несмотря на большее время
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "safe", ranked[0].Candidate.ID)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestRankRoutes_InvalidInput(t *testing.T) {
	service, _ := newTestRouteService(t)
	ctx := context.Background()
	valid := models.CellTokenFromLatLng(55.751, 37.617, 16)

	testCases := []struct {
		name       string
		candidates []models.RouteCandidate
	}{
		{
			name:       "пустой список кандидатов",
			candidates: nil,
		},
		{
			name: "кандидат без идентификатора",
			candidates: []models.RouteCandidate{
				{Cells: []models.CellToken{valid}, ETASeconds: 60},
			},
		},
		{
			name: "дубликат идентификатора",
			candidates: []models.RouteCandidate{
				{ID: "r1", Cells: []models.CellToken{valid}, ETASeconds: 60},
				{ID: "r1", Cells: []models.CellToken{valid}, ETASeconds: 90},
			},
		},
		{
			name: "некорректный токен ячейки",
			candidates: []models.RouteCandidate{
				{ID: "r1", Cells: []models.CellToken{"not-a-token"}, ETASeconds: 60},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.RankRoutes(ctx, tc.candidates)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}

func TestRankRoutes_SingleSnapshotPerCall(t *testing.T) {
	// Подготовка: два кандидата делят одну ячейку
	service, store := newTestRouteService(t)
	ctx := context.Background()

	shared := models.CellTokenFromLatLng(55.751, 37.617, 16)
	candidates := []models.RouteCandidate{
		{ID: "a", Cells: []models.CellToken{shared}, ETASeconds: 100},
		{ID: "b", Cells: []models.CellToken{shared}, ETASeconds: 200},
	}

	// Действие
	ranked, err := service.RankRoutes(ctx, candidates)
	require.NoError(t, err)

	// Проверки: общая ячейка дает обоим одинаковый балл, порядок по времени
	assert.Equal(t, ranked[0].Score, ranked[1].Score)
	assert.Equal(t, "a", ranked[0].Candidate.ID)

	// Отчет, пришедший после выдачи, задним числом на нее не влияет
	store.Apply(&models.RiskReport{
		CellToken:   shared,
		Polarity:    models.PolarityIncident,
		Severity:    5,
		ReporterID:  "reporter-1",
		SubmittedAt: time.Now(),
	})
	assert.Equal(t, ranked[0].Score, ranked[1].Score)
}
