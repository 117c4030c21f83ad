package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shenikar/safe_route_system/internal/config"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/shenikar/safe_route_system/internal/riskstore"
	"github.com/shenikar/safe_route_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestReportService — вспомогательная функция для создания сервиса с моками
func newTestReportService(t *testing.T) (*reportService, *mocks.MockReportRepository, *riskstore.Store) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockReportRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		CellLevel:              16,
		SafetyBaseline:         50,
		FreshnessWindow:        72 * time.Hour,
		ReportCellWeight:       5,
		StatsTimeWindowMinutes: 60,
	}
	store := riskstore.New(cfg.SafetyBaseline, cfg.FreshnessWindow, cfg.ReportCellWeight)

	service := NewReportService(repoMock, store, logger, cfg)
	return service.(*reportService), repoMock, store
}

func validToken() models.CellToken {
	return models.CellTokenFromLatLng(55.751, 37.617, 16)
}

func TestIngestReport_Success(t *testing.T) {
	// Подготовка
	service, repoMock, store := newTestReportService(t)
	ctx := context.Background()
	report := &models.RiskReport{
		CellToken:  validToken(),
		Polarity:   models.PolarityIncident,
		Severity:   models.MaxSeverity,
		ReporterID: "reporter-1",
	}

	// Ожидания
	repoMock.EXPECT().
		SaveReport(ctx, report).
		Return(nil).
		Times(1)
	repoMock.EXPECT().
		InvalidateCellCache(ctx, report.CellToken).
		Return(nil).
		Times(1)

	// Действие
	err := service.IngestReport(ctx, report)

	// Проверки: отчет принят и попал в агрегат ячейки
	require.NoError(t, err)
	assert.False(t, report.SubmittedAt.IsZero())
	cell, ok := store.Cell(report.CellToken, report.SubmittedAt)
	require.True(t, ok)
	assert.InDelta(t, 45, cell.Safety, 1e-9)
}

func TestIngestReport_Invalid(t *testing.T) {
	service, _, _ := newTestReportService(t)
	ctx := context.Background()

	testCases := []struct {
		name   string
		report *models.RiskReport
	}{
		{
			name:   "некорректный токен ячейки",
			report: &models.RiskReport{CellToken: "nope", Polarity: models.PolarityIncident, Severity: 5},
		},
		{
			name:   "серьезность ниже минимума",
			report: &models.RiskReport{CellToken: validToken(), Polarity: models.PolarityIncident, Severity: 0.5},
		},
		{
			name:   "серьезность выше максимума",
			report: &models.RiskReport{CellToken: validToken(), Polarity: models.PolarityIncident, Severity: 11},
		},
		{
			name:   "неизвестная полярность",
			report: &models.RiskReport{CellToken: validToken(), Polarity: "rumor", Severity: 5},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.IngestReport(ctx, tc.report)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}

func TestGetCell_FromCache(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestReportService(t)
	ctx := context.Background()
	token := validToken()
	cached := &models.GeoCell{Token: token, Safety: 42}

	// Ожидания
	repoMock.EXPECT().
		GetCellFromCache(ctx, token).
		Return(cached, nil).
		Times(1)

	// Действие
	cell, err := service.GetCell(ctx, token)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, cached, cell)
}

func TestGetCell_UnknownCellSynthesizedAtBaseline(t *testing.T) {
	// Подготовка: кэш пуст, отчетов по ячейке нет
	service, repoMock, _ := newTestReportService(t)
	ctx := context.Background()
	token := validToken()

	// Ожидания
	repoMock.EXPECT().
		GetCellFromCache(ctx, token).
		Return(nil, nil).
		Times(1)
	repoMock.EXPECT().
		SetCellCache(ctx, gomock.Any()).
		Return(nil).
		Times(1)

	// Действие
	cell, err := service.GetCell(ctx, token)

	// Проверки: ячейка без отчетов отдается на базовом уровне
	require.NoError(t, err)
	assert.Equal(t, token, cell.Token)
	assert.InDelta(t, 50, cell.Safety, 1e-9)
	assert.Equal(t, 0, cell.ReportCount)
}

func TestCheckLocation_DangerousBelowBaseline(t *testing.T) {
	// Подготовка: свежий инцидент в ячейке проверяемой точки
	service, repoMock, store := newTestReportService(t)
	ctx := context.Background()
	lat, lon := 55.751, 37.617
	token := models.CellTokenFromLatLng(lat, lon, 16)
	store.Apply(&models.RiskReport{
		CellToken:   token,
		Polarity:    models.PolarityIncident,
		Severity:    models.MaxSeverity,
		ReporterID:  "reporter-1",
		SubmittedAt: time.Now(),
	})

	// Ожидания
	repoMock.EXPECT().GetCellFromCache(ctx, token).Return(nil, nil).Times(1)
	repoMock.EXPECT().SetCellCache(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	cell, dangerous, err := service.CheckLocation(ctx, lat, lon)

	// Проверки
	require.NoError(t, err)
	assert.True(t, dangerous)
	assert.Less(t, cell.Safety, 50.0)
}

func TestRehydrate_RestoresAggregates(t *testing.T) {
	// Подготовка
	service, repoMock, store := newTestReportService(t)
	ctx := context.Background()
	token := validToken()
	now := time.Now()

	// Ожидания
	repoMock.EXPECT().
		ListFreshReports(ctx, gomock.Any()).
		Return([]*models.RiskReport{
			{CellToken: token, Polarity: models.PolarityIncident, Severity: models.MaxSeverity, SubmittedAt: now},
		}, nil).
		Times(1)

	// Действие
	err := service.Rehydrate(ctx)

	// Проверки
	require.NoError(t, err)
	cell, ok := store.Cell(token, now)
	require.True(t, ok)
	assert.InDelta(t, 45, cell.Safety, 1e-9)
}
