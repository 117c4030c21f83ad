package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shenikar/safe_route_system/internal/config"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/shenikar/safe_route_system/internal/riskstore"
	"github.com/sirupsen/logrus"
)

// ReportRepository определяет контракт для работы с бд отчетов
type ReportRepository interface {
	SaveReport(ctx context.Context, report *models.RiskReport) error
	ListFreshReports(ctx context.Context, since time.Time) ([]*models.RiskReport, error)
	CountReportsSince(ctx context.Context, since time.Time) (int, error)
	GetCellFromCache(ctx context.Context, token models.CellToken) (*models.GeoCell, error)
	SetCellCache(ctx context.Context, cell *models.GeoCell) error
	InvalidateCellCache(ctx context.Context, token models.CellToken) error
}

// ReportService определяет контракт для приема отчетов и выдачи агрегатов ячеек
type ReportService interface {
	IngestReport(ctx context.Context, report *models.RiskReport) error
	GetCell(ctx context.Context, token models.CellToken) (*models.GeoCell, error)
	CheckLocation(ctx context.Context, lat, lon float64) (*models.GeoCell, bool, error)
	GetStats(ctx context.Context) (int, error)
	Rehydrate(ctx context.Context) error
	Sweep()
}

type reportService struct {
	repo   ReportRepository
	store  *riskstore.Store
	logger *logrus.Logger
	cfg    *config.Config
}

func NewReportService(repo ReportRepository, store *riskstore.Store, logger *logrus.Logger, cfg *config.Config) ReportService {
	return &reportService{
		repo:   repo,
		store:  store,
		logger: logger,
		cfg:    cfg,
	}
}

// IngestReport проверяет и принимает отчет: сохраняет в бд, добавляет в агрегат
// ячейки и сбрасывает ее кэш. Принятый отчет неизменяем.
func (s *reportService) IngestReport(ctx context.Context, report *models.RiskReport) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "IngestReport",
		"cell":    report.CellToken,
	})

	if !report.CellToken.Valid() {
		log.Warn("Rejected report with invalid cell token")
		return fmt.Errorf("%w: invalid cell token %q", models.ErrInvalidInput, report.CellToken)
	}
	if report.Severity < models.MinSeverity || report.Severity > models.MaxSeverity {
		log.Warn("Rejected report with severity out of range")
		return fmt.Errorf("%w: severity %v out of [%v,%v]",
			models.ErrInvalidInput, report.Severity, models.MinSeverity, models.MaxSeverity)
	}
	if report.Polarity != models.PolarityIncident && report.Polarity != models.PolarityReassurance {
		log.Warn("Rejected report with unknown polarity")
		return fmt.Errorf("%w: unknown polarity %q", models.ErrInvalidInput, report.Polarity)
	}

	if report.SubmittedAt.IsZero() {
		report.SubmittedAt = time.Now()
	}

	if err := s.repo.SaveReport(ctx, report); err != nil {
		log.WithError(err).Error("Failed to save report in repository")
		return fmt.Errorf("service: could not save report: %w", err)
	}

	s.store.Apply(report)

	if err := s.repo.InvalidateCellCache(ctx, report.CellToken); err != nil {
		// Кэш короткоживущий, ошибка инвалидации не критична
		log.WithError(err).Warn("Failed to invalidate cell cache")
	}

	log.WithField("report_id", report.ID).Info("Report accepted")
	return nil
}

// GetCell возвращает текущий агрегат ячейки, для ячеек без отчетов - базовый уровень
func (s *reportService) GetCell(ctx context.Context, token models.CellToken) (*models.GeoCell, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "GetCell",
		"cell":    token,
	})

	if !token.Valid() {
		return nil, fmt.Errorf("%w: invalid cell token %q", models.ErrInvalidInput, token)
	}

	cached, err := s.repo.GetCellFromCache(ctx, token)
	if err != nil {
		log.WithError(err).Warn("Failed to read cell cache")
	}
	if cached != nil {
		return cached, nil
	}

	cell, ok := s.store.Cell(token, time.Now())
	if !ok {
		ll := token.CellID().LatLng()
		cell = &models.GeoCell{
			Token:     token,
			Latitude:  ll.Lat.Degrees(),
			Longitude: ll.Lng.Degrees(),
			Safety:    s.store.Baseline(),
		}
	}

	if err := s.repo.SetCellCache(ctx, cell); err != nil {
		log.WithError(err).Warn("Failed to write cell cache")
	}
	return cell, nil
}

// CheckLocation возвращает агрегат ячейки, содержащей точку, и признак того,
// что безопасность ячейки ниже базового уровня
func (s *reportService) CheckLocation(ctx context.Context, lat, lon float64) (*models.GeoCell, bool, error) {
	token := models.CellTokenFromLatLng(lat, lon, s.cfg.CellLevel)
	cell, err := s.GetCell(ctx, token)
	if err != nil {
		return nil, false, err
	}

	dangerous := cell.Safety < s.store.Baseline()
	s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "CheckLocation",
		"cell":      token,
		"dangerous": dangerous,
	}).Info("Location check completed")
	return cell, dangerous, nil
}

// GetStats возвращает количество отчетов, принятых за настроенное окно
func (s *reportService) GetStats(ctx context.Context) (int, error) {
	since := time.Now().Add(-time.Duration(s.cfg.StatsTimeWindowMinutes) * time.Minute)
	count, err := s.repo.CountReportsSince(ctx, since)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get report stats from repository")
		return 0, fmt.Errorf("service: could not get report stats: %w", err)
	}
	return count, nil
}

// Rehydrate восстанавливает агрегаты ячеек из свежих отчетов при старте
func (s *reportService) Rehydrate(ctx context.Context) error {
	since := time.Now().Add(-s.cfg.FreshnessWindow)
	reports, err := s.repo.ListFreshReports(ctx, since)
	if err != nil {
		return fmt.Errorf("service: could not rehydrate risk store: %w", err)
	}
	s.store.Rehydrate(reports)
	s.logger.WithField("count", len(reports)).Info("Risk store rehydrated from fresh reports")
	return nil
}

// Sweep удаляет устаревшие вклады из агрегатов. Запускается по расписанию.
func (s *reportService) Sweep() {
	pruned := s.store.Sweep(time.Now())
	if pruned > 0 {
		s.logger.WithField("pruned", pruned).Info("Risk store sweep completed")
	}
}
