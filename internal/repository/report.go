package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/shenikar/safe_route_system/internal/service"
)

type ReportRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewReportRepository(db *pgxpool.Pool, redisClient *redis.Client) service.ReportRepository {
	return &ReportRepository{
		db:          db,
		redisClient: redisClient,
	}
}

// SaveReport сохраняет новый отчет в бд
func (r *ReportRepository) SaveReport(ctx context.Context, report *models.RiskReport) error {
	query := `
		INSERT INTO risk_reports (cell_token, polarity, severity, reporter_id, submitted_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id;
	`
	err := r.db.QueryRow(ctx, query,
		report.CellToken,
		report.Polarity,
		report.Severity,
		report.ReporterID,
		report.SubmittedAt,
	).Scan(&report.ID)
	if err != nil {
		return fmt.Errorf("failed to save risk report: %w", err)
	}
	return nil
}

// ListFreshReports возвращает отчеты не старше since для восстановления агрегатов при старте
func (r *ReportRepository) ListFreshReports(ctx context.Context, since time.Time) ([]*models.RiskReport, error) {
	query := `
		SELECT id, cell_token, polarity, severity, reporter_id, submitted_at
		FROM risk_reports
		WHERE submitted_at >= $1
		ORDER BY submitted_at;
	`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list fresh reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*models.RiskReport, 0)
	for rows.Next() {
		report := &models.RiskReport{}
		err := rows.Scan(
			&report.ID,
			&report.CellToken,
			&report.Polarity,
			&report.Severity,
			&report.ReporterID,
			&report.SubmittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan risk report row: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error report list iteration: %w", err)
	}
	return reports, nil
}

// CountReportsSince возвращает количество отчетов, принятых начиная с since
func (r *ReportRepository) CountReportsSince(ctx context.Context, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM risk_reports
		WHERE submitted_at >= $1;
	`
	var count int
	if err := r.db.QueryRow(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count risk reports: %w", err)
	}
	return count, nil
}

// GetCellFromCache пытается получить агрегат ячейки из Redis
func (r *ReportRepository) GetCellFromCache(ctx context.Context, token models.CellToken) (*models.GeoCell, error) {
	key := fmt.Sprintf("cell:%s", token)
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cell from cache: %w", err)
	}

	cell := &models.GeoCell{}
	if err := json.Unmarshal(val, cell); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cell from cache: %w", err)
	}
	return cell, nil
}

// SetCellCache сохраняет агрегат ячейки в Redis с коротким сроком жизни:
// агрегат затухает со временем, долгий кэш отдавал бы устаревшие значения
func (r *ReportRepository) SetCellCache(ctx context.Context, cell *models.GeoCell) error {
	key := fmt.Sprintf("cell:%s", cell.Token)
	val, err := json.Marshal(cell)
	if err != nil {
		return fmt.Errorf("failed to marshal cell for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, key, val, 30*time.Second).Err(); err != nil {
		return fmt.Errorf("failed to set cell in cache: %w", err)
	}
	return nil
}

// InvalidateCellCache удаляет агрегат ячейки из Redis кэша
func (r *ReportRepository) InvalidateCellCache(ctx context.Context, token models.CellToken) error {
	key := fmt.Sprintf("cell:%s", token)
	if err := r.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cell cache: %w", err)
	}
	return nil
}
