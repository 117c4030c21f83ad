package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/shenikar/safe_route_system/internal/riskstore"
	"github.com/shenikar/safe_route_system/internal/scoring"
	"github.com/sirupsen/logrus"
)

// RouteService определяет контракт для ранжирования маршрутов
type RouteService interface {
	RankRoutes(ctx context.Context, candidates []models.RouteCandidate) ([]*models.ScoredRoute, error)
}

type routeService struct {
	store  *riskstore.Store
	engine *scoring.Engine
	logger *logrus.Logger
	// now подменяется в тестах для детерминированного ночного множителя
	now func() time.Time
}

func NewRouteService(store *riskstore.Store, engine *scoring.Engine, logger *logrus.Logger) RouteService {
	return &routeService{
		store:  store,
		engine: engine,
		logger: logger,
		now:    time.Now,
	}
}

// RankRoutes оценивает кандидатов по одному срезу хранилища и возвращает их
// от самого безопасного к наименее безопасному. Срез снимается один раз на
// вызов: все кандидаты одной выдачи сравниваются по одним значениям.
func (s *routeService) RankRoutes(ctx context.Context, candidates []models.RouteCandidate) ([]*models.ScoredRoute, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "route",
		"method":     "RankRoutes",
		"candidates": len(candidates),
	})

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no route candidates", models.ErrInvalidInput)
	}

	seen := make(map[string]bool, len(candidates))
	tokens := make([]models.CellToken, 0)
	for i := range candidates {
		if candidates[i].ID == "" {
			return nil, fmt.Errorf("%w: candidate without id", models.ErrInvalidInput)
		}
		if seen[candidates[i].ID] {
			return nil, fmt.Errorf("%w: duplicate candidate id %q", models.ErrInvalidInput, candidates[i].ID)
		}
		seen[candidates[i].ID] = true
		for _, token := range candidates[i].Cells {
			if !token.Valid() {
				return nil, fmt.Errorf("%w: invalid cell token %q in candidate %q",
					models.ErrInvalidInput, token, candidates[i].ID)
			}
			tokens = append(tokens, token)
		}
	}

	now := s.now()
	snapshot := s.store.SnapshotFor(tokens, now)

	ranked, err := s.engine.RankCandidates(snapshot, candidates, now)
	if err != nil {
		log.WithError(err).Warn("Failed to rank route candidates")
		return nil, err
	}

	log.WithField("best_score", ranked[0].Score).Info("Route candidates ranked")
	return ranked, nil
}
