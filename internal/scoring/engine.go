package scoring

import (
	"fmt"
	"sort"
	"time"

	"github.com/shenikar/safe_route_system/internal/models"
)

// Snapshot - срез значений безопасности ячеек, по которому считается балл.
// Для ячеек без отчетов возвращает базовый уровень.
type Snapshot interface {
	Safety(token models.CellToken) float64
}

// Params - настраиваемые коэффициенты скоринга
type Params struct {
	NightMultiplier float64
	NightStartHour  int
	NightEndHour    int
}

// Engine вычисляет баллы безопасности маршрутов. Чистая функция над срезом:
// ни состояния, ни побочных эффектов, одинаковый вход дает одинаковый выход.
type Engine struct {
	params Params
}

func NewEngine(params Params) *Engine {
	if params.NightMultiplier < 1 {
		params.NightMultiplier = 1
	}
	return &Engine{params: params}
}

// nightMultiplier возвращает множитель времени суток: ночью низкая безопасность
// ячейки штрафуется сильнее, днем множитель равен 1
func (e *Engine) nightMultiplier(now time.Time) float64 {
	hour := now.Hour()
	start, end := e.params.NightStartHour, e.params.NightEndHour

	night := false
	if start <= end {
		night = hour >= start && hour < end
	} else {
		// Окно через полночь, например 21..6
		night = hour >= start || hour < end
	}

	if night {
		return e.params.NightMultiplier
	}
	return 1
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// dwellWeights возвращает вес экспозиции для каждой ячейки маршрута.
// Долгое нахождение в ячейке влияет на балл сильнее, чем короткий проход.
func dwellWeights(cand models.RouteCandidate) ([]float64, error) {
	n := len(cand.Cells)
	if len(cand.DwellSeconds) == 0 {
		weights := make([]float64, n)
		per := 1.0
		if cand.ETASeconds > 0 {
			per = cand.ETASeconds / float64(n)
		}
		for i := range weights {
			weights[i] = per
		}
		return weights, nil
	}

	if len(cand.DwellSeconds) != n {
		return nil, fmt.Errorf("%w: dwell list length %d does not match %d cells",
			models.ErrInvalidRoute, len(cand.DwellSeconds), n)
	}
	weights := make([]float64, n)
	for i, d := range cand.DwellSeconds {
		if d <= 0 {
			return nil, fmt.Errorf("%w: dwell seconds must be positive", models.ErrInvalidRoute)
		}
		weights[i] = d
	}
	return weights, nil
}

// ScoreRoute вычисляет балл безопасности кандидата по срезу значений ячеек.
// Балл - взвешенное по экспозиции среднее эффективных значений ячеек,
// ограниченное [0,100]. Рост значения любой ячейки не может понизить балл.
func (e *Engine) ScoreRoute(sn Snapshot, cand models.RouteCandidate, now time.Time) (*models.ScoredRoute, error) {
	if len(cand.Cells) == 0 {
		return nil, fmt.Errorf("%w: candidate %q has no cells", models.ErrInvalidRoute, cand.ID)
	}

	weights, err := dwellWeights(cand)
	if err != nil {
		return nil, err
	}

	mult := e.nightMultiplier(now)
	contribs := make([]models.CellContribution, len(cand.Cells))

	var weightedSum, weightTotal float64
	for i, token := range cand.Cells {
		safety := sn.Safety(token)
		// Ночной множитель растягивает расстояние до максимума безопасности:
		// безопасные ячейки почти не меняются, опасные проседают сильнее
		effective := clamp(100 - (100-safety)*mult)
		weightedSum += weights[i] * effective
		weightTotal += weights[i]
		contribs[i] = models.CellContribution{
			Token:     token,
			Safety:    safety,
			Effective: effective,
			Weight:    weights[i],
		}
	}

	score := clamp(weightedSum / weightTotal)
	return &models.ScoredRoute{
		Candidate: cand,
		Score:     score,
		Explanation: models.RouteExplanation{
			NightMultiplier: mult,
			Cells:           contribs,
		},
	}, nil
}

// RankCandidates оценивает кандидатов по одному срезу и упорядочивает их:
// балл по убыванию, затем меньшее время, затем меньший идентификатор.
// Порядок детерминирован для одинакового входа.
func (e *Engine) RankCandidates(sn Snapshot, cands []models.RouteCandidate, now time.Time) ([]*models.ScoredRoute, error) {
	scored := make([]*models.ScoredRoute, 0, len(cands))
	for i := range cands {
		sr, err := e.ScoreRoute(sn, cands[i], now)
		if err != nil {
			return nil, err
		}
		scored = append(scored, sr)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].Candidate.ETASeconds != scored[j].Candidate.ETASeconds {
			return scored[i].Candidate.ETASeconds < scored[j].Candidate.ETASeconds
		}
		return scored[i].Candidate.ID < scored[j].Candidate.ID
	})
	return scored, nil
}
