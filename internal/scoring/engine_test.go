package scoring

import (
	"testing"
	"time"

	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSnapshot - срез значений ячеек для тестов: значения задаются напрямую
type stubSnapshot map[models.CellToken]float64

func (s stubSnapshot) Safety(token models.CellToken) float64 {
	if v, ok := s[token]; ok {
		return v
	}
	return 50
}

var (
	day   = time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	night = time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)
)

func newTestEngine() *Engine {
	return NewEngine(Params{
		NightMultiplier: 1.5,
		NightStartHour:  21,
		NightEndHour:    6,
	})
}

func candidate(id string, eta float64, cells ...models.CellToken) models.RouteCandidate {
	return models.RouteCandidate{ID: id, Cells: cells, ETASeconds: eta}
}

func TestScoreRoute_UniformCells(t *testing.T) {
	// Подготовка
	engine := newTestEngine()
	sn := stubSnapshot{"a": 80, "b": 80, "c": 80}

	// Действие
	scored, err := engine.ScoreRoute(sn, candidate("r1", 600, "a", "b", "c"), day)

	// Проверки
	require.NoError(t, err)
	assert.InDelta(t, 80, scored.Score, 1e-9)
	assert.Equal(t, 1.0, scored.Explanation.NightMultiplier)
	assert.Len(t, scored.Explanation.Cells, 3)
}

func TestScoreRoute_WeakestSegmentDominatesComparison(t *testing.T) {
	// Подготовка: маршруты отличаются только худшей ячейкой
	engine := newTestEngine()
	sn := stubSnapshot{"a": 90, "b": 85, "low": 40, "mid": 70}

	// Действие
	worse, err := engine.ScoreRoute(sn, candidate("worse", 600, "a", "b", "low"), day)
	require.NoError(t, err)
	better, err := engine.ScoreRoute(sn, candidate("better", 600, "a", "b", "mid"), day)
	require.NoError(t, err)

	// Проверки
	assert.Less(t, worse.Score, better.Score)
}

func TestScoreRoute_Monotonic(t *testing.T) {
	// Подготовка: значение одной ячейки растет, остальные не меняются
	engine := newTestEngine()
	before := stubSnapshot{"a": 60, "b": 30, "c": 75}
	after := stubSnapshot{"a": 60, "b": 55, "c": 75}
	cand := candidate("r1", 900, "a", "b", "c")

	for _, now := range []time.Time{day, night} {
		// Действие
		scoredBefore, err := engine.ScoreRoute(before, cand, now)
		require.NoError(t, err)
		scoredAfter, err := engine.ScoreRoute(after, cand, now)
		require.NoError(t, err)

		// Проверки: рост безопасности ячейки не может понизить балл
		assert.GreaterOrEqual(t, scoredAfter.Score, scoredBefore.Score)
	}
}

func TestScoreRoute_NightPenalizesUnsafeCells(t *testing.T) {
	// Подготовка
	engine := newTestEngine()
	sn := stubSnapshot{"safe": 95, "unsafe": 20}

	// Действие
	safeDay, err := engine.ScoreRoute(sn, candidate("s", 60, "safe"), day)
	require.NoError(t, err)
	safeNight, err := engine.ScoreRoute(sn, candidate("s", 60, "safe"), night)
	require.NoError(t, err)
	unsafeDay, err := engine.ScoreRoute(sn, candidate("u", 60, "unsafe"), day)
	require.NoError(t, err)
	unsafeNight, err := engine.ScoreRoute(sn, candidate("u", 60, "unsafe"), night)
	require.NoError(t, err)

	// Проверки: ночью опасная ячейка проседает сильнее безопасной
	assert.InDelta(t, 92.5, safeNight.Score, 1e-9)
	assert.InDelta(t, 0, unsafeNight.Score, 1e-9)
	assert.Less(t, safeDay.Score-safeNight.Score, unsafeDay.Score-unsafeNight.Score)
}

func TestScoreRoute_ClampedToRange(t *testing.T) {
	// Подготовка: ночной множитель увел бы эффективное значение ниже нуля
	engine := NewEngine(Params{NightMultiplier: 3, NightStartHour: 21, NightEndHour: 6})
	sn := stubSnapshot{"bad": 5}

	// Действие
	scored, err := engine.ScoreRoute(sn, candidate("r1", 60, "bad"), night)

	// Проверки
	require.NoError(t, err)
	assert.GreaterOrEqual(t, scored.Score, 0.0)
	assert.LessOrEqual(t, scored.Score, 100.0)
}

func TestScoreRoute_DwellWeighting(t *testing.T) {
	// Подготовка: долгая экспозиция в опасной ячейке тянет балл вниз сильнее
	engine := newTestEngine()
	sn := stubSnapshot{"good": 90, "bad": 30}

	longInBad := models.RouteCandidate{
		ID:           "long",
		Cells:        []models.CellToken{"good", "bad"},
		DwellSeconds: []float64{60, 540},
		ETASeconds:   600,
	}
	shortInBad := models.RouteCandidate{
		ID:           "short",
		Cells:        []models.CellToken{"good", "bad"},
		DwellSeconds: []float64{540, 60},
		ETASeconds:   600,
	}

	// Действие
	long, err := engine.ScoreRoute(sn, longInBad, day)
	require.NoError(t, err)
	short, err := engine.ScoreRoute(sn, shortInBad, day)
	require.NoError(t, err)

	// Проверки
	assert.Less(t, long.Score, short.Score)
}

func TestScoreRoute_InvalidCandidates(t *testing.T) {
	engine := newTestEngine()
	sn := stubSnapshot{}

	testCases := []struct {
		name string
		cand models.RouteCandidate
	}{
		{
			name: "без ячеек",
			cand: models.RouteCandidate{ID: "empty"},
		},
		{
			name: "длина dwell не совпадает с числом ячеек",
			cand: models.RouteCandidate{
				ID:           "mismatch",
				Cells:        []models.CellToken{"a", "b"},
				DwellSeconds: []float64{10},
			},
		},
		{
			name: "неположительная экспозиция",
			cand: models.RouteCandidate{
				ID:           "zero",
				Cells:        []models.CellToken{"a"},
				DwellSeconds: []float64{0},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.ScoreRoute(sn, tc.cand, day)
			assert.ErrorIs(t, err, models.ErrInvalidRoute)
		})
	}
}

func TestRankCandidates_Order(t *testing.T) {
	// Подготовка
	engine := newTestEngine()
	sn := stubSnapshot{"hi": 90, "mid": 60, "lo": 30}

	cands := []models.RouteCandidate{
		candidate("slow-safe", 900, "hi"),
		candidate("fast-safe", 600, "hi"),
		candidate("unsafe", 300, "lo"),
		candidate("medium", 450, "mid"),
	}

	// Действие
	ranked, err := engine.RankCandidates(sn, cands, day)

	// Проверки: балл по убыванию, при равенстве меньшее время раньше
	require.NoError(t, err)
	require.Len(t, ranked, 4)
	assert.Equal(t, "fast-safe", ranked[0].Candidate.ID)
	assert.Equal(t, "slow-safe", ranked[1].Candidate.ID)
	assert.Equal(t, "medium", ranked[2].Candidate.ID)
	assert.Equal(t, "unsafe", ranked[3].Candidate.ID)
}

func TestRankCandidates_TieBrokenByID(t *testing.T) {
	// Подготовка: одинаковый балл и одинаковое время
	engine := newTestEngine()
	sn := stubSnapshot{"x": 70}

	cands := []models.RouteCandidate{
		candidate("beta", 600, "x"),
		candidate("alpha", 600, "x"),
	}

	// Действие
	ranked, err := engine.RankCandidates(sn, cands, day)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "alpha", ranked[0].Candidate.ID)
	assert.Equal(t, "beta", ranked[1].Candidate.ID)
}

func TestRankCandidates_Deterministic(t *testing.T) {
	// Подготовка
	engine := newTestEngine()
	sn := stubSnapshot{"a": 55, "b": 80, "c": 35}
	cands := []models.RouteCandidate{
		candidate("one", 300, "a", "b"),
		candidate("two", 400, "b", "c"),
		candidate("three", 200, "a", "c"),
	}

	// Действие
	first, err := engine.RankCandidates(sn, cands, day)
	require.NoError(t, err)
	second, err := engine.RankCandidates(sn, cands, day)
	require.NoError(t, err)

	// Проверки: одинаковый вход дает одинаковый выход
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Candidate.ID, second[i].Candidate.ID)
		assert.Equal(t, first[i].Score, second[i].Score)
	}
}
