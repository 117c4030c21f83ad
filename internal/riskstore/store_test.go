package riskstore

import (
	"sync"
	"testing"
	"time"

	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = models.CellToken("89c2593")

func newTestStore() *Store {
	return New(50, 72*time.Hour, 5)
}

func report(token models.CellToken, polarity models.Polarity, severity float64, at time.Time) *models.RiskReport {
	return &models.RiskReport{
		CellToken:   token,
		Polarity:    polarity,
		Severity:    severity,
		ReporterID:  "reporter-1",
		SubmittedAt: at,
	}
}

func TestStore_IncidentLowersSafety(t *testing.T) {
	// Подготовка
	store := newTestStore()
	now := time.Now()

	// Действие: свежий инцидент максимальной серьезности
	store.Apply(report(testToken, models.PolarityIncident, models.MaxSeverity, now))

	// Проверки: агрегат сдвинулся вниз от базового уровня ровно на вес отчета
	cell, ok := store.Cell(testToken, now)
	require.True(t, ok)
	assert.InDelta(t, 45, cell.Safety, 1e-9)
	assert.Equal(t, 1, cell.ReportCount)
}

func TestStore_ReassuranceRaisesSafety(t *testing.T) {
	// Подготовка
	store := newTestStore()
	now := time.Now()

	// Действие
	store.Apply(report(testToken, models.PolarityReassurance, 4, now))

	// Проверки
	cell, ok := store.Cell(testToken, now)
	require.True(t, ok)
	assert.InDelta(t, 52, cell.Safety, 1e-9)
}

func TestStore_AccumulationIsCommutative(t *testing.T) {
	// Подготовка: одинаковые отчеты в разном порядке
	now := time.Now()
	reports := []*models.RiskReport{
		report(testToken, models.PolarityIncident, 8, now.Add(-time.Hour)),
		report(testToken, models.PolarityReassurance, 3, now.Add(-2*time.Hour)),
		report(testToken, models.PolarityIncident, 2, now.Add(-30*time.Minute)),
	}

	forward := newTestStore()
	for _, r := range reports {
		forward.Apply(r)
	}
	backward := newTestStore()
	for i := len(reports) - 1; i >= 0; i-- {
		backward.Apply(reports[i])
	}

	// Проверки: порядок поступления не влияет на итог
	cellF, ok := forward.Cell(testToken, now)
	require.True(t, ok)
	cellB, ok := backward.Cell(testToken, now)
	require.True(t, ok)
	assert.InDelta(t, cellF.Safety, cellB.Safety, 1e-9)
}

func TestStore_ContributionDecaysTowardBaseline(t *testing.T) {
	// Подготовка
	store := newTestStore()
	submitted := time.Now()
	store.Apply(report(testToken, models.PolarityIncident, models.MaxSeverity, submitted))

	// Действие и проверки: вклад тает линейно по мере устаревания
	fresh, ok := store.Cell(testToken, submitted)
	require.True(t, ok)
	assert.InDelta(t, 45, fresh.Safety, 1e-9)

	half, ok := store.Cell(testToken, submitted.Add(36*time.Hour))
	require.True(t, ok)
	assert.InDelta(t, 47.5, half.Safety, 1e-9)

	stale, ok := store.Cell(testToken, submitted.Add(73*time.Hour))
	require.True(t, ok)
	assert.InDelta(t, 50, stale.Safety, 1e-9)
}

func TestStore_UnknownCellUsesBaseline(t *testing.T) {
	store := newTestStore()

	_, ok := store.Cell(testToken, time.Now())
	assert.False(t, ok)

	sn := store.SnapshotFor([]models.CellToken{testToken}, time.Now())
	assert.InDelta(t, 50, sn.Safety(testToken), 1e-9)
}

func TestStore_SnapshotIsStable(t *testing.T) {
	// Подготовка
	store := newTestStore()
	now := time.Now()
	store.Apply(report(testToken, models.PolarityIncident, models.MaxSeverity, now))

	sn := store.SnapshotFor([]models.CellToken{testToken}, now)
	before := sn.Safety(testToken)

	// Действие: новый отчет после снятия среза
	store.Apply(report(testToken, models.PolarityIncident, models.MaxSeverity, now))

	// Проверки: срез не видит более поздних отчетов
	assert.InDelta(t, before, sn.Safety(testToken), 1e-9)
	cell, ok := store.Cell(testToken, now)
	require.True(t, ok)
	assert.InDelta(t, 40, cell.Safety, 1e-9)
}

func TestStore_SweepPrunesStaleContributions(t *testing.T) {
	// Подготовка: один старый и один свежий вклад в разных ячейках
	store := newTestStore()
	now := time.Now()
	staleToken := models.CellToken("89c2594")
	store.Apply(report(testToken, models.PolarityIncident, 5, now))
	store.Apply(report(staleToken, models.PolarityIncident, 5, now.Add(-80*time.Hour)))

	// Действие
	pruned := store.Sweep(now)

	// Проверки: старый вклад удален, опустевшая ячейка исчезла из хранилища
	assert.Equal(t, 1, pruned)
	_, ok := store.Cell(staleToken, now)
	assert.False(t, ok)
	_, ok = store.Cell(testToken, now)
	assert.True(t, ok)
}

func TestStore_ConcurrentApply(t *testing.T) {
	// Подготовка
	store := newTestStore()
	now := time.Now()
	const workers = 8
	const perWorker = 50

	// Действие: параллельные отчеты в одну ячейку без глобальной блокировки
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				store.Apply(report(testToken, models.PolarityIncident, 1, now))
			}
		}()
	}
	wg.Wait()

	// Проверки: ни один отчет не потерян, значение ограничено снизу
	cell, ok := store.Cell(testToken, now)
	require.True(t, ok)
	assert.Equal(t, workers*perWorker, cell.ReportCount)
	assert.InDelta(t, 0, cell.Safety, 1e-9)
}

func TestStore_RehydrateMatchesSequentialApply(t *testing.T) {
	// Подготовка
	now := time.Now()
	reports := []*models.RiskReport{
		report(testToken, models.PolarityIncident, 7, now.Add(-time.Hour)),
		report(testToken, models.PolarityReassurance, 2, now.Add(-10*time.Hour)),
	}

	sequential := newTestStore()
	for _, r := range reports {
		sequential.Apply(r)
	}
	rehydrated := newTestStore()
	rehydrated.Rehydrate(reports)

	// Проверки
	cellS, ok := sequential.Cell(testToken, now)
	require.True(t, ok)
	cellR, ok := rehydrated.Cell(testToken, now)
	require.True(t, ok)
	assert.InDelta(t, cellS.Safety, cellR.Safety, 1e-9)
	assert.Equal(t, cellS.ReportCount, cellR.ReportCount)
}

func TestStore_SweepConcurrentWithApplyKeepsFreshReports(t *testing.T) {
	// Подготовка: в каждой итерации ячейка содержит только устаревший вклад,
	// так что Sweep будет удалять ее из карты
	store := newTestStore()
	now := time.Now()
	stale := now.Add(-144 * time.Hour)

	for i := 0; i < 200; i++ {
		token := models.CellTokenFromLatLng(55.0+float64(i)*0.01, 37.6, 16)
		store.Apply(report(token, models.PolarityReassurance, 2, stale))

		// Действие: свежий отчет приходит одновременно с уборкой
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Sweep(now)
		}()
		go func() {
			defer wg.Done()
			store.Apply(report(token, models.PolarityIncident, 2, now))
		}()
		wg.Wait()

		// Проверки: свежий вклад учтен, даже если Sweep успел удалить
		// ячейку между выборкой агрегата и записью в него
		cell, ok := store.Cell(token, now)
		require.True(t, ok, "fresh report lost for cell %s", token)
		assert.InDelta(t, 49, cell.Safety, 1e-9)
	}
}
