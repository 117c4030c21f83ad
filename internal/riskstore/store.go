package riskstore

import (
	"sync"
	"time"

	"github.com/shenikar/safe_route_system/internal/models"
)

// contribution - вклад одного отчета в агрегат ячейки.
// Знак delta уже учитывает полярность отчета.
type contribution struct {
	delta float64
	at    time.Time
}

// cellAggregate - накопитель вкладов одной ячейки. Мьютекс только на ячейку,
// глобальной блокировки на запись нет: накопление коммутативно, порядок
// поступления отчетов на итоговое значение не влияет.
type cellAggregate struct {
	mu        sync.Mutex
	contribs  []contribution
	count     int
	updatedAt time.Time
	// dead означает, что Sweep уже удалил ячейку из карты:
	// писать в такой агрегат нельзя, вклад будет потерян
	dead bool
}

// Store хранит агрегаты безопасности по ячейкам в памяти.
// Значение ячейки затухает к нейтральному базовому уровню по мере устаревания
// отчетов: постоянных "черных меток" не бывает.
type Store struct {
	mu    sync.RWMutex
	cells map[models.CellToken]*cellAggregate

	baseline    float64
	window      time.Duration
	unitWeight  float64
	maxSeverity float64
}

// New создает хранилище с базовым уровнем baseline, окном свежести window и
// весом unitWeight (сдвиг агрегата отчетом максимальной серьезности)
func New(baseline float64, window time.Duration, unitWeight float64) *Store {
	return &Store{
		cells:       make(map[models.CellToken]*cellAggregate),
		baseline:    baseline,
		window:      window,
		unitWeight:  unitWeight,
		maxSeverity: models.MaxSeverity,
	}
}

func (s *Store) cell(token models.CellToken) *cellAggregate {
	s.mu.RLock()
	agg, ok := s.cells[token]
	s.mu.RUnlock()
	if ok {
		return agg
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if agg, ok = s.cells[token]; ok {
		return agg
	}
	agg = &cellAggregate{}
	s.cells[token] = agg
	return agg
}

// Apply добавляет вклад отчета в агрегат его ячейки
func (s *Store) Apply(report *models.RiskReport) {
	delta := report.Severity / s.maxSeverity * s.unitWeight
	if report.Polarity == models.PolarityIncident {
		delta = -delta
	}

	for {
		agg := s.cell(report.CellToken)
		agg.mu.Lock()
		if agg.dead {
			// Sweep удалил ячейку между выборкой из карты и захватом
			// мьютекса, нужен свежий агрегат
			agg.mu.Unlock()
			continue
		}
		agg.contribs = append(agg.contribs, contribution{delta: delta, at: report.SubmittedAt})
		agg.count++
		if report.SubmittedAt.After(agg.updatedAt) {
			agg.updatedAt = report.SubmittedAt
		}
		agg.mu.Unlock()
		return
	}
}

// decayFactor - линейное затухание вклада от 1 (свежий) до 0 (старше окна)
func (s *Store) decayFactor(age time.Duration) float64 {
	if age <= 0 {
		return 1
	}
	if age >= s.window {
		return 0
	}
	return 1 - float64(age)/float64(s.window)
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

// value вычисляет текущее значение безопасности агрегата на момент now
func (s *Store) value(agg *cellAggregate, now time.Time) (safety float64, count int, updatedAt time.Time) {
	agg.mu.Lock()
	defer agg.mu.Unlock()

	sum := 0.0
	for i := range agg.contribs {
		sum += agg.contribs[i].delta * s.decayFactor(now.Sub(agg.contribs[i].at))
	}
	return clamp(s.baseline + sum), agg.count, agg.updatedAt
}

// Cell возвращает текущий агрегат ячейки. Для ячеек без отчетов ok == false,
// вызывающая сторона использует базовый уровень.
func (s *Store) Cell(token models.CellToken, now time.Time) (*models.GeoCell, bool) {
	s.mu.RLock()
	agg, ok := s.cells[token]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	safety, count, updatedAt := s.value(agg, now)
	ll := token.CellID().LatLng()
	return &models.GeoCell{
		Token:       token,
		Latitude:    ll.Lat.Degrees(),
		Longitude:   ll.Lng.Degrees(),
		Safety:      safety,
		ReportCount: count,
		UpdatedAt:   updatedAt,
	}, true
}

// Baseline возвращает нейтральный базовый уровень безопасности
func (s *Store) Baseline() float64 {
	return s.baseline
}

// Snapshot - неизменяемый срез значений ячеек для одного вызова ранжирования.
// Все кандидаты одной выдачи оцениваются по одним и тем же значениям.
type Snapshot struct {
	values   map[models.CellToken]float64
	baseline float64
	TakenAt  time.Time
}

// Safety возвращает значение безопасности ячейки или базовый уровень, если отчетов нет
func (sn *Snapshot) Safety(token models.CellToken) float64 {
	if v, ok := sn.values[token]; ok {
		return v
	}
	return sn.baseline
}

// SnapshotFor снимает значения перечисленных ячеек на момент now
func (s *Store) SnapshotFor(tokens []models.CellToken, now time.Time) *Snapshot {
	sn := &Snapshot{
		values:   make(map[models.CellToken]float64, len(tokens)),
		baseline: s.baseline,
		TakenAt:  now,
	}
	for _, token := range tokens {
		if _, seen := sn.values[token]; seen {
			continue
		}
		s.mu.RLock()
		agg, ok := s.cells[token]
		s.mu.RUnlock()
		if !ok {
			continue
		}
		safety, _, _ := s.value(agg, now)
		sn.values[token] = safety
	}
	return sn
}

// Sweep удаляет вклады старше окна свежести и опустевшие ячейки.
// Возвращает количество удаленных вкладов.
func (s *Store) Sweep(now time.Time) int {
	s.mu.RLock()
	tokens := make([]models.CellToken, 0, len(s.cells))
	for token := range s.cells {
		tokens = append(tokens, token)
	}
	s.mu.RUnlock()

	pruned := 0
	for _, token := range tokens {
		s.mu.RLock()
		agg, ok := s.cells[token]
		s.mu.RUnlock()
		if !ok {
			continue
		}

		agg.mu.Lock()
		kept := agg.contribs[:0]
		for i := range agg.contribs {
			if now.Sub(agg.contribs[i].at) < s.window {
				kept = append(kept, agg.contribs[i])
			} else {
				pruned++
			}
		}
		agg.contribs = kept
		empty := len(agg.contribs) == 0
		agg.mu.Unlock()

		if empty {
			s.mu.Lock()
			// Перепроверка под блокировкой: между Unlock и Lock мог прийти новый отчет
			agg.mu.Lock()
			if len(agg.contribs) == 0 {
				agg.dead = true
				delete(s.cells, token)
			}
			agg.mu.Unlock()
			s.mu.Unlock()
		}
	}
	return pruned
}

// Rehydrate восстанавливает агрегаты из сохраненных отчетов при старте
func (s *Store) Rehydrate(reports []*models.RiskReport) {
	for _, report := range reports {
		s.Apply(report)
	}
}
