package models

// RouteCandidate - маршрут как упорядоченная последовательность ячеек с оценкой времени.
// DwellSeconds опционален: если пуст, время делится поровну между ячейками.
type RouteCandidate struct {
	ID           string      `json:"id"`
	Cells        []CellToken `json:"cells"`
	DwellSeconds []float64   `json:"dwell_seconds,omitempty"`
	ETASeconds   float64     `json:"eta_seconds"`
}

// CellContribution - вклад одной ячейки в итоговый балл маршрута
type CellContribution struct {
	Token     CellToken `json:"token"`
	Safety    float64   `json:"safety"`
	Effective float64   `json:"effective"`
	Weight    float64   `json:"weight"`
}

// RouteExplanation объясняет, из чего сложился балл
type RouteExplanation struct {
	NightMultiplier float64            `json:"night_multiplier"`
	Cells           []CellContribution `json:"cells"`
}

// ScoredRoute - кандидат с вычисленным баллом безопасности
type ScoredRoute struct {
	Candidate   RouteCandidate   `json:"candidate"`
	Score       float64          `json:"score"`
	Explanation RouteExplanation `json:"explanation"`
}
