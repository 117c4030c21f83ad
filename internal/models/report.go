package models

import (
	"time"
)

// Polarity - тип наблюдения: инцидент снижает безопасность ячейки, подтверждение повышает
type Polarity string

const (
	PolarityIncident    Polarity = "incident"
	PolarityReassurance Polarity = "reassurance"
)

const (
	MinSeverity = 1.0
	MaxSeverity = 10.0
)

// RiskReport представляет одно наблюдение для ячейки. Неизменяем после создания.
type RiskReport struct {
	ID          int64     `json:"id"`
	CellToken   CellToken `json:"cell_token"`
	Polarity    Polarity  `json:"polarity"`
	Severity    float64   `json:"severity"`
	ReporterID  string    `json:"reporter_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}
