package models

import (
	"time"

	"github.com/golang/geo/s2"
)

// CellToken - идентификатор ячейки S2 в токен-формате (опаковый тип, чтобы не путать с другими строками)
type CellToken string

// CellTokenFromLatLng возвращает токен ячейки уровня level, содержащей точку
func CellTokenFromLatLng(lat, lon float64, level int) CellToken {
	id := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lon)).Parent(level)
	return CellToken(id.ToToken())
}

// CellID возвращает s2.CellID для токена
func (t CellToken) CellID() s2.CellID {
	return s2.CellIDFromToken(string(t))
}

// Valid проверяет, что токен является корректным идентификатором ячейки S2
func (t CellToken) Valid() bool {
	return t != "" && t.CellID().IsValid()
}

type GeoCell struct {
	Token       CellToken `json:"token"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Safety      float64   `json:"safety"`
	ReportCount int       `json:"report_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}
