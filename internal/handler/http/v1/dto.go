package v1

import (
	"time"

	"github.com/google/uuid"
)

// CreateReportRequest DTO для отправки отчета о безопасности
// @Description DTO для отправки отчета о безопасности
type CreateReportRequest struct {
	CellToken  string  `json:"cell_token" validate:"required"`
	Polarity   string  `json:"polarity" validate:"required,oneof=incident reassurance"`
	Severity   float64 `json:"severity" validate:"required,gte=1,lte=10"`
	ReporterID string  `json:"reporter_id" validate:"required"`
}

// ReportResponse DTO для ответа с принятым отчетом
// @Description DTO для ответа с принятым отчетом
type ReportResponse struct {
	ID          int64     `json:"id"`
	CellToken   string    `json:"cell_token"`
	Polarity    string    `json:"polarity"`
	Severity    float64   `json:"severity"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// CellResponse DTO для агрегата ячейки
// @Description DTO для агрегата ячейки
type CellResponse struct {
	Token       string    `json:"token"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Safety      float64   `json:"safety"`
	ReportCount int       `json:"report_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LocationCheckRequest DTO для проверки координат
// @Description DTO для проверки координат
type LocationCheckRequest struct {
	Latitude  float64 `json:"latitude" validate:"required,latitude"`
	Longitude float64 `json:"longitude" validate:"required,longitude"`
}

// LocationCheckResponse DTO для результата проверки координат
// @Description DTO для результата проверки координат
type LocationCheckResponse struct {
	Cell      CellResponse `json:"cell"`
	Dangerous bool         `json:"dangerous"`
}

// RouteCandidateRequest DTO одного кандидата маршрута
// @Description DTO одного кандидата маршрута
type RouteCandidateRequest struct {
	ID           string    `json:"id" validate:"required"`
	Cells        []string  `json:"cells" validate:"required,min=1"`
	DwellSeconds []float64 `json:"dwell_seconds,omitempty"`
	ETASeconds   float64   `json:"eta_seconds" validate:"gte=0"`
}

// RankRoutesRequest DTO для ранжирования маршрутов
// @Description DTO для ранжирования маршрутов
type RankRoutesRequest struct {
	Candidates []RouteCandidateRequest `json:"candidates" validate:"required,min=1,dive"`
}

// CellContributionResponse DTO вклада ячейки в балл маршрута
// @Description DTO вклада ячейки в балл маршрута
type CellContributionResponse struct {
	Token     string  `json:"token"`
	Safety    float64 `json:"safety"`
	Effective float64 `json:"effective"`
	Weight    float64 `json:"weight"`
}

// ScoredRouteResponse DTO оцененного маршрута
// @Description DTO оцененного маршрута
type ScoredRouteResponse struct {
	ID              string                     `json:"id"`
	Cells           []string                   `json:"cells"`
	ETASeconds      float64                    `json:"eta_seconds"`
	Score           float64                    `json:"score"`
	NightMultiplier float64                    `json:"night_multiplier"`
	Contributions   []CellContributionResponse `json:"contributions"`
}

// TriggerSOSRequest DTO для запуска SOS-сессии
// @Description DTO для запуска SOS-сессии
type TriggerSOSRequest struct {
	UserID         string     `json:"user_id" validate:"required"`
	Latitude       float64    `json:"latitude" validate:"required,latitude"`
	Longitude      float64    `json:"longitude" validate:"required,longitude"`
	AccuracyMeters float64    `json:"accuracy_meters" validate:"gte=0"`
	Timestamp      *time.Time `json:"timestamp,omitempty"`
}

// SessionActionRequest DTO для отмены или разрешения сессии
// @Description DTO для отмены или разрешения сессии
type SessionActionRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// LocationFixRequest DTO для координаты трека сессии
// @Description DTO для координаты трека сессии
type LocationFixRequest struct {
	Latitude       float64    `json:"latitude" validate:"required,latitude"`
	Longitude      float64    `json:"longitude" validate:"required,longitude"`
	AccuracyMeters float64    `json:"accuracy_meters" validate:"gte=0"`
	Timestamp      *time.Time `json:"timestamp,omitempty"`
}

// DeliveryCallbackRequest DTO для колбэка исхода доставки от шлюза
// @Description DTO для колбэка исхода доставки от шлюза
type DeliveryCallbackRequest struct {
	AttemptID string `json:"attempt_id" validate:"required,uuid"`
	SessionID string `json:"session_id" validate:"required,uuid"`
	ContactID string `json:"contact_id" validate:"omitempty,uuid"`
	Outcome   string `json:"outcome" validate:"required,oneof=delivered acknowledged failed timeout"`
	Reason    string `json:"reason,omitempty"`
}

// DeliveryRecordResponse DTO записи журнала доставки
// @Description DTO записи журнала доставки
type DeliveryRecordResponse struct {
	ContactID uuid.UUID `json:"contact_id"`
	AttemptID uuid.UUID `json:"attempt_id"`
	Tier      int       `json:"tier"`
	Channel   string    `json:"channel"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	SentAt    time.Time `json:"sent_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationFixResponse DTO координаты
// @Description DTO координаты
type LocationFixResponse struct {
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	AccuracyMeters float64   `json:"accuracy_meters"`
	Timestamp      time.Time `json:"timestamp"`
}

// SessionResponse DTO для ответа с информацией о SOS-сессии
// @Description DTO для ответа с информацией о SOS-сессии
type SessionResponse struct {
	ID             uuid.UUID                `json:"id"`
	UserID         string                   `json:"user_id"`
	State          string                   `json:"state"`
	EscalationTier int                      `json:"escalation_tier"`
	Deliveries     []DeliveryRecordResponse `json:"deliveries"`
	LastFix        *LocationFixResponse     `json:"last_fix,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	ClosedAt       *time.Time               `json:"closed_at,omitempty"`
}

// CreateContactRequest DTO для добавления контакта
// @Description DTO для добавления контакта
type CreateContactRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=255"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,e164"`
	PushToken string `json:"push_token,omitempty"`
}

// UpdateContactRequest DTO для обновления контакта
// @Description DTO для обновления контакта
type UpdateContactRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=255"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,e164"`
	PushToken string `json:"push_token,omitempty"`
}

// ContactResponse DTO для ответа с контактом
// @Description DTO для ответа с контактом
type ContactResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	PushToken string    `json:"push_token,omitempty"`
	Rank      int       `json:"rank"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReorderContactsRequest DTO для перестановки приоритетов контактов
// @Description DTO для перестановки приоритетов контактов
type ReorderContactsRequest struct {
	OrderedIDs []string `json:"ordered_ids" validate:"required,min=1,dive,uuid"`
}

// SettingsRequest DTO для настроек SOS пользователя
// @Description DTO для настроек SOS пользователя
type SettingsRequest struct {
	AutoNotifyAuthority bool `json:"auto_notify_authority"`
	ShareLiveLocation   bool `json:"share_live_location"`
	NearbyAlerts        bool `json:"nearby_alerts"`
}

// SettingsResponse DTO для ответа с настройками SOS
// @Description DTO для ответа с настройками SOS
type SettingsResponse struct {
	UserID              string    `json:"user_id"`
	AutoNotifyAuthority bool      `json:"auto_notify_authority"`
	ShareLiveLocation   bool      `json:"share_live_location"`
	NearbyAlerts        bool      `json:"nearby_alerts"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// StatsResponse DTO для ответа со статистикой
// @Description DTO для ответа со статистикой
type StatsResponse struct {
	ReportCount    int `json:"report_count"`
	SessionCount   int `json:"session_count"`
	ActiveSessions int `json:"active_sessions"`
}
