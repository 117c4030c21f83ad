package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionState - состояние SOS-сессии
type SessionState string

const (
	StateTriggering SessionState = "triggering"
	StateActive     SessionState = "active"
	StateEscalated  SessionState = "escalated"
	StateResolved   SessionState = "resolved"
	StateCancelled  SessionState = "cancelled"
	StateClosed     SessionState = "closed"
)

// Terminal сообщает, допускает ли состояние дальнейшие переходы
func (s SessionState) Terminal() bool {
	return s == StateClosed
}

// DeliveryStatus - исход доставки уведомления контакту
type DeliveryStatus string

const (
	DeliverySent         DeliveryStatus = "sent"
	DeliveryDelivered    DeliveryStatus = "delivered"
	DeliveryAcknowledged DeliveryStatus = "acknowledged"
	DeliveryFailed       DeliveryStatus = "failed"
)

// LocationFix - одно измерение координат пользователя
type LocationFix struct {
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	AccuracyMeters float64   `json:"accuracy_meters"`
	Timestamp      time.Time `json:"timestamp"`
}

// DeliveryRecord - запись журнала доставки для пары (контакт, попытка)
type DeliveryRecord struct {
	ContactID uuid.UUID       `json:"contact_id"`
	AttemptID uuid.UUID       `json:"attempt_id"`
	Tier      int             `json:"tier"`
	Channel   DeliveryChannel `json:"channel"`
	Status    DeliveryStatus  `json:"status"`
	Reason    string          `json:"reason,omitempty"`
	SentAt    time.Time       `json:"sent_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SOSSession - одна чрезвычайная сессия пользователя.
// Contacts - снимок справочника на момент срабатывания: правки справочника
// после запуска сессии на нее не влияют.
type SOSSession struct {
	ID             uuid.UUID           `json:"id"`
	UserID         UserID              `json:"user_id"`
	State          SessionState        `json:"state"`
	EscalationTier int                 `json:"escalation_tier"`
	Contacts       []*EmergencyContact `json:"contacts"`
	Deliveries     []DeliveryRecord    `json:"deliveries"`
	LastFix        *LocationFix        `json:"last_fix,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	ClosedAt       *time.Time          `json:"closed_at,omitempty"`
}

// Closed сообщает, заархивирована ли сессия. Закрытая сессия неизменяема.
func (s *SOSSession) Closed() bool {
	return s.ClosedAt != nil || s.State == StateClosed
}

// Acknowledged сообщает, подтвердил ли хотя бы один контакт получение
func (s *SOSSession) Acknowledged() bool {
	for i := range s.Deliveries {
		if s.Deliveries[i].Status == DeliveryAcknowledged {
			return true
		}
	}
	return false
}

// FailedContacts возвращает контакты с жестким отказом доставки
func (s *SOSSession) FailedContacts() map[uuid.UUID]bool {
	failed := make(map[uuid.UUID]bool)
	for i := range s.Deliveries {
		if s.Deliveries[i].Status == DeliveryFailed {
			failed[s.Deliveries[i].ContactID] = true
		}
	}
	return failed
}
