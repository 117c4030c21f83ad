package models

import (
	"time"

	"github.com/google/uuid"
)

// UserID - опаковый идентификатор пользователя
type UserID string

// DeliveryChannel - канал доставки уведомления
type DeliveryChannel string

const (
	ChannelPush      DeliveryChannel = "push"
	ChannelSMS       DeliveryChannel = "sms"
	ChannelAuthority DeliveryChannel = "authority"
)

// EmergencyContact - доверенный контакт пользователя.
// Rank задает порядок оповещения и обязан быть плотным и уникальным в рамках пользователя.
type EmergencyContact struct {
	ID        uuid.UUID `json:"id"`
	UserID    UserID    `json:"user_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	PushToken string    `json:"push_token,omitempty"`
	Rank      int       `json:"rank"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PreferredChannel возвращает канал доставки: push приоритетнее SMS
func (c *EmergencyContact) PreferredChannel() (DeliveryChannel, bool) {
	if c.PushToken != "" {
		return ChannelPush, true
	}
	if c.Phone != "" {
		return ChannelSMS, true
	}
	return "", false
}
