package models

import "time"

// UserSettings - настройки поведения SOS для пользователя
type UserSettings struct {
	UserID              UserID    `json:"user_id"`
	AutoNotifyAuthority bool      `json:"auto_notify_authority"`
	ShareLiveLocation   bool      `json:"share_live_location"`
	NearbyAlerts        bool      `json:"nearby_alerts"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DefaultSettings возвращает настройки по умолчанию для пользователя без записи
func DefaultSettings(userID UserID) *UserSettings {
	return &UserSettings{
		UserID:            userID,
		ShareLiveLocation: true,
		NearbyAlerts:      true,
	}
}
