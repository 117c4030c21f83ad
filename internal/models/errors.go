package models

import "errors"

// Сентинельные ошибки доменного слоя. Сервисы оборачивают их через %w,
// хендлеры сопоставляют через errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidRoute      = errors.New("invalid route candidate")
	ErrNoDeliveryChannel = errors.New("no delivery channel available for any contact")
	ErrSessionNotFound   = errors.New("sos session not found")
	ErrSessionClosed     = errors.New("sos session already closed")
	ErrNotSessionOwner   = errors.New("caller is not the session owner")
	ErrContactNotFound   = errors.New("emergency contact not found")
)
