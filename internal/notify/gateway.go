package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safe_route_system/internal/models"
)

const (
	deliveryQueueKey = "sos_delivery_jobs"
)

// DeliveryJob - одна попытка доставки SOS-уведомления контакту.
// AttemptID уникален для каждой попытки: повторная отправка одной попытки
// безопасна, провайдер дедуплицирует по идентификатору.
type DeliveryJob struct {
	AttemptID   uuid.UUID              `json:"attempt_id"`
	SessionID   uuid.UUID              `json:"session_id"`
	UserID      models.UserID          `json:"user_id"`
	ContactID   uuid.UUID              `json:"contact_id"`
	Channel     models.DeliveryChannel `json:"channel"`
	Destination string                 `json:"destination"`
	Message     string                 `json:"message"`
	Tier        int                    `json:"tier"`
	TrackingURL string                 `json:"tracking_url,omitempty"`
	EnqueuedAt  time.Time              `json:"enqueued_at"`
}

// DeliveryOutcome - итог попытки доставки
type DeliveryOutcome string

const (
	OutcomeDelivered    DeliveryOutcome = "delivered"
	OutcomeAcknowledged DeliveryOutcome = "acknowledged"
	OutcomeFailed       DeliveryOutcome = "failed"
	OutcomeTimeout      DeliveryOutcome = "timeout"
)

// DeliveryResult - результат попытки, возвращаемый менеджеру сессий
type DeliveryResult struct {
	AttemptID uuid.UUID       `json:"attempt_id"`
	SessionID uuid.UUID       `json:"session_id"`
	ContactID uuid.UUID       `json:"contact_id"`
	Outcome   DeliveryOutcome `json:"outcome"`
	Reason    string          `json:"reason,omitempty"`
	At        time.Time       `json:"at"`
}

// Gateway - интерфейс для постановки доставок в очередь
type Gateway interface {
	Dispatch(ctx context.Context, job DeliveryJob) error
}

// ResultHandler принимает исходы доставок. Реализуется менеджером SOS-сессий.
type ResultHandler interface {
	HandleDeliveryResult(ctx context.Context, result DeliveryResult)
}

// RedisGateway - реализация Gateway, использующая очередь в Redis
type RedisGateway struct {
	redisClient *redis.Client
}

// NewRedisGateway создает новый RedisGateway
func NewRedisGateway(client *redis.Client) *RedisGateway {
	return &RedisGateway{
		redisClient: client,
	}
}

// Dispatch публикует задание доставки в очередь Redis
func (g *RedisGateway) Dispatch(ctx context.Context, job DeliveryJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery job: %w", err)
	}

	// LPUSH в левую часть списка, воркер снимает с правой
	if err := g.redisClient.LPush(ctx, deliveryQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish delivery job to Redis: %w", err)
	}
	return nil
}
