package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safe_route_system/internal/config"
	"github.com/sirupsen/logrus"
)

// DeliveryWorker снимает задания доставки из очереди и отправляет их провайдеру
// каналов. Ошибки доставки ретраятся с ограниченным числом попыток; исчерпание
// ретраев никогда не валит воркер, итог сообщается обработчику результатов.
type DeliveryWorker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
	results     ResultHandler
}

// NewDeliveryWorker создает новый DeliveryWorker
func NewDeliveryWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config, results ResultHandler) *DeliveryWorker {
	return &DeliveryWorker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.DeliveryTimeout,
		},
		results: results,
	}
}

// Start запускает горутину для обработки очереди доставок
func (w *DeliveryWorker) Start(ctx context.Context) {
	w.logger.Info("Starting delivery worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping delivery worker.")
				return
			default:
				// BRPOP - блокирующее извлечение из правой части очереди, 0 - ждать бесконечно
				result, err := w.redisClient.BRPop(ctx, 0, deliveryQueueKey).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue
					}
					w.logger.WithError(err).Error("Failed to pop delivery job from Redis")
					time.Sleep(w.cfg.DeliveryTimeout)
					continue
				}

				payload := result[1]
				var job DeliveryJob
				if err := json.Unmarshal([]byte(payload), &job); err != nil {
					w.logger.WithError(err).Error("Failed to unmarshal delivery job from Redis")
					continue
				}

				w.processDeliveryJob(ctx, job, payload)
			}
		}
	}()
}

// processDeliveryJob отправляет одну попытку провайдеру и сообщает исход.
// Жесткий отказ (4xx) не ретраится: токен или номер недействительны.
// Сетевые ошибки и 5xx ретраятся с экспоненциальной задержкой; исчерпание
// попыток трактуется как отсутствие сигнала, не как жесткий отказ.
func (w *DeliveryWorker) processDeliveryJob(ctx context.Context, job DeliveryJob, rawPayload string) {
	log := w.logger.WithFields(logrus.Fields{
		"session_id": job.SessionID,
		"contact_id": job.ContactID,
		"attempt_id": job.AttemptID,
		"channel":    job.Channel,
		"tier":       job.Tier,
	})
	log.Debug("Processing delivery job...")

	if w.cfg.DeliveryURL == "" {
		log.Warn("Delivery URL is not configured. Reporting timeout for delivery job.")
		w.report(ctx, job, OutcomeTimeout, "delivery url not configured")
		return
	}

	maxRetries := w.cfg.DeliveryMaxRetries
	baseDelay := w.cfg.DeliveryBaseDelay

	for i := 0; i < maxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, "POST", w.cfg.DeliveryURL, bytes.NewBufferString(rawPayload))
		if err != nil {
			log.WithError(err).Errorf("Failed to create delivery request. Retries left: %d", maxRetries-1-i)
			continue
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Attempt-ID", job.AttemptID.String())

		// HMAC подпись, если DELIVERY_SECRET задан
		if w.cfg.DeliverySecret != "" {
			signature := generateHMACSHA256(rawPayload, w.cfg.DeliverySecret)
			req.Header.Set("X-Delivery-Signature", signature)
		}

		resp, err := w.httpClient.Do(req)
		if err != nil {
			log.WithError(err).Warnf("Failed to send delivery attempt. Retrying in %v. Retries left: %d", baseDelay, maxRetries-1-i)
			time.Sleep(baseDelay)
			baseDelay *= 2 // Экспоненциальная задержка
			continue
		}
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			log.Info("Delivery attempt accepted by provider.")
			w.report(ctx, job, OutcomeDelivered, "")
			return
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			log.Warnf("Delivery rejected with status code %d. Not retrying.", resp.StatusCode)
			w.report(ctx, job, OutcomeFailed, http.StatusText(resp.StatusCode))
			return
		default:
			log.Warnf("Delivery failed with status code %d. Retrying in %v. Retries left: %d", resp.StatusCode, baseDelay, maxRetries-1-i)
			time.Sleep(baseDelay)
			baseDelay *= 2 // Экспоненциальная задержка
		}
	}

	log.Errorf("No delivery confirmation after %d retries.", maxRetries)
	w.report(ctx, job, OutcomeTimeout, "retries exhausted")
}

func (w *DeliveryWorker) report(ctx context.Context, job DeliveryJob, outcome DeliveryOutcome, reason string) {
	if w.results == nil {
		return
	}
	w.results.HandleDeliveryResult(ctx, DeliveryResult{
		AttemptID: job.AttemptID,
		SessionID: job.SessionID,
		ContactID: job.ContactID,
		Outcome:   outcome,
		Reason:    reason,
		At:        time.Now(),
	})
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
