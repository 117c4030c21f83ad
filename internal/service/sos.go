package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safe_route_system/internal/config"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/shenikar/safe_route_system/internal/notify"
	"github.com/sirupsen/logrus"
)

// SessionRepository определяет контракт для хранения SOS-сессий
type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.SOSSession) error
	UpdateState(ctx context.Context, sessionID uuid.UUID, state models.SessionState, tier int, closedAt *time.Time) error
	AppendDelivery(ctx context.Context, sessionID uuid.UUID, record models.DeliveryRecord) error
	UpdateDelivery(ctx context.Context, sessionID, attemptID uuid.UUID, status models.DeliveryStatus, reason string) error
	AppendFix(ctx context.Context, sessionID uuid.UUID, fix models.LocationFix) error
	GetSession(ctx context.Context, sessionID uuid.UUID) (*models.SOSSession, error)
	CountSessionsSince(ctx context.Context, since time.Time) (int, error)
}

// SOSService определяет контракт менеджера SOS-сессий
type SOSService interface {
	Trigger(ctx context.Context, userID models.UserID, fix models.LocationFix) (*models.SOSSession, error)
	Resolve(ctx context.Context, sessionID uuid.UUID, userID models.UserID) (*models.SOSSession, error)
	Cancel(ctx context.Context, sessionID uuid.UUID, userID models.UserID) (*models.SOSSession, error)
	AppendLocation(ctx context.Context, sessionID uuid.UUID, fix models.LocationFix) error
	GetSession(ctx context.Context, sessionID uuid.UUID) (*models.SOSSession, error)
	HandleDeliveryResult(ctx context.Context, result notify.DeliveryResult)
	ActiveSessionCount() int
	GetStats(ctx context.Context) (int, error)
}

// liveSession - активная сессия с ее таймером эскалации. Мьютекс сессии -
// единственный писатель: переходы состояния, журнал доставки и таймер
// сериализуются на нем, сессии разных пользователей независимы.
type liveSession struct {
	mu                sync.Mutex
	session           *models.SOSSession
	settings          *models.UserSettings
	escalation        *time.Timer
	authorityNotified bool
}

type sessionManager struct {
	mu     sync.Mutex
	byUser map[models.UserID]*liveSession
	byID   map[uuid.UUID]*liveSession

	repo     SessionRepository
	contacts ContactRepository
	gateway  notify.Gateway
	logger   *logrus.Logger
	cfg      *config.Config
}

func NewSOSService(repo SessionRepository, contacts ContactRepository, gateway notify.Gateway, logger *logrus.Logger, cfg *config.Config) SOSService {
	return &sessionManager{
		byUser:   make(map[models.UserID]*liveSession),
		byID:     make(map[uuid.UUID]*liveSession),
		repo:     repo,
		contacts: contacts,
		gateway:  gateway,
		logger:   logger,
		cfg:      cfg,
	}
}

// Trigger запускает SOS-сессию пользователя. Снимок контактов и начальная
// координата фиксируются до первой отправки: правки справочника после запуска
// на сессию не влияют. Повторный вызов при активной сессии не создает вторую,
// а подкрепляет существующую. Возврат происходит сразу после постановки
// рассылки первого яруса, не после доставки.
func (m *sessionManager) Trigger(ctx context.Context, userID models.UserID, fix models.LocationFix) (*models.SOSSession, error) {
	log := m.logger.WithFields(logrus.Fields{
		"service": "sos",
		"method":  "Trigger",
		"user_id": userID,
	})

	if userID == "" {
		return nil, fmt.Errorf("%w: trigger without user id", models.ErrInvalidInput)
	}
	if fix.Timestamp.IsZero() {
		fix.Timestamp = time.Now()
	}

	m.mu.Lock()
	if existing, ok := m.byUser[userID]; ok {
		m.mu.Unlock()
		// Конфликт параллельного запуска: не ошибка для вызывающего, только лог
		log.WithField("session_id", existing.session.ID).Info("Trigger merged into existing active session")
		existing.mu.Lock()
		m.appendFixLocked(ctx, existing, fix)
		snapshot := cloneSession(existing.session)
		existing.mu.Unlock()
		return snapshot, nil
	}
	m.mu.Unlock()

	// Снимок справочника и настроек до любой отправки
	contacts, err := m.contacts.ListByUser(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Failed to snapshot contact directory")
		return nil, fmt.Errorf("service: could not snapshot contacts: %w", err)
	}

	reachable := 0
	for _, contact := range contacts {
		if _, ok := contact.PreferredChannel(); ok {
			reachable++
		}
	}
	if reachable == 0 {
		log.Warn("No contact with a usable delivery channel, session not started")
		return nil, models.ErrNoDeliveryChannel
	}

	settings, err := m.contacts.GetSettings(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Failed to load user settings")
		return nil, fmt.Errorf("service: could not load settings: %w", err)
	}

	session := &models.SOSSession{
		ID:             uuid.New(),
		UserID:         userID,
		State:          models.StateTriggering,
		EscalationTier: 1,
		Contacts:       contacts,
		LastFix:        &fix,
		CreatedAt:      time.Now(),
	}

	if err := m.repo.CreateSession(ctx, session); err != nil {
		log.WithError(err).Error("Failed to persist new session")
		return nil, fmt.Errorf("service: could not create session: %w", err)
	}

	ls := &liveSession{session: session, settings: settings}

	m.mu.Lock()
	// Перепроверка под блокировкой: параллельный Trigger мог успеть раньше
	if existing, ok := m.byUser[userID]; ok {
		m.mu.Unlock()
		log.WithField("session_id", existing.session.ID).Info("Trigger merged into concurrently started session")
		closedAt := time.Now()
		if err := m.repo.UpdateState(ctx, session.ID, models.StateCancelled, session.EscalationTier, &closedAt); err != nil {
			log.WithError(err).Warn("Failed to discard duplicate session")
		}
		existing.mu.Lock()
		m.appendFixLocked(ctx, existing, fix)
		snapshot := cloneSession(existing.session)
		existing.mu.Unlock()
		return snapshot, nil
	}
	m.byUser[userID] = ls
	m.byID[session.ID] = ls
	m.mu.Unlock()

	ls.mu.Lock()
	defer ls.mu.Unlock()

	session.State = models.StateActive
	if err := m.repo.UpdateState(ctx, session.ID, session.State, session.EscalationTier, nil); err != nil {
		log.WithError(err).Warn("Failed to persist active state")
	}

	// Рассылка первого яруса в порядке приоритета. Dispatch только ставит
	// задание в очередь, доставки вызов не ждет.
	m.dispatchTierLocked(ctx, ls, session.EscalationTier)

	ls.escalation = time.AfterFunc(m.cfg.AckWindow, func() {
		m.escalate(session.ID)
	})

	log.WithField("session_id", session.ID).Info("SOS session is active, tier 1 dispatched")
	return cloneSession(session), nil
}

// dispatchTierLocked рассылает уведомления яруса tier всем пригодным контактам
// снимка. Контакты с жестким отказом исключаются; сбой постановки одного
// контакта не мешает остальным. Вызывается под мьютексом сессии.
func (m *sessionManager) dispatchTierLocked(ctx context.Context, ls *liveSession, tier int) {
	session := ls.session
	failed := session.FailedContacts()
	acked := make(map[uuid.UUID]bool)
	for i := range session.Deliveries {
		if session.Deliveries[i].Status == models.DeliveryAcknowledged {
			acked[session.Deliveries[i].ContactID] = true
		}
	}

	for _, contact := range session.Contacts {
		if failed[contact.ID] || acked[contact.ID] {
			continue
		}
		channel, ok := contact.PreferredChannel()
		if !ok {
			continue
		}

		destination := contact.Phone
		if channel == models.ChannelPush {
			destination = contact.PushToken
		}

		m.dispatchLocked(ctx, ls, notify.DeliveryJob{
			AttemptID:   uuid.New(),
			SessionID:   session.ID,
			UserID:      session.UserID,
			ContactID:   contact.ID,
			Channel:     channel,
			Destination: destination,
			Message:     m.buildMessage(session),
			Tier:        tier,
			TrackingURL: m.trackingURL(ls),
			EnqueuedAt:  time.Now(),
		})
	}
}

// dispatchLocked ставит одну попытку в очередь и пишет ее в журнал доставки
func (m *sessionManager) dispatchLocked(ctx context.Context, ls *liveSession, job notify.DeliveryJob) {
	log := m.logger.WithFields(logrus.Fields{
		"service":    "sos",
		"session_id": job.SessionID,
		"contact_id": job.ContactID,
		"attempt_id": job.AttemptID,
		"tier":       job.Tier,
	})

	now := time.Now()
	record := models.DeliveryRecord{
		ContactID: job.ContactID,
		AttemptID: job.AttemptID,
		Tier:      job.Tier,
		Channel:   job.Channel,
		Status:    models.DeliverySent,
		SentAt:    now,
		UpdatedAt: now,
	}

	if err := m.gateway.Dispatch(ctx, job); err != nil {
		// Недоступность одного контакта никогда не валит сессию целиком
		log.WithError(err).Error("Failed to enqueue delivery attempt")
		record.Status = models.DeliveryFailed
		record.Reason = "dispatch failed"
	}

	ls.session.Deliveries = append(ls.session.Deliveries, record)
	if err := m.repo.AppendDelivery(ctx, ls.session.ID, record); err != nil {
		log.WithError(err).Warn("Failed to persist delivery record")
	}
}

func (m *sessionManager) buildMessage(session *models.SOSSession) string {
	msg := fmt.Sprintf("EMERGENCY: user %s needs help.", session.UserID)
	if session.LastFix != nil {
		msg += fmt.Sprintf(" Last known location: %.5f,%.5f.", session.LastFix.Latitude, session.LastFix.Longitude)
	}
	return msg
}

func (m *sessionManager) trackingURL(ls *liveSession) string {
	if ls.settings == nil || !ls.settings.ShareLiveLocation || m.cfg.TrackingBaseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/sos/%s", m.cfg.TrackingBaseURL, ls.session.ID)
}

// escalate срабатывает по таймеру окна подтверждения. Гонка таймера с отменой
// или разрешением пользователя разрешается на мьютексе сессии: таймер,
// заставший сессию не активной и не эскалированной, ничего не делает.
func (m *sessionManager) escalate(sessionID uuid.UUID) {
	ctx := context.Background()
	log := m.logger.WithFields(logrus.Fields{
		"service":    "sos",
		"method":     "escalate",
		"session_id": sessionID,
	})

	m.mu.Lock()
	ls, ok := m.byID[sessionID]
	m.mu.Unlock()
	if !ok {
		return
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	session := ls.session

	if session.Closed() || (session.State != models.StateActive && session.State != models.StateEscalated) {
		return
	}
	// Эскалация считается по актуальному журналу, не по устаревшему снимку
	if session.Acknowledged() {
		log.Info("Acknowledgement received, escalation stopped")
		return
	}

	if session.EscalationTier >= m.cfg.MaxEscalationTiers {
		log.Warn("No acknowledgement after final tier, archiving session")
		m.closeLocked(ctx, ls, session.State)
		return
	}

	session.EscalationTier++
	session.State = models.StateEscalated
	if err := m.repo.UpdateState(ctx, session.ID, session.State, session.EscalationTier, nil); err != nil {
		log.WithError(err).Warn("Failed to persist escalated state")
	}

	log.WithField("tier", session.EscalationTier).Warn("No acknowledgement within window, escalating")

	// Следующий ярус уходит всем пригодным контактам одновременно
	m.dispatchTierLocked(ctx, ls, session.EscalationTier)

	// Дежурную службу уведомляем один раз, при первой эскалации
	if ls.settings != nil && ls.settings.AutoNotifyAuthority && m.cfg.AuthorityChannel != "" && !ls.authorityNotified {
		ls.authorityNotified = true
		m.dispatchLocked(ctx, ls, notify.DeliveryJob{
			AttemptID:   uuid.New(),
			SessionID:   session.ID,
			UserID:      session.UserID,
			ContactID:   uuid.Nil,
			Channel:     models.ChannelAuthority,
			Destination: m.cfg.AuthorityChannel,
			Message:     m.buildMessage(session),
			Tier:        session.EscalationTier,
			TrackingURL: m.trackingURL(ls),
			EnqueuedAt:  time.Now(),
		})
	}

	ls.escalation = time.AfterFunc(m.cfg.AckWindow, func() {
		m.escalate(session.ID)
	})
}

// closeLocked архивирует сессию: финальное состояние сохраняется, сессия
// убирается из карты активных и становится неизменяемой
func (m *sessionManager) closeLocked(ctx context.Context, ls *liveSession, finalState models.SessionState) {
	session := ls.session
	if ls.escalation != nil {
		ls.escalation.Stop()
		ls.escalation = nil
	}

	now := time.Now()
	session.State = finalState
	session.ClosedAt = &now

	if err := m.repo.UpdateState(ctx, session.ID, finalState, session.EscalationTier, &now); err != nil {
		m.logger.WithError(err).WithField("session_id", session.ID).Error("Failed to persist final session state")
	}

	m.mu.Lock()
	delete(m.byID, session.ID)
	if current, ok := m.byUser[session.UserID]; ok && current == ls {
		delete(m.byUser, session.UserID)
	}
	m.mu.Unlock()
}

// finish - общий путь Resolve и Cancel: проверка владельца, сериализация
// с таймером эскалации, остановка дальнейших отправок
func (m *sessionManager) finish(ctx context.Context, sessionID uuid.UUID, userID models.UserID, finalState models.SessionState) (*models.SOSSession, error) {
	log := m.logger.WithFields(logrus.Fields{
		"service":    "sos",
		"session_id": sessionID,
		"user_id":    userID,
		"final":      finalState,
	})

	m.mu.Lock()
	ls, ok := m.byID[sessionID]
	m.mu.Unlock()

	if !ok {
		// Сессии нет среди активных: либо ее не было, либо она уже в архиве
		archived, err := m.repo.GetSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if archived.UserID != userID {
			return nil, models.ErrNotSessionOwner
		}
		return nil, models.ErrSessionClosed
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	session := ls.session

	if session.UserID != userID {
		log.Warn("Rejected finish request from non-owner")
		return nil, models.ErrNotSessionOwner
	}
	if session.Closed() {
		return nil, models.ErrSessionClosed
	}

	// Команда пользователя приоритетнее таймера: уже отправленные уведомления
	// не отзываются, но дальше ничего не планируется
	m.closeLocked(ctx, ls, finalState)

	log.Info("SOS session finished")
	return cloneSession(session), nil
}

// Resolve - пользователь отметил себя в безопасности
func (m *sessionManager) Resolve(ctx context.Context, sessionID uuid.UUID, userID models.UserID) (*models.SOSSession, error) {
	return m.finish(ctx, sessionID, userID, models.StateResolved)
}

// Cancel - пользователь отменил тревогу. Журнал доставки сохраняется для аудита.
func (m *sessionManager) Cancel(ctx context.Context, sessionID uuid.UUID, userID models.UserID) (*models.SOSSession, error) {
	return m.finish(ctx, sessionID, userID, models.StateCancelled)
}

// AppendLocation добавляет координату в трек активной сессии.
// Координаты старше последней записанной молча отбрасываются.
func (m *sessionManager) AppendLocation(ctx context.Context, sessionID uuid.UUID, fix models.LocationFix) error {
	m.mu.Lock()
	ls, ok := m.byID[sessionID]
	m.mu.Unlock()
	if !ok {
		return models.ErrSessionNotFound
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	m.appendFixLocked(ctx, ls, fix)
	return nil
}

func (m *sessionManager) appendFixLocked(ctx context.Context, ls *liveSession, fix models.LocationFix) {
	session := ls.session
	if fix.Timestamp.IsZero() {
		fix.Timestamp = time.Now()
	}
	if session.LastFix != nil && !fix.Timestamp.After(session.LastFix.Timestamp) {
		// Опоздавшая координата, не ошибка
		m.logger.WithField("session_id", session.ID).Debug("Discarded stale location fix")
		return
	}

	session.LastFix = &fix
	if err := m.repo.AppendFix(ctx, session.ID, fix); err != nil {
		m.logger.WithError(err).WithField("session_id", session.ID).Warn("Failed to persist location fix")
	}
}

// GetSession возвращает сессию: активную из памяти, закрытую из архива
func (m *sessionManager) GetSession(ctx context.Context, sessionID uuid.UUID) (*models.SOSSession, error) {
	m.mu.Lock()
	ls, ok := m.byID[sessionID]
	m.mu.Unlock()

	if ok {
		ls.mu.Lock()
		defer ls.mu.Unlock()
		return cloneSession(ls.session), nil
	}
	return m.repo.GetSession(ctx, sessionID)
}

// HandleDeliveryResult принимает исход попытки доставки от шлюза уведомлений.
// Записи журнала добавляются в порядке поступления и всегда относятся к одной
// паре (контакт, попытка). Первый acknowledged останавливает таймер эскалации.
func (m *sessionManager) HandleDeliveryResult(ctx context.Context, result notify.DeliveryResult) {
	log := m.logger.WithFields(logrus.Fields{
		"service":    "sos",
		"method":     "HandleDeliveryResult",
		"session_id": result.SessionID,
		"attempt_id": result.AttemptID,
		"outcome":    result.Outcome,
	})

	status, ok := statusForOutcome(result.Outcome)
	if !ok {
		log.Warn("Ignored delivery result with unknown outcome")
		return
	}

	m.mu.Lock()
	ls, found := m.byID[result.SessionID]
	m.mu.Unlock()

	if !found {
		// Сессия уже в архиве: исходы незавершенных доставок дописываются туда
		if status != "" {
			if err := m.repo.UpdateDelivery(ctx, result.SessionID, result.AttemptID, status, result.Reason); err != nil {
				log.WithError(err).Debug("Delivery result for unknown or archived session dropped")
			}
		}
		return
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	session := ls.session

	idx := -1
	for i := range session.Deliveries {
		if session.Deliveries[i].AttemptID == result.AttemptID {
			idx = i
			break
		}
	}
	if idx < 0 {
		log.Warn("Ignored delivery result for unknown attempt")
		return
	}

	if status == "" {
		// Таймаут: ни подтверждения, ни отказа. Статус остается sent,
		// контакт пригоден для следующего яруса.
		return
	}

	// Статус acknowledged монотонен: запоздавший delivered или failed от
	// шлюза подтверждение не отменяет
	if session.Deliveries[idx].Status == models.DeliveryAcknowledged && status != models.DeliveryAcknowledged {
		log.Debug("Ignored late delivery result for acknowledged attempt")
		return
	}

	session.Deliveries[idx].Status = status
	session.Deliveries[idx].Reason = result.Reason
	session.Deliveries[idx].UpdatedAt = time.Now()

	if err := m.repo.UpdateDelivery(ctx, session.ID, result.AttemptID, status, result.Reason); err != nil {
		log.WithError(err).Warn("Failed to persist delivery result")
	}

	if status == models.DeliveryAcknowledged && ls.escalation != nil {
		log.Info("Contact acknowledged, escalation disarmed")
		ls.escalation.Stop()
		ls.escalation = nil
	}
}

// statusForOutcome переводит исход шлюза в статус журнала.
// Пустой статус означает "записи не меняем" (таймаут).
func statusForOutcome(outcome notify.DeliveryOutcome) (models.DeliveryStatus, bool) {
	switch outcome {
	case notify.OutcomeDelivered:
		return models.DeliveryDelivered, true
	case notify.OutcomeAcknowledged:
		return models.DeliveryAcknowledged, true
	case notify.OutcomeFailed:
		return models.DeliveryFailed, true
	case notify.OutcomeTimeout:
		return "", true
	}
	return "", false
}

// ActiveSessionCount возвращает количество активных сессий в памяти
func (m *sessionManager) ActiveSessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// GetStats возвращает количество сессий, созданных за настроенное окно
func (m *sessionManager) GetStats(ctx context.Context) (int, error) {
	since := time.Now().Add(-time.Duration(m.cfg.StatsTimeWindowMinutes) * time.Minute)
	count, err := m.repo.CountSessionsSince(ctx, since)
	if err != nil {
		m.logger.WithError(err).Error("Failed to get session stats from repository")
		return 0, fmt.Errorf("service: could not get session stats: %w", err)
	}
	return count, nil
}

// cloneSession возвращает копию сессии для выдачи наружу: вызывающая сторона
// не должна видеть последующие мутации под чужим мьютексом
func cloneSession(session *models.SOSSession) *models.SOSSession {
	clone := *session
	clone.Deliveries = make([]models.DeliveryRecord, len(session.Deliveries))
	copy(clone.Deliveries, session.Deliveries)
	clone.Contacts = make([]*models.EmergencyContact, len(session.Contacts))
	copy(clone.Contacts, session.Contacts)
	if session.LastFix != nil {
		fix := *session.LastFix
		clone.LastFix = &fix
	}
	if session.ClosedAt != nil {
		closedAt := *session.ClosedAt
		clone.ClosedAt = &closedAt
	}
	return &clone
}
