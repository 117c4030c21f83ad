package service

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safe_route_system/internal/config"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/shenikar/safe_route_system/internal/notify"
	notify_mocks "github.com/shenikar/safe_route_system/internal/notify/mocks"
	"github.com/shenikar/safe_route_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testUser = models.UserID("user-1")

// jobCollector потокобезопасно копит задания, поставленные в шлюз доставки
type jobCollector struct {
	mu   sync.Mutex
	jobs []notify.DeliveryJob
}

func (c *jobCollector) add(job notify.DeliveryJob) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jobs = append(c.jobs, job)
}

func (c *jobCollector) all() []notify.DeliveryJob {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]notify.DeliveryJob, len(c.jobs))
	copy(out, c.jobs)
	return out
}

func (c *jobCollector) forTier(tier int) []notify.DeliveryJob {
	var out []notify.DeliveryJob
	for _, job := range c.all() {
		if job.Tier == tier {
			out = append(out, job)
		}
	}
	return out
}

// newTestSOSService — вспомогательная функция для создания менеджера сессий с моками
func newTestSOSService(t *testing.T, cfg *config.Config) (*sessionManager, *mocks.MockSessionRepository, *mocks.MockContactRepository, *jobCollector) {
	ctrl := gomock.NewController(t)
	sessionRepo := mocks.NewMockSessionRepository(ctrl)
	contactRepo := mocks.NewMockContactRepository(ctrl)
	gateway := notify_mocks.NewMockGateway(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	collector := &jobCollector{}
	gateway.EXPECT().
		Dispatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job notify.DeliveryJob) error {
			collector.add(job)
			return nil
		}).
		AnyTimes()

	service := NewSOSService(sessionRepo, contactRepo, gateway, logger, cfg)
	return service.(*sessionManager), sessionRepo, contactRepo, collector
}

func testConfig(ackWindow time.Duration) *config.Config {
	return &config.Config{
		AckWindow:              ackWindow,
		MaxEscalationTiers:     3,
		StatsTimeWindowMinutes: 60,
	}
}

func testContacts() []*models.EmergencyContact {
	return []*models.EmergencyContact{
		{ID: uuid.New(), UserID: testUser, Name: "Анна", PushToken: "push-token-1", Rank: 1},
		{ID: uuid.New(), UserID: testUser, Name: "Борис", Phone: "+79990000001", Rank: 2},
		{ID: uuid.New(), UserID: testUser, Name: "Вера", Phone: "+79990000002", Rank: 3},
	}
}

func testFix() models.LocationFix {
	return models.LocationFix{Latitude: 55.75, Longitude: 37.61, Timestamp: time.Now()}
}

// expectPersistence разрешает любые обращения к хранилищу сессий:
// тесты машины состояний проверяют поведение, а не порядок записей
func expectPersistence(repo *mocks.MockSessionRepository) {
	repo.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	repo.EXPECT().UpdateState(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	repo.EXPECT().AppendDelivery(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	repo.EXPECT().UpdateDelivery(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	repo.EXPECT().AppendFix(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func TestTrigger_Success(t *testing.T) {
	// Подготовка
	cfg := testConfig(time.Hour)
	service, sessionRepo, contactRepo, collector := newTestSOSService(t, cfg)
	ctx := context.Background()
	contacts := testContacts()

	// Ожидания
	contactRepo.EXPECT().ListByUser(ctx, testUser).Return(contacts, nil).Times(1)
	contactRepo.EXPECT().GetSettings(ctx, testUser).Return(models.DefaultSettings(testUser), nil).Times(1)
	expectPersistence(sessionRepo)

	// Действие
	session, err := service.Trigger(ctx, testUser, testFix())

	// Проверки: сессия активна, первый ярус разослан всем контактам по приоритету
	require.NoError(t, err)
	assert.Equal(t, models.StateActive, session.State)
	assert.Equal(t, 1, session.EscalationTier)
	require.Len(t, session.Deliveries, 3)
	for _, record := range session.Deliveries {
		assert.Equal(t, models.DeliverySent, record.Status)
		assert.Equal(t, 1, record.Tier)
	}

	jobs := collector.forTier(1)
	require.Len(t, jobs, 3)
	assert.Equal(t, contacts[0].ID, jobs[0].ContactID)
	assert.Equal(t, models.ChannelPush, jobs[0].Channel)
	assert.Equal(t, contacts[1].ID, jobs[1].ContactID)
	assert.Equal(t, models.ChannelSMS, jobs[1].Channel)
	assert.Equal(t, 1, service.ActiveSessionCount())
}

func TestTrigger_NoDeliveryChannel(t *testing.T) {
	// Подготовка: единственный контакт без телефона и push-токена
	cfg := testConfig(time.Hour)
	service, _, contactRepo, collector := newTestSOSService(t, cfg)
	ctx := context.Background()

	// Ожидания
	contactRepo.EXPECT().ListByUser(ctx, testUser).
		Return([]*models.EmergencyContact{{ID: uuid.New(), UserID: testUser, Name: "Пустой", Rank: 1}}, nil).
		Times(1)

	// Действие
	session, err := service.Trigger(ctx, testUser, testFix())

	// Проверки: сессия не запускается и ничего не отправляется
	assert.ErrorIs(t, err, models.ErrNoDeliveryChannel)
	assert.Nil(t, session)
	assert.Empty(t, collector.all())
	assert.Equal(t, 0, service.ActiveSessionCount())
}

func TestTrigger_SecondCallMergesIntoExisting(t *testing.T) {
	// Подготовка
	cfg := testConfig(time.Hour)
	service, sessionRepo, contactRepo, collector := newTestSOSService(t, cfg)
	ctx := context.Background()

	// Ожидания: справочник читается один раз, вторая сессия не создается
	contactRepo.EXPECT().ListByUser(ctx, testUser).Return(testContacts(), nil).Times(1)
	contactRepo.EXPECT().GetSettings(ctx, testUser).Return(models.DefaultSettings(testUser), nil).Times(1)
	expectPersistence(sessionRepo)

	// Действие
	first, err := service.Trigger(ctx, testUser, testFix())
	require.NoError(t, err)
	second, err := service.Trigger(ctx, testUser, testFix())
	require.NoError(t, err)

	// Проверки: повторный запуск подкрепляет существующую сессию
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, service.ActiveSessionCount())
	assert.Len(t, collector.all(), 3)
}

func TestCancel_StopsFurtherDispatch(t *testing.T) {
	// Подготовка: короткое окно подтверждения, отмена до его истечения
	cfg := testConfig(60 * time.Millisecond)
	service, sessionRepo, contactRepo, collector := newTestSOSService(t, cfg)
	ctx := context.Background()

	contactRepo.EXPECT().ListByUser(ctx, testUser).Return(testContacts(), nil).Times(1)
	contactRepo.EXPECT().GetSettings(ctx, testUser).Return(models.DefaultSettings(testUser), nil).Times(1)
	expectPersistence(sessionRepo)

	session, err := service.Trigger(ctx, testUser, testFix())
	require.NoError(t, err)

	// Действие
	cancelled, err := service.Cancel(ctx, session.ID, testUser)
	require.NoError(t, err)

	// Проверки: финальное состояние, сессия в архиве
	assert.Equal(t, models.StateCancelled, cancelled.State)
	require.NotNil(t, cancelled.ClosedAt)
	assert.Equal(t, 0, service.ActiveSessionCount())
	// Журнал первого яруса сохранен для аудита
	assert.Len(t, cancelled.Deliveries, 3)

	// Таймер эскалации обезврежен: после окна новых отправок нет
	time.Sleep(3 * cfg.AckWindow)
	assert.Len(t, collector.all(), 3)
}

func TestCancel_AlreadyClosed(t *testing.T) {
	// Подготовка
	cfg := testConfig(time.Hour)
	service, sessionRepo, contactRepo, _ := newTestSOSService(t, cfg)
	ctx := context.Background()

	contactRepo.EXPECT().ListByUser(ctx, testUser).Return(testContacts(), nil).Times(1)
	contactRepo.EXPECT().GetSettings(ctx, testUser).Return(models.DefaultSettings(testUser), nil).Times(1)
	expectPersistence(sessionRepo)

	session, err := service.Trigger(ctx, testUser, testFix())
	require.NoError(t, err)
	archived, err := service.Cancel(ctx, session.ID, testUser)
	require.NoError(t, err)

	// Ожидания: закрытая сессия ищется в архиве
	sessionRepo.EXPECT().GetSession(ctx, session.ID).Return(archived, nil).Times(1)

	// Действие
	_, err = service.Cancel(ctx, session.ID, testUser)

	// Проверки
	assert.ErrorIs(t, err, models.ErrSessionClosed)
}

func TestResolve_NotOwner(t *testing.T) {
	// Подготовка
	cfg := testConfig(time.Hour)
	service, sessionRepo, contactRepo, _ := newTestSOSService(t, cfg)
	ctx := context.Background()

	contactRepo.EXPECT().ListByUser(ctx, testUser).Return(testContacts(), nil).Times(1)
	contactRepo.EXPECT().GetSettings(ctx, testUser).Return(models.DefaultSettings(testUser), nil).Times(1)
	expectPersistence(sessionRepo)

	session, err := service.Trigger(ctx, testUser, testFix())
	require.NoError(t, err)

	// Действие
	_, err = service.Resolve(ctx, session.ID, models.UserID("intruder"))

	// Проверки: чужая сессия не закрывается
	assert.ErrorIs(t, err, models.ErrNotSessionOwner)
	assert.Equal(t, 1, service.ActiveSessionCount())

	// Очистка
	_, err = service.Cancel(ctx, session.ID, testUser)
	require.NoError(t, err)
}

func TestEscalation_SkipsHardFailedContacts(t *testing.T) {
	// Подготовка: контакт 1 получает жесткий отказ, контакты 2 и 3 - таймаут
	cfg := testConfig(80 * time.Millisecond)
	service, sessionRepo, contactRepo, collector := newTestSOSService(t, cfg)
	ctx := context.Background()
	contacts := testContacts()

	contactRepo.EXPECT().ListByUser(ctx, testUser).Return(contacts, nil).Times(1)
	contactRepo.EXPECT().GetSettings(ctx, testUser).Return(models.DefaultSettings(testUser), nil).Times(1)
	expectPersistence(sessionRepo)

	session, err := service.Trigger(ctx, testUser, testFix())
	require.NoError(t, err)
	require.Len(t, session.Deliveries, 3)

	// Действие: исходы первого яруса до срабатывания таймера
	service.HandleDeliveryResult(ctx, notify.DeliveryResult{
		AttemptID: session.Deliveries[0].AttemptID,
		SessionID: session.ID,
		ContactID: contacts[0].ID,
		Outcome:   notify.OutcomeFailed,
		Reason:    "invalid push token",
	})
	for i := 1; i < 3; i++ {
		service.HandleDeliveryResult(ctx, notify.DeliveryResult{
			AttemptID: session.Deliveries[i].AttemptID,
			SessionID: session.ID,
			ContactID: contacts[i].ID,
			Outcome:   notify.OutcomeTimeout,
		})
	}

	require.Eventually(t, func() bool {
		return len(collector.forTier(2)) > 0
	}, time.Second, 5*time.Millisecond, "escalation tier 2 was not dispatched")

	// Проверки: второй ярус уходит только контактам 2 и 3
	tier2 := collector.forTier(2)
	require.Len(t, tier2, 2)
	notified := map[uuid.UUID]bool{tier2[0].ContactID: true, tier2[1].ContactID: true}
	assert.False(t, notified[contacts[0].ID], "hard-failed contact must not be re-notified")
	assert.True(t, notified[contacts[1].ID])
	assert.True(t, notified[contacts[2].ID])

	current, err := service.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateEscalated, current.State)
	assert.Equal(t, 2, current.EscalationTier)

	// Очистка
	_, err = service.Cancel(ctx, session.ID, testUser)
	require.NoError(t, err)
}

func TestEscalation_AcknowledgementDisarmsTimer(t *testing.T) {
	// Подготовка
	cfg := testConfig(60 * time.Millisecond)
	service, sessionRepo, contactRepo, collector := newTestSOSService(t, cfg)
	ctx := context.Background()
	contacts := testContacts()

	contactRepo.EXPECT().ListByUser(ctx, testUser).Return(contacts, nil).Times(1)
	contactRepo.EXPECT().GetSettings(ctx, testUser).Return(models.DefaultSettings(testUser), nil).Times(1)
	expectPersistence(sessionRepo)

	session, err := service.Trigger(ctx, testUser, testFix())
	require.NoError(t, err)

	// Действие: первый контакт подтверждает получение до истечения окна
	service.HandleDeliveryResult(ctx, notify.DeliveryResult{
		AttemptID: session.Deliveries[0].AttemptID,
		SessionID: session.ID,
		ContactID: contacts[0].ID,
		Outcome:   notify.OutcomeAcknowledged,
	})

	time.Sleep(3 * cfg.AckWindow)

	// Проверки: эскалации не было
	current, err := service.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateActive, current.State)
	assert.Equal(t, 1, current.EscalationTier)
	assert.Empty(t, collector.forTier(2))

	// Очистка
	_, err = service.Cancel(ctx, session.ID, testUser)
	require.NoError(t, err)
}

func TestEscalation_NotifiesAuthorityWhenEnabled(t *testing.T) {
	// Подготовка: пользователь включил автоуведомление экстренной службы
	cfg := testConfig(50 * time.Millisecond)
	cfg.AuthorityChannel = "emergency-dispatch"
	service, sessionRepo, contactRepo, collector := newTestSOSService(t, cfg)
	ctx := context.Background()

	settings := models.DefaultSettings(testUser)
	settings.AutoNotifyAuthority = true

	contactRepo.EXPECT().ListByUser(ctx, testUser).Return(testContacts(), nil).Times(1)
	contactRepo.EXPECT().GetSettings(ctx, testUser).Return(settings, nil).Times(1)
	expectPersistence(sessionRepo)

	session, err := service.Trigger(ctx, testUser, testFix())
	require.NoError(t, err)

	// Действие: окно истекает без подтверждений
	require.Eventually(t, func() bool {
		for _, job := range collector.forTier(2) {
			if job.Channel == models.ChannelAuthority {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond, "authority channel was not notified on escalation")

	// Проверки
	var authority *notify.DeliveryJob
	for _, job := range collector.forTier(2) {
		if job.Channel == models.ChannelAuthority {
			j := job
			authority = &j
		}
	}
	require.NotNil(t, authority)
	assert.Equal(t, "emergency-dispatch", authority.Destination)
	assert.Equal(t, uuid.Nil, authority.ContactID)

	// Очистка
	_, err = service.Cancel(ctx, session.ID, testUser)
	require.NoError(t, err)
}

func TestEscalation_ClosesAfterFinalTier(t *testing.T) {
	// Подготовка: единственный ярус, подтверждений нет
	cfg := testConfig(50 * time.Millisecond)
	cfg.MaxEscalationTiers = 1
	service, sessionRepo, contactRepo, _ := newTestSOSService(t, cfg)
	ctx := context.Background()

	contactRepo.EXPECT().ListByUser(ctx, testUser).Return(testContacts(), nil).Times(1)
	contactRepo.EXPECT().GetSettings(ctx, testUser).Return(models.DefaultSettings(testUser), nil).Times(1)
	expectPersistence(sessionRepo)

	_, err := service.Trigger(ctx, testUser, testFix())
	require.NoError(t, err)

	// Проверки: после последнего яруса сессия архивируется сама
	require.Eventually(t, func() bool {
		return service.ActiveSessionCount() == 0
	}, time.Second, 5*time.Millisecond, "session was not archived after final tier")
}

func TestAppendLocation_StaleFixDropped(t *testing.T) {
	// Подготовка
	cfg := testConfig(time.Hour)
	service, sessionRepo, contactRepo, _ := newTestSOSService(t, cfg)
	ctx := context.Background()

	contactRepo.EXPECT().ListByUser(ctx, testUser).Return(testContacts(), nil).Times(1)
	contactRepo.EXPECT().GetSettings(ctx, testUser).Return(models.DefaultSettings(testUser), nil).Times(1)
	expectPersistence(sessionRepo)

	start := testFix()
	session, err := service.Trigger(ctx, testUser, start)
	require.NoError(t, err)

	// Действие: опоздавшая координата, затем свежая
	stale := models.LocationFix{Latitude: 1, Longitude: 1, Timestamp: start.Timestamp.Add(-time.Minute)}
	require.NoError(t, service.AppendLocation(ctx, session.ID, stale))

	fresh := models.LocationFix{Latitude: 55.76, Longitude: 37.62, Timestamp: start.Timestamp.Add(time.Minute)}
	require.NoError(t, service.AppendLocation(ctx, session.ID, fresh))

	// Проверки: опоздавшая отброшена молча, свежая записана
	current, err := service.GetSession(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, current.LastFix)
	assert.Equal(t, fresh.Latitude, current.LastFix.Latitude)
	assert.Equal(t, fresh.Timestamp, current.LastFix.Timestamp)

	// Очистка
	_, err = service.Cancel(ctx, session.ID, testUser)
	require.NoError(t, err)
}

func TestAppendLocation_UnknownSession(t *testing.T) {
	cfg := testConfig(time.Hour)
	service, _, _, _ := newTestSOSService(t, cfg)

	err := service.AppendLocation(context.Background(), uuid.New(), testFix())
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestHandleDeliveryResult_TimeoutKeepsContactEligible(t *testing.T) {
	// Подготовка
	cfg := testConfig(time.Hour)
	service, sessionRepo, contactRepo, _ := newTestSOSService(t, cfg)
	ctx := context.Background()
	contacts := testContacts()

	contactRepo.EXPECT().ListByUser(ctx, testUser).Return(contacts, nil).Times(1)
	contactRepo.EXPECT().GetSettings(ctx, testUser).Return(models.DefaultSettings(testUser), nil).Times(1)
	expectPersistence(sessionRepo)

	session, err := service.Trigger(ctx, testUser, testFix())
	require.NoError(t, err)

	// Действие
	service.HandleDeliveryResult(ctx, notify.DeliveryResult{
		AttemptID: session.Deliveries[0].AttemptID,
		SessionID: session.ID,
		ContactID: contacts[0].ID,
		Outcome:   notify.OutcomeTimeout,
	})

	// Проверки: таймаут не меняет запись журнала
	current, err := service.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliverySent, current.Deliveries[0].Status)

	// Очистка
	_, err = service.Cancel(ctx, session.ID, testUser)
	require.NoError(t, err)
}

func TestHandleDeliveryResult_LateOutcomeDoesNotRegressAcknowledgement(t *testing.T) {
	// Подготовка
	cfg := testConfig(time.Hour)
	service, sessionRepo, contactRepo, _ := newTestSOSService(t, cfg)
	ctx := context.Background()
	contacts := testContacts()

	contactRepo.EXPECT().ListByUser(ctx, testUser).Return(contacts, nil).Times(1)
	contactRepo.EXPECT().GetSettings(ctx, testUser).Return(models.DefaultSettings(testUser), nil).Times(1)
	expectPersistence(sessionRepo)

	session, err := service.Trigger(ctx, testUser, testFix())
	require.NoError(t, err)

	attemptID := session.Deliveries[0].AttemptID
	service.HandleDeliveryResult(ctx, notify.DeliveryResult{
		AttemptID: attemptID,
		SessionID: session.ID,
		ContactID: contacts[0].ID,
		Outcome:   notify.OutcomeAcknowledged,
	})

	// Действие: запоздавшие исходы шлюза по уже подтвержденной попытке
	service.HandleDeliveryResult(ctx, notify.DeliveryResult{
		AttemptID: attemptID,
		SessionID: session.ID,
		ContactID: contacts[0].ID,
		Outcome:   notify.OutcomeDelivered,
	})
	service.HandleDeliveryResult(ctx, notify.DeliveryResult{
		AttemptID: attemptID,
		SessionID: session.ID,
		ContactID: contacts[0].ID,
		Outcome:   notify.OutcomeFailed,
		Reason:    "provider retry",
	})

	// Проверки: подтверждение не понижается
	current, err := service.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryAcknowledged, current.Deliveries[0].Status)
	assert.True(t, current.Acknowledged())

	// Очистка
	_, err = service.Resolve(ctx, session.ID, testUser)
	require.NoError(t, err)
}

func TestEscalation_AuthorityNotifiedOnlyOnce(t *testing.T) {
	// Подготовка: три яруса без подтверждений
	cfg := testConfig(40 * time.Millisecond)
	cfg.AuthorityChannel = "emergency-dispatch"
	service, sessionRepo, contactRepo, collector := newTestSOSService(t, cfg)
	ctx := context.Background()

	settings := models.DefaultSettings(testUser)
	settings.AutoNotifyAuthority = true

	contactRepo.EXPECT().ListByUser(ctx, testUser).Return(testContacts(), nil).Times(1)
	contactRepo.EXPECT().GetSettings(ctx, testUser).Return(settings, nil).Times(1)
	expectPersistence(sessionRepo)

	session, err := service.Trigger(ctx, testUser, testFix())
	require.NoError(t, err)

	// Действие: дожидаемся второй эскалации
	require.Eventually(t, func() bool {
		return len(collector.forTier(3)) > 0
	}, time.Second, 5*time.Millisecond, "second escalation did not happen")

	// Проверки: экстренная служба уведомлена ровно один раз, на первой эскалации
	authority := 0
	for _, job := range collector.all() {
		if job.Channel == models.ChannelAuthority {
			authority++
			assert.Equal(t, 2, job.Tier)
		}
	}
	assert.Equal(t, 1, authority)

	// Очистка: сессия могла успеть закрыться после последнего яруса
	if _, err := service.Cancel(ctx, session.ID, testUser); err != nil {
		require.ErrorIs(t, err, models.ErrSessionClosed)
	}
}
