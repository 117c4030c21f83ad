package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/shenikar/safe_route_system/internal/service"
)

type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) service.SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

// CreateSession сохраняет новую сессию вместе со снимком контактов и
// начальной координатой
func (r *SessionRepository) CreateSession(ctx context.Context, session *models.SOSSession) error {
	contactsJSON, err := json.Marshal(session.Contacts)
	if err != nil {
		return fmt.Errorf("failed to marshal contacts snapshot: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin create session tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO sos_sessions (id, user_id, state, escalation_tier, contacts_snapshot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`,
		session.ID,
		session.UserID,
		session.State,
		session.EscalationTier,
		contactsJSON,
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sos session: %w", err)
	}

	if session.LastFix != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO sos_location_fixes (session_id, latitude, longitude, accuracy_meters, fixed_at)
			VALUES ($1, $2, $3, $4, $5);
		`,
			session.ID,
			session.LastFix.Latitude,
			session.LastFix.Longitude,
			session.LastFix.AccuracyMeters,
			session.LastFix.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to save initial location fix: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit create session tx: %w", err)
	}
	return nil
}

// UpdateState сохраняет переход состояния сессии
func (r *SessionRepository) UpdateState(ctx context.Context, sessionID uuid.UUID, state models.SessionState, tier int, closedAt *time.Time) error {
	query := `
		UPDATE sos_sessions SET
			state = $1,
			escalation_tier = $2,
			closed_at = $3
		WHERE id = $4;
	`
	cmdTag, err := r.db.Exec(ctx, query, state, tier, closedAt, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update session state: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %s for state update", models.ErrSessionNotFound, sessionID)
	}
	return nil
}

// AppendDelivery добавляет запись журнала доставки
func (r *SessionRepository) AppendDelivery(ctx context.Context, sessionID uuid.UUID, record models.DeliveryRecord) error {
	query := `
		INSERT INTO sos_deliveries (session_id, contact_id, attempt_id, tier, channel, status, reason, sent_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.db.Exec(ctx, query,
		sessionID,
		record.ContactID,
		record.AttemptID,
		record.Tier,
		record.Channel,
		record.Status,
		record.Reason,
		record.SentAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append delivery record: %w", err)
	}
	return nil
}

// UpdateDelivery обновляет исход попытки доставки по ее идентификатору
func (r *SessionRepository) UpdateDelivery(ctx context.Context, sessionID, attemptID uuid.UUID, status models.DeliveryStatus, reason string) error {
	query := `
		UPDATE sos_deliveries SET
			status = $1,
			reason = $2,
			updated_at = NOW()
		WHERE session_id = $3 AND attempt_id = $4;
	`
	cmdTag, err := r.db.Exec(ctx, query, status, reason, sessionID, attemptID)
	if err != nil {
		return fmt.Errorf("failed to update delivery record: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("delivery attempt %s not found in session %s", attemptID, sessionID)
	}
	return nil
}

// AppendFix добавляет координату в трек сессии
func (r *SessionRepository) AppendFix(ctx context.Context, sessionID uuid.UUID, fix models.LocationFix) error {
	query := `
		INSERT INTO sos_location_fixes (session_id, latitude, longitude, accuracy_meters, fixed_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.db.Exec(ctx, query,
		sessionID,
		fix.Latitude,
		fix.Longitude,
		fix.AccuracyMeters,
		fix.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append location fix: %w", err)
	}
	return nil
}

// GetSession восстанавливает сессию из бд: строка сессии, журнал доставки
// в порядке поступления и последняя координата
func (r *SessionRepository) GetSession(ctx context.Context, sessionID uuid.UUID) (*models.SOSSession, error) {
	session := &models.SOSSession{}
	var contactsJSON []byte

	query := `
		SELECT id, user_id, state, escalation_tier, contacts_snapshot, created_at, closed_at
		FROM sos_sessions
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, sessionID).Scan(
		&session.ID,
		&session.UserID,
		&session.State,
		&session.EscalationTier,
		&contactsJSON,
		&session.CreatedAt,
		&session.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %s", models.ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to get sos session: %w", err)
	}

	if err := json.Unmarshal(contactsJSON, &session.Contacts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contacts snapshot: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT contact_id, attempt_id, tier, channel, status, reason, sent_at, updated_at
		FROM sos_deliveries
		WHERE session_id = $1
		ORDER BY id;
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		record := models.DeliveryRecord{}
		err := rows.Scan(
			&record.ContactID,
			&record.AttemptID,
			&record.Tier,
			&record.Channel,
			&record.Status,
			&record.Reason,
			&record.SentAt,
			&record.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery record row: %w", err)
		}
		session.Deliveries = append(session.Deliveries, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error delivery list iteration: %w", err)
	}

	fix := models.LocationFix{}
	err = r.db.QueryRow(ctx, `
		SELECT latitude, longitude, accuracy_meters, fixed_at
		FROM sos_location_fixes
		WHERE session_id = $1
		ORDER BY fixed_at DESC
		LIMIT 1;
	`, sessionID).Scan(&fix.Latitude, &fix.Longitude, &fix.AccuracyMeters, &fix.Timestamp)
	if err == nil {
		session.LastFix = &fix
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get last location fix: %w", err)
	}

	return session, nil
}

// CountSessionsSince возвращает количество сессий, созданных начиная с since
func (r *SessionRepository) CountSessionsSince(ctx context.Context, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM sos_sessions
		WHERE created_at >= $1;
	`
	var count int
	if err := r.db.QueryRow(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sos sessions: %w", err)
	}
	return count, nil
}
