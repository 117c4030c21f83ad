package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/shenikar/safe_route_system/internal/service"
)

type ContactRepository struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) service.ContactRepository {
	return &ContactRepository{
		db: db,
	}
}

// ListByUser возвращает контакты пользователя в порядке приоритета.
// Одно консистентное чтение: снимок для SOS-сессии атомарен относительно
// параллельных правок справочника.
func (r *ContactRepository) ListByUser(ctx context.Context, userID models.UserID) ([]*models.EmergencyContact, error) {
	query := `
		SELECT id, user_id, name, phone, push_token, rank, created_at, updated_at
		FROM emergency_contacts
		WHERE user_id = $1
		ORDER BY rank;
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]*models.EmergencyContact, 0)
	for rows.Next() {
		contact := &models.EmergencyContact{}
		err := rows.Scan(
			&contact.ID,
			&contact.UserID,
			&contact.Name,
			&contact.Phone,
			&contact.PushToken,
			&contact.Rank,
			&contact.CreatedAt,
			&contact.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error contact list iteration: %w", err)
	}
	return contacts, nil
}

// GetByID возвращает контакт по его UUID
func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.EmergencyContact, error) {
	contact := &models.EmergencyContact{}
	query := `
		SELECT id, user_id, name, phone, push_token, rank, created_at, updated_at
		FROM emergency_contacts
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&contact.ID,
		&contact.UserID,
		&contact.Name,
		&contact.Phone,
		&contact.PushToken,
		&contact.Rank,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %s", models.ErrContactNotFound, id)
		}
		return nil, fmt.Errorf("failed to get contact by id: %w", err)
	}
	return contact, nil
}

// nextRankQuery блокирует строку с максимальным рангом пользователя и
// возвращает следующий за ней ранг. FOR UPDATE с агрегатами Postgres не
// допускает, поэтому блокируется одна строка через ORDER BY ... LIMIT 1.
const nextRankQuery = `
	SELECT rank + 1 FROM emergency_contacts
	WHERE user_id = $1
	ORDER BY rank DESC
	LIMIT 1
	FOR UPDATE;`

// nextRankFromRow читает следующий ранг из результата nextRankQuery.
// Отсутствие строк означает первый контакт пользователя.
func nextRankFromRow(row pgx.Row) (int, error) {
	var nextRank int
	if err := row.Scan(&nextRank); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 1, nil
		}
		return 0, fmt.Errorf("failed to compute next contact rank: %w", err)
	}
	return nextRank, nil
}

// Create добавляет контакт в конец списка приоритетов пользователя.
// Назначение ранга и вставка идут в одной транзакции, чтобы ранги остались
// плотными при конкурентных добавлениях. Гонку за первый ранг при пустом
// списке ловит uq_emergency_contacts_user_rank.
func (r *ContactRepository) Create(ctx context.Context, contact *models.EmergencyContact) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin create contact tx: %w", err)
	}
	defer tx.Rollback(ctx)

	nextRank, err := nextRankFromRow(tx.QueryRow(ctx, nextRankQuery, contact.UserID))
	if err != nil {
		return err
	}

	contact.Rank = nextRank
	err = tx.QueryRow(ctx, `
		INSERT INTO emergency_contacts (id, user_id, name, phone, push_token, rank)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at;
	`,
		contact.ID,
		contact.UserID,
		contact.Name,
		contact.Phone,
		contact.PushToken,
		contact.Rank,
	).Scan(&contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit create contact tx: %w", err)
	}
	return nil
}

// Update обновляет имя и каналы контакта. Ранг через Update не меняется,
// для этого есть ReplaceRanks.
func (r *ContactRepository) Update(ctx context.Context, contact *models.EmergencyContact) error {
	query := `
		UPDATE emergency_contacts SET
			name = $1,
			phone = $2,
			push_token = $3,
			updated_at = NOW()
		WHERE id = $4 AND user_id = $5;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		contact.Name,
		contact.Phone,
		contact.PushToken,
		contact.ID,
		contact.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %s for update", models.ErrContactNotFound, contact.ID)
	}
	return nil
}

// DeleteAndRenumber удаляет контакт и сдвигает ранги оставшихся, чтобы
// нумерация осталась плотной без пропусков. Атомарно в одной транзакции.
func (r *ContactRepository) DeleteAndRenumber(ctx context.Context, userID models.UserID, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete contact tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Сдвиг рангов транзиентно пересекается, проверяем уникальность на коммите
	_, err = tx.Exec(ctx, `SET CONSTRAINTS uq_emergency_contacts_user_rank DEFERRED;`)
	if err != nil {
		return fmt.Errorf("failed to defer rank constraint: %w", err)
	}

	var deletedRank int
	err = tx.QueryRow(ctx,
		`DELETE FROM emergency_contacts WHERE id = $1 AND user_id = $2 RETURNING rank;`,
		id, userID,
	).Scan(&deletedRank)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: id %s for delete", models.ErrContactNotFound, id)
		}
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE emergency_contacts SET rank = rank - 1, updated_at = NOW() WHERE user_id = $1 AND rank > $2;`,
		userID, deletedRank,
	)
	if err != nil {
		return fmt.Errorf("failed to renumber contacts after delete: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete contact tx: %w", err)
	}
	return nil
}

// ReplaceRanks переписывает ранги контактов пользователя по переданному
// порядку идентификаторов. orderedIDs обязан содержать ровно все контакты
// пользователя, проверка на стороне сервиса.
func (r *ContactRepository) ReplaceRanks(ctx context.Context, userID models.UserID, orderedIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin reorder tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Сначала уводим ранги в отрицательные, чтобы не нарушить уникальность по пути
	_, err = tx.Exec(ctx,
		`UPDATE emergency_contacts SET rank = -rank WHERE user_id = $1;`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to stage contact ranks: %w", err)
	}

	for i, id := range orderedIDs {
		cmdTag, err := tx.Exec(ctx,
			`UPDATE emergency_contacts SET rank = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3;`,
			i+1, id, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to set contact rank: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return fmt.Errorf("%w: id %s in reorder", models.ErrContactNotFound, id)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reorder tx: %w", err)
	}
	return nil
}

// GetSettings возвращает настройки SOS пользователя или дефолтные, если записи нет
func (r *ContactRepository) GetSettings(ctx context.Context, userID models.UserID) (*models.UserSettings, error) {
	settings := &models.UserSettings{}
	query := `
		SELECT user_id, auto_notify_authority, share_live_location, nearby_alerts, updated_at
		FROM user_settings
		WHERE user_id = $1;
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&settings.UserID,
		&settings.AutoNotifyAuthority,
		&settings.ShareLiveLocation,
		&settings.NearbyAlerts,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.DefaultSettings(userID), nil
		}
		return nil, fmt.Errorf("failed to get user settings: %w", err)
	}
	return settings, nil
}

// SaveSettings сохраняет настройки SOS пользователя
func (r *ContactRepository) SaveSettings(ctx context.Context, settings *models.UserSettings) error {
	query := `
		INSERT INTO user_settings (user_id, auto_notify_authority, share_live_location, nearby_alerts)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			auto_notify_authority = EXCLUDED.auto_notify_authority,
			share_live_location = EXCLUDED.share_live_location,
			nearby_alerts = EXCLUDED.nearby_alerts,
			updated_at = NOW();
	`
	_, err := r.db.Exec(ctx, query,
		settings.UserID,
		settings.AutoNotifyAuthority,
		settings.ShareLiveLocation,
		settings.NearbyAlerts,
	)
	if err != nil {
		return fmt.Errorf("failed to save user settings: %w", err)
	}
	return nil
}
