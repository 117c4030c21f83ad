package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/sirupsen/logrus"
)

// ContactRepository определяет контракт для работы с бд контактов и настроек
type ContactRepository interface {
	ListByUser(ctx context.Context, userID models.UserID) ([]*models.EmergencyContact, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.EmergencyContact, error)
	Create(ctx context.Context, contact *models.EmergencyContact) error
	Update(ctx context.Context, contact *models.EmergencyContact) error
	DeleteAndRenumber(ctx context.Context, userID models.UserID, id uuid.UUID) error
	ReplaceRanks(ctx context.Context, userID models.UserID, orderedIDs []uuid.UUID) error
	GetSettings(ctx context.Context, userID models.UserID) (*models.UserSettings, error)
	SaveSettings(ctx context.Context, settings *models.UserSettings) error
}

// ContactService определяет контракт для управления справочником контактов.
// Ранги контактов пользователя всегда остаются плотной уникальной нумерацией:
// от них зависят порядок оповещения и ярусы эскалации.
type ContactService interface {
	ListContacts(ctx context.Context, userID models.UserID) ([]*models.EmergencyContact, error)
	AddContact(ctx context.Context, contact *models.EmergencyContact) error
	UpdateContact(ctx context.Context, contact *models.EmergencyContact) error
	RemoveContact(ctx context.Context, userID models.UserID, id uuid.UUID) error
	ReorderContacts(ctx context.Context, userID models.UserID, orderedIDs []uuid.UUID) error
	GetSettings(ctx context.Context, userID models.UserID) (*models.UserSettings, error)
	UpdateSettings(ctx context.Context, settings *models.UserSettings) error
}

type contactService struct {
	repo   ContactRepository
	logger *logrus.Logger
}

func NewContactService(repo ContactRepository, logger *logrus.Logger) ContactService {
	return &contactService{
		repo:   repo,
		logger: logger,
	}
}

// ListContacts возвращает контакты пользователя в порядке приоритета
func (s *contactService) ListContacts(ctx context.Context, userID models.UserID) ([]*models.EmergencyContact, error) {
	contacts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list contacts from repository")
		return nil, fmt.Errorf("service: could not list contacts: %w", err)
	}
	return contacts, nil
}

func validateContact(contact *models.EmergencyContact) error {
	if contact.UserID == "" {
		return fmt.Errorf("%w: contact without user id", models.ErrInvalidInput)
	}
	if contact.Name == "" {
		return fmt.Errorf("%w: contact without name", models.ErrInvalidInput)
	}
	if _, ok := contact.PreferredChannel(); !ok {
		return fmt.Errorf("%w: contact needs a phone or a push token", models.ErrInvalidInput)
	}
	return nil
}

// AddContact добавляет контакт в конец списка приоритетов пользователя
func (s *contactService) AddContact(ctx context.Context, contact *models.EmergencyContact) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "contact",
		"method":  "AddContact",
		"user_id": contact.UserID,
	})

	if err := validateContact(contact); err != nil {
		log.WithError(err).Warn("Rejected invalid contact")
		return err
	}

	contact.ID = uuid.New()
	if err := s.repo.Create(ctx, contact); err != nil {
		log.WithError(err).Error("Failed to create contact in repository")
		return fmt.Errorf("service: could not create contact: %w", err)
	}

	log.WithField("contact_id", contact.ID).Info("Contact created")
	return nil
}

// UpdateContact обновляет имя и каналы существующего контакта
func (s *contactService) UpdateContact(ctx context.Context, contact *models.EmergencyContact) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "contact",
		"method":     "UpdateContact",
		"contact_id": contact.ID,
	})

	if err := validateContact(contact); err != nil {
		log.WithError(err).Warn("Rejected invalid contact update")
		return err
	}

	existing, err := s.repo.GetByID(ctx, contact.ID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent contact")
		return fmt.Errorf("service: contact not found for update: %w", err)
	}
	if existing.UserID != contact.UserID {
		return fmt.Errorf("%w: contact %s does not belong to user %s",
			models.ErrContactNotFound, contact.ID, contact.UserID)
	}

	if err := s.repo.Update(ctx, contact); err != nil {
		log.WithError(err).Error("Failed to update contact in repository")
		return fmt.Errorf("service: could not update contact: %w", err)
	}

	log.Info("Contact updated")
	return nil
}

// RemoveContact удаляет контакт. Ранги оставшихся атомарно перенумеровываются,
// чтобы нумерация осталась плотной.
func (s *contactService) RemoveContact(ctx context.Context, userID models.UserID, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "contact",
		"method":     "RemoveContact",
		"user_id":    userID,
		"contact_id": id,
	})

	if err := s.repo.DeleteAndRenumber(ctx, userID, id); err != nil {
		log.WithError(err).Warn("Failed to remove contact")
		return fmt.Errorf("service: could not remove contact: %w", err)
	}

	log.Info("Contact removed")
	return nil
}

// ReorderContacts переставляет приоритеты по переданному порядку идентификаторов.
// Список обязан содержать ровно все контакты пользователя: иначе нумерация
// перестала бы быть плотной.
func (s *contactService) ReorderContacts(ctx context.Context, userID models.UserID, orderedIDs []uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "contact",
		"method":  "ReorderContacts",
		"user_id": userID,
	})

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Failed to list contacts for reorder")
		return fmt.Errorf("service: could not reorder contacts: %w", err)
	}

	if len(orderedIDs) != len(existing) {
		return fmt.Errorf("%w: reorder list has %d ids, user has %d contacts",
			models.ErrInvalidInput, len(orderedIDs), len(existing))
	}

	known := make(map[uuid.UUID]bool, len(existing))
	for _, contact := range existing {
		known[contact.ID] = true
	}
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !known[id] {
			return fmt.Errorf("%w: unknown contact id %s in reorder", models.ErrInvalidInput, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate contact id %s in reorder", models.ErrInvalidInput, id)
		}
		seen[id] = true
	}

	if err := s.repo.ReplaceRanks(ctx, userID, orderedIDs); err != nil {
		log.WithError(err).Error("Failed to replace contact ranks")
		return fmt.Errorf("service: could not reorder contacts: %w", err)
	}

	log.Info("Contacts reordered")
	return nil
}

// GetSettings возвращает настройки SOS пользователя
func (s *contactService) GetSettings(ctx context.Context, userID models.UserID) (*models.UserSettings, error) {
	settings, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get user settings from repository")
		return nil, fmt.Errorf("service: could not get settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings сохраняет настройки SOS пользователя
func (s *contactService) UpdateSettings(ctx context.Context, settings *models.UserSettings) error {
	if settings.UserID == "" {
		return fmt.Errorf("%w: settings without user id", models.ErrInvalidInput)
	}
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		s.logger.WithError(err).Error("Failed to save user settings in repository")
		return fmt.Errorf("service: could not save settings: %w", err)
	}
	return nil
}
