package repositories

import (
	"errors"
	"fmt"
	"time"

	"esport-events-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type eventRepo struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("event_images.position ASC")
}

// CreateEvent inserts the event together with its initial images.
func (r *eventRepo) CreateEvent(event *models.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	return translate(r.db.Omit("Organizer").Create(event).Error, "create event")
}

// GetEventByID retrieves an event with its organizer and ordered images
func (r *eventRepo) GetEventByID(id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.
		Preload("Organizer").
		Preload("Images", orderedImages).
		Where("id = ?", id).
		First(&event).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("get event %s", id))
	}

	return &event, nil
}

// ListEvents retrieves a paginated list of events with optional filters
func (r *eventRepo) ListEvents(offset, limit int, filters *EventFilters) ([]models.Event, int64, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var events []models.Event
	var total int64

	query := r.db.Model(&models.Event{})

	if filters != nil {
		if len(filters.Statuses) > 0 {
			query = query.Where("status IN ?", filters.Statuses)
		}
		if filters.OrganizerID != nil {
			query = query.Where("organizer_id = ?", *filters.OrganizerID)
		}
		if filters.StartsAfter != nil {
			query = query.Where("starts_at >= ?", *filters.StartsAfter)
		}
		if filters.Search != "" {
			searchTerm := "%" + filters.Search + "%"
			query = query.Where("title ILIKE ? OR description ILIKE ?", searchTerm, searchTerm)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	if err := query.
		Preload("Organizer").
		Preload("Images", orderedImages).
		Offset(offset).
		Limit(limit).
		Order("starts_at ASC").
		Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}

	return events, total, nil
}

func (r *eventRepo) CountEventsByOrganizer(organizerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Event{}).Where("organizer_id = ?", organizerID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count organized events: %w", err)
	}
	return count, nil
}

// UpdateEvent saves the event columns and applies the image changes in one
// transaction. Either everything is committed or nothing is.
func (r *eventRepo) UpdateEvent(event *models.Event, changes *ImageChanges) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Event{}).
			Where("id = ?", event.ID).
			Select("title", "description", "starts_at", "ends_at", "status", "prize", "max_participants").
			Updates(event)
		if result.Error != nil {
			return translate(result.Error, "update event")
		}
		if result.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, fmt.Sprintf("update event %s", event.ID))
		}

		if changes.IsEmpty() {
			return nil
		}
		return applyImageChanges(tx, event.ID, changes)
	})
}

// DeleteEvent hard deletes an event; images, participations and comments cascade.
func (r *eventRepo) DeleteEvent(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.Event{})
	if result.Error != nil {
		return translate(result.Error, "delete event")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, fmt.Sprintf("delete event %s", id))
	}
	return nil
}

func (r *eventRepo) ListEventsByStatuses(statuses []models.EventStatus) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.Where("status IN ?", statuses).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events by status: %w", err)
	}
	return events, nil
}

func (r *eventRepo) ListPendingEndedBefore(t time.Time) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.
		Where("status = ? AND ends_at < ?", models.EventPending, t).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list expired pending events: %w", err)
	}
	return events, nil
}

// SaveStatuses writes a sweep batch. A failure on any row rolls back the
// whole batch.
func (r *eventRepo) SaveStatuses(changes []StatusChange) error {
	if len(changes) == 0 {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, change := range changes {
			if err := tx.Model(&models.Event{}).
				Where("id = ?", change.EventID).
				Update("status", change.To).Error; err != nil {
				return fmt.Errorf("failed to update status of event %s: %w", change.EventID, err)
			}
		}
		return nil
	})
}
