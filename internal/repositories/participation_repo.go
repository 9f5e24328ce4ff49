package repositories

import (
	"fmt"

	"esport-events-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type participationRepo struct {
	db *gorm.DB
}

func NewParticipationRepository(db *gorm.DB) ParticipationRepository {
	return &participationRepo{db: db}
}

// CreateParticipation inserts a row; a concurrent duplicate for the same
// (user, event) pair fails on the primary key and returns ErrDuplicate.
func (r *participationRepo) CreateParticipation(p *models.Participation) error {
	return translate(r.db.Create(p).Error, "create participation")
}

func (r *participationRepo) GetParticipation(userID, eventID uuid.UUID) (*models.Participation, error) {
	var p models.Participation
	if err := r.db.Where("user_id = ? AND event_id = ?", userID, eventID).First(&p).Error; err != nil {
		return nil, translate(err, "get participation")
	}
	return &p, nil
}

func (r *participationRepo) UpdateParticipation(p *models.Participation) error {
	result := r.db.Model(&models.Participation{}).
		Where("user_id = ? AND event_id = ?", p.UserID, p.EventID).
		Select("status", "score").
		Updates(p)
	if result.Error != nil {
		return translate(result.Error, "update participation")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "update participation")
	}
	return nil
}

func (r *participationRepo) DeleteParticipation(userID, eventID uuid.UUID) error {
	result := r.db.Where("user_id = ? AND event_id = ?", userID, eventID).Delete(&models.Participation{})
	if result.Error != nil {
		return translate(result.Error, "delete participation")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete participation")
	}
	return nil
}

// CountActiveByEvent counts participations that are not refused.
func (r *participationRepo) CountActiveByEvent(eventID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Participation{}).
		Where("event_id = ? AND status <> ?", eventID, models.ParticipationRefused).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}

func (r *participationRepo) CountActiveByEvents(eventIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		EventID uuid.UUID
		Total   int64
	}
	if err := r.db.Model(&models.Participation{}).
		Select("event_id, COUNT(*) AS total").
		Where("event_id IN ? AND status <> ?", eventIDs, models.ParticipationRefused).
		Group("event_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}

	for _, row := range rows {
		counts[row.EventID] = row.Total
	}
	return counts, nil
}

// ListByEvent returns the participations of an event, oldest first. An empty
// status list means every status.
func (r *participationRepo) ListByEvent(eventID uuid.UUID, statuses []models.ParticipationStatus) ([]models.Participation, error) {
	var participations []models.Participation

	query := r.db.Preload("User").Where("event_id = ?", eventID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	if err := query.Order("created_at ASC").Find(&participations).Error; err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	return participations, nil
}
