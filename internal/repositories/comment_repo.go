package repositories

import (
	"fmt"

	"esport-events-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type commentRepo struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepo{db: db}
}

func (r *commentRepo) CreateComment(comment *models.Comment) error {
	return translate(r.db.Omit("Author").Create(comment).Error, "create comment")
}

func (r *commentRepo) GetComment(eventID, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("Author").
		Where("id = ? AND event_id = ?", id, eventID).
		First(&comment).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("get comment %s", id))
	}
	return &comment, nil
}

func (r *commentRepo) DeleteComment(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.Comment{})
	if result.Error != nil {
		return translate(result.Error, "delete comment")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete comment")
	}
	return nil
}

func (r *commentRepo) ListCommentsByEvent(eventID uuid.UUID, offset, limit int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	// Count total
	if err := r.db.Model(&models.Comment{}).Where("event_id = ?", eventID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	// Get comments with pagination
	if err := r.db.Preload("Author").
		Where("event_id = ?", eventID).
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, total, nil
}
