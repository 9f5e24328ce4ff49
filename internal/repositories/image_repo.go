package repositories

import (
	"fmt"
	"sort"

	"esport-events-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type imageRepo struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepo{db: db}
}

func (r *imageRepo) ListImagesByEvent(eventID uuid.UUID) ([]models.EventImage, error) {
	var images []models.EventImage
	if err := r.db.Where("event_id = ?", eventID).Order("position ASC").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}

func (r *imageRepo) GetImage(eventID, imageID uuid.UUID) (*models.EventImage, error) {
	var image models.EventImage
	if err := r.db.Where("id = ? AND event_id = ?", imageID, eventID).First(&image).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("get image %s", imageID))
	}
	return &image, nil
}

func (r *imageRepo) ApplyChanges(eventID uuid.UUID, changes *ImageChanges) error {
	if changes.IsEmpty() {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return applyImageChanges(tx, eventID, changes)
	})
}

// applyImageChanges removes, inserts, then renumbers the images of an event
// so positions stay dense. It must run inside a transaction.
func applyImageChanges(tx *gorm.DB, eventID uuid.UUID, changes *ImageChanges) error {
	if len(changes.Remove) > 0 {
		if err := tx.Where("event_id = ? AND id IN ?", eventID, changes.Remove).
			Delete(&models.EventImage{}).Error; err != nil {
			return fmt.Errorf("failed to remove images: %w", err)
		}
	}

	var existing []models.EventImage
	if err := tx.Where("event_id = ?", eventID).Order("position ASC").Find(&existing).Error; err != nil {
		return fmt.Errorf("failed to load images: %w", err)
	}

	added := make([]models.EventImage, len(changes.Add))
	for i, img := range changes.Add {
		img.EventID = eventID
		img.Position = len(existing) + i
		added[i] = img
	}
	if len(added) > 0 {
		if err := tx.Create(&added).Error; err != nil {
			return translate(err, "add images")
		}
	}

	all := NormalizePositions(append(existing, added...), changes.Order)
	for _, img := range all {
		if err := tx.Model(&models.EventImage{}).
			Where("id = ?", img.ID).
			Update("position", img.Position).Error; err != nil {
			return fmt.Errorf("failed to reorder images: %w", err)
		}
	}
	return nil
}

// NormalizePositions returns the images renumbered 0..n-1. Images named in
// order come first, in that order; the rest keep their relative position.
// Unknown ids in order are ignored.
func NormalizePositions(images []models.EventImage, order []uuid.UUID) []models.EventImage {
	rank := make(map[uuid.UUID]int, len(order))
	for i, id := range order {
		if _, seen := rank[id]; !seen {
			rank[id] = i
		}
	}

	out := make([]models.EventImage, len(images))
	copy(out, images)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := rank[out[i].ID]
		rj, jok := rank[out[j].ID]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return out[i].Position < out[j].Position
		}
	})

	for i := range out {
		out[i].Position = i
	}
	return out
}
