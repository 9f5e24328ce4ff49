package services

import (
	"mime/multipart"
	"strings"

	"esport-events-backend/internal/config"
	"esport-events-backend/internal/models"
	"esport-events-backend/internal/repositories"
	"esport-events-backend/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ImageStore persists uploaded image files.
type ImageStore interface {
	Save(file *multipart.FileHeader) (string, error)
	Remove(filename string) error
}

// NewImage is one image to attach: either an uploaded File or an external URL.
type NewImage struct {
	File        *multipart.FileHeader
	URL         string
	Description string
}

// ImageEditSet accumulates the image edits of one edit session. It is applied
// in full with the event update or not at all.
type ImageEditSet struct {
	Add    []NewImage
	Remove []uuid.UUID
	Order  []uuid.UUID
}

func (e *ImageEditSet) IsEmpty() bool {
	return e == nil || (len(e.Add) == 0 && len(e.Remove) == 0 && len(e.Order) == 0)
}

// preparedEdits is an edit set whose files are already stored and whose rows
// are ready to commit.
type preparedEdits struct {
	changes *repositories.ImageChanges
	stored  []string // files written for Add
	removed []string // files of uploaded images being removed
}

type ImageService struct {
	repo  *repositories.Repository
	cfg   *config.Config
	store ImageStore
}

func NewImageService(repo *repositories.Repository, cfg *config.Config, store ImageStore) *ImageService {
	return &ImageService{repo: repo, cfg: cfg, store: store}
}

// AddImages attaches images to an event managed by the actor.
func (s *ImageService) AddImages(actor Actor, eventID uuid.UUID, images []NewImage) ([]ImageView, error) {
	if len(images) == 0 {
		return nil, invalid("at least one image is required")
	}

	event, err := s.managedEvent(actor, eventID)
	if err != nil {
		return nil, err
	}

	prepared, err := s.prepare(event.ID, event.Images, &ImageEditSet{Add: images})
	if err != nil {
		return nil, err
	}

	if err := s.repo.ImageRepo.ApplyChanges(event.ID, prepared.changes); err != nil {
		s.discard(prepared)
		return nil, fromRepo(err, "image")
	}

	stored, err := s.repo.ImageRepo.ListImagesByEvent(event.ID)
	if err != nil {
		return nil, internal("failed to reload images", err)
	}
	return newImageViews(stored), nil
}

// DeleteImage removes one image and renumbers the remaining ones.
func (s *ImageService) DeleteImage(actor Actor, eventID, imageID uuid.UUID) error {
	event, err := s.managedEvent(actor, eventID)
	if err != nil {
		return err
	}
	if _, err := s.repo.ImageRepo.GetImage(event.ID, imageID); err != nil {
		return fromRepo(err, "image")
	}

	prepared, err := s.prepare(event.ID, event.Images, &ImageEditSet{Remove: []uuid.UUID{imageID}})
	if err != nil {
		return err
	}

	if err := s.repo.ImageRepo.ApplyChanges(event.ID, prepared.changes); err != nil {
		return fromRepo(err, "image")
	}
	s.finalize(prepared)
	return nil
}

// ReorderImages persists a new display order. Callers treat it as best-effort.
func (s *ImageService) ReorderImages(actor Actor, eventID uuid.UUID, order []uuid.UUID) error {
	if len(order) == 0 {
		return invalid("order cannot be empty")
	}

	event, err := s.managedEvent(actor, eventID)
	if err != nil {
		return err
	}

	prepared, err := s.prepare(event.ID, event.Images, &ImageEditSet{Order: order})
	if err != nil {
		return err
	}

	if err := s.repo.ImageRepo.ApplyChanges(event.ID, prepared.changes); err != nil {
		return internal("failed to persist image order", err)
	}
	return nil
}

func (s *ImageService) managedEvent(actor Actor, eventID uuid.UUID) (*models.Event, error) {
	if !actor.IsAuthenticated() {
		return nil, NewAppError("authentication required", ErrUnauthorized, nil)
	}

	event, err := s.repo.EventRepo.GetEventByID(eventID)
	if err != nil {
		return nil, fromRepo(err, "event")
	}
	if !actor.CanManageEvent(event) {
		return nil, forbidden("only the organizer or an administrator can change this event's images")
	}
	return event, nil
}

// prepare validates an edit set against the event's current images and
// stores uploaded files. On error nothing is left on disk.
func (s *ImageService) prepare(eventID uuid.UUID, existing []models.EventImage, edits *ImageEditSet) (*preparedEdits, error) {
	prepared := &preparedEdits{changes: &repositories.ImageChanges{}}
	if edits.IsEmpty() {
		return prepared, nil
	}

	known := make(map[uuid.UUID]models.EventImage, len(existing))
	for _, img := range existing {
		known[img.ID] = img
	}

	removed := make(map[uuid.UUID]bool, len(edits.Remove))
	for _, id := range edits.Remove {
		img, ok := known[id]
		if !ok {
			return nil, notFound("image not found on this event")
		}
		removed[id] = true
		prepared.changes.Remove = append(prepared.changes.Remove, id)
		if !img.External {
			prepared.removed = append(prepared.removed, img.Source)
		}
	}

	for _, id := range edits.Order {
		if _, ok := known[id]; !ok || removed[id] {
			return nil, invalid("image order references an unknown or removed image")
		}
	}
	prepared.changes.Order = edits.Order

	for _, img := range edits.Add {
		row, err := s.buildImage(eventID, img)
		if err != nil {
			s.discard(prepared)
			return nil, err
		}
		if !row.External {
			prepared.stored = append(prepared.stored, row.Source)
		}
		prepared.changes.Add = append(prepared.changes.Add, *row)
	}

	return prepared, nil
}

func (s *ImageService) buildImage(eventID uuid.UUID, img NewImage) (*models.EventImage, error) {
	url := strings.TrimSpace(img.URL)
	hasFile := img.File != nil
	hasURL := url != ""

	if hasFile == hasURL {
		return nil, invalid("each image needs exactly one of a file or a URL")
	}

	row := &models.EventImage{
		ID:          uuid.New(),
		EventID:     eventID,
		Description: strings.TrimSpace(img.Description),
	}

	if hasURL {
		if err := utils.ValidateExternalImageURL(url); err != nil {
			return nil, invalid(err.Error())
		}
		row.Source = url
		row.External = true
		row.MimeType = utils.ImageMimeTypeFromURL(url)
		return row, nil
	}

	if err := utils.ValidateImageFile(img.File, s.cfg.MaxUploadSize); err != nil {
		return nil, invalid(err.Error())
	}
	filename, err := s.store.Save(img.File)
	if err != nil {
		return nil, internal("failed to store image", err)
	}
	row.Source = filename
	row.OriginalName = img.File.Filename
	row.MimeType = img.File.Header.Get("Content-Type")
	row.Size = img.File.Size
	return row, nil
}

// discard removes files stored for an edit set that was not committed.
func (s *ImageService) discard(prepared *preparedEdits) {
	for _, filename := range prepared.stored {
		if err := s.store.Remove(filename); err != nil {
			logrus.WithError(err).WithField("file", filename).Warn("failed to remove orphaned upload")
		}
	}
}

// finalize removes files of images deleted by a committed edit set.
func (s *ImageService) finalize(prepared *preparedEdits) {
	for _, filename := range prepared.removed {
		if err := s.store.Remove(filename); err != nil {
			logrus.WithError(err).WithField("file", filename).Warn("failed to remove deleted image file")
		}
	}
}

// removeEventFiles deletes every stored file of an event that is gone.
func (s *ImageService) removeEventFiles(images []models.EventImage) {
	for _, img := range images {
		if img.External {
			continue
		}
		if err := s.store.Remove(img.Source); err != nil {
			logrus.WithError(err).WithField("file", img.Source).Warn("failed to remove event image file")
		}
	}
}
