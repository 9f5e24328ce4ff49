package repositories

import (
	"errors"
	"fmt"
	"time"

	"esport-events-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type Repository struct {
	DB                *gorm.DB
	EventRepo         EventRepository
	UserRepo          UserRepository
	ParticipationRepo ParticipationRepository
	CommentRepo       CommentRepository
	ImageRepo         ImageRepository
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:                db,
		EventRepo:         NewEventRepository(db),
		UserRepo:          NewUserRepository(db),
		ParticipationRepo: NewParticipationRepository(db),
		CommentRepo:       NewCommentRepository(db),
		ImageRepo:         NewImageRepository(db),
	}
}

func AutoMigrate(db *gorm.DB) error {
	// Enable UUID extension
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.EventImage{},
		&models.Participation{},
		&models.Comment{},
	)
}

// Interface definitions
type UserRepository interface {
	GetUserByEmail(email string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id uuid.UUID) (*models.User, error)
	CreateUser(user *models.User) error
	DeleteUser(id uuid.UUID) error
}

type EventRepository interface {
	CreateEvent(event *models.Event) error
	GetEventByID(id uuid.UUID) (*models.Event, error)
	ListEvents(offset, limit int, filters *EventFilters) ([]models.Event, int64, error)
	CountEventsByOrganizer(organizerID uuid.UUID) (int64, error)
	UpdateEvent(event *models.Event, changes *ImageChanges) error
	DeleteEvent(id uuid.UUID) error

	// Lifecycle sweep
	ListEventsByStatuses(statuses []models.EventStatus) ([]models.Event, error)
	ListPendingEndedBefore(t time.Time) ([]models.Event, error)
	SaveStatuses(changes []StatusChange) error
}

type ParticipationRepository interface {
	CreateParticipation(p *models.Participation) error
	GetParticipation(userID, eventID uuid.UUID) (*models.Participation, error)
	UpdateParticipation(p *models.Participation) error
	DeleteParticipation(userID, eventID uuid.UUID) error
	CountActiveByEvent(eventID uuid.UUID) (int64, error)
	CountActiveByEvents(eventIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	ListByEvent(eventID uuid.UUID, statuses []models.ParticipationStatus) ([]models.Participation, error)
}

type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetComment(eventID, id uuid.UUID) (*models.Comment, error)
	DeleteComment(id uuid.UUID) error
	ListCommentsByEvent(eventID uuid.UUID, offset, limit int) ([]models.Comment, int64, error)
}

type ImageRepository interface {
	ListImagesByEvent(eventID uuid.UUID) ([]models.EventImage, error)
	GetImage(eventID, imageID uuid.UUID) (*models.EventImage, error)
	ApplyChanges(eventID uuid.UUID, changes *ImageChanges) error
}

type EventFilters struct {
	Statuses    []models.EventStatus
	OrganizerID *uuid.UUID
	StartsAfter *time.Time
	Search      string
}

// StatusChange is one row of a lifecycle sweep batch.
type StatusChange struct {
	EventID uuid.UUID
	From    models.EventStatus
	To      models.EventStatus
}

// ImageChanges is the persisted form of an image edit set. Add entries must
// carry their ID so Order may reference them.
type ImageChanges struct {
	Add    []models.EventImage
	Remove []uuid.UUID
	Order  []uuid.UUID
}

func (c *ImageChanges) IsEmpty() bool {
	return c == nil || (len(c.Add) == 0 && len(c.Remove) == 0 && len(c.Order) == 0)
}

// translate maps gorm errors onto the package sentinels.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
