package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"type:varchar(20);not null;default:'user'" json:"role"` // user|organizer|admin
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Participations []Participation `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Comments       []Comment       `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`
}

type Event struct {
	ID              uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title           string      `gorm:"not null" json:"title"`
	Description     string      `gorm:"type:text" json:"description"`
	StartsAt        time.Time   `gorm:"not null;index" json:"starts_at"`
	EndsAt          time.Time   `gorm:"not null;index" json:"ends_at"`
	Status          EventStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	OrganizerID     uuid.UUID   `gorm:"type:uuid;index;not null" json:"organizer_id"`
	Prize           string      `json:"prize"`
	MaxParticipants *int        `json:"max_participants"` // nil = unlimited
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	// Relations
	Organizer      User            `gorm:"foreignKey:OrganizerID;constraint:OnDelete:RESTRICT" json:"-"`
	Images         []EventImage    `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Participations []Participation `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Comments       []Comment       `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
}

// Participation is keyed by (user, event); the composite primary key is the
// uniqueness guarantee for concurrent join requests.
type Participation struct {
	UserID    uuid.UUID           `gorm:"type:uuid;primaryKey" json:"user_id"`
	EventID   uuid.UUID           `gorm:"type:uuid;primaryKey;index" json:"event_id"`
	Status    ParticipationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Score     *int                `json:"score"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

type Comment struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"event_id"`
	AuthorID  *uuid.UUID `gorm:"type:uuid;index" json:"author_id"` // nil once the author account is deleted
	Content   string     `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`

	// Relations
	Author *User `gorm:"foreignKey:AuthorID" json:"-"`
}

type EventImage struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID      uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	Source       string    `gorm:"not null" json:"source"` // stored filename, or the URL when External
	External     bool      `gorm:"default:false" json:"external"`
	OriginalName string    `json:"original_name"`
	Description  string    `json:"description"`
	MimeType     string    `gorm:"type:varchar(50)" json:"mime_type"`
	Size         int64     `json:"size"`
	Position     int       `gorm:"not null;default:0" json:"position"`
	CreatedAt    time.Time `json:"created_at"`
}
