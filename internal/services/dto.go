package services

import (
	"time"

	"esport-events-backend/internal/models"

	"github.com/google/uuid"
)

// UploadURLPrefix is the public path under which stored image files are served.
const UploadURLPrefix = "/uploads/"

const deletedUserName = "deleted user"

// OrganizerSummary is the organizer as embedded in event payloads.
type OrganizerSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// UserPublicProfile is what anyone may see about a user on its own page.
type UserPublicProfile struct {
	ID              uuid.UUID   `json:"id"`
	Username        string      `json:"username"`
	Role            models.Role `json:"role"`
	OrganizedEvents int64       `json:"organized_events"`
	CreatedAt       time.Time   `json:"created_at"`
}

type ImageView struct {
	ID           uuid.UUID `json:"id"`
	URL          string    `json:"url"`
	External     bool      `json:"external"`
	OriginalName string    `json:"original_name,omitempty"`
	Description  string    `json:"description,omitempty"`
	MimeType     string    `json:"mime_type,omitempty"`
	Size         int64     `json:"size,omitempty"`
	Position     int       `json:"position"`
}

type EventSummary struct {
	ID               uuid.UUID          `json:"id"`
	Title            string             `json:"title"`
	StartsAt         time.Time          `json:"starts_at"`
	EndsAt           time.Time          `json:"ends_at"`
	Status           models.EventStatus `json:"status"`
	Prize            string             `json:"prize,omitempty"`
	Organizer        OrganizerSummary   `json:"organizer"`
	MainImage        *ImageView         `json:"main_image,omitempty"`
	ParticipantCount int64              `json:"participant_count"`
}

type EventDetail struct {
	ID               uuid.UUID          `json:"id"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	StartsAt         time.Time          `json:"starts_at"`
	EndsAt           time.Time          `json:"ends_at"`
	Status           models.EventStatus `json:"status"`
	Prize            string             `json:"prize,omitempty"`
	MaxParticipants  *int               `json:"max_participants"`
	Organizer        OrganizerSummary   `json:"organizer"`
	ParticipantCount int64              `json:"participant_count"`
	Images           []ImageView        `json:"images"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

type ParticipationView struct {
	UserID      uuid.UUID                  `json:"user_id"`
	Username    string                     `json:"username,omitempty"`
	EventID     uuid.UUID                  `json:"event_id"`
	Status      models.ParticipationStatus `json:"status"`
	Score       *int                       `json:"score"`
	RequestedAt time.Time                  `json:"requested_at"`
}

type CommentAuthor struct {
	ID       *uuid.UUID `json:"id"`
	Username string     `json:"username"`
	Deleted  bool       `json:"deleted"`
}

type CommentView struct {
	ID        uuid.UUID     `json:"id"`
	EventID   uuid.UUID     `json:"event_id"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
	Author    CommentAuthor `json:"author"`
}

func newOrganizerSummary(user *models.User, id uuid.UUID) OrganizerSummary {
	if user == nil || user.ID == uuid.Nil {
		return OrganizerSummary{ID: id}
	}
	return OrganizerSummary{ID: user.ID, Username: user.Username}
}

func newImageView(img models.EventImage) ImageView {
	url := img.Source
	if !img.External {
		url = UploadURLPrefix + img.Source
	}
	return ImageView{
		ID:           img.ID,
		URL:          url,
		External:     img.External,
		OriginalName: img.OriginalName,
		Description:  img.Description,
		MimeType:     img.MimeType,
		Size:         img.Size,
		Position:     img.Position,
	}
}

func newImageViews(images []models.EventImage) []ImageView {
	views := make([]ImageView, 0, len(images))
	for _, img := range images {
		views = append(views, newImageView(img))
	}
	return views
}

func newEventSummary(event *models.Event, participantCount int64) EventSummary {
	summary := EventSummary{
		ID:               event.ID,
		Title:            event.Title,
		StartsAt:         event.StartsAt,
		EndsAt:           event.EndsAt,
		Status:           event.Status,
		Prize:            event.Prize,
		Organizer:        newOrganizerSummary(&event.Organizer, event.OrganizerID),
		ParticipantCount: participantCount,
	}
	if len(event.Images) > 0 {
		main := newImageView(event.Images[0])
		summary.MainImage = &main
	}
	return summary
}

func newEventDetail(event *models.Event, participantCount int64) *EventDetail {
	return &EventDetail{
		ID:               event.ID,
		Title:            event.Title,
		Description:      event.Description,
		StartsAt:         event.StartsAt,
		EndsAt:           event.EndsAt,
		Status:           event.Status,
		Prize:            event.Prize,
		MaxParticipants:  event.MaxParticipants,
		Organizer:        newOrganizerSummary(&event.Organizer, event.OrganizerID),
		ParticipantCount: participantCount,
		Images:           newImageViews(event.Images),
		CreatedAt:        event.CreatedAt,
		UpdatedAt:        event.UpdatedAt,
	}
}

func newParticipationView(p *models.Participation) ParticipationView {
	return ParticipationView{
		UserID:      p.UserID,
		Username:    p.User.Username,
		EventID:     p.EventID,
		Status:      p.Status,
		Score:       p.Score,
		RequestedAt: p.CreatedAt,
	}
}

func newCommentView(c *models.Comment) CommentView {
	author := CommentAuthor{Username: deletedUserName, Deleted: true}
	if c.AuthorID != nil && c.Author != nil {
		author = CommentAuthor{ID: c.AuthorID, Username: c.Author.Username}
	}
	return CommentView{
		ID:        c.ID,
		EventID:   c.EventID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		Author:    author,
	}
}
