package services

import (
	"time"

	"esport-events-backend/internal/models"

	"github.com/google/uuid"
)

// Clock returns the reference time used by time-dependent rules.
type Clock func() time.Time

// Actor is the authenticated caller of a service operation. The zero value is
// an anonymous visitor.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

func (a Actor) IsAuthenticated() bool {
	return a.ID != uuid.Nil && a.Role.Valid()
}

func (a Actor) Can(c models.Capability) bool {
	return a.IsAuthenticated() && a.Role.Can(c)
}

func (a Actor) IsOrganizerOf(event *models.Event) bool {
	return a.IsAuthenticated() && event.OrganizerID == a.ID
}

// CanManageEvent covers edit, delete and image changes.
func (a Actor) CanManageEvent(event *models.Event) bool {
	return a.IsOrganizerOf(event) || a.Can(models.CapEditAnyEvent)
}

func (a Actor) CanModerateParticipations(event *models.Event) bool {
	return a.IsOrganizerOf(event) || a.Can(models.CapModerateAnyParticipation)
}

func (a Actor) CanDeleteComment(comment *models.Comment) bool {
	if a.Can(models.CapDeleteAnyComment) {
		return true
	}
	return a.IsAuthenticated() && comment.AuthorID != nil && *comment.AuthorID == a.ID
}

// CanSeeEvent hides pending and refused events from everyone but their
// organizer and administrators.
func (a Actor) CanSeeEvent(event *models.Event) bool {
	return event.Status.IsPublic() || a.CanManageEvent(event) || a.Can(models.CapModerateEvents)
}
