package repotest

import (
	"time"

	"esport-events-backend/internal/models"

	"github.com/google/uuid"
)

// AddUser stores a user with the given role. The password hash is left empty,
// so the user cannot log in.
func (m *Memory) AddUser(username string, role models.Role) models.User {
	user := models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	if err := m.CreateUser(&user); err != nil {
		panic(err)
	}
	return user
}

// AddEvent stores an event as is, skipping every service rule.
func (m *Memory) AddEvent(organizerID uuid.UUID, status models.EventStatus, startsAt, endsAt time.Time) models.Event {
	event := models.Event{
		ID:          uuid.New(),
		Title:       "Cup " + startsAt.Format("2006-01-02 15:04"),
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Status:      status,
		OrganizerID: organizerID,
	}
	if err := m.CreateEvent(&event); err != nil {
		panic(err)
	}
	return event
}

// AddParticipation stores a participation with the given status.
func (m *Memory) AddParticipation(userID, eventID uuid.UUID, status models.ParticipationStatus) {
	p := models.Participation{UserID: userID, EventID: eventID, Status: status}
	if err := m.CreateParticipation(&p); err != nil {
		panic(err)
	}
}

// EventStatus returns the stored status of an event.
func (m *Memory) EventStatus(id uuid.UUID) models.EventStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[id].Status
}
