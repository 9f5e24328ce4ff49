package models

type EventStatus string

const (
	EventPending    EventStatus = "pending"
	EventValidated  EventStatus = "validated"
	EventRefused    EventStatus = "refused"
	EventInProgress EventStatus = "in_progress"
	EventFinished   EventStatus = "finished"
)

// IsApproved reports whether an administrator has accepted the event. Only
// approved events follow the wall-clock lifecycle.
func (s EventStatus) IsApproved() bool {
	switch s {
	case EventValidated, EventInProgress, EventFinished:
		return true
	}
	return false
}

// IsPublic reports whether the event is listed to every visitor.
func (s EventStatus) IsPublic() bool {
	return s.IsApproved()
}

// AcceptsParticipants reports whether join requests are open.
func (s EventStatus) AcceptsParticipants() bool {
	return s == EventValidated || s == EventInProgress
}

func (s EventStatus) Valid() bool {
	switch s {
	case EventPending, EventValidated, EventRefused, EventInProgress, EventFinished:
		return true
	}
	return false
}

// ApprovedStatuses lists the statuses touched by the lifecycle sweep.
var ApprovedStatuses = []EventStatus{EventValidated, EventInProgress, EventFinished}

type ParticipationStatus string

const (
	ParticipationPending   ParticipationStatus = "pending"
	ParticipationValidated ParticipationStatus = "validated"
	ParticipationRefused   ParticipationStatus = "refused"
)

// IsActive is the single definition of an active participant used for
// counts and capacity checks.
func (s ParticipationStatus) IsActive() bool {
	return s != ParticipationRefused
}

func (s ParticipationStatus) Valid() bool {
	switch s {
	case ParticipationPending, ParticipationValidated, ParticipationRefused:
		return true
	}
	return false
}
