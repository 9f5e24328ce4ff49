package services

import (
	"errors"

	"esport-events-backend/internal/config"
	"esport-events-backend/internal/models"
	"esport-events-backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ParticipationService struct {
	repo *repositories.Repository
	cfg  *config.Config
}

func NewParticipationService(repo *repositories.Repository, cfg *config.Config) *ParticipationService {
	return &ParticipationService{repo: repo, cfg: cfg}
}

// HasCapacity reports whether one more active participant fits. A nil limit
// means unlimited.
func HasCapacity(active int64, max *int) bool {
	return max == nil || active < int64(*max)
}

// Request creates a pending participation for the actor. Any existing row for
// the pair, whatever its status, is a conflict; the storage key catches the
// concurrent case.
func (s *ParticipationService) Request(actor Actor, eventID uuid.UUID) (*ParticipationView, error) {
	if !actor.Can(models.CapParticipate) {
		return nil, NewAppError("authentication required", ErrUnauthorized, nil)
	}

	event, err := s.repo.EventRepo.GetEventByID(eventID)
	if err != nil {
		return nil, fromRepo(err, "event")
	}
	if !actor.CanSeeEvent(event) {
		return nil, notFound("event not found")
	}
	if !event.Status.AcceptsParticipants() {
		return nil, invalid("event is not open for participation")
	}

	existing, err := s.repo.ParticipationRepo.GetParticipation(actor.ID, event.ID)
	switch {
	case err == nil && existing != nil:
		return nil, conflict("participation already requested for this event", nil)
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return nil, fromRepo(err, "participation")
	}

	if s.cfg != nil && s.cfg.EnforceCapacity {
		active, err := s.repo.ParticipationRepo.CountActiveByEvent(event.ID)
		if err != nil {
			return nil, internal("failed to count participants", err)
		}
		if !HasCapacity(active, event.MaxParticipants) {
			return nil, conflict("event is full", nil)
		}
	}

	p := &models.Participation{
		UserID:  actor.ID,
		EventID: event.ID,
		Status:  models.ParticipationPending,
	}
	if err := s.repo.ParticipationRepo.CreateParticipation(p); err != nil {
		appErr := fromRepo(err, "participation")
		if appErr.Kind == ErrConflict {
			appErr.Message = "participation already requested for this event"
		}
		return nil, appErr
	}

	logrus.WithFields(logrus.Fields{
		"event_id": event.ID,
		"user_id":  actor.ID,
	}).Info("participation requested")

	view := newParticipationView(p)
	return &view, nil
}

// Validate accepts a pending participation of userID.
func (s *ParticipationService) Validate(actor Actor, eventID, userID uuid.UUID) (*ParticipationView, error) {
	return s.decide(actor, eventID, userID, models.ParticipationValidated)
}

// Reject refuses a pending participation of userID. The row is kept.
func (s *ParticipationService) Reject(actor Actor, eventID, userID uuid.UUID) (*ParticipationView, error) {
	return s.decide(actor, eventID, userID, models.ParticipationRefused)
}

// SelfValidate lets the organizer of the event, or an administrator, accept
// their own pending participation.
func (s *ParticipationService) SelfValidate(actor Actor, eventID uuid.UUID) (*ParticipationView, error) {
	if !actor.IsAuthenticated() {
		return nil, NewAppError("authentication required", ErrUnauthorized, nil)
	}

	event, err := s.repo.EventRepo.GetEventByID(eventID)
	if err != nil {
		return nil, fromRepo(err, "event")
	}
	if !actor.CanModerateParticipations(event) {
		return nil, forbidden("only the organizer or an administrator can validate their own participation")
	}

	return s.transition(actor, event, actor.ID, models.ParticipationValidated)
}

// Cancel deletes the actor's participation whatever its status.
func (s *ParticipationService) Cancel(actor Actor, eventID uuid.UUID) error {
	if !actor.IsAuthenticated() {
		return NewAppError("authentication required", ErrUnauthorized, nil)
	}

	if err := s.repo.ParticipationRepo.DeleteParticipation(actor.ID, eventID); err != nil {
		return fromRepo(err, "participation")
	}

	logrus.WithFields(logrus.Fields{
		"event_id": eventID,
		"user_id":  actor.ID,
	}).Info("participation cancelled")
	return nil
}

// SetScore records the result of a validated participant.
func (s *ParticipationService) SetScore(actor Actor, eventID, userID uuid.UUID, score *int) (*ParticipationView, error) {
	event, err := s.moderatedEvent(actor, eventID)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.ParticipationRepo.GetParticipation(userID, event.ID)
	if err != nil {
		return nil, fromRepo(err, "participation")
	}
	if p.Status != models.ParticipationValidated {
		return nil, conflict("only validated participations can be scored", nil)
	}

	p.Score = score
	if err := s.repo.ParticipationRepo.UpdateParticipation(p); err != nil {
		return nil, fromRepo(err, "participation")
	}

	view := newParticipationView(p)
	return &view, nil
}

// Status returns the actor's own participation in the event.
func (s *ParticipationService) Status(actor Actor, eventID uuid.UUID) (*ParticipationView, error) {
	if !actor.IsAuthenticated() {
		return nil, NewAppError("authentication required", ErrUnauthorized, nil)
	}

	p, err := s.repo.ParticipationRepo.GetParticipation(actor.ID, eventID)
	if err != nil {
		return nil, fromRepo(err, "participation")
	}

	view := newParticipationView(p)
	return &view, nil
}

// CountActive returns the number of participations that are not refused.
func (s *ParticipationService) CountActive(eventID uuid.UUID) (int64, error) {
	count, err := s.repo.ParticipationRepo.CountActiveByEvent(eventID)
	if err != nil {
		return 0, internal("failed to count participants", err)
	}
	return count, nil
}

// List returns participations matching the status filter. Visitors only ever
// see validated participants; the organizer and administrators may filter on
// any status, an empty filter meaning all of them.
func (s *ParticipationService) List(actor Actor, eventID uuid.UUID, status models.ParticipationStatus) ([]ParticipationView, error) {
	event, err := s.repo.EventRepo.GetEventByID(eventID)
	if err != nil {
		return nil, fromRepo(err, "event")
	}
	if !actor.CanSeeEvent(event) {
		return nil, notFound("event not found")
	}

	var statuses []models.ParticipationStatus
	switch {
	case !actor.CanModerateParticipations(event):
		if status != "" && status != models.ParticipationValidated {
			return nil, forbidden("only validated participants are public")
		}
		statuses = []models.ParticipationStatus{models.ParticipationValidated}
	case status != "":
		if !status.Valid() {
			return nil, invalid("unknown participation status")
		}
		statuses = []models.ParticipationStatus{status}
	}

	participations, err := s.repo.ParticipationRepo.ListByEvent(event.ID, statuses)
	if err != nil {
		return nil, internal("failed to list participants", err)
	}

	views := make([]ParticipationView, 0, len(participations))
	for i := range participations {
		views = append(views, newParticipationView(&participations[i]))
	}
	return views, nil
}

func (s *ParticipationService) decide(actor Actor, eventID, userID uuid.UUID, to models.ParticipationStatus) (*ParticipationView, error) {
	event, err := s.moderatedEvent(actor, eventID)
	if err != nil {
		return nil, err
	}
	return s.transition(actor, event, userID, to)
}

func (s *ParticipationService) moderatedEvent(actor Actor, eventID uuid.UUID) (*models.Event, error) {
	if !actor.IsAuthenticated() {
		return nil, NewAppError("authentication required", ErrUnauthorized, nil)
	}

	event, err := s.repo.EventRepo.GetEventByID(eventID)
	if err != nil {
		return nil, fromRepo(err, "event")
	}
	if !actor.CanModerateParticipations(event) {
		return nil, forbidden("only the organizer or an administrator can moderate participations")
	}
	return event, nil
}

// transition moves a pending participation to validated or refused.
func (s *ParticipationService) transition(actor Actor, event *models.Event, userID uuid.UUID, to models.ParticipationStatus) (*ParticipationView, error) {
	p, err := s.repo.ParticipationRepo.GetParticipation(userID, event.ID)
	if err != nil {
		return nil, fromRepo(err, "participation")
	}
	if p.Status != models.ParticipationPending {
		return nil, conflict("only pending participations can be moderated", nil)
	}

	p.Status = to
	if err := s.repo.ParticipationRepo.UpdateParticipation(p); err != nil {
		return nil, fromRepo(err, "participation")
	}

	logrus.WithFields(logrus.Fields{
		"event_id":     event.ID,
		"user_id":      userID,
		"moderator_id": actor.ID,
		"status":       to,
	}).Info("participation moderated")

	view := newParticipationView(p)
	return &view, nil
}
