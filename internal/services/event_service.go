package services

import (
	"strings"
	"time"

	"esport-events-backend/internal/config"
	"esport-events-backend/internal/models"
	"esport-events-backend/internal/repositories"
	"esport-events-backend/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type EventService struct {
	repo   *repositories.Repository
	cfg    *config.Config
	images *ImageService
	now    Clock
}

func NewEventService(repo *repositories.Repository, cfg *config.Config, images *ImageService) *EventService {
	return &EventService{repo: repo, cfg: cfg, images: images, now: time.Now}
}

func (s *EventService) WithClock(clock Clock) *EventService {
	s.now = clock
	return s
}

type EventInput struct {
	Title           string
	Description     string
	StartsAt        time.Time
	EndsAt          time.Time
	Prize           string
	MaxParticipants *int
}

func (in *EventInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Prize = strings.TrimSpace(in.Prize)
}

func (in *EventInput) validate() error {
	if in.Title == "" {
		return invalid("title is required")
	}
	if in.StartsAt.IsZero() || in.EndsAt.IsZero() {
		return invalid("start and end dates are required")
	}
	if !in.EndsAt.After(in.StartsAt) {
		return invalid("end date must be after start date")
	}
	if in.MaxParticipants != nil && *in.MaxParticipants <= 0 {
		return invalid("max participants must be positive")
	}
	return nil
}

type UpdateEventInput struct {
	EventInput
	// RefreshStatus re-evaluates the lifecycle status even when only images changed.
	RefreshStatus bool
}

type ListEventsQuery struct {
	Page     int
	PageSize int
	Status   models.EventStatus
	Search   string
	Upcoming bool
}

// CreateEvent stores a new pending event organized by the actor.
func (s *EventService) CreateEvent(actor Actor, in EventInput, images []NewImage) (*EventDetail, error) {
	if !actor.IsAuthenticated() {
		return nil, NewAppError("authentication required", ErrUnauthorized, nil)
	}
	if !actor.Can(models.CapCreateEvent) {
		return nil, forbidden("only organizers and administrators can create events")
	}

	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.EndsAt.Before(s.now()) {
		return nil, invalid("event cannot end in the past")
	}

	event := &models.Event{
		ID:              uuid.New(),
		Title:           in.Title,
		Description:     in.Description,
		StartsAt:        in.StartsAt,
		EndsAt:          in.EndsAt,
		Status:          models.EventPending,
		OrganizerID:     actor.ID,
		Prize:           in.Prize,
		MaxParticipants: in.MaxParticipants,
	}

	prepared, err := s.images.prepare(event.ID, nil, &ImageEditSet{Add: images})
	if err != nil {
		return nil, err
	}
	event.Images = repositories.NormalizePositions(prepared.changes.Add, nil)

	if err := s.repo.EventRepo.CreateEvent(event); err != nil {
		s.images.discard(prepared)
		return nil, fromRepo(err, "event")
	}

	logrus.WithFields(logrus.Fields{
		"event_id":     event.ID,
		"organizer_id": actor.ID,
	}).Info("event created")

	return s.detail(event.ID)
}

// GetEvent returns an event visible to the actor.
func (s *EventService) GetEvent(actor Actor, id uuid.UUID) (*EventDetail, error) {
	event, err := s.visibleEvent(actor, id)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.ParticipationRepo.CountActiveByEvent(event.ID)
	if err != nil {
		return nil, internal("failed to count participants", err)
	}
	return newEventDetail(event, count), nil
}

// ListEvents lists public events.
func (s *EventService) ListEvents(q ListEventsQuery) ([]EventSummary, int64, int, error) {
	filters := &repositories.EventFilters{
		Statuses: models.ApprovedStatuses,
		Search:   strings.TrimSpace(q.Search),
	}
	if q.Status != "" {
		if !q.Status.IsPublic() {
			return nil, 0, 0, invalid("status filter must be validated, in_progress or finished")
		}
		filters.Statuses = []models.EventStatus{q.Status}
	}
	if q.Upcoming {
		now := s.now()
		filters.StartsAfter = &now
	}

	return s.list(q.Page, q.PageSize, filters)
}

// ListOrganizedEvents lists the actor's own events in every status.
func (s *EventService) ListOrganizedEvents(actor Actor, page, pageSize int) ([]EventSummary, int64, int, error) {
	if !actor.IsAuthenticated() {
		return nil, 0, 0, NewAppError("authentication required", ErrUnauthorized, nil)
	}
	organizerID := actor.ID
	return s.list(page, pageSize, &repositories.EventFilters{OrganizerID: &organizerID})
}

// ListForModeration is the administrator queue; status defaults to pending.
func (s *EventService) ListForModeration(actor Actor, status models.EventStatus, page, pageSize int) ([]EventSummary, int64, int, error) {
	if !actor.Can(models.CapModerateEvents) {
		return nil, 0, 0, forbidden("administrator access required")
	}
	if status == "" {
		status = models.EventPending
	}
	if !status.Valid() {
		return nil, 0, 0, invalid("unknown event status")
	}
	return s.list(page, pageSize, &repositories.EventFilters{Statuses: []models.EventStatus{status}})
}

// UpdateEvent applies a full update plus an image edit set atomically. A
// content change by a non-administrator sends a moderated event back to
// pending for re-approval.
func (s *EventService) UpdateEvent(actor Actor, id uuid.UUID, in UpdateEventInput, edits *ImageEditSet) (*EventDetail, error) {
	event, err := s.manageableEvent(actor, id)
	if err != nil {
		return nil, err
	}

	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	if !event.EndsAt.Equal(in.EndsAt) && in.EndsAt.Before(s.now()) {
		return nil, invalid("event cannot end in the past")
	}

	contentChanged := event.Title != in.Title ||
		event.Description != in.Description ||
		!event.StartsAt.Equal(in.StartsAt) ||
		!event.EndsAt.Equal(in.EndsAt) ||
		event.Prize != in.Prize ||
		!sameLimit(event.MaxParticipants, in.MaxParticipants)

	event.Title = in.Title
	event.Description = in.Description
	event.StartsAt = in.StartsAt
	event.EndsAt = in.EndsAt
	event.Prize = in.Prize
	event.MaxParticipants = in.MaxParticipants

	previous := event.Status
	isAdmin := actor.Can(models.CapModerateEvents)
	switch {
	case contentChanged && !isAdmin && event.Status != models.EventPending:
		event.Status = models.EventPending
	case contentChanged || in.RefreshStatus:
		ApplyStatus(event, s.now())
	}

	prepared, err := s.images.prepare(event.ID, event.Images, edits)
	if err != nil {
		return nil, err
	}

	if err := s.repo.EventRepo.UpdateEvent(event, prepared.changes); err != nil {
		s.images.discard(prepared)
		return nil, fromRepo(err, "event")
	}
	s.images.finalize(prepared)

	if previous != event.Status {
		logrus.WithFields(logrus.Fields{
			"event_id": event.ID,
			"from":     previous,
			"to":       event.Status,
		}).Info("event status changed by update")
	}

	return s.detail(event.ID)
}

// DeleteEvent removes the event and everything attached to it.
func (s *EventService) DeleteEvent(actor Actor, id uuid.UUID) error {
	event, err := s.manageableEvent(actor, id)
	if err != nil {
		return err
	}

	if err := s.repo.EventRepo.DeleteEvent(event.ID); err != nil {
		return fromRepo(err, "event")
	}
	s.images.removeEventFiles(event.Images)

	logrus.WithField("event_id", event.ID).Info("event deleted")
	return nil
}

// ValidateEvent approves a pending event. An event that already ended cannot
// be approved. The lifecycle rule is applied right away so an event that has
// started is marked in progress.
func (s *EventService) ValidateEvent(actor Actor, id uuid.UUID) (*EventDetail, error) {
	event, err := s.pendingForModeration(actor, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if ShouldAutoRefuse(event, now) {
		return nil, invalid("event has already ended and cannot be approved")
	}

	event.Status = models.EventValidated
	ApplyStatus(event, now)

	if err := s.repo.EventRepo.UpdateEvent(event, nil); err != nil {
		return nil, fromRepo(err, "event")
	}

	logrus.WithFields(logrus.Fields{
		"event_id": event.ID,
		"admin_id": actor.ID,
		"status":   event.Status,
	}).Info("event approved")

	return s.detail(event.ID)
}

// RefuseEvent rejects a pending event.
func (s *EventService) RefuseEvent(actor Actor, id uuid.UUID) (*EventDetail, error) {
	event, err := s.pendingForModeration(actor, id)
	if err != nil {
		return nil, err
	}

	event.Status = models.EventRefused
	if err := s.repo.EventRepo.UpdateEvent(event, nil); err != nil {
		return nil, fromRepo(err, "event")
	}

	logrus.WithFields(logrus.Fields{
		"event_id": event.ID,
		"admin_id": actor.ID,
	}).Info("event refused")

	return s.detail(event.ID)
}

// ShareQRCode renders a PNG QR code pointing at the public event page.
func (s *EventService) ShareQRCode(actor Actor, id uuid.UUID, size int) ([]byte, error) {
	event, err := s.visibleEvent(actor, id)
	if err != nil {
		return nil, err
	}

	link := strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/events/" + event.ID.String()
	png, err := utils.GenerateQRCodePNG(link, size)
	if err != nil {
		return nil, internal("failed to generate QR code", err)
	}
	return png, nil
}

func (s *EventService) list(page, pageSize int, filters *repositories.EventFilters) ([]EventSummary, int64, int, error) {
	page, pageSize, offset := paginate(page, pageSize)

	events, total, err := s.repo.EventRepo.ListEvents(offset, pageSize, filters)
	if err != nil {
		return nil, 0, 0, internal("failed to list events", err)
	}

	ids := make([]uuid.UUID, len(events))
	for i := range events {
		ids[i] = events[i].ID
	}
	counts, err := s.repo.ParticipationRepo.CountActiveByEvents(ids)
	if err != nil {
		return nil, 0, 0, internal("failed to count participants", err)
	}

	summaries := make([]EventSummary, 0, len(events))
	for i := range events {
		summaries = append(summaries, newEventSummary(&events[i], counts[events[i].ID]))
	}
	return summaries, total, totalPages(total, pageSize), nil
}

func (s *EventService) detail(id uuid.UUID) (*EventDetail, error) {
	event, err := s.repo.EventRepo.GetEventByID(id)
	if err != nil {
		return nil, fromRepo(err, "event")
	}
	count, err := s.repo.ParticipationRepo.CountActiveByEvent(id)
	if err != nil {
		return nil, internal("failed to count participants", err)
	}
	return newEventDetail(event, count), nil
}

func (s *EventService) visibleEvent(actor Actor, id uuid.UUID) (*models.Event, error) {
	event, err := s.repo.EventRepo.GetEventByID(id)
	if err != nil {
		return nil, fromRepo(err, "event")
	}
	if !actor.CanSeeEvent(event) {
		return nil, notFound("event not found")
	}
	return event, nil
}

func (s *EventService) manageableEvent(actor Actor, id uuid.UUID) (*models.Event, error) {
	if !actor.IsAuthenticated() {
		return nil, NewAppError("authentication required", ErrUnauthorized, nil)
	}
	event, err := s.repo.EventRepo.GetEventByID(id)
	if err != nil {
		return nil, fromRepo(err, "event")
	}
	if !actor.CanManageEvent(event) {
		return nil, forbidden("only the organizer or an administrator can manage this event")
	}
	return event, nil
}

func (s *EventService) pendingForModeration(actor Actor, id uuid.UUID) (*models.Event, error) {
	if !actor.Can(models.CapModerateEvents) {
		return nil, forbidden("administrator access required")
	}
	event, err := s.repo.EventRepo.GetEventByID(id)
	if err != nil {
		return nil, fromRepo(err, "event")
	}
	if event.Status != models.EventPending {
		return nil, conflict("only pending events can be moderated", nil)
	}
	return event, nil
}

func sameLimit(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
