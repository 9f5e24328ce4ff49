package services

import (
	"time"

	"esport-events-backend/internal/models"
	"esport-events-backend/internal/repositories"

	"github.com/sirupsen/logrus"
)

// ExpectedStatus derives the status an approved event should have at now.
// Pending and refused events are returned unchanged: only an administrator
// moves them.
//
//	now < start          -> validated
//	start <= now <= end  -> in_progress
//	now > end            -> finished
func ExpectedStatus(event *models.Event, now time.Time) models.EventStatus {
	if !event.Status.IsApproved() {
		return event.Status
	}

	switch {
	case now.Before(event.StartsAt):
		return models.EventValidated
	case now.After(event.EndsAt):
		return models.EventFinished
	default:
		return models.EventInProgress
	}
}

// ApplyStatus overwrites the stored status when it differs from the expected
// one and reports whether it changed.
func ApplyStatus(event *models.Event, now time.Time) bool {
	expected := ExpectedStatus(event, now)
	if expected == event.Status {
		return false
	}
	event.Status = expected
	return true
}

// ShouldAutoRefuse reports whether a pending event expired before an
// administrator acted on it. Such an event can no longer be approved.
func ShouldAutoRefuse(event *models.Event, now time.Time) bool {
	return event.Status == models.EventPending && event.EndsAt.Before(now)
}

// SweepResult is the outcome of UpdateAll.
type SweepResult struct {
	StatusUpdated int                         `json:"status_updated"`
	EventsRefused int                         `json:"events_refused"`
	TotalChanges  int                         `json:"total_changes"`
	Changes       []repositories.StatusChange `json:"-"`
}

type LifecycleService struct {
	repo *repositories.Repository
	now  Clock
}

func NewLifecycleService(repo *repositories.Repository) *LifecycleService {
	return &LifecycleService{repo: repo, now: time.Now}
}

// WithClock replaces the reference clock, used by tests and by the sweep
// command's --at flag.
func (s *LifecycleService) WithClock(clock Clock) *LifecycleService {
	s.now = clock
	return s
}

func (s *LifecycleService) Now() time.Time {
	return s.now()
}

// RefreshStatuses recomputes every approved event and persists the changes
// as one batch.
func (s *LifecycleService) RefreshStatuses() (int, error) {
	changes, err := s.planRefresh(s.now())
	if err != nil {
		return 0, err
	}
	if err := s.save(changes); err != nil {
		return 0, err
	}
	return len(changes), nil
}

// RefuseExpiredPending flips pending events whose end has passed to refused.
func (s *LifecycleService) RefuseExpiredPending() (int, error) {
	changes, err := s.planRefusals(s.now())
	if err != nil {
		return 0, err
	}
	if err := s.save(changes); err != nil {
		return 0, err
	}
	return len(changes), nil
}

// UpdateAll runs both sweeps and commits them in a single transaction.
func (s *LifecycleService) UpdateAll() (*SweepResult, error) {
	result, err := s.Preview()
	if err != nil {
		return nil, err
	}
	if err := s.save(result.Changes); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"status_updated": result.StatusUpdated,
		"events_refused": result.EventsRefused,
	}).Info("event status sweep completed")

	return result, nil
}

// Preview computes what UpdateAll would change without writing anything.
func (s *LifecycleService) Preview() (*SweepResult, error) {
	now := s.now()

	refreshed, err := s.planRefresh(now)
	if err != nil {
		return nil, err
	}
	refused, err := s.planRefusals(now)
	if err != nil {
		return nil, err
	}

	return &SweepResult{
		StatusUpdated: len(refreshed),
		EventsRefused: len(refused),
		TotalChanges:  len(refreshed) + len(refused),
		Changes:       append(refreshed, refused...),
	}, nil
}

func (s *LifecycleService) planRefresh(now time.Time) ([]repositories.StatusChange, error) {
	events, err := s.repo.EventRepo.ListEventsByStatuses(models.ApprovedStatuses)
	if err != nil {
		return nil, internal("failed to load events for status refresh", err)
	}

	var changes []repositories.StatusChange
	for i := range events {
		from := events[i].Status
		if ApplyStatus(&events[i], now) {
			changes = append(changes, repositories.StatusChange{
				EventID: events[i].ID,
				From:    from,
				To:      events[i].Status,
			})
		}
	}
	return changes, nil
}

func (s *LifecycleService) planRefusals(now time.Time) ([]repositories.StatusChange, error) {
	events, err := s.repo.EventRepo.ListPendingEndedBefore(now)
	if err != nil {
		return nil, internal("failed to load expired pending events", err)
	}

	var changes []repositories.StatusChange
	for i := range events {
		if !ShouldAutoRefuse(&events[i], now) {
			continue
		}
		changes = append(changes, repositories.StatusChange{
			EventID: events[i].ID,
			From:    events[i].Status,
			To:      models.EventRefused,
		})
	}
	return changes, nil
}

func (s *LifecycleService) save(changes []repositories.StatusChange) error {
	if len(changes) == 0 {
		return nil
	}
	if err := s.repo.EventRepo.SaveStatuses(changes); err != nil {
		return internal("failed to persist status changes", err)
	}
	for _, change := range changes {
		logrus.WithFields(logrus.Fields{
			"event_id": change.EventID,
			"from":     change.From,
			"to":       change.To,
		}).Debug("event status changed")
	}
	return nil
}
