// Package repotest provides an in-memory implementation of the repository
// interfaces for service and handler tests.
package repotest

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"esport-events-backend/internal/models"
	"esport-events-backend/internal/repositories"

	"github.com/google/uuid"
)

type participationKey struct {
	userID  uuid.UUID
	eventID uuid.UUID
}

// Memory stores every entity in maps guarded by one mutex. Returned values
// are copies, as they would be when read back from a database.
type Memory struct {
	mu             sync.Mutex
	seq            int
	base           time.Time
	users          map[uuid.UUID]models.User
	events         map[uuid.UUID]models.Event
	images         map[uuid.UUID]models.EventImage
	participations map[participationKey]models.Participation
	comments       map[uuid.UUID]models.Comment
	commentSeq     map[uuid.UUID]int

	// Injected failures.
	FailUpdateEvent      error
	FailSaveStatuses     error
	FailApplyImages      error
	FailGetParticipation error
}

func NewMemory() *Memory {
	return &Memory{
		base:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:          make(map[uuid.UUID]models.User),
		events:         make(map[uuid.UUID]models.Event),
		images:         make(map[uuid.UUID]models.EventImage),
		participations: make(map[participationKey]models.Participation),
		comments:       make(map[uuid.UUID]models.Comment),
		commentSeq:     make(map[uuid.UUID]int),
	}
}

// Repository wires m into every repository slot.
func (m *Memory) Repository() *repositories.Repository {
	return &repositories.Repository{
		EventRepo:         m,
		UserRepo:          m,
		ParticipationRepo: m,
		CommentRepo:       m,
		ImageRepo:         m,
	}
}

// tick returns a strictly increasing timestamp used for created_at columns.
func (m *Memory) tick() time.Time {
	m.seq++
	return m.base.Add(time.Duration(m.seq) * time.Second)
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
}

func duplicate(what string) error {
	return fmt.Errorf("%s: %w", what, repositories.ErrDuplicate)
}

// Users

func (m *Memory) GetUserByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, notFound("get user by email")
}

func (m *Memory) GetUserByUsername(username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, notFound("get user by username")
}

func (m *Memory) GetUserByID(id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, notFound("get user")
	}
	return &u, nil
}

func (m *Memory) CreateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	for _, u := range m.users {
		if u.Email == user.Email || u.Username == user.Username {
			return duplicate("create user")
		}
	}
	user.CreatedAt = m.tick()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = *user
	return nil
}

// DeleteUser cascades participations and orphans comments like the schema
// constraints do.
func (m *Memory) DeleteUser(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return notFound("delete user")
	}
	for _, e := range m.events {
		if e.OrganizerID == id {
			return errors.New("delete user: organizer still referenced by events")
		}
	}
	delete(m.users, id)
	for key := range m.participations {
		if key.userID == id {
			delete(m.participations, key)
		}
	}
	for cid, c := range m.comments {
		if c.AuthorID != nil && *c.AuthorID == id {
			c.AuthorID = nil
			m.comments[cid] = c
		}
	}
	return nil
}

// Events

func (m *Memory) loadEvent(e models.Event) models.Event {
	if organizer, ok := m.users[e.OrganizerID]; ok {
		e.Organizer = organizer
	}
	e.Images = m.eventImages(e.ID)
	return e
}

func (m *Memory) eventImages(eventID uuid.UUID) []models.EventImage {
	var images []models.EventImage
	for _, img := range m.images {
		if img.EventID == eventID {
			images = append(images, img)
		}
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Position < images[j].Position })
	return images
}

func (m *Memory) CreateEvent(event *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[event.ID]; ok {
		return duplicate("create event")
	}
	if _, ok := m.users[event.OrganizerID]; !ok {
		return errors.New("create event: unknown organizer")
	}
	event.CreatedAt = m.tick()
	event.UpdatedAt = event.CreatedAt

	stored := *event
	stored.Organizer = models.User{}
	stored.Images = nil
	m.events[event.ID] = stored
	for _, img := range event.Images {
		img.EventID = event.ID
		img.CreatedAt = event.CreatedAt
		m.images[img.ID] = img
	}
	return nil
}

func (m *Memory) GetEventByID(id uuid.UUID) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, notFound("get event")
	}
	loaded := m.loadEvent(e)
	return &loaded, nil
}

func (m *Memory) ListEvents(offset, limit int, filters *repositories.EventFilters) ([]models.Event, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []models.Event
	for _, e := range m.events {
		if filters != nil && !matches(e, filters) {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].StartsAt.Equal(matched[j].StartsAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].StartsAt.Before(matched[j].StartsAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return []models.Event{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]models.Event, 0, end-offset)
	for _, e := range matched[offset:end] {
		page = append(page, m.loadEvent(e))
	}
	return page, total, nil
}

func matches(e models.Event, f *repositories.EventFilters) bool {
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if e.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.OrganizerID != nil && e.OrganizerID != *f.OrganizerID {
		return false
	}
	if f.StartsAfter != nil && e.StartsAt.Before(*f.StartsAfter) {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Title), term) &&
			!strings.Contains(strings.ToLower(e.Description), term) {
			return false
		}
	}
	return true
}

func (m *Memory) CountEventsByOrganizer(organizerID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, e := range m.events {
		if e.OrganizerID == organizerID {
			count++
		}
	}
	return count, nil
}

func (m *Memory) UpdateEvent(event *models.Event, changes *repositories.ImageChanges) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailUpdateEvent != nil {
		return m.FailUpdateEvent
	}
	stored, ok := m.events[event.ID]
	if !ok {
		return notFound("update event")
	}

	stored.Title = event.Title
	stored.Description = event.Description
	stored.StartsAt = event.StartsAt
	stored.EndsAt = event.EndsAt
	stored.Status = event.Status
	stored.Prize = event.Prize
	stored.MaxParticipants = event.MaxParticipants
	stored.UpdatedAt = m.tick()
	m.events[event.ID] = stored

	if !changes.IsEmpty() {
		m.applyImageChanges(event.ID, changes)
	}
	return nil
}

func (m *Memory) DeleteEvent(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return notFound("delete event")
	}
	delete(m.events, id)
	for imgID, img := range m.images {
		if img.EventID == id {
			delete(m.images, imgID)
		}
	}
	for key := range m.participations {
		if key.eventID == id {
			delete(m.participations, key)
		}
	}
	for cid, c := range m.comments {
		if c.EventID == id {
			delete(m.comments, cid)
		}
	}
	return nil
}

func (m *Memory) ListEventsByStatuses(statuses []models.EventStatus) ([]models.Event, error) {
	return m.filterEvents(func(e models.Event) bool {
		for _, s := range statuses {
			if e.Status == s {
				return true
			}
		}
		return false
	}), nil
}

func (m *Memory) ListPendingEndedBefore(t time.Time) ([]models.Event, error) {
	return m.filterEvents(func(e models.Event) bool {
		return e.Status == models.EventPending && e.EndsAt.Before(t)
	}), nil
}

func (m *Memory) filterEvents(keep func(models.Event) bool) []models.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Event
	for _, e := range m.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// SaveStatuses applies the whole batch or, on an injected failure, nothing.
func (m *Memory) SaveStatuses(changes []repositories.StatusChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaveStatuses != nil {
		return m.FailSaveStatuses
	}
	for _, change := range changes {
		if _, ok := m.events[change.EventID]; !ok {
			return notFound("save statuses")
		}
	}
	for _, change := range changes {
		e := m.events[change.EventID]
		e.Status = change.To
		m.events[change.EventID] = e
	}
	return nil
}

// SetEventStatus overwrites a status directly, for test setup.
func (m *Memory) SetEventStatus(id uuid.UUID, status models.EventStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.events[id]
	e.Status = status
	m.events[id] = e
}

// Participations

func (m *Memory) CreateParticipation(p *models.Participation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := participationKey{userID: p.UserID, eventID: p.EventID}
	if _, ok := m.participations[key]; ok {
		return duplicate("create participation")
	}
	p.CreatedAt = m.tick()
	p.UpdatedAt = p.CreatedAt

	stored := *p
	stored.User = models.User{}
	m.participations[key] = stored
	return nil
}

func (m *Memory) GetParticipation(userID, eventID uuid.UUID) (*models.Participation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGetParticipation != nil {
		return nil, m.FailGetParticipation
	}
	p, ok := m.participations[participationKey{userID: userID, eventID: eventID}]
	if !ok {
		return nil, notFound("get participation")
	}
	return &p, nil
}

func (m *Memory) UpdateParticipation(p *models.Participation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := participationKey{userID: p.UserID, eventID: p.EventID}
	stored, ok := m.participations[key]
	if !ok {
		return notFound("update participation")
	}
	stored.Status = p.Status
	stored.Score = p.Score
	stored.UpdatedAt = m.tick()
	m.participations[key] = stored
	return nil
}

func (m *Memory) DeleteParticipation(userID, eventID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := participationKey{userID: userID, eventID: eventID}
	if _, ok := m.participations[key]; !ok {
		return notFound("delete participation")
	}
	delete(m.participations, key)
	return nil
}

func (m *Memory) CountActiveByEvent(eventID uuid.UUID) (int64, error) {
	counts, err := m.CountActiveByEvents([]uuid.UUID{eventID})
	return counts[eventID], err
}

func (m *Memory) CountActiveByEvents(eventIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(eventIDs))
	for _, id := range eventIDs {
		wanted[id] = true
	}
	counts := make(map[uuid.UUID]int64, len(eventIDs))
	for key, p := range m.participations {
		if wanted[key.eventID] && p.Status.IsActive() {
			counts[key.eventID]++
		}
	}
	return counts, nil
}

func (m *Memory) ListByEvent(eventID uuid.UUID, statuses []models.ParticipationStatus) ([]models.Participation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Participation
	for key, p := range m.participations {
		if key.eventID != eventID {
			continue
		}
		if len(statuses) > 0 && !containsStatus(statuses, p.Status) {
			continue
		}
		p.User = m.users[p.UserID]
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func containsStatus(statuses []models.ParticipationStatus, s models.ParticipationStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Comments

func (m *Memory) CreateComment(comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[comment.EventID]; !ok {
		return errors.New("create comment: unknown event")
	}
	stored := *comment
	stored.Author = nil
	m.comments[comment.ID] = stored
	m.seq++
	m.commentSeq[comment.ID] = m.seq
	return nil
}

func (m *Memory) withAuthor(c models.Comment) models.Comment {
	if c.AuthorID != nil {
		if u, ok := m.users[*c.AuthorID]; ok {
			c.Author = &u
		}
	}
	return c
}

func (m *Memory) GetComment(eventID, id uuid.UUID) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok || c.EventID != eventID {
		return nil, notFound("get comment")
	}
	loaded := m.withAuthor(c)
	return &loaded, nil
}

func (m *Memory) DeleteComment(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return notFound("delete comment")
	}
	delete(m.comments, id)
	return nil
}

func (m *Memory) ListCommentsByEvent(eventID uuid.UUID, offset, limit int) ([]models.Comment, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []models.Comment
	for _, c := range m.comments {
		if c.EventID == eventID {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return m.commentSeq[matched[i].ID] > m.commentSeq[matched[j].ID]
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return []models.Comment{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	page := make([]models.Comment, 0, end-offset)
	for _, c := range matched[offset:end] {
		page = append(page, m.withAuthor(c))
	}
	return page, total, nil
}

// Images

func (m *Memory) ListImagesByEvent(eventID uuid.UUID) ([]models.EventImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventImages(eventID), nil
}

func (m *Memory) GetImage(eventID, imageID uuid.UUID) (*models.EventImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.images[imageID]
	if !ok || img.EventID != eventID {
		return nil, notFound("get image")
	}
	return &img, nil
}

func (m *Memory) ApplyChanges(eventID uuid.UUID, changes *repositories.ImageChanges) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailApplyImages != nil {
		return m.FailApplyImages
	}
	if changes.IsEmpty() {
		return nil
	}
	m.applyImageChanges(eventID, changes)
	return nil
}

func (m *Memory) applyImageChanges(eventID uuid.UUID, changes *repositories.ImageChanges) {
	for _, id := range changes.Remove {
		if img, ok := m.images[id]; ok && img.EventID == eventID {
			delete(m.images, id)
		}
	}

	existing := m.eventImages(eventID)
	for i, img := range changes.Add {
		img.EventID = eventID
		img.Position = len(existing) + i
		img.CreatedAt = m.tick()
		existing = append(existing, img)
	}

	for _, img := range repositories.NormalizePositions(existing, changes.Order) {
		m.images[img.ID] = img
	}
}
