package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"esport-events-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCapacity(t *testing.T) {
	two := 2
	assert.True(t, HasCapacity(100, nil))
	assert.True(t, HasCapacity(1, &two))
	assert.False(t, HasCapacity(2, &two))
	assert.False(t, HasCapacity(3, &two))
}

func TestRequestParticipation(t *testing.T) {
	env := newTestEnv(t)
	event := env.upcomingEvent()

	view, err := env.participations.Request(actorOf(env.player), event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipationPending, view.Status)
	assert.Equal(t, env.player.ID, view.UserID)

	_, err = env.participations.Request(actorOf(env.player), event.ID)
	assertKind(t, err, ErrConflict)
}

func TestRequestParticipationConflictsWhateverTheStatus(t *testing.T) {
	for _, status := range []models.ParticipationStatus{
		models.ParticipationPending,
		models.ParticipationValidated,
		models.ParticipationRefused,
	} {
		t.Run(string(status), func(t *testing.T) {
			env := newTestEnv(t)
			event := env.upcomingEvent()
			env.mem.AddParticipation(env.player.ID, event.ID, status)

			_, err := env.participations.Request(actorOf(env.player), event.ID)
			assertKind(t, err, ErrConflict)
		})
	}
}

func TestRequestParticipationRules(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.participations.Request(Actor{}, env.upcomingEvent().ID)
	assertKind(t, err, ErrUnauthorized)

	pending := env.mem.AddEvent(env.organizer.ID, models.EventPending, refTime.Add(time.Hour), refTime.Add(2*time.Hour))
	_, err = env.participations.Request(actorOf(env.player), pending.ID)
	assertKind(t, err, ErrNotFound)

	finished := env.mem.AddEvent(env.organizer.ID, models.EventFinished, refTime.Add(-2*time.Hour), refTime.Add(-time.Hour))
	_, err = env.participations.Request(actorOf(env.player), finished.ID)
	assertKind(t, err, ErrValidation)

	running := env.mem.AddEvent(env.organizer.ID, models.EventInProgress, refTime.Add(-time.Hour), refTime.Add(time.Hour))
	_, err = env.participations.Request(actorOf(env.player), running.ID)
	assert.NoError(t, err)
}

func TestConcurrentRequestsCreateOneParticipation(t *testing.T) {
	env := newTestEnv(t)
	event := env.upcomingEvent()

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.participations.Request(actorOf(env.player), event.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case KindOf(err) == ErrConflict:
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)

	count, err := env.participations.CountActive(event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCapacityOnlyEnforcedWhenEnabled(t *testing.T) {
	env := newTestEnv(t)
	event := env.upcomingEvent()
	one := 1
	event.MaxParticipants = &one
	require.NoError(t, env.mem.UpdateEvent(&event, nil))

	other := env.mem.AddUser("other", models.RoleUser)
	env.mem.AddParticipation(other.ID, event.ID, models.ParticipationValidated)

	env.cfg.EnforceCapacity = true
	_, err := env.participations.Request(actorOf(env.player), event.ID)
	assertKind(t, err, ErrConflict)

	env.cfg.EnforceCapacity = false
	_, err = env.participations.Request(actorOf(env.player), event.ID)
	assert.NoError(t, err)
}

func TestRefusedParticipationsFreeCapacity(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.EnforceCapacity = true
	event := env.upcomingEvent()
	one := 1
	event.MaxParticipants = &one
	require.NoError(t, env.mem.UpdateEvent(&event, nil))

	other := env.mem.AddUser("other", models.RoleUser)
	env.mem.AddParticipation(other.ID, event.ID, models.ParticipationRefused)

	_, err := env.participations.Request(actorOf(env.player), event.ID)
	assert.NoError(t, err)
}

func TestModerateParticipation(t *testing.T) {
	env := newTestEnv(t)
	event := env.upcomingEvent()
	env.mem.AddParticipation(env.player.ID, event.ID, models.ParticipationPending)
	stranger := env.mem.AddUser("stranger", models.RoleOrganizer)

	_, err := env.participations.Validate(actorOf(stranger), event.ID, env.player.ID)
	assertKind(t, err, ErrForbidden)

	view, err := env.participations.Validate(actorOf(env.organizer), event.ID, env.player.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipationValidated, view.Status)

	_, err = env.participations.Reject(actorOf(env.organizer), event.ID, env.player.ID)
	assertKind(t, err, ErrConflict)

	_, err = env.participations.Validate(actorOf(env.organizer), event.ID, stranger.ID)
	assertKind(t, err, ErrNotFound)
}

func TestAdminModeratesAnyEvent(t *testing.T) {
	env := newTestEnv(t)
	event := env.upcomingEvent()
	env.mem.AddParticipation(env.player.ID, event.ID, models.ParticipationPending)

	view, err := env.participations.Reject(actorOf(env.admin), event.ID, env.player.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipationRefused, view.Status)

	status, err := env.participations.Status(actorOf(env.player), event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipationRefused, status.Status)

	count, err := env.participations.CountActive(event.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCancelThenRequestAgain(t *testing.T) {
	env := newTestEnv(t)
	event := env.upcomingEvent()
	env.mem.AddParticipation(env.player.ID, event.ID, models.ParticipationRefused)

	require.NoError(t, env.participations.Cancel(actorOf(env.player), event.ID))

	_, err := env.participations.Status(actorOf(env.player), event.ID)
	assertKind(t, err, ErrNotFound)

	view, err := env.participations.Request(actorOf(env.player), event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipationPending, view.Status)

	require.NoError(t, env.participations.Cancel(actorOf(env.player), event.ID))
	assertKind(t, env.participations.Cancel(actorOf(env.player), event.ID), ErrNotFound)
}

func TestSelfValidate(t *testing.T) {
	env := newTestEnv(t)
	event := env.upcomingEvent()

	_, err := env.participations.Request(actorOf(env.organizer), event.ID)
	require.NoError(t, err)
	view, err := env.participations.SelfValidate(actorOf(env.organizer), event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipationValidated, view.Status)

	_, err = env.participations.Request(actorOf(env.admin), event.ID)
	require.NoError(t, err)
	view, err = env.participations.SelfValidate(actorOf(env.admin), event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipationValidated, view.Status)

	_, err = env.participations.Request(actorOf(env.player), event.ID)
	require.NoError(t, err)
	_, err = env.participations.SelfValidate(actorOf(env.player), event.ID)
	assertKind(t, err, ErrForbidden)
}

func TestSetScore(t *testing.T) {
	env := newTestEnv(t)
	event := env.upcomingEvent()
	env.mem.AddParticipation(env.player.ID, event.ID, models.ParticipationPending)
	score := 42

	_, err := env.participations.SetScore(actorOf(env.organizer), event.ID, env.player.ID, &score)
	assertKind(t, err, ErrConflict)

	_, err = env.participations.Validate(actorOf(env.organizer), event.ID, env.player.ID)
	require.NoError(t, err)

	_, err = env.participations.SetScore(actorOf(env.player), event.ID, env.player.ID, &score)
	assertKind(t, err, ErrForbidden)

	view, err := env.participations.SetScore(actorOf(env.organizer), event.ID, env.player.ID, &score)
	require.NoError(t, err)
	require.NotNil(t, view.Score)
	assert.Equal(t, 42, *view.Score)
}

func TestListParticipations(t *testing.T) {
	env := newTestEnv(t)
	event := env.upcomingEvent()

	players := make([]models.User, 3)
	statuses := []models.ParticipationStatus{
		models.ParticipationPending,
		models.ParticipationValidated,
		models.ParticipationRefused,
	}
	for i := range players {
		players[i] = env.mem.AddUser(fmt.Sprintf("p%d", i), models.RoleUser)
		env.mem.AddParticipation(players[i].ID, event.ID, statuses[i])
	}

	public, err := env.participations.List(Actor{}, event.ID, "")
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "p1", public[0].Username)

	_, err = env.participations.List(actorOf(env.player), event.ID, models.ParticipationPending)
	assertKind(t, err, ErrForbidden)

	queue, err := env.participations.List(actorOf(env.organizer), event.ID, models.ParticipationPending)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, players[0].ID, queue[0].UserID)

	all, err := env.participations.List(actorOf(env.admin), event.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = env.participations.List(actorOf(env.admin), event.ID, "banned")
	assertKind(t, err, ErrValidation)
}

func TestCountActiveParticipants(t *testing.T) {
	env := newTestEnv(t)
	event := env.upcomingEvent()

	statuses := []models.ParticipationStatus{
		models.ParticipationPending,
		models.ParticipationPending,
		models.ParticipationPending,
		models.ParticipationValidated,
		models.ParticipationValidated,
		models.ParticipationRefused,
	}
	for i, status := range statuses {
		u := env.mem.AddUser(fmt.Sprintf("player-%d", i), models.RoleUser)
		env.mem.AddParticipation(u.ID, event.ID, status)
	}

	count, err := env.participations.CountActive(event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	detail, err := env.events.GetEvent(Actor{}, event.ID)
	require.NoError(t, err)
	assert.Equal(t, count, detail.ParticipantCount)
}

func TestRequestParticipationSurfacesLookupFailure(t *testing.T) {
	env := newTestEnv(t)
	event := env.upcomingEvent()
	env.mem.FailGetParticipation = errors.New("connection reset")

	_, err := env.participations.Request(actorOf(env.player), event.ID)
	assertKind(t, err, ErrInternal)

	env.mem.FailGetParticipation = nil
	_, err = env.participations.Status(actorOf(env.player), event.ID)
	assertKind(t, err, ErrNotFound)
}
