package services

import (
	"io"
	"os"
	"testing"
	"time"

	"esport-events-backend/internal/config"
	"esport-events-backend/internal/models"
	"esport-events-backend/internal/repositories/repotest"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	logrus.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		JWTTTL:        time.Hour,
		MaxUploadSize: 1 << 20,
		PublicBaseURL: "https://esport.example",
	}
}

func actorOf(u models.User) Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

func assertKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, KindOf(err), err.Error())
}

type testEnv struct {
	mem   *repotest.Memory
	files *repotest.FileStore
	cfg   *config.Config

	auth           *AuthService
	events         *EventService
	images         *ImageService
	participations *ParticipationService
	comments       *CommentService
	lifecycle      *LifecycleService

	admin     models.User
	organizer models.User
	player    models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mem := repotest.NewMemory()
	repo := mem.Repository()
	files := repotest.NewFileStore()
	cfg := testConfig()
	clock := fixedClock(refTime)

	images := NewImageService(repo, cfg, files)
	return &testEnv{
		mem:            mem,
		files:          files,
		cfg:            cfg,
		auth:           NewAuthService(repo, cfg),
		events:         NewEventService(repo, cfg, images).WithClock(clock),
		images:         images,
		participations: NewParticipationService(repo, cfg),
		comments:       NewCommentService(repo).WithClock(clock),
		lifecycle:      NewLifecycleService(repo).WithClock(clock),
		admin:          mem.AddUser("admin", models.RoleAdmin),
		organizer:      mem.AddUser("orga", models.RoleOrganizer),
		player:         mem.AddUser("player", models.RoleUser),
	}
}

// upcomingEvent is a validated event starting one day after refTime.
func (e *testEnv) upcomingEvent() models.Event {
	return e.mem.AddEvent(e.organizer.ID, models.EventValidated, refTime.Add(24*time.Hour), refTime.Add(48*time.Hour))
}
