package services

import (
	"errors"
	"testing"

	"esport-events-backend/internal/repositories/repotest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddImages(t *testing.T) {
	env := newTestEnv(t)
	event := env.upcomingEvent()

	views, err := env.images.AddImages(actorOf(env.organizer), event.ID, []NewImage{
		{URL: "https://cdn.example.com/poster.JPG", Description: "poster"},
		{File: repotest.ImageUpload("team.webp", "image/webp", 2048)},
	})
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, "image/jpeg", views[0].MimeType)
	assert.Equal(t, "poster", views[0].Description)
	assert.Equal(t, "team.webp", views[1].OriginalName)
	assert.Equal(t, int64(2048), views[1].Size)
	assert.Equal(t, 1, views[1].Position)
}

func TestAddImagesValidation(t *testing.T) {
	env := newTestEnv(t)
	event := env.upcomingEvent()
	actor := actorOf(env.organizer)

	tests := []struct {
		name  string
		image NewImage
	}{
		{"no source", NewImage{}},
		{"both sources", NewImage{URL: "https://cdn.example.com/a.png", File: repotest.ImageUpload("a.png", "image/png", 1)}},
		{"ftp url", NewImage{URL: "ftp://cdn.example.com/a.png"}},
		{"not an image", NewImage{URL: "https://cdn.example.com/a.svg"}},
		{"quote in url", NewImage{URL: `https://cdn.example.com/a".png`}},
		{"wrong content type", NewImage{File: repotest.ImageUpload("a.pdf", "application/pdf", 1)}},
		{"too large", NewImage{File: repotest.ImageUpload("a.png", "image/png", 2 << 20)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.images.AddImages(actor, event.ID, []NewImage{tt.image})
			assertKind(t, err, ErrValidation)
		})
	}

	_, err := env.images.AddImages(actor, event.ID, nil)
	assertKind(t, err, ErrValidation)
	assert.Empty(t, env.files.Files())
}

func TestAddImagesRequiresManager(t *testing.T) {
	env := newTestEnv(t)
	event := env.upcomingEvent()

	_, err := env.images.AddImages(actorOf(env.player), event.ID, []NewImage{{URL: "https://cdn.example.com/a.png"}})
	assertKind(t, err, ErrForbidden)

	_, err = env.images.AddImages(actorOf(env.admin), event.ID, []NewImage{{URL: "https://cdn.example.com/a.png"}})
	assert.NoError(t, err)
}

func TestAddImagesDiscardsFilesOnFailure(t *testing.T) {
	env := newTestEnv(t)
	event := env.upcomingEvent()
	env.mem.FailApplyImages = errors.New("disk full")

	_, err := env.images.AddImages(actorOf(env.organizer), event.ID, []NewImage{
		{File: repotest.ImageUpload("a.png", "image/png", 10)},
	})
	assertKind(t, err, ErrInternal)
	assert.Empty(t, env.files.Files())
}

func TestDeleteImageRenumbers(t *testing.T) {
	env := newTestEnv(t)
	event := env.upcomingEvent()
	views, err := env.images.AddImages(actorOf(env.organizer), event.ID, []NewImage{
		{URL: "https://cdn.example.com/a.png"},
		{File: repotest.ImageUpload("b.png", "image/png", 10)},
		{URL: "https://cdn.example.com/c.png"},
	})
	require.NoError(t, err)

	require.NoError(t, env.images.DeleteImage(actorOf(env.organizer), event.ID, views[1].ID))
	assert.Empty(t, env.files.Files())

	detail, err := env.events.GetEvent(Actor{}, event.ID)
	require.NoError(t, err)
	require.Len(t, detail.Images, 2)
	assert.Equal(t, views[0].ID, detail.Images[0].ID)
	assert.Equal(t, views[2].ID, detail.Images[1].ID)
	assert.Equal(t, 1, detail.Images[1].Position)

	err = env.images.DeleteImage(actorOf(env.organizer), event.ID, uuid.New())
	assertKind(t, err, ErrNotFound)
}

func TestReorderImages(t *testing.T) {
	env := newTestEnv(t)
	event := env.upcomingEvent()
	views, err := env.images.AddImages(actorOf(env.organizer), event.ID, []NewImage{
		{URL: "https://cdn.example.com/a.png"},
		{URL: "https://cdn.example.com/b.png"},
		{URL: "https://cdn.example.com/c.png"},
	})
	require.NoError(t, err)

	require.NoError(t, env.images.ReorderImages(actorOf(env.organizer), event.ID, []uuid.UUID{views[2].ID}))

	detail, err := env.events.GetEvent(Actor{}, event.ID)
	require.NoError(t, err)
	assert.Equal(t, views[2].ID, detail.Images[0].ID)
	assert.Equal(t, views[0].ID, detail.Images[1].ID)
	assert.Equal(t, views[1].ID, detail.Images[2].ID)

	env.mem.FailApplyImages = errors.New("timeout")
	err = env.images.ReorderImages(actorOf(env.organizer), event.ID, []uuid.UUID{views[0].ID})
	assertKind(t, err, ErrInternal)

	err = env.images.ReorderImages(actorOf(env.organizer), event.ID, []uuid.UUID{uuid.New()})
	assertKind(t, err, ErrValidation)
}
