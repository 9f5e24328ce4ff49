package services

import (
	"testing"

	"esport-events-backend/internal/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.Register("Faker", "Faker@Example.com", "hunter22", models.RoleAnonymous)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, "faker@example.com", user.Email)
	assert.Empty(t, user.Password)

	resp, err := env.auth.Authenticate("faker@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Empty(t, resp.User.Password)

	token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte(env.cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, "user", claims["role"])
	assert.Equal(t, float64(resp.ExpiresAt.Unix()), claims["exp"])

	_, err = env.auth.Authenticate("faker@example.com", "wrong-password")
	assertKind(t, err, ErrUnauthorized)

	_, err = env.auth.Authenticate("nobody@example.com", "hunter22")
	assertKind(t, err, ErrUnauthorized)
}

func TestRegisterRules(t *testing.T) {
	env := newTestEnv(t)

	organizer, err := env.auth.Register("team-lead", "lead@example.com", "hunter22", models.RoleOrganizer)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOrganizer, organizer.Role)

	_, err = env.auth.Register("root", "root@example.com", "hunter22", models.RoleAdmin)
	assertKind(t, err, ErrForbidden)

	_, err = env.auth.Register("someone", "lead@example.com", "hunter22", models.RoleUser)
	assertKind(t, err, ErrConflict)

	_, err = env.auth.Register("team-lead", "other@example.com", "hunter22", models.RoleUser)
	assertKind(t, err, ErrConflict)

	_, err = env.auth.Register("shorty", "short@example.com", "abc", models.RoleUser)
	assertKind(t, err, ErrValidation)
}

func TestCreateUserByAdmin(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.CreateUser(actorOf(env.organizer), "mod", "mod@example.com", "hunter22", models.RoleAdmin)
	assertKind(t, err, ErrForbidden)

	user, err := env.auth.CreateUser(actorOf(env.admin), "mod", "mod@example.com", "hunter22", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	_, err = env.auth.CreateUser(actorOf(env.admin), "ghost", "ghost@example.com", "hunter22", models.RoleAnonymous)
	assertKind(t, err, ErrValidation)
}

func TestEnsureAdmin(t *testing.T) {
	env := newTestEnv(t)

	admin, created, err := env.auth.EnsureAdmin("root@esport.local", "change-me")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	again, created, err := env.auth.EnsureAdmin("root@esport.local", "change-me")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)

	_, err = env.auth.Register("casual", "casual@esport.local", "secret123", models.RoleUser)
	require.NoError(t, err)
	_, created, err = env.auth.EnsureAdmin("casual@esport.local", "change-me")
	assertKind(t, err, ErrConflict)
	assert.False(t, created)
}

func TestProfiles(t *testing.T) {
	env := newTestEnv(t)
	env.upcomingEvent()
	env.upcomingEvent()

	_, err := env.auth.GetUserProfile(Actor{})
	assertKind(t, err, ErrUnauthorized)

	me, err := env.auth.GetUserProfile(actorOf(env.player))
	require.NoError(t, err)
	assert.Equal(t, "player", me.Username)

	profile, err := env.auth.GetPublicProfile(env.organizer.ID)
	require.NoError(t, err)
	assert.Equal(t, "orga", profile.Username)
	assert.Equal(t, int64(2), profile.OrganizedEvents)
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	env.upcomingEvent()

	assertKind(t, env.auth.DeleteUser(actorOf(env.player), env.organizer.ID), ErrForbidden)
	assertKind(t, env.auth.DeleteUser(actorOf(env.admin), env.organizer.ID), ErrConflict)
	assertKind(t, env.auth.DeleteUser(actorOf(env.admin), env.admin.ID), ErrConflict)

	require.NoError(t, env.auth.DeleteUser(actorOf(env.admin), env.player.ID))
	_, err := env.auth.GetPublicProfile(env.player.ID)
	assertKind(t, err, ErrNotFound)
}
