package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleAnonymous, CapComment, false},
		{RoleAnonymous, CapParticipate, false},
		{RoleUser, CapParticipate, true},
		{RoleUser, CapCreateEvent, false},
		{RoleOrganizer, CapCreateEvent, true},
		{RoleOrganizer, CapModerateAnyParticipation, false},
		{RoleOrganizer, CapModerateEvents, false},
		{RoleAdmin, CapModerateEvents, true},
		{RoleAdmin, CapRunStatusSweep, true},
		{RoleAdmin, CapDeleteAnyComment, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.role.Can(tt.cap), "role=%q cap=%d", tt.role, tt.cap)
	}
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole(" ADMIN "))
	assert.Equal(t, RoleOrganizer, ParseRole("organizer"))
	assert.Equal(t, RoleAnonymous, ParseRole("ROLE_ADMIN"))
	assert.Equal(t, RoleAnonymous, ParseRole(""))
}

func TestParticipationStatusIsActive(t *testing.T) {
	assert.True(t, ParticipationPending.IsActive())
	assert.True(t, ParticipationValidated.IsActive())
	assert.False(t, ParticipationRefused.IsActive())
}

func TestEventStatusPredicates(t *testing.T) {
	assert.False(t, EventPending.IsApproved())
	assert.False(t, EventRefused.IsApproved())
	assert.True(t, EventFinished.IsApproved())
	assert.True(t, EventInProgress.AcceptsParticipants())
	assert.False(t, EventFinished.AcceptsParticipants())
}
