package models

import "strings"

type Role string

const (
	RoleAnonymous Role = ""
	RoleUser      Role = "user"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

type Capability int

const (
	CapCreateEvent Capability = iota
	CapModerateEvents
	CapEditAnyEvent
	CapModerateAnyParticipation
	CapDeleteAnyComment
	CapRunStatusSweep
	CapManageUsers
	CapComment
	CapParticipate
)

var capabilities = map[Role]map[Capability]bool{
	RoleUser: {
		CapComment:     true,
		CapParticipate: true,
	},
	RoleOrganizer: {
		CapComment:     true,
		CapParticipate: true,
		CapCreateEvent: true,
	},
	RoleAdmin: {
		CapComment:                  true,
		CapParticipate:              true,
		CapCreateEvent:              true,
		CapModerateEvents:           true,
		CapEditAnyEvent:             true,
		CapModerateAnyParticipation: true,
		CapDeleteAnyComment:         true,
		CapRunStatusSweep:           true,
		CapManageUsers:              true,
	},
}

// Can looks the capability up in the role table. Anonymous callers have none.
func (r Role) Can(c Capability) bool {
	return capabilities[r][c]
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

// ParseRole normalizes a role string; unknown values map to RoleAnonymous.
func ParseRole(s string) Role {
	r := Role(strings.TrimSpace(strings.ToLower(s)))
	if r.Valid() {
		return r
	}
	return RoleAnonymous
}
