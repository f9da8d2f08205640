package models

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidName is returned when a group name is blank.
	ErrInvalidName = errors.New("group name cannot be blank")

	// ErrAlreadyMember is returned when a user joins a group they already
	// belong to. The group is left unchanged.
	ErrAlreadyMember = errors.New("already a member of this group")
)

// Group represents a named member set with a shareable join code.
//
// Invariants: AdminID is always present in Members, and Members is never
// empty while the group exists. Members is append-only and keeps join order;
// there is no leave or remove path.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"groupId"`

	// Name is the display name of the group (e.g. "Goa Trip", "Flatmates").
	Name string `json:"groupName"`

	// JoinCode is the human-shareable 10-digit numeric code used to join.
	// Distinct from ID: the code is what people paste into the join form.
	JoinCode string `json:"uniqueCode"`

	// AdminID is the user who created the group.
	AdminID string `json:"admin"`

	// Members is the ordered list of member user ids. The creator is always
	// the first entry.
	Members []string `json:"members"`

	// CreatedAt is the Unix millisecond timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// NewGroup builds a group with the creator as sole member and admin.
// The join code is assigned by the caller (it must be collision-checked
// against the store before persisting). Fails with ErrInvalidName if the
// name is blank after trimming.
func NewGroup(name, creatorID, joinCode string) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	return &Group{
		Name:     name,
		JoinCode: joinCode,
		AdminID:  creatorID,
		Members:  []string{creatorID},
	}, nil
}

// IsMember reports whether the user belongs to the group.
func (g *Group) IsMember(userID string) bool {
	for _, id := range g.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user is the group's admin.
func (g *Group) IsAdmin(userID string) bool {
	return g.AdminID == userID
}

// Join appends the user to the member list, preserving join order.
// Fails with ErrAlreadyMember if the user is already in the group; the
// member list is not modified in that case.
func (g *Group) Join(userID string) error {
	if g.IsMember(userID) {
		return ErrAlreadyMember
	}
	g.Members = append(g.Members, userID)
	return nil
}
