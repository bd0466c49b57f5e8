/*
Package user contains the identity record of a chat participant and the
activation state machine that gates messaging.

A user is created as a Ghost on first contact and becomes Active exactly once,
through profile setup. Active is terminal.
*/
package user

import "time"

// State is the activation state of a user.
type State uint8

const (
	// StateGhost is the state of a user created implicitly on first contact.
	// Ghost users cannot send messages.
	StateGhost State = iota

	// StateActive is the state reached after profile setup. It is terminal.
	StateActive
)

// String returns the lower-case name of the state.
func (s State) String() string {
	switch s {
	case StateGhost:
		return "ghost"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Activate returns the state after a completed profile setup.
// Every state moves to StateActive; there is no transition back.
func (s State) Activate() State {
	return StateActive
}

// StateFromActive maps the persisted is_active flag to a State.
func StateFromActive(isActive bool) State {
	if isActive {
		return StateActive
	}
	return StateGhost
}

// User represents the identity of a chat participant.
type User struct {
	// ID is the server-assigned identifier.
	ID int64

	// OriginalNick is the client-supplied handle. It is unique and never changes.
	OriginalNick string

	// DisplayName is nil until profile setup completes.
	DisplayName *string

	// AvatarURL is nil until setup stores a photo.
	AvatarURL *string

	// State is Ghost at creation and Active after setup.
	State State

	CreatedAt time.Time
}

// IsActive reports whether the user completed profile setup.
func (u User) IsActive() bool {
	return u.State == StateActive
}

// CanAcceptMessage reports whether a message from this user may be stored.
func (u User) CanAcceptMessage() bool {
	return u.IsActive()
}

// AvatarRef returns the stored avatar reference, or "" when there is none.
func (u User) AvatarRef() string {
	if u.AvatarURL == nil {
		return ""
	}
	return *u.AvatarURL
}
