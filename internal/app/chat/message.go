/*
Package chat implements the nickname chat: the activation gate in front of
sending, profile setup, and the append-only message log.

This file defines the Message record and the Store contract the service needs
from persistence.
*/
package chat

import (
	"context"
	"errors"
	"time"

	"nickchat/internal/app/user"
)

// Errors a Store reports for conditions the service handles explicitly.
// Any other error is treated as a storage failure.
var (
	// ErrUserNotFound means no user row has the given id.
	ErrUserNotFound = errors.New("chat: user not found")

	// ErrNickConflict means a unique constraint on the nickname rejected a write.
	ErrNickConflict = errors.New("chat: nickname already exists")

	// ErrUserNotActive means an insert was refused because the author has not completed setup.
	ErrUserNotActive = errors.New("chat: user is not active")
)

// Message is one stored chat utterance together with its author's current identity.
type Message struct {
	ID        int64
	Text      string
	UserID    int64
	CreatedAt time.Time
	User      user.User
}

// Store is the persistence the chat service depends on.
// Every mutating method is a single atomic operation.
type Store interface {
	// FindOrCreateUser returns the user owning nick, creating a Ghost when none
	// exists. created reports whether this call inserted the row.
	FindOrCreateUser(ctx context.Context, nick string) (u user.User, created bool, err error)

	// GetUser returns the user with the given id or ErrUserNotFound.
	GetUser(ctx context.Context, id int64) (user.User, error)

	// ActivateUser sets the display name and avatar and marks the user Active.
	// It returns ErrUserNotFound when id does not exist.
	ActivateUser(ctx context.Context, id int64, displayName string, avatarURL *string) (user.User, error)

	// InsertMessage appends a message authored by an Active user. It returns
	// ErrUserNotActive when the author is missing or still a Ghost.
	InsertMessage(ctx context.Context, userID int64, text string) (Message, error)

	// ListMessages returns every message with its author, oldest first.
	ListMessages(ctx context.Context) ([]Message, error)
}
