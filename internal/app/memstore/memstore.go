/*
Package memstore is an in-memory implementation of chat.Store.

It backs the "memory" store driver used for local development and is the
store double in tests. All state lives behind one mutex, so find-or-create and
activation are atomic just like their SQL counterparts.
*/
package memstore

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"nickchat/internal/app/chat"
	"nickchat/internal/app/user"
)

type messageRow struct {
	id        int64
	text      string
	userID    int64
	createdAt time.Time
}

// Store keeps users and messages in memory.
type Store struct {
	mu sync.Mutex

	users    map[int64]user.User
	byNick   map[string]int64
	messages []messageRow

	nextUserID    int64
	nextMessageID int64

	now func() time.Time
}

var _ chat.Store = (*Store)(nil)

// New returns an empty Store using the wall clock for timestamps.
func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock returns an empty Store that reads timestamps from now.
func NewWithClock(now func() time.Time) *Store {
	return &Store{
		users:  make(map[int64]user.User),
		byNick: make(map[string]int64),
		now:    now,
	}
}

func (s *Store) FindOrCreateUser(ctx context.Context, nick string) (user.User, bool, error) {
	if err := ctx.Err(); err != nil {
		return user.User{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byNick[nick]; ok {
		return cloneUser(s.users[id]), false, nil
	}

	s.nextUserID++
	u := user.User{
		ID:           s.nextUserID,
		OriginalNick: nick,
		State:        user.StateGhost,
		CreatedAt:    s.now().UTC(),
	}
	s.users[u.ID] = u
	s.byNick[nick] = u.ID

	return cloneUser(u), true, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (user.User, error) {
	if err := ctx.Err(); err != nil {
		return user.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, chat.ErrUserNotFound
	}

	return cloneUser(u), nil
}

func (s *Store) ActivateUser(ctx context.Context, id int64, displayName string, avatarURL *string) (user.User, error) {
	if err := ctx.Err(); err != nil {
		return user.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, chat.ErrUserNotFound
	}

	u.DisplayName = &displayName
	u.AvatarURL = nil
	if avatarURL != nil {
		ref := *avatarURL
		u.AvatarURL = &ref
	}
	u.State = u.State.Activate()
	s.users[id] = u

	return cloneUser(u), nil
}

func (s *Store) InsertMessage(ctx context.Context, userID int64, text string) (chat.Message, error) {
	if err := ctx.Err(); err != nil {
		return chat.Message{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok || !u.IsActive() {
		return chat.Message{}, chat.ErrUserNotActive
	}

	s.nextMessageID++
	row := messageRow{
		id:        s.nextMessageID,
		text:      text,
		userID:    userID,
		createdAt: s.now().UTC(),
	}
	s.messages = append(s.messages, row)

	return s.join(row), nil
}

func (s *Store) ListMessages(ctx context.Context) ([]chat.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := slices.Clone(s.messages)
	slices.SortStableFunc(rows, func(a, b messageRow) int {
		if c := a.createdAt.Compare(b.createdAt); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})

	out := make([]chat.Message, 0, len(rows))
	for _, row := range rows {
		out = append(out, s.join(row))
	}

	return out, nil
}

// join attaches the author's current identity. Callers hold s.mu.
func (s *Store) join(row messageRow) chat.Message {
	return chat.Message{
		ID:        row.id,
		Text:      row.text,
		UserID:    row.userID,
		CreatedAt: row.createdAt,
		User:      cloneUser(s.users[row.userID]),
	}
}

// cloneUser copies the pointer fields so callers cannot mutate stored state.
func cloneUser(u user.User) user.User {
	if u.DisplayName != nil {
		v := *u.DisplayName
		u.DisplayName = &v
	}
	if u.AvatarURL != nil {
		v := *u.AvatarURL
		u.AvatarURL = &v
	}
	return u
}
