package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"nickchat/internal/app/chat"
	"nickchat/internal/app/user"
)

// Store implements chat.Store on PostgreSQL.
type Store struct {
	q *Queries
}

var _ chat.Store = (*Store)(nil)

// NewStore returns a Store that runs its queries on db.
func NewStore(db DBTX) *Store {
	return &Store{q: New(db)}
}

// FindOrCreateUser reads the user first so the common path does not write.
// On a miss it falls back to an upsert, which is safe against a concurrent first contact.
func (s *Store) FindOrCreateUser(ctx context.Context, nick string) (user.User, bool, error) {
	row, err := s.q.GetUserByNick(ctx, nick)
	if err == nil {
		return toUser(row), false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, false, fmt.Errorf("get user by nick: %w", err)
	}

	row, inserted, err := s.q.UpsertUserByNick(ctx, nick)
	if err != nil {
		if IsUniqueViolation(err) {
			return user.User{}, false, fmt.Errorf("%w: %s", chat.ErrNickConflict, nick)
		}
		return user.User{}, false, fmt.Errorf("upsert user by nick: %w", err)
	}

	return toUser(row), inserted, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (user.User, error) {
	row, err := s.q.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, chat.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("get user by id: %w", err)
	}

	return toUser(row), nil
}

func (s *Store) ActivateUser(ctx context.Context, id int64, displayName string, avatarURL *string) (user.User, error) {
	row, err := s.q.ActivateUser(ctx, ActivateUserParams{
		ID:          id,
		DisplayName: displayName,
		AvatarUrl:   textFromPtr(avatarURL),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, chat.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("activate user: %w", err)
	}

	return toUser(row), nil
}

func (s *Store) InsertMessage(ctx context.Context, userID int64, text string) (chat.Message, error) {
	row, err := s.q.InsertMessage(ctx, text, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || IsForeignKeyViolation(err) {
			return chat.Message{}, chat.ErrUserNotActive
		}
		return chat.Message{}, fmt.Errorf("insert message: %w", err)
	}

	return toMessage(row), nil
}

func (s *Store) ListMessages(ctx context.Context) ([]chat.Message, error) {
	rows, err := s.q.ListMessagesWithUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	messages := make([]chat.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, toMessage(row))
	}

	return messages, nil
}

func toUser(row AppUser) user.User {
	return user.User{
		ID:           row.ID,
		OriginalNick: row.OriginalNick,
		DisplayName:  ptrFromText(row.DisplayName),
		AvatarURL:    ptrFromText(row.AvatarUrl),
		State:        user.StateFromActive(row.IsActive),
		CreatedAt:    row.CreatedAt.Time,
	}
}

func toMessage(row ChatMessageWithUser) chat.Message {
	return chat.Message{
		ID:        row.ID,
		Text:      row.Text,
		UserID:    row.UserID,
		CreatedAt: row.CreatedAt.Time,
		User:      toUser(row.Author),
	}
}

func textFromPtr(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func ptrFromText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	v := t.String
	return &v
}
