package handler

import (
	"time"

	"nickchat/internal/app/chat"
	"nickchat/internal/app/user"
)

// UserView is the wire form of a user.
type UserView struct {
	ID           int64   `json:"id"`
	OriginalNick string  `json:"originalNick"`
	DisplayName  *string `json:"displayName"`
	AvatarURL    *string `json:"avatarUrl"`
	IsActive     bool    `json:"isActive"`
}

// MessageView is the wire form of a message with its author embedded.
type MessageView struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	User      UserView  `json:"user"`
}

func newUserView(u user.User) UserView {
	return UserView{
		ID:           u.ID,
		OriginalNick: u.OriginalNick,
		DisplayName:  u.DisplayName,
		AvatarURL:    u.AvatarURL,
		IsActive:     u.IsActive(),
	}
}

func newMessageView(m chat.Message) MessageView {
	return MessageView{
		ID:        m.ID,
		Text:      m.Text,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		User:      newUserView(m.User),
	}
}
