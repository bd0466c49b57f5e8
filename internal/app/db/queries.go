package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries runs the statements of this package against a DBTX.
type Queries struct {
	db DBTX
}

// New returns Queries bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to tx.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// AppUser is a row of app_user.
type AppUser struct {
	ID           int64
	OriginalNick string
	DisplayName  pgtype.Text
	AvatarUrl    pgtype.Text
	IsActive     bool
	CreatedAt    pgtype.Timestamptz
}

// ChatMessageWithUser is a row of chat_message joined with its author.
type ChatMessageWithUser struct {
	ID        int64
	Text      string
	UserID    int64
	CreatedAt pgtype.Timestamptz
	Author    AppUser
}

const appUserColumns = `id, original_nick, display_name, avatar_url, is_active, created_at`

func scanAppUser(row pgx.Row, extra ...any) (AppUser, error) {
	var u AppUser
	dest := append([]any{
		&u.ID,
		&u.OriginalNick,
		&u.DisplayName,
		&u.AvatarUrl,
		&u.IsActive,
		&u.CreatedAt,
	}, extra...)
	err := row.Scan(dest...)
	return u, err
}

const getUserByID = `
SELECT ` + appUserColumns + `
FROM app_user
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (AppUser, error) {
	return scanAppUser(q.db.QueryRow(ctx, getUserByID, id))
}

const getUserByNick = `
SELECT ` + appUserColumns + `
FROM app_user
WHERE original_nick = $1
`

func (q *Queries) GetUserByNick(ctx context.Context, originalNick string) (AppUser, error) {
	return scanAppUser(q.db.QueryRow(ctx, getUserByNick, originalNick))
}

// The no-op DO UPDATE makes RETURNING yield the existing row when another
// request inserted the nickname first. xmax is 0 only for a fresh insert.
const upsertUserByNick = `
INSERT INTO app_user (original_nick)
VALUES ($1)
ON CONFLICT (original_nick) DO UPDATE
SET original_nick = EXCLUDED.original_nick
RETURNING ` + appUserColumns + `, (xmax = 0) AS inserted
`

func (q *Queries) UpsertUserByNick(ctx context.Context, originalNick string) (AppUser, bool, error) {
	var inserted bool
	u, err := scanAppUser(q.db.QueryRow(ctx, upsertUserByNick, originalNick), &inserted)
	return u, inserted, err
}

type ActivateUserParams struct {
	ID          int64
	DisplayName string
	AvatarUrl   pgtype.Text
}

const activateUser = `
UPDATE app_user
SET display_name = $2,
    avatar_url   = $3,
    is_active    = TRUE
WHERE id = $1
RETURNING ` + appUserColumns + `
`

func (q *Queries) ActivateUser(ctx context.Context, arg ActivateUserParams) (AppUser, error) {
	return scanAppUser(q.db.QueryRow(ctx, activateUser, arg.ID, arg.DisplayName, arg.AvatarUrl))
}

const messageWithAuthorColumns = `
    m.id, m.text, m.user_id, m.created_at,
    a.id, a.original_nick, a.display_name, a.avatar_url, a.is_active, a.created_at
`

func scanMessageWithUser(row pgx.Row) (ChatMessageWithUser, error) {
	var m ChatMessageWithUser
	err := row.Scan(
		&m.ID,
		&m.Text,
		&m.UserID,
		&m.CreatedAt,
		&m.Author.ID,
		&m.Author.OriginalNick,
		&m.Author.DisplayName,
		&m.Author.AvatarUrl,
		&m.Author.IsActive,
		&m.Author.CreatedAt,
	)
	return m, err
}

// The insert only happens when the author exists and is active; otherwise the
// statement returns no rows.
const insertMessage = `
WITH a AS (
    SELECT ` + appUserColumns + `
    FROM app_user
    WHERE id = $2 AND is_active
), m AS (
    INSERT INTO chat_message (text, user_id)
    SELECT $1, a.id FROM a
    RETURNING id, text, user_id, created_at
)
SELECT ` + messageWithAuthorColumns + `
FROM m
JOIN a ON a.id = m.user_id
`

func (q *Queries) InsertMessage(ctx context.Context, text string, userID int64) (ChatMessageWithUser, error) {
	return scanMessageWithUser(q.db.QueryRow(ctx, insertMessage, text, userID))
}

const listMessagesWithUser = `
SELECT ` + messageWithAuthorColumns + `
FROM chat_message m
JOIN app_user a ON a.id = m.user_id
ORDER BY m.created_at ASC, m.id ASC
`

func (q *Queries) ListMessagesWithUser(ctx context.Context) ([]ChatMessageWithUser, error) {
	rows, err := q.db.Query(ctx, listMessagesWithUser)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []ChatMessageWithUser{}
	for rows.Next() {
		m, err := scanMessageWithUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
