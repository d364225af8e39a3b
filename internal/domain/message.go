package domain

import (
	"database/sql"
	"time"
)

type Message struct {
	Id          string
	Subject     string
	Body        string
	SenderId    UserId
	SenderEmail Email
	RecipientId UserId
	CommunityId CommunityId
	Read        bool
	ReadAt      sql.NullTime
	Response    sql.NullString
	RespondedBy sql.NullString // responder email
	RespondedAt sql.NullTime
	CreatedAt   time.Time
}
