package domain

import "time"

// ActivityLog is one authenticated request, recorded asynchronously.
type ActivityLog struct {
	Id          string
	UserId      UserId
	Action      string // "METHOD /path"
	Endpoint    string
	IPAddress   string
	UserAgent   string
	CommunityId CommunityId
	CreatedAt   time.Time
}
