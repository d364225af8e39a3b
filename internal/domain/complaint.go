package domain

import (
	"database/sql"
	"time"
)

// Complaint statuses a board member can move a filing through.
const (
	ComplaintOpen       = "open"
	ComplaintInProgress = "in_progress"
	ComplaintResolved   = "resolved"
	ComplaintClosed     = "closed"
)

func ValidComplaintStatus(status string) bool {
	switch status {
	case ComplaintOpen, ComplaintInProgress, ComplaintResolved, ComplaintClosed:
		return true
	}
	return false
}

type Complaint struct {
	Id          string
	Title       string
	Description string
	Status      string
	UserId      UserId
	CommunityId CommunityId
	Read        bool
	ReadAt      sql.NullTime
	CreatedAt   time.Time
}
