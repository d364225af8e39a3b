package domain

import "time"

const (
	InvitePending  = "pending"
	InviteAccepted = "accepted"
)

type TenantInvite struct {
	Id          string
	LandlordId  UserId
	TenantEmail Email
	Status      string
	CommunityId CommunityId
	CreatedAt   time.Time
}
