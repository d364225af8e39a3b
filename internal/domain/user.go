package domain

import "time"

type User struct {
	Id              UserId
	Email           Email
	PassHash        string
	Role            string
	Tier            string
	CommunityId     CommunityId
	IsTenant        bool
	ShowInDirectory bool
	FirstName       string
	LastName        string
	CreatedAt       time.Time
}

type Credentials struct {
	Email    Email
	Password Password
}

// Registration is everything a new account needs before the first login.
type Registration struct {
	Email       Email
	Password    Password
	FirstName   string
	LastName    string
	CommunityId CommunityId
	Tier        string
}

// DirectoryEntry is the privacy-reduced view residents see of each other.
type DirectoryEntry struct {
	Name        string `json:"name"`
	CommunityId string `json:"community_id"`
}
