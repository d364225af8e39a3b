package domain

type (
	Email       = string
	Password    = string
	UserId      = string // uuid
	CommunityId = string
	RequestId   = string // uuid
)

// Roles ordered by privilege.
const (
	RoleResident = "resident"
	RoleBoard    = "board"
	RoleAdmin    = "admin"
)

// Subscription tiers, orthogonal to role.
const (
	TierSolo      = "solo"
	TierHousehold = "household"
	TierLandlord  = "landlord"
)

func ValidRole(role string) bool {
	return role == RoleResident || role == RoleBoard || role == RoleAdmin
}

func ValidTier(tier string) bool {
	return tier == TierSolo || tier == TierHousehold || tier == TierLandlord
}
