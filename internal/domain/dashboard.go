package domain

// DashboardMetrics is the board's at-a-glance view of community activity.
type DashboardMetrics struct {
	Residents            int `json:"residents"`
	OpenComplaints       int `json:"open_complaints"`
	UnreadMessages       int `json:"unread_messages"`
	PendingInvites       int `json:"pending_invites"`
	PendingVerifications int `json:"pending_verifications"`
}
