package pg

import (
	"github.com/hoahub-dev/hoahub/internal/domain"
)

// SaveActivity records one request in the activity log. Called from a
// background goroutine, so it skips the transaction wrapper; a lost row
// is acceptable.
func (s *Storage) SaveActivity(a domain.ActivityLog) error {
	_, err := s.db.Exec(`
        INSERT INTO activity_log(user_id, action, endpoint, ip_address, user_agent, community_id)
        VALUES($1, $2, $3, $4, $5, $6)`,
		a.UserId, a.Action, a.Endpoint, a.IPAddress, a.UserAgent, a.CommunityId,
	)
	if err != nil {
		return storageErr(err, "failed to insert activity record")
	}
	return nil
}

// RecentActivity returns the community's latest log entries for the
// admin audit view.
func (s *Storage) RecentActivity(communityId domain.CommunityId, limit int) ([]domain.ActivityLog, error) {
	rows, err := s.db.Query(`
        SELECT id, user_id, action, endpoint, ip_address, user_agent, community_id, (created_at at time zone 'utc')
        FROM activity_log
        WHERE community_id = $1
        ORDER BY created_at DESC
        LIMIT $2`, communityId, limit)
	if err != nil {
		return nil, storageErr(err, "failed to query activity log")
	}
	defer rows.Close()

	entries := []domain.ActivityLog{}
	for rows.Next() {
		var a domain.ActivityLog
		if err := rows.Scan(&a.Id, &a.UserId, &a.Action, &a.Endpoint, &a.IPAddress, &a.UserAgent, &a.CommunityId, &a.CreatedAt); err != nil {
			return nil, storageErr(err, "failed to scan activity record")
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}
