package pg

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/hoahub-dev/hoahub/internal/domain"
	internal_errors "github.com/hoahub-dev/hoahub/internal/errors"
)

// =========================================================================
// Public Methods (satisfy service.ComplaintStorage)
// =========================================================================

func (s *Storage) SaveComplaint(c domain.Complaint) (string, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var id string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveComplaint(tx, c)
		return err
	})
	return id, err
}

func (s *Storage) Complaint(id string) (domain.Complaint, error) {
	return s.complaint(s.db, id)
}

func (s *Storage) ComplaintsByUser(userId domain.UserId) ([]domain.Complaint, error) {
	return s.complaints(s.db, "user_id", userId)
}

func (s *Storage) ComplaintsByCommunity(communityId domain.CommunityId) ([]domain.Complaint, error) {
	return s.complaints(s.db, "community_id", communityId)
}

func (s *Storage) UpdateComplaintStatus(id string, status string, communityId domain.CommunityId) error {
	ctx, cancel := opCtx()
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updateComplaintStatus(tx, id, status, communityId)
	})
}

func (s *Storage) MarkComplaintRead(id string, communityId domain.CommunityId) error {
	ctx, cancel := opCtx()
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.markComplaintRead(tx, id, communityId)
	})
}

func (s *Storage) DeleteComplaint(id string, userId domain.UserId) error {
	ctx, cancel := opCtx()
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteComplaint(tx, id, userId)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) saveComplaint(q Querier, c domain.Complaint) (string, error) {
	var id string
	err := q.QueryRow(`
        INSERT INTO complaints(title, description, status, user_id, community_id)
        VALUES($1, $2, $3, $4, $5) RETURNING id`,
		c.Title, c.Description, c.Status, c.UserId, c.CommunityId,
	).Scan(&id)
	if err != nil {
		return "", storageErr(err, "failed to insert complaint")
	}
	return id, nil
}

func (s *Storage) complaint(q Querier, id string) (domain.Complaint, error) {
	var c domain.Complaint
	err := q.QueryRow(`
        SELECT id, title, description, status, user_id, community_id, read, (read_at at time zone 'utc'), (created_at at time zone 'utc')
        FROM complaints WHERE id = $1`, id,
	).Scan(&c.Id, &c.Title, &c.Description, &c.Status, &c.UserId, &c.CommunityId, &c.Read, &c.ReadAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Complaint{}, &internal_errors.ErrorWithStatusCode{Message: "Complaint not found", StatusCode: http.StatusNotFound}
		}
		return domain.Complaint{}, storageErr(err, "failed to query complaint")
	}
	return c, nil
}

// complaints lists by a single whitelisted column, newest first.
func (s *Storage) complaints(q Querier, column string, value string) ([]domain.Complaint, error) {
	rows, err := q.Query(`
        SELECT id, title, description, status, user_id, community_id, read, (read_at at time zone 'utc'), (created_at at time zone 'utc')
        FROM complaints
        WHERE `+column+` = $1
        ORDER BY created_at DESC`, value)
	if err != nil {
		return nil, storageErr(err, "failed to query complaints")
	}
	defer rows.Close()

	complaints := []domain.Complaint{}
	for rows.Next() {
		var c domain.Complaint
		if err := rows.Scan(&c.Id, &c.Title, &c.Description, &c.Status, &c.UserId, &c.CommunityId, &c.Read, &c.ReadAt, &c.CreatedAt); err != nil {
			return nil, storageErr(err, "failed to scan complaint")
		}
		complaints = append(complaints, c)
	}
	return complaints, rows.Err()
}

func (s *Storage) updateComplaintStatus(q Querier, id, status string, communityId domain.CommunityId) error {
	result, err := q.Exec(`
        UPDATE complaints SET status = $1 WHERE id = $2 AND community_id = $3`,
		status, id, communityId)
	if err != nil {
		return storageErr(err, "failed to update complaint status")
	}
	return requireAffected(result, "Complaint not found")
}

func (s *Storage) markComplaintRead(q Querier, id string, communityId domain.CommunityId) error {
	result, err := q.Exec(`
        UPDATE complaints SET read = TRUE, read_at = NOW() WHERE id = $1 AND community_id = $2`,
		id, communityId)
	if err != nil {
		return storageErr(err, "failed to mark complaint read")
	}
	return requireAffected(result, "Complaint not found")
}

// deleteComplaint only removes the author's own row.
func (s *Storage) deleteComplaint(q Querier, id string, userId domain.UserId) error {
	result, err := q.Exec(`
        DELETE FROM complaints WHERE id = $1 AND user_id = $2`, id, userId)
	if err != nil {
		return storageErr(err, "failed to delete complaint")
	}
	return requireAffected(result, "Complaint not found")
}

// requireAffected converts a zero-row update into a 404-coded error.
func requireAffected(result sql.Result, notFoundMsg string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storageErr(err, "failed to check affected rows")
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: notFoundMsg, StatusCode: http.StatusNotFound}
	}
	return nil
}
