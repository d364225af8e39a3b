package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/hoahub-dev/hoahub/internal/domain"
	internal_errors "github.com/hoahub-dev/hoahub/internal/errors"
)

// =========================================================================
// Public Methods (satisfy service.AuthStorage and service.UserStorage)
// =========================================================================

func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(tx, user)
		return err
	})
	return id, err
}

func (s *Storage) User(email domain.Email) (domain.User, error) {
	return s.user(s.db, email)
}

// UserByEmail satisfies service.MessageStorage; same lookup as User.
func (s *Storage) UserByEmail(email domain.Email) (domain.User, error) {
	return s.user(s.db, email)
}

func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	return s.userById(s.db, id)
}

func (s *Storage) UpdateUserRole(userId domain.UserId, role string) error {
	ctx, cancel := opCtx()
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updateUserField(tx, userId, "role", role)
	})
}

func (s *Storage) UpdateUserTier(userId domain.UserId, tier string) error {
	ctx, cancel := opCtx()
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updateUserField(tx, userId, "tier", tier)
	})
}

func (s *Storage) SetDirectoryVisibility(userId domain.UserId, visible bool) error {
	ctx, cancel := opCtx()
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updateUserField(tx, userId, "show_in_directory", visible)
	})
}

func (s *Storage) DirectoryEntries(communityId domain.CommunityId, fullView bool) ([]domain.DirectoryEntry, error) {
	return s.directoryEntries(s.db, communityId, fullView)
}

func (s *Storage) DashboardMetrics(communityId domain.CommunityId) (domain.DashboardMetrics, error) {
	return s.dashboardMetrics(s.db, communityId)
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) saveUser(q Querier, user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := q.QueryRow(`
        INSERT INTO users(email, password_hash, role, tier, community_id, is_tenant, show_in_directory, first_name, last_name)
        VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		user.Email, user.PassHash, user.Role, user.Tier, user.CommunityId,
		user.IsTenant, user.ShowInDirectory, user.FirstName, user.LastName,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return "", &internal_errors.ErrorWithStatusCode{Message: "User with this email already exists", StatusCode: http.StatusConflict}
		}
		return "", storageErr(err, "failed to insert user")
	}
	return id, nil
}

const userColumns = `id, email, password_hash, role, tier, community_id, is_tenant, show_in_directory, first_name, last_name, (created_at at time zone 'utc')`

func scanUser(row *sql.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(&user.Id, &user.Email, &user.PassHash, &user.Role, &user.Tier,
		&user.CommunityId, &user.IsTenant, &user.ShowInDirectory, &user.FirstName, &user.LastName, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return domain.User{}, storageErr(err, "failed to query user")
	}
	return user, nil
}

func (s *Storage) user(q Querier, email domain.Email) (domain.User, error) {
	return scanUser(q.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (s *Storage) userById(q Querier, id domain.UserId) (domain.User, error) {
	return scanUser(q.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// updateUserField updates a single whitelisted column. column is always a
// compile-time constant, never user input.
func (s *Storage) updateUserField(q Querier, userId domain.UserId, column string, value interface{}) error {
	result, err := q.Exec(fmt.Sprintf("UPDATE users SET %s = $1 WHERE id = $2", column), value, userId)
	if err != nil {
		return storageErr(err, "failed to update user")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storageErr(err, "failed to check affected rows for user update")
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) directoryEntries(q Querier, communityId domain.CommunityId, fullView bool) ([]domain.DirectoryEntry, error) {
	query := `
        SELECT first_name || ' ' || LEFT(last_name, 1) || '.', community_id
        FROM users
        WHERE community_id = $1 AND show_in_directory = TRUE
        ORDER BY last_name, first_name`
	if fullView {
		query = `
        SELECT first_name || ' ' || last_name, community_id
        FROM users
        WHERE community_id = $1
        ORDER BY last_name, first_name`
	}
	rows, err := q.Query(query, communityId)
	if err != nil {
		return nil, storageErr(err, "failed to query directory")
	}
	defer rows.Close()

	entries := []domain.DirectoryEntry{}
	for rows.Next() {
		var e domain.DirectoryEntry
		if err := rows.Scan(&e.Name, &e.CommunityId); err != nil {
			return nil, storageErr(err, "failed to scan directory entry")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Storage) dashboardMetrics(q Querier, communityId domain.CommunityId) (domain.DashboardMetrics, error) {
	var m domain.DashboardMetrics
	err := q.QueryRow(`
        SELECT
            (SELECT COUNT(*) FROM users WHERE community_id = $1),
            (SELECT COUNT(*) FROM complaints WHERE community_id = $1 AND status = 'open'),
            (SELECT COUNT(*) FROM messages WHERE community_id = $1 AND read = FALSE),
            (SELECT COUNT(*) FROM tenant_invites WHERE community_id = $1 AND status = 'pending'),
            (SELECT COUNT(*) FROM board_verification_requests WHERE community_id = $1 AND verified = FALSE)`,
		communityId,
	).Scan(&m.Residents, &m.OpenComplaints, &m.UnreadMessages, &m.PendingInvites, &m.PendingVerifications)
	if err != nil {
		return domain.DashboardMetrics{}, storageErr(err, "failed to query dashboard metrics")
	}
	return m, nil
}
