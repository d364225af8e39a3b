package pg

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/hoahub-dev/hoahub/internal/domain"
	internal_errors "github.com/hoahub-dev/hoahub/internal/errors"
)

// =========================================================================
// Public Methods (satisfy service.InviteStorage and service.AuthStorage)
// =========================================================================

func (s *Storage) SaveInvite(inv domain.TenantInvite) (string, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var id string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveInvite(tx, inv)
		return err
	})
	return id, err
}

func (s *Storage) PendingInvite(tenantEmail domain.Email) (domain.TenantInvite, error) {
	return s.pendingInvite(s.db, tenantEmail)
}

func (s *Storage) InvitesByLandlord(landlordId domain.UserId) ([]domain.TenantInvite, error) {
	return s.invitesByLandlord(s.db, landlordId)
}

func (s *Storage) AcceptInvite(id string) error {
	ctx, cancel := opCtx()
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.acceptInvite(tx, id)
	})
}

func (s *Storage) DeleteInvite(id string, landlordId domain.UserId) error {
	ctx, cancel := opCtx()
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteInvite(tx, id, landlordId)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) saveInvite(q Querier, inv domain.TenantInvite) (string, error) {
	var id string
	err := q.QueryRow(`
        INSERT INTO tenant_invites(landlord_id, tenant_email, status, community_id)
        VALUES($1, $2, $3, $4) RETURNING id`,
		inv.LandlordId, inv.TenantEmail, inv.Status, inv.CommunityId,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return "", &internal_errors.ErrorWithStatusCode{Message: "A pending invite already exists for this email", StatusCode: http.StatusConflict}
		}
		return "", storageErr(err, "failed to insert invite")
	}
	return id, nil
}

func (s *Storage) pendingInvite(q Querier, tenantEmail domain.Email) (domain.TenantInvite, error) {
	var inv domain.TenantInvite
	err := q.QueryRow(`
        SELECT id, landlord_id, tenant_email, status, community_id, (created_at at time zone 'utc')
        FROM tenant_invites
        WHERE tenant_email = $1 AND status = 'pending'`, tenantEmail,
	).Scan(&inv.Id, &inv.LandlordId, &inv.TenantEmail, &inv.Status, &inv.CommunityId, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TenantInvite{}, &internal_errors.ErrorWithStatusCode{Message: "Invite not found", StatusCode: http.StatusNotFound}
		}
		return domain.TenantInvite{}, storageErr(err, "failed to query invite")
	}
	return inv, nil
}

func (s *Storage) invitesByLandlord(q Querier, landlordId domain.UserId) ([]domain.TenantInvite, error) {
	rows, err := q.Query(`
        SELECT id, landlord_id, tenant_email, status, community_id, (created_at at time zone 'utc')
        FROM tenant_invites
        WHERE landlord_id = $1
        ORDER BY created_at DESC`, landlordId)
	if err != nil {
		return nil, storageErr(err, "failed to query invites")
	}
	defer rows.Close()

	invites := []domain.TenantInvite{}
	for rows.Next() {
		var inv domain.TenantInvite
		if err := rows.Scan(&inv.Id, &inv.LandlordId, &inv.TenantEmail, &inv.Status, &inv.CommunityId, &inv.CreatedAt); err != nil {
			return nil, storageErr(err, "failed to scan invite")
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (s *Storage) acceptInvite(q Querier, id string) error {
	result, err := q.Exec(`
        UPDATE tenant_invites SET status = 'accepted' WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return storageErr(err, "failed to accept invite")
	}
	return requireAffected(result, "Invite not found")
}

// deleteInvite only removes pending invites owned by the landlord.
func (s *Storage) deleteInvite(q Querier, id string, landlordId domain.UserId) error {
	result, err := q.Exec(`
        DELETE FROM tenant_invites WHERE id = $1 AND landlord_id = $2 AND status = 'pending'`,
		id, landlordId)
	if err != nil {
		return storageErr(err, "failed to delete invite")
	}
	return requireAffected(result, "Invite not found")
}
