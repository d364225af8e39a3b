package service

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/hoahub-dev/hoahub/internal/domain"
	internal_errors "github.com/hoahub-dev/hoahub/internal/errors"
	"github.com/hoahub-dev/hoahub/internal/logger"
)

var ErrInviteExists = &internal_errors.ErrorWithStatusCode{Message: "A pending invite already exists for this email", StatusCode: http.StatusConflict}

type InviteService interface {
	Create(landlord domain.User, tenantEmail domain.Email) (domain.TenantInvite, error)
	ByLandlord(landlordId domain.UserId) ([]domain.TenantInvite, error)
	Revoke(id string, landlordId domain.UserId) error
}

type InviteStorage interface {
	SaveInvite(inv domain.TenantInvite) (string, error)
	PendingInvite(tenantEmail domain.Email) (domain.TenantInvite, error)
	InvitesByLandlord(landlordId domain.UserId) ([]domain.TenantInvite, error)
	DeleteInvite(id string, landlordId domain.UserId) error
}

type Invite struct {
	storage InviteStorage
	email   Email
}

func NewInvite(storage InviteStorage, email Email) *Invite {
	return &Invite{storage, email}
}

// Create opens an invite for a tenant and emails them. Landlord tier only;
// the router enforces the tier, the service enforces one pending invite
// per email.
func (s *Invite) Create(landlord domain.User, tenantEmail domain.Email) (domain.TenantInvite, error) {
	tenantEmail = strings.ToLower(tenantEmail)

	if err := s.email.IsCorrect(tenantEmail); err != nil {
		return domain.TenantInvite{}, err
	}

	_, err := s.storage.PendingInvite(tenantEmail)
	if err == nil {
		return domain.TenantInvite{}, ErrInviteExists
	}
	if !internal_errors.IsNotFound(err) {
		return domain.TenantInvite{}, err
	}

	inv := domain.TenantInvite{
		LandlordId:  landlord.Id,
		TenantEmail: tenantEmail,
		Status:      domain.InvitePending,
		CommunityId: landlord.CommunityId,
	}
	id, err := s.storage.SaveInvite(inv)
	if err != nil {
		return domain.TenantInvite{}, err
	}
	inv.Id = id

	body := fmt.Sprintf(`
		Hello,

		%s %s invited you to join their community on HoaHub.

		Register with this email address and you will be added as a tenant automatically.
	`, landlord.FirstName, landlord.LastName)

	go func() {
		if err := s.email.Send(tenantEmail, "You have been invited to HoaHub", body); err != nil {
			logger.Log.Error("failed to send invite email", "error", err)
		}
	}()

	return inv, nil
}

func (s *Invite) ByLandlord(landlordId domain.UserId) ([]domain.TenantInvite, error) {
	return s.storage.InvitesByLandlord(landlordId)
}

// Revoke deletes a pending invite. Only the landlord who created it may
// revoke it; accepted invites cannot be revoked.
func (s *Invite) Revoke(id string, landlordId domain.UserId) error {
	return s.storage.DeleteInvite(id, landlordId)
}
