package pg

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/hoahub-dev/hoahub/internal/domain"
	internal_errors "github.com/hoahub-dev/hoahub/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var inviteSeq int

func mustCreateInvite(t *testing.T, landlordId domain.UserId, community domain.CommunityId) (string, domain.Email) {
	t.Helper()
	inviteSeq++
	email := fmt.Sprintf("tenant%d@example.com", inviteSeq)
	id, err := storage.SaveInvite(domain.TenantInvite{
		LandlordId:  landlordId,
		TenantEmail: email,
		Status:      domain.InvitePending,
		CommunityId: community,
	})
	require.NoError(t, err)
	return id, email
}

func TestSaveInvite(t *testing.T) {
	community := "invite-save"
	landlord := mustCreateUser(t, community)
	_, email := mustCreateInvite(t, landlord, community)

	_, err := storage.SaveInvite(domain.TenantInvite{
		LandlordId:  landlord,
		TenantEmail: email,
		Status:      domain.InvitePending,
		CommunityId: community,
	})
	require.Error(t, err, "one pending invite per tenant email")
	e, ok := err.(*internal_errors.ErrorWithStatusCode)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, e.StatusCode)
}

func TestPendingInvite(t *testing.T) {
	community := "invite-pending"
	landlord := mustCreateUser(t, community)
	id, email := mustCreateInvite(t, landlord, community)

	invite, err := storage.PendingInvite(email)
	require.NoError(t, err)
	assert.Equal(t, id, invite.Id)
	assert.Equal(t, domain.InvitePending, invite.Status)
	assert.Equal(t, community, invite.CommunityId)

	_, err = storage.PendingInvite("nobody@example.com")
	require.Error(t, err)
	e, ok := err.(*internal_errors.ErrorWithStatusCode)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, e.StatusCode)
}

func TestAcceptInvite(t *testing.T) {
	community := "invite-accept"
	landlord := mustCreateUser(t, community)
	id, email := mustCreateInvite(t, landlord, community)

	require.NoError(t, storage.AcceptInvite(id))

	_, err := storage.PendingInvite(email)
	require.Error(t, err, "accepted invites are no longer pending")

	// Accepting frees the partial unique index, a new invite may be issued.
	_, err = storage.SaveInvite(domain.TenantInvite{
		LandlordId:  landlord,
		TenantEmail: email,
		Status:      domain.InvitePending,
		CommunityId: community,
	})
	assert.NoError(t, err)
}

func TestInvitesByLandlord(t *testing.T) {
	community := "invite-list"
	landlord := mustCreateUser(t, community)
	other := mustCreateUser(t, community)
	mustCreateInvite(t, landlord, community)
	mustCreateInvite(t, landlord, community)
	mustCreateInvite(t, other, community)

	invites, err := storage.InvitesByLandlord(landlord)
	require.NoError(t, err)
	assert.Len(t, invites, 2, "only the landlord's own invites")
}

func TestDeleteInvite(t *testing.T) {
	community := "invite-delete"
	landlord := mustCreateUser(t, community)
	other := mustCreateUser(t, community)
	id, email := mustCreateInvite(t, landlord, community)

	err := storage.DeleteInvite(id, other)
	require.Error(t, err, "only the issuing landlord can revoke")
	e, ok := err.(*internal_errors.ErrorWithStatusCode)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, e.StatusCode)

	require.NoError(t, storage.DeleteInvite(id, landlord))

	_, err = storage.PendingInvite(email)
	require.Error(t, err)
}
