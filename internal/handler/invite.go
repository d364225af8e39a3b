package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/hoahub-dev/hoahub/internal/middleware"
	"github.com/hoahub-dev/hoahub/internal/utils"
)

// CreateInvite handles POST /v1/invites (landlord tier only)
func (h *Handler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)

	var reqBody struct {
		TenantEmail string `validate:"required" json:"tenant_email"`
	}
	if err := utils.DecodeValidate(r.Body, &reqBody); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	invite, err := h.invites.Create(*user, reqBody.TenantEmail)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]string{"id": invite.Id})
}

// MyInvites handles GET /v1/invites (landlord tier only)
func (h *Handler) MyInvites(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)

	invites, err := h.invites.ByLandlord(user.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, invites)
}

// RevokeInvite handles DELETE /v1/invites/{invite} (landlord tier only)
func (h *Handler) RevokeInvite(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	inviteId := chi.URLParam(r, "invite")

	if err := h.invites.Revoke(inviteId, user.Id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
