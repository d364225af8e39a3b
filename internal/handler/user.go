package handler

import (
	"net/http"

	mw "github.com/hoahub-dev/hoahub/internal/middleware"
	"github.com/hoahub-dev/hoahub/internal/utils"
)

// Directory handles GET /v1/directory
// Residents get the opted-in view; board and admin get the full roster.
func (h *Handler) Directory(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)

	entries, err := h.users.Directory(*user)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, entries)
}

// SetDirectoryVisibility handles PUT /v1/directory/visibility
func (h *Handler) SetDirectoryVisibility(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)

	var reqBody struct {
		Visible bool `json:"visible"`
	}
	if err := utils.Decode(r.Body, &reqBody); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.users.SetDirectoryVisibility(user.Id, reqBody.Visible); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Dashboard handles GET /v1/board/dashboard (board only)
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)

	metrics, err := h.users.Dashboard(user.CommunityId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, metrics)
}

// UpgradeTier handles PUT /v1/account/tier
func (h *Handler) UpgradeTier(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)

	var reqBody struct {
		Tier string `validate:"required" json:"tier"`
	}
	if err := utils.DecodeValidate(r.Body, &reqBody); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.users.UpgradeTier(user.Id, reqBody.Tier); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Tier updated. Log in again to refresh your session"))
}
