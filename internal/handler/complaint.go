package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/hoahub-dev/hoahub/internal/middleware"
	"github.com/hoahub-dev/hoahub/internal/utils"
)

// CreateComplaint handles POST /v1/complaints
func (h *Handler) CreateComplaint(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)

	var reqBody struct {
		Title       string `validate:"required" json:"title"`
		Description string `json:"description"`
	}
	if err := utils.DecodeValidate(r.Body, &reqBody); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	complaint, err := h.complaints.Create(*user, reqBody.Title, reqBody.Description)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]string{"id": complaint.Id})
}

// GetComplaint handles GET /v1/complaints/{complaint}
// Only the author may view their filing this way.
func (h *Handler) GetComplaint(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	complaintId := chi.URLParam(r, "complaint")

	complaint, err := h.complaints.Get(complaintId, *user)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, complaint)
}

// DeleteComplaint handles DELETE /v1/complaints/{complaint}
func (h *Handler) DeleteComplaint(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	complaintId := chi.URLParam(r, "complaint")

	if err := h.complaints.Delete(complaintId, user.Id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// MyComplaints handles GET /v1/complaints
func (h *Handler) MyComplaints(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)

	complaints, err := h.complaints.My(user.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, complaints)
}

// CommunityComplaints handles GET /v1/board/complaints (board only)
func (h *Handler) CommunityComplaints(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)

	complaints, err := h.complaints.ForCommunity(user.CommunityId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, complaints)
}

// UpdateComplaintStatus handles PUT /v1/board/complaints/{complaint}/status (board only)
func (h *Handler) UpdateComplaintStatus(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	complaintId := chi.URLParam(r, "complaint")

	var reqBody struct {
		Status string `validate:"required" json:"status"`
	}
	if err := utils.DecodeValidate(r.Body, &reqBody); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.complaints.UpdateStatus(complaintId, reqBody.Status, user.CommunityId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// MarkComplaintRead handles POST /v1/board/complaints/{complaint}/read (board only)
func (h *Handler) MarkComplaintRead(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	complaintId := chi.URLParam(r, "complaint")

	if err := h.complaints.MarkRead(complaintId, user.CommunityId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
