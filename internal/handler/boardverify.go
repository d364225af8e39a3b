package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/hoahub-dev/hoahub/internal/middleware"
	"github.com/hoahub-dev/hoahub/internal/utils"
)

// SubmitVerificationRequest handles POST /v1/board/verification
// Opens a peer-verification request for the authenticated candidate.
func (h *Handler) SubmitVerificationRequest(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)

	id, err := h.boardVerify.SubmitRequest(user.Id, user.CommunityId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]string{"request_id": id})
}

// ApproveVerificationRequest handles POST /v1/board/verification/{request}/approve
func (h *Handler) ApproveVerificationRequest(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	requestId := chi.URLParam(r, "request")

	status, err := h.boardVerify.Approve(requestId, *user)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, status)
}

// VerificationStatus handles GET /v1/board/verification/status
// Reports the authenticated candidate's own progress.
func (h *Handler) VerificationStatus(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)

	status, err := h.boardVerify.Status(user.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, status)
}

// ListVerificationRequests handles GET /v1/board/verification
// Lists all requests in the caller's community for peers to review.
func (h *Handler) ListVerificationRequests(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)

	reqs, err := h.boardVerify.ListRequests(user.CommunityId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	type requestView struct {
		Id          string `json:"id"`
		CandidateId string `json:"candidate_id"`
		Approvals   int    `json:"approvals"`
		Verified    bool   `json:"verified"`
	}
	views := make([]requestView, 0, len(reqs))
	for _, req := range reqs {
		views = append(views, requestView{
			Id:          req.Id,
			CandidateId: req.CandidateId,
			Approvals:   req.Approvals(),
			Verified:    req.Verified,
		})
	}

	writeJSON(w, views)
}
