package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/hoahub-dev/hoahub/internal/middleware"
	"github.com/hoahub-dev/hoahub/internal/utils"
)

// RegisterDocument handles POST /v1/documents
// Residents may only register CC&R and bylaws records; other types need
// the board or admin role.
func (h *Handler) RegisterDocument(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)

	var reqBody struct {
		Title   string `validate:"required" json:"title"`
		Type    string `validate:"required" json:"type"`
		FileURL string `json:"file_url"`
	}
	if err := utils.DecodeValidate(r.Body, &reqBody); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	doc, err := h.documents.Register(*user, reqBody.Title, reqBody.Type, reqBody.FileURL)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]string{"id": doc.Id})
}

// CommunityDocuments handles GET /v1/documents?type=T&q=S
// Both filters are optional; q matches a title substring.
func (h *Handler) CommunityDocuments(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)

	documents, err := h.documents.ForCommunity(user.CommunityId, r.URL.Query().Get("type"), r.URL.Query().Get("q"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, documents)
}

// DeleteDocument handles DELETE /v1/board/documents/{document} (board only)
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	documentId := chi.URLParam(r, "document")

	if err := h.documents.Delete(documentId, user.CommunityId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
