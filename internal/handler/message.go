package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	mw "github.com/hoahub-dev/hoahub/internal/middleware"
	"github.com/hoahub-dev/hoahub/internal/utils"
)

// SendMessage handles POST /v1/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)

	var reqBody struct {
		RecipientEmail string `validate:"required" json:"recipient_email"`
		Subject        string `json:"subject"`
		Body           string `validate:"required" json:"body"`
	}
	if err := utils.DecodeValidate(r.Body, &reqBody); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	msg, err := h.messages.Send(*user, reqBody.RecipientEmail, reqBody.Subject, reqBody.Body)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]string{"id": msg.Id})
}

// Inbox handles GET /v1/messages?page=N
func (h *Handler) Inbox(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid page: must be a positive integer", http.StatusBadRequest)
			return
		}
		page = parsed
	}

	messages, err := h.messages.Inbox(user.Id, page)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, messages)
}

// MarkMessageRead handles POST /v1/messages/{message}/read
func (h *Handler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	messageId := chi.URLParam(r, "message")

	if err := h.messages.MarkRead(messageId, user.Id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// CommunityMessages handles GET /v1/board/messages (board only)
func (h *Handler) CommunityMessages(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)

	messages, err := h.messages.ForCommunity(user.CommunityId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, messages)
}

// RespondToMessage handles POST /v1/board/messages/{message}/respond (board only)
func (h *Handler) RespondToMessage(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	messageId := chi.URLParam(r, "message")

	var reqBody struct {
		Response string `validate:"required" json:"response"`
	}
	if err := utils.DecodeValidate(r.Body, &reqBody); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.messages.Respond(*user, messageId, reqBody.Response); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
