package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hoahub-dev/hoahub/internal/config"
	"github.com/hoahub-dev/hoahub/internal/logger"
	"github.com/hoahub-dev/hoahub/internal/service"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth        service.AuthService
	boardVerify *service.BoardVerification
	complaints  service.ComplaintService
	messages    service.MessageService
	invites     service.InviteService
	documents   service.DocumentService
	users       service.UserService
	health      HealthChecker
	cfg         *config.Config
}

func New(
	auth service.AuthService,
	boardVerify *service.BoardVerification,
	complaints service.ComplaintService,
	messages service.MessageService,
	invites service.InviteService,
	documents service.DocumentService,
	users service.UserService,
	health HealthChecker,
	cfg *config.Config,
) *Handler {
	return &Handler{auth, boardVerify, complaints, messages, invites, documents, users, health, cfg}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
