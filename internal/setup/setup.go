package setup

import (
	"context"

	"github.com/hoahub-dev/hoahub/internal/config"
	"github.com/hoahub-dev/hoahub/internal/handler"
	"github.com/hoahub-dev/hoahub/internal/render"
	"github.com/hoahub-dev/hoahub/internal/service"
	"github.com/hoahub-dev/hoahub/internal/storage/pg"
	"github.com/hoahub-dev/hoahub/internal/utils/email"
	"github.com/hoahub-dev/hoahub/internal/utils/jwt"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Storage *pg.Storage
	Handler *handler.Handler
	Jwt     jwt.JwtService
	Config  *config.Config
}

// SetupDependencies initializes all dependencies required for the application.
// The OTP background sweep runs until ctx is cancelled.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	email := email.New(&cfg.Private.Email)
	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	text := render.New()

	otp := service.NewOtpStore(cfg.OtpTTL(), cfg.Public.OtpMaxAttempts)
	otp.StartBackgroundSweep(ctx, cfg.OtpSweepInterval())

	auth := service.NewAuth(storage, email, jwtService, otp)
	boardVerify := service.NewBoardVerification(storage, cfg.Public.BoardQuorum)
	complaints := service.NewComplaint(storage, text)
	messages := service.NewMessage(storage, text, cfg.Public.MessagesPerPage)
	invites := service.NewInvite(storage, email)
	documents := service.NewDocument(storage)
	users := service.NewUsers(storage)

	h := handler.New(auth, boardVerify, complaints, messages, invites, documents, users, storage, cfg)

	return &Dependencies{
		Storage: storage,
		Handler: h,
		Jwt:     jwtService,
		Config:  cfg,
	}, nil
}
