package handler

import (
	"net/http"

	"github.com/hoahub-dev/hoahub/internal/domain"
	internal_errors "github.com/hoahub-dev/hoahub/internal/errors"
	"github.com/hoahub-dev/hoahub/internal/middleware/metrics"
	"github.com/hoahub-dev/hoahub/internal/service"
	"github.com/hoahub-dev/hoahub/internal/utils"
)

type credentials struct {
	Email    string `validate:"required" json:"email"`
	Password string `validate:"required" json:"password"`
}

// Register handles POST /v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var reqBody struct {
		Email       string `validate:"required" json:"email"`
		Password    string `validate:"required" json:"password"`
		FirstName   string `validate:"required" json:"first_name"`
		LastName    string `validate:"required" json:"last_name"`
		CommunityId string `validate:"required" json:"community_id"`
		Tier        string `validate:"required" json:"tier"`
	}
	if err := utils.DecodeValidate(r.Body, &reqBody); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	err := h.auth.Register(domain.Registration{
		Email:       reqBody.Email,
		Password:    reqBody.Password,
		FirstName:   reqBody.FirstName,
		LastName:    reqBody.LastName,
		CommunityId: reqBody.CommunityId,
		Tier:        reqBody.Tier,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write([]byte("Created. Check your email for a login code"))
}

// Login handles POST /v1/auth/login. On success a one-time code is sent
// to the user's email; the access token is issued by VerifyOtp.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := utils.DecodeValidate(r.Body, &creds); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.auth.Login(domain.Credentials{Email: creds.Email, Password: creds.Password}); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Check your email for a login code"))
}

// VerifyOtp handles POST /v1/auth/verify_otp
func (h *Handler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	var reqBody struct {
		Email string `validate:"required" json:"email"`
		Code  string `validate:"required" json:"code"`
	}
	if err := utils.DecodeValidate(r.Body, &reqBody); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	accessToken, err := h.auth.VerifyOtp(reqBody.Email, reqBody.Code)
	metrics.ObserveOtpVerification(otpOutcome(err))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	cookie := &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    accessToken,
		MaxAge:   int(h.cfg.JwtTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
	}
	http.SetCookie(w, cookie)

	writeJSON(w, map[string]string{"access_token": accessToken})
}

// Logout handles POST /v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie := &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
	}
	http.SetCookie(w, cookie)

	w.WriteHeader(http.StatusOK)
}

func otpOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case internal_errors.Is[*internal_errors.InvalidCodeError](err):
		return "invalid"
	case err == service.ErrOtpExpired:
		return "expired"
	case err == service.ErrOtpTooManyAttempts:
		return "locked"
	case err == service.ErrOtpNotFound:
		return "not_found"
	}
	return "error"
}
