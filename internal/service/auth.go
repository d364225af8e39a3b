package service

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/hoahub-dev/hoahub/internal/domain"
	internal_errors "github.com/hoahub-dev/hoahub/internal/errors"
	"github.com/hoahub-dev/hoahub/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(reg domain.Registration) error
	Login(creds domain.Credentials) error
	VerifyOtp(email domain.Email, code string) (string, error)
}

type AuthStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	User(email domain.Email) (domain.User, error)
	PendingInvite(tenantEmail domain.Email) (domain.TenantInvite, error)
	AcceptInvite(id string) error
}

type Email interface {
	Send(recipientEmail, subject, body string) error
	IsCorrect(email domain.Email) error
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

type Auth struct {
	storage AuthStorage
	email   Email
	jwt     Jwt
	otp     *OtpStore
}

func NewAuth(storage AuthStorage, email Email, jwt Jwt, otp *OtpStore) *Auth {
	return &Auth{
		storage: storage,
		email:   email,
		jwt:     jwt,
		otp:     otp,
	}
}

// Register creates the account and sends the first login code. If a
// pending tenant invite exists for the email, the account joins the
// landlord's community as a tenant and the invite is consumed.
func (a *Auth) Register(reg domain.Registration) error {
	email := strings.ToLower(reg.Email)

	if err := a.email.IsCorrect(email); err != nil {
		return err
	}
	if !domain.ValidTier(reg.Tier) {
		return &internal_errors.ErrorWithStatusCode{Message: "Unknown subscription tier", StatusCode: http.StatusBadRequest}
	}

	_, err := a.storage.User(email)
	if err == nil {
		return &internal_errors.ErrorWithStatusCode{Message: "User with this email already exists", StatusCode: http.StatusConflict}
	}
	if !internal_errors.IsNotFound(err) {
		return err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return err
	}

	user := domain.User{
		Email:       email,
		PassHash:    string(passHash),
		Role:        domain.RoleResident,
		Tier:        reg.Tier,
		CommunityId: reg.CommunityId,
		FirstName:   reg.FirstName,
		LastName:    reg.LastName,
	}

	invite, err := a.storage.PendingInvite(email)
	if err == nil {
		user.IsTenant = true
		user.CommunityId = invite.CommunityId
	} else if !internal_errors.IsNotFound(err) {
		return err
	}

	if _, err := a.storage.SaveUser(user); err != nil {
		return err
	}
	if user.IsTenant {
		if err := a.storage.AcceptInvite(invite.Id); err != nil {
			return err
		}
	}

	return a.sendLoginCode(email)
}

// Login checks the password and sends a one-time code to the user's
// email. The access token is only issued once VerifyOtp succeeds.
func (a *Auth) Login(creds domain.Credentials) error {
	email := strings.ToLower(creds.Email)

	if err := a.email.IsCorrect(email); err != nil {
		return err
	}

	user, err := a.storage.User(email)
	if err != nil {
		// to not leak existing users
		if internal_errors.IsNotFound(err) {
			return &internal_errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		logger.Log.Error("password verification failed", "error", err)
		return &internal_errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
	}

	return a.sendLoginCode(email)
}

// VerifyOtp exchanges a valid code for an access token.
func (a *Auth) VerifyOtp(email domain.Email, code string) (string, error) {
	email = strings.ToLower(email)

	if err := a.otp.Verify(email, code); err != nil {
		return "", err
	}

	user, err := a.storage.User(email)
	if err != nil {
		return "", err
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		logger.Log.Error("failed to create jwt token", "user_id", user.Id, "error", err)
		return "", err
	}
	return token, nil
}

func (a *Auth) sendLoginCode(email domain.Email) error {
	code, err := a.otp.Issue(email)
	if err != nil {
		logger.Log.Error("failed to generate OTP", "error", err)
		return err
	}

	body := fmt.Sprintf(`
		Hello,

		Your one-time login code below

		%s

		The code expires shortly. If you did not request this, please ignore this email.
	`, code)

	// Delivery runs in the background so a slow SMTP server can't stall
	// the request. A failed send just means the user requests a new code.
	go func() {
		if err := a.email.Send(email, "Your HoaHub login code", body); err != nil {
			logger.Log.Error("failed to send OTP email", "error", err)
		}
	}()

	return nil
}
