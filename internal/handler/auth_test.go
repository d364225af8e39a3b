package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hoahub-dev/hoahub/internal/config"
	"github.com/hoahub-dev/hoahub/internal/domain"
	internal_errors "github.com/hoahub-dev/hoahub/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockAuthService struct {
	RegisterFunc  func(reg domain.Registration) error
	LoginFunc     func(creds domain.Credentials) error
	VerifyOtpFunc func(email domain.Email, code string) (string, error)
}

func (m *MockAuthService) Register(reg domain.Registration) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(reg)
	}
	return nil
}

func (m *MockAuthService) Login(creds domain.Credentials) error {
	if m.LoginFunc != nil {
		return m.LoginFunc(creds)
	}
	return nil
}

func (m *MockAuthService) VerifyOtp(email domain.Email, code string) (string, error) {
	if m.VerifyOtpFunc != nil {
		return m.VerifyOtpFunc(email, code)
	}
	return "test_token", nil
}

func testConfig() *config.Config {
	return &config.Config{Public: config.Public{JwtTTLHours: 24}}
}

func TestRegister(t *testing.T) {
	route := "/v1/auth/register"
	requestBody := []byte(`{
		"email": "resident@example.com",
		"password": "password",
		"first_name": "Pat",
		"last_name": "Alvarez",
		"community_id": "maple-grove",
		"tier": "solo"
	}`)

	t.Run("successful request", func(t *testing.T) {
		mockService := &MockAuthService{}
		h := &Handler{auth: mockService, cfg: testConfig()}
		router := chi.NewRouter()
		router.Post(route, h.Register)

		var got domain.Registration
		mockService.RegisterFunc = func(reg domain.Registration) error {
			got = reg
			return nil
		}

		req := createRequest(t, http.MethodPost, route, requestBody)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), "Check your email")
		assert.Equal(t, "resident@example.com", got.Email)
		assert.Equal(t, domain.TierSolo, got.Tier)
	})

	t.Run("invalid request body", func(t *testing.T) {
		h := &Handler{auth: &MockAuthService{}, cfg: testConfig()}
		router := chi.NewRouter()
		router.Post(route, h.Register)

		req := createRequest(t, http.MethodPost, route, []byte(`{invalid json::}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing required fields", func(t *testing.T) {
		h := &Handler{auth: &MockAuthService{}, cfg: testConfig()}
		router := chi.NewRouter()
		router.Post(route, h.Register)

		req := createRequest(t, http.MethodPost, route, []byte(`{"email": "resident@example.com"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockService := &MockAuthService{
			RegisterFunc: func(reg domain.Registration) error {
				return &internal_errors.ErrorWithStatusCode{Message: "User already exists", StatusCode: http.StatusConflict}
			},
		}
		h := &Handler{auth: mockService, cfg: testConfig()}
		router := chi.NewRouter()
		router.Post(route, h.Register)

		req := createRequest(t, http.MethodPost, route, requestBody)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestLogin(t *testing.T) {
	route := "/v1/auth/login"
	requestBody := []byte(`{"email": "resident@example.com", "password": "password"}`)

	t.Run("successful request sends no token yet", func(t *testing.T) {
		h := &Handler{auth: &MockAuthService{}, cfg: testConfig()}
		router := chi.NewRouter()
		router.Post(route, h.Login)

		req := createRequest(t, http.MethodPost, route, requestBody)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Check your email")
		assert.Empty(t, rr.Result().Cookies(), "no access token before the code is verified")
	})

	t.Run("invalid credentials", func(t *testing.T) {
		mockService := &MockAuthService{
			LoginFunc: func(creds domain.Credentials) error {
				return &internal_errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
			},
		}
		h := &Handler{auth: mockService, cfg: testConfig()}
		router := chi.NewRouter()
		router.Post(route, h.Login)

		req := createRequest(t, http.MethodPost, route, requestBody)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("invalid request body", func(t *testing.T) {
		h := &Handler{auth: &MockAuthService{}, cfg: testConfig()}
		router := chi.NewRouter()
		router.Post(route, h.Login)

		req := createRequest(t, http.MethodPost, route, []byte(`{invalid json::}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestVerifyOtp(t *testing.T) {
	route := "/v1/auth/verify_otp"
	requestBody := []byte(`{"email": "resident@example.com", "code": "123456"}`)

	t.Run("successful request sets cookie and returns token", func(t *testing.T) {
		h := &Handler{auth: &MockAuthService{}, cfg: testConfig()}
		router := chi.NewRouter()
		router.Post(route, h.VerifyOtp)

		req := createRequest(t, http.MethodPost, route, requestBody)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "accessToken", cookies[0].Name)
		assert.Equal(t, "test_token", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, 24*60*60, cookies[0].MaxAge)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "test_token", body["access_token"])
	})

	t.Run("wrong code", func(t *testing.T) {
		mockService := &MockAuthService{
			VerifyOtpFunc: func(email domain.Email, code string) (string, error) {
				return "", &internal_errors.InvalidCodeError{Attempts: 1, MaxAttempts: 3}
			},
		}
		h := &Handler{auth: mockService, cfg: testConfig()}
		router := chi.NewRouter()
		router.Post(route, h.VerifyOtp)

		req := createRequest(t, http.MethodPost, route, requestBody)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Attempt 1 of 3")
		assert.Empty(t, rr.Result().Cookies())
	})

	t.Run("expired code", func(t *testing.T) {
		mockService := &MockAuthService{
			VerifyOtpFunc: func(email domain.Email, code string) (string, error) {
				return "", &internal_errors.ErrorWithStatusCode{Message: "OTP expired", StatusCode: http.StatusGone}
			},
		}
		h := &Handler{auth: mockService, cfg: testConfig()}
		router := chi.NewRouter()
		router.Post(route, h.VerifyOtp)

		req := createRequest(t, http.MethodPost, route, requestBody)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusGone, rr.Code)
	})

	t.Run("invalid request body", func(t *testing.T) {
		h := &Handler{auth: &MockAuthService{}, cfg: testConfig()}
		router := chi.NewRouter()
		router.Post(route, h.VerifyOtp)

		req := createRequest(t, http.MethodPost, route, []byte(`{"email": "resident@example.com"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLogout(t *testing.T) {
	route := "/v1/auth/logout"

	h := &Handler{auth: &MockAuthService{}, cfg: testConfig()}
	router := chi.NewRouter()
	router.Post(route, h.Logout)

	req := createRequest(t, http.MethodPost, route, nil, &http.Cookie{Name: "accessToken", Value: "test_token"})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "accessToken", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
