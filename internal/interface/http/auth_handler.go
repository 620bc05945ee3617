package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/internal/domain/factory"
	"github.com/oksasatya/vital-identity/internal/interface/middleware"
	"github.com/oksasatya/vital-identity/pkg/helpers"
	"github.com/oksasatya/vital-identity/pkg/response"
)

type AuthHandler struct {
	Svc     AuthUseCases
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAuthHandler(svc AuthUseCases, logger *logrus.Logger, cookies *helpers.CookieManager) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: cookies}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Gender      string `json:"gender" binding:"required,gender"`
	DateOfBirth string `json:"date_of_birth" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required,phone10"`
	IDNumber    string `json:"id_number"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type passwordRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/generate-auth-token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, pair, "login successful", nil)
}

// Register handles POST /auth/register. Self-registration always yields the user role.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), factory.UserInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Location:    req.Location,
		Gender:      req.Gender,
		Role:        string(entity.RoleUser),
		DateOfBirth: req.DateOfBirth,
		PhoneNumber: req.PhoneNumber,
		IDNumber:    req.IDNumber,
	})
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toUserView(u), "user registered", nil)
}

// Refresh handles POST /auth/refresh-token. The refresh token comes from the body or
// the refresh_token cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)
	token := req.RefreshToken
	if token == "" {
		token, _ = c.Cookie(helpers.RefreshCookie)
	}
	if token == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Svc.RefreshWithToken(c.Request.Context(), token)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, pair, "token refreshed", nil)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

// GenerateVerificationCode handles POST /auth/generate-verification-code?email=.
func (h *AuthHandler) GenerateVerificationCode(c *gin.Context) {
	email, ok := h.ownEmail(c)
	if !ok {
		return
	}
	cb, err := h.Svc.GenerateVerificationCode(c.Request.Context(), email)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, cb, "verification code sent", nil)
}

// VerifyAccount handles POST /auth/verify-account?email=&verificationCode=.
func (h *AuthHandler) VerifyAccount(c *gin.Context) {
	email, ok := h.ownEmail(c)
	if !ok {
		return
	}
	if err := h.Svc.VerifyAccount(c.Request.Context(), email, c.Query("verificationCode")); err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"verified": true}, "account verified", nil)
}

// GeneratePasswordResetCode handles POST /auth/generate-reset-token?email=.
func (h *AuthHandler) GeneratePasswordResetCode(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.Error[any](c, http.StatusBadRequest, "email is required", map[string]string{"field": "email"})
		return
	}
	cb, err := h.Svc.GeneratePasswordResetCode(c.Request.Context(), email)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusAccepted, cb, "password reset code sent", nil)
}

// PasswordReset handles POST /auth/password-reset?email=&passwordResetCode=.
func (h *AuthHandler) PasswordReset(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	err := h.Svc.PasswordReset(c.Request.Context(), c.Query("email"), c.Query("passwordResetCode"), req.Password)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"reset": true}, "password updated", nil)
}

// ownEmail returns the email query parameter when it names the authenticated caller.
func (h *AuthHandler) ownEmail(c *gin.Context) (string, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthenticated", nil)
		return "", false
	}
	email := c.Query("email")
	if email == "" || email != p.Email {
		response.Error[any](c, http.StatusUnauthorized, "email does not match the authenticated user", nil)
		return "", false
	}
	return email, true
}
