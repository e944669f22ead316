package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/frontfolio/frontfolio-api/internal/application"
	"github.com/frontfolio/frontfolio-api/internal/interface/middleware"
	"github.com/frontfolio/frontfolio-api/pkg/helpers"
	"github.com/frontfolio/frontfolio-api/pkg/response"
	"github.com/frontfolio/frontfolio-api/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.Service
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.Service, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type otpVerificationRequest struct {
	Email   string `json:"email" binding:"required,email"`
	OTPCode string `json:"otp_code" binding:"required,otp"`
}

type resetPasswordRequest struct {
	ResetToken string `json:"reset_token" binding:"required"`
	Password   string `json:"password" binding:"required,pwd"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	view, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrEmailAlreadyRegistered) {
			response.Error[any](c, http.StatusConflict, "email already registered", nil)
			return
		}
		h.internal(c, err, "register failed")
		return
	}
	response.Success(c, http.StatusCreated, view, "user registered", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	token, exp, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "no account for this email", nil)
		case errors.Is(err, application.ErrPasswordIncorrect):
			response.Error[any](c, http.StatusUnauthorized, "incorrect password", nil)
		default:
			h.internal(c, err, "login failed")
		}
		return
	}
	h.Cookies.SetAccess(c, token, exp)
	response.Success(c, http.StatusOK, gin.H{"token": token}, "login successful", map[string]any{"expires_at": exp})
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// EmailVerificationRequest POST /api/auth/email-verification/request
func (h *AuthHandler) EmailVerificationRequest(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.RequestEmailConfirmation(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "no account for this email", nil)
			return
		}
		h.internal(c, err, "email verification request failed")
		return
	}
	response.NoContent(c)
}

// VerifyEmail POST /api/auth/email-verification/verify
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req otpVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ConfirmEmail(c.Request.Context(), req.Email, req.OTPCode); err != nil {
		h.otpError(c, err, "email verification failed")
		return
	}
	response.NoContent(c)
}

// PasswordResetRequest POST /api/auth/password-reset/request
func (h *AuthHandler) PasswordResetRequest(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "no account for this email", nil)
			return
		}
		h.internal(c, err, "password reset request failed")
		return
	}
	response.NoContent(c)
}

// VerifyResetOTP POST /api/auth/password-reset/verify-otp
func (h *AuthHandler) VerifyResetOTP(c *gin.Context) {
	var req otpVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	token, exp, err := h.Svc.VerifyResetOTP(c.Request.Context(), req.Email, req.OTPCode)
	if err != nil {
		h.otpError(c, err, "reset otp verification failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reset_token": token}, "otp verified", map[string]any{"expires_at": exp})
}

// ResetPassword PATCH /api/auth/password-reset/reset
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req.ResetToken, req.Password); err != nil {
		switch {
		case errors.Is(err, helpers.ErrTokenExpired):
			response.Error[any](c, http.StatusUnauthorized, "reset token expired, request a new code", nil)
		case errors.Is(err, helpers.ErrTokenInvalid):
			response.Error[any](c, http.StatusUnauthorized, "invalid reset token", nil)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user no longer exists", nil)
		default:
			h.internal(c, err, "password reset failed")
		}
		return
	}
	response.NoContent(c)
}

// Me GET /api/auth/me (auth required)
func (h *AuthHandler) Me(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	view, err := h.Svc.CachedView(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.internal(c, err, "me lookup failed")
		return
	}
	response.Success(c, http.StatusOK, view, "me", nil)
}

// otpError maps the OTP verification error kinds shared by both flows.
func (h *AuthHandler) otpError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, application.ErrNoActiveOTP):
		response.Error[any](c, http.StatusBadRequest, "no valid or active code for this email", nil)
	case errors.Is(err, application.ErrOTPMismatch):
		response.Error[any](c, http.StatusUnauthorized, "invalid code, please check and try again", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "no account for this email", nil)
	default:
		h.internal(c, err, logMsg)
	}
}

func (h *AuthHandler) internal(c *gin.Context, err error, msg string) {
	if h.Logger != nil {
		h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(msg)
	}
	response.Error[any](c, http.StatusInternalServerError, "the server encountered an unexpected issue, please try again later", nil)
}
