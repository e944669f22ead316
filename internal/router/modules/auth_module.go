package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/frontfolio/frontfolio-api/internal/interface/http"
	"github.com/frontfolio/frontfolio-api/internal/interface/middleware"
	"github.com/frontfolio/frontfolio-api/pkg/helpers"
)

// AuthModule registers the identity flows.
// Public: register, login, email-verification, password-reset.
// Protected: /auth/me, /auth/logout.
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/register", m.Handler.Register)
	rg.POST("/auth/login", m.Handler.Login)

	rg.POST("/auth/email-verification/request", m.Handler.EmailVerificationRequest)
	rg.POST("/auth/email-verification/verify", m.Handler.VerifyEmail)

	rg.POST("/auth/password-reset/request", m.Handler.PasswordResetRequest)
	rg.POST("/auth/password-reset/verify-otp", m.Handler.VerifyResetOTP)
	rg.PATCH("/auth/password-reset/reset", m.Handler.ResetPassword)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/auth/me", m.Handler.Me)
		auth.POST("/auth/logout", m.Handler.Logout)
	}
}
