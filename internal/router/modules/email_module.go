package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/frontfolio/frontfolio-api/internal/domain/entity"
	handlers "github.com/frontfolio/frontfolio-api/internal/interface/http"
	"github.com/frontfolio/frontfolio-api/internal/interface/middleware"
	"github.com/frontfolio/frontfolio-api/pkg/helpers"
)

// EmailModule registers the raw enqueue endpoint, restricted to admins.
type EmailModule struct {
	Handler *handlers.EmailHandler
	JWT     *helpers.JWTManager
}

func NewEmailModule(h *handlers.EmailHandler, jwt *helpers.JWTManager) *EmailModule {
	return &EmailModule{Handler: h, JWT: jwt}
}

func (m *EmailModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT), middleware.RequireRole(entity.RoleAdmin))
	{
		auth.POST("/emails/send", m.Handler.Send)
	}
}
