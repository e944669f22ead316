package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/frontfolio/frontfolio-api/internal/interface/http"
	"github.com/frontfolio/frontfolio-api/internal/interface/middleware"
	"github.com/frontfolio/frontfolio-api/pkg/helpers"
)

// UserModule registers the profile and search routes; all of them require auth.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/users/profile", m.Handler.GetProfile)
		auth.PATCH("/users/profile", m.Handler.UpdateProfile)
		auth.POST("/users/profile/avatar", m.Handler.UploadAvatar)
		auth.GET("/users/search", m.Handler.Search)
	}
}
