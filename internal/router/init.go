package router

import (
	"github.com/frontfolio/frontfolio-api/internal/application"
	"github.com/frontfolio/frontfolio-api/internal/container"
	pginfra "github.com/frontfolio/frontfolio-api/internal/infrastructure/postgres"
	handlers "github.com/frontfolio/frontfolio-api/internal/interface/http"
	"github.com/frontfolio/frontfolio-api/internal/router/modules"
)

type IdentityDeps struct {
	Service *application.Service
	Auth    *handlers.AuthHandler
	User    *handlers.UserHandler
	Email   *handlers.EmailHandler
}

func buildIdentityDeps() IdentityDeps {
	cfg := container.GetConfig()

	users := pginfra.NewUserRepository(container.GetPGPool())
	otps := application.NewOTPService(pginfra.NewOTPRepository(container.GetPGPool()))

	svc := application.NewService(
		users,
		otps,
		container.GetJWT(),
		container.GetRabbitPub(),
		cfg.AppName,
	)
	svc.Redis = container.GetRedis()
	svc.Logger = container.GetLogger()
	svc.ES = container.GetES()
	svc.ESUsersIndex = cfg.ESUsersIndex
	svc.GCS = container.GetGCS()
	svc.GCSBucket = cfg.GCSBucket

	return IdentityDeps{
		Service: svc,
		Auth:    handlers.NewAuthHandler(svc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure),
		User:    handlers.NewUserHandler(svc, container.GetLogger()),
		Email:   handlers.NewEmailHandler(container.GetRabbitPub(), container.GetLogger()),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildIdentityDeps()
	jwt := container.GetJWT()

	r.Add(modules.NewAuthModule(deps.Auth, jwt))
	r.Add(modules.NewUserModule(deps.User, jwt))
	r.Add(modules.NewEmailModule(deps.Email, jwt))
	r.Add(modules.NewDebugModule())
}
