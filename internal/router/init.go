package router

import (
	"github.com/ardiansyahdev/account-service/internal/application"
	"github.com/ardiansyahdev/account-service/internal/container"
	pginfra "github.com/ardiansyahdev/account-service/internal/infrastructure/postgres"
	handlers "github.com/ardiansyahdev/account-service/internal/interface/http"
	"github.com/ardiansyahdev/account-service/internal/router/modules"
)

// InitModules builds the service graph from the container singletons and
// registers every feature module. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	// A typed-nil publisher must not end up inside the interface.
	var sink application.EmailEnqueuer
	if pub := container.GetRabbitPub(); pub != nil {
		sink = pub
	}

	authSvc := application.NewAuthService(
		repo,
		container.GetJWT(),
		sink,
		container.GetLogger(),
		container.GetES(),
		cfg.ESUsersIndex,
		cfg.AppName,
		cfg.MailSendEnabled,
		cfg.VerificationCodeTTL,
	)
	userSvc := application.NewUserService(
		repo,
		container.GetLogger(),
		container.GetES(),
		cfg.ESUsersIndex,
		container.GetGCS(),
		cfg.GCSBucket,
	)

	authHandler := handlers.NewAuthHandler(authSvc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure || cfg.IsProduction())
	userHandler := handlers.NewUserHandler(userSvc, container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler, userHandler, container.GetJWT()))
	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
}
