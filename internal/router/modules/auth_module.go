package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ardiansyahdev/account-service/internal/container"
	handlers "github.com/ardiansyahdev/account-service/internal/interface/http"
	"github.com/ardiansyahdev/account-service/internal/interface/middleware"
	"github.com/ardiansyahdev/account-service/pkg/helpers"
)

// AuthModule wires the authentication routes.
// Public: POST /api/auth/signup, /api/auth/login, /api/auth/logout,
// /api/auth/verification-code.
// Protected: GET/PUT /api/auth/me, POST /api/auth/me/avatar.
type AuthModule struct {
	Auth  *handlers.AuthHandler
	Users *handlers.UserHandler
	JWT   *helpers.JWTManager
}

func NewAuthModule(a *handlers.AuthHandler, u *handlers.UserHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Auth: a, Users: u, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())
	codeLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath())

	rg.POST("/auth/signup", signupLimiter, m.Auth.Signup)
	rg.POST("/auth/login", loginLimiter, m.Auth.Login)
	rg.POST("/auth/logout", m.Auth.Logout)
	rg.POST("/auth/verification-code", codeLimiter, m.Auth.RequestVerificationCode)

	auth := rg.Group("/")
	auth.Use(middleware.JWTAuth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.GET("/auth/me", m.Users.Me)
		auth.PUT("/auth/me", m.Users.UpdateMe)
		auth.POST("/auth/me/avatar", m.Users.UploadAvatar)
	}
}
