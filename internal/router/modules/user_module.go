package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ardiansyahdev/account-service/internal/container"
	handlers "github.com/ardiansyahdev/account-service/internal/interface/http"
	"github.com/ardiansyahdev/account-service/internal/interface/middleware"
	"github.com/ardiansyahdev/account-service/pkg/helpers"
)

// UserModule wires the account read routes.
// Public: GET /api/user/:id, GET /api/users.
// Protected: GET /api/users/search (Elasticsearch).
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP())

	rg.GET("/user/:id", readLimiter, m.Handler.GetByID)
	rg.GET("/users", readLimiter, m.Handler.List)

	auth := rg.Group("/")
	auth.Use(middleware.JWTAuth(m.JWT))
	{
		auth.GET("/users/search", m.Handler.Search)
	}
}
