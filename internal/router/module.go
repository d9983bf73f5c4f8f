package router

import "github.com/gin-gonic/gin"

// Module is a feature area (auth, users) that attaches its routes to the
// shared /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
