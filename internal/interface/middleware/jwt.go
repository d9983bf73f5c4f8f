package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ardiansyahdev/account-service/pkg/helpers"
	"github.com/ardiansyahdev/account-service/pkg/response"
)

const CtxUserIDKey = "userID"

// JWTAuth reads the Authorization cookie ("Bearer <token>"), validates the
// token and injects the identity claims into the context. Tokens are
// stateless: there is no server-side session to consult.
func JWTAuth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := helpers.BearerToken(c)
		if !ok {
			response.Fail(c, http.StatusUnauthorized, "missing session token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "invalid session token", nil)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set("userEmail", claims.Email)
		c.Set("userRole", claims.Role)
		c.Next()
	}
}
