package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardiansyahdev/account-service/pkg/helpers"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.Use(RequestIDMiddleware())
	e.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	id := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())
}

func TestRealIPHeaderPriority(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.Use(RealIP())
	e.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("real_ip"))
	})

	get := func(headers map[string]string) string {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		e.ServeHTTP(w, req)
		return w.Body.String()
	}

	assert.Equal(t, "203.0.113.9", get(map[string]string{
		"CF-Connecting-IP": "203.0.113.9",
		"X-Forwarded-For":  "198.51.100.1",
	}))
	assert.Equal(t, "198.51.100.1", get(map[string]string{
		"X-Forwarded-For": "198.51.100.1, 10.0.0.1",
	}))
	assert.NotEmpty(t, get(nil))
}

func TestJWTAuthInjectsClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwt := helpers.NewJWTManager("test-secret", time.Hour)

	e := gin.New()
	e.Use(JWTAuth(jwt))
	e.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserIDKey)+"|"+c.GetString("userEmail"))
	})

	// No cookie.
	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Cookie without the Bearer prefix.
	token, _, err := jwt.Generate("u-1", "ana@x.com", "user")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AuthCookieName, Value: token})
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid session cookie.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AuthCookieName, Value: "Bearer " + token})
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1|ana@x.com", w.Body.String())
}
