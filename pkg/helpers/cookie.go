package helpers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthCookieName is the session cookie. Its value is "Bearer <token>".
const AuthCookieName = "Authorization"

const bearerPrefix = "Bearer "

// Manager sets and clears the session cookie. The cookie is HttpOnly with
// SameSite=Strict; Secure follows the environment.
type Manager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

func (m *Manager) Set(c *gin.Context, token string, exp time.Time) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AuthCookieName, bearerPrefix+token, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AuthCookieName, "", -1, "/", m.Domain, m.Secure, true)
}

// BearerToken extracts the raw token from the session cookie.
func BearerToken(c *gin.Context) (string, bool) {
	v, err := c.Cookie(AuthCookieName)
	if err != nil || !strings.HasPrefix(v, bearerPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(v, bearerPrefix)
	return token, token != ""
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
