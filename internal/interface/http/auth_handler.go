package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ardiansyahdev/account-service/internal/application"
	repo "github.com/ardiansyahdev/account-service/internal/domain/repository"
	"github.com/ardiansyahdev/account-service/pkg/helpers"
	"github.com/ardiansyahdev/account-service/pkg/response"
	"github.com/ardiansyahdev/account-service/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

// Signup POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var in validation.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in.Normalize()
	if details := validation.Check(&in); details != nil {
		response.Fail(c, http.StatusBadRequest, "validation failed", details)
		return
	}

	u, sess, err := h.Svc.Signup(c.Request.Context(), application.SignupParams{
		Name:     in.Name,
		UserName: in.UserName,
		Phone:    in.Phone,
		Email:    in.Email,
		Role:     in.Role,
		Password: in.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrEmailTaken):
			response.Fail(c, http.StatusConflict, "user already exists with this email", map[string]string{"email": "already in use"})
		case errors.Is(err, repo.ErrUsernameTaken):
			response.Fail(c, http.StatusConflict, "user already exists with this username", map[string]string{"userName": "already in use"})
		default:
			h.Logger.WithError(err).Error("signup failed")
			response.Error(c, http.StatusInternalServerError, "something went wrong during registration")
		}
		return
	}

	h.Cookies.Set(c, sess.Token, sess.ExpiresAt)
	response.Success(c, http.StatusCreated, gin.H{
		"user":  presentUser(u),
		"token": sess.Token,
	}, "user registered successfully")
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in validation.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in.Normalize()
	if details := validation.Check(&in); details != nil {
		response.Fail(c, http.StatusBadRequest, "validation failed", details)
		return
	}

	u, sess, err := h.Svc.Login(c.Request.Context(), in.LoginID, in.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidCredentials):
			response.Fail(c, http.StatusUnauthorized, "invalid login credentials", nil)
		case errors.Is(err, application.ErrEmailNotVerified):
			response.Fail(c, http.StatusForbidden, "account is not verified", nil)
		default:
			h.Logger.WithError(err).Error("login failed")
			response.Error(c, http.StatusInternalServerError, "something went wrong during login")
		}
		return
	}

	h.Cookies.Set(c, sess.Token, sess.ExpiresAt)
	response.Success(c, http.StatusOK, gin.H{
		"user":  presentUser(u),
		"token": sess.Token,
	}, "login successful")
}

// Logout POST /api/auth/logout
// Stateless: clears the cookie only. The token stays valid until its natural
// expiry; there is no server-side denylist.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, nil, "logged out successfully")
}

// RequestVerificationCode POST /api/auth/verification-code
// The code travels only through the notification channel, never the body.
func (h *AuthHandler) RequestVerificationCode(c *gin.Context) {
	var in validation.VerificationCodeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in.Normalize()
	if details := validation.Check(&in); details != nil {
		response.Fail(c, http.StatusBadRequest, "validation failed", details)
		return
	}

	err := h.Svc.RequestVerificationCode(c.Request.Context(), in.Email)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			response.Fail(c, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, application.ErrAlreadyVerified):
			response.Fail(c, http.StatusConflict, "account is already verified", nil)
		default:
			h.Logger.WithError(err).Error("verification code request failed")
			response.Error(c, http.StatusInternalServerError, "failed to send verification code")
		}
		return
	}

	response.Success(c, http.StatusOK, nil, "verification code sent")
}
