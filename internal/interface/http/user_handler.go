package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ardiansyahdev/account-service/internal/application"
	"github.com/ardiansyahdev/account-service/pkg/response"
	"github.com/ardiansyahdev/account-service/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// isCanonicalUUID accepts only the 36-char dashed form; uuid.Parse alone
// would also admit braced and urn:uuid: variants.
func isCanonicalUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// GetByID GET /api/user/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	if !isCanonicalUUID(id) {
		response.Fail(c, http.StatusBadRequest, "invalid user id format", nil)
		return
	}

	u, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get user failed")
		response.Error(c, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": presentUser(u)}, "user fetched successfully")
}

// List GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list users failed")
		response.Error(c, http.StatusInternalServerError, "failed to fetch users")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"results": len(users),
		"users":   presentUsers(users),
	}, "user data fetched successfully")
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Fail(c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("user search failed")
		response.Error(c, http.StatusInternalServerError, "search failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": len(hits), "users": hits}, "search results")
}

// Me GET /api/auth/me (protected)
func (h *UserHandler) Me(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.GetByID(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get profile failed")
		response.Error(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": presentUser(u)}, "profile")
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// UpdateMe PUT /api/auth/me (protected)
func (h *UserHandler) UpdateMe(c *gin.Context) {
	uid := c.GetString("userID")
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, application.UpdateProfileInput{Name: req.Name, Phone: req.Phone})
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("update profile failed")
		response.Error(c, http.StatusInternalServerError, "failed to update profile")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": presentUser(u)}, "profile updated")
}

// UploadAvatar POST /api/auth/me/avatar (protected, multipart)
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	uid := c.GetString("userID")

	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.Logger.WithError(err).Error("open upload failed")
		response.Error(c, http.StatusInternalServerError, "failed to read upload")
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), uid, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("avatar upload failed")
		response.Error(c, http.StatusInternalServerError, "failed to upload avatar")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatarUrl": url}, "avatar updated")
}
