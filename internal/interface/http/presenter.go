package handlers

import (
	"time"

	"github.com/ardiansyahdev/account-service/internal/domain/entity"
)

// userPayload is the outward-facing account representation. Password hash,
// verification/reset codes and the lockout bookkeeping never appear here.
type userPayload struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	UserName  string     `json:"userName"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	Verified  bool       `json:"verified"`
	AvatarURL string     `json:"avatarUrl,omitempty"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func presentUser(u *entity.User) userPayload {
	return userPayload{
		ID:        u.ID,
		Name:      u.Name,
		UserName:  u.UserName,
		Phone:     u.Phone,
		Email:     u.Email,
		Role:      string(u.Role),
		Status:    string(u.Status),
		Verified:  u.Verified,
		AvatarURL: u.AvatarURL,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func presentUsers(users []*entity.User) []userPayload {
	out := make([]userPayload, 0, len(users))
	for _, u := range users {
		out = append(out, presentUser(u))
	}
	return out
}
