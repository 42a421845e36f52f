package packets

import (
	"time"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

// returned for profile endpoints
type ProfileResponse struct {
	ID                  int     `json:"id"`
	Username            string  `json:"username"`
	Name                *string `json:"name"`
	Grade               *string `json:"grade,omitempty"`
	Class               *string `json:"class,omitempty"`
	Role                string  `json:"role"`
	ForcePasswordChange bool    `json:"force_password_change"`
	LastLogin           *string `json:"last_login,omitempty"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

type LoginResponse struct {
	Token string          `json:"token"`
	User  ProfileResponse `json:"user"`
}

func NewProfileResponse(u model.User) ProfileResponse {
	p := ProfileResponse{
		ID:                  u.ID,
		Username:            u.Username,
		Name:                u.Name,
		Grade:               u.Grade,
		Class:               u.Class,
		Role:                string(u.Role),
		ForcePasswordChange: u.ForcePasswordChange,
		CreatedAt:           u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           u.UpdatedAt.Format(time.RFC3339),
	}
	if u.LastLogin != nil {
		s := u.LastLogin.Format(time.RFC3339)
		p.LastLogin = &s
	}
	return p
}
