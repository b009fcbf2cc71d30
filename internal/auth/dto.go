package auth

import (
	"github.com/angelmondragon/storefront/internal/session"
	"github.com/angelmondragon/storefront/pkg/auth/cookie"
)

// LoginRequest captures the credentials posted to the backend.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    session.User `json:"user"`
}

// LoginResult is what a successful login leaves behind.
type LoginResult struct {
	Message string        `json:"message"`
	User    session.User  `json:"user"`
	Cookie  cookie.Cookie `json:"-"`
}
