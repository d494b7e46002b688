package contracts

import "time"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type UserNameUpdateRequest struct {
	Name string `json:"name" binding:"required,max=150"`
}

type UserPasswordUpdateRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type UserRoleUpdateRequest struct {
	Role string `json:"role" binding:"required,oneof=ADMIN STAFF"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
