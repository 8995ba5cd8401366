package dto

import "github.com/rescueplate/backend/internal/entity"

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=4,max=20"`
	Password string `json:"password" binding:"required,min=4,max=20"`
	Role     string `json:"role" binding:"required,oneof=donor recipient"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *entity.User `json:"user"`
	Role        *entity.Role `json:"role"`
}

type RegisterResponse struct {
	User *entity.User `json:"user"`
}
