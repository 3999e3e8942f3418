package dto

import "github.com/google/uuid"

type SignupRequest struct {
	Email      string `json:"email" validate:"required,email,max=255"`
	ScreenName string `json:"screen_name" validate:"required,min=3,max=50"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ScreenNameRequest struct {
	ScreenName string `json:"screen_name" validate:"required,min=3,max=50"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	ScreenName string    `json:"screen_name,omitempty"`
}

type ScreenNameResponse struct {
	ID         uuid.UUID `json:"id"`
	ScreenName string    `json:"screen_name"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
