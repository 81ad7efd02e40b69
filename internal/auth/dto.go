package auth

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email,max=255"`
	Password   string `json:"password" validate:"required,min=8,max=128"`
	FirstName  string `json:"first_name" validate:"required,max=255"`
	MiddleName string `json:"middle_name" validate:"max=255"`
	LastName   string `json:"last_name" validate:"required,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name,omitempty" validate:"omitempty,max=255"`
	MiddleName *string `json:"middle_name,omitempty" validate:"omitempty,max=255"`
	LastName   *string `json:"last_name,omitempty" validate:"omitempty,max=255"`
}

type accountResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionResponse struct {
	User  accountResponse `json:"user"`
	Token string          `json:"token"`
}
