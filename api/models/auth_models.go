// api/models/auth_models.go
package models

import "github.com/myfood/myfood-backend/internal/domain"

// --- Auth Request/Response Structs ---

// RegisterRequest defines the structure for the register request body
type RegisterRequest struct {
	Email           string   `json:"email" binding:"required,email"`
	Password        string   `json:"password" binding:"required,min=6"`
	ConfirmPassword string   `json:"confirmPassword" binding:"required,eqfield=Password"`
	Name            string   `json:"name" binding:"required"`
	Image           *string  `json:"image"`
	Height          *float64 `json:"height" binding:"omitempty,gt=0"`
	Weight          *float64 `json:"weight" binding:"omitempty,gt=0"`
	Age             *int     `json:"age" binding:"omitempty,gt=0"`
	GoalWeight      *float64 `json:"goalWeight" binding:"omitempty,gt=0"`
}

func (r RegisterRequest) ToRegistration() domain.Registration {
	return domain.Registration{
		Email:           r.Email,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
		Name:            r.Name,
		Image:           r.Image,
		Height:          r.Height,
		Weight:          r.Weight,
		Age:             r.Age,
		GoalWeight:      r.GoalWeight,
	}
}

// LoginRequest defines the structure for the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    domain.User `json:"user"`
}

// UpdateUserRequest defines the PATCH /users/:id body; omitted fields are unchanged
type UpdateUserRequest struct {
	Email      *string  `json:"email" binding:"omitempty,email"`
	Password   *string  `json:"password" binding:"omitempty,min=6"`
	Name       *string  `json:"name" binding:"omitempty,min=1"`
	Image      *string  `json:"image"`
	Height     *float64 `json:"height" binding:"omitempty,gt=0"`
	Weight     *float64 `json:"weight" binding:"omitempty,gt=0"`
	Age        *int     `json:"age" binding:"omitempty,gt=0"`
	GoalWeight *float64 `json:"goalWeight" binding:"omitempty,gt=0"`
}

func (r UpdateUserRequest) ToPatch() domain.UserPatch {
	return domain.UserPatch{
		Email:      r.Email,
		Password:   r.Password,
		Name:       r.Name,
		Image:      r.Image,
		Height:     r.Height,
		Weight:     r.Weight,
		Age:        r.Age,
		GoalWeight: r.GoalWeight,
	}
}
