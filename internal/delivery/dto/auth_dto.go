package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// RegisterClinicRequest opens a new clinic together with its first admin account
type RegisterClinicRequest struct {
	ClinicName string `json:"clinic_name" validate:"required,min=2,max=255"`
	Timezone   string `json:"timezone" validate:"omitempty,timezone"`
	Phone      string `json:"phone" validate:"omitempty,max=20"`
	Address    string `json:"address" validate:"omitempty"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	FullName   string `json:"full_name" validate:"required,min=2"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CreateStaffRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=2"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID            uuid.UUID              `json:"id"`
	ClinicID      uuid.UUID              `json:"clinic_id"`
	Email         string                 `json:"email"`
	FullName      string                 `json:"full_name"`
	Role          string                 `json:"role"`
	IsActive      bool                   `json:"is_active"`
	DoctorProfile *DoctorProfileResponse `json:"doctor_profile,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

type RegisterClinicResponse struct {
	Clinic ClinicResponse `json:"clinic"`
	Admin  UserResponse   `json:"admin"`
}
