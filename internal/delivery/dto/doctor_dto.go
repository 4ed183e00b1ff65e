package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

// AvailabilityRequest is a weekly range, Sunday=0. The range does not wrap around the week.
type AvailabilityRequest struct {
	FromWeekday *int   `json:"from_weekday" validate:"required,weekday"`
	ToWeekday   *int   `json:"to_weekday" validate:"required,weekday,gtefield=FromWeekday"`
	FromTime    string `json:"from_time" validate:"required,clock"`
	ToTime      string `json:"to_time" validate:"required,clock,clock_after=FromTime"`
}

type CreateDoctorRequest struct {
	Email         string              `json:"email" validate:"required,email"`
	Password      string              `json:"password" validate:"required,min=8"`
	FullName      string              `json:"full_name" validate:"required,min=2"`
	LicenseNumber string              `json:"license_number" validate:"required,max=50"`
	Specialty     string              `json:"specialty" validate:"required,max=100"`
	Biography     string              `json:"biography" validate:"omitempty"`
	Availability  AvailabilityRequest `json:"availability"`
}

type UpdateDoctorRequest struct {
	Email         string `json:"email" validate:"omitempty,email"`
	Password      string `json:"password" validate:"omitempty,min=8"`
	FullName      string `json:"full_name" validate:"omitempty,min=2"`
	LicenseNumber string `json:"license_number" validate:"omitempty,max=50"`
	Specialty     string `json:"specialty" validate:"omitempty,max=100"`
	Biography     string `json:"biography" validate:"omitempty"`
	IsActive      *bool  `json:"is_active" validate:"omitempty"`
}

// Response DTOs

type AvailabilityResponse struct {
	FromWeekday int    `json:"from_weekday"`
	ToWeekday   int    `json:"to_weekday"`
	FromTime    string `json:"from_time"`
	ToTime      string `json:"to_time"`
}

type DoctorProfileResponse struct {
	LicenseNumber string               `json:"license_number"`
	Specialty     string               `json:"specialty"`
	Biography     string               `json:"biography,omitempty"`
	Availability  AvailabilityResponse `json:"availability"`
}

type DoctorResponse struct {
	ID            uuid.UUID            `json:"id"`
	Email         string               `json:"email"`
	FullName      string               `json:"full_name"`
	LicenseNumber string               `json:"license_number"`
	Specialty     string               `json:"specialty"`
	Biography     string               `json:"biography,omitempty"`
	IsActive      bool                 `json:"is_active"`
	Availability  AvailabilityResponse `json:"availability"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
