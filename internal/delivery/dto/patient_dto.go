package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePatientRequest struct {
	FullName       string `json:"full_name" validate:"required,min=2,max=255"`
	DocumentNumber string `json:"document_number" validate:"required,max=30"`
	DateOfBirth    string `json:"date_of_birth" validate:"required,date"`
	Gender         string `json:"gender" validate:"required,oneof=M F O"`
	PhoneNumber    string `json:"phone_number" validate:"omitempty,min=8,max=20"`
	Email          string `json:"email" validate:"omitempty,email"`
	Address        string `json:"address" validate:"omitempty"`
	Notes          string `json:"notes" validate:"omitempty"`
}

type UpdatePatientRequest struct {
	FullName       string `json:"full_name" validate:"omitempty,min=2,max=255"`
	DocumentNumber string `json:"document_number" validate:"omitempty,max=30"`
	DateOfBirth    string `json:"date_of_birth" validate:"omitempty,date"`
	Gender         string `json:"gender" validate:"omitempty,oneof=M F O"`
	PhoneNumber    string `json:"phone_number" validate:"omitempty,min=8,max=20"`
	Email          string `json:"email" validate:"omitempty,email"`
	Address        string `json:"address" validate:"omitempty"`
	Notes          string `json:"notes" validate:"omitempty"`
}

// PatientListQuery comes from the query string
type PatientListQuery struct {
	Search string
	Page   int
	Limit  int
}

type PatientResponse struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	DocumentNumber string    `json:"document_number"`
	DateOfBirth    string    `json:"date_of_birth"`
	Gender         string    `json:"gender"`
	PhoneNumber    string    `json:"phone_number,omitempty"`
	Email          string    `json:"email,omitempty"`
	Address        string    `json:"address,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int64             `json:"total"`
}
