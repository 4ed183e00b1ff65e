package dto

import (
	"time"

	"go-dental-clinic/internal/domain/availability"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// CreateAppointmentRequest takes either start_at (RFC3339) or date plus time in the clinic timezone
type CreateAppointmentRequest struct {
	DoctorID  uuid.UUID        `json:"doctor_id" validate:"required"`
	PatientID uuid.UUID        `json:"patient_id" validate:"required"`
	StartAt   *time.Time       `json:"start_at" validate:"required_without=Date"`
	Date      string           `json:"date" validate:"required_without=StartAt,omitempty,date"`
	Time      string           `json:"time" validate:"required_with=Date,omitempty,clock"`
	Procedure string           `json:"procedure" validate:"required"`
	Price     *decimal.Decimal `json:"price" validate:"omitempty"`
	Notes     string           `json:"notes" validate:"omitempty,max=2000"`
}

type RescheduleAppointmentRequest struct {
	StartAt *time.Time `json:"start_at" validate:"required_without=Date"`
	Date    string     `json:"date" validate:"required_without=StartAt,omitempty,date"`
	Time    string     `json:"time" validate:"required_with=Date,omitempty,clock"`
}

type AttendAppointmentRequest struct {
	Price *decimal.Decimal `json:"price" validate:"omitempty"`
	Notes string           `json:"notes" validate:"omitempty,max=2000"`
}

// AppointmentListQuery comes from the query string
type AppointmentListQuery struct {
	Date     string
	DoctorID uuid.UUID
	Status   string
}

// Response DTOs

type SlotListResponse struct {
	DoctorID uuid.UUID           `json:"doctor_id"`
	Date     string              `json:"date"`
	Timezone string              `json:"timezone"`
	Slots    []availability.Slot `json:"slots"`
}

type AppointmentResponse struct {
	ID          uuid.UUID       `json:"id"`
	DoctorID    uuid.UUID       `json:"doctor_id"`
	DoctorName  string          `json:"doctor_name,omitempty"`
	PatientID   uuid.UUID       `json:"patient_id"`
	PatientName string          `json:"patient_name,omitempty"`
	StartAt     time.Time       `json:"start_at"`
	Status      string          `json:"status"`
	Procedure   string          `json:"procedure"`
	Price       decimal.Decimal `json:"price"`
	Notes       string          `json:"notes,omitempty"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
	AttendedAt  *time.Time      `json:"attended_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
