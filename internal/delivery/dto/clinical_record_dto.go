package dto

import (
	"time"

	"go-dental-clinic/internal/domain/entity"

	"github.com/google/uuid"
)

type UpsertAnamnesisRequest struct {
	ChiefComplaint string      `json:"chief_complaint" validate:"omitempty,max=2000"`
	Allergies      string      `json:"allergies" validate:"omitempty,max=2000"`
	Medications    string      `json:"medications" validate:"omitempty,max=2000"`
	Answers        entity.JSON `json:"answers" validate:"omitempty"`
	Notes          string      `json:"notes" validate:"omitempty"`
}

type AnamnesisResponse struct {
	PatientID      uuid.UUID   `json:"patient_id"`
	ChiefComplaint string      `json:"chief_complaint"`
	Allergies      string      `json:"allergies"`
	Medications    string      `json:"medications"`
	Answers        entity.JSON `json:"answers"`
	Notes          string      `json:"notes"`
	UpdatedBy      uuid.UUID   `json:"updated_by"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type CreateOdontogramMarkRequest struct {
	Tooth     int    `json:"tooth" validate:"required,fdi_tooth"`
	Surface   string `json:"surface" validate:"required,oneof=mesial distal occlusal buccal lingual whole"`
	Condition string `json:"condition" validate:"required,oneof=caries restoration crown missing extraction root_canal sealant implant"`
	Notes     string `json:"notes" validate:"omitempty,max=2000"`
}

type OdontogramMarkResponse struct {
	ID         uuid.UUID `json:"id"`
	Tooth      int       `json:"tooth"`
	Surface    string    `json:"surface"`
	Condition  string    `json:"condition"`
	Notes      string    `json:"notes,omitempty"`
	RecordedBy uuid.UUID `json:"recorded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

type OdontogramResponse struct {
	PatientID uuid.UUID                `json:"patient_id"`
	Marks     []OdontogramMarkResponse `json:"marks"`
}
