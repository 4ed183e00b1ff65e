package entity

import (
	"time"

	"github.com/google/uuid"
)

// Anamnesis is the medical history questionnaire of a patient, one per patient
type Anamnesis struct {
	PatientID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"patient_id"`
	ClinicID       uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`
	ChiefComplaint string    `gorm:"type:text" json:"chief_complaint,omitempty"`
	Allergies      string    `gorm:"type:text" json:"allergies,omitempty"`
	Medications    string    `gorm:"type:text" json:"medications,omitempty"`
	Answers        JSON      `gorm:"type:jsonb" json:"answers,omitempty"`
	Notes          string    `gorm:"type:text" json:"notes,omitempty"`
	UpdatedBy      uuid.UUID `gorm:"type:uuid;not null" json:"updated_by"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Anamnesis) TableName() string {
	return "anamneses"
}

type ToothSurface string

const (
	SurfaceMesial   ToothSurface = "mesial"
	SurfaceDistal   ToothSurface = "distal"
	SurfaceOcclusal ToothSurface = "occlusal"
	SurfaceBuccal   ToothSurface = "buccal"
	SurfaceLingual  ToothSurface = "lingual"
	SurfaceWhole    ToothSurface = "whole"
)

func (s ToothSurface) Valid() bool {
	switch s {
	case SurfaceMesial, SurfaceDistal, SurfaceOcclusal, SurfaceBuccal, SurfaceLingual, SurfaceWhole:
		return true
	}
	return false
}

type ToothCondition string

const (
	ConditionCaries      ToothCondition = "caries"
	ConditionRestoration ToothCondition = "restoration"
	ConditionCrown       ToothCondition = "crown"
	ConditionMissing     ToothCondition = "missing"
	ConditionExtraction  ToothCondition = "extraction"
	ConditionRootCanal   ToothCondition = "root_canal"
	ConditionSealant     ToothCondition = "sealant"
	ConditionImplant     ToothCondition = "implant"
)

func (c ToothCondition) Valid() bool {
	switch c {
	case ConditionCaries, ConditionRestoration, ConditionCrown, ConditionMissing,
		ConditionExtraction, ConditionRootCanal, ConditionSealant, ConditionImplant:
		return true
	}
	return false
}

// OdontogramMark is one charted finding on a tooth surface
type OdontogramMark struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"clinic_id"`
	PatientID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"patient_id"`
	Tooth      int            `gorm:"not null" json:"tooth"`
	Surface    ToothSurface   `gorm:"type:varchar(20);not null" json:"surface"`
	Condition  ToothCondition `gorm:"type:varchar(30);not null" json:"condition"`
	Notes      string         `gorm:"type:text" json:"notes,omitempty"`
	RecordedBy uuid.UUID      `gorm:"type:uuid;not null" json:"recorded_by"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (OdontogramMark) TableName() string {
	return "odontogram_marks"
}
