package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a clinic's patient record. Patients do not log in.
type Patient struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID       uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`
	FullName       string    `gorm:"type:varchar(255);not null;index" json:"full_name"`
	DocumentNumber string    `gorm:"type:varchar(30);not null" json:"document_number"`
	DateOfBirth    time.Time `gorm:"type:date;not null" json:"date_of_birth"`
	Gender         string    `gorm:"type:char(1);not null" json:"gender"`
	PhoneNumber    string    `gorm:"type:varchar(20);index" json:"phone_number,omitempty"`
	Email          string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Address        string    `gorm:"type:text" json:"address,omitempty"`
	Notes          string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// Gender constants
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)
