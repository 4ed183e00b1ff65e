package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidTransition = errors.New("invalid appointment status transition")

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled   AppointmentStatus = "scheduled"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
	AppointmentStatusAttended    AppointmentStatus = "attended"
	AppointmentStatusNoShow      AppointmentStatus = "no_show"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusRescheduled, AppointmentStatusCancelled,
		AppointmentStatusAttended, AppointmentStatusNoShow:
		return true
	}
	return false
}

// IsOpen reports whether the appointment can still change state
func (s AppointmentStatus) IsOpen() bool {
	return s == AppointmentStatusScheduled || s == AppointmentStatusRescheduled
}

// Procedure is the dental procedure an appointment is booked for
type Procedure string

const (
	ProcedureConsultation Procedure = "consultation"
	ProcedureCleaning     Procedure = "cleaning"
	ProcedureFilling      Procedure = "filling"
	ProcedureExtraction   Procedure = "extraction"
	ProcedureRootCanal    Procedure = "root_canal"
	ProcedureOrthodontics Procedure = "orthodontics"
	ProcedureWhitening    Procedure = "whitening"
	ProcedureImplant      Procedure = "implant"
	ProcedureProsthesis   Procedure = "prosthesis"
	ProcedureEmergency    Procedure = "emergency"
)

var procedures = []Procedure{
	ProcedureConsultation, ProcedureCleaning, ProcedureFilling, ProcedureExtraction, ProcedureRootCanal,
	ProcedureOrthodontics, ProcedureWhitening, ProcedureImplant, ProcedureProsthesis, ProcedureEmergency,
}

func (p Procedure) Valid() bool {
	for _, known := range procedures {
		if p == known {
			return true
		}
	}
	return false
}

// Appointment represents a booked visit of a patient with a doctor
type Appointment struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"clinic_id"`
	DoctorID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_doctor_start" json:"doctor_id"`
	PatientID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	StartAt     time.Time         `gorm:"type:timestamptz;not null;index:idx_appointments_doctor_start" json:"start_at"`
	Status      AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Procedure   Procedure         `gorm:"type:varchar(50);not null" json:"procedure"`
	Price       decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Notes       string            `gorm:"type:text" json:"notes,omitempty"`
	CancelledAt *time.Time        `json:"cancelled_at,omitempty"`
	AttendedAt  *time.Time        `json:"attended_at,omitempty"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor  DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient Patient       `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a Appointment) StartTime() time.Time {
	return a.StartAt
}

// IsBlocking reports whether the appointment occupies its slot
func (a Appointment) IsBlocking() bool {
	return a.Status != AppointmentStatusCancelled
}

func (a *Appointment) Cancel(now time.Time) error {
	if !a.Status.IsOpen() {
		return ErrInvalidTransition
	}
	a.Status = AppointmentStatusCancelled
	a.CancelledAt = &now
	return nil
}

func (a *Appointment) Attend(now time.Time) error {
	if !a.Status.IsOpen() {
		return ErrInvalidTransition
	}
	a.Status = AppointmentStatusAttended
	a.AttendedAt = &now
	return nil
}

func (a *Appointment) MarkNoShow() error {
	if !a.Status.IsOpen() {
		return ErrInvalidTransition
	}
	a.Status = AppointmentStatusNoShow
	return nil
}

func (a *Appointment) Reschedule(startAt time.Time) error {
	if !a.Status.IsOpen() {
		return ErrInvalidTransition
	}
	a.StartAt = startAt
	a.Status = AppointmentStatusRescheduled
	return nil
}
