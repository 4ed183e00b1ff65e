package entity

import (
	"time"

	"go-dental-clinic/internal/domain/availability"

	"github.com/google/uuid"
)

// DoctorProfile represents dentist-specific profile data, including the weekly
// availability the slot computation runs on
type DoctorProfile struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	ClinicID      uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`
	LicenseNumber string    `gorm:"type:varchar(50);not null" json:"license_number"`
	Specialty     string    `gorm:"type:varchar(100);not null;index" json:"specialty"`
	Biography     string    `gorm:"type:text" json:"biography,omitempty"`
	FromWeekday   int       `gorm:"not null" json:"from_weekday"`
	ToWeekday     int       `gorm:"not null" json:"to_weekday"`
	FromTime      string    `gorm:"type:time;not null;default:'08:00:00'" json:"from_time"`
	ToTime        string    `gorm:"type:time;not null;default:'18:00:00'" json:"to_time"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}

// Schedule converts the stored availability columns to the slot computation input
func (d *DoctorProfile) Schedule() (availability.Schedule, error) {
	from, err := availability.ParseClock(d.FromTime)
	if err != nil {
		return availability.Schedule{}, err
	}
	to, err := availability.ParseClock(d.ToTime)
	if err != nil {
		return availability.Schedule{}, err
	}
	return availability.Schedule{
		FromWeekday: time.Weekday(d.FromWeekday),
		ToWeekday:   time.Weekday(d.ToWeekday),
		FromTime:    from,
		ToTime:      to,
	}, nil
}
