package repository

import (
	"context"
	"time"

	"go-dental-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Appointment, error)
	// FindByIDForUpdate locks the row until the transaction in db ends
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Appointment, error)
	// FindByDoctorAndDay returns every appointment of the doctor starting in [dayStart, dayEnd), cancelled included
	FindByDoctorAndDay(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, dayStart, dayEnd time.Time) ([]entity.Appointment, error)
	FindAll(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, filter *entity.AppointmentFilter) ([]entity.Appointment, error)
	Update(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
}
