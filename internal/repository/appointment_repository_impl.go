package repository

import (
	"context"
	"errors"
	"time"

	"go-dental-clinic/internal/domain/entity"
	domainRepo "go-dental-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return db.WithContext(ctx).Omit("Doctor", "Patient").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.WithContext(ctx).Preload("Doctor.User").Preload("Patient").
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByIDForUpdate(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByDoctorAndDay(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, dayStart, dayEnd time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.WithContext(ctx).
		Where("doctor_id = ? AND start_at >= ? AND start_at < ?", doctorID, dayStart, dayEnd).
		Order("start_at ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindAll(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	query := db.WithContext(ctx).Preload("Doctor.User").Preload("Patient").
		Where("clinic_id = ?", clinicID)

	if filter != nil {
		if !filter.From.IsZero() {
			query = query.Where("start_at >= ?", filter.From)
		}
		if !filter.To.IsZero() {
			query = query.Where("start_at < ?", filter.To)
		}
		if filter.DoctorID != uuid.Nil {
			query = query.Where("doctor_id = ?", filter.DoctorID)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
	}

	var appointments []entity.Appointment
	if err := query.Order("start_at ASC").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return db.WithContext(ctx).Omit("Doctor", "Patient").Save(appointment).Error
}
