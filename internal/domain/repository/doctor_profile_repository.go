package repository

import (
	"context"

	"go-dental-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error
	FindByUserID(ctx context.Context, db *gorm.DB, clinicID, userID uuid.UUID) (*entity.DoctorProfile, error)
	FindAll(ctx context.Context, db *gorm.DB, clinicID uuid.UUID) ([]entity.DoctorProfile, error)
	Update(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error
}
