package repository

import (
	"context"

	"go-dental-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Patient, error)
	FindAll(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, search string, limit, offset int) ([]entity.Patient, int64, error)
	Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	Delete(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (int64, error)
}
